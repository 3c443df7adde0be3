// Package debug provides the process-wide debug logger enabled by --debug.
package debug

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu      sync.RWMutex
	enabled bool
	noColor bool
	output  io.Writer
	logger  = zap.NewNop()
)

// SetDebug enables or disables debug mode
func SetDebug(enable bool) {
	mu.Lock()
	defer mu.Unlock()
	enabled = enable
	rebuild()
}

// IsEnabled returns whether debug mode is enabled
func IsEnabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return enabled
}

// SetNoColor enables or disables colored output
func SetNoColor(disable bool) {
	mu.Lock()
	defer mu.Unlock()
	noColor = disable
	rebuild()
}

// SetOutput redirects debug output. nil restores stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	rebuild()
}

// Logger returns the current zap logger. It is a no-op logger while debug
// mode is disabled.
func Logger() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Sync flushes buffered log entries.
func Sync() {
	_ = Logger().Sync()
}

// rebuild must be called with mu held.
func rebuild() {
	if !enabled {
		logger = zap.NewNop()
		return
	}

	w := output
	if w == nil {
		w = os.Stderr
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
	encCfg.EncodeLevel = levelEncoder(!noColor)
	encCfg.CallerKey = ""

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.Lock(zapcore.AddSync(w)),
		zap.DebugLevel,
	)
	logger = zap.New(core)
}

func levelEncoder(useColor bool) zapcore.LevelEncoder {
	label := color.New(color.FgCyan)
	return func(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
		s := "[" + l.CapitalString() + "]"
		if useColor {
			s = label.Sprint(s)
		}
		enc.AppendString(s)
	}
}

// Debug prints a debug message with timestamp
func Debug(format string, args ...interface{}) {
	l := Logger()
	if l.Core().Enabled(zap.DebugLevel) {
		l.Debug(fmt.Sprintf(format, args...))
	}
}

// DebugFields logs a message with structured fields.
func DebugFields(msg string, fields ...zap.Field) {
	Logger().Debug(msg, fields...)
}

// DebugSection prints a section header for debug output
func DebugSection(section string) {
	Logger().Debug("=== " + section + " ===")
}

// DebugValue prints key=value style debug info
func DebugValue(key string, value interface{}) {
	l := Logger()
	if l.Core().Enabled(zap.DebugLevel) {
		l.Debug(fmt.Sprintf("%s = %v", key, value))
	}
}

// DebugJSON prints structured data for debugging
func DebugJSON(key string, v interface{}) {
	Logger().Debug(key+":", zap.Any(key, v))
}
