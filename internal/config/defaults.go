package config

import (
	"os"
	"path/filepath"

	"github.com/tacogips/drvgen/internal/template/model"
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Slot:              model.DefaultSlot,
		StandardLibraries: model.DefaultStandardLibraries(),
		Includes: IncludesConfig{
			Keyword:      "#include",
			Extensions:   DefaultExtensions(),
			SkipPatterns: DefaultSkipPatterns(),
		},
		Renumber: RenumberConfig{
			Domain: "[0-9]",
		},
		Jobs: 0,
		Output: OutputConfig{
			Color:   true,
			Verbose: false,
			Quiet:   false,
		},
	}
}

// DefaultExtensions returns the file extensions swept by default.
func DefaultExtensions() []string {
	return []string{".c", ".h"}
}

// DefaultSkipPatterns returns the default skip patterns. Board configuration
// trees are generated by vendor tools and left alone.
func DefaultSkipPatterns() []string {
	return []string{
		"*config*",
		".git",
	}
}

// DefaultConfigPath returns the default configuration file path.
func DefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".config", "drvgen", "config.json")
}
