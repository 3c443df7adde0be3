package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Output destinations. color.Output handles ANSI sequences on Windows.
var (
	stdout io.Writer = color.Output
	stderr io.Writer = color.Error
)

var (
	successMark = color.New(color.FgGreen).SprintFunc()
	warningMark = color.New(color.FgYellow).SprintFunc()
	errorMark   = color.New(color.FgRed).SprintFunc()
	headerText  = color.New(color.FgMagenta, color.Bold).SprintFunc()
	progressMk  = color.New(color.FgBlue).SprintFunc()
	dimText     = color.New(color.FgHiBlack).SprintFunc()
)

// printInfo prints an informational message
func printInfo(msg string) {
	if globalQuiet {
		return
	}
	fmt.Fprintln(stdout, msg)
}

// printSuccess prints a success message
func printSuccess(msg string) {
	if globalQuiet {
		return
	}
	fmt.Fprintf(stdout, "%s %s\n", successMark("✓"), msg)
}

// printWarning prints a warning message
func printWarning(msg string) {
	if globalQuiet {
		return
	}
	fmt.Fprintf(stdout, "%s %s\n", warningMark("⚠"), msg)
}

// printErrorMsg prints an error message (different from printError which takes error type)
func printErrorMsg(msg string) {
	fmt.Fprintf(stderr, "%s %s\n", errorMark("✗"), msg)
}

// printVerbose prints a message only in verbose mode
func printVerbose(msg string) {
	if globalQuiet || !globalVerbose {
		return
	}
	fmt.Fprintf(stdout, "%s\n", dimText(msg))
}

// printProgress prints a progress indicator
func printProgress(msg string) {
	if globalQuiet {
		return
	}
	fmt.Fprintf(stdout, "%s %s\n", progressMk("→"), msg)
}

// printHeader prints a section header
func printHeader(title string) {
	if globalQuiet {
		return
	}
	fmt.Fprintf(stdout, "\n%s\n", headerText("=== "+title+" ==="))
}

// printContent prints file content indented, for dry runs.
func printContent(content string) {
	if globalQuiet {
		return
	}
	for _, line := range splitDisplayLines(content) {
		fmt.Fprintf(stdout, "    %s %s\n", dimText("|"), line)
	}
}
