package config

// Config represents the global drvgen configuration.
type Config struct {
	// Slot is the instance placeholder used in file and token templates.
	Slot string `json:"slot"`
	// StandardLibraries are the include names rendered with angle brackets.
	StandardLibraries []string `json:"standard_libraries"`
	// Includes configures the include normalizer and its directory sweep.
	Includes IncludesConfig `json:"includes"`
	// Renumber configures identifier renumbering.
	Renumber RenumberConfig `json:"renumber"`
	// Jobs is the number of files processed in parallel (0 = one per CPU).
	Jobs int `json:"jobs"`
	// Output configuration for display and logging.
	Output OutputConfig `json:"output"`
}

// IncludesConfig represents include normalization settings.
type IncludesConfig struct {
	// Keyword is the directive keyword.
	Keyword string `json:"keyword"`
	// Extensions are the file extensions swept.
	Extensions []string `json:"extensions"`
	// SkipPatterns are glob patterns of files and directories not swept.
	SkipPatterns []string `json:"skip_patterns"`
	// StopAtGap collects only the first contiguous run of directives.
	StopAtGap bool `json:"stop_at_gap"`
	// TrimTrailing strips trailing whitespace from normalized files.
	TrimTrailing bool `json:"trim_trailing"`
}

// RenumberConfig represents renumbering settings.
type RenumberConfig struct {
	// Domain is the regular expression of an identifier value.
	Domain string `json:"domain"`
}

// OutputConfig represents output and display settings.
type OutputConfig struct {
	// Color enables colored terminal output.
	Color bool `json:"color"`
	// Verbose enables verbose logging output.
	Verbose bool `json:"verbose"`
	// Quiet suppresses non-error output.
	Quiet bool `json:"quiet"`
}
