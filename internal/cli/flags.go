package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tacogips/drvgen/internal/template/model"
)

// Flag names
const (
	FlagConfig       = "config"
	FlagNoColor      = "no-color"
	FlagQuiet        = "quiet"
	FlagDebug        = "debug"
	FlagVerbose      = "verbose"
	FlagDryRun       = "dry-run"
	FlagJobs         = "jobs"
	FlagSlot         = "slot"
	FlagFile         = "file"
	FlagToken        = "token"
	FlagPair         = "pair"
	FlagSource       = "source"
	FlagDest         = "dest"
	FlagBaseDir      = "base-dir"
	FlagConfirm      = "confirm"
	FlagShow         = "show"
	FlagTo           = "to"
	FlagReplace      = "replace"
	FlagFamily       = "family"
	FlagFrom         = "from"
	FlagDomain       = "domain"
	FlagSkip         = "skip"
	FlagExt          = "ext"
	FlagStd          = "std"
	FlagStopAtGap    = "stop-at-gap"
	FlagTrimTrailing = "trim-trailing"
	FlagShort        = "short"
	FlagJSON         = "json"
)

// Flag descriptions
const (
	DescConfig       = "Path to the configuration file (default ~/.config/drvgen/config.json)"
	DescNoColor      = "Disable colored output"
	DescQuiet        = "Suppress non-error output"
	DescDebug        = "Enable debug output"
	DescVerbose      = "List unchanged files too"
	DescDryRun       = "Show what would change without writing files"
	DescJobs         = "Number of files processed concurrently (0 = from config)"
	DescSlot         = "Placeholder replaced by the instance index (default \"?\")"
	DescFile         = "File path template containing the slot (repeatable)"
	DescToken        = "Token template whose slot is bound on both sides (repeatable)"
	DescPair         = "Token template pair OLD=NEW, e.g. SPI?=SPI? (repeatable)"
	DescSource       = "Instance index of the authored template"
	DescDest         = "Destination instance indices, e.g. 2,3 or 2-6"
	DescBaseDir      = "Directory relative file templates are resolved against"
	DescConfirm      = "Ask before overwriting existing files"
	DescRunConfirm   = "Run every step in memory, list the files and ask before writing"
	DescShow         = "Print generated content in dry-run mode"
	DescTo           = "Destination file path (repeatable, paired with sources)"
	DescReplace      = "Literal substitution OLD=NEW (repeatable, applied in order)"
	DescFamily       = "Identifier family with one slot, e.g. DMA? (repeatable)"
	DescRenumberTo   = "New values, e.g. 4,5"
	DescRenumberFrom = "Explicit old values instead of discovery, e.g. 0,2"
	DescDomain       = "Regular expression for one slot value (default [0-9])"
	DescSkip         = "Skip paths matching this pattern (repeatable)"
	DescExt          = "File extension to process (repeatable)"
	DescStd          = "Additional standard library header (repeatable)"
	DescStopAtGap    = "Stop collecting directives at the first non-directive line"
	DescTrimTrailing = "Strip trailing spaces and tabs from every line of files with directives"
	DescShort        = "Print only the version number"
	DescJSON         = "Print version information as JSON"
)

// parseIndexList parses instance indices such as "2,3" or "2-6,9".
func parseIndexList(s string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		lo, hi, isRange := strings.Cut(part, "-")
		start, err := strconv.Atoi(strings.TrimSpace(lo))
		if err != nil || start < 0 {
			return nil, fmt.Errorf("invalid index %q", part)
		}
		end := start
		if isRange {
			end, err = strconv.Atoi(strings.TrimSpace(hi))
			if err != nil || end < start {
				return nil, fmt.Errorf("invalid index range %q", part)
			}
		}
		for i := start; i <= end; i++ {
			out = append(out, i)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no indices in %q", s)
	}
	return out, nil
}

// parseValueList splits a comma separated list of slot values.
func parseValueList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parsePair parses OLD=NEW. The first '=' separates the two sides.
func parsePair(s string) (model.TokenPair, error) {
	oldTok, newTok, ok := strings.Cut(s, "=")
	if !ok || oldTok == "" {
		return model.TokenPair{}, fmt.Errorf("invalid pair %q: expected OLD=NEW", s)
	}
	return model.TokenPair{Old: oldTok, New: newTok}, nil
}

// parsePairs parses every OLD=NEW entry in order.
func parsePairs(entries []string) ([]model.TokenPair, error) {
	pairs := make([]model.TokenPair, 0, len(entries))
	for _, e := range entries {
		p, err := parsePair(e)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, p)
	}
	return pairs, nil
}

// splitDisplayLines splits content for indented display, without a trailing empty line.
func splitDisplayLines(content string) []string {
	content = strings.TrimSuffix(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
	if content == "" {
		return nil
	}
	return strings.Split(content, "\n")
}

// jobsOrConfig returns flag when positive, else the configured job count.
func jobsOrConfig(flag int) int {
	if flag > 0 {
		return flag
	}
	return cfg.Jobs
}
