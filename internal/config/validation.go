package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// Validate validates the global configuration.
func Validate(config *Config) error {
	if config == nil {
		return NewConfigError(ConfigValidationFailed, "", "configuration cannot be nil")
	}
	if strings.TrimSpace(config.Slot) == "" {
		return NewConfigErrorWithField(ConfigValidationFailed, "", "slot", "slot cannot be empty")
	}
	if config.Jobs < 0 {
		return NewConfigErrorWithField(ConfigValidationFailed, "", "jobs", "jobs cannot be negative")
	}
	if config.Includes.Keyword == "" {
		return NewConfigErrorWithField(ConfigValidationFailed, "", "includes.keyword", "keyword cannot be empty")
	}
	if err := validateExtensions("", "includes.extensions", config.Includes.Extensions); err != nil {
		return err
	}
	if err := validatePatterns("", "includes.skip_patterns", config.Includes.SkipPatterns); err != nil {
		return err
	}
	if err := validateDomain("", "renumber.domain", config.Renumber.Domain); err != nil {
		return err
	}
	for i, name := range config.StandardLibraries {
		if strings.TrimSpace(name) == "" {
			return NewConfigErrorWithField(ConfigValidationFailed, "",
				fmt.Sprintf("standard_libraries[%d]", i), "library name cannot be empty")
		}
	}
	if config.Output.Quiet && config.Output.Verbose {
		return NewConfigErrorWithField(ConfigValidationFailed, "", "output", "quiet and verbose are mutually exclusive")
	}
	return nil
}

func validateExtensions(file, field string, exts []string) error {
	for i, ext := range exts {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return NewConfigErrorWithField(ConfigValidationFailed, file,
				fmt.Sprintf("%s[%d]", field, i), fmt.Sprintf("extension %q must start with a dot", ext))
		}
	}
	return nil
}

func validatePatterns(file, field string, patterns []string) error {
	for i, p := range patterns {
		if _, err := filepath.Match(p, ""); errors.Is(err, filepath.ErrBadPattern) {
			return NewConfigErrorWithField(ConfigValidationFailed, file,
				fmt.Sprintf("%s[%d]", field, i), fmt.Sprintf("invalid glob pattern %q", p))
		}
	}
	return nil
}

func validateDomain(file, field, domain string) error {
	if domain == "" {
		return nil
	}
	if _, err := regexp.Compile(domain); err != nil {
		return &ConfigError{
			Type:    ConfigValidationFailed,
			File:    file,
			Field:   field,
			Message: fmt.Sprintf("invalid value domain %q", domain),
			Cause:   err,
		}
	}
	return nil
}

// validateSlotCount checks that tmpl contains slot exactly once.
func validateSlotCount(file, field, tmpl, slot string) error {
	if n := strings.Count(tmpl, slot); n != 1 {
		return NewConfigErrorWithField(ConfigValidationFailed, file, field,
			fmt.Sprintf("%q must contain slot %q exactly once (found %d)", tmpl, slot, n))
	}
	return nil
}
