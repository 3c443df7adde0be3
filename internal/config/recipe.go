package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/tacogips/drvgen/internal/debug"
	"github.com/tacogips/drvgen/internal/template/model"
	"gopkg.in/yaml.v3"
)

// Recipe is a batch of transformations, usually checked in next to the
// sources it generates.
type Recipe struct {
	// Slot is the instance placeholder. Empty means the global setting.
	Slot string `json:"slot" yaml:"slot" toml:"slot"`
	// Duplicate steps run first, in order.
	Duplicate []DuplicateStep `json:"duplicate" yaml:"duplicate" toml:"duplicate"`
	// Renumber steps run after every duplicate step.
	Renumber []RenumberStep `json:"renumber" yaml:"renumber" toml:"renumber"`
	// SortIncludes runs last.
	SortIncludes *SortIncludesStep `json:"sort_includes" yaml:"sort_includes" toml:"sort_includes"`

	// BaseDir is the directory relative paths resolve against. It is set
	// to the recipe's directory by LoadRecipe.
	BaseDir string `json:"-" yaml:"-" toml:"-"`
	// Path is the file the recipe was loaded from.
	Path string `json:"-" yaml:"-" toml:"-"`
}

// DuplicateStep instantiates a template group.
type DuplicateStep struct {
	Name         string      `json:"name" yaml:"name" toml:"name"`
	Files        []string    `json:"files" yaml:"files" toml:"files"`
	Tokens       []TokenSpec `json:"tokens" yaml:"tokens" toml:"tokens"`
	Source       int         `json:"source" yaml:"source" toml:"source"`
	Destinations []int       `json:"destinations" yaml:"destinations" toml:"destinations"`
}

// RenumberStep renumbers identifier families in one file, or in one file
// per instance when Instances is set.
type RenumberStep struct {
	Name      string    `json:"name" yaml:"name" toml:"name"`
	Path      string    `json:"path" yaml:"path" toml:"path"`
	Instances []int     `json:"instances" yaml:"instances" toml:"instances"`
	Families  []string  `json:"families" yaml:"families" toml:"families"`
	To        ValueList `json:"to" yaml:"to" toml:"to"`
	From      ValueList `json:"from" yaml:"from" toml:"from"`
	Domain    string    `json:"domain" yaml:"domain" toml:"domain"`
}

// SortIncludesStep normalizes include blocks under directory trees.
type SortIncludesStep struct {
	Roots             []string `json:"roots" yaml:"roots" toml:"roots"`
	Skip              []string `json:"skip" yaml:"skip" toml:"skip"`
	Extensions        []string `json:"extensions" yaml:"extensions" toml:"extensions"`
	StandardLibraries []string `json:"standard_libraries" yaml:"standard_libraries" toml:"standard_libraries"`
	StopAtGap         bool     `json:"stop_at_gap" yaml:"stop_at_gap" toml:"stop_at_gap"`
	TrimTrailing      bool     `json:"trim_trailing" yaml:"trim_trailing" toml:"trim_trailing"`
}

// TokenSpec is a token pair template. In recipes it is written either as a
// single string, meaning the same template on both sides, or as {old, new}.
type TokenSpec model.TokenPair

// UnmarshalJSON accepts "Spi?" or {"old": "...", "new": "..."}.
func (t *TokenSpec) UnmarshalJSON(data []byte) error {
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte(`"`)) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = TokenSpec{Old: s, New: s}
		return nil
	}
	var pair model.TokenPair
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	*t = TokenSpec(pair)
	return nil
}

// UnmarshalYAML accepts a scalar or a mapping.
func (t *TokenSpec) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*t = TokenSpec{Old: node.Value, New: node.Value}
		return nil
	}
	var pair model.TokenPair
	if err := node.Decode(&pair); err != nil {
		return err
	}
	*t = TokenSpec(pair)
	return nil
}

// UnmarshalTOML accepts a string or an inline table.
func (t *TokenSpec) UnmarshalTOML(v any) error {
	switch val := v.(type) {
	case string:
		*t = TokenSpec{Old: val, New: val}
	case map[string]any:
		old, _ := val["old"].(string)
		repl, _ := val["new"].(string)
		*t = TokenSpec{Old: old, New: repl}
	default:
		return fmt.Errorf("token must be a string or a table, got %T", v)
	}
	return nil
}

// Pair returns the token as a model.TokenPair.
func (t TokenSpec) Pair() model.TokenPair {
	return model.TokenPair(t)
}

// ValueList is a list of identifier values. Recipes may write values as
// numbers or strings.
type ValueList []string

// UnmarshalJSON accepts an array of strings and numbers.
func (v *ValueList) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(ValueList, len(raw))
	for i, r := range raw {
		var s string
		if err := json.Unmarshal(r, &s); err == nil {
			out[i] = s
			continue
		}
		var n json.Number
		if err := json.Unmarshal(r, &n); err != nil {
			return fmt.Errorf("value %d must be a string or a number", i)
		}
		out[i] = n.String()
	}
	*v = out
	return nil
}

// UnmarshalYAML accepts a sequence of scalars.
func (v *ValueList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode {
		return fmt.Errorf("line %d: values must be a sequence", node.Line)
	}
	out := make(ValueList, len(node.Content))
	for i, item := range node.Content {
		if item.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: value %d must be a scalar", item.Line, i)
		}
		out[i] = item.Value
	}
	*v = out
	return nil
}

// UnmarshalTOML accepts an array of strings and integers.
func (v *ValueList) UnmarshalTOML(data any) error {
	items, ok := data.([]any)
	if !ok {
		return fmt.Errorf("values must be an array, got %T", data)
	}
	out := make(ValueList, len(items))
	for i, item := range items {
		switch val := item.(type) {
		case string:
			out[i] = val
		case int64:
			out[i] = strconv.FormatInt(val, 10)
		default:
			return fmt.Errorf("value %d must be a string or an integer, got %T", i, item)
		}
	}
	*v = out
	return nil
}

// LoadRecipe reads a recipe, choosing the decoder by file extension
// (.json, .yaml, .yml or .toml), and validates it.
func LoadRecipe(path string) (*Recipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, NewConfigErrorWithCause(ConfigNotFound, path, "recipe file not found", err)
		}
		return nil, NewConfigErrorWithCause(ConfigInvalid, path, "failed to read recipe file", err)
	}

	recipe, err := ParseRecipe(data, filepath.Ext(path))
	if err != nil {
		var cfgErr *ConfigError
		if errors.As(err, &cfgErr) {
			cfgErr.File = path
		}
		return nil, err
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, NewConfigErrorWithCause(ConfigInvalid, path, "failed to resolve recipe path", err)
	}
	recipe.Path = absPath
	recipe.BaseDir = filepath.Dir(absPath)

	if err := ValidateRecipe(recipe); err != nil {
		var cfgErr *ConfigError
		if errors.As(err, &cfgErr) && cfgErr.File == "" {
			cfgErr.File = path
		}
		return nil, err
	}

	debug.Debug("[config] Loaded recipe %s: %d duplicate, %d renumber steps",
		path, len(recipe.Duplicate), len(recipe.Renumber))
	return recipe, nil
}

// ParseRecipe decodes a recipe in the format named by ext. Unknown fields
// are rejected for JSON and YAML.
func ParseRecipe(data []byte, ext string) (*Recipe, error) {
	var recipe Recipe
	switch strings.ToLower(ext) {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&recipe); err != nil {
			return nil, NewConfigErrorWithCause(ConfigInvalid, "", "invalid JSON recipe", err)
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&recipe); err != nil {
			return nil, NewConfigErrorWithCause(ConfigInvalid, "", "invalid YAML recipe", err)
		}
	case ".toml":
		if _, err := toml.Decode(string(data), &recipe); err != nil {
			return nil, NewConfigErrorWithCause(ConfigInvalid, "", "invalid TOML recipe", err)
		}
	default:
		return nil, NewConfigError(ConfigInvalid, "",
			fmt.Sprintf("unsupported recipe format %q (use .json, .yaml, .yml or .toml)", ext))
	}
	return &recipe, nil
}

// Resolve makes path absolute against the recipe's directory.
func (r *Recipe) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) || r.BaseDir == "" {
		return path
	}
	return filepath.Join(r.BaseDir, path)
}

// SlotOr returns the recipe slot, or fallback when none is set.
func (r *Recipe) SlotOr(fallback string) string {
	if r.Slot != "" {
		return r.Slot
	}
	if fallback != "" {
		return fallback
	}
	return model.DefaultSlot
}

// Group converts the step into a template group.
func (s DuplicateStep) Group(slot string) model.TemplateGroup {
	tokens := make([]model.TokenPair, len(s.Tokens))
	for i, t := range s.Tokens {
		tokens[i] = t.Pair()
	}
	return model.TemplateGroup{Files: s.Files, Tokens: tokens, Slot: slot}
}

// Label names the step in messages.
func (s DuplicateStep) Label(index int) string {
	if s.Name != "" {
		return s.Name
	}
	return fmt.Sprintf("duplicate[%d]", index)
}

// Label names the step in messages.
func (s RenumberStep) Label(index int) string {
	if s.Name != "" {
		return s.Name
	}
	return fmt.Sprintf("renumber[%d]", index)
}

// Paths returns the files the step applies to, binding slot to every
// instance when Instances is set.
func (s RenumberStep) Paths(slot string) []string {
	if len(s.Instances) == 0 {
		return []string{s.Path}
	}
	paths := make([]string, len(s.Instances))
	for i, inst := range s.Instances {
		paths[i] = model.Bind(s.Path, slot, inst)
	}
	return paths
}

// ValidateRecipe checks the structural invariants of every step.
func ValidateRecipe(r *Recipe) error {
	if r == nil {
		return NewConfigError(ConfigValidationFailed, "", "recipe cannot be nil")
	}
	if len(r.Duplicate) == 0 && len(r.Renumber) == 0 && r.SortIncludes == nil {
		return NewConfigError(ConfigValidationFailed, "", "recipe has no steps")
	}
	slot := r.SlotOr("")

	for i, step := range r.Duplicate {
		field := fmt.Sprintf("duplicate[%d]", i)
		if len(step.Files) == 0 {
			return NewConfigErrorWithField(ConfigValidationFailed, "", field+".files", "at least one file is required")
		}
		for j, f := range step.Files {
			if err := validateSlotCount("", fmt.Sprintf("%s.files[%d]", field, j), f, slot); err != nil {
				return err
			}
		}
		for j, tok := range step.Tokens {
			tf := fmt.Sprintf("%s.tokens[%d]", field, j)
			if err := validateSlotCount("", tf+".old", tok.Old, slot); err != nil {
				return err
			}
			if err := validateSlotCount("", tf+".new", tok.New, slot); err != nil {
				return err
			}
		}
	}

	for i, step := range r.Renumber {
		field := fmt.Sprintf("renumber[%d]", i)
		if step.Path == "" {
			return NewConfigErrorWithField(ConfigValidationFailed, "", field+".path", "path is required")
		}
		if len(step.Instances) > 0 {
			if err := validateSlotCount("", field+".path", step.Path, slot); err != nil {
				return err
			}
		}
		if len(step.Families) == 0 {
			return NewConfigErrorWithField(ConfigValidationFailed, "", field+".families", "at least one family is required")
		}
		if len(step.From) > 0 && len(step.From) != len(step.To) {
			return NewConfigErrorWithField(ConfigValidationFailed, "", field+".from",
				fmt.Sprintf("from has %d values but to has %d", len(step.From), len(step.To)))
		}
		if err := validateDomain("", field+".domain", step.Domain); err != nil {
			return err
		}
	}

	if s := r.SortIncludes; s != nil {
		if len(s.Roots) == 0 {
			return NewConfigErrorWithField(ConfigValidationFailed, "", "sort_includes.roots", "at least one root is required")
		}
		if err := validateExtensions("", "sort_includes.extensions", s.Extensions); err != nil {
			return err
		}
		if err := validatePatterns("", "sort_includes.skip", s.Skip); err != nil {
			return err
		}
	}
	return nil
}
