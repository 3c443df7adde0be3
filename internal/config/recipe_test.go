package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tacogips/drvgen/internal/template/model"
)

const jsonRecipe = `{
  "duplicate": [
    {
      "name": "spi",
      "files": ["Spi/Spi?Dma.c", "Spi/Spi?Dma.h"],
      "tokens": ["Spi?", {"old": "SPI?", "new": "SPI?"}],
      "source": 1,
      "destinations": [2, 3]
    }
  ],
  "renumber": [
    {
      "path": "Spi/Spi?Dma.c",
      "instances": [1, 2, 3],
      "families": ["DCH?", "Dma?", "DMA?"],
      "to": [0, "1"],
      "domain": "[0-7]"
    }
  ],
  "sort_includes": {
    "roots": ["."],
    "skip": ["*config*"],
    "trim_trailing": true
  }
}`

const yamlRecipe = `
duplicate:
  - name: spi
    files: [Spi/Spi?Dma.c, Spi/Spi?Dma.h]
    tokens:
      - Spi?
      - {old: SPI?, new: SPI?}
    source: 1
    destinations: [2, 3]
renumber:
  - path: Spi/Spi?Dma.c
    instances: [1, 2, 3]
    families: [DCH?, Dma?, DMA?]
    to: [0, "1"]
    domain: "[0-7]"
sort_includes:
  roots: [.]
  skip: ["*config*"]
  trim_trailing: true
`

const tomlRecipe = `
[[duplicate]]
name = "spi"
files = ["Spi/Spi?Dma.c", "Spi/Spi?Dma.h"]
tokens = ["Spi?", {old = "SPI?", new = "SPI?"}]
source = 1
destinations = [2, 3]

[[renumber]]
path = "Spi/Spi?Dma.c"
instances = [1, 2, 3]
families = ["DCH?", "Dma?", "DMA?"]
to = [0, "1"]
domain = "[0-7]"

[sort_includes]
roots = ["."]
skip = ["*config*"]
trim_trailing = true
`

func writeRecipe(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadRecipe_Formats(t *testing.T) {
	tmpDir := t.TempDir()

	want := &Recipe{
		Duplicate: []DuplicateStep{{
			Name:         "spi",
			Files:        []string{"Spi/Spi?Dma.c", "Spi/Spi?Dma.h"},
			Tokens:       []TokenSpec{{Old: "Spi?", New: "Spi?"}, {Old: "SPI?", New: "SPI?"}},
			Source:       1,
			Destinations: []int{2, 3},
		}},
		Renumber: []RenumberStep{{
			Path:      "Spi/Spi?Dma.c",
			Instances: []int{1, 2, 3},
			Families:  []string{"DCH?", "Dma?", "DMA?"},
			To:        ValueList{"0", "1"},
			Domain:    "[0-7]",
		}},
		SortIncludes: &SortIncludesStep{
			Roots:        []string{"."},
			Skip:         []string{"*config*"},
			TrimTrailing: true,
		},
	}

	files := map[string]string{
		"recipe.json": jsonRecipe,
		"recipe.yaml": yamlRecipe,
		"recipe.yml":  yamlRecipe,
		"recipe.toml": tomlRecipe,
	}
	for name, content := range files {
		t.Run(name, func(t *testing.T) {
			path := writeRecipe(t, tmpDir, name, content)
			got, err := LoadRecipe(path)
			require.NoError(t, err)

			absDir, _ := filepath.Abs(tmpDir)
			assert.Equal(t, absDir, got.BaseDir)

			got.BaseDir, got.Path = "", ""
			assert.Equal(t, want, got)
		})
	}
}

func TestLoadRecipe_Errors(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name     string
		file     string
		content  string
		wantType ConfigErrorType
	}{
		{name: "unsupported extension", file: "r.ini", content: "x", wantType: ConfigInvalid},
		{name: "unknown JSON field", file: "r.json", content: `{"duplicat": []}`, wantType: ConfigInvalid},
		{name: "unknown YAML field", file: "r.yaml", content: "sort_include: {}\n", wantType: ConfigInvalid},
		{name: "bad TOML", file: "r.toml", content: "[[duplicate]\n", wantType: ConfigInvalid},
		{name: "empty recipe", file: "r2.json", content: `{}`, wantType: ConfigValidationFailed},
		{name: "file without slot", file: "r3.json", content: `{"duplicate": [{"files": ["Drv.c"]}]}`, wantType: ConfigValidationFailed},
		{name: "token without slot", file: "r4.yaml", content: "duplicate:\n  - files: [Drv?.c]\n    tokens: [Drv]\n", wantType: ConfigValidationFailed},
		{name: "renumber without families", file: "r5.json", content: `{"renumber": [{"path": "a.c", "to": [1]}]}`, wantType: ConfigValidationFailed},
		{name: "from and to differ", file: "r6.json", content: `{"renumber": [{"path": "a.c", "families": ["CH?"], "to": [1], "from": [2, 3]}]}`, wantType: ConfigValidationFailed},
		{name: "instances need slot", file: "r7.json", content: `{"renumber": [{"path": "a.c", "instances": [1], "families": ["CH?"]}]}`, wantType: ConfigValidationFailed},
		{name: "sort without roots", file: "r8.toml", content: "[sort_includes]\ntrim_trailing = true\n", wantType: ConfigValidationFailed},
		{name: "bad value type", file: "r9.json", content: `{"renumber": [{"path": "a.c", "families": ["CH?"], "to": [true]}]}`, wantType: ConfigInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeRecipe(t, tmpDir, tt.file, tt.content)
			_, err := LoadRecipe(path)
			var cfgErr *ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.wantType, cfgErr.Type, "error: %v", err)
			assert.Equal(t, path, cfgErr.File)
		})
	}

	t.Run("missing", func(t *testing.T) {
		_, err := LoadRecipe(filepath.Join(tmpDir, "none.yaml"))
		assert.True(t, IsConfigNotFound(err))
	})
}

func TestRecipeHelpers(t *testing.T) {
	r := &Recipe{BaseDir: "/work"}
	assert.Equal(t, filepath.Join("/work", "Spi", "Spi1.c"), r.Resolve("Spi/Spi1.c"))
	assert.Equal(t, "/abs/x.c", r.Resolve("/abs/x.c"))
	assert.Equal(t, "#", r.SlotOr("#"))
	r.Slot = "@"
	assert.Equal(t, "@", r.SlotOr("#"))

	step := RenumberStep{Path: "Uart/Uart@Dma.c", Instances: []int{1, 6}}
	assert.Equal(t, []string{"Uart/Uart1Dma.c", "Uart/Uart6Dma.c"}, step.Paths("@"))
	assert.Equal(t, "renumber[2]", step.Label(2))

	dup := DuplicateStep{Files: []string{"Pwm@.c"}, Tokens: []TokenSpec{{Old: "OC@", New: "OC@"}}}
	group := dup.Group("@")
	assert.Equal(t, model.TemplateGroup{
		Files:  []string{"Pwm@.c"},
		Tokens: []model.TokenPair{{Old: "OC@", New: "OC@"}},
		Slot:   "@",
	}, group)
}
