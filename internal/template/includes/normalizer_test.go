package includes

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/tacogips/drvgen/internal/template/model"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		opts  Options
		input string
		want  string
	}{
		{
			name: "scrambled block sorted and classified",
			input: "#include \"string.h\"\n" +
				"#include \"Widget.h\"\n" +
				"#include <stdio.h>\n",
			want: "#include <stdio.h>\n" +
				"#include <string.h>\n" +
				"#include \"Widget.h\"\n",
		},
		{
			name: "prologue kept and interleaved directives hoisted",
			input: "/* Spi1Dma.c */\n" +
				"#include \"Spi1Dma.h\"\n" +
				"\n" +
				"#define BUF 8\n" +
				"#include <xc.h>\n" +
				"static int x;\n",
			want: "/* Spi1Dma.c */\n" +
				"#include \"Spi1Dma.h\"\n" +
				"#include \"xc.h\"\n" +
				"\n" +
				"#define BUF 8\n" +
				"static int x;\n",
		},
		{
			name: "custom standard library set",
			opts: Options{StandardLibraries: model.NewStandardLibrarySet("xc.h")},
			input: "#include \"xc.h\"\n" +
				"#include <stdio.h>\n",
			want: "#include \"stdio.h\"\n" +
				"#include <xc.h>\n",
		},
		{
			name: "duplicates preserved",
			input: "#include \"b.h\"\n" +
				"#include \"a.h\"\n" +
				"#include \"b.h\"\n",
			want: "#include \"a.h\"\n" +
				"#include \"b.h\"\n" +
				"#include \"b.h\"\n",
		},
		{
			name: "membership is exact",
			input: "#include <mystdio.h>\n" +
				"#include \"stdio.h.in\"\n",
			want: "#include \"mystdio.h\"\n" +
				"#include \"stdio.h.in\"\n",
		},
		{
			name: "stop at gap leaves later directives",
			opts: Options{Rule: StopAtGap},
			input: "#include \"b.h\"\n" +
				"#include \"a.h\"\n" +
				"int x;\n" +
				"#include \"c.h\"\n",
			want: "#include \"a.h\"\n" +
				"#include \"b.h\"\n" +
				"int x;\n" +
				"#include \"c.h\"\n",
		},
		{
			name: "trailing whitespace trimmed",
			opts: Options{TrimTrailingSpace: true},
			input: "int a;  \n" +
				"#include \"b.h\"\t\n" +
				"int b; \n",
			want: "int a;\n" +
				"#include \"b.h\"\n" +
				"int b;\n",
		},
		{
			name:  "crlf line endings",
			input: "#include \"b.h\"\r\n#include \"a.h\"\r\n",
			want:  "#include \"a.h\"\r\n#include \"b.h\"\r\n",
		},
		{
			name:  "missing final newline kept",
			input: "#include \"b.h\"\n#include \"a.h\"",
			want:  "#include \"a.h\"\n#include \"b.h\"",
		},
		{
			name:  "macro include kept verbatim",
			input: "#include \"b.h\"\n#include BOARD_H\n",
			want:  "#include \"b.h\"\n#include BOARD_H\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := NewNormalizer(tt.opts, nil)
			got := n.Normalize(tt.input)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Normalize() mismatch (-want +got):\n%s", diff)
			}
			if again := n.Normalize(got); again != got {
				t.Errorf("Normalize() is not idempotent:\nfirst:  %q\nsecond: %q", got, again)
			}
		})
	}
}

func TestNormalize_NoDirectivesUnchanged(t *testing.T) {
	inputs := []string{
		"",
		"int main(void) { return 0; }   \n",
		"no newline at end  ",
	}
	n := NewNormalizer(Options{TrimTrailingSpace: true}, nil)
	for _, in := range inputs {
		if got := n.Normalize(in); got != in {
			t.Errorf("Normalize(%q) = %q, want unchanged", in, got)
		}
	}
}

func TestNormalizeFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "Uart1.c")
	input := "#include \"Uart1.h\"\n#include <stdint.h>\n"
	if err := os.WriteFile(path, []byte(input), 0644); err != nil {
		t.Fatal(err)
	}
	n := NewNormalizer(Options{}, nil)
	ctx := context.Background()

	t.Run("dry run", func(t *testing.T) {
		result, err := n.NormalizeFile(ctx, path, true)
		if err != nil {
			t.Fatalf("NormalizeFile() error = %v", err)
		}
		if !result.Changed || result.Directives != 2 {
			t.Errorf("unexpected result: %+v", result)
		}
		data, _ := os.ReadFile(path)
		if string(data) != input {
			t.Error("dry run modified the file")
		}
	})

	t.Run("write then no-op", func(t *testing.T) {
		if _, err := n.NormalizeFile(ctx, path, false); err != nil {
			t.Fatalf("NormalizeFile() error = %v", err)
		}
		data, _ := os.ReadFile(path)
		if string(data) != "#include <stdint.h>\n#include \"Uart1.h\"\n" {
			t.Errorf("file = %q", string(data))
		}

		result, err := n.NormalizeFile(ctx, path, false)
		if err != nil {
			t.Fatalf("NormalizeFile() error = %v", err)
		}
		if result.Changed {
			t.Error("second run should not change the file")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := n.NormalizeFile(ctx, filepath.Join(tmpDir, "nope.c"), false)
		if !model.IsNotFound(err) {
			t.Errorf("expected NotFound, got %v", err)
		}
	})
}
