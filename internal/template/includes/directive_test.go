package includes

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/tacogips/drvgen/internal/template/model"
)

func TestIsDirective(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{`#include "a.h"`, true},
		{"   \t#include <stdio.h>\n", true},
		{"// #include <stdio.h>", false},
		{"#define X 1", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsDirective(tt.line, ""); got != tt.want {
			t.Errorf("IsDirective(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}

func TestParseDirective(t *testing.T) {
	tests := []struct {
		name string
		line string
		want model.IncludeDirective
	}{
		{
			name: "quoted",
			line: "#include \"Uart1.h\"\n",
			want: model.IncludeDirective{Keyword: "#include", Delimiter: model.DelimiterQuote, Name: "Uart1.h", Raw: `#include "Uart1.h"`},
		},
		{
			name: "angle with comment",
			line: "  #include  <stdint.h> // fixed width\r\n",
			want: model.IncludeDirective{
				Keyword: "#include", Delimiter: model.DelimiterAngle, Name: "stdint.h",
				Trailing: " // fixed width", Raw: "#include  <stdint.h> // fixed width",
			},
		},
		{
			name: "macro include",
			line: "#include BOARD_HEADER\n",
			want: model.IncludeDirective{Keyword: "#include", Delimiter: model.DelimiterNone, Raw: "#include BOARD_HEADER"},
		},
		{
			name: "unterminated",
			line: `#include "broken.h`,
			want: model.IncludeDirective{Keyword: "#include", Delimiter: model.DelimiterNone, Raw: `#include "broken.h`},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseDirective(tt.line, "")
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseDirective() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPartition(t *testing.T) {
	lines := []string{
		"/* header */\n",
		"#include \"b.h\"\n",
		"\n",
		"#include \"a.h\"\n",
		"int x;\n",
	}

	t.Run("collect all", func(t *testing.T) {
		pro, col, epi := Partition(lines, "", CollectAll)
		if diff := cmp.Diff([]string{"/* header */\n"}, pro); diff != "" {
			t.Errorf("prologue (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff([]string{"#include \"b.h\"\n", "#include \"a.h\"\n"}, col); diff != "" {
			t.Errorf("collected (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff([]string{"\n", "int x;\n"}, epi); diff != "" {
			t.Errorf("epilogue (-want +got):\n%s", diff)
		}
	})

	t.Run("stop at gap", func(t *testing.T) {
		_, col, epi := Partition(lines, "", StopAtGap)
		if diff := cmp.Diff([]string{"#include \"b.h\"\n"}, col); diff != "" {
			t.Errorf("collected (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff([]string{"\n", "#include \"a.h\"\n", "int x;\n"}, epi); diff != "" {
			t.Errorf("epilogue (-want +got):\n%s", diff)
		}
	})

	t.Run("no directives", func(t *testing.T) {
		pro, col, epi := Partition(lines[4:], "", CollectAll)
		if len(pro) != 1 || col != nil || epi != nil {
			t.Errorf("unexpected partition: %v %v %v", pro, col, epi)
		}
	})
}

func TestCollectRule_String(t *testing.T) {
	if got := CollectAll.String(); got != "collect-all" {
		t.Errorf("CollectAll.String() = %q", got)
	}
	if got := StopAtGap.String(); got != "stop-at-gap" {
		t.Errorf("StopAtGap.String() = %q", got)
	}
}
