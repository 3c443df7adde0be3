package integration

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/tacogips/drvgen/internal/app"
	"github.com/tacogips/drvgen/internal/config"
)

const wantUart2C = `#include <string.h>
#include "Uart2.h"
#include "xc.h"

static volatile uint32_t *const tx = &U2TXREG;

void Uart2Init(void) {
    U2MODE = 0;
    IEC0bits.DMA2IE = 1;
    DCH2CON = 0;
}

void Uart2Write(uint8_t b) {
    *tx = b;
}
`

const wantUart3H = `#ifndef UART3_H
#define UART3_H

#include <stdint.h>

void Uart3Init(void);
void Uart3Write(uint8_t b);

#endif
`

// TestE2E_UartRecipe runs the fixture recipe: duplicate, renumber, then sort includes.
func TestE2E_UartRecipe(t *testing.T) {
	dir := copyFixtureToTemp(t, "drivers", t.TempDir())
	boardConfig := readFile(t, dir, "Uart/config/board_config.h")

	report, err := app.RunRecipe(context.Background(), app.RunRecipeOptions{
		Path:   filepath.Join(dir, "drvgen.toml"),
		Config: config.DefaultConfig(),
		Jobs:   2,
	})
	if err != nil {
		t.Fatalf("RunRecipe failed: %v", err)
	}
	if len(report.Steps) != 4 {
		t.Fatalf("expected 4 steps, got %d", len(report.Steps))
	}
	if report.Failed() != 0 {
		t.Fatalf("expected no failed steps, got %d", report.Failed())
	}

	if diff := cmp.Diff(wantUart2C, readFile(t, dir, "Uart/Uart2.c")); diff != "" {
		t.Errorf("Uart2.c mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(wantUart3H, readFile(t, dir, "Uart/Uart3.h")); diff != "" {
		t.Errorf("Uart3.h mismatch (-want +got):\n%s", diff)
	}

	uart3 := readFile(t, dir, "Uart/Uart3.c")
	for _, want := range []string{"DMA3IE", "DCH3CON", "U3MODE", "IEC0bits"} {
		if !contains(uart3, want) {
			t.Errorf("Uart3.c missing %q:\n%s", want, uart3)
		}
	}

	// The template itself is normalized but keeps its channel.
	uart1 := readFile(t, dir, "Uart/Uart1.c")
	if !contains(uart1, "DCH0CON") || !contains(uart1, "#include <string.h>\n#include \"Uart1.h\"\n") {
		t.Errorf("unexpected Uart1.c:\n%s", uart1)
	}

	// Skipped trees are never touched.
	if got := readFile(t, dir, "Uart/config/board_config.h"); got != boardConfig {
		t.Errorf("board_config.h was modified:\n%s", got)
	}
}

// TestE2E_RecipeIsIdempotent runs the recipe twice and expects the same tree.
func TestE2E_RecipeIsIdempotent(t *testing.T) {
	dir := copyFixtureToTemp(t, "drivers", t.TempDir())
	opts := app.RunRecipeOptions{Path: filepath.Join(dir, "drvgen.toml"), Config: config.DefaultConfig()}

	if _, err := app.RunRecipe(context.Background(), opts); err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	first := snapshot(t, dir)

	report, err := app.RunRecipe(context.Background(), opts)
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if diff := cmp.Diff(first, snapshot(t, dir)); diff != "" {
		t.Errorf("second run changed files (-first +second):\n%s", diff)
	}
	last := report.Steps[len(report.Steps)-1]
	if last.Kind != app.StepSortIncludes || last.Files != 0 {
		t.Errorf("sort step on the second run = %+v, want no changed files", last)
	}
}

// TestE2E_DryRunLeavesTreeUntouched checks that a dry run reports every file
// the real run writes without modifying the tree.
func TestE2E_DryRunLeavesTreeUntouched(t *testing.T) {
	dir := copyFixtureToTemp(t, "drivers", t.TempDir())
	before := snapshot(t, dir)

	report, err := app.RunRecipe(context.Background(), app.RunRecipeOptions{
		Path:   filepath.Join(dir, "drvgen.toml"),
		DryRun: true,
	})
	if err != nil {
		t.Fatalf("dry run failed: %v", err)
	}
	if diff := cmp.Diff(before, snapshot(t, dir)); diff != "" {
		t.Fatalf("dry run modified files (-before +after):\n%s", diff)
	}

	var want []string
	for _, rel := range []string{"Uart/Uart1.c", "Uart/Uart1.h", "Uart/Uart2.c", "Uart/Uart2.h", "Uart/Uart3.c", "Uart/Uart3.h"} {
		want = append(want, filepath.Join(dir, filepath.FromSlash(rel)))
	}
	if diff := cmp.Diff(want, report.Pending); diff != "" {
		t.Errorf("pending files mismatch (-want +got):\n%s", diff)
	}
}
