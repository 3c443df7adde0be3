package app

import (
	"context"
	"fmt"

	"github.com/tacogips/drvgen/internal/config"
	"github.com/tacogips/drvgen/internal/debug"
	"github.com/tacogips/drvgen/internal/template/fileio"
	"go.uber.org/multierr"
)

// RunRecipeOptions contains options for running a recipe.
type RunRecipeOptions struct {
	// Path is the recipe file (.json, .yaml, .yml or .toml).
	Path string
	// Config supplies defaults for settings the recipe leaves out.
	Config *config.Config
	// Jobs overrides Config.Jobs when positive.
	Jobs int
	// DryRun runs every step against an in-memory overlay.
	DryRun bool
	// Store overrides the file store (nil = local filesystem). An
	// *fileio.OverlayStore is swept like a dry run so that files created by
	// earlier steps are normalized too.
	Store fileio.Store
}

// StepKind names the kind of a recipe step.
type StepKind string

const (
	StepDuplicate    StepKind = "duplicate"
	StepRenumber     StepKind = "renumber"
	StepSortIncludes StepKind = "sort-includes"
)

// StepReport describes one executed recipe step.
type StepReport struct {
	Name string
	Kind StepKind
	// Files is the number of files written (or that would be written).
	Files int
	Err   error
}

// RecipeReport contains the results of a recipe run.
type RecipeReport struct {
	Steps []StepReport
	// Pending lists the files held in the overlay: the files a dry run
	// would write, or the files a caller-supplied overlay has yet to commit.
	Pending []string
	DryRun  bool
}

// Failed returns the number of failed steps.
func (r *RecipeReport) Failed() int {
	n := 0
	for _, s := range r.Steps {
		if s.Err != nil {
			n++
		}
	}
	return n
}

// RunRecipe loads a recipe and runs its steps: every duplicate step, then
// every renumber step, then include normalization. A failing step does not
// stop the steps after it.
func RunRecipe(ctx context.Context, opts RunRecipeOptions) (*RecipeReport, error) {
	debug.DebugSection("[app] RunRecipe workflow start")
	debug.DebugValue("[app] Recipe", opts.Path)
	debug.DebugValue("[app] DryRun", opts.DryRun)

	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	recipe, err := config.LoadRecipe(opts.Path)
	if err != nil {
		return nil, NewConfigLoadError("failed to load recipe", err)
	}

	jobs := cfg.Jobs
	if opts.Jobs > 0 {
		jobs = opts.Jobs
	}
	slot := recipe.SlotOr(cfg.Slot)

	var overlay *fileio.OverlayStore
	store := opts.Store
	if opts.DryRun {
		overlay = fileio.NewOverlayStore(store)
		store = overlay
	} else if ov, ok := store.(*fileio.OverlayStore); ok {
		overlay = ov
	}

	report := &RecipeReport{DryRun: opts.DryRun}
	var errs error
	record := func(step StepReport) {
		if step.Err != nil {
			debug.Debug("[app] Step %s failed: %v", step.Name, step.Err)
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", step.Name, step.Err))
		}
		report.Steps = append(report.Steps, step)
	}

	for i, step := range recipe.Duplicate {
		if err := ctx.Err(); err != nil {
			return report, NewRecipeError("recipe interrupted", err)
		}
		result, err := Duplicate(ctx, DuplicateOptions{
			Group:        step.Group(slot),
			Source:       step.Source,
			Destinations: step.Destinations,
			BaseDir:      recipe.BaseDir,
			Store:        store,
		})
		sr := StepReport{Name: step.Label(i), Kind: StepDuplicate, Err: err}
		if result != nil {
			sr.Files = len(result.Files)
		}
		record(sr)
	}

	for i, step := range recipe.Renumber {
		if err := ctx.Err(); err != nil {
			return report, NewRecipeError("recipe interrupted", err)
		}
		paths := step.Paths(slot)
		for j, p := range paths {
			paths[j] = recipe.Resolve(p)
		}
		domain := step.Domain
		if domain == "" {
			domain = cfg.Renumber.Domain
		}
		result, err := Renumber(ctx, RenumberOptions{
			Paths:    paths,
			Families: step.Families,
			Slot:     slot,
			To:       step.To,
			From:     step.From,
			Domain:   domain,
			Jobs:     jobs,
			Store:    store,
		})
		sr := StepReport{Name: step.Label(i), Kind: StepRenumber, Err: err}
		if result != nil {
			for _, r := range result.Results {
				if r.Changed {
					sr.Files++
				}
			}
		}
		record(sr)
	}

	if s := recipe.SortIncludes; s != nil {
		roots := make([]string, len(s.Roots))
		for i, r := range s.Roots {
			roots[i] = recipe.Resolve(r)
		}
		sortOpts := SortIncludesOptions{
			Roots:             roots,
			Skip:              firstNonEmpty(s.Skip, cfg.Includes.SkipPatterns),
			Extensions:        firstNonEmpty(s.Extensions, cfg.Includes.Extensions),
			StandardLibraries: firstNonEmpty(s.StandardLibraries, cfg.StandardLibraries),
			Keyword:           cfg.Includes.Keyword,
			StopAtGap:         s.StopAtGap || cfg.Includes.StopAtGap,
			TrimTrailing:      s.TrimTrailing || cfg.Includes.TrimTrailing,
			Jobs:              jobs,
			Store:             store,
		}
		if overlay != nil {
			sortOpts.Extra = overlay.Pending()
		}
		result, err := SortIncludes(ctx, sortOpts)
		sr := StepReport{Name: string(StepSortIncludes), Kind: StepSortIncludes, Err: err}
		if result != nil {
			sr.Files = len(result.Changed)
		}
		record(sr)
	}

	if overlay != nil {
		report.Pending = overlay.Pending()
	}

	if errs != nil {
		return report, NewRecipeError(fmt.Sprintf("%d of %d steps failed", report.Failed(), len(report.Steps)), errs)
	}
	return report, nil
}

func firstNonEmpty(values ...[]string) []string {
	for _, v := range values {
		if len(v) > 0 {
			return v
		}
	}
	return nil
}
