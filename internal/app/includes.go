package app

import (
	"context"
	"fmt"

	"github.com/tacogips/drvgen/internal/debug"
	"github.com/tacogips/drvgen/internal/sweep"
	"github.com/tacogips/drvgen/internal/template/fileio"
	"github.com/tacogips/drvgen/internal/template/includes"
	"github.com/tacogips/drvgen/internal/template/model"
)

// SortIncludesOptions contains options for include normalization.
type SortIncludesOptions struct {
	// Roots are files or directories to sweep.
	Roots []string
	// Skip are glob patterns of files and directories to leave alone.
	Skip []string
	// Extensions restrict the swept files (empty = .c and .h).
	Extensions []string
	// StandardLibraries are rendered with angle brackets (nil = C standard headers).
	StandardLibraries []string
	// Keyword is the directive keyword (empty = "#include").
	Keyword string
	// StopAtGap collects only the first contiguous run of directives.
	StopAtGap bool
	// TrimTrailing strips trailing whitespace.
	TrimTrailing bool
	// Jobs is the number of files processed in parallel.
	Jobs int
	// DryRun computes results without writing.
	DryRun bool
	// Store overrides the file store (nil = local filesystem).
	Store fileio.Store
	// Extra are paths that only exist in Store, e.g. pending writes of an
	// overlay. They are filtered with the same rules as swept files.
	Extra []string
}

// SortIncludesReport contains the results of an include normalization run.
type SortIncludesReport struct {
	// Files is the number of files examined.
	Files int
	// Changed lists the files whose content changed (or would change).
	Changed []string
	// Results holds one entry per successfully processed file.
	Results []*includes.Result
	// Errors holds per-file failures.
	Errors []FileError
}

// SortIncludes normalizes the include block of every swept file.
func SortIncludes(ctx context.Context, opts SortIncludesOptions) (*SortIncludesReport, error) {
	debug.DebugSection("[app] SortIncludes workflow start")
	debug.DebugValue("[app] Roots", opts.Roots)
	debug.DebugValue("[app] Skip", opts.Skip)
	debug.DebugValue("[app] StopAtGap", opts.StopAtGap)
	debug.DebugValue("[app] DryRun", opts.DryRun)

	if len(opts.Roots) == 0 {
		return nil, NewValidationError("no roots to sweep", nil)
	}

	walkOpts := sweep.WalkOptions{Skip: opts.Skip, Extensions: opts.Extensions}
	files, err := sweep.Collect(opts.Roots, walkOpts)
	if err != nil {
		return nil, NewIncludesError("failed to collect files", err)
	}
	if len(opts.Extra) > 0 {
		files = sweep.Filter(append(files, opts.Extra...), opts.Roots, walkOpts)
	}

	normOpts := includes.Options{
		Keyword:           opts.Keyword,
		TrimTrailingSpace: opts.TrimTrailing,
	}
	if opts.StandardLibraries != nil {
		normOpts.StandardLibraries = model.NewStandardLibrarySet(opts.StandardLibraries...)
	}
	if opts.StopAtGap {
		normOpts.Rule = includes.StopAtGap
	}
	normalizer := includes.NewNormalizer(normOpts, opts.Store)

	outcomes, err := sweep.Run(ctx, files, opts.Jobs, func(ctx context.Context, path string) (*includes.Result, error) {
		return normalizer.NormalizeFile(ctx, path, opts.DryRun)
	})
	if err != nil {
		return nil, NewIncludesError("include normalization interrupted", err)
	}

	report := &SortIncludesReport{Files: len(files)}
	for _, o := range outcomes {
		if o.Err != nil {
			continue
		}
		report.Results = append(report.Results, o.Value)
		if o.Value.Changed {
			report.Changed = append(report.Changed, o.Path)
		}
	}
	for _, o := range sweep.Failed(outcomes) {
		report.Errors = append(report.Errors, FileError{Path: o.Path, Err: o.Err})
	}
	debug.Debug("[app] SortIncludes complete: files=%d, changed=%d, errors=%d",
		report.Files, len(report.Changed), len(report.Errors))

	if len(report.Errors) > 0 {
		return report, NewIncludesError(fmt.Sprintf("%d of %d files failed", len(report.Errors), report.Files), report.Errors[0])
	}
	return report, nil
}
