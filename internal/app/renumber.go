package app

import (
	"context"
	"path/filepath"
	"slices"

	"github.com/tacogips/drvgen/internal/debug"
	"github.com/tacogips/drvgen/internal/sweep"
	"github.com/tacogips/drvgen/internal/template/fileio"
	"github.com/tacogips/drvgen/internal/template/model"
	"github.com/tacogips/drvgen/internal/template/renumber"
)

// RenumberOptions contains options for identifier renumbering.
type RenumberOptions struct {
	// Paths are the files to renumber. Each is renumbered independently.
	Paths []string
	// Families are identifier family patterns, e.g. "DMA?".
	Families []string
	// Slot is the placeholder in Families (empty = "?").
	Slot string
	// To are the new values, paired with the ascending discovered values.
	To []string
	// From lists old values explicitly instead of discovering them.
	From []string
	// Domain is the value regular expression (empty = single digit).
	Domain string
	// Jobs is the number of files processed in parallel.
	Jobs int
	// DryRun computes results without writing.
	DryRun bool
	// Store overrides the file store (nil = local filesystem).
	Store fileio.Store
}

// RenumberReport contains the results of a renumbering run.
type RenumberReport struct {
	// Results holds one entry per successfully processed file, in path order.
	Results []*renumber.Result
	// Errors holds per-file failures.
	Errors []FileError
}

// Renumber renumbers every path. A failure on one file does not stop the
// others; the returned error is non-nil when any file failed.
func Renumber(ctx context.Context, opts RenumberOptions) (*RenumberReport, error) {
	debug.DebugSection("[app] Renumber workflow start")
	debug.DebugValue("[app] Paths", opts.Paths)
	debug.DebugValue("[app] Families", opts.Families)
	debug.DebugValue("[app] To", opts.To)
	debug.DebugValue("[app] From", opts.From)

	families := model.NewFamilies(opts.Slot, opts.Families...)
	if err := model.ValidateFamilies(families); err != nil {
		return nil, NewValidationError("invalid identifier families", err)
	}
	if len(opts.Paths) == 0 {
		return nil, NewValidationError("no files to renumber", nil)
	}

	// Each file is rewritten by exactly one worker.
	paths := make([]string, len(opts.Paths))
	for i, p := range opts.Paths {
		paths[i] = filepath.Clean(p)
	}
	slices.Sort(paths)
	paths = slices.Compact(paths)

	r := renumber.NewRenumberer(opts.Store)
	rOpts := renumber.Options{From: opts.From, Domain: opts.Domain, DryRun: opts.DryRun}

	outcomes, err := sweep.Run(ctx, paths, opts.Jobs, func(ctx context.Context, path string) (*renumber.Result, error) {
		return r.Renumber(ctx, path, families, opts.To, rOpts)
	})
	if err != nil {
		return nil, NewRenumberError("renumbering interrupted", err)
	}

	report := &RenumberReport{}
	for _, o := range outcomes {
		if o.Err == nil {
			report.Results = append(report.Results, o.Value)
		}
	}
	for _, o := range sweep.Failed(outcomes) {
		report.Errors = append(report.Errors, FileError{Path: o.Path, Err: o.Err})
	}

	if len(report.Errors) > 0 {
		return report, NewRenumberError("renumbering failed", report.Errors[0])
	}
	return report, nil
}
