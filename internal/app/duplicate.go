package app

import (
	"context"

	"github.com/tacogips/drvgen/internal/debug"
	"github.com/tacogips/drvgen/internal/template/fileio"
	"github.com/tacogips/drvgen/internal/template/generator"
	"github.com/tacogips/drvgen/internal/template/model"
)

// DuplicateOptions contains options for template instantiation.
type DuplicateOptions struct {
	// Group is the template group.
	Group model.TemplateGroup
	// Source is the authored instance index.
	Source int
	// Destinations are the instance indices to produce.
	Destinations []int
	// BaseDir resolves relative file templates.
	BaseDir string
	// DryRun computes the files without writing them.
	DryRun bool
	// Store overrides the file store (nil = local filesystem).
	Store fileio.Store
}

// Duplicate instantiates a template group once per destination.
func Duplicate(ctx context.Context, opts DuplicateOptions) (*generator.Result, error) {
	debug.DebugSection("[app] Duplicate workflow start")
	debug.DebugValue("[app] Files", opts.Group.Files)
	debug.DebugValue("[app] Source", opts.Source)
	debug.DebugValue("[app] Destinations", opts.Destinations)
	debug.DebugValue("[app] DryRun", opts.DryRun)

	if err := opts.Group.Validate(); err != nil {
		return nil, NewValidationError("invalid template group", err)
	}
	for _, d := range opts.Destinations {
		if d == opts.Source {
			debug.Debug("[app] Destination %d equals source, file is rewritten in place", d)
		}
	}

	gen := generator.NewInstantiator(opts.Store)
	instOpts := generator.InstantiateOptions{
		Group:        opts.Group,
		Source:       opts.Source,
		Destinations: opts.Destinations,
		BaseDir:      opts.BaseDir,
	}

	var (
		result *generator.Result
		err    error
	)
	if opts.DryRun {
		result, err = gen.DryRun(ctx, instOpts)
	} else {
		result, err = gen.Instantiate(ctx, instOpts)
	}
	if err != nil {
		debug.Debug("[app] Duplicate failed: %v", err)
		return result, NewDuplicateError("failed to duplicate template", err)
	}

	debug.Debug("[app] Duplicate complete: created=%d, overwritten=%d", result.FilesCreated, result.FilesOverwritten)
	return result, nil
}

// CopyOptions contains options for an explicit file copy.
type CopyOptions struct {
	Spec   generator.CopySpec
	DryRun bool
	Store  fileio.Store
}

// Copy transforms explicit source files into explicit destination files.
func Copy(ctx context.Context, opts CopyOptions) (*generator.Result, error) {
	debug.DebugSection("[app] Copy workflow start")
	debug.DebugValue("[app] Sources", opts.Spec.SourceFiles)
	debug.DebugValue("[app] Destinations", opts.Spec.DestinationFiles)

	result, err := generator.NewInstantiator(opts.Store).Copy(ctx, opts.Spec, opts.DryRun)
	if err != nil {
		return result, NewDuplicateError("failed to copy files", err)
	}
	return result, nil
}
