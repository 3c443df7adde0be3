package generator

import (
	"context"
	"fmt"

	"github.com/tacogips/drvgen/internal/debug"
	"github.com/tacogips/drvgen/internal/template/fileio"
	"github.com/tacogips/drvgen/internal/template/model"
	"github.com/tacogips/drvgen/internal/template/relabel"
	"go.uber.org/zap"
)

// Instantiator produces instances of a template group.
type Instantiator interface {
	// Instantiate writes one copy of the group's files per destination index,
	// with every source token replaced by its destination token.
	Instantiate(ctx context.Context, opts InstantiateOptions) (*Result, error)

	// DryRun computes what Instantiate would write without touching the
	// filesystem.
	DryRun(ctx context.Context, opts InstantiateOptions) (*Result, error)

	// Copy transforms explicit source files into explicit destination files
	// using explicit token lists.
	Copy(ctx context.Context, spec CopySpec, dryRun bool) (*Result, error)
}

// InstantiateOptions configures an instantiation.
type InstantiateOptions struct {
	// Group is the template group to instantiate.
	Group model.TemplateGroup

	// Source is the index bound to the slot to locate the authored template.
	Source int

	// Destinations are the indices to produce, in order.
	Destinations []int

	// BaseDir resolves relative file templates. Empty means the working directory.
	BaseDir string
}

// CopySpec lists source and destination files and the tokens to substitute,
// position by position.
type CopySpec struct {
	SourceFiles      []string
	DestinationFiles []string
	Old              []string
	New              []string
	BaseDir          string
}

// FileResult describes one produced file.
type FileResult struct {
	// Source is the file that was read.
	Source string
	// Destination is the file that was (or would be) written.
	Destination string
	// Existed indicates the destination existed before the write.
	Existed bool
	// Replacements is the number of token occurrences substituted.
	Replacements int
	// Content is the produced text (only populated in dry-run).
	Content string
}

// Result contains instantiation statistics.
type Result struct {
	// Files lists every produced file in processing order.
	Files []FileResult

	// FilesCreated is the number of new files created.
	FilesCreated int

	// FilesOverwritten is the number of existing files overwritten.
	FilesOverwritten int

	// DryRun indicates nothing was written.
	DryRun bool
}

// DefaultInstantiator implements Instantiator.
type DefaultInstantiator struct {
	store fileio.Store
}

// NewInstantiator creates an Instantiator backed by store. A nil store uses
// the local filesystem.
func NewInstantiator(store fileio.Store) Instantiator {
	if store == nil {
		store = fileio.NewFileStore()
	}
	return &DefaultInstantiator{store: store}
}

// Instantiate writes every destination instance.
func (g *DefaultInstantiator) Instantiate(ctx context.Context, opts InstantiateOptions) (*Result, error) {
	return g.instantiate(ctx, opts, false)
}

// DryRun computes every destination instance without writing.
func (g *DefaultInstantiator) DryRun(ctx context.Context, opts InstantiateOptions) (*Result, error) {
	return g.instantiate(ctx, opts, true)
}

// Copy transforms explicit file lists.
func (g *DefaultInstantiator) Copy(ctx context.Context, spec CopySpec, dryRun bool) (*Result, error) {
	rules, err := validateCopySpec(spec)
	if err != nil {
		return nil, err
	}
	if spec.SourceFiles, err = ResolvePaths(spec.BaseDir, spec.SourceFiles); err != nil {
		return nil, err
	}
	if spec.DestinationFiles, err = ResolvePaths(spec.BaseDir, spec.DestinationFiles); err != nil {
		return nil, err
	}
	result := &Result{DryRun: dryRun}
	if err := g.copyFiles(ctx, spec, rules, dryRun, result); err != nil {
		return result, err
	}
	return result, nil
}

func (g *DefaultInstantiator) instantiate(ctx context.Context, opts InstantiateOptions, dryRun bool) (*Result, error) {
	if err := opts.Group.Validate(); err != nil {
		return nil, err
	}

	debug.DebugFields("[generator] Starting instantiation",
		zap.Strings("files", opts.Group.Files),
		zap.Int("source", opts.Source),
		zap.Ints("destinations", opts.Destinations),
		zap.Bool("dryRun", dryRun))

	result := &Result{DryRun: dryRun}
	sourceFiles, err := ResolvePaths(opts.BaseDir, opts.Group.SourceFiles(opts.Source))
	if err != nil {
		return nil, err
	}
	sourceTokens := opts.Group.SourceTokens(opts.Source)

	for _, dest := range opts.Destinations {
		destFiles, err := ResolvePaths(opts.BaseDir, opts.Group.DestinationFiles(dest))
		if err != nil {
			return result, err
		}
		rules, err := relabel.Pairs(sourceTokens, opts.Group.DestinationTokens(dest))
		if err != nil {
			return result, err
		}

		spec := CopySpec{SourceFiles: sourceFiles, DestinationFiles: destFiles}
		debug.Debug("[generator] Instance %d: %d files, %d tokens", dest, len(destFiles), len(rules))
		if err := g.copyFiles(ctx, spec, rules, dryRun, result); err != nil {
			return result, err
		}
	}

	debug.Debug("[generator] Instantiation complete: created=%d, overwritten=%d",
		result.FilesCreated, result.FilesOverwritten)
	return result, nil
}

// copyFiles reads each source file fresh, relabels it and writes the
// destination at the same position.
func (g *DefaultInstantiator) copyFiles(ctx context.Context, spec CopySpec, rules []relabel.Rule, dryRun bool, result *Result) error {
	for i, src := range spec.SourceFiles {
		if err := ctx.Err(); err != nil {
			return err
		}
		dst := spec.DestinationFiles[i]

		content, err := g.store.ReadFile(src)
		if err != nil {
			return err
		}

		relabeled, err := relabel.Apply(content, rules)
		if err != nil {
			return model.NewConfigurationError(src, "failed to substitute tokens", err)
		}

		if !relabeled.Changed() {
			debug.Debug("[generator] No tokens matched in %s", src)
		}

		existed := g.store.Exists(dst)
		fr := FileResult{
			Source:       src,
			Destination:  dst,
			Existed:      existed,
			Replacements: sum(relabeled.Counts),
		}

		if dryRun {
			debug.Debug("[generator] Dry run: would write %s (size: %d bytes)", dst, len(relabeled.Text))
			fr.Content = relabeled.Text
		} else if err := g.store.WriteFile(dst, relabeled.Text); err != nil {
			return err
		}

		result.Files = append(result.Files, fr)
		if existed {
			result.FilesOverwritten++
		} else {
			result.FilesCreated++
		}
	}
	return nil
}

// validateCopySpec checks list lengths and resolves the substitution rules.
func validateCopySpec(spec CopySpec) ([]relabel.Rule, error) {
	if len(spec.SourceFiles) != len(spec.DestinationFiles) {
		return nil, model.NewConfigurationError("",
			fmt.Sprintf("file lists differ in length: %d sources vs %d destinations",
				len(spec.SourceFiles), len(spec.DestinationFiles)), nil)
	}
	return relabel.Pairs(spec.Old, spec.New)
}

func sum(xs []int) int {
	n := 0
	for _, x := range xs {
		n += x
	}
	return n
}
