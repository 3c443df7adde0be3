package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tacogips/drvgen/internal/app"
	"github.com/tacogips/drvgen/internal/template/generator"
	"github.com/tacogips/drvgen/internal/template/model"
)

var duplicateCmd = &cobra.Command{
	Use:   "duplicate",
	Short: "Instantiate a template once per instance index",
	Long: `Instantiate a group of template files for every destination index.

Every file template and token template contains the slot placeholder ("?" by
default). The slot is bound to the source index when reading and to each
destination index when writing. Token substitutions are applied as one
simultaneous relabeling, so a token that is a prefix of another token never
corrupts it.

Examples:
  drvgen duplicate --file Uart/Uart?.c --file Uart/Uart?.h \
      --token Uart? --token UART? --source 1 --dest 2-6
  drvgen duplicate --file I2C?.c --token I2C? --token ? --source 2 --dest 1
  drvgen duplicate --file Spi?.c --pair SPI?_=SPI?_ --source 1 --dest 2 --dry-run --show`,
	Args: cobra.NoArgs,
	RunE: runDuplicate,
}

var (
	duplicateFiles   []string
	duplicateTokens  []string
	duplicatePairs   []string
	duplicateSource  int
	duplicateDest    string
	duplicateSlot    string
	duplicateBaseDir string
	duplicateDryRun  bool
	duplicateConfirm bool
	duplicateShow    bool
)

func init() {
	duplicateCmd.Flags().StringArrayVarP(&duplicateFiles, FlagFile, "f", nil, DescFile)
	duplicateCmd.Flags().StringArrayVarP(&duplicateTokens, FlagToken, "t", nil, DescToken)
	duplicateCmd.Flags().StringArrayVar(&duplicatePairs, FlagPair, nil, DescPair)
	duplicateCmd.Flags().IntVarP(&duplicateSource, FlagSource, "s", 1, DescSource)
	duplicateCmd.Flags().StringVarP(&duplicateDest, FlagDest, "d", "", DescDest)
	duplicateCmd.Flags().StringVar(&duplicateSlot, FlagSlot, "", DescSlot)
	duplicateCmd.Flags().StringVar(&duplicateBaseDir, FlagBaseDir, "", DescBaseDir)
	duplicateCmd.Flags().BoolVarP(&duplicateDryRun, FlagDryRun, "n", false, DescDryRun)
	duplicateCmd.Flags().BoolVar(&duplicateConfirm, FlagConfirm, false, DescConfirm)
	duplicateCmd.Flags().BoolVar(&duplicateShow, FlagShow, false, DescShow)
	_ = duplicateCmd.MarkFlagRequired(FlagFile)
	_ = duplicateCmd.MarkFlagRequired(FlagDest)
}

func runDuplicate(cmd *cobra.Command, args []string) error {
	destinations, err := parseIndexList(duplicateDest)
	if err != nil {
		return fmt.Errorf("--%s: %w", FlagDest, err)
	}
	pairs, err := parsePairs(duplicatePairs)
	if err != nil {
		return fmt.Errorf("--%s: %w", FlagPair, err)
	}
	tokens := make([]model.TokenPair, 0, len(duplicateTokens)+len(pairs))
	for _, t := range duplicateTokens {
		tokens = append(tokens, model.TokenPair{Old: t, New: t})
	}
	tokens = append(tokens, pairs...)

	slot := duplicateSlot
	if slot == "" {
		slot = cfg.Slot
	}
	opts := app.DuplicateOptions{
		Group: model.TemplateGroup{
			Files:  duplicateFiles,
			Tokens: tokens,
			Slot:   slot,
		},
		Source:       duplicateSource,
		Destinations: destinations,
		BaseDir:      duplicateBaseDir,
	}

	ctx := cmd.Context()

	if duplicateConfirm && !duplicateDryRun {
		preview := opts
		preview.DryRun = true
		result, err := app.Duplicate(ctx, preview)
		if err != nil {
			return err
		}
		ok, err := confirmWrite("overwritten", existingDestinations(result))
		if err != nil {
			return err
		}
		if !ok {
			printWarning("Aborted, no files written")
			return nil
		}
	}

	printProgress(fmt.Sprintf("Instantiating %d file(s) from instance %d into %d destination(s)",
		len(duplicateFiles), duplicateSource, len(destinations)))

	opts.DryRun = duplicateDryRun
	result, err := app.Duplicate(ctx, opts)
	if err != nil {
		return err
	}

	printGeneratorResult(result, duplicateShow)
	return nil
}

// existingDestinations lists destinations that a write would overwrite.
func existingDestinations(result *generator.Result) []string {
	var paths []string
	for _, f := range result.Files {
		if f.Existed {
			paths = append(paths, f.Destination)
		}
	}
	return paths
}

// printGeneratorResult prints the per-file outcome and a summary line.
func printGeneratorResult(result *generator.Result, show bool) {
	if result.DryRun {
		printHeader("Dry run")
	}
	for _, f := range result.Files {
		state := "create"
		if f.Existed {
			state = "overwrite"
		}
		printInfo(fmt.Sprintf("  %-9s %s <- %s (%d replacements)", state, f.Destination, f.Source, f.Replacements))
		if result.DryRun && show {
			printContent(f.Content)
		}
	}
	if result.DryRun {
		printSuccess(fmt.Sprintf("Would create %d and overwrite %d file(s)", result.FilesCreated, result.FilesOverwritten))
		return
	}
	printSuccess(fmt.Sprintf("Created %d and overwrote %d file(s)", result.FilesCreated, result.FilesOverwritten))
}
