package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tacogips/drvgen/internal/app"
	"github.com/tacogips/drvgen/internal/config"
	"github.com/tacogips/drvgen/internal/template/fileio"
)

var runCmd = &cobra.Command{
	Use:   "run RECIPE",
	Short: "Run a generation recipe",
	Long: `Run every step of a recipe file (.json, .yaml, .yml or .toml).

Duplicate steps run first, then renumber steps, then include normalization.
A failing step is reported and the remaining steps still run. With --dry-run
all steps run against an in-memory overlay, so later steps see the output of
earlier ones and nothing is written. With --confirm the same in-memory run is
shown first and the files are written only after confirmation.`,
	Args: cobra.ExactArgs(1),
	RunE: runRecipe,
}

var (
	runDryRun  bool
	runConfirm bool
	runJobs    int
)

func init() {
	runCmd.Flags().BoolVarP(&runDryRun, FlagDryRun, "n", false, DescDryRun)
	runCmd.Flags().BoolVar(&runConfirm, FlagConfirm, false, DescRunConfirm)
	runCmd.Flags().IntVarP(&runJobs, FlagJobs, "j", 0, DescJobs)
}

func runRecipe(cmd *cobra.Command, args []string) error {
	recipePath, err := config.ExpandPath(args[0])
	if err != nil {
		return err
	}
	printProgress(fmt.Sprintf("Running recipe %s", recipePath))

	opts := app.RunRecipeOptions{
		Path:   recipePath,
		Config: cfg,
		Jobs:   runJobs,
		DryRun: runDryRun,
	}
	var overlay *fileio.OverlayStore
	if runConfirm && !runDryRun {
		overlay = fileio.NewOverlayStore(nil)
		opts.Store = overlay
	}

	report, err := app.RunRecipe(cmd.Context(), opts)
	if report == nil {
		return err
	}
	printRecipeReport(report)
	if err != nil || overlay == nil {
		return err
	}

	ok, err := confirmWrite("written", report.Pending)
	if err != nil {
		return err
	}
	if !ok {
		printWarning("Aborted, no files written")
		return nil
	}
	if err := overlay.Commit(); err != nil {
		return err
	}
	printSuccess(fmt.Sprintf("Wrote %d file(s)", len(report.Pending)))
	return nil
}

// printRecipeReport prints one line per step and, for dry runs, the files
// that would be written.
func printRecipeReport(report *app.RecipeReport) {
	for _, step := range report.Steps {
		if step.Err != nil {
			printErrorMsg(fmt.Sprintf("%s [%s]: %v", step.Name, step.Kind, step.Err))
			continue
		}
		printSuccess(fmt.Sprintf("%s [%s]: %d file(s)", step.Name, step.Kind, step.Files))
	}
	if report.DryRun && len(report.Pending) > 0 {
		printHeader("Dry run: files that would be written")
		for _, p := range report.Pending {
			printInfo("  " + p)
		}
	}
}
