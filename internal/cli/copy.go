package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tacogips/drvgen/internal/app"
	"github.com/tacogips/drvgen/internal/template/generator"
)

var copyCmd = &cobra.Command{
	Use:   "copy SOURCE...",
	Short: "Copy files with literal substitutions",
	Long: `Copy explicit source files to explicit destinations, applying the
--replace substitutions as one simultaneous relabeling. Earlier pairs win
where matches overlap.

Example:
  drvgen copy Uart1.c --to Uart2.c --replace Uart1=Uart2 --replace UART1=UART2`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCopy,
}

var (
	copyTo      []string
	copyReplace []string
	copyDryRun  bool
	copyShow    bool
)

func init() {
	copyCmd.Flags().StringArrayVar(&copyTo, FlagTo, nil, DescTo)
	copyCmd.Flags().StringArrayVarP(&copyReplace, FlagReplace, "r", nil, DescReplace)
	copyCmd.Flags().BoolVarP(&copyDryRun, FlagDryRun, "n", false, DescDryRun)
	copyCmd.Flags().BoolVar(&copyShow, FlagShow, false, DescShow)
	_ = copyCmd.MarkFlagRequired(FlagTo)
}

func runCopy(cmd *cobra.Command, args []string) error {
	pairs, err := parsePairs(copyReplace)
	if err != nil {
		return fmt.Errorf("--%s: %w", FlagReplace, err)
	}
	spec := generator.CopySpec{
		SourceFiles:      args,
		DestinationFiles: copyTo,
	}
	for _, p := range pairs {
		spec.Old = append(spec.Old, p.Old)
		spec.New = append(spec.New, p.New)
	}

	result, err := app.Copy(cmd.Context(), app.CopyOptions{Spec: spec, DryRun: copyDryRun})
	if err != nil {
		return err
	}
	printGeneratorResult(result, copyShow)
	return nil
}
