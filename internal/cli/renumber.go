package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tacogips/drvgen/internal/app"
)

var renumberCmd = &cobra.Command{
	Use:   "renumber PATH...",
	Short: "Remap identifier values in files",
	Long: `Discover the values each identifier family uses in a file and rewrite
them to the given new values.

Discovered values are sorted and paired positionally with --to. Extra new
values are ignored; fewer new values than discovered values is an error.
Use --from to name the old values explicitly instead of discovering them.
The rewrite is a simultaneous relabeling, so swaps and chains are safe.

Examples:
  drvgen renumber Spi/Spi2Dma.c --family DMA? --family IRQ? --to 4,5
  drvgen renumber Uart3.c --family CH? --from 0,1 --to 1,0`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRenumber,
}

var (
	renumberFamilies []string
	renumberTo       string
	renumberFrom     string
	renumberDomain   string
	renumberSlot     string
	renumberJobs     int
	renumberDryRun   bool
	renumberShow     bool
)

func init() {
	renumberCmd.Flags().StringArrayVar(&renumberFamilies, FlagFamily, nil, DescFamily)
	renumberCmd.Flags().StringVar(&renumberTo, FlagTo, "", DescRenumberTo)
	renumberCmd.Flags().StringVar(&renumberFrom, FlagFrom, "", DescRenumberFrom)
	renumberCmd.Flags().StringVar(&renumberDomain, FlagDomain, "", DescDomain)
	renumberCmd.Flags().StringVar(&renumberSlot, FlagSlot, "", DescSlot)
	renumberCmd.Flags().IntVarP(&renumberJobs, FlagJobs, "j", 0, DescJobs)
	renumberCmd.Flags().BoolVarP(&renumberDryRun, FlagDryRun, "n", false, DescDryRun)
	renumberCmd.Flags().BoolVar(&renumberShow, FlagShow, false, DescShow)
	_ = renumberCmd.MarkFlagRequired(FlagFamily)
	_ = renumberCmd.MarkFlagRequired(FlagTo)
}

func runRenumber(cmd *cobra.Command, args []string) error {
	slot := renumberSlot
	if slot == "" {
		slot = cfg.Slot
	}
	domain := renumberDomain
	if domain == "" {
		domain = cfg.Renumber.Domain
	}

	report, err := app.Renumber(cmd.Context(), app.RenumberOptions{
		Paths:    args,
		Families: renumberFamilies,
		Slot:     slot,
		To:       parseValueList(renumberTo),
		From:     parseValueList(renumberFrom),
		Domain:   domain,
		Jobs:     jobsOrConfig(renumberJobs),
		DryRun:   renumberDryRun,
	})
	if report == nil {
		return err
	}

	if renumberDryRun {
		printHeader("Dry run")
	}
	changed := 0
	for _, r := range report.Results {
		if !r.Changed {
			printVerbose(fmt.Sprintf("  unchanged %s", r.Path))
			continue
		}
		changed++
		printInfo(fmt.Sprintf("  %s: %s -> %s (%d replacements)", r.Path,
			strings.Join(r.Mapping.Old, ","), strings.Join(r.Mapping.New, ","), r.Replacements))
		if renumberDryRun && renumberShow {
			printContent(r.Content)
		}
	}
	for _, fe := range report.Errors {
		printErrorMsg(fe.Error())
	}
	if err != nil {
		return err
	}

	if renumberDryRun {
		printSuccess(fmt.Sprintf("Would renumber %d of %d file(s)", changed, len(report.Results)))
	} else {
		printSuccess(fmt.Sprintf("Renumbered %d of %d file(s)", changed, len(report.Results)))
	}
	return nil
}
