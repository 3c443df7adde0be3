package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/tacogips/drvgen/internal/config"
	"github.com/tacogips/drvgen/internal/debug"
)

// Global flags
var (
	globalConfig  string
	globalNoColor bool
	globalQuiet   bool
	globalVerbose bool
	globalDebug   bool
)

// cfg is the configuration loaded before any subcommand runs.
var cfg = config.DefaultConfig()

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "drvgen",
	Short: "Peripheral driver source generator",
	Long: `drvgen generates near-identical peripheral driver sources from one
authored template and keeps their include blocks tidy.

  drvgen duplicate      instantiate a template once per hardware channel
  drvgen renumber       remap identifier values such as DMA channels
  drvgen sort-includes  sort and classify #include directives
  drvgen run            execute a recipe (JSON, YAML or TOML)

Substitutions are applied as one simultaneous relabeling, so swaps such as
0->1, 1->0 and chains such as 0->2, 2->3 are always safe.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		debug.SetDebug(globalDebug)
		debug.SetNoColor(globalNoColor)

		path := globalConfig
		if path == "" {
			path = config.DefaultConfigPath()
		}
		path, err := config.ExpandPath(path)
		if err != nil {
			return err
		}
		loaded, err := config.NewLoader().LoadOrDefault(path)
		if err != nil {
			return err
		}
		cfg = loaded
		debug.DebugJSON("[cli] Configuration", cfg)

		if !cfg.Output.Color {
			globalNoColor = true
			debug.SetNoColor(true)
		}
		if cfg.Output.Quiet {
			globalQuiet = true
		}
		if cfg.Output.Verbose {
			globalVerbose = true
		}
		if globalQuiet && globalVerbose {
			return fmt.Errorf("--%s and --%s cannot be used together", FlagQuiet, FlagVerbose)
		}
		color.NoColor = color.NoColor || globalNoColor
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		debug.Sync()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		printError(err)
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&globalConfig, FlagConfig, "", DescConfig)
	rootCmd.PersistentFlags().BoolVar(&globalNoColor, FlagNoColor, false, DescNoColor)
	rootCmd.PersistentFlags().BoolVarP(&globalQuiet, FlagQuiet, "q", false, DescQuiet)
	rootCmd.PersistentFlags().BoolVarP(&globalVerbose, FlagVerbose, "v", false, DescVerbose)
	rootCmd.PersistentFlags().BoolVar(&globalDebug, FlagDebug, false, DescDebug)

	// Add subcommands
	rootCmd.AddCommand(duplicateCmd)
	rootCmd.AddCommand(copyCmd)
	rootCmd.AddCommand(renumberCmd)
	rootCmd.AddCommand(sortIncludesCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(versionCmd)
}

// printError prints an error message to stderr
func printError(err error) {
	if globalQuiet {
		return
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
}
