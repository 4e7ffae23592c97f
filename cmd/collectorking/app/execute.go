package app

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/collectorking/collectorking/cmd/collectorking/cmd"
	"github.com/collectorking/collectorking/pkg/logging"
)

// Execute runs the collectorking CLI application with the given arguments.
// This is the main entry point called from main.go.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root cobra command with all subcommands.
func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "collectorking",
		Short:   "Trading card collection manager",
		Version: a.version,
		Long: `Collectorking keeps a local trading card collection reconciled against
the YGOPRODeck catalog.

It imports delimited card lists with flexible column names, resolves each
card's rarity and market price (asking you to pick when the catalog is
ambiguous), caches card artwork locally, and stores everything in a single
YAML file you can refresh, edit, and export.`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&a.config.ConfigFile, "config", "", "config file (default is $HOME/.collectorking.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&a.config.Verbose, "verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	rootCmd.PersistentFlags().BoolVarP(&a.config.Quiet, "quiet", "q", false, "minimal output (shortcut for --log-level=warn)")
	rootCmd.PersistentFlags().BoolVar(&a.config.NoColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringVar(&a.config.LogLevel, "log-level", "", "log level: trace, debug, info, warn, error (overrides -v/-q)")
	rootCmd.PersistentFlags().StringVar(&a.config.CollectionFile, "collection", a.config.CollectionFile, "collection file path")
	rootCmd.PersistentFlags().StringVar(&a.config.ImagesDir, "images-dir", a.config.ImagesDir, "artwork cache directory")
	rootCmd.PersistentFlags().BoolVar(&a.config.NoImages, "no-images", a.config.NoImages, "skip artwork downloads")
	rootCmd.PersistentFlags().Bool("accumulate", false, "add imported quantities to existing cards instead of replacing them")
	rootCmd.PersistentFlags().Float64Var(&a.config.RequestsPerSecond, "rps", a.config.RequestsPerSecond, "max catalog API requests per second (negative disables throttling)")

	rootCmd.SetVersionTemplate("collectorking {{.Version}}\n")

	a.registerCommands(rootCmd)
	return rootCmd
}

// setupCommand is called before any command runs.
func (a *App) setupCommand(c *cobra.Command, _ []string) error {
	verbose := mustGetBool(c, "verbose")
	quiet := mustGetBool(c, "quiet")
	noColor := mustGetBool(c, "no-color")
	logLevel := mustGetString(c, "log-level")

	a.config.UpdateFromFlags(verbose, quiet, noColor, logLevel)
	if mustGetBool(c, "accumulate") {
		a.config.QuantityPolicy = "accumulate"
	}

	// Reinitialize logger with updated config and make it the process
	// default so pipeline packages pick it up from the context.
	logger := NewLogger(a.config)
	a.logger = &logger
	logging.SetDefault(logger)

	return nil
}

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	rootCmd.AddCommand(cmd.NewImportCommand(a))
	rootCmd.AddCommand(cmd.NewRefreshCommand(a))
	rootCmd.AddCommand(cmd.NewListCommand(a))
	rootCmd.AddCommand(cmd.NewExportCommand(a))
	rootCmd.AddCommand(cmd.NewSetQuantityCommand(a))
	rootCmd.AddCommand(cmd.NewVersionCommand(a))
}

// ExitOnError is a helper that prints an error and exits with status 1.
// This is meant to be used in main.go for top-level error handling.
func ExitOnError(err error) {
	if err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

// mustGetBool retrieves a boolean flag value or panics if the flag doesn't
// exist. Only for flags defined in this package.
func mustGetBool(c *cobra.Command, name string) bool {
	val, err := c.Flags().GetBool(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}

// mustGetString retrieves a string flag value or panics if the flag
// doesn't exist. Only for flags defined in this package.
func mustGetString(c *cobra.Command, name string) string {
	val, err := c.Flags().GetString(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}
