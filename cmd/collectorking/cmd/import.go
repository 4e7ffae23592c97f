package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/collectorking/collectorking"
)

// NewImportCommand creates the import command.
func NewImportCommand(app App) *cobra.Command {
	var noInput bool

	c := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a delimited card list into the collection",
		Long: `Import reads a delimited card list (comma, semicolon, tab, or pipe
separated) and reconciles each row against the catalog. Column names are
matched flexibly; only a set code column is required.

Rows with a blank rarity are resolved from the catalog. When the catalog
lists several rarities for a code you are prompted to pick one, unless
--no-input is set, in which case such rows are skipped. Use "-" to read
from stdin (implies --no-input).`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			var input io.Reader
			if args[0] == "-" {
				input = c.InOrStdin()
				noInput = true
			} else {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("opening import file: %w", err)
				}
				defer func() { _ = f.Close() }()
				input = f
			}

			opts := []collectorking.Option{
				collectorking.WithProgressSink(&printSink{out: c.OutOrStdout()}),
			}
			if !noInput {
				opts = append(opts,
					collectorking.WithChooser(newTerminalChooser(c.InOrStdin(), c.ErrOrStderr())))
			}

			lib, err := app.LibraryWithOptions(opts...)
			if err != nil {
				return err
			}

			summary, err := lib.Import(c.Context(), input)
			if err != nil {
				return err
			}

			printSummary(c.OutOrStdout(), "imported", summary)
			return nil
		},
	}

	c.Flags().BoolVar(&noInput, "no-input", false, "never prompt; skip rows needing a rarity choice")
	return c
}
