package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewExportCommand creates the export command.
func NewExportCommand(app App) *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Export the collection as CSV",
		Long: `Export writes the collection in a fixed CSV layout: set_code, name,
set_name, rarity, quantity, unit_price, line_total, image_paths,
last_updated. Without a file argument it writes to stdout.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			lib, err := app.Library()
			if err != nil {
				return err
			}

			if len(args) == 1 && args[0] != "-" {
				f, err := os.Create(args[0])
				if err != nil {
					return fmt.Errorf("creating export file: %w", err)
				}
				if err := lib.Export(f); err != nil {
					_ = f.Close()
					return err
				}
				// A failed close can mean lost buffered writes, so it is
				// a failed export.
				if err := f.Close(); err != nil {
					return fmt.Errorf("closing export file: %w", err)
				}
				return nil
			}

			return lib.Export(c.OutOrStdout())
		},
	}
}
