package cmd

import (
	"github.com/spf13/cobra"

	"github.com/collectorking/collectorking"
)

// NewRefreshCommand creates the refresh command.
func NewRefreshCommand(app App) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Re-resolve prices for every stored card",
		Long: `Refresh walks the whole collection and re-resolves each card's price
against the catalog. A card whose price lookup fails keeps its stored
price; a card stored without a rarity gets both rarity and price filled
in from the catalog's set-level defaults.`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			lib, err := app.LibraryWithOptions(
				collectorking.WithProgressSink(&printSink{out: c.OutOrStdout()}))
			if err != nil {
				return err
			}

			summary, err := lib.Refresh(c.Context())
			if err != nil {
				return err
			}

			printSummary(c.OutOrStdout(), "refreshed", summary)
			return nil
		},
	}
}
