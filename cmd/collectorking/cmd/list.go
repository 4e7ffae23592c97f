package cmd

import (
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// NewListCommand creates the list command.
func NewListCommand(app App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show the collection as a table",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			lib, err := app.Library()
			if err != nil {
				return err
			}

			records := lib.Records()
			if len(records) == 0 {
				fmt.Fprintln(c.OutOrStdout(), "Collection is empty")
				return nil
			}

			table := tablewriter.NewTable(c.OutOrStdout())
			table.Header("Set Code", "Name", "Rarity", "Qty", "Price", "Total")

			for _, rec := range records {
				if err := table.Append(
					rec.SetCode,
					rec.Name,
					rec.Rarity,
					strconv.Itoa(rec.Quantity),
					formatAmount(rec.Price),
					formatAmount(rec.LineTotal()),
				); err != nil {
					return err
				}
			}
			if err := table.Render(); err != nil {
				return err
			}

			fmt.Fprintf(c.OutOrStdout(), "\n%d cards, total value %s\n",
				len(records), formatAmount(lib.TotalValue()))
			return nil
		},
	}
}

func formatAmount(f float64) string {
	return "$" + strconv.FormatFloat(f, 'f', 2, 64)
}
