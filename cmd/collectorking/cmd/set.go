package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// NewSetQuantityCommand creates the set-quantity command.
func NewSetQuantityCommand(app App) *cobra.Command {
	return &cobra.Command{
		Use:   "set-quantity <set-code> <rarity> <quantity>",
		Short: "Change how many copies of a card you own",
		Args:  cobra.ExactArgs(3),
		RunE: func(c *cobra.Command, args []string) error {
			quantity, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("quantity must be a number: %q", args[2])
			}

			lib, err := app.Library()
			if err != nil {
				return err
			}

			if err := lib.SetQuantity(args[0], args[1], quantity); err != nil {
				return err
			}

			rec, err := lib.Record(args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(c.OutOrStdout(), "%s (%s): quantity %d, line total %s\n",
				rec.SetCode, rec.Rarity, rec.Quantity, formatAmount(rec.LineTotal()))
			return nil
		},
	}
}
