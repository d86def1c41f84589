package cli

import (
	"fmt"

	apperrors "github.com/cardvault-cli/internal/errors"
	"github.com/cardvault-cli/internal/service"
	"github.com/cardvault-cli/internal/types"
	"github.com/spf13/cobra"
)

func newInventoryCmd(a *app) *cobra.Command {
	var search, setID, condition, sortBy, sortOrder string
	var limit int

	cmd := &cobra.Command{
		Use:     "inventory",
		Aliases: []string{"inv"},
		Short:   "List the cards in your collection",
		Example: `  cardvault inventory --search charizard
  cardvault inventory --sort value --order desc --limit 20`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filters := service.DefaultInventoryFilters()
			filters.Search = search
			filters.SetID = setID
			filters.Limit = limit

			if condition != "" {
				c, err := types.ParseCondition(condition)
				if err != nil {
					return apperrors.NewInvalidParameterError("condition", err.Error())
				}
				filters.Condition = c
			}
			if sortBy != "" {
				s, err := types.ParseInventorySort(sortBy)
				if err != nil {
					return apperrors.NewInvalidParameterError("sort", err.Error())
				}
				filters.SortBy = s
			}
			if sortOrder != "" {
				o, err := types.ParseSortOrder(sortOrder)
				if err != nil {
					return apperrors.NewInvalidParameterError("order", err.Error())
				}
				filters.SortOrder = o
			}

			inv := service.NewInventory(a.client, a.logger)
			if err := inv.SetFilters(cmd.Context(), filters); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if inv.Count() == 0 {
				fmt.Fprintln(out, "No cards found.")
				return nil
			}
			if err := renderInventory(out, inv.Entries()); err != nil {
				return err
			}
			fmt.Fprintf(out, "\n%d card(s), total value %s\n", inv.Count(), service.FormatCurrency(inv.TotalValue()))
			return nil
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "Search card names")
	cmd.Flags().StringVar(&setID, "set", "", "Only cards from this set id")
	cmd.Flags().StringVar(&condition, "condition", "", "Only cards in this condition (nm, lp, mp, hp, damaged)")
	cmd.Flags().StringVar(&sortBy, "sort", "", "Sort by date_added, value or name (default date_added)")
	cmd.Flags().StringVar(&sortOrder, "order", "", "Sort order asc or desc (default desc)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of cards to list")

	cmd.AddCommand(newInventoryRemoveCmd(a))
	return cmd
}

func newInventoryRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <entry-id>",
		Short: "Remove a card from your collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inv := service.NewInventory(a.client, a.logger)
			if err := inv.Remove(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s (%d card(s) left)\n", args[0], inv.Count())
			return nil
		},
	}
}
