package cli

import (
	"fmt"

	apperrors "github.com/cardvault-cli/internal/errors"
	"github.com/cardvault-cli/internal/service"
	"github.com/cardvault-cli/internal/types"
	"github.com/spf13/cobra"
)

func newSubscriptionCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "subscription",
		Aliases: []string{"plan"},
		Short:   "Show your plan and the available tiers",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := service.NewSubscription(a.client, a.logger)
			if err := s.Load(cmd.Context()); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if cur := s.Current(); cur != nil {
				fmt.Fprintf(out, "Current plan: %s (%d cards, %d trend insights)\n\n", cur.TierName, cur.MaxCards, cur.MaxTrendInsights)
			}

			tw := newTable(out, "", "TIER", "NAME", "CARDS", "INSIGHTS", "PRICE")
			for _, t := range s.Tiers() {
				marker := ""
				if s.IsCurrent(t.Tier) {
					marker = "*"
				}
				price := "Free"
				if t.Price > 0 {
					price = fmt.Sprintf("%s/%s", service.FormatCurrency(t.Price), t.PricePeriod)
				}
				row(tw, marker, t.Tier, t.Name, t.MaxCards, t.MaxTrendInsights, price)
			}
			return tw.Flush()
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:       "upgrade <tier>",
		Short:     "Switch to another plan",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(types.TierFree), string(types.TierPro), string(types.TierPremium)},
		RunE: func(cmd *cobra.Command, args []string) error {
			tier, err := types.ParseSubscriptionTier(args[0])
			if err != nil {
				return apperrors.NewInvalidParameterError("tier", err.Error())
			}

			s := service.NewSubscription(a.client, a.logger)
			if err := s.Upgrade(cmd.Context(), tier); err != nil {
				if apperrors.IsTransportFault(err) {
					return fmt.Errorf("%s: %w", s.Message(), err)
				}
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), s.Message())
			return nil
		},
	})
	return cmd
}
