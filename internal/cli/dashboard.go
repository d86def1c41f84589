package cli

import (
	"fmt"

	apperrors "github.com/cardvault-cli/internal/errors"
	"github.com/cardvault-cli/internal/service"
	"github.com/spf13/cobra"
)

func newDashboardCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show collection stats and your most valuable cards",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d := service.NewDashboard(a.client, service.DashboardOptions{
				Placeholders: a.cfg.Dashboard.Placeholders,
				Logger:       a.logger,
			})
			if err := d.Load(cmd.Context()); err != nil {
				if apperrors.IsUnauthorized(err) {
					return err
				}
				a.logger.WithError(err).Debug("Dashboard partially loaded")
			}
			view := d.View()
			out := cmd.OutOrStdout()

			if view.Placeholder {
				fmt.Fprintln(out, "Sample figures shown until your collection has activity.")
				fmt.Fprintln(out)
			}

			s := view.Stats
			tw := newTable(out)
			row(tw, "Total cards:", s.TotalCards)
			row(tw, "Total value:", fmt.Sprintf("%s (%s, %+.1f%%)", service.FormatCurrency(s.TotalValue), signed(s.ValueChange), s.ValueChangePercent))
			row(tw, "Recent scans:", s.RecentScans)
			row(tw, "Active listings:", s.ActiveListings)
			row(tw, "Pending trades:", s.PendingTrades)
			row(tw, "Unread alerts:", s.UnreadAlerts)
			if err := tw.Flush(); err != nil {
				return err
			}

			fmt.Fprintln(out)
			fmt.Fprintln(out, "Trending cards")
			if len(view.Trending) == 0 {
				fmt.Fprintln(out, "  No cards yet. Scan some to get started.")
			} else {
				tw = newTable(out, "CARD", "SET", "VALUE", "CHANGE", "TREND")
				for i, c := range view.Trending {
					trend := view.TrendFor(i)
					row(tw, c.Name, c.SetCode, service.FormatCurrency(c.Value),
						fmt.Sprintf("%s (%+.1f%%)", signed(c.Change), c.ChangePercent),
						fmt.Sprintf("%s %+.1f%%", trend.Label, trend.DeltaPercent()))
				}
				if err := tw.Flush(); err != nil {
					return err
				}
			}

			if len(view.Activity) > 0 {
				fmt.Fprintln(out)
				fmt.Fprintln(out, "Marketplace activity")
				tw = newTable(out)
				for _, act := range view.Activity {
					row(tw, "  "+act.Title, act.Status, act.When)
				}
				return tw.Flush()
			}
			return nil
		},
	}
}
