package cli

import (
	"fmt"
	"strings"

	"github.com/cardvault-cli/internal/service"
	"github.com/spf13/cobra"
)

func newWantsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wants",
		Short: "List your wants with matching collectors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m := service.NewMarketplace(a.client, a.logger)
			if err := m.Load(cmd.Context()); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			wants := m.Wants()
			if len(wants) == 0 {
				fmt.Fprintln(out, "No wants yet. Add one with: cardvault wants add <card name>")
				return nil
			}

			byWant := m.MatchesByWant()
			tw := newTable(out, "ID", "CARD", "SET", "MATCHES")
			for _, w := range wants {
				row(tw, w.ID, w.CardName, deref(w.SetCode), len(byWant[w.ID]))
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			for _, w := range wants {
				matches := byWant[w.ID]
				if len(matches) == 0 {
					continue
				}
				fmt.Fprintf(out, "\n%s\n", w.CardName)
				for _, match := range matches {
					fmt.Fprintf(out, "  %s has %s (%s), %s, qty %d\n",
						match.Owner.Username, match.Have.CardName, match.Have.SetCode, match.Have.Condition, match.Have.Quantity)
				}
			}

			fmt.Fprintln(out)
			fmt.Fprintln(out, "Suggested collectors")
			tw = newTable(out)
			for _, inq := range m.Inquiries() {
				row(tw, "  "+inq.CardName, inq.SuggestedUser, inq.Confidence)
			}
			return tw.Flush()
		},
	}

	cmd.AddCommand(newWantsAddCmd(a))
	cmd.AddCommand(newWantsRemoveCmd(a))
	return cmd
}

func newWantsAddCmd(a *app) *cobra.Command {
	var setCode string

	cmd := &cobra.Command{
		Use:     "add <card name>",
		Short:   "Add a card you are looking for",
		Example: `  cardvault wants add Lightning Bolt --set m21`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.Join(args, " ")
			m := service.NewMarketplace(a.client, a.logger)
			if err := m.AddWant(cmd.Context(), name, setCode); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added want for %s (%d want(s), %d match(es))\n",
				strings.TrimSpace(name), len(m.Wants()), len(m.Matches()))
			return nil
		},
	}

	cmd.Flags().StringVar(&setCode, "set", "", "Set code, e.g. M21")
	return cmd
}

func newWantsRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <want-id>",
		Short: "Remove a want",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m := service.NewMarketplace(a.client, a.logger)
			if err := m.RemoveWant(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed want %s\n", args[0])
			return nil
		},
	}
}
