package cli

import (
	"fmt"
	"io"

	"github.com/cardvault-cli/internal/models"
	"github.com/cardvault-cli/internal/service"
	"github.com/spf13/cobra"
)

func renderSettings(w io.Writer, s *models.Settings) error {
	tw := newTable(w)
	row(tw, "Username:", s.Username)
	row(tw, "Email:", s.Email)
	row(tw, "Marketplace matching:", yesNo(s.MarketplaceEnabled))
	row(tw, "Discoverable inventory:", yesNo(s.InventoryPublic))
	row(tw, "In-app notifications:", yesNo(s.NotificationInApp))
	row(tw, "City:", deref(s.City))
	row(tw, "State/Province:", deref(s.StateProvince))
	row(tw, "Country:", deref(s.Country))
	return tw.Flush()
}

func newSettingsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show your account settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := service.NewSettings(a.client, a.logger)
			if err := s.Load(cmd.Context()); err != nil {
				return err
			}
			return renderSettings(cmd.OutOrStdout(), s.Current())
		},
	}

	cmd.AddCommand(newSettingsSetCmd(a))
	return cmd
}

func newSettingsSetCmd(a *app) *cobra.Command {
	var marketplace, public, inApp bool
	var city, state, country string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change account settings",
		Long: `Change account settings. Only the flags you pass are changed; the whole
settings object is then saved.`,
		Example: `  cardvault settings set --marketplace=false
  cardvault settings set --city Lyon --country France`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := service.NewSettings(a.client, a.logger)
			ctx := cmd.Context()
			if err := s.Load(ctx); err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("marketplace") {
				if err := s.SetMarketplaceEnabled(marketplace); err != nil {
					return err
				}
			}
			if flags.Changed("public") {
				if err := s.SetInventoryPublic(public); err != nil {
					return err
				}
			}
			if flags.Changed("in-app") {
				if err := s.SetNotificationInApp(inApp); err != nil {
					return err
				}
			}
			if flags.Changed("city") || flags.Changed("state") || flags.Changed("country") {
				cur := s.Current()
				loc := service.Location{City: derefEmpty(cur.City), StateProvince: derefEmpty(cur.StateProvince), Country: derefEmpty(cur.Country)}
				if flags.Changed("city") {
					loc.City = city
				}
				if flags.Changed("state") {
					loc.StateProvince = state
				}
				if flags.Changed("country") {
					loc.Country = country
				}
				if err := s.SetLocation(loc); err != nil {
					return err
				}
			}

			err := s.Save(ctx)
			fmt.Fprintln(cmd.OutOrStdout(), s.Status())
			if err != nil {
				return err
			}
			return renderSettings(cmd.OutOrStdout(), s.Current())
		},
	}

	cmd.Flags().BoolVar(&marketplace, "marketplace", true, "Match your wants against other collections")
	cmd.Flags().BoolVar(&public, "public", false, "Let other collectors discover your inventory")
	cmd.Flags().BoolVar(&inApp, "in-app", true, "Receive in-app notifications")
	cmd.Flags().StringVar(&city, "city", "", "City")
	cmd.Flags().StringVar(&state, "state", "", "State or province")
	cmd.Flags().StringVar(&country, "country", "", "Country")
	return cmd
}

func derefEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
