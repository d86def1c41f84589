package cli

import (
	"fmt"

	"github.com/cardvault-cli/internal/service"
	"github.com/spf13/cobra"
)

func newNotificationsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "notifications",
		Aliases: []string{"alerts"},
		Short:   "List your notifications",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n := service.NewNotifications(a.client, a.logger)
			if err := n.Load(cmd.Context()); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			items := n.Items()
			if len(items) == 0 {
				fmt.Fprintln(out, "No notifications.")
				return nil
			}
			tw := newTable(out, "ID", "", "TYPE", "TITLE", "MESSAGE", "CREATED")
			for _, item := range items {
				marker := "*"
				if item.Read {
					marker = ""
				}
				row(tw, item.ID, marker, item.Type, item.Title, item.Message, item.CreatedAt)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(out, "\n%d unread\n", n.Unread())
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "read <notification-id>",
		Short: "Mark a notification read",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n := service.NewNotifications(a.client, a.logger)
			if err := n.MarkRead(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Marked %s read\n", args[0])
			return nil
		},
	})
	return cmd
}
