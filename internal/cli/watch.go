package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/cardvault-cli/internal/layout"
	"github.com/spf13/cobra"
)

func newWatchCmd(a *app) *cobra.Command {
	var interval time.Duration
	var times int

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch the unread notification badge",
		Long: `Poll the unread notification count and print the badge whenever it changes.
Failed refreshes are skipped. Runs until interrupted, or until --times refreshes
have been seen.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if interval <= 0 {
				interval = a.cfg.Layout.UnreadPollInterval
			}

			ctx, cancel := context.WithCancel(cmd.Context())

			out := cmd.OutOrStdout()
			counts := make(chan int, 1)
			shell := layout.NewShell(a.client, layout.Options{
				Interval: interval,
				Logger:   a.logger,
				OnCount: func(n int) {
					select {
					case counts <- n:
					case <-ctx.Done():
					}
				},
			})
			shell.Mount(ctx)
			// cancel first so a blocked OnCount returns before Unmount waits
			defer func() {
				cancel()
				shell.Unmount()
			}()

			seen, last := 0, -1
			for {
				select {
				case <-ctx.Done():
					return nil
				case n := <-counts:
					seen++
					if n != last {
						badge := layout.Badge(n)
						if badge == "" {
							badge = "0"
						}
						fmt.Fprintf(out, "unread: %s\n", badge)
						last = n
					}
					if times > 0 && seen >= times {
						return nil
					}
				}
			}
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", 0, "Refresh interval (default from UNREAD_POLL_INTERVAL)")
	cmd.Flags().IntVar(&times, "times", 0, "Stop after this many refreshes (0 runs until interrupted)")
	return cmd
}
