// Package cli implements the cardvault command tree.
package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/cardvault-cli/internal/adapter"
	"github.com/cardvault-cli/internal/config"
	"github.com/cardvault-cli/internal/logging"
	"github.com/cardvault-cli/internal/session"
	"github.com/spf13/cobra"
)

// app is the state shared by every command of one invocation
type app struct {
	cfg      *config.Config
	sessions session.Provider
	client   *adapter.Client
	logger   *logging.Logger

	// injected by tests; when nil they come from the environment
	injectedCfg      *config.Config
	injectedSessions session.Provider

	apiURL   string
	logLevel string
}

// Option customizes the root command
type Option func(*app)

// WithConfig skips environment loading and uses cfg
func WithConfig(cfg *config.Config) Option {
	return func(a *app) { a.injectedCfg = cfg }
}

// WithSessions uses p instead of opening the configured session backend
func WithSessions(p session.Provider) Option {
	return func(a *app) { a.injectedSessions = p }
}

// NewRootCmd builds the cardvault command tree
func NewRootCmd(opts ...Option) *cobra.Command {
	a := &app{}
	for _, opt := range opts {
		opt(a)
	}

	cmd := &cobra.Command{
		Use:   "cardvault",
		Short: "Scan, organize and trade your trading card collection",
		Long: `cardvault is a command-line client for the CardVault API.

Photograph your cards and let the recognizer identify them, review and save the
results to your inventory, track wants on the marketplace and manage your plan.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.ErrOrStderr())
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.teardown()
		},
	}

	cmd.PersistentFlags().StringVar(&a.apiURL, "api-url", "", "CardVault API base URL (overrides CARDVAULT_API_URL)")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error or off (overrides LOG_LEVEL)")

	cmd.AddCommand(newLoginCmd(a))
	cmd.AddCommand(newLogoutCmd(a))
	cmd.AddCommand(newWhoamiCmd(a))
	cmd.AddCommand(newDashboardCmd(a))
	cmd.AddCommand(newScanCmd(a))
	cmd.AddCommand(newInventoryCmd(a))
	cmd.AddCommand(newWantsCmd(a))
	cmd.AddCommand(newNotificationsCmd(a))
	cmd.AddCommand(newSettingsCmd(a))
	cmd.AddCommand(newSubscriptionCmd(a))
	cmd.AddCommand(newWatchCmd(a))

	return cmd
}

func (a *app) setup(logOut io.Writer) error {
	cfg := a.injectedCfg
	if cfg == nil {
		loaded, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		cfg = loaded
	}
	if a.apiURL != "" {
		cfg.API.BaseURL = strings.TrimRight(a.apiURL, "/")
	}
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
	}
	a.cfg = cfg

	a.logger = logging.InitGlobalLogger(logging.ParseLogLevel(cfg.Logging.Level), logging.ParseLogFormat(cfg.Logging.Format))
	a.logger.SetOutput(logOut)

	sessions := a.injectedSessions
	if sessions == nil {
		opened, err := session.Open(&cfg.Session)
		if err != nil {
			return fmt.Errorf("failed to open session store: %w", err)
		}
		sessions = opened
	}
	a.sessions = sessions

	client, err := adapter.NewClient(&adapter.ClientConfig{
		BaseURL:   cfg.API.BaseURL,
		Timeout:   cfg.API.Timeout,
		RateLimit: cfg.API.RateLimit,
		Burst:     cfg.API.RateBurst,
		Sessions:  sessions,
		Logger:    a.logger,
	})
	if err != nil {
		return err
	}
	a.client = client

	a.logger.WithFields(map[string]interface{}{
		"api_url": cfg.API.BaseURL,
		"session": cfg.Session.Backend,
	}).Debug("Client initialized")
	return nil
}

func (a *app) teardown() error {
	// injected providers belong to the caller
	if a.sessions == nil || a.injectedSessions != nil {
		return nil
	}
	return a.sessions.Close()
}
