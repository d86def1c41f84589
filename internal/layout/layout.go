// Package layout is the authenticated shell around every page: navigation,
// the unread-notification badge and logout.
package layout

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/cardvault-cli/internal/logging"
	"github.com/cardvault-cli/internal/poll"
)

const (
	// DefaultUnreadInterval is the delay between unread-count refreshes
	DefaultUnreadInterval = 10 * time.Second
	// LoginRoute is where the shell sends the user after logout
	LoginRoute = "/login"
	// MaxBadge is the largest count the badge displays
	MaxBadge = 9
)

// NavItem is one entry of the navigation bar
type NavItem struct {
	Name string
	Path string
}

// NavItems lists the navigation entries in display order
var NavItems = []NavItem{
	{Name: "Dashboard", Path: "/dashboard"},
	{Name: "Scan", Path: "/scan"},
	{Name: "Inventory", Path: "/inventory"},
	{Name: "Marketplace", Path: "/marketplace"},
}

// IsActive reports whether item is highlighted for path. The desktop bar
// also highlights Dashboard on the root path.
func IsActive(item NavItem, path string, desktop bool) bool {
	if item.Path == path {
		return true
	}
	return desktop && path == "/" && item.Path == "/dashboard"
}

// Badge renders the unread count: empty for zero, capped at MaxBadge
func Badge(count int) string {
	if count <= 0 {
		return ""
	}
	if count > MaxBadge {
		count = MaxBadge
	}
	return strconv.Itoa(count)
}

// API is what the shell calls
type API interface {
	UnreadCount(ctx context.Context) (int, error)
	Logout(ctx context.Context) error
}

// Shell keeps the unread count fresh while mounted
type Shell struct {
	api      API
	interval time.Duration
	logger   *logging.Logger

	mu      sync.Mutex
	unread  int
	handle  *poll.Handle
	onCount func(int)
}

// Options configures the shell
type Options struct {
	Interval time.Duration
	Logger   *logging.Logger
	// OnCount observes every successful refresh
	OnCount func(int)
}

// NewShell creates an unmounted shell
func NewShell(api API, opts Options) *Shell {
	if opts.Interval <= 0 {
		opts.Interval = DefaultUnreadInterval
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}
	return &Shell{
		api:      api,
		interval: opts.Interval,
		logger:   logger.WithField("component", "layout"),
		onCount:  opts.OnCount,
	}
}

// Mount fetches the unread count now and then every interval until Unmount
// or ctx ends. Failed refreshes are ignored.
func (s *Shell) Mount(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.handle != nil {
		return
	}

	s.handle = poll.Start(ctx, poll.Options{
		Interval:        s.interval,
		Immediate:       true,
		ContinueOnError: true,
		OnError: func(attempt int, err error) {
			s.logger.WithError(err).WithField("attempt", attempt).Debug("Unread count refresh failed")
		},
	}, s.refresh)
}

func (s *Shell) refresh(ctx context.Context, attempt int) (bool, error) {
	count, err := s.api.UnreadCount(ctx)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	s.unread = count
	onCount := s.onCount
	s.mu.Unlock()

	if onCount != nil {
		onCount(count)
	}
	return false, nil
}

// Unmount stops refreshing. No request is issued after it returns.
func (s *Shell) Unmount() {
	s.mu.Lock()
	h := s.handle
	s.handle = nil
	s.mu.Unlock()

	if h != nil {
		h.Cancel()
	}
}

// Unread is the last fetched unread count
func (s *Shell) Unread() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unread
}

// Badge renders the current unread count
func (s *Shell) Badge() string {
	return Badge(s.Unread())
}

// Logout unmounts the shell, clears the stored session and returns the login route
func (s *Shell) Logout(ctx context.Context) (string, error) {
	s.Unmount()
	if err := s.api.Logout(ctx); err != nil {
		return "", err
	}
	s.logger.Info("Logged out")
	return LoginRoute, nil
}
