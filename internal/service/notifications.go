package service

import (
	"context"
	"sync"

	"github.com/cardvault-cli/internal/logging"
	"github.com/cardvault-cli/internal/models"
)

// NotificationsAPI is what the notifications page calls
type NotificationsAPI interface {
	ListNotifications(ctx context.Context) ([]models.Notification, error)
	MarkNotificationRead(ctx context.Context, id string) error
}

// Notifications is the alerts page view model
type Notifications struct {
	api    NotificationsAPI
	logger *logging.Logger

	mu    sync.Mutex
	items []models.Notification
	err   error
}

// NewNotifications creates a notifications page
func NewNotifications(api NotificationsAPI, logger *logging.Logger) *Notifications {
	return &Notifications{api: api, logger: pageLogger(logger, "notifications")}
}

// Load fetches the notifications
func (n *Notifications) Load(ctx context.Context) error {
	items, err := n.api.ListNotifications(ctx)

	n.mu.Lock()
	defer n.mu.Unlock()
	n.err = err
	if err != nil {
		n.logger.WithError(err).Warn("Failed to fetch notifications")
		return err
	}
	n.items = items
	return nil
}

// MarkRead marks one notification read on the server, then locally
func (n *Notifications) MarkRead(ctx context.Context, id string) error {
	err := n.api.MarkNotificationRead(ctx, id)

	n.mu.Lock()
	defer n.mu.Unlock()
	if err != nil {
		n.logger.WithError(err).WithField("notification_id", id).Warn("Failed to mark notification read")
		n.err = err
		return err
	}
	for i := range n.items {
		if n.items[i].ID == id {
			n.items[i].Read = true
		}
	}
	return nil
}

// Items returns the loaded notifications
func (n *Notifications) Items() []models.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]models.Notification(nil), n.items...)
}

// Unread counts the loaded notifications not yet read
func (n *Notifications) Unread() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	count := 0
	for _, item := range n.items {
		if !item.Read {
			count++
		}
	}
	return count
}

// Err returns the last failure
func (n *Notifications) Err() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.err
}
