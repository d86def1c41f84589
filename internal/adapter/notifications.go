package adapter

import (
	"context"
	"net/http"
	"net/url"

	"github.com/cardvault-cli/internal/models"
)

// ListNotifications fetches the user's notifications, newest first
func (c *Client) ListNotifications(ctx context.Context) ([]models.Notification, error) {
	items := []models.Notification{}
	err := c.do(ctx, request{
		method:   http.MethodGet,
		path:     "/notifications",
		fallback: "Failed to fetch notifications",
	}, &items)
	if err != nil {
		return nil, err
	}
	return items, nil
}

// UnreadCount fetches the number of unread notifications
func (c *Client) UnreadCount(ctx context.Context) (int, error) {
	var out models.UnreadCount
	err := c.do(ctx, request{
		method:   http.MethodGet,
		path:     "/notifications/unread-count",
		fallback: "Failed to fetch unread count",
	}, &out)
	if err != nil {
		return 0, err
	}
	return out.Count, nil
}

// MarkNotificationRead acknowledges one notification
func (c *Client) MarkNotificationRead(ctx context.Context, id string) error {
	return c.do(ctx, request{
		method:   http.MethodPost,
		path:     "/notifications/" + url.PathEscape(id) + "/read",
		fallback: "Failed to mark notification read",
	}, nil)
}
