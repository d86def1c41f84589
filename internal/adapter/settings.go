package adapter

import (
	"context"
	"net/http"

	"github.com/cardvault-cli/internal/models"
)

// GetSettings fetches the account settings
func (c *Client) GetSettings(ctx context.Context) (*models.Settings, error) {
	var settings models.Settings
	err := c.do(ctx, request{
		method:   http.MethodGet,
		path:     "/settings",
		fallback: "Failed to fetch settings",
	}, &settings)
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// UpdateSettings sends the whole settings object
func (c *Client) UpdateSettings(ctx context.Context, s *models.Settings) error {
	body, err := jsonBody(s)
	if err != nil {
		return err
	}
	return c.do(ctx, request{
		method:      http.MethodPatch,
		path:        "/settings",
		body:        body,
		contentType: "application/json",
		fallback:    "Save failed",
	}, nil)
}
