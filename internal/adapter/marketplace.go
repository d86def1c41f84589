package adapter

import (
	"context"
	"net/http"
	"net/url"

	"github.com/cardvault-cli/internal/models"
)

// ListWants fetches the user's want list
func (c *Client) ListWants(ctx context.Context) ([]models.Want, error) {
	wants := []models.Want{}
	err := c.do(ctx, request{
		method:   http.MethodGet,
		path:     "/marketplace/wants",
		fallback: "Failed to fetch wants",
	}, &wants)
	if err != nil {
		return nil, err
	}
	return wants, nil
}

// CreateWant adds a want and returns its id
func (c *Client) CreateWant(ctx context.Context, in models.WantInput) (string, error) {
	body, err := jsonBody(in)
	if err != nil {
		return "", err
	}

	var created struct {
		ID string `json:"id"`
	}
	err = c.do(ctx, request{
		method:      http.MethodPost,
		path:        "/marketplace/wants",
		body:        body,
		contentType: "application/json",
		fallback:    "Failed to add want",
	}, &created)
	if err != nil {
		return "", err
	}
	return created.ID, nil
}

// DeleteWant removes a want
func (c *Client) DeleteWant(ctx context.Context, id string) error {
	return c.do(ctx, request{
		method:   http.MethodDelete,
		path:     "/marketplace/wants/" + url.PathEscape(id),
		fallback: "Failed to remove want",
	}, nil)
}

// ListMatches fetches collectors holding cards the user wants
func (c *Client) ListMatches(ctx context.Context) ([]models.Match, error) {
	matches := []models.Match{}
	err := c.do(ctx, request{
		method:   http.MethodGet,
		path:     "/marketplace/matches",
		fallback: "Failed to fetch matches",
	}, &matches)
	if err != nil {
		return nil, err
	}
	return matches, nil
}
