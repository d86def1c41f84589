package adapter

import (
	"context"
	"net/http"

	"github.com/cardvault-cli/internal/models"
	"github.com/cardvault-cli/internal/types"
)

// GetSubscription fetches the user's current plan
func (c *Client) GetSubscription(ctx context.Context) (*models.Subscription, error) {
	var sub *models.Subscription
	err := c.do(ctx, request{
		method:   http.MethodGet,
		path:     "/subscription",
		fallback: "Failed to fetch subscription",
	}, &sub)
	if err != nil {
		return nil, err
	}
	return sub, nil
}

// ListTiers fetches every available plan; this endpoint needs no token
// but the token is sent anyway like every other page request.
func (c *Client) ListTiers(ctx context.Context) ([]models.Tier, error) {
	tiers := []models.Tier{}
	err := c.do(ctx, request{
		method:   http.MethodGet,
		path:     "/subscription/tiers",
		fallback: "Failed to fetch tiers",
	}, &tiers)
	if err != nil {
		return nil, err
	}
	return tiers, nil
}

// UpgradeSubscription switches the user to tier
func (c *Client) UpgradeSubscription(ctx context.Context, tier types.SubscriptionTier) (*models.UpgradeResult, error) {
	body, err := jsonBody(map[string]string{"tier": string(tier)})
	if err != nil {
		return nil, err
	}

	var result models.UpgradeResult
	err = c.do(ctx, request{
		method:      http.MethodPost,
		path:        "/subscription/upgrade",
		body:        body,
		contentType: "application/json",
		fallback:    "Upgrade failed",
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}
