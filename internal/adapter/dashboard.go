package adapter

import (
	"context"
	"net/http"

	"github.com/cardvault-cli/internal/models"
)

// Dashboard fetches the aggregate stats. A response without data yields nil stats.
func (c *Client) Dashboard(ctx context.Context) (*models.DashboardStats, error) {
	var stats *models.DashboardStats
	err := c.do(ctx, request{
		method:   http.MethodGet,
		path:     "/dashboard",
		fallback: "Failed to fetch dashboard",
	}, &stats)
	if err != nil {
		return nil, err
	}
	return stats, nil
}
