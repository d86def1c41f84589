package adapter

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/cardvault-cli/internal/models"
)

// InventoryQuery holds the inventory listing filters
type InventoryQuery struct {
	Search    string
	SetID     string
	Condition string
	SortBy    string
	SortOrder string
	Limit     int
}

// Values encodes the query. search, sort_by and sort_order are always sent;
// the remaining filters only when set.
func (q InventoryQuery) Values() url.Values {
	v := url.Values{}
	v.Set("search", q.Search)
	v.Set("sort_by", q.SortBy)
	v.Set("sort_order", q.SortOrder)
	if q.SetID != "" {
		v.Set("set_id", q.SetID)
	}
	if q.Condition != "" {
		v.Set("condition", q.Condition)
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	return v
}

// ListInventory fetches the user's inventory
func (c *Client) ListInventory(ctx context.Context, q InventoryQuery) (*models.InventoryPage, error) {
	return c.listInventory(ctx, q.Values())
}

// TopValuedInventory fetches the n most valuable entries
func (c *Client) TopValuedInventory(ctx context.Context, n int) (*models.InventoryPage, error) {
	v := url.Values{}
	v.Set("limit", strconv.Itoa(n))
	v.Set("sort_by", "value")
	v.Set("sort_order", "desc")
	return c.listInventory(ctx, v)
}

func (c *Client) listInventory(ctx context.Context, v url.Values) (*models.InventoryPage, error) {
	var page models.InventoryPage
	err := c.do(ctx, request{
		method:   http.MethodGet,
		path:     "/inventory",
		query:    v,
		fallback: "Failed to fetch inventory",
	}, &page)
	if err != nil {
		return nil, err
	}
	if page.Items == nil {
		page.Items = []models.InventoryEntry{}
	}
	return &page, nil
}

// DeleteInventoryEntry removes one entry
func (c *Client) DeleteInventoryEntry(ctx context.Context, id string) error {
	return c.do(ctx, request{
		method:   http.MethodDelete,
		path:     "/inventory/" + url.PathEscape(id),
		fallback: "Failed to remove card",
	}, nil)
}
