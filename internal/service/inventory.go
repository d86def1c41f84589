package service

import (
	"context"
	"sync"

	"github.com/cardvault-cli/internal/adapter"
	apperrors "github.com/cardvault-cli/internal/errors"
	"github.com/cardvault-cli/internal/logging"
	"github.com/cardvault-cli/internal/models"
	"github.com/cardvault-cli/internal/types"
)

// InventoryAPI is what the inventory page calls
type InventoryAPI interface {
	ListInventory(ctx context.Context, q adapter.InventoryQuery) (*models.InventoryPage, error)
	DeleteInventoryEntry(ctx context.Context, id string) error
}

// InventoryFilters are the user-controlled listing filters
type InventoryFilters struct {
	Search    string
	SetID     string
	Condition types.Condition
	SortBy    types.InventorySort
	SortOrder types.SortOrder
	Limit     int
}

// DefaultInventoryFilters sorts newest first
func DefaultInventoryFilters() InventoryFilters {
	return InventoryFilters{SortBy: types.SortByDateAdded, SortOrder: types.SortDesc}
}

func (f InventoryFilters) query() adapter.InventoryQuery {
	return adapter.InventoryQuery{
		Search:    f.Search,
		SetID:     f.SetID,
		Condition: string(f.Condition),
		SortBy:    string(f.SortBy),
		SortOrder: string(f.SortOrder),
		Limit:     f.Limit,
	}
}

// ViewMode is the inventory layout
type ViewMode string

const (
	ViewGrid ViewMode = "grid"
	ViewList ViewMode = "list"
)

// Inventory is the collection page view model
type Inventory struct {
	api    InventoryAPI
	logger *logging.Logger

	mu      sync.Mutex
	filters InventoryFilters
	entries []models.InventoryEntry
	mode    ViewMode
	err     error
}

// NewInventory creates an inventory page with the default filters
func NewInventory(api InventoryAPI, logger *logging.Logger) *Inventory {
	return &Inventory{
		api:     api,
		logger:  pageLogger(logger, "inventory"),
		filters: DefaultInventoryFilters(),
		mode:    ViewGrid,
	}
}

// Load fetches the inventory with the current filters
func (inv *Inventory) Load(ctx context.Context) error {
	inv.mu.Lock()
	q := inv.filters.query()
	inv.mu.Unlock()

	page, err := inv.api.ListInventory(ctx, q)

	inv.mu.Lock()
	defer inv.mu.Unlock()
	inv.err = err
	if err != nil {
		inv.logger.WithError(err).Warn("Failed to fetch inventory")
		return err
	}
	inv.entries = page.Items
	return nil
}

// SetSearch changes the search text and refetches
func (inv *Inventory) SetSearch(ctx context.Context, search string) error {
	inv.mu.Lock()
	inv.filters.Search = search
	inv.mu.Unlock()
	return inv.Load(ctx)
}

// SetFilters replaces the filters and refetches. Empty sort fields keep their defaults.
func (inv *Inventory) SetFilters(ctx context.Context, f InventoryFilters) error {
	if f.SortBy == "" {
		f.SortBy = types.SortByDateAdded
	}
	if f.SortOrder == "" {
		f.SortOrder = types.SortDesc
	}
	if f.Condition != "" && !f.Condition.Valid() {
		return apperrors.NewInvalidParameterError("condition", "unknown condition")
	}
	if f.Limit < 0 {
		return apperrors.NewInvalidParameterError("limit", "must not be negative")
	}

	inv.mu.Lock()
	inv.filters = f
	inv.mu.Unlock()
	return inv.Load(ctx)
}

// Filters returns the active filters
func (inv *Inventory) Filters() InventoryFilters {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return inv.filters
}

// Remove deletes an entry and refetches
func (inv *Inventory) Remove(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.NewInvalidParameterError("id", "required")
	}
	if err := inv.api.DeleteInventoryEntry(ctx, id); err != nil {
		inv.logger.WithError(err).WithField("entry_id", id).Warn("Failed to remove card")
		inv.mu.Lock()
		inv.err = err
		inv.mu.Unlock()
		return err
	}
	return inv.Load(ctx)
}

// Entries returns the loaded entries
func (inv *Inventory) Entries() []models.InventoryEntry {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return append([]models.InventoryEntry(nil), inv.entries...)
}

// Count is the number of loaded entries
func (inv *Inventory) Count() int {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return len(inv.entries)
}

// TotalValue sums value times quantity over the loaded entries
func (inv *Inventory) TotalValue() float64 {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return TotalValue(inv.entries)
}

// TotalValue sums value times quantity; unvalued entries count as 0
func TotalValue(entries []models.InventoryEntry) float64 {
	total := 0.0
	for _, e := range entries {
		total += e.Amount() * float64(e.Quantity)
	}
	return total
}

// ToggleViewMode flips between grid and list
func (inv *Inventory) ToggleViewMode() ViewMode {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	if inv.mode == ViewGrid {
		inv.mode = ViewList
	} else {
		inv.mode = ViewGrid
	}
	return inv.mode
}

// ViewMode returns the current layout
func (inv *Inventory) ViewMode() ViewMode {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return inv.mode
}

// Err returns the last failure
func (inv *Inventory) Err() error {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return inv.err
}
