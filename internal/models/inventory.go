package models

import "github.com/cardvault-cli/internal/types"

// CardSet identifies the set a card was printed in
type CardSet struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

// Card is the catalog identity of an inventory entry
type Card struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Set      CardSet `json:"set"`
	ImageURL string  `json:"image_url"`
}

// Value is a market valuation
type Value struct {
	Amount     float64 `json:"amount"`
	Currency   string  `json:"currency"`
	Confidence string  `json:"confidence"`
}

// InventoryEntry represents one owned card
type InventoryEntry struct {
	ID             string          `json:"id"`
	Card           Card            `json:"card"`
	Quantity       int             `json:"quantity"`
	Condition      types.Condition `json:"condition"`
	ConditionGrade *float64        `json:"condition_grade,omitempty"`
	CurrentValue   *Value          `json:"current_value"`
	ScannedAt      string          `json:"scanned_at"`
}

// Amount returns the unit value of the entry, 0 when unvalued
func (e InventoryEntry) Amount() float64 {
	if e.CurrentValue == nil {
		return 0
	}
	return e.CurrentValue.Amount
}

// Pagination describes a page of results
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// InventoryPage is the payload of the inventory listing
type InventoryPage struct {
	Items      []InventoryEntry `json:"items"`
	Pagination *Pagination      `json:"pagination,omitempty"`
}
