package models

// Want is a user's request to be matched against other collections
type Want struct {
	ID           string   `json:"id"`
	CardName     string   `json:"card_name"`
	SetCode      *string  `json:"set_code,omitempty"`
	MinCondition *string  `json:"min_condition,omitempty"`
	MaxPrice     *float64 `json:"max_price,omitempty"`
	CreatedAt    string   `json:"created_at"`
}

// WantInput is the body of a new want
type WantInput struct {
	CardName     string   `json:"card_name"`
	SetCode      *string  `json:"set_code"`
	MinCondition *string  `json:"min_condition,omitempty"`
	MaxPrice     *float64 `json:"max_price,omitempty"`
}

// WantedCard is the wanted side of a match
type WantedCard struct {
	CardName string  `json:"card_name"`
	SetCode  *string `json:"set_code,omitempty"`
}

// MatchOwner identifies the collector who has the card
type MatchOwner struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

// HaveCard is the owned side of a match
type HaveCard struct {
	InventoryEntryID string `json:"inventory_entry_id"`
	CardName         string `json:"card_name"`
	SetCode          string `json:"set_code"`
	Condition        string `json:"condition"`
	Quantity         int    `json:"quantity"`
}

// Match pairs one of the user's wants with another collector's inventory entry
type Match struct {
	WantID string     `json:"want_id"`
	Wanted WantedCard `json:"wanted"`
	Owner  MatchOwner `json:"owner"`
	Have   HaveCard   `json:"have"`
}
