// Package models provides the CardVault API data models as the client sees them.
package models

// User represents the cached profile of the logged-in user
type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// Session holds the bearer tokens and cached profile written at login
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in,omitempty"`
	User         User   `json:"user"`
}

// Settings represents the user's account settings
type Settings struct {
	Username           string  `json:"username,omitempty"`
	Email              string  `json:"email,omitempty"`
	InventoryPublic    bool    `json:"inventory_public"`
	MarketplaceEnabled bool    `json:"marketplace_enabled"`
	NotificationInApp  bool    `json:"notification_in_app"`
	City               *string `json:"city"`
	StateProvince      *string `json:"state_province"`
	Country            *string `json:"country"`
}
