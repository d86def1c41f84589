package models

// Notification is an in-app alert (marketplace match, portfolio trend)
type Notification struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	Read      bool   `json:"read"`
	CreatedAt string `json:"created_at"`
}

// UnreadCount is the payload of the unread-count endpoint
type UnreadCount struct {
	Count int `json:"count"`
}
