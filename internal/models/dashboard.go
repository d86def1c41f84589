package models

// DashboardStats are the aggregate figures shown on the dashboard
type DashboardStats struct {
	TotalCards         int     `json:"total_cards"`
	TotalValue         float64 `json:"total_value"`
	ValueChange        float64 `json:"value_change"`
	ValueChangePercent float64 `json:"value_change_percent"`
	RecentScans        int     `json:"recent_scans"`
	ActiveListings     int     `json:"active_listings"`
	PendingTrades      int     `json:"pending_trades"`
	UnreadAlerts       int     `json:"unread_alerts"`
}
