package models

import "github.com/cardvault-cli/internal/types"

// Tier describes a subscription plan and its limits
type Tier struct {
	Tier             types.SubscriptionTier `json:"tier"`
	Name             string                 `json:"name"`
	MaxCards         int                    `json:"max_cards"`
	MaxTrendInsights int                    `json:"max_trend_insights"`
	Price            float64                `json:"price"`
	PricePeriod      string                 `json:"price_period"`
}

// Subscription is the user's current plan
type Subscription struct {
	Tier             types.SubscriptionTier `json:"tier"`
	TierName         string                 `json:"tier_name"`
	MaxCards         int                    `json:"max_cards"`
	MaxTrendInsights int                    `json:"max_trend_insights"`
	Price            float64                `json:"price"`
	PricePeriod      string                 `json:"price_period"`
}

// UpgradeResult is the payload of a successful upgrade
type UpgradeResult struct {
	Tier     types.SubscriptionTier `json:"tier"`
	TierName string                 `json:"tier_name"`
	Message  string                 `json:"message"`
}
