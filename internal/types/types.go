// Package types provides common type definitions shared by the CardVault client packages.
package types

import (
	"fmt"
	"strings"
)

// Condition represents the physical grade of a card. Wire values are the display strings.
type Condition string

const (
	// ConditionNearMint is the default condition for freshly scanned cards
	ConditionNearMint Condition = "Near Mint"
	// ConditionLightlyPlayed represents minor wear
	ConditionLightlyPlayed Condition = "Lightly Played"
	// ConditionModeratelyPlayed represents visible wear
	ConditionModeratelyPlayed Condition = "Moderately Played"
	// ConditionHeavilyPlayed represents heavy wear
	ConditionHeavilyPlayed Condition = "Heavily Played"
	// ConditionDamaged represents a damaged card
	ConditionDamaged Condition = "Damaged"
)

// Conditions lists every known condition from best to worst
var Conditions = []Condition{
	ConditionNearMint,
	ConditionLightlyPlayed,
	ConditionModeratelyPlayed,
	ConditionHeavilyPlayed,
	ConditionDamaged,
}

// Valid reports whether c is one of the known conditions
func (c Condition) Valid() bool {
	for _, known := range Conditions {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCondition accepts the display string or a short form ("nm", "lp", "near-mint", ...)
func ParseCondition(s string) (Condition, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	normalized = strings.NewReplacer("-", " ", "_", " ").Replace(normalized)

	switch normalized {
	case "nm", "near mint":
		return ConditionNearMint, nil
	case "lp", "lightly played":
		return ConditionLightlyPlayed, nil
	case "mp", "moderately played":
		return ConditionModeratelyPlayed, nil
	case "hp", "heavily played":
		return ConditionHeavilyPlayed, nil
	case "dmg", "damaged":
		return ConditionDamaged, nil
	}
	return "", fmt.Errorf("unknown condition %q", s)
}

// ScanStatus represents the server-owned status of a scan job
type ScanStatus string

const (
	// ScanStatusPending represents a scan that has not started processing
	ScanStatusPending ScanStatus = "pending"
	// ScanStatusProcessing represents a scan being recognized
	ScanStatusProcessing ScanStatus = "processing"
	// ScanStatusCompleted represents a scan with recognition results
	ScanStatusCompleted ScanStatus = "completed"
	// ScanStatusFailed represents a scan the recognizer could not process
	ScanStatusFailed ScanStatus = "failed"
	// ScanStatusSaved represents a scan whose confirmed cards were saved to inventory
	ScanStatusSaved ScanStatus = "saved"
)

// ScanType discriminates single-card and multi-card photos
type ScanType string

const (
	// ScanTypeSingle represents a photo of one card
	ScanTypeSingle ScanType = "single"
	// ScanTypeMulti represents a photo of several cards
	ScanTypeMulti ScanType = "multi"
)

// ParseScanType parses a scan type discriminator
func ParseScanType(s string) (ScanType, error) {
	switch ScanType(strings.ToLower(strings.TrimSpace(s))) {
	case ScanTypeSingle:
		return ScanTypeSingle, nil
	case ScanTypeMulti:
		return ScanTypeMulti, nil
	}
	return "", fmt.Errorf("unknown scan type %q (want single or multi)", s)
}

// SortOrder represents list ordering direction
type SortOrder string

const (
	// SortAsc sorts ascending
	SortAsc SortOrder = "asc"
	// SortDesc sorts descending
	SortDesc SortOrder = "desc"
)

// InventorySort represents the inventory sort key
type InventorySort string

const (
	// SortByDateAdded sorts by scan time
	SortByDateAdded InventorySort = "date_added"
	// SortByValue sorts by current value
	SortByValue InventorySort = "value"
	// SortByName sorts by card name
	SortByName InventorySort = "name"
)

// ParseInventorySort parses an inventory sort key
func ParseInventorySort(s string) (InventorySort, error) {
	switch InventorySort(strings.ToLower(strings.TrimSpace(s))) {
	case SortByDateAdded:
		return SortByDateAdded, nil
	case SortByValue:
		return SortByValue, nil
	case SortByName:
		return SortByName, nil
	}
	return "", fmt.Errorf("unknown sort key %q", s)
}

// ParseSortOrder parses a sort direction
func ParseSortOrder(s string) (SortOrder, error) {
	switch SortOrder(strings.ToLower(strings.TrimSpace(s))) {
	case SortAsc:
		return SortAsc, nil
	case SortDesc:
		return SortDesc, nil
	}
	return "", fmt.Errorf("unknown sort order %q", s)
}

// SubscriptionTier identifies a subscription plan
type SubscriptionTier string

const (
	// TierFree is the default plan
	TierFree SubscriptionTier = "free"
	// TierPro is the mid plan
	TierPro SubscriptionTier = "pro"
	// TierPremium is the top plan
	TierPremium SubscriptionTier = "premium"
)

// ParseSubscriptionTier parses a plan identifier
func ParseSubscriptionTier(s string) (SubscriptionTier, error) {
	switch SubscriptionTier(strings.ToLower(strings.TrimSpace(s))) {
	case TierFree:
		return TierFree, nil
	case TierPro:
		return TierPro, nil
	case TierPremium:
		return TierPremium, nil
	}
	return "", fmt.Errorf("unknown tier %q (want free, pro or premium)", s)
}

// ServiceError represents the error body of a failed API response
type ServiceError struct {
	Code    string                 `json:"code,omitempty"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

func (e *ServiceError) Error() string {
	return e.Message
}
