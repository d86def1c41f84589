package models

import "github.com/cardvault-cli/internal/types"

// BoundingBox locates a card within the scan image in normalized coordinates (0..1)
type BoundingBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// UnitBox covers the whole image
var UnitBox = BoundingBox{X: 0, Y: 0, Width: 1, Height: 1}

// ScanReceipt is the payload of a successful upload
type ScanReceipt struct {
	ScanID                  string           `json:"scan_id"`
	Status                  types.ScanStatus `json:"status"`
	ImageURL                string           `json:"image_url"`
	EstimatedProcessingSecs int              `json:"estimated_processing_time_seconds,omitempty"`
}

// Detection is one recognized card as reported by the server
type Detection struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	SetCode      string       `json:"set_code"`
	Confidence   *float64     `json:"confidence"`
	BoundingBox  *BoundingBox `json:"bounding_box"`
	CropImageURL string       `json:"crop_image_url"`
	CardNumber   *string      `json:"card_number,omitempty"`
	Year         *string      `json:"year,omitempty"`
	Domain       string       `json:"domain,omitempty"`
}

// ScanRecord is the payload of the scan status endpoint
type ScanRecord struct {
	ScanID        string           `json:"scan_id"`
	Status        types.ScanStatus `json:"status"`
	ScanType      types.ScanType   `json:"scan_type"`
	ImageURL      string           `json:"image_url"`
	DetectedCards []Detection      `json:"detected_cards"`
	ProcessedAt   *string          `json:"processed_at,omitempty"`
}

// DetectedCard is a recognized card held by the client pending confirmation
type DetectedCard struct {
	ID                  string          `json:"id"`
	BoundingBox         BoundingBox     `json:"boundingBox"`
	CropImageURL        string          `json:"cropImageUrl"`
	PredictedSet        *CardSet        `json:"predictedSet,omitempty"`
	PredictedName       string          `json:"predictedName,omitempty"`
	PredictedConfidence float64         `json:"predictedConfidence"`
	Confirmed           bool            `json:"confirmed"`
	Condition           types.Condition `json:"condition"`
	Quantity            int             `json:"quantity"`
}

// ScanSession is the client-side lifecycle of one uploaded image
type ScanSession struct {
	ScanID        string           `json:"scanId"`
	Status        types.ScanStatus `json:"status"`
	ScanType      types.ScanType   `json:"scanType"`
	ImageURL      string           `json:"imageUrl"`
	DetectedCards []DetectedCard   `json:"detectedCards"`
}

// Clone returns a deep copy safe to hand to readers
func (s *ScanSession) Clone() *ScanSession {
	if s == nil {
		return nil
	}
	out := *s
	out.DetectedCards = make([]DetectedCard, len(s.DetectedCards))
	for i, card := range s.DetectedCards {
		if card.PredictedSet != nil {
			set := *card.PredictedSet
			card.PredictedSet = &set
		}
		out.DetectedCards[i] = card
	}
	return &out
}

// ConfirmedIDs returns the ids of every confirmed card in order
func (s *ScanSession) ConfirmedIDs() []string {
	ids := make([]string, 0, len(s.DetectedCards))
	for _, card := range s.DetectedCards {
		if card.Confirmed {
			ids = append(ids, card.ID)
		}
	}
	return ids
}

// SavedEntry is a reference to an inventory entry created by a save
type SavedEntry struct {
	ID       string `json:"id"`
	CardName string `json:"card_name"`
}

// SaveResult is the payload of the scan save endpoint
type SaveResult struct {
	SavedCount       int          `json:"saved_count"`
	InventoryEntries []SavedEntry `json:"inventory_entries"`
	CardLimit        int          `json:"card_limit"`
	CurrentCount     int          `json:"current_count"`
}
