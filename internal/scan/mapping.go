package scan

import (
	"github.com/cardvault-cli/internal/models"
	"github.com/cardvault-cli/internal/types"
)

// MapDetections converts server detections into reviewable cards.
// Missing boxes cover the whole image and missing crops fall back to the scan image.
func MapDetections(detections []models.Detection, imageURL string, autoConfirm bool) []models.DetectedCard {
	cards := make([]models.DetectedCard, 0, len(detections))
	for _, d := range detections {
		card := models.DetectedCard{
			ID:            d.ID,
			BoundingBox:   models.UnitBox,
			CropImageURL:  d.CropImageURL,
			PredictedSet:  &models.CardSet{Code: d.SetCode},
			PredictedName: d.Name,
			Quantity:      1,
		}
		if d.BoundingBox != nil {
			card.BoundingBox = *d.BoundingBox
		}
		if card.CropImageURL == "" {
			card.CropImageURL = imageURL
		}
		if d.Confidence != nil {
			card.PredictedConfidence = *d.Confidence
		}
		if autoConfirm {
			card.Confirmed = true
			card.Condition = types.ConditionNearMint
		}
		cards = append(cards, card)
	}
	return cards
}
