package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	apperrors "github.com/cardvault-cli/internal/errors"
	"github.com/cardvault-cli/internal/logging"
	"github.com/cardvault-cli/internal/models"
	"golang.org/x/sync/errgroup"
)

// MarketplaceAPI is what the marketplace page calls
type MarketplaceAPI interface {
	ListWants(ctx context.Context) ([]models.Want, error)
	CreateWant(ctx context.Context, in models.WantInput) (string, error)
	DeleteWant(ctx context.Context, id string) error
	ListMatches(ctx context.Context) ([]models.Match, error)
}

var sampleCollectors = []string{"CardKing", "HoloHunter", "TopLoader", "MintVault", "SleevedUp"}

// Inquiry is a suggested collector to contact about a want
type Inquiry struct {
	WantID        string
	CardName      string
	SetCode       *string
	SuggestedUser string
	Confidence    string
	Note          string
}

// Marketplace is the wants and matches page view model
type Marketplace struct {
	api    MarketplaceAPI
	logger *logging.Logger

	mu      sync.Mutex
	wants   []models.Want
	matches []models.Match
	err     error
}

// NewMarketplace creates a marketplace page
func NewMarketplace(api MarketplaceAPI, logger *logging.Logger) *Marketplace {
	return &Marketplace{api: api, logger: pageLogger(logger, "marketplace")}
}

// Load fetches wants and matches concurrently
func (m *Marketplace) Load(ctx context.Context) error {
	var (
		wants   []models.Want
		matches []models.Match
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		w, err := m.api.ListWants(gctx)
		wants = w
		return err
	})
	g.Go(func() error {
		ms, err := m.api.ListMatches(gctx)
		matches = ms
		return err
	})
	err := g.Wait()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
	if err != nil {
		m.logger.WithError(err).Warn("Failed to fetch marketplace")
		return err
	}
	m.wants = wants
	m.matches = matches
	return nil
}

// AddWant registers a wanted card and refetches both lists. The set code is
// optional and normalized to upper case.
func (m *Marketplace) AddWant(ctx context.Context, cardName, setCode string) error {
	cardName = strings.TrimSpace(cardName)
	if cardName == "" {
		return apperrors.NewInvalidParameterError("card_name", "required")
	}

	in := models.WantInput{CardName: cardName}
	if code := strings.TrimSpace(setCode); code != "" {
		code = strings.ToUpper(code)
		in.SetCode = &code
	}

	if _, err := m.api.CreateWant(ctx, in); err != nil {
		m.record(err, "Failed to add want")
		return err
	}
	return m.Load(ctx)
}

// RemoveWant deletes a want and refetches both lists
func (m *Marketplace) RemoveWant(ctx context.Context, id string) error {
	if err := m.api.DeleteWant(ctx, id); err != nil {
		m.record(err, "Failed to remove want")
		return err
	}
	return m.Load(ctx)
}

func (m *Marketplace) record(err error, msg string) {
	m.logger.WithError(err).Warn(msg)
	m.mu.Lock()
	m.err = err
	m.mu.Unlock()
}

// Wants returns the loaded wants
func (m *Marketplace) Wants() []models.Want {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Want(nil), m.wants...)
}

// Matches returns the loaded matches
func (m *Marketplace) Matches() []models.Match {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Match(nil), m.matches...)
}

// MatchesByWant groups matches by want id
func (m *Marketplace) MatchesByWant() map[string][]models.Match {
	m.mu.Lock()
	defer m.mu.Unlock()

	byWant := make(map[string][]models.Match)
	for _, match := range m.matches {
		byWant[match.WantID] = append(byWant[match.WantID], match)
	}
	return byWant
}

// Inquiries returns one placeholder contact suggestion per want
func (m *Marketplace) Inquiries() []Inquiry {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Inquiry, 0, len(m.wants))
	for i, w := range m.wants {
		out = append(out, Inquiry{
			WantID:        w.ID,
			CardName:      w.CardName,
			SetCode:       w.SetCode,
			SuggestedUser: sampleCollectors[i%len(sampleCollectors)],
			Confidence:    fmt.Sprintf("%d%% match", 82+i%10),
			Note:          "Placeholder suggestion based on recent activity",
		})
	}
	return out
}

// Err returns the last failure
func (m *Marketplace) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.err
}
