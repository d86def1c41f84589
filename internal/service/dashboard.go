package service

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/cardvault-cli/internal/logging"
	"github.com/cardvault-cli/internal/models"
	"golang.org/x/sync/errgroup"
)

// TrendingLimit is the number of top-valued cards fetched for the dashboard
const TrendingLimit = 5

// DashboardAPI is what the dashboard reads
type DashboardAPI interface {
	Dashboard(ctx context.Context) (*models.DashboardStats, error)
	TopValuedInventory(ctx context.Context, n int) (*models.InventoryPage, error)
}

// TrendingCard is one of the user's most valuable cards
type TrendingCard struct {
	ID            string
	Name          string
	SetCode       string
	Value         float64
	Change        float64
	ChangePercent float64
}

// Activity is a marketplace event shown on the dashboard
type Activity struct {
	ID     string
	Kind   string
	Title  string
	Status string
	When   string
}

// TrendSeries is a short price history rendered as a sparkline
type TrendSeries struct {
	Label  string
	Values []float64
}

// Delta is the change from the first to the last value
func (t TrendSeries) Delta() float64 {
	if len(t.Values) == 0 {
		return 0
	}
	return t.Values[len(t.Values)-1] - t.Values[0]
}

// DeltaPercent is Delta relative to the first value
func (t TrendSeries) DeltaPercent() float64 {
	if len(t.Values) == 0 || t.Values[0] == 0 {
		return 0
	}
	return t.Delta() / t.Values[0] * 100
}

var placeholderStats = models.DashboardStats{
	TotalCards:         124,
	TotalValue:         4823.5,
	ValueChange:        214.32,
	ValueChangePercent: 4.6,
	RecentScans:        6,
	ActiveListings:     8,
	PendingTrades:      3,
	UnreadAlerts:       5,
}

var placeholderActivity = []Activity{
	{ID: "placeholder-1", Kind: "listing", Title: "Listed Charizard EX (Secret Rare) for $245", Status: "Live • 12 watchers", When: "2h ago"},
	{ID: "placeholder-2", Kind: "offer", Title: "Offer received for Blastoise EX (LP)", Status: "Pending response", When: "Yesterday"},
	{ID: "placeholder-3", Kind: "trade", Title: "Trade chat opened with MintVault", Status: "Awaiting confirmation", When: "2 days ago"},
}

var placeholderTrends = []TrendSeries{
	{Label: "7D", Values: []float64{18.2, 18.9, 19.4, 20.1, 19.8, 20.6, 21.4, 22.1}},
	{Label: "7D", Values: []float64{11.6, 11.4, 11.2, 11.9, 12.4, 12.1, 12.9, 13.3}},
}

// DashboardView is what the dashboard displays
type DashboardView struct {
	Stats       models.DashboardStats
	Placeholder bool
	Trending    []TrendingCard
	Activity    []Activity
}

// TrendFor returns the illustrative series drawn next to the i-th trending card
func (v DashboardView) TrendFor(i int) TrendSeries {
	return placeholderTrends[i%len(placeholderTrends)]
}

// DashboardOptions configures the dashboard
type DashboardOptions struct {
	// Placeholders enables the empty-state fallback figures
	Placeholders bool
	Logger       *logging.Logger
}

// Dashboard is the landing page view model
type Dashboard struct {
	api          DashboardAPI
	placeholders bool
	logger       *logging.Logger

	mu       sync.Mutex
	stats    *models.DashboardStats
	trending []TrendingCard
	err      error
}

// NewDashboard creates a dashboard page
func NewDashboard(api DashboardAPI, opts DashboardOptions) *Dashboard {
	return &Dashboard{
		api:          api,
		placeholders: opts.Placeholders,
		logger:       pageLogger(opts.Logger, "dashboard"),
	}
}

// Load fetches the stats and the top-valued cards concurrently. A failed
// fetch leaves its part empty; the first failure is returned and recorded.
func (d *Dashboard) Load(ctx context.Context) error {
	var (
		stats *models.DashboardStats
		page  *models.InventoryPage
	)

	// one failing fetch must not cancel the other
	var g errgroup.Group
	g.Go(func() error {
		s, err := d.api.Dashboard(ctx)
		if err != nil {
			d.logger.WithError(err).Warn("Failed to fetch dashboard stats")
			return err
		}
		stats = s
		return nil
	})
	g.Go(func() error {
		p, err := d.api.TopValuedInventory(ctx, TrendingLimit)
		if err != nil {
			d.logger.WithError(err).Warn("Failed to fetch trending cards")
			return err
		}
		page = p
		return nil
	})
	err := g.Wait()

	d.mu.Lock()
	defer d.mu.Unlock()

	d.err = err
	d.stats = stats
	d.trending = nil
	if page != nil {
		d.trending = trendingCards(page.Items)
	}
	return err
}

func trendingCards(items []models.InventoryEntry) []TrendingCard {
	cards := make([]TrendingCard, 0, len(items))
	for _, item := range items {
		value := item.Amount()
		cards = append(cards, TrendingCard{
			ID:            item.ID,
			Name:          item.Card.Name,
			SetCode:       item.Card.Set.Code,
			Value:         value,
			Change:        value * 0.1,
			ChangePercent: 10,
		})
	}
	return cards
}

// View applies the empty-state policy: without meaningful stats the dashboard
// shows placeholder figures and flags them as such.
func (d *Dashboard) View() DashboardView {
	d.mu.Lock()
	defer d.mu.Unlock()

	view := DashboardView{
		Trending: append([]TrendingCard(nil), d.trending...),
	}
	if hasRealStats(d.stats) {
		view.Stats = *d.stats
	} else if d.placeholders {
		view.Stats = placeholderStats
		view.Placeholder = true
	} else if d.stats != nil {
		view.Stats = *d.stats
	}
	if d.placeholders {
		view.Activity = append([]Activity(nil), placeholderActivity...)
	}
	return view
}

// Err returns the failure of the last Load
func (d *Dashboard) Err() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.err
}

func hasRealStats(s *models.DashboardStats) bool {
	return s != nil && (s.TotalValue > 0 || s.ActiveListings > 0 || s.UnreadAlerts > 0)
}

// SparklinePoints lays values out in a 100x24 viewbox as "x,y x,y ..."
func SparklinePoints(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minV, maxV := values[0], values[0]
	for _, v := range values {
		minV = math.Min(minV, v)
		maxV = math.Max(maxV, v)
	}
	rng := maxV - minV
	if rng == 0 {
		rng = 1
	}

	points := make([]string, len(values))
	for i, v := range values {
		x := 0.0
		if len(values) > 1 {
			x = float64(i) / float64(len(values)-1) * 100
		}
		y := 24 - (v-minV)/rng*24
		points[i] = strconv.FormatFloat(x, 'f', -1, 64) + "," + strconv.FormatFloat(y, 'f', -1, 64)
	}
	return strings.Join(points, " ")
}

// FormatCurrency renders a dollar amount with two decimals
func FormatCurrency(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}
