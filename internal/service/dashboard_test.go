package service

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/cardvault-cli/internal/apitest"
	"github.com/cardvault-cli/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardLoadsStatsAndTrending(t *testing.T) {
	client, srv := setupClient(t)
	srv.SetDashboard(&models.DashboardStats{TotalCards: 3, TotalValue: 150, ActiveListings: 1})
	srv.AddInventory(
		entry("e1", "Pikachu", "BS", 10, 1),
		entry("e2", "Charizard", "BS", 120, 1),
		entry("e3", "Mewtwo", "JU", 20, 2),
	)
	noValue := entry("e4", "Energy", "BS", 0, 1)
	noValue.CurrentValue = nil
	srv.AddInventory(noValue)

	d := NewDashboard(client, DashboardOptions{Placeholders: true})
	require.NoError(t, d.Load(context.Background()))

	req, ok := srv.Last("GET /api/v1/inventory")
	require.True(t, ok)
	assert.Equal(t, "5", req.Query.Get("limit"))
	assert.Equal(t, "value", req.Query.Get("sort_by"))
	assert.Equal(t, "desc", req.Query.Get("sort_order"))

	view := d.View()
	assert.False(t, view.Placeholder)
	assert.Equal(t, 150.0, view.Stats.TotalValue)
	require.Len(t, view.Trending, 4)
	assert.Equal(t, "Charizard", view.Trending[0].Name)
	assert.InDelta(t, 12.0, view.Trending[0].Change, 1e-9)
	assert.Equal(t, 10.0, view.Trending[0].ChangePercent)
	assert.Equal(t, 0.0, view.Trending[3].Value)
	assert.Len(t, view.Activity, 3)
}

func TestDashboardEmptyStateFallback(t *testing.T) {
	tests := []struct {
		name         string
		stats        *models.DashboardStats
		placeholders bool
		want         bool
	}{
		{"missing stats", nil, true, true},
		{"all zero", &models.DashboardStats{TotalCards: 4, RecentScans: 2}, true, true},
		{"only alerts", &models.DashboardStats{UnreadAlerts: 1}, true, false},
		{"policy disabled", nil, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, srv := setupClient(t)
			srv.SetDashboard(tt.stats)

			d := NewDashboard(client, DashboardOptions{Placeholders: tt.placeholders})
			require.NoError(t, d.Load(context.Background()))

			view := d.View()
			assert.Equal(t, tt.want, view.Placeholder)
			if tt.want {
				assert.Equal(t, 124, view.Stats.TotalCards)
				assert.Equal(t, 4823.5, view.Stats.TotalValue)
				assert.Equal(t, 5, view.Stats.UnreadAlerts)
			}
			if !tt.placeholders {
				assert.Empty(t, view.Activity)
			}
		})
	}
}

func TestDashboardStatsFailureKeepsTrending(t *testing.T) {
	client, srv := setupClient(t)
	srv.AddInventory(entry("e1", "Pikachu", "BS", 10, 1))
	srv.Fail("GET /api/v1/dashboard", apitest.Fault{Status: http.StatusInternalServerError, Body: `{}`})

	d := NewDashboard(client, DashboardOptions{Placeholders: true})
	err := d.Load(context.Background())
	require.Error(t, err)
	assert.Equal(t, err, d.Err())

	view := d.View()
	assert.True(t, view.Placeholder)
	assert.Len(t, view.Trending, 1)
}

func TestTrendSeries(t *testing.T) {
	view := DashboardView{}
	first := view.TrendFor(0)
	assert.Equal(t, "7D", first.Label)
	assert.InDelta(t, 3.9, first.Delta(), 1e-9)
	assert.InDelta(t, 3.9/18.2*100, first.DeltaPercent(), 1e-9)
	assert.Equal(t, view.TrendFor(0), view.TrendFor(2))
	assert.Equal(t, 0.0, TrendSeries{}.Delta())
}

func TestSparklinePoints(t *testing.T) {
	assert.Equal(t, "0,24 50,12 100,0", SparklinePoints([]float64{1, 2, 3}))
	assert.Equal(t, "0,24 100,24", SparklinePoints([]float64{5, 5}), "flat series uses a unit range")
	assert.Equal(t, "0,24", SparklinePoints([]float64{7}))
	assert.Equal(t, "", SparklinePoints(nil))

	pts := strings.Fields(SparklinePoints(placeholderTrends[0].Values))
	assert.Len(t, pts, 8)
	assert.Equal(t, "0,24", pts[0])
	assert.Equal(t, "100,0", pts[7])
}

func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "$4823.50", FormatCurrency(4823.5))
	assert.Equal(t, "$0.00", FormatCurrency(0))
	assert.Equal(t, "$214.32", FormatCurrency(214.32))
}
