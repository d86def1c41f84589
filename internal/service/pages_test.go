package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/cardvault-cli/internal/apitest"
	apperrors "github.com/cardvault-cli/internal/errors"
	"github.com/cardvault-cli/internal/models"
	"github.com/cardvault-cli/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationsMarkRead(t *testing.T) {
	client, srv := setupClient(t)
	srv.AddNotification(models.Notification{ID: "n1", Type: "match", Title: "New match", Message: "ana has Lightning Bolt"})
	srv.AddNotification(models.Notification{ID: "n2", Type: "trend", Title: "Price up", Read: true})
	ctx := context.Background()

	n := NewNotifications(client, nil)
	require.NoError(t, n.Load(ctx))
	assert.Equal(t, 1, n.Unread())

	require.NoError(t, n.MarkRead(ctx, "n1"))
	assert.Equal(t, 0, n.Unread())
	assert.True(t, n.Items()[0].Read)
	assert.Equal(t, 1, srv.Count("GET /api/v1/notifications"), "marking read does not refetch")
	assert.True(t, srv.Notifications()[0].Read)

	err := n.MarkRead(ctx, "n404")
	assert.True(t, apperrors.IsNotFound(err))
	assert.Equal(t, err, n.Err())
}

func TestSettingsEditAndSave(t *testing.T) {
	client, srv := setupClient(t)
	ctx := context.Background()

	s := NewSettings(client, nil)
	assert.Error(t, s.Save(ctx), "nothing to save before load")
	assert.Error(t, s.SetInventoryPublic(true))

	require.NoError(t, s.Load(ctx))
	require.NoError(t, s.SetInventoryPublic(true))
	require.NoError(t, s.SetMarketplaceEnabled(false))
	require.NoError(t, s.SetNotificationInApp(false))
	require.NoError(t, s.SetLocation(Location{City: "Lyon", StateProvince: "", Country: "France"}))

	require.NoError(t, s.Save(ctx))
	assert.Equal(t, StatusSaved, s.Status())
	assert.False(t, s.Saving())

	saved := srv.Settings()
	assert.True(t, saved.InventoryPublic)
	assert.False(t, saved.MarketplaceEnabled)
	assert.False(t, saved.NotificationInApp)
	require.NotNil(t, saved.City)
	assert.Equal(t, "Lyon", *saved.City)
	assert.Nil(t, saved.StateProvince)

	assert.Equal(t, "Lyon", *s.Current().City)
}

func TestSettingsSaveFailureStatus(t *testing.T) {
	client, srv := setupClient(t)
	ctx := context.Background()

	s := NewSettings(client, nil)
	s.status = newFlash(30 * time.Millisecond)
	require.NoError(t, s.Load(ctx))

	srv.Fail("PATCH /api/v1/settings", apitest.Fault{Status: http.StatusInternalServerError, Body: `{}`, Times: 1})
	require.Error(t, s.Save(ctx))
	assert.Equal(t, StatusSaveFailed, s.Status())

	assert.Eventually(t, func() bool { return s.Status() == "" }, time.Second, 5*time.Millisecond)
}

func TestSubscriptionLoadAndUpgrade(t *testing.T) {
	client, srv := setupClient(t)
	ctx := context.Background()

	s := NewSubscription(client, nil)
	require.NoError(t, s.Load(ctx))
	assert.Len(t, s.Tiers(), 3)
	assert.True(t, s.IsCurrent(types.TierFree))
	assert.Equal(t, "Free", s.Current().TierName)

	require.NoError(t, s.Upgrade(ctx, types.TierPro))
	assert.Equal(t, "Successfully upgraded to Pro!", s.Message())
	assert.True(t, s.IsCurrent(types.TierPro))
	assert.Equal(t, types.TierPro, srv.Tier())
	assert.Equal(t, 2, srv.Count("GET /api/v1/subscription/tiers"), "refetch after upgrade")
	assert.Equal(t, types.SubscriptionTier(""), s.Upgrading())
}

func TestSubscriptionUpgradeMessages(t *testing.T) {
	tests := []struct {
		name  string
		fault apitest.Fault
		tier  types.SubscriptionTier
		want  string
	}{
		{
			name: "server detail",
			tier: "enterprise",
			want: "Invalid subscription tier",
		},
		{
			name:  "no detail",
			fault: apitest.Fault{Status: http.StatusBadRequest, Body: `{}`, Times: 1},
			tier:  types.TierPro,
			want:  "Upgrade failed",
		},
		{
			name:  "malformed response",
			fault: apitest.Fault{Status: http.StatusOK, Body: `not json`, Times: 1},
			tier:  types.TierPro,
			want:  "Upgrade failed. Please try again.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, srv := setupClient(t)
			if tt.fault.Status != 0 {
				srv.Fail("POST /api/v1/subscription/upgrade", tt.fault)
			}

			s := NewSubscription(client, nil)
			require.Error(t, s.Upgrade(context.Background(), tt.tier))
			assert.Equal(t, tt.want, s.Message())
			assert.Equal(t, types.TierFree, srv.Tier())
			assert.Equal(t, 0, srv.Count("GET /api/v1/subscription"), "no refetch after a failure")
		})
	}
}

func TestSubscriptionMessageSuccessFallback(t *testing.T) {
	client, srv := setupClient(t)
	srv.Fail("POST /api/v1/subscription/upgrade", apitest.Fault{
		Status: http.StatusOK,
		Body:   `{"success":true,"data":{"tier":"pro","tier_name":"Pro"}}`,
		Times:  1,
	})

	s := NewSubscription(client, nil)
	require.NoError(t, s.Upgrade(context.Background(), types.TierPro))
	assert.Equal(t, "Upgrade successful!", s.Message())
}
