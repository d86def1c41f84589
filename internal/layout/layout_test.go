package layout

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/cardvault-cli/internal/adapter"
	"github.com/cardvault-cli/internal/apitest"
	apperrors "github.com/cardvault-cli/internal/errors"
	"github.com/cardvault-cli/internal/logging"
	"github.com/cardvault-cli/internal/models"
	"github.com/cardvault-cli/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const routeUnread = "GET /api/v1/notifications/unread-count"

func setupShell(t *testing.T, interval time.Duration) (*Shell, *adapter.Client, *apitest.Server) {
	t.Helper()

	srv := apitest.NewServer()
	t.Cleanup(srv.Close)

	client, err := adapter.NewClient(&adapter.ClientConfig{
		BaseURL:  srv.URL(),
		Timeout:  5 * time.Second,
		Sessions: session.NewMemoryStoreWith(srv.Session()),
		Logger:   logging.Nop(),
	})
	require.NoError(t, err)

	shell := NewShell(client, Options{Interval: interval})
	t.Cleanup(shell.Unmount)
	return shell, client, srv
}

func TestIsActive(t *testing.T) {
	dashboard, scan := NavItems[0], NavItems[1]

	assert.True(t, IsActive(scan, "/scan", false))
	assert.False(t, IsActive(scan, "/scan/123", false), "exact match only")
	assert.True(t, IsActive(dashboard, "/", true))
	assert.False(t, IsActive(dashboard, "/", false))
	assert.False(t, IsActive(scan, "/", true))
}

func TestBadge(t *testing.T) {
	tests := []struct {
		count int
		want  string
	}{
		{0, ""},
		{-1, ""},
		{1, "1"},
		{9, "9"},
		{10, "9"},
		{250, "9"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Badge(tt.count), "count %d", tt.count)
	}
}

func TestMountFetchesImmediately(t *testing.T) {
	shell, _, srv := setupShell(t, time.Hour)
	srv.AddNotification(models.Notification{ID: "n1"})
	srv.AddNotification(models.Notification{ID: "n2"})

	shell.Mount(context.Background())
	require.Eventually(t, func() bool { return shell.Unread() == 2 }, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, "2", shell.Badge())
	assert.Equal(t, 1, srv.Count(routeUnread))

	// a second mount is a no-op
	shell.Mount(context.Background())
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 1, srv.Count(routeUnread))
}

func TestMountRefreshesAndIgnoresErrors(t *testing.T) {
	shell, _, srv := setupShell(t, 10*time.Millisecond)
	srv.Fail(routeUnread, apitest.Fault{Status: http.StatusInternalServerError, Body: `{}`, Times: 2})
	srv.AddNotification(models.Notification{ID: "n1"})

	shell.Mount(context.Background())
	require.Eventually(t, func() bool { return shell.Unread() == 1 }, 2*time.Second, 5*time.Millisecond)
	assert.GreaterOrEqual(t, srv.Count(routeUnread), 3)
}

func TestUnmountStopsRequests(t *testing.T) {
	shell, _, srv := setupShell(t, 5*time.Millisecond)

	shell.Mount(context.Background())
	require.Eventually(t, func() bool { return srv.Count(routeUnread) >= 2 }, 2*time.Second, time.Millisecond)

	shell.Unmount()
	time.Sleep(10 * time.Millisecond)
	after := srv.Count(routeUnread)
	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, after, srv.Count(routeUnread))

	// unmount twice is safe
	shell.Unmount()
}

func TestLogoutClearsSession(t *testing.T) {
	shell, client, srv := setupShell(t, time.Hour)
	ctx := context.Background()

	shell.Mount(ctx)
	route, err := shell.Logout(ctx)
	require.NoError(t, err)
	assert.Equal(t, LoginRoute, route)

	_, err = client.Sessions().Load(ctx)
	assert.ErrorIs(t, err, session.ErrNoSession)

	before := srv.Total()
	_, err = client.UnreadCount(ctx)
	assert.True(t, apperrors.IsUnauthorized(err))
	assert.Equal(t, before, srv.Total())
}

func TestOnCountObserver(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()
	srv.AddNotification(models.Notification{ID: "n1"})

	client, err := adapter.NewClient(&adapter.ClientConfig{
		BaseURL:  srv.URL(),
		Sessions: session.NewMemoryStoreWith(srv.Session()),
	})
	require.NoError(t, err)

	counts := make(chan int, 4)
	shell := NewShell(client, Options{Interval: time.Hour, OnCount: func(n int) { counts <- n }})
	shell.Mount(context.Background())
	defer shell.Unmount()

	select {
	case n := <-counts:
		assert.Equal(t, 1, n)
	case <-time.After(2 * time.Second):
		t.Fatal("no count observed")
	}
}
