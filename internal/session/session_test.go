package session

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/cardvault-cli/internal/config"
	"github.com/cardvault-cli/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSession() *models.Session {
	return &models.Session{
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		User:         models.User{ID: "u1", Email: "ash@example.com", Username: "ash"},
	}
}

func setupRedisStore(t *testing.T, profile string) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisStoreFromClient(client, profile)
	t.Cleanup(func() { _ = store.Close() })
	return store, mr
}

// exerciseProvider checks the contract every backend must honour
func exerciseProvider(t *testing.T, p Provider) {
	t.Helper()
	ctx := context.Background()

	_, err := p.Load(ctx)
	assert.ErrorIs(t, err, ErrNoSession)

	require.NoError(t, p.Save(ctx, sampleSession()))

	got, err := p.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "access-1", got.AccessToken)
	assert.Equal(t, "ash", got.User.Username)

	assert.Error(t, p.Save(ctx, &models.Session{}), "empty token is rejected")

	require.NoError(t, p.Clear(ctx))
	_, err = p.Load(ctx)
	assert.ErrorIs(t, err, ErrNoSession)

	require.NoError(t, p.Clear(ctx), "clearing twice is harmless")
}

func TestMemoryStore(t *testing.T) {
	exerciseProvider(t, NewMemoryStore())
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	store := NewMemoryStoreWith(sampleSession())
	got, err := store.Load(context.Background())
	require.NoError(t, err)

	got.AccessToken = "mutated"
	again, _ := store.Load(context.Background())
	assert.Equal(t, "access-1", again.AccessToken)
}

func TestBoltStore(t *testing.T) {
	store, err := NewBoltStore(filepath.Join(t.TempDir(), "nested", "session.db"), "")
	require.NoError(t, err)
	defer store.Close()

	exerciseProvider(t, store)
}

func TestBoltStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.db")
	ctx := context.Background()

	store, err := NewBoltStore(path, "work")
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, sampleSession()))
	require.NoError(t, store.Close())

	reopened, err := NewBoltStore(path, "work")
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "refresh-1", got.RefreshToken)

	_, err = reopened.ForProfile("home").Load(ctx)
	assert.ErrorIs(t, err, ErrNoSession, "profiles are isolated")
}

func TestRedisStore(t *testing.T) {
	store, _ := setupRedisStore(t, "ci")
	exerciseProvider(t, store)
}

func TestRedisStoreExpiry(t *testing.T) {
	store, mr := setupRedisStore(t, "")
	ctx := context.Background()

	s := sampleSession()
	s.ExpiresIn = 60
	require.NoError(t, store.Save(ctx, s))
	assert.True(t, mr.Exists("cardvault:session:default"))

	mr.FastForward(61 * time.Second)
	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestRedisStoreCorruptValue(t *testing.T) {
	store, mr := setupRedisStore(t, "x")
	require.NoError(t, mr.Set("cardvault:session:x", "{not json"))

	_, err := store.Load(context.Background())
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoSession)
}

func TestOpen(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	tests := []struct {
		name    string
		cfg     config.SessionConfig
		wantErr bool
	}{
		{"memory", config.SessionConfig{Backend: "memory"}, false},
		{"bolt", config.SessionConfig{Backend: "bolt", Path: filepath.Join(t.TempDir(), "s.db")}, false},
		{"redis", config.SessionConfig{Backend: "redis", Redis: config.RedisConfig{Host: mr.Host(), Port: mr.Port()}}, false},
		{"unknown", config.SessionConfig{Backend: "etcd"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Open(&tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NoError(t, p.Close())
		})
	}
}
