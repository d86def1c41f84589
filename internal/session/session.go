// Package session stores the login session (bearer tokens and cached profile)
// that every API request reads.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/cardvault-cli/internal/config"
	"github.com/cardvault-cli/internal/models"
)

// ErrNoSession is returned by Load when nobody is logged in
var ErrNoSession = errors.New("no session stored")

// Provider reads and writes the current session.
// Load is called on every request, so a logout elsewhere takes effect immediately.
type Provider interface {
	Load(ctx context.Context) (*models.Session, error)
	Save(ctx context.Context, s *models.Session) error
	Clear(ctx context.Context) error
	Close() error
}

// Open returns the provider selected by cfg.Backend
func Open(cfg *config.SessionConfig) (Provider, error) {
	switch cfg.Backend {
	case "bolt", "":
		return NewBoltStore(cfg.Path, cfg.Profile)
	case "redis":
		return NewRedisStore(&cfg.Redis, cfg.Profile)
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown session backend %q", cfg.Backend)
	}
}

// MemoryStore keeps the session in process memory
type MemoryStore struct {
	mu      sync.RWMutex
	session *models.Session
}

// NewMemoryStore creates an empty in-memory provider
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// NewMemoryStoreWith creates an in-memory provider holding s
func NewMemoryStoreWith(s *models.Session) *MemoryStore {
	m := &MemoryStore{}
	_ = m.Save(context.Background(), s)
	return m
}

func (m *MemoryStore) Load(ctx context.Context) (*models.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.session == nil {
		return nil, ErrNoSession
	}
	cp := *m.session
	return &cp, nil
}

func (m *MemoryStore) Save(ctx context.Context, s *models.Session) error {
	if s == nil || s.AccessToken == "" {
		return errors.New("session has no access token")
	}
	cp := *s
	m.mu.Lock()
	m.session = &cp
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	m.session = nil
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Close() error { return nil }
