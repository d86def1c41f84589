package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cardvault-cli/internal/models"
	"go.etcd.io/bbolt"
)

const bucketName = "sessions"

// BoltStore keeps sessions in a local bbolt file, one key per profile
type BoltStore struct {
	db      *bbolt.DB
	profile string
}

// NewBoltStore opens (creating if needed) the session file at path
func NewBoltStore(path, profile string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("creating session directory: %w", err)
	}

	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening session store: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating buckets: %w", err)
	}

	if profile == "" {
		profile = "default"
	}
	return &BoltStore{db: db, profile: profile}, nil
}

func (b *BoltStore) Load(ctx context.Context) (*models.Session, error) {
	var s *models.Session
	err := b.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket([]byte(bucketName)).Get([]byte(b.profile))
		if data == nil {
			return ErrNoSession
		}
		return json.Unmarshal(data, &s)
	})
	if err != nil {
		if errors.Is(err, ErrNoSession) {
			return nil, err
		}
		return nil, fmt.Errorf("reading session: %w", err)
	}
	return s, nil
}

func (b *BoltStore) Save(ctx context.Context, s *models.Session) error {
	if s == nil || s.AccessToken == "" {
		return errors.New("session has no access token")
	}
	return b.db.Update(func(tx *bbolt.Tx) error {
		data, err := json.Marshal(s)
		if err != nil {
			return fmt.Errorf("marshaling session: %w", err)
		}
		return tx.Bucket([]byte(bucketName)).Put([]byte(b.profile), data)
	})
}

func (b *BoltStore) Clear(ctx context.Context) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).Delete([]byte(b.profile))
	})
}

// Close releases the file lock
func (b *BoltStore) Close() error {
	return b.db.Close()
}

// ForProfile returns a store over the same file keyed by another profile.
// Both stores share the file handle; close only one of them.
func (b *BoltStore) ForProfile(profile string) *BoltStore {
	return &BoltStore{db: b.db, profile: profile}
}
