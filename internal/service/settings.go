package service

import (
	"context"
	"sync"

	apperrors "github.com/cardvault-cli/internal/errors"
	"github.com/cardvault-cli/internal/logging"
	"github.com/cardvault-cli/internal/models"
)

const (
	StatusSaved      = "Saved"
	StatusSaveFailed = "Save failed"
)

// SettingsAPI is what the settings page calls
type SettingsAPI interface {
	GetSettings(ctx context.Context) (*models.Settings, error)
	UpdateSettings(ctx context.Context, s *models.Settings) error
}

// Location is the user's optional whereabouts, used for local matching
type Location struct {
	City          string
	StateProvince string
	Country       string
}

// Settings is the account settings page view model
type Settings struct {
	api    SettingsAPI
	logger *logging.Logger
	status *flash

	mu       sync.Mutex
	settings *models.Settings
	saving   bool
	err      error
}

// NewSettings creates a settings page
func NewSettings(api SettingsAPI, logger *logging.Logger) *Settings {
	return &Settings{
		api:    api,
		logger: pageLogger(logger, "settings"),
		status: newFlash(SettingsStatusTTL),
	}
}

// Load fetches the settings
func (s *Settings) Load(ctx context.Context) error {
	settings, err := s.api.GetSettings(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
	if err != nil {
		s.logger.WithError(err).Warn("Failed to fetch settings")
		return err
	}
	s.settings = settings
	return nil
}

func (s *Settings) update(fn func(*models.Settings)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.settings == nil {
		return apperrors.NewValidationError("settings are not loaded")
	}
	fn(s.settings)
	return nil
}

// SetMarketplaceEnabled toggles want matching
func (s *Settings) SetMarketplaceEnabled(v bool) error {
	return s.update(func(m *models.Settings) { m.MarketplaceEnabled = v })
}

// SetInventoryPublic toggles whether other collectors can discover the inventory
func (s *Settings) SetInventoryPublic(v bool) error {
	return s.update(func(m *models.Settings) { m.InventoryPublic = v })
}

// SetNotificationInApp toggles in-app notifications
func (s *Settings) SetNotificationInApp(v bool) error {
	return s.update(func(m *models.Settings) { m.NotificationInApp = v })
}

// SetLocation replaces the location fields
func (s *Settings) SetLocation(loc Location) error {
	return s.update(func(m *models.Settings) {
		m.City = stringPtr(loc.City)
		m.StateProvince = stringPtr(loc.StateProvince)
		m.Country = stringPtr(loc.Country)
	})
}

func stringPtr(v string) *string {
	return &v
}

// Save PATCHes the whole settings object. The status shows "Saved" or
// "Save failed" and clears itself after SettingsStatusTTL.
func (s *Settings) Save(ctx context.Context) error {
	s.mu.Lock()
	if s.settings == nil {
		s.mu.Unlock()
		return apperrors.NewValidationError("settings are not loaded")
	}
	if s.saving {
		s.mu.Unlock()
		return apperrors.NewValidationError("save already in progress")
	}
	s.saving = true
	body := *s.settings
	s.mu.Unlock()

	s.status.Clear()
	err := s.api.UpdateSettings(ctx, &body)

	s.mu.Lock()
	s.saving = false
	s.err = err
	s.mu.Unlock()

	if err != nil {
		s.logger.WithError(err).Warn("Failed to save settings")
		s.status.Set(StatusSaveFailed)
		return err
	}
	s.status.Set(StatusSaved)
	return nil
}

// Current returns a copy of the loaded settings, nil before Load
func (s *Settings) Current() *models.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.settings == nil {
		return nil
	}
	out := *s.settings
	return &out
}

// Status is the transient save status, empty when none
func (s *Settings) Status() string {
	return s.status.Get()
}

// Saving reports whether a save is in flight
func (s *Settings) Saving() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saving
}

// Err returns the last failure
func (s *Settings) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
