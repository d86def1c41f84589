package service

import (
	"context"
	"sync"

	apperrors "github.com/cardvault-cli/internal/errors"
	"github.com/cardvault-cli/internal/logging"
	"github.com/cardvault-cli/internal/models"
	"github.com/cardvault-cli/internal/types"
	"golang.org/x/sync/errgroup"
)

const (
	msgUpgradeSucceeded = "Upgrade successful!"
	msgUpgradeRetry     = "Upgrade failed. Please try again."
)

// SubscriptionAPI is what the subscription page calls
type SubscriptionAPI interface {
	GetSubscription(ctx context.Context) (*models.Subscription, error)
	ListTiers(ctx context.Context) ([]models.Tier, error)
	UpgradeSubscription(ctx context.Context, tier types.SubscriptionTier) (*models.UpgradeResult, error)
}

// Subscription is the plan page view model
type Subscription struct {
	api     SubscriptionAPI
	logger  *logging.Logger
	message *flash

	mu        sync.Mutex
	tiers     []models.Tier
	current   *models.Subscription
	upgrading types.SubscriptionTier
	err       error
}

// NewSubscription creates a subscription page
func NewSubscription(api SubscriptionAPI, logger *logging.Logger) *Subscription {
	return &Subscription{
		api:     api,
		logger:  pageLogger(logger, "subscription"),
		message: newFlash(UpgradeMessageTTL),
	}
}

// Load fetches the tiers and the current plan concurrently
func (s *Subscription) Load(ctx context.Context) error {
	var (
		tiers   []models.Tier
		current *models.Subscription
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t, err := s.api.ListTiers(gctx)
		tiers = t
		return err
	})
	g.Go(func() error {
		c, err := s.api.GetSubscription(gctx)
		current = c
		return err
	})
	err := g.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
	if err != nil {
		s.logger.WithError(err).Warn("Failed to fetch subscription data")
		return err
	}
	s.tiers = tiers
	s.current = current
	return nil
}

// Upgrade switches plans and refetches on success. The message (server
// message, server detail or a retry hint) clears after UpgradeMessageTTL.
func (s *Subscription) Upgrade(ctx context.Context, tier types.SubscriptionTier) error {
	s.mu.Lock()
	if s.upgrading != "" {
		s.mu.Unlock()
		return apperrors.NewValidationError("upgrade already in progress")
	}
	s.upgrading = tier
	s.mu.Unlock()

	s.message.Clear()
	result, err := s.api.UpgradeSubscription(ctx, tier)

	s.mu.Lock()
	s.upgrading = ""
	s.err = err
	s.mu.Unlock()

	if err != nil {
		s.logger.WithError(err).WithField("tier", tier).Warn("Upgrade failed")
		if apperrors.IsTransportFault(err) {
			s.message.Set(msgUpgradeRetry)
		} else {
			s.message.Set(err.Error())
		}
		return err
	}

	msg := result.Message
	if msg == "" {
		msg = msgUpgradeSucceeded
	}
	s.message.Set(msg)
	return s.Load(ctx)
}

// Tiers returns the available plans
func (s *Subscription) Tiers() []models.Tier {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Tier(nil), s.tiers...)
}

// Current returns the user's plan, nil before Load
func (s *Subscription) Current() *models.Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	out := *s.current
	return &out
}

// IsCurrent reports whether tier is the active plan
func (s *Subscription) IsCurrent(tier types.SubscriptionTier) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current != nil && s.current.Tier == tier
}

// Upgrading returns the tier being switched to, empty when idle
func (s *Subscription) Upgrading() types.SubscriptionTier {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.upgrading
}

// Message is the transient upgrade message, empty when none
func (s *Subscription) Message() string {
	return s.message.Get()
}

// Err returns the last failure
func (s *Subscription) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
