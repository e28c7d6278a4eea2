// AngelaMos | 2026
// service.go

package membership

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/carterperez-dev/templates/tiered-events/internal/core"
	"github.com/carterperez-dev/templates/tiered-events/internal/identity"
	"github.com/carterperez-dev/templates/tiered-events/internal/tier"
)

var (
	ErrMissingEmail = errors.New("identity has no email address")
	ErrSyncFailed   = errors.New("mirror sync failed")
)

// IdentityProvider is the authoritative user store.
type IdentityProvider interface {
	GetUser(ctx context.Context, id string) (*identity.User, error)
	UpdateTier(ctx context.Context, id string, t tier.Tier) (*identity.User, error)
}

type Service struct {
	provider IdentityProvider
	mirror   MirrorStore
	logger   *slog.Logger
	now      func() time.Time
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(
	provider IdentityProvider,
	mirror MirrorStore,
	logger *slog.Logger,
	opts ...Option,
) *Service {
	s := &Service{
		provider: provider,
		mirror:   mirror,
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SyncUser copies the provider's view of the user into the mirror. Safe to
// call on every page load.
func (s *Service) SyncUser(ctx context.Context, identityID string) (*MirrorRecord, error) {
	if identityID == "" {
		return nil, fmt.Errorf("sync user: %w", core.ErrUnauthorized)
	}

	user, err := s.provider.GetUser(ctx, identityID)
	if err != nil {
		return nil, fmt.Errorf("sync user: %w", err)
	}

	if user.Email == "" {
		return nil, fmt.Errorf("sync user %s: %w", identityID, ErrMissingEmail)
	}

	t, err := user.Metadata.Tier()
	if err != nil {
		return nil, fmt.Errorf("sync user %s: %w", identityID, err)
	}

	record, err := s.mirror.Upsert(ctx, &MirrorRecord{
		IdentityID: user.ID,
		Email:      user.Email,
		Tier:       t,
		UpdatedAt:  s.now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSyncFailed, err)
	}

	return record, nil
}

// UpdateTier writes the provider first. The mirror write that follows is an
// upsert, so a user who never synced gets a row here. It is best effort and
// its failure never fails the call.
func (s *Service) UpdateTier(
	ctx context.Context,
	identityID, requested string,
) (*TierChange, error) {
	if identityID == "" {
		return nil, fmt.Errorf("update tier: %w", core.ErrUnauthorized)
	}

	t, err := tier.Parse(requested)
	if err != nil {
		return nil, err
	}

	user, err := s.provider.UpdateTier(ctx, identityID, t)
	if err != nil {
		return nil, fmt.Errorf("update tier: %w", err)
	}

	written, err := user.Metadata.Tier()
	if err != nil {
		return nil, fmt.Errorf("update tier: %w", err)
	}

	change := &TierChange{
		ID:     user.ID,
		Tier:   written,
		Mirror: MirrorConsistent,
	}

	if err := s.mirrorTier(ctx, user, written); err != nil {
		change.Mirror = MirrorAuthoritativeOnly
		change.MirrorErr = err
		s.logger.WarnContext(ctx, "mirror tier update failed",
			"identity_id", user.ID,
			"tier", written,
			"error", err,
		)
	}

	return change, nil
}

func (s *Service) mirrorTier(ctx context.Context, user *identity.User, t tier.Tier) error {
	if user.Email == "" {
		return fmt.Errorf("mirror tier %s: %w", user.ID, ErrMissingEmail)
	}

	_, err := s.mirror.Upsert(ctx, &MirrorRecord{
		IdentityID: user.ID,
		Email:      user.Email,
		Tier:       t,
		UpdatedAt:  s.now().UTC(),
	})
	return err
}
