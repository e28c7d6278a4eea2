// AngelaMos | 2026
// service.go

package identity

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/carterperez-dev/templates/tiered-events/internal/auth"
	"github.com/carterperez-dev/templates/tiered-events/internal/core"
	"github.com/carterperez-dev/templates/tiered-events/internal/tier"
)

// Service is the in-process identity provider: it owns accounts, their
// credentials and the public metadata bag carrying the tier.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// GetUser returns the current identity record for id.
func (s *Service) GetUser(ctx context.Context, id string) (*User, error) {
	if id == "" {
		return nil, fmt.Errorf("get user: %w", core.ErrUnauthorized)
	}

	account, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return account.User(), nil
}

// UpdateTier writes the tier into the user's public metadata. Other
// metadata keys are preserved.
func (s *Service) UpdateTier(
	ctx context.Context,
	id string,
	t tier.Tier,
) (*User, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("update tier %q: %w", t, tier.ErrInvalidTier)
	}

	account, err := s.repo.MergeMetadata(ctx, id, Metadata{
		MetadataTierKey: t.String(),
	})
	if err != nil {
		return nil, err
	}

	return account.User(), nil
}

// EffectiveTier resolves the tier used for access decisions.
func (s *Service) EffectiveTier(ctx context.Context, id string) (tier.Tier, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return "", err
	}

	return user.Metadata.Tier()
}

func (s *Service) GetByID(
	ctx context.Context,
	id string,
) (*auth.UserInfo, error) {
	account, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return toUserInfo(account), nil
}

func (s *Service) GetByEmail(
	ctx context.Context,
	email string,
) (*auth.UserInfo, error) {
	account, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}

	return toUserInfo(account), nil
}

// Create registers an account with an empty metadata bag; the tier is
// absent until the user picks one and therefore reads as free.
func (s *Service) Create(
	ctx context.Context,
	email, passwordHash, name string,
) (*auth.UserInfo, error) {
	account := &Account{
		ID:           uuid.New().String(),
		Email:        normalizeEmail(email),
		PasswordHash: passwordHash,
		Name:         name,
		Metadata:     Metadata{},
	}

	if err := s.repo.Create(ctx, account); err != nil {
		return nil, err
	}

	return toUserInfo(account), nil
}

func (s *Service) IncrementTokenVersion(ctx context.Context, userID string) error {
	return s.repo.IncrementTokenVersion(ctx, userID)
}

func (s *Service) UpdatePassword(
	ctx context.Context,
	userID, passwordHash string,
) error {
	return s.repo.UpdatePassword(ctx, userID, passwordHash)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func toUserInfo(a *Account) *auth.UserInfo {
	info := &auth.UserInfo{
		ID:           a.ID,
		Email:        a.Email,
		Name:         a.Name,
		PasswordHash: a.PasswordHash,
		TokenVersion: a.TokenVersion,
	}

	// An unreadable tier only affects the advisory token claim.
	if t, err := a.Metadata.Tier(); err == nil {
		info.Tier = t.String()
	}

	return info
}

var _ auth.UserProvider = (*Service)(nil)
