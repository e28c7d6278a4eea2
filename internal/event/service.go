// AngelaMos | 2026
// service.go

package event

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/templates/tiered-events/internal/core"
	"github.com/carterperez-dev/templates/tiered-events/internal/tier"
)

// TierResolver returns the effective tier for a verified identity, read
// from the identity provider.
type TierResolver interface {
	EffectiveTier(ctx context.Context, identityID string) (tier.Tier, error)
}

type Listing struct {
	Partition AccessPartition
	UserTier  tier.Tier
}

type Service struct {
	fetcher *Fetcher
	tiers   TierResolver
}

func NewService(fetcher *Fetcher, tiers TierResolver) *Service {
	return &Service{
		fetcher: fetcher,
		tiers:   tiers,
	}
}

func (s *Service) ListForUser(ctx context.Context, identityID string) (*Listing, error) {
	if identityID == "" {
		return nil, fmt.Errorf("list events: %w", core.ErrUnauthorized)
	}

	ctx, span := core.StartSpan(ctx, "event.ListForUser")
	defer span.End()

	userTier, err := s.tiers.EffectiveTier(ctx, identityID)
	if err != nil {
		core.SetSpanError(ctx, err)
		return nil, fmt.Errorf("resolve tier: %w", err)
	}
	span.SetAttributes(attribute.String("user.tier", userTier.String()))

	events, err := s.fetcher.FetchEvents(ctx, s.fetcher.Policy().MaxAttempts)
	if err != nil {
		core.SetSpanError(ctx, err)
		return nil, err
	}

	partition, err := Partition(events, userTier)
	if err != nil {
		core.SetSpanError(ctx, err)
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("events.accessible", len(partition.Accessible)),
		attribute.Int("events.total", partition.Total()),
	)

	return &Listing{
		Partition: partition,
		UserTier:  userTier,
	}, nil
}
