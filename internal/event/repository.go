// AngelaMos | 2026
// repository.go

package event

import (
	"context"
	"fmt"

	"github.com/carterperez-dev/templates/tiered-events/internal/core"
)

type Repository interface {
	ListOrdered(ctx context.Context) ([]Event, error)
	Count(ctx context.Context) (int, error)
	Upsert(ctx context.Context, e *Event) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

// ListOrdered reads the whole catalog, earliest event first.
func (r *repository) ListOrdered(ctx context.Context) ([]Event, error) {
	query := `
		SELECT id, title, description, event_date, image_url, tier,
		       created_at, updated_at
		FROM events
		ORDER BY event_date ASC`

	events := []Event{}
	if err := r.db.SelectContext(ctx, &events, query); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	return events, nil
}

func (r *repository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM events`); err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return n, nil
}

// Upsert is used by catalog seeding only; request paths never write events.
func (r *repository) Upsert(ctx context.Context, e *Event) error {
	query := `
		INSERT INTO events (id, title, description, event_date, image_url, tier)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE
		SET title = EXCLUDED.title,
		    description = EXCLUDED.description,
		    event_date = EXCLUDED.event_date,
		    image_url = EXCLUDED.image_url,
		    tier = EXCLUDED.tier,
		    updated_at = NOW()
		RETURNING created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		e.ID,
		e.Title,
		e.Description,
		e.EventDate,
		e.ImageURL,
		e.Tier,
	).Scan(&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert event %s: %w", e.ID, err)
	}

	return nil
}
