// AngelaMos | 2026
// repository.go

package membership

import (
	"context"
	"fmt"

	"github.com/carterperez-dev/templates/tiered-events/internal/core"
)

// MirrorStore is the relational copy of identity records. Every write is
// an upsert on identity_id, so any sync or tier change leaves a row behind.
type MirrorStore interface {
	Upsert(ctx context.Context, record *MirrorRecord) (*MirrorRecord, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) MirrorStore {
	return &repository{db: db}
}

// Upsert keeps exactly one row per identity; the latest write wins on
// every field.
func (r *repository) Upsert(
	ctx context.Context,
	record *MirrorRecord,
) (*MirrorRecord, error) {
	query := `
		INSERT INTO users (identity_id, email, tier, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (identity_id) DO UPDATE SET
			email = EXCLUDED.email,
			tier = EXCLUDED.tier,
			updated_at = EXCLUDED.updated_at
		RETURNING identity_id, email, tier, updated_at`

	var stored MirrorRecord
	err := r.db.GetContext(ctx, &stored, query,
		record.IdentityID,
		record.Email,
		record.Tier,
		record.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert mirror: %w", err)
	}

	return &stored, nil
}
