// AngelaMos | 2026
// entity.go

package membership

import (
	"time"

	"github.com/carterperez-dev/templates/tiered-events/internal/tier"
)

// MirrorRecord is the relational copy of an identity's tier. It is a
// cache: the identity provider stays authoritative.
type MirrorRecord struct {
	IdentityID string    `db:"identity_id" json:"identity_id"`
	Email      string    `db:"email"       json:"email"`
	Tier       tier.Tier `db:"tier"        json:"tier"`
	UpdatedAt  time.Time `db:"updated_at"  json:"updated_at"`
}

type MirrorOutcome int

const (
	// MirrorConsistent means the mirror was written after the provider.
	MirrorConsistent MirrorOutcome = iota
	// MirrorAuthoritativeOnly means only the provider write landed; the
	// mirror catches up on the next sync.
	MirrorAuthoritativeOnly
)

func (o MirrorOutcome) String() string {
	if o == MirrorConsistent {
		return "consistent"
	}
	return "authoritative_only"
}

// TierChange reports a completed tier update. MirrorErr is set only when
// Mirror is MirrorAuthoritativeOnly.
type TierChange struct {
	ID        string
	Tier      tier.Tier
	Mirror    MirrorOutcome
	MirrorErr error
}
