// AngelaMos | 2026
// entity.go

package event

import (
	"time"

	"github.com/carterperez-dev/templates/tiered-events/internal/tier"
)

// Event is read-only to this service. Rows are written by the catalog
// administration path (see tierctl seed).
type Event struct {
	ID          string    `db:"id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	EventDate   time.Time `db:"event_date"`
	ImageURL    string    `db:"image_url"`
	Tier        tier.Tier `db:"tier"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

type AccessPartition struct {
	Accessible    []Event
	NonAccessible []Event
}

func (p AccessPartition) Total() int {
	return len(p.Accessible) + len(p.NonAccessible)
}
