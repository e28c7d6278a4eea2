// AngelaMos | 2026
// access.go

package event

import (
	"fmt"

	"github.com/carterperez-dev/templates/tiered-events/internal/tier"
)

// Partition splits events into those userTier may attend and those it may
// not, preserving input order on both sides. An event whose tier is not one
// of the known tiers is a data-integrity fault and aborts the partition.
func Partition(events []Event, userTier tier.Tier) (AccessPartition, error) {
	if !userTier.Valid() {
		return AccessPartition{}, fmt.Errorf(
			"partition events: user tier %q: %w",
			userTier,
			tier.ErrUnknownTier,
		)
	}

	p := AccessPartition{
		Accessible:    make([]Event, 0, len(events)),
		NonAccessible: make([]Event, 0),
	}

	for _, e := range events {
		if !e.Tier.Valid() {
			return AccessPartition{}, fmt.Errorf(
				"partition events: event %s has tier %q: %w",
				e.ID,
				e.Tier,
				tier.ErrUnknownTier,
			)
		}

		if userTier.Covers(e.Tier) {
			p.Accessible = append(p.Accessible, e)
		} else {
			p.NonAccessible = append(p.NonAccessible, e)
		}
	}

	return p, nil
}

// UpgradeTierNeeded returns the event's tier when it is above the user's.
func UpgradeTierNeeded(userTier, eventTier tier.Tier) (tier.Tier, bool) {
	if tier.Compare(eventTier, userTier) == tier.Higher {
		return eventTier, true
	}
	return "", false
}

func UpgradeMessage(required tier.Tier) string {
	return fmt.Sprintf("Upgrade to %s to access this event", required.Title())
}
