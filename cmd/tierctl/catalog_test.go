// AngelaMos | 2026
// catalog_test.go

package main

import (
	"testing"
	"time"

	"github.com/carterperez-dev/templates/tiered-events/internal/tier"
)

func TestDemoCatalogCoversEveryTier(t *testing.T) {
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	events := demoCatalog(from)

	seen := make(map[tier.Tier]int)
	ids := make(map[string]bool)
	for _, e := range events {
		if !e.Tier.Valid() {
			t.Errorf("%q has invalid tier %q", e.Title, e.Tier)
		}
		if ids[e.ID] {
			t.Errorf("duplicate id %s", e.ID)
		}
		ids[e.ID] = true
		seen[e.Tier]++

		if !e.EventDate.After(from) {
			t.Errorf("%q dated %v, not after %v", e.Title, e.EventDate, from)
		}
	}

	for _, tr := range tier.All() {
		if seen[tr] == 0 {
			t.Errorf("no event for tier %s", tr)
		}
	}
}

func TestDemoCatalogIDsAreStable(t *testing.T) {
	a := demoCatalog(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	b := demoCatalog(time.Date(2027, 6, 1, 0, 0, 0, 0, time.UTC))

	for i := range a {
		if a[i].ID != b[i].ID {
			t.Errorf("%q id changed between runs: %s vs %s", a[i].Title, a[i].ID, b[i].ID)
		}
	}
}
