// AngelaMos | 2026
// access_test.go

package event

import (
	"errors"
	"testing"

	"github.com/carterperez-dev/templates/tiered-events/internal/tier"
)

func ids(events []Event) []string {
	out := make([]string, 0, len(events))
	for _, e := range events {
		out = append(out, e.ID)
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestPartitionSilverUser(t *testing.T) {
	events := []Event{
		{ID: "1", Tier: tier.Gold},
		{ID: "2", Tier: tier.Free},
		{ID: "3", Tier: tier.Silver},
	}

	p, err := Partition(events, tier.Silver)
	if err != nil {
		t.Fatalf("Partition: %v", err)
	}

	if got := ids(p.Accessible); !equalIDs(got, []string{"2", "3"}) {
		t.Errorf("accessible = %v, want [2 3]", got)
	}
	if got := ids(p.NonAccessible); !equalIDs(got, []string{"1"}) {
		t.Errorf("nonAccessible = %v, want [1]", got)
	}
}

func TestPartitionProperties(t *testing.T) {
	var events []Event
	for i, tr := range []tier.Tier{
		tier.Platinum, tier.Free, tier.Gold, tier.Silver,
		tier.Free, tier.Gold, tier.Platinum, tier.Silver,
	} {
		events = append(events, Event{ID: string(rune('a' + i)), Tier: tr})
	}

	for _, user := range tier.All() {
		t.Run(user.String(), func(t *testing.T) {
			p, err := Partition(events, user)
			if err != nil {
				t.Fatalf("Partition: %v", err)
			}

			if p.Total() != len(events) {
				t.Fatalf("total = %d, want %d", p.Total(), len(events))
			}

			for _, e := range p.Accessible {
				if e.Tier.Rank() > user.Rank() {
					t.Errorf("event %s (%s) accessible to %s", e.ID, e.Tier, user)
				}
			}
			for _, e := range p.NonAccessible {
				if e.Tier.Rank() <= user.Rank() {
					t.Errorf("event %s (%s) withheld from %s", e.ID, e.Tier, user)
				}
			}

			// Both sides keep the input order.
			pos := map[string]int{}
			for i, e := range events {
				pos[e.ID] = i
			}
			for _, side := range [][]Event{p.Accessible, p.NonAccessible} {
				for i := 1; i < len(side); i++ {
					if pos[side[i-1].ID] > pos[side[i].ID] {
						t.Errorf("order broken: %v", ids(side))
					}
				}
			}
		})
	}
}

func TestPartitionPlatinumSeesEverything(t *testing.T) {
	events := []Event{{ID: "1", Tier: tier.Platinum}, {ID: "2", Tier: tier.Free}}

	p, err := Partition(events, tier.Platinum)
	if err != nil {
		t.Fatalf("Partition: %v", err)
	}
	if len(p.NonAccessible) != 0 {
		t.Errorf("nonAccessible = %v", ids(p.NonAccessible))
	}
}

func TestPartitionEmpty(t *testing.T) {
	p, err := Partition(nil, tier.Free)
	if err != nil {
		t.Fatalf("Partition: %v", err)
	}
	if p.Accessible == nil || p.NonAccessible == nil || p.Total() != 0 {
		t.Errorf("partition = %+v", p)
	}
}

func TestPartitionUnknownTier(t *testing.T) {
	events := []Event{{ID: "1", Tier: tier.Free}, {ID: "evt-9", Tier: "bronze"}}

	_, err := Partition(events, tier.Gold)
	if !errors.Is(err, tier.ErrUnknownTier) {
		t.Fatalf("err = %v, want ErrUnknownTier", err)
	}

	if _, err := Partition(events[:1], tier.Tier("vip")); !errors.Is(err, tier.ErrUnknownTier) {
		t.Errorf("invalid user tier err = %v", err)
	}
}

func TestUpgradePrompt(t *testing.T) {
	needed, ok := UpgradeTierNeeded(tier.Silver, tier.Gold)
	if !ok || needed != tier.Gold {
		t.Fatalf("UpgradeTierNeeded = %q, %v", needed, ok)
	}
	if got := UpgradeMessage(needed); got != "Upgrade to Gold to access this event" {
		t.Errorf("UpgradeMessage = %q", got)
	}

	if _, ok := UpgradeTierNeeded(tier.Gold, tier.Gold); ok {
		t.Error("equal tier should not need an upgrade")
	}
}
