// AngelaMos | 2026
// catalog.go

package main

import (
	"time"

	"github.com/google/uuid"

	"github.com/carterperez-dev/templates/tiered-events/internal/event"
	"github.com/carterperez-dev/templates/tiered-events/internal/tier"
)

var catalogNamespace = uuid.MustParse("6f1c3d2e-8a47-4b1e-9f0c-2d5e7a9b4c10")

type catalogEntry struct {
	title       string
	description string
	offsetDays  int
	image       string
	tier        tier.Tier
}

var demoEntries = []catalogEntry{
	{"Community Meetup", "Monthly open meetup for every member.", 3, "https://images.unsplash.com/photo-1540575467063-178a50c2df87", tier.Free},
	{"Intro to Go Workshop", "Hands-on session covering the language basics.", 10, "https://images.unsplash.com/photo-1515187029135-18ee286d815b", tier.Free},
	{"Silver Networking Night", "Evening mixer with speakers from partner companies.", 14, "https://images.unsplash.com/photo-1511578314322-379afb476865", tier.Silver},
	{"Cloud Architecture Clinic", "Bring a design, leave with a review.", 21, "https://images.unsplash.com/photo-1552664730-d307ca884978", tier.Silver},
	{"Gold Founders Roundtable", "Small group discussion with startup founders.", 28, "https://images.unsplash.com/photo-1528605248644-14dd04022da1", tier.Gold},
	{"Distributed Systems Deep Dive", "Full day track on consensus and replication.", 35, "https://images.unsplash.com/photo-1531482615713-2afd69097998", tier.Gold},
	{"Platinum Executive Summit", "Invitation only summit with keynote and dinner.", 42, "https://images.unsplash.com/photo-1505373877841-8d25f7d46678", tier.Platinum},
	{"Private Studio Session", "One to one time with the engineering leads.", 56, "https://images.unsplash.com/photo-1517048676732-d65bc937f952", tier.Platinum},
}

// demoCatalog dates each entry relative to from. IDs depend only on the
// title.
func demoCatalog(from time.Time) []event.Event {
	events := make([]event.Event, 0, len(demoEntries))
	for _, c := range demoEntries {
		events = append(events, event.Event{
			ID:          uuid.NewSHA1(catalogNamespace, []byte(c.title)).String(),
			Title:       c.title,
			Description: c.description,
			EventDate:   from.AddDate(0, 0, c.offsetDays),
			ImageURL:    c.image,
			Tier:        c.tier,
		})
	}
	return events
}
