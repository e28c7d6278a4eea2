// AngelaMos | 2026
// dto.go

package event

import (
	"time"

	"github.com/carterperez-dev/templates/tiered-events/internal/tier"
)

type EventResponse struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	EventDate      time.Time `json:"event_date"`
	ImageURL       string    `json:"image_url"`
	Tier           tier.Tier `json:"tier"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	UpgradeTo      tier.Tier `json:"upgrade_to,omitempty"`
	UpgradeMessage string    `json:"upgrade_message,omitempty"`
}

type ListingResponse struct {
	Accessible    []EventResponse `json:"accessible"`
	NonAccessible []EventResponse `json:"nonAccessible"`
	UserTier      tier.Tier       `json:"userTier"`
	TotalEvents   int             `json:"totalEvents"`
}

func ToEventResponse(e *Event, userTier tier.Tier) EventResponse {
	resp := EventResponse{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		EventDate:   e.EventDate,
		ImageURL:    e.ImageURL,
		Tier:        e.Tier,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}

	if needed, ok := UpgradeTierNeeded(userTier, e.Tier); ok {
		resp.UpgradeTo = needed
		resp.UpgradeMessage = UpgradeMessage(needed)
	}

	return resp
}

func ToListingResponse(l *Listing) ListingResponse {
	return ListingResponse{
		Accessible:    toEventResponses(l.Partition.Accessible, l.UserTier),
		NonAccessible: toEventResponses(l.Partition.NonAccessible, l.UserTier),
		UserTier:      l.UserTier,
		TotalEvents:   l.Partition.Total(),
	}
}

func toEventResponses(events []Event, userTier tier.Tier) []EventResponse {
	out := make([]EventResponse, 0, len(events))
	for i := range events {
		out = append(out, ToEventResponse(&events[i], userTier))
	}
	return out
}
