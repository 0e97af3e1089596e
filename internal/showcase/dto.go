// AngelaMos | 2026
// dto.go

package showcase

import (
	"github.com/carterperez-dev/tiered-events/internal/event"
	"github.com/carterperez-dev/tiered-events/internal/tier"
)

type ChangeTierRequest struct {
	Tier string `json:"tier" validate:"required,oneof=free silver gold platinum"`
}

type EventsResponse struct {
	Events   []event.EventResponse `json:"events"`
	UserTier string                `json:"user_tier"`
	Success  bool                  `json:"success"`
	Error    string                `json:"error,omitempty"`
}

type TierResponse struct {
	Tier     string    `json:"tier"`
	Info     tier.Info `json:"info"`
	NextTier *string   `json:"next_tier,omitempty"`
}

func ToEventsResponse(result EventsResult) EventsResponse {
	return EventsResponse{
		Events:   event.ToEventResponseList(result.Events),
		UserTier: result.Tier.String(),
		Success:  result.Success(),
		Error:    result.Error,
	}
}

func ToTierResponse(t tier.Tier) TierResponse {
	resp := TierResponse{
		Tier: t.String(),
		Info: tier.InfoFor(t),
	}

	if next, ok := tier.Next(t); ok {
		name := next.String()
		resp.NextTier = &name
	}

	return resp
}
