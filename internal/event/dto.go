// AngelaMos | 2026
// dto.go

package event

import (
	"time"
)

type CreateEventRequest struct {
	Title       string    `json:"title"       validate:"required,min=3,max=100"`
	Description string    `json:"description" validate:"required,min=10,max=500"`
	EventDate   time.Time `json:"event_date"  validate:"required"`
	ImageURL    *string   `json:"image_url,omitempty" validate:"omitempty,url"`
	Tier        string    `json:"tier"        validate:"required,oneof=free silver gold platinum"`
}

type UpdateEventRequest struct {
	Title       *string    `json:"title,omitempty"       validate:"omitempty,min=3,max=100"`
	Description *string    `json:"description,omitempty" validate:"omitempty,min=10,max=500"`
	EventDate   *time.Time `json:"event_date,omitempty"`
	ImageURL    *string    `json:"image_url,omitempty"   validate:"omitempty,url"`
	Tier        *string    `json:"tier,omitempty"        validate:"omitempty,oneof=free silver gold platinum"`
}

type EventResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	EventDate   time.Time `json:"event_date"`
	ImageURL    *string   `json:"image_url,omitempty"`
	Tier        string    `json:"tier"`
}

func ToEventResponse(e *Event) EventResponse {
	return EventResponse{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		EventDate:   e.EventDate,
		ImageURL:    e.ImageURL,
		Tier:        e.Tier.String(),
	}
}

func ToEventResponseList(events []Event) []EventResponse {
	responses := make([]EventResponse, 0, len(events))
	for _, e := range events {
		responses = append(responses, ToEventResponse(&e))
	}
	return responses
}
