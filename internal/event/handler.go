// AngelaMos | 2026
// handler.go

package event

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/tiered-events/internal/core"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// RegisterAdminRoutes exposes the event catalog writer. The member
// read path never goes through these; it reads via the showcase
// routes.
func (h *Handler) RegisterAdminRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/admin/events", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(adminOnly)

		r.Get("/", h.ListEvents)
		r.Post("/", h.CreateEvent)
		r.Get("/{eventID}", h.GetEvent)
		r.Put("/{eventID}", h.UpdateEvent)
		r.Delete("/{eventID}", h.DeleteEvent)
	})
}

// ListEvents returns the full catalog regardless of tier.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.service.ListAll(r.Context())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	core.OK(w, ToEventResponseList(events))
}

func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventID")

	e, err := h.service.Get(r.Context(), eventID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	core.OK(w, ToEventResponse(e))
}

func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	e, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	core.Created(w, ToEventResponse(e))
}

func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventID")

	var req UpdateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	e, err := h.service.Update(r.Context(), eventID, req)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	core.OK(w, ToEventResponse(e))
}

func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventID")

	if err := h.service.Delete(r.Context(), eventID); err != nil {
		h.writeServiceError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "event")
	case errors.Is(err, core.ErrInvalidTier):
		core.BadRequest(w, "tier must be one of: free silver gold platinum")
	case errors.Is(err, core.ErrUnavailable):
		core.ServiceUnavailable(w, "event store is unavailable")
	default:
		core.InternalServerError(w, err)
	}
}
