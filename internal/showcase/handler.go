// AngelaMos | 2026
// handler.go

package showcase

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/tiered-events/internal/core"
	"github.com/carterperez-dev/tiered-events/internal/member"
	"github.com/carterperez-dev/tiered-events/internal/middleware"
	"github.com/carterperez-dev/tiered-events/internal/tier"
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

// RegisterRoutes mounts the caller-facing surface. The tiered limiter
// runs after authentication so it can key on the caller's membership.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
	limiters ...func(http.Handler) http.Handler,
) {
	r.Route("/showcase", func(r chi.Router) {
		r.Use(authenticator)
		for _, limiter := range limiters {
			r.Use(limiter)
		}

		r.Get("/events", h.GetEvents)
		r.Get("/tier", h.GetTier)
		r.Put("/tier", h.ChangeTier)
	})
}

// GetEvents lists the events visible to the caller. Listing is
// best-effort: failures come back inside the body with Success false
// and HTTP 200, so the presentation layer can keep its prior state and
// show a dismissible message.
func (h *Handler) GetEvents(w http.ResponseWriter, r *http.Request) {
	externalID := middleware.GetExternalID(r.Context())

	result := h.service.EventsForCaller(r.Context(), externalID)

	core.OK(w, ToEventsResponse(result))
}

func (h *Handler) GetTier(w http.ResponseWriter, r *http.Request) {
	externalID := middleware.GetExternalID(r.Context())

	t, err := h.service.CallerTier(r.Context(), externalID)
	if err != nil {
		if errors.Is(err, core.ErrUnavailable) {
			core.ServiceUnavailable(w, "membership store is unavailable")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToTierResponse(t))
}

// ChangeTier applies a tier change for the caller. Mutation failures
// always surface as errors so a rejected upgrade is never reported as
// success.
func (h *Handler) ChangeTier(w http.ResponseWriter, r *http.Request) {
	externalID := middleware.GetExternalID(r.Context())

	var req ChangeTierRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	target, err := tier.Parse(req.Tier)
	if err != nil {
		core.BadRequest(w, "tier must be one of: free silver gold platinum")
		return
	}

	if err := h.service.RequestTierChange(r.Context(), externalID, target); err != nil {
		var illegal *member.IllegalTransitionError
		if errors.As(err, &illegal) {
			core.UnprocessableEntity(
				w,
				"ILLEGAL_TIER_TRANSITION",
				illegal.Error(),
			)
			return
		}
		if errors.Is(err, core.ErrUnavailable) {
			core.ServiceUnavailable(w, "membership store is unavailable")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	t, err := h.service.CallerTier(r.Context(), externalID)
	if err != nil {
		// The change landed; report it even if the re-read failed.
		core.OK(w, TierResponse{Tier: req.Tier, Info: tier.InfoFor(target)})
		return
	}

	core.OK(w, ToTierResponse(t))
}
