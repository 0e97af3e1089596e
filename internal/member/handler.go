// AngelaMos | 2026
// handler.go

package member

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/tiered-events/internal/core"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterAdminRoutes exposes member lookup and the explicit deletion
// path. Deletion is irreversible and does not cascade to events.
func (h *Handler) RegisterAdminRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/admin/members", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(adminOnly)

		r.Get("/{externalID}", h.GetMember)
		r.Delete("/{externalID}", h.DeleteMember)
	})
}

func (h *Handler) GetMember(w http.ResponseWriter, r *http.Request) {
	externalID := chi.URLParam(r, "externalID")

	m, err := h.service.Get(r.Context(), externalID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "member")
			return
		}
		if errors.Is(err, core.ErrUnavailable) {
			core.ServiceUnavailable(w, "member store is unavailable")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToMemberResponse(m))
}

func (h *Handler) DeleteMember(w http.ResponseWriter, r *http.Request) {
	externalID := chi.URLParam(r, "externalID")

	if err := h.service.Remove(r.Context(), externalID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "member")
			return
		}
		if errors.Is(err, core.ErrUnavailable) {
			core.ServiceUnavailable(w, "member store is unavailable")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.NoContent(w)
}
