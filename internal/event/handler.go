// AngelaMos | 2026
// handler.go

package event

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/templates/tiered-events/internal/core"
	"github.com/carterperez-dev/templates/tiered-events/internal/middleware"
)

type Handler struct {
	service *Service
	logger  *slog.Logger
}

func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.With(authenticator).Get("/events", h.ListEvents)
}

func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	listing, err := h.service.ListForUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, core.ErrUnauthorized) {
			core.Unauthorized(w, "")
			return
		}
		h.logger.ErrorContext(r.Context(), "list events failed",
			"user_id", userID,
			"error", err,
		)
		core.JSONError(w, core.InternalError(
			err,
			"We're having trouble loading events. Please try again.",
		))
		return
	}

	core.OK(w, ToListingResponse(listing))
}
