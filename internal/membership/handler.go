// AngelaMos | 2026
// handler.go

package membership

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/templates/tiered-events/internal/core"
	"github.com/carterperez-dev/templates/tiered-events/internal/middleware"
	"github.com/carterperez-dev/templates/tiered-events/internal/tier"
)

const (
	syncSuccessMessage = "User synced successfully"
	invalidTierMessage = "Invalid tier. Must be one of: free, silver, gold, platinum"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
	logger    *slog.Logger
}

func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{
		service:   service,
		validator: core.NewValidator(),
		logger:    logger,
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Group(func(r chi.Router) {
		r.Use(authenticator)

		r.Post("/sync-user", h.SyncUser)
		r.Post("/update-tier", h.UpdateTier)
	})
}

func (h *Handler) SyncUser(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	record, err := h.service.SyncUser(r.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrUnauthorized):
			core.Unauthorized(w, "")
		case errors.Is(err, ErrMissingEmail):
			core.JSONError(w, core.ValidationError("MISSING_EMAIL", "No email found"))
		default:
			h.logger.ErrorContext(r.Context(), "sync user failed",
				"identity_id", userID,
				"error", err,
			)
			core.JSONError(w, core.InternalError(err, "Failed to sync user"))
		}
		return
	}

	core.OK(w, SyncResponse{
		Success: true,
		User:    record,
		Message: syncSuccessMessage,
	})
}

func (h *Handler) UpdateTier(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req UpdateTierRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.JSONError(w, core.ValidationError("INVALID_TIER", invalidTierMessage))
		return
	}

	change, err := h.service.UpdateTier(r.Context(), userID, req.NewTier)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrUnauthorized):
			core.Unauthorized(w, "")
		case errors.Is(err, tier.ErrInvalidTier):
			core.JSONError(w, core.ValidationError("INVALID_TIER", invalidTierMessage))
		default:
			h.logger.ErrorContext(r.Context(), "update tier failed",
				"identity_id", userID,
				"error", err,
			)
			core.JSONError(w, core.InternalError(err, "Failed to update tier"))
		}
		return
	}

	core.OK(w, ToUpdateTierResponse(change))
}
