// AngelaMos | 2026
// handler.go

package notification

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bisestashah-commits/Smart-Rubbish-Detection/internal/core"
	"github.com/bisestashah-commits/Smart-Rubbish-Detection/internal/middleware"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/notifications", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.List)
		r.Put("/{notificationID}/read", h.MarkRead)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		core.Unauthorized(w, "")
		return
	}

	notifications, err := h.service.ListForUser(r.Context(), userID)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, map[string]any{
		"notifications": notifications,
		"total":         len(notifications),
	})
}

func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		core.Unauthorized(w, "")
		return
	}

	n, err := h.service.MarkRead(
		r.Context(),
		userID,
		chi.URLParam(r, "notificationID"),
	)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "notification")
			return
		}
		if errors.Is(err, core.ErrInvalidInput) {
			core.BadRequest(w, "notification ID required")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, map[string]*Notification{"notification": n})
}
