// AngelaMos | 2026
// handler.go

package user

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
	r.Route("/users", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/me", h.GetMe)
		r.Get("/{userID}", h.GetUser)
	})
}

func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		core.Unauthorized(w, "")
		return
	}

	h.respondWithUser(w, r, userID)
}

// GetUser returns the public profile for any user id. Credential documents
// are stored separately, so nothing sensitive can leak through this path.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	h.respondWithUser(w, r, chi.URLParam(r, "userID"))
}

func (h *Handler) respondWithUser(
	w http.ResponseWriter,
	r *http.Request,
	userID string,
) {
	u, err := h.service.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "user")
			return
		}
		if errors.Is(err, core.ErrInvalidInput) {
			core.BadRequest(w, "user ID required")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, map[string]UserResponse{"user": ToUserResponse(u)})
}
