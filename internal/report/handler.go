// AngelaMos | 2026
// handler.go

package report

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/bisestashah-commits/Smart-Rubbish-Detection/internal/core"
	"github.com/bisestashah-commits/Smart-Rubbish-Detection/internal/middleware"
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

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/reports", func(r chi.Router) {
		r.Use(authenticator)

		r.Post("/", h.Submit)
		r.Get("/user/{userID}", h.ListByUser)
		r.Get("/{reportID}", h.Get)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin)
			r.Get("/", h.List)
			r.Put("/{reportID}/status", h.UpdateStatus)
		})
	})
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		core.Unauthorized(w, "")
		return
	}

	var req SubmitReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	req.Normalize()
	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	report, err := h.service.Submit(r.Context(), userID, req)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "user")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, map[string]*Report{"report": report})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.GetByID(r.Context(), chi.URLParam(r, "reportID"))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "report")
			return
		}
		if errors.Is(err, core.ErrInvalidInput) {
			core.BadRequest(w, "report ID required")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	// Reports drive a public community map, but only the owner and council
	// staff see them through the API surface.
	if report.UserID != middleware.GetUserID(r.Context()) &&
		!middleware.IsAdmin(r.Context()) {
		core.Forbidden(w, "cannot view another member's report")
		return
	}

	core.OK(w, map[string]*Report{"report": report})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	reports, err := h.service.List(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ListResponse{Reports: reports, Total: len(reports)})
}

func (h *Handler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	if userID != middleware.GetUserID(r.Context()) &&
		!middleware.IsAdmin(r.Context()) {
		core.Forbidden(w, "cannot view another member's reports")
		return
	}

	reports, err := h.service.ListByUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, core.ErrInvalidInput) {
			core.BadRequest(w, "user ID required")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ListResponse{Reports: reports, Total: len(reports)})
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	reportID := chi.URLParam(r, "reportID")
	if reportID == "" {
		core.BadRequest(w, "report ID required")
		return
	}

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	report, err := h.service.UpdateStatus(r.Context(), reportID, req.Status)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "report")
			return
		}
		if errors.Is(err, ErrInvalidStatus) {
			core.JSONError(w, core.NewAppError(
				err,
				"status must be pending, reviewed, or resolved",
				http.StatusBadRequest,
				"INVALID_STATUS",
			))
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, map[string]*Report{"report": report})
}
