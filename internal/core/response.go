// AngelaMos | 2026
// response.go

package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

type response struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *errorBody `json:"error,omitempty"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck // best-effort response write
	_ = json.NewEncoder(w).Encode(body)
}

func OK(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, response{Success: true, Data: data})
}

func Created(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusCreated, response{Success: true, Data: data})
}

func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// JSONError renders an AppError's status, code, and message. Anything else
// becomes an opaque 500.
func JSONError(w http.ResponseWriter, err error) {
	if appErr, ok := AsAppError(err); ok {
		writeJSON(w, appErr.Status, response{
			Success: false,
			Error: &errorBody{
				Code:    appErr.Code,
				Message: appErr.Message,
			},
		})
		return
	}

	InternalServerError(w, err)
}

func BadRequest(w http.ResponseWriter, message string) {
	JSONError(w, BadRequestError(message))
}

func Unauthorized(w http.ResponseWriter, message string) {
	JSONError(w, UnauthorizedError(message))
}

func Forbidden(w http.ResponseWriter, message string) {
	JSONError(w, ForbiddenError(message))
}

func NotFound(w http.ResponseWriter, resource string) {
	JSONError(w, NotFoundError(resource))
}

func InternalServerError(w http.ResponseWriter, err error) {
	slog.Error("internal server error", "error", err)

	writeJSON(w, http.StatusInternalServerError, response{
		Success: false,
		Error: &errorBody{
			Code:    "INTERNAL_ERROR",
			Message: "an internal error occurred",
		},
	})
}

// FormatValidationError flattens validator failures into one readable line.
func FormatValidationError(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return "validation failed"
	}

	messages := make([]string, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		field := strings.ToLower(fieldErr.Field())

		switch fieldErr.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("%s is required", field))
		case "email":
			messages = append(messages,
				fmt.Sprintf("%s must be a valid email address", field))
		case "min":
			messages = append(messages,
				fmt.Sprintf("%s must be at least %s characters",
					field, fieldErr.Param()))
		case "max":
			messages = append(messages,
				fmt.Sprintf("%s must be at most %s characters",
					field, fieldErr.Param()))
		case "gte":
			messages = append(messages,
				fmt.Sprintf("%s must be >= %s", field, fieldErr.Param()))
		case "lte":
			messages = append(messages,
				fmt.Sprintf("%s must be <= %s", field, fieldErr.Param()))
		case "oneof":
			messages = append(messages,
				fmt.Sprintf("%s must be one of: %s", field, fieldErr.Param()))
		case "url":
			messages = append(messages,
				fmt.Sprintf("%s must be a valid URL", field))
		default:
			messages = append(messages,
				fmt.Sprintf("%s is invalid", field))
		}
	}

	return strings.Join(messages, "; ")
}
