// Package handler provides HTTP request handlers.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/plantrent/plantrent/internal/handler/dto"
	"github.com/plantrent/plantrent/internal/service"
)

var statusMessages = map[int]string{
	http.StatusBadRequest:            "bad request",
	http.StatusNotFound:              "resource not found",
	http.StatusMethodNotAllowed:      "method not allowed",
	http.StatusRequestEntityTooLarge: "request entity too large",
	http.StatusUnprocessableEntity:   "unprocessable",
	http.StatusTooManyRequests:       "rate limit exceeded",
	http.StatusInternalServerError:   "internal server error",
}

// Handler serves the router fallbacks.
type Handler struct{}

// New creates a new Handler instance.
func New() *Handler {
	return &Handler{}
}

// NotFound handles 404 responses.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	WriteError(w, http.StatusNotFound)
}

// MethodNotAllowed handles 405 responses.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	WriteError(w, http.StatusMethodNotAllowed)
}

// WriteError writes {success:false, error:<status>, message} for status.
func WriteError(w http.ResponseWriter, status int) {
	msg, ok := statusMessages[status]
	if !ok {
		msg = http.StatusText(status)
	}
	writeJSON(w, status, dto.ErrorResponse{
		Success: false,
		Error:   status,
		Message: msg,
	})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(data)
}

// parseID reads a positive integer path parameter.
func parseID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// handleServiceError maps service errors to responses. Unknown errors are
// logged and rendered without detail.
func handleServiceError(logger *slog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrPlantNotFound),
		errors.Is(err, service.ErrRenterNotFound):
		WriteError(w, http.StatusNotFound)
	case errors.Is(err, service.ErrInvalidPlant),
		errors.Is(err, service.ErrPlantNameTaken),
		errors.Is(err, service.ErrPlantInUse):
		logger.Info("request_rejected",
			slog.String("path", r.URL.Path),
			slog.String("reason", err.Error()),
		)
		WriteError(w, http.StatusUnprocessableEntity)
	default:
		logger.Error("internal_error",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		WriteError(w, http.StatusInternalServerError)
	}
}
