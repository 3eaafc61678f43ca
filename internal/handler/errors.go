package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/tcosta/corptravel/internal/domain"
)

// errorResponse is the envelope every non-2xx response carries.
type errorResponse struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: errorDetail{Code: code, Message: message}})
}

// respondError maps a service error onto the HTTP error envelope using the
// domain sentinels. Anything unrecognized becomes an opaque 500; the wrapped
// detail stays in the server log, not the response.
func respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusUnprocessableEntity, "validation_error", messageAfter(err, "validation error"))
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden", messageAfter(err, "forbidden"))
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", "travel request not found")
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, "conflict", messageAfter(err, "conflict"))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

// messageAfter extracts the human-readable part from a wrapped sentinel error.
// e.g. "service.TravelRequestService.Update: forbidden: you can only update
// your own travel requests" → "you can only update your own travel requests".
// When the sentinel carries no detail the sentinel text itself is returned.
func messageAfter(err error, sentinel string) string {
	msg := err.Error()
	if i := strings.LastIndex(msg, sentinel+": "); i >= 0 {
		return msg[i+len(sentinel)+2:]
	}
	if i := strings.LastIndex(msg, sentinel); i >= 0 {
		return sentinel
	}
	return msg
}
