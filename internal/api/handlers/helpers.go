// Package handlers implements the HTTP endpoints of the tutoring API.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/flowtutor/flowtutor/internal/auth"
	"github.com/flowtutor/flowtutor/internal/domain"
)

// maxBodyBytes bounds request bodies. Flowchart images arrive base64-encoded
// inline, so the cap is generous.
const maxBodyBytes = 8 << 20

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

// domainError maps a service-layer error onto the matching HTTP status.
// Unrecognized errors become a 500 with a generic message.
func domainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrInvalidStage):
		jsonError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrQuestionNotFound):
		jsonError(w, http.StatusNotFound, "question not found")
	case errors.Is(err, domain.ErrSubmissionNotFound):
		jsonError(w, http.StatusNotFound, "submission not found")
	case errors.Is(err, domain.ErrIdealAnswerNotFound):
		jsonError(w, http.StatusNotFound, "ideal answer not found")
	case errors.Is(err, domain.ErrNotFound):
		jsonError(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrUnauthorized):
		jsonError(w, http.StatusUnauthorized, "authentication required")
	case errors.Is(err, domain.ErrForbidden):
		jsonError(w, http.StatusForbidden, "insufficient permissions")
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrQuestionAlreadyExists):
		jsonError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrGeneration), errors.Is(err, domain.ErrModelOutput):
		slog.Error("model call failed", "error", err)
		jsonError(w, http.StatusBadGateway, "the grading model is temporarily unavailable")
	default:
		slog.Error("unexpected handler error", "error", err)
		jsonError(w, http.StatusInternalServerError, "an unexpected error occurred")
	}
}

// identity returns the authenticated caller. The auth middleware guarantees
// its presence on protected routes; the false branch guards against a
// misconfigured route table.
func identity(r *http.Request) (*auth.Identity, bool) {
	return auth.FromContext(r.Context())
}
