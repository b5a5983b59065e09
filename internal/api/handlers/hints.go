package handlers

import (
	"net/http"

	"github.com/flowtutor/flowtutor/internal/hint"
	"github.com/flowtutor/flowtutor/internal/question"
)

// HintHandler handles hint requests
type HintHandler struct {
	hints     *hint.Service
	questions *question.Service
}

// NewHintHandler creates a new hint handler
func NewHintHandler(hints *hint.Service, questions *question.Service) *HintHandler {
	return &HintHandler{hints: hints, questions: questions}
}

// hintRequest is the body for a hint request.
type hintRequest struct {
	QuestionID string `json:"questionId"`
	Stage      int    `json:"stage"`
	Work       string `json:"work,omitempty"`
	Ask        string `json:"ask,omitempty"`
}

// Hint returns one stage-aware guiding hint for the student's current work.
func (h *HintHandler) Hint(w http.ResponseWriter, r *http.Request) {
	var req hintRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	text, err := h.hints.Hint(r.Context(), hint.Request{
		Stage:        req.Stage,
		QuestionText: h.questions.DescriptionOrEmpty(r.Context(), req.QuestionID),
		Work:         req.Work,
		Ask:          req.Ask,
	})
	if err != nil {
		domainError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"hint": text})
}
