package handlers

import (
	"net/http"
	"strings"

	"github.com/flowtutor/flowtutor/internal/domain"
	"github.com/flowtutor/flowtutor/internal/ideal"
	"github.com/flowtutor/flowtutor/internal/question"
	"github.com/flowtutor/flowtutor/internal/queue"
)

// QuestionHandler handles question management endpoints
type QuestionHandler struct {
	questions *question.Service
	ideals    *ideal.Service
	producer  *queue.Producer // nil when the queue is disabled
}

// NewQuestionHandler creates a new question handler
func NewQuestionHandler(questions *question.Service, ideals *ideal.Service, producer *queue.Producer) *QuestionHandler {
	return &QuestionHandler{questions: questions, ideals: ideals, producer: producer}
}

// List returns all questions.
func (h *QuestionHandler) List(w http.ResponseWriter, r *http.Request) {
	qs, err := h.questions.List(r.Context())
	if err != nil {
		domainError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, map[string]any{
		"questions": qs,
		"total":     len(qs),
	})
}

// Get returns one question by id or title.
func (h *QuestionHandler) Get(w http.ResponseWriter, r *http.Request) {
	q, err := h.questions.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		domainError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, q)
}

// saveQuestionRequest is the body for creating or updating a question.
type saveQuestionRequest struct {
	ID          string            `json:"id,omitempty"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Topic       string            `json:"topic,omitempty"`
	Templates   map[string]string `json:"templates,omitempty"`
}

// Save creates or updates a question.
func (h *QuestionHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req saveQuestionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	if strings.TrimSpace(req.Title) == "" {
		jsonError(w, http.StatusBadRequest, "title is required")
		return
	}

	q, err := h.questions.Save(r.Context(), domain.Question{
		ID:          req.ID,
		Title:       req.Title,
		Description: req.Description,
		Topic:       req.Topic,
		Templates:   req.Templates,
	})
	if err != nil {
		domainError(w, err)
		return
	}

	jsonResponse(w, http.StatusCreated, q)
}

// generateRequest is the body for LLM question generation.
type generateRequest struct {
	Topic string `json:"topic"`
}

// Generate drafts a new question with the language model. The draft is
// returned, not stored; the teacher reviews it and saves via Save.
func (h *QuestionHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	if strings.TrimSpace(req.Topic) == "" {
		jsonError(w, http.StatusBadRequest, "topic is required")
		return
	}

	q, err := h.questions.Generate(r.Context(), req.Topic)
	if err != nil {
		domainError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, q)
}

// regenerateIdealRequest is the body for ideal-answer regeneration.
type regenerateIdealRequest struct {
	Async bool `json:"async,omitempty"`
}

// RegenerateIdeal forces a fresh ideal answer for a question. With
// async=true and a connected queue the work is enqueued instead and the
// handler returns 202.
func (h *QuestionHandler) RegenerateIdeal(w http.ResponseWriter, r *http.Request) {
	questionID := r.PathValue("id")

	q, err := h.questions.Get(r.Context(), questionID)
	if err != nil {
		domainError(w, err)
		return
	}

	var req regenerateIdealRequest
	if r.ContentLength > 0 {
		if err := decodeJSON(w, r, &req); err != nil {
			jsonError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	if req.Async && h.producer != nil {
		if err := h.producer.PublishGenerateJob(r.Context(), q.ID, true); err != nil {
			domainError(w, err)
			return
		}
		jsonResponse(w, http.StatusAccepted, map[string]string{
			"status":     "queued",
			"questionId": q.ID,
		})
		return
	}

	ans, err := h.ideals.Regenerate(r.Context(), q.ID, q.Description)
	if err != nil {
		domainError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, ans)
}

// GetIdeal returns the cached ideal answer for inspection.
func (h *QuestionHandler) GetIdeal(w http.ResponseWriter, r *http.Request) {
	q, err := h.questions.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		domainError(w, err)
		return
	}

	ans, err := h.ideals.Get(r.Context(), q.ID)
	if err != nil {
		domainError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, ans)
}
