package handlers

import (
	"net/http"
	"strconv"

	"github.com/flowtutor/flowtutor/internal/flowspec"
	"github.com/flowtutor/flowtutor/internal/submission"
)

// SubmissionHandler handles submission endpoints
type SubmissionHandler struct {
	submissions *submission.Service
}

// NewSubmissionHandler creates a new submission handler
func NewSubmissionHandler(submissions *submission.Service) *SubmissionHandler {
	return &SubmissionHandler{submissions: submissions}
}

// checkFlowchartRequest is the stage-1 grading request body. Graph and
// imageBase64 are alternatives; when both are present the graph wins.
type checkFlowchartRequest struct {
	QuestionID     string                `json:"questionId"`
	Graph          *flowspec.EditorGraph `json:"graph,omitempty"`
	ImageBase64    string                `json:"imageBase64,omitempty"`
	ImageMediaType string                `json:"imageMediaType,omitempty"`
}

// CheckFlowchart grades a drawn or photographed flowchart and returns
// scores, diffs, and feedback.
func (h *SubmissionHandler) CheckFlowchart(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(r)
	if !ok {
		jsonError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req checkFlowchartRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.submissions.CheckFlowchart(r.Context(), submission.CheckFlowchartRequest{
		StudentID:      id.SubjectID,
		QuestionID:     req.QuestionID,
		Graph:          req.Graph,
		ImageBase64:    req.ImageBase64,
		ImageMediaType: req.ImageMediaType,
	})
	if err != nil {
		domainError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, result)
}

// saveStageRequest is the body for saving a pseudocode or code draft.
type saveStageRequest struct {
	Content  string `json:"content"`
	Language string `json:"language,omitempty"`
}

// SaveStage stores the student's stage 2 or 3 draft.
func (h *SubmissionHandler) SaveStage(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(r)
	if !ok {
		jsonError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	questionID := r.PathValue("questionID")
	stage, err := strconv.Atoi(r.PathValue("stage"))
	if err != nil {
		jsonError(w, http.StatusBadRequest, "stage must be a number")
		return
	}

	var req saveStageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	sub, err := h.submissions.SaveStage(r.Context(), id.SubjectID, questionID, stage, req.Content, req.Language)
	if err != nil {
		domainError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, sub)
}

// Get returns the caller's submission for a question, all stages included.
func (h *SubmissionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(r)
	if !ok {
		jsonError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	sub, err := h.submissions.Get(r.Context(), id.SubjectID, r.PathValue("questionID"))
	if err != nil {
		domainError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, sub)
}
