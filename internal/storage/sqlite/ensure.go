package sqlite

import (
	"github.com/flowtutor/flowtutor/internal/ideal"
	"github.com/flowtutor/flowtutor/internal/question"
	"github.com/flowtutor/flowtutor/internal/submission"
)

// Ensure SQLite stores implement the storage interfaces.
var (
	_ question.Store   = (*QuestionStore)(nil)
	_ ideal.Store      = (*IdealAnswerStore)(nil)
	_ submission.Store = (*SubmissionStore)(nil)
)
