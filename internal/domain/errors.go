package domain

import "errors"

// -----------------------------------------------------------------------------
// Domain Errors
// These errors represent domain-level failures and are used by repositories
// and services to communicate domain-specific error conditions.
// -----------------------------------------------------------------------------

// Question errors
var (
	ErrQuestionNotFound      = errors.New("question not found")
	ErrQuestionAlreadyExists = errors.New("question already exists")
)

// Submission errors
var (
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrInvalidStage       = errors.New("invalid stage")
)

// Ideal answer errors
var (
	ErrIdealAnswerNotFound = errors.New("ideal answer not found")
)

// Model output errors. ErrModelOutput marks a language-model response that
// failed JSON decoding; callers must surface it rather than substituting a
// default spec.
var (
	ErrModelOutput = errors.New("model output not parseable")
	ErrGeneration  = errors.New("generation failed")
)

// General errors
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)
