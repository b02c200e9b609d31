package apperrors

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("invalid request")
	ErrConflict        = errors.New("conflict")
	ErrMissingQuestion = errors.New("question is required")
	ErrMissingEmail    = errors.New("user email is required")
	ErrBuildingMissing = errors.New("building not found")
)
