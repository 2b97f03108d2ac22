package apperrors

import "errors"

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrNotFound            = errors.New("not found")
	ErrInvalidScheduleType = errors.New("invalid schedule type")
	ErrDuplicatePending    = errors.New("quiz already pending for session")
	ErrNoQuizAvailable     = errors.New("no quiz available")
	ErrQuizAborted         = errors.New("quiz aborted")
)
