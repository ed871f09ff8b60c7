package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates that the actor may not perform the operation.
var ErrForbidden = errors.New("forbidden")

// ErrInternal is returned when a failure should not be exposed in detail.
var ErrInternal = errors.New("internal error")

// ErrInvalidTransition indicates a status change the entity's state machine does not allow,
// or a mutation attempted in a state that forbids it (e.g. editing a sent proposal).
var ErrInvalidTransition = errors.New("invalid state transition")

// ErrBatchCommit indicates that an atomic batch failed; none of its writes landed.
var ErrBatchCommit = errors.New("atomic batch commit failed")

// ErrPartialCommit indicates that a chunked fan-out failed after earlier chunks
// had already committed. The earlier chunks are not rolled back.
var ErrPartialCommit = errors.New("chunked write partially committed")

// AppError carries an HTTP-ish status code alongside a wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError creates an AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// PartialCommitError describes how far a chunked fan-out got before failing.
type PartialCommitError struct {
	Operation       string
	CommittedChunks int
	TotalChunks     int
	Err             error
}

func (e *PartialCommitError) Error() string {
	return fmt.Sprintf("%s: committed %d of %d chunks: %v", e.Operation, e.CommittedChunks, e.TotalChunks, e.Err)
}

// Is lets errors.Is match ErrPartialCommit.
func (e *PartialCommitError) Is(target error) bool {
	return target == ErrPartialCommit
}

func (e *PartialCommitError) Unwrap() error {
	return e.Err
}
