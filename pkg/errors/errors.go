package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is reports whether target carries the same code, so clones and wraps of a
// predefined error still match it through errors.Is.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors for common scenarios.
var (
	ErrNotFound           = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrConflict           = New("CONFLICT", http.StatusConflict, "conflict")
	ErrPreconditionFailed = New("PRECONDITION_FAILED", http.StatusPreconditionFailed, "precondition failed")
	ErrValidation         = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrInternal           = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")

	// Allocation
	ErrTeacherInactive     = New("TEACHER_INACTIVE", http.StatusPreconditionFailed, "teacher is not active")
	ErrCapacityExceeded    = New("CAPACITY_EXCEEDED", http.StatusConflict, "teacher has reached the maximum number of subjects")
	ErrDuplicateAssignment = New("DUPLICATE_ASSIGNMENT", http.StatusConflict, "subject already allocated to this teacher")
	ErrSubjectAllocated    = New("SUBJECT_ALREADY_ALLOCATED", http.StatusConflict, "subject already allocated to another teacher")
	ErrAllocationNotFound  = New("NOT_FOUND", http.StatusNotFound, "allocation not found")

	// Scheduling
	ErrSlotOccupied      = New("SLOT_OCCUPIED", http.StatusConflict, "slot already has an exam bound")
	ErrSlotConflict      = New("SLOT_CONFLICT", http.StatusConflict, "slot overlaps an existing slot at the same location")
	ErrInvalidTransition = New("INVALID_TRANSITION", http.StatusConflict, "status transition not allowed")

	// Course plans
	ErrAlreadyPresent = New("ALREADY_PRESENT", http.StatusConflict, "subject already in course plan")
	ErrPlanArchived   = New("PLAN_ARCHIVED", http.StatusConflict, "course plan is archived")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}

// Reason renders a human readable reason for outcome reporting.
func Reason(err error) string {
	if err == nil {
		return ""
	}
	return FromError(err).Message
}
