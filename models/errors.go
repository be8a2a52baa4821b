package models

import "fmt"

// ValidationError is malformed or missing input. It is always user-correctable.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

// ConflictKind names which booking invariant a reservation would have broken.
type ConflictKind string

const (
	ConflictServiceTaken     ConflictKind = "service-taken"
	ConflictUserDoubleBooked ConflictKind = "user-double-booked"
)

// ConflictError is returned when a reservation loses to an existing booking.
type ConflictError struct {
	Kind ConflictKind
	Date string
	Slot Slot
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict (%s) at %s %s", e.Kind, e.Date, e.Slot)
}

// NotFoundError is an unknown session or booking.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// PermissionError is a caller acting on a resource it does not own.
type PermissionError struct {
	Action string
}

func (e *PermissionError) Error() string {
	return "not allowed to " + e.Action
}

// UpstreamError wraps a failure from an external collaborator (LLM, phrasing, FAQ).
type UpstreamError struct {
	Collaborator string
	Err          error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Collaborator, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
