package domain

import "errors"

var (
	// ErrNotFound is returned when no shipment matches the id or tracking number.
	ErrNotFound = errors.New("shipment not found")
	// ErrForbidden is returned when the actor's role or identity does not own the shipment.
	ErrForbidden = errors.New("forbidden")
	// ErrPreconditionFailed is returned when a workflow step is attempted out of order.
	ErrPreconditionFailed = errors.New("precondition failed")
	// ErrInvalidStatus is returned for a status outside the enumeration.
	ErrInvalidStatus = errors.New("invalid status")
	// ErrValidation is returned when a required field is missing or malformed.
	ErrValidation = errors.New("validation error")
	// ErrDuplicateTrackingNumber is returned when the store already holds the tracking number.
	ErrDuplicateTrackingNumber = errors.New("duplicate tracking number")
	// ErrConflict is returned when the record changed between load and save,
	// or when the same idempotency key is still being processed.
	ErrConflict = errors.New("conflict")
)
