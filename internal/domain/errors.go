package domain

import "errors"

var (
	ErrSerializationFailure = errors.New("serialization failure")
	ErrNotFound             = errors.New("not found")
	ErrConflict             = errors.New("conflict")
	ErrInvalidInput         = errors.New("invalid input")

	// ErrEmailTaken is returned when registering or changing to an email
	// that already belongs to another account.
	ErrEmailTaken = errors.New("email already registered")

	// ErrSoldOut is returned when a booking finds no remaining tickets.
	ErrSoldOut = errors.New("no tickets available")

	// ErrOwnEvent is returned when an organizer tries to book their own event.
	ErrOwnEvent = errors.New("cannot book own event")

	// ErrForbidden is returned when a user acts on a resource they do not own
	// or lacks the role for.
	ErrForbidden = errors.New("forbidden")
)
