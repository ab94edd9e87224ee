// Package repository implements MySQL persistence for the event-signup
// domain. Sentinel errors let handlers translate failure scenarios into
// distinct HTTP responses without string matching.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own. Handlers translate this into HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrEmailExists is returned on registration with an already-used email.
var ErrEmailExists = errors.New("email already exists")

// ErrEventNotFound is returned when an event does not exist or has been
// cancelled by an admin.
var ErrEventNotFound = errors.New("event not found")

// ErrCapacityClosed is returned by the submit transaction when the event
// resolves to CLOSED at write time. It closes the race between a stale
// client-side availability check and the actual insert.
var ErrCapacityClosed = errors.New("applications closed for this event")

// ErrDuplicateApplication is returned when the user already holds a
// non-cancelled application for the event.
var ErrDuplicateApplication = errors.New("an active application already exists for this event")

// ErrInvalidTransition is returned when a status change violates the
// lifecycle table, including any transition out of a terminal state.
var ErrInvalidTransition = errors.New("invalid status transition")

// ErrNotEligible is returned when a member without a completed application
// attempts to review an event.
var ErrNotEligible = errors.New("no completed application for this event")

// ErrDuplicateReview is returned when a review already exists for the
// (event, user) pair; callers should route to update instead.
var ErrDuplicateReview = errors.New("review already exists for this event")
