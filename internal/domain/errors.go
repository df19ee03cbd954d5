package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// NotFoundError signals a missing resource (route, booking, user).
type NotFoundError struct {
	Resource string
	Err      error
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e NotFoundError) Unwrap() error { return e.Err }

// ValidationError signals malformed caller input. Never retried.
type ValidationError struct {
	Field string
	Msg   string
	Err   error
}

func (e ValidationError) Error() string {
	if e.Msg != "" && e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	if e.Msg != "" {
		return e.Msg
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid %s", e.Field)
	}
	return "validation error"
}

func (e ValidationError) Unwrap() error { return e.Err }

// SeatsUnavailableError lists exactly the requested seats that were
// not free; the caller may retry with a different selection.
type SeatsUnavailableError struct {
	RouteID string
	Seats   []int
}

func (e SeatsUnavailableError) Error() string {
	parts := make([]string, len(e.Seats))
	for i, s := range e.Seats {
		parts[i] = strconv.Itoa(s)
	}
	return fmt.Sprintf("seats unavailable: %s", strings.Join(parts, ", "))
}

// NoSuchHoldError signals a confirm for a booking that owns no seats,
// typically because its hold already expired.
type NoSuchHoldError struct {
	BookingID string
}

func (e NoSuchHoldError) Error() string {
	return fmt.Sprintf("no held seats for booking %s", e.BookingID)
}

// InvalidTransitionError signals an illegal booking state change.
type InvalidTransitionError struct {
	BookingID string
	From      BookingStatus
	To        BookingStatus
}

func (e InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition %s -> %s for booking %s", e.From, e.To, e.BookingID)
}

// IssuanceError wraps a failed proof-token issuance. Transient means
// the operation may succeed on retry; the router has already exhausted
// its retry budget by the time callers see one.
type IssuanceError struct {
	Transient bool
	Err       error
}

func (e IssuanceError) Error() string {
	kind := "rejected"
	if e.Transient {
		kind = "unavailable"
	}
	if e.Err != nil {
		return fmt.Sprintf("issuance %s: %v", kind, e.Err)
	}
	return fmt.Sprintf("issuance %s", kind)
}

func (e IssuanceError) Unwrap() error { return e.Err }

// ConflictError signals a request that clashes with current state
// (e.g. duplicate registration email).
type ConflictError struct {
	Resource string
	Msg      string
	Err      error
}

func (e ConflictError) Error() string {
	switch {
	case e.Msg != "" && e.Resource != "":
		return fmt.Sprintf("%s conflict: %s", e.Resource, e.Msg)
	case e.Msg != "":
		return e.Msg
	case e.Resource != "":
		return fmt.Sprintf("%s conflict", e.Resource)
	default:
		return "conflict"
	}
}

func (e ConflictError) Unwrap() error { return e.Err }

// InternalError wraps unexpected failures (storage, encoding).
type InternalError struct {
	Msg string
	Err error
}

func (e InternalError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "internal error"
}

func (e InternalError) Unwrap() error { return e.Err }

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsSeatsUnavailable(err error) bool {
	var target SeatsUnavailableError
	return errors.As(err, &target)
}

func IsNoSuchHold(err error) bool {
	var target NoSuchHoldError
	return errors.As(err, &target)
}

func IsInvalidTransition(err error) bool {
	var target InvalidTransitionError
	return errors.As(err, &target)
}

func IsIssuance(err error) bool {
	var target IssuanceError
	return errors.As(err, &target)
}

// IsTransientIssuance reports whether err is an issuance failure the
// backend classified as retryable.
func IsTransientIssuance(err error) bool {
	var target IssuanceError
	return errors.As(err, &target) && target.Transient
}

func IsConflict(err error) bool {
	var target ConflictError
	return errors.As(err, &target)
}

func IsInternal(err error) bool {
	var target InternalError
	return errors.As(err, &target)
}
