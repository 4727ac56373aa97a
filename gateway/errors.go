package gateway

import (
	"context"
	"errors"
	"fmt"
	"log"

	"stylebook/auth"
	"stylebook/booking"
	"stylebook/profile"
	"stylebook/review"
)

// Kind names a failure category the presentation shell can render.
type Kind string

const (
	KindDuplicateUsername  Kind = "duplicate_username"
	KindInvalidCredentials Kind = "invalid_credentials"
	KindNotAuthenticated   Kind = "not_authenticated"
	KindForbidden          Kind = "forbidden"
	KindNotFound           Kind = "not_found"
	KindProfileNotFound    Kind = "profile_not_found"
	KindInvalidPrice       Kind = "invalid_price"
	KindInvalidServiceKind Kind = "invalid_service_kind"
	KindInvalidRating      Kind = "invalid_rating"
	KindInvalidTransition  Kind = "invalid_transition"
	KindInvalidInput       Kind = "invalid_input"
	KindInvalidImage       Kind = "invalid_image"
	KindPersistence        Kind = "persistence_error"
)

// Error is the only error type returned by Gateway methods.
// Op names the gateway operation that failed, when known.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	prefix := "gateway: "
	if e.Op != "" {
		prefix += e.Op + ": "
	}
	if e.Err == nil {
		return prefix + string(e.Kind)
	}
	return fmt.Sprintf("%s%s: %v", prefix, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so errors.Is(err, ErrForbidden) works
// regardless of the wrapped cause.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrDuplicateUsername  = &Error{Kind: KindDuplicateUsername}
	ErrInvalidCredentials = &Error{Kind: KindInvalidCredentials}
	ErrNotAuthenticated   = &Error{Kind: KindNotAuthenticated}
	ErrForbidden          = &Error{Kind: KindForbidden}
	ErrNotFound           = &Error{Kind: KindNotFound}
	ErrProfileNotFound    = &Error{Kind: KindProfileNotFound}
	ErrInvalidPrice       = &Error{Kind: KindInvalidPrice}
	ErrInvalidServiceKind = &Error{Kind: KindInvalidServiceKind}
	ErrInvalidRating      = &Error{Kind: KindInvalidRating}
	ErrInvalidTransition  = &Error{Kind: KindInvalidTransition}
	ErrInvalidInput       = &Error{Kind: KindInvalidInput}
	ErrInvalidImage       = &Error{Kind: KindInvalidImage}
	ErrPersistence        = &Error{Kind: KindPersistence}
)

// KindOf extracts the failure kind from err. Errors that did not come from the
// gateway report KindPersistence.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var gwErr *Error
	if errors.As(err, &gwErr) {
		return gwErr.Kind
	}
	return KindPersistence
}

func fail(kind Kind, err error) error {
	return &Error{Kind: kind, Err: err}
}

var kindTable = []struct {
	target error
	kind   Kind
}{
	{auth.ErrDuplicateUsername, KindDuplicateUsername},
	{auth.ErrInvalidCredentials, KindInvalidCredentials},
	{auth.ErrInvalidToken, KindNotAuthenticated},
	{auth.ErrMissingFields, KindInvalidInput},
	{auth.ErrInvalidRole, KindInvalidInput},
	{auth.ErrPasswordTooLong, KindInvalidInput},
	{auth.ErrAccountNotFound, KindNotFound},
	{profile.ErrNotFound, KindNotFound},
	{profile.ErrInvalidPrice, KindInvalidPrice},
	{profile.ErrOwnerNotProvider, KindForbidden},
	{booking.ErrNotFound, KindNotFound},
	{booking.ErrProfileNotFound, KindProfileNotFound},
	{booking.ErrInvalidServiceKind, KindInvalidServiceKind},
	{booking.ErrInvalidTransition, KindInvalidTransition},
	{booking.ErrInvalidStatus, KindInvalidTransition},
	{booking.ErrInvalidSchedule, KindInvalidInput},
	{booking.ErrNotClient, KindForbidden},
	{booking.ErrInvalidPrice, KindInvalidPrice},
	{review.ErrProfileNotFound, KindProfileNotFound},
	{review.ErrInvalidRating, KindInvalidRating},
}

// classify maps a store error onto a Kind. Anything unrecognised is treated as
// a storage failure and logged, since its text may carry engine detail.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var gwErr *Error
	if errors.As(err, &gwErr) {
		if gwErr.Op != "" {
			return err
		}
		return &Error{Kind: gwErr.Kind, Op: op, Err: gwErr.Err}
	}
	for _, entry := range kindTable {
		if errors.Is(err, entry.target) {
			return &Error{Kind: entry.kind, Op: op, Err: err}
		}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: KindPersistence, Op: op, Err: err}
	}
	log.Printf("gateway: %s: storage failure: %v", op, err)
	return &Error{Kind: KindPersistence, Op: op, Err: err}
}
