package errs

import (
	"errors"
	"fmt"
)

// Failure kinds. Every concrete failure below unwraps to exactly one of them.
var (
	ErrNotFound         = errors.New("not found")
	ErrForbidden        = errors.New("forbidden")
	ErrInvalidState     = errors.New("invalid state")
	ErrInvalidOperation = errors.New("invalid operation")
	ErrConflict         = errors.New("conflict")
	ErrCancelled        = errors.New("cancelled")
)

var (
	ErrBookNotFound        = reason(ErrNotFound, "book not found")
	ErrTargetBookNotFound  = reason(ErrNotFound, "target book not found")
	ErrOfferedBookNotFound = reason(ErrNotFound, "one or more offered books not found")
	ErrTradeNotFound       = reason(ErrNotFound, "trade proposal not found")

	ErrSelfTrade        = reason(ErrInvalidOperation, "you cannot propose a trade for your own book")
	ErrNotOwner         = reason(ErrInvalidOperation, "you can only offer books you own")
	ErrNoOfferedBooks   = reason(ErrInvalidOperation, "at least one offered book is required")
	ErrDuplicateOffered = reason(ErrInvalidOperation, "offered books must be distinct")
	ErrInvalidDecision  = reason(ErrInvalidOperation, `invalid status provided, must be "accepted" or "rejected"`)
	ErrDuplicatePending = reason(ErrConflict, "a pending trade proposal for this book already exists")
	ErrNotRecipient     = reason(ErrForbidden, "you are not authorized to respond to this trade")
	ErrNotParticipant   = reason(ErrForbidden, "you are not a participant of this trade")
	ErrMissingBooks     = reason(ErrCancelled, "one or more books involved in the trade are missing, trade cancelled")
	ErrOwnershipChanged = reason(ErrCancelled, "ownership of books involved in the trade has changed, trade cancelled")
)

type reasonError struct {
	kind error
	msg  string
}

func reason(kind error, msg string) error {
	return &reasonError{kind: kind, msg: msg}
}

func (e *reasonError) Error() string { return e.msg }

func (e *reasonError) Unwrap() error { return e.kind }

// NotPending reports a response attempt on a trade that already reached a terminal status.
func NotPending(status fmt.Stringer) error {
	return reason(ErrInvalidState, fmt.Sprintf("trade is already %s, cannot respond", status))
}

// Kind returns a short label of the failure kind, "internal" for unclassified errors.
func Kind(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrInvalidState):
		return "invalid_state"
	case errors.Is(err, ErrInvalidOperation):
		return "invalid_operation"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrCancelled):
		return "cancelled"
	default:
		return "internal"
	}
}
