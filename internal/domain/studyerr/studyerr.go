// Package studyerr defines the failure kinds returned by the study-group core.
//
// Every failure carries a Kind. Validation and invariant kinds are terminal for
// the request; only KindTransportFailure is eligible for a caller-initiated retry.
// Callers match kinds with errors.Is against the exported sentinels:
//
//	if errors.Is(err, studyerr.ErrGroupFull) { ... }
package studyerr

import (
	"errors"
	"fmt"
)

// Kind tags a failure.
type Kind int

const (
	KindUnknown Kind = iota
	KindMalformedSchedule
	KindOutOfScheduleWindow
	KindMissingRequiredField
	KindAlreadyMember
	KindNotAMember
	KindGroupFull
	KindCreatorCannotLeave
	KindGroupNotFound
	KindTransportFailure
	KindNotGroupCreator
	KindSessionNotFound
	KindUnauthenticated
)

var kindNames = map[Kind]string{
	KindUnknown:              "Unknown",
	KindMalformedSchedule:    "MalformedSchedule",
	KindOutOfScheduleWindow:  "OutOfScheduleWindow",
	KindMissingRequiredField: "MissingRequiredField",
	KindAlreadyMember:        "AlreadyMember",
	KindNotAMember:           "NotAMember",
	KindGroupFull:            "GroupFull",
	KindCreatorCannotLeave:   "CreatorCannotLeave",
	KindGroupNotFound:        "GroupNotFound",
	KindTransportFailure:     "TransportFailure",
	KindNotGroupCreator:      "NotGroupCreator",
	KindSessionNotFound:      "SessionNotFound",
	KindUnauthenticated:      "Unauthenticated",
}

// Human-readable messages shown to users. Each kind has its own text so the UI
// never reports one failure as another.
var kindMessages = map[Kind]string{
	KindUnknown:              "Something went wrong.",
	KindMalformedSchedule:    "The group's schedule is not a valid date range.",
	KindOutOfScheduleWindow:  "Session must be within the group schedule.",
	KindMissingRequiredField: "Please fill out all required fields.",
	KindAlreadyMember:        "You are already a member of this group.",
	KindNotAMember:           "You are not a member of this group.",
	KindGroupFull:            "This group is full.",
	KindCreatorCannotLeave:   "The group creator cannot leave; delete the group instead.",
	KindGroupNotFound:        "Study group not found.",
	KindTransportFailure:     "The study group service is unavailable. Please try again.",
	KindNotGroupCreator:      "Only the group creator can do that.",
	KindSessionNotFound:      "Study session not found.",
	KindUnauthenticated:      "Please sign in to continue.",
}

// String returns the kind's tag, e.g. "GroupFull".
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Message returns the user-facing text for the kind.
func (k Kind) Message() string {
	if s, ok := kindMessages[k]; ok {
		return s
	}
	return kindMessages[KindUnknown]
}

// Error is a tagged failure. Detail is an optional developer-facing note
// (which field was missing, which date was outside the window); Err is the
// wrapped cause for transport failures.
type Error struct {
	Kind   Kind
	Detail string
	Err    error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error of the same kind. This lets the
// package sentinels match any detailed error of their kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinels, one per kind.
var (
	ErrMalformedSchedule    = &Error{Kind: KindMalformedSchedule}
	ErrOutOfScheduleWindow  = &Error{Kind: KindOutOfScheduleWindow}
	ErrMissingRequiredField = &Error{Kind: KindMissingRequiredField}
	ErrAlreadyMember        = &Error{Kind: KindAlreadyMember}
	ErrNotAMember           = &Error{Kind: KindNotAMember}
	ErrGroupFull            = &Error{Kind: KindGroupFull}
	ErrCreatorCannotLeave   = &Error{Kind: KindCreatorCannotLeave}
	ErrGroupNotFound        = &Error{Kind: KindGroupNotFound}
	ErrTransportFailure     = &Error{Kind: KindTransportFailure}
	ErrNotGroupCreator      = &Error{Kind: KindNotGroupCreator}
	ErrSessionNotFound      = &Error{Kind: KindSessionNotFound}
	ErrUnauthenticated      = &Error{Kind: KindUnauthenticated}
)

// New returns an error of kind k with a formatted detail.
func New(k Kind, format string, args ...any) *Error {
	return &Error{Kind: k, Detail: fmt.Sprintf(format, args...)}
}

// MissingField reports a required field that was blank.
func MissingField(field string) *Error {
	return &Error{Kind: KindMissingRequiredField, Detail: field + " is required"}
}

// Transport wraps a store I/O failure. A nil err yields nil. Errors that
// already carry a kind are returned unchanged so a GroupNotFound raised below
// the gateway is not hidden behind TransportFailure.
func Transport(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *Error
	if errors.As(err, &se) {
		return err
	}
	return &Error{Kind: KindTransportFailure, Detail: op, Err: err}
}

// KindOf returns the kind carried by err, or KindUnknown.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindUnknown
}

// Retryable reports whether err may succeed if the caller tries again.
func Retryable(err error) bool {
	return KindOf(err) == KindTransportFailure
}
