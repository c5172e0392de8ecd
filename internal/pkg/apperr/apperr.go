package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies webhook processing failures. The controller maps kinds to
// HTTP statuses; nothing below the controller touches status codes.
type Kind int

const (
	// KindAuthentication: bad or stale signature. Never retried.
	KindAuthentication Kind = iota
	// KindValidation: required metadata is malformed. Acknowledged but not
	// retried; flagged for manual review.
	KindValidation
	// KindConflict: concurrent-write race that survived the internal retry.
	KindConflict
	// KindTransient: storage unavailable or deadlocked. The processor should
	// back off and redeliver.
	KindTransient
	// KindNotification: email delivery failure. Swallowed by callers, logged.
	KindNotification
)

func (k Kind) String() string {
	switch k {
	case KindAuthentication:
		return "authentication"
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindTransient:
		return "transient"
	case KindNotification:
		return "notification"
	}
	return "unknown"
}

// Error is a tagged processing error carrying the processor event id for
// log correlation.
type Error struct {
	Kind    Kind
	EventId string
	Err     error
}

func (e *Error) Error() string {
	if e.EventId != "" {
		return fmt.Sprintf("%s: event %s: %v", e.Kind, e.EventId, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, eventId string, err error) *Error {
	return &Error{Kind: kind, EventId: eventId, Err: err}
}

func Newf(kind Kind, eventId, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, EventId: eventId, Err: fmt.Errorf(format, args...)}
}

// KindOf extracts the Kind from err. Untagged errors classify as transient:
// the safe default is to let the processor redeliver.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindTransient
}

// IsKind reports whether err is tagged with kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
