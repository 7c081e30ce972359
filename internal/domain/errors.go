// Package domain contains the Lexoffice resource records, the payload
// validation rules and the error taxonomy shared by every operation.
// Domain errors describe what went wrong in business terms; the HTTP status
// and remote detail text are carried alongside so callers can log the exact
// cause, but nothing in this package speaks HTTP.
package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a failed operation.
type Kind int

// Error kinds. KindUnknown is never produced for a real failure.
const (
	KindUnknown Kind = iota
	KindInvalidArgument
	KindInvalidRequest
	KindUnauthenticated
	KindAccountRestricted
	KindForbidden
	KindNotFound
	KindMethodNotAllowed
	KindNotAcceptable
	KindConflict
	KindUnsupportedMediaType
	KindRateLimited
	KindTransient
	KindCancelled
	KindUnexpected
)

// Sentinel errors for use with errors.Is(), one per kind.
var (
	// ErrInvalidArgument indicates a payload or parameter failed local validation.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidRequest indicates the remote service rejected the request as malformed.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrUnauthenticated indicates the API key was missing or rejected.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrAccountRestricted indicates the account's plan does not allow the operation.
	ErrAccountRestricted = errors.New("account restricted")

	// ErrForbidden indicates the API key lacks the required scope.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("not found")

	// ErrMethodNotAllowed indicates the endpoint does not support the method.
	ErrMethodNotAllowed = errors.New("method not allowed")

	// ErrNotAcceptable indicates the requested representation is unavailable.
	ErrNotAcceptable = errors.New("not acceptable")

	// ErrConflict indicates an optimistic-lock version clash that could not be resolved.
	ErrConflict = errors.New("conflict")

	// ErrUnsupportedMediaType indicates the payload's content type is not accepted.
	ErrUnsupportedMediaType = errors.New("unsupported media type")

	// ErrRateLimited indicates the remote service throttled the request.
	ErrRateLimited = errors.New("rate limited")

	// ErrTransient indicates a server or transport failure that persisted through retries.
	ErrTransient = errors.New("transient failure")

	// ErrCancelled indicates the caller cancelled the operation.
	ErrCancelled = errors.New("cancelled")

	// ErrUnexpected indicates a response outside the known taxonomy.
	ErrUnexpected = errors.New("unexpected response")
)

var kindInfo = map[Kind]struct {
	name     string
	sentinel error
}{
	KindInvalidArgument:      {"InvalidArgument", ErrInvalidArgument},
	KindInvalidRequest:       {"InvalidRequest", ErrInvalidRequest},
	KindUnauthenticated:      {"Unauthenticated", ErrUnauthenticated},
	KindAccountRestricted:    {"AccountRestricted", ErrAccountRestricted},
	KindForbidden:            {"Forbidden", ErrForbidden},
	KindNotFound:             {"NotFound", ErrNotFound},
	KindMethodNotAllowed:     {"MethodNotAllowed", ErrMethodNotAllowed},
	KindNotAcceptable:        {"NotAcceptable", ErrNotAcceptable},
	KindConflict:             {"Conflict", ErrConflict},
	KindUnsupportedMediaType: {"UnsupportedMediaType", ErrUnsupportedMediaType},
	KindRateLimited:          {"RateLimited", ErrRateLimited},
	KindTransient:            {"Transient", ErrTransient},
	KindCancelled:            {"Cancelled", ErrCancelled},
	KindUnexpected:           {"Unexpected", ErrUnexpected},
}

// String returns the kind's name.
func (k Kind) String() string {
	if info, ok := kindInfo[k]; ok {
		return info.name
	}

	return "Unknown"
}

// Sentinel returns the errors.Is() target for the kind, or nil for KindUnknown.
func (k Kind) Sentinel() error {
	return kindInfo[k].sentinel
}

// Error is the single failure type returned by gateway operations.
// HTTPStatus is zero for failures that never reached the network.
type Error struct {
	Kind       Kind
	HTTPStatus int

	// Detail is the remote service's message, verbatim, or the local rule text.
	Detail string

	// Field names the offending payload field for InvalidArgument.
	Field string

	// Resource identifies the target, e.g. "quotation 6f0c…".
	Resource string

	// Op is the gateway operation that failed.
	Op string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder

	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}

	b.WriteString(e.Kind.String())

	if e.HTTPStatus != 0 {
		fmt.Fprintf(&b, " (HTTP %d)", e.HTTPStatus)
	}

	if e.Resource != "" {
		b.WriteString(" for ")
		b.WriteString(e.Resource)
	}

	if e.Field != "" {
		b.WriteString(": ")
		b.WriteString(e.Field)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Err != nil && e.Detail == "" {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}

	return b.String()
}

// Is matches the sentinel for the error's kind.
func (e *Error) Is(target error) bool {
	sentinel := e.Kind.Sentinel()
	return sentinel != nil && target == sentinel
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewValidationError creates an InvalidArgument error for a payload field.
func NewValidationError(field, message string) error {
	return &Error{Kind: KindInvalidArgument, Field: field, Detail: message}
}

// NewCancelledError wraps a context error.
func NewCancelledError(op string, cause error) error {
	return &Error{Kind: KindCancelled, Op: op, Detail: "operation cancelled", Err: cause}
}

// KindOf returns the kind of err, or KindUnknown if err is not a *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return KindUnknown
}

// WithOp stamps the operation name on a *Error that does not yet carry one.
// Other errors are returned unchanged.
func WithOp(err error, op string) error {
	var e *Error
	if errors.As(err, &e) && e.Op == "" {
		e.Op = op
	}

	return err
}

// IsNotFound checks if an error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflict checks if an error is a conflict error.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

// IsValidation checks if an error is a local validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}

// IsTransient checks if an error is a transient failure that outlived retries.
func IsTransient(err error) bool {
	return errors.Is(err, ErrTransient)
}

// IsCancelled checks if an error is a cancellation.
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled)
}
