package entity

import (
	"errors"
	"fmt"
)

// ErrorKind classifies an OperationError. The string value is what the
// dispatcher reports in the errorType field of a failed item.
type ErrorKind string

const (
	KindInvalidInput         ErrorKind = "InvalidInputError"
	KindNotFound             ErrorKind = "NotFoundError"
	KindTransport            ErrorKind = "TransportError"
	KindTimeout              ErrorKind = "TimeoutError"
	KindUnsupportedOperation ErrorKind = "UnsupportedOperationError"
)

// Sentinels for errors.Is. Any *OperationError of the same kind matches.
var (
	ErrInvalidInput         = &OperationError{Kind: KindInvalidInput}
	ErrNotFound             = &OperationError{Kind: KindNotFound}
	ErrTransport            = &OperationError{Kind: KindTransport}
	ErrTimeout              = &OperationError{Kind: KindTimeout}
	ErrUnsupportedOperation = &OperationError{Kind: KindUnsupportedOperation}

	// ErrInvalidAmount is returned by unit conversion when a decimal string
	// cannot be represented in base units.
	ErrInvalidAmount = errors.New("invalid amount")
)

// OperationError is the single error type surfaced by executors and the
// dispatcher.
type OperationError struct {
	Kind    ErrorKind
	Source  string // transport tag, e.g. "rpc", "beam-api"
	Status  int    // HTTP status for REST transport failures
	Message string
	Err     error
}

func (e *OperationError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	} else if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Source != "" {
		msg = fmt.Sprintf("[%s] %s", e.Source, msg)
	}
	if msg == "" {
		return string(e.Kind)
	}
	return msg
}

func (e *OperationError) Unwrap() error { return e.Err }

// Is matches on kind so callers can test errors.Is(err, ErrNotFound).
func (e *OperationError) Is(target error) bool {
	t, ok := target.(*OperationError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == "" && t.Err == nil
}

// KindOf returns the kind of the first OperationError in err's chain, or
// KindTransport for foreign errors.
func KindOf(err error) ErrorKind {
	var opErr *OperationError
	if errors.As(err, &opErr) {
		return opErr.Kind
	}
	return KindTransport
}

func NewInvalidInputError(format string, args ...any) error {
	return &OperationError{Kind: KindInvalidInput, Message: fmt.Sprintf(format, args...)}
}

// NewInvalidAmountError wraps ErrInvalidAmount so both errors.Is(err,
// ErrInvalidAmount) and errors.Is(err, ErrInvalidInput) hold.
func NewInvalidAmountError(format string, args ...any) error {
	return &OperationError{Kind: KindInvalidInput, Message: fmt.Sprintf(format, args...), Err: ErrInvalidAmount}
}

func NewNotFoundError(format string, args ...any) error {
	return &OperationError{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func NewTimeoutError(format string, args ...any) error {
	return &OperationError{Kind: KindTimeout, Message: fmt.Sprintf(format, args...)}
}

func NewUnsupportedOperationError(resource, operation string) error {
	return &OperationError{
		Kind:    KindUnsupportedOperation,
		Message: fmt.Sprintf("operation %q is not supported for resource %q", operation, resource),
	}
}

// NewTransportError normalizes a transport failure. Errors that are already
// OperationErrors pass through untouched so a NotFound from a client stays a
// NotFound.
func NewTransportError(source string, err error) error {
	if err == nil {
		return nil
	}
	var opErr *OperationError
	if errors.As(err, &opErr) {
		return err
	}
	return &OperationError{Kind: KindTransport, Source: source, Err: err}
}

// NewHTTPTransportError builds the normalized form of a REST {status, message}
// failure.
func NewHTTPTransportError(source string, status int, message string) error {
	return &OperationError{Kind: KindTransport, Source: source, Status: status, Message: fmt.Sprintf("status %d: %s", status, message)}
}
