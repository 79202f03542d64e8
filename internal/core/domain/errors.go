package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotAuthenticated     = errors.New("not authenticated")
	ErrForbidden            = errors.New("access forbidden")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrNotFound             = errors.New("not found")
	ErrLinkInFlight         = errors.New("a link attempt is already in progress")
	ErrAlreadyLinked        = errors.New("till is already linked")
	ErrNotLinked            = errors.New("till is not linked")
	ErrConfirmationDeclined = errors.New("action cancelled")
)

// FailureKind classifies why a backend interaction did not succeed.
type FailureKind string

const (
	FailureTransport  FailureKind = "transport"  // no response
	FailureStatus     FailureKind = "status"     // non-success HTTP status
	FailurePayload    FailureKind = "payload"    // unexpected body shape
	FailureValidation FailureKind = "validation" // rejected before any request
)

// Failure is the single error type surfaced to screens. Message is safe to
// show to a user; Err keeps the underlying cause for errors.Is/As.
type Failure struct {
	Kind    FailureKind
	Status  int
	Message string
	Err     error
}

func (f *Failure) Error() string {
	switch {
	case f.Status != 0 && f.Message != "":
		return fmt.Sprintf("%s failure (%d): %s", f.Kind, f.Status, f.Message)
	case f.Status != 0:
		return fmt.Sprintf("%s failure (%d)", f.Kind, f.Status)
	case f.Message != "":
		return fmt.Sprintf("%s failure: %s", f.Kind, f.Message)
	case f.Err != nil:
		return fmt.Sprintf("%s failure: %v", f.Kind, f.Err)
	}
	return string(f.Kind) + " failure"
}

func (f *Failure) Unwrap() error { return f.Err }

// ValidationFailure builds a Failure for input rejected before the network.
func ValidationFailure(msg string) *Failure {
	return &Failure{Kind: FailureValidation, Message: msg}
}

// IsFailureKind reports whether err is a Failure of the given kind.
func IsFailureKind(err error, kind FailureKind) bool {
	var f *Failure
	return errors.As(err, &f) && f.Kind == kind
}

// UserMessage turns any error into a message fit for display. The failure's
// own message wins; otherwise fallback is used.
func UserMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var f *Failure
	if errors.As(err, &f) && f.Message != "" {
		return f.Message
	}
	return fallback
}
