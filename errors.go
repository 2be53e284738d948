package coral

import (
	"errors"
	"fmt"
	"time"
)

// ValidationError reports a malformed address, object id, or digest,
// or duplicate ids within one batch call. It is raised synchronously,
// before any network activity, and is never retried.
type ValidationError struct {
	Field string
	Value string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %v", e.Field, e.Value, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// IsValidation checks whether an error is a ValidationError.
func IsValidation(err error) (*ValidationError, bool) {
	var v *ValidationError
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}

// TransportError reports a network failure, a malformed response, or
// a backend-reported RPC/GraphQL error. The client propagates it
// unchanged; only the WaitForTransaction retry loop absorbs transient
// instances.
type TransportError struct {
	// Method is the logical method that failed.
	Method string
	// Code is the backend error code, 0 if the failure never reached
	// the backend.
	Code int
	// Message is the backend-reported message, if any.
	Message string
	Err     error
}

func (e *TransportError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: backend error %d: %s", e.Method, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %v", e.Method, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsTransport checks whether an error is a TransportError.
func IsTransport(err error) (*TransportError, bool) {
	var t *TransportError
	if errors.As(err, &t) {
		return t, true
	}
	return nil, false
}

// TimeoutError reports that WaitForTransaction's deadline elapsed
// before a successful lookup.
type TimeoutError struct {
	Digest  string
	Timeout time.Duration
	// LastErr is the lookup error observed on the final attempt.
	LastErr error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("transaction %s not found after %s: %v", e.Digest, e.Timeout, e.LastErr)
}

func (e *TimeoutError) Unwrap() error { return e.LastErr }

// IsTimeout checks whether an error is a TimeoutError.
func IsTimeout(err error) (*TimeoutError, bool) {
	var t *TimeoutError
	if errors.As(err, &t) {
		return t, true
	}
	return nil, false
}

// CancellationError reports that the caller's cancellation signal
// fired while WaitForTransaction was polling.
type CancellationError struct {
	Digest string
	Err    error // the context's error
}

func (e *CancellationError) Error() string {
	return fmt.Sprintf("wait for transaction %s cancelled: %v", e.Digest, e.Err)
}

func (e *CancellationError) Unwrap() error { return e.Err }

// IsCancellation checks whether an error is a CancellationError.
func IsCancellation(err error) (*CancellationError, bool) {
	var c *CancellationError
	if errors.As(err, &c) {
		return c, true
	}
	return nil, false
}
