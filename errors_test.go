package coral

import (
	"fmt"
	"testing"
	"time"
)

func TestValidationError(t *testing.T) {
	inner := fmt.Errorf("hex string without 0x prefix")
	err := &ValidationError{Field: "owner address", Value: "abcd", Err: inner}

	expected := `invalid owner address "abcd": hex string without 0x prefix`
	if err.Error() != expected {
		t.Errorf("expected %q, got %q", expected, err.Error())
	}

	// Direct.
	v, ok := IsValidation(err)
	if !ok {
		t.Fatal("expected IsValidation to return true")
	}
	if v.Field != "owner address" {
		t.Errorf("unexpected field: %s", v.Field)
	}

	// Wrapped.
	wrapped := fmt.Errorf("query failed: %w", err)
	if _, ok := IsValidation(wrapped); !ok {
		t.Fatal("expected IsValidation to unwrap wrapped error")
	}

	// Non-validation error.
	if _, ok := IsValidation(fmt.Errorf("just a regular error")); ok {
		t.Fatal("expected IsValidation to return false for other errors")
	}

	// Nil.
	if _, ok := IsValidation(nil); ok {
		t.Fatal("expected IsValidation to return false for nil")
	}
}

func TestTransportError(t *testing.T) {
	backend := &TransportError{Method: "coralx_getBalance", Code: -32602, Message: "invalid params"}
	expected := "coralx_getBalance: backend error -32602: invalid params"
	if backend.Error() != expected {
		t.Errorf("expected %q, got %q", expected, backend.Error())
	}

	network := &TransportError{Method: "coral_getObject", Err: fmt.Errorf("connection refused")}
	expected = "coral_getObject: connection refused"
	if network.Error() != expected {
		t.Errorf("expected %q, got %q", expected, network.Error())
	}

	wrapped := fmt.Errorf("lookup: %w", backend)
	te, ok := IsTransport(wrapped)
	if !ok {
		t.Fatal("expected IsTransport to unwrap wrapped error")
	}
	if te.Code != -32602 {
		t.Errorf("expected code -32602, got %d", te.Code)
	}

	if _, ok := IsTransport(fmt.Errorf("nope")); ok {
		t.Fatal("expected IsTransport to return false for other errors")
	}
}

func TestTimeoutError(t *testing.T) {
	last := fmt.Errorf("not found")
	err := &TimeoutError{Digest: "9WzSGybbxn", Timeout: 30 * time.Second, LastErr: last}

	expected := "transaction 9WzSGybbxn not found after 30s: not found"
	if err.Error() != expected {
		t.Errorf("expected %q, got %q", expected, err.Error())
	}

	te, ok := IsTimeout(fmt.Errorf("wait: %w", err))
	if !ok {
		t.Fatal("expected IsTimeout to unwrap wrapped error")
	}
	if te.LastErr != last {
		t.Error("expected LastErr to be carried through")
	}

	// A timeout is not a cancellation and vice versa.
	if _, ok := IsCancellation(err); ok {
		t.Fatal("timeout must not satisfy IsCancellation")
	}
}

func TestCancellationError(t *testing.T) {
	err := &CancellationError{Digest: "9WzSGybbxn", Err: fmt.Errorf("context canceled")}

	c, ok := IsCancellation(err)
	if !ok {
		t.Fatal("expected IsCancellation to return true")
	}
	if c.Digest != "9WzSGybbxn" {
		t.Errorf("unexpected digest: %s", c.Digest)
	}

	if _, ok := IsTimeout(err); ok {
		t.Fatal("cancellation must not satisfy IsTimeout")
	}
}
