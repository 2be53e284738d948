// Package coraltest provides test utilities for Coral client
// development: a configurable mock transport, a deterministic test
// signer, and a transport compliance suite.
package coraltest

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"

	coral "github.com/coralledger/coral-go"
)

// Compile-time interface check.
var _ coral.Transport = (*MockTransport)(nil)

// MockTransport is a configurable mock for facade testing. Both
// methods are configurable via function fields; unconfigured methods
// fail, so a test only exercises what it scripted.
type MockTransport struct {
	// RequestFn handles Request calls. If nil, Request returns a
	// TransportError.
	RequestFn func(ctx context.Context, method string, params []any) (json.RawMessage, error)

	// SubscribeFn handles Subscribe calls. If nil, Subscribe returns
	// a TransportError.
	SubscribeFn func(ctx context.Context, method, unsubscribeMethod string, params []any, onMessage func(json.RawMessage)) (coral.Unsubscribe, error)

	// Call counters.
	RequestCalls   atomic.Int64
	SubscribeCalls atomic.Int64
}

func (m *MockTransport) Request(ctx context.Context, method string, params []any) (json.RawMessage, error) {
	m.RequestCalls.Add(1)
	if m.RequestFn != nil {
		return m.RequestFn(ctx, method, params)
	}
	return nil, &coral.TransportError{Method: method, Err: fmt.Errorf("coraltest: no RequestFn configured")}
}

func (m *MockTransport) Subscribe(ctx context.Context, method, unsubscribeMethod string, params []any, onMessage func(json.RawMessage)) (coral.Unsubscribe, error) {
	m.SubscribeCalls.Add(1)
	if m.SubscribeFn != nil {
		return m.SubscribeFn(ctx, method, unsubscribeMethod, params, onMessage)
	}
	return nil, &coral.TransportError{Method: method, Err: fmt.Errorf("coraltest: no SubscribeFn configured")}
}

// RespondWith builds a RequestFn that serves canned results keyed by
// method name. Methods without an entry fail.
func RespondWith(results map[string]any) func(ctx context.Context, method string, params []any) (json.RawMessage, error) {
	return func(_ context.Context, method string, _ []any) (json.RawMessage, error) {
		res, ok := results[method]
		if !ok {
			return nil, &coral.TransportError{Method: method, Err: fmt.Errorf("coraltest: no canned result for %s", method)}
		}
		raw, err := json.Marshal(res)
		if err != nil {
			return nil, &coral.TransportError{Method: method, Err: err}
		}
		return raw, nil
	}
}
