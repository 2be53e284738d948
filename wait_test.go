package coral_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coral "github.com/coralledger/coral-go"
	coraltest "github.com/coralledger/coral-go/testing"
	"github.com/coralledger/coral-go/types"
)

func notFound(method string) error {
	return &coral.TransportError{Method: method, Code: -32602, Message: "transaction not found"}
}

func TestWaitForTransactionSucceedsAfterRetries(t *testing.T) {
	var attempts int
	mock := &coraltest.MockTransport{
		RequestFn: func(_ context.Context, method string, _ []any) (json.RawMessage, error) {
			attempts++
			if attempts < 3 {
				return nil, notFound(method)
			}
			return json.Marshal(types.TransactionBlock{Digest: types.Digest(testDigest)})
		},
	}
	c := coral.NewClient(mock)

	tb, err := c.WaitForTransaction(context.Background(), testDigest, &coral.WaitOptions{
		Timeout:      2 * time.Second,
		PollInterval: 5 * time.Millisecond,
	})
	require.NoError(t, err)
	assert.Equal(t, types.Digest(testDigest), tb.Digest)
	assert.Equal(t, 3, attempts)
}

func TestWaitForTransactionTimesOut(t *testing.T) {
	mock := &coraltest.MockTransport{
		RequestFn: func(_ context.Context, method string, _ []any) (json.RawMessage, error) {
			return nil, notFound(method)
		},
	}
	c := coral.NewClient(mock)

	start := time.Now()
	_, err := c.WaitForTransaction(context.Background(), testDigest, &coral.WaitOptions{
		Timeout:      80 * time.Millisecond,
		PollInterval: 10 * time.Millisecond,
	})
	elapsed := time.Since(start)

	require.Error(t, err)
	te, ok := coral.IsTimeout(err)
	require.True(t, ok, "expected a TimeoutError, got %T", err)
	assert.Equal(t, testDigest, te.Digest)

	// The final lookup failure rides along for diagnosis.
	lastTe, ok := coral.IsTransport(te.LastErr)
	require.True(t, ok)
	assert.Equal(t, "transaction not found", lastTe.Message)

	assert.GreaterOrEqual(t, elapsed, 80*time.Millisecond)
	assert.Less(t, elapsed, 2*time.Second)
}

func TestWaitForTransactionCancellation(t *testing.T) {
	mock := &coraltest.MockTransport{
		RequestFn: func(_ context.Context, method string, _ []any) (json.RawMessage, error) {
			return nil, notFound(method)
		},
	}
	c := coral.NewClient(mock)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	_, err := c.WaitForTransaction(ctx, testDigest, &coral.WaitOptions{
		Timeout:      10 * time.Second,
		PollInterval: 5 * time.Millisecond,
	})
	elapsed := time.Since(start)

	require.Error(t, err)
	ce, ok := coral.IsCancellation(err)
	require.True(t, ok, "expected a CancellationError, got %T", err)
	assert.ErrorIs(t, ce.Err, context.Canceled)

	// Cancellation returns promptly rather than riding out the timeout.
	assert.Less(t, elapsed, time.Second)
}

func TestWaitForTransactionStopsOnValidationError(t *testing.T) {
	mock := &coraltest.MockTransport{}
	c := coral.NewClient(mock)

	_, err := c.WaitForTransaction(context.Background(), "???", nil)
	require.Error(t, err)
	_, ok := coral.IsValidation(err)
	require.True(t, ok, "expected a ValidationError, got %T", err)
	assert.Zero(t, mock.RequestCalls.Load())
}

func TestWaitForTransactionImmediateHit(t *testing.T) {
	mock := &coraltest.MockTransport{
		RequestFn: coraltest.RespondWith(map[string]any{
			coral.MethodGetTransactionBlock: types.TransactionBlock{Digest: types.Digest(testDigest)},
		}),
	}
	c := coral.NewClient(mock)

	tb, err := c.WaitForTransaction(context.Background(), testDigest, nil)
	require.NoError(t, err)
	require.NotNil(t, tb)
	assert.Equal(t, int64(1), mock.RequestCalls.Load())
}

func TestWaitOptionsZeroValuesTakeDefaults(t *testing.T) {
	// An explicit empty options struct behaves like nil options: the
	// first successful lookup returns without sleeping.
	mock := &coraltest.MockTransport{
		RequestFn: coraltest.RespondWith(map[string]any{
			coral.MethodGetTransactionBlock: types.TransactionBlock{Digest: types.Digest(testDigest)},
		}),
	}
	c := coral.NewClient(mock)

	_, err := c.WaitForTransaction(context.Background(), testDigest, &coral.WaitOptions{})
	require.NoError(t, err)
}
