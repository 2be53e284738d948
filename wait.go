package coral

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/coralledger/coral-go/types"
)

// Defaults for WaitForTransaction.
const (
	DefaultWaitTimeout      = 60 * time.Second
	DefaultWaitPollInterval = 2 * time.Second
)

// WaitOptions tunes the WaitForTransaction polling loop. Zero values
// take the package defaults.
type WaitOptions struct {
	// Timeout bounds the whole wait.
	Timeout time.Duration
	// PollInterval is the sleep between lookup attempts.
	PollInterval time.Duration
	// RequestOptions shapes the returned transaction block.
	RequestOptions *types.TransactionBlockOptions
}

func (o *WaitOptions) withDefaults() WaitOptions {
	out := WaitOptions{
		Timeout:      DefaultWaitTimeout,
		PollInterval: DefaultWaitPollInterval,
	}
	if o == nil {
		return out
	}
	if o.Timeout > 0 {
		out.Timeout = o.Timeout
	}
	if o.PollInterval > 0 {
		out.PollInterval = o.PollInterval
	}
	out.RequestOptions = o.RequestOptions
	return out
}

// WaitForTransaction polls GetTransactionBlock until the transaction
// is visible, the timeout elapses, or ctx is cancelled.
//
// Lookup failures inside the loop are absorbed; the error of the
// final attempt is carried inside the TimeoutError when the deadline
// fires. Cancellation is checked before every lookup and before every
// sleep, maps to *CancellationError, and leaves no timer running.
func (c *Client) WaitForTransaction(ctx context.Context, digest string, opts *WaitOptions) (*types.TransactionBlock, error) {
	d, err := validDigest("transaction digest", digest)
	if err != nil {
		return nil, err
	}
	o := opts.withDefaults()

	deadline := time.NewTimer(o.Timeout)
	defer deadline.Stop()

	var lastErr error
	for attempt := 0; ; attempt++ {
		select {
		case <-ctx.Done():
			return nil, &CancellationError{Digest: string(d), Err: ctx.Err()}
		case <-deadline.C:
			return nil, &TimeoutError{Digest: string(d), Timeout: o.Timeout, LastErr: lastErr}
		default:
		}

		tb, err := c.GetTransactionBlock(ctx, string(d), o.RequestOptions)
		if err == nil {
			return tb, nil
		}
		if _, ok := IsValidation(err); ok {
			// Not transient; retrying cannot help.
			return nil, err
		}
		lastErr = err
		log.Ctx(ctx).Debug().
			Err(err).
			Str("digest", string(d)).
			Int("attempt", attempt+1).
			Msg("transaction not yet visible, retrying")

		sleep := time.NewTimer(o.PollInterval)
		select {
		case <-ctx.Done():
			sleep.Stop()
			return nil, &CancellationError{Digest: string(d), Err: ctx.Err()}
		case <-deadline.C:
			sleep.Stop()
			return nil, &TimeoutError{Digest: string(d), Timeout: o.Timeout, LastErr: lastErr}
		case <-sleep.C:
		}
	}
}
