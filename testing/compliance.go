package coraltest

import (
	"bytes"
	"context"
	"strconv"
	"testing"

	coral "github.com/coralledger/coral-go"
	"github.com/coralledger/coral-go/types"
)

// RunTransportCompliance runs a standard conformance suite against a
// transport. The factory must return a fresh transport for each
// subtest, backed by a fixed dataset holding at least three
// checkpoints.
//
// The suite checks the contracts every transport owes the facade:
// stable pagination, the checkpoint digest chain, canonical result
// shapes, and typed errors.
func RunTransportCompliance(t *testing.T, factory func() coral.Transport) {
	t.Helper()
	ctx := context.Background()

	t.Run("request_is_idempotent", func(t *testing.T) {
		tr := factory()
		c := coral.NewClient(tr)
		a, err := c.GetCheckpoint(ctx, "0")
		if err != nil {
			t.Fatalf("GetCheckpoint failed: %v", err)
		}
		b, err := c.GetCheckpoint(ctx, "0")
		if err != nil {
			t.Fatalf("GetCheckpoint (repeat) failed: %v", err)
		}
		if a.Digest != b.Digest || a.SequenceNumber != b.SequenceNumber {
			t.Errorf("same request produced different results: %+v vs %+v", a, b)
		}
	})

	t.Run("pagination_round_trip", func(t *testing.T) {
		tr := factory()
		c := coral.NewClient(tr)

		limit := 2
		seen := make(map[types.Digest]bool)
		var order []string
		var cursor *types.Cursor
		for {
			page, err := c.GetCheckpoints(ctx, cursor, &limit, false)
			if err != nil {
				t.Fatalf("GetCheckpoints failed: %v", err)
			}
			for _, cp := range page.Data {
				if seen[cp.Digest] {
					t.Fatalf("checkpoint %s visited twice", cp.Digest)
				}
				seen[cp.Digest] = true
				order = append(order, cp.SequenceNumber)
			}
			if !page.HasNextPage {
				break
			}
			if page.NextCursor == nil {
				t.Fatal("HasNextPage set but NextCursor missing")
			}
			cursor = page.NextCursor
		}
		if len(order) < 3 {
			t.Fatalf("expected at least 3 checkpoints, visited %d", len(order))
		}
		for i := 1; i < len(order); i++ {
			prev, _ := strconv.Atoi(order[i-1])
			cur, _ := strconv.Atoi(order[i])
			if cur <= prev {
				t.Errorf("sequence numbers not increasing: %s then %s", order[i-1], order[i])
			}
		}
	})

	t.Run("checkpoint_chain", func(t *testing.T) {
		tr := factory()
		c := coral.NewClient(tr)

		limit := 50
		page, err := c.GetCheckpoints(ctx, nil, &limit, false)
		if err != nil {
			t.Fatalf("GetCheckpoints failed: %v", err)
		}
		if len(page.Data) < 2 {
			t.Fatalf("need at least 2 checkpoints, got %d", len(page.Data))
		}
		if page.Data[0].PreviousDigest != nil {
			t.Error("genesis checkpoint must not carry a previous digest")
		}
		for i := 1; i < len(page.Data); i++ {
			cp := page.Data[i]
			if cp.PreviousDigest == nil {
				t.Errorf("checkpoint %s: missing previous digest", cp.SequenceNumber)
				continue
			}
			if *cp.PreviousDigest != page.Data[i-1].Digest {
				t.Errorf("checkpoint %s: previous digest %s does not match predecessor %s",
					cp.SequenceNumber, *cp.PreviousDigest, page.Data[i-1].Digest)
			}
		}
	})

	t.Run("raw_results_stable", func(t *testing.T) {
		tr := factory()
		a, err := tr.Request(ctx, coral.MethodGetCheckpoints, []any{nil, nil, false})
		if err != nil {
			t.Fatalf("Request failed: %v", err)
		}
		b, err := tr.Request(ctx, coral.MethodGetCheckpoints, []any{nil, nil, false})
		if err != nil {
			t.Fatalf("Request (repeat) failed: %v", err)
		}
		if !bytes.Equal(a, b) {
			t.Error("identical requests produced different raw results")
		}
	})

	t.Run("unknown_method_is_transport_error", func(t *testing.T) {
		tr := factory()
		_, err := tr.Request(ctx, "coral_noSuchMethod", nil)
		if err == nil {
			t.Fatal("expected an error for an unknown method")
		}
		if _, ok := coral.IsTransport(err); !ok {
			t.Errorf("expected a TransportError, got %T: %v", err, err)
		}
	})
}
