// Package local provides an in-process Coral transport over an
// in-memory [Ledger].
//
// It serves the same logical methods as a remote backend with no
// wire serialization beyond the canonical result encoding, which
// makes it the reference backend for tests, the compliance suite,
// and offline development.
package local

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	coral "github.com/coralledger/coral-go"
	"github.com/coralledger/coral-go/types"
)

// Compile-time interface check.
var _ coral.Transport = (*Transport)(nil)

const defaultPageLimit = 50

// Transport serves client requests straight from a Ledger.
type Transport struct {
	ledger *Ledger
}

// New creates an in-process transport over the given ledger.
func New(l *Ledger) *Transport {
	return &Transport{ledger: l}
}

// Ledger returns the backing ledger, for seeding.
func (t *Transport) Ledger() *Ledger { return t.ledger }

// Request serves one logical request from the ledger and returns the
// canonical-shaped result.
func (t *Transport) Request(ctx context.Context, method string, params []any) (json.RawMessage, error) {
	out, err := t.dispatch(method, params)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(out)
	if err != nil {
		return nil, &coral.TransportError{Method: method, Err: fmt.Errorf("encode result: %w", err)}
	}
	return raw, nil
}

func (t *Transport) dispatch(method string, params []any) (any, error) {
	l := t.ledger
	switch method {
	case coral.MethodGetChainIdentifier:
		return l.chainID, nil
	case coral.MethodGetObject:
		return t.getObject(method, params)
	case coral.MethodMultiGetObjects:
		return t.multiGetObjects(method, params)
	case coral.MethodGetOwnedObjects:
		return t.getOwnedObjects(method, params)
	case coral.MethodGetCoins:
		return t.getCoins(method, params, true)
	case coral.MethodGetAllCoins:
		return t.getCoins(method, params, false)
	case coral.MethodGetBalance:
		return t.getBalance(method, params)
	case coral.MethodGetAllBalances:
		return t.getAllBalances(method, params)
	case coral.MethodGetCoinMetadata:
		return t.getCoinMetadata(method, params)
	case coral.MethodGetTotalSupply:
		return t.getTotalSupply(method, params)
	case coral.MethodGetCheckpoint:
		return t.getCheckpoint(method, params)
	case coral.MethodGetCheckpoints:
		return t.getCheckpoints(method, params)
	case coral.MethodGetLatestCheckpointSequence:
		return t.latestCheckpointSequence()
	case coral.MethodGetTotalTransactionBlocks:
		return t.totalTransactionBlocks()
	case coral.MethodGetTransactionBlock:
		return t.getTransactionBlock(method, params)
	case coral.MethodMultiGetTransactionBlocks:
		return t.multiGetTransactionBlocks(method, params)
	case coral.MethodQueryTransactionBlocks:
		return t.queryTransactionBlocks(method, params)
	case coral.MethodExecuteTransactionBlock:
		return t.executeTransactionBlock(method, params)
	case coral.MethodDryRunTransactionBlock:
		return t.dryRun()
	case coral.MethodDevInspectTransactionBlock:
		return t.devInspect()
	case coral.MethodGetProtocolConfig:
		return t.protocolConfig()
	case coral.MethodGetReferenceGasPrice:
		return l.referenceGas, nil
	case coral.MethodGetSystemStateV1:
		return t.systemStateV1()
	case coral.MethodGetSystemStateV2:
		return t.systemStateV2(method)
	case coral.MethodQueryEvents:
		return t.queryEvents(method, params)
	case coral.MethodGetDynamicFields:
		return &types.Page[types.DynamicFieldInfo]{Data: []types.DynamicFieldInfo{}}, nil
	case coral.MethodGetDynamicFieldObject:
		return types.ObjectResponse{Error: &types.ObjectResponseError{Code: "dynamicFieldNotFound"}}, nil
	default:
		return nil, &coral.TransportError{
			Method: method,
			Code:   -32601,
			Err:    fmt.Errorf("method %s not found", method),
		}
	}
}

// Subscribe registers an in-process push subscription on the ledger.
// Event methods receive events, transaction methods receive effects.
func (t *Transport) Subscribe(ctx context.Context, method, unsubscribeMethod string, params []any, onMessage func(json.RawMessage)) (coral.Unsubscribe, error) {
	wantEvents := method == coral.MethodSubscribeEvent
	id := t.ledger.subscribe(func(msg any) {
		switch msg.(type) {
		case types.Event:
			if !wantEvents {
				return
			}
		case types.TransactionEffects:
			if wantEvents {
				return
			}
		default:
			return
		}
		raw, err := json.Marshal(msg)
		if err != nil {
			return
		}
		onMessage(raw)
	})
	return func() error {
		t.ledger.unsubscribe(id)
		return nil
	}, nil
}

// --- Param helpers ---

func stringArg(method string, params []any, i int) (string, error) {
	if i < len(params) {
		switch v := params[i].(type) {
		case string:
			return v, nil
		case fmt.Stringer:
			return v.String(), nil
		}
	}
	return "", &coral.TransportError{Method: method, Code: -32602, Err: fmt.Errorf("missing string argument %d", i)}
}

func optStringArg(params []any, i int) *string {
	if i >= len(params) || params[i] == nil {
		return nil
	}
	switch v := params[i].(type) {
	case *string:
		return v
	case string:
		return &v
	case fmt.Stringer:
		s := v.String()
		return &s
	}
	return nil
}

func optIntArg(params []any, i int) *int {
	if i >= len(params) || params[i] == nil {
		return nil
	}
	switch v := params[i].(type) {
	case *int:
		return v
	case int:
		return &v
	}
	return nil
}

func boolArg(params []any, i int) bool {
	if i >= len(params) {
		return false
	}
	v, _ := params[i].(bool)
	return v
}

func stringList(method string, params []any, i int) ([]string, error) {
	if i < len(params) {
		switch v := params[i].(type) {
		case []string:
			return v, nil
		case []types.ObjectID:
			out := make([]string, len(v))
			for j, id := range v {
				out[j] = string(id)
			}
			return out, nil
		case []types.Digest:
			out := make([]string, len(v))
			for j, d := range v {
				out[j] = string(d)
			}
			return out, nil
		}
	}
	return nil, &coral.TransportError{Method: method, Code: -32602, Err: fmt.Errorf("missing list argument %d", i)}
}

// paginate slices items by cursor+limit. The cursor is the index of
// the last item of the previous page; descending traversals walk a
// reversed copy with the same cursor discipline.
func paginate[T any](items []T, cursor *string, limit *int, descending bool) *types.Page[T] {
	ordered := items
	if descending {
		ordered = make([]T, len(items))
		for i, it := range items {
			ordered[len(items)-1-i] = it
		}
	}
	start := 0
	if cursor != nil {
		if idx, err := strconv.Atoi(*cursor); err == nil {
			start = idx + 1
		}
	}
	if start > len(ordered) {
		start = len(ordered)
	}
	n := defaultPageLimit
	if limit != nil && *limit > 0 {
		n = *limit
	}
	end := start + n
	if end > len(ordered) {
		end = len(ordered)
	}
	page := &types.Page[T]{
		Data:        append([]T(nil), ordered[start:end]...),
		HasNextPage: end < len(ordered),
	}
	if end > start {
		c := strconv.Itoa(end - 1)
		page.NextCursor = &c
	}
	return page
}
