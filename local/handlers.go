package local

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	coral "github.com/coralledger/coral-go"
	"github.com/coralledger/coral-go/types"
)

func (t *Transport) getObject(method string, params []any) (any, error) {
	id, err := stringArg(method, params, 0)
	if err != nil {
		return nil, err
	}
	l := t.ledger
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.objectResponseLocked(types.ObjectID(id)), nil
}

func (t *Transport) multiGetObjects(method string, params []any) (any, error) {
	ids, err := stringList(method, params, 0)
	if err != nil {
		return nil, err
	}
	l := t.ledger
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]types.ObjectResponse, len(ids))
	for i, id := range ids {
		out[i] = l.objectResponseLocked(types.ObjectID(id))
	}
	return out, nil
}

func (l *Ledger) objectResponseLocked(id types.ObjectID) types.ObjectResponse {
	if obj, ok := l.objects[id]; ok {
		cp := *obj
		return types.ObjectResponse{Data: &cp}
	}
	oid := id
	return types.ObjectResponse{Error: &types.ObjectResponseError{Code: "notExists", ObjectID: &oid}}
}

func (t *Transport) getOwnedObjects(method string, params []any) (any, error) {
	owner, err := stringArg(method, params, 0)
	if err != nil {
		return nil, err
	}
	l := t.ledger
	l.mu.RLock()
	defer l.mu.RUnlock()
	var out []types.ObjectResponse
	for _, id := range l.ownedBy[types.Address(owner)] {
		out = append(out, l.objectResponseLocked(id))
	}
	return paginate(out, optStringArg(params, 2), optIntArg(params, 3), false), nil
}

func (t *Transport) getCoins(method string, params []any, typed bool) (any, error) {
	owner, err := stringArg(method, params, 0)
	if err != nil {
		return nil, err
	}
	cursorIdx := 1
	coinType := GasCoinType
	if typed {
		if ct := optStringArg(params, 1); ct != nil {
			coinType = *ct
		}
		cursorIdx = 2
	}
	l := t.ledger
	l.mu.RLock()
	var out []types.Coin
	for _, c := range l.coins[types.Address(owner)] {
		if typed && c.CoinType != coinType {
			continue
		}
		out = append(out, c)
	}
	l.mu.RUnlock()
	return paginate(out, optStringArg(params, cursorIdx), optIntArg(params, cursorIdx+1), false), nil
}

func (t *Transport) getBalance(method string, params []any) (any, error) {
	owner, err := stringArg(method, params, 0)
	if err != nil {
		return nil, err
	}
	coinType := GasCoinType
	if ct := optStringArg(params, 1); ct != nil {
		coinType = *ct
	}
	l := t.ledger
	l.mu.RLock()
	defer l.mu.RUnlock()
	bal := types.CoinBalance{CoinType: coinType, TotalBalance: "0"}
	var total uint64
	for _, c := range l.coins[types.Address(owner)] {
		if c.CoinType != coinType {
			continue
		}
		v, _ := strconv.ParseUint(c.Balance, 10, 64)
		total += v
		bal.CoinObjectCount++
	}
	bal.TotalBalance = strconv.FormatUint(total, 10)
	return bal, nil
}

func (t *Transport) getAllBalances(method string, params []any) (any, error) {
	owner, err := stringArg(method, params, 0)
	if err != nil {
		return nil, err
	}
	l := t.ledger
	l.mu.RLock()
	defer l.mu.RUnlock()
	totals := make(map[string]*types.CoinBalance)
	var order []string
	for _, c := range l.coins[types.Address(owner)] {
		b := totals[c.CoinType]
		if b == nil {
			b = &types.CoinBalance{CoinType: c.CoinType, TotalBalance: "0"}
			totals[c.CoinType] = b
			order = append(order, c.CoinType)
		}
		prev, _ := strconv.ParseUint(b.TotalBalance, 10, 64)
		v, _ := strconv.ParseUint(c.Balance, 10, 64)
		b.TotalBalance = strconv.FormatUint(prev+v, 10)
		b.CoinObjectCount++
	}
	out := make([]types.CoinBalance, len(order))
	for i, ct := range order {
		out[i] = *totals[ct]
	}
	return out, nil
}

func (t *Transport) getCoinMetadata(method string, params []any) (any, error) {
	coinType, err := stringArg(method, params, 0)
	if err != nil {
		return nil, err
	}
	if coinType != GasCoinType {
		return (*types.CoinMetadata)(nil), nil
	}
	return &types.CoinMetadata{
		Decimals:    9,
		Name:        "Coral",
		Symbol:      "CORAL",
		Description: "The Coral gas token",
	}, nil
}

func (t *Transport) getTotalSupply(method string, params []any) (any, error) {
	coinType, err := stringArg(method, params, 0)
	if err != nil {
		return nil, err
	}
	l := t.ledger
	l.mu.RLock()
	defer l.mu.RUnlock()
	var total uint64
	for _, coins := range l.coins {
		for _, c := range coins {
			if c.CoinType != coinType {
				continue
			}
			v, _ := strconv.ParseUint(c.Balance, 10, 64)
			total += v
		}
	}
	return types.Supply{Value: strconv.FormatUint(total, 10)}, nil
}

func (t *Transport) getCheckpoint(method string, params []any) (any, error) {
	id, err := stringArg(method, params, 0)
	if err != nil {
		return nil, err
	}
	l := t.ledger
	l.mu.RLock()
	defer l.mu.RUnlock()
	if seq, err := strconv.Atoi(id); err == nil {
		if seq >= 0 && seq < len(l.checkpoints) {
			return l.checkpoints[seq], nil
		}
	} else {
		for _, cp := range l.checkpoints {
			if string(cp.Digest) == id {
				return cp, nil
			}
		}
	}
	return nil, &coral.TransportError{Method: method, Code: -32602, Err: fmt.Errorf("checkpoint %s not found", id)}
}

func (t *Transport) getCheckpoints(method string, params []any) (any, error) {
	l := t.ledger
	l.mu.RLock()
	cps := append([]types.Checkpoint(nil), l.checkpoints...)
	l.mu.RUnlock()
	return paginate(cps, optStringArg(params, 0), optIntArg(params, 1), boolArg(params, 2)), nil
}

func (t *Transport) latestCheckpointSequence() (any, error) {
	l := t.ledger
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.checkpoints[len(l.checkpoints)-1].SequenceNumber, nil
}

func (t *Transport) totalTransactionBlocks() (any, error) {
	l := t.ledger
	l.mu.RLock()
	defer l.mu.RUnlock()
	return strconv.Itoa(len(l.txOrder)), nil
}

func (t *Transport) getTransactionBlock(method string, params []any) (any, error) {
	digest, err := stringArg(method, params, 0)
	if err != nil {
		return nil, err
	}
	l := t.ledger
	l.mu.RLock()
	defer l.mu.RUnlock()
	tb, ok := l.txs[types.Digest(digest)]
	if !ok {
		return nil, &coral.TransportError{Method: method, Code: -32602, Err: fmt.Errorf("transaction %s not found", digest)}
	}
	cp := *tb
	return cp, nil
}

func (t *Transport) multiGetTransactionBlocks(method string, params []any) (any, error) {
	digests, err := stringList(method, params, 0)
	if err != nil {
		return nil, err
	}
	l := t.ledger
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]types.TransactionBlock, 0, len(digests))
	for _, d := range digests {
		if tb, ok := l.txs[types.Digest(d)]; ok {
			out = append(out, *tb)
		} else {
			out = append(out, types.TransactionBlock{
				Digest: types.Digest(d),
				Errors: []string{"transaction not found"},
			})
		}
	}
	return out, nil
}

func (t *Transport) queryTransactionBlocks(method string, params []any) (any, error) {
	match, err := t.transactionFilterFunc(method, params)
	if err != nil {
		return nil, err
	}
	l := t.ledger
	l.mu.RLock()
	out := make([]types.TransactionBlock, 0, len(l.txOrder))
	for _, d := range l.txOrder {
		tb := l.txs[d]
		if !match(d, tb) {
			continue
		}
		out = append(out, *tb)
	}
	l.mu.RUnlock()
	return paginate(out, optStringArg(params, 1), optIntArg(params, 2), boolArg(params, 3)), nil
}

// transactionFilterFunc compiles the filter document of a transaction
// query. The ledger honors FromAddress and Checkpoint; any other
// predicate is rejected rather than silently returning unfiltered
// results.
func (t *Transport) transactionFilterFunc(method string, params []any) (func(types.Digest, *types.TransactionBlock) bool, error) {
	matchAll := func(types.Digest, *types.TransactionBlock) bool { return true }
	var raw json.RawMessage
	if len(params) > 0 && params[0] != nil {
		switch v := params[0].(type) {
		case types.TransactionBlockQuery:
			raw = v.Filter
		case *types.TransactionBlockQuery:
			if v != nil {
				raw = v.Filter
			}
		}
	}
	if len(raw) == 0 || string(raw) == "null" || string(raw) == "{}" {
		return matchAll, nil
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, &coral.TransportError{Method: method, Code: -32602, Err: fmt.Errorf("malformed transaction filter: %w", err)}
	}
	l := t.ledger
	preds := make([]func(types.Digest, *types.TransactionBlock) bool, 0, len(doc))
	for key, val := range doc {
		var s string
		if err := json.Unmarshal(val, &s); err != nil {
			return nil, &coral.TransportError{Method: method, Code: -32602, Err: fmt.Errorf("transaction filter %s: expected a string value", key)}
		}
		switch key {
		case "FromAddress":
			preds = append(preds, func(d types.Digest, _ *types.TransactionBlock) bool {
				return string(l.txSenders[d]) == s
			})
		case "Checkpoint":
			preds = append(preds, func(_ types.Digest, tb *types.TransactionBlock) bool {
				return tb.Checkpoint != nil && *tb.Checkpoint == s
			})
		default:
			return nil, &coral.TransportError{Method: method, Code: -32602, Err: fmt.Errorf("unsupported transaction filter %q", key)}
		}
	}
	return func(d types.Digest, tb *types.TransactionBlock) bool {
		for _, p := range preds {
			if !p(d, tb) {
				return false
			}
		}
		return true
	}, nil
}

func (t *Transport) executeTransactionBlock(method string, params []any) (any, error) {
	encoded, err := stringArg(method, params, 0)
	if err != nil {
		return nil, err
	}
	if _, err := base64.StdEncoding.DecodeString(encoded); err != nil {
		return nil, &coral.TransportError{Method: method, Code: -32602, Err: fmt.Errorf("malformed transaction bytes: %w", err)}
	}
	// Sender recovery needs signature verification, which the
	// in-memory backend does not model.
	tb := t.ledger.RecordTransaction("", encoded, nil)
	return *tb, nil
}

func (t *Transport) dryRun() (any, error) {
	return types.DryRunResult{
		Effects: types.TransactionEffects{
			Status: types.ExecutionStatus{Status: "success"},
			GasUsed: types.GasCostSummary{
				ComputationCost: "1000", StorageCost: "2280", StorageRebate: "0", NonRefundableStorageFee: "0",
			},
		},
	}, nil
}

func (t *Transport) devInspect() (any, error) {
	return types.DevInspectResult{
		Effects: types.TransactionEffects{
			Status: types.ExecutionStatus{Status: "success"},
		},
	}, nil
}

func (t *Transport) protocolConfig() (any, error) {
	l := t.ledger
	l.mu.RLock()
	defer l.mu.RUnlock()
	v := strconv.FormatUint(l.protocolVersion, 10)
	return types.ProtocolConfig{
		ProtocolVersion:             v,
		MinSupportedProtocolVersion: "1",
		MaxSupportedProtocolVersion: v,
	}, nil
}

func (t *Transport) queryEvents(method string, params []any) (any, error) {
	match, err := eventFilterFunc(method, params)
	if err != nil {
		return nil, err
	}
	l := t.ledger
	l.mu.RLock()
	evs := make([]types.Event, 0, len(l.events))
	for _, ev := range l.events {
		if match(ev) {
			evs = append(evs, ev)
		}
	}
	l.mu.RUnlock()
	return paginate(evs, optStringArg(params, 1), optIntArg(params, 2), boolArg(params, 3)), nil
}

// eventFilterFunc compiles an event filter document. Supported
// predicates: All (empty), Sender, MoveEventType, and Transaction;
// anything else is rejected rather than silently ignored.
func eventFilterFunc(method string, params []any) (func(types.Event) bool, error) {
	matchAll := func(types.Event) bool { return true }
	var raw json.RawMessage
	if len(params) > 0 && params[0] != nil {
		switch v := params[0].(type) {
		case json.RawMessage:
			raw = v
		case []byte:
			raw = v
		}
	}
	if len(raw) == 0 || string(raw) == "null" || string(raw) == "{}" {
		return matchAll, nil
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, &coral.TransportError{Method: method, Code: -32602, Err: fmt.Errorf("malformed event filter: %w", err)}
	}
	preds := make([]func(types.Event) bool, 0, len(doc))
	for key, val := range doc {
		switch key {
		case "All":
			var sub []json.RawMessage
			if err := json.Unmarshal(val, &sub); err != nil || len(sub) > 0 {
				return nil, &coral.TransportError{Method: method, Code: -32602, Err: fmt.Errorf("composite event filters are not supported")}
			}
		case "Sender", "MoveEventType", "Transaction":
			var s string
			if err := json.Unmarshal(val, &s); err != nil {
				return nil, &coral.TransportError{Method: method, Code: -32602, Err: fmt.Errorf("event filter %s: expected a string value", key)}
			}
			switch key {
			case "Sender":
				preds = append(preds, func(ev types.Event) bool { return string(ev.Sender) == s })
			case "MoveEventType":
				preds = append(preds, func(ev types.Event) bool { return ev.Type == s })
			case "Transaction":
				preds = append(preds, func(ev types.Event) bool { return string(ev.ID.TxDigest) == s })
			}
		default:
			return nil, &coral.TransportError{Method: method, Code: -32602, Err: fmt.Errorf("unsupported event filter %q", key)}
		}
	}
	return func(ev types.Event) bool {
		for _, p := range preds {
			if !p(ev) {
				return false
			}
		}
		return true
	}, nil
}

func (t *Transport) systemStateV1() (any, error) {
	l := t.ledger
	l.mu.RLock()
	defer l.mu.RUnlock()
	return types.SystemStateV1{
		Epoch:                          strconv.FormatUint(l.epoch, 10),
		ProtocolVersion:                strconv.FormatUint(l.protocolVersion, 10),
		SystemStateVersion:             "1",
		TotalStake:                     l.totalStakeLocked(),
		ReferenceGasPrice:              l.referenceGas,
		SafeModeComputationRewards:     "0",
		SafeModeStorageCharges:         "0",
		SafeModeStorageRebates:         "0",
		EpochStartTimestampMs:          "1704067200000",
		EpochDurationMs:                "86400000",
		TotalSupply:                    "10000000000000000000",
		ActiveValidators:               append([]types.ValidatorSummary(nil), l.validators...),
		PendingActiveValidatorsSize:    "0",
		PendingRemovals:                []string{},
		ValidatorLowStakeThreshold:     "20000000000000",
		ValidatorVeryLowStakeThreshold: "15000000000000",
	}, nil
}

func (t *Transport) systemStateV2(method string) (any, error) {
	l := t.ledger
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.protocolVersion < systemStateV2MinProtocolVersion {
		return nil, &coral.TransportError{Method: method, Code: -32601, Err: fmt.Errorf("method %s not found", method)}
	}
	committee := make([]string, len(l.committee))
	for i, idx := range l.committee {
		committee[i] = strconv.Itoa(idx)
	}
	return types.SystemStateV2{
		Epoch:                            strconv.FormatUint(l.epoch, 10),
		ProtocolVersion:                  strconv.FormatUint(l.protocolVersion, 10),
		SystemStateVersion:               "2",
		TotalStake:                       l.totalStakeLocked(),
		ReferenceGasPrice:                l.referenceGas,
		SafeModeComputationCharges:       "0",
		SafeModeComputationChargesBurned: "0",
		SafeModeStorageCharges:           "0",
		SafeModeStorageRebates:           "0",
		EpochStartTimestampMs:            "1704067200000",
		EpochDurationMs:                  "86400000",
		TotalSupply:                      "10000000000000000000",
		ActiveValidators:                 append([]types.ValidatorSummary(nil), l.validators...),
		CommitteeMembers:                 committee,
		PendingActiveValidatorsSize:      "0",
		PendingRemovals:                  []string{},
		ValidatorLowStakeThreshold:       "20000000000000",
		ValidatorVeryLowStakeThreshold:   "15000000000000",
	}, nil
}

func (l *Ledger) totalStakeLocked() string {
	var total uint64
	for _, v := range l.validators {
		s, _ := strconv.ParseUint(strings.TrimSpace(v.StakingPoolBalance), 10, 64)
		total += s
	}
	return strconv.FormatUint(total, 10)
}
