package graphql

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	coral "github.com/coralledger/coral-go"
	"github.com/coralledger/coral-go/types"
)

// Per-method handlers. Each runs one query document and returns the
// canonical type the facade expects for that method.

func (t *Transport) chainIdentifier(ctx context.Context) (any, error) {
	var data struct {
		ChainIdentifier string `json:"chainIdentifier"`
	}
	if err := t.exec(ctx, coral.MethodGetChainIdentifier, queryChainIdentifier, nil, &data); err != nil {
		return nil, err
	}
	return data.ChainIdentifier, nil
}

func (t *Transport) getCheckpoint(ctx context.Context, method string, params []any) (any, error) {
	id, ok := stringArg(params, 0)
	if !ok {
		return nil, missingArg(method, 0)
	}
	var idVar map[string]any
	if seq, err := strconv.ParseUint(id, 10, 64); err == nil {
		idVar = map[string]any{"sequenceNumber": seq}
	} else {
		idVar = map[string]any{"digest": id}
	}

	var data struct {
		Checkpoint *checkpointNode `json:"checkpoint"`
	}
	if err := t.exec(ctx, method, queryCheckpoint, map[string]any{"id": idVar}, &data); err != nil {
		return nil, err
	}
	if data.Checkpoint == nil {
		return nil, &coral.TransportError{Method: method, Err: fmt.Errorf("checkpoint %s not found", id)}
	}
	cp, err := mapCheckpoint(data.Checkpoint, t.strict)
	if err != nil {
		return nil, &coral.TransportError{Method: method, Err: err}
	}
	return cp, nil
}

func (t *Transport) getCheckpoints(ctx context.Context, method string, params []any) (any, error) {
	vars := map[string]any{}
	pageVariables(vars, optStringArg(params, 0), optIntArg(params, 1), boolArg(params, 2))

	var data struct {
		Checkpoints struct {
			PageInfo pageInfoNode     `json:"pageInfo"`
			Nodes    []checkpointNode `json:"nodes"`
		} `json:"checkpoints"`
	}
	if err := t.exec(ctx, method, queryCheckpoints, vars, &data); err != nil {
		return nil, err
	}
	cps := make([]types.Checkpoint, len(data.Checkpoints.Nodes))
	for i := range data.Checkpoints.Nodes {
		cp, err := mapCheckpoint(&data.Checkpoints.Nodes[i], t.strict)
		if err != nil {
			return nil, &coral.TransportError{Method: method, Err: err}
		}
		cps[i] = *cp
	}
	return mapPageInfo(cps, data.Checkpoints.PageInfo), nil
}

type epochSummaryData struct {
	Epoch struct {
		EpochID           uint64 `json:"epochId"`
		ReferenceGasPrice string `json:"referenceGasPrice"`
		ProtocolConfigs   struct {
			ProtocolVersion uint64 `json:"protocolVersion"`
		} `json:"protocolConfigs"`
	} `json:"epoch"`
	Checkpoint struct {
		SequenceNumber           uint64 `json:"sequenceNumber"`
		NetworkTotalTransactions uint64 `json:"networkTotalTransactions"`
	} `json:"checkpoint"`
}

func (t *Transport) epochSummary(ctx context.Context, method string) (*epochSummaryData, error) {
	var data epochSummaryData
	if err := t.exec(ctx, method, queryEpochSummary, nil, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

func (t *Transport) latestCheckpointSequence(ctx context.Context, method string) (any, error) {
	data, err := t.epochSummary(ctx, method)
	if err != nil {
		return nil, err
	}
	return strconv.FormatUint(data.Checkpoint.SequenceNumber, 10), nil
}

func (t *Transport) totalTransactionBlocks(ctx context.Context, method string) (any, error) {
	data, err := t.epochSummary(ctx, method)
	if err != nil {
		return nil, err
	}
	return strconv.FormatUint(data.Checkpoint.NetworkTotalTransactions, 10), nil
}

func (t *Transport) referenceGasPrice(ctx context.Context, method string) (any, error) {
	data, err := t.epochSummary(ctx, method)
	if err != nil {
		return nil, err
	}
	return data.Epoch.ReferenceGasPrice, nil
}

func (t *Transport) protocolConfig(ctx context.Context, method string) (any, error) {
	data, err := t.epochSummary(ctx, method)
	if err != nil {
		return nil, err
	}
	v := strconv.FormatUint(data.Epoch.ProtocolConfigs.ProtocolVersion, 10)
	return &types.ProtocolConfig{
		ProtocolVersion:             v,
		MinSupportedProtocolVersion: "1",
		MaxSupportedProtocolVersion: v,
	}, nil
}

func (t *Transport) getBalance(ctx context.Context, method string, params []any) (any, error) {
	owner, ok := stringArg(params, 0)
	if !ok {
		return nil, missingArg(method, 0)
	}
	vars := map[string]any{"owner": owner}
	if ct := optStringArg(params, 1); ct != nil {
		vars["type"] = *ct
	}

	var data struct {
		Address *struct {
			Balance *balanceNode `json:"balance"`
		} `json:"address"`
	}
	if err := t.exec(ctx, method, queryBalance, vars, &data); err != nil {
		return nil, err
	}
	if data.Address == nil || data.Address.Balance == nil {
		// Unknown address or no holdings: zero balance, not an error.
		return types.CoinBalance{CoinObjectCount: 0, TotalBalance: "0"}, nil
	}
	return mapBalance(data.Address.Balance), nil
}

func (t *Transport) getAllBalances(ctx context.Context, method string, params []any) (any, error) {
	owner, ok := stringArg(params, 0)
	if !ok {
		return nil, missingArg(method, 0)
	}

	var data struct {
		Address *struct {
			Balances struct {
				PageInfo pageInfoNode  `json:"pageInfo"`
				Nodes    []balanceNode `json:"nodes"`
			} `json:"balances"`
		} `json:"address"`
	}
	if err := t.exec(ctx, method, queryAllBalances, map[string]any{"owner": owner}, &data); err != nil {
		return nil, err
	}
	if data.Address == nil {
		return []types.CoinBalance{}, nil
	}
	bals := make([]types.CoinBalance, len(data.Address.Balances.Nodes))
	for i := range data.Address.Balances.Nodes {
		bals[i] = mapBalance(&data.Address.Balances.Nodes[i])
	}
	return bals, nil
}

func (t *Transport) getCoins(ctx context.Context, method string, params []any) (any, error) {
	owner, ok := stringArg(params, 0)
	if !ok {
		return nil, missingArg(method, 0)
	}
	vars := map[string]any{"owner": owner}
	var cursorIdx = 1
	if method == coral.MethodGetCoins {
		if ct := optStringArg(params, 1); ct != nil {
			vars["type"] = *ct
		}
		cursorIdx = 2
	}
	pageVariables(vars, optStringArg(params, cursorIdx), optIntArg(params, cursorIdx+1), false)

	var data struct {
		Address *struct {
			Coins struct {
				PageInfo pageInfoNode `json:"pageInfo"`
				Nodes    []coinNode   `json:"nodes"`
			} `json:"coins"`
		} `json:"address"`
	}
	if err := t.exec(ctx, method, queryCoins, vars, &data); err != nil {
		return nil, err
	}
	if data.Address == nil {
		return &types.Page[types.Coin]{Data: []types.Coin{}}, nil
	}
	coins := make([]types.Coin, len(data.Address.Coins.Nodes))
	for i := range data.Address.Coins.Nodes {
		coins[i] = mapCoin(&data.Address.Coins.Nodes[i])
	}
	return mapPageInfo(coins, data.Address.Coins.PageInfo), nil
}

func (t *Transport) getObject(ctx context.Context, method string, params []any) (any, error) {
	id, ok := stringArg(params, 0)
	if !ok {
		return nil, missingArg(method, 0)
	}

	var data struct {
		Object *objectNode `json:"object"`
	}
	if err := t.exec(ctx, method, queryObject, map[string]any{"id": id}, &data); err != nil {
		return nil, err
	}
	if data.Object == nil {
		oid := types.ObjectID(id)
		return types.ObjectResponse{Error: &types.ObjectResponseError{
			Code:     "notExists",
			ObjectID: &oid,
		}}, nil
	}
	return mapObject(data.Object), nil
}

func (t *Transport) multiGetObjects(ctx context.Context, method string, params []any) (any, error) {
	ids, ok := stringListArg(params, 0)
	if !ok {
		return nil, missingArg(method, 0)
	}

	var data struct {
		Objects struct {
			Nodes []objectNode `json:"nodes"`
		} `json:"objects"`
	}
	vars := map[string]any{"ids": ids, "first": len(ids)}
	if err := t.exec(ctx, method, queryObjectsByIDs, vars, &data); err != nil {
		return nil, err
	}
	// The backend neither preserves input order nor reports misses;
	// results are rekeyed to the request and misses become in-band
	// notExists entries.
	byID := make(map[string]*objectNode, len(data.Objects.Nodes))
	for i := range data.Objects.Nodes {
		byID[data.Objects.Nodes[i].Address] = &data.Objects.Nodes[i]
	}
	out := make([]types.ObjectResponse, len(ids))
	for i, id := range ids {
		if n, hit := byID[id]; hit {
			out[i] = mapObject(n)
			continue
		}
		oid := types.ObjectID(id)
		out[i] = types.ObjectResponse{Error: &types.ObjectResponseError{Code: "notExists", ObjectID: &oid}}
	}
	return out, nil
}

func (t *Transport) getOwnedObjects(ctx context.Context, method string, params []any) (any, error) {
	owner, ok := stringArg(params, 0)
	if !ok {
		return nil, missingArg(method, 0)
	}
	vars := map[string]any{"owner": owner}
	// Filter documents are backend-native; the query's filter passes
	// through to the backend untouched.
	if f := objectFilterArg(params, 1); len(f) > 0 {
		vars["filter"] = f
	}
	pageVariables(vars, optStringArg(params, 2), optIntArg(params, 3), false)

	var data struct {
		Address *struct {
			Objects struct {
				PageInfo pageInfoNode `json:"pageInfo"`
				Nodes    []objectNode `json:"nodes"`
			} `json:"objects"`
		} `json:"address"`
	}
	if err := t.exec(ctx, method, queryOwnedObjects, vars, &data); err != nil {
		return nil, err
	}
	if data.Address == nil {
		return &types.Page[types.ObjectResponse]{Data: []types.ObjectResponse{}}, nil
	}
	objs := make([]types.ObjectResponse, len(data.Address.Objects.Nodes))
	for i := range data.Address.Objects.Nodes {
		objs[i] = mapObject(&data.Address.Objects.Nodes[i])
	}
	return mapPageInfo(objs, data.Address.Objects.PageInfo), nil
}

func (t *Transport) getTransactionBlock(ctx context.Context, method string, params []any) (any, error) {
	digest, ok := stringArg(params, 0)
	if !ok {
		return nil, missingArg(method, 0)
	}

	var data struct {
		TransactionBlock *transactionBlockNode `json:"transactionBlock"`
	}
	if err := t.exec(ctx, method, queryTransactionBlock, map[string]any{"digest": digest}, &data); err != nil {
		return nil, err
	}
	if data.TransactionBlock == nil {
		return nil, &coral.TransportError{Method: method, Err: fmt.Errorf("transaction %s not found", digest)}
	}
	return mapTransactionBlock(data.TransactionBlock), nil
}

func (t *Transport) multiGetTransactionBlocks(ctx context.Context, method string, params []any) (any, error) {
	digests, ok := stringListArg(params, 0)
	if !ok {
		return nil, missingArg(method, 0)
	}

	var data struct {
		TransactionBlocks struct {
			Nodes []transactionBlockNode `json:"nodes"`
		} `json:"transactionBlocks"`
	}
	vars := map[string]any{"digests": digests, "first": len(digests)}
	if err := t.exec(ctx, method, queryTransactionBlocksByDigests, vars, &data); err != nil {
		return nil, err
	}
	byDigest := make(map[string]*transactionBlockNode, len(data.TransactionBlocks.Nodes))
	for i := range data.TransactionBlocks.Nodes {
		byDigest[data.TransactionBlocks.Nodes[i].Digest] = &data.TransactionBlocks.Nodes[i]
	}
	out := make([]types.TransactionBlock, len(digests))
	for i, d := range digests {
		if n, hit := byDigest[d]; hit {
			out[i] = *mapTransactionBlock(n)
			continue
		}
		out[i] = types.TransactionBlock{
			Digest: types.Digest(d),
			Errors: []string{"transaction not found"},
		}
	}
	return out, nil
}

func (t *Transport) queryTransactionBlocks(ctx context.Context, method string, params []any) (any, error) {
	vars := map[string]any{}
	if f := transactionFilterArg(params, 0); len(f) > 0 {
		vars["filter"] = f
	}
	pageVariables(vars, optStringArg(params, 1), optIntArg(params, 2), boolArg(params, 3))

	var data struct {
		TransactionBlocks struct {
			PageInfo pageInfoNode           `json:"pageInfo"`
			Nodes    []transactionBlockNode `json:"nodes"`
		} `json:"transactionBlocks"`
	}
	if err := t.exec(ctx, method, queryTransactionBlocks, vars, &data); err != nil {
		return nil, err
	}
	tbs := make([]types.TransactionBlock, len(data.TransactionBlocks.Nodes))
	for i := range data.TransactionBlocks.Nodes {
		tbs[i] = *mapTransactionBlock(&data.TransactionBlocks.Nodes[i])
	}
	return mapPageInfo(tbs, data.TransactionBlocks.PageInfo), nil
}

func (t *Transport) getDynamicFields(ctx context.Context, method string, params []any) (any, error) {
	parent, ok := stringArg(params, 0)
	if !ok {
		return nil, missingArg(method, 0)
	}
	vars := map[string]any{"parent": parent}
	pageVariables(vars, optStringArg(params, 1), optIntArg(params, 2), false)

	var data struct {
		Object *struct {
			DynamicFields struct {
				PageInfo pageInfoNode       `json:"pageInfo"`
				Nodes    []dynamicFieldNode `json:"nodes"`
			} `json:"dynamicFields"`
		} `json:"object"`
	}
	if err := t.exec(ctx, method, queryDynamicFields, vars, &data); err != nil {
		return nil, err
	}
	if data.Object == nil {
		return &types.Page[types.DynamicFieldInfo]{Data: []types.DynamicFieldInfo{}}, nil
	}
	fields := make([]types.DynamicFieldInfo, len(data.Object.DynamicFields.Nodes))
	for i := range data.Object.DynamicFields.Nodes {
		fields[i] = mapDynamicField(&data.Object.DynamicFields.Nodes[i])
	}
	return mapPageInfo(fields, data.Object.DynamicFields.PageInfo), nil
}

func (t *Transport) getDynamicFieldObject(ctx context.Context, method string, params []any) (any, error) {
	parent, ok := stringArg(params, 0)
	if !ok {
		return nil, missingArg(method, 0)
	}
	if len(params) < 2 || params[1] == nil {
		return nil, missingArg(method, 1)
	}

	var data struct {
		Object *struct {
			DynamicObjectField *objectNode `json:"dynamicObjectField"`
		} `json:"object"`
	}
	vars := map[string]any{"parent": parent, "name": params[1]}
	if err := t.exec(ctx, method, queryDynamicFieldObject, vars, &data); err != nil {
		return nil, err
	}
	if data.Object == nil || data.Object.DynamicObjectField == nil {
		return types.ObjectResponse{Error: &types.ObjectResponseError{Code: "dynamicFieldNotFound"}}, nil
	}
	return mapObject(data.Object.DynamicObjectField), nil
}

func (t *Transport) queryEvents(ctx context.Context, method string, params []any) (any, error) {
	var filter json.RawMessage
	if len(params) > 0 && params[0] != nil {
		switch v := params[0].(type) {
		case json.RawMessage:
			filter = v
		case []byte:
			filter = v
		}
	}
	if filter == nil {
		filter = json.RawMessage(`{}`)
	}
	vars := map[string]any{"filter": filter}
	pageVariables(vars, optStringArg(params, 1), optIntArg(params, 2), boolArg(params, 3))

	var data struct {
		Events struct {
			PageInfo pageInfoNode `json:"pageInfo"`
			Nodes    []eventNode  `json:"nodes"`
		} `json:"events"`
	}
	if err := t.exec(ctx, method, queryEvents, vars, &data); err != nil {
		return nil, err
	}
	evs := make([]types.Event, len(data.Events.Nodes))
	for i := range data.Events.Nodes {
		evs[i] = mapEvent(&data.Events.Nodes[i], i)
	}
	return mapPageInfo(evs, data.Events.PageInfo), nil
}

// --- Typed param helpers ---

func stringListArg(params []any, i int) ([]string, bool) {
	if i >= len(params) {
		return nil, false
	}
	switch v := params[i].(type) {
	case []string:
		return v, true
	case []types.ObjectID:
		out := make([]string, len(v))
		for j, id := range v {
			out[j] = string(id)
		}
		return out, true
	case []types.Digest:
		out := make([]string, len(v))
		for j, d := range v {
			out[j] = string(d)
		}
		return out, true
	}
	return nil, false
}

func objectFilterArg(params []any, i int) json.RawMessage {
	if i >= len(params) || params[i] == nil {
		return nil
	}
	switch v := params[i].(type) {
	case types.ObjectResponseQuery:
		return v.Filter
	case *types.ObjectResponseQuery:
		if v != nil {
			return v.Filter
		}
	}
	return nil
}

func transactionFilterArg(params []any, i int) json.RawMessage {
	if i >= len(params) || params[i] == nil {
		return nil
	}
	switch v := params[i].(type) {
	case types.TransactionBlockQuery:
		return v.Filter
	case *types.TransactionBlockQuery:
		if v != nil {
			return v.Filter
		}
	}
	return nil
}
