package graphql

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coral "github.com/coralledger/coral-go"
	"github.com/coralledger/coral-go/types"
)

// graphqlStub serves canned data keyed by the query's top-level
// field and records every request for assertions.
type graphqlStub struct {
	t        *testing.T
	requests []graphqlRequest
	respond  func(req graphqlRequest) (any, []graphqlError)
}

func (s *graphqlStub) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		require.Equal(s.t, http.MethodPost, r.Method)
		var req graphqlRequest
		require.NoError(s.t, json.NewDecoder(r.Body).Decode(&req))
		s.requests = append(s.requests, req)

		data, errs := s.respond(req)
		resp := graphqlResponse{Errors: errs}
		if data != nil {
			raw, err := json.Marshal(data)
			require.NoError(s.t, err)
			resp.Data = raw
		}
		require.NoError(s.t, json.NewEncoder(w).Encode(resp))
	}
}

func TestChainIdentifierQuery(t *testing.T) {
	stub := &graphqlStub{t: t, respond: func(req graphqlRequest) (any, []graphqlError) {
		require.Contains(t, req.Query, "chainIdentifier")
		return map[string]any{"chainIdentifier": "35834a8a"}, nil
	}}
	srv := httptest.NewServer(stub.handler())
	defer srv.Close()

	tr := New(srv.URL)
	raw, err := tr.Request(context.Background(), coral.MethodGetChainIdentifier, nil)
	require.NoError(t, err)
	assert.JSONEq(t, `"35834a8a"`, string(raw))
}

func TestResultIsCanonicalShape(t *testing.T) {
	// The facade must be unable to tell this transport apart from
	// JSON-RPC: decode the raw result into the canonical type.
	stub := &graphqlStub{t: t, respond: func(req graphqlRequest) (any, []graphqlError) {
		return map[string]any{"address": map[string]any{"balance": map[string]any{
			"coinType":        map[string]any{"repr": "0x2::coral::CORAL"},
			"coinObjectCount": 3,
			"totalBalance":    "12345",
		}}}, nil
	}}
	srv := httptest.NewServer(stub.handler())
	defer srv.Close()

	tr := New(srv.URL)
	raw, err := tr.Request(context.Background(), coral.MethodGetBalance, []any{"0x1", nil})
	require.NoError(t, err)

	var bal types.CoinBalance
	require.NoError(t, json.Unmarshal(raw, &bal))
	assert.Equal(t, "0x2::coral::CORAL", bal.CoinType)
	assert.Equal(t, 3, bal.CoinObjectCount)
	assert.Equal(t, "12345", bal.TotalBalance)
}

func TestUnknownAddressYieldsZeroBalance(t *testing.T) {
	stub := &graphqlStub{t: t, respond: func(req graphqlRequest) (any, []graphqlError) {
		return map[string]any{"address": nil}, nil
	}}
	srv := httptest.NewServer(stub.handler())
	defer srv.Close()

	tr := New(srv.URL)
	raw, err := tr.Request(context.Background(), coral.MethodGetBalance, []any{"0x1", nil})
	require.NoError(t, err)

	var bal types.CoinBalance
	require.NoError(t, json.Unmarshal(raw, &bal))
	assert.Equal(t, "0", bal.TotalBalance)
	assert.Zero(t, bal.CoinObjectCount)
}

func TestGraphQLErrorsMapToTransportError(t *testing.T) {
	stub := &graphqlStub{t: t, respond: func(req graphqlRequest) (any, []graphqlError) {
		return nil, []graphqlError{{Message: "internal error"}}
	}}
	srv := httptest.NewServer(stub.handler())
	defer srv.Close()

	tr := New(srv.URL)
	_, err := tr.Request(context.Background(), coral.MethodGetChainIdentifier, nil)
	require.Error(t, err)

	te, ok := coral.IsTransport(err)
	require.True(t, ok, "expected a TransportError, got %T", err)
	assert.Equal(t, "internal error", te.Message)
}

func TestPaginationVariables(t *testing.T) {
	empty := map[string]any{"checkpoints": map[string]any{
		"pageInfo": map[string]any{"hasNextPage": false, "endCursor": nil},
		"nodes":    []any{},
	}}
	stub := &graphqlStub{t: t, respond: func(req graphqlRequest) (any, []graphqlError) {
		return empty, nil
	}}
	srv := httptest.NewServer(stub.handler())
	defer srv.Close()

	tr := New(srv.URL)
	cursor := "abc"
	limit := 5

	// Ascending pages forward with first/after.
	_, err := tr.Request(context.Background(), coral.MethodGetCheckpoints, []any{&cursor, &limit, false})
	require.NoError(t, err)
	vars := stub.requests[0].Variables
	assert.EqualValues(t, 5, vars["first"])
	assert.Equal(t, "abc", vars["after"])
	assert.NotContains(t, vars, "last")

	// Descending pages backward with last/before.
	_, err = tr.Request(context.Background(), coral.MethodGetCheckpoints, []any{&cursor, &limit, true})
	require.NoError(t, err)
	vars = stub.requests[1].Variables
	assert.EqualValues(t, 5, vars["last"])
	assert.Equal(t, "abc", vars["before"])
	assert.NotContains(t, vars, "first")
}

func TestCheckpointIDVariable(t *testing.T) {
	node := json.RawMessage(`{
		"digest": "DeviDfHB6VrtRex4VQCgtNwwxizvc2B9dfkXSgXLwaJE",
		"sequenceNumber": 0,
		"timestamp": "2026-01-15T10:30:00Z",
		"epoch": {"epochId": 0},
		"rollingGasSummary": {"computationCost": "0", "storageCost": "0", "storageRebate": "0", "nonRefundableStorageFee": "0"},
		"transactionBlocks": {"nodes": []},
		"endOfEpochTx": {"nodes": []}
	}`)
	stub := &graphqlStub{t: t, respond: func(req graphqlRequest) (any, []graphqlError) {
		return map[string]any{"checkpoint": node}, nil
	}}
	srv := httptest.NewServer(stub.handler())
	defer srv.Close()

	tr := New(srv.URL)

	// A decimal id selects by sequence number.
	_, err := tr.Request(context.Background(), coral.MethodGetCheckpoint, []any{"0"})
	require.NoError(t, err)
	idVar, ok := stub.requests[0].Variables["id"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, idVar, "sequenceNumber")

	// Anything else selects by digest.
	_, err = tr.Request(context.Background(), coral.MethodGetCheckpoint, []any{"DeviDfHB6VrtRex4VQCgtNwwxizvc2B9dfkXSgXLwaJE"})
	require.NoError(t, err)
	idVar, ok = stub.requests[1].Variables["id"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, idVar, "digest")
}

func TestGenesisCheckpointNormalization(t *testing.T) {
	node := json.RawMessage(`{
		"digest": "CmpNeggWJ4JaWJeJ8YKN1Zypmk7uvQq3PECGUCAEMbky",
		"sequenceNumber": 0,
		"timestamp": "2026-01-15T10:30:00Z",
		"previousCheckpointDigest": null,
		"epoch": {"epochId": 0},
		"rollingGasSummary": {"computationCost": "0", "storageCost": "0", "storageRebate": "0", "nonRefundableStorageFee": "0"},
		"transactionBlocks": {"nodes": []},
		"endOfEpochTx": {"nodes": []}
	}`)
	stub := &graphqlStub{t: t, respond: func(req graphqlRequest) (any, []graphqlError) {
		return map[string]any{"checkpoint": node}, nil
	}}
	srv := httptest.NewServer(stub.handler())
	defer srv.Close()

	tr := New(srv.URL)
	raw, err := tr.Request(context.Background(), coral.MethodGetCheckpoint, []any{"0"})
	require.NoError(t, err)

	// The canonical shape omits previousDigest entirely for genesis.
	assert.NotContains(t, string(raw), "previousDigest")

	var cp types.Checkpoint
	require.NoError(t, json.Unmarshal(raw, &cp))
	assert.Nil(t, cp.PreviousDigest)
	assert.Equal(t, "0", cp.SequenceNumber)
}

func TestTransactionBlockCanonicalShape(t *testing.T) {
	const digest = "55gCZcFwZbL1jNGDGC5tDgGF5J4FQUeGzNJHbcbiM1Z5"
	node := json.RawMessage(fmt.Sprintf(`{
		"digest": %q,
		"bcs": "ZGVtbw==",
		"effects": {
			"status": "SUCCESS",
			"timestamp": "2026-01-15T10:30:00Z",
			"epoch": {"epochId": 3},
			"checkpoint": {"sequenceNumber": 12},
			"gasEffects": {"gasSummary": {"computationCost": "1000", "storageCost": "2280", "storageRebate": "0", "nonRefundableStorageFee": "0"}},
			"balanceChanges": {"nodes": [{"owner": {"address": "0xaa"}, "coinType": {"repr": "0x2::coral::CORAL"}, "amount": "-3280"}]},
			"events": {"nodes": []}
		}
	}`, digest))
	stub := &graphqlStub{t: t, respond: func(req graphqlRequest) (any, []graphqlError) {
		require.Contains(t, req.Query, "transactionBlock(digest: $digest)")
		require.Equal(t, digest, req.Variables["digest"])
		return map[string]any{"transactionBlock": node}, nil
	}}
	srv := httptest.NewServer(stub.handler())
	defer srv.Close()

	tr := New(srv.URL)
	raw, err := tr.Request(context.Background(), coral.MethodGetTransactionBlock, []any{digest})
	require.NoError(t, err)

	var tb types.TransactionBlock
	require.NoError(t, json.Unmarshal(raw, &tb))
	assert.Equal(t, types.Digest(digest), tb.Digest)
	assert.Equal(t, "ZGVtbw==", tb.RawTransaction)
	require.NotNil(t, tb.Effects)
	assert.True(t, tb.Effects.Status.OK())
	assert.Equal(t, "3", tb.Effects.ExecutedEpoch)
	assert.Equal(t, "2280", tb.Effects.GasUsed.StorageCost)
	require.NotNil(t, tb.Checkpoint)
	assert.Equal(t, "12", *tb.Checkpoint)
	require.NotNil(t, tb.TimestampMs)
	assert.Equal(t, "1768473000000", *tb.TimestampMs)
	require.Len(t, tb.BalanceChanges, 1)
	assert.Equal(t, "-3280", tb.BalanceChanges[0].Amount)
}

func TestQueryTransactionBlocksFilterAndPagination(t *testing.T) {
	empty := map[string]any{"transactionBlocks": map[string]any{
		"pageInfo": map[string]any{"hasNextPage": false, "endCursor": nil},
		"nodes":    []any{},
	}}
	stub := &graphqlStub{t: t, respond: func(req graphqlRequest) (any, []graphqlError) {
		return empty, nil
	}}
	srv := httptest.NewServer(stub.handler())
	defer srv.Close()

	tr := New(srv.URL)
	q := types.TransactionBlockQuery{Filter: json.RawMessage(`{"FromAddress":"0x1"}`)}
	limit := 3
	_, err := tr.Request(context.Background(), coral.MethodQueryTransactionBlocks, []any{q, nil, &limit, true})
	require.NoError(t, err)

	// The filter document travels to the backend untouched, and a
	// descending traversal pages backwards.
	vars := stub.requests[0].Variables
	assert.Equal(t, map[string]any{"FromAddress": "0x1"}, vars["filter"])
	assert.EqualValues(t, 3, vars["last"])
	assert.NotContains(t, vars, "first")
}

func TestMultiGetObjectsKeepsInputOrder(t *testing.T) {
	idA := types.ObjectID("0x" + strings.Repeat("0a", 32))
	idB := types.ObjectID("0x" + strings.Repeat("0b", 32))
	idC := types.ObjectID("0x" + strings.Repeat("0c", 32))
	// The backend returns known ids in its own order and omits
	// unknown ones entirely.
	nodes := []any{
		map[string]any{"address": string(idB), "version": 2, "digest": "6cx98JKgqdBy3BMGZ2AG1YWQZ8aPek7M68Tc8ztMUbnE"},
		map[string]any{"address": string(idA), "version": 1, "digest": "CmpNeggWJ4JaWJeJ8YKN1Zypmk7uvQq3PECGUCAEMbky"},
	}
	stub := &graphqlStub{t: t, respond: func(req graphqlRequest) (any, []graphqlError) {
		require.Contains(t, req.Query, "objectIds: $ids")
		return map[string]any{"objects": map[string]any{"nodes": nodes}}, nil
	}}
	srv := httptest.NewServer(stub.handler())
	defer srv.Close()

	tr := New(srv.URL)
	raw, err := tr.Request(context.Background(), coral.MethodMultiGetObjects, []any{[]types.ObjectID{idA, idB, idC}, nil})
	require.NoError(t, err)

	var out []types.ObjectResponse
	require.NoError(t, json.Unmarshal(raw, &out))
	require.Len(t, out, 3)
	require.NotNil(t, out[0].Data)
	assert.Equal(t, idA, out[0].Data.ObjectID)
	require.NotNil(t, out[1].Data)
	assert.Equal(t, idB, out[1].Data.ObjectID)
	require.NotNil(t, out[2].Error)
	assert.Equal(t, "notExists", out[2].Error.Code)
	require.NotNil(t, out[2].Error.ObjectID)
	assert.Equal(t, idC, *out[2].Error.ObjectID)
}

func TestDynamicFieldsQuery(t *testing.T) {
	child := "0x" + strings.Repeat("0d", 32)
	nodes := []any{
		map[string]any{
			"name": map[string]any{"type": map[string]any{"repr": "u64"}, "json": 7, "bcs": "Bw=="},
			"value": map[string]any{
				"__typename": "MoveObject",
				"address":    child,
				"version":    2,
				"digest":     "6cx98JKgqdBy3BMGZ2AG1YWQZ8aPek7M68Tc8ztMUbnE",
				"contents":   map[string]any{"type": map[string]any{"repr": "0x7::reef::Polyp"}},
			},
		},
		map[string]any{
			"name":  map[string]any{"type": map[string]any{"repr": "0x1::string::String"}, "json": "leaf", "bcs": "BGxlYWY="},
			"value": map[string]any{"__typename": "MoveValue", "type": map[string]any{"repr": "u8"}},
		},
	}
	stub := &graphqlStub{t: t, respond: func(req graphqlRequest) (any, []graphqlError) {
		require.Contains(t, req.Query, "dynamicFields")
		return map[string]any{"object": map[string]any{"dynamicFields": map[string]any{
			"pageInfo": map[string]any{"hasNextPage": false, "endCursor": nil},
			"nodes":    nodes,
		}}}, nil
	}}
	srv := httptest.NewServer(stub.handler())
	defer srv.Close()

	tr := New(srv.URL)
	raw, err := tr.Request(context.Background(), coral.MethodGetDynamicFields, []any{"0x" + strings.Repeat("0e", 32), nil, nil})
	require.NoError(t, err)

	var page types.Page[types.DynamicFieldInfo]
	require.NoError(t, json.Unmarshal(raw, &page))
	require.Len(t, page.Data, 2)

	obj := page.Data[0]
	assert.Equal(t, "DynamicObject", obj.Type)
	assert.Equal(t, "0x7::reef::Polyp", obj.ObjectType)
	assert.Equal(t, types.ObjectID(child), obj.ObjectID)
	assert.Equal(t, "2", obj.Version)
	assert.Equal(t, "u64", obj.Name.Type)
	assert.JSONEq(t, `7`, string(obj.Name.Value))

	val := page.Data[1]
	assert.Equal(t, "DynamicField", val.Type)
	assert.Equal(t, "u8", val.ObjectType)
	assert.Equal(t, "0x1::string::String", val.Name.Type)
	assert.JSONEq(t, `"leaf"`, string(val.Name.Value))
}

func TestDynamicFieldObjectMiss(t *testing.T) {
	stub := &graphqlStub{t: t, respond: func(req graphqlRequest) (any, []graphqlError) {
		require.Contains(t, req.Query, "dynamicObjectField(name: $name)")
		return map[string]any{"object": map[string]any{"dynamicObjectField": nil}}, nil
	}}
	srv := httptest.NewServer(stub.handler())
	defer srv.Close()

	tr := New(srv.URL)
	name := types.DynamicFieldName{Type: "u64", Value: json.RawMessage(`7`)}
	raw, err := tr.Request(context.Background(), coral.MethodGetDynamicFieldObject, []any{"0x" + strings.Repeat("0e", 32), name})
	require.NoError(t, err)

	// The typed name travels as a structured variable.
	nameVar, ok := stub.requests[0].Variables["name"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "u64", nameVar["type"])
	assert.EqualValues(t, 7, nameVar["value"])

	// A miss reports in-band, same as the JSON-RPC backends.
	var resp types.ObjectResponse
	require.NoError(t, json.Unmarshal(raw, &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "dynamicFieldNotFound", resp.Error.Code)
}

func TestOwnedObjectsFilterPassthrough(t *testing.T) {
	empty := map[string]any{"address": map[string]any{"objects": map[string]any{
		"pageInfo": map[string]any{"hasNextPage": false, "endCursor": nil},
		"nodes":    []any{},
	}}}
	stub := &graphqlStub{t: t, respond: func(req graphqlRequest) (any, []graphqlError) {
		return empty, nil
	}}
	srv := httptest.NewServer(stub.handler())
	defer srv.Close()

	tr := New(srv.URL)
	q := &types.ObjectResponseQuery{Filter: json.RawMessage(`{"StructType":"0x2::coin::Coin"}`)}
	_, err := tr.Request(context.Background(), coral.MethodGetOwnedObjects, []any{"0x1", q, nil, nil})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"StructType": "0x2::coin::Coin"}, stub.requests[0].Variables["filter"])

	// Without a query, no filter variable is sent at all.
	var nilQuery *types.ObjectResponseQuery
	_, err = tr.Request(context.Background(), coral.MethodGetOwnedObjects, []any{"0x1", nilQuery, nil, nil})
	require.NoError(t, err)
	assert.NotContains(t, stub.requests[1].Variables, "filter")
}

func TestSubscribeUnsupported(t *testing.T) {
	tr := New("http://unused")
	_, err := tr.Subscribe(context.Background(), coral.MethodSubscribeEvent, coral.MethodUnsubscribeEvent, nil, func(json.RawMessage) {})
	require.Error(t, err)
	_, ok := coral.IsTransport(err)
	assert.True(t, ok)
}

func TestUnsupportedMethod(t *testing.T) {
	tr := New("http://unused")
	_, err := tr.Request(context.Background(), coral.MethodExecuteTransactionBlock, nil)
	require.Error(t, err)
	te, ok := coral.IsTransport(err)
	require.True(t, ok)
	assert.True(t, strings.Contains(te.Error(), "not supported"))
}
