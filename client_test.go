package coral_test

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coral "github.com/coralledger/coral-go"
	coraltest "github.com/coralledger/coral-go/testing"
	"github.com/coralledger/coral-go/types"
)

var (
	testOwner  = "0x" + strings.Repeat("ab", 32)
	testDigest = "DeviDfHB6VrtRex4VQCgtNwwxizvc2B9dfkXSgXLwaJE"
)

func TestGetBalanceRejectsBadAddressBeforeNetwork(t *testing.T) {
	mock := &coraltest.MockTransport{}
	c := coral.NewClient(mock)

	_, err := c.GetBalance(context.Background(), "not-an-address", nil)
	require.Error(t, err)

	v, ok := coral.IsValidation(err)
	require.True(t, ok, "expected a ValidationError, got %T", err)
	assert.Equal(t, "owner", v.Field)
	assert.Zero(t, mock.RequestCalls.Load(), "validation must happen before any network call")
}

func TestGetBalanceNormalizesAddress(t *testing.T) {
	mock := &coraltest.MockTransport{
		RequestFn: func(_ context.Context, method string, params []any) (json.RawMessage, error) {
			require.Equal(t, coral.MethodGetBalance, method)
			require.Len(t, params, 2)
			// Short hex widens to the canonical 64-digit form.
			assert.Equal(t, types.Address("0x"+strings.Repeat("0", 62)+"2a"), params[0])
			assert.Nil(t, params[1])
			return json.Marshal(types.CoinBalance{CoinType: "0x2::coral::CORAL", CoinObjectCount: 2, TotalBalance: "300"})
		},
	}
	c := coral.NewClient(mock)

	bal, err := c.GetBalance(context.Background(), "0x2A", nil)
	require.NoError(t, err)
	assert.Equal(t, "300", bal.TotalBalance)
	assert.Equal(t, int64(1), mock.RequestCalls.Load())
}

func TestMultiGetObjectsRejectsDuplicatesAfterNormalization(t *testing.T) {
	mock := &coraltest.MockTransport{}
	c := coral.NewClient(mock)

	// The two spellings normalize to the same id.
	_, err := c.MultiGetObjects(context.Background(), []string{
		"0xA",
		"0x" + strings.Repeat("0", 63) + "a",
	}, nil)
	require.Error(t, err)

	_, ok := coral.IsValidation(err)
	require.True(t, ok, "expected a ValidationError, got %T", err)
	assert.Zero(t, mock.RequestCalls.Load())
}

func TestMultiGetTransactionBlocksRejectsDuplicateDigests(t *testing.T) {
	mock := &coraltest.MockTransport{}
	c := coral.NewClient(mock)

	_, err := c.MultiGetTransactionBlocks(context.Background(), []string{testDigest, testDigest}, nil)
	require.Error(t, err)
	_, ok := coral.IsValidation(err)
	require.True(t, ok)
	assert.Zero(t, mock.RequestCalls.Load())
}

func TestGetCheckpointsParamOrder(t *testing.T) {
	cursor := types.Cursor("4")
	limit := 10
	mock := &coraltest.MockTransport{
		RequestFn: func(_ context.Context, method string, params []any) (json.RawMessage, error) {
			require.Equal(t, coral.MethodGetCheckpoints, method)
			require.Len(t, params, 3)
			assert.Equal(t, &cursor, params[0])
			assert.Equal(t, &limit, params[1])
			assert.Equal(t, true, params[2])
			return json.Marshal(types.Page[types.Checkpoint]{Data: nil, HasNextPage: false})
		},
	}
	c := coral.NewClient(mock)

	page, err := c.GetCheckpoints(context.Background(), &cursor, &limit, true)
	require.NoError(t, err)
	assert.False(t, page.HasNextPage)
	assert.Nil(t, page.NextCursor)
}

func TestBackendErrorSurfacesAsTransportError(t *testing.T) {
	mock := &coraltest.MockTransport{
		RequestFn: coraltest.RespondWith(nil), // nothing canned: every method fails
	}
	c := coral.NewClient(mock)

	_, err := c.GetChainIdentifier(context.Background())
	require.Error(t, err)
	te, ok := coral.IsTransport(err)
	require.True(t, ok, "expected a TransportError, got %T", err)
	assert.Equal(t, coral.MethodGetChainIdentifier, te.Method)
}

func TestMalformedResultIsTransportError(t *testing.T) {
	mock := &coraltest.MockTransport{
		RequestFn: func(_ context.Context, _ string, _ []any) (json.RawMessage, error) {
			return json.RawMessage(`{"totalBalance":`), nil
		},
	}
	c := coral.NewClient(mock)

	_, err := c.GetBalance(context.Background(), testOwner, nil)
	require.Error(t, err)
	_, ok := coral.IsTransport(err)
	require.True(t, ok, "expected a TransportError, got %T", err)
}

func validatorFixture(n int) []types.ValidatorSummary {
	vs := make([]types.ValidatorSummary, n)
	for i := range vs {
		vs[i] = types.ValidatorSummary{
			Address:     types.Address("0x" + strings.Repeat("0", 62) + string(rune('1'+i))),
			Name:        "validator-" + string(rune('a'+i)),
			VotingPower: "2500",
			GasPrice:    "1000",
		}
	}
	return vs
}

func TestGetLatestSystemStateUsesV1BelowThreshold(t *testing.T) {
	vs := validatorFixture(3)
	var calls []string
	mock := &coraltest.MockTransport{
		RequestFn: func(_ context.Context, method string, _ []any) (json.RawMessage, error) {
			calls = append(calls, method)
			switch method {
			case coral.MethodGetProtocolConfig:
				return json.Marshal(types.ProtocolConfig{ProtocolVersion: "4"})
			case coral.MethodGetSystemStateV1:
				return json.Marshal(types.SystemStateV1{
					Epoch:                      "17",
					ProtocolVersion:            "4",
					ReferenceGasPrice:          "1000",
					SafeModeComputationRewards: "5000",
					ActiveValidators:           vs,
				})
			default:
				t.Fatalf("unexpected method %s", method)
				return nil, nil
			}
		},
	}
	c := coral.NewClient(mock)

	st, err := c.GetLatestSystemState(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{coral.MethodGetProtocolConfig, coral.MethodGetSystemStateV1}, calls)

	// The legacy rewards field lands under its current name, nothing
	// is reported burned, and the committee is the full validator set.
	assert.Equal(t, "5000", st.SafeModeComputationCharges)
	assert.Equal(t, "0", st.SafeModeComputationChargesBurned)
	assert.Equal(t, vs, st.CommitteeMembers)
}

func TestGetLatestSystemStateUsesV2AtThreshold(t *testing.T) {
	vs := validatorFixture(4)
	mock := &coraltest.MockTransport{
		RequestFn: func(_ context.Context, method string, _ []any) (json.RawMessage, error) {
			switch method {
			case coral.MethodGetProtocolConfig:
				return json.Marshal(types.ProtocolConfig{ProtocolVersion: "5"})
			case coral.MethodGetSystemStateV2:
				return json.Marshal(types.SystemStateV2{
					Epoch:                            "42",
					ProtocolVersion:                  "5",
					SafeModeComputationCharges:       "7000",
					SafeModeComputationChargesBurned: "120",
					ActiveValidators:                 vs,
					CommitteeMembers:                 []string{"2", "0"},
				})
			default:
				t.Fatalf("unexpected method %s", method)
				return nil, nil
			}
		},
	}
	c := coral.NewClient(mock)

	st, err := c.GetLatestSystemState(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "7000", st.SafeModeComputationCharges)
	assert.Equal(t, "120", st.SafeModeComputationChargesBurned)

	// Indices resolve to full validator records, preserving order.
	require.Len(t, st.CommitteeMembers, 2)
	assert.Equal(t, vs[2], st.CommitteeMembers[0])
	assert.Equal(t, vs[0], st.CommitteeMembers[1])
}

func TestGetLatestSystemStateRejectsBadCommitteeIndex(t *testing.T) {
	mock := &coraltest.MockTransport{
		RequestFn: func(_ context.Context, method string, _ []any) (json.RawMessage, error) {
			switch method {
			case coral.MethodGetProtocolConfig:
				return json.Marshal(types.ProtocolConfig{ProtocolVersion: "6"})
			case coral.MethodGetSystemStateV2:
				return json.Marshal(types.SystemStateV2{
					ActiveValidators: validatorFixture(2),
					CommitteeMembers: []string{"0", "7"},
				})
			default:
				t.Fatalf("unexpected method %s", method)
				return nil, nil
			}
		},
	}
	c := coral.NewClient(mock)

	_, err := c.GetLatestSystemState(context.Background())
	require.Error(t, err)
	te, ok := coral.IsTransport(err)
	require.True(t, ok, "expected a TransportError, got %T", err)
	assert.Contains(t, te.Error(), "out of range")
}

func TestExecuteTransactionBlockRejectsEmptyInput(t *testing.T) {
	mock := &coraltest.MockTransport{}
	c := coral.NewClient(mock)

	_, err := c.ExecuteTransactionBlock(context.Background(), nil, []string{"sig"}, nil, types.WaitForEffectsCert)
	_, ok := coral.IsValidation(err)
	require.True(t, ok, "empty tx bytes must fail validation, got %v", err)

	_, err = c.ExecuteTransactionBlock(context.Background(), []byte{1, 2, 3}, nil, nil, types.WaitForEffectsCert)
	_, ok = coral.IsValidation(err)
	require.True(t, ok, "empty signature list must fail validation, got %v", err)

	assert.Zero(t, mock.RequestCalls.Load())
}
