package coral

import (
	"context"
	"fmt"
	"strconv"

	"github.com/coralledger/coral-go/types"
)

// systemStateV2MinProtocolVersion is the protocol version at which
// backends grew the V2 system-state method.
const systemStateV2MinProtocolVersion = 5

// GetProtocolConfig returns the backend's protocol configuration. A
// nil version selects the backend's current version.
func (c *Client) GetProtocolConfig(ctx context.Context, version *string) (*types.ProtocolConfig, error) {
	var cfg types.ProtocolConfig
	if err := c.call(ctx, MethodGetProtocolConfig, []any{version}, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// GetLatestSystemState returns the current epoch's system state as
// one unified shape, regardless of which wire version the backend
// speaks.
//
// The protocol config is probed first; backends at or above the V2
// threshold are asked for the V2 shape, older ones for V1. Both are
// reconciled before returning: committee-member indices resolve to
// full validator records, and the renamed safe-mode charge fields are
// backfilled, so callers see identical field names on either path.
func (c *Client) GetLatestSystemState(ctx context.Context) (*types.SystemStateSummary, error) {
	cfg, err := c.GetProtocolConfig(ctx, nil)
	if err != nil {
		return nil, err
	}
	v, err := strconv.ParseUint(cfg.ProtocolVersion, 10, 64)
	if err != nil {
		return nil, &TransportError{
			Method: MethodGetProtocolConfig,
			Err:    fmt.Errorf("malformed protocol version %q: %w", cfg.ProtocolVersion, err),
		}
	}

	if v >= systemStateV2MinProtocolVersion {
		var st types.SystemStateV2
		if err := c.call(ctx, MethodGetSystemStateV2, nil, &st); err != nil {
			return nil, err
		}
		return unifySystemStateV2(&st)
	}

	var st types.SystemStateV1
	if err := c.call(ctx, MethodGetSystemStateV1, nil, &st); err != nil {
		return nil, err
	}
	return unifySystemStateV1(&st), nil
}

// unifySystemStateV1 lifts the legacy shape. V1 predates a separate
// consensus committee: every active validator is a committee member,
// and the safe-mode "rewards" field is the old name for computation
// charges (nothing was burned under V1 accounting).
func unifySystemStateV1(st *types.SystemStateV1) *types.SystemStateSummary {
	committee := make([]types.ValidatorSummary, len(st.ActiveValidators))
	copy(committee, st.ActiveValidators)
	return &types.SystemStateSummary{
		Epoch:                            st.Epoch,
		ProtocolVersion:                  st.ProtocolVersion,
		SystemStateVersion:               st.SystemStateVersion,
		TotalStake:                       st.TotalStake,
		StorageFundBalance:               st.StorageFundBalance,
		ReferenceGasPrice:                st.ReferenceGasPrice,
		SafeMode:                         st.SafeMode,
		SafeModeStorageCharges:           st.SafeModeStorageCharges,
		SafeModeComputationCharges:       st.SafeModeComputationRewards,
		SafeModeComputationChargesBurned: "0",
		SafeModeStorageRebates:           st.SafeModeStorageRebates,
		EpochStartTimestampMs:            st.EpochStartTimestampMs,
		EpochDurationMs:                  st.EpochDurationMs,
		TotalSupply:                      st.TotalSupply,
		ActiveValidators:                 st.ActiveValidators,
		CommitteeMembers:                 committee,
		PendingActiveValidatorsSize:      st.PendingActiveValidatorsSize,
		PendingRemovals:                  st.PendingRemovals,
		ValidatorLowStakeThreshold:       st.ValidatorLowStakeThreshold,
		ValidatorVeryLowStakeThreshold:   st.ValidatorVeryLowStakeThreshold,
	}
}

// unifySystemStateV2 resolves committee-member indices into full
// validator records. An index outside the active set is a malformed
// response, not advisory data, so it fails rather than being
// silently dropped.
func unifySystemStateV2(st *types.SystemStateV2) (*types.SystemStateSummary, error) {
	committee := make([]types.ValidatorSummary, 0, len(st.CommitteeMembers))
	for _, idxStr := range st.CommitteeMembers {
		idx, err := strconv.Atoi(idxStr)
		if err != nil || idx < 0 || idx >= len(st.ActiveValidators) {
			return nil, &TransportError{
				Method: MethodGetSystemStateV2,
				Err:    fmt.Errorf("committee member index %q out of range (%d active validators)", idxStr, len(st.ActiveValidators)),
			}
		}
		committee = append(committee, st.ActiveValidators[idx])
	}
	return &types.SystemStateSummary{
		Epoch:                            st.Epoch,
		ProtocolVersion:                  st.ProtocolVersion,
		SystemStateVersion:               st.SystemStateVersion,
		TotalStake:                       st.TotalStake,
		StorageFundBalance:               st.StorageFundBalance,
		ReferenceGasPrice:                st.ReferenceGasPrice,
		SafeMode:                         st.SafeMode,
		SafeModeStorageCharges:           st.SafeModeStorageCharges,
		SafeModeComputationCharges:       st.SafeModeComputationCharges,
		SafeModeComputationChargesBurned: st.SafeModeComputationChargesBurned,
		SafeModeStorageRebates:           st.SafeModeStorageRebates,
		EpochStartTimestampMs:            st.EpochStartTimestampMs,
		EpochDurationMs:                  st.EpochDurationMs,
		TotalSupply:                      st.TotalSupply,
		ActiveValidators:                 st.ActiveValidators,
		CommitteeMembers:                 committee,
		PendingActiveValidatorsSize:      st.PendingActiveValidatorsSize,
		PendingRemovals:                  st.PendingRemovals,
		ValidatorLowStakeThreshold:       st.ValidatorLowStakeThreshold,
		ValidatorVeryLowStakeThreshold:   st.ValidatorVeryLowStakeThreshold,
	}, nil
}
