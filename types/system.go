package types

// ValidatorSummary is the per-validator slice of the system state.
type ValidatorSummary struct {
	Address             Address `json:"address"`
	Name                string  `json:"name"`
	Description         string  `json:"description,omitempty"`
	ProtocolPubkeyBytes string  `json:"protocolPubkeyBytes"`
	NetAddress          string  `json:"netAddress,omitempty"`
	VotingPower         string  `json:"votingPower"`
	GasPrice            string  `json:"gasPrice"`
	CommissionRate      string  `json:"commissionRate"`
	StakingPoolBalance  string  `json:"stakingPoolBalance"`
	NextEpochStake      string  `json:"nextEpochStake"`
	NextEpochGasPrice   string  `json:"nextEpochGasPrice"`
}

// SystemStateV1 is the legacy wire shape of the system-state summary.
// It never leaves the facade: GetLatestSystemState reconciles it into
// SystemStateSummary.
type SystemStateV1 struct {
	Epoch                          string             `json:"epoch"`
	ProtocolVersion                string             `json:"protocolVersion"`
	SystemStateVersion             string             `json:"systemStateVersion"`
	TotalStake                     string             `json:"totalStake"`
	StorageFundBalance             string             `json:"storageFundTotalObjectStorageRebates"`
	ReferenceGasPrice              string             `json:"referenceGasPrice"`
	SafeMode                       bool               `json:"safeMode"`
	SafeModeStorageCharges         string             `json:"safeModeStorageCharges"`
	SafeModeComputationRewards     string             `json:"safeModeComputationRewards"`
	SafeModeStorageRebates         string             `json:"safeModeStorageRebates"`
	EpochStartTimestampMs          string             `json:"epochStartTimestampMs"`
	EpochDurationMs                string             `json:"epochDurationMs"`
	TotalSupply                    string             `json:"coralTotalSupply"`
	ActiveValidators               []ValidatorSummary `json:"activeValidators"`
	PendingActiveValidatorsSize    string             `json:"pendingActiveValidatorsSize"`
	PendingRemovals                []string           `json:"pendingRemovals"`
	ValidatorLowStakeThreshold     string             `json:"validatorLowStakeThreshold"`
	ValidatorVeryLowStakeThreshold string             `json:"validatorVeryLowStakeThreshold"`
}

// SystemStateV2 is the current wire shape. Relative to V1 it renames
// the safe-mode computation field and carries the consensus committee
// as indices into ActiveValidators. It never leaves the facade.
type SystemStateV2 struct {
	Epoch                            string             `json:"epoch"`
	ProtocolVersion                  string             `json:"protocolVersion"`
	SystemStateVersion               string             `json:"systemStateVersion"`
	TotalStake                       string             `json:"totalStake"`
	StorageFundBalance               string             `json:"storageFundTotalObjectStorageRebates"`
	ReferenceGasPrice                string             `json:"referenceGasPrice"`
	SafeMode                         bool               `json:"safeMode"`
	SafeModeStorageCharges           string             `json:"safeModeStorageCharges"`
	SafeModeComputationCharges       string             `json:"safeModeComputationCharges"`
	SafeModeComputationChargesBurned string             `json:"safeModeComputationChargesBurned"`
	SafeModeStorageRebates           string             `json:"safeModeStorageRebates"`
	EpochStartTimestampMs            string             `json:"epochStartTimestampMs"`
	EpochDurationMs                  string             `json:"epochDurationMs"`
	TotalSupply                      string             `json:"coralTotalSupply"`
	ActiveValidators                 []ValidatorSummary `json:"activeValidators"`
	// CommitteeMembers holds indices into ActiveValidators.
	CommitteeMembers               []string `json:"committeeMembers"`
	PendingActiveValidatorsSize    string   `json:"pendingActiveValidatorsSize"`
	PendingRemovals                []string `json:"pendingRemovals"`
	ValidatorLowStakeThreshold     string   `json:"validatorLowStakeThreshold"`
	ValidatorVeryLowStakeThreshold string   `json:"validatorVeryLowStakeThreshold"`
}

// SystemStateSummary is the unified "current epoch" view returned by
// GetLatestSystemState. Callers never learn which wire version backed
// it: both V1 and V2 responses reconcile to identical field names and
// a fully-resolved committee.
type SystemStateSummary struct {
	Epoch                            string             `json:"epoch"`
	ProtocolVersion                  string             `json:"protocolVersion"`
	SystemStateVersion               string             `json:"systemStateVersion"`
	TotalStake                       string             `json:"totalStake"`
	StorageFundBalance               string             `json:"storageFundBalance"`
	ReferenceGasPrice                string             `json:"referenceGasPrice"`
	SafeMode                         bool               `json:"safeMode"`
	SafeModeStorageCharges           string             `json:"safeModeStorageCharges"`
	SafeModeComputationCharges       string             `json:"safeModeComputationCharges"`
	SafeModeComputationChargesBurned string             `json:"safeModeComputationChargesBurned"`
	SafeModeStorageRebates           string             `json:"safeModeStorageRebates"`
	EpochStartTimestampMs            string             `json:"epochStartTimestampMs"`
	EpochDurationMs                  string             `json:"epochDurationMs"`
	TotalSupply                      string             `json:"totalSupply"`
	ActiveValidators                 []ValidatorSummary `json:"activeValidators"`
	// CommitteeMembers is the resolved consensus committee. Under a
	// V1 backend every active validator is a committee member.
	CommitteeMembers               []ValidatorSummary `json:"committeeMembers"`
	PendingActiveValidatorsSize    string             `json:"pendingActiveValidatorsSize"`
	PendingRemovals                []string           `json:"pendingRemovals"`
	ValidatorLowStakeThreshold     string             `json:"validatorLowStakeThreshold"`
	ValidatorVeryLowStakeThreshold string             `json:"validatorVeryLowStakeThreshold"`
}

// ProtocolConfig is the protocol-version probe used to pick between
// the V1 and V2 system-state methods.
type ProtocolConfig struct {
	MinSupportedProtocolVersion string            `json:"minSupportedProtocolVersion"`
	MaxSupportedProtocolVersion string            `json:"maxSupportedProtocolVersion"`
	ProtocolVersion             string            `json:"protocolVersion"`
	FeatureFlags                map[string]bool   `json:"featureFlags,omitempty"`
	Attributes                  map[string]string `json:"attributes,omitempty"`
}
