package types

// GasCostSummary is the rolling gas accounting attached to
// checkpoints and transaction effects.
type GasCostSummary struct {
	ComputationCost         string `json:"computationCost"`
	StorageCost             string `json:"storageCost"`
	StorageRebate           string `json:"storageRebate"`
	NonRefundableStorageFee string `json:"nonRefundableStorageFee"`
}

// CommitteeMember is one entry of a validator committee: the
// validator's authority public key and its voting power.
type CommitteeMember struct {
	AuthorityName string `json:"authorityName"`
	StakeUnit     string `json:"stakeUnit"`
}

// EndOfEpochData is the epoch-transition payload carried by the last
// checkpoint of an epoch.
type EndOfEpochData struct {
	NextEpochCommittee       []CommitteeMember `json:"nextEpochCommittee"`
	NextEpochProtocolVersion string            `json:"nextEpochProtocolVersion"`
	EpochCommitments         []string          `json:"epochCommitments"`
}

// Checkpoint is a committed, sequence-numbered batch of transactions.
//
// Sequence numbers are strictly increasing and PreviousDigest, when
// present, equals the digest of the checkpoint with the preceding
// sequence number. The genesis checkpoint has no PreviousDigest.
type Checkpoint struct {
	Epoch                      string          `json:"epoch"`
	SequenceNumber             string          `json:"sequenceNumber"`
	Digest                     Digest          `json:"digest"`
	NetworkTotalTransactions   string          `json:"networkTotalTransactions"`
	PreviousDigest             *Digest         `json:"previousDigest,omitempty"`
	EpochRollingGasCostSummary GasCostSummary  `json:"epochRollingGasCostSummary"`
	TimestampMs                string          `json:"timestampMs"`
	Transactions               []Digest        `json:"transactions"`
	CheckpointCommitments      []string        `json:"checkpointCommitments"`
	EndOfEpochData             *EndOfEpochData `json:"endOfEpochData,omitempty"`
	ValidatorSignature         string          `json:"validatorSignature,omitempty"`
}
