package types

import "encoding/json"

// ExecutionStatus is the terminal status of an executed transaction.
type ExecutionStatus struct {
	Status string `json:"status"` // "success" or "failure"
	Error  string `json:"error,omitempty"`
}

// OK reports whether execution succeeded.
func (s ExecutionStatus) OK() bool { return s.Status == "success" }

// TransactionEffects is the execution outcome of one transaction.
// Effects exist only after execution: a transaction looked up before
// finality has a nil Effects field.
type TransactionEffects struct {
	Status            ExecutionStatus  `json:"status"`
	ExecutedEpoch     string           `json:"executedEpoch"`
	GasUsed           GasCostSummary   `json:"gasUsed"`
	TransactionDigest Digest           `json:"transactionDigest"`
	Created           []OwnedObjectRef `json:"created,omitempty"`
	Mutated           []OwnedObjectRef `json:"mutated,omitempty"`
	Deleted           []ObjectRef      `json:"deleted,omitempty"`
	GasObject         *OwnedObjectRef  `json:"gasObject,omitempty"`
	EventsDigest      *Digest          `json:"eventsDigest,omitempty"`
	Dependencies      []Digest         `json:"dependencies,omitempty"`
}

// OwnedObjectRef pairs an object reference with its (new) owner.
type OwnedObjectRef struct {
	Owner     ObjectOwner `json:"owner"`
	Reference ObjectRef   `json:"reference"`
}

// BalanceChange records the net balance movement of one coin type
// for one owner across a transaction.
type BalanceChange struct {
	Owner    ObjectOwner `json:"owner"`
	CoinType string      `json:"coinType"`
	// Amount is a signed decimal string.
	Amount string `json:"amount"`
}

// TransactionBlock is the canonical record of a transaction: the
// submission envelope plus, after execution, its effects.
type TransactionBlock struct {
	Digest Digest `json:"digest"`
	// Transaction is the backend-rendered transaction data, opaque.
	Transaction json.RawMessage `json:"transaction,omitempty"`
	// RawTransaction is the base64-encoded signed transaction bytes.
	RawTransaction string              `json:"rawTransaction,omitempty"`
	Effects        *TransactionEffects `json:"effects,omitempty"`
	Events         []Event             `json:"events,omitempty"`
	ObjectChanges  []json.RawMessage   `json:"objectChanges,omitempty"`
	BalanceChanges []BalanceChange     `json:"balanceChanges,omitempty"`
	TimestampMs    *string             `json:"timestampMs,omitempty"`
	Checkpoint     *string             `json:"checkpoint,omitempty"`
	Errors         []string            `json:"errors,omitempty"`
}

// TransactionBlockOptions selects which optional fields the backend
// should populate on returned transaction blocks.
type TransactionBlockOptions struct {
	ShowInput          bool `json:"showInput,omitempty"`
	ShowRawInput       bool `json:"showRawInput,omitempty"`
	ShowEffects        bool `json:"showEffects,omitempty"`
	ShowEvents         bool `json:"showEvents,omitempty"`
	ShowObjectChanges  bool `json:"showObjectChanges,omitempty"`
	ShowBalanceChanges bool `json:"showBalanceChanges,omitempty"`
}

// TransactionBlockQuery filters and shapes a transaction listing.
type TransactionBlockQuery struct {
	// Filter is a backend-native transaction filter document.
	Filter  json.RawMessage          `json:"filter,omitempty"`
	Options *TransactionBlockOptions `json:"options,omitempty"`
}

// ExecuteTransactionRequestType selects when ExecuteTransactionBlock
// returns relative to finality.
type ExecuteTransactionRequestType string

const (
	// WaitForEffectsCert returns once an effects certificate is
	// available, before checkpoint inclusion.
	WaitForEffectsCert ExecuteTransactionRequestType = "WaitForEffectsCert"
	// WaitForLocalExecution returns after the node has executed the
	// transaction locally.
	WaitForLocalExecution ExecuteTransactionRequestType = "WaitForLocalExecution"
)

// DevInspectResult is the outcome of a dev-inspect run: execution
// results without any on-chain effect.
type DevInspectResult struct {
	Effects TransactionEffects `json:"effects"`
	Events  []Event            `json:"events"`
	Results json.RawMessage    `json:"results,omitempty"`
	Error   *string            `json:"error,omitempty"`
}

// DryRunResult is the outcome of a dry run against current state.
type DryRunResult struct {
	Effects        TransactionEffects `json:"effects"`
	Events         []Event            `json:"events"`
	ObjectChanges  []json.RawMessage  `json:"objectChanges,omitempty"`
	BalanceChanges []BalanceChange    `json:"balanceChanges,omitempty"`
	Input          json.RawMessage    `json:"input,omitempty"`
}
