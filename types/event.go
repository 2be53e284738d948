package types

import "encoding/json"

// EventID locates an event within the transaction that emitted it.
type EventID struct {
	TxDigest Digest `json:"txDigest"`
	EventSeq string `json:"eventSeq"`
}

// Event is an on-chain event emitted by a Move module.
type Event struct {
	ID                EventID         `json:"id"`
	PackageID         ObjectID        `json:"packageId"`
	TransactionModule string          `json:"transactionModule"`
	Sender            Address         `json:"sender"`
	Type              string          `json:"type"`
	ParsedJSON        json.RawMessage `json:"parsedJson,omitempty"`
	BCS               string          `json:"bcs,omitempty"`
	TimestampMs       *string         `json:"timestampMs,omitempty"`
}

// EventFilter is a backend-native event filter document, left opaque
// to the client.
type EventFilter = json.RawMessage
