// Package coral is the Go client SDK for the Coral ledger.
//
// The core [Client] is a transport-agnostic facade: one method per
// domain operation, each validating its inputs, dispatching over a
// pluggable [Transport], and returning canonical types from
// [github.com/coralledger/coral-go/types].
//
// Two remote transports ship with the SDK — JSON-RPC over HTTP
// (package jsonrpc) and GraphQL (package graphql) — plus an
// in-process transport over an in-memory ledger (package local) for
// tests and development. A GraphQL transport substitutes for a
// JSON-RPC transport without any change to the client's surface.
package coral

import (
	"context"
	"encoding/json"

	"github.com/coralledger/coral-go/types"
)

// Transport executes one logical request against a backend,
// independent of the wire protocol the backend speaks.
//
// Exactly one transport is active per Client. Transports hold the
// only shared resource in the SDK (the underlying connection); the
// Client itself is stateless across calls and safe for concurrent
// use.
type Transport interface {
	// Request sends method+params and returns the raw result in the
	// canonical wire shape. Failures — network errors, malformed
	// responses, backend-reported errors — surface as
	// *TransportError.
	Request(ctx context.Context, method string, params []any) (json.RawMessage, error)

	// Subscribe opens a push channel and invokes onMessage for every
	// server-pushed event until the returned Unsubscribe is called.
	// Unsubscribe sends unsubscribeMethod and closes the channel.
	//
	// Transports without a push channel return *TransportError.
	Subscribe(ctx context.Context, method, unsubscribeMethod string, params []any, onMessage func(json.RawMessage)) (Unsubscribe, error)
}

// Unsubscribe tears down one subscription. Safe to call more than
// once; calls after the first are no-ops.
type Unsubscribe func() error

// Signer signs fully-resolved transaction bytes on behalf of one
// address.
type Signer interface {
	// Address returns the address signatures are produced for.
	Address() types.Address

	// SignTransaction signs the given transaction bytes and returns
	// the serialized signature.
	SignTransaction(ctx context.Context, txBytes []byte) (string, error)
}

// Transaction is a buildable transaction accepted by
// [Client.SignAndExecuteTransaction]. The client finalizes the sender
// before building, and builds before signing — signatures are
// computed over fully-resolved bytes.
type Transaction interface {
	// Sender returns the transaction's sender, or "" if unset.
	Sender() types.Address

	// SetSender assigns the sender. Called by the client when the
	// sender is unset.
	SetSender(types.Address)

	// Build resolves the transaction against the given client and
	// returns the raw bytes to sign.
	Build(ctx context.Context, c *Client) ([]byte, error)
}

// RawTransaction adapts pre-built transaction bytes to the
// Transaction interface. Build returns the bytes verbatim.
type RawTransaction []byte

func (RawTransaction) Sender() types.Address   { return "" }
func (RawTransaction) SetSender(types.Address) {}

func (r RawTransaction) Build(context.Context, *Client) ([]byte, error) {
	return []byte(r), nil
}
