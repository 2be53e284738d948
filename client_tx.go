package coral

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/coralledger/coral-go/types"
)

// GetTransactionBlock fetches one transaction by digest.
func (c *Client) GetTransactionBlock(ctx context.Context, digest string, opts *types.TransactionBlockOptions) (*types.TransactionBlock, error) {
	d, err := validDigest("transaction digest", digest)
	if err != nil {
		return nil, err
	}
	var tb types.TransactionBlock
	if err := c.call(ctx, MethodGetTransactionBlock, []any{d, opts}, &tb); err != nil {
		return nil, err
	}
	return &tb, nil
}

// MultiGetTransactionBlocks fetches a batch of transactions in input
// order. Duplicate digests are rejected with a ValidationError before
// any network call.
func (c *Client) MultiGetTransactionBlocks(ctx context.Context, digests []string, opts *types.TransactionBlockOptions) ([]types.TransactionBlock, error) {
	ds, err := validDigests("transaction digest", digests)
	if err != nil {
		return nil, err
	}
	var tbs []types.TransactionBlock
	if err := c.call(ctx, MethodMultiGetTransactionBlocks, []any{ds, opts}, &tbs); err != nil {
		return nil, err
	}
	return tbs, nil
}

// QueryTransactionBlocks pages through transactions matching a query.
func (c *Client) QueryTransactionBlocks(ctx context.Context, query types.TransactionBlockQuery, cursor *types.Cursor, limit *int, descending bool) (*types.Page[types.TransactionBlock], error) {
	var page types.Page[types.TransactionBlock]
	if err := c.call(ctx, MethodQueryTransactionBlocks, []any{query, cursor, limit, descending}, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// ExecuteTransactionBlock submits signed transaction bytes for
// execution.
func (c *Client) ExecuteTransactionBlock(
	ctx context.Context,
	txBytes []byte,
	signatures []string,
	opts *types.TransactionBlockOptions,
	requestType types.ExecuteTransactionRequestType,
) (*types.TransactionBlock, error) {
	if len(txBytes) == 0 {
		return nil, &ValidationError{Field: "transaction bytes", Value: "", Err: fmt.Errorf("empty")}
	}
	if len(signatures) == 0 {
		return nil, &ValidationError{Field: "signatures", Value: "", Err: fmt.Errorf("at least one signature required")}
	}
	encoded := base64.StdEncoding.EncodeToString(txBytes)
	var tb types.TransactionBlock
	if err := c.call(ctx, MethodExecuteTransactionBlock, []any{encoded, signatures, opts, requestType}, &tb); err != nil {
		return nil, err
	}
	return &tb, nil
}

// SignAndExecuteTransaction builds, signs, and submits a transaction.
//
// If the transaction has no sender, the signer's address is assigned
// first; the transaction is then built against this client, signed
// over the fully-resolved bytes, and submitted. That ordering is
// load-bearing: a signature computed before the build would not
// cover the resolved bytes. Pre-built bytes pass through unchanged
// via [RawTransaction].
func (c *Client) SignAndExecuteTransaction(
	ctx context.Context,
	signer Signer,
	tx Transaction,
	opts *types.TransactionBlockOptions,
	requestType types.ExecuteTransactionRequestType,
) (*types.TransactionBlock, error) {
	if tx.Sender() == "" {
		tx.SetSender(signer.Address())
	}
	txBytes, err := tx.Build(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("build transaction: %w", err)
	}
	sig, err := signer.SignTransaction(ctx, txBytes)
	if err != nil {
		return nil, fmt.Errorf("sign transaction: %w", err)
	}
	return c.ExecuteTransactionBlock(ctx, txBytes, []string{sig}, opts, requestType)
}

// DevInspectTransactionBlock runs a transaction in inspection mode:
// no signatures required, nothing committed.
func (c *Client) DevInspectTransactionBlock(ctx context.Context, sender string, txBytes []byte, gasPrice, epoch *string) (*types.DevInspectResult, error) {
	addr, err := validAddress("sender", sender)
	if err != nil {
		return nil, err
	}
	encoded := base64.StdEncoding.EncodeToString(txBytes)
	var res types.DevInspectResult
	if err := c.call(ctx, MethodDevInspectTransactionBlock, []any{addr, encoded, gasPrice, epoch}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// DryRunTransactionBlock executes fully-built transaction bytes
// against current state without committing.
func (c *Client) DryRunTransactionBlock(ctx context.Context, txBytes []byte) (*types.DryRunResult, error) {
	if len(txBytes) == 0 {
		return nil, &ValidationError{Field: "transaction bytes", Value: "", Err: fmt.Errorf("empty")}
	}
	encoded := base64.StdEncoding.EncodeToString(txBytes)
	var res types.DryRunResult
	if err := c.call(ctx, MethodDryRunTransactionBlock, []any{encoded}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// SubscribeEvent opens a push channel for events matching the filter.
//
// Deprecated: push subscriptions are being phased out by the
// backends; poll QueryEvents instead.
func (c *Client) SubscribeEvent(ctx context.Context, filter types.EventFilter, onEvent func(types.Event)) (Unsubscribe, error) {
	return c.transport.Subscribe(ctx, MethodSubscribeEvent, MethodUnsubscribeEvent, []any{filter},
		func(raw json.RawMessage) {
			var ev types.Event
			if err := json.Unmarshal(raw, &ev); err != nil {
				return
			}
			onEvent(ev)
		})
}

// SubscribeTransaction opens a push channel for effects of
// transactions matching the filter.
//
// Deprecated: push subscriptions are being phased out by the
// backends; poll QueryTransactionBlocks instead.
func (c *Client) SubscribeTransaction(ctx context.Context, filter json.RawMessage, onEffects func(types.TransactionEffects)) (Unsubscribe, error) {
	return c.transport.Subscribe(ctx, MethodSubscribeTransaction, MethodUnsubscribeTransaction, []any{filter},
		func(raw json.RawMessage) {
			var eff types.TransactionEffects
			if err := json.Unmarshal(raw, &eff); err != nil {
				return
			}
			onEffects(eff)
		})
}
