package coral

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/coralledger/coral-go/types"
)

// Client is the single entry point to a Coral backend: one method per
// domain operation. It owns input validation and the V1/V2
// system-state fallback policy; everything wire-level belongs to the
// Transport.
//
// A Client holds no mutable state and is safe for concurrent use.
// Requests issued concurrently are independent: the client neither
// serializes nor orders them.
type Client struct {
	transport Transport
}

// NewClient creates a client over the given transport.
func NewClient(t Transport) *Client {
	return &Client{transport: t}
}

// call dispatches one request and decodes the canonical-shaped result
// into out. A nil out discards the result.
func (c *Client) call(ctx context.Context, method string, params []any, out any) error {
	raw, err := c.transport.Request(ctx, method, params)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &TransportError{Method: method, Err: fmt.Errorf("malformed result: %w", err)}
	}
	return nil
}

// --- Validation ---

func validAddress(field, s string) (types.Address, error) {
	a, err := types.ParseAddress(s)
	if err != nil {
		return "", &ValidationError{Field: field, Value: s, Err: err}
	}
	return a, nil
}

func validObjectID(field, s string) (types.ObjectID, error) {
	id, err := types.ParseObjectID(s)
	if err != nil {
		return "", &ValidationError{Field: field, Value: s, Err: err}
	}
	return id, nil
}

func validDigest(field, s string) (types.Digest, error) {
	d, err := types.ParseDigest(s)
	if err != nil {
		return "", &ValidationError{Field: field, Value: s, Err: err}
	}
	return d, nil
}

// validObjectIDs normalizes a batch of ids and rejects duplicates.
// Duplicates are judged after normalization, so "0xA" and
// "0x0...0a" collide. The guard exists because backends do not
// promise to preserve input order or keep duplicate entries distinct,
// which would make result-to-input mapping ambiguous.
func validObjectIDs(field string, ss []string) ([]types.ObjectID, error) {
	ids := make([]types.ObjectID, 0, len(ss))
	seen := make(map[types.ObjectID]struct{}, len(ss))
	for _, s := range ss {
		id, err := validObjectID(field, s)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[id]; dup {
			return nil, &ValidationError{Field: field, Value: s, Err: fmt.Errorf("duplicate id in batch")}
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}

func validDigests(field string, ss []string) ([]types.Digest, error) {
	ds := make([]types.Digest, 0, len(ss))
	seen := make(map[types.Digest]struct{}, len(ss))
	for _, s := range ss {
		d, err := validDigest(field, s)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[d]; dup {
			return nil, &ValidationError{Field: field, Value: s, Err: fmt.Errorf("duplicate digest in batch")}
		}
		seen[d] = struct{}{}
		ds = append(ds, d)
	}
	return ds, nil
}

// --- Chain / checkpoints ---

// GetChainIdentifier returns the chain's identifier (the first four
// bytes of the genesis checkpoint digest, hex encoded).
func (c *Client) GetChainIdentifier(ctx context.Context) (string, error) {
	var id string
	if err := c.call(ctx, MethodGetChainIdentifier, nil, &id); err != nil {
		return "", err
	}
	return id, nil
}

// GetCheckpoint fetches one checkpoint by sequence number (decimal
// string) or digest.
func (c *Client) GetCheckpoint(ctx context.Context, id string) (*types.Checkpoint, error) {
	var cp types.Checkpoint
	if err := c.call(ctx, MethodGetCheckpoint, []any{id}, &cp); err != nil {
		return nil, err
	}
	return &cp, nil
}

// GetCheckpoints pages through checkpoints in sequence order, or in
// reverse when descending is set.
func (c *Client) GetCheckpoints(ctx context.Context, cursor *types.Cursor, limit *int, descending bool) (*types.Page[types.Checkpoint], error) {
	var page types.Page[types.Checkpoint]
	if err := c.call(ctx, MethodGetCheckpoints, []any{cursor, limit, descending}, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetLatestCheckpointSequenceNumber returns the sequence number of
// the most recently committed checkpoint.
func (c *Client) GetLatestCheckpointSequenceNumber(ctx context.Context) (string, error) {
	var seq string
	if err := c.call(ctx, MethodGetLatestCheckpointSequence, nil, &seq); err != nil {
		return "", err
	}
	return seq, nil
}

// GetTotalTransactionBlocks returns the network-wide transaction
// count as a decimal string.
func (c *Client) GetTotalTransactionBlocks(ctx context.Context) (string, error) {
	var total string
	if err := c.call(ctx, MethodGetTotalTransactionBlocks, nil, &total); err != nil {
		return "", err
	}
	return total, nil
}

// GetReferenceGasPrice returns the current epoch's reference gas
// price as a decimal string.
func (c *Client) GetReferenceGasPrice(ctx context.Context) (string, error) {
	var price string
	if err := c.call(ctx, MethodGetReferenceGasPrice, nil, &price); err != nil {
		return "", err
	}
	return price, nil
}

// --- Objects ---

// GetObject fetches one object by id.
func (c *Client) GetObject(ctx context.Context, objectID string, opts *types.ObjectDataOptions) (*types.ObjectResponse, error) {
	id, err := validObjectID("object id", objectID)
	if err != nil {
		return nil, err
	}
	var resp types.ObjectResponse
	if err := c.call(ctx, MethodGetObject, []any{id, opts}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// MultiGetObjects fetches a batch of objects. Results are returned in
// input order. Duplicate ids in one batch are rejected with a
// ValidationError before any network call.
func (c *Client) MultiGetObjects(ctx context.Context, objectIDs []string, opts *types.ObjectDataOptions) ([]types.ObjectResponse, error) {
	ids, err := validObjectIDs("object id", objectIDs)
	if err != nil {
		return nil, err
	}
	var resps []types.ObjectResponse
	if err := c.call(ctx, MethodMultiGetObjects, []any{ids, opts}, &resps); err != nil {
		return nil, err
	}
	return resps, nil
}

// GetOwnedObjects pages through objects owned by an address.
func (c *Client) GetOwnedObjects(ctx context.Context, owner string, query *types.ObjectResponseQuery, cursor *types.Cursor, limit *int) (*types.Page[types.ObjectResponse], error) {
	addr, err := validAddress("owner", owner)
	if err != nil {
		return nil, err
	}
	var page types.Page[types.ObjectResponse]
	if err := c.call(ctx, MethodGetOwnedObjects, []any{addr, query, cursor, limit}, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetDynamicFields pages through the dynamic fields attached to a
// parent object.
func (c *Client) GetDynamicFields(ctx context.Context, parentID string, cursor *types.Cursor, limit *int) (*types.Page[types.DynamicFieldInfo], error) {
	id, err := validObjectID("parent object id", parentID)
	if err != nil {
		return nil, err
	}
	var page types.Page[types.DynamicFieldInfo]
	if err := c.call(ctx, MethodGetDynamicFields, []any{id, cursor, limit}, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetDynamicFieldObject fetches the object backing one dynamic field.
func (c *Client) GetDynamicFieldObject(ctx context.Context, parentID string, name types.DynamicFieldName) (*types.ObjectResponse, error) {
	id, err := validObjectID("parent object id", parentID)
	if err != nil {
		return nil, err
	}
	var resp types.ObjectResponse
	if err := c.call(ctx, MethodGetDynamicFieldObject, []any{id, name}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// --- Coins and balances ---

// GetCoins pages through an owner's coins of one type. A nil
// coinType selects the chain's gas coin.
func (c *Client) GetCoins(ctx context.Context, owner string, coinType *string, cursor *types.Cursor, limit *int) (*types.Page[types.Coin], error) {
	addr, err := validAddress("owner", owner)
	if err != nil {
		return nil, err
	}
	var page types.Page[types.Coin]
	if err := c.call(ctx, MethodGetCoins, []any{addr, coinType, cursor, limit}, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetAllCoins pages through an owner's coins across all coin types.
func (c *Client) GetAllCoins(ctx context.Context, owner string, cursor *types.Cursor, limit *int) (*types.Page[types.Coin], error) {
	addr, err := validAddress("owner", owner)
	if err != nil {
		return nil, err
	}
	var page types.Page[types.Coin]
	if err := c.call(ctx, MethodGetAllCoins, []any{addr, cursor, limit}, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetBalance returns the aggregate balance of one coin type for an
// owner. A nil coinType selects the chain's gas coin.
func (c *Client) GetBalance(ctx context.Context, owner string, coinType *string) (*types.CoinBalance, error) {
	addr, err := validAddress("owner", owner)
	if err != nil {
		return nil, err
	}
	var bal types.CoinBalance
	if err := c.call(ctx, MethodGetBalance, []any{addr, coinType}, &bal); err != nil {
		return nil, err
	}
	return &bal, nil
}

// GetAllBalances returns the aggregate balance of every coin type an
// owner holds.
func (c *Client) GetAllBalances(ctx context.Context, owner string) ([]types.CoinBalance, error) {
	addr, err := validAddress("owner", owner)
	if err != nil {
		return nil, err
	}
	var bals []types.CoinBalance
	if err := c.call(ctx, MethodGetAllBalances, []any{addr}, &bals); err != nil {
		return nil, err
	}
	return bals, nil
}

// GetCoinMetadata returns display parameters for a coin type, or nil
// if the type is unknown.
func (c *Client) GetCoinMetadata(ctx context.Context, coinType string) (*types.CoinMetadata, error) {
	var meta *types.CoinMetadata
	if err := c.call(ctx, MethodGetCoinMetadata, []any{coinType}, &meta); err != nil {
		return nil, err
	}
	return meta, nil
}

// GetTotalSupply returns the minted supply of a coin type.
func (c *Client) GetTotalSupply(ctx context.Context, coinType string) (*types.Supply, error) {
	var supply types.Supply
	if err := c.call(ctx, MethodGetTotalSupply, []any{coinType}, &supply); err != nil {
		return nil, err
	}
	return &supply, nil
}

// --- Events ---

// QueryEvents pages through events matching a filter.
func (c *Client) QueryEvents(ctx context.Context, filter types.EventFilter, cursor *types.Cursor, limit *int, descending bool) (*types.Page[types.Event], error) {
	var page types.Page[types.Event]
	if err := c.call(ctx, MethodQueryEvents, []any{filter, cursor, limit, descending}, &page); err != nil {
		return nil, err
	}
	return &page, nil
}
