// Package graphql provides the GraphQL transport for the Coral
// client. It translates logical method names into query documents,
// executes them over HTTP, and normalizes the GraphQL response
// shapes into the canonical wire shape, so the client facade cannot
// tell it apart from the JSON-RPC transport.
//
// The read surface is covered; transaction submission, dev-inspect,
// system state, and push subscriptions remain JSON-RPC-only until the
// backend schema exposes them. Requesting one of those here returns a
// *coral.TransportError.
package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	coral "github.com/coralledger/coral-go"
)

// Compile-time interface check.
var _ coral.Transport = (*Transport)(nil)

const defaultRequestTimeout = 30 * time.Second

// Transport speaks GraphQL to one backend endpoint.
type Transport struct {
	endpoint   string
	httpClient *http.Client
	strict     bool
}

// Option configures a Transport.
type Option func(*Transport)

// WithHTTPClient substitutes the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(t *Transport) { t.httpClient = hc }
}

// WithStrictShapes makes the normalizer fail on structurally
// unexpected optional payloads (for example an end-of-epoch
// transaction of an unknown kind) instead of treating them as
// absent. The default is lenient: optional structure that does not
// match is omitted, not an error.
func WithStrictShapes() Option {
	return func(t *Transport) { t.strict = true }
}

// New creates a GraphQL transport for the given endpoint.
func New(endpoint string, opts ...Option) *Transport {
	t := &Transport{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: defaultRequestTimeout},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Subscribe always fails: the GraphQL backend has no push channel.
func (t *Transport) Subscribe(ctx context.Context, method, unsubscribeMethod string, params []any, onMessage func(json.RawMessage)) (coral.Unsubscribe, error) {
	return nil, &coral.TransportError{Method: method, Err: fmt.Errorf("subscriptions are not supported by the GraphQL transport")}
}

// Request translates the logical method into a query document,
// executes it, and returns the normalized result in the canonical
// wire shape.
func (t *Transport) Request(ctx context.Context, method string, params []any) (json.RawMessage, error) {
	out, err := t.dispatch(ctx, method, params)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(out)
	if err != nil {
		return nil, &coral.TransportError{Method: method, Err: fmt.Errorf("encode normalized result: %w", err)}
	}
	return raw, nil
}

func (t *Transport) dispatch(ctx context.Context, method string, params []any) (any, error) {
	switch method {
	case coral.MethodGetChainIdentifier:
		return t.chainIdentifier(ctx)
	case coral.MethodGetCheckpoint:
		return t.getCheckpoint(ctx, method, params)
	case coral.MethodGetCheckpoints:
		return t.getCheckpoints(ctx, method, params)
	case coral.MethodGetLatestCheckpointSequence:
		return t.latestCheckpointSequence(ctx, method)
	case coral.MethodGetTotalTransactionBlocks:
		return t.totalTransactionBlocks(ctx, method)
	case coral.MethodGetReferenceGasPrice:
		return t.referenceGasPrice(ctx, method)
	case coral.MethodGetProtocolConfig:
		return t.protocolConfig(ctx, method)
	case coral.MethodGetBalance:
		return t.getBalance(ctx, method, params)
	case coral.MethodGetAllBalances:
		return t.getAllBalances(ctx, method, params)
	case coral.MethodGetCoins, coral.MethodGetAllCoins:
		return t.getCoins(ctx, method, params)
	case coral.MethodGetObject:
		return t.getObject(ctx, method, params)
	case coral.MethodMultiGetObjects:
		return t.multiGetObjects(ctx, method, params)
	case coral.MethodGetOwnedObjects:
		return t.getOwnedObjects(ctx, method, params)
	case coral.MethodGetDynamicFields:
		return t.getDynamicFields(ctx, method, params)
	case coral.MethodGetDynamicFieldObject:
		return t.getDynamicFieldObject(ctx, method, params)
	case coral.MethodGetTransactionBlock:
		return t.getTransactionBlock(ctx, method, params)
	case coral.MethodMultiGetTransactionBlocks:
		return t.multiGetTransactionBlocks(ctx, method, params)
	case coral.MethodQueryTransactionBlocks:
		return t.queryTransactionBlocks(ctx, method, params)
	case coral.MethodQueryEvents:
		return t.queryEvents(ctx, method, params)
	default:
		return nil, &coral.TransportError{Method: method, Err: fmt.Errorf("method not supported by the GraphQL transport")}
	}
}

// graphqlRequest is the wire envelope for one query execution.
type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphqlError  `json:"errors,omitempty"`
}

type graphqlError struct {
	Message string `json:"message"`
}

// exec runs one query document and decodes data into out.
func (t *Transport) exec(ctx context.Context, method, query string, variables map[string]any, out any) error {
	var body bytes.Buffer
	if err := json.NewEncoder(&body).Encode(graphqlRequest{Query: query, Variables: variables}); err != nil {
		return &coral.TransportError{Method: method, Err: fmt.Errorf("encode request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, &body)
	if err != nil {
		return &coral.TransportError{Method: method, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := t.httpClient.Do(req)
	if err != nil {
		return &coral.TransportError{Method: method, Err: err}
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return &coral.TransportError{
			Method: method,
			Err:    fmt.Errorf("http status %d: %s", res.StatusCode, strings.TrimSpace(string(payload))),
		}
	}

	var resp graphqlResponse
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		return &coral.TransportError{Method: method, Err: fmt.Errorf("malformed response: %w", err)}
	}
	if len(resp.Errors) > 0 {
		msgs := make([]string, len(resp.Errors))
		for i, e := range resp.Errors {
			msgs[i] = e.Message
		}
		return &coral.TransportError{
			Method:  method,
			Message: strings.Join(msgs, "; "),
			Err:     fmt.Errorf("graphql errors: %s", strings.Join(msgs, "; ")),
		}
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return &coral.TransportError{Method: method, Err: fmt.Errorf("malformed data: %w", err)}
	}
	return nil
}

// --- Param helpers ---

func stringArg(params []any, i int) (string, bool) {
	if i >= len(params) {
		return "", false
	}
	switch v := params[i].(type) {
	case string:
		return v, true
	case fmt.Stringer:
		return v.String(), true
	}
	return "", false
}

func optStringArg(params []any, i int) *string {
	if i >= len(params) || params[i] == nil {
		return nil
	}
	switch v := params[i].(type) {
	case *string:
		return v
	case string:
		return &v
	}
	if s, ok := stringArg(params, i); ok {
		return &s
	}
	return nil
}

func optIntArg(params []any, i int) *int {
	if i >= len(params) || params[i] == nil {
		return nil
	}
	if v, ok := params[i].(*int); ok {
		return v
	}
	if v, ok := params[i].(int); ok {
		return &v
	}
	return nil
}

func boolArg(params []any, i int) bool {
	if i >= len(params) {
		return false
	}
	v, _ := params[i].(bool)
	return v
}

func missingArg(method string, i int) error {
	return &coral.TransportError{Method: method, Err: fmt.Errorf("missing argument %d", i)}
}

// pageVariables maps a cursor+limit pair onto relay-style pagination
// variables. Descending traversals page backwards.
func pageVariables(vars map[string]any, cursor *string, limit *int, descending bool) {
	if descending {
		if limit != nil {
			vars["last"] = *limit
		}
		if cursor != nil {
			vars["before"] = *cursor
		}
		return
	}
	if limit != nil {
		vars["first"] = *limit
	}
	if cursor != nil {
		vars["after"] = *cursor
	}
}
