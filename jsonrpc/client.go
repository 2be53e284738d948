// Package jsonrpc provides the JSON-RPC-over-HTTP transport for the
// Coral client, with push subscriptions over a websocket side
// channel.
package jsonrpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	coral "github.com/coralledger/coral-go"
)

// Compile-time interface check.
var _ coral.Transport = (*Transport)(nil)

const defaultRequestTimeout = 30 * time.Second

// Transport speaks JSON-RPC 2.0 to one backend endpoint.
type Transport struct {
	endpoint   string
	wsEndpoint string
	httpClient *http.Client
	nextID     atomic.Int64
}

// Option configures a Transport.
type Option func(*Transport)

// WithHTTPClient substitutes the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(t *Transport) { t.httpClient = hc }
}

// WithWebsocketEndpoint overrides the websocket URL used for
// subscriptions. By default it is derived from the HTTP endpoint
// (http → ws, https → wss).
func WithWebsocketEndpoint(url string) Option {
	return func(t *Transport) { t.wsEndpoint = url }
}

// New creates a JSON-RPC transport for the given HTTP endpoint.
func New(endpoint string, opts ...Option) *Transport {
	t := &Transport{
		endpoint:   endpoint,
		wsEndpoint: deriveWebsocketEndpoint(endpoint),
		httpClient: &http.Client{Timeout: defaultRequestTimeout},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func deriveWebsocketEndpoint(endpoint string) string {
	switch {
	case strings.HasPrefix(endpoint, "https://"):
		return "wss://" + strings.TrimPrefix(endpoint, "https://")
	case strings.HasPrefix(endpoint, "http://"):
		return "ws://" + strings.TrimPrefix(endpoint, "http://")
	default:
		return endpoint
	}
}

// Request POSTs one JSON-RPC call and returns the raw result.
func (t *Transport) Request(ctx context.Context, method string, params []any) (json.RawMessage, error) {
	if params == nil {
		params = []any{}
	}
	id := t.nextID.Add(1)

	var body bytes.Buffer
	if err := json.NewEncoder(&body).Encode(request{
		JSONRPC: "2.0",
		ID:      id,
		Method:  method,
		Params:  params,
	}); err != nil {
		return nil, &coral.TransportError{Method: method, Err: fmt.Errorf("encode request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, &body)
	if err != nil {
		return nil, &coral.TransportError{Method: method, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := t.httpClient.Do(req)
	if err != nil {
		return nil, &coral.TransportError{Method: method, Err: err}
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return nil, &coral.TransportError{
			Method: method,
			Err:    fmt.Errorf("http status %d: %s", res.StatusCode, strings.TrimSpace(string(payload))),
		}
	}

	var resp response
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		return nil, &coral.TransportError{Method: method, Err: fmt.Errorf("malformed response: %w", err)}
	}
	if resp.Error != nil {
		return nil, &coral.TransportError{
			Method:  method,
			Code:    resp.Error.Code,
			Message: resp.Error.Message,
			Err:     fmt.Errorf("backend error %d: %s", resp.Error.Code, resp.Error.Message),
		}
	}
	if resp.ID != id {
		log.Ctx(ctx).Warn().
			Int64("want", id).
			Int64("got", resp.ID).
			Str("method", method).
			Msg("jsonrpc response id mismatch")
	}
	return resp.Result, nil
}
