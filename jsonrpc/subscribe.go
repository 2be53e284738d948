package jsonrpc

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	coral "github.com/coralledger/coral-go"
)

const unsubscribeTimeout = 5 * time.Second

// Subscribe dials the websocket endpoint, sends the subscribe
// request, and pumps server notifications into onMessage until the
// returned handle is called.
//
// One connection is held per subscription; it stays open until
// unsubscribed or the server closes it.
func (t *Transport) Subscribe(ctx context.Context, method, unsubscribeMethod string, params []any, onMessage func(json.RawMessage)) (coral.Unsubscribe, error) {
	if params == nil {
		params = []any{}
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, t.wsEndpoint, nil)
	if err != nil {
		return nil, &coral.TransportError{Method: method, Err: fmt.Errorf("dial %s: %w", t.wsEndpoint, err)}
	}

	id := t.nextID.Add(1)
	if err := conn.WriteJSON(request{JSONRPC: "2.0", ID: id, Method: method, Params: params}); err != nil {
		conn.Close()
		return nil, &coral.TransportError{Method: method, Err: fmt.Errorf("send subscribe: %w", err)}
	}

	// The first frame is the subscription id.
	var resp response
	if err := conn.ReadJSON(&resp); err != nil {
		conn.Close()
		return nil, &coral.TransportError{Method: method, Err: fmt.Errorf("read subscribe response: %w", err)}
	}
	if resp.Error != nil {
		conn.Close()
		return nil, &coral.TransportError{
			Method:  method,
			Code:    resp.Error.Code,
			Message: resp.Error.Message,
			Err:     fmt.Errorf("backend error %d: %s", resp.Error.Code, resp.Error.Message),
		}
	}
	var subID uint64
	if err := json.Unmarshal(resp.Result, &subID); err != nil {
		conn.Close()
		return nil, &coral.TransportError{Method: method, Err: fmt.Errorf("malformed subscription id: %w", err)}
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			var note notification
			if err := conn.ReadJSON(&note); err != nil {
				log.Ctx(ctx).Debug().Err(err).Str("method", method).Msg("subscription read loop ended")
				return
			}
			if note.Params.Subscription != subID {
				continue
			}
			onMessage(note.Params.Result)
		}
	}()

	var once sync.Once
	var unsubErr error
	unsubscribe := func() error {
		once.Do(func() {
			if err := conn.WriteJSON(request{
				JSONRPC: "2.0",
				ID:      t.nextID.Add(1),
				Method:  unsubscribeMethod,
				Params:  []any{subID},
			}); err != nil {
				unsubErr = fmt.Errorf("send unsubscribe: %w", err)
			}
			conn.Close()
			select {
			case <-done:
			case <-time.After(unsubscribeTimeout):
			}
		})
		return unsubErr
	}
	return unsubscribe, nil
}
