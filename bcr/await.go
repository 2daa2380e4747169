package bcr

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/fappels/zapplica-plugin-honeywellbcr/bridge"
)

type outcome struct {
	payload json.RawMessage
	err     error
}

// await runs a one-shot operation and blocks until its first callback or
// until ctx is done. Later firings are ignored. Nothing is sent when ctx
// is already done.
func await(ctx context.Context, op func(success, failure bridge.Callback)) (json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ch := make(chan outcome, 1)
	var once sync.Once
	deliver := func(o outcome) {
		once.Do(func() { ch <- o })
	}

	op(
		func(payload json.RawMessage) { deliver(outcome{payload: payload}) },
		func(payload json.RawMessage) { deliver(outcome{err: &NativeError{Payload: payload}}) },
	)

	select {
	case o := <-ch:
		return o.payload, o.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Open runs Init and waits for its outcome.
func (c *Client) Open(ctx context.Context) error {
	_, err := await(ctx, c.Init)
	return err
}

// Release runs Destroy and waits for its outcome.
func (c *Client) Release(ctx context.Context) error {
	_, err := await(ctx, c.Destroy)
	return err
}

// State runs GetState and decodes the reported state.
func (c *Client) State(ctx context.Context) (ReaderState, error) {
	payload, err := await(ctx, c.GetState)
	if err != nil {
		return StateNone, err
	}
	return DecodeState(payload)
}
