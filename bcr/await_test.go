package bcr

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAndState(t *testing.T) {
	c, _ := newFakeClient()
	ctx := context.Background()

	s, err := c.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, StateNone, s)

	require.NoError(t, c.Open(ctx))
	s, err = c.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, StateReady, s)

	require.NoError(t, c.Release(ctx))
	s, err = c.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, StateDestroyed, s)
}

func TestOpenReturnsNativeError(t *testing.T) {
	c, f := newFakeClient()
	f.failWith[ActionInit] = "scanner busy"

	err := c.Open(context.Background())
	require.Error(t, err)
	var nerr *NativeError
	require.ErrorAs(t, err, &nerr)
	assert.Equal(t, "scanner busy", err.Error())
}

func TestStateHonoursContext(t *testing.T) {
	c, f := newFakeClient()
	f.silent[ActionGetState] = true

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.State(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestStateRejectsUnknownValue(t *testing.T) {
	b := &recordingBridge{}
	c := b.client()

	done := make(chan error, 1)
	go func() {
		_, err := c.State(context.Background())
		done <- err
	}()

	require.Eventually(t, func() bool { return len(b.Calls()) == 1 }, time.Second, time.Millisecond)
	b.Calls()[0].success([]byte(`{"state":42}`))

	select {
	case err := <-done:
		assert.ErrorIs(t, err, ErrUnknownState)
	case <-time.After(time.Second):
		t.Fatal("State did not return")
	}
}

func TestCancelledContextSendsNothing(t *testing.T) {
	b := &recordingBridge{}
	c := b.client()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, c.Open(ctx), context.Canceled)
	assert.ErrorIs(t, c.Release(ctx), context.Canceled)
	_, err := c.State(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, b.Calls())
}
