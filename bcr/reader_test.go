package bcr

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nextEvent(t *testing.T, r ScanReader) ScanEvent {
	t.Helper()
	select {
	case e, open := <-r.Events():
		require.True(t, open, "events closed")
		return e
	case <-time.After(time.Second):
		t.Fatal("no event")
	}
	return ScanEvent{}
}

func TestScanReaderDeliversEveryScan(t *testing.T) {
	c, f := newFakeClient()
	require.NoError(t, c.Open(context.Background()))

	r := NewScanReader(c, 4)
	defer r.Close()

	f.Emit("123456")
	f.Emit(map[string]string{"text": "654321", "format": "j"})
	f.Fail("Not Read")

	assert.Equal(t, ScanEvent{Scan: Scan{Text: "123456"}}, nextEvent(t, r))
	assert.Equal(t, ScanEvent{Scan: Scan{Text: "654321", Format: "j"}}, nextEvent(t, r))

	e := nextEvent(t, r)
	require.Error(t, e.Err)
	assert.Equal(t, "Not Read", e.Err.Error())
}

func TestScanReaderCloseDestroys(t *testing.T) {
	c, f := newFakeClient()
	require.NoError(t, c.Open(context.Background()))

	r := NewScanReader(c, 4)
	require.NoError(t, r.Close())
	require.NoError(t, r.Close())

	_, open := <-r.Events()
	assert.False(t, open)

	s, err := c.State(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateDestroyed, s)

	f.Emit("late")
}

func TestScanReaderDropsWhenFull(t *testing.T) {
	c, f := newFakeClient()
	r := NewScanReader(c, 1)
	defer r.Close()

	f.Emit("first")
	f.Emit("second")

	assert.Equal(t, "first", nextEvent(t, r).Scan.Text)
	select {
	case e := <-r.Events():
		t.Fatalf("unexpected event %+v", e)
	default:
	}
}
