package bcr

import (
	"sync"

	"github.com/fappels/zapplica-plugin-honeywellbcr/bridge"
)

// fakeReader stands in for the native plugin. Scans are pushed by the
// test with Emit; every pending read receives them.
type fakeReader struct {
	mu       sync.Mutex
	state    ReaderState
	reads    []*bridge.CallbackContext
	silent   map[string]bool
	failWith map[string]string
}

func newFakeReader() *fakeReader {
	return &fakeReader{
		silent:   make(map[string]bool),
		failWith: make(map[string]string),
	}
}

func (f *fakeReader) Execute(action string, args []interface{}, cb *bridge.CallbackContext) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.silent[action] {
		return true
	}
	if msg, ok := f.failWith[action]; ok {
		cb.Error(msg)
		return true
	}

	switch action {
	case ActionInit:
		f.state = StateReady
		cb.Success(nil)
	case ActionDestroy:
		f.state = StateDestroyed
		cb.Success(nil)
		for _, r := range f.reads {
			r.Error("Not Read")
		}
		f.reads = nil
	case ActionGetState:
		cb.Success(map[string]int{"state": int(f.state)})
	case ActionRead:
		f.state = StateReading
		f.reads = append(f.reads, cb)
	default:
		return false
	}
	return true
}

func (f *fakeReader) Emit(payload interface{}) {
	f.mu.Lock()
	reads := append([]*bridge.CallbackContext(nil), f.reads...)
	f.mu.Unlock()

	for _, r := range reads {
		r.SendResult(bridge.Result{Status: bridge.StatusOK, KeepCallback: true, Message: bridge.Message(payload)})
	}
}

func (f *fakeReader) Fail(msg string) {
	f.mu.Lock()
	reads := append([]*bridge.CallbackContext(nil), f.reads...)
	f.mu.Unlock()

	for _, r := range reads {
		r.SendResult(bridge.Result{Status: bridge.StatusError, KeepCallback: true, Message: bridge.Message(msg)})
	}
}

func newFakeClient() (*Client, *fakeReader) {
	f := newFakeReader()
	b := bridge.NewLocalBridge()
	b.Register(PluginName, f)
	return New(b), f
}
