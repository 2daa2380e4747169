package bridge

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type callbackPair struct {
	success Callback
	failure Callback
}

// Registry keeps the callbacks of in-flight calls until their final result.
type Registry struct {
	mu      sync.Mutex
	pending map[string]callbackPair
}

func NewRegistry() *Registry {
	return &Registry{pending: make(map[string]callbackPair)}
}

// Add registers a callback pair and returns its id.
func (r *Registry) Add(success, failure Callback) string {
	id := uuid.New().String()
	r.mu.Lock()
	r.pending[id] = callbackPair{success: success, failure: failure}
	r.mu.Unlock()
	return id
}

// Remove drops a callback pair without invoking it.
func (r *Registry) Remove(id string) (success, failure Callback, ok bool) {
	r.mu.Lock()
	p, ok := r.pending[id]
	delete(r.pending, id)
	r.mu.Unlock()
	return p.success, p.failure, ok
}

// Deliver routes a result to its callbacks. The pair stays registered
// only when the result asks to keep it. Returns false for unknown ids.
func (r *Registry) Deliver(res Result) bool {
	r.mu.Lock()
	p, ok := r.pending[res.CallbackID]
	if ok && !res.KeepCallback {
		delete(r.pending, res.CallbackID)
	}
	r.mu.Unlock()

	if !ok {
		log.Debugf("bridge: dropping result for unknown callback %v", res.CallbackID)
		return false
	}
	res.route(p.success, p.failure)
	return true
}

// FailAll fails and drops every pending callback.
func (r *Registry) FailAll(payload json.RawMessage) {
	r.mu.Lock()
	pending := r.pending
	r.pending = make(map[string]callbackPair)
	r.mu.Unlock()

	for _, p := range pending {
		if p.failure != nil {
			p.failure(payload)
		}
	}
}

// Len returns the number of registered callback pairs.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}
