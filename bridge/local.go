package bridge

import (
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"
)

// Plugin is a native plugin hosted in-process. Execute returns false when
// the action is not supported; results go through cb, now or later.
type Plugin interface {
	Execute(action string, args []interface{}, cb *CallbackContext) bool
}

// PluginFunc adapts an ordinary function to the Plugin interface.
type PluginFunc func(action string, args []interface{}, cb *CallbackContext) bool

func (f PluginFunc) Execute(action string, args []interface{}, cb *CallbackContext) bool {
	return f(action, args, cb)
}

// CallbackContext is the plugin side of one Exec.
type CallbackContext struct {
	mu       sync.Mutex
	id       string
	finished bool
	send     func(Result)
}

// NewCallbackContext returns a context handing results to send.
func NewCallbackContext(id string, send func(Result)) *CallbackContext {
	return &CallbackContext{id: id, send: send}
}

func (c *CallbackContext) ID() string {
	return c.id
}

// Finished reports whether a final result was already sent.
func (c *CallbackContext) Finished() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.finished
}

// SendResult sends a result. Results after a final one are dropped.
func (c *CallbackContext) SendResult(res Result) {
	c.mu.Lock()
	if c.finished {
		c.mu.Unlock()
		log.Debugf("bridge: callback %v already finished, dropping %v result", c.id, res.Status)
		return
	}
	if !res.KeepCallback {
		c.finished = true
	}
	c.mu.Unlock()

	res.CallbackID = c.id
	c.send(res)
}

func (c *CallbackContext) Success(v interface{}) {
	c.SendResult(Result{Status: StatusOK, Message: Message(v)})
}

func (c *CallbackContext) Error(v interface{}) {
	c.SendResult(Result{Status: StatusError, Message: Message(v)})
}

// LocalBridge dispatches calls to plugins registered in the same process.
type LocalBridge struct {
	mu      sync.RWMutex
	plugins map[string]Plugin
}

func NewLocalBridge() *LocalBridge {
	return &LocalBridge{plugins: make(map[string]Plugin)}
}

// Register installs p under service, replacing any previous plugin.
func (b *LocalBridge) Register(service string, p Plugin) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.plugins[service] = p
}

func (b *LocalBridge) Exec(success, failure Callback, service, action string, args []interface{}) {
	b.dispatch(Call{Service: service, Action: action, Args: args}, func(res Result) {
		res.route(success, failure)
	})
}

// dispatch runs call on its plugin, sending every result through send.
func (b *LocalBridge) dispatch(call Call, send func(Result)) {
	cb := NewCallbackContext(call.CallbackID, send)

	b.mu.RLock()
	p, ok := b.plugins[call.Service]
	b.mu.RUnlock()
	if !ok {
		cb.SendResult(Result{Status: StatusClassNotFound, Message: Message(StatusClassNotFound.String())})
		return
	}

	if !p.Execute(call.Action, call.Args, cb) {
		cb.SendResult(Result{
			Status:  StatusInvalidAction,
			Message: Message(fmt.Sprintf("%v: %v.%v", StatusInvalidAction, call.Service, call.Action)),
		})
	}
}
