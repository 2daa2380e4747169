// Package bcr is a client for the HoneywellBCR native barcode reader
// plugin. The reader, its decoding and its state machine all live in the
// native plugin; the client only forwards calls through a bridge.
package bcr

import "github.com/fappels/zapplica-plugin-honeywellbcr/bridge"

// PluginName is the service name the native plugin is registered under.
const PluginName = "HoneywellBCR"

// Actions understood by the native plugin.
const (
	ActionInit     = "init"
	ActionDestroy  = "destroy"
	ActionGetState = "getState"
	ActionRead     = "read"
)

// Client forwards reader operations to the native plugin. It holds no
// state besides the bridge and is safe for concurrent use when the bridge is.
type Client struct {
	bridge bridge.Bridge
}

// New returns a client dispatching through b.
func New(b bridge.Bridge) *Client {
	return &Client{bridge: b}
}

// Init claims the reader. success fires once it is ready.
func (c *Client) Init(success, failure bridge.Callback) {
	c.bridge.Exec(success, failure, PluginName, ActionInit, nil)
}

// Destroy releases the reader.
func (c *Client) Destroy(success, failure bridge.Callback) {
	c.bridge.Exec(success, failure, PluginName, ActionDestroy, []interface{}{})
}

// GetState asks for the reader state. success receives {"state": n}.
func (c *Client) GetState(success, failure bridge.Callback) {
	c.bridge.Exec(success, failure, PluginName, ActionGetState, []interface{}{})
}

// Read starts reading. success fires once per scan and failure once per
// failed read, for as long as the reader stays up.
func (c *Client) Read(success, failure bridge.Callback) {
	c.bridge.Exec(success, failure, PluginName, ActionRead, []interface{}{})
}
