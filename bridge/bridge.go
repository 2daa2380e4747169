package bridge

import (
	"encoding/json"
	"errors"
)

// Callback receives the payload of a native result, verbatim.
type Callback func(payload json.RawMessage)

// Bridge dispatches an action to a named native plugin. Exec returns
// immediately; results arrive later through success or failure, possibly
// more than once when the plugin keeps the callback.
type Bridge interface {
	Exec(success, failure Callback, service, action string, args []interface{})
}

// BridgeFunc adapts an ordinary function to the Bridge interface.
type BridgeFunc func(success, failure Callback, service, action string, args []interface{})

func (f BridgeFunc) Exec(success, failure Callback, service, action string, args []interface{}) {
	f(success, failure, service, action, args)
}

var ErrClosed = errors.New("bridge closed")

type Status int

// Result statuses as reported by the native plugin host.
const (
	StatusNoResult Status = iota
	StatusOK
	StatusClassNotFound
	StatusIllegalAccess
	StatusInstantiation
	StatusMalformedURL
	StatusIO
	StatusInvalidAction
	StatusJSON
	StatusError
)

var statusMessages = map[Status]string{
	StatusNoResult:      "No result",
	StatusOK:            "OK",
	StatusClassNotFound: "Class not found",
	StatusIllegalAccess: "Illegal access",
	StatusInstantiation: "Instantiation error",
	StatusMalformedURL:  "Malformed url",
	StatusIO:            "IO error",
	StatusInvalidAction: "Invalid action",
	StatusJSON:          "JSON error",
	StatusError:         "Error",
}

func (s Status) String() string {
	if m, ok := statusMessages[s]; ok {
		return m
	}
	return "Unknown status"
}

// Call is a single Exec on the wire.
type Call struct {
	CallbackID string        `json:"callbackId"`
	Service    string        `json:"service"`
	Action     string        `json:"action"`
	Args       []interface{} `json:"args"`
}

type wireCall struct {
	CallbackID string         `json:"callbackId"`
	Service    string         `json:"service"`
	Action     string         `json:"action"`
	Args       *[]interface{} `json:"args,omitempty"`
}

// MarshalJSON leaves out args only when they are nil, so an empty
// argument list stays distinct from none.
func (c Call) MarshalJSON() ([]byte, error) {
	w := wireCall{CallbackID: c.CallbackID, Service: c.Service, Action: c.Action}
	if c.Args != nil {
		w.Args = &c.Args
	}
	return json.Marshal(w)
}

// Result is a native answer to a Call. KeepCallback leaves the callback
// registered for further results.
type Result struct {
	CallbackID   string          `json:"callbackId"`
	Status       Status          `json:"status"`
	KeepCallback bool            `json:"keepCallback,omitempty"`
	Message      json.RawMessage `json:"message,omitempty"`
}

// route invokes the callback matching the result status.
func (r Result) route(success, failure Callback) {
	switch r.Status {
	case StatusNoResult:
	case StatusOK:
		if success != nil {
			success(r.Message)
		}
	default:
		if failure != nil {
			failure(r.Message)
		}
	}
}

// Message encodes v as a result payload. Values that cannot be encoded
// become a JSON string holding the encoding error.
func Message(v interface{}) json.RawMessage {
	if v == nil {
		return nil
	}
	if raw, ok := v.(json.RawMessage); ok {
		return raw
	}
	data, err := json.Marshal(v)
	if err != nil {
		data, _ = json.Marshal(err.Error())
	}
	return data
}
