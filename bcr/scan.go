package bcr

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Scan is one decoded barcode. Format is the symbology code id, empty when
// the plugin only sends the text.
type Scan struct {
	Text   string `json:"text"`
	Format string `json:"format,omitempty"`
}

// DecodeScan decodes a read success payload, either a bare string or a
// {"text", "format"} object.
func DecodeScan(payload json.RawMessage) (Scan, error) {
	var s Scan
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 {
		return s, fmt.Errorf("decoding scan payload: empty payload")
	}

	if trimmed[0] == '"' {
		if err := json.Unmarshal(trimmed, &s.Text); err != nil {
			return s, fmt.Errorf("decoding scan payload: %w", err)
		}
		return s, nil
	}

	if err := json.Unmarshal(trimmed, &s); err != nil {
		return s, fmt.Errorf("decoding scan payload: %w", err)
	}
	return s, nil
}

// NativeError is a failure payload reported by the native plugin.
type NativeError struct {
	Payload json.RawMessage
}

// Error returns the payload itself, unquoted when it is a JSON string.
func (e *NativeError) Error() string {
	var msg string
	if err := json.Unmarshal(e.Payload, &msg); err == nil {
		return msg
	}
	return string(e.Payload)
}
