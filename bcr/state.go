package bcr

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ReaderState is the lifecycle stage of the native reader.
type ReaderState int

const (
	StateNone      ReaderState = 0 // idle
	StateReady     ReaderState = 1
	StateReading   ReaderState = 2
	StateRead      ReaderState = 3 // scan received
	StateError     ReaderState = 4
	StateDestroyed ReaderState = 5
)

var ErrUnknownState = errors.New("unknown reader state")

var stateNames = [...]string{
	StateNone:      "NONE",
	StateReady:     "READY",
	StateReading:   "READING",
	StateRead:      "READ",
	StateError:     "ERROR",
	StateDestroyed: "DESTROYED",
}

func (s ReaderState) Valid() bool {
	return s >= StateNone && s <= StateDestroyed
}

func (s ReaderState) String() string {
	if !s.Valid() {
		return fmt.Sprintf("ReaderState(%d)", int(s))
	}
	return stateNames[s]
}

// ParseState converts a raw state value into a ReaderState.
func ParseState(v int) (ReaderState, error) {
	s := ReaderState(v)
	if !s.Valid() {
		return s, fmt.Errorf("%w: %d", ErrUnknownState, v)
	}
	return s, nil
}

type statePayload struct {
	State *int `json:"state"`
}

// DecodeState decodes a getState success payload.
func DecodeState(payload json.RawMessage) (ReaderState, error) {
	var p statePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return StateNone, fmt.Errorf("decoding state payload: %w", err)
	}
	if p.State == nil {
		return StateNone, fmt.Errorf("decoding state payload: missing state field")
	}
	return ParseState(*p.State)
}
