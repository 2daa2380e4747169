package bcr

import (
	"encoding/json"
	"io"
	"sync"

	log "github.com/sirupsen/logrus"
)

// ScanEvent carries either a scan or the error of a failed read.
type ScanEvent struct {
	Scan Scan
	Err  error
}

// ScanReader delivers the results of a single read registration.
type ScanReader interface {
	io.Closer
	Events() <-chan ScanEvent
}

type scanReader struct {
	client *Client
	events chan ScanEvent

	mu     sync.Mutex
	closed bool
}

// NewScanReader registers one read on c and turns every callback firing
// into an event. The native plugin does not wait for the consumer: a scan
// arriving while buffer events are still unread is lost, with a warning
// logged. Size buffer for the longest burst the consumer can fall behind.
func NewScanReader(c *Client, buffer int) ScanReader {
	r := &scanReader{
		client: c,
		events: make(chan ScanEvent, buffer),
	}

	c.Read(r.onScan, r.onFailure)
	return r
}

func (r *scanReader) onScan(payload json.RawMessage) {
	s, err := DecodeScan(payload)
	if err != nil {
		r.push(ScanEvent{Err: err})
		return
	}
	log.Debugf("Scan received: %v (%v)", s.Text, s.Format)
	r.push(ScanEvent{Scan: s})
}

func (r *scanReader) onFailure(payload json.RawMessage) {
	r.push(ScanEvent{Err: &NativeError{Payload: payload}})
}

func (r *scanReader) push(e ScanEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		log.Debugln("ScanReader closed, dropping event")
		return
	}

	select {
	case r.events <- e:
	default:
		log.Warnf("ScanReader buffer full, dropping event: %+v", e)
	}
}

func (r *scanReader) Events() <-chan ScanEvent {
	return r.events
}

// Close stops delivery and destroys the native reader, which is the only
// way to end a read. It does not wait for the destroy outcome.
func (r *scanReader) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	close(r.events)
	r.mu.Unlock()

	r.client.Destroy(
		func(json.RawMessage) { log.Debugln("Reader destroyed") },
		func(payload json.RawMessage) {
			log.Warnf("Could not destroy reader: %v", &NativeError{Payload: payload})
		},
	)
	return nil
}
