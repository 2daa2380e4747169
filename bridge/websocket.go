package bridge

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

// WebsocketBridge forwards calls to a remote plugin host. Each Call goes
// out as one JSON frame; Result frames come back on a single read loop.
type WebsocketBridge struct {
	conn      *websocket.Conn
	writeMu   sync.Mutex
	callbacks *Registry
	done      chan struct{}
	closeOnce sync.Once
}

// DialWebsocket connects to the plugin host at url.
func DialWebsocket(ctx context.Context, url string, header http.Header) (*WebsocketBridge, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, header)
	if err != nil {
		return nil, err
	}

	b := &WebsocketBridge{
		conn:      conn,
		callbacks: NewRegistry(),
		done:      make(chan struct{}),
	}
	go b.readLoop()
	return b, nil
}

func (b *WebsocketBridge) Exec(success, failure Callback, service, action string, args []interface{}) {
	id := b.callbacks.Add(success, failure)

	select {
	case <-b.done:
		b.fail(id, Message(ErrClosed.Error()))
		return
	default:
	}

	b.writeMu.Lock()
	err := b.conn.WriteJSON(Call{CallbackID: id, Service: service, Action: action, Args: args})
	b.writeMu.Unlock()
	if err != nil {
		log.Debugf("bridge: could not send %v.%v: %v", service, action, err)
		b.fail(id, Message(err.Error()))
	}
}

// fail fails the call registered under id, unless something else already
// consumed it.
func (b *WebsocketBridge) fail(id string, payload json.RawMessage) {
	if _, failure, ok := b.callbacks.Remove(id); ok && failure != nil {
		failure(payload)
	}
}

func (b *WebsocketBridge) readLoop() {
	defer b.shutdown()
	for {
		var res Result
		if err := b.conn.ReadJSON(&res); err != nil {
			select {
			case <-b.done:
			default:
				log.Debugf("bridge: read loop stopped: %v", err)
			}
			return
		}
		b.callbacks.Deliver(res)
	}
}

func (b *WebsocketBridge) shutdown() {
	b.closeOnce.Do(func() {
		b.conn.Close()
		b.callbacks.FailAll(Message(ErrClosed.Error()))
		close(b.done)
	})
}

// Done is closed once the connection is gone and every pending callback
// has been failed.
func (b *WebsocketBridge) Done() <-chan struct{} {
	return b.done
}

// Close ends the connection. Pending callbacks get a "bridge closed" failure.
func (b *WebsocketBridge) Close() error {
	b.writeMu.Lock()
	err := b.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second),
	)
	b.writeMu.Unlock()
	b.shutdown()
	if err == websocket.ErrCloseSent {
		return nil
	}
	return err
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handler serves the plugins of local to WebsocketBridge clients.
func Handler(local *LocalBridge) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Warnf("bridge: upgrade failed: %v", err)
			return
		}
		defer conn.Close()

		var writeMu sync.Mutex
		send := func(res Result) {
			writeMu.Lock()
			defer writeMu.Unlock()
			if err := conn.WriteJSON(res); err != nil {
				log.Debugf("bridge: could not send result for %v: %v", res.CallbackID, err)
			}
		}

		for {
			var call Call
			if err := conn.ReadJSON(&call); err != nil {
				log.Debugf("bridge: client %v gone: %v", r.RemoteAddr, err)
				return
			}
			log.Debugf("bridge: %v.%v (%v)", call.Service, call.Action, call.CallbackID)
			local.dispatch(call, send)
		}
	})
}
