// Package ws provides a tmi.Transport that speaks IRC over Twitch's
// WebSocket chat endpoint.
package ws

import (
	"bytes"
	"sync"

	"github.com/gorilla/websocket"
)

// DefaultURL is Twitch's secure WebSocket chat endpoint.
const DefaultURL = "wss://irc-ws.chat.twitch.tv:443"

// New returns an unconnected transport for url. An empty url means
// DefaultURL.
func New(url string) *Transport {
	if url == "" {
		url = DefaultURL
	}
	return &Transport{url: url}
}

// Transport dials url on Connect and exchanges one WebSocket text frame
// per batch of IRC lines, which is how Twitch's irc-ws endpoint frames
// the protocol.
type Transport struct {

	// Dialer is the optional dialer used by Connect. Nil means
	// websocket.DefaultDialer.
	Dialer *websocket.Dialer

	url string

	mu           sync.Mutex
	received     func(payload []byte)
	disconnected func()
	conn         *websocket.Conn
	closed       bool
}

// SetMessageReceivedSink implements tmi.Transport.
func (t *Transport) SetMessageReceivedSink(fn func(payload []byte)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.received = fn
}

// SetDisconnectedSink implements tmi.Transport.
func (t *Transport) SetDisconnectedSink(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.disconnected = fn
}

// Connect implements tmi.Transport.
func (t *Transport) Connect() bool {
	dialer := t.Dialer
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}
	conn, _, err := dialer.Dial(t.url, nil)
	if err != nil {
		return false
	}
	t.mu.Lock()
	t.conn = conn
	t.closed = false
	t.mu.Unlock()
	go t.read(conn)
	return true
}

func (t *Transport) read(conn *websocket.Conn) {
	for {
		msgType, msg, err := conn.ReadMessage()
		if err != nil {
			break
		}
		if msgType != websocket.TextMessage {
			continue
		}
		if !bytes.HasSuffix(msg, []byte("\r\n")) {
			msg = append(msg, '\r', '\n')
		}
		t.mu.Lock()
		fn := t.received
		t.mu.Unlock()
		if fn != nil {
			fn(msg)
		}
	}

	t.mu.Lock()
	local := t.closed
	fn := t.disconnected
	t.conn = nil
	t.mu.Unlock()
	if !local && fn != nil {
		fn()
	}
}

// Send implements tmi.Transport. Write errors are left for the reader
// goroutine to surface as a disconnect.
func (t *Transport) Send(payload []byte) {
	t.mu.Lock()
	conn := t.conn
	t.mu.Unlock()
	if conn == nil {
		return
	}
	_ = conn.WriteMessage(websocket.TextMessage, payload)
}

// Disconnect implements tmi.Transport. It is safe to call more than
// once.
func (t *Transport) Disconnect() {
	t.mu.Lock()
	conn := t.conn
	t.closed = true
	t.mu.Unlock()
	if conn != nil {
		_ = conn.Close()
	}
}
