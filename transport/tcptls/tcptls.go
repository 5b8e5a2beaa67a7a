// Package tcptls provides a tmi.Transport that speaks IRC over a TLS
// connection to Twitch's chat endpoint.
package tcptls

import (
	"bufio"
	"crypto/tls"
	"sync"
)

// DefaultAddr is Twitch's TLS chat endpoint.
const DefaultAddr = "irc.chat.twitch.tv:6697"

// New returns an unconnected transport for addr. An empty addr means
// DefaultAddr.
func New(addr string) *Transport {
	if addr == "" {
		addr = DefaultAddr
	}
	return &Transport{addr: addr}
}

// Transport dials addr with tls.Dial on Connect and reads CRLF-delimited
// lines from the connection until it drops. One Transport carries at
// most one connection; the engine asks its factory for a fresh one per
// log-in.
type Transport struct {

	// TLSConfig is the optional TLS client configuration passed to the
	// dialer. Nil means the package defaults, which verify the server
	// certificate against the system roots.
	TLSConfig *tls.Config

	addr string

	mu           sync.Mutex
	received     func(payload []byte)
	disconnected func()
	conn         *tls.Conn
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

// Connect implements tmi.Transport. On success a reader goroutine feeds
// received lines to the message sink until the connection drops.
func (t *Transport) Connect() bool {
	cfg := t.TLSConfig
	if cfg == nil {
		cfg = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	conn, err := tls.Dial("tcp", t.addr, cfg)
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

func (t *Transport) read(conn *tls.Conn) {
	s := bufio.NewScanner(conn)
	for s.Scan() {
		l := s.Bytes()
		if len(l) == 0 {
			continue
		}
		// the scanner strips the line terminator and reuses its buffer,
		// so the sink gets a fresh copy with the CRLF restored.
		payload := make([]byte, 0, len(l)+2)
		payload = append(payload, l...)
		payload = append(payload, '\r', '\n')
		t.mu.Lock()
		fn := t.received
		t.mu.Unlock()
		if fn != nil {
			fn(payload)
		}
	}

	t.mu.Lock()
	local := t.closed
	fn := t.disconnected
	t.conn = nil
	t.mu.Unlock()
	// a locally requested Disconnect also breaks the scanner; only a
	// remote drop is reported as a disconnection.
	if !local && fn != nil {
		fn()
	}
}

// Send implements tmi.Transport. A write error is treated as a
// disconnect in progress and dropped; the reader goroutine notices the
// broken connection and reports it.
func (t *Transport) Send(payload []byte) {
	t.mu.Lock()
	conn := t.conn
	t.mu.Unlock()
	if conn == nil {
		return
	}
	_, _ = conn.Write(payload)
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
