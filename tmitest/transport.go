// Package tmitest provides an in-memory transport for testing Twitch
// chat clients without a network connection.
package tmitest

import (
	"strings"
	"sync"
)

// NewTransport creates a new mock transport. The zero of everything is a
// transport whose Connect succeeds and which records every line the
// engine sends.
func NewTransport() *Transport {
	return &Transport{}
}

// Transport is a scriptable stand-in for a live connection to Twitch.
// The engine side uses it through the tmi.Transport interface; the test
// acts as the server by calling WriteString and DropConnection.
type Transport struct {

	// FailConnect makes Connect report failure.
	FailConnect bool

	// Handler, when set, is invoked for each line the engine sends
	// (without its CRLF), after the line is recorded. A handler can
	// script server responses by calling WriteString from inside the
	// callback.
	Handler func(t *Transport, line string)

	mu           sync.Mutex
	received     func(payload []byte)
	disconnected func()
	connected    bool
	sent         []string
	disconnects  int
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
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.FailConnect {
		return false
	}
	t.connected = true
	return true
}

// Send implements tmi.Transport. Each CRLF-terminated payload is
// recorded as one line.
func (t *Transport) Send(payload []byte) {
	line := strings.TrimSuffix(string(payload), "\r\n")
	t.mu.Lock()
	t.sent = append(t.sent, line)
	handler := t.Handler
	t.mu.Unlock()
	if handler != nil {
		handler(t, line)
	}
}

// Disconnect implements tmi.Transport. It only records the teardown; it
// does not invoke the disconnected sink, because a locally requested
// disconnect is not a server-initiated one.
func (t *Transport) Disconnect() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.connected = false
	t.disconnects++
}

// WriteString delivers str to the engine as received bytes, appending
// CRLF when missing, so each call delivers complete lines. Use WriteRaw
// to deliver partial lines or bytes exactly as given.
func (t *Transport) WriteString(str string) {
	if !strings.HasSuffix(str, "\r\n") {
		str += "\r\n"
	}
	t.WriteRaw([]byte(str))
}

// WriteRaw delivers payload to the engine byte-for-byte.
func (t *Transport) WriteRaw(payload []byte) {
	t.mu.Lock()
	fn := t.received
	t.mu.Unlock()
	if fn != nil {
		fn(payload)
	}
}

// DropConnection simulates the server closing the connection.
func (t *Transport) DropConnection() {
	t.mu.Lock()
	fn := t.disconnected
	t.connected = false
	t.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// SentLines returns a copy of every line the engine has sent so far,
// without CRLF terminators.
func (t *Transport) SentLines() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.sent...)
}

// Connected reports whether the transport is currently connected.
func (t *Transport) Connected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.connected
}

// DisconnectCalls reports how many times the engine called Disconnect.
func (t *Transport) DisconnectCalls() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.disconnects
}
