package tmi

import "time"

// Transport is the byte transport capability injected by the host
// application, one instance per log-in. The engine never constructs a
// Transport directly; it asks a TransportFactory for one.
//
// Connect may block; the engine holds no locks while it runs. Send is
// fire-and-forget and must be synchronous from the engine's point of
// view — non-blocking, or already buffered by the implementation — the
// engine always appends "\r\n" to each line before calling Send.
type Transport interface {
	// SetMessageReceivedSink registers the callback invoked with each
	// chunk of bytes read from the remote end. The callback must be
	// safe to call from whatever goroutine the transport's reader uses.
	SetMessageReceivedSink(func(payload []byte))

	// SetDisconnectedSink registers the callback invoked exactly once
	// when the transport detects the remote end has gone away.
	SetDisconnectedSink(func())

	// Connect synchronously establishes the connection. false indicates
	// failure; the engine never calls Send after a failed Connect.
	Connect() bool

	// Send writes payload to the connection. Errors are not surfaced to
	// the engine; a transport that cannot currently write should treat
	// the failure as a disconnect and invoke its disconnected sink.
	Send(payload []byte)

	// Disconnect tears down the connection. It is safe to call more than
	// once.
	Disconnect()
}

// TransportFactory constructs a fresh Transport for each LogIn. A fresh
// instance is required because LogOut or a server disconnect retires the
// previous one; re-logging in always asks the factory again.
type TransportFactory func() Transport

// TimeSource is the optional wall-clock capability injected by the host.
// When Config.Now is nil, handshake awaiters are never given a deadline
// and so live until satisfied or until the transport drops.
type TimeSource interface {
	// Now returns the current time, used to schedule and evaluate
	// handshake timeouts.
	Now() time.Time
}

// TimeSourceFunc adapts an ordinary function to TimeSource.
type TimeSourceFunc func() time.Time

func (f TimeSourceFunc) Now() time.Time { return f() }
