/*
Package tmi implements a client for Twitch chat (TMI), Twitch's
IRC-derived chat protocol.

This overview provides brief introductions for types and concepts.
The godoc for each type contains expanded documentation.

API

These are the main interfaces and structs that you will interact with while using this package:

	// An Engine drives a single Twitch chat session.
	type Engine struct {
		//...
	}

	// Config carries the capabilities injected into an Engine.
	type Config struct {
		TransportFactory TransportFactory
		Now              TimeSource
		//...
	}

	// An EventSink receives the typed event stream.
	type EventSink interface {
		OnLoggedIn()
		OnMessage(Message)
		//...
	}

	// A Transport carries raw IRC lines to and from Twitch.
	type Transport interface {
		Connect() bool
		Send(payload []byte)
		//...
	}

Engine

The Engine type owns a session: it negotiates IRCv3 capabilities, logs
in (authenticated or anonymously), answers server pings, decodes
Twitch's tagged IRC lines, and hands your EventSink one typed event per
chat message, membership change, subscription announcement, moderation
action, room-mode change, whisper, notice, host announcement, raid,
ritual, or user-state update it sees.

All Engine methods except Close are non-blocking; Close waits for the
worker to exit. The others post work to a single worker goroutine which
owns the connection; events are delivered from that
goroutine, in order, so a sink never needs its own locking for state the
sink alone touches.

EventSink

Embed BaseEventSink and override only the methods you care about:

	type announcer struct {
		tmi.BaseEventSink
	}

	func (announcer) OnMessage(m tmi.Message) {
		fmt.Printf("<%s> %s\n", m.User, m.Content)
	}

Transport

The engine is transport-agnostic: it speaks CRLF-delimited IRC lines
through whatever Transport the factory in Config produces. Package
transport/tcptls dials Twitch's TLS endpoint and package transport/ws
dials the WebSocket endpoint; tests inject an in-memory transport from
package tmitest.

The engine does not reconnect on its own. When the session ends by
LogOut, a handshake timeout, or a server disconnect, the sink's
OnLoggedOut is called exactly once, and the host decides whether to
call LogIn again. Close releases a live connection without calling OnLoggedOut.
*/
package tmi
