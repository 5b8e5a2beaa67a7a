package tmi

import (
	"fmt"
	"log"
	"math/rand"
	"strconv"
	"strings"
	"time"
)

// defaultLoginTimeout applies independently to each of the three
// handshake awaiters (capability list, capability acknowledgement, MOTD).
const defaultLoginTimeout = 5 * time.Second

// Config carries the injected capabilities an Engine is built from.
// TransportFactory is required; every other field has a usable zero
// value.
type Config struct {

	// TransportFactory is invoked once per LogIn to produce a fresh
	// Transport (required). The previous transport is always retired by
	// LogOut, a timeout, or a server disconnect before the factory is
	// asked again.
	TransportFactory TransportFactory

	// Now is the wall-clock used to arm and evaluate handshake
	// timeouts. When nil, awaiters are given no deadline and live until
	// satisfied or until the transport drops.
	Now TimeSource

	// LoginTimeout bounds each individual handshake step.
	// Zero means the default of five seconds.
	LoginTimeout time.Duration

	// RandInt supplies the randomness for anonymous nicknames
	// ("justinfan" followed by a decimal integer). When nil, math/rand
	// is used.
	RandInt func() int

	// ErrorLog specifies an optional logger for conditions which are
	// noteworthy but carry no typed event, such as malformed lines from
	// the server. If nil, logging is done via the log package's
	// standard logger.
	ErrorLog *log.Logger
}

// An Engine drives a single Twitch chat session on behalf of a host
// application. All public methods except Close are non-blocking: they
// post an action to the engine's worker goroutine, which owns the connection and all
// session state. Events produced by the session are delivered to the
// EventSink passed to NewEngine, always from that one goroutine.
type Engine struct {
	cfg   Config
	sink  EventSink
	queue *actionQueue
	diag  *diagnosticsBus
	done  chan struct{}

	// state is touched only by the run goroutine.
	state session
}

// session is the engine-private state of the current connection. It has
// no lock; only the run goroutine may touch it.
type session struct {
	conn           Transport
	dataReceived   []byte
	anonymous      bool
	loggedIn       bool
	capsAdvertised map[string]struct{}
	awaiting       awaitingList
}

// NewEngine starts a new engine delivering events to sink. The engine's
// worker goroutine runs until Close is called. A nil sink discards all
// events.
func NewEngine(cfg Config, sink EventSink) *Engine {
	if cfg.TransportFactory == nil {
		panic("tmi: Config.TransportFactory cannot be nil")
	}
	if cfg.LoginTimeout == 0 {
		cfg.LoginTimeout = defaultLoginTimeout
	}
	if cfg.RandInt == nil {
		cfg.RandInt = rand.Int
	}
	if sink == nil {
		sink = BaseEventSink{}
	}
	e := &Engine{
		cfg:   cfg,
		sink:  sink,
		queue: newActionQueue(),
		diag:  newDiagnosticsBus(),
		done:  make(chan struct{}),
	}
	go e.run()
	return e
}

// Close stops the engine, waits for its worker goroutine to exit, and
// releases the connection if one is still open. Actions posted but not
// yet performed are dropped; no timeout fires after Close begins.
func (e *Engine) Close() {
	e.queue.stop()
	<-e.done
	// the worker has exited, so touching session state is safe here.
	if e.state.conn != nil {
		e.state.conn.Disconnect()
		e.state.conn = nil
	}
}

// LogIn connects and authenticates as a registered user. token is the
// OAuth token without the "oauth:" prefix; the engine adds the prefix on
// the wire. A LogIn posted while a connection exists is ignored.
func (e *Engine) LogIn(nickname, token string) {
	a := newAction(ActionLogIn)
	a.Nickname = nickname
	a.Token = token
	e.queue.push(a)
}

// LogInAnonymously connects without credentials using a synthesized
// "justinfan" nickname. Anonymous sessions are receive-only: SendMessage
// and SendWhisper are suppressed until the next authenticated LogIn.
func (e *Engine) LogInAnonymously() {
	a := newAction(ActionLogIn)
	a.Anonymous = true
	a.Nickname = "justinfan" + strconv.Itoa(e.cfg.RandInt())
	e.queue.push(a)
}

// LogOut disconnects, optionally sending farewell as the QUIT message
// first. LoggedOut is delivered once the engine has torn the session
// down.
func (e *Engine) LogOut(farewell string) {
	a := newAction(ActionLogOut)
	a.Farewell = farewell
	e.queue.push(a)
}

// Join enters a channel. channel is given without the leading '#'.
func (e *Engine) Join(channel string) {
	a := newAction(ActionJoin)
	a.Channel = channel
	e.queue.push(a)
}

// Leave departs a channel.
func (e *Engine) Leave(channel string) {
	a := newAction(ActionLeave)
	a.Channel = channel
	e.queue.push(a)
}

// SendMessage sends a chat message to a channel.
func (e *Engine) SendMessage(channel, content string) {
	a := newAction(ActionSendMessage)
	a.Channel = channel
	a.Message = content
	e.queue.push(a)
}

// SendWhisper sends a whisper to another user.
func (e *Engine) SendWhisper(nickname, content string) {
	a := newAction(ActionSendWhisper)
	a.Nickname = nickname
	a.Message = content
	e.queue.push(a)
}

// SubscribeToDiagnostics registers sink for wire-level diagnostic lines
// at or above minLevel and returns a function that cancels the
// subscription. The engine emits inbound lines prefixed "> " and
// outbound lines prefixed "< ", all at level 0, with PASS lines
// redacted.
func (e *Engine) SubscribeToDiagnostics(sink DiagnosticSink, minLevel int) (unsubscribe func()) {
	return e.diag.subscribe(sink, minLevel)
}

// run is the engine's worker loop: fire due timeouts, perform queued
// actions, then sleep. The sleep is bounded at 50ms while handshake
// awaiters are armed so their deadlines are noticed promptly even on an
// idle connection; otherwise the worker sleeps until woken by a push or
// by stop.
func (e *Engine) run() {
	defer close(e.done)
	for !e.queue.isStopped() {
		e.processTimeouts()
		for _, a := range e.queue.drain() {
			if e.queue.isStopped() {
				// Close has begun; the rest of the batch is dropped.
				return
			}
			e.diag.emit(0, "push "+a.ID.String()+" "+a.Kind.String())
			e.perform(a)
		}
		if e.state.awaiting.any() && e.cfg.Now != nil {
			e.queue.wait(50 * time.Millisecond)
		} else {
			e.queue.wait(0)
		}
	}
}

func (e *Engine) perform(a Action) {
	switch a.Kind {
	case ActionLogIn:
		e.performLogIn(a)
	case ActionLogOut:
		e.performLogOut(a.Farewell)
	case ActionJoin:
		e.send(joinLine(a.Channel))
	case ActionLeave:
		e.send(partLine(a.Channel))
	case ActionSendMessage:
		if !e.state.anonymous {
			e.send(privmsgLine(a.Channel, a.Message))
		}
	case ActionSendWhisper:
		if !e.state.anonymous {
			e.send(whisperLine(a.Nickname, a.Message))
		}
	case ActionIncomingBytes:
		e.performIncomingBytes(a.Payload)
	case ActionServerDisconnected:
		e.performServerDisconnected()
	}
}

func (e *Engine) performLogIn(a Action) {
	if e.state.conn != nil {
		// a second LogIn while connected is ignored; the caller must
		// log out (or be disconnected) first.
		return
	}

	conn := e.cfg.TransportFactory()
	conn.SetMessageReceivedSink(func(payload []byte) {
		b := newAction(ActionIncomingBytes)
		b.Payload = payload
		e.queue.push(b)
	})
	conn.SetDisconnectedSink(func() {
		e.queue.push(newAction(ActionServerDisconnected))
	})

	if !conn.Connect() {
		e.sink.OnLoggedOut()
		return
	}

	e.state = session{
		conn:           conn,
		anonymous:      a.Anonymous,
		capsAdvertised: make(map[string]struct{}),
	}
	e.send(capLSLine())
	e.state.awaiting.add(pendingAwait{
		ID:         a.ID,
		Kind:       actionAwaitingCaps,
		Expiration: e.deadline(),
		Nickname:   a.Nickname,
		Token:      a.Token,
	})
}

func (e *Engine) performLogOut(farewell string) {
	if e.state.conn == nil {
		return
	}
	if farewell != "" {
		e.send(quitLine(farewell))
	}
	e.teardown()
}

func (e *Engine) performServerDisconnected() {
	if e.state.conn == nil {
		return
	}
	e.teardown()
}

// teardown retires the connection and emits LoggedOut. Bytes already
// queued before the disconnect have been performed by the time teardown
// runs, because the action queue preserves posting order.
func (e *Engine) teardown() {
	e.state.conn.Disconnect()
	e.state = session{}
	e.sink.OnLoggedOut()
}

func (e *Engine) performIncomingBytes(payload []byte) {
	if e.state.conn == nil {
		return
	}
	e.state.dataReceived = append(e.state.dataReceived, payload...)
	for {
		frame, consumed, err := DecodeFrame(e.state.dataReceived)
		if err != nil {
			// ErrIncomplete: an unfinished line stays buffered until
			// the next chunk arrives.
			return
		}
		line := string(e.state.dataReceived[:consumed-len(crlf)])
		e.state.dataReceived = e.state.dataReceived[consumed:]
		e.diag.emit(0, "> "+line)
		if frame.Command == "" {
			e.log(fmt.Errorf("tmi: discarding malformed line %q", line))
			continue
		}
		e.handleFrame(frame)
		if e.state.conn == nil {
			// the frame tore the session down; drop the rest of the
			// buffered input.
			return
		}
	}
}

// processTimeouts expires overdue handshake awaiters. Each expiry sends
// a QUIT naming the step that timed out, drops the connection, and
// emits LoggedOut.
func (e *Engine) processTimeouts() {
	if e.cfg.Now == nil {
		return
	}
	for _, p := range e.state.awaiting.takeExpired(e.cfg.Now.Now()) {
		if e.state.conn == nil {
			continue
		}
		e.send(quitLine(timeoutFarewell(p.Kind)))
		e.teardown()
	}
}

func timeoutFarewell(kind ActionKind) string {
	switch kind {
	case actionAwaitingCaps:
		return "Timeout waiting for capability list"
	case actionAwaitingCapsAck:
		return "Timeout waiting for response to capability request"
	default:
		return "Timeout waiting for MOTD"
	}
}

// deadline computes the expiration for a new handshake awaiter. The zero
// time means no deadline.
func (e *Engine) deadline() time.Time {
	if e.cfg.Now == nil {
		return time.Time{}
	}
	return e.cfg.Now.Now().Add(e.cfg.LoginTimeout)
}

// send writes one line to the connection, appending CRLF. Sending with
// no connection is a silent no-op so that queued Join/Send actions
// racing a disconnect degrade gracefully.
func (e *Engine) send(line string) {
	if e.state.conn == nil {
		return
	}
	// a caller-supplied string containing a line break would otherwise
	// smuggle a second command onto the wire.
	if i := strings.IndexAny(line, "\r\n"); i >= 0 {
		line = line[:i]
	}
	e.diag.emit(0, "< "+redactLine(line))
	e.state.conn.Send([]byte(line + "\r\n"))
}

// log reports errors which are noteworthy but not a reason to emit any
// typed event.
func (e *Engine) log(err error) {
	if e.cfg.ErrorLog == nil {
		log.Println(err)
		return
	}
	e.cfg.ErrorLog.Println(err)
}

// handleCap advances capability negotiation. Intermediate LS lines (an
// asterisk before the capability list) accumulate advertised names and
// leave the awaiter armed; the final LS line decides whether to request
// the Twitch capabilities or to skip straight to authentication.
func (e *Engine) handleCap(f Frame) {
	if len(f.Params) < 3 {
		return
	}
	switch f.Params[1] {
	case "LS":
		if f.Params[2] == "*" {
			if len(f.Params) >= 4 {
				e.addAdvertisedCaps(f.Params[3])
			}
			return
		}
		e.addAdvertisedCaps(f.Params[2])
		aw, ok := e.state.awaiting.take(actionAwaitingCaps)
		if !ok {
			return
		}
		if e.hasAllCaps() {
			e.send(capReqLine())
			aw.Kind = actionAwaitingCapsAck
			aw.Expiration = e.deadline()
			e.state.awaiting.add(aw)
			return
		}
		e.authenticate(aw)
	case "ACK", "NAK":
		if aw, ok := e.state.awaiting.take(actionAwaitingCapsAck); ok {
			e.authenticate(aw)
		}
	}
}

func (e *Engine) addAdvertisedCaps(list string) {
	for _, name := range strings.Fields(list) {
		e.state.capsAdvertised[name] = struct{}{}
	}
}

func (e *Engine) hasAllCaps() bool {
	for _, name := range []string{CapCommands, CapMembership, CapTags} {
		if _, ok := e.state.capsAdvertised[name]; !ok {
			return false
		}
	}
	return true
}

// authenticate ends capability negotiation and registers the nickname,
// then parks an awaiter for the end of the MOTD.
func (e *Engine) authenticate(aw pendingAwait) {
	e.send(capEndLine())
	if !e.state.anonymous {
		e.send(passLine(aw.Token))
	}
	e.send(nickLine(aw.Nickname))
	aw.Kind = actionAwaitingMotd
	aw.Expiration = e.deadline()
	e.state.awaiting.add(aw)
}

// handleEndOfMotd completes the log-in. Numeric 376 after the first one
// finds no armed awaiter and is ignored.
func (e *Engine) handleEndOfMotd() {
	if _, ok := e.state.awaiting.take(actionAwaitingMotd); ok && !e.state.loggedIn {
		e.state.loggedIn = true
		e.sink.OnLoggedIn()
	}
}
