package tmi

import (
	"strings"
	"sync"
)

// DiagnosticSink receives wire-level diagnostic lines from the engine.
// Inbound lines are prefixed with "> " and outbound lines with "< ", both
// without their trailing CRLF. The engine emits everything at severity 0;
// the level parameter exists so a sink registered with a higher minimum
// is not called for lines below it.
//
// Sinks are invoked from the engine's worker goroutine, in emission
// order, so an implementation may rely on serialized calls but must not
// block for long.
type DiagnosticSink func(level int, line string)

// diagnosticsBus fans diagnostic lines out to any number of subscribers,
// each with its own minimum level. Subscribing and unsubscribing are safe
// from any goroutine.
type diagnosticsBus struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]diagSubscriber
}

type diagSubscriber struct {
	sink     DiagnosticSink
	minLevel int
}

func newDiagnosticsBus() *diagnosticsBus {
	return &diagnosticsBus{subs: make(map[int]diagSubscriber)}
}

// subscribe registers sink for every line at or above minLevel and
// returns a function that removes the registration. Unsubscribing twice
// is harmless.
func (b *diagnosticsBus) subscribe(sink DiagnosticSink, minLevel int) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	b.subs[id] = diagSubscriber{sink: sink, minLevel: minLevel}
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs, id)
	}
}

// emit delivers line to every subscriber whose minimum level admits it.
// The subscriber list is copied under the lock so a sink can unsubscribe
// itself (or subscribe another) from inside its own callback.
func (b *diagnosticsBus) emit(level int, line string) {
	b.mu.Lock()
	sinks := make([]DiagnosticSink, 0, len(b.subs))
	for _, s := range b.subs {
		if level >= s.minLevel {
			sinks = append(sinks, s.sink)
		}
	}
	b.mu.Unlock()
	for _, sink := range sinks {
		sink(level, line)
	}
}

// redactedPassLine replaces the token of an outbound PASS line in
// diagnostics. The token itself must never reach a diagnostic sink.
const redactedPassLine = "PASS oauth:**********************"

// redactLine rewrites outbound lines that would leak the connection
// password; everything else passes through unchanged.
func redactLine(line string) string {
	if strings.HasPrefix(line, "PASS oauth:") {
		return redactedPassLine
	}
	return line
}
