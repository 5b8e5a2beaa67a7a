package tmi

import (
	"time"

	"github.com/google/uuid"
)

// pendingAwait is one entry in the awaiting-response list: a handshake
// step parked with a deadline and the nickname/token it needs to resume
// the handshake when it is satisfied or times out.
type pendingAwait struct {
	ID         uuid.UUID
	Kind       ActionKind
	Expiration time.Time
	Nickname   string
	Token      string
}

// awaitingList is the ordered sequence of pendingAwait entries owned
// exclusively by the engine goroutine; no locking is required because the
// session state it is part of is never touched outside that goroutine.
type awaitingList struct {
	items []pendingAwait
}

func (l *awaitingList) add(p pendingAwait) {
	l.items = append(l.items, p)
}

// take removes and returns the oldest entry of the given kind, if any.
func (l *awaitingList) take(kind ActionKind) (pendingAwait, bool) {
	for i, p := range l.items {
		if p.Kind == kind {
			l.items = append(l.items[:i], l.items[i+1:]...)
			return p, true
		}
	}
	return pendingAwait{}, false
}

// takeExpired removes and returns every entry whose deadline has passed.
func (l *awaitingList) takeExpired(now time.Time) []pendingAwait {
	var expired []pendingAwait
	remaining := l.items[:0]
	for _, p := range l.items {
		if !p.Expiration.IsZero() && !p.Expiration.After(now) {
			expired = append(expired, p)
		} else {
			remaining = append(remaining, p)
		}
	}
	l.items = remaining
	return expired
}

func (l *awaitingList) any() bool {
	return len(l.items) > 0
}
