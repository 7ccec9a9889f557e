// Package hostenv models the client host the app is served from: its
// hostname and its connectivity signals.
package hostenv

import (
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/text/unicode/norm"
)

type Event string

const (
	EventOnline  Event = "online"
	EventOffline Event = "offline"
)

type ListenerID uint64

type Location struct {
	Hostname string
}

// Window is the host context. A nil *Window means there is no client host.
type Window struct {
	Location Location

	online atomic.Bool

	mu        sync.Mutex
	nextID    ListenerID
	listeners map[Event]map[ListenerID]func()
}

// NewWindow stores hostname in the form a URL parser would report it; see
// NormalizeHostname.
func NewWindow(hostname string) *Window {
	w := &Window{
		Location:  Location{Hostname: NormalizeHostname(hostname)},
		listeners: map[Event]map[ListenerID]func(){},
	}
	w.online.Store(true)
	return w
}

// FromHostname returns nil when hostname is empty.
func FromHostname(hostname string) *Window {
	if strings.TrimSpace(hostname) == "" {
		return nil
	}
	return NewWindow(hostname)
}

// OnLine reports the last known connectivity state.
func (w *Window) OnLine() bool {
	return w.online.Load()
}

func (w *Window) AddEventListener(ev Event, fn func()) ListenerID {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.nextID++
	id := w.nextID
	if w.listeners[ev] == nil {
		w.listeners[ev] = map[ListenerID]func(){}
	}
	w.listeners[ev][id] = fn
	return id
}

func (w *Window) RemoveEventListener(ev Event, id ListenerID) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.listeners[ev], id)
}

// ListenerCount is the number of listeners registered for ev.
func (w *Window) ListenerCount(ev Event) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.listeners[ev])
}

// DispatchEvent updates OnLine and runs the listeners for ev on the calling
// goroutine in registration order. A listener removed before its turn is
// skipped.
func (w *Window) DispatchEvent(ev Event) {
	switch ev {
	case EventOnline:
		w.online.Store(true)
	case EventOffline:
		w.online.Store(false)
	}

	w.mu.Lock()
	ids := make([]ListenerID, 0, len(w.listeners[ev]))
	for id := range w.listeners[ev] {
		ids = append(ids, id)
	}
	w.mu.Unlock()
	slices.Sort(ids)

	for _, id := range ids {
		w.mu.Lock()
		fn, ok := w.listeners[ev][id]
		w.mu.Unlock()
		if ok {
			fn()
		}
	}
}

// IsLoopback reports whether the hostname is exactly localhost or 127.0.0.1.
func (w *Window) IsLoopback() bool {
	if w == nil {
		return false
	}
	return w.Location.Hostname == "localhost" || w.Location.Hostname == "127.0.0.1"
}

// NormalizeHostname trims surrounding space and folds case and
// compatibility forms, as URL host parsing does, so "LOCALHOST" and
// full-width digits read as their ASCII spelling. A trailing dot is kept:
// "localhost." is a different host.
func NormalizeHostname(h string) string {
	return strings.ToLower(norm.NFKC.String(strings.TrimSpace(h)))
}
