// Package event provides a synchronous, priority-ordered event dispatcher.
//
// Listeners are registered under an event name with an integer priority;
// higher priorities run earlier. Two listeners on the same priority run in
// registration order. Fire blocks until every listener has run:
//
//	event.Listen("form_alter_events.form_alter", 100, func(payload any) error {
//	    e := payload.(*alter.Event)
//	    e.Form().Set("status", "altered")
//	    return nil
//	})
//
//	err := event.Fire("form_alter_events.form_alter", evt)
//
// A listener returning a non-nil error aborts the remaining fan-out and the
// error is returned from Fire unchanged — the same failure surface the
// caller would see had the listener's code been inlined.
package event

import (
	"sort"
	"sync"
)

// Handler is a function invoked with the fired event's payload.
type Handler func(payload any) error

// listener pairs a handler with its priority and registration sequence.
type listener struct {
	priority int
	seq      int
	handler  Handler
}

// Bus is a priority-ordered publish/subscribe dispatcher. The zero value is
// ready to use. Registration is safe for concurrent use; Fire itself is
// synchronous and runs listeners on the caller's goroutine.
type Bus struct {
	mu        sync.RWMutex
	listeners map[string][]listener
	nextSeq   int
}

// NewBus creates an empty Bus.
func NewBus() *Bus {
	return &Bus{listeners: make(map[string][]listener)}
}

// Listen registers handler under name with the given priority.
// Higher priority runs earlier; equal priorities run in registration order.
// The listener table is re-sorted at registration time so Fire never sorts.
func (b *Bus) Listen(name string, priority int, handler Handler) {
	if handler == nil {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.listeners == nil {
		b.listeners = make(map[string][]listener)
	}

	ls := append(b.listeners[name], listener{
		priority: priority,
		seq:      b.nextSeq,
		handler:  handler,
	})
	b.nextSeq++

	// Stable order: priority descending, then registration sequence.
	sort.SliceStable(ls, func(i, j int) bool {
		if ls[i].priority != ls[j].priority {
			return ls[i].priority > ls[j].priority
		}
		return ls[i].seq < ls[j].seq
	})

	b.listeners[name] = ls
}

// Fire dispatches payload to every listener registered under name, in
// descending priority order, on the calling goroutine. The first listener
// error stops the fan-out and is returned. Firing an event nobody listens
// to is a no-op.
func (b *Bus) Fire(name string, payload any) error {
	b.mu.RLock()
	ls := make([]listener, len(b.listeners[name]))
	copy(ls, b.listeners[name])
	b.mu.RUnlock()

	for _, l := range ls {
		if err := l.handler(payload); err != nil {
			return err
		}
	}
	return nil
}

// Count returns the number of listeners registered under name.
func (b *Bus) Count(name string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.listeners[name])
}

// Names returns every event name that has at least one listener.
func (b *Bus) Names() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	names := make([]string, 0, len(b.listeners))
	for name := range b.listeners {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Flush removes all listeners (useful in tests).
func (b *Bus) Flush() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners = make(map[string][]listener)
	b.nextSeq = 0
}

// ─── Default bus ──────────────────────────────────────────────────────────────

// Default is the process-wide bus used by the package-level helpers.
// Application listeners register against it at startup.
var Default = NewBus()

// Listen registers handler on the default bus.
func Listen(name string, priority int, handler Handler) {
	Default.Listen(name, priority, handler)
}

// Fire dispatches payload on the default bus.
func Fire(name string, payload any) error {
	return Default.Fire(name, payload)
}

// Flush removes all listeners from the default bus (useful in tests).
func Flush() {
	Default.Flush()
}
