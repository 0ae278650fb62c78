package bus

import (
	"reflect"
	"sync"
)

// listenerKey derives an identity for duplicate collapse and removal by
// value. Functions key on their code pointer, so wrapping the same named
// function twice yields the same key. Closures built from one literal share
// a code pointer and collapse too. Pointers key on their address. Values
// with no derivable identity return zero and are always treated as unique.
func listenerKey(l Listener) uintptr {
	v := reflect.ValueOf(l)
	switch v.Kind() {
	case reflect.Func, reflect.Pointer, reflect.UnsafePointer:
		return v.Pointer()
	default:
		return 0
	}
}

// entry pairs a listener with its identity key.
type entry struct {
	key uintptr
	l   Listener
}

// registry holds the per-event listener sets and the wildcard set.
// It is thread-safe for concurrent access. Dispatch works against snapshot
// copies, so registry mutation never affects an in-flight dispatch.
type registry struct {
	mu     sync.RWMutex
	events map[string][]entry
	all    []entry
}

func newRegistry() *registry {
	return &registry{
		events: make(map[string][]entry),
	}
}

// add appends a listener to an event id's set, preserving registration
// order. Re-adding a listener already present for the same event id is a
// no-op.
func (r *registry) add(event string, l Listener) {
	key := listenerKey(l)

	r.mu.Lock()
	defer r.mu.Unlock()

	if key != 0 {
		for _, e := range r.events[event] {
			if e.key == key {
				return
			}
		}
	}
	r.events[event] = append(r.events[event], entry{key: key, l: l})
}

// addAll appends a wildcard listener, preserving registration order.
func (r *registry) addAll(l Listener) {
	key := listenerKey(l)

	r.mu.Lock()
	defer r.mu.Unlock()

	if key != 0 {
		for _, e := range r.all {
			if e.key == key {
				return
			}
		}
	}
	r.all = append(r.all, entry{key: key, l: l})
}

// remove deletes a listener from an event id's set if present.
func (r *registry) remove(event string, l Listener) {
	key := listenerKey(l)
	if key == 0 {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	entries := r.events[event]
	for i, e := range entries {
		if e.key == key {
			r.events[event] = append(entries[:i], entries[i+1:]...)
			break
		}
	}
	if len(r.events[event]) == 0 {
		delete(r.events, event)
	}
}

// removeAll deletes a wildcard listener if present.
func (r *registry) removeAll(l Listener) {
	key := listenerKey(l)
	if key == 0 {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for i, e := range r.all {
		if e.key == key {
			r.all = append(r.all[:i], r.all[i+1:]...)
			return
		}
	}
}

// has reports whether any listener is registered for the event id.
func (r *registry) has(event string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.events[event]) > 0
}

// snapshot returns copies of the wildcard set and the event id's set as of
// one consistent registry state.
func (r *registry) snapshot(event string) (wildcards, listeners []Listener) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.all) > 0 {
		wildcards = make([]Listener, len(r.all))
		for i, e := range r.all {
			wildcards[i] = e.l
		}
	}
	if entries := r.events[event]; len(entries) > 0 {
		listeners = make([]Listener, len(entries))
		for i, e := range entries {
			listeners[i] = e.l
		}
	}
	return wildcards, listeners
}

// counts returns the number of event ids with listeners and the number of
// wildcard listeners.
func (r *registry) counts() (events, wildcards int) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.events), len(r.all)
}

// clear removes every listener from both sets atomically.
func (r *registry) clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = make(map[string][]entry)
	r.all = nil
}
