package bus

import "sync/atomic"

var defaultBus atomic.Pointer[Bus]

func init() {
	b, _ := New()
	defaultBus.Store(b)
}

// Default returns the process-wide default bus.
func Default() *Bus {
	return defaultBus.Load()
}

// SetDefault replaces the process-wide default bus, letting tests and
// embedders inject an alternate instance without call-site changes. A nil
// bus is ignored.
func SetDefault(b *Bus) {
	if b == nil {
		return
	}
	defaultBus.Store(b)
}

// Subscribe registers a listener for an event id on the default bus.
func Subscribe(event string, l Listener) error {
	return Default().Subscribe(event, l)
}

// SubscribeAll registers a wildcard listener on the default bus.
func SubscribeAll(l Listener) error {
	return Default().SubscribeAll(l)
}

// Unsubscribe removes a listener from an event id on the default bus.
func Unsubscribe(event string, l Listener) {
	Default().Unsubscribe(event, l)
}

// UnsubscribeAll removes a wildcard listener from the default bus.
func UnsubscribeAll(l Listener) {
	Default().UnsubscribeAll(l)
}

// HasListeners reports whether the event id has listeners on the default bus.
func HasListeners(event string) bool {
	return Default().HasListeners(event)
}

// Dispatch publishes an event on the default bus.
func Dispatch(event string, args ...any) error {
	return Default().Dispatch(event, args...)
}

// DispatchResults publishes an event on the default bus and collects
// per-listener results.
func DispatchResults(event string, args ...any) ([]Result, error) {
	return Default().DispatchResults(event, args...)
}

// Reset clears the default bus's registries.
func Reset() {
	Default().Reset()
}

// SetPolicy sets the default bus's dispatch failure policy.
func SetPolicy(p Policy) {
	Default().SetPolicy(p)
}
