package bus

import (
	"log/slog"
	"runtime/debug"
	"sync/atomic"
	"time"

	"github.com/dshills/corebus/internal/logx"
)

// Bus is a synchronous publish/subscribe event bus keyed by string event
// ids. All methods are safe for concurrent use; dispatch runs on the
// caller's goroutine against a snapshot of the registry taken at dispatch
// start.
type Bus struct {
	reg          *registry
	policy       atomic.Int32
	warn         *logx.Throttle
	panicHandler PanicHandler

	// Stats
	dispatches  atomic.Uint64
	invocations atomic.Uint64
	failures    atomic.Uint64
	panics      atomic.Uint64
}

// New creates an event bus with the given options.
func New(opts ...Option) (*Bus, error) {
	o, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}

	b := &Bus{
		reg:          newRegistry(),
		warn:         logx.New(o.Logger, o.WarnRate, o.WarnBurst),
		panicHandler: o.PanicHandler,
	}
	b.policy.Store(int32(o.Policy))
	return b, nil
}

// Subscribe registers a listener for an event id, appended in registration
// order. Subscribing the same listener to the same event id more than once
// is a no-op. Identity follows function code and pointer identity:
// re-subscribing the same named function, func value, or listener pointer
// collapses to the first registration.
func (b *Bus) Subscribe(event string, l Listener) error {
	if event == "" {
		return ErrEmptyEvent
	}
	if l == nil {
		return ErrNilListener
	}
	b.reg.add(event, l)
	return nil
}

// SubscribeAll registers a wildcard listener invoked for every dispatched
// event id, before any per-event listener. Wildcard listeners receive two
// arguments: the event id and the argument slice.
func (b *Bus) SubscribeAll(l Listener) error {
	if l == nil {
		return ErrNilListener
	}
	b.reg.addAll(l)
	return nil
}

// Unsubscribe removes a listener from an event id's set. Removing a listener
// that was never subscribed is a no-op.
func (b *Bus) Unsubscribe(event string, l Listener) {
	if l == nil {
		return
	}
	b.reg.remove(event, l)
}

// UnsubscribeAll removes a wildcard listener. Removing a listener that was
// never subscribed is a no-op.
func (b *Bus) UnsubscribeAll(l Listener) {
	if l == nil {
		return
	}
	b.reg.removeAll(l)
}

// HasListeners reports whether any listener is registered for the event id.
// Wildcard listeners are not counted.
func (b *Bus) HasListeners(event string) bool {
	return b.reg.has(event)
}

// Reset atomically clears the per-event and wildcard registries.
func (b *Bus) Reset() {
	b.reg.clear()
}

// SetPolicy atomically replaces the dispatch failure policy. Invalid values
// are ignored.
func (b *Bus) SetPolicy(p Policy) {
	if !p.valid() {
		return
	}
	b.policy.Store(int32(p))
}

// Policy returns the current dispatch failure policy.
func (b *Bus) Policy() Policy {
	return Policy(b.policy.Load())
}

// Dispatch invokes the listeners for an event id: wildcard listeners first,
// each with (event, args), then per-event listeners in registration order,
// each with args spread positionally. Return values are discarded.
//
// Under PolicyIsolate a failing listener is logged and its siblings still
// run; Dispatch returns nil. Under PolicyPropagate the first failure aborts
// the dispatch, skipping all remaining listeners, and is returned.
func (b *Bus) Dispatch(event string, args ...any) error {
	wildcards, listeners := b.reg.snapshot(event)
	b.dispatches.Add(1)

	if err := b.runWildcards(event, args, wildcards); err != nil {
		return err
	}
	for _, l := range listeners {
		if err := b.settle(event, b.invoke(event, l, args)); err != nil {
			return err
		}
	}
	return nil
}

// DispatchResults invokes listeners exactly as Dispatch does but collects
// one Result per per-event listener, index-aligned with registration order.
// Wildcard listeners still run first; their outputs are discarded, though
// their side effects and failures count. Under PolicyPropagate the first
// failure returns (nil, err) and no results.
func (b *Bus) DispatchResults(event string, args ...any) ([]Result, error) {
	wildcards, listeners := b.reg.snapshot(event)
	b.dispatches.Add(1)

	if err := b.runWildcards(event, args, wildcards); err != nil {
		return nil, err
	}
	results := make([]Result, 0, len(listeners))
	for _, l := range listeners {
		res := b.invoke(event, l, args)
		if err := b.settle(event, res); err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}

// Stats returns a snapshot of the bus counters.
func (b *Bus) Stats() Stats {
	events, wildcards := b.reg.counts()
	return Stats{
		Dispatches:  b.dispatches.Load(),
		Invocations: b.invocations.Load(),
		Failures:    b.failures.Load(),
		Panics:      b.panics.Load(),
		Events:      events,
		Wildcards:   wildcards,
	}
}

// runWildcards invokes the wildcard set with (event, args).
func (b *Bus) runWildcards(event string, args []any, wildcards []Listener) error {
	for _, l := range wildcards {
		if err := b.settle(event, b.invoke(event, l, []any{event, args})); err != nil {
			return err
		}
	}
	return nil
}

// invoke runs one listener with panic recovery and timing.
func (b *Bus) invoke(event string, l Listener, args []any) (res Result) {
	b.invocations.Add(1)
	start := time.Now()

	defer func() {
		res.Duration = time.Since(start)

		if r := recover(); r != nil {
			stack := debug.Stack()

			res.Value = nil
			res.Success = false
			res.Panicked = true
			res.Err = &PanicError{Event: event, Value: r, Stack: stack}

			// The panic handler must never take down the dispatcher.
			if b.panicHandler != nil {
				func() {
					defer func() { _ = recover() }()
					b.panicHandler(event, r, stack)
				}()
			}
		}
	}()

	value, err := l.Invoke(args...)
	if err != nil {
		res.Err = err
		return res
	}
	res.Value = value
	res.Success = true
	return res
}

// settle applies the failure policy to a finished invocation. It returns the
// error to propagate, or nil when the dispatch should continue.
func (b *Bus) settle(event string, res Result) error {
	if res.IsSuccess() {
		return nil
	}

	if res.Panicked {
		b.panics.Add(1)
	} else {
		b.failures.Add(1)
	}

	if b.Policy() == PolicyPropagate {
		if res.Panicked {
			return res.Err
		}
		return &ListenerError{Event: event, Err: res.Err}
	}

	if res.Panicked {
		b.warn.Error("listener panicked", slog.String("event", event), slog.Any("error", res.Err))
	} else {
		b.warn.Warn("listener failed", slog.String("event", event), slog.Any("error", res.Err))
	}
	return nil
}
