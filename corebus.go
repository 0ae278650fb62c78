package corebus

import (
	"github.com/dshills/corebus/bus"
	"github.com/dshills/corebus/execctx"
)

// Aliases so callers can work with the facade alone.
type (
	// Listener is a subscribed callable invoked on dispatch.
	Listener = bus.Listener

	// ListenerFunc adapts a plain function to Listener.
	ListenerFunc = bus.ListenerFunc

	// Result is one listener's dispatch outcome.
	Result = bus.Result

	// Context is one node of the execution-context tree.
	Context = execctx.Context

	// ContextOption configures context creation.
	ContextOption = execctx.Option

	// Span anchors context data outside the current-context stack.
	Span = execctx.Span
)

// On subscribes a listener to an event id on the default bus.
func On(event string, l Listener) error {
	return bus.Subscribe(event, l)
}

// OnAll subscribes a wildcard listener on the default bus. Wildcard
// listeners run before per-event listeners and receive the event id and the
// argument slice.
func OnAll(l Listener) error {
	return bus.SubscribeAll(l)
}

// Off removes a listener from an event id on the default bus.
func Off(event string, l Listener) {
	bus.Unsubscribe(event, l)
}

// HasListeners reports whether the event id has listeners on the default
// bus.
func HasListeners(event string) bool {
	return bus.HasListeners(event)
}

// Dispatch publishes an event on the default bus. Wildcard listeners run
// first with (event, args); per-event listeners follow in registration order
// with args spread positionally.
func Dispatch(event string, args ...any) error {
	return bus.Dispatch(event, args...)
}

// DispatchWithResults publishes an event on the default bus and collects one
// Result per per-event listener, index-aligned with registration order.
func DispatchWithResults(event string, args ...any) ([]Result, error) {
	return bus.DispatchResults(event, args...)
}

// ResetListeners clears the default bus's registries. Intended for test
// isolation.
func ResetListeners() {
	bus.Reset()
}

// SetPolicy sets the default bus's dispatch failure policy.
func SetPolicy(p bus.Policy) {
	bus.SetPolicy(p)
}

// ContextWithData creates an execution context as execctx.New does: the
// current context becomes its parent unless overridden, initial data comes
// from execctx.WithData, and "context.started.<identifier>" is published
// before return.
func ContextWithData(identifier string, opts ...ContextOption) (*Context, error) {
	return execctx.New(identifier, opts...)
}

// WithContext runs fn inside a fresh context that is ended exactly once on
// every exit path.
func WithContext(identifier string, fn func(*Context) error, opts ...ContextOption) error {
	return execctx.With(identifier, fn, opts...)
}

// Current returns the active execution context.
func Current() (*Context, error) {
	return execctx.Current()
}

// Root returns the process root context.
func Root() *Context {
	return execctx.Root()
}

// ItemOption adjusts how the item operations resolve their target.
type ItemOption func(*itemConfig)

type itemConfig struct {
	span Span
}

// WithSpan redirects the operation to the span's store instead of the
// current context.
func WithSpan(s Span) ItemOption {
	return func(c *itemConfig) { c.span = s }
}

func resolveItem(opts []ItemOption) itemConfig {
	var cfg itemConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// mustCurrent resolves the current context. The current-context variable is
// initialized to the root context at init, so failure here is an invariant
// violation.
func mustCurrent() *Context {
	c, err := execctx.Current()
	if err != nil {
		panic(err)
	}
	return c
}

// GetItem returns the value for key from the current context via parent
// traversal, or from the span's store when WithSpan is given. Missing keys
// yield nil.
func GetItem(key string, opts ...ItemOption) any {
	cfg := resolveItem(opts)
	if cfg.span != nil {
		return cfg.span.CtxItem(key)
	}
	return mustCurrent().GetItem(key)
}

// GetItems returns one value per key, order-aligned with keys, resolved as
// GetItem resolves a single key.
func GetItems(keys []string, opts ...ItemOption) []any {
	cfg := resolveItem(opts)
	if cfg.span != nil {
		values := make([]any, len(keys))
		for i, key := range keys {
			values[i] = cfg.span.CtxItem(key)
		}
		return values
	}
	return mustCurrent().GetItems(keys)
}

// SetItem stores key/value on the current context, or on the span's store
// when WithSpan is given.
func SetItem(key string, value any, opts ...ItemOption) {
	cfg := resolveItem(opts)
	if cfg.span != nil {
		cfg.span.SetCtxItem(key, value)
		return
	}
	mustCurrent().SetItem(key, value)
}

// SetItems stores every pair on the current context, or on the span's store
// when WithSpan is given.
func SetItems(items map[string]any, opts ...ItemOption) {
	cfg := resolveItem(opts)
	if cfg.span != nil {
		cfg.span.SetCtxItems(items)
		return
	}
	mustCurrent().SetItems(items)
}

// SetSafe stores key/value on the current context, failing with
// execctx.ErrDuplicateKey when the key already exists there. Spans expose no
// safe-set capability, so SetSafe always resolves the current context.
func SetSafe(key string, value any) error {
	return mustCurrent().SetSafe(key, value)
}
