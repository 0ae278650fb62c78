package execctx

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/dshills/corebus/bus"
	"github.com/dshills/corebus/internal/logx"
	"github.com/dshills/corebus/scoped"
)

// RootID is the reserved identifier of the process root context.
const RootID = "root"

// Lifecycle event id prefixes. The full event id appends the context's
// identifier, so listeners can subscribe per category or observe everything
// through a wildcard subscription.
const (
	// StartedPrefix prefixes the event published when a context is created.
	StartedPrefix = "context.started."

	// EndedPrefix prefixes the event published when a context ends.
	EndedPrefix = "context.ended."
)

// StartedEvent returns the lifecycle event id published when a context with
// the given identifier is created.
func StartedEvent(identifier string) string {
	return StartedPrefix + identifier
}

// EndedEvent returns the lifecycle event id published when a context with
// the given identifier ends.
func EndedEvent(identifier string) string {
	return EndedPrefix + identifier
}

// current holds the active context for module-level resolution. Goroutines
// needing isolated values carry their context via ContextWith/FromContext.
var current = scoped.NewVariable[*Context]("execution context")

// processRoot is the distinguished parentless context every default chain
// resolves to.
var processRoot *Context

func init() {
	processRoot = &Context{
		identifier: RootID,
		uid:        uuid.NewString(),
		data:       make(map[string]any),
		isRoot:     true,
	}
	current.Init(processRoot)
}

// Context is one node of the execution-context tree: a category identifier,
// an ordered parent sequence whose first entry drives inheritance and root
// resolution, a private key/value mapping, and an optional span association.
//
// Data mutation is expected from the single logical flow that owns the
// context; concurrent readers walking the ancestor chain are safe. Each
// individual item operation is the unit of atomicity.
type Context struct {
	identifier string
	uid        string

	mu      sync.RWMutex
	data    map[string]any
	parents []*Context
	token   *scoped.Token[*Context]

	span   Span
	bus    *bus.Bus
	isRoot bool
}

// Option configures context creation.
type Option func(*config)

type config struct {
	parent   *Context
	span     Span
	data     map[string]any
	bus      *bus.Bus
	detached bool
}

// WithParent sets the primary parent instead of the current context.
func WithParent(parent *Context) Option {
	return func(c *config) { c.parent = parent }
}

// WithSpan associates the context with a span. A span-bound context never
// becomes the current context and is reachable only through the span.
func WithSpan(s Span) Option {
	return func(c *config) { c.span = s }
}

// WithData merges initial key/value data into the context's own mapping.
func WithData(data map[string]any) Option {
	return func(c *config) {
		if c.data == nil {
			c.data = make(map[string]any, len(data))
		}
		for k, v := range data {
			c.data[k] = v
		}
	}
}

// WithItem adds one initial key/value pair to the context's own mapping.
func WithItem(key string, value any) Option {
	return func(c *config) {
		if c.data == nil {
			c.data = make(map[string]any, 1)
		}
		c.data[key] = value
	}
}

// WithBus publishes the context's lifecycle events on b instead of the
// process default bus.
func WithBus(b *bus.Bus) Option {
	return func(c *config) { c.bus = b }
}

// Detached creates the context with no parent instead of defaulting to the
// current context.
func Detached() Option {
	return func(c *config) { c.detached = true }
}

// New creates a context. The primary parent defaults to the current context
// unless WithParent or Detached is given. Initial data is merged into the
// own mapping, then, when no span is supplied, the context pushes itself as
// current and retains the restore token. "context.started.<identifier>" is
// always published synchronously, with the context as sole argument, before
// New returns.
//
// The returned error is the started-dispatch outcome; it is always nil under
// bus.PolicyIsolate. The context is returned either way.
func New(identifier string, opts ...Option) (*Context, error) {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	c := &Context{
		identifier: identifier,
		uid:        uuid.NewString(),
		data:       make(map[string]any, len(cfg.data)),
		span:       cfg.span,
		bus:        cfg.bus,
	}
	for k, v := range cfg.data {
		c.data[k] = v
	}

	parent := cfg.parent
	if parent == nil && !cfg.detached {
		if cur, err := Current(); err == nil {
			parent = cur
		}
	}
	if parent != nil {
		c.parents = append(c.parents, parent)
	}

	if c.span == nil {
		c.token = current.Set(c)
	}

	return c, c.eventBus().Dispatch(StartedEvent(identifier), c)
}

// End publishes "context.ended.<identifier>" with the context as sole
// argument and, for stack-bound contexts, restores the previously current
// context. A stale restore token, as when the context is ended on a
// different flow than the one that created it, is logged and otherwise
// ignored.
//
// End is not idempotent: a second call publishes the ended event again. The
// dispatch outcome is returned; the error is always nil under
// bus.PolicyIsolate.
func (c *Context) End() ([]bus.Result, error) {
	results, err := c.eventBus().DispatchResults(EndedEvent(c.identifier), c)

	c.mu.Lock()
	token := c.token
	c.token = nil
	c.mu.Unlock()

	if token != nil {
		if rerr := current.Reset(token); rerr != nil {
			logx.Default().Warn("context restore token stale",
				slog.String("identifier", c.identifier),
				slog.String("uid", c.uid))
		}
	}
	return results, err
}

// Identifier returns the context's category identifier. Identifiers are not
// unique; many contexts may share one.
func (c *Context) Identifier() string {
	return c.identifier
}

// UID returns the unique instance id.
func (c *Context) UID() string {
	return c.uid
}

// Span returns the associated span, or nil.
func (c *Context) Span() Span {
	return c.span
}

// IsRoot reports whether this is the process root context.
func (c *Context) IsRoot() bool {
	return c.isRoot
}

// Parent returns the primary parent, or nil.
func (c *Context) Parent() *Context {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if len(c.parents) == 0 {
		return nil
	}
	return c.parents[0]
}

// Parents returns a copy of the parent sequence.
func (c *Context) Parents() []*Context {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*Context, len(c.parents))
	copy(out, c.parents)
	return out
}

// AddParent appends parent to the parent sequence. The root context accepts
// no parents: ErrRootParent is returned and the sequence is unchanged.
func (c *Context) AddParent(parent *Context) error {
	if c.isRoot {
		return ErrRootParent
	}
	if parent == nil {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.parents = append(c.parents, parent)
	return nil
}

// Root resolves the root of the primary-parent chain, returning the receiver
// when it has no parents.
func (c *Context) Root() *Context {
	node := c
	for {
		parent := node.Parent()
		if parent == nil {
			return node
		}
		node = parent
	}
}

// Lookup returns the value for key from this context's own mapping or, when
// absent, by walking the primary-parent chain until found or exhausted.
func (c *Context) Lookup(key string) (any, bool) {
	for node := c; node != nil; node = node.Parent() {
		if v, ok := node.LocalLookup(key); ok {
			return v, true
		}
	}
	return nil, false
}

// LocalLookup returns the value for key from this context's own mapping
// only, never consulting ancestors.
func (c *Context) LocalLookup(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	v, ok := c.data[key]
	return v, ok
}

// GetItem returns the value for key via parent traversal, or nil when absent.
func (c *Context) GetItem(key string) any {
	v, _ := c.Lookup(key)
	return v
}

// GetItems returns one traversal value per key, order-aligned with keys.
func (c *Context) GetItems(keys []string) []any {
	values := make([]any, len(keys))
	for i, key := range keys {
		values[i] = c.GetItem(key)
	}
	return values
}

// Item is bracket-style access: the traversal value for key, or
// ErrKeyNotFound when the resolved value is nil and the key is not present
// verbatim in the own mapping. A key present locally with a nil value is
// found, not an error.
func (c *Context) Item(key string) (any, error) {
	v, _ := c.Lookup(key)
	if v == nil {
		if _, ok := c.LocalLookup(key); !ok {
			return nil, ErrKeyNotFound
		}
	}
	return v, nil
}

// SetItem stores key/value in the own mapping, overwriting any prior value.
func (c *Context) SetItem(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data[key] = value
}

// SetSafe stores key/value like SetItem but returns ErrDuplicateKey when the
// key already exists in the own mapping. Ancestors are not consulted; the
// existing value is unchanged on failure.
func (c *Context) SetSafe(key string, value any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.data[key]; ok {
		return ErrDuplicateKey
	}
	c.data[key] = value
	return nil
}

// SetItems stores every pair into the own mapping. It never fails partway.
func (c *Context) SetItems(items map[string]any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for k, v := range items {
		c.data[k] = v
	}
}

// Keys returns the own mapping's keys in sorted order.
func (c *Context) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys := make([]string, 0, len(c.data))
	for k := range c.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// eventBus resolves the bus lifecycle events publish on.
func (c *Context) eventBus() *bus.Bus {
	if c.bus != nil {
		return c.bus
	}
	return bus.Default()
}

// Root returns the process root context.
func Root() *Context {
	return processRoot
}

// Current returns the active context.
func Current() (*Context, error) {
	c, err := current.Get()
	if err != nil {
		return nil, ErrNoActiveContext
	}
	return c, nil
}
