package execctx

// Span is the boundary to an external tracing collaborator. Supplying a span
// to the module-level item operations redirects reads and writes to the
// span's associated store, bypassing the current-context variable entirely.
type Span interface {
	// CtxItem returns the value stored under key, or nil when absent.
	CtxItem(key string) any

	// SetCtxItem stores key/value.
	SetCtxItem(key string, value any)

	// SetCtxItems stores every pair in items.
	SetCtxItems(items map[string]any)
}

// Store implements Span by delegating to the root of a context's
// primary-parent chain, so every context in one tree shares the same
// span-visible data.
type Store struct {
	root *Context
}

// NewStore creates a store anchored at c's root.
func NewStore(c *Context) *Store {
	return &Store{root: c.Root()}
}

// Root returns the anchoring root context.
func (s *Store) Root() *Context {
	return s.root
}

// CtxItem implements Span.
func (s *Store) CtxItem(key string) any {
	return s.root.GetItem(key)
}

// SetCtxItem implements Span.
func (s *Store) SetCtxItem(key string, value any) {
	s.root.SetItem(key, value)
}

// SetCtxItems implements Span.
func (s *Store) SetCtxItems(items map[string]any) {
	s.root.SetItems(items)
}
