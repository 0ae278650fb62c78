package tracking

import (
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/dshills/corebus/bus"
	"github.com/dshills/corebus/execctx"
	"github.com/dshills/corebus/internal/logx"
)

// ErrAlreadyAttached is returned by Attach when the monitor is already
// observing a bus.
var ErrAlreadyAttached = errors.New("monitor is already attached to a bus")

// Activity is the lifecycle tally for one context tree.
type Activity struct {
	// Identifier is the root context's category identifier.
	Identifier string

	// Started counts contexts started under the root, the root included.
	Started int

	// Ended counts contexts ended under the root.
	Ended int
}

// Monitor observes context lifecycle events through a wildcard subscription
// and keeps per-root activity tallies. All methods are safe for concurrent
// use.
type Monitor struct {
	mu   sync.Mutex
	open map[string]*Activity
	b    *bus.Bus

	listener bus.Listener
	warn     *logx.Throttle
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithLogger sets the logger used for unknown-root warnings.
func WithLogger(l *slog.Logger) Option {
	return func(m *Monitor) {
		m.warn = logx.New(l, 0, 0)
	}
}

// NewMonitor creates a detached monitor.
func NewMonitor(opts ...Option) *Monitor {
	m := &Monitor{
		open: make(map[string]*Activity),
		warn: logx.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.listener = bus.ListenerFunc(func(args ...any) (any, error) {
		m.observe(args)
		return nil, nil
	})
	return m
}

// Attach subscribes the monitor's wildcard listener on b. A monitor observes
// one bus at a time.
func (m *Monitor) Attach(b *bus.Bus) error {
	m.mu.Lock()
	if m.b != nil {
		m.mu.Unlock()
		return ErrAlreadyAttached
	}
	m.b = b
	m.mu.Unlock()

	return b.SubscribeAll(m.listener)
}

// Detach unsubscribes from the observed bus. Detaching a detached monitor is
// a no-op.
func (m *Monitor) Detach() {
	m.mu.Lock()
	b := m.b
	m.b = nil
	m.mu.Unlock()

	if b != nil {
		b.UnsubscribeAll(m.listener)
	}
}

// Snapshot returns a copy of the per-root tallies keyed by root UID.
func (m *Monitor) Snapshot() map[string]Activity {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[string]Activity, len(m.open))
	for uid, a := range m.open {
		out[uid] = *a
	}
	return out
}

// Active returns the number of contexts still open under the given root UID.
func (m *Monitor) Active(rootUID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	a := m.open[rootUID]
	if a == nil {
		return 0
	}
	return a.Started - a.Ended
}

// Reset clears all tallies.
func (m *Monitor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.open = make(map[string]*Activity)
}

// observe handles one wildcard delivery: args[0] is the event id, args[1]
// the dispatch argument slice.
func (m *Monitor) observe(args []any) {
	if len(args) != 2 {
		return
	}
	event, ok := args[0].(string)
	if !ok {
		return
	}
	rest, ok := args[1].([]any)
	if !ok || len(rest) != 1 {
		return
	}
	c, ok := rest[0].(*execctx.Context)
	if !ok {
		return
	}

	switch {
	case strings.HasPrefix(event, execctx.StartedPrefix):
		m.started(c)
	case strings.HasPrefix(event, execctx.EndedPrefix):
		m.ended(c)
	}
}

func (m *Monitor) started(c *execctx.Context) {
	root := c.Root()

	m.mu.Lock()
	defer m.mu.Unlock()

	a := m.open[root.UID()]
	if a == nil {
		a = &Activity{Identifier: root.Identifier()}
		m.open[root.UID()] = a
	}
	a.Started++
}

func (m *Monitor) ended(c *execctx.Context) {
	root := c.Root()

	m.mu.Lock()
	a := m.open[root.UID()]
	if a != nil {
		a.Ended++
		m.mu.Unlock()
		return
	}
	m.mu.Unlock()

	m.warn.Warn("context ended under unknown root",
		slog.String("identifier", c.Identifier()),
		slog.String("root_uid", root.UID()))
}
