package flare

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mohae/deepcopy"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/dshills/corebus/bus"
	"github.com/dshills/corebus/execctx"
	"github.com/dshills/corebus/tracking"
)

// Redacted replaces values stored under secret-looking keys.
const Redacted = "<redacted>"

// secretMarkers flag keys whose values must not appear in a report.
var secretMarkers = []string{"key", "token", "secret", "password"}

// Report is an assembled diagnostic snapshot.
type Report struct {
	json string
}

// Option selects what Collect includes.
type Option func(*config)

type config struct {
	b   *bus.Bus
	ctx *execctx.Context
	mon *tracking.Monitor
}

// WithBus includes the bus's counters and failure policy.
func WithBus(b *bus.Bus) Option {
	return func(c *config) { c.b = b }
}

// WithContext includes the context chain from ctx up to its root, with each
// node's identifier, UID, and own data.
func WithContext(ctx *execctx.Context) Option {
	return func(c *config) { c.ctx = ctx }
}

// WithMonitor includes per-root lifecycle tallies.
func WithMonitor(m *tracking.Monitor) Option {
	return func(c *config) { c.mon = m }
}

// Collect assembles a report from the selected sources.
func Collect(opts ...Option) (*Report, error) {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	doc := "{}"
	var err error
	if doc, err = sjson.Set(doc, "report.id", uuid.NewString()); err != nil {
		return nil, fmt.Errorf("assemble report: %w", err)
	}
	if doc, err = sjson.Set(doc, "report.created_at", time.Now().UTC().Format(time.RFC3339)); err != nil {
		return nil, fmt.Errorf("assemble report: %w", err)
	}

	if cfg.b != nil {
		doc = busSection(doc, cfg.b)
	}
	if cfg.ctx != nil {
		doc = chainSection(doc, cfg.ctx)
	}
	if cfg.mon != nil {
		doc = activitySection(doc, cfg.mon)
	}

	return &Report{json: doc}, nil
}

// JSON returns the report document.
func (r *Report) JSON() string {
	return r.json
}

// Get queries the report by gjson path.
func (r *Report) Get(path string) gjson.Result {
	return gjson.Get(r.json, path)
}

// WriteFile writes the report document to path.
func (r *Report) WriteFile(path string) error {
	return os.WriteFile(path, []byte(r.json), 0o600)
}

func busSection(doc string, b *bus.Bus) string {
	stats := b.Stats()
	doc = set(doc, "bus.policy", b.Policy().String())
	doc = set(doc, "bus.dispatches", stats.Dispatches)
	doc = set(doc, "bus.invocations", stats.Invocations)
	doc = set(doc, "bus.failures", stats.Failures)
	doc = set(doc, "bus.panics", stats.Panics)
	doc = set(doc, "bus.events", stats.Events)
	doc = set(doc, "bus.wildcards", stats.Wildcards)
	return doc
}

func chainSection(doc string, ctx *execctx.Context) string {
	i := 0
	for node := ctx; node != nil; node = node.Parent() {
		base := fmt.Sprintf("context.chain.%d", i)
		doc = set(doc, base+".identifier", node.Identifier())
		doc = set(doc, base+".uid", node.UID())
		doc = set(doc, base+".root", node.IsRoot())
		for _, key := range node.Keys() {
			v, _ := node.LocalLookup(key)
			doc = set(doc, base+".data."+escapeKey(key), sanitize(key, v))
		}
		i++
	}
	return set(doc, "context.depth", i)
}

func activitySection(doc string, m *tracking.Monitor) string {
	snap := m.Snapshot()
	uids := make([]string, 0, len(snap))
	for uid := range snap {
		uids = append(uids, uid)
	}
	sort.Strings(uids)

	for _, uid := range uids {
		a := snap[uid]
		base := "activity." + escapeKey(uid)
		doc = set(doc, base+".identifier", a.Identifier)
		doc = set(doc, base+".started", a.Started)
		doc = set(doc, base+".ended", a.Ended)
		doc = set(doc, base+".open", a.Started-a.Ended)
	}
	return doc
}

// set applies one sjson assignment, keeping the prior document when the
// value cannot be serialized.
func set(doc, path string, value any) string {
	next, err := sjson.Set(doc, path, value)
	if err != nil {
		return doc
	}
	return next
}

// sanitize deep-copies v and redacts secret-named keys, so the report holds
// no live references into context data.
func sanitize(key string, v any) any {
	if redacted(key) {
		return Redacted
	}
	return deepcopy.Copy(v)
}

// redacted reports whether a key names secret material.
func redacted(key string) bool {
	k := strings.ToLower(key)
	for _, marker := range secretMarkers {
		if strings.Contains(k, marker) {
			return true
		}
	}
	return false
}

// escapeKey escapes sjson path metacharacters in map keys.
func escapeKey(key string) string {
	key = strings.ReplaceAll(key, `\`, `\\`)
	key = strings.ReplaceAll(key, ".", `\.`)
	key = strings.ReplaceAll(key, ":", `\:`)
	key = strings.ReplaceAll(key, "*", `\*`)
	key = strings.ReplaceAll(key, "?", `\?`)
	return key
}
