package corebus

import (
	"errors"
	"testing"

	"github.com/dshills/corebus/bus"
	"github.com/dshills/corebus/execctx"
)

// freshBus swaps in an empty default bus for the duration of a test so
// subscriptions and lifecycle events never cross test boundaries.
func freshBus(t *testing.T) *bus.Bus {
	t.Helper()
	orig := bus.Default()
	t.Cleanup(func() { bus.SetDefault(orig) })

	b, err := bus.New()
	if err != nil {
		t.Fatalf("bus.New() failed: %v", err)
	}
	bus.SetDefault(b)
	return b
}

func TestOnDispatch(t *testing.T) {
	freshBus(t)

	var calls int
	listener := ListenerFunc(func(args ...any) (any, error) {
		calls++
		if len(args) != 1 || args[0] != "payload" {
			t.Errorf("unexpected arguments: %v", args)
		}
		return nil, nil
	})

	if err := On("facade.event", listener); err != nil {
		t.Fatalf("On() failed: %v", err)
	}
	if !HasListeners("facade.event") {
		t.Error("expected HasListeners after On")
	}
	if err := Dispatch("facade.event", "payload"); err != nil {
		t.Fatalf("Dispatch() failed: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 invocation, got %d", calls)
	}

	Off("facade.event", listener)
	if HasListeners("facade.event") {
		t.Error("expected listener removed by Off")
	}
}

func TestOnAll(t *testing.T) {
	freshBus(t)

	var seen []string
	OnAll(ListenerFunc(func(args ...any) (any, error) {
		seen = append(seen, args[0].(string))
		return nil, nil
	}))

	Dispatch("first.event")
	Dispatch("second.event", 1, 2)

	if len(seen) != 2 || seen[0] != "first.event" || seen[1] != "second.event" {
		t.Errorf("expected wildcard to observe every event, got %v", seen)
	}
}

func TestDispatchWithResults(t *testing.T) {
	freshBus(t)

	On("quote", ListenerFunc(func(args ...any) (any, error) {
		return 10, nil
	}))
	On("quote", ListenerFunc(func(args ...any) (any, error) {
		return nil, errors.New("no quote")
	}))

	results, err := DispatchWithResults("quote")
	if err != nil {
		t.Fatalf("DispatchWithResults() failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if !results[0].IsSuccess() || results[0].Value != 10 {
		t.Errorf("unexpected first result: %+v", results[0])
	}
	if !results[1].IsError() {
		t.Errorf("unexpected second result: %+v", results[1])
	}
}

func TestResetListeners(t *testing.T) {
	freshBus(t)

	On("facade.event", ListenerFunc(func(args ...any) (any, error) {
		return nil, nil
	}))
	ResetListeners()
	if HasListeners("facade.event") {
		t.Error("expected ResetListeners to clear the registry")
	}
}

func TestSetPolicy(t *testing.T) {
	b := freshBus(t)

	SetPolicy(bus.PolicyPropagate)
	if b.Policy() != bus.PolicyPropagate {
		t.Error("expected policy applied to the default bus")
	}

	boom := errors.New("boom")
	On("failing.event", ListenerFunc(func(args ...any) (any, error) {
		return nil, boom
	}))
	if err := Dispatch("failing.event"); !errors.Is(err, boom) {
		t.Errorf("expected propagated failure, got %v", err)
	}
}

func TestItemOperations(t *testing.T) {
	freshBus(t)

	err := WithContext("req", func(c *Context) error {
		// The module-level operations resolve the current context.
		SetItem("user", "ada")
		if got := GetItem("user"); got != "ada" {
			t.Errorf("expected stored value, got %v", got)
		}
		if got := c.GetItem("user"); got != "ada" {
			t.Errorf("expected value visible on the context, got %v", got)
		}

		SetItems(map[string]any{"a": 1, "b": 2})
		values := GetItems([]string{"a", "missing", "b"})
		if len(values) != 3 || values[0] != 1 || values[1] != nil || values[2] != 2 {
			t.Errorf("expected order-aligned values, got %v", values)
		}

		if err := SetSafe("user", "grace"); !errors.Is(err, execctx.ErrDuplicateKey) {
			t.Errorf("expected ErrDuplicateKey, got %v", err)
		}
		if got := GetItem("user"); got != "ada" {
			t.Errorf("expected original value preserved, got %v", got)
		}
		if err := SetSafe("fresh", true); err != nil {
			t.Errorf("SetSafe() on fresh key failed: %v", err)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithContext() failed: %v", err)
	}
}

func TestItemOperations_WithSpan(t *testing.T) {
	freshBus(t)

	anchor, err := ContextWithData("trace", execctx.Detached())
	if err != nil {
		t.Fatalf("ContextWithData() failed: %v", err)
	}
	defer anchor.End()
	store := execctx.NewStore(anchor)

	err = WithContext("req", func(c *Context) error {
		// WithSpan bypasses the current context entirely.
		SetItem("origin", "span", WithSpan(store))
		if got := GetItem("origin", WithSpan(store)); got != "span" {
			t.Errorf("expected span-stored value, got %v", got)
		}
		if _, ok := c.LocalLookup("origin"); ok {
			t.Error("expected span write to bypass the session context")
		}

		SetItems(map[string]any{"x": 1}, WithSpan(store))
		values := GetItems([]string{"x", "origin"}, WithSpan(store))
		if len(values) != 2 || values[0] != 1 || values[1] != "span" {
			t.Errorf("expected span-resolved values, got %v", values)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithContext() failed: %v", err)
	}

	// The span store anchored everything at the trace root.
	if got := anchor.GetItem("origin"); got != "span" {
		t.Errorf("expected span writes on the anchor, got %v", got)
	}
}

func TestContextWithData(t *testing.T) {
	freshBus(t)

	var started int
	On(execctx.StartedEvent("job"), ListenerFunc(func(args ...any) (any, error) {
		started++
		return nil, nil
	}))

	c, err := ContextWithData("job", execctx.WithItem("attempt", 1))
	if err != nil {
		t.Fatalf("ContextWithData() failed: %v", err)
	}
	defer c.End()

	if started != 1 {
		t.Errorf("expected started event on the default bus, got %d", started)
	}
	if got := c.GetItem("attempt"); got != 1 {
		t.Errorf("expected seeded data, got %v", got)
	}
}

func TestCurrentAndRoot(t *testing.T) {
	freshBus(t)

	root := Root()
	if root == nil || !root.IsRoot() {
		t.Fatal("expected process root context")
	}

	cur, err := Current()
	if err != nil {
		t.Fatalf("Current() failed: %v", err)
	}
	if cur == nil {
		t.Fatal("expected a current context")
	}

	// Inside a session the current context is the session's.
	WithContext("req", func(c *Context) error {
		got, err := Current()
		if err != nil || got != c {
			t.Errorf("expected session context current, got %v/%v", got, err)
		}
		if got.Root() != cur.Root() {
			t.Error("expected session rooted under the prior current context")
		}
		return nil
	})
}
