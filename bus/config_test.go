package bus

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWithConfig(t *testing.T) {
	data := []byte("policy: propagate\nwarn_rate: 2.5\nwarn_burst: 7\n")

	o, err := newOptions(WithConfig(data))
	if err != nil {
		t.Fatalf("newOptions() failed: %v", err)
	}
	if o.Policy != PolicyPropagate {
		t.Errorf("expected propagate policy, got %v", o.Policy)
	}
	if o.WarnRate != 2.5 {
		t.Errorf("expected warn rate 2.5, got %v", o.WarnRate)
	}
	if o.WarnBurst != 7 {
		t.Errorf("expected warn burst 7, got %d", o.WarnBurst)
	}

	b, err := New(WithConfig(data))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if b.Policy() != PolicyPropagate {
		t.Errorf("expected configured policy on bus, got %v", b.Policy())
	}
}

func TestWithConfig_Defaults(t *testing.T) {
	// An empty document keeps every default.
	o, err := newOptions(WithConfig([]byte("")))
	if err != nil {
		t.Fatalf("newOptions() failed: %v", err)
	}
	if o.Policy != PolicyIsolate {
		t.Errorf("expected default policy, got %v", o.Policy)
	}
	if o.WarnRate != defaultOptions.WarnRate {
		t.Errorf("expected default warn rate, got %v", o.WarnRate)
	}
	if o.WarnBurst != defaultOptions.WarnBurst {
		t.Errorf("expected default warn burst, got %d", o.WarnBurst)
	}
}

func TestWithConfig_UnknownPolicy(t *testing.T) {
	_, err := New(WithConfig([]byte("policy: explode\n")))
	if err == nil {
		t.Fatal("expected error for unknown policy")
	}
	if !strings.Contains(err.Error(), "explode") {
		t.Errorf("expected offending policy in error, got %v", err)
	}
}

func TestWithConfig_InvalidYAML(t *testing.T) {
	_, err := New(WithConfig([]byte("policy: [unclosed\n")))
	if err == nil {
		t.Fatal("expected error for invalid yaml")
	}
	if !strings.Contains(err.Error(), "parse config") {
		t.Errorf("expected parse error, got %v", err)
	}
}

func TestWithConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bus.yaml")
	if err := os.WriteFile(path, []byte("policy: propagate\n"), 0o644); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	b, err := New(WithConfigFile(path))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if b.Policy() != PolicyPropagate {
		t.Errorf("expected policy from file, got %v", b.Policy())
	}
}

func TestWithConfigFile_Missing(t *testing.T) {
	_, err := New(WithConfigFile(filepath.Join(t.TempDir(), "absent.yaml")))
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
	if !strings.Contains(err.Error(), "read config") {
		t.Errorf("expected read error, got %v", err)
	}
}

func TestWithPolicy_Invalid(t *testing.T) {
	if _, err := New(WithPolicy(Policy(42))); err == nil {
		t.Fatal("expected error for invalid policy value")
	}
}

func TestWithWarnRate(t *testing.T) {
	o, err := newOptions(WithWarnRate(5, 2))
	if err != nil {
		t.Fatalf("newOptions() failed: %v", err)
	}
	if o.WarnRate != 5 || o.WarnBurst != 2 {
		t.Errorf("expected warn rate 5 burst 2, got %v/%d", o.WarnRate, o.WarnBurst)
	}

	// Non-positive values keep the defaults.
	o, err = newOptions(WithWarnRate(0, -1))
	if err != nil {
		t.Fatalf("newOptions() failed: %v", err)
	}
	if o.WarnRate != defaultOptions.WarnRate || o.WarnBurst != defaultOptions.WarnBurst {
		t.Errorf("expected defaults preserved, got %v/%d", o.WarnRate, o.WarnBurst)
	}
}

func TestNewOptions_CopiesDefaults(t *testing.T) {
	o, err := newOptions(WithPolicy(PolicyPropagate))
	if err != nil {
		t.Fatalf("newOptions() failed: %v", err)
	}
	if o == defaultOptions {
		t.Fatal("newOptions() must not hand out the shared defaults")
	}
	if defaultOptions.Policy != PolicyIsolate {
		t.Error("applying an option mutated the shared defaults")
	}
}
