package bus

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileConfig is the YAML schema accepted by WithConfig and WithConfigFile.
//
//	policy: isolate | propagate
//	warn_rate: 10
//	warn_burst: 50
type fileConfig struct {
	Policy    string  `yaml:"policy"`
	WarnRate  float64 `yaml:"warn_rate"`
	WarnBurst int     `yaml:"warn_burst"`
}

func (c fileConfig) apply(o *options) error {
	switch c.Policy {
	case "":
	case "isolate":
		o.Policy = PolicyIsolate
	case "propagate":
		o.Policy = PolicyPropagate
	default:
		return fmt.Errorf("unrecognized policy: %q", c.Policy)
	}
	if c.WarnRate > 0 {
		o.WarnRate = c.WarnRate
	}
	if c.WarnBurst > 0 {
		o.WarnBurst = c.WarnBurst
	}
	return nil
}

// WithConfig parses YAML bytes and applies them to the bus configuration.
func WithConfig(data []byte) Option {
	return func(o *options) error {
		var cfg fileConfig
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return fmt.Errorf("parse config: %w", err)
		}
		return cfg.apply(o)
	}
}

// WithConfigFile loads a YAML file and applies it to the bus configuration.
func WithConfigFile(path string) Option {
	return func(o *options) error {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read config %s: %w", path, err)
		}
		return WithConfig(data)(o)
	}
}
