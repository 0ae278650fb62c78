package bus

import (
	"fmt"
	"log/slog"

	"github.com/mohae/deepcopy"
)

// Option configures a Bus. Options that parse external input return an error
// from New when the input is invalid.
type Option func(*options) error

// options carries bus configuration. Fields are exported so defaults can be
// deep-copied; the type itself stays private.
type options struct {
	Policy    Policy
	WarnRate  float64
	WarnBurst int

	Logger       *slog.Logger
	PanicHandler PanicHandler
}

var defaultOptions = &options{
	Policy:    PolicyIsolate,
	WarnRate:  10,
	WarnBurst: 50,
}

func newOptions(opts ...Option) (*options, error) {
	o := deepcopy.Copy(defaultOptions).(*options)
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// WithPolicy sets the dispatch failure policy.
func WithPolicy(p Policy) Option {
	return func(o *options) error {
		if !p.valid() {
			return fmt.Errorf("unrecognized policy: %d", p)
		}
		o.Policy = p
		return nil
	}
}

// WithLogger sets the logger used for failure reporting under PolicyIsolate.
// The default is slog.Default.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) error {
		o.Logger = l
		return nil
	}
}

// WithPanicHandler sets a callback invoked with the event id, panic value,
// and stack trace whenever a listener panics.
func WithPanicHandler(h PanicHandler) Option {
	return func(o *options) error {
		o.PanicHandler = h
		return nil
	}
}

// WithWarnRate bounds failure logging to perSec lines per second with the
// given burst. Non-positive values keep the defaults.
func WithWarnRate(perSec float64, burst int) Option {
	return func(o *options) error {
		if perSec > 0 {
			o.WarnRate = perSec
		}
		if burst > 0 {
			o.WarnBurst = burst
		}
		return nil
	}
}
