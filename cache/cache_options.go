package cache

import (
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"
)

const (
	// DefaultTTL is how long a fetched value is served before it is refetched.
	DefaultTTL = time.Hour

	// DefaultRefreshTimeout bounds a single refresh, independent of callers.
	DefaultRefreshTimeout = 30 * time.Second
)

// Option defines a functional option for configuring a Slot.
type Option func(*Options) error

// Options contains optional configuration for a Slot.
type Options struct {
	// ttl is the time-to-live for the cached value.
	ttl time.Duration

	// refreshTimeout bounds each load call.
	refreshTimeout time.Duration

	// now returns the current time.
	now func() time.Time

	// logger is used for logging cache operations.
	logger hclog.Logger
}

func NewOptions(opts ...Option) (Options, error) {
	// Default options.
	o := Options{
		ttl:            DefaultTTL,
		refreshTimeout: DefaultRefreshTimeout,
		now:            time.Now,
		logger:         hclog.NewNullLogger(),
	}

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&o); err != nil {
			return Options{}, err
		}
	}

	return o, nil
}

// WithTTL sets the cache entry time-to-live.
func WithTTL(ttl time.Duration) Option {
	return func(o *Options) error {
		if ttl <= 0 {
			return fmt.Errorf("TTL must be positive, got %v", ttl)
		}
		o.ttl = ttl
		return nil
	}
}

// WithRefreshTimeout bounds how long one refresh may run.
func WithRefreshTimeout(d time.Duration) Option {
	return func(o *Options) error {
		if d <= 0 {
			return fmt.Errorf("refresh timeout must be positive, got %v", d)
		}
		o.refreshTimeout = d
		return nil
	}
}

// WithClock replaces the time source, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(o *Options) error {
		if now == nil {
			return fmt.Errorf("clock cannot be nil")
		}
		o.now = now
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(logger hclog.Logger) Option {
	return func(o *Options) error {
		if logger == nil {
			return fmt.Errorf("logger cannot be nil")
		}
		o.logger = logger
		return nil
	}
}
