// Package cache provides a time-to-live read-through cache for values that
// are expensive to fetch and change rarely.
package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/singleflight"
)

// Object is a cached value and the time it was last fetched.
type Object[T any] struct {
	Data          T
	LastValidated time.Time
	TTL           time.Duration
}

// NewObject wraps data fetched at now.
func NewObject[T any](data T, now time.Time, ttl time.Duration) *Object[T] {
	return &Object[T]{Data: data, LastValidated: now, TTL: ttl}
}

// Expired reports whether more than TTL has elapsed since LastValidated.
func (o *Object[T]) Expired(now time.Time) bool {
	return now.Sub(o.LastValidated) > o.TTL
}

// Loader fetches a fresh value.
type Loader[T any] func(ctx context.Context) (T, error)

// Slot is a single read-through cache entry. Concurrent misses share one
// load; a failed load leaves the previous value in place.
// NewSlot should be used to create instances of Slot.
type Slot[T any] struct {
	name string
	load Loader[T]

	ttl            time.Duration
	refreshTimeout time.Duration
	now            func() time.Time
	logger         hclog.Logger

	mu    sync.RWMutex
	obj   *Object[T]
	group singleflight.Group
}

// NewSlot creates a slot named name that fills itself with load.
func NewSlot[T any](name string, load Loader[T], opts ...Option) (*Slot[T], error) {
	if load == nil {
		return nil, fmt.Errorf("cache slot %q: loader cannot be nil", name)
	}
	options, err := NewOptions(opts...)
	if err != nil {
		return nil, err
	}
	return &Slot[T]{
		name:           name,
		load:           load,
		ttl:            options.ttl,
		refreshTimeout: options.refreshTimeout,
		now:            options.now,
		logger:         options.logger.Named("cache").With("slot", name),
	}, nil
}

// Get returns the cached value when fresh, otherwise loads a new one.
// The load runs detached from ctx so that one caller giving up does not
// fail the others waiting on it; ctx only bounds how long this caller waits.
func (s *Slot[T]) Get(ctx context.Context) (T, error) {
	s.mu.RLock()
	obj := s.obj
	s.mu.RUnlock()

	if obj == nil {
		s.logger.Debug("cache cold")
	} else if !obj.Expired(s.now()) {
		s.logger.Debug("cache hit")
		return obj.Data, nil
	} else {
		s.logger.Debug("cache expired", "last_validated", obj.LastValidated)
	}

	ch := s.group.DoChan(s.name, func() (any, error) {
		// A load that finished after this caller's check may already have
		// filled the slot.
		s.mu.RLock()
		current := s.obj
		s.mu.RUnlock()
		if current != nil && !current.Expired(s.now()) {
			s.logger.Debug("cache filled by concurrent load")
			return current.Data, nil
		}

		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.refreshTimeout)
		defer cancel()

		data, err := s.load(loadCtx)
		if err != nil {
			s.logger.Warn("cache refresh failed", "error", err)
			return nil, err
		}

		s.mu.Lock()
		s.obj = NewObject(data, s.now(), s.ttl)
		s.mu.Unlock()
		return data, nil
	})

	select {
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			var zero T
			return zero, res.Err
		}
		return res.Val.(T), nil
	}
}

// Peek returns the current cached object without loading, or nil if cold.
func (s *Slot[T]) Peek() *Object[T] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.obj
}

// Invalidate drops the cached value so the next Get loads.
func (s *Slot[T]) Invalidate() {
	s.mu.Lock()
	s.obj = nil
	s.mu.Unlock()
}
