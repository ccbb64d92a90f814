package client

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/cenk/backoff"
	circuit "github.com/rubyist/circuitbreaker"
)

// breakers holds one circuit breaker per API host.
type breakers struct {
	threshold int64
	byHost    map[string]*circuit.Breaker
	mu        sync.RWMutex
}

func newBreakers(threshold int64) *breakers {
	return &breakers{
		threshold: threshold,
		byHost:    make(map[string]*circuit.Breaker),
	}
}

// get returns or creates the breaker for host.
func (b *breakers) get(host string) *circuit.Breaker {
	b.mu.RLock()
	breaker, exists := b.byHost[host]
	b.mu.RUnlock()

	if exists {
		return breaker
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if breaker, exists := b.byHost[host]; exists {
		return breaker
	}

	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = 30 * time.Second
	expBackoff.MaxInterval = 5 * time.Minute
	expBackoff.Multiplier = 2.0
	expBackoff.Reset()

	breaker = circuit.NewBreakerWithOptions(&circuit.Options{
		BackOff:    expBackoff,
		ShouldTrip: circuit.ThresholdTripFunc(b.threshold),
	})

	b.byHost[host] = breaker
	return breaker
}

// call runs fn under host's breaker. Only upstream outages and transport
// failures count against the breaker; 4xx answers are ordinary results.
func (b *breakers) call(host string, fn func() (*Response, error)) (*Response, error) {
	breaker := b.get(host)

	if !breaker.Ready() {
		return nil, fmt.Errorf("%w for %s: %w", ErrBreakerOpen, host, ErrUpstreamDown)
	}

	var resp *Response
	var callErr error
	err := breaker.Call(func() error {
		resp, callErr = fn()
		if tripsBreaker(callErr) {
			return callErr
		}
		return nil
	}, 0)

	if errors.Is(err, circuit.ErrBreakerOpen) {
		return nil, fmt.Errorf("%w for %s: %w", ErrBreakerOpen, host, ErrUpstreamDown)
	}
	if callErr != nil {
		return nil, callErr
	}
	return resp, err
}

func (b *breakers) state() map[string]string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	states := make(map[string]string, len(b.byHost))
	for host, breaker := range b.byHost {
		if breaker.Tripped() {
			states[host] = "open"
		} else {
			states[host] = "closed"
		}
	}
	return states
}

func tripsBreaker(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return errors.Is(err, ErrUpstreamDown)
	}
	return true
}

// hostOf extracts the host used to group breakers.
func hostOf(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		if len(rawURL) > 50 {
			return rawURL[:50]
		}
		return rawURL
	}
	return parsed.Host
}
