// Package client provides the authenticated HTTP client used to talk to
// source-control hosting APIs, with retry, circuit breaking and DNS caching.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/cenk/backoff"
	"github.com/hashicorp/go-hclog"
	"github.com/rs/dnscache"
)

const (
	// DefaultBaseURL is the GitHub REST API root.
	DefaultBaseURL = "https://api.github.com"

	// DefaultUserAgent is sent with every request unless overridden.
	DefaultUserAgent = "pulsar-package-vcs/1.0"

	// MaxResponseSize caps how much of a response body is read.
	MaxResponseSize = 32 * 1024 * 1024

	defaultTimeout          = 10 * time.Second
	defaultMaxRetries       = 2
	defaultBaseDelay        = 250 * time.Millisecond
	defaultBreakerThreshold = 5
	dnsRefreshInterval      = 5 * time.Minute
)

// Response is the outcome of a successful hosting API call.
type Response struct {
	Status int
	Body   []byte
	Header http.Header
}

// Client issues authenticated GET requests against a hosting API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
	maxRetries int
	baseDelay  time.Duration
	logger     hclog.Logger
	breakers   *breakers

	resolver *dnscache.Resolver
	stop     chan struct{}
	stopOnce sync.Once
	shared   bool
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets the API root every request path is appended to.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u = strings.TrimSpace(u); u != "" {
			c.baseURL = strings.TrimSuffix(u, "/")
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client, including its transport.
// hc is copied, so later options never modify the caller's client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			cp := *hc
			c.httpClient = &cp
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithTimeout sets the per-attempt HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithMaxRetries sets how many times a rate limited or 5xx GET is retried.
func WithMaxRetries(n int) Option {
	return func(c *Client) {
		if n >= 0 {
			c.maxRetries = n
		}
	}
}

// WithBaseDelay sets the first retry delay; later delays grow exponentially.
func WithBaseDelay(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.baseDelay = d
		}
	}
}

// WithBreakerThreshold sets the consecutive failures that trip a host's breaker.
func WithBreakerThreshold(n int64) Option {
	return func(c *Client) {
		if n > 0 {
			c.breakers.threshold = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l hclog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient creates a Client. Call Close to stop the DNS refresher.
func NewClient(opts ...Option) *Client {
	resolver := &dnscache.Resolver{}
	dialer := &net.Dialer{
		Timeout:   10 * time.Second,
		KeepAlive: 30 * time.Second,
	}

	c := &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
			Transport: &http.Transport{
				DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
					host, port, err := net.SplitHostPort(addr)
					if err != nil {
						return nil, err
					}
					ips, err := resolver.LookupHost(ctx, host)
					if err != nil {
						return nil, err
					}
					for _, ip := range ips {
						conn, err := dialer.DialContext(ctx, network, net.JoinHostPort(ip, port))
						if err == nil {
							return conn, nil
						}
					}
					return nil, fmt.Errorf("failed to dial any resolved IP for %s", host)
				},
				MaxIdleConns:        50,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
		userAgent:  DefaultUserAgent,
		maxRetries: defaultMaxRetries,
		baseDelay:  defaultBaseDelay,
		logger:     hclog.NewNullLogger(),
		breakers:   newBreakers(defaultBreakerThreshold),
		resolver:   resolver,
		stop:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.Named("client")

	go c.refreshDNS()

	return c
}

var defaultClient = sync.OnceValue(func() *Client {
	c := NewClient()
	c.shared = true
	return c
})

// DefaultClient returns the process-wide client for the public GitHub API.
// Every call returns the same client; Close on it is a no-op.
func DefaultClient() *Client {
	return defaultClient()
}

func (c *Client) refreshDNS() {
	ticker := time.NewTicker(dnsRefreshInterval)
	defer ticker.Stop()
	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.resolver.Refresh(true)
		}
	}
}

// Close releases background resources held by the client.
func (c *Client) Close() {
	if c.shared {
		return
	}
	c.stopOnce.Do(func() { close(c.stop) })
}

// BaseURL returns the API root requests are sent to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Request performs one authenticated GET of path relative to the base URL.
func (c *Client) Request(ctx context.Context, path, token string) (*Response, error) {
	return c.Get(ctx, c.baseURL+path, token)
}

// Get performs one authenticated GET of url. An empty token sends no
// Authorization header. 429 and 5xx responses are retried with backoff;
// every other failure is returned immediately.
func (c *Client) Get(ctx context.Context, url, token string) (*Response, error) {
	host := hostOf(url)

	retry := backoff.NewExponentialBackOff()
	retry.InitialInterval = c.baseDelay
	retry.RandomizationFactor = 0.1
	retry.Multiplier = 2
	retry.MaxElapsedTime = 0
	retry.Reset()

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := retry.NextBackOff()
			c.logger.Debug("retrying request", "url", url, "attempt", attempt, "delay", delay, "error", lastErr)

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		resp, err := c.breakers.call(host, func() (*Response, error) {
			return c.do(ctx, url, token)
		})
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if errors.Is(err, ErrRateLimited) || errors.Is(err, ErrUpstreamDown) {
			if errors.Is(err, ErrBreakerOpen) {
				return nil, err
			}
			continue
		}
		return nil, err
	}

	return nil, lastErr
}

func (c *Client) do(ctx context.Context, url, token string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/vnd.github+json")
	if strings.TrimSpace(token) != "" {
		req.Header.Set("Authorization", authorization(token))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newHTTPError(resp.StatusCode, url, body)
	}

	return &Response{
		Status: resp.StatusCode,
		Body:   body,
		Header: resp.Header,
	}, nil
}

// authorization builds the Authorization header value for token. A bare
// token gets the Bearer scheme; a value that already names a scheme is sent
// as is.
func authorization(token string) string {
	token = strings.TrimSpace(token)
	scheme, _, ok := strings.Cut(token, " ")
	if ok {
		switch strings.ToLower(scheme) {
		case "bearer", "token", "basic":
			return token
		}
	}
	return "Bearer " + token
}

// GetJSON performs Get and decodes the response body into v.
func (c *Client) GetJSON(ctx context.Context, url, token string, v any) error {
	resp, err := c.Get(ctx, url, token)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(resp.Body, v); err != nil {
		return fmt.Errorf("decoding response from %s: %w", url, err)
	}
	return nil
}

// BreakerState reports "open" or "closed" for every host contacted so far.
func (c *Client) BreakerState() map[string]string {
	return c.breakers.state()
}
