package core

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Provider is the interface implemented by every hosting service adapter.
type Provider interface {
	// Service returns the service key this provider is registered under (e.g., "git").
	Service() string

	// FetchRepo checks that the repository exists and is visible to token.
	FetchRepo(ctx context.Context, ref RepoRef, token string) error

	// FetchFile retrieves one file from the default branch.
	FetchFile(ctx context.Context, ref RepoRef, path, token string) (*FileContent, error)

	// FetchTags retrieves the repository's tags in the order the host lists them.
	FetchTags(ctx context.Context, ref RepoRef, token string) ([]Tag, error)

	// FetchCollaborators retrieves one page of collaborators, starting at page 1.
	// An empty slice marks the end of the list.
	FetchCollaborators(ctx context.Context, ref RepoRef, page int, token string) ([]Collaborator, error)

	// RepoURL returns the browsable URL of the repository.
	RepoURL(ref RepoRef) string
}

// Factory creates a provider for a given API base URL.
type Factory func(baseURL string, client *Client) Provider

var (
	factories = make(map[string]Factory)
	defaults  = make(map[string]string)
	mu        sync.RWMutex
)

// Register adds a provider factory under service.
// defaultURL is the API root used when New is called without one.
func Register(service string, defaultURL string, factory Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[service] = factory
	defaults[service] = defaultURL
}

// New creates a provider for the given service.
// If baseURL is empty, the default API URL is used.
func New(service string, baseURL string, client *Client) (Provider, error) {
	mu.RLock()
	factory, ok := factories[service]
	defaultURL := defaults[service]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownService, service)
	}

	if baseURL == "" {
		baseURL = defaultURL
	}

	if client == nil {
		client = DefaultClient()
	}

	return factory(baseURL, client), nil
}

// SupportedServices returns all registered service keys, sorted.
func SupportedServices() []string {
	mu.RLock()
	defer mu.RUnlock()

	services := make([]string, 0, len(factories))
	for s := range factories {
		services = append(services, s)
	}
	sort.Strings(services)
	return services
}

// DefaultURL returns the default API URL for a service.
func DefaultURL(service string) string {
	mu.RLock()
	defer mu.RUnlock()
	return defaults[service]
}
