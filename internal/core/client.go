package core

import (
	"github.com/pulsar-edit/package-vcs/client"
)

// Type aliases so provider adapters only need to import core.
type (
	Client      = client.Client
	Option      = client.Option
	PathBuilder = client.PathBuilder
	HTTPError   = client.HTTPError
)

// Function aliases.
var (
	DefaultClient = client.DefaultClient
	NewClient     = client.NewClient
)

// Transport errors surfaced by providers.
var (
	ErrNotFound     = client.ErrNotFound
	ErrUnauthorized = client.ErrUnauthorized
	ErrUpstreamDown = client.ErrUpstreamDown
)
