// Package vcs builds package registry records from source-control hosted
// repositories.
//
// Given an "owner/repo" reference it fetches the repository's package.json,
// tags and readme from the hosting API and assembles canonical package and
// version records. It also resolves a caller's role on a repository from the
// host's collaborator list.
//
// Basic usage:
//
//	import (
//		"context"
//		vcs "github.com/pulsar-edit/package-vcs"
//		_ "github.com/pulsar-edit/package-vcs/all"
//	)
//
//	client := vcs.DefaultClient()
//	defer client.Close()
//	svc := vcs.NewService(client)
//
//	res := svc.NewPackageData(context.Background(), vcs.User{Token: token}, "pulsar-edit/pulsar", "git")
//	if !res.OK {
//		log.Fatalf("%s: %s", res.Short, res.Message)
//	}
//	fmt.Println(res.Content.Name)
package vcs

import (
	"github.com/git-pkgs/purl"
	"github.com/pulsar-edit/package-vcs/client"
	"github.com/pulsar-edit/package-vcs/internal/core"
)

// Re-export types from internal/core
type (
	// Provider is the interface implemented by every hosting service adapter.
	Provider = core.Provider

	// Service builds records and resolves ownership.
	Service = core.Service

	// ServiceOption configures a Service.
	ServiceOption = core.ServiceOption

	// RepoRef identifies a repository on a hosting service.
	RepoRef = core.RepoRef

	// User is the authenticated caller.
	User = core.User

	// PackageRecord is the canonical metadata for a new package.
	PackageRecord = core.PackageRecord

	// VersionRecord is the canonical metadata for one version.
	VersionRecord = core.VersionRecord

	Repository   = core.Repository
	Releases     = core.Releases
	Tag          = core.Tag
	Collaborator = core.Collaborator
	Permissions  = core.Permissions
	Role         = core.Role
	Manifest     = core.Manifest
	VersionCheck = core.VersionCheck

	// OwnershipStrategy decides a user's role on a package's repository.
	OwnershipStrategy = core.OwnershipStrategy
	HostingOwnership  = core.HostingOwnership
	DevOwnership      = core.DevOwnership

	StageError = core.StageError
)

// Result is the outcome envelope returned by every operation.
type Result[T any] = core.Result[T]

// Re-export types from client
type (
	// Client is the hosting API HTTP client.
	Client = client.Client

	// Option configures a Client.
	Option = client.Option

	HTTPError = client.HTTPError
)

// Re-export constants
const (
	RoleAdmin    = core.RoleAdmin
	RoleMaintain = core.RoleMaintain
	RoleWrite    = core.RoleWrite
	RoleTriage   = core.RoleTriage
	RoleRead     = core.RoleRead

	VersionAbsent    = core.VersionAbsent
	VersionMalformed = core.VersionMalformed
	VersionValid     = core.VersionValid

	ShortBadRepo      = core.ShortBadRepo
	ShortBadPackage   = core.ShortBadPackage
	ShortServerError  = core.ShortServerError
	ShortBadAuth      = core.ShortBadAuth
	ShortNoRepoAccess = core.ShortNoRepoAccess

	CreationMethodUser = core.CreationMethodUser
	DefaultService     = core.DefaultService

	DefaultMaxCollaboratorPages = core.DefaultMaxCollaboratorPages
)

// Re-export errors
var (
	ErrNotFound       = client.ErrNotFound
	ErrUnauthorized   = client.ErrUnauthorized
	ErrUpstreamDown   = client.ErrUpstreamDown
	ErrUnknownService = core.ErrUnknownService
	ErrInvalidRepo    = core.ErrInvalidRepo
	ErrDecode         = core.ErrDecode
	ErrInvalidVersion = core.ErrInvalidVersion
	ErrForeignHost    = core.ErrForeignHost
	ErrNoMatchingTag  = core.ErrNoMatchingTag
)

// Client options
var (
	WithBaseURL          = client.WithBaseURL
	WithHTTPClient       = client.WithHTTPClient
	WithUserAgent        = client.WithUserAgent
	WithTimeout          = client.WithTimeout
	WithMaxRetries       = client.WithMaxRetries
	WithBaseDelay        = client.WithBaseDelay
	WithBreakerThreshold = client.WithBreakerThreshold
	WithLogger           = client.WithLogger
)

// Service options
var (
	WithServiceLogger        = core.WithServiceLogger
	WithProviderURL          = core.WithProviderURL
	WithProvider             = core.WithProvider
	WithMaxCollaboratorPages = core.WithMaxCollaboratorPages
	WithDevUsername          = core.WithDevUsername
	WithOwnershipStrategy    = core.WithOwnershipStrategy
	NewHostingOwnership      = core.NewHostingOwnership
)

// DefaultClient returns the shared client for the public GitHub API.
// Close on it is a no-op.
func DefaultClient() *Client {
	return client.DefaultClient()
}

// NewClient creates a new client with the given options.
func NewClient(opts ...Option) *Client {
	return client.NewClient(opts...)
}

// NewService creates a Service that issues requests through c.
// If c is nil, DefaultClient() is used.
func NewService(c *Client, opts ...ServiceOption) *Service {
	return core.NewService(c, opts...)
}

// New creates a provider for the given service.
// If baseURL is empty, the default API URL is used.
// If c is nil, DefaultClient() is used.
//
// Supported services: "git"
func New(service string, baseURL string, c *Client) (Provider, error) {
	return core.New(service, baseURL, c)
}

// SupportedServices returns all registered service keys.
// Note: providers must be imported to be registered.
func SupportedServices() []string {
	return core.SupportedServices()
}

// DefaultURL returns the default API URL for a service.
func DefaultURL(service string) string {
	return core.DefaultURL(service)
}

// ParseRepoRef accepts "owner/repo", a repository URL, or "pkg:github/owner/repo".
func ParseRepoRef(s string) (RepoRef, error) {
	return core.ParseRepoRef(s)
}

// ParseRepoURL extracts the owner and repository from a repository URL.
func ParseRepoURL(s string) (RepoRef, error) {
	return core.ParseRepoURL(s)
}

// PURL represents a parsed Package URL.
type PURL = purl.PURL

// ParsePURL parses a Package URL string into its components.
func ParsePURL(purlStr string) (*PURL, error) {
	return purl.Parse(purlStr)
}
