package core

import (
	"context"
	"fmt"
	"maps"
	"sync"

	"github.com/hashicorp/go-hclog"
)

const (
	manifestFile = "package.json"
	readmeFile   = "readme"

	// DefaultMaxCollaboratorPages bounds ownership pagination.
	DefaultMaxCollaboratorPages = 50
)

// Service builds package and version records from hosted repositories and
// resolves caller ownership. It is safe for concurrent use.
type Service struct {
	client    *Client
	logger    hclog.Logger
	baseURLs  map[string]string
	ownership OwnershipStrategy
	maxPages  int
	devUser   string

	mu        sync.Mutex
	providers map[string]Provider
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithServiceLogger sets the logger.
func WithServiceLogger(l hclog.Logger) ServiceOption {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithProviderURL overrides the API base URL used for service.
func WithProviderURL(service, baseURL string) ServiceOption {
	return func(s *Service) {
		s.baseURLs[service] = baseURL
	}
}

// WithProvider installs p directly, bypassing the factory registry.
func WithProvider(p Provider) ServiceOption {
	return func(s *Service) {
		s.providers[p.Service()] = p
	}
}

// WithMaxCollaboratorPages caps how many collaborator pages ownership checks
// will read. Zero or less removes the cap.
func WithMaxCollaboratorPages(n int) ServiceOption {
	return func(s *Service) {
		s.maxPages = n
	}
}

// WithDevUsername grants username the admin role without consulting the host.
// Intended for local development only.
func WithDevUsername(username string) ServiceOption {
	return func(s *Service) {
		s.devUser = username
	}
}

// WithOwnershipStrategy replaces the ownership strategy entirely.
func WithOwnershipStrategy(o OwnershipStrategy) ServiceOption {
	return func(s *Service) {
		s.ownership = o
	}
}

// NewService creates a Service that issues requests through c.
// If c is nil, DefaultClient() is used.
func NewService(c *Client, opts ...ServiceOption) *Service {
	if c == nil {
		c = DefaultClient()
	}
	s := &Service{
		client:    c,
		logger:    hclog.NewNullLogger(),
		baseURLs:  make(map[string]string),
		maxPages:  DefaultMaxCollaboratorPages,
		providers: make(map[string]Provider),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.Named("service")

	if s.ownership == nil {
		var o OwnershipStrategy = NewHostingOwnership(s.Provider, s.maxPages, s.logger)
		if s.devUser != "" {
			o = &DevOwnership{Username: s.devUser, Next: o, Logger: s.logger}
		}
		s.ownership = o
	}
	return s
}

// Provider returns the provider registered for service, creating it on first use.
func (s *Service) Provider(service string) (Provider, error) {
	if service == "" {
		service = DefaultService
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if p, ok := s.providers[service]; ok {
		return p, nil
	}
	p, err := New(service, s.baseURLs[service], s.client)
	if err != nil {
		return nil, err
	}
	s.providers[service] = p
	return p, nil
}

// NewPackageData builds the record for a package being published from
// ownerRepo. Stages run in order and stop at the first failure:
// repository existence, manifest, tags, readme.
func (s *Service) NewPackageData(ctx context.Context, user User, ownerRepo, service string) Result[PackageRecord] {
	logger := s.logger.With("repo", ownerRepo, "service", service)

	p, ref, err := s.resolve(ownerRepo, service)
	if err != nil {
		logger.Error("cannot resolve repository", "error", err)
		return failureFrom[PackageRecord](err)
	}

	if err := p.FetchRepo(ctx, ref, user.Token); err != nil {
		logger.Error("repository check failed", "error", err)
		return Failure[PackageRecord](ShortBadRepo, fmt.Sprintf("Failed to get repo: %s - Bad Repo", ownerRepo), err)
	}
	logger.Debug("repository exists")

	version, err := s.buildVersion(ctx, logger, p, ref, ownerRepo, user.Token)
	if err != nil {
		return failureFrom[PackageRecord](err)
	}

	key := StripV(version.tag.Name)
	record := version.record
	return Success(PackageRecord{
		Name:           record.Name,
		CreationMethod: CreationMethodUser,
		Owner:          ref.Owner,
		Repository:     record.Repository,
		Readme:         record.Readme,
		Metadata:       maps.Clone(record.Metadata),
		Releases:       Releases{Latest: key},
		Versions:       map[string]VersionRecord{key: record},
	})
}

// NewVersionData builds the record for a new version of an already
// registered package. Stages run in order: manifest, tags, readme.
func (s *Service) NewVersionData(ctx context.Context, user User, ownerRepo, service string) Result[VersionRecord] {
	logger := s.logger.With("repo", ownerRepo, "service", service)

	p, ref, err := s.resolve(ownerRepo, service)
	if err != nil {
		logger.Error("cannot resolve repository", "error", err)
		return failureFrom[VersionRecord](err)
	}

	version, err := s.buildVersion(ctx, logger, p, ref, ownerRepo, user.Token)
	if err != nil {
		return failureFrom[VersionRecord](err)
	}
	return Success(version.record)
}

// Ownership resolves the role user holds on the repository of pkg.
func (s *Service) Ownership(ctx context.Context, user User, pkg PackageRecord) Result[Role] {
	return s.ownership.Ownership(ctx, user, pkg)
}

func (s *Service) resolve(ownerRepo, service string) (Provider, RepoRef, error) {
	ref, err := ParseRepoRef(ownerRepo)
	if err != nil {
		return nil, RepoRef{}, &StageError{
			Stage:   StageRepo,
			Short:   ShortBadRepo,
			Message: fmt.Sprintf("Failed to get repo: %s - Bad Repo", ownerRepo),
			Err:     err,
		}
	}

	p, err := s.Provider(service)
	if err != nil {
		return nil, RepoRef{}, &StageError{
			Stage:   StageRepo,
			Short:   ShortServerError,
			Message: fmt.Sprintf("Unsupported service %q for %s - Server Error", service, ownerRepo),
			Err:     err,
		}
	}
	ref.Service = p.Service()
	return p, ref, nil
}

type builtVersion struct {
	record VersionRecord
	tag    Tag
}

func (s *Service) buildVersion(ctx context.Context, logger hclog.Logger, p Provider, ref RepoRef, ownerRepo, token string) (*builtVersion, error) {
	fc, err := p.FetchFile(ctx, ref, manifestFile, token)
	var manifest *Manifest
	if err == nil {
		manifest, err = DecodeManifest(fc)
	}
	if err != nil {
		logger.Error("manifest fetch failed", "error", err)
		return nil, &StageError{
			Stage:   StageManifest,
			Short:   ShortBadPackage,
			Message: fmt.Sprintf("Failed to get gh package for %s - Server Error", ownerRepo),
			Err:     err,
		}
	}
	check := manifest.CheckVersion()
	logger.Debug("manifest decoded", "name", manifest.Name, "version", manifest.Version, "version_check", check)
	if check == VersionMalformed {
		logger.Error("manifest version is not a semantic version", "version", manifest.Version)
		return nil, &StageError{
			Stage:   StageManifest,
			Short:   ShortBadPackage,
			Message: fmt.Sprintf("Invalid version %q in gh package for %s - Bad Package", manifest.Version, ownerRepo),
			Err:     fmt.Errorf("%w: %q", ErrInvalidVersion, manifest.Version),
		}
	}
	licenseValid := manifest.LicenseValid()
	if !licenseValid {
		logger.Warn("manifest license is not a valid SPDX expression", "license", manifest.License)
	}

	tags, err := p.FetchTags(ctx, ref, token)
	if err != nil {
		logger.Error("tags fetch failed", "error", err)
		return nil, &StageError{
			Stage:   StageTags,
			Short:   ShortServerError,
			Message: fmt.Sprintf("Failed to get gh tags for %s - Server Error", ownerRepo),
			Err:     err,
		}
	}

	tag, ok := SelectTag(tags, manifest.Version, check)
	if !ok {
		want := manifest.Version
		if want == "" {
			want = "any version"
		}
		err := &TagNotFoundError{Repo: ownerRepo, Version: manifest.Version}
		logger.Error("no matching tag", "version", manifest.Version, "tags", len(tags))
		return nil, &StageError{
			Stage:   StageTags,
			Short:   ShortBadPackage,
			Message: fmt.Sprintf("Failed to find gh tag for %s matching %s - Bad Package", ownerRepo, want),
			Err:     err,
		}
	}
	logger.Debug("tag selected", "tag", tag.Name)

	fc, err = p.FetchFile(ctx, ref, readmeFile, token)
	var readme string
	if err == nil {
		readme, err = DecodeReadme(fc)
	}
	if err != nil {
		logger.Error("readme fetch failed", "error", err)
		return nil, &StageError{
			Stage:   StageReadme,
			Short:   ShortBadRepo,
			Message: fmt.Sprintf("Failed to get gh readme for %s - Server Error", ownerRepo),
			Err:     err,
		}
	}

	repo := manifest.Repository
	if repo.URL == "" {
		repo = Repository{Type: "git", URL: p.RepoURL(ref)}
	}

	return &builtVersion{
		record: VersionRecord{
			Name:       manifest.Name,
			Readme:     readme,
			Repository: repo,
			Metadata:   versionMetadata(manifest, tag, ref, licenseValid),
		},
		tag: tag,
	}, nil
}

// versionMetadata merges the manifest with the selected tag's fields. A
// declared license gets its SPDX validity recorded as license_valid.
func versionMetadata(m *Manifest, tag Tag, ref RepoRef, licenseValid bool) map[string]any {
	meta := make(map[string]any, len(m.Raw)+4)
	maps.Copy(meta, m.Raw)
	meta["tarball_url"] = tag.TarballURL
	meta["sha"] = tag.CommitSHA
	if m.License != "" {
		meta["license_valid"] = licenseValid
	}
	if v, ok := meta["version"].(string); !ok || v == "" {
		meta["version"] = StripV(tag.Name)
	}
	if _, ok := meta["purl"]; !ok {
		meta["purl"] = ref.VersionPURL(StripV(tag.Name))
	}
	return meta
}
