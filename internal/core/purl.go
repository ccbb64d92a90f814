package core

import (
	"fmt"

	packageurl "github.com/package-url/packageurl-go"
)

// PURL returns the package URL of the repository, e.g. "pkg:github/owner/repo".
func (r RepoRef) PURL() string {
	return r.VersionPURL("")
}

// VersionPURL returns the package URL of one version of the repository.
func (r RepoRef) VersionPURL(version string) string {
	return packageurl.NewPackageURL(packageurl.TypeGithub, r.Owner, r.Name, version, nil, "").ToString()
}

func repoRefFromPURL(s string) (RepoRef, error) {
	p, err := packageurl.FromString(s)
	if err != nil {
		return RepoRef{}, fmt.Errorf("%w: %w", ErrInvalidRepo, err)
	}
	if p.Type != packageurl.TypeGithub {
		return RepoRef{}, fmt.Errorf("%w: unsupported package URL type %q", ErrInvalidRepo, p.Type)
	}
	if p.Namespace == "" || p.Name == "" {
		return RepoRef{}, fmt.Errorf("%w: %q has no owner/repo", ErrInvalidRepo, s)
	}
	return RepoRef{Owner: p.Namespace, Name: p.Name, Service: DefaultService}, nil
}
