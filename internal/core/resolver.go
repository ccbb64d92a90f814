package core

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// ownerRepoPattern matches "owner/repo" where each segment starts with an
// alphanumeric or hyphen and is at most 214 characters.
var ownerRepoPattern = regexp.MustCompile(`^[-a-zA-Z\d][-\w.]{0,213}/[-a-zA-Z\d][-\w.]{0,213}$`)

// ValidOwnerRepo reports whether s is a well-formed "owner/repo" reference.
func ValidOwnerRepo(s string) bool {
	return ownerRepoPattern.MatchString(s)
}

// ParseRepoRef accepts "owner/repo", a repository URL, or a github package
// URL ("pkg:github/owner/repo") and returns the repository it names.
func ParseRepoRef(s string) (RepoRef, error) {
	s = strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(s, "pkg:"):
		return repoRefFromPURL(s)
	case strings.Contains(s, "://"), strings.HasPrefix(s, "git@"), strings.HasPrefix(s, "github:"):
		return ParseRepoURL(s)
	}

	if !ownerRepoPattern.MatchString(s) {
		return RepoRef{}, fmt.Errorf("%w: %q", ErrInvalidRepo, s)
	}
	owner, name, _ := strings.Cut(s, "/")
	return RepoRef{Owner: owner, Name: name, Service: DefaultService}, nil
}

// ParseRepoURL extracts the owner and repository name from a repository URL
// such as "https://github.com/owner/repo" or "git@github.com:owner/repo.git".
func ParseRepoURL(raw string) (RepoRef, error) {
	normalized := normalizeRepoURL(raw)
	if normalized == "" {
		return RepoRef{}, fmt.Errorf("%w: empty repository URL", ErrInvalidRepo)
	}

	u, err := url.Parse(normalized)
	if err != nil || u.Host == "" {
		return RepoRef{}, fmt.Errorf("%w: %q", ErrInvalidRepo, raw)
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 2 {
		return RepoRef{}, fmt.Errorf("%w: %q has no owner/repo path", ErrInvalidRepo, raw)
	}

	ownerRepo := parts[0] + "/" + parts[1]
	if !ownerRepoPattern.MatchString(ownerRepo) {
		return RepoRef{}, fmt.Errorf("%w: %q", ErrInvalidRepo, raw)
	}
	return RepoRef{Owner: parts[0], Name: parts[1], Service: DefaultService}, nil
}

// repoHost returns the lower-cased host of a repository URL, or "" when it
// has none.
func repoHost(raw string) string {
	u, err := url.Parse(normalizeRepoURL(raw))
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Host)
}

// hostedOn reports whether the repository URL raw lives on the same host as
// webURL, the provider's browsable root.
func hostedOn(raw, webURL string) bool {
	host := repoHost(raw)
	return host != "" && host == repoHost(webURL)
}
