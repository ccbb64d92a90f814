package client

import (
	"fmt"
	"net/url"
	"strings"
)

// PathBuilder constructs hosting API request paths for a repository.
type PathBuilder interface {
	Repo(ownerRepo string) string
	Contents(ownerRepo, file string) string
	Tags(ownerRepo string) string
	Collaborators(ownerRepo string, page int) string
}

// GitHubPaths builds paths for the GitHub REST API layout.
type GitHubPaths struct{}

func (GitHubPaths) Repo(ownerRepo string) string {
	return "/repos/" + escapeOwnerRepo(ownerRepo)
}

func (GitHubPaths) Contents(ownerRepo, file string) string {
	return fmt.Sprintf("/repos/%s/contents/%s", escapeOwnerRepo(ownerRepo), url.PathEscape(file))
}

func (GitHubPaths) Tags(ownerRepo string) string {
	return fmt.Sprintf("/repos/%s/tags", escapeOwnerRepo(ownerRepo))
}

func (GitHubPaths) Collaborators(ownerRepo string, page int) string {
	return fmt.Sprintf("/repos/%s/collaborators?page=%d", escapeOwnerRepo(ownerRepo), page)
}

// escapeOwnerRepo escapes each segment of "owner/repo" while keeping the separator.
func escapeOwnerRepo(ownerRepo string) string {
	owner, repo, found := strings.Cut(ownerRepo, "/")
	if !found {
		return url.PathEscape(ownerRepo)
	}
	return url.PathEscape(owner) + "/" + url.PathEscape(repo)
}
