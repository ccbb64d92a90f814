// Package github provides the hosting provider for the GitHub REST API.
package github

import (
	"context"
	"strings"

	"github.com/pulsar-edit/package-vcs/client"
	"github.com/pulsar-edit/package-vcs/internal/core"
)

const (
	DefaultURL = client.DefaultBaseURL
	service    = core.DefaultService
	webURL     = "https://github.com"
)

func init() {
	core.Register(service, DefaultURL, func(baseURL string, c *core.Client) core.Provider {
		return New(baseURL, c)
	})
}

var _ core.Provider = (*Provider)(nil)

// Provider talks to api.github.com or a GitHub Enterprise API root.
type Provider struct {
	baseURL string
	webURL  string
	client  *core.Client
	paths   core.PathBuilder
}

func New(baseURL string, c *core.Client) *Provider {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	if c == nil {
		c = core.DefaultClient()
	}
	baseURL = strings.TrimSuffix(baseURL, "/")
	return &Provider{
		baseURL: baseURL,
		webURL:  webRoot(baseURL),
		client:  c,
		paths:   client.GitHubPaths{},
	}
}

// webRoot derives the browsable host from an API root. Enterprise installs
// serve the API under /api/v3 on the same host.
func webRoot(baseURL string) string {
	if baseURL == DefaultURL {
		return webURL
	}
	if root, ok := strings.CutSuffix(baseURL, "/api/v3"); ok {
		return root
	}
	return webURL
}

func (p *Provider) Service() string {
	return service
}

type repoResponse struct {
	FullName string `json:"full_name"`
	Private  bool   `json:"private"`
}

func (p *Provider) FetchRepo(ctx context.Context, ref core.RepoRef, token string) error {
	var resp repoResponse
	return p.client.GetJSON(ctx, p.baseURL+p.paths.Repo(ref.String()), token, &resp)
}

func (p *Provider) FetchFile(ctx context.Context, ref core.RepoRef, path, token string) (*core.FileContent, error) {
	var resp core.FileContent
	if err := p.client.GetJSON(ctx, p.baseURL+p.paths.Contents(ref.String(), path), token, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

type tagResponse struct {
	Name       string `json:"name"`
	TarballURL string `json:"tarball_url"`
	Commit     struct {
		SHA string `json:"sha"`
	} `json:"commit"`
}

func (p *Provider) FetchTags(ctx context.Context, ref core.RepoRef, token string) ([]core.Tag, error) {
	var resp []tagResponse
	if err := p.client.GetJSON(ctx, p.baseURL+p.paths.Tags(ref.String()), token, &resp); err != nil {
		return nil, err
	}

	tags := make([]core.Tag, 0, len(resp))
	for _, t := range resp {
		tags = append(tags, core.Tag{
			Name:       t.Name,
			TarballURL: t.TarballURL,
			CommitSHA:  t.Commit.SHA,
		})
	}
	return tags, nil
}

func (p *Provider) FetchCollaborators(ctx context.Context, ref core.RepoRef, page int, token string) ([]core.Collaborator, error) {
	var resp []core.Collaborator
	if err := p.client.GetJSON(ctx, p.baseURL+p.paths.Collaborators(ref.String(), page), token, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (p *Provider) RepoURL(ref core.RepoRef) string {
	return p.webURL + "/" + ref.String()
}
