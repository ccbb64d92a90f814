package github

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pulsar-edit/package-vcs/internal/core"
)

var testRef = core.RepoRef{Owner: "pulsar-edit", Name: "pulsar"}

func newTestProvider(t *testing.T, handler http.HandlerFunc) *Provider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	c := core.NewClient()
	t.Cleanup(c.Close)
	return New(server.URL, c)
}

func TestFetchRepo(t *testing.T) {
	var gotAuth string
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/pulsar-edit/pulsar" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"full_name":"pulsar-edit/pulsar","private":false}`))
	})

	if err := p.FetchRepo(context.Background(), testRef, "token abc"); err != nil {
		t.Fatalf("FetchRepo failed: %v", err)
	}
	if gotAuth != "token abc" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "token abc")
	}

	err := p.FetchRepo(context.Background(), core.RepoRef{Owner: "nobody", Name: "nothing"}, "")
	if !errors.Is(err, core.ErrNotFound) {
		t.Errorf("FetchRepo(missing) = %v, want ErrNotFound", err)
	}
}

func TestFetchFile(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/repos/pulsar-edit/pulsar/contents/readme":
			_, _ = w.Write([]byte(`{"content":"VGhpcyBpcyBhIHJlYWRtZQ==","encoding":"base64","name":"README.md"}`))
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	})

	fc, err := p.FetchFile(context.Background(), testRef, "readme", "")
	if err != nil {
		t.Fatalf("FetchFile failed: %v", err)
	}
	readme, err := core.DecodeReadme(fc)
	if err != nil {
		t.Fatalf("DecodeReadme failed: %v", err)
	}
	if readme != "This is a readme" {
		t.Errorf("readme = %q, want %q", readme, "This is a readme")
	}

	if _, err := p.FetchFile(context.Background(), testRef, "package.json", ""); !errors.Is(err, core.ErrUpstreamDown) {
		t.Errorf("FetchFile(500) = %v, want ErrUpstreamDown", err)
	}
}

func TestFetchTags(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[
			{"name":"v1.101.0-beta","tarball_url":"https://api.github.com/repos/pulsar-edit/pulsar/tarball/refs/tags/v1.101.0-beta","commit":{"sha":"dca05a3fccdc7d202e4ce00a5a2d3edef50a640f","url":"x"}},
			{"name":"v1.100.0","tarball_url":"t2","commit":{"sha":"abc"}}
		]`))
	})

	tags, err := p.FetchTags(context.Background(), testRef, "")
	if err != nil {
		t.Fatalf("FetchTags failed: %v", err)
	}
	if len(tags) != 2 {
		t.Fatalf("expected 2 tags, got %d", len(tags))
	}
	if tags[0].Name != "v1.101.0-beta" {
		t.Errorf("Name = %q", tags[0].Name)
	}
	if tags[0].CommitSHA != "dca05a3fccdc7d202e4ce00a5a2d3edef50a640f" {
		t.Errorf("CommitSHA = %q", tags[0].CommitSHA)
	}
	if tags[1].TarballURL != "t2" {
		t.Errorf("TarballURL = %q", tags[1].TarballURL)
	}
}

func TestFetchCollaborators(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/pulsar-edit/pulsar/collaborators" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		switch r.URL.Query().Get("page") {
		case "1":
			_, _ = w.Write([]byte(`[{"login":"confused-Techie","node_id":"12345","permissions":{"admin":true,"maintain":true,"push":true,"triage":true,"pull":true},"role_name":"admin"}]`))
		default:
			_, _ = w.Write([]byte(`[]`))
		}
	})

	page1, err := p.FetchCollaborators(context.Background(), testRef, 1, "123")
	if err != nil {
		t.Fatalf("FetchCollaborators failed: %v", err)
	}
	if len(page1) != 1 {
		t.Fatalf("expected 1 collaborator, got %d", len(page1))
	}
	c := page1[0]
	if c.NodeID != "12345" || c.RoleName != "admin" || !c.Permissions.Admin {
		t.Errorf("collaborator = %+v", c)
	}

	page2, err := p.FetchCollaborators(context.Background(), testRef, 2, "123")
	if err != nil {
		t.Fatalf("FetchCollaborators page 2 failed: %v", err)
	}
	if len(page2) != 0 {
		t.Errorf("expected empty page, got %d", len(page2))
	}
}

func TestRepoURL(t *testing.T) {
	tests := []struct {
		baseURL string
		want    string
	}{
		{"", "https://github.com/pulsar-edit/pulsar"},
		{"https://api.github.com/", "https://github.com/pulsar-edit/pulsar"},
		{"https://ghe.example.com/api/v3", "https://ghe.example.com/pulsar-edit/pulsar"},
	}

	for _, tt := range tests {
		t.Run(tt.baseURL, func(t *testing.T) {
			p := New(tt.baseURL, nil)
			if got := p.RepoURL(testRef); got != tt.want {
				t.Errorf("RepoURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRegistered(t *testing.T) {
	p, err := core.New("git", "", nil)
	if err != nil {
		t.Fatalf("core.New(git) failed: %v", err)
	}
	if p.Service() != "git" {
		t.Errorf("Service() = %q, want %q", p.Service(), "git")
	}
	if core.DefaultURL("git") != "https://api.github.com" {
		t.Errorf("DefaultURL = %q", core.DefaultURL("git"))
	}
}
