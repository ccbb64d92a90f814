package core

import (
	"context"
	"fmt"
	"net/http"
	"sync"
)

const (
	testOwnerRepo = "confused-Techie/pulsar-backend"

	// {"name":"pulsar","version":"v1.101.0-beta","repository":"https://github.com/pulsar-edit/pulsar"}
	fullManifest = "eyAibmFtZSI6ICJwdWxzYXIiLCAidmVyc2lvbiI6ICJ2MS4xMDEuMC1iZXRhIiwgInJlcG9zaXRvcnkiOiAiaHR0cHM6Ly9naXRodWIuY29tL3B1bHNhci1lZGl0L3B1bHNhciIgfQ=="

	// {"name":"hello world"}
	minimalManifest = "eyAibmFtZSI6ICJoZWxsbyB3b3JsZCIgfQ=="

	// "This is a readme"
	readmeContent = "VGhpcyBpcyBhIHJlYWRtZQ=="

	testVersion = "1.101.0-beta"
	testTarball = "https://api.github.com/repos/pulsar-edit/pulsar/tarball/refs/tags/v1.101.0-beta"
	testSHA     = "dca05a3fccdc7d202e4ce00a5a2d3edef50a640f"
)

var testUser = User{Token: "123", NodeID: "456"}

// fakeProvider serves canned hosting responses and records every call.
type fakeProvider struct {
	mu sync.Mutex

	repoErr   error
	files     map[string]*FileContent
	fileErrs  map[string]error
	tags      []Tag
	tagsErr   error
	pages     [][]Collaborator
	collabErr error

	calls  []string
	tokens []string
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		files:    make(map[string]*FileContent),
		fileErrs: make(map[string]error),
	}
}

// withHappyPath fills in responses for a fully successful build.
func (f *fakeProvider) withHappyPath() *fakeProvider {
	f.files[manifestFile] = &FileContent{Content: fullManifest, Encoding: "base64"}
	f.files[readmeFile] = &FileContent{Content: readmeContent, Encoding: "base64"}
	f.tags = []Tag{{Name: "v" + testVersion, TarballURL: testTarball, CommitSHA: testSHA}}
	return f
}

func (f *fakeProvider) record(call, token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
	f.tokens = append(f.tokens, token)
}

func (f *fakeProvider) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeProvider) Service() string { return DefaultService }

func (f *fakeProvider) FetchRepo(_ context.Context, _ RepoRef, token string) error {
	f.record("repo", token)
	return f.repoErr
}

func (f *fakeProvider) FetchFile(_ context.Context, ref RepoRef, path, token string) (*FileContent, error) {
	f.record("file:"+path, token)
	if err, ok := f.fileErrs[path]; ok {
		return nil, err
	}
	fc, ok := f.files[path]
	if !ok {
		return nil, httpError(http.StatusNotFound, ref.String()+"/contents/"+path)
	}
	return fc, nil
}

func (f *fakeProvider) FetchTags(_ context.Context, _ RepoRef, token string) ([]Tag, error) {
	f.record("tags", token)
	if f.tagsErr != nil {
		return nil, f.tagsErr
	}
	return f.tags, nil
}

func (f *fakeProvider) FetchCollaborators(_ context.Context, _ RepoRef, page int, token string) ([]Collaborator, error) {
	f.record(fmt.Sprintf("collaborators:%d", page), token)
	if f.collabErr != nil {
		return nil, f.collabErr
	}
	if page < 1 || page > len(f.pages) {
		return nil, nil
	}
	return f.pages[page-1], nil
}

func (f *fakeProvider) RepoURL(ref RepoRef) string {
	return "https://github.com/" + ref.String()
}

func httpError(status int, url string) error {
	return &HTTPError{StatusCode: status, URL: url}
}
