package client

import "testing"

func TestGitHubPaths(t *testing.T) {
	p := GitHubPaths{}
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"repo", p.Repo("pulsar-edit/pulsar"), "/repos/pulsar-edit/pulsar"},
		{"manifest", p.Contents("pulsar-edit/pulsar", "package.json"), "/repos/pulsar-edit/pulsar/contents/package.json"},
		{"readme", p.Contents("pulsar-edit/pulsar", "readme"), "/repos/pulsar-edit/pulsar/contents/readme"},
		{"tags", p.Tags("pulsar-edit/pulsar"), "/repos/pulsar-edit/pulsar/tags"},
		{"collaborators", p.Collaborators("pulsar-edit/pulsar", 3), "/repos/pulsar-edit/pulsar/collaborators?page=3"},
		{"escaped", p.Repo("a b/c"), "/repos/a%20b/c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}
