package core

import "testing"

func TestStripV(t *testing.T) {
	tests := map[string]string{
		"v1.101.0-beta": "1.101.0-beta",
		"1.0.0":         "1.0.0",
		"vv1.0.0":       "v1.0.0",
		"":              "",
	}
	for in, want := range tests {
		if got := StripV(in); got != want {
			t.Errorf("StripV(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSelectTag(t *testing.T) {
	tags := []Tag{
		{Name: "v1.2.0", CommitSHA: "a"},
		{Name: "1.3.0", CommitSHA: "b"},
		{Name: "v1.10.0-beta", CommitSHA: "c"},
		{Name: "release-candidate", CommitSHA: "d"},
	}

	tests := []struct {
		name    string
		tags    []Tag
		version string
		check   VersionCheck
		wantSHA string
		wantOK  bool
	}{
		{"exact with v on both", tags, "v1.2.0", VersionValid, "a", true},
		{"manifest without v", tags, "1.2.0", VersionValid, "a", true},
		{"tag without v", tags, "v1.3.0", VersionValid, "b", true},
		{"prerelease", tags, "1.10.0-beta", VersionValid, "c", true},
		{"no match", tags, "9.9.9", VersionValid, "", false},
		{"absent picks highest semver", tags, "", VersionAbsent, "c", true},
		{"absent with no semver tags", []Tag{{Name: "alpha", CommitSHA: "x"}, {Name: "beta", CommitSHA: "y"}}, "", VersionAbsent, "x", true},
		{"malformed never matches", []Tag{{Name: "release-candidate", CommitSHA: "d"}}, "release-candidate", VersionMalformed, "", false},
		{"no tags", nil, "1.0.0", VersionValid, "", false},
		{"no tags and no version", nil, "", VersionAbsent, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SelectTag(tt.tags, tt.version, tt.check)
			if ok != tt.wantOK {
				t.Fatalf("SelectTag() ok = %v, want %v", ok, tt.wantOK)
			}
			if got.CommitSHA != tt.wantSHA {
				t.Errorf("SelectTag() = %+v, want sha %q", got, tt.wantSHA)
			}
		})
	}
}
