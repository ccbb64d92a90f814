package core

import (
	"strings"

	"github.com/Masterminds/semver/v3"
)

// StripV removes one leading "v" from a tag or version string.
func StripV(s string) string {
	return strings.TrimPrefix(s, "v")
}

// SelectTag picks the tag for a manifest version in the given check state.
//
// A valid version selects the tag whose name equals it, ignoring one leading
// "v" on either side. An absent version selects the highest tag that parses
// as a semantic version, falling back to the first listed tag when none
// parse. A malformed version never matches. The second return value is false
// when nothing matches.
func SelectTag(tags []Tag, version string, check VersionCheck) (Tag, bool) {
	if len(tags) == 0 {
		return Tag{}, false
	}

	switch check {
	case VersionValid:
		want := StripV(strings.TrimSpace(version))
		for _, t := range tags {
			if StripV(t.Name) == want {
				return t, true
			}
		}
		return Tag{}, false
	case VersionAbsent:
		return highestTag(tags), true
	default:
		return Tag{}, false
	}
}

func highestTag(tags []Tag) Tag {
	best := -1
	var bestVersion *semver.Version
	for i, t := range tags {
		v, err := semver.NewVersion(t.Name)
		if err != nil {
			continue
		}
		if bestVersion == nil || v.GreaterThan(bestVersion) {
			best, bestVersion = i, v
		}
	}
	if best >= 0 {
		return tags[best]
	}
	return tags[0]
}
