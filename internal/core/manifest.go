package core

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/github/go-spdx/v2/spdxexp"
)

// Manifest is a parsed package.json. Raw keeps every field as decoded so it
// can be carried into version metadata untouched.
type Manifest struct {
	Name       string
	Version    string
	Repository Repository
	License    string
	Engines    map[string]string
	Raw        map[string]any
}

// VersionCheck classifies the manifest's declared version.
type VersionCheck int

const (
	VersionAbsent VersionCheck = iota
	VersionMalformed
	VersionValid
)

func (v VersionCheck) String() string {
	switch v {
	case VersionAbsent:
		return "absent"
	case VersionMalformed:
		return "malformed"
	case VersionValid:
		return "valid"
	default:
		return fmt.Sprintf("VersionCheck(%d)", int(v))
	}
}

// ParseManifest parses package.json bytes. The document must be a JSON object.
func ParseManifest(data []byte) (*Manifest, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: manifest: %w", ErrDecode, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: manifest is null", ErrDecode)
	}

	m := &Manifest{Raw: raw}
	m.Name, _ = raw["name"].(string)
	m.Version, _ = raw["version"].(string)
	m.Repository = extractRepository(raw["repository"])
	m.License = extractLicense(raw["license"])
	m.Engines = extractEngines(raw["engines"])
	return m, nil
}

// CheckVersion reports whether the declared version is absent, malformed or
// a valid semantic version. A leading "v" is accepted.
func (m *Manifest) CheckVersion() VersionCheck {
	if strings.TrimSpace(m.Version) == "" {
		return VersionAbsent
	}
	if _, err := semver.NewVersion(m.Version); err != nil {
		return VersionMalformed
	}
	return VersionValid
}

// LicenseValid reports whether the license is a valid SPDX expression.
// A manifest without a license is treated as valid.
func (m *Manifest) LicenseValid() bool {
	if m.License == "" {
		return true
	}
	valid, _ := spdxexp.ValidateLicenses([]string{m.License})
	return valid
}

func extractRepository(v any) Repository {
	switch r := v.(type) {
	case string:
		if u := normalizeRepoURL(r); u != "" {
			return Repository{Type: "git", URL: u}
		}
	case map[string]any:
		u, _ := r["url"].(string)
		if u = normalizeRepoURL(u); u == "" {
			return Repository{}
		}
		typ, _ := r["type"].(string)
		if typ == "" {
			typ = "git"
		}
		return Repository{Type: typ, URL: u}
	case []any:
		if len(r) > 0 {
			return extractRepository(r[0])
		}
	}
	return Repository{}
}

// normalizeRepoURL turns the repository forms npm accepts into an https URL.
func normalizeRepoURL(u string) string {
	u = strings.TrimSpace(u)
	if u == "" {
		return ""
	}

	if rest, ok := strings.CutPrefix(u, "github:"); ok {
		u = "github.com/" + rest
	} else if ownerRepoPattern.MatchString(u) {
		u = "github.com/" + u
	}

	u = strings.TrimPrefix(u, "git+")
	u = strings.TrimPrefix(u, "git://")
	u = strings.TrimPrefix(u, "ssh://")
	if rest, ok := strings.CutPrefix(u, "git@"); ok {
		u = strings.Replace(rest, ":", "/", 1)
	}
	u = strings.TrimSuffix(u, "/")
	u = strings.TrimSuffix(u, ".git")
	if !strings.Contains(u, "://") {
		u = "https://" + u
	}
	return u
}

func extractLicense(v any) string {
	switch l := v.(type) {
	case string:
		return l
	case map[string]any:
		if t, ok := l["type"].(string); ok {
			return t
		}
	case []any:
		var licenses []string
		for _, item := range l {
			switch li := item.(type) {
			case string:
				licenses = append(licenses, li)
			case map[string]any:
				if t, ok := li["type"].(string); ok {
					licenses = append(licenses, t)
				}
			}
		}
		return strings.Join(licenses, " OR ")
	}
	return ""
}

func extractEngines(v any) map[string]string {
	raw, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	engines := make(map[string]string, len(raw))
	for name, rng := range raw {
		if s, ok := rng.(string); ok {
			engines[name] = s
		}
	}
	return engines
}
