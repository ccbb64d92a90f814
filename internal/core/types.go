package core

// CreationMethodUser marks packages published by a user from a repository.
const CreationMethodUser = "User Made Package"

// DefaultService is the hosting service used when a repository does not name one.
const DefaultService = "git"

// RepoRef identifies a repository on a hosting service.
type RepoRef struct {
	Owner   string `json:"owner"`
	Name    string `json:"name"`
	Service string `json:"service,omitempty"`
}

// String returns the "owner/name" form used in API paths.
func (r RepoRef) String() string {
	return r.Owner + "/" + r.Name
}

// User is the authenticated caller on whose behalf hosting requests are made.
type User struct {
	Username string `json:"username"`
	Token    string `json:"token"`
	NodeID   string `json:"node_id"`
}

// FileContent is the hosting API's representation of a repository file.
type FileContent struct {
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

// Tag is a repository tag with its tarball location and commit.
type Tag struct {
	Name       string `json:"name"`
	TarballURL string `json:"tarball_url"`
	CommitSHA  string `json:"sha"`
}

// Repository is the canonical repository descriptor stored on records.
type Repository struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

// VersionRecord is the canonical metadata for one published version.
type VersionRecord struct {
	Name       string         `json:"name"`
	Readme     string         `json:"readme"`
	Repository Repository     `json:"repository"`
	Metadata   map[string]any `json:"metadata"`
}

// Releases tracks the release pointers of a package.
type Releases struct {
	Latest string `json:"latest"`
}

// PackageRecord is the canonical metadata for a newly registered package.
type PackageRecord struct {
	Name           string                   `json:"name"`
	CreationMethod string                   `json:"creation_method"`
	Owner          string                   `json:"owner,omitempty"`
	Repository     Repository               `json:"repository"`
	Readme         string                   `json:"readme"`
	Metadata       map[string]any           `json:"metadata"`
	Releases       Releases                 `json:"releases"`
	Versions       map[string]VersionRecord `json:"versions"`
}

// Permissions are the per-capability flags a collaborator holds.
type Permissions struct {
	Admin    bool `json:"admin"`
	Maintain bool `json:"maintain"`
	Push     bool `json:"push"`
	Triage   bool `json:"triage"`
	Pull     bool `json:"pull"`
}

// Collaborator is one entry of a repository's collaborator list.
type Collaborator struct {
	Login       string      `json:"login"`
	NodeID      string      `json:"node_id"`
	Permissions Permissions `json:"permissions"`
	RoleName    string      `json:"role_name,omitempty"`
}

// Role is a caller's permission level on a repository.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleMaintain Role = "maintain"
	RoleWrite    Role = "write"
	RoleTriage   Role = "triage"
	RoleRead     Role = "read"
)
