package core

import (
	"errors"
	"fmt"
)

// Failure labels. The set is closed; callers switch on these values.
const (
	ShortBadRepo      = "Bad Repo"
	ShortBadPackage   = "Bad Package"
	ShortServerError  = "Server Error"
	ShortBadAuth      = "Bad Auth"
	ShortNoRepoAccess = "No Repo Access"
)

var (
	// ErrUnknownService is returned when no provider is registered for a service.
	ErrUnknownService = errors.New("unknown service")

	// ErrInvalidRepo is returned when a repository reference cannot be parsed.
	ErrInvalidRepo = errors.New("invalid repository reference")

	// ErrDecode is returned when hosted file content cannot be decoded.
	ErrDecode = errors.New("decoding content")

	// ErrInvalidVersion is returned when the manifest declares a version that is
	// not a semantic version.
	ErrInvalidVersion = errors.New("invalid manifest version")

	// ErrForeignHost is returned when a repository URL points at a host the
	// provider does not serve.
	ErrForeignHost = errors.New("repository hosted elsewhere")

	// ErrNoMatchingTag is returned when no tag satisfies the manifest version.
	ErrNoMatchingTag = errors.New("no matching tag")

	// ErrNotCollaborator is returned when the caller is absent from the collaborator list.
	ErrNotCollaborator = errors.New("not a collaborator")
)

// Stage names a step of the package and version builders.
type Stage string

const (
	StageRepo     Stage = "repo"
	StageManifest Stage = "manifest"
	StageTags     Stage = "tags"
	StageReadme   Stage = "readme"
)

// StageError records which builder stage failed and how it is reported.
type StageError struct {
	Stage   Stage
	Short   string
	Message string
	Err     error
}

func (e *StageError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// TagNotFoundError wraps ErrNoMatchingTag with the repository and wanted version.
type TagNotFoundError struct {
	Repo    string
	Version string
}

func (e *TagNotFoundError) Error() string {
	if e.Version == "" {
		return fmt.Sprintf("%s: no tags", e.Repo)
	}
	return fmt.Sprintf("%s: no tag matching %s", e.Repo, e.Version)
}

func (e *TagNotFoundError) Unwrap() error {
	return ErrNoMatchingTag
}

// failureFrom converts a builder error into a failed result.
func failureFrom[T any](err error) Result[T] {
	var se *StageError
	if errors.As(err, &se) {
		return Failure[T](se.Short, se.Message, se.Err)
	}
	return Failure[T](ShortServerError, err.Error(), err)
}
