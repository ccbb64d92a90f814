package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/hashicorp/go-hclog"
)

// OwnershipStrategy decides which role a user holds on a package's repository.
type OwnershipStrategy interface {
	Ownership(ctx context.Context, user User, pkg PackageRecord) Result[Role]
}

// ProviderLookup returns the provider for a service key.
type ProviderLookup func(service string) (Provider, error)

// HostingOwnership resolves roles from the hosting service's collaborator list.
type HostingOwnership struct {
	lookup   ProviderLookup
	maxPages int
	logger   hclog.Logger
}

// NewHostingOwnership creates a strategy that pages through collaborators,
// reading at most maxPages pages. Zero or less reads until an empty page.
func NewHostingOwnership(lookup ProviderLookup, maxPages int, logger hclog.Logger) *HostingOwnership {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &HostingOwnership{
		lookup:   lookup,
		maxPages: maxPages,
		logger:   logger.Named("ownership"),
	}
}

// Ownership pages through collaborators from page 1 until the user's node id
// is found or a page comes back empty. Pages are fetched one at a time.
func (h *HostingOwnership) Ownership(ctx context.Context, user User, pkg PackageRecord) Result[Role] {
	ref, err := ParseRepoURL(pkg.Repository.URL)
	if err != nil {
		h.logger.Error("cannot parse package repository", "url", pkg.Repository.URL, "error", err)
		return Failure[Role](ShortBadRepo, fmt.Sprintf("Unable to parse repository %q - Bad Repo", pkg.Repository.URL), err)
	}
	ownerRepo := ref.String()

	if user.NodeID == "" {
		return Failure[Role](ShortBadAuth, fmt.Sprintf("No node id for user checking %s - Bad Auth", ownerRepo), ErrUnauthorized)
	}

	p, err := h.lookup(pkg.Repository.Type)
	if err != nil {
		h.logger.Error("no provider for repository", "type", pkg.Repository.Type, "error", err)
		return Failure[Role](ShortServerError, fmt.Sprintf("Unsupported service %q for %s - Server Error", pkg.Repository.Type, ownerRepo), err)
	}

	if !hostedOn(pkg.Repository.URL, p.RepoURL(ref)) {
		h.logger.Error("repository is not on the provider's host", "url", pkg.Repository.URL, "provider", p.RepoURL(ref))
		err := fmt.Errorf("%w: %s", ErrForeignHost, pkg.Repository.URL)
		return Failure[Role](ShortBadRepo, fmt.Sprintf("Repository %s is not hosted on %s - Bad Repo", pkg.Repository.URL, p.Service()), err)
	}

	for page := 1; h.maxPages <= 0 || page <= h.maxPages; page++ {
		collaborators, err := p.FetchCollaborators(ctx, ref, page, user.Token)
		if err != nil {
			h.logger.Error("collaborator fetch failed", "repo", ownerRepo, "page", page, "error", err)
			if errors.Is(err, ErrUnauthorized) {
				return Failure[Role](ShortBadAuth, fmt.Sprintf("Failed to get collaborators for %s - Bad Auth", ownerRepo), err)
			}
			return Failure[Role](ShortServerError, fmt.Sprintf("Failed to get collaborators for %s - Server Error", ownerRepo), err)
		}

		if len(collaborators) == 0 {
			break
		}

		for _, c := range collaborators {
			if c.NodeID == user.NodeID {
				role := RoleOf(c)
				h.logger.Debug("collaborator found", "repo", ownerRepo, "login", c.Login, "role", role, "page", page)
				return Success(role)
			}
		}
	}

	return Failure[Role](ShortNoRepoAccess,
		fmt.Sprintf("User is not a collaborator on %s - No Repo Access", ownerRepo),
		ErrNotCollaborator)
}

// DevOwnership grants Username the admin role without any hosting call and
// defers every other user to Next.
type DevOwnership struct {
	Username string
	Next     OwnershipStrategy
	Logger   hclog.Logger
}

func (d *DevOwnership) Ownership(ctx context.Context, user User, pkg PackageRecord) Result[Role] {
	if d.Username != "" && user.Username == d.Username {
		if d.Logger != nil {
			d.Logger.Debug("dev ownership bypass", "username", user.Username)
		}
		return Success(RoleAdmin)
	}
	if d.Next == nil {
		return Failure[Role](ShortNoRepoAccess, "User is not a collaborator - No Repo Access", ErrNotCollaborator)
	}
	return d.Next.Ownership(ctx, user, pkg)
}

// RoleOf returns the collaborator's role name when the host provides one,
// otherwise the highest role its permission flags grant.
func RoleOf(c Collaborator) Role {
	if c.RoleName != "" {
		return Role(c.RoleName)
	}
	switch {
	case c.Permissions.Admin:
		return RoleAdmin
	case c.Permissions.Maintain:
		return RoleMaintain
	case c.Permissions.Push:
		return RoleWrite
	case c.Permissions.Triage:
		return RoleTriage
	default:
		return RoleRead
	}
}
