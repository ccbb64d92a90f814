package core

import (
	"context"
	"net/http"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ownershipPackage = PackageRecord{
	Repository: Repository{Type: "git", URL: "https://github.com/pulsar-edit/pulsar"},
}

var ownershipUser = User{Username: "admin_user", Token: "123", NodeID: "12345"}

func TestOwnership_RoleName(t *testing.T) {
	t.Parallel()

	f := newFakeProvider()
	f.pages = [][]Collaborator{{
		{
			Login:       "confused-Techie",
			NodeID:      "12345",
			Permissions: Permissions{Admin: true, Maintain: true, Push: true, Triage: true, Pull: true},
			RoleName:    "admin",
		},
	}}
	svc := newTestService(t, f)

	res := svc.Ownership(context.Background(), ownershipUser, ownershipPackage)
	require.True(t, res.OK, "unexpected failure: %s", res.Message)
	assert.Equal(t, RoleAdmin, res.Content)
	assert.Equal(t, []string{"collaborators:1"}, f.Calls())
}

func TestOwnership_Pagination(t *testing.T) {
	t.Parallel()

	f := newFakeProvider()
	f.pages = [][]Collaborator{
		{{Login: "a", NodeID: "1"}, {Login: "b", NodeID: "2"}},
		{{Login: "c", NodeID: "3"}, {Login: "me", NodeID: "12345", Permissions: Permissions{Push: true, Pull: true}}},
		{{Login: "d", NodeID: "4"}},
	}
	svc := newTestService(t, f)

	res := svc.Ownership(context.Background(), ownershipUser, ownershipPackage)
	require.True(t, res.OK, "unexpected failure: %s", res.Message)
	assert.Equal(t, RoleWrite, res.Content)
	assert.Equal(t, []string{"collaborators:1", "collaborators:2"}, f.Calls())
}

func TestOwnership_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		pkg       PackageRecord
		user      User
		setup     func(f *fakeProvider)
		opts      []ServiceOption
		wantShort string
		wantCalls []string
	}{
		{
			name: "not a collaborator",
			pkg:  ownershipPackage,
			user: ownershipUser,
			setup: func(f *fakeProvider) {
				f.pages = [][]Collaborator{{{Login: "a", NodeID: "1"}}}
			},
			wantShort: "No Repo Access",
			wantCalls: []string{"collaborators:1", "collaborators:2"},
		},
		{
			name: "unauthorized",
			pkg:  ownershipPackage,
			user: ownershipUser,
			setup: func(f *fakeProvider) {
				f.collabErr = httpError(http.StatusUnauthorized, "collaborators")
			},
			wantShort: "Bad Auth",
			wantCalls: []string{"collaborators:1"},
		},
		{
			name: "server error",
			pkg:  ownershipPackage,
			user: ownershipUser,
			setup: func(f *fakeProvider) {
				f.collabErr = httpError(http.StatusInternalServerError, "collaborators")
			},
			wantShort: "Server Error",
			wantCalls: []string{"collaborators:1"},
		},
		{
			name:      "unparsable repository",
			pkg:       PackageRecord{Repository: Repository{Type: "git", URL: "not a url"}},
			user:      ownershipUser,
			setup:     func(*fakeProvider) {},
			wantShort: "Bad Repo",
		},
		{
			name:      "repository on another host",
			pkg:       PackageRecord{Repository: Repository{Type: "git", URL: "https://gitlab.com/pulsar-edit/pulsar"}},
			user:      ownershipUser,
			setup:     func(*fakeProvider) {},
			wantShort: "Bad Repo",
		},
		{
			name:      "missing node id",
			pkg:       ownershipPackage,
			user:      User{Username: "someone", Token: "123"},
			setup:     func(*fakeProvider) {},
			wantShort: "Bad Auth",
		},
		{
			name: "page cap reached",
			pkg:  ownershipPackage,
			user: ownershipUser,
			setup: func(f *fakeProvider) {
				f.pages = [][]Collaborator{
					{{NodeID: "1"}},
					{{NodeID: "2"}},
					{{NodeID: "12345"}},
				}
			},
			opts:      []ServiceOption{WithMaxCollaboratorPages(2)},
			wantShort: "No Repo Access",
			wantCalls: []string{"collaborators:1", "collaborators:2"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			f := newFakeProvider()
			tc.setup(f)
			svc := newTestService(t, f, tc.opts...)

			res := svc.Ownership(context.Background(), tc.user, tc.pkg)
			require.False(t, res.OK)
			assert.Equal(t, tc.wantShort, res.Short)
			assert.NotEmpty(t, res.Message)
			assert.Equal(t, tc.wantCalls, f.Calls())
		})
	}
}

func TestDevOwnership(t *testing.T) {
	t.Parallel()

	f := newFakeProvider()
	f.pages = [][]Collaborator{{{NodeID: "12345", Permissions: Permissions{Triage: true}}}}
	svc := newTestService(t, f, WithDevUsername("dever"))

	t.Run("bypass", func(t *testing.T) {
		res := svc.Ownership(context.Background(), User{Username: "dever"}, ownershipPackage)
		require.True(t, res.OK)
		assert.Equal(t, RoleAdmin, res.Content)
	})

	t.Run("others use hosting", func(t *testing.T) {
		res := svc.Ownership(context.Background(), ownershipUser, ownershipPackage)
		require.True(t, res.OK)
		assert.Equal(t, RoleTriage, res.Content)
	})

	assert.Equal(t, []string{"collaborators:1"}, f.Calls())
}

func TestDevOwnership_NoNext(t *testing.T) {
	t.Parallel()

	d := &DevOwnership{Username: "dever", Logger: hclog.NewNullLogger()}
	res := d.Ownership(context.Background(), User{Username: "other"}, ownershipPackage)
	require.False(t, res.OK)
	assert.Equal(t, "No Repo Access", res.Short)
}

func TestRoleOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		c    Collaborator
		want Role
	}{
		{"role name wins", Collaborator{RoleName: "maintain", Permissions: Permissions{Admin: true}}, RoleMaintain},
		{"admin", Collaborator{Permissions: Permissions{Admin: true, Push: true, Pull: true}}, RoleAdmin},
		{"maintain", Collaborator{Permissions: Permissions{Maintain: true, Push: true}}, RoleMaintain},
		{"push", Collaborator{Permissions: Permissions{Push: true, Pull: true}}, RoleWrite},
		{"triage", Collaborator{Permissions: Permissions{Triage: true, Pull: true}}, RoleTriage},
		{"pull", Collaborator{Permissions: Permissions{Pull: true}}, RoleRead},
		{"nothing", Collaborator{}, RoleRead},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, RoleOf(tc.c))
		})
	}
}
