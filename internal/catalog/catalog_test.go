package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biomed-cmms/cmms-access/internal/auth"
	"github.com/biomed-cmms/cmms-access/internal/db/models"
)

func TestDefault(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	roles := c.Roles()
	require.Len(t, roles, len(auth.Roles()))

	for i, r := range auth.Roles() {
		assert.Equal(t, string(r), roles[i].ID)
		assert.Equal(t, r.Info().Scope, roles[i].Scope)
		assert.True(t, c.HasRole(r))
	}

	assert.True(t, c.HasAction(auth.ActApprove))
	assert.False(t, c.HasAction("archive"))
	assert.True(t, c.HasResource(auth.ResPermissions))
	assert.NotEmpty(t, c.Grants())
}

func TestDefault_ReturnsIndependentCopies(t *testing.T) {
	a := MustDefault()
	b := MustDefault()

	a.resources[0].Label = "changed"
	a.grants[0].Allowed = !a.grants[0].Allowed

	assert.NotEqual(t, "changed", b.resources[0].Label)
	assert.NotEqual(t, a.grants[0].Allowed, b.grants[0].Allowed)
}

func TestDefault_SeededGrants(t *testing.T) {
	table := MustDefault().GrantTable()

	tests := []struct {
		role     auth.Role
		resource string
		action   string
		want     bool
	}{
		{auth.RolePlatformAdmin, auth.ResAudit, auth.ActDelete, true},
		{auth.RoleTenantAdmin, auth.ResAssets, auth.ActView, true},
		{auth.RoleTenantAdmin, auth.ResAssets, auth.ActDelete, false},
		{auth.RoleTenantAdmin, auth.ResAudit, auth.ActEdit, false},
		{auth.RoleTenantAdmin, auth.ResAudit, auth.ActView, true},
		{auth.RoleUser, auth.ResWorkOrders, auth.ActCreate, true},
		{auth.RoleUser, auth.ResPermissions, auth.ActView, false},
		{auth.RoleEndUser, auth.ResTickets, auth.ActCreate, true},
		{auth.RoleEndUser, auth.ResAssets, auth.ActView, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, table.Allowed(tt.role, tt.resource, tt.action),
			"%s/%s/%s", tt.role, tt.resource, tt.action)
	}
}

func TestParse_Validation(t *testing.T) {
	tests := []struct {
		name    string
		seed    string
		wantErr error
	}{
		{
			name: "unknown role",
			seed: `
roles:
  - id: janitor
    label: Janitor
    scope: Org
`,
			wantErr: ErrUnknownRole,
		},
		{
			name: "duplicate resource",
			seed: `
resources:
  - id: ASSETS
    label: Assets
  - id: ASSETS
    label: Assets again
`,
			wantErr: ErrDuplicateID,
		},
		{
			name: "unknown parent",
			seed: `
resources:
  - id: PM_SCHEDULES
    label: PM Schedules
    parent: PM
`,
			wantErr: ErrUnknownParent,
		},
		{
			name: "cycle",
			seed: `
resources:
  - id: A
    label: A
    parent: B
  - id: B
    label: B
    parent: A
`,
			wantErr: ErrResourceCycle,
		},
		{
			name: "self parent",
			seed: `
resources:
  - id: A
    label: A
    parent: A
`,
			wantErr: ErrResourceCycle,
		},
		{
			name: "grant with unknown resource",
			seed: `
roles:
  - id: user
    label: User
    scope: Org
actions:
  - id: view
    label: View
grants:
  - role: user
    resources: [NOWHERE]
    actions: [view]
    allowed: true
`,
			wantErr: ErrUnknownReference,
		},
		{
			name: "bad membership",
			seed: `
tenantUsers:
  - id: u-1
    name: X
    memberships:
      - org: ORG
        status: Pending
`,
			wantErr: ErrInvalidMembership,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.seed))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestParse_Malformed(t *testing.T) {
	_, err := Parse([]byte("roles: [unterminated"))
	require.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, embeddedSeed, 0o600))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, MustDefault().Grants(), c.Grants())

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestSeed(t *testing.T) {
	c := MustDefault()
	seed := c.Seed()

	assert.Equal(t, c.Roles(), seed.Roles)
	assert.Equal(t, c.Resources(), seed.Resources)
	assert.Equal(t, c.Actions(), seed.Actions)
	assert.Equal(t, c.Grants(), seed.Grants)
}

func TestActiveOrganizations(t *testing.T) {
	c := MustDefault()

	assert.Equal(t, []string{"ORG-NORTH", "ORG-CENTRAL"}, c.ActiveOrganizations("u-1001"))
	assert.Equal(t, []string{"ORG-SOUTH"}, c.ActiveOrganizations("u-1002"))
	assert.Empty(t, c.ActiveOrganizations("u-1003"))
	assert.NotNil(t, c.ActiveOrganizations("nobody"))
	assert.Empty(t, c.ActiveOrganizations("nobody"))
}

func TestAuditLog_IsCopy(t *testing.T) {
	c := MustDefault()

	entries := c.AuditLog()
	require.NotEmpty(t, entries)
	assert.True(t, entries[0].Timestamp.After(entries[len(entries)-1].Timestamp))

	entries[0].Actor = "tampered"
	assert.NotEqual(t, "tampered", c.AuditLog()[0].Actor)
}

func TestTenantUser(t *testing.T) {
	c := MustDefault()

	u, ok := c.TenantUser("u-1002")
	require.True(t, ok)
	assert.Equal(t, "Rahul Menon", u.Name)
	assert.Equal(t, models.MembershipActive, u.Memberships[0].Status)

	_, ok = c.TenantUser("missing")
	assert.False(t, ok)
}
