package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biomed-cmms/cmms-access/internal/db/models"
)

func grant(role Role, resource, action string, allowed bool) models.RolePermission {
	return models.RolePermission{
		RoleID:     string(role),
		ResourceID: resource,
		ActionID:   action,
		Allowed:    allowed,
	}
}

func TestLookup_Scenario(t *testing.T) {
	grants := []models.RolePermission{
		grant(RoleTenantAdmin, ResAssets, ActView, true),
	}

	assert.True(t, Lookup(grants, RoleTenantAdmin, ResAssets, ActView))
	assert.False(t, Lookup(grants, RoleTenantAdmin, ResAssets, ActDelete))
}

func TestLookup_DefaultDeny(t *testing.T) {
	grants := []models.RolePermission{
		grant(RoleTenantAdmin, ResAssets, ActView, true),
		grant(RoleUser, ResWorkOrders, ActCreate, true),
	}

	actions := []string{ActView, ActCreate, ActEdit, ActDelete, ActApprove}
	resources := []string{ResAssets, ResWorkOrders, ResCalibration, "UNKNOWN"}

	for _, role := range append(Roles(), Role("ghost")) {
		for _, resource := range resources {
			for _, action := range actions {
				explicit := (role == RoleTenantAdmin && resource == ResAssets && action == ActView) ||
					(role == RoleUser && resource == ResWorkOrders && action == ActCreate)
				if explicit {
					continue
				}

				assert.False(t, Lookup(grants, role, resource, action),
					"%s/%s/%s must be denied", role, resource, action)
			}
		}
	}

	assert.False(t, Lookup(nil, RolePlatformAdmin, ResAssets, ActView))
}

func TestLookup_LastWriteWins(t *testing.T) {
	tests := []struct {
		name   string
		grants []models.RolePermission
		want   bool
	}{
		{
			name: "allow then deny",
			grants: []models.RolePermission{
				grant(RoleUser, ResAssets, ActEdit, true),
				grant(RoleUser, ResAssets, ActEdit, false),
			},
			want: false,
		},
		{
			name: "deny then allow",
			grants: []models.RolePermission{
				grant(RoleUser, ResAssets, ActEdit, false),
				grant(RoleUser, ResAssets, ActEdit, true),
			},
			want: true,
		},
		{
			name: "unrelated grant in between",
			grants: []models.RolePermission{
				grant(RoleUser, ResAssets, ActEdit, true),
				grant(RoleUser, ResAssets, ActView, false),
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Lookup(tt.grants, RoleUser, ResAssets, ActEdit))
			assert.Equal(t, tt.want, NewGrantTable(tt.grants).Allowed(RoleUser, ResAssets, ActEdit))
		})
	}
}

func TestLookup_NoInheritance(t *testing.T) {
	grants := []models.RolePermission{
		grant(RoleTenantAdmin, ResAdministration, ActView, true),
	}

	assert.True(t, Lookup(grants, RoleTenantAdmin, ResAdministration, ActView))
	assert.False(t, Lookup(grants, RoleTenantAdmin, ResPermissions, ActView))
}

func TestGrantTable_SetOverwritesInPlace(t *testing.T) {
	table := NewGrantTable([]models.RolePermission{
		grant(RoleUser, ResAssets, ActView, true),
		grant(RoleUser, ResAssets, ActEdit, false),
		grant(RoleUser, ResAssets, ActView, false),
	})

	require.Equal(t, 2, table.Len())

	grants := table.Grants()
	assert.Equal(t, ActView, grants[0].ActionID)
	assert.False(t, grants[0].Allowed)
	assert.Equal(t, ActEdit, grants[1].ActionID)

	table.Set(RoleUser, ResAssets, ActEdit, true)
	assert.Equal(t, 2, table.Len())
	assert.True(t, table.Allowed(RoleUser, ResAssets, ActEdit))
	assert.True(t, table.Has(RoleUser, ResAssets, ActView))
	assert.False(t, table.Has(RoleUser, ResAssets, ActDelete))
}

func TestGrantTable_CloneIsIndependent(t *testing.T) {
	table := NewGrantTable([]models.RolePermission{
		grant(RoleUser, ResAssets, ActView, true),
	})

	clone := table.Clone()
	clone.Set(RoleUser, ResAssets, ActView, false)
	clone.Set(RoleUser, ResAssets, ActEdit, true)

	assert.True(t, table.Allowed(RoleUser, ResAssets, ActView))
	assert.False(t, table.Has(RoleUser, ResAssets, ActEdit))
	assert.Equal(t, 1, table.Len())
	assert.Equal(t, 2, clone.Len())
}

func TestGrantTable_GrantsReturnsCopy(t *testing.T) {
	table := NewGrantTable([]models.RolePermission{
		grant(RoleUser, ResAssets, ActView, true),
	})

	grants := table.Grants()
	grants[0].Allowed = false

	assert.True(t, table.Allowed(RoleUser, ResAssets, ActView))
}
