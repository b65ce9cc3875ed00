package auth

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/biomed-cmms/cmms-access/internal/db/models"
)

// setupTestDB creates an in-memory SQLite database with the RBAC schema.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, NewService(db).Migrate(), "failed to migrate test database")

	return db
}

func parent(id string) *string {
	return &id
}

func testSeed() Seed {
	return Seed{
		Roles: []models.Role{
			{ID: string(RolePlatformAdmin), Label: "Platform Admin", Scope: models.ScopePlatform},
			{ID: string(RoleTenantAdmin), Label: "Tenant Admin", Scope: models.ScopeTenant},
			{ID: string(RoleUser), Label: "User", Scope: models.ScopeOrg},
		},
		Resources: []models.Resource{
			{ID: ResAssets, Label: "Assets"},
			{ID: ResAdministration, Label: "Administration"},
			{ID: ResPermissions, Label: "Permissions", ParentID: parent(ResAdministration)},
		},
		Actions: []models.Action{
			{ID: ActView, Label: "View"},
			{ID: ActEdit, Label: "Edit"},
		},
		Grants: []models.RolePermission{
			grant(RoleTenantAdmin, ResAssets, ActView, true),
			grant(RoleUser, ResAssets, ActView, true),
			grant(RoleUser, ResAssets, ActEdit, true),
			grant(RoleUser, ResAssets, ActEdit, false),
			grant(RolePlatformAdmin, ResPermissions, ActEdit, true),
		},
	}
}

func TestService_SeedCatalog(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	require.NoError(t, svc.SeedCatalog(ctx, testSeed()))

	var roles []models.Role
	require.NoError(t, db.Order("position").Find(&roles).Error)
	require.Len(t, roles, 3)
	assert.Equal(t, string(RolePlatformAdmin), roles[0].ID)
	assert.Equal(t, string(RoleUser), roles[2].ID)

	var child models.Resource
	require.NoError(t, db.First(&child, "id = ?", ResPermissions).Error)
	require.NotNil(t, child.ParentID)
	assert.Equal(t, ResAdministration, *child.ParentID)

	grants, err := svc.Grants(ctx)
	require.NoError(t, err)
	assert.Len(t, grants, 4, "duplicated triple must be stored once")

	// seeding twice is idempotent
	require.NoError(t, svc.SeedCatalog(ctx, testSeed()))

	grants, err = svc.Grants(ctx)
	require.NoError(t, err)
	assert.Len(t, grants, 4)
	assert.Equal(t, string(RolePlatformAdmin), grants[0].RoleID)
}

func TestService_HasPermission(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	require.NoError(t, svc.SeedCatalog(ctx, testSeed()))

	tests := []struct {
		name     string
		role     Role
		resource string
		action   string
		want     bool
	}{
		{"explicit allow", RoleTenantAdmin, ResAssets, ActView, true},
		{"no grant", RoleTenantAdmin, ResAssets, ActEdit, false},
		{"last write wins", RoleUser, ResAssets, ActEdit, false},
		{"no inheritance from parent", RolePlatformAdmin, ResAdministration, ActEdit, false},
		{"child grant", RolePlatformAdmin, ResPermissions, ActEdit, true},
		{"unknown role", Role("ghost"), ResAssets, ActView, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.HasPermission(ctx, tt.role, tt.resource, tt.action)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestService_ReseedOverwritesGrant(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	seed := testSeed()
	require.NoError(t, svc.SeedCatalog(ctx, seed))

	seed.Grants = []models.RolePermission{grant(RoleTenantAdmin, ResAssets, ActView, false)}
	require.NoError(t, svc.SeedCatalog(ctx, seed))

	ok, err := svc.HasPermission(ctx, RoleTenantAdmin, ResAssets, ActView)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestService_ReseedDropsRemovedEntries(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	require.NoError(t, svc.SeedCatalog(ctx, testSeed()))
	require.NoError(t, db.Omit(clause.Associations).Create(&models.User{
		Username: "nurse",
		RoleID:   string(RoleUser),
	}).Error)

	seed := testSeed()
	seed.Roles = seed.Roles[:1]
	seed.Resources = seed.Resources[:2]
	seed.Actions = seed.Actions[:1]
	seed.Grants = []models.RolePermission{grant(RoleUser, ResAssets, ActView, true)}
	require.NoError(t, svc.SeedCatalog(ctx, seed))

	ok, err := svc.HasPermission(ctx, RoleTenantAdmin, ResAssets, ActView)
	require.NoError(t, err)
	assert.False(t, ok, "grant removed from the catalog must not survive a reseed")
	assert.Equal(t, Lookup(seed.Grants, RoleTenantAdmin, ResAssets, ActView), ok)

	ok, err = svc.HasPermission(ctx, RolePlatformAdmin, ResPermissions, ActEdit)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.HasPermission(ctx, RoleUser, ResAssets, ActView)
	require.NoError(t, err)
	assert.True(t, ok)

	var resources []models.Resource
	require.NoError(t, db.Order("position").Find(&resources).Error)
	require.Len(t, resources, 2)
	assert.Equal(t, ResAdministration, resources[1].ID)

	var actions int64
	require.NoError(t, db.Model(&models.Action{}).Count(&actions).Error)
	assert.EqualValues(t, 1, actions)

	var roles []string
	require.NoError(t, db.Model(&models.Role{}).Order("id").Pluck("id", &roles).Error)
	assert.Equal(t, []string{string(RolePlatformAdmin), string(RoleUser)}, roles,
		"stale role held by a user is kept, unused stale role is removed")

	grants, err := svc.Grants(ctx)
	require.NoError(t, err)
	assert.Len(t, grants, 1)
}

func TestService_RoleGrants(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	require.NoError(t, svc.SeedCatalog(ctx, testSeed()))

	grants, err := svc.RoleGrants(ctx, RoleUser)
	require.NoError(t, err)
	require.Len(t, grants, 2)

	for _, g := range grants {
		assert.Equal(t, string(RoleUser), g.RoleID)
	}

	assert.Equal(t, ActView, grants[0].ActionID)
	assert.Equal(t, ActEdit, grants[1].ActionID)
}
