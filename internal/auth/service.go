package auth

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/biomed-cmms/cmms-access/internal/db/models"
)

// Seed is the catalog content written to the database.
type Seed struct {
	Roles     []models.Role
	Resources []models.Resource
	Actions   []models.Action
	Grants    []models.RolePermission
}

// Service provides database backed authorization.
type Service struct {
	db *gorm.DB
}

// NewService creates a new auth service.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Migrate creates or updates the RBAC tables.
func (s *Service) Migrate() error {
	return s.db.AutoMigrate(
		&models.Role{},
		&models.Resource{},
		&models.Action{},
		&models.RolePermission{},
		&models.User{},
	)
}

// SeedCatalog replaces the stored catalog in a single transaction.
// Grants are deduplicated first, so a triple listed twice keeps its last value.
// Grants, resources and actions missing from the seed are removed. Roles missing
// from the seed are removed unless a user still holds them.
func (s *Service) SeedCatalog(ctx context.Context, seed Seed) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := prune(tx, seed); err != nil {
			return err
		}

		for i := range seed.Roles {
			role := seed.Roles[i]
			role.Position = i

			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				DoUpdates: clause.AssignmentColumns([]string{"label", "scope", "position", "updated_at"}),
			}).Create(&role).Error; err != nil {
				return fmt.Errorf("failed to seed role %s: %w", role.ID, err)
			}
		}

		for i := range seed.Resources {
			resource := seed.Resources[i]
			resource.Position = i

			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				DoUpdates: clause.AssignmentColumns([]string{"label", "parent_id", "position"}),
			}).Create(&resource).Error; err != nil {
				return fmt.Errorf("failed to seed resource %s: %w", resource.ID, err)
			}
		}

		for i := range seed.Actions {
			action := seed.Actions[i]
			action.Position = i

			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				DoUpdates: clause.AssignmentColumns([]string{"label", "position"}),
			}).Create(&action).Error; err != nil {
				return fmt.Errorf("failed to seed action %s: %w", action.ID, err)
			}
		}

		grants := NewGrantTable(seed.Grants).Grants()
		if len(grants) == 0 {
			return nil
		}

		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "role_id"},
				{Name: "resource_id"},
				{Name: "action_id"},
			},
			DoUpdates: clause.AssignmentColumns([]string{"allowed"}),
		}).Create(&grants).Error; err != nil {
			return fmt.Errorf("failed to seed grants: %w", err)
		}

		return nil
	})
}

func prune(tx *gorm.DB, seed Seed) error {
	if err := tx.Where("1 = 1").Delete(&models.RolePermission{}).Error; err != nil {
		return fmt.Errorf("failed to clear grants: %w", err)
	}

	resources := make([]string, 0, len(seed.Resources))
	for _, r := range seed.Resources {
		resources = append(resources, r.ID)
	}

	if err := notIn(tx, resources).Delete(&models.Resource{}).Error; err != nil {
		return fmt.Errorf("failed to remove stale resources: %w", err)
	}

	actions := make([]string, 0, len(seed.Actions))
	for _, a := range seed.Actions {
		actions = append(actions, a.ID)
	}

	if err := notIn(tx, actions).Delete(&models.Action{}).Error; err != nil {
		return fmt.Errorf("failed to remove stale actions: %w", err)
	}

	roles := make([]string, 0, len(seed.Roles))
	for _, r := range seed.Roles {
		roles = append(roles, r.ID)
	}

	err := notIn(tx, roles).
		Where("id NOT IN (?)", tx.Model(&models.User{}).Select("role_id")).
		Delete(&models.Role{}).Error
	if err != nil {
		return fmt.Errorf("failed to remove stale roles: %w", err)
	}

	return nil
}

// notIn scopes tx to rows whose id is not listed; an empty list matches every row.
func notIn(tx *gorm.DB, ids []string) *gorm.DB {
	if len(ids) == 0 {
		return tx.Where("1 = 1")
	}

	return tx.Where("id NOT IN ?", ids)
}

// HasPermission checks whether an allowing grant exists for the triple.
func (s *Service) HasPermission(ctx context.Context, role Role, resource, action string) (bool, error) {
	var count int64

	err := s.db.WithContext(ctx).Model(&models.RolePermission{}).
		Where("role_id = ? AND resource_id = ? AND action_id = ? AND allowed = ?",
			string(role), resource, action, true).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check permission: %w", err)
	}

	return count > 0, nil
}

// Grants returns every stored grant ordered by role, resource and action catalog position.
func (s *Service) Grants(ctx context.Context) ([]models.RolePermission, error) {
	return s.grants(ctx, "")
}

// RoleGrants returns the stored grants of one role.
func (s *Service) RoleGrants(ctx context.Context, role Role) ([]models.RolePermission, error) {
	return s.grants(ctx, role)
}

func (s *Service) grants(ctx context.Context, role Role) ([]models.RolePermission, error) {
	var grants []models.RolePermission

	tx := s.db.WithContext(ctx).Model(&models.RolePermission{}).
		Select("role_permissions.*").
		Joins("JOIN roles ON roles.id = role_permissions.role_id").
		Joins("JOIN resources ON resources.id = role_permissions.resource_id").
		Joins("JOIN actions ON actions.id = role_permissions.action_id")

	if role != "" {
		tx = tx.Where("role_permissions.role_id = ?", string(role))
	}

	err := tx.Order("roles.position, resources.position, actions.position").
		Find(&grants).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list grants: %w", err)
	}

	return grants, nil
}
