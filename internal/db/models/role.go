package models

import "time"

// Scope is the organizational level a role applies at.
type Scope string

const (
	// ScopePlatform roles administer the whole CMMS installation.
	ScopePlatform Scope = "Platform"
	// ScopeTenant roles administer one hospital group (tenant).
	ScopeTenant Scope = "Tenant"
	// ScopeOrg roles work inside a single organization of a tenant.
	ScopeOrg Scope = "Org"
)

// Role represents a role in the role-based access control (RBAC) system.
// The set of roles is a fixed catalog; rows are seeded and never created at runtime.
type Role struct {
	// ID is the role identifier (e.g., "tenant-admin").
	ID string `gorm:"primaryKey;size:50" yaml:"id" json:"id"`
	// Label is the display label.
	Label string `gorm:"size:100;not null" yaml:"label" json:"label"`
	// Scope is the organizational level of the role.
	Scope Scope `gorm:"type:varchar(20);not null" yaml:"scope" json:"scope"`
	// Position keeps the catalog order.
	Position int `gorm:"not null;default:0" yaml:"-" json:"-"`
	// CreatedAt is the timestamp when the role was seeded (managed by GORM).
	CreatedAt time.Time `yaml:"-" json:"-"`
	// UpdatedAt is the timestamp when the role was last reseeded (managed by GORM).
	UpdatedAt time.Time `yaml:"-" json:"-"`
}

// TableName specifies the database table name for the Role model.
func (Role) TableName() string {
	return "roles"
}
