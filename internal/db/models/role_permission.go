package models

// RolePermission is a single grant: whether a role may perform an action on a resource.
// The (RoleID, ResourceID, ActionID) triple is the primary key, so at most one grant
// exists per triple; writing the same triple again overwrites the previous value.
type RolePermission struct {
	// RoleID is the role the grant applies to.
	RoleID string `gorm:"primaryKey;size:50;column:role_id" yaml:"role" json:"role"`
	// ResourceID is the resource the grant applies to.
	ResourceID string `gorm:"primaryKey;size:100;column:resource_id" yaml:"resource" json:"resource"`
	// ActionID is the action the grant applies to.
	ActionID string `gorm:"primaryKey;size:50;column:action_id" yaml:"action" json:"action"`
	// Allowed is the effect of the grant.
	Allowed bool `gorm:"not null;default:false" yaml:"allowed" json:"allowed"`
}

// TableName specifies the database table name for the RolePermission model.
func (RolePermission) TableName() string {
	return "role_permissions"
}
