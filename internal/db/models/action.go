package models

// Action is something a role may do on a resource ("view", "create", "edit", "delete", "approve").
type Action struct {
	// ID is the action identifier.
	ID string `gorm:"primaryKey;size:50" yaml:"id" json:"id"`
	// Label is the display label.
	Label string `gorm:"size:100;not null" yaml:"label" json:"label"`
	// Position keeps the catalog order (matrix column order).
	Position int `gorm:"not null;default:0" yaml:"-" json:"-"`
}

// TableName specifies the database table name for the Action model.
func (Action) TableName() string {
	return "actions"
}
