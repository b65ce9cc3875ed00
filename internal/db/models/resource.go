package models

// Resource is a protectable entity of the CMMS (a module like "Assets" or one of its pages).
// Resources form a tree through ParentID; top-level resources have no parent.
type Resource struct {
	// ID is the resource identifier (e.g., "ASSETS").
	ID string `gorm:"primaryKey;size:100" yaml:"id" json:"id"`
	// Label is the display label.
	Label string `gorm:"size:100;not null" yaml:"label" json:"label"`
	// ParentID references the parent resource, nil for top-level resources.
	ParentID *string `gorm:"size:100;index" yaml:"parent,omitempty" json:"parentId,omitempty"`
	// Position keeps the catalog insertion order, which is the only ordering applied.
	Position int `gorm:"not null;default:0" yaml:"-" json:"-"`
}

// TableName specifies the database table name for the Resource model.
func (Resource) TableName() string {
	return "resources"
}

// IsTopLevel reports whether the resource has no parent.
func (r Resource) IsTopLevel() bool {
	return r.ParentID == nil
}
