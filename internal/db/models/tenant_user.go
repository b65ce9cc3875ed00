package models

// MembershipStatus is the state of a user's membership in an organization.
type MembershipStatus string

const (
	// MembershipActive marks a membership the user may act under.
	MembershipActive MembershipStatus = "Active"
	// MembershipInactive marks a suspended or ended membership.
	MembershipInactive MembershipStatus = "Inactive"
)

// Membership links a tenant user to one organization.
type Membership struct {
	OrgID  string           `yaml:"org" json:"orgId"`
	Status MembershipStatus `yaml:"status" json:"status"`
}

// TenantUser is a person of a tenant with memberships in its organizations.
// It only drives option lists (e.g. organizations a location may be created under).
type TenantUser struct {
	ID          string       `yaml:"id" json:"id"`
	Name        string       `yaml:"name" json:"name"`
	Memberships []Membership `yaml:"memberships" json:"memberships"`
}
