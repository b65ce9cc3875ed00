package auth

import "github.com/biomed-cmms/cmms-access/internal/db/models"

// Role is one of the fixed CMMS access levels.
type Role string

const (
	// RolePlatformAdmin administers the whole installation.
	RolePlatformAdmin Role = "platform-admin"
	// RoleTenantAdmin administers one tenant and its organizations.
	RoleTenantAdmin Role = "tenant-admin"
	// RoleUser is an organization-level engineer or technician.
	RoleUser Role = "user"
	// RoleEndUser may only raise and follow tickets.
	RoleEndUser Role = "end-user"
)

// DefaultRole is assumed whenever no valid role is known.
const DefaultRole = RoleUser

// RoleInfo holds the display attributes of a role.
type RoleInfo struct {
	Label    string
	Initials string
	Scope    models.Scope
}

// roleTable is the single source of display data per role.
var roleTable = map[Role]RoleInfo{ //nolint:gochecknoglobals
	RolePlatformAdmin: {Label: "Platform Admin", Initials: "PA", Scope: models.ScopePlatform},
	RoleTenantAdmin:   {Label: "Tenant Admin", Initials: "TA", Scope: models.ScopeTenant},
	RoleUser:          {Label: "User", Initials: "US", Scope: models.ScopeOrg},
	RoleEndUser:       {Label: "End User", Initials: "EU", Scope: models.ScopeOrg},
}

// Roles returns every role in catalog order.
func Roles() []Role {
	return []Role{RolePlatformAdmin, RoleTenantAdmin, RoleUser, RoleEndUser}
}

// ParseRole converts a role id into a Role.
func ParseRole(id string) (Role, bool) {
	r := Role(id)
	_, ok := roleTable[r]

	return r, ok
}

// Valid reports whether r is one of the enumerated roles.
func (r Role) Valid() bool {
	_, ok := roleTable[r]
	return ok
}

// Info returns the display attributes. Unknown roles get the id as label.
func (r Role) Info() RoleInfo {
	if info, ok := roleTable[r]; ok {
		return info
	}

	return RoleInfo{Label: string(r)}
}

// String implements fmt.Stringer.
func (r Role) String() string {
	return string(r)
}
