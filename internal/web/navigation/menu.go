package navigation

import "github.com/biomed-cmms/cmms-access/internal/auth"

// MenuItem is one entry of the side navigation.
//
// Roles is the allow-list of the entry. A nil Roles means the entry is visible to
// every role. A non-nil but empty Roles hides the entry from everyone. Keep the two
// apart when building menus: `Roles: AllowList{}` is not the same as leaving it out.
type MenuItem struct {
	Path    string    `yaml:"path" json:"path"`
	Label   string    `yaml:"label" json:"label"`
	Section string    `yaml:"section" json:"section"`
	Roles   AllowList `yaml:"roles" json:"roles"`
}

// AllowList is the set of roles a menu entry is shown to.
type AllowList []auth.Role

// MarshalYAML writes a nil list as null so it reads back as nil, and an empty list as [].
func (l AllowList) MarshalYAML() (any, error) {
	if l == nil {
		return nil, nil
	}

	return []auth.Role(l), nil
}

// Section is a labelled group of menu entries.
type Section struct {
	Label string     `json:"label"`
	Items []MenuItem `json:"items"`
}

// Link is what the routing layer consumes.
type Link struct {
	Path  string `json:"path"`
	Label string `json:"label"`
}

// VisibleTo reports whether the entry is shown to role.
func (m MenuItem) VisibleTo(role auth.Role) bool {
	if m.Roles == nil {
		return true
	}

	for _, r := range m.Roles {
		if r == role {
			return true
		}
	}

	return false
}

// Filter returns the entries visible to role, in source order.
func Filter(items []MenuItem, role auth.Role) []MenuItem {
	out := make([]MenuItem, 0, len(items))

	for _, item := range items {
		if item.VisibleTo(role) {
			out = append(out, item)
		}
	}

	return out
}

// Group groups entries by section. Sections appear in the order of their first
// entry, entries keep their relative order.
func Group(items []MenuItem) []Section {
	sections := make([]Section, 0)
	index := make(map[string]int)

	for _, item := range items {
		i, ok := index[item.Section]
		if !ok {
			i = len(sections)
			index[item.Section] = i
			sections = append(sections, Section{Label: item.Section})
		}

		sections[i].Items = append(sections[i].Items, item)
	}

	return sections
}

// Build filters the menu for role and groups the result into sections.
func Build(items []MenuItem, role auth.Role) []Section {
	return Group(Filter(items, role))
}

// Links converts entries into routing links.
func Links(items []MenuItem) []Link {
	out := make([]Link, 0, len(items))
	for _, item := range items {
		out = append(out, Link{Path: item.Path, Label: item.Label})
	}

	return out
}

// Menu section labels.
const (
	SectionOverview    = "Overview"
	SectionMaintenance = "Maintenance"
	SectionStores      = "Stores"
	SectionSupport     = "Support"
	SectionAdmin       = "Administration"
)

// DefaultMenu returns the CMMS side navigation.
func DefaultMenu() []MenuItem {
	admins := []auth.Role{auth.RolePlatformAdmin, auth.RoleTenantAdmin}
	staff := []auth.Role{auth.RolePlatformAdmin, auth.RoleTenantAdmin, auth.RoleUser}

	return []MenuItem{
		{Path: "/dashboard", Label: "Dashboard", Section: SectionOverview},
		{Path: "/assets", Label: "Asset Registration", Section: SectionMaintenance, Roles: staff},
		{Path: "/work-orders", Label: "Work Orders", Section: SectionMaintenance, Roles: staff},
		{Path: "/pm", Label: "Preventive Maintenance", Section: SectionMaintenance, Roles: staff},
		{Path: "/calibration", Label: "Calibration", Section: SectionMaintenance, Roles: staff},
		{Path: "/inventory", Label: "Store Master", Section: SectionStores, Roles: staff},
		{Path: "/vouchers", Label: "Vouchers", Section: SectionStores, Roles: staff},
		{Path: "/vendors", Label: "Vendors & Contracts", Section: SectionStores, Roles: admins},
		{Path: "/tickets", Label: "Tickets", Section: SectionSupport},
		{Path: "/admin/organizations", Label: "Organizations", Section: SectionAdmin, Roles: admins},
		{Path: "/admin/users", Label: "Users", Section: SectionAdmin, Roles: admins},
		{Path: "/admin/permissions", Label: "Permissions", Section: SectionAdmin, Roles: admins},
		{Path: "/admin/audit", Label: "Audit Log", Section: SectionAdmin, Roles: admins},
		{Path: "/admin/tenants", Label: "Tenants", Section: SectionAdmin, Roles: []auth.Role{auth.RolePlatformAdmin}},
	}
}
