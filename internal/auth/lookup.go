package auth

import "github.com/biomed-cmms/cmms-access/internal/db/models"

// Lookup answers whether role may perform action on resource according to grants.
// The last grant matching the triple decides; without a matching grant the answer is false.
// Ids are not validated: unknown ids simply never match.
// There is no inheritance from parent resources.
func Lookup(grants []models.RolePermission, role Role, resource, action string) bool {
	allowed := false

	for i := range grants {
		g := &grants[i]
		if g.RoleID == string(role) && g.ResourceID == resource && g.ActionID == action {
			allowed = g.Allowed
		}
	}

	return allowed
}

// GrantKey identifies one cell of the permission matrix.
type GrantKey struct {
	Role     Role
	Resource string
	Action   string
}

// GrantTable is an insertion ordered set of grants with one entry per GrantKey.
// The zero value is not usable, create tables with NewGrantTable.
type GrantTable struct {
	index map[GrantKey]int
	rows  []models.RolePermission
}

// NewGrantTable builds a table from grants. Duplicated triples keep the last value
// at the position of their first occurrence.
func NewGrantTable(grants []models.RolePermission) *GrantTable {
	t := &GrantTable{
		index: make(map[GrantKey]int, len(grants)),
		rows:  make([]models.RolePermission, 0, len(grants)),
	}

	for _, g := range grants {
		t.Set(Role(g.RoleID), g.ResourceID, g.ActionID, g.Allowed)
	}

	return t
}

// Set writes the grant for the triple, overwriting an existing one in place.
func (t *GrantTable) Set(role Role, resource, action string, allowed bool) {
	key := GrantKey{Role: role, Resource: resource, Action: action}
	if i, ok := t.index[key]; ok {
		t.rows[i].Allowed = allowed
		return
	}

	t.index[key] = len(t.rows)
	t.rows = append(t.rows, models.RolePermission{
		RoleID:     string(role),
		ResourceID: resource,
		ActionID:   action,
		Allowed:    allowed,
	})
}

// Allowed is the indexed equivalent of Lookup.
func (t *GrantTable) Allowed(role Role, resource, action string) bool {
	i, ok := t.index[GrantKey{Role: role, Resource: resource, Action: action}]
	if !ok {
		return false
	}

	return t.rows[i].Allowed
}

// Has reports whether an explicit grant (allowed or not) exists for the triple.
func (t *GrantTable) Has(role Role, resource, action string) bool {
	_, ok := t.index[GrantKey{Role: role, Resource: resource, Action: action}]
	return ok
}

// Len returns the number of distinct grants.
func (t *GrantTable) Len() int {
	return len(t.rows)
}

// Grants returns a copy of the grants in insertion order.
func (t *GrantTable) Grants() []models.RolePermission {
	out := make([]models.RolePermission, len(t.rows))
	copy(out, t.rows)

	return out
}

// Clone returns an independent copy of the table.
func (t *GrantTable) Clone() *GrantTable {
	c := &GrantTable{
		index: make(map[GrantKey]int, len(t.index)),
		rows:  t.Grants(),
	}

	for k, v := range t.index {
		c.index[k] = v
	}

	return c
}
