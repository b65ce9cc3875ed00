// Package catalog holds the static access-control catalog of the CMMS: roles, the
// resource tree, actions, grants, tenant users and the audit log.
//
// The catalog is decoded from an embedded YAML seed at first use and validated once.
// Callers always receive their own copy, the shared seed is never mutated.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"sync"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/biomed-cmms/cmms-access/internal/auth"
	"github.com/biomed-cmms/cmms-access/internal/db/models"
)

//go:embed seed.yaml
var embeddedSeed []byte

var (
	defaultOnce    sync.Once //nolint:gochecknoglobals
	defaultCatalog *Catalog  //nolint:gochecknoglobals
	errDefault     error     //nolint:gochecknoglobals
)

// grantRule is the compact seed form of grants: one rule expands into
// one grant per (resource, action) pair.
type grantRule struct {
	Role      string   `yaml:"role"`
	Resources []string `yaml:"resources"`
	Actions   []string `yaml:"actions"`
	Allowed   bool     `yaml:"allowed"`
}

type document struct {
	Roles       []models.Role          `yaml:"roles"`
	Actions     []models.Action        `yaml:"actions"`
	Resources   []models.Resource      `yaml:"resources"`
	Grants      []grantRule            `yaml:"grants"`
	TenantUsers []models.TenantUser    `yaml:"tenantUsers"`
	AuditLog    []models.AuditLogEntry `yaml:"auditLog"`
}

// Catalog is the in-memory access-control table.
type Catalog struct {
	roles       []models.Role
	actions     []models.Action
	resources   []models.Resource
	grants      []models.RolePermission
	tenantUsers []models.TenantUser
	auditLog    []models.AuditLogEntry

	resourceIdx map[string]int
}

// Default returns a copy of the embedded catalog.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCatalog, errDefault = Parse(embeddedSeed)
	})

	if errDefault != nil {
		return nil, errDefault
	}

	return defaultCatalog.Clone(), nil
}

// MustDefault is like Default but panics if the embedded seed is invalid.
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(err)
	}

	return c
}

// Load reads a catalog in seed format from a file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read catalog file")
	}

	return Parse(data)
}

// Parse decodes and validates a catalog in seed format.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "failed to decode catalog")
	}

	c := &Catalog{
		roles:       doc.Roles,
		actions:     doc.Actions,
		resources:   doc.Resources,
		tenantUsers: doc.TenantUsers,
		auditLog:    doc.AuditLog,
	}

	for _, rule := range doc.Grants {
		for _, resource := range rule.Resources {
			for _, action := range rule.Actions {
				c.grants = append(c.grants, models.RolePermission{
					RoleID:     rule.Role,
					ResourceID: resource,
					ActionID:   action,
					Allowed:    rule.Allowed,
				})
			}
		}
	}

	for i := range c.roles {
		c.roles[i].Position = i
	}

	for i := range c.actions {
		c.actions[i].Position = i
	}

	for i := range c.resources {
		c.resources[i].Position = i
	}

	if err := c.validate(); err != nil {
		return nil, errors.Wrap(err, "invalid catalog")
	}

	return c, nil
}

func (c *Catalog) validate() error {
	roleIDs := make(map[string]bool, len(c.roles))

	for _, r := range c.roles {
		if _, ok := auth.ParseRole(r.ID); !ok {
			return fmt.Errorf("%w: %s", ErrUnknownRole, r.ID)
		}

		if roleIDs[r.ID] {
			return fmt.Errorf("%w: role %s", ErrDuplicateID, r.ID)
		}

		roleIDs[r.ID] = true
	}

	actionIDs := make(map[string]bool, len(c.actions))

	for _, a := range c.actions {
		if actionIDs[a.ID] {
			return fmt.Errorf("%w: action %s", ErrDuplicateID, a.ID)
		}

		actionIDs[a.ID] = true
	}

	c.resourceIdx = make(map[string]int, len(c.resources))

	for i, r := range c.resources {
		if _, ok := c.resourceIdx[r.ID]; ok {
			return fmt.Errorf("%w: resource %s", ErrDuplicateID, r.ID)
		}

		c.resourceIdx[r.ID] = i
	}

	if err := c.validateTree(); err != nil {
		return err
	}

	for _, g := range c.grants {
		if !roleIDs[g.RoleID] || !actionIDs[g.ActionID] {
			return fmt.Errorf("%w: %s/%s/%s", ErrUnknownReference, g.RoleID, g.ResourceID, g.ActionID)
		}

		if _, ok := c.resourceIdx[g.ResourceID]; !ok {
			return fmt.Errorf("%w: %s/%s/%s", ErrUnknownReference, g.RoleID, g.ResourceID, g.ActionID)
		}
	}

	for _, u := range c.tenantUsers {
		for _, m := range u.Memberships {
			if m.Status != models.MembershipActive && m.Status != models.MembershipInactive {
				return fmt.Errorf("%w: %s in %s", ErrInvalidMembership, m.Status, u.ID)
			}
		}
	}

	return nil
}

// validateTree checks that every parent exists and no parent chain loops.
func (c *Catalog) validateTree() error {
	for _, r := range c.resources {
		seen := map[string]bool{r.ID: true}
		cur := r

		for cur.ParentID != nil {
			i, ok := c.resourceIdx[*cur.ParentID]
			if !ok {
				return fmt.Errorf("%w: %s of %s", ErrUnknownParent, *cur.ParentID, cur.ID)
			}

			if seen[*cur.ParentID] {
				return fmt.Errorf("%w: %s", ErrResourceCycle, r.ID)
			}

			seen[*cur.ParentID] = true
			cur = c.resources[i]
		}
	}

	return nil
}

// Clone returns a deep copy of the catalog.
func (c *Catalog) Clone() *Catalog {
	out := &Catalog{
		roles:       append([]models.Role(nil), c.roles...),
		actions:     append([]models.Action(nil), c.actions...),
		resources:   make([]models.Resource, len(c.resources)),
		grants:      append([]models.RolePermission(nil), c.grants...),
		tenantUsers: make([]models.TenantUser, len(c.tenantUsers)),
		auditLog:    append([]models.AuditLogEntry(nil), c.auditLog...),
		resourceIdx: make(map[string]int, len(c.resourceIdx)),
	}

	for i, r := range c.resources {
		if r.ParentID != nil {
			p := *r.ParentID
			r.ParentID = &p
		}

		out.resources[i] = r
	}

	for i, u := range c.tenantUsers {
		u.Memberships = append([]models.Membership(nil), u.Memberships...)
		out.tenantUsers[i] = u
	}

	for k, v := range c.resourceIdx {
		out.resourceIdx[k] = v
	}

	return out
}

// Roles returns the roles in catalog order.
func (c *Catalog) Roles() []models.Role {
	return append([]models.Role(nil), c.roles...)
}

// Actions returns the actions in catalog order.
func (c *Catalog) Actions() []models.Action {
	return append([]models.Action(nil), c.actions...)
}

// Grants returns the seeded grants in seed order, duplicates included.
func (c *Catalog) Grants() []models.RolePermission {
	return append([]models.RolePermission(nil), c.grants...)
}

// GrantTable returns a fresh grant table built from the seeded grants.
func (c *Catalog) GrantTable() *auth.GrantTable {
	return auth.NewGrantTable(c.grants)
}

// HasRole reports whether the role is part of the catalog.
func (c *Catalog) HasRole(role auth.Role) bool {
	for _, r := range c.roles {
		if r.ID == string(role) {
			return true
		}
	}

	return false
}

// HasAction reports whether the action is part of the catalog.
func (c *Catalog) HasAction(id string) bool {
	for _, a := range c.actions {
		if a.ID == id {
			return true
		}
	}

	return false
}

// Seed converts the catalog into the form stored by auth.Service.
func (c *Catalog) Seed() auth.Seed {
	return auth.Seed{
		Roles:     c.Roles(),
		Resources: c.Resources(),
		Actions:   c.Actions(),
		Grants:    c.Grants(),
	}
}

// AuditLog returns a copy of the read-only audit log.
func (c *Catalog) AuditLog() []models.AuditLogEntry {
	return append([]models.AuditLogEntry(nil), c.auditLog...)
}

// TenantUser returns the tenant user with the given id.
func (c *Catalog) TenantUser(id string) (models.TenantUser, bool) {
	for _, u := range c.tenantUsers {
		if u.ID == id {
			u.Memberships = append([]models.Membership(nil), u.Memberships...)
			return u, true
		}
	}

	return models.TenantUser{}, false
}

// ActiveOrganizations returns the organizations the user holds an active membership in,
// in membership order. Unknown users have none.
func (c *Catalog) ActiveOrganizations(userID string) []string {
	orgs := make([]string, 0)

	u, ok := c.TenantUser(userID)
	if !ok {
		return orgs
	}

	for _, m := range u.Memberships {
		if m.Status == models.MembershipActive {
			orgs = append(orgs, m.OrgID)
		}
	}

	return orgs
}
