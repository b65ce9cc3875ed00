// Package matrix implements the permission matrix editor: a working copy of the
// grants with a single optional edit context.
//
// Edits live only in the editor. They are never written back to the catalog.
package matrix

import (
	"sync"

	"github.com/biomed-cmms/cmms-access/internal/auth"
	"github.com/biomed-cmms/cmms-access/internal/catalog"
	"github.com/biomed-cmms/cmms-access/internal/db/models"
)

// Mode is the edit state of the matrix.
type Mode string

const (
	// Viewing is the read-only grid.
	Viewing Mode = "viewing"
	// Editing means one role/resource row is open for editing.
	Editing Mode = "editing"
)

// Target is the role/resource pairing of the active edit context.
type Target struct {
	Role     auth.Role `json:"role"`
	Resource string    `json:"resource"`
}

// Editor holds the visible copy of the grants.
// It is safe for concurrent use.
type Editor struct {
	mu sync.Mutex

	cat    *catalog.Catalog
	grants *auth.GrantTable

	active   *Target
	snapshot []models.RolePermission
}

// New creates an editor seeded from the catalog grants.
func New(cat *catalog.Catalog) *Editor {
	return &Editor{
		cat:    cat,
		grants: cat.GrantTable(),
	}
}

// Mode returns the current edit state.
func (e *Editor) Mode() Mode {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.active == nil {
		return Viewing
	}

	return Editing
}

// Active returns the current edit target, if any.
func (e *Editor) Active() (Target, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.active == nil {
		return Target{}, false
	}

	return *e.active, true
}

// Begin opens the edit context for role and resource. An already open context is
// closed first and keeps its edits. Unknown roles or resources leave the editor
// untouched and return false.
func (e *Editor) Begin(role auth.Role, resource string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.known(role, resource) {
		return false
	}

	e.active = &Target{Role: role, Resource: resource}
	e.snapshot = e.snapshot[:0]

	for _, a := range e.cat.Actions() {
		e.snapshot = append(e.snapshot, models.RolePermission{
			RoleID:     string(role),
			ResourceID: resource,
			ActionID:   a.ID,
			Allowed:    e.grants.Allowed(role, resource, a.ID),
		})
	}

	return true
}

// Save closes the edit context and keeps its edits. It returns false in Viewing mode.
func (e *Editor) Save() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.active == nil {
		return false
	}

	e.close()

	return true
}

// Cancel closes the edit context and restores the target row to its state at Begin.
// It returns false in Viewing mode.
func (e *Editor) Cancel() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.active == nil {
		return false
	}

	for _, g := range e.snapshot {
		if g.Allowed || e.grants.Has(auth.Role(g.RoleID), g.ResourceID, g.ActionID) {
			e.grants.Set(auth.Role(g.RoleID), g.ResourceID, g.ActionID, g.Allowed)
		}
	}

	e.close()

	return true
}

// Toggle flips one cell. Unknown ids are a no-op and return false.
func (e *Editor) Toggle(role auth.Role, resource, action string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.known(role, resource) || !e.cat.HasAction(action) {
		return false
	}

	e.grants.Set(role, resource, action, !e.grants.Allowed(role, resource, action))

	return true
}

// SetRow sets every action of the role/resource pairing to allowed.
// Unknown ids are a no-op and return false.
func (e *Editor) SetRow(role auth.Role, resource string, allowed bool) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.known(role, resource) {
		return false
	}

	for _, a := range e.cat.Actions() {
		e.grants.Set(role, resource, a.ID, allowed)
	}

	return true
}

// Reset discards all edits, reloads the seed and closes the edit context.
func (e *Editor) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.grants = e.cat.GrantTable()
	e.close()
}

// Allowed answers a lookup against the visible grants.
func (e *Editor) Allowed(role auth.Role, resource, action string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.grants.Allowed(role, resource, action)
}

// Grants returns the visible grants in insertion order.
func (e *Editor) Grants() []models.RolePermission {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.grants.Grants()
}

// Dirty reports whether the visible grants differ from the seed.
func (e *Editor) Dirty() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	seed := e.cat.GrantTable()
	for _, g := range e.grants.Grants() {
		if seed.Allowed(auth.Role(g.RoleID), g.ResourceID, g.ActionID) != g.Allowed {
			return true
		}
	}

	return false
}

func (e *Editor) known(role auth.Role, resource string) bool {
	return e.cat.HasRole(role) && e.cat.HasResource(resource)
}

func (e *Editor) close() {
	e.active = nil
	e.snapshot = e.snapshot[:0]
}
