package matrix

import (
	"github.com/biomed-cmms/cmms-access/internal/auth"
	"github.com/biomed-cmms/cmms-access/internal/db/models"
)

// Cell is one checkbox of the grid.
type Cell struct {
	Action  string `json:"action"`
	Allowed bool   `json:"allowed"`
}

// RoleCells are the cells of one role within a resource row.
type RoleCells struct {
	Role    auth.Role `json:"role"`
	Editing bool      `json:"editing"`
	Cells   []Cell    `json:"cells"`
}

// Row is one resource of the grid.
type Row struct {
	Resource models.Resource `json:"resource"`
	Depth    int             `json:"depth"`
	Roles    []RoleCells     `json:"roles"`
}

// Grid is the rendered matrix.
type Grid struct {
	Mode    Mode            `json:"mode"`
	Active  *Target         `json:"active,omitempty"`
	Roles   []models.Role   `json:"roles"`
	Actions []models.Action `json:"actions"`
	Rows    []Row           `json:"rows"`
}

// Grid renders the visible grants grouped by the resource tree and by role.
// Rows follow the tree depth first, columns follow catalog role and action order.
func (e *Editor) Grid() Grid {
	e.mu.Lock()
	defer e.mu.Unlock()

	g := Grid{
		Mode:    Viewing,
		Roles:   e.cat.Roles(),
		Actions: e.cat.Actions(),
		Rows:    make([]Row, 0),
	}

	if e.active != nil {
		t := *e.active
		g.Mode = Editing
		g.Active = &t
	}

	e.cat.Walk(func(r models.Resource, depth int) {
		row := Row{Resource: r, Depth: depth, Roles: make([]RoleCells, 0, len(g.Roles))}

		for _, role := range g.Roles {
			rc := RoleCells{
				Role:    auth.Role(role.ID),
				Editing: g.Active != nil && g.Active.Role == auth.Role(role.ID) && g.Active.Resource == r.ID,
				Cells:   make([]Cell, 0, len(g.Actions)),
			}

			for _, a := range g.Actions {
				rc.Cells = append(rc.Cells, Cell{
					Action:  a.ID,
					Allowed: e.grants.Allowed(rc.Role, r.ID, a.ID),
				})
			}

			row.Roles = append(row.Roles, rc)
		}

		g.Rows = append(g.Rows, row)
	})

	return g
}
