package catalog

import "github.com/biomed-cmms/cmms-access/internal/db/models"

// Resources returns every resource in catalog order.
func (c *Catalog) Resources() []models.Resource {
	out := make([]models.Resource, 0, len(c.resources))
	for _, r := range c.resources {
		out = append(out, copyResource(r))
	}

	return out
}

// Resource returns the resource with the given id.
func (c *Catalog) Resource(id string) (models.Resource, bool) {
	i, ok := c.resourceIdx[id]
	if !ok {
		return models.Resource{}, false
	}

	return copyResource(c.resources[i]), true
}

// HasResource reports whether the resource is part of the catalog.
func (c *Catalog) HasResource(id string) bool {
	_, ok := c.resourceIdx[id]
	return ok
}

// TopLevelResources returns the resources without a parent, in catalog order.
func (c *Catalog) TopLevelResources() []models.Resource {
	out := make([]models.Resource, 0)

	for _, r := range c.resources {
		if r.ParentID == nil {
			out = append(out, copyResource(r))
		}
	}

	return out
}

// ResourceChildren returns the resources whose parent is id, in catalog order.
func (c *Catalog) ResourceChildren(id string) []models.Resource {
	out := make([]models.Resource, 0)

	for _, r := range c.resources {
		if r.ParentID != nil && *r.ParentID == id {
			out = append(out, copyResource(r))
		}
	}

	return out
}

// Walk visits the resource tree depth first, parents before their children.
// Siblings keep catalog order.
func (c *Catalog) Walk(fn func(r models.Resource, depth int)) {
	var visit func(r models.Resource, depth int)

	visit = func(r models.Resource, depth int) {
		fn(r, depth)

		for _, child := range c.ResourceChildren(r.ID) {
			visit(child, depth+1)
		}
	}

	for _, r := range c.TopLevelResources() {
		visit(r, 0)
	}
}

func copyResource(r models.Resource) models.Resource {
	if r.ParentID != nil {
		p := *r.ParentID
		r.ParentID = &p
	}

	return r
}
