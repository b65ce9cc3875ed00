// Package navigation builds the role-gated side menu and the breadcrumb state of pages.
package navigation

// BreadcrumbItem is one link of the breadcrumb trail.
type BreadcrumbItem struct {
	Title  string
	URL    string
	Active bool
}

// Context is what a page template needs to draw the side menu and the breadcrumbs.
type Context struct {
	PageTitle string
	// CurrentPath is the menu path of the page, used to highlight its entry.
	CurrentPath string
	// ActiveSection is the label of the section holding CurrentPath, set by WithSections.
	ActiveSection string
	Breadcrumbs   []BreadcrumbItem
	Sections      []Section
}

// NewContext creates the context of the page at currentPath.
func NewContext(pageTitle, currentPath string) *Context {
	return &Context{
		PageTitle:   pageTitle,
		CurrentPath: currentPath,
		Breadcrumbs: make([]BreadcrumbItem, 0),
	}
}

// AddBreadcrumb appends a link to the trail.
func (c *Context) AddBreadcrumb(title, url string, active bool) *Context {
	c.Breadcrumbs = append(c.Breadcrumbs, BreadcrumbItem{Title: title, URL: url, Active: active})
	return c
}

// WithSections sets the side menu and marks the section of the current page.
func (c *Context) WithSections(sections []Section) *Context {
	c.Sections = sections
	c.ActiveSection = ""

	for _, s := range sections {
		for _, item := range s.Items {
			if item.Path == c.CurrentPath {
				c.ActiveSection = s.Label
				return c
			}
		}
	}

	return c
}

// IsCurrent reports whether path is the page being rendered.
func (c *Context) IsCurrent(path string) bool {
	return c.CurrentPath == path
}

// IsSectionActive reports whether the section labelled label holds the current page.
func (c *Context) IsSectionActive(label string) bool {
	return c.ActiveSection != "" && c.ActiveSection == label
}
