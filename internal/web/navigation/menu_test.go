package navigation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/biomed-cmms/cmms-access/internal/auth"
)

func paths(items []MenuItem) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.Path)
	}

	return out
}

func TestFilter_AllowListSemantics(t *testing.T) {
	items := []MenuItem{
		{Path: "/open", Label: "Open", Section: "A"},
		{Path: "/tenant", Label: "Tenant", Section: "A", Roles: []auth.Role{auth.RoleTenantAdmin}},
		{Path: "/nobody", Label: "Nobody", Section: "A", Roles: []auth.Role{}},
	}

	for _, role := range auth.Roles() {
		t.Run(string(role), func(t *testing.T) {
			visible := paths(Filter(items, role))

			assert.Contains(t, visible, "/open", "unrestricted entry must be visible to every role")
			assert.NotContains(t, visible, "/nobody", "empty allow-list must hide the entry from every role")

			if role == auth.RoleTenantAdmin {
				assert.Contains(t, visible, "/tenant")
			} else {
				assert.NotContains(t, visible, "/tenant")
			}
		})
	}
}

// An empty allow-list is deny-all while a missing one is allow-all.
// Changing this must be a deliberate decision.
func TestFilter_EmptyAllowListIsNotAbsent(t *testing.T) {
	absent := MenuItem{Path: "/x"}
	empty := MenuItem{Path: "/x", Roles: []auth.Role{}}

	for _, role := range auth.Roles() {
		assert.True(t, absent.VisibleTo(role))
		assert.False(t, empty.VisibleTo(role))
	}
}

func TestFilter_EmptyAllowListFromYAML(t *testing.T) {
	doc := `
- path: /open
  label: Open
  section: A
- path: /nobody
  label: Nobody
  section: A
  roles: []
- path: /admins
  label: Admins
  section: B
  roles: [platform-admin, tenant-admin]
`

	var items []MenuItem
	require.NoError(t, yaml.Unmarshal([]byte(doc), &items))
	require.Len(t, items, 3)

	assert.Nil(t, items[0].Roles)
	assert.NotNil(t, items[1].Roles)
	assert.Empty(t, items[1].Roles)

	assert.Equal(t, []string{"/open", "/admins"}, paths(Filter(items, auth.RolePlatformAdmin)))
	assert.Equal(t, []string{"/open"}, paths(Filter(items, auth.RoleUser)))
}

func TestMenuItem_AllowListSurvivesEncoding(t *testing.T) {
	items := []MenuItem{
		{Path: "/open", Label: "Open", Section: "A"},
		{Path: "/nobody", Label: "Nobody", Section: "A", Roles: AllowList{}},
		{Path: "/admins", Label: "Admins", Section: "B", Roles: AllowList{auth.RolePlatformAdmin}},
	}

	codecs := []struct {
		name      string
		marshal   func(any) ([]byte, error)
		unmarshal func([]byte, any) error
	}{
		{"yaml", yaml.Marshal, yaml.Unmarshal},
		{"json", json.Marshal, json.Unmarshal},
	}

	for _, codec := range codecs {
		t.Run(codec.name, func(t *testing.T) {
			raw, err := codec.marshal(items)
			require.NoError(t, err)

			var decoded []MenuItem
			require.NoError(t, codec.unmarshal(raw, &decoded), string(raw))
			require.Len(t, decoded, 3)

			assert.Nil(t, decoded[0].Roles, string(raw))
			assert.NotNil(t, decoded[1].Roles, string(raw))
			assert.Empty(t, decoded[1].Roles)
			assert.Equal(t, items[2].Roles, decoded[2].Roles)

			assert.Equal(t, paths(Filter(items, auth.RoleUser)), paths(Filter(decoded, auth.RoleUser)))
		})
	}
}

func TestFilter_PreservesOrder(t *testing.T) {
	items := DefaultMenu()

	filtered := Filter(items, auth.RolePlatformAdmin)
	assert.Equal(t, paths(items), paths(filtered))
}

func TestBuild_Idempotent(t *testing.T) {
	items := DefaultMenu()

	for _, role := range auth.Roles() {
		first := Build(items, role)
		second := Build(items, role)
		assert.Equal(t, first, second)
	}
}

func TestGroup_SectionOrderOfFirstAppearance(t *testing.T) {
	items := []MenuItem{
		{Path: "/b1", Section: "B"},
		{Path: "/a1", Section: "A"},
		{Path: "/b2", Section: "B"},
		{Path: "/c1", Section: "C"},
		{Path: "/a2", Section: "A"},
	}

	sections := Group(items)
	require.Len(t, sections, 3)

	assert.Equal(t, "B", sections[0].Label)
	assert.Equal(t, []string{"/b1", "/b2"}, paths(sections[0].Items))
	assert.Equal(t, "A", sections[1].Label)
	assert.Equal(t, []string{"/a1", "/a2"}, paths(sections[1].Items))
	assert.Equal(t, "C", sections[2].Label)
}

func TestBuild_SectionsFollowFilteredEntries(t *testing.T) {
	items := []MenuItem{
		{Path: "/admin", Section: "Admin", Roles: []auth.Role{auth.RolePlatformAdmin}},
		{Path: "/tickets", Section: "Support"},
		{Path: "/admin2", Section: "Admin"},
	}

	sections := Build(items, auth.RoleEndUser)
	require.Len(t, sections, 2)
	assert.Equal(t, "Support", sections[0].Label)
	assert.Equal(t, "Admin", sections[1].Label)
}

func TestDefaultMenu_EndUser(t *testing.T) {
	sections := Build(DefaultMenu(), auth.RoleEndUser)

	require.Len(t, sections, 2)
	assert.Equal(t, SectionOverview, sections[0].Label)
	assert.Equal(t, SectionSupport, sections[1].Label)
	assert.Equal(t, []string{"/tickets"}, paths(sections[1].Items))
}

func TestLinks(t *testing.T) {
	links := Links(Filter(DefaultMenu(), auth.RoleEndUser))

	assert.Equal(t, []Link{
		{Path: "/dashboard", Label: "Dashboard"},
		{Path: "/tickets", Label: "Tickets"},
	}, links)
	assert.NotNil(t, Links(nil))
}
