package session

import (
	"github.com/biomed-cmms/cmms-access/internal/auth"
	"github.com/biomed-cmms/cmms-access/internal/db/models"
)

// View is the auth state enriched with the display attributes of its role.
type View struct {
	IsLoggedIn bool         `json:"isLoggedIn"`
	UserRole   auth.Role    `json:"userRole"`
	Label      string       `json:"label"`
	Initials   string       `json:"initials"`
	Scope      models.Scope `json:"scope"`
}

// View returns the display form of st.
func (st State) View() View {
	info := st.UserRole.Info()

	return View{
		IsLoggedIn: st.IsLoggedIn,
		UserRole:   st.UserRole,
		Label:      info.Label,
		Initials:   info.Initials,
		Scope:      info.Scope,
	}
}
