package admin

import "github.com/adaptivin/adaptivin-admin/core/table"

// Dashboard roles. Any other backend role (siswa, guru, ...) has no business
// on this dashboard.
const (
	RoleAdmin      = "admin"
	RoleSuperadmin = "superadmin"
)

var AllowedRoles = []string{RoleAdmin, RoleSuperadmin}

func RoleAllowed(role string) bool {
	for _, r := range AllowedRoles {
		if r == role {
			return true
		}
	}
	return false
}

// Gender codes as the backend stores them.
const (
	GenderMale   = "L"
	GenderFemale = "P"
)

// Admin is a dashboard account: school-scoped (`admin`) or global
// (`superadmin`). The backend owns its lifecycle; the client holds a
// transient copy.
type Admin struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Gender    string `json:"gender"`
	Address   string `json:"address"`
	SekolahID int    `json:"sekolah_id"`
	Role      string `json:"role"`
}

func (a Admin) IsSuperadmin() bool { return a.Role == RoleSuperadmin }

// QueryFilter narrows the admin management list. Search does a
// case-insensitive match on name or email; SekolahID of 0 means all schools.
type QueryFilter struct {
	Search    string `query:"search"`
	SekolahID int    `query:"sekolah_id"`
}

// Filter applies an AND of the available QueryFilter fields over an in-memory
// list. An empty result is an empty slice, never nil.
func Filter(admins []Admin, filter QueryFilter) []Admin {
	out := make([]Admin, 0, len(admins))
	for _, adm := range admins {
		if filter.SekolahID != 0 && adm.SekolahID != filter.SekolahID {
			continue
		}
		if !table.MatchesSearch(filter.Search, adm.Name, adm.Email, adm.Address) {
			continue
		}
		out = append(out, adm)
	}
	return out
}
