package session

import (
	"testing"

	"github.com/adaptivin/adaptivin-admin/core/admin"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		name  string
		token string
		role  string
		path  string
		want  Decision
	}{
		{name: "unknown path, no cookies", path: "/", want: Allow},
		{name: "unknown path, with cookies", token: "tok", role: admin.RoleAdmin, path: "/about", want: Allow},
		{name: "unknown nested path never redirects", path: "/blog/post-1", want: Allow},
		{name: "static asset path never redirects", token: "tok", role: "siswa", path: "/static/app.js", want: Allow},

		{name: "no token, dashboard", path: "/dashboard", want: RedirectLogin},
		{name: "no token, nested protected path", path: "/kelola-pengguna/guru", want: RedirectLogin},
		{name: "no token, settings", path: "/pengaturan", want: RedirectLogin},
		{name: "no token, login page", path: "/masuk", want: Allow},

		{name: "token, login page", token: "tok", role: admin.RoleAdmin, path: "/masuk", want: RedirectDashboard},
		{name: "token, register page", token: "tok", role: admin.RoleSuperadmin, path: "/daftar", want: RedirectDashboard},

		{name: "admin on superadmin page", token: "tok", role: admin.RoleAdmin, path: "/kelola-admin", want: RedirectDashboard},
		{name: "admin on superadmin sub-page", token: "tok", role: admin.RoleAdmin, path: "/kelola-sekolah/12", want: RedirectDashboard},
		{name: "stale role cookie on superadmin page", token: "tok", role: "", path: "/kelola-admin", want: RedirectDashboard},
		{name: "superadmin on superadmin page", token: "tok", role: admin.RoleSuperadmin, path: "/kelola-admin", want: Allow},

		{name: "admin on shared page", token: "tok", role: admin.RoleAdmin, path: "/kelola-kelas", want: Allow},
		{name: "superadmin on shared page", token: "tok", role: admin.RoleSuperadmin, path: "/dashboard", want: Allow},

		// prefix matching must not bleed into sibling paths
		{name: "prefix lookalike", token: "", role: "", path: "/dashboard-public", want: Allow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Decide(tt.token, tt.role, tt.path); got != tt.want {
				t.Errorf("Decide(%q, %q, %q) = %v; want %v", tt.token, tt.role, tt.path, got, tt.want)
			}
		})
	}
}

// Any path outside the protected prefix set never redirects, whatever the cookies.
func TestDecide_unguardedIdempotence(t *testing.T) {
	paths := []string{"/", "/favicon.ico", "/landing", "/masuk-lagi", "/kelola", "/pengaturan2"}
	cookies := []struct{ token, role string }{
		{"", ""},
		{"tok", ""},
		{"tok", admin.RoleAdmin},
		{"tok", admin.RoleSuperadmin},
		{"tok", "siswa"},
	}
	for _, path := range paths {
		if path == "/masuk-lagi" {
			// not an auth page: "/masuk-lagi" does not match "/masuk" as a prefix segment
			if got := Decide("tok", admin.RoleAdmin, path); got != Allow {
				t.Errorf("Decide(token, admin, %q) = %v; want Allow", path, got)
			}
		}
		for _, c := range cookies {
			if c.token != "" && matchesAny(path, authPaths) {
				continue
			}
			if got := Decide(c.token, c.role, path); got != Allow {
				t.Errorf("Decide(%q, %q, %q) = %v; want Allow", c.token, c.role, path, got)
			}
		}
	}
}
