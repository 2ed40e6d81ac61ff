package session

import (
	"strings"

	"github.com/adaptivin/adaptivin-admin/core/admin"
)

// Guard decisions, in evaluation order.
type Decision int

const (
	Allow Decision = iota
	RedirectLogin
	RedirectDashboard
)

func (d Decision) String() string {
	switch d {
	case RedirectLogin:
		return "redirect-to-login"
	case RedirectDashboard:
		return "redirect-to-dashboard"
	}
	return "allow"
}

// Route surface known to the guard. Anything else is always allowed.
var (
	protectedPrefixes = []string{
		"/dashboard",
		"/kelola-sekolah",
		"/kelola-admin",
		"/kelola-kelas",
		"/kelola-pengguna",
		"/pengaturan",
	}

	authPaths = []string{
		"/masuk",
		"/daftar",
	}

	superadminPrefixes = []string{
		"/kelola-sekolah",
		"/kelola-admin",
	}
)

// Decide is the route guard: a pure function of the request's `token` and
// `role` cookies and the target path. Rules, in order:
//  1. no token + protected path        -> RedirectLogin
//  2. token + login/register page      -> RedirectDashboard
//  3. token + non-superadmin + superadmin-only page -> RedirectDashboard
//  4. otherwise                        -> Allow
//
// An absent or stale cookie is treated as "not authenticated".
func Decide(token, role, path string) Decision {
	if token == "" {
		if matchesAny(path, protectedPrefixes) {
			return RedirectLogin
		}
		return Allow
	}
	if matchesAny(path, authPaths) {
		return RedirectDashboard
	}
	if role != admin.RoleSuperadmin && matchesAny(path, superadminPrefixes) {
		return RedirectDashboard
	}
	return Allow
}

// Guarded reports whether the guard has anything to say about path at all;
// the web layer uses it to restrict middleware evaluation to known prefixes.
func Guarded(path string) bool {
	return matchesAny(path, protectedPrefixes) || matchesAny(path, authPaths)
}

func matchesAny(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}
