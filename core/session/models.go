package session

import (
	"time"

	"github.com/dgrijalva/jwt-go"

	"github.com/adaptivin/adaptivin-admin/core/admin"
)

// Session is the logged-in admin's identity plus the backend bearer token,
// mirrored into the guard-readable cookies by the web layer.
type Session struct {
	ID        string      `json:"id"`
	Admin     admin.Admin `json:"admin"`
	Token     string      `json:"token"`
	CreatedAt time.Time   `json:"created_at"` // UTC
}

func (s Session) Role() string { return s.Admin.Role }

// Expired reports whether the session's bearer token carries an `exp` claim in
// the past. The token is the backend's; it is only introspected, never verified.
func (s Session) Expired(now time.Time) bool {
	exp, err := tokenExpiry(s.Token)
	if err != nil || exp.IsZero() {
		return false // opaque or non-expiring token: trust the store's TTL
	}
	return now.After(exp)
}

func tokenExpiry(token string) (time.Time, error) {
	claims := jwt.MapClaims{}
	parser := jwt.Parser{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}, err
	}
	if exp, ok := claims["exp"].(float64); ok {
		return time.Unix(int64(exp), 0), nil
	}
	return time.Time{}, nil
}
