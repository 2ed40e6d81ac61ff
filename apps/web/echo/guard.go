package echoweb

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/adaptivin/adaptivin-admin/core"
	"github.com/adaptivin/adaptivin-admin/core/session"
)

// Cookies shared with the browser. token and role are what the route guard
// reads; sid resolves the server-side session.
const (
	tokenCookie   = "token"
	roleCookie    = "role"
	sessionCookie = "sid"
	splashCookie  = "hasSeenSplash"

	loginPath     = "/masuk"
	dashboardPath = "/dashboard"
)

type ctxKey int

const sessionKey ctxKey = 1

// withSession attaches the resolved session to the request context so the
// backend client's token source and the handlers can reach it.
func withSession(ctx echo.Context, sess session.Session) {
	req := ctx.Request()
	ctx.SetRequest(req.WithContext(context.WithValue(req.Context(), sessionKey, sess)))
}

// SessionFrom returns the request's session, if one was resolved.
func SessionFrom(ctx context.Context) (session.Session, bool) {
	sess, ok := ctx.Value(sessionKey).(session.Session)
	return sess, ok
}

// ContextTokenSource signs backend requests with the current request's
// session token. It is the app's only token source.
func ContextTokenSource() func(ctx context.Context) (string, error) {
	return func(ctx context.Context) (string, error) {
		sess, ok := SessionFrom(ctx)
		if !ok {
			return "", nil
		}
		return sess.Token, nil
	}
}

// guardMiddleware applies the route guard to every request: unauthenticated
// access to protected prefixes bounces to the login page, authenticated access
// to the auth pages bounces to the dashboard, and non-superadmins are kept off
// the superadmin-only prefixes. Paths outside the guarded surface pass through
// untouched.
func guardMiddleware(sessions *session.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			path := ctx.Request().URL.Path

			token := cookieValue(ctx, tokenCookie)
			role := cookieValue(ctx, roleCookie)

			// rehydrate; an expired or purged session means the cookies are stale
			if sid := cookieValue(ctx, sessionCookie); sid != "" {
				sess, err := sessions.Get(ctx.Request().Context(), sid)
				if err == nil {
					withSession(ctx, sess)
				} else {
					token, role = "", ""
				}
			}

			if !session.Guarded(path) {
				return next(ctx)
			}
			switch session.Decide(token, role, path) {
			case session.RedirectLogin:
				return ctx.Redirect(http.StatusFound, loginPath)
			case session.RedirectDashboard:
				return ctx.Redirect(http.StatusFound, dashboardPath)
			}
			return next(ctx)
		}
	}
}

func cookieValue(ctx echo.Context, name string) string {
	cookie, err := ctx.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// setSessionCookies mirrors a fresh session into the guard-readable cookies.
// The session service is the only writer of the underlying store, and this is
// the only writer of the cookies, so the two cannot diverge.
func setSessionCookies(ctx echo.Context, conf *core.Config, sess session.Session) {
	maxAge := int(conf.Session.CookieMaxAge / time.Second)
	setCookie(ctx, conf, tokenCookie, sess.Token, maxAge, true)
	setCookie(ctx, conf, roleCookie, sess.Role(), maxAge, false)
	setCookie(ctx, conf, sessionCookie, sess.ID, maxAge, true)
}

func clearSessionCookies(ctx echo.Context, conf *core.Config) {
	setCookie(ctx, conf, tokenCookie, "", -1, true)
	setCookie(ctx, conf, roleCookie, "", -1, false)
	setCookie(ctx, conf, sessionCookie, "", -1, true)
}

func setSplashCookie(ctx echo.Context, conf *core.Config) {
	setCookie(ctx, conf, splashCookie, "true", int(conf.Session.SplashCookieMaxAge/time.Second), false)
}

func setCookie(ctx echo.Context, conf *core.Config, name, value string, maxAge int, httpOnly bool) {
	ctx.SetCookie(&http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   conf.Session.CookieDomain,
		MaxAge:   maxAge,
		HttpOnly: httpOnly,
		SameSite: http.SameSiteLaxMode,
		Secure:   !conf.Debug,
	})
}

// requireSession is for endpoints that need the resolved session beyond what
// the guard checks (profile, logout).
func requireSession(ctx echo.Context) (session.Session, error) {
	sess, ok := SessionFrom(ctx.Request().Context())
	if !ok {
		return session.Session{}, errNotAuthenticated
	}
	return sess, nil
}
