package session

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/adaptivin/adaptivin-admin/core"
	"github.com/adaptivin/adaptivin-admin/core/admin"
)

var (
	// errors
	ErrNotFound       = errors.New("session not found")
	ErrRoleNotAllowed = errors.New("this account cannot access the admin dashboard")
	ErrIncomplete     = errors.New("the account returned by the server is incomplete")
)

type (
	// Authenticator is the backend's auth surface, as needed here.
	Authenticator interface {
		Login(ctx context.Context, email, password string) (admin.Admin, string, error)
		Logout(ctx context.Context, token string) error
	}

	// Store persists sessions; the service is its only writer so cookie and
	// store state cannot diverge.
	Store interface {
		GetSession(ctx context.Context, id string) (Session, error)
		PutSession(ctx context.Context, sess Session, ttl time.Duration) error
		DeleteSession(ctx context.Context, id string) error
	}

	Service struct {
		auth   Authenticator
		store  Store
		conf   *core.Config
		logger core.Logger
	}
)

var NowFunc = time.Now // mockable

func NewService(auth Authenticator, store Store, conf *core.Config, logger core.Logger) *Service {
	return &Service{auth: auth, store: store, conf: conf, logger: logger}
}

// Login authenticates against the backend and opens a session. The returned
// account must be complete (email, role) and carry a dashboard role; on any
// failure no session state is written and the error propagates to the caller.
func (svc *Service) Login(ctx context.Context, email, password string) (Session, error) {
	email = core.CleanString(email, true /* lower */)

	acct, token, err := svc.auth.Login(ctx, email, password)
	if err != nil {
		return Session{}, errors.Wrap(err, "authenticating")
	}
	if acct.Email == "" || acct.Role == "" || token == "" {
		return Session{}, ErrIncomplete
	}
	if !admin.RoleAllowed(acct.Role) {
		return Session{}, ErrRoleNotAllowed
	}

	sess := Session{
		ID:        uuid.NewString(),
		Admin:     acct,
		Token:     token,
		CreatedAt: NowFunc().UTC(),
	}
	if err := svc.store.PutSession(ctx, sess, svc.conf.Session.CookieMaxAge); err != nil {
		return Session{}, errors.Wrap(err, "persisting session")
	}
	return sess, nil
}

// Logout invalidates the backend token best-effort, then unconditionally
// drops the local session. A backend hiccup never leaves the client stuck
// "logged in" locally.
func (svc *Service) Logout(ctx context.Context, sess Session) {
	if err := svc.auth.Logout(ctx, sess.Token); err != nil {
		svc.logger.Warn("backend logout failed; clearing local session anyway", err)
	}
	if err := svc.store.DeleteSession(ctx, sess.ID); err != nil && errors.Cause(err) != ErrNotFound {
		svc.logger.Error("deleting session", err)
	}
}

// Refresh rewrites a session in place, extending its TTL. Used when the
// admin's own profile changes mid-session.
func (svc *Service) Refresh(ctx context.Context, sess Session) error {
	return errors.Wrap(svc.store.PutSession(ctx, sess, svc.conf.Session.CookieMaxAge), "refreshing session")
}

// Get rehydrates a session by id. An expired bearer token is treated as an
// absent session and purged.
func (svc *Service) Get(ctx context.Context, id string) (Session, error) {
	sess, err := svc.store.GetSession(ctx, id)
	if err != nil {
		return Session{}, err
	}
	if sess.Expired(NowFunc()) {
		if err := svc.store.DeleteSession(ctx, id); err != nil && errors.Cause(err) != ErrNotFound {
			svc.logger.Error("purging expired session", err)
		}
		return Session{}, ErrNotFound
	}
	return sess, nil
}
