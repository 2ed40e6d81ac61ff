// Package echoweb is the HTTP face of the admin dashboard: the route guard,
// the session endpoints and the management pages' JSON handlers, all backed
// by the Adaptivin REST API.
package echoweb

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/adaptivin/adaptivin-admin/backend"
	"github.com/adaptivin/adaptivin-admin/core"
	"github.com/adaptivin/adaptivin-admin/core/class"
	"github.com/adaptivin/adaptivin-admin/core/school"
	"github.com/adaptivin/adaptivin-admin/core/session"
)

type (
	ServerDeps struct {
		Conf       *core.Config
		Logger     core.Logger
		Sessions   *session.Service
		Backend    *backend.Client
		Schools    school.Cache
		Classes    class.Cache
		Email      core.EmailService
		Validate   *validator.Validate
		Translator ut.Translator

		DisableReqLogs bool
	}

	Server struct {
		deps     ServerDeps
		app      *echo.Echo
		errs     chan error
		shutdown chan os.Signal
	}
)

func NewServer(deps ServerDeps) *Server {
	s := &Server{
		deps:     deps,
		app:      echo.New(),
		errs:     make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	signal.Notify(s.shutdown, syscall.SIGINT, syscall.SIGTERM)
	s.setup()
	return s
}

func (s *Server) setup() {
	conf := s.deps.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.deps.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.deps.Translator, s.signalShutdownNow)
	s.app.Debug = conf.Debug
	s.app.HideBanner = true

	s.app.Use(guardMiddleware(s.deps.Sessions))

	s.app.GET("/", s.splash)

	registerAuthHandlers(s.app, s.deps)
	registerDashboardHandlers(s.app, s.deps)
	registerSchoolHandlers(s.app, s.deps)
	registerClassHandlers(s.app, s.deps)
	registerAdminHandlers(s.app, s.deps)
	registerUserHandlers(s.app, s.deps)
}

// splash is the landing page: mark it seen, then bounce to the login page or
// the dashboard depending on the guard cookies.
func (s *Server) splash(ctx echo.Context) error {
	setSplashCookie(ctx, s.deps.Conf)
	if cookieValue(ctx, tokenCookie) != "" {
		return ctx.Redirect(http.StatusFound, dashboardPath)
	}
	return ctx.Redirect(http.StatusFound, loginPath)
}

func (s *Server) Start() {
	if err := s.app.Start(s.deps.Conf.Server.Addr); err != nil && err != http.ErrServerClosed {
		s.errs <- err
	}
}

func (s *Server) Shutdown(ctx context.Context) error { return s.app.Shutdown(ctx) }
func (s *Server) Close() error                       { return s.app.Close() }

func (s *Server) Errors() <-chan error            { return s.errs }
func (s *Server) ShutdownSignal() <-chan os.Signal { return s.shutdown }

func (s *Server) signalShutdownNow() {
	s.shutdown <- syscall.SIGTERM
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}
