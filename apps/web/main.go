// The web command serves the Adaptivin admin dashboard: route guard, session
// handling and the management pages' JSON API, all backed by the Adaptivin
// REST backend.
package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	echoweb "github.com/adaptivin/adaptivin-admin/apps/web/echo"
	"github.com/adaptivin/adaptivin-admin/backend"
	"github.com/adaptivin/adaptivin-admin/core"
	"github.com/adaptivin/adaptivin-admin/core/admin"
	"github.com/adaptivin/adaptivin-admin/core/class"
	"github.com/adaptivin/adaptivin-admin/core/school"
	"github.com/adaptivin/adaptivin-admin/core/session"
	emailsvc "github.com/adaptivin/adaptivin-admin/services/email"
	logsvc "github.com/adaptivin/adaptivin-admin/services/logger"
	inmemcache "github.com/adaptivin/adaptivin-admin/storage/cache/inmem"
	rediscache "github.com/adaptivin/adaptivin-admin/storage/cache/redis"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "WEB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	// session + reference-data store: redis when configured, in-memory otherwise
	var (
		sessionStore session.Store
		schoolCache  school.Cache
		classCache   class.Cache
	)
	if conf.Redis.Addr != "" {
		cache := rediscache.New(conf)
		if err := cache.Ping(context.Background()); err != nil {
			logger.Fatal(fmt.Sprintf("connecting to redis: %v", err), err)
		}
		defer func() {
			if err := cache.Close(); err != nil {
				logger.Error("closing redis", err)
			}
		}()
		sessionStore, schoolCache, classCache = cache, cache, cache
	} else {
		cache := inmemcache.New()
		sessionStore, schoolCache, classCache = cache, cache, cache
	}

	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	client, err := backend.NewClient(conf, backend.TokenFunc(echoweb.ContextTokenSource()), logger)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up backend client: %v", err), err)
	}

	sessionSvc := session.NewService(client, sessionStore, conf, logger)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)
	admin.InitValidators(validate, translator)
	class.InitValidators(validate, translator)

	if err = core.ParseEmailTemplates(conf); err != nil {
		logger.Fatal(fmt.Sprintf("parsing email templates: %v", err), err)
	}

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start Web Service

	server := echoweb.NewServer(echoweb.ServerDeps{
		Conf:       conf,
		Logger:     logger,
		Sessions:   sessionSvc,
		Backend:    client,
		Schools:    schoolCache,
		Classes:    classCache,
		Email:      mailSvc,
		Validate:   validate,
		Translator: translator,
	})

	go server.Start()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}
