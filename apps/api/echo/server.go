// Package echoapi is the HTTP API of the portal.
package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/rs/cors"

	"github.com/scsit/ges/core"
	"github.com/scsit/ges/core/program"
	"github.com/scsit/ges/core/student"
	"github.com/scsit/ges/core/user"
)

type (
	ServerDeps struct {
		Conf       *core.Config
		Logger     core.Logger
		UserSvc    user.ServiceInterface
		ProgramSvc program.ServiceInterface
		StudentSvc student.ServiceInterface
		Validate   *validator.Validate
		Translator ut.Translator
	}

	Server interface {
		http.Handler
		Start()
		Errors() <-chan error
		ShutdownSignal() <-chan os.Signal
		Shutdown(ctx context.Context) error
		Close() error
	}

	server struct {
		deps     ServerDeps
		app      *echo.Echo
		httpSrv  *http.Server
		errors   chan error
		shutdown chan os.Signal
	}
)

var _ Server = (*server)(nil)

func NewServer(deps ServerDeps) Server {
	s := &server{
		deps:     deps,
		app:      echo.New(),
		errors:   make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)

	s.setup()
	s.httpSrv = &http.Server{
		Addr:    deps.Conf.Server.Host,
		Handler: s.corsHandler(),
	}
	return s
}

func (s *server) setup() {
	conf := s.deps.Conf

	s.app.HideBanner = true
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !conf.TestMode {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.deps.Translator, s.signalShutdown)
	s.app.Debug = conf.Debug

	s.app.GET("/", home)
	if conf.Media.Backend == "disk" && strings.HasPrefix(conf.Media.BaseURL, "/") {
		s.app.Static(strings.TrimSuffix(conf.Media.BaseURL, "/"), conf.Media.Dir)
	}

	auth := newAuthenticator(conf)
	authed := auth.authenticated(s.deps.UserSvc)

	api := s.app.Group("/api")
	registerUserAPI(api, authed, &userApi{
		svc:           s.deps.UserSvc,
		auth:          auth,
		validate:      s.deps.Validate,
		maxUploadSize: conf.Media.MaxUploadSize,
	})
	registerProgramAPI(
		api.Group("/programs", errorKey("detail"), authed, staffOnly),
		&programApi{svc: s.deps.ProgramSvc, validate: s.deps.Validate},
	)
	registerRosterAPI(
		api.Group("/students", errorKey("detail"), authed, staffOnly),
		&rosterApi{svc: s.deps.StudentSvc, validate: s.deps.Validate},
	)
}

// corsHandler lets the configured browser origins call the API with bearer tokens.
func (s *server) corsHandler() http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   s.deps.Conf.Server.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowedHeaders:   []string{echo.HeaderAuthorization, echo.HeaderContentType},
		AllowCredentials: true,
	}).Handler(s.app)
}

func (s *server) Start() {
	s.deps.Logger.Info("API listening on " + s.httpSrv.Addr)
	if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

func (s *server) Errors() <-chan error {
	return s.errors
}

func (s *server) ShutdownSignal() <-chan os.Signal {
	return s.shutdown
}

func (s *server) signalShutdown() {
	select {
	case s.shutdown <- syscall.SIGTERM:
	default:
	}
}

func (s *server) Shutdown(ctx context.Context) error {
	signal.Stop(s.shutdown)
	return s.httpSrv.Shutdown(ctx)
}

func (s *server) Close() error {
	return s.httpSrv.Close()
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpSrv.Handler.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to the GES API!")
}
