package echoapi

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

	"github.com/trezcool/schoolconnect/core"
	"github.com/trezcool/schoolconnect/core/assignment"
	"github.com/trezcool/schoolconnect/core/attendance"
	"github.com/trezcool/schoolconnect/core/event"
	"github.com/trezcool/schoolconnect/core/grade"
	"github.com/trezcool/schoolconnect/core/message"
	"github.com/trezcool/schoolconnect/core/news"
	"github.com/trezcool/schoolconnect/core/notification"
	"github.com/trezcool/schoolconnect/core/resource"
	"github.com/trezcool/schoolconnect/core/student"
	"github.com/trezcool/schoolconnect/core/user"
	"github.com/trezcool/schoolconnect/services/realtime"
	sessionsvc "github.com/trezcool/schoolconnect/services/session"
)

type (
	Options struct {
		Conf       *core.Config
		Logger     core.Logger
		Validate   *validator.Validate
		Translator ut.Translator
		Sessions   sessionsvc.Store
		Hub        *realtime.Hub
		Metrics    *Metrics

		UserSvc         *user.Service
		StudentSvc      *student.Service
		AttendanceSvc   *attendance.Service
		GradeSvc        *grade.Service
		AssignmentSvc   *assignment.Service
		MessageSvc      *message.Service
		EventSvc        *event.Service
		NewsSvc         *news.Service
		ResourceSvc     *resource.Service
		NotificationSvc *notification.Service
	}

	Server struct {
		opts     *Options
		app      *echo.Echo
		errors   chan error
		shutdown chan os.Signal
	}
)

func NewServer(opts *Options) *Server {
	if opts.Metrics == nil {
		opts.Metrics = NewMetrics()
	}
	if opts.Sessions == nil {
		opts.Sessions = sessionsvc.NewMemoryStore()
	}
	if opts.Hub == nil {
		opts.Hub = realtime.NewHub(opts.Logger, realtime.WithMetrics(opts.Metrics))
	}

	s := &Server{
		opts:     opts,
		app:      echo.New(),
		errors:   make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	s.setup()
	return s
}

func (s *Server) setup() {
	conf := s.opts.Conf

	s.app.HideBanner = true
	s.app.Debug = conf.Debug
	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger, s.opts.Translator, s.signalShutdown)

	s.app.Pre(middleware.RemoveTrailingSlash())
	s.app.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     conf.Server.AllowedOrigins,
		AllowCredentials: true,
	}))
	if !conf.Server.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in TEST mode
	if !conf.TestMode {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	s.app.Use(s.opts.Metrics.middleware())
	s.app.Use(sessionCookieMiddleware(conf.Server.CookieName))

	s.app.GET("/", home)
	s.app.GET("/health", health)
	s.app.GET("/metrics", echo.WrapHandler(s.opts.Metrics.handler()))
	s.app.GET("/ws", s.serveWS)

	g := s.app.Group("/api")
	authed := []echo.MiddlewareFunc{
		middleware.JWTWithConfig(newJWTConfig(conf)),
		contextUserMiddleware(s.opts.Sessions, s.opts.UserSvc),
	}

	registerUserAPI(g, authed, s.opts)
	registerStudentAPI(g, authed, s.opts)
	registerAttendanceAPI(g, authed, s.opts)
	registerGradeAPI(g, authed, s.opts)
	registerAssignmentAPI(g, authed, s.opts)
	registerMessageAPI(g, authed, s.opts)
	registerEventAPI(g, authed, s.opts)
	registerNewsAPI(g, authed, s.opts)
	registerResourceAPI(g, authed, s.opts)
	registerNotificationAPI(g, authed, s.opts)
}

// Start listens on the configured address. Serving errors are reported on Errors().
func (s *Server) Start() {
	if err := s.app.Start(s.opts.Conf.Server.Address); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

func (s *Server) Errors() <-chan error {
	return s.errors
}

func (s *Server) ShutdownSignal() <-chan os.Signal {
	return s.shutdown
}

func (s *Server) signalShutdown() {
	select {
	case s.shutdown <- syscall.SIGTERM:
	default:
	}
}

// Shutdown stops accepting connections, closes the realtime clients and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	signal.Stop(s.shutdown)
	s.opts.Hub.Close()
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	return s.app.Close()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to School Connect API!")
}

func health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

func (s *Server) serveWS(ctx echo.Context) error {
	if err := s.opts.Hub.ServeWS(ctx.Response(), ctx.Request()); err != nil {
		// the upgrader has already replied to the client
		s.opts.Logger.Warn(err.Error())
	}
	return nil
}
