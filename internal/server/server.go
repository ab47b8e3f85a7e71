package server

import (
	"context"
	"log/slog"
	"net"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	slogecho "github.com/samber/slog-echo"

	"github.com/stian-overasen/connectlog/internal/service"
)

// Server is the thin HTTP adapter over the core service. Handlers only
// translate query parameters and render the service output.
type Server struct {
	handler       *echo.Echo
	logger        *slog.Logger
	addr          string
	svc           *service.Service
	defaultMonths int
}

// Option configures the server.
type Option func(*Server)

// Addr sets the listen address.
func Addr(host string, port int) Option {
	return func(s *Server) {
		s.addr = net.JoinHostPort(host, strconv.Itoa(port))
	}
}

// Logger sets the request logger.
func Logger(l *slog.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// DefaultMonths sets the range used when the months parameter is absent.
func DefaultMonths(months int) Option {
	return func(s *Server) {
		s.defaultMonths = months
	}
}

// New creates a server over the service.
func New(svc *service.Service, opt ...Option) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.ReadHeaderTimeout = 5 * time.Second

	s := &Server{
		handler:       e,
		logger:        slog.Default(),
		svc:           svc,
		defaultMonths: service.DefaultMonths,
	}
	for _, opt := range opt {
		opt(s)
	}

	e.Use(slogecho.New(s.logger))
	s.mount()
	return s
}

func (s *Server) mount() {
	s.handler.GET("/", s.Index)
	s.handler.GET("/api/summary", s.GetSummary)
	s.handler.GET("/api/activities", s.GetActivities)
	s.handler.GET("/api/readiness", s.GetReadiness)
}

// Start listens and serves until Shutdown.
func (s *Server) Start() error {
	return s.handler.Start(s.addr)
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.handler.Shutdown(ctx)
}

// Handler exposes the underlying echo instance for tests.
func (s *Server) Handler() *echo.Echo {
	return s.handler
}
