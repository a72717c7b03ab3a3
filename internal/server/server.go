// Package server exposes the hparams backend over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/imishinist/hparams-inspector/internal/annotation"
	"github.com/imishinist/hparams-inspector/internal/errs"
	"github.com/imishinist/hparams-inspector/internal/freshness"
	"github.com/imishinist/hparams-inspector/internal/hparams"
	"github.com/imishinist/hparams-inspector/internal/metrics"
)

// RoutePrefix is where the plugin routes are mounted.
const RoutePrefix = "/data/plugin/hparams"

type Server struct {
	echo        *echo.Echo
	experiments *hparams.Service
	annotations annotation.Store
	freshness   *freshness.Resolver
	metrics     *metrics.Metrics
	logger      *zap.Logger
	config      *Config
}

type Config struct {
	Host string
	Port int
}

func New(experiments *hparams.Service, annotations annotation.Store, resolver *freshness.Resolver, m *metrics.Metrics, logger *zap.Logger, cfg *Config) (*Server, error) {
	if experiments == nil || annotations == nil || resolver == nil {
		return nil, fmt.Errorf("experiment service, annotation store and freshness resolver are required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if m == nil {
		m = metrics.New()
	}
	if cfg == nil {
		cfg = &Config{Host: "localhost", Port: 6006}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler(logger)

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			duration := time.Since(start)

			m.Observe(c.Path(), strconv.Itoa(c.Response().Status), duration.Seconds())
			logger.Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", duration),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)
			return nil
		}
	})

	s := &Server{
		echo:        e,
		experiments: experiments,
		annotations: annotations,
		freshness:   resolver,
		metrics:     m,
		logger:      logger,
		config:      cfg,
	}
	s.registerRoutes()

	return s, nil
}

func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(s.metrics.Registry, promhttp.HandlerOpts{})))

	g := s.echo.Group(RoutePrefix)
	g.GET("/experiment", s.handleExperiment)
	g.POST("/experiment", s.handleExperiment)
	g.POST("/comment_get", s.handleCommentGet)
	g.POST("/comment_update", s.handleCommentUpdate)
	g.POST("/run_info", s.handleRunInfo)
}

// ServeHTTP lets the server be mounted in another mux or driven by httptest.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.logger.Info("starting http server", zap.String("addr", addr))
	return s.echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.echo.Shutdown(ctx)
}

// errorHandler turns backend error kinds into status codes.
func errorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		var he *echo.HTTPError
		switch {
		case errors.As(err, &he):
			code = he.Code
		case errors.Is(err, errs.ErrRequestFormat):
			code = http.StatusBadRequest
		case errors.Is(err, errs.ErrNotFound):
			code = http.StatusNotFound
		}

		msg := err.Error()
		if he != nil {
			msg = fmt.Sprint(he.Message)
		}
		if code >= http.StatusInternalServerError {
			logger.Error("hparams error", zap.Error(err))
		} else {
			logger.Warn("hparams error", zap.Error(err))
		}

		if err := c.JSON(code, ErrorResponse{Error: msg}); err != nil {
			logger.Error("failed to write error response", zap.Error(err))
		}
	}
}
