// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server serves the web interface: an upload page with document and
// manual entry tabs, a processing page and the report page. Each browser gets
// its own controller through a session cookie.
package server

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/pdiddy/case-analyzer/internal/controller"
	"github.com/pdiddy/case-analyzer/internal/docread"
	"github.com/pdiddy/case-analyzer/internal/telemetry"
	"github.com/pdiddy/case-analyzer/pkg/types"
)

const (
	sessionCookie   = "case_analyzer_session"
	sweepInterval   = time.Minute
	shutdownTimeout = 30 * time.Second
)

// Options configures a Server.
type Options struct {
	Config   types.ServerConfig
	Analyzer controller.Analyzer
	Logger   *zap.Logger
	Metrics  *telemetry.Metrics
}

// Server is the HTTP front end.
type Server struct {
	cfg      types.ServerConfig
	logger   *zap.Logger
	metrics  *telemetry.Metrics
	sessions *Sessions
	limiter  *rate.Limiter
	engine   *gin.Engine

	// inflight tracks analyses running detached from their request.
	inflight sync.WaitGroup
}

// New builds the server and its routes.
func New(opts Options) (*Server, error) {
	if opts.Analyzer == nil {
		return nil, errors.New("server: analyzer is required")
	}
	cfg := opts.Config
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = docread.DefaultMaxBytes
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = time.Hour
	}

	logger := telemetry.OrNop(opts.Logger)
	s := &Server{
		cfg:     cfg,
		logger:  logger,
		metrics: opts.Metrics,
	}
	s.sessions = NewSessions(cfg.SessionTTL, func() *controller.Controller {
		return controller.New(opts.Analyzer, logger)
	}, opts.Metrics, logger)
	if cfg.AnalysesPerMinute > 0 {
		s.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.AnalysesPerMinute)), cfg.AnalysesPerMinute)
	}

	tmpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	static, err := fs.Sub(webFS, "web/static")
	if err != nil {
		return nil, fmt.Errorf("loading static files: %w", err)
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(logger), otelgin.Middleware(telemetry.ServiceName))
	r.MaxMultipartMemory = cfg.MaxUploadBytes
	r.SetHTMLTemplate(tmpl)

	r.GET("/", s.handleIndex)
	r.POST("/upload", s.handleUpload)
	r.POST("/manual", s.handleManual)
	r.POST("/reset", s.handleReset)
	r.GET("/api/state", s.handleState)
	r.GET("/healthz", handleHealth)
	r.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	r.StaticFS("/static", http.FS(static))

	s.engine = r
	return s, nil
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Sessions returns the session registry.
func (s *Server) Sessions() *Sessions {
	return s.sessions
}

// Wait blocks until every running analysis has finished.
func (s *Server) Wait() {
	s.inflight.Wait()
}

// launch runs an analysis detached from the request that started it.
func (s *Server) launch(ctx context.Context, run func(context.Context)) {
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		run(context.WithoutCancel(ctx))
	}()
}

// Run serves on cfg.Addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("listening", zap.String("addr", s.cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving http: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return s.sessions.Run(gctx, sweepInterval)
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			return fmt.Errorf("shutting down http: %w", err)
		}
		done := make(chan struct{})
		go func() {
			s.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-sctx.Done():
			s.logger.Warn("analyses still running at shutdown")
		}
		return nil
	})
	return g.Wait()
}

// requestLogger logs one line per request.
func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", time.Since(start)),
		)
	}
}

func parseTemplates() (*template.Template, error) {
	tmpl, err := template.New("").Funcs(templateFuncs).ParseFS(webFS, "web/templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	return tmpl, nil
}
