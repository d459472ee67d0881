// Package http exposes the taskd REST API: roster management, meeting
// processing, and task retrieval.
package http

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/taskd/internal/pipeline"
	"github.com/fyrsmithlabs/taskd/internal/segment"
	"github.com/fyrsmithlabs/taskd/internal/store"
	"github.com/fyrsmithlabs/taskd/internal/transcribe"
)

// Config holds HTTP server settings.
type Config struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Server serves the taskd API.
type Server struct {
	echo        *echo.Echo
	logger      *zap.Logger
	config      *Config
	metrics     *Metrics
	pipeline    *pipeline.Pipeline
	segmenter   segment.Segmenter
	transcriber transcribe.Transcriber
	members     *store.MemberRepository
	meetings    *store.MeetingRepository
	tasks       *store.TaskRepository
	runs        *store.RunWriter
	now         func() time.Time

	// runMu serializes roster read, pipeline run, and workload
	// write-back: a run started after another must observe its bumps.
	runMu sync.Mutex
}

// Deps bundles the collaborators the server needs.
type Deps struct {
	Pipeline    *pipeline.Pipeline
	Segmenter   segment.Segmenter
	Transcriber transcribe.Transcriber
	Members     *store.MemberRepository
	Meetings    *store.MeetingRepository
	Tasks       *store.TaskRepository
	Runs        *store.RunWriter
}

// NewServer creates the API server.
func NewServer(deps Deps, logger *zap.Logger, cfg *Config) (*Server, error) {
	if deps.Pipeline == nil || deps.Segmenter == nil || deps.Members == nil ||
		deps.Meetings == nil || deps.Tasks == nil || deps.Runs == nil {
		return nil, fmt.Errorf("all pipeline and storage dependencies are required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required for request tracking and debugging")
	}
	if cfg == nil {
		cfg = &Config{Host: "localhost", Port: 8080}
	}
	if deps.Transcriber == nil {
		deps.Transcriber = &transcribe.NoOpTranscriber{}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	if cfg.ReadTimeout > 0 {
		e.Server.ReadTimeout = cfg.ReadTimeout
	}
	if cfg.WriteTimeout > 0 {
		e.Server.WriteTimeout = cfg.WriteTimeout
	}

	metrics := NewMetrics()

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(metrics.Middleware())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			logger.Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)
			return err
		}
	})

	s := &Server{
		echo:        e,
		logger:      logger,
		config:      cfg,
		metrics:     metrics,
		pipeline:    deps.Pipeline,
		segmenter:   deps.Segmenter,
		transcriber: deps.Transcriber,
		members:     deps.Members,
		meetings:    deps.Meetings,
		tasks:       deps.Tasks,
		runs:        deps.Runs,
		now:         time.Now,
	}
	s.registerRoutes()
	return s, nil
}

func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/metrics", s.metrics.Handler())

	v1 := s.echo.Group("/api/v1")

	v1.POST("/members", s.handleCreateMember)
	v1.GET("/members", s.handleListMembers)
	v1.GET("/members/:id", s.handleGetMember)
	v1.PUT("/members/:id", s.handleUpdateMember)
	v1.DELETE("/members/:id", s.handleDeleteMember)

	v1.POST("/meetings/process", s.handleProcessMeeting)
	v1.POST("/meetings/process-audio", s.handleProcessAudio)
	v1.GET("/meetings", s.handleListMeetings)
	v1.GET("/meetings/:id", s.handleGetMeeting)
	v1.GET("/meetings/:id/tasks", s.handleMeetingTasks)
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// Start begins serving and blocks until shutdown.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.logger.Info("starting http server", zap.String("addr", addr))
	return s.echo.Start(addr)
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.echo.Shutdown(ctx)
}
