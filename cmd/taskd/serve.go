package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/taskd/internal/advisory"
	"github.com/fyrsmithlabs/taskd/internal/assignment"
	"github.com/fyrsmithlabs/taskd/internal/config"
	taskdhttp "github.com/fyrsmithlabs/taskd/internal/http"
	"github.com/fyrsmithlabs/taskd/internal/logging"
	"github.com/fyrsmithlabs/taskd/internal/pipeline"
	"github.com/fyrsmithlabs/taskd/internal/roster"
	"github.com/fyrsmithlabs/taskd/internal/segment"
	"github.com/fyrsmithlabs/taskd/internal/store"
	"github.com/fyrsmithlabs/taskd/internal/transcribe"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the taskd REST API server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, err := logging.New(&logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Fields: cfg.Logging.Fields,
	})
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	deps, err := buildDeps(cfg, logger)
	if err != nil {
		return err
	}

	server, err := taskdhttp.NewServer(deps, logger, &taskdhttp.Config{
		Host:         "0.0.0.0",
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	})
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server stopped: %w", err)
	case sig := <-sigCh:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(ctx)
}

// buildDeps wires the storage, engine, and service clients from config.
func buildDeps(cfg *config.Config, logger *zap.Logger) (taskdhttp.Deps, error) {
	backend, err := store.NewLocalStorage(cfg.Store.Path)
	if err != nil {
		return taskdhttp.Deps{}, fmt.Errorf("failed to open data directory: %w", err)
	}
	members := store.NewMemberRepository(backend)
	meetings := store.NewMeetingRepository(backend)
	tasks := store.NewTaskRepository(backend)

	advisor, err := advisory.NewAdvisor(advisory.Config{
		Provider:       cfg.Advisory.Provider,
		Model:          cfg.Advisory.Model,
		BaseURL:        cfg.Advisory.BaseURL,
		APIKey:         cfg.Advisory.APIKey,
		MaxTokens:      cfg.Advisory.MaxTokens,
		TimeoutSeconds: cfg.Advisory.TimeoutSeconds,
		RateLimit:      cfg.Advisory.RateLimit,
	})
	if err != nil {
		return taskdhttp.Deps{}, fmt.Errorf("failed to build advisor: %w", err)
	}

	segmenter, err := segment.New(cfg.Segment.Mode, cfg.Segment.NLPBaseURL)
	if err != nil {
		return taskdhttp.Deps{}, err
	}

	return taskdhttp.Deps{
		Pipeline:  pipeline.New(enginePipelineConfig(cfg), advisor, logger),
		Segmenter: segmenter,
		Transcriber: transcribe.New(transcribe.Config{
			BaseURL:        cfg.Transcribe.BaseURL,
			TimeoutSeconds: cfg.Transcribe.TimeoutSeconds,
			MaxRetries:     cfg.Transcribe.MaxRetries,
			RateLimit:      cfg.Transcribe.RateLimit,
		}),
		Members:  members,
		Meetings: meetings,
		Tasks:    tasks,
		Runs:     store.NewRunWriter(meetings, tasks, members, logger),
	}, nil
}

func enginePipelineConfig(cfg *config.Config) pipeline.Config {
	pc := pipeline.DefaultConfig()
	pc.Assignment.MatchMode = assignment.MatchMode(cfg.Engine.MatchMode)
	pc.Assignment.ScoringMode = assignment.ScoringMode(cfg.Engine.ScoringMode)
	pc.Assignment.WorkloadMode = roster.WorkloadMode(cfg.Engine.WorkloadMode)
	pc.Assignment.Capacity = cfg.Engine.Capacity
	pc.Assignment.UrgencyWindowDays = cfg.Engine.UrgencyWindowDays
	if cfg.Engine.MaxDescriptionLen > 0 {
		pc.Extraction.MaxDescriptionLen = cfg.Engine.MaxDescriptionLen
	}
	if cfg.Engine.ContextWindow > 0 {
		pc.Extraction.ContextWindow = cfg.Engine.ContextWindow
	}
	if cfg.Engine.MinAdvisorySummaryLen > 0 {
		pc.Extraction.MinAdvisorySummaryLen = cfg.Engine.MinAdvisorySummaryLen
	}
	return pc
}
