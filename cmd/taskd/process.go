package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/fyrsmithlabs/taskd/internal/advisory"
	"github.com/fyrsmithlabs/taskd/internal/config"
	"github.com/fyrsmithlabs/taskd/internal/extraction"
	"github.com/fyrsmithlabs/taskd/internal/logging"
	"github.com/fyrsmithlabs/taskd/internal/pipeline"
	"github.com/fyrsmithlabs/taskd/internal/roster"
	"github.com/fyrsmithlabs/taskd/internal/segment"
	"github.com/fyrsmithlabs/taskd/internal/store"
)

var (
	processDate   string
	processRoster string
	processJSON   bool
)

var processCmd = &cobra.Command{
	Use:   "process [transcript-file]",
	Short: "Extract and assign tasks from a transcript file or stdin",
	Long: `Process a meeting transcript without starting the server.

The roster comes from the configured data directory, or from a YAML
file given with --roster:

    - name: Alice
      role: frontend developer
      skills: [ui, frontend]

Examples:
  taskd process standup.txt
  cat standup.txt | taskd process -
  taskd process --roster team.yaml --date 2026-08-27 standup.txt`,
	Args: cobra.MaximumNArgs(1),
	RunE: runProcess,
}

func init() {
	processCmd.Flags().StringVar(&processDate, "date", "", "meeting date as YYYY-MM-DD (default today)")
	processCmd.Flags().StringVar(&processRoster, "roster", "", "YAML roster file (default: stored members)")
	processCmd.Flags().BoolVar(&processJSON, "json", false, "print tasks as JSON instead of the text summary")
}

func runProcess(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	transcript, err := readTranscript(args)
	if err != nil {
		return err
	}
	if strings.TrimSpace(transcript) == "" {
		return fmt.Errorf("transcript is empty")
	}

	refDate := time.Now()
	if processDate != "" {
		refDate, err = time.Parse(extraction.ISODate, processDate)
		if err != nil {
			return fmt.Errorf("date must be YYYY-MM-DD: %w", err)
		}
	}

	team, err := loadRoster(cmd, cfg)
	if err != nil {
		return err
	}
	if len(team) == 0 {
		return fmt.Errorf("no team members found; add members or pass --roster")
	}

	logger, err := logging.New(&logging.Config{Level: "warn", Format: "console"})
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

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
		return fmt.Errorf("failed to build advisor: %w", err)
	}

	segmenter, err := segment.New(cfg.Segment.Mode, cfg.Segment.NLPBaseURL)
	if err != nil {
		return err
	}
	segments, err := segmenter.Segment(cmd.Context(), transcript)
	if err != nil {
		return err
	}

	p := pipeline.New(enginePipelineConfig(cfg), advisor, logger)
	result, err := p.Run(cmd.Context(), segments, refDate, team)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if processJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result.Tasks)
	}

	fmt.Fprintln(out, result.Summary.Text)
	for i, task := range result.Tasks {
		fmt.Fprintf(out, "%d. [%s] %s\n", i+1, task.Priority, task.Description)
		fmt.Fprintf(out, "   assigned to %s (%s)\n", task.AssigneeName, task.Reasoning)
		if task.Deadline != "" {
			fmt.Fprintf(out, "   due %s\n", task.Deadline)
		}
		if len(task.Dependencies) > 0 {
			fmt.Fprintf(out, "   depends on task %d\n", task.Dependencies[0]+1)
		}
	}
	return nil
}

func readTranscript(args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	return string(data), nil
}

func loadRoster(cmd *cobra.Command, cfg *config.Config) ([]*roster.Person, error) {
	if processRoster != "" {
		data, err := os.ReadFile(processRoster)
		if err != nil {
			return nil, fmt.Errorf("failed to read roster: %w", err)
		}
		var team []*roster.Person
		if err := yaml.Unmarshal(data, &team); err != nil {
			return nil, fmt.Errorf("failed to parse roster: %w", err)
		}
		return team, nil
	}

	backend, err := store.NewLocalStorage(cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open data directory: %w", err)
	}
	return store.NewMemberRepository(backend).List(cmd.Context())
}
