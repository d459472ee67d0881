// Package main implements the taskd daemon and CLI. taskd turns meeting
// transcripts into prioritized, assigned tasks and serves them over a
// REST API.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

var configPath string

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "taskd",
	Short: "Meeting transcript to task assignment engine",
	Long: `taskd extracts actionable tasks from meeting transcripts, classifies
their priority, resolves deadlines, and assigns each task to the best
matching team member.

Run "taskd serve" to start the REST API or "taskd process" for a
one-shot extraction from a transcript file.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default ~/.config/taskd/config.yaml)")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(processCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "taskd %s (commit %s, built %s)\n", version, gitCommit, buildDate)
	},
}
