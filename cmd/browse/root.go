package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/zatekoja/doctordirectory/internal/application/services"
	"github.com/zatekoja/doctordirectory/internal/infrastructure/clients/doctorapi"
	"github.com/zatekoja/doctordirectory/internal/infrastructure/observability"
	"github.com/zatekoja/doctordirectory/internal/ui"
	"github.com/zatekoja/doctordirectory/pkg/config"
)

var (
	sourceURL    string
	initialQuery string
	logFile      string
	fetchTimeout time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse the doctor directory in the terminal",
	Long: `Fetches the doctor listing once and lets you search, filter and sort it.

The current filters are shown as a query string and kept in a session
history: alt+left and alt+right move back and forward.

Example:
  browse --query "specialties=Dentist&sortBy=fees"`,
	Args: cobra.NoArgs,
	RunE: runBrowse,
}

func init() {
	defaults := config.Defaults()
	rootCmd.Flags().StringVar(&sourceURL, "url", "", "doctor listing URL (default from config)")
	rootCmd.Flags().StringVarP(&initialQuery, "query", "q", "", "initial query string, e.g. search=amit&sortBy=fees")
	rootCmd.Flags().StringVar(&logFile, "log-file", "", "write logs to this file instead of discarding them")
	rootCmd.Flags().DurationVar(&fetchTimeout, "timeout", defaults.DataSource.FetchTimeout, "listing fetch timeout")
}

func runBrowse(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	if sourceURL == "" {
		sourceURL = cfg.DataSource.URL
	}
	if !cmd.Flags().Changed("timeout") {
		fetchTimeout = cfg.DataSource.FetchTimeout
	}

	// The screen belongs to the UI, so logs go to a file or nowhere
	var out io.Writer = io.Discard
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		out = f
	}
	observability.InitLoggerWithOutput(out, "doctor-browse", cfg.Env)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	directory := services.NewDirectoryService(doctorapi.NewClient(sourceURL, fetchTimeout))
	model := ui.NewModel(ctx, directory, initialQuery)
	defer model.Close()

	observability.GetLogger().Info().Str("url", sourceURL).Str("query", initialQuery).Msg("starting browser")

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = p.Run()
	return err
}
