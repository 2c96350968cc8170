package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"reviewbot/internal/config"
	"reviewbot/internal/daemon"
	"reviewbot/internal/homework"
	"reviewbot/internal/logging"
	"reviewbot/internal/poller"
	"reviewbot/internal/preflight"
	"reviewbot/internal/reviewapi"
)

var errCheckFailed = errors.New("check failed")

// checkReport is what `reviewbot check` found. It never delivers messages.
type checkReport struct {
	ConfigPath   string
	ConfigExists bool
	Transport    string
	Language     string
	Missing      []string

	Preflight []preflight.Result

	AgentRunning bool
	LockErr      error

	Endpoint string
	Since    time.Time
	Skipped  bool
	FetchErr error
	Count    int
	Latest   string
}

func (r checkReport) failed() bool {
	return len(r.Missing) > 0 || r.FetchErr != nil || preflight.Failed(r.Preflight)
}

func newCheckCommand(ctx *commandContext) *cobra.Command {
	var since time.Duration
	var verbose bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify credentials and query the review API once without notifying",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			level := "warn"
			if verbose {
				level = "debug"
			}
			logger, err := logging.New(logging.Options{
				Level:       level,
				Format:      cfg.Logging.Format,
				OutputPaths: []string{"stderr"},
			})
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			report := runCheck(cmd.Context(), cfg, logger, time.Now().Add(-since))
			report.ConfigPath = ctx.configPath
			report.ConfigExists = ctx.configSeen

			out := cmd.OutOrStdout()
			for _, line := range renderCheckReport(report, shouldColorize(out)) {
				fmt.Fprintln(out, line)
			}
			if report.failed() {
				return errCheckFailed
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&since, "since", 30*24*time.Hour, "How far back to ask the review API for status changes")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log request details to stderr")
	return cmd
}

func runCheck(ctx context.Context, cfg *config.Config, logger *slog.Logger, since time.Time) checkReport {
	report := checkReport{
		Transport: cfg.Messaging.Transport,
		Language:  cfg.Polling.Language,
		Missing:   cfg.MissingCredentials(),
		Endpoint:  cfg.ReviewAPI.Endpoint,
		Since:     since,
	}
	poller.CheckCredentials(cfg, logger)
	report.Preflight = preflight.RunAll(ctx, cfg)

	report.AgentRunning, report.LockErr = daemon.LockHeld(cfg)

	if strings.TrimSpace(cfg.ReviewAPI.Token) == "" {
		report.Skipped = true
		return report
	}

	raw, err := reviewapi.New(cfg, logger).Fetch(ctx, since.Unix())
	if err != nil {
		report.FetchErr = err
		return report
	}
	response, err := homework.Validate(raw, logger)
	if err != nil {
		report.FetchErr = err
		return report
	}
	report.Count = len(response.Homeworks)
	head, ok := response.Head()
	if !ok {
		return report
	}
	translator, err := homework.NewTranslator(cfg.Polling.Language, logger)
	if err != nil {
		report.FetchErr = err
		return report
	}
	message, err := translator.Translate(head)
	if err != nil {
		report.FetchErr = err
		return report
	}
	report.Latest = message
	return report
}
