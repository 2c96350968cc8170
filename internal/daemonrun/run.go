package daemonrun

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"reviewbot/internal/config"
	"reviewbot/internal/daemon"
	"reviewbot/internal/homework"
	"reviewbot/internal/logging"
	"reviewbot/internal/notifications"
	"reviewbot/internal/poller"
	"reviewbot/internal/reviewapi"
)

// ErrMissingCredentials aborts startup when a required credential is unset.
var ErrMissingCredentials = errors.New("required credentials are missing")

const (
	logFilePrefix  = "reviewbot-"
	currentLogName = "reviewbot.log"
)

// Options configures agent process runtime behavior.
type Options struct {
	LogLevel string
	// Once runs a single cycle and returns instead of looping.
	Once bool
}

// Run starts the reviewbot agent and blocks until SIGINT or SIGTERM.
func Run(cmdCtx context.Context, cfg *config.Config, opts Options) error {
	if cfg == nil {
		return fmt.Errorf("config is required")
	}
	if opts.LogLevel != "" {
		cfg.Logging.Level = opts.LogLevel
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}

	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	runID := NewRunID(time.Now())
	logPath := LogPath(cfg, runID)
	logger, err := logging.NewFromConfig(cfg, logPath)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logger = logger.With(logging.String(logging.FieldRunID, runID))

	if err := ensureCurrentLogPointer(cfg.Logging.Dir, logPath); err != nil {
		fmt.Fprintf(os.Stderr, "warn: unable to update %s link: %v\n", currentLogName, err)
	}
	logging.CleanupOldLogs(logger, cfg.Logging.RetentionDays, time.Now(),
		logging.RetentionTarget{Dir: cfg.Logging.Dir, Pattern: logFilePrefix + "*.log", Exclude: []string{logPath}},
	)

	if !poller.CheckCredentials(cfg, logger) {
		return ErrMissingCredentials
	}

	engine, err := Assemble(cfg, logger)
	if err != nil {
		return err
	}
	if opts.Once {
		lock, err := daemon.AcquireLock(cfg)
		if err != nil {
			logger.Error("single cycle refused", logging.Error(err), logging.String(logging.FieldEventType, "lock_held"))
			return err
		}
		defer lock.Unlock()
		result, err := engine.RunCycle(signalCtx)
		if err != nil {
			return err
		}
		logger.Info("single cycle complete", logging.String("outcome", string(result.Outcome)))
		return nil
	}

	d, err := daemon.New(cfg, engine, logger)
	if err != nil {
		return fmt.Errorf("create daemon: %w", err)
	}
	if err := d.Start(signalCtx); err != nil {
		return err
	}
	defer d.Stop()

	pidPath := daemon.PIDPath(cfg)
	if err := writePIDFile(pidPath); err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	defer os.Remove(pidPath)

	<-signalCtx.Done()
	logger.Info("reviewbot shutting down", logging.String(logging.FieldEventType, "shutdown"))
	return nil
}

// Assemble wires the review API client, translator and notifier into a
// polling engine.
func Assemble(cfg *config.Config, logger *slog.Logger) (*poller.Engine, error) {
	translator, err := homework.NewTranslator(cfg.Polling.Language, logging.Named(logger, "translator"))
	if err != nil {
		return nil, err
	}
	notifier, err := notifications.NewFromConfig(cfg, logger)
	if err != nil {
		return nil, err
	}
	client := reviewapi.New(cfg, logger)
	return poller.New(cfg, client, translator, notifier, logger), nil
}

// NewRunID formats the run identifier used in log file names.
func NewRunID(now time.Time) string {
	return now.UTC().Format("20060102T150405.000Z")
}

// LogPath returns the log file path for a run.
func LogPath(cfg *config.Config, runID string) string {
	return filepath.Join(cfg.Logging.Dir, logFilePrefix+runID+".log")
}

// CurrentLogPath returns the pointer to the latest run log.
func CurrentLogPath(cfg *config.Config) string {
	return filepath.Join(cfg.Logging.Dir, currentLogName)
}

func ensureCurrentLogPointer(logDir, target string) error {
	if logDir == "" || target == "" {
		return nil
	}
	current := filepath.Join(logDir, currentLogName)
	if err := os.Remove(current); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove existing log pointer: %w", err)
	}
	if err := os.Symlink(target, current); err == nil {
		return nil
	}
	if err := os.Link(target, current); err != nil {
		return fmt.Errorf("link log pointer: %w", err)
	}
	return nil
}

func writePIDFile(path string) error {
	if path == "" {
		return nil
	}
	value := strconv.Itoa(os.Getpid()) + "\n"
	return os.WriteFile(path, []byte(value), 0o644)
}
