package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"reviewbot/internal/config"
	"reviewbot/internal/logging"
)

// ErrAlreadyRunning is returned when another agent holds the lock.
var ErrAlreadyRunning = errors.New("another reviewbot instance is already running")

const (
	lockFileName = "reviewbot.lock"
	pidFileName  = "reviewbot.pid"
)

// Runner is the loop the daemon supervises.
type Runner interface {
	Run(ctx context.Context) error
}

// Daemon runs a Runner in the background and enforces single-instance execution.
type Daemon struct {
	logger   *slog.Logger
	runner   Runner
	lockPath string
	lock     *flock.Flock

	mu        sync.Mutex
	running   atomic.Bool
	cancel    context.CancelFunc
	done      chan struct{}
	runErr    error
	startedAt time.Time
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool
	StartedAt    time.Time
	LockFilePath string
}

// New constructs a daemon around runner.
func New(cfg *config.Config, runner Runner, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || runner == nil {
		return nil, errors.New("daemon requires config and runner")
	}
	lockPath := LockPath(cfg)
	return &Daemon{
		logger:   logging.Named(logger, "daemon"),
		runner:   runner,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// LockPath returns the single-instance lock file location.
func LockPath(cfg *config.Config) string {
	return filepath.Join(cfg.Logging.Dir, lockFileName)
}

// PIDPath returns the file the foreground agent writes its pid to.
func PIDPath(cfg *config.Config) string {
	return filepath.Join(cfg.Logging.Dir, pidFileName)
}

// Start acquires the lock and launches the runner.
func (d *Daemon) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return ErrAlreadyRunning
	}

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.done = make(chan struct{})
	d.runErr = nil
	d.startedAt = time.Now()
	d.running.Store(true)

	go func(done chan struct{}) {
		defer close(done)
		err := d.runner.Run(runCtx)
		d.mu.Lock()
		d.runErr = err
		d.mu.Unlock()
	}(d.done)

	d.logger.Info("reviewbot daemon started",
		logging.String("lock", d.lockPath),
		logging.String(logging.FieldEventType, "daemon_started"),
	)
	return nil
}

// Wait blocks until the runner returns and reports its error.
func (d *Daemon) Wait() error {
	d.mu.Lock()
	done := d.done
	d.mu.Unlock()
	if done == nil {
		return nil
	}
	<-done
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.runErr
}

// Stop cancels the runner, waits for it and releases the lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}
	d.mu.Lock()
	cancel := d.cancel
	d.cancel = nil
	d.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	_ = d.Wait()

	if err := d.lock.Unlock(); err != nil {
		logging.WarnWithContext(d.logger, "failed to release daemon lock", "daemon_lock_release_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "the next start may report the agent as running"),
		)
	}
	d.running.Store(false)
	d.logger.Info("reviewbot daemon stopped", logging.String(logging.FieldEventType, "daemon_stopped"))
}

// Status returns the current daemon status.
func (d *Daemon) Status() Status {
	d.mu.Lock()
	defer d.mu.Unlock()
	return Status{
		Running:      d.running.Load(),
		StartedAt:    d.startedAt,
		LockFilePath: d.lockPath,
	}
}

// AcquireLock takes the single-instance lock for callers that run cycles
// without a Daemon. It returns ErrAlreadyRunning when another process holds
// it; the caller must Unlock the returned lock.
func AcquireLock(cfg *config.Config) (*flock.Flock, error) {
	lock := flock.New(LockPath(cfg))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, ErrAlreadyRunning
	}
	return lock, nil
}

// LockHeld reports whether another process currently holds the agent lock.
func LockHeld(cfg *config.Config) (bool, error) {
	lock := flock.New(LockPath(cfg))
	ok, err := lock.TryLock()
	if err != nil {
		return false, fmt.Errorf("probe lock: %w", err)
	}
	if !ok {
		return true, nil
	}
	return false, lock.Unlock()
}
