package daemonctl

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"
	"time"

	"reviewbot/internal/config"
	"reviewbot/internal/daemon"
)

// ErrNotRunning indicates no agent holds the lock.
var ErrNotRunning = errors.New("reviewbot agent not running")

const pollInterval = 100 * time.Millisecond

// StopResult captures agent stop outcome.
type StopResult struct {
	PID        int
	ForcedKill bool
}

// ReadPID returns the pid recorded by the running agent.
func ReadPID(cfg *config.Config) (int, error) {
	pidPath := daemon.PIDPath(cfg)
	data, err := os.ReadFile(pidPath)
	if err != nil {
		return 0, fmt.Errorf("read agent pid file %q: %w", pidPath, err)
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("agent pid file %q is malformed", pidPath)
	}
	return pid, nil
}

// Stop sends SIGTERM to the agent and waits up to gracePeriod for it to
// release the lock. An agent still holding the lock after that is killed
// and its pid and lock files are removed.
func Stop(cfg *config.Config, gracePeriod time.Duration) (StopResult, error) {
	held, err := daemon.LockHeld(cfg)
	if err != nil {
		return StopResult{}, err
	}
	if !held {
		return StopResult{}, ErrNotRunning
	}

	pid, err := ReadPID(cfg)
	if err != nil {
		return StopResult{}, err
	}
	if pid == os.Getpid() {
		return StopResult{}, fmt.Errorf("refusing to signal current process (pid %d)", pid)
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		return StopResult{}, fmt.Errorf("locate agent process %d: %w", pid, err)
	}
	result := StopResult{PID: pid}
	if err := proc.Signal(syscall.SIGTERM); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return result, fmt.Errorf("signal agent process %d: %w", pid, err)
	}

	if WaitForShutdown(cfg, gracePeriod) == nil {
		return result, nil
	}

	if err := proc.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return result, fmt.Errorf("kill agent process %d: %w", pid, err)
	}
	result.ForcedKill = true
	if err := os.Remove(daemon.PIDPath(cfg)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return result, fmt.Errorf("remove pid file: %w", err)
	}
	_ = os.Remove(daemon.LockPath(cfg))
	return result, nil
}

// WaitForShutdown polls the lock until it is released or timeout elapses.
func WaitForShutdown(cfg *config.Config, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		held, err := daemon.LockHeld(cfg)
		if err == nil && !held {
			return nil
		}
		if !time.Now().Before(deadline) {
			if err != nil {
				return fmt.Errorf("agent did not stop: %w", err)
			}
			return errors.New("agent did not stop: lock still held")
		}
		time.Sleep(pollInterval)
	}
}
