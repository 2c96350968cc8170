package daemonctl_test

import (
	"errors"
	"os"
	"os/exec"
	"strconv"
	"testing"
	"time"

	"github.com/gofrs/flock"

	"reviewbot/internal/config"
	"reviewbot/internal/daemon"
	"reviewbot/internal/daemonctl"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Logging.Dir = t.TempDir()
	return &cfg
}

func TestStopWithoutAgent(t *testing.T) {
	cfg := testConfig(t)
	if _, err := daemonctl.Stop(cfg, 100*time.Millisecond); !errors.Is(err, daemonctl.ErrNotRunning) {
		t.Fatalf("expected ErrNotRunning, got %v", err)
	}
}

func TestReadPIDRejectsGarbage(t *testing.T) {
	cfg := testConfig(t)
	if err := os.WriteFile(daemon.PIDPath(cfg), []byte("not-a-pid\n"), 0o644); err != nil {
		t.Fatalf("write pid: %v", err)
	}
	if _, err := daemonctl.ReadPID(cfg); err == nil {
		t.Fatal("expected malformed pid error")
	}
}

// startFakeAgent holds the agent lock on behalf of a child process and
// releases it once the child exits.
func startFakeAgent(t *testing.T, cfg *config.Config) *exec.Cmd {
	t.Helper()
	sleepPath, err := exec.LookPath("sleep")
	if err != nil {
		t.Skip("sleep binary not available")
	}
	lock := flock.New(daemon.LockPath(cfg))
	if ok, err := lock.TryLock(); err != nil || !ok {
		t.Fatalf("acquire lock: ok=%v err=%v", ok, err)
	}
	cmd := exec.Command(sleepPath, "30")
	if err := cmd.Start(); err != nil {
		t.Fatalf("start child: %v", err)
	}
	if err := os.WriteFile(daemon.PIDPath(cfg), []byte(strconv.Itoa(cmd.Process.Pid)+"\n"), 0o644); err != nil {
		t.Fatalf("write pid: %v", err)
	}
	go func() {
		_ = cmd.Wait()
		_ = lock.Unlock()
	}()
	t.Cleanup(func() { _ = cmd.Process.Kill() })
	return cmd
}

func TestStopSignalsAgent(t *testing.T) {
	cfg := testConfig(t)
	cmd := startFakeAgent(t, cfg)

	pid, err := daemonctl.ReadPID(cfg)
	if err != nil || pid != cmd.Process.Pid {
		t.Fatalf("ReadPID = %d, %v; want %d", pid, err, cmd.Process.Pid)
	}

	result, err := daemonctl.Stop(cfg, 5*time.Second)
	if err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if result.PID != cmd.Process.Pid || result.ForcedKill {
		t.Fatalf("unexpected stop result %+v", result)
	}
	if held, err := daemon.LockHeld(cfg); err != nil || held {
		t.Fatalf("expected lock released, held=%v err=%v", held, err)
	}
}
