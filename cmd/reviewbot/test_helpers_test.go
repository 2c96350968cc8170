package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

const reviewToken = "practicum-token"

type cliTestEnv struct {
	baseDir    string
	configPath string
	logDir     string
	review     *httptest.Server
	telegram   *httptest.Server

	mu   sync.Mutex
	sent []string
}

func setupCLITestEnv(t *testing.T, reviewBody string) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	for _, key := range []string{"PRACTICUM_TOKEN", "TELEGRAM_TOKEN", "TELEGRAM_CHAT_ID", "RETRY_TIME"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	env := &cliTestEnv{
		baseDir:    base,
		configPath: filepath.Join(base, "config.toml"),
		logDir:     filepath.Join(base, "logs"),
	}
	env.review = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "OAuth "+reviewToken {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(reviewBody))
	}))
	env.telegram = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Method != http.MethodPost {
			_, _ = w.Write([]byte(`{"ok":true,"result":{}}`))
			return
		}
		var body struct {
			Text string `json:"text"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		env.mu.Lock()
		env.sent = append(env.sent, body.Text)
		env.mu.Unlock()
		_, _ = w.Write([]byte(`{"ok":true,"result":{}}`))
	}))
	t.Cleanup(env.review.Close)
	t.Cleanup(env.telegram.Close)
	return env
}

func (e *cliTestEnv) sentMessages() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.sent...)
}

// writeConfig writes a config file pointing at the fake servers. With
// credentials false the tokens and chat id are left for the environment.
func (e *cliTestEnv) writeConfig(t *testing.T, credentials bool) {
	t.Helper()
	var b strings.Builder
	fmt.Fprintf(&b, "[review_api]\nendpoint = %q\n", e.review.URL+"/api/user_api/homework_statuses/")
	if credentials {
		fmt.Fprintf(&b, "token = %q\n", reviewToken)
	}
	fmt.Fprintf(&b, "\n[messaging]\nbase_url = %q\n", e.telegram.URL)
	if credentials {
		fmt.Fprintf(&b, "token = %q\nchat_id = %q\n", "123456:ABCDEF", "42")
	}
	fmt.Fprintf(&b, "\n[logging]\ndir = %q\nlevel = \"error\"\n", e.logDir)
	if err := os.WriteFile(e.configPath, []byte(b.String()), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath, envFile string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	flags := []string{"--env-file", envFile}
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
