package preflight_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"reviewbot/internal/config"
	"reviewbot/internal/preflight"
)

func TestCheckDirectoryAccess(t *testing.T) {
	dir := t.TempDir()
	if r := preflight.CheckDirectoryAccess("Log directory", dir); !r.Passed {
		t.Fatalf("expected pass, got %+v", r)
	}

	missing := filepath.Join(dir, "missing")
	if r := preflight.CheckDirectoryAccess("Log directory", missing); r.Passed || !strings.Contains(r.Detail, "does not exist") {
		t.Fatalf("expected missing dir failure, got %+v", r)
	}

	file := filepath.Join(dir, "file")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if r := preflight.CheckDirectoryAccess("Log directory", file); r.Passed || !strings.Contains(r.Detail, "not a directory") {
		t.Fatalf("expected not-a-directory failure, got %+v", r)
	}
}

func TestCheckMessagingTelegram(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if strings.Contains(r.URL.Path, "bad") {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	cfg := config.Default()
	cfg.Messaging.BaseURL = srv.URL
	cfg.Messaging.Token = "123:good"

	if r := preflight.CheckMessaging(context.Background(), &cfg); !r.Passed {
		t.Fatalf("expected pass, got %+v", r)
	}
	if gotPath != "/bot123:good/getMe" {
		t.Fatalf("unexpected path %q", gotPath)
	}

	cfg.Messaging.Token = "123:bad"
	r := preflight.CheckMessaging(context.Background(), &cfg)
	if r.Passed || !strings.Contains(r.Detail, "401") {
		t.Fatalf("expected auth failure, got %+v", r)
	}

	cfg.Messaging.Token = ""
	if r := preflight.CheckMessaging(context.Background(), &cfg); r.Passed {
		t.Fatalf("expected missing token failure, got %+v", r)
	}
}

func TestCheckMessagingRedactsToken(t *testing.T) {
	cfg := config.Default()
	cfg.Messaging.BaseURL = "http://127.0.0.1:1"
	cfg.Messaging.Token = "123:secret"

	r := preflight.CheckMessaging(context.Background(), &cfg)
	if r.Passed {
		t.Fatal("expected unreachable backend to fail")
	}
	if strings.Contains(r.Detail, "123:secret") {
		t.Fatalf("expected token redacted, got %q", r.Detail)
	}
}

func TestCheckMessagingNtfy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/health" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"healthy":true}`))
	}))
	defer srv.Close()

	cfg := config.Default()
	cfg.Messaging.Transport = config.TransportNtfy
	cfg.Messaging.BaseURL = ""
	cfg.Messaging.ChatID = srv.URL + "/reviewbot"

	results := preflight.RunAll(context.Background(), &cfg)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if !results[1].Passed {
		t.Fatalf("expected ntfy pass, got %+v", results[1])
	}
	if preflight.Failed(results[1:]) != false {
		t.Fatal("expected no failures in messaging results")
	}
}
