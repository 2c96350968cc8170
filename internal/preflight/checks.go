package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"reviewbot/internal/config"
)

const checkTimeout = 5 * time.Second

// CheckMessaging verifies that the configured messaging backend answers.
// For Telegram this also validates the bot token via getMe.
func CheckMessaging(ctx context.Context, cfg *config.Config) Result {
	base := strings.TrimRight(strings.TrimSpace(cfg.Messaging.BaseURL), "/")
	switch cfg.Messaging.Transport {
	case config.TransportTelegram:
		token := strings.TrimSpace(cfg.Messaging.Token)
		if token == "" {
			return Result{Name: "Telegram", Detail: "missing bot token"}
		}
		return probe(ctx, "Telegram", base+"/bot"+token+"/getMe", token)
	case config.TransportNtfy:
		if base == "" {
			base = serverRoot(cfg.Messaging.ChatID)
		}
		if base == "" {
			return Result{Name: "ntfy", Detail: "missing topic url"}
		}
		return probe(ctx, "ntfy", base+"/v1/health", "")
	default:
		return Result{Name: "Messaging", Detail: fmt.Sprintf("unsupported transport %q", cfg.Messaging.Transport)}
	}
}

func probe(ctx context.Context, name, target, secret string) Result {
	checkCtx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(checkCtx, http.MethodGet, target, nil)
	if err != nil {
		return Result{Name: name, Detail: redact(fmt.Sprintf("check failed (%v)", err), secret)}
	}
	client := &http.Client{Timeout: checkTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return Result{Name: name, Detail: redact(summarizeError(err), secret)}
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return Result{Name: name, Passed: true, Detail: "reachable"}
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
		return Result{Name: name, Detail: fmt.Sprintf("auth failed (%d)", resp.StatusCode)}
	default:
		return Result{Name: name, Detail: fmt.Sprintf("check failed (%d)", resp.StatusCode)}
	}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// serverRoot returns scheme://host of an ntfy topic URL.
func serverRoot(topic string) string {
	parsed, err := url.Parse(strings.TrimSpace(topic))
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return ""
	}
	return parsed.Scheme + "://" + parsed.Host
}

func summarizeError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "check timed out"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "check timed out"
	}
	return err.Error()
}

func redact(message, secret string) string {
	if secret == "" {
		return message
	}
	return strings.ReplaceAll(message, secret, "<redacted>")
}
