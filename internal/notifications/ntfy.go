package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"reviewbot/internal/config"
)

const (
	ntfyTitle = "Homework review"
	ntfyTags  = "reviewbot,homework"
)

// ntfyTransport publishes to an ntfy topic URL. The destination is the topic
// URL itself and the messaging token, if set, is sent as a bearer token.
type ntfyTransport struct {
	client *http.Client
	token  string
}

func newNtfyTransport(cfg *config.Config) *ntfyTransport {
	return &ntfyTransport{
		client: &http.Client{Timeout: cfg.MessagingTimeout()},
		token:  strings.TrimSpace(cfg.Messaging.Token),
	}
}

func (n *ntfyTransport) Name() string { return config.TransportNtfy }

func (n *ntfyTransport) Send(ctx context.Context, destination, text string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, destination, strings.NewReader(text))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	req.Header.Set("Title", ntfyTitle)
	req.Header.Set("Tags", ntfyTags)
	if strings.HasPrefix(text, failurePrefix) {
		req.Header.Set("Priority", "high")
	}
	if n.token != "" {
		req.Header.Set("Authorization", "Bearer "+n.token)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
