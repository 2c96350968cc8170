package notifications

import (
	"context"
	"fmt"
	"strings"

	"reviewbot/internal/config"
)

const userAgent = "reviewbot/0.1.0"

// Transport delivers text to a destination on a messaging backend.
type Transport interface {
	Name() string
	Send(ctx context.Context, destination, text string) error
}

// NewTransport builds the transport selected by messaging.transport.
func NewTransport(cfg *config.Config) (Transport, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Messaging.Transport)) {
	case config.TransportTelegram, "":
		return newTelegramTransport(cfg), nil
	case config.TransportNtfy:
		return newNtfyTransport(cfg), nil
	default:
		return nil, fmt.Errorf("messaging.transport: unsupported value %q", cfg.Messaging.Transport)
	}
}

// redact removes secret from an error message, since transport errors can
// echo request URLs that embed the bot token.
func redact(message, secret string) string {
	if secret == "" {
		return message
	}
	return strings.ReplaceAll(message, secret, "<redacted>")
}
