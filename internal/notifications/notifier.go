package notifications

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"reviewbot/internal/config"
	"reviewbot/internal/logging"
)

const failurePrefix = "Bot failure: "

// Notifier delivers messages to the configured destination.
type Notifier struct {
	transport   Transport
	destination string
	logger      *slog.Logger
}

// New returns a Notifier sending through transport to destination.
func New(transport Transport, destination string, logger *slog.Logger) *Notifier {
	return &Notifier{
		transport:   transport,
		destination: strings.TrimSpace(destination),
		logger:      logging.Named(logger, "notifier"),
	}
}

// NewFromConfig builds the transport named in cfg and a Notifier for
// messaging.chat_id.
func NewFromConfig(cfg *config.Config, logger *slog.Logger) (*Notifier, error) {
	transport, err := NewTransport(cfg)
	if err != nil {
		return nil, err
	}
	return New(transport, cfg.Messaging.ChatID, logger), nil
}

// Notify attempts delivery once and reports whether it succeeded. Failures
// are logged and never returned.
func (n *Notifier) Notify(ctx context.Context, text string) bool {
	logger := logging.WithContext(ctx, n.logger)
	if err := n.send(ctx, text); err != nil {
		logging.ErrorWithContext(logger, "message delivery failed", "message_delivery_failed",
			logging.String("transport", n.transportName()),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check messaging.token and messaging.chat_id"),
		)
		return false
	}
	logger.Info("message sent",
		logging.String("transport", n.transportName()),
		logging.String(logging.FieldEventType, "message_sent"),
	)
	return true
}

// NotifyFailure reports a cycle failure as a best-effort diagnostic message.
func (n *Notifier) NotifyFailure(ctx context.Context, err error) bool {
	return n.Notify(ctx, FailureMessage(err))
}

// Test sends a fixed message and returns the delivery error, for the
// test-notify command.
func (n *Notifier) Test(ctx context.Context) error {
	return n.send(ctx, "reviewbot notification test")
}

// FailureMessage formats the diagnostic text for a cycle failure.
func FailureMessage(err error) string {
	if err == nil {
		return failurePrefix + "unknown"
	}
	return failurePrefix + strings.TrimSpace(err.Error())
}

func (n *Notifier) send(ctx context.Context, text string) error {
	if n == nil || n.transport == nil {
		return errors.New("no messaging transport configured")
	}
	if n.destination == "" {
		return errors.New("messaging destination is empty")
	}
	return n.transport.Send(ctx, n.destination, text)
}

func (n *Notifier) transportName() string {
	if n == nil || n.transport == nil {
		return "none"
	}
	return n.transport.Name()
}
