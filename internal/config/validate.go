package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/text/language"
)

// Validate ensures the configuration is usable. Missing credentials are not a
// validation failure; they are reported separately by MissingCredentials so the
// caller decides how loudly to complain.
func (c *Config) Validate() error {
	if err := c.validateReviewAPI(); err != nil {
		return err
	}
	if err := c.validateMessaging(); err != nil {
		return err
	}
	if err := c.validatePolling(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
		return nil
	default:
		return fmt.Errorf("logging.format must be \"console\" or \"json\", got %q", c.Logging.Format)
	}
}

func (c *Config) validateReviewAPI() error {
	if err := validateHTTPURL("review_api.endpoint", c.ReviewAPI.Endpoint); err != nil {
		return err
	}
	if c.ReviewAPI.RetryCount < 0 {
		return errors.New("review_api.retry_count must be >= 0")
	}
	return ensurePositiveMap(map[string]int{
		"review_api.request_timeout": c.ReviewAPI.RequestTimeout,
		"messaging.request_timeout":  c.Messaging.RequestTimeout,
	})
}

func (c *Config) validateMessaging() error {
	switch c.Messaging.Transport {
	case TransportTelegram:
		return validateHTTPURL("messaging.base_url", c.Messaging.BaseURL)
	case TransportNtfy:
		if c.Messaging.ChatID == "" {
			return nil
		}
		return validateHTTPURL("messaging.chat_id", c.Messaging.ChatID)
	default:
		return fmt.Errorf("messaging.transport must be %q or %q, got %q", TransportTelegram, TransportNtfy, c.Messaging.Transport)
	}
}

func (c *Config) validatePolling() error {
	if c.Polling.Interval <= 0 {
		return errors.New("polling.interval must be positive")
	}
	switch c.Polling.CursorPolicy {
	case CursorAdvance, CursorFrozen:
	default:
		return fmt.Errorf("polling.cursor_policy must be %q or %q, got %q", CursorAdvance, CursorFrozen, c.Polling.CursorPolicy)
	}
	if _, err := language.Parse(c.Polling.Language); err != nil {
		return fmt.Errorf("polling.language: %w", err)
	}
	return nil
}

// MissingCredentials lists the dotted keys of required credentials that are empty.
func (c *Config) MissingCredentials() []string {
	var missing []string
	if strings.TrimSpace(c.ReviewAPI.Token) == "" {
		missing = append(missing, "review_api.token (PRACTICUM_TOKEN)")
	}
	if strings.TrimSpace(c.Messaging.Token) == "" {
		missing = append(missing, "messaging.token (TELEGRAM_TOKEN)")
	}
	if strings.TrimSpace(c.Messaging.ChatID) == "" {
		missing = append(missing, "messaging.chat_id (TELEGRAM_CHAT_ID)")
	}
	return missing
}

func validateHTTPURL(key, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s must be set", key)
	}
	parsed, err := url.ParseRequestURI(value)
	if err != nil {
		return fmt.Errorf("%s: invalid URL: %w", key, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%s: unsupported scheme %q", key, parsed.Scheme)
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
