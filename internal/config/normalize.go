package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

func (c *Config) normalize() error {
	c.normalizeReviewAPI()
	c.normalizeMessaging()
	if err := c.normalizePolling(); err != nil {
		return err
	}
	return c.normalizeLogging()
}

func (c *Config) normalizeReviewAPI() {
	c.ReviewAPI.Endpoint = strings.TrimSpace(c.ReviewAPI.Endpoint)
	if c.ReviewAPI.Endpoint == "" {
		c.ReviewAPI.Endpoint = defaultReviewEndpoint
	}
	c.ReviewAPI.Token = strings.TrimSpace(c.ReviewAPI.Token)
	if c.ReviewAPI.Token == "" {
		if value, ok := os.LookupEnv("PRACTICUM_TOKEN"); ok {
			c.ReviewAPI.Token = strings.TrimSpace(value)
		}
	}
	if c.ReviewAPI.RequestTimeout == 0 {
		c.ReviewAPI.RequestTimeout = defaultReviewRequestTimeout
	}
}

func (c *Config) normalizeMessaging() {
	c.Messaging.Transport = strings.ToLower(strings.TrimSpace(c.Messaging.Transport))
	if c.Messaging.Transport == "" {
		c.Messaging.Transport = defaultMessagingTransport
	}
	c.Messaging.Token = strings.TrimSpace(c.Messaging.Token)
	if c.Messaging.Token == "" {
		if value, ok := os.LookupEnv("TELEGRAM_TOKEN"); ok {
			c.Messaging.Token = strings.TrimSpace(value)
		}
	}
	c.Messaging.ChatID = strings.TrimSpace(c.Messaging.ChatID)
	if c.Messaging.ChatID == "" {
		if value, ok := os.LookupEnv("TELEGRAM_CHAT_ID"); ok {
			c.Messaging.ChatID = strings.TrimSpace(value)
		}
	}
	c.Messaging.BaseURL = strings.TrimRight(strings.TrimSpace(c.Messaging.BaseURL), "/")
	if c.Messaging.BaseURL == "" && c.Messaging.Transport == TransportTelegram {
		c.Messaging.BaseURL = defaultTelegramBaseURL
	}
	if c.Messaging.RequestTimeout == 0 {
		c.Messaging.RequestTimeout = defaultMessagingTimeout
	}
}

func (c *Config) normalizePolling() error {
	if c.Polling.Interval == intervalUnset {
		c.Polling.Interval = defaultPollInterval
		if value, ok := os.LookupEnv("RETRY_TIME"); ok && strings.TrimSpace(value) != "" {
			seconds, err := strconv.Atoi(strings.TrimSpace(value))
			if err != nil {
				return fmt.Errorf("RETRY_TIME: %w", err)
			}
			c.Polling.Interval = seconds
		}
	}
	c.Polling.CursorPolicy = strings.ToLower(strings.TrimSpace(c.Polling.CursorPolicy))
	if c.Polling.CursorPolicy == "" {
		c.Polling.CursorPolicy = defaultCursorPolicy
	}
	c.Polling.Language = strings.TrimSpace(c.Polling.Language)
	if c.Polling.Language == "" {
		c.Polling.Language = defaultLanguage
	}
	return nil
}

func (c *Config) normalizeLogging() error {
	var err error
	if strings.TrimSpace(c.Logging.Dir) == "" {
		c.Logging.Dir = defaultLogDir
	}
	if c.Logging.Dir, err = expandPath(c.Logging.Dir); err != nil {
		return fmt.Errorf("logging.dir: %w", err)
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
	return nil
}
