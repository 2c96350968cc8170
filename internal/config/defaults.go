package config

import "math"

const (
	defaultConfigPath           = "~/.config/reviewbot/config.toml"
	defaultReviewEndpoint       = "https://practicum.yandex.ru/api/user_api/homework_statuses/"
	defaultReviewRequestTimeout = 30
	defaultMessagingTransport   = TransportTelegram
	defaultTelegramBaseURL      = "https://api.telegram.org"
	defaultMessagingTimeout     = 10
	defaultPollInterval         = 600
	defaultCursorPolicy         = CursorAdvance
	defaultLanguage             = "en"
	defaultLogDir               = "~/.local/share/reviewbot/logs"
	defaultLogFormat            = "console"
	defaultLogLevel             = "debug"
	defaultLogRetentionDays     = 30
)

// intervalUnset marks polling.interval as absent from the config file so the
// RETRY_TIME environment variable may fill it.
const intervalUnset = math.MinInt32

// Transport names accepted by messaging.transport.
const (
	TransportTelegram = "telegram"
	TransportNtfy     = "ntfy"
)

// Cursor policies accepted by polling.cursor_policy.
const (
	// CursorAdvance moves the fetch cursor forward after every successful cycle.
	CursorAdvance = "advance"
	// CursorFrozen keeps the cursor at the process start time for every fetch.
	CursorFrozen = "frozen"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		ReviewAPI: ReviewAPI{
			Endpoint:       defaultReviewEndpoint,
			RequestTimeout: defaultReviewRequestTimeout,
		},
		Messaging: Messaging{
			Transport:      defaultMessagingTransport,
			BaseURL:        defaultTelegramBaseURL,
			RequestTimeout: defaultMessagingTimeout,
		},
		Polling: Polling{
			Interval:     defaultPollInterval,
			CursorPolicy: defaultCursorPolicy,
			ReportErrors: true,
			Language:     defaultLanguage,
		},
		Logging: Logging{
			Dir:           defaultLogDir,
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
