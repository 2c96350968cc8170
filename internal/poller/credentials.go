package poller

import (
	"log/slog"

	"reviewbot/internal/config"
	"reviewbot/internal/logging"
)

// CheckCredentials reports whether the review API token, messaging token and
// destination are all set. Each missing value is logged at CRITICAL.
func CheckCredentials(cfg *config.Config, logger *slog.Logger) bool {
	missing := cfg.MissingCredentials()
	for _, name := range missing {
		logging.Critical(logging.Named(logger, "poller"), "required credential missing", "credentials_missing",
			logging.String("credential", name),
			logging.String(logging.FieldErrorHint, "set it in the config file, the environment, or .env"),
		)
	}
	return len(missing) == 0
}
