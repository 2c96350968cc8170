package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"reviewbot/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigValidateCommand(ctx))
	configCmd.AddCommand(newConfigInitCommand())
	configCmd.AddCommand(newConfigShowCommand(ctx))

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create a sample configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return fmt.Errorf("determine default config path: %w", err)
				}
				target = defaultPath
			} else {
				expanded, err := config.ExpandPath(target)
				if err != nil {
					return fmt.Errorf("resolve config path: %w", err)
				}
				target = expanded
			}

			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				} else if !os.IsNotExist(err) {
					return fmt.Errorf("check config path: %w", err)
				}
			}

			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "Set PRACTICUM_TOKEN, TELEGRAM_TOKEN and TELEGRAM_CHAT_ID (or the matching keys in the file) before running reviewbot.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config path: %s\n", ctx.configPath)
			if !ctx.configSeen {
				fmt.Fprintln(out, "Config file did not exist; defaults were used")
			}
			if missing := cfg.MissingCredentials(); len(missing) > 0 {
				fmt.Fprintf(out, "Missing credentials: %s\n", strings.Join(missing, ", "))
			}
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}

func newConfigShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration with secrets masked",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderSettings(configSettings(cfg)))
			return nil
		},
	}
}

func configSettings(cfg *config.Config) []setting {
	return []setting{
		{Key: "review_api.endpoint", Value: cfg.ReviewAPI.Endpoint},
		{Key: "review_api.token", Value: cfg.ReviewAPI.Token, Secret: true},
		{Key: "review_api.request_timeout", Value: strconv.Itoa(cfg.ReviewAPI.RequestTimeout) + "s"},
		{Key: "review_api.retry_count", Value: strconv.Itoa(cfg.ReviewAPI.RetryCount)},
		{Key: "messaging.transport", Value: cfg.Messaging.Transport},
		{Key: "messaging.token", Value: cfg.Messaging.Token, Secret: true},
		{Key: "messaging.chat_id", Value: cfg.Messaging.ChatID},
		{Key: "messaging.base_url", Value: cfg.Messaging.BaseURL},
		{Key: "polling.interval", Value: strconv.Itoa(cfg.Polling.Interval) + "s"},
		{Key: "polling.cursor_policy", Value: cfg.Polling.CursorPolicy},
		{Key: "polling.report_errors", Value: yesNo(cfg.Polling.ReportErrors)},
		{Key: "polling.language", Value: cfg.Polling.Language},
		{Key: "logging.dir", Value: filepath.Clean(cfg.Logging.Dir)},
		{Key: "logging.format", Value: cfg.Logging.Format},
		{Key: "logging.level", Value: cfg.Logging.Level},
		{Key: "logging.retention_days", Value: strconv.Itoa(cfg.Logging.RetentionDays)},
	}
}

// maskSecret keeps the last four characters of long secrets.
func maskSecret(value string) string {
	switch {
	case value == "":
		return "(unset)"
	case len(value) <= 8:
		return strings.Repeat("*", len(value))
	default:
		return strings.Repeat("*", len(value)-4) + value[len(value)-4:]
	}
}
