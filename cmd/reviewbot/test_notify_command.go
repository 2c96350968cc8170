package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"reviewbot/internal/logging"
	"reviewbot/internal/notifications"
)

func newTestNotifyCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "test-notify",
		Short: "Send a test notification",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			notifier, err := notifications.NewFromConfig(cfg, logging.NewNop())
			if err != nil {
				return err
			}
			if err := notifier.Test(cmd.Context()); err != nil {
				fmt.Fprintln(cmd.OutOrStdout(), "Notification not sent")
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Test notification sent via %s\n", cfg.Messaging.Transport)
			return nil
		},
	}
}
