package main

import (
	"errors"
	"os/signal"
	"syscall"

	"bookingbridge/config"
	"bookingbridge/cron"

	"github.com/hibiken/asynq"
	"github.com/spf13/cobra"
)

func newFollowUpsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "followups",
		Short: "Run the worker that logs bookings queued for manual scheduling",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.AppConfig
			if cfg.RedisAddr == "" {
				return errors.New("REDIS_ADDR is not set")
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return cron.RunFollowUpWorker(ctx, asynq.RedisClientOpt{
				Addr:     cfg.RedisAddr,
				Password: cfg.RedisPassword,
				DB:       cfg.RedisQueueDB,
			}, cliLogger())
		},
	}
}
