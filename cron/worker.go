package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"bookingbridge/models"
	"bookingbridge/services/tasks"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// HandleManualFollowUp logs each follow-up for the operator. Malformed payloads are
// skipped rather than retried.
func HandleManualFollowUp(logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var f models.ManualFollowUp
		if err := json.Unmarshal(task.Payload(), &f); err != nil {
			logger.Error("invalid follow-up payload", zap.Error(err))
			return fmt.Errorf("decode follow-up: %v: %w", err, asynq.SkipRetry)
		}

		logger.Warn("booking needs manual scheduling",
			zap.String("session_id", f.SessionID),
			zap.String("reason", f.Reason),
			zap.Time("logged_at", f.LoggedAt),
			zap.Any("booking", f.Booking),
			zap.Any("attempts", f.Attempts),
		)
		return nil
	}
}

// NewFollowUpMux routes follow-up tasks to their handler.
func NewFollowUpMux(logger *zap.Logger) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeManualFollowUp, HandleManualFollowUp(logger))
	return mux
}

// RunFollowUpWorker processes follow-ups until ctx is cancelled.
func RunFollowUpWorker(ctx context.Context, opt asynq.RedisClientOpt, logger *zap.Logger) error {
	srv := asynq.NewServer(opt, asynq.Config{
		Concurrency: 2,
		Queues:      map[string]int{"default": 1},
		Logger:      logger.Sugar(),
	})

	go monitorRedisConnection(ctx, opt, logger)

	if err := srv.Start(NewFollowUpMux(logger)); err != nil {
		return fmt.Errorf("start follow-up worker: %w", err)
	}
	logger.Info("follow-up worker started", zap.String("redis", opt.Addr), zap.Int("db", opt.DB))

	<-ctx.Done()
	srv.Shutdown()
	logger.Info("follow-up worker stopped")
	return nil
}

// monitorRedisConnection pings Redis periodically to surface failures at runtime.
func monitorRedisConnection(ctx context.Context, opt asynq.RedisClientOpt, logger *zap.Logger) {
	client := redis.NewClient(&redis.Options{
		Addr:     opt.Addr,
		Password: opt.Password,
		DB:       opt.DB,
	})
	defer client.Close()

	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := client.Ping(ctx).Err(); err != nil && ctx.Err() == nil {
				logger.Warn("follow-up queue redis unreachable", zap.Error(err))
			}
		}
	}
}
