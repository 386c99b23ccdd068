package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"bookingbridge/models"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const TypeManualFollowUp = "booking:manual_followup"

// NewManualFollowUpTask wraps a booking that needs manual scheduling. Follow-ups are
// kept for a week after processing so operators can inspect them.
func NewManualFollowUpTask(f models.ManualFollowUp) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(f)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeManualFollowUp, b)
	opts := []asynq.Option{
		asynq.MaxRetry(10),
		asynq.Retention(7 * 24 * time.Hour),
	}
	return task, opts, nil
}

// Enqueuer is the subset of *asynq.Client used to queue follow-ups.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// QueueNotifier puts follow-ups on the asynq queue.
type QueueNotifier struct {
	Client Enqueuer
	Logger *zap.Logger
}

func (n *QueueNotifier) NotifyManualFollowUp(ctx context.Context, f models.ManualFollowUp) error {
	task, opts, err := NewManualFollowUpTask(f)
	if err != nil {
		return fmt.Errorf("build follow-up task: %w", err)
	}
	info, err := n.Client.EnqueueContext(ctx, task, opts...)
	if err != nil {
		return fmt.Errorf("enqueue follow-up task: %w", err)
	}
	n.Logger.Info("manual follow-up queued",
		zap.String("task_id", info.ID),
		zap.String("queue", info.Queue),
		zap.String("session_id", f.SessionID),
	)
	return nil
}

// LogNotifier only logs; used when no queue is configured.
type LogNotifier struct {
	Logger *zap.Logger
}

func (n *LogNotifier) NotifyManualFollowUp(_ context.Context, f models.ManualFollowUp) error {
	n.Logger.Warn("MANUAL FOLLOW-UP REQUIRED",
		zap.String("session_id", f.SessionID),
		zap.String("reason", f.Reason),
		zap.String("client", f.Booking.ClientName),
		zap.String("email", f.Booking.ClientEmail),
		zap.String("phone", f.Booking.ClientPhone),
		zap.String("service_date", f.Booking.ServiceDate),
		zap.Ints("service_hours", f.Booking.ServiceHours),
		zap.Int("attempts", len(f.Attempts)),
	)
	return nil
}
