package cron

import (
	"context"
	"errors"
	"testing"

	"bookingbridge/models"
	"bookingbridge/services/tasks"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestHandleManualFollowUp(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	mux := NewFollowUpMux(zap.New(core))

	task, _, err := tasks.NewManualFollowUpTask(models.ManualFollowUp{SessionID: "cs_9", Reason: "authentication_failed"})
	require.NoError(t, err)
	require.NoError(t, mux.ProcessTask(context.Background(), task))

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "cs_9", logs.All()[0].ContextMap()["session_id"])
}

func TestHandleManualFollowUp_BadPayloadSkipsRetry(t *testing.T) {
	h := HandleManualFollowUp(zap.NewNop())
	err := h(context.Background(), asynq.NewTask(tasks.TypeManualFollowUp, []byte("{")))
	require.Error(t, err)
	assert.True(t, errors.Is(err, asynq.SkipRetry))
}
