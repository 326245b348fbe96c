package queue

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/newsroom-next/internal/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisabledClientIsNoop(t *testing.T) {
	client, err := NewClient(&config.QueueConfig{Enabled: false})
	require.NoError(t, err)
	assert.False(t, client.Enabled())
	assert.NoError(t, client.EnqueueImportItem(ImportItemPayload{ItemID: 1}))
	assert.NoError(t, client.EnqueuePublishScheduled(PublishScheduledPayload{Kind: "post", ID: 1}, time.Now()))
	assert.NoError(t, client.Close())
}

func TestEnqueueWritesToRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	opt := asynq.RedisClientOpt{Addr: mr.Addr()}
	client := NewClientFromRedisOpt(opt)
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, client.EnqueueImportItem(ImportItemPayload{ItemID: 5, BatchID: "b"}))
	require.NoError(t, client.EnqueuePublishScheduled(PublishScheduledPayload{Kind: "post", ID: 9}, time.Now().Add(time.Hour)))

	inspector := asynq.NewInspector(opt)
	t.Cleanup(func() { _ = inspector.Close() })

	pending, err := inspector.ListPendingTasks(DefaultQueue)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, TaskImportProcessItem, pending[0].Type)
	assert.Equal(t, 0, pending[0].MaxRetry)
	var payload ImportItemPayload
	require.NoError(t, json.Unmarshal(pending[0].Payload, &payload))
	assert.Equal(t, uint(5), payload.ItemID)

	scheduled, err := inspector.ListScheduledTasks(CriticalQueue)
	require.NoError(t, err)
	require.Len(t, scheduled, 1)
	assert.Equal(t, TaskContentPublishScheduled, scheduled[0].Type)
}

func TestBuildServerConfigDefaults(t *testing.T) {
	opt, cfg := BuildServerConfig(nil)
	assert.Equal(t, "127.0.0.1:6379", opt.Addr)
	assert.Equal(t, 10, cfg.Concurrency)
	assert.Equal(t, map[string]int{DefaultQueue: 2, CriticalQueue: 1}, cfg.Queues)

	opt, cfg = BuildServerConfig(&config.QueueConfig{Host: "redis", Port: 6380, DB: 2, Concurrency: 3})
	assert.Equal(t, "redis:6380", opt.Addr)
	assert.Equal(t, 2, opt.DB)
	assert.Equal(t, 3, cfg.Concurrency)
}

func TestEnqueuePublishScheduledDeduplicates(t *testing.T) {
	mr := miniredis.RunT(t)
	opt := asynq.RedisClientOpt{Addr: mr.Addr()}
	client := NewClientFromRedisOpt(opt)
	t.Cleanup(func() { _ = client.Close() })

	at := time.Now().Add(time.Hour)
	payload := PublishScheduledPayload{Kind: "page", ID: 4}
	require.NoError(t, client.EnqueuePublishScheduled(payload, at))
	require.NoError(t, client.EnqueuePublishScheduled(payload, at), "same schedule should be a no-op")
	require.NoError(t, client.EnqueuePublishScheduled(payload, at.Add(time.Minute)))

	inspector := asynq.NewInspector(opt)
	t.Cleanup(func() { _ = inspector.Close() })
	scheduled, err := inspector.ListScheduledTasks(CriticalQueue)
	require.NoError(t, err)
	assert.Len(t, scheduled, 2)
	assert.Equal(t, 3, scheduled[0].MaxRetry)
}
