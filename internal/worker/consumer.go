package worker

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/newsroom-next/internal/logger"
	"github.com/newsroom-next/internal/provider"
	"github.com/newsroom-next/internal/queue"
	"github.com/newsroom-next/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskImportProcessItem, c.handleImportProcessItem)
	mux.HandleFunc(queue.TaskContentPublishScheduled, c.handlePublishScheduled)
}

func (c *Consumer) handleImportProcessItem(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_import_item_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.ImportItemPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_import_item_unmarshal_failed", "error", err)
		return err
	}
	if payload.ItemID == 0 {
		logger.Debugw("worker_import_item_skip_invalid_payload", "item_id", payload.ItemID)
		return nil
	}
	if c.ImportService == nil {
		logger.Warnw("worker_import_item_skip_service_nil", "item_id", payload.ItemID)
		return nil
	}
	if err := c.ImportService.ProcessItem(ctx, payload.ItemID); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			logger.Debugw("worker_import_item_skip_not_found", "item_id", payload.ItemID)
			return nil
		}
		// 失败原因已记录在暂存行上，任务不重试
		logger.Warnw("worker_import_item_failed",
			"item_id", payload.ItemID,
			"batch_id", payload.BatchID,
			"error", err,
		)
		return err
	}
	return nil
}

func (c *Consumer) handlePublishScheduled(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_publish_scheduled_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.PublishScheduledPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_publish_scheduled_unmarshal_failed", "error", err)
		return err
	}
	if payload.ID == 0 {
		logger.Debugw("worker_publish_scheduled_skip_invalid_payload", "kind", payload.Kind, "id", payload.ID)
		return nil
	}
	if c.SchedulerService == nil {
		logger.Warnw("worker_publish_scheduled_skip_service_nil", "kind", payload.Kind, "id", payload.ID)
		return nil
	}
	published, err := c.SchedulerService.PublishScheduled(ctx, payload.Kind, payload.ID)
	if err != nil {
		if errors.Is(err, service.ErrInvalidStatus) {
			logger.Debugw("worker_publish_scheduled_skip_unknown_kind", "kind", payload.Kind, "id", payload.ID)
			return nil
		}
		logger.Warnw("worker_publish_scheduled_failed", "kind", payload.Kind, "id", payload.ID, "error", err)
		return err
	}
	if !published {
		// 已被改期或改为其他状态
		logger.Debugw("worker_publish_scheduled_skip_not_due", "kind", payload.Kind, "id", payload.ID)
	}
	return nil
}
