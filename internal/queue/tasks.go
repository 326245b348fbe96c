package queue

import (
	"encoding/json"

	"github.com/newsroom-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskImportProcessItem 处理单个导入暂存项
	TaskImportProcessItem = constants.TaskImportProcessItem
	// TaskContentPublishScheduled 定时发布内容
	TaskContentPublishScheduled = constants.TaskContentPublishScheduled
)

// ImportItemPayload 导入任务载荷
type ImportItemPayload struct {
	ItemID  uint   `json:"item_id"`
	BatchID string `json:"batch_id"`
}

// PublishScheduledPayload 定时发布任务载荷
type PublishScheduledPayload struct {
	Kind string `json:"kind"` // post / page
	ID   uint   `json:"id"`
}

// NewImportItemTask 创建导入任务
func NewImportItemTask(payload ImportItemPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskImportProcessItem, body), nil
}

// NewPublishScheduledTask 创建定时发布任务
func NewPublishScheduledTask(payload PublishScheduledPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskContentPublishScheduled, body), nil
}
