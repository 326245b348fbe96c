package queue

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/newsroom-next/internal/config"
	"github.com/newsroom-next/internal/constants"
	"github.com/newsroom-next/internal/logger"

	"github.com/hibiken/asynq"
)

const (
	// DefaultQueue 导入等批量任务
	DefaultQueue = constants.QueueDefault
	// CriticalQueue 定时发布等时效敏感任务
	CriticalQueue = constants.QueueCritical
)

const (
	defaultConcurrency     = 10
	publishMaxRetry        = 3
	workerShutdownTimeout  = 8 * time.Second
	publishTaskIDRetention = 24 * time.Hour
)

// Client asynq 客户端，未启用时所有投递都是空操作
type Client struct {
	client *asynq.Client
}

// NewClient 按配置创建客户端，队列关闭时返回禁用的客户端
func NewClient(cfg *config.QueueConfig) (*Client, error) {
	if cfg == nil || !cfg.Enabled {
		return &Client{}, nil
	}
	return NewClientFromRedisOpt(RedisOpt(cfg)), nil
}

// NewClientFromRedisOpt 使用给定连接创建客户端
func NewClientFromRedisOpt(opt asynq.RedisConnOpt) *Client {
	return &Client{client: asynq.NewClient(opt)}
}

func (c *Client) Enabled() bool {
	return c != nil && c.client != nil
}

func (c *Client) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}

// EnqueueImportItem 投递导入任务
// 不自动重试，失败原因记录在暂存行上，由运维决定是否重新导入
func (c *Client) EnqueueImportItem(payload ImportItemPayload, opts ...asynq.Option) error {
	if !c.Enabled() {
		return nil
	}
	task, err := NewImportItemTask(payload)
	if err != nil {
		return err
	}
	_, err = c.client.Enqueue(task, append([]asynq.Option{asynq.Queue(DefaultQueue), asynq.MaxRetry(0)}, opts...)...)
	return err
}

// EnqueuePublishScheduled 投递到点执行的发布任务
// 同一内容同一时间点只会存在一个任务，重复保存不会重复投递
func (c *Client) EnqueuePublishScheduled(payload PublishScheduledPayload, at time.Time) error {
	if !c.Enabled() {
		return nil
	}
	task, err := NewPublishScheduledTask(payload)
	if err != nil {
		return err
	}
	options := []asynq.Option{
		asynq.Queue(CriticalQueue),
		asynq.MaxRetry(publishMaxRetry),
		asynq.TaskID(publishTaskID(payload, at)),
		asynq.Retention(publishTaskIDRetention),
	}
	if at.After(time.Now()) {
		options = append(options, asynq.ProcessAt(at))
	}
	_, err = c.client.Enqueue(task, options...)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		return nil
	}
	return err
}

func publishTaskID(payload PublishScheduledPayload, at time.Time) string {
	return fmt.Sprintf("publish:%s:%d:%d", payload.Kind, payload.ID, at.Unix())
}

// BuildServerConfig 生成 worker 配置，任务失败统一写日志
func BuildServerConfig(cfg *config.QueueConfig) (asynq.RedisClientOpt, asynq.Config) {
	concurrency := defaultConcurrency
	queues := map[string]int{DefaultQueue: 2, CriticalQueue: 1}
	if cfg != nil {
		if cfg.Concurrency > 0 {
			concurrency = cfg.Concurrency
		}
		if len(cfg.Queues) > 0 {
			queues = cfg.Queues
		}
	}
	return RedisOpt(cfg), asynq.Config{
		Concurrency:     concurrency,
		Queues:          queues,
		ShutdownTimeout: workerShutdownTimeout,
		Logger:          logger.S(),
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			retried, _ := asynq.GetRetryCount(ctx)
			maxRetry, _ := asynq.GetMaxRetry(ctx)
			logger.Warnw("queue_task_failed",
				"type", task.Type(),
				"retried", retried,
				"max_retry", maxRetry,
				"error", err,
			)
		}),
	}
}

// RedisOpt 队列使用的 redis 连接
func RedisOpt(cfg *config.QueueConfig) asynq.RedisClientOpt {
	opt := asynq.RedisClientOpt{Addr: "127.0.0.1:6379"}
	if cfg == nil {
		return opt
	}
	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		host = "127.0.0.1"
	}
	port := cfg.Port
	if port <= 0 {
		port = 6379
	}
	opt.Addr = net.JoinHostPort(host, strconv.Itoa(port))
	opt.Password = cfg.Password
	opt.DB = cfg.DB
	return opt
}
