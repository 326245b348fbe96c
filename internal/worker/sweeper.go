package worker

import (
	"context"
	"time"

	"github.com/newsroom-next/internal/logger"
	"github.com/newsroom-next/internal/service"
)

const defaultSweepInterval = time.Minute

// Sweeper 周期性补偿：发布到期的定时内容，重新派发卡住的导入项
type Sweeper struct {
	scheduler *service.SchedulerService
	importer  *service.ImportService
	interval  time.Duration
}

// NewSweeper 创建补偿扫描器
func NewSweeper(scheduler *service.SchedulerService, importer *service.ImportService, intervalSeconds int) *Sweeper {
	interval := time.Duration(intervalSeconds) * time.Second
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	return &Sweeper{scheduler: scheduler, importer: importer, interval: interval}
}

// RunOnce 执行一轮扫描
func (s *Sweeper) RunOnce(ctx context.Context) {
	if s == nil {
		return
	}
	if s.scheduler != nil {
		result, err := s.scheduler.PublishDueScheduled(ctx)
		if err != nil {
			logger.Warnw("worker_publish_due_scheduled_failed", "error", err)
		} else if result.Posts > 0 || result.Pages > 0 {
			logger.Infow("worker_publish_due_scheduled", "posts", result.Posts, "pages", result.Pages)
		}
	}
	if s.importer != nil {
		if _, err := s.importer.RecoverStale(ctx); err != nil {
			logger.Warnw("worker_import_recover_stale_failed", "error", err)
		}
	}
}

// Run 启动后立即扫描一次，之后按间隔循环直到 ctx 结束
func (s *Sweeper) Run(ctx context.Context) {
	if s == nil {
		return
	}
	s.RunOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}
