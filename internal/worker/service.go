package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/newsroom-next/internal/config"
	"github.com/newsroom-next/internal/logger"
	"github.com/newsroom-next/internal/queue"

	"github.com/hibiken/asynq"
)

// Service asynq 消费者加定时扫描
// 信号由 app.Runner 统一处理，这里只跟随 ctx
type Service struct {
	server   *asynq.Server
	mux      *asynq.ServeMux
	consumer *Consumer
	sweeper  *Sweeper
	wg       sync.WaitGroup
}

// NewService 队列未启用时返回错误，由调用方改用 Sweeper
func NewService(cfg *config.Config, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Queue.Enabled {
		return nil, errors.New("worker: queue disabled")
	}
	if consumer == nil || consumer.Container == nil {
		return nil, errors.New("worker: consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(&cfg.Queue)
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	return &Service{
		server:   asynq.NewServer(opt, serverCfg),
		mux:      mux,
		consumer: consumer,
		sweeper:  NewSweeper(consumer.SchedulerService, consumer.ImportService, cfg.Scheduler.SweepIntervalSeconds),
	}, nil
}

func (s *Service) Name() string { return "worker" }

// Start 启动消费者并阻塞到 ctx 结束
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil {
		return errors.New("worker: not initialized")
	}
	if err := s.server.Start(s.mux); err != nil {
		return fmt.Errorf("worker: start asynq server: %w", err)
	}
	if s.consumer.DatabaseReady() {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.sweeper.Run(ctx)
		}()
	}
	logger.Infow("worker_started")
	<-ctx.Done()
	return nil
}

// Stop 等待进行中的任务结束，超时由 asynq ShutdownTimeout 控制
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	done := make(chan struct{})
	go func() {
		s.server.Shutdown()
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("worker: shutdown: %w", ctx.Err())
	}
}
