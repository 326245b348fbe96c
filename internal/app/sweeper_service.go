package app

import (
	"context"
	"errors"

	"github.com/newsroom-next/internal/worker"
)

// SweeperService 未启用队列时在进程内运行补偿扫描
type SweeperService struct {
	sweeper *worker.Sweeper
}

// NewSweeperService 创建进程内扫描服务
func NewSweeperService(sweeper *worker.Sweeper) *SweeperService {
	return &SweeperService{sweeper: sweeper}
}

// Name 服务名称
func (s *SweeperService) Name() string {
	return "sweeper"
}

// Start 阻塞运行直到 ctx 结束
func (s *SweeperService) Start(ctx context.Context) error {
	if s == nil || s.sweeper == nil {
		return errors.New("sweeper not initialized")
	}
	s.sweeper.Run(ctx)
	return nil
}

// Stop 由 ctx 取消驱动退出
func (s *SweeperService) Stop(ctx context.Context) error {
	return nil
}
