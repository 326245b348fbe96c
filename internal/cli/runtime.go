package cli

import (
	"errors"
	"fmt"

	"github.com/newsroom-next/internal/app"
	"github.com/newsroom-next/internal/config"
	"github.com/newsroom-next/internal/logger"
	"github.com/newsroom-next/internal/provider"

	"github.com/spf13/viper"
)

// Runtime 命令执行所需的依赖
type Runtime struct {
	Container *provider.Container
	closers   []func()
}

// Opener 构造运行时
type Opener func() (*Runtime, error)

// NewRuntime 包装已初始化的容器，closers 在 Close 时逆序执行
func NewRuntime(c *provider.Container, closers ...func()) *Runtime {
	return &Runtime{Container: c, closers: closers}
}

// Close 释放资源
func (r *Runtime) Close() {
	if r == nil {
		return
	}
	for i := len(r.closers) - 1; i >= 0; i-- {
		r.closers[i]()
	}
}

// OpenRuntime 读取配置并连接数据库
func OpenRuntime(envFile string) (*Runtime, error) {
	cfg, err := config.LoadFrom(viper.New(), envFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())

	db, err := app.OpenDatabase(cfg)
	if err != nil {
		return nil, err
	}
	if db == nil {
		return nil, errors.New("database.dsn is empty")
	}
	container, err := provider.NewContainer(cfg, db)
	if err != nil {
		_ = app.CloseDatabase(db)
		return nil, err
	}
	if !cfg.Queue.Enabled {
		container.ImportService.UseInlineDispatch()
	}
	return NewRuntime(container,
		func() { _ = app.CloseDatabase(db) },
		container.Close,
		func() { _ = logger.Z().Sync() },
	), nil
}
