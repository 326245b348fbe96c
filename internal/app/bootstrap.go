package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/newsroom-next/internal/config"
	"github.com/newsroom-next/internal/logger"
	"github.com/newsroom-next/internal/models"
	"github.com/newsroom-next/internal/observability"
	"github.com/newsroom-next/internal/provider"
	"github.com/newsroom-next/internal/router"
	"github.com/newsroom-next/internal/worker"

	"gorm.io/gorm"
)

const minSecretLength = 32

// OpenDatabase 按配置打开数据库，需要时执行迁移
// 未配置 DSN 时返回 nil, nil
func OpenDatabase(cfg *config.Config) (*gorm.DB, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if !cfg.Database.Configured() {
		return nil, nil
	}
	db, err := models.OpenDB(cfg.Database.Driver, cfg.Database.DSN, cfg.Database.LogSQL, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if cfg.Database.Migrate {
		if err := models.AutoMigrate(db); err != nil {
			return nil, fmt.Errorf("migrate database: %w", err)
		}
	}
	return db, nil
}

// CloseDatabase 关闭底层连接池
func CloseDatabase(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// IsWeakSecret 判断密钥是否过短或仍为示例值
func IsWeakSecret(secret string) bool {
	if len(secret) < minSecretLength {
		return true
	}
	normalized := strings.ToLower(secret)
	return strings.Contains(normalized, "change-me") ||
		strings.Contains(normalized, "change-in-production") ||
		strings.Contains(normalized, "your-secret-key")
}

type namedSecret struct {
	key   string
	value string
}

// CheckSecrets 生产模式下拒绝弱密钥，其余模式仅告警
func CheckSecrets(cfg *config.Config) error {
	secrets := []namedSecret{{key: "jwt.secret", value: cfg.JWT.SecretKey}}
	if cfg.Security.CSRF.Enabled {
		secrets = append(secrets, namedSecret{key: "session.csrf_secret", value: cfg.Session.CSRFSecret})
	}
	for _, secret := range secrets {
		if !IsWeakSecret(secret.value) {
			continue
		}
		if cfg.Server.IsRelease() {
			return fmt.Errorf("%s is too weak for release mode", secret.key)
		}
		logger.Warnw("config_weak_secret", "key", secret.key)
	}
	return nil
}

// BuildRunner 按模式组装服务
func BuildRunner(cfg *config.Config, container *provider.Container, mode string) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if container == nil {
		return nil, errors.New("container is nil")
	}
	if err := ValidateMode(mode); err != nil {
		return nil, err
	}

	var services []Service

	if mode == ModeAll || mode == ModeAPI {
		engine := router.SetupRouter(cfg, container)
		addr := cfg.Server.Host + ":" + cfg.Server.Port
		services = append(services, NewHTTPService(addr, engine))
	}

	if mode == ModeAll || mode == ModeWorker {
		switch {
		case !container.DatabaseReady():
			// 未配置数据库时没有可执行的后台任务
			if mode == ModeWorker {
				return nil, errors.New("worker mode requires a configured database")
			}
			logger.Warnw("app_background_jobs_skipped", "reason", "database_not_configured")
		case cfg.Queue.Enabled:
			workerService, err := worker.NewService(cfg, worker.NewConsumer(container))
			if err != nil {
				return nil, err
			}
			services = append(services, workerService)
		default:
			sweeper := worker.NewSweeper(container.SchedulerService, container.ImportService, cfg.Scheduler.SweepIntervalSeconds)
			services = append(services, NewSweeperService(sweeper))
		}
	}

	if len(services) == 0 {
		return nil, errors.New("no services initialized (check mode and config)")
	}
	return NewRunner(services...), nil
}

// Run 应用启动入口
func Run(opts Options) error {
	opts = normalizeOptions(opts)
	cfg := opts.Config
	if cfg == nil {
		return errors.New("config is nil")
	}
	if err := ValidateMode(opts.Mode); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := CheckSecrets(cfg); err != nil {
		return err
	}

	shutdownTracing, err := observability.InitTracing(cfg.Observability.Tracing, cfg.Server.Mode)
	if err != nil {
		return err
	}

	db, err := OpenDatabase(cfg)
	if err != nil {
		_ = shutdownTracing(context.Background())
		return err
	}
	if db == nil {
		opts.Logger.Warnw("app_database_not_configured", "setup", "/setup")
	}

	container, err := provider.NewContainer(cfg, db)
	if err != nil {
		_ = CloseDatabase(db)
		_ = shutdownTracing(context.Background())
		return err
	}

	runner, err := BuildRunner(cfg, container, opts.Mode)
	if err != nil {
		container.Close()
		_ = CloseDatabase(db)
		_ = shutdownTracing(context.Background())
		return err
	}
	runner.OnShutdown(func(ctx context.Context) error { return shutdownTracing(ctx) })
	runner.OnShutdown(func(context.Context) error { return CloseDatabase(db) })
	runner.OnShutdown(func(context.Context) error {
		container.Close()
		return nil
	})

	opts.Logger.Infow("app_start",
		"addr", cfg.Server.Host+":"+cfg.Server.Port,
		"mode", opts.Mode,
		"database_configured", db != nil,
		"queue_enabled", cfg.Queue.Enabled,
	)
	return RunWithOptions(runner, opts)
}
