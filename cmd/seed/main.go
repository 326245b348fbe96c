package main

import (
	"context"
	"flag"
	"os"

	"github.com/newsroom-next/internal/app"
	"github.com/newsroom-next/internal/config"
	"github.com/newsroom-next/internal/logger"
	"github.com/newsroom-next/internal/provider"
	"github.com/newsroom-next/internal/seed"
)

func main() {
	var opts seed.Options
	flag.IntVar(&opts.Posts, "posts", 20, "生成的文章数量")
	flag.IntVar(&opts.Pages, "pages", 3, "生成的页面数量")
	flag.Int64Var(&opts.Seed, "seed", 0, "随机种子，0 表示随机")
	flag.Parse()
	opts.AdminEmail = os.Getenv("NEWSROOM_SEED_ADMIN_EMAIL")
	opts.AdminUsername = os.Getenv("NEWSROOM_SEED_ADMIN_USERNAME")
	opts.AdminPassword = os.Getenv("NEWSROOM_SEED_ADMIN_PASSWORD")

	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()

	// 演示数据总是需要表结构
	cfg.Database.Migrate = true
	db, err := app.OpenDatabase(cfg)
	if err != nil {
		stdLog.Fatalf("Failed to open database: %v", err)
	}
	if db == nil {
		stdLog.Fatalf("database.dsn is empty, nothing to seed")
	}
	defer func() { _ = app.CloseDatabase(db) }()

	container, err := provider.NewContainer(cfg, db)
	if err != nil {
		stdLog.Fatalf("Failed to init container: %v", err)
	}
	defer container.Close()

	result, err := seed.New(container, opts.Seed).Run(context.Background(), opts)
	if err != nil {
		stdLog.Fatalf("Seed failed: %v", err)
	}
	stdLog.Printf("Seeded admin=%d posts=%d pages=%d menu_items=%d", result.AdminID, result.Posts, result.Pages, result.MenuItems)
}
