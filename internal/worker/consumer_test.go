package worker

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/newsroom-next/internal/config"
	"github.com/newsroom-next/internal/constants"
	"github.com/newsroom-next/internal/models"
	"github.com/newsroom-next/internal/provider"
	"github.com/newsroom-next/internal/queue"

	"github.com/glebarez/sqlite"
	"github.com/hibiken/asynq"
	"gorm.io/gorm"
)

func setupWorkerTest(t *testing.T) (*Consumer, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:worker_%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	cfg := &config.Config{JWT: config.JWTConfig{SecretKey: "secret"}}
	c, err := provider.NewContainer(cfg, db)
	if err != nil {
		t.Fatalf("new container failed: %v", err)
	}
	return NewConsumer(c), db
}

func TestHandleImportProcessItem(t *testing.T) {
	consumer, db := setupWorkerTest(t)
	item := models.ImportQueueItem{BatchID: "b1", Title: "Queued Story", Content: "body", Status: constants.ImportStatusPending}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("create item failed: %v", err)
	}

	task, err := queue.NewImportItemTask(queue.ImportItemPayload{ItemID: item.ID, BatchID: "b1"})
	if err != nil {
		t.Fatalf("new task failed: %v", err)
	}
	if err := consumer.handleImportProcessItem(context.Background(), task); err != nil {
		t.Fatalf("handle import failed: %v", err)
	}

	var reloaded models.ImportQueueItem
	if err := db.First(&reloaded, item.ID).Error; err != nil {
		t.Fatalf("reload item failed: %v", err)
	}
	if reloaded.Status != constants.ImportStatusCompleted || reloaded.PostID == nil {
		t.Fatalf("expected completed item with post, got status=%s post=%v", reloaded.Status, reloaded.PostID)
	}

	missing, _ := queue.NewImportItemTask(queue.ImportItemPayload{ItemID: 9999})
	if err := consumer.handleImportProcessItem(context.Background(), missing); err != nil {
		t.Fatalf("missing item should be skipped, got %v", err)
	}
	if err := consumer.handleImportProcessItem(context.Background(), asynq.NewTask(queue.TaskImportProcessItem, []byte("{"))); err == nil {
		t.Fatalf("expected unmarshal error")
	}
}

func TestHandleImportProcessItemRecordsFailure(t *testing.T) {
	consumer, db := setupWorkerTest(t)
	item := models.ImportQueueItem{BatchID: "b2", Title: "No Body", Status: constants.ImportStatusPending}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("create item failed: %v", err)
	}
	task, _ := queue.NewImportItemTask(queue.ImportItemPayload{ItemID: item.ID, BatchID: "b2"})
	if err := consumer.handleImportProcessItem(context.Background(), task); err == nil {
		t.Fatalf("expected failure to surface to asynq")
	}
	var reloaded models.ImportQueueItem
	if err := db.First(&reloaded, item.ID).Error; err != nil {
		t.Fatalf("reload item failed: %v", err)
	}
	if reloaded.Status != constants.ImportStatusFailed || reloaded.ErrorMessage == nil {
		t.Fatalf("expected failed item with message, got %+v", reloaded)
	}
}

func TestHandlePublishScheduled(t *testing.T) {
	consumer, db := setupWorkerTest(t)
	at := time.Now().UTC().Add(-time.Minute)
	post := models.Post{Title: "Timed", Slug: "timed", Content: "x", Status: constants.ContentStatusScheduled, ScheduledAt: &at}
	if err := db.Create(&post).Error; err != nil {
		t.Fatalf("create post failed: %v", err)
	}

	task, _ := queue.NewPublishScheduledTask(queue.PublishScheduledPayload{Kind: constants.ContentKindPost, ID: post.ID})
	if err := consumer.handlePublishScheduled(context.Background(), task); err != nil {
		t.Fatalf("handle publish failed: %v", err)
	}
	var reloaded models.Post
	if err := db.First(&reloaded, post.ID).Error; err != nil {
		t.Fatalf("reload post failed: %v", err)
	}
	if reloaded.Status != constants.ContentStatusPublished {
		t.Fatalf("expected published, got %s", reloaded.Status)
	}

	unknown, _ := queue.NewPublishScheduledTask(queue.PublishScheduledPayload{Kind: "video", ID: post.ID})
	if err := consumer.handlePublishScheduled(context.Background(), unknown); err != nil {
		t.Fatalf("unknown kind should be skipped, got %v", err)
	}
}

func TestSweeperRunOnce(t *testing.T) {
	consumer, db := setupWorkerTest(t)
	at := time.Now().UTC().Add(-time.Minute)
	page := models.Page{Title: "Timed Page", Slug: "timed-page", Content: "x", Status: constants.ContentStatusScheduled, ScheduledAt: &at}
	if err := db.Create(&page).Error; err != nil {
		t.Fatalf("create page failed: %v", err)
	}

	sweeper := NewSweeper(consumer.SchedulerService, consumer.ImportService, 0)
	if sweeper.interval != defaultSweepInterval {
		t.Fatalf("expected default interval, got %v", sweeper.interval)
	}
	sweeper.RunOnce(context.Background())

	var reloaded models.Page
	if err := db.First(&reloaded, page.ID).Error; err != nil {
		t.Fatalf("reload page failed: %v", err)
	}
	if reloaded.Status != constants.ContentStatusPublished {
		t.Fatalf("expected sweep to publish page, got %s", reloaded.Status)
	}
}

func TestNewServiceRequiresQueue(t *testing.T) {
	if _, err := NewService(&config.Config{}, &Consumer{}); err == nil {
		t.Fatalf("expected error when queue disabled")
	}
}
