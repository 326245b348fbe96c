package service

import (
	"context"
	"testing"
	"time"

	"github.com/newsroom-next/internal/constants"
	"github.com/newsroom-next/internal/models"
	"github.com/newsroom-next/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestImportService(t *testing.T) (*ImportService, *gorm.DB) {
	t.Helper()
	db := setupServiceTestDB(t)
	svc := NewImportService(
		db,
		repository.NewImportQueueRepository(db),
		repository.NewPostRepository(db),
		repository.NewUserRepository(db),
		nil,
		300,
	)
	svc.spawn = func(fn func()) { fn() }
	svc.newBatchID = func() string { return "batch-1" }
	return svc, db
}

func TestImportStageRejectsEmptyPayload(t *testing.T) {
	svc, _ := newTestImportService(t)
	_, err := svc.Stage(context.Background(), nil)
	assert.ErrorIs(t, err, ErrInvalidImportPayload)
	_, err = svc.StageCSV(context.Background(), "title,content\n")
	assert.ErrorIs(t, err, ErrInvalidImportPayload)
}

func TestImportStageCSVStagesAndProcesses(t *testing.T) {
	svc, db := newTestImportService(t)
	admin := seedServiceUser(t, db, "importadmin", constants.RoleAdmin)

	// 后台处理在 spawn 中同步执行，先关闭以检查暂存状态
	svc.spawn = func(func()) {}
	batch, err := svc.StageCSV(context.Background(), "title,content,category,tags\nFirst Story,Body text,World,a;b\n")
	require.NoError(t, err)
	assert.Equal(t, "batch-1", batch.BatchID)
	assert.Equal(t, 1, batch.Count)
	require.Len(t, batch.Items, 1)

	item := batch.Items[0]
	assert.Equal(t, constants.ImportStatusPending, item.Status)
	assert.Equal(t, "First Story", item.Title)
	assert.Equal(t, "Body text", item.Content)
	require.NotNil(t, item.Category)
	assert.Equal(t, "World", *item.Category)
	require.NotNil(t, item.Tags)
	assert.Equal(t, "a;b", *item.Tags)
	assert.Nil(t, item.Excerpt)
	assert.Nil(t, item.FeaturedImageURL)

	require.NoError(t, svc.ProcessItem(context.Background(), item.ID))

	status, err := svc.BatchStatus("batch-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), status.Summary.Completed)
	require.NotNil(t, status.Items[0].PostID)
	assert.Equal(t, 1, status.Items[0].Attempts)

	post, err := repository.NewPostRepository(db).GetByID(*status.Items[0].PostID)
	require.NoError(t, err)
	require.NotNil(t, post)
	assert.Equal(t, "first-story", post.Slug)
	assert.Equal(t, constants.ContentStatusPublished, post.Status)
	assert.Equal(t, admin.ID, post.AuthorID)
	assert.NotNil(t, post.PublishedAt)

	// 重复处理不会生成第二篇文章
	require.NoError(t, svc.ProcessItem(context.Background(), item.ID))
	var count int64
	require.NoError(t, db.Model(&models.Post{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestImportStageDispatchesInline(t *testing.T) {
	svc, db := newTestImportService(t)

	batch, err := svc.Stage(context.Background(), []ImportPostInput{
		{Title: "One", Content: "body"},
		{Title: "Missing Content"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, batch.Count)

	status, err := svc.BatchStatus(batch.BatchID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), status.Summary.Completed)
	assert.Equal(t, int64(1), status.Summary.Failed)
	require.NotNil(t, status.Items[1].ErrorMessage)
	assert.Equal(t, "title and content required", *status.Items[1].ErrorMessage)

	var post models.Post
	require.NoError(t, db.First(&post).Error)
	assert.Equal(t, uint(0), post.AuthorID)

	_, err = svc.BatchStatus("unknown")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestImportProcessingRowWithPostIsCompleted(t *testing.T) {
	svc, db := newTestImportService(t)
	postID := uint(77)
	item := models.ImportQueueItem{
		BatchID: "b",
		Title:   "Half Done",
		Content: "body",
		Status:  constants.ImportStatusProcessing,
		PostID:  &postID,
	}
	require.NoError(t, db.Create(&item).Error)

	require.NoError(t, svc.ProcessItem(context.Background(), item.ID))

	var reloaded models.ImportQueueItem
	require.NoError(t, db.First(&reloaded, item.ID).Error)
	assert.Equal(t, constants.ImportStatusCompleted, reloaded.Status)
	var count int64
	require.NoError(t, db.Model(&models.Post{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)

	assert.ErrorIs(t, svc.ProcessItem(context.Background(), 9999), ErrNotFound)
}

func TestImportRecoverStale(t *testing.T) {
	svc, db := newTestImportService(t)
	old := time.Now().Add(-time.Hour)
	stale := models.ImportQueueItem{BatchID: "old", Title: "Stuck", Content: "body", Status: constants.ImportStatusPending}
	fresh := models.ImportQueueItem{BatchID: "new", Title: "Fresh", Content: "body", Status: constants.ImportStatusPending}
	require.NoError(t, db.Create(&stale).Error)
	require.NoError(t, db.Create(&fresh).Error)
	require.NoError(t, db.Model(&models.ImportQueueItem{}).Where("id = ?", stale.ID).UpdateColumn("updated_at", old).Error)

	recovered, err := svc.RecoverStale(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, recovered)

	var reloaded models.ImportQueueItem
	require.NoError(t, db.First(&reloaded, stale.ID).Error)
	assert.Equal(t, constants.ImportStatusCompleted, reloaded.Status)
	require.NoError(t, db.First(&reloaded, fresh.ID).Error)
	assert.Equal(t, constants.ImportStatusPending, reloaded.Status)
}

func TestImportProcessSkipsRowHeldByAnotherWorker(t *testing.T) {
	svc, db := newTestImportService(t)
	item := models.ImportQueueItem{BatchID: "b", Title: "Held", Content: "body", Status: constants.ImportStatusPending}
	require.NoError(t, db.Create(&item).Error)

	claimed, err := repository.NewImportQueueRepository(db).MarkProcessing(item.ID, time.Now().Add(-time.Minute))
	require.NoError(t, err)
	require.True(t, claimed)

	require.NoError(t, svc.ProcessItem(context.Background(), item.ID))

	var count int64
	require.NoError(t, db.Model(&models.Post{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
	var reloaded models.ImportQueueItem
	require.NoError(t, db.First(&reloaded, item.ID).Error)
	assert.Equal(t, constants.ImportStatusProcessing, reloaded.Status)
	assert.Equal(t, 1, reloaded.Attempts)
}

func TestImportRecoverStaleProcessingRow(t *testing.T) {
	svc, db := newTestImportService(t)
	stuck := models.ImportQueueItem{BatchID: "old", Title: "Crashed Worker", Content: "body", Status: constants.ImportStatusProcessing, Attempts: 1}
	require.NoError(t, db.Create(&stuck).Error)
	require.NoError(t, db.Model(&models.ImportQueueItem{}).Where("id = ?", stuck.ID).
		UpdateColumn("updated_at", time.Now().Add(-time.Hour)).Error)

	recovered, err := svc.RecoverStale(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, recovered)

	var reloaded models.ImportQueueItem
	require.NoError(t, db.First(&reloaded, stuck.ID).Error)
	assert.Equal(t, constants.ImportStatusCompleted, reloaded.Status)
	assert.Equal(t, 2, reloaded.Attempts)
	require.NotNil(t, reloaded.PostID)

	// 已复位并完成的行不会再被扫描
	recovered, err = svc.RecoverStale(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, recovered)
}
