package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/newsroom-next/internal/constants"
	"github.com/newsroom-next/internal/content"
	"github.com/newsroom-next/internal/logger"
	"github.com/newsroom-next/internal/models"
	"github.com/newsroom-next/internal/observability"
	"github.com/newsroom-next/internal/queue"
	"github.com/newsroom-next/internal/repository"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
)

const (
	defaultImportStaleAfter = 300 * time.Second
	staleImportSweepLimit   = 200
)

// errImportItemIncomplete 暂存项缺少标题或正文
var errImportItemIncomplete = errors.New("title and content required")

// ImportPostInput 单条导入数据
type ImportPostInput struct {
	Title            string `json:"title"`
	Content          string `json:"content"`
	Excerpt          string `json:"excerpt"`
	FeaturedImageURL string `json:"featured_image_url"`
	Category         string `json:"category"`
	Tags             string `json:"tags"`
}

// ImportBatch 已暂存的导入批次
type ImportBatch struct {
	BatchID string                   `json:"batch_id"`
	Count   int                      `json:"count"`
	Items   []models.ImportQueueItem `json:"items"`
}

// ImportBatchStatus 批次处理进度
type ImportBatchStatus struct {
	BatchID string                         `json:"batch_id"`
	Items   []models.ImportQueueItem       `json:"items"`
	Summary repository.ImportStatusSummary `json:"summary"`
}

// ImportService 批量导入服务
// 每条数据先落库为 pending，再交给队列或进程内协程逐条处理
type ImportService struct {
	db          *gorm.DB
	importRepo  repository.ImportQueueRepository
	postRepo    repository.PostRepository
	userRepo    repository.UserRepository
	queueClient *queue.Client
	staleAfter  time.Duration
	spawn       func(fn func())
	newBatchID  func() string
	now         func() time.Time
}

// NewImportService 创建导入服务
func NewImportService(
	db *gorm.DB,
	importRepo repository.ImportQueueRepository,
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
	queueClient *queue.Client,
	staleAfterSeconds int,
) *ImportService {
	staleAfter := time.Duration(staleAfterSeconds) * time.Second
	if staleAfter <= 0 {
		staleAfter = defaultImportStaleAfter
	}
	return &ImportService{
		db:          db,
		importRepo:  importRepo,
		postRepo:    postRepo,
		userRepo:    userRepo,
		queueClient: queueClient,
		staleAfter:  staleAfter,
		spawn:       func(fn func()) { go fn() },
		newBatchID:  uuid.NewString,
		now:         time.Now,
	}
}

// UseInlineDispatch 未启用队列时在调用方协程内同步处理
// 命令行进程在 Stage 返回后即退出，不能依赖后台协程
func (s *ImportService) UseInlineDispatch() {
	s.spawn = func(fn func()) { fn() }
}

// StageCSV 解析 CSV 文本后暂存
func (s *ImportService) StageCSV(ctx context.Context, raw string) (*ImportBatch, error) {
	records := content.ParseSimpleCSV(raw)
	inputs := make([]ImportPostInput, 0, len(records))
	for _, record := range records {
		inputs = append(inputs, ImportPostInput{
			Title:            record.Get("title"),
			Content:          record.Get("content"),
			Excerpt:          record.Get("excerpt"),
			FeaturedImageURL: record.Get("featured_image_url"),
			Category:         record.Get("category"),
			Tags:             record.Get("tags"),
		})
	}
	return s.Stage(ctx, inputs)
}

// Stage 暂存导入数据并派发处理
// 可选字段为空时存为 NULL
func (s *ImportService) Stage(ctx context.Context, inputs []ImportPostInput) (*ImportBatch, error) {
	if len(inputs) == 0 {
		return nil, ErrInvalidImportPayload
	}
	batchID := s.newBatchID()
	items := make([]models.ImportQueueItem, 0, len(inputs))
	for _, input := range inputs {
		items = append(items, models.ImportQueueItem{
			BatchID:          batchID,
			Title:            strings.TrimSpace(input.Title),
			Content:          strings.TrimSpace(input.Content),
			Excerpt:          optionalText(&input.Excerpt),
			FeaturedImageURL: optionalText(&input.FeaturedImageURL),
			Category:         optionalText(&input.Category),
			Tags:             optionalText(&input.Tags),
			Status:           constants.ImportStatusPending,
		})
	}
	if err := s.importRepo.CreateBatch(items); err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	s.dispatch(batchID, ids)
	logger.Infow("import_batch_staged", "batch_id", batchID, "count", len(items))
	return &ImportBatch{BatchID: batchID, Count: len(items), Items: items}, nil
}

// dispatch 队列可用时逐条入队，否则在后台协程顺序处理
func (s *ImportService) dispatch(batchID string, ids []uint) {
	if s.queueClient.Enabled() {
		for _, id := range ids {
			payload := queue.ImportItemPayload{ItemID: id, BatchID: batchID}
			if err := s.queueClient.EnqueueImportItem(payload); err != nil {
				// 入队失败的行保持 pending，由超时扫描重新派发
				logger.Warnw("import_item_enqueue_failed", "item_id", id, "batch_id", batchID, "error", err)
			}
		}
		return
	}
	s.spawn(func() {
		for _, id := range ids {
			if err := s.ProcessItem(context.Background(), id); err != nil {
				logger.Warnw("import_item_failed", "item_id", id, "batch_id", batchID, "error", err)
			}
		}
	})
}

// ProcessItem 处理单条暂存项，可重复调用
func (s *ImportService) ProcessItem(ctx context.Context, id uint) (err error) {
	_, span := observability.StartSpan(ctx, "import.process_item", attribute.Int("import.item_id", int(id)))
	defer func() { observability.EndSpan(span, err) }()

	item, err := s.importRepo.GetByID(id)
	if err != nil {
		return err
	}
	if item == nil {
		return ErrNotFound
	}
	switch {
	case item.Status == constants.ImportStatusCompleted:
		return nil
	case item.PostID != nil:
		// 文章已写入但状态未落地，补记完成
		return s.importRepo.MarkCompleted(id, nil)
	}

	claimed, err := s.importRepo.MarkProcessing(id, s.now().Add(-s.staleAfter))
	if err != nil {
		return err
	}
	if !claimed {
		// 其他 worker 正在处理或已处理完成
		logger.Debugw("import_item_claim_skipped", "item_id", id, "status", item.Status)
		return nil
	}

	if item.Title == "" || item.Content == "" {
		return s.fail(id, errImportItemIncomplete)
	}

	authorID, err := s.systemAuthorID()
	if err != nil {
		return s.fail(id, err)
	}
	now := s.now()
	post := &models.Post{
		Title:            item.Title,
		Slug:             content.Slugify(item.Title),
		Content:          item.Content,
		Excerpt:          item.Excerpt,
		FeaturedImageURL: item.FeaturedImageURL,
		Category:         item.Category,
		Tags:             item.Tags,
		AuthorID:         authorID,
		Status:           constants.ContentStatusPublished,
		PublishedAt:      &now,
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.postRepo.WithTx(tx).Create(post); err != nil {
			return err
		}
		return s.importRepo.WithTx(tx).MarkCompleted(id, &post.ID)
	})
	if err != nil {
		return s.fail(id, err)
	}
	observability.RecordImportItem(constants.ImportStatusCompleted)
	logger.Infow("import_item_completed", "item_id", id, "batch_id", item.BatchID, "post_id", post.ID)
	return nil
}

func (s *ImportService) fail(id uint, cause error) error {
	if err := s.importRepo.MarkFailed(id, cause.Error()); err != nil {
		logger.Errorw("import_item_mark_failed_error", "item_id", id, "error", err)
	}
	observability.RecordImportItem(constants.ImportStatusFailed)
	return cause
}

// systemAuthorID 导入文章归属首个管理员，不存在时为 0
func (s *ImportService) systemAuthorID() (uint, error) {
	admin, err := s.userRepo.FirstAdmin()
	if err != nil {
		return 0, err
	}
	if admin == nil {
		return 0, nil
	}
	return admin.ID, nil
}

// BatchStatus 查询批次进度
func (s *ImportService) BatchStatus(batchID string) (*ImportBatchStatus, error) {
	batchID = strings.TrimSpace(batchID)
	if batchID == "" {
		return nil, ErrNotFound
	}
	items, err := s.importRepo.ListByBatch(batchID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrNotFound
	}
	summary, err := s.importRepo.SummarizeBatch(batchID)
	if err != nil {
		return nil, err
	}
	return &ImportBatchStatus{BatchID: batchID, Items: items, Summary: summary}, nil
}

// RecoverStale 重新派发长时间停留在 pending/processing 的暂存项
func (s *ImportService) RecoverStale(ctx context.Context) (int, error) {
	staleBefore := s.now().Add(-s.staleAfter)
	items, err := s.importRepo.ListStale(repository.StaleImportFilter{
		Before: staleBefore,
		Limit:  staleImportSweepLimit,
	})
	if err != nil {
		return 0, err
	}
	if len(items) == 0 {
		return 0, nil
	}
	byBatch := make(map[string][]uint)
	order := make([]string, 0)
	for _, item := range items {
		requeued, err := s.importRepo.Requeue(item.ID, staleBefore)
		if err != nil {
			logger.Warnw("import_item_requeue_failed", "item_id", item.ID, "error", err)
			continue
		}
		if !requeued {
			continue
		}
		if _, ok := byBatch[item.BatchID]; !ok {
			order = append(order, item.BatchID)
		}
		byBatch[item.BatchID] = append(byBatch[item.BatchID], item.ID)
	}
	recovered := 0
	for _, batchID := range order {
		ids := byBatch[batchID]
		s.dispatch(batchID, ids)
		recovered += len(ids)
	}
	logger.Infow("import_stale_recovered", "count", recovered)
	return recovered, nil
}
