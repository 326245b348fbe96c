package service

import (
	"context"

	"github.com/newsroom-next/internal/constants"
	"github.com/newsroom-next/internal/content"
	"github.com/newsroom-next/internal/logger"
	"github.com/newsroom-next/internal/models"
	"github.com/newsroom-next/internal/repository"
)

// TrendingService 热门话题服务
type TrendingService struct {
	repo       repository.TrendingRepository
	sourceFile string
	take       int
	shuffle    content.Shuffler
}

// NewTrendingService 创建热门话题服务
func NewTrendingService(repo repository.TrendingRepository, sourceFile string, take int) *TrendingService {
	if take <= 0 {
		take = constants.TrendingDefaultTake
	}
	return &TrendingService{repo: repo, sourceFile: sourceFile, take: take}
}

// Latest 最近的话题
func (s *TrendingService) Latest() ([]models.TrendingTopic, error) {
	return s.repo.ListLatest(constants.TrendingListLimit)
}

// Fetch 从话题来源随机抽取并按话题去重写入
func (s *TrendingService) Fetch(ctx context.Context) ([]models.TrendingTopic, error) {
	source, err := content.LoadTrendingTopics(s.sourceFile)
	if err != nil {
		return nil, err
	}
	picked := content.PickTopics(source, s.take, s.shuffle)
	saved := make([]models.TrendingTopic, 0, len(picked))
	for _, topic := range picked {
		row, err := s.repo.UpsertTopic(topic)
		if err != nil {
			return nil, err
		}
		saved = append(saved, *row)
	}
	logger.Infow("trending_topics_fetched", "count", len(saved), "source", s.sourceFile)
	return saved, nil
}
