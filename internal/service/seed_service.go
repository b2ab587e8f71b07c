package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/j4v3l/Duty-Tracker/config"
	"github.com/j4v3l/Duty-Tracker/internal/dto"
	"github.com/j4v3l/Duty-Tracker/internal/model"
	"github.com/j4v3l/Duty-Tracker/internal/repository"
)

// SeedService 初始化数据接口
type SeedService interface {
	// Bootstrap 补齐岗位目录；人员表为空时导入种子名册。可重复执行。
	Bootstrap(ctx context.Context, seed *config.SeedData) (*dto.SeedResponse, error)
}

type seedService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewSeedService 创建 SeedService 实例
func NewSeedService(repo *repository.Repository, logger *zap.Logger) SeedService {
	return &seedService{repo: repo, logger: logger}
}

func (s *seedService) Bootstrap(ctx context.Context, seed *config.SeedData) (*dto.SeedResponse, error) {
	result := &dto.SeedResponse{}

	err := runInTx(ctx, s.repo, s.logger, func(txRepo *repository.Repository) error {
		typesCreated, postsCreated, err := ensurePostCatalog(ctx, txRepo, seed, s.logger)
		result.PostTypesCreated = typesCreated
		result.PostsCreated = postsCreated
		if err != nil {
			return err
		}

		_, existing, err := txRepo.Personnel.List(ctx, 0, 1, true)
		if err != nil {
			s.logger.Error("统计人员失败", zap.Error(err))
			return err
		}
		if existing > 0 {
			result.PersonnelSkipped = true
			return nil
		}

		for _, sp := range seed.Personnel {
			person := &model.Personnel{Rank: sp.Rank, Name: sp.Name, IsActive: true}
			if err := txRepo.Personnel.Create(ctx, person); err != nil {
				s.logger.Error("写入种子人员失败", zap.String("name", sp.Name), zap.Error(err))
				return err
			}
			result.PersonnelCreated++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("初始化数据完成",
		zap.Int("post_types_created", result.PostTypesCreated),
		zap.Int("posts_created", result.PostsCreated),
		zap.Int("personnel_created", result.PersonnelCreated),
		zap.Bool("personnel_skipped", result.PersonnelSkipped),
	)
	return result, nil
}
