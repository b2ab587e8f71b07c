package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/j4v3l/Duty-Tracker/config"
	"github.com/j4v3l/Duty-Tracker/internal/dto"
	"github.com/j4v3l/Duty-Tracker/internal/model"
	"github.com/j4v3l/Duty-Tracker/internal/repository"
)

// ── 岗位模块业务错误 ──

var (
	ErrPostTypeNotFound  = errors.New("岗位类型不存在")
	ErrPostTypeNameTaken = errors.New("岗位类型名称已存在")
	ErrPostNotFound      = errors.New("岗位不存在")
	ErrPostNameTaken     = errors.New("该类型下岗位名称已存在")
)

// PostService 岗位与岗位类型业务接口
type PostService interface {
	ListPostTypes(ctx context.Context) ([]dto.PostTypeResponse, error)
	CreatePostType(ctx context.Context, req *dto.CreatePostTypeRequest) (*dto.PostTypeResponse, error)
	ListPosts(ctx context.Context) ([]dto.PostResponse, error)
	CreatePost(ctx context.Context, req *dto.CreatePostRequest) (*dto.PostResponse, error)
	// SetupPosts 幂等地补齐标准岗位类型与岗位（名册导入依赖这些岗位）
	SetupPosts(ctx context.Context) (*dto.SetupPostsResponse, error)
}

type postService struct {
	repo     *repository.Repository
	standard *config.SeedData
	logger   *zap.Logger
}

// NewPostService 创建 PostService 实例；standard 提供标准岗位目录
func NewPostService(repo *repository.Repository, standard *config.SeedData, logger *zap.Logger) PostService {
	return &postService{repo: repo, standard: standard, logger: logger}
}

// ────────────────────── PostType ──────────────────────

func (s *postService) ListPostTypes(ctx context.Context) ([]dto.PostTypeResponse, error) {
	types, err := s.repo.PostType.List(ctx)
	if err != nil {
		s.logger.Error("列出岗位类型失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.PostTypeResponse, 0, len(types))
	for i := range types {
		result = append(result, *toPostTypeResponse(&types[i]))
	}
	return result, nil
}

func (s *postService) CreatePostType(ctx context.Context, req *dto.CreatePostTypeRequest) (*dto.PostTypeResponse, error) {
	_, err := s.repo.PostType.GetByName(ctx, req.Name)
	if err == nil {
		return nil, ErrPostTypeNameTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询岗位类型失败", zap.String("name", req.Name), zap.Error(err))
		return nil, err
	}

	pt := &model.PostType{
		Name:              req.Name,
		Description:       req.Description,
		EquipmentRequired: model.StringArray(req.EquipmentRequired),
		MeetingTime:       req.MeetingTime,
		MeetingLocation:   req.MeetingLocation,
		PersonnelRequired: req.PersonnelRequired,
		DifficultyWeight:  req.DifficultyWeight,
	}
	if err := s.repo.PostType.Create(ctx, pt); err != nil {
		s.logger.Error("创建岗位类型失败", zap.String("name", req.Name), zap.Error(err))
		return nil, err
	}

	return toPostTypeResponse(pt), nil
}

// ────────────────────── Post ──────────────────────

func (s *postService) ListPosts(ctx context.Context) ([]dto.PostResponse, error) {
	posts, err := s.repo.Post.ListActive(ctx)
	if err != nil {
		s.logger.Error("列出岗位失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.PostResponse, 0, len(posts))
	for i := range posts {
		result = append(result, *toPostResponse(&posts[i]))
	}
	return result, nil
}

func (s *postService) CreatePost(ctx context.Context, req *dto.CreatePostRequest) (*dto.PostResponse, error) {
	pt, err := s.repo.PostType.GetByID(ctx, req.PostTypeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostTypeNotFound
		}
		s.logger.Error("查询岗位类型失败", zap.String("id", req.PostTypeID), zap.Error(err))
		return nil, err
	}

	_, err = s.repo.Post.GetByTypeAndName(ctx, pt.PostTypeID, req.Name)
	if err == nil {
		return nil, ErrPostNameTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询岗位失败", zap.String("name", req.Name), zap.Error(err))
		return nil, err
	}

	post := &model.Post{
		Name:       req.Name,
		PostTypeID: pt.PostTypeID,
		IsActive:   true,
	}
	if err := s.repo.Post.Create(ctx, post); err != nil {
		s.logger.Error("创建岗位失败", zap.String("name", req.Name), zap.Error(err))
		return nil, err
	}
	post.PostType = pt

	return toPostResponse(post), nil
}

// ────────────────────── SetupPosts ──────────────────────

func (s *postService) SetupPosts(ctx context.Context) (*dto.SetupPostsResponse, error) {
	result := &dto.SetupPostsResponse{}
	err := runInTx(ctx, s.repo, s.logger, func(txRepo *repository.Repository) error {
		typesCreated, postsCreated, err := ensurePostCatalog(ctx, txRepo, s.standard, s.logger)
		result.PostTypesCreated = typesCreated
		result.PostsCreated = postsCreated
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("标准岗位检查完成",
		zap.Int("post_types_created", result.PostTypesCreated),
		zap.Int("posts_created", result.PostsCreated),
	)
	return result, nil
}

// ensurePostCatalog 补齐目录中缺失的岗位类型与岗位，已存在的不做修改
func ensurePostCatalog(ctx context.Context, repo *repository.Repository, catalog *config.SeedData, logger *zap.Logger) (int, int, error) {
	typesCreated, postsCreated := 0, 0
	typeIDs := make(map[string]string, len(catalog.PostTypes))

	for _, spt := range catalog.PostTypes {
		pt, err := repo.PostType.GetByName(ctx, spt.Name)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				logger.Error("查询岗位类型失败", zap.String("name", spt.Name), zap.Error(err))
				return typesCreated, postsCreated, err
			}
			pt = &model.PostType{
				Name:              spt.Name,
				Description:       spt.Description,
				EquipmentRequired: model.StringArray(spt.EquipmentRequired),
				MeetingTime:       spt.MeetingTime,
				MeetingLocation:   spt.MeetingLocation,
				PersonnelRequired: spt.PersonnelRequired,
				DifficultyWeight:  spt.DifficultyWeight,
			}
			if err := repo.PostType.Create(ctx, pt); err != nil {
				logger.Error("创建岗位类型失败", zap.String("name", spt.Name), zap.Error(err))
				return typesCreated, postsCreated, err
			}
			typesCreated++
		}
		typeIDs[spt.Name] = pt.PostTypeID
	}

	for _, sp := range catalog.Posts {
		typeID := typeIDs[sp.PostType]
		_, err := repo.Post.GetByTypeAndName(ctx, typeID, sp.Name)
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error("查询岗位失败", zap.String("name", sp.Name), zap.Error(err))
			return typesCreated, postsCreated, err
		}
		post := &model.Post{Name: sp.Name, PostTypeID: typeID, IsActive: true}
		if err := repo.Post.Create(ctx, post); err != nil {
			logger.Error("创建岗位失败", zap.String("name", sp.Name), zap.Error(err))
			return typesCreated, postsCreated, err
		}
		postsCreated++
	}

	return typesCreated, postsCreated, nil
}

// ── 转换 ──

func toPostTypeResponse(pt *model.PostType) *dto.PostTypeResponse {
	equipment := []string(pt.EquipmentRequired)
	if equipment == nil {
		equipment = []string{}
	}
	return &dto.PostTypeResponse{
		ID:                pt.PostTypeID,
		Name:              pt.Name,
		Description:       pt.Description,
		EquipmentRequired: equipment,
		MeetingTime:       pt.MeetingTime,
		MeetingLocation:   pt.MeetingLocation,
		PersonnelRequired: pt.PersonnelRequired,
		DifficultyWeight:  pt.DifficultyWeight,
	}
}

func toPostResponse(p *model.Post) *dto.PostResponse {
	resp := &dto.PostResponse{
		ID:       p.PostID,
		Name:     p.Name,
		IsActive: p.IsActive,
	}
	if p.PostType != nil {
		resp.PostType = toPostTypeResponse(p.PostType)
	}
	return resp
}
