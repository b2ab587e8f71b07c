package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/j4v3l/Duty-Tracker/internal/dto"
	"github.com/j4v3l/Duty-Tracker/internal/model"
	"github.com/j4v3l/Duty-Tracker/internal/repository"
)

// ── 人员模块业务错误 ──

var (
	ErrPersonnelNotFound = errors.New("人员不存在")
)

// PersonnelService 人员业务接口
// 人员只做停用，不做物理删除
type PersonnelService interface {
	Create(ctx context.Context, req *dto.CreatePersonnelRequest) (*dto.PersonnelResponse, error)
	GetByID(ctx context.Context, id string) (*dto.PersonnelResponse, error)
	List(ctx context.Context, req *dto.PersonnelListRequest) ([]dto.PersonnelResponse, int64, error)
	Deactivate(ctx context.Context, id string) (*dto.PersonnelResponse, error)
}

type personnelService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewPersonnelService 创建 PersonnelService 实例
func NewPersonnelService(repo *repository.Repository, logger *zap.Logger) PersonnelService {
	return &personnelService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *personnelService) Create(ctx context.Context, req *dto.CreatePersonnelRequest) (*dto.PersonnelResponse, error) {
	person := &model.Personnel{
		Rank:     req.Rank,
		Name:     req.Name,
		IsActive: true,
	}

	if err := s.repo.Personnel.Create(ctx, person); err != nil {
		s.logger.Error("创建人员失败", zap.Error(err))
		return nil, err
	}

	resp := toPersonnelResponse(person)
	return &resp, nil
}

// ────────────────────── GetByID ──────────────────────

func (s *personnelService) GetByID(ctx context.Context, id string) (*dto.PersonnelResponse, error) {
	person, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toPersonnelResponse(person)
	return &resp, nil
}

// ────────────────────── List ──────────────────────

func (s *personnelService) List(ctx context.Context, req *dto.PersonnelListRequest) ([]dto.PersonnelResponse, int64, error) {
	personnel, total, err := s.repo.Personnel.List(ctx, req.GetOffset(), req.GetPageSize(), req.IncludeInactive)
	if err != nil {
		s.logger.Error("列出人员失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.PersonnelResponse, 0, len(personnel))
	for i := range personnel {
		result = append(result, toPersonnelResponse(&personnel[i]))
	}
	return result, total, nil
}

// ────────────────────── Deactivate ──────────────────────

func (s *personnelService) Deactivate(ctx context.Context, id string) (*dto.PersonnelResponse, error) {
	person, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if person.IsActive {
		person.IsActive = false
		if err := s.repo.Personnel.Update(ctx, person); err != nil {
			s.logger.Error("停用人员失败", zap.String("id", id), zap.Error(err))
			return nil, err
		}
		s.logger.Info("人员已停用", zap.String("id", id), zap.String("full_name", person.FullName()))
	}

	resp := toPersonnelResponse(person)
	return &resp, nil
}

// ── 内部方法 ──

func (s *personnelService) get(ctx context.Context, id string) (*model.Personnel, error) {
	person, err := s.repo.Personnel.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPersonnelNotFound
		}
		s.logger.Error("查询人员失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return person, nil
}

func toPersonnelResponse(p *model.Personnel) dto.PersonnelResponse {
	return dto.PersonnelResponse{
		ID:        p.PersonnelID,
		Rank:      p.Rank,
		Name:      p.Name,
		FullName:  p.FullName(),
		IsActive:  p.IsActive,
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
	}
}
