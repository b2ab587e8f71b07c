package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/j4v3l/Duty-Tracker/config"
	"github.com/j4v3l/Duty-Tracker/internal/dto"
	"github.com/j4v3l/Duty-Tracker/internal/model"
	"github.com/j4v3l/Duty-Tracker/internal/repository"
)

// ── 值班分配模块业务错误 ──

var (
	ErrInvalidDutyDate   = errors.New("值班日期格式错误，应为 YYYY-MM-DD")
	ErrAssignmentExists  = errors.New("该人员当日已分配到此岗位")
	ErrPersonnelInactive = errors.New("人员已停用")
)

// AssignmentService 值班分配业务接口
type AssignmentService interface {
	List(ctx context.Context, req *dto.AssignmentListRequest) ([]dto.AssignmentResponse, int64, error)
	// Create 手工录入一条分配，并在同一事务中累计公平性
	Create(ctx context.Context, req *dto.CreateAssignmentRequest) (*dto.AssignmentResponse, error)
}

type assignmentService struct {
	repo   *repository.Repository
	cfg    *config.RosterConfig
	locker MutationLocker
	logger *zap.Logger
	now    func() time.Time
}

// NewAssignmentService 创建 AssignmentService 实例
func NewAssignmentService(cfg *config.RosterConfig, repo *repository.Repository, locker MutationLocker, logger *zap.Logger) AssignmentService {
	return &assignmentService{
		repo:   repo,
		cfg:    cfg,
		locker: locker,
		logger: logger,
		now:    time.Now,
	}
}

// ────────────────────── List ──────────────────────

func (s *assignmentService) List(ctx context.Context, req *dto.AssignmentListRequest) ([]dto.AssignmentResponse, int64, error) {
	var dutyDate *time.Time
	if req.DutyDate != "" {
		d, err := parseStrictDate(req.DutyDate)
		if err != nil {
			return nil, 0, err
		}
		dutyDate = &d
	}

	assignments, total, err := s.repo.Assignment.List(ctx, dutyDate, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("列出值班分配失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.AssignmentResponse, 0, len(assignments))
	for i := range assignments {
		result = append(result, toAssignmentResponse(&assignments[i]))
	}
	return result, total, nil
}

// ────────────────────── Create ──────────────────────

func (s *assignmentService) Create(ctx context.Context, req *dto.CreateAssignmentRequest) (*dto.AssignmentResponse, error) {
	dutyDate, err := parseStrictDate(req.DutyDate)
	if err != nil {
		return nil, err
	}

	unlock, err := acquireFairnessLock(ctx, s.locker, s.cfg.LockWait)
	if err != nil {
		s.logger.Warn("获取公平性变更锁失败", zap.Error(err))
		return nil, err
	}
	defer unlock()

	var assignment *model.Assignment
	err = runInTx(ctx, s.repo, s.logger, func(txRepo *repository.Repository) error {
		person, err := txRepo.Personnel.GetByID(ctx, req.PersonID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPersonnelNotFound
			}
			s.logger.Error("查询人员失败", zap.String("id", req.PersonID), zap.Error(err))
			return err
		}
		if !person.IsActive {
			return ErrPersonnelInactive
		}

		post, err := txRepo.Post.GetByID(ctx, req.PostID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPostNotFound
			}
			s.logger.Error("查询岗位失败", zap.String("id", req.PostID), zap.Error(err))
			return err
		}

		_, err = txRepo.Assignment.GetByPersonPostDate(ctx, person.PersonnelID, post.PostID, dutyDate)
		if err == nil {
			return ErrAssignmentExists
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("查询重复分配失败", zap.Error(err))
			return err
		}

		assignment = &model.Assignment{
			PersonID:  person.PersonnelID,
			PostID:    post.PostID,
			DutyDate:  dutyDate,
			StartTime: orDefault(req.StartTime, s.cfg.DefaultStartTime),
			EndTime:   orDefault(req.EndTime, s.cfg.DefaultEndTime),
			Status:    orDefault(req.Status, model.AssignmentStatusAssigned),
			Notes:     req.Notes,
		}
		if err := txRepo.Assignment.Create(ctx, assignment); err != nil {
			s.logger.Error("创建值班分配失败", zap.Error(err))
			return err
		}
		assignment.Person = person
		assignment.Post = post

		return recordFairness(ctx, txRepo, s.logger, assignment.PersonID, assignment.PostID, recordInstant(assignment, s.now))
	})
	if err != nil {
		return nil, err
	}

	resp := toAssignmentResponse(assignment)
	return &resp, nil
}

// ── 辅助函数 ──

// parseStrictDate 手工录入与查询只接受 YYYY-MM-DD，不做回退
func parseStrictDate(raw string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, ErrInvalidDutyDate
	}
	return model.DateOnly(t), nil
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func toAssignmentResponse(a *model.Assignment) dto.AssignmentResponse {
	resp := dto.AssignmentResponse{
		ID:        a.AssignmentID,
		PersonID:  a.PersonID,
		PostID:    a.PostID,
		DutyDate:  a.DutyDate.Format("2006-01-02"),
		StartTime: a.StartTime,
		EndTime:   a.EndTime,
		Status:    a.Status,
		Notes:     a.Notes,
		CreatedAt: a.CreatedAt.Format(time.RFC3339),
	}
	if a.Person != nil {
		resp.PersonName = a.Person.FullName()
	}
	if a.Post != nil {
		resp.PostName = a.Post.Name
		if a.Post.PostType != nil {
			resp.PostTypeName = a.Post.PostType.Name
		}
	}
	return resp
}
