package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/j4v3l/Duty-Tracker/internal/dto"
	"github.com/j4v3l/Duty-Tracker/internal/model"
	"github.com/j4v3l/Duty-Tracker/internal/repository"
)

// recencyDecayPerDay 排名分每空闲一天的衰减量
const recencyDecayPerDay = 0.1

// FairnessService 公平性引擎接口
// 公平性跟踪表只由本模块写入
type FairnessService interface {
	// Record 为一条新建的值班分配累计公平性数据
	Record(ctx context.Context, personID, postID string) error
	// Rank 按公平性得分升序返回全部在岗人员，得分越低越应优先安排
	Rank(ctx context.Context) ([]dto.FairnessRankItem, error)
	// RecalculateAll 清空跟踪表并按写入顺序回放全部值班分配
	RecalculateAll(ctx context.Context) (*dto.RecalculateResponse, error)
}

type fairnessService struct {
	repo     *repository.Repository
	locker   MutationLocker
	lockWait time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

// NewFairnessService 创建 FairnessService 实例
func NewFairnessService(repo *repository.Repository, locker MutationLocker, lockWait time.Duration, logger *zap.Logger) FairnessService {
	return &fairnessService{
		repo:     repo,
		locker:   locker,
		lockWait: lockWait,
		logger:   logger,
		now:      time.Now,
	}
}

// ────────────────────── Record ──────────────────────

func (s *fairnessService) Record(ctx context.Context, personID, postID string) error {
	unlock, err := acquireFairnessLock(ctx, s.locker, s.lockWait)
	if err != nil {
		s.logger.Warn("获取公平性变更锁失败", zap.Error(err))
		return err
	}
	defer unlock()

	return runInTx(ctx, s.repo, s.logger, func(txRepo *repository.Repository) error {
		return recordFairness(ctx, txRepo, s.logger, personID, postID, s.now())
	})
}

// recordFairness 在给定仓储（通常已绑定事务）上累计一次值班。
// 岗位或岗位类型缺失时按权重 1 计分且不改变连续待命计数，绝不阻断分配。
func recordFairness(ctx context.Context, repo *repository.Repository, logger *zap.Logger, personID, postID string, at time.Time) error {
	tracking, err := repo.Fairness.GetByPersonID(ctx, personID)
	isNew := false
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error("查询公平性跟踪失败", zap.String("person_id", personID), zap.Error(err))
			return err
		}
		tracking = &model.FairnessTracking{PersonID: personID}
		isNew = true
	}

	var postType *model.PostType
	post, err := repo.Post.GetByID(ctx, postID)
	switch {
	case err == nil:
		postType = post.PostType
	case errors.Is(err, gorm.ErrRecordNotFound):
	default:
		logger.Error("查询岗位失败", zap.String("post_id", postID), zap.Error(err))
		return err
	}

	tracking.TotalAssignments++
	tracking.TotalDifficultyPoints += postType.Weight()
	instant := at.UTC()
	tracking.LastAssignmentDate = &instant

	if postType != nil {
		if postType.Name == model.StandbyPostTypeName {
			tracking.ConsecutiveStandby++
		} else {
			tracking.ConsecutiveStandby = 0
		}
	} else {
		logger.Warn("岗位类型缺失，按默认权重计分",
			zap.String("person_id", personID),
			zap.String("post_id", postID),
		)
	}

	if isNew {
		err = repo.Fairness.Create(ctx, tracking)
	} else {
		err = repo.Fairness.Update(ctx, tracking)
	}
	if err != nil {
		logger.Error("写入公平性跟踪失败", zap.String("person_id", personID), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── Rank ──────────────────────

func (s *fairnessService) Rank(ctx context.Context) ([]dto.FairnessRankItem, error) {
	ranked, err := loadRanking(ctx, s.repo, s.now())
	if err != nil {
		s.logger.Error("计算公平性排名失败", zap.Error(err))
		return nil, err
	}

	items := make([]dto.FairnessRankItem, 0, len(ranked))
	for i, r := range ranked {
		items = append(items, dto.FairnessRankItem{
			Rank:      i + 1,
			Personnel: toPersonnelResponse(&r.person),
			Score:     r.score,
			DaysSince: r.daysSince,
			Tracking:  toFairnessResponse(r.tracking),
		})
	}
	return items, nil
}

// rankedPerson 排名中间结果
type rankedPerson struct {
	person    model.Personnel
	tracking  *model.FairnessTracking
	score     float64
	daysSince *int
}

// loadRanking 读取在岗人员与跟踪记录并排序，统计模块复用
func loadRanking(ctx context.Context, repo *repository.Repository, now time.Time) ([]rankedPerson, error) {
	personnel, err := repo.Personnel.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	trackings, err := repo.Fairness.List(ctx)
	if err != nil {
		return nil, err
	}
	return rankPersonnel(personnel, trackings, now), nil
}

// rankPersonnel 计算得分并升序排序，得分相同按人员 ID 升序。
// 无跟踪记录得分为 0；否则为 总难度分 − 0.1 × 距上次值班整天数。
func rankPersonnel(personnel []model.Personnel, trackings []model.FairnessTracking, now time.Time) []rankedPerson {
	byPerson := make(map[string]*model.FairnessTracking, len(trackings))
	for i := range trackings {
		byPerson[trackings[i].PersonID] = &trackings[i]
	}

	ranked := make([]rankedPerson, 0, len(personnel))
	for _, p := range personnel {
		r := rankedPerson{person: p, tracking: byPerson[p.PersonnelID]}
		r.score, r.daysSince = fairnessScore(r.tracking, now)
		ranked = append(ranked, r)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score < ranked[j].score
		}
		return ranked[i].person.PersonnelID < ranked[j].person.PersonnelID
	})
	return ranked
}

// fairnessScore 排名分；daysSince 为距上次记账的整天数，无记录时为 nil
func fairnessScore(t *model.FairnessTracking, now time.Time) (float64, *int) {
	if t == nil {
		return 0, nil
	}
	score := float64(t.TotalDifficultyPoints)
	if t.LastAssignmentDate == nil {
		return score, nil
	}
	days := daysBetween(*t.LastAssignmentDate, now)
	return score - recencyDecayPerDay*float64(days), &days
}

// daysBetween 从 from 到 to 经过的整天数（向下取整，不小于 0）
func daysBetween(from, to time.Time) int {
	d := to.Sub(from)
	if d <= 0 {
		return 0
	}
	return int(d / (24 * time.Hour))
}

// ────────────────────── RecalculateAll ──────────────────────

func (s *fairnessService) RecalculateAll(ctx context.Context) (*dto.RecalculateResponse, error) {
	unlock, err := acquireFairnessLock(ctx, s.locker, s.lockWait)
	if err != nil {
		s.logger.Warn("获取公平性变更锁失败", zap.Error(err))
		return nil, err
	}
	defer unlock()

	result := &dto.RecalculateResponse{}
	err = runInTx(ctx, s.repo, s.logger, func(txRepo *repository.Repository) error {
		deleted, err := txRepo.Fairness.DeleteAll(ctx)
		if err != nil {
			s.logger.Error("清空公平性跟踪失败", zap.Error(err))
			return err
		}
		result.Deleted = deleted

		assignments, err := txRepo.Assignment.ListInInsertionOrder(ctx)
		if err != nil {
			s.logger.Error("读取值班分配失败", zap.Error(err))
			return err
		}

		// 回放时以分配的创建时间作为记账时刻，重复重算结果一致
		for _, a := range assignments {
			if err := recordFairness(ctx, txRepo, s.logger, a.PersonID, a.PostID, a.CreatedAt); err != nil {
				return err
			}
		}
		result.Replayed = len(assignments)

		trackings, err := txRepo.Fairness.List(ctx)
		if err != nil {
			s.logger.Error("读取公平性跟踪失败", zap.Error(err))
			return err
		}
		result.Updated = len(trackings)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("公平性全量重算完成",
		zap.Int64("deleted", result.Deleted),
		zap.Int("replayed", result.Replayed),
		zap.Int("updated", result.Updated),
	)
	return result, nil
}

// ── 转换 ──

func toFairnessResponse(t *model.FairnessTracking) *dto.FairnessResponse {
	if t == nil {
		return nil
	}
	resp := &dto.FairnessResponse{
		PersonID:              t.PersonID,
		TotalAssignments:      t.TotalAssignments,
		TotalDifficultyPoints: t.TotalDifficultyPoints,
		ConsecutiveStandby:    t.ConsecutiveStandby,
	}
	if t.LastAssignmentDate != nil {
		resp.LastAssignmentDate = t.LastAssignmentDate.UTC().Format(time.RFC3339)
	}
	return resp
}
