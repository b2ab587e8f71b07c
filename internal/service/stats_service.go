package service

import (
	"context"
	"errors"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/j4v3l/Duty-Tracker/internal/dto"
	"github.com/j4v3l/Duty-Tracker/internal/model"
	"github.com/j4v3l/Duty-Tracker/internal/repository"
)

const (
	dashboardRecentLimit = 5
	detailRecentLimit    = 10

	// 人员详情的近因加权分系数
	recencyWeightDifficulty = 0.7
	recencyWeightDays       = 0.1

	unknownPostType = "Unknown"
)

// StatsService 统计聚合接口（只读，每次请求实时计算）
type StatsService interface {
	Dashboard(ctx context.Context) (*dto.DashboardResponse, error)
	PostDistribution(ctx context.Context) (*dto.PostDistributionResponse, error)
	PersonnelDetail(ctx context.Context, personID string) (*dto.PersonnelDetailResponse, error)
}

type statsService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewStatsService 创建 StatsService 实例
func NewStatsService(repo *repository.Repository, logger *zap.Logger) StatsService {
	return &statsService{repo: repo, logger: logger, now: time.Now}
}

// ────────────────────── Dashboard ──────────────────────

func (s *statsService) Dashboard(ctx context.Context) (*dto.DashboardResponse, error) {
	now := s.now()
	resp := &dto.DashboardResponse{}

	// 各项读取互不依赖，并发执行
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := s.repo.Personnel.CountActive(gctx)
		resp.TotalPersonnel = n
		return err
	})
	g.Go(func() error {
		n, err := s.repo.Assignment.CountFrom(gctx, model.DateOnly(now.UTC()))
		resp.UpcomingAssignments = n
		return err
	})
	g.Go(func() error {
		n, err := s.repo.Post.CountActive(gctx)
		resp.ActivePosts = n
		return err
	})
	g.Go(func() error {
		ranked, err := loadRanking(gctx, s.repo, now)
		if err != nil {
			return err
		}
		scores := make([]float64, 0, len(ranked))
		for _, r := range ranked {
			scores = append(scores, r.score)
		}
		resp.FairnessVariance = populationVariance(scores)
		return nil
	})
	g.Go(func() error {
		recent, _, err := s.repo.Assignment.List(gctx, nil, 0, dashboardRecentLimit)
		if err != nil {
			return err
		}
		resp.RecentAssignments = make([]dto.AssignmentResponse, 0, len(recent))
		for i := range recent {
			resp.RecentAssignments = append(resp.RecentAssignments, toAssignmentResponse(&recent[i]))
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		s.logger.Error("统计概览失败", zap.Error(err))
		return nil, err
	}
	return resp, nil
}

// populationVariance 总体方差，空集为 0
func populationVariance(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	mean := sum / float64(len(xs))

	var sq float64
	for _, x := range xs {
		sq += (x - mean) * (x - mean)
	}
	return sq / float64(len(xs))
}

// ────────────────────── PostDistribution ──────────────────────

func (s *statsService) PostDistribution(ctx context.Context) (*dto.PostDistributionResponse, error) {
	personnel, err := s.repo.Personnel.ListActive(ctx)
	if err != nil {
		s.logger.Error("读取在岗人员失败", zap.Error(err))
		return nil, err
	}
	assignments, err := s.repo.Assignment.ListForActivePersonnel(ctx)
	if err != nil {
		s.logger.Error("读取值班分配失败", zap.Error(err))
		return nil, err
	}

	return buildDistribution(personnel, assignments), nil
}

// buildDistribution 单次遍历累计 人员×岗位类型 次数，再计算占比。
// 人员按总次数降序（同数保持名册顺序），明细按次数降序、类型名升序。
func buildDistribution(personnel []model.Personnel, assignments []model.Assignment) *dto.PostDistributionResponse {
	perPerson := make(map[string]map[string]int, len(personnel))
	personTotals := make(map[string]int, len(personnel))
	typeTotals := make(map[string]int)
	grand := 0

	for _, a := range assignments {
		typeName := postTypeName(&a)
		counts, ok := perPerson[a.PersonID]
		if !ok {
			counts = make(map[string]int)
			perPerson[a.PersonID] = counts
		}
		counts[typeName]++
		personTotals[a.PersonID]++
		typeTotals[typeName]++
		grand++
	}

	resp := &dto.PostDistributionResponse{
		Personnel:      make([]dto.PersonDistribution, 0, len(personnel)),
		PostTypeTotals: sortedNameCounts(typeTotals),
		GrandTotal:     grand,
		PersonnelCount: len(personnel),
	}

	for i := range personnel {
		p := &personnel[i]
		total := personTotals[p.PersonnelID]
		entry := dto.PersonDistribution{
			Personnel:        toPersonnelResponse(p),
			TotalAssignments: total,
			Breakdown:        []dto.PostTypeShare{},
		}
		for _, nc := range sortedNameCounts(perPerson[p.PersonnelID]) {
			entry.Breakdown = append(entry.Breakdown, dto.PostTypeShare{
				PostType:           nc.Name,
				Count:              nc.Count,
				PercentageOfTotal:  percentage(nc.Count, typeTotals[nc.Name]),
				PercentageOfPerson: percentage(nc.Count, total),
			})
		}
		resp.Personnel = append(resp.Personnel, entry)
	}

	sort.SliceStable(resp.Personnel, func(i, j int) bool {
		return resp.Personnel[i].TotalAssignments > resp.Personnel[j].TotalAssignments
	})
	return resp
}

// ────────────────────── PersonnelDetail ──────────────────────

func (s *statsService) PersonnelDetail(ctx context.Context, personID string) (*dto.PersonnelDetailResponse, error) {
	person, err := s.repo.Personnel.GetByID(ctx, personID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPersonnelNotFound
		}
		s.logger.Error("查询人员失败", zap.String("id", personID), zap.Error(err))
		return nil, err
	}

	history, err := s.repo.Assignment.ListByPerson(ctx, personID)
	if err != nil {
		s.logger.Error("读取人员值班记录失败", zap.String("id", personID), zap.Error(err))
		return nil, err
	}

	tracking, err := s.repo.Fairness.GetByPersonID(ctx, personID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("查询公平性跟踪失败", zap.String("id", personID), zap.Error(err))
			return nil, err
		}
		tracking = nil
	}

	now := s.now()
	resp := &dto.PersonnelDetailResponse{
		Personnel:         toPersonnelResponse(person),
		TotalAssignments:  len(history),
		Tracking:          toFairnessResponse(tracking),
		RecentAssignments: make([]dto.AssignmentResponse, 0, detailRecentLimit),
	}

	typeCounts := make(map[string]int)
	postCounts := make(map[string]int)
	for i := range history {
		a := &history[i]
		typeCounts[postTypeName(a)]++
		if a.Post != nil {
			postCounts[a.Post.Name]++
			resp.TotalDifficultyPoints += a.Post.PostType.Weight()
		} else {
			resp.TotalDifficultyPoints++
		}
		if i < detailRecentLimit {
			resp.RecentAssignments = append(resp.RecentAssignments, toAssignmentResponse(a))
		}
	}

	resp.PostTypeCounts = sortedNameCounts(typeCounts)
	resp.PostCounts = sortedNameCounts(postCounts)
	if len(resp.PostTypeCounts) > 0 {
		resp.MostFrequentPostType = resp.PostTypeCounts[0].Name
	}
	if len(resp.PostCounts) > 0 {
		resp.MostFrequentPost = resp.PostCounts[0].Name
	}

	var daysSinceDuty float64
	if len(history) > 0 {
		resp.AverageDifficulty = float64(resp.TotalDifficultyPoints) / float64(len(history))
		last := history[0].DutyDate
		days := daysBetween(last, now)
		resp.LastDutyDate = last.Format("2006-01-02")
		resp.DaysSinceLastDuty = &days
		daysSinceDuty = float64(days)
	}

	resp.FairnessScore, _ = fairnessScore(tracking, now)
	resp.RecencyWeightedScore = recencyWeightDifficulty*resp.AverageDifficulty + recencyWeightDays*daysSinceDuty
	return resp, nil
}

// ── 辅助函数 ──

func postTypeName(a *model.Assignment) string {
	if a.Post == nil || a.Post.PostType == nil {
		return unknownPostType
	}
	return a.Post.PostType.Name
}

// sortedNameCounts 次数降序，同数按名称升序
func sortedNameCounts(m map[string]int) []dto.NameCount {
	out := make([]dto.NameCount, 0, len(m))
	for name, count := range m {
		out = append(out, dto.NameCount{Name: name, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// percentage part/whole×100，保留 1 位小数；whole 为 0 时返回 0
func percentage(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return math.Round(float64(part)*1000/float64(whole)) / 10
}
