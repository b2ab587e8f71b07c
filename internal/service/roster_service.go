package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/j4v3l/Duty-Tracker/config"
	"github.com/j4v3l/Duty-Tracker/internal/dto"
	"github.com/j4v3l/Duty-Tracker/internal/model"
	"github.com/j4v3l/Duty-Tracker/internal/repository"
)

// ── 名册导入业务错误 ──

var (
	ErrRosterEmpty = errors.New("名册文本为空")
)

// RosterService 群聊名册导入接口
type RosterService interface {
	// ImportChat 解析群聊文本并写入值班分配，重复导入同一文本不会产生新记录
	ImportChat(ctx context.Context, req *dto.ImportRosterRequest) (*dto.ImportRosterResponse, error)
	// Preview 只解析不写库，返回候选与逐行诊断
	Preview(ctx context.Context, req *dto.ImportRosterRequest) (*dto.RosterPreviewResponse, error)
}

type rosterService struct {
	repo   *repository.Repository
	cfg    *config.RosterConfig
	locker MutationLocker
	logger *zap.Logger
	now    func() time.Time
}

// NewRosterService 创建 RosterService 实例
func NewRosterService(cfg *config.RosterConfig, repo *repository.Repository, locker MutationLocker, logger *zap.Logger) RosterService {
	return &rosterService{
		repo:   repo,
		cfg:    cfg,
		locker: locker,
		logger: logger,
		now:    time.Now,
	}
}

// ────────────────────── ImportChat ──────────────────────

func (s *rosterService) ImportChat(ctx context.Context, req *dto.ImportRosterRequest) (*dto.ImportRosterResponse, error) {
	if strings.TrimSpace(req.ChatText) == "" {
		return nil, ErrRosterEmpty
	}

	dutyDate, fallback := s.dutyDate(req.DutyDate)

	unlock, err := acquireFairnessLock(ctx, s.locker, s.cfg.LockWait)
	if err != nil {
		s.logger.Warn("获取公平性变更锁失败", zap.Error(err))
		return nil, err
	}
	defer unlock()

	result := &dto.ImportRosterResponse{
		Unmatched:       []dto.UnmatchedToken{},
		UnresolvedPosts: []string{},
		DutyDate:        dutyDate.Format("2006-01-02"),
		DateFallback:    fallback,
	}

	err = runInTx(ctx, s.repo, s.logger, func(txRepo *repository.Repository) error {
		personnel, err := txRepo.Personnel.ListActive(ctx)
		if err != nil {
			s.logger.Error("读取在岗人员失败", zap.Error(err))
			return err
		}

		parsed := ParseRoster(req.ChatText, personnel)
		s.logTrace(parsed)
		result.Unmatched = toUnmatchedTokens(parsed.Unmatched)

		posts := newSectionPostCache(txRepo)
		unresolved := make(map[string]bool)

		for _, c := range parsed.Candidates {
			post, err := posts.resolve(ctx, c.Section)
			if err != nil {
				s.logger.Error("解析段落岗位失败", zap.String("section", c.Section.Key), zap.Error(err))
				return err
			}
			if post == nil {
				if !unresolved[c.Section.Key] {
					s.logger.Warn("段落对应岗位不存在，跳过",
						zap.String("section", c.Section.Key),
						zap.String("post_type", c.Section.PostType),
						zap.String("post", c.Section.Post),
					)
				}
				unresolved[c.Section.Key] = true
				continue
			}

			_, err = txRepo.Assignment.GetByPersonPostDate(ctx, c.Person.PersonnelID, post.PostID, dutyDate)
			if err == nil {
				result.Duplicates++
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				s.logger.Error("查询重复分配失败", zap.Error(err))
				return err
			}

			assignment := &model.Assignment{
				PersonID:  c.Person.PersonnelID,
				PostID:    post.PostID,
				DutyDate:  dutyDate,
				StartTime: s.cfg.DefaultStartTime,
				EndTime:   s.cfg.DefaultEndTime,
				Status:    model.AssignmentStatusAssigned,
				Notes:     s.cfg.ImportNote,
			}
			if err := txRepo.Assignment.Create(ctx, assignment); err != nil {
				s.logger.Error("创建值班分配失败",
					zap.String("person_id", c.Person.PersonnelID),
					zap.String("post_id", post.PostID),
					zap.Error(err),
				)
				return err
			}

			if err := recordFairness(ctx, txRepo, s.logger, assignment.PersonID, assignment.PostID, recordInstant(assignment, s.now)); err != nil {
				return err
			}
			result.Created++
		}

		for key := range unresolved {
			result.UnresolvedPosts = append(result.UnresolvedPosts, key)
		}
		sort.Strings(result.UnresolvedPosts)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("群聊名册导入完成",
		zap.String("duty_date", result.DutyDate),
		zap.Int("created", result.Created),
		zap.Int("duplicates", result.Duplicates),
		zap.Int("unmatched", len(result.Unmatched)),
	)
	return result, nil
}

// ────────────────────── Preview ──────────────────────

func (s *rosterService) Preview(ctx context.Context, req *dto.ImportRosterRequest) (*dto.RosterPreviewResponse, error) {
	if strings.TrimSpace(req.ChatText) == "" {
		return nil, ErrRosterEmpty
	}

	dutyDate, fallback := s.dutyDate(req.DutyDate)

	personnel, err := s.repo.Personnel.ListActive(ctx)
	if err != nil {
		s.logger.Error("读取在岗人员失败", zap.Error(err))
		return nil, err
	}

	parsed := ParseRoster(req.ChatText, personnel)

	resp := &dto.RosterPreviewResponse{
		DutyDate:     dutyDate.Format("2006-01-02"),
		DateFallback: fallback,
		Candidates:   make([]dto.RosterCandidateResponse, 0, len(parsed.Candidates)),
		Unmatched:    toUnmatchedTokens(parsed.Unmatched),
		Trace:        make([]dto.RosterTraceResponse, 0, len(parsed.Trace)),
	}
	for _, c := range parsed.Candidates {
		resp.Candidates = append(resp.Candidates, dto.RosterCandidateResponse{
			Line:        c.Line,
			Section:     c.Section.Key,
			Post:        c.Section.Post,
			Rank:        c.Rank,
			Name:        c.NameToken,
			PersonnelID: c.Person.PersonnelID,
			FullName:    c.Person.FullName(),
			MatchRule:   c.MatchRule,
		})
	}
	for _, ev := range parsed.Trace {
		resp.Trace = append(resp.Trace, dto.RosterTraceResponse{Line: ev.Line, Kind: ev.Kind, Detail: ev.Detail})
	}
	return resp, nil
}

// ── 内部方法 ──

// dutyDate 解析值班日期，回退为当天时记录告警
func (s *rosterService) dutyDate(raw string) (time.Time, bool) {
	date, fallback := ParseDutyDate(raw, s.now())
	if fallback {
		s.logger.Warn("值班日期无法解析，回退为当天",
			zap.String("raw", raw),
			zap.String("duty_date", date.Format("2006-01-02")),
		)
	}
	return date, fallback
}

func (s *rosterService) logTrace(parsed *RosterParseResult) {
	for _, ev := range parsed.Trace {
		if ev.Kind == TraceUnmatched {
			s.logger.Warn("名册人员未匹配", zap.Int("line", ev.Line), zap.String("token", ev.Detail))
			continue
		}
		s.logger.Debug("名册解析", zap.Int("line", ev.Line), zap.String("kind", ev.Kind), zap.String("detail", ev.Detail))
	}
}

// sectionPostCache 同一批次内按段落缓存岗位查询结果（含不存在）
type sectionPostCache struct {
	repo  *repository.Repository
	posts map[string]*model.Post
}

func newSectionPostCache(repo *repository.Repository) *sectionPostCache {
	return &sectionPostCache{repo: repo, posts: make(map[string]*model.Post)}
}

// resolve 岗位类型或岗位不存在时返回 (nil, nil)
func (c *sectionPostCache) resolve(ctx context.Context, sec RosterSection) (*model.Post, error) {
	if post, ok := c.posts[sec.Key]; ok {
		return post, nil
	}

	postType, err := c.repo.PostType.GetByName(ctx, sec.PostType)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.posts[sec.Key] = nil
			return nil, nil
		}
		return nil, err
	}

	post, err := c.repo.Post.GetByTypeAndName(ctx, postType.PostTypeID, sec.Post)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.posts[sec.Key] = nil
			return nil, nil
		}
		return nil, err
	}
	c.posts[sec.Key] = post
	return post, nil
}

// recordInstant 记账时刻取分配的创建时间，与全量重算回放一致
func recordInstant(a *model.Assignment, now func() time.Time) time.Time {
	if a.CreatedAt.IsZero() {
		return now()
	}
	return a.CreatedAt
}

func toUnmatchedTokens(items []RosterCandidate) []dto.UnmatchedToken {
	out := make([]dto.UnmatchedToken, 0, len(items))
	for _, c := range items {
		out = append(out, dto.UnmatchedToken{
			Line:    c.Line,
			Section: c.Section.Key,
			Rank:    c.Rank,
			Name:    c.NameToken,
		})
	}
	return out
}
