package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/j4v3l/Duty-Tracker/internal/model"
	"github.com/j4v3l/Duty-Tracker/internal/repository"
)

// mockEpoch 所有 mock 时间戳的起点，按写入顺序递增，保证排序确定
var mockEpoch = time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)

// ── Mock PersonnelRepository ──

type mockPersonnelRepo struct {
	items []*model.Personnel
}

func newMockPersonnelRepo() *mockPersonnelRepo {
	return &mockPersonnelRepo{}
}

func (m *mockPersonnelRepo) Create(_ context.Context, person *model.Personnel) error {
	if person.PersonnelID == "" {
		person.PersonnelID = fmt.Sprintf("person-%02d", len(m.items)+1)
	}
	if person.CreatedAt.IsZero() {
		person.CreatedAt = mockEpoch.Add(time.Duration(len(m.items)) * time.Second)
	}
	m.items = append(m.items, person)
	return nil
}

func (m *mockPersonnelRepo) GetByID(_ context.Context, id string) (*model.Personnel, error) {
	for _, p := range m.items {
		if p.PersonnelID == id {
			cp := *p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPersonnelRepo) ListActive(_ context.Context) ([]model.Personnel, error) {
	var result []model.Personnel
	for _, p := range m.items {
		if p.IsActive {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (m *mockPersonnelRepo) List(_ context.Context, offset, limit int, includeInactive bool) ([]model.Personnel, int64, error) {
	var all []model.Personnel
	for _, p := range m.items {
		if includeInactive || p.IsActive {
			all = append(all, *p)
		}
	}
	total := int64(len(all))
	if offset >= len(all) {
		return []model.Personnel{}, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockPersonnelRepo) Update(_ context.Context, person *model.Personnel) error {
	for i, p := range m.items {
		if p.PersonnelID == person.PersonnelID {
			cp := *person
			m.items[i] = &cp
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *mockPersonnelRepo) CountActive(ctx context.Context) (int64, error) {
	list, _ := m.ListActive(ctx)
	return int64(len(list)), nil
}

// ── Mock PostTypeRepository ──

type mockPostTypeRepo struct {
	items []*model.PostType
}

func newMockPostTypeRepo() *mockPostTypeRepo {
	return &mockPostTypeRepo{}
}

func (m *mockPostTypeRepo) Create(_ context.Context, pt *model.PostType) error {
	for _, existing := range m.items {
		if existing.Name == pt.Name {
			return fmt.Errorf("UNIQUE constraint failed: post_types.name")
		}
	}
	if pt.PostTypeID == "" {
		pt.PostTypeID = "type-" + strings.ReplaceAll(strings.ToLower(pt.Name), " ", "-")
	}
	if pt.DifficultyWeight <= 0 {
		pt.DifficultyWeight = 1
	}
	if pt.PersonnelRequired <= 0 {
		pt.PersonnelRequired = 1
	}
	m.items = append(m.items, pt)
	return nil
}

func (m *mockPostTypeRepo) GetByID(_ context.Context, id string) (*model.PostType, error) {
	for _, pt := range m.items {
		if pt.PostTypeID == id {
			return pt, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPostTypeRepo) GetByName(_ context.Context, name string) (*model.PostType, error) {
	for _, pt := range m.items {
		if strings.EqualFold(pt.Name, name) {
			return pt, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPostTypeRepo) List(_ context.Context) ([]model.PostType, error) {
	result := make([]model.PostType, 0, len(m.items))
	for _, pt := range m.items {
		result = append(result, *pt)
	}
	return result, nil
}

// ── Mock PostRepository ──

type mockPostRepo struct {
	items []*model.Post
	types *mockPostTypeRepo
}

func newMockPostRepo(types *mockPostTypeRepo) *mockPostRepo {
	return &mockPostRepo{types: types}
}

func (m *mockPostRepo) withType(p *model.Post) *model.Post {
	cp := *p
	cp.PostType, _ = m.types.GetByID(context.Background(), p.PostTypeID)
	return &cp
}

func (m *mockPostRepo) Create(_ context.Context, post *model.Post) error {
	if post.PostID == "" {
		post.PostID = "post-" + strings.ReplaceAll(strings.ToLower(post.Name), " ", "-")
	}
	m.items = append(m.items, post)
	return nil
}

func (m *mockPostRepo) GetByID(_ context.Context, id string) (*model.Post, error) {
	for _, p := range m.items {
		if p.PostID == id {
			return m.withType(p), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPostRepo) GetByTypeAndName(_ context.Context, postTypeID, name string) (*model.Post, error) {
	for _, p := range m.items {
		if p.PostTypeID == postTypeID && strings.EqualFold(p.Name, name) {
			return m.withType(p), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPostRepo) ListActive(_ context.Context) ([]model.Post, error) {
	var result []model.Post
	for _, p := range m.items {
		if p.IsActive {
			result = append(result, *m.withType(p))
		}
	}
	return result, nil
}

func (m *mockPostRepo) CountActive(ctx context.Context) (int64, error) {
	list, _ := m.ListActive(ctx)
	return int64(len(list)), nil
}

// ── Mock AssignmentRepository ──

type mockAssignmentRepo struct {
	items     []*model.Assignment
	personnel *mockPersonnelRepo
	posts     *mockPostRepo

	createErr error // 非空时 Create 返回该错误
}

func newMockAssignmentRepo(personnel *mockPersonnelRepo, posts *mockPostRepo) *mockAssignmentRepo {
	return &mockAssignmentRepo{personnel: personnel, posts: posts}
}

func (m *mockAssignmentRepo) preload(a *model.Assignment) model.Assignment {
	cp := *a
	cp.Person, _ = m.personnel.GetByID(context.Background(), a.PersonID)
	cp.Post, _ = m.posts.GetByID(context.Background(), a.PostID)
	return cp
}

func (m *mockAssignmentRepo) Create(_ context.Context, a *model.Assignment) error {
	if m.createErr != nil {
		return m.createErr
	}
	if a.AssignmentID == "" {
		a.AssignmentID = fmt.Sprintf("asg-%03d", len(m.items)+1)
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = mockEpoch.Add(time.Duration(len(m.items)+1) * time.Minute)
	}
	a.DutyDate = model.DateOnly(a.DutyDate)
	if a.Status == "" {
		a.Status = model.AssignmentStatusAssigned
	}
	cp := *a
	cp.Person, cp.Post = nil, nil
	m.items = append(m.items, &cp)
	return nil
}

func (m *mockAssignmentRepo) GetByPersonPostDate(_ context.Context, personID, postID string, dutyDate time.Time) (*model.Assignment, error) {
	day := model.DateOnly(dutyDate)
	for _, a := range m.items {
		if a.PersonID == personID && a.PostID == postID && a.DutyDate.Equal(day) {
			cp := *a
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAssignmentRepo) sortedByDutyDateDesc(filter func(*model.Assignment) bool) []model.Assignment {
	var result []model.Assignment
	for _, a := range m.items {
		if filter(a) {
			result = append(result, m.preload(a))
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		if !result[i].DutyDate.Equal(result[j].DutyDate) {
			return result[i].DutyDate.After(result[j].DutyDate)
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result
}

func (m *mockAssignmentRepo) List(_ context.Context, dutyDate *time.Time, offset, limit int) ([]model.Assignment, int64, error) {
	all := m.sortedByDutyDateDesc(func(a *model.Assignment) bool {
		return dutyDate == nil || a.DutyDate.Equal(model.DateOnly(*dutyDate))
	})
	total := int64(len(all))
	if offset >= len(all) {
		return []model.Assignment{}, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockAssignmentRepo) ListInInsertionOrder(_ context.Context) ([]model.Assignment, error) {
	result := make([]model.Assignment, 0, len(m.items))
	for _, a := range m.items {
		result = append(result, *a)
	}
	return result, nil
}

func (m *mockAssignmentRepo) ListByPerson(_ context.Context, personID string) ([]model.Assignment, error) {
	return m.sortedByDutyDateDesc(func(a *model.Assignment) bool { return a.PersonID == personID }), nil
}

func (m *mockAssignmentRepo) ListForActivePersonnel(_ context.Context) ([]model.Assignment, error) {
	var result []model.Assignment
	for _, a := range m.items {
		full := m.preload(a)
		if full.Person != nil && full.Person.IsActive {
			result = append(result, full)
		}
	}
	return result, nil
}

func (m *mockAssignmentRepo) CountFrom(_ context.Context, from time.Time) (int64, error) {
	day := model.DateOnly(from)
	var n int64
	for _, a := range m.items {
		if !a.DutyDate.Before(day) {
			n++
		}
	}
	return n, nil
}

// ── Mock FairnessRepository ──

type mockFairnessRepo struct {
	items map[string]*model.FairnessTracking // person_id → 记录副本
	seq   int
}

func newMockFairnessRepo() *mockFairnessRepo {
	return &mockFairnessRepo{items: make(map[string]*model.FairnessTracking)}
}

func (m *mockFairnessRepo) GetByPersonID(_ context.Context, personID string) (*model.FairnessTracking, error) {
	if t, ok := m.items[personID]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockFairnessRepo) Create(_ context.Context, t *model.FairnessTracking) error {
	if _, ok := m.items[t.PersonID]; ok {
		return fmt.Errorf("UNIQUE constraint failed: fairness_tracking.person_id")
	}
	m.seq++
	t.FairnessID = fmt.Sprintf("fair-%03d", m.seq)
	cp := *t
	m.items[t.PersonID] = &cp
	return nil
}

func (m *mockFairnessRepo) Update(_ context.Context, t *model.FairnessTracking) error {
	if _, ok := m.items[t.PersonID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *t
	m.items[t.PersonID] = &cp
	return nil
}

func (m *mockFairnessRepo) List(_ context.Context) ([]model.FairnessTracking, error) {
	result := make([]model.FairnessTracking, 0, len(m.items))
	for _, t := range m.items {
		result = append(result, *t)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].PersonID < result[j].PersonID })
	return result, nil
}

func (m *mockFairnessRepo) DeleteAll(_ context.Context) (int64, error) {
	n := int64(len(m.items))
	m.items = make(map[string]*model.FairnessTracking)
	return n, nil
}

// ═══════════════════════════════════════════════════════════
// 测试聚合
// ═══════════════════════════════════════════════════════════

// testRepos 聚合所有 mock repo 便于 seed 数据
type testRepos struct {
	personnel  *mockPersonnelRepo
	postType   *mockPostTypeRepo
	post       *mockPostRepo
	assignment *mockAssignmentRepo
	fairness   *mockFairnessRepo
}

func newTestRepos() *testRepos {
	personnel := newMockPersonnelRepo()
	types := newMockPostTypeRepo()
	posts := newMockPostRepo(types)
	return &testRepos{
		personnel:  personnel,
		postType:   types,
		post:       posts,
		assignment: newMockAssignmentRepo(personnel, posts),
		fairness:   newMockFairnessRepo(),
	}
}

func (r *testRepos) toRepository() *repository.Repository {
	return &repository.Repository{
		Personnel:  r.personnel,
		PostType:   r.postType,
		Post:       r.post,
		Assignment: r.assignment,
		Fairness:   r.fairness,
	}
}

// addPerson 写入一名在岗人员
func (r *testRepos) addPerson(rank, name string) *model.Personnel {
	p := &model.Personnel{Rank: rank, Name: name, IsActive: true}
	_ = r.personnel.Create(context.Background(), p)
	return p
}

// seedStandardPosts 写入标准岗位类型与岗位：SOG 5 / CQ 3 / ECP 4 / VCP 3 / ROVER 3 / Stand by 1
func (r *testRepos) seedStandardPosts() {
	ctx := context.Background()
	weights := []struct {
		name   string
		weight int
		posts  []string
	}{
		{"SOG", 5, []string{"SOG"}},
		{"CQ", 3, []string{"CQ"}},
		{"ECP", 4, []string{"ECP1", "ECP2", "ECP3"}},
		{"VCP", 3, []string{"VCP"}},
		{"ROVER", 3, []string{"ROVER"}},
		{model.StandbyPostTypeName, 1, []string{"Stand by"}},
	}
	for _, w := range weights {
		pt := &model.PostType{Name: w.name, DifficultyWeight: w.weight}
		_ = r.postType.Create(ctx, pt)
		for _, name := range w.posts {
			_ = r.post.Create(ctx, &model.Post{Name: name, PostTypeID: pt.PostTypeID, IsActive: true})
		}
	}
}

// postID 按岗位名称查 ID
func (r *testRepos) postID(name string) string {
	for _, p := range r.post.items {
		if p.Name == name {
			return p.PostID
		}
	}
	return ""
}

// fixedClock 固定时钟
func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

var testLogger = zap.NewNop()
