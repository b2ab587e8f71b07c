package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/j4v3l/Duty-Tracker/internal/dto"
	"github.com/j4v3l/Duty-Tracker/internal/model"
	pkgerrors "github.com/j4v3l/Duty-Tracker/pkg/errors"
)

func setupTestAssignmentService() (*assignmentService, *testRepos) {
	repos := newTestRepos()
	repos.seedStandardPosts()
	svc := NewAssignmentService(testRosterConfig(), repos.toRepository(), NewLocalLocker(), testLogger).(*assignmentService)
	svc.now = fixedClock(time.Date(2024, 3, 1, 7, 0, 0, 0, time.UTC))
	return svc, repos
}

// ── Create 测试 ──

func TestAssignmentService_Create_RecordsFairness(t *testing.T) {
	svc, repos := setupTestAssignmentService()
	p := repos.addPerson("SGT", "Lastre")

	resp, err := svc.Create(context.Background(), &dto.CreateAssignmentRequest{
		PersonID: p.PersonnelID,
		PostID:   repos.postID("ECP2"),
		DutyDate: "2024-03-02",
		EndTime:  "22:00",
	})
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if resp.PersonName != "SGT Lastre" || resp.PostName != "ECP2" || resp.PostTypeName != "ECP" {
		t.Errorf("响应中的关联名称不符: %+v", resp)
	}
	if resp.StartTime != "06:00" || resp.EndTime != "22:00" || resp.Status != model.AssignmentStatusAssigned {
		t.Errorf("默认值处理不符: %+v", resp)
	}

	tr := repos.fairness.items[p.PersonnelID]
	if tr == nil || tr.TotalAssignments != 1 || tr.TotalDifficultyPoints != 4 {
		t.Fatalf("应累计公平性，实际 %+v", tr)
	}
	// 记录时刻取分配的 created_at
	created := repos.assignment.items[0].CreatedAt
	if tr.LastAssignmentDate == nil || !tr.LastAssignmentDate.Equal(created) {
		t.Errorf("最近分配时间应为 %v，实际 %v", created, tr.LastAssignmentDate)
	}
}

func TestAssignmentService_Create_Duplicate(t *testing.T) {
	svc, repos := setupTestAssignmentService()
	p := repos.addPerson("SGT", "Lastre")
	req := &dto.CreateAssignmentRequest{PersonID: p.PersonnelID, PostID: repos.postID("CQ"), DutyDate: "2024-03-02"}

	if _, err := svc.Create(context.Background(), req); err != nil {
		t.Fatalf("首次 Create 应成功: %v", err)
	}
	_, err := svc.Create(context.Background(), req)
	if !errors.Is(err, ErrAssignmentExists) {
		t.Errorf("期望 ErrAssignmentExists，实际: %v", err)
	}
	if got := repos.fairness.items[p.PersonnelID].TotalAssignments; got != 1 {
		t.Errorf("重复分配不应累计公平性，实际 %d", got)
	}
}

func TestAssignmentService_Create_Validation(t *testing.T) {
	svc, repos := setupTestAssignmentService()
	active := repos.addPerson("SGT", "Lastre")
	inactive := repos.addPerson("SPC", "Miller")
	inactive.IsActive = false

	cases := []struct {
		name string
		req  dto.CreateAssignmentRequest
		want error
	}{
		{"日期格式错误", dto.CreateAssignmentRequest{PersonID: active.PersonnelID, PostID: repos.postID("CQ"), DutyDate: "03/02/2024"}, ErrInvalidDutyDate},
		{"人员不存在", dto.CreateAssignmentRequest{PersonID: "missing", PostID: repos.postID("CQ"), DutyDate: "2024-03-02"}, ErrPersonnelNotFound},
		{"人员已停用", dto.CreateAssignmentRequest{PersonID: inactive.PersonnelID, PostID: repos.postID("CQ"), DutyDate: "2024-03-02"}, ErrPersonnelInactive},
		{"岗位不存在", dto.CreateAssignmentRequest{PersonID: active.PersonnelID, PostID: "missing", DutyDate: "2024-03-02"}, ErrPostNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), &tc.req)
			if !errors.Is(err, tc.want) {
				t.Errorf("期望 %v，实际: %v", tc.want, err)
			}
		})
	}
	if len(repos.assignment.items) != 0 || len(repos.fairness.items) != 0 {
		t.Error("校验失败时不应写入任何数据")
	}
}

func TestAssignmentService_Create_LockBusy(t *testing.T) {
	svc, repos := setupTestAssignmentService()
	p := repos.addPerson("SGT", "Lastre")
	svc.cfg.LockWait = 20 * time.Millisecond

	unlock, err := svc.locker.Lock(context.Background(), fairnessLockKey)
	if err != nil {
		t.Fatalf("预先加锁失败: %v", err)
	}
	defer unlock()

	_, err = svc.Create(context.Background(), &dto.CreateAssignmentRequest{PersonID: p.PersonnelID, PostID: repos.postID("CQ"), DutyDate: "2024-03-02"})
	if !errors.Is(err, pkgerrors.ErrMutationBusy) {
		t.Errorf("锁被占用时期望 ErrMutationBusy，实际: %v", err)
	}
}

// ── List 测试 ──

func TestAssignmentService_List_FilterByDate(t *testing.T) {
	svc, repos := setupTestAssignmentService()
	p := repos.addPerson("SGT", "Lastre")
	repos.assign(p, "CQ", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	repos.assign(p, "SOG", time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC))
	repos.assign(p, "VCP", time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC))

	all, total, err := svc.List(context.Background(), &dto.AssignmentListRequest{})
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if total != 3 || all[0].DutyDate != "2024-03-02" {
		t.Errorf("期望 3 条且按日期倒序，实际 total=%d first=%s", total, all[0].DutyDate)
	}

	filtered, total, err := svc.List(context.Background(), &dto.AssignmentListRequest{DutyDate: "2024-03-01"})
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if total != 1 || filtered[0].PostName != "CQ" {
		t.Errorf("按日期过滤不符: total=%d %+v", total, filtered)
	}

	_, _, err = svc.List(context.Background(), &dto.AssignmentListRequest{DutyDate: "yesterday"})
	if !errors.Is(err, ErrInvalidDutyDate) {
		t.Errorf("过滤日期格式错误应返回 ErrInvalidDutyDate，实际: %v", err)
	}
}
