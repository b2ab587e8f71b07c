package service

import (
	"context"
	"errors"
	"testing"

	"github.com/j4v3l/Duty-Tracker/config"
	"github.com/j4v3l/Duty-Tracker/internal/dto"
)

func setupTestPostService(t *testing.T) (PostService, *testRepos) {
	t.Helper()
	standard, err := config.LoadSeed("")
	if err != nil {
		t.Fatalf("加载内置种子数据失败: %v", err)
	}
	repos := newTestRepos()
	return NewPostService(repos.toRepository(), standard, testLogger), repos
}

// ── SetupPosts 测试 ──

func TestPostService_SetupPosts_Idempotent(t *testing.T) {
	svc, repos := setupTestPostService(t)
	ctx := context.Background()

	first, err := svc.SetupPosts(ctx)
	if err != nil {
		t.Fatalf("SetupPosts 应成功: %v", err)
	}
	if first.PostTypesCreated != 6 || first.PostsCreated != 8 {
		t.Errorf("首次期望创建 6 类型 / 8 岗位，实际 %d / %d", first.PostTypesCreated, first.PostsCreated)
	}

	second, err := svc.SetupPosts(ctx)
	if err != nil {
		t.Fatalf("二次 SetupPosts 应成功: %v", err)
	}
	if second.PostTypesCreated != 0 || second.PostsCreated != 0 {
		t.Errorf("二次执行不应新建，实际 %d / %d", second.PostTypesCreated, second.PostsCreated)
	}
	if len(repos.post.items) != 8 {
		t.Errorf("岗位总数应保持 8，实际 %d", len(repos.post.items))
	}
}

func TestPostService_SetupPosts_FillsMissing(t *testing.T) {
	svc, repos := setupTestPostService(t)
	ctx := context.Background()

	// 预置 CQ 类型（权重与目录不同），SetupPosts 不应覆盖
	if _, err := svc.CreatePostType(ctx, &dto.CreatePostTypeRequest{Name: "CQ", DifficultyWeight: 9}); err != nil {
		t.Fatalf("创建岗位类型失败: %v", err)
	}

	result, err := svc.SetupPosts(ctx)
	if err != nil {
		t.Fatalf("SetupPosts 应成功: %v", err)
	}
	if result.PostTypesCreated != 5 {
		t.Errorf("期望补齐 5 个类型，实际 %d", result.PostTypesCreated)
	}
	cq, _ := repos.postType.GetByName(ctx, "CQ")
	if cq.DifficultyWeight != 9 {
		t.Errorf("已存在的类型不应被修改，实际权重 %d", cq.DifficultyWeight)
	}
}

// ── PostType 测试 ──

func TestPostService_CreatePostType_NameTaken(t *testing.T) {
	svc, _ := setupTestPostService(t)
	ctx := context.Background()

	if _, err := svc.CreatePostType(ctx, &dto.CreatePostTypeRequest{Name: "SOG"}); err != nil {
		t.Fatalf("首次创建应成功: %v", err)
	}
	_, err := svc.CreatePostType(ctx, &dto.CreatePostTypeRequest{Name: "sog"})
	if !errors.Is(err, ErrPostTypeNameTaken) {
		t.Errorf("期望 ErrPostTypeNameTaken，实际: %v", err)
	}
}

func TestPostService_ListPostTypes_EmptyEquipment(t *testing.T) {
	svc, _ := setupTestPostService(t)
	ctx := context.Background()

	created, err := svc.CreatePostType(ctx, &dto.CreatePostTypeRequest{Name: "ROVER"})
	if err != nil {
		t.Fatalf("创建应成功: %v", err)
	}
	if created.DifficultyWeight != 1 || created.PersonnelRequired != 1 {
		t.Errorf("未指定时权重与人数默认为 1，实际 %d / %d", created.DifficultyWeight, created.PersonnelRequired)
	}

	list, err := svc.ListPostTypes(ctx)
	if err != nil {
		t.Fatalf("ListPostTypes 应成功: %v", err)
	}
	if len(list) != 1 || list[0].EquipmentRequired == nil {
		t.Errorf("装备列表应为空切片而非 nil，实际 %+v", list)
	}
}

// ── Post 测试 ──

func TestPostService_CreatePost(t *testing.T) {
	svc, _ := setupTestPostService(t)
	ctx := context.Background()

	pt, err := svc.CreatePostType(ctx, &dto.CreatePostTypeRequest{Name: "ECP", DifficultyWeight: 4})
	if err != nil {
		t.Fatalf("创建类型应成功: %v", err)
	}

	post, err := svc.CreatePost(ctx, &dto.CreatePostRequest{Name: "ECP4", PostTypeID: pt.ID})
	if err != nil {
		t.Fatalf("创建岗位应成功: %v", err)
	}
	if !post.IsActive || post.PostType == nil || post.PostType.Name != "ECP" {
		t.Errorf("岗位应为启用且附带类型，实际 %+v", post)
	}

	_, err = svc.CreatePost(ctx, &dto.CreatePostRequest{Name: "ecp4", PostTypeID: pt.ID})
	if !errors.Is(err, ErrPostNameTaken) {
		t.Errorf("同类型重名应返回 ErrPostNameTaken，实际: %v", err)
	}

	list, _ := svc.ListPosts(ctx)
	if len(list) != 1 {
		t.Errorf("期望 1 个岗位，实际 %d", len(list))
	}
}

func TestPostService_CreatePost_TypeNotFound(t *testing.T) {
	svc, _ := setupTestPostService(t)

	_, err := svc.CreatePost(context.Background(), &dto.CreatePostRequest{Name: "X", PostTypeID: "missing"})
	if !errors.Is(err, ErrPostTypeNotFound) {
		t.Errorf("期望 ErrPostTypeNotFound，实际: %v", err)
	}
}
