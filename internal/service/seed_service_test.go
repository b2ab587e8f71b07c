package service

import (
	"context"
	"testing"

	"github.com/j4v3l/Duty-Tracker/config"
)

func TestSeedService_Bootstrap(t *testing.T) {
	seed, err := config.LoadSeed("")
	if err != nil {
		t.Fatalf("加载内置种子数据失败: %v", err)
	}
	repos := newTestRepos()
	svc := NewSeedService(repos.toRepository(), testLogger)
	ctx := context.Background()

	first, err := svc.Bootstrap(ctx, seed)
	if err != nil {
		t.Fatalf("Bootstrap 应成功: %v", err)
	}
	if first.PostTypesCreated != 6 || first.PostsCreated != 8 || first.PersonnelCreated != 18 {
		t.Errorf("首次期望 6/8/18，实际 %d/%d/%d", first.PostTypesCreated, first.PostsCreated, first.PersonnelCreated)
	}
	if first.PersonnelSkipped {
		t.Error("空库不应跳过人员导入")
	}

	second, err := svc.Bootstrap(ctx, seed)
	if err != nil {
		t.Fatalf("二次 Bootstrap 应成功: %v", err)
	}
	if second.PersonnelCreated != 0 || !second.PersonnelSkipped {
		t.Errorf("已有人员时应跳过，实际 %+v", second)
	}
	if len(repos.personnel.items) != 18 {
		t.Errorf("人员总数应保持 18，实际 %d", len(repos.personnel.items))
	}
}

func TestSeedService_Bootstrap_SkipsWhenOnlyInactive(t *testing.T) {
	seed, _ := config.LoadSeed("")
	repos := newTestRepos()
	p := repos.addPerson("SGT", "Lastre")
	p.IsActive = false

	result, err := NewSeedService(repos.toRepository(), testLogger).Bootstrap(context.Background(), seed)
	if err != nil {
		t.Fatalf("Bootstrap 应成功: %v", err)
	}
	if !result.PersonnelSkipped || result.PersonnelCreated != 0 {
		t.Errorf("人员表非空（含停用）时不应导入名册，实际 %+v", result)
	}
}
