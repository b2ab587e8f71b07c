package service

import (
	"context"
	"errors"
	"testing"
	"time"

	pkgerrors "github.com/j4v3l/Duty-Tracker/pkg/errors"
)

func TestLocalLocker_Exclusive(t *testing.T) {
	locker := NewLocalLocker()
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "fairness")
	if err != nil {
		t.Fatalf("首次加锁应成功: %v", err)
	}

	waitCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	if _, err := locker.Lock(waitCtx, "fairness"); !errors.Is(err, pkgerrors.ErrMutationBusy) {
		t.Errorf("锁被占用时期望 ErrMutationBusy，实际: %v", err)
	}

	// 不同 key 互不影响
	other, err := locker.Lock(ctx, "other")
	if err != nil {
		t.Fatalf("不同 key 应可加锁: %v", err)
	}
	other()

	unlock()
	unlock() // 幂等

	again, err := locker.Lock(ctx, "fairness")
	if err != nil {
		t.Fatalf("释放后应可再次加锁: %v", err)
	}
	again()
}

func TestLocalLocker_WaitsForRelease(t *testing.T) {
	locker := NewLocalLocker()
	unlock, _ := locker.Lock(context.Background(), "fairness")

	go func() {
		time.Sleep(10 * time.Millisecond)
		unlock()
	}()

	next, err := acquireFairnessLock(context.Background(), locker, time.Second)
	if err != nil {
		t.Fatalf("等待期内释放后应获取成功: %v", err)
	}
	next()
}
