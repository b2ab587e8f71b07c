package service

import (
	"context"
	"sync"
	"time"

	pkgerrors "github.com/j4v3l/Duty-Tracker/pkg/errors"
)

// fairnessLockKey 公平性变更锁：导入、手工分配、全量重算共用
const fairnessLockKey = "fairness"

// MutationLocker 变更互斥锁。
// 返回的 unlock 幂等；ctx 结束前未获取到锁时返回 ErrMutationBusy。
// pkg/redis.Client 满足该接口（跨进程），未启用 Redis 时使用 NewLocalLocker（进程内）。
type MutationLocker interface {
	Lock(ctx context.Context, key string) (func(), error)
}

// localLocker 基于容量为 1 的 channel 的进程内锁，支持 ctx 超时
type localLocker struct {
	mu    sync.Mutex
	slots map[string]chan struct{}
}

// NewLocalLocker 创建进程内 MutationLocker
func NewLocalLocker() MutationLocker {
	return &localLocker{slots: make(map[string]chan struct{})}
}

func (l *localLocker) slot(key string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	ch, ok := l.slots[key]
	if !ok {
		ch = make(chan struct{}, 1)
		l.slots[key] = ch
	}
	return ch
}

func (l *localLocker) Lock(ctx context.Context, key string) (func(), error) {
	ch := l.slot(key)
	select {
	case ch <- struct{}{}:
	case <-ctx.Done():
		return nil, pkgerrors.ErrMutationBusy
	}

	var once sync.Once
	return func() {
		once.Do(func() { <-ch })
	}, nil
}

// acquireFairnessLock 在 wait 时限内获取公平性变更锁；wait<=0 表示仅受 ctx 约束
func acquireFairnessLock(ctx context.Context, locker MutationLocker, wait time.Duration) (func(), error) {
	lockCtx := ctx
	if wait > 0 {
		var cancel context.CancelFunc
		lockCtx, cancel = context.WithTimeout(ctx, wait)
		defer cancel()
	}
	return locker.Lock(lockCtx, fairnessLockKey)
}
