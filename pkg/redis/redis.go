package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/j4v3l/Duty-Tracker/config"
	pkgerrors "github.com/j4v3l/Duty-Tracker/pkg/errors"
)

// Client Redis 客户端封装
// 用于跨进程的公平性变更互斥锁与导入接口限流
type Client struct {
	rdb    *goredis.Client
	logger *zap.Logger
	ttl    time.Duration
}

// NewClient 创建 Redis 连接并执行 Ping 健康检查
func NewClient(cfg *config.RedisConfig, lockTTL time.Duration, logger *zap.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("Redis 连接失败: %w", err)
	}

	logger.Info("Redis 连接成功", zap.String("addr", cfg.Addr))

	return &Client{rdb: rdb, logger: logger, ttl: lockTTL}, nil
}

// ── 分布式互斥锁 ──

const (
	lockPrefix   = "duty:lock:"
	lockPollStep = 100 * time.Millisecond
)

// releaseScript 仅当锁值与持有者令牌一致时才删除，避免误删他人的锁
var releaseScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Lock 获取名为 key 的互斥锁，轮询直到成功或 ctx 结束。
// 返回的 unlock 幂等，可安全 defer。
func (c *Client) Lock(ctx context.Context, key string) (func(), error) {
	token := uuid.NewString()
	fullKey := lockPrefix + key

	for {
		ok, err := c.rdb.SetNX(ctx, fullKey, token, c.ttl).Result()
		if err != nil {
			if ctx.Err() != nil {
				return nil, pkgerrors.ErrMutationBusy
			}
			return nil, fmt.Errorf("获取 Redis 锁失败: %w", err)
		}
		if ok {
			break
		}

		select {
		case <-ctx.Done():
			return nil, pkgerrors.ErrMutationBusy
		case <-time.After(lockPollStep):
		}
	}

	released := false
	return func() {
		if released {
			return
		}
		released = true
		// 使用独立 ctx：调用方 ctx 可能已取消，但锁仍需释放
		releaseCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		n, err := releaseScript.Run(releaseCtx, c.rdb, []string{fullKey}, token).Int()
		if err != nil {
			c.logger.Error("释放 Redis 锁失败", zap.String("key", fullKey), zap.Error(err))
			return
		}
		if n == 0 {
			c.logger.Warn("释放 Redis 锁时锁已过期", zap.String("key", fullKey), zap.Error(pkgerrors.ErrLockNotHeld))
		}
	}, nil
}

// ── 滑动窗口限流 ──

// CheckRateLimit 基于有序集合的滑动窗口限流，返回本次请求是否放行
func (c *Client) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	now := time.Now()
	windowStart := now.Add(-window).UnixNano()
	member := strconv.FormatInt(now.UnixNano(), 10) + ":" + uuid.NewString()

	var card *goredis.IntCmd
	_, err := c.rdb.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(windowStart, 10))
		pipe.ZAdd(ctx, key, goredis.Z{Score: float64(now.UnixNano()), Member: member})
		card = pipe.ZCard(ctx, key)
		pipe.Expire(ctx, key, window)
		return nil
	})
	if err != nil {
		return false, err
	}
	return card.Val() <= int64(limit), nil
}

// Close 关闭 Redis 连接
func (c *Client) Close() error {
	return c.rdb.Close()
}
