package api

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// rateCounter 是登录限流所需的最小 Redis 能力，*redis.Client 直接满足。
type rateCounter interface {
	TxPipelined(ctx context.Context, fn func(redis.Pipeliner) error) ([]redis.Cmder, error)
}

// countAttempt 在同一事务内递增窗口计数并刷新过期时间，
// 计数键不会因 INCR 与 EXPIRE 之间的故障而永久存在。
func countAttempt(ctx context.Context, client rateCounter, key string, window time.Duration) (int64, error) {
	var incr *redis.IntCmd
	_, err := client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, window)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return incr.Val(), nil
}
