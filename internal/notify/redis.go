package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// Channel 是 worker 与 API 之间转发通知的 Redis 频道。
const Channel = "state_notify"

// Publisher 是通知发送方。
type Publisher interface {
	Publish(ctx context.Context, msg Message) error
}

// RedisPublisher 将消息发布到 Redis 频道，供 API 进程转发。
type RedisPublisher struct {
	client *redis.Client
}

// NewRedisPublisher 构造 RedisPublisher。
func NewRedisPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{client: client}
}

func (p *RedisPublisher) Publish(ctx context.Context, msg Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal notify message: %w", err)
	}
	if err := p.client.Publish(ctx, Channel, payload).Err(); err != nil {
		return fmt.Errorf("publish notify message: %w", err)
	}
	return nil
}

// RelayFromRedis 订阅 Redis 频道并把消息转发到本地 Hub，直到 ctx 结束。
func RelayFromRedis(ctx context.Context, client *redis.Client, hub *Hub, logger *slog.Logger) {
	pubsub := client.Subscribe(ctx, Channel)
	defer pubsub.Close()

	logger.Info("relaying notifications from redis", slog.String("channel", Channel))

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				logger.Warn("redis notify channel closed")
				return
			}
			var decoded Message
			if err := json.Unmarshal([]byte(msg.Payload), &decoded); err != nil {
				logger.Warn("drop malformed notify payload", slog.Any("error", err))
				continue
			}
			_ = hub.Publish(ctx, decoded)
		}
	}
}
