// Package backend 按配置打开镜像写入使用的共享后端连接。
package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"magicResume/internal/config"
	"magicResume/internal/database"
	"magicResume/internal/kv"
	"magicResume/internal/storage"
)

// Backends 持有已打开的键值存储与可选的 Redis 连接。
type Backends struct {
	Store kv.Store
	// Redis 仅在配置需要时非 nil（redis 后端或 queue 模式）。
	Redis *redis.Client

	closers []func() error
}

// Open 根据 cfg.Persist 打开存储。失败时会关闭已经打开的连接。
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Backends, error) {
	if logger == nil {
		logger = slog.Default()
	}
	b := &Backends{}

	if cfg.UsesRedis() {
		client := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr()})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("ping redis: %w", err)
		}
		b.Redis = client
		b.closers = append(b.closers, client.Close)
		logger.Info("redis connection ready", slog.String("addr", cfg.Redis.Addr()))
	}

	store, err := b.openStore(cfg, logger)
	if err != nil {
		_ = b.Close()
		return nil, err
	}
	b.Store = kv.WithPrefix(store, cfg.Persist.KeyPrefix)
	return b, nil
}

func (b *Backends) openStore(cfg *config.Config, logger *slog.Logger) (kv.Store, error) {
	switch cfg.Persist.Backend {
	case config.BackendMemory:
		logger.Warn("using in-memory state backend; state is lost on restart")
		return kv.NewMemoryStore(), nil
	case config.BackendPostgres:
		db, err := database.InitDatabase(cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("init database: %w", err)
		}
		if sqlDB, err := db.DB(); err == nil {
			b.closers = append(b.closers, sqlDB.Close)
		}
		if err := database.Migrate(db); err != nil {
			return nil, fmt.Errorf("migrate database: %w", err)
		}
		logger.Info("postgres state backend ready", slog.String("db", cfg.Database.Name))
		return kv.NewGormStore(db), nil
	case config.BackendRedis:
		if b.Redis == nil {
			return nil, errors.New("redis backend requires a redis connection")
		}
		return kv.NewRedisStore(b.Redis), nil
	case config.BackendMinIO:
		client, err := storage.NewClient(cfg.MinIO)
		if err != nil {
			return nil, fmt.Errorf("init storage client: %w", err)
		}
		logger.Info("minio state backend ready", slog.String("bucket", cfg.MinIO.Bucket))
		return kv.NewObjectStore(client), nil
	default:
		return nil, fmt.Errorf("unknown persist backend %q", cfg.Persist.Backend)
	}
}

// Close 关闭所有已打开的连接，按打开顺序的逆序执行。
func (b *Backends) Close() error {
	var errs []error
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	b.closers = nil
	return errors.Join(errs...)
}
