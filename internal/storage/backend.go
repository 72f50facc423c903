package storage

import (
	"context"
	"errors"
	"fmt"

	"FocusTimer/internal/config"
)

var ErrNotFound = errors.New("record not found")

// Backend 持久化键值存储，每个键保存一整条 JSON 记录
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	// 删除不存在的键不是错误
	Delete(ctx context.Context, key string) error
	Close() error
}

// Open 按配置中的 driver 打开存储
func Open(ctx context.Context, cfg config.StorageConfig) (Backend, error) {
	switch cfg.Driver {
	case "", "sqlite":
		return NewSQLiteBackend(cfg.Path)
	case "postgres":
		return NewPostgresBackend(ctx, cfg.DSN)
	case "redis":
		return NewRedisBackend(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.KeyPrefix)
	case "memory":
		return NewMemoryBackend(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
