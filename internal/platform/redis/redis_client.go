// Package redis はユーザーキャッシュ用のRedisクライアントを初期化します。
package redis

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// Config はRedis接続設定です。環境変数は REDIS_ プレフィックス付きで読み込まれます。
type Config struct {
	Addr     string `env:"ADDR"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB" envDefault:"0"`
}

// Enabled はRedisのアドレスが設定されているかを返します。
func (c Config) Enabled() bool {
	return c.Addr != ""
}

// NewRedisClient はRedisに接続し、PINGで接続を確認します。
func NewRedisClient(ctx context.Context, cfg Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// 接続確認
	if err := rdb.Ping(ctx).Err(); err != nil {
		slog.Error("Redis connection failed", "address", cfg.Addr, "error", err)
		_ = rdb.Close()
		return nil, err
	}

	slog.Info("Redis connection successful", "address", cfg.Addr)
	return rdb, nil
}
