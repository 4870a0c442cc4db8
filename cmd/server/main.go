package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	redisv9 "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"unseen/internal/app/di"
	"unseen/internal/app/router"
	"unseen/internal/config"
	authhandler "unseen/internal/feature/auth/transport/handler"
	authusecase "unseen/internal/feature/auth/usecase"
	"unseen/internal/platform/db"
	jwtmw "unseen/internal/platform/jwt"
	infraredis "unseen/internal/platform/redis"
	"unseen/internal/shared/ratelimiter"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

// installLogger はJSONハンドラーをデフォルトロガーに設定します。
// レベルは設定読み込み後にlevelへ反映します。
func installLogger(w io.Writer, level *slog.LevelVar) {
	slog.SetDefault(slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})))
}

func run() error {
	var level slog.LevelVar
	installLogger(os.Stdout, &level)

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	level.Set(cfg.SlogLevel())
	if !cfg.IsDev() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// db（DB_DRIVER=memory の場合は使わない）
	var gdb *gorm.DB
	if cfg.DB.Driver != db.DriverMemory {
		gdb, err = db.OpenDB(ctx, cfg.DB)
		if err != nil {
			return err
		}
		if sqlDB, err := gdb.DB(); err == nil {
			defer func() { _ = sqlDB.Close() }()
		}
	}

	// Redis（接続できなければキャッシュなしで起動）
	var rdb *redisv9.Client
	if cfg.Redis.Enabled() {
		if tmp, err := infraredis.NewRedisClient(ctx, cfg.Redis); err != nil {
			slog.Warn("Redis unavailable, running without user cache")
		} else {
			rdb = tmp
			defer func() {
				if err := rdb.Close(); err != nil {
					slog.Error("failed to close Redis client", "error", err)
				}
			}()
		}
	}

	// Repository / Usecase / Handler
	userRepo := di.NewUserRepository(gdb, rdb, cfg.UserCacheTTL)
	directory := authusecase.NewUserDirectory(userRepo, authusecase.WithBcryptCost(cfg.BcryptCost))
	codec, err := jwtmw.NewCodec(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		return err
	}
	authUC := authusecase.NewAuthUsecase(directory, codec)
	authH := authhandler.NewAuthHandler(authUC)
	limiter := ratelimiter.NewRateLimiter(cfg.AuthRateLimit, cfg.AuthRateWindow)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router.NewRouter(authH, codec, router.WithAuthRateLimit(limiter)),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("Unseen API listening", "addr", srv.Addr, "env", cfg.Env, "db", cfg.DB.Driver, "cache", rdb != nil)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
