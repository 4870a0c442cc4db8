// Package db はUser Directory用のGORM接続を初期化します。
package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	gmysql "gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"unseen/internal/feature/auth/adapters"
)

// サポートするドライバー
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// sqliteMemoryDSN はプロセス内で共有されるインメモリSQLiteです（非永続）。
const sqliteMemoryDSN = "file::memory:?cache=shared"

// Config はデータベース接続設定です。環境変数は DB_ プレフィックス付きで読み込まれます。
type Config struct {
	Driver       string        `env:"DRIVER" envDefault:"memory"`
	DSN          string        `env:"DSN"`
	Host         string        `env:"HOST" envDefault:"localhost"`
	Port         string        `env:"PORT"`
	User         string        `env:"USER"`
	Password     string        `env:"PASSWORD"`
	Name         string        `env:"NAME"`
	SSLMode      string        `env:"SSL_MODE" envDefault:"disable"`
	InstanceName string        `env:"INSTANCE_CONNECTION_NAME"`
	AutoMigrate  bool          `env:"AUTO_MIGRATE" envDefault:"true"`
	RetryFor     time.Duration `env:"CONNECT_RETRY_FOR" envDefault:"60s"`
}

// BuildDSN はドライバーごとの接続文字列を生成します。DSNが明示されていればそれを優先します。
func BuildDSN(cfg Config) (string, error) {
	if cfg.DSN != "" {
		return cfg.DSN, nil
	}
	switch cfg.Driver {
	case DriverSQLite:
		if cfg.Name == "" {
			return sqliteMemoryDSN, nil
		}
		return cfg.Name, nil
	case DriverPostgres:
		port := cfg.Port
		if port == "" {
			port = "5432"
		}
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
			cfg.Host, cfg.User, cfg.Password, cfg.Name, port, cfg.SSLMode), nil
	case DriverMySQL:
		// Cloud SQLのUnixソケットが指定されていればTCPより優先する
		if cfg.InstanceName != "" {
			return fmt.Sprintf("%s:%s@unix(/cloudsql/%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
				cfg.User, cfg.Password, cfg.InstanceName, cfg.Name), nil
		}
		port := cfg.Port
		if port == "" {
			port = "3306"
		}
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
			cfg.User, cfg.Password, cfg.Host, port, cfg.Name), nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func dialector(cfg Config, dsn string) (gorm.Dialector, error) {
	switch cfg.Driver {
	case DriverSQLite:
		return sqlite.Open(dsn), nil
	case DriverPostgres:
		return postgres.Open(dsn), nil
	case DriverMySQL:
		return gmysql.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// OpenDB は設定に従ってDBへ接続し、必要ならusersテーブルをマイグレーションします。
// 接続に失敗した場合はRetryForの間、3秒間隔で再試行します。
func OpenDB(ctx context.Context, cfg Config) (*gorm.DB, error) {
	dsn, err := BuildDSN(cfg)
	if err != nil {
		return nil, err
	}
	d, err := dialector(cfg, dsn)
	if err != nil {
		return nil, err
	}

	var db *gorm.DB
	deadline := time.Now().Add(cfg.RetryFor)
	for {
		db, err = gorm.Open(d, &gorm.Config{TranslateError: true})
		if err == nil {
			break
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("db connect failed after %s: %w", cfg.RetryFor, err)
		}
		slog.Warn("DB connect failed, retrying", "driver", cfg.Driver, "error", err)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(3 * time.Second):
		}
	}

	if cfg.Driver == DriverSQLite {
		// 共有インメモリDBは最後の接続が閉じると消えるため、接続を1本に固定する
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetConnMaxLifetime(0)
	}

	if cfg.AutoMigrate {
		if err := db.WithContext(ctx).AutoMigrate(&adapters.UserModel{}); err != nil {
			return nil, fmt.Errorf("failed to migrate: %w", err)
		}
		if stmt := emailCollationSQL(cfg.Driver); stmt != "" {
			if err := db.WithContext(ctx).Exec(stmt).Error; err != nil {
				return nil, fmt.Errorf("failed to set email collation: %w", err)
			}
		}
	}
	slog.Info("database ready", "driver", cfg.Driver)
	return db, nil
}

// emailCollationSQL はメールアドレスを大文字小文字を区別して比較するためのDDLを返します。
// MySQLの既定照合順序（utf8mb4_0900_ai_ci）では一意制約と検索が大文字小文字を無視するため、
// バイナリ照合順序に変更します。SQLiteとPostgreSQLは既定で区別するため空文字を返します。
func emailCollationSQL(driver string) string {
	if driver != DriverMySQL {
		return ""
	}
	return "ALTER TABLE users MODIFY email VARCHAR(255) CHARACTER SET utf8mb4 COLLATE utf8mb4_bin NOT NULL"
}
