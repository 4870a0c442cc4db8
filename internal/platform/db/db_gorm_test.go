package db

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unseen/internal/feature/auth/adapters"
	"unseen/internal/feature/auth/domain/entity"
)

// TestBuildDSN はドライバーごとのDSN文字列が正しく生成されることを検証します。
func TestBuildDSN(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		cfg      Config
		expected string
	}{
		{
			name:     "explicit DSN wins",
			cfg:      Config{Driver: DriverPostgres, DSN: "postgres://x", Host: "ignored"},
			expected: "postgres://x",
		},
		{
			name:     "sqlite defaults to shared memory",
			cfg:      Config{Driver: DriverSQLite},
			expected: "file::memory:?cache=shared",
		},
		{
			name:     "sqlite file",
			cfg:      Config{Driver: DriverSQLite, Name: "./unseen.db"},
			expected: "./unseen.db",
		},
		{
			name:     "postgres",
			cfg:      Config{Driver: DriverPostgres, Host: "localhost", User: "u", Password: "p", Name: "unseen", SSLMode: "disable"},
			expected: "host=localhost user=u password=p dbname=unseen port=5432 sslmode=disable",
		},
		{
			name:     "mysql tcp",
			cfg:      Config{Driver: DriverMySQL, Host: "localhost", Port: "3307", User: "u", Password: "p", Name: "unseen"},
			expected: "u:p@tcp(localhost:3307)/unseen?charset=utf8mb4&parseTime=true&loc=UTC",
		},
		{
			name:     "mysql cloud sql takes precedence",
			cfg:      Config{Driver: DriverMySQL, Host: "localhost", User: "u", Password: "p", Name: "unseen", InstanceName: "project:region:instance"},
			expected: "u:p@unix(/cloudsql/project:region:instance)/unseen?charset=utf8mb4&parseTime=true&loc=UTC",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dsn, err := BuildDSN(tt.cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, dsn)
		})
	}
}

// TestBuildDSN_UnsupportedDriver は未知のドライバーでエラーになることを検証します。
func TestBuildDSN_UnsupportedDriver(t *testing.T) {
	t.Parallel()

	for _, driver := range []string{"", DriverMemory, "oracle"} {
		_, err := BuildDSN(Config{Driver: driver})
		assert.Error(t, err, driver)
	}
}

// TestOpenDB_SQLite はSQLiteに接続し、usersテーブルがマイグレーションされることを検証します。
func TestOpenDB_SQLite(t *testing.T) {
	db, err := OpenDB(context.Background(), Config{Driver: DriverSQLite, DSN: ":memory:", AutoMigrate: true})
	require.NoError(t, err)

	assert.True(t, db.Migrator().HasTable(&adapters.UserModel{}))
}

// TestEmailCollationSQL はMySQLのみemail列をバイナリ照合順序に変更することを検証します。
func TestEmailCollationSQL(t *testing.T) {
	assert.Empty(t, emailCollationSQL(DriverSQLite))
	assert.Empty(t, emailCollationSQL(DriverPostgres))

	stmt := emailCollationSQL(DriverMySQL)
	assert.Contains(t, stmt, "ALTER TABLE users MODIFY email")
	assert.Contains(t, stmt, "COLLATE utf8mb4_bin")
}

// TestOpenDB_SQLite_EmailIsCaseSensitive は大文字小文字だけが異なるメールアドレスが別ユーザーとして登録できることを検証します。
func TestOpenDB_SQLite_EmailIsCaseSensitive(t *testing.T) {
	db, err := OpenDB(context.Background(), Config{Driver: DriverSQLite, DSN: ":memory:", AutoMigrate: true})
	require.NoError(t, err)
	repo := adapters.NewUserGorm(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &entity.User{ID: "u-1", Email: "ada@example.com", Name: "Ada", PasswordHash: "h", AuthProvider: entity.ProviderEmail, CreatedAt: time.Now()}))
	require.NoError(t, repo.Create(ctx, &entity.User{ID: "u-2", Email: "Ada@example.com", Name: "Ada", PasswordHash: "h", AuthProvider: entity.ProviderEmail, CreatedAt: time.Now()}))

	got, err := repo.FindByEmail(ctx, "Ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u-2", got.ID)
}
