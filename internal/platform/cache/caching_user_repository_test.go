package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"

	"unseen/internal/feature/auth/domain/entity"
	"unseen/internal/feature/auth/usecase"
)

// mockUserRepository はテスト用のUserRepositoryモック実装です。
type mockUserRepository struct {
	createFn      func(ctx context.Context, u *entity.User) error
	findByEmailFn func(ctx context.Context, email string) (*entity.User, error)
	findByIDFn    func(ctx context.Context, id string) (*entity.User, error)
}

// Create はモックのCreate関数を呼び出します。
func (m *mockUserRepository) Create(ctx context.Context, u *entity.User) error {
	if m.createFn != nil {
		return m.createFn(ctx, u)
	}
	return nil
}

// FindByEmail はモックのFindByEmail関数を呼び出します。
func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	if m.findByEmailFn != nil {
		return m.findByEmailFn(ctx, email)
	}
	return nil, usecase.ErrUserNotFound
}

// FindByID はモックのFindByID関数を呼び出します。
func (m *mockUserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, usecase.ErrUserNotFound
}

func testUser() *entity.User {
	return &entity.User{
		ID:           "user-1",
		Email:        "ada@example.com",
		Name:         "Ada",
		PasswordHash: "$2a$10$hash",
		AuthProvider: entity.ProviderEmail,
		CreatedAt:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// TestNewCachingUserRepository_Defaults はデフォルト値（TTLとnamespace）が正しく設定されることを検証します。
func TestNewCachingUserRepository_Defaults(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name              string
		ttl               time.Duration
		namespace         string
		expectedTTL       time.Duration
		expectedNamespace string
	}{
		{"default values when zero/empty", 0, "", 5 * time.Minute, "users"},
		{"negative ttl uses default", -1 * time.Minute, "", 5 * time.Minute, "users"},
		{"custom values preserved", 10 * time.Minute, "custom", 10 * time.Minute, "custom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			repo := NewCachingUserRepository(nil, tt.ttl, &mockUserRepository{}, tt.namespace)

			if repo.ttl != tt.expectedTTL {
				t.Errorf("expected TTL %v, got %v", tt.expectedTTL, repo.ttl)
			}
			if repo.namespace != tt.expectedNamespace {
				t.Errorf("expected namespace %q, got %q", tt.expectedNamespace, repo.namespace)
			}
		})
	}
}

// TestCachingUserRepository_FindByID_NilRedis はRedis未設定時に内部リポジトリへ直接委譲することを検証します。
func TestCachingUserRepository_FindByID_NilRedis(t *testing.T) {
	t.Parallel()

	called := false
	inner := &mockUserRepository{
		findByIDFn: func(ctx context.Context, id string) (*entity.User, error) {
			called = true
			return testUser(), nil
		},
	}

	repo := NewCachingUserRepository(nil, time.Minute, inner, "users")
	u, err := repo.FindByID(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Error("inner repository should be called when redis is nil")
	}
	if u.Email != "ada@example.com" {
		t.Errorf("unexpected user: %+v", u)
	}
}

// TestCachingUserRepository_FindByID_CacheHit はキャッシュヒット時に内部リポジトリを呼ばないことを検証します。
func TestCachingUserRepository_FindByID_CacheHit(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	cached, _ := json.Marshal(fromEntity(testUser()))
	mock.ExpectGet("users:id:user-1").SetVal(string(cached))

	innerCalled := false
	inner := &mockUserRepository{
		findByIDFn: func(ctx context.Context, id string) (*entity.User, error) {
			innerCalled = true
			return nil, nil
		},
	}

	repo := NewCachingUserRepository(rdb, 5*time.Minute, inner, "users")
	u, err := repo.FindByID(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if innerCalled {
		t.Error("inner repository should not be called on cache hit")
	}
	if u.PasswordHash != "$2a$10$hash" || u.AuthProvider != entity.ProviderEmail {
		t.Errorf("cached user not restored: %+v", u)
	}
	if !u.CreatedAt.Equal(testUser().CreatedAt) {
		t.Errorf("expected createdAt %v, got %v", testUser().CreatedAt, u.CreatedAt)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingUserRepository_FindByID_CacheMiss はキャッシュミス時に取得結果をキャッシュへ保存することを検証します。
func TestCachingUserRepository_FindByID_CacheMiss(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	expected, _ := json.Marshal(fromEntity(testUser()))
	mock.ExpectGet("users:id:user-1").RedisNil()
	mock.ExpectSet("users:id:user-1", expected, 5*time.Minute).SetVal("OK")

	inner := &mockUserRepository{
		findByIDFn: func(ctx context.Context, id string) (*entity.User, error) {
			return testUser(), nil
		},
	}

	repo := NewCachingUserRepository(rdb, 5*time.Minute, inner, "users")
	if _, err := repo.FindByID(context.Background(), "user-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingUserRepository_FindByID_NotFound は見つからないユーザーをキャッシュしないことを検証します。
func TestCachingUserRepository_FindByID_NotFound(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	mock.ExpectGet("users:id:ghost").RedisNil()

	repo := NewCachingUserRepository(rdb, 5*time.Minute, &mockUserRepository{}, "users")
	_, err := repo.FindByID(context.Background(), "ghost")

	if !errors.Is(err, usecase.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingUserRepository_FindByID_CorruptedCache は破損したキャッシュを削除し、内部リポジトリにフォールバックすることを検証します。
func TestCachingUserRepository_FindByID_CorruptedCache(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	expected, _ := json.Marshal(fromEntity(testUser()))
	mock.ExpectGet("users:id:user-1").SetVal("invalid json")
	mock.ExpectDel("users:id:user-1").SetVal(1)
	mock.ExpectSet("users:id:user-1", expected, 5*time.Minute).SetVal("OK")

	inner := &mockUserRepository{
		findByIDFn: func(ctx context.Context, id string) (*entity.User, error) {
			return testUser(), nil
		},
	}

	repo := NewCachingUserRepository(rdb, 5*time.Minute, inner, "users")
	if _, err := repo.FindByID(context.Background(), "user-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingUserRepository_EmailPathBypassesCache はCreateとFindByEmailがRedisを使わないことを検証します。
func TestCachingUserRepository_EmailPathBypassesCache(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	inner := &mockUserRepository{
		createFn: func(ctx context.Context, u *entity.User) error { return usecase.ErrEmailAlreadyExists },
		findByEmailFn: func(ctx context.Context, email string) (*entity.User, error) {
			return testUser(), nil
		},
	}

	repo := NewCachingUserRepository(rdb, 5*time.Minute, inner, "users")
	if err := repo.Create(context.Background(), testUser()); !errors.Is(err, usecase.ErrEmailAlreadyExists) {
		t.Errorf("expected ErrEmailAlreadyExists, got %v", err)
	}
	if _, err := repo.FindByEmail(context.Background(), "ada@example.com"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unexpected redis calls: %v", err)
	}
}

// TestSafe はRedisキーで問題となる文字がエスケープされることを検証します。
func TestSafe(t *testing.T) {
	t.Parallel()

	if got := safe("a b:c"); got != "a_b_c" {
		t.Errorf("expected a_b_c, got %q", got)
	}
}
