package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"unseen/internal/feature/auth/domain/entity"
)

// MinBcryptCost はユーザーディレクトリで許可する最小のbcryptコストです。
const MinBcryptCost = bcrypt.DefaultCost

// UserRepository はユーザーエンティティの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type UserRepository interface {
	// Create は新しいユーザーをストレージに永続化します。
	// 同じメールアドレスのユーザーが既に存在する場合、ErrEmailAlreadyExistsを返します。
	// 重複チェックと挿入はアトミックに行われなければなりません。
	Create(ctx context.Context, user *entity.User) error

	// FindByEmail は指定されたメールアドレスに完全一致するユーザーを取得します。
	// ユーザーが存在しない場合、ErrUserNotFoundを返します。
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByID は指定されたIDに一致するユーザーを取得します。
	// ユーザーが存在しない場合、ErrUserNotFoundを返します。
	FindByID(ctx context.Context, id string) (*entity.User, error)
}

// UserDirectory は登録済みアカウントの正規の保管場所です。
// UserRepositoryの上でパスワードのハッシュ化と照合を担います。
type UserDirectory struct {
	users UserRepository
	cost  int
	now   func() time.Time
	newID func() string
}

// DirectoryOption はUserDirectoryの設定を変更します。
type DirectoryOption func(*UserDirectory)

// WithBcryptCost はbcryptコストを上書きします。MinBcryptCost未満の値はMinBcryptCostに引き上げます。
func WithBcryptCost(cost int) DirectoryOption {
	return func(d *UserDirectory) {
		if cost < MinBcryptCost {
			cost = MinBcryptCost
		}
		d.cost = cost
	}
}

// WithClock はCreatedAtに使う時刻源を設定します。
func WithClock(now func() time.Time) DirectoryOption {
	return func(d *UserDirectory) { d.now = now }
}

// withUnsafeCost はbcrypt.MinCostを含む任意のコストを設定します。テスト専用です。
func withUnsafeCost(cost int) DirectoryOption {
	return func(d *UserDirectory) { d.cost = cost }
}

// NewUserDirectory は指定されたリポジトリを使うUserDirectoryを生成します。
func NewUserDirectory(users UserRepository, opts ...DirectoryOption) *UserDirectory {
	d := &UserDirectory{
		users: users,
		cost:  bcrypt.DefaultCost,
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Create はパスワードをハッシュ化し、emailプロバイダーの新規ユーザーを保存します。
func (d *UserDirectory) Create(ctx context.Context, name, email, password string) (*entity.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), d.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user := &entity.User{
		ID:           d.newID(),
		Email:        email,
		Name:         name,
		PasswordHash: string(hashed),
		AuthProvider: entity.ProviderEmail,
		CreatedAt:    d.now().UTC(),
	}
	if err := d.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// FindByEmail はメールアドレスに完全一致するユーザーを返します。
func (d *UserDirectory) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return d.users.FindByEmail(ctx, email)
}

// FindByID は指定されたIDのユーザーを返します。
func (d *UserDirectory) FindByID(ctx context.Context, id string) (*entity.User, error) {
	return d.users.FindByID(ctx, id)
}

// VerifyPassword はパスワードが保存済みハッシュと一致するかを返します。
func (d *UserDirectory) VerifyPassword(user *entity.User, password string) bool {
	if user == nil {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}
