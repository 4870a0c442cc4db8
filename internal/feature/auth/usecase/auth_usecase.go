// Package usecase はauthフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"unseen/internal/feature/auth/domain/entity"
)

// dummyHash はユーザーが存在しない場合にもbcrypt比較を実行するためのハッシュです。
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// TokenIssuer はセッショントークン発行のインターフェースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（platform/jwt）ではなくコンシューマー（usecase）が定義します。
type TokenIssuer interface {
	// Issue は指定されたユーザーIDを埋め込んだ署名済みトークンを生成します。
	Issue(userID string) (string, error)
}

// AuthResult はサインアップ・ログイン成功時の結果です。
type AuthResult struct {
	User  *entity.User
	Token string
}

// authUsecase は認証ビジネスロジックを実装します。
type authUsecase struct {
	directory *UserDirectory
	tokens    TokenIssuer
}

// NewAuthUsecase はauthUsecaseの新しいインスタンスを生成します。
func NewAuthUsecase(directory *UserDirectory, tokens TokenIssuer) *authUsecase {
	return &authUsecase{
		directory: directory,
		tokens:    tokens,
	}
}

// Signup は新規ユーザーを登録し、セッショントークンを発行します。
// メールアドレスが既に使用されている場合はErrEmailAlreadyExistsを返します。
func (u *authUsecase) Signup(ctx context.Context, name, email, password string) (*AuthResult, error) {
	if name == "" || email == "" || password == "" {
		return nil, ErrMissingFields
	}

	user, err := u.directory.Create(ctx, name, email, password)
	if err != nil {
		return nil, err
	}

	token, err := u.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &AuthResult{User: user, Token: token}, nil
}

// Login はユーザーを認証し、成功時にセッショントークンを返します。
// タイミング攻撃を防止するため、ユーザーが存在しない場合でもbcrypt比較を実行します。
func (u *authUsecase) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	if email == "" || password == "" {
		return nil, ErrMissingFields
	}

	user, err := u.directory.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if user == nil {
		// 結果は使わないが、処理時間を揃えるために比較を実行する
		_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
		return nil, ErrInvalidCredentials
	}
	if !u.directory.VerifyPassword(user, password) {
		return nil, ErrInvalidCredentials
	}

	token, err := u.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &AuthResult{User: user, Token: token}, nil
}

// CurrentUser は検証済みトークンから取り出したユーザーIDでユーザーを解決します。
// ユーザーが存在しない場合はErrUserNotFoundを返します。
func (u *authUsecase) CurrentUser(ctx context.Context, userID string) (*entity.User, error) {
	if userID == "" {
		return nil, ErrInvalidToken
	}
	return u.directory.FindByID(ctx, userID)
}
