// Package handler はauthフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"unseen/internal/feature/auth/domain/entity"
	"unseen/internal/feature/auth/transport/http/dto"
	"unseen/internal/feature/auth/usecase"
	jwtmw "unseen/internal/platform/jwt"
)

// レスポンスメッセージはクライアントにそのまま表示されます。
const (
	msgSignupMissing   = "Name, email, and password are required"
	msgSignupDuplicate = "User already exists with this email"
	msgSignupError     = "Server error during signup"
	msgLoginMissing    = "Email and password are required"
	msgLoginInvalid    = "Invalid email or password"
	msgLoginError      = "Server error during login"
	msgUserNotFound    = "User not found"
	msgInvalidToken    = "Invalid or expired token"
)

// AuthUsecase は認証操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type AuthUsecase interface {
	// Signup は新規ユーザーを登録し、トークンを発行します。
	Signup(ctx context.Context, name, email, password string) (*usecase.AuthResult, error)
	// Login はユーザーを認証し、成功時にトークンを返します。
	Login(ctx context.Context, email, password string) (*usecase.AuthResult, error)
	// CurrentUser は検証済みのユーザーIDからユーザーを取得します。
	CurrentUser(ctx context.Context, userID string) (*entity.User, error)
}

// AuthHandler は認証操作のHTTPリクエストを処理します。
// AuthUsecaseインターフェースに依存し、JSONリクエスト/レスポンスを処理します。
type AuthHandler struct {
	auth AuthUsecase
}

// NewAuthHandler はAuthHandlerの新しいインスタンスを生成します。
// 依存性注入用のコンストラクタで、外部からAuthUsecaseを注入します。
func NewAuthHandler(auth AuthUsecase) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Signup はユーザー登録APIエンドポイントを処理します。
// - 必須フィールド不足時は400を返却
// - メール重複時は400を返却
// - 成功時はユーザーとトークン付きで201を返却
func (h *AuthHandler) Signup(c *gin.Context) {
	var req dto.SignupReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("signup validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, dto.MessageRes{Message: msgSignupMissing})
		return
	}

	res, err := h.auth.Signup(c.Request.Context(), req.Name, req.Email, req.Password)
	switch {
	case err == nil:
	case errors.Is(err, usecase.ErrMissingFields):
		c.JSON(http.StatusBadRequest, dto.MessageRes{Message: msgSignupMissing})
		return
	case errors.Is(err, usecase.ErrEmailAlreadyExists):
		slog.Info("signup rejected: duplicate email", "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, dto.MessageRes{Message: msgSignupDuplicate})
		return
	default:
		slog.Error("signup error", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusInternalServerError, dto.MessageRes{Message: msgSignupError})
		return
	}

	slog.Info("user signup successful", "user_id", res.User.ID, "remote_addr", c.ClientIP())
	c.JSON(http.StatusCreated, dto.AuthRes{User: dto.NewUserRes(res.User), Token: res.Token})
}

// Login はユーザーログインAPIエンドポイントを処理します。
// - 必須フィールド不足時は400を返却
// - 認証失敗時は401を返却（どちらの条件で失敗したかは公開しない）
// - 認証成功時はユーザーとトークン付きで200を返却
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("login validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, dto.MessageRes{Message: msgLoginMissing})
		return
	}

	res, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	switch {
	case err == nil:
	case errors.Is(err, usecase.ErrMissingFields):
		c.JSON(http.StatusBadRequest, dto.MessageRes{Message: msgLoginMissing})
		return
	case errors.Is(err, usecase.ErrInvalidCredentials):
		// ユーザー列挙攻撃を防止するため、実際のエラーを公開しない
		slog.Warn("login failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusUnauthorized, dto.MessageRes{Message: msgLoginInvalid})
		return
	default:
		slog.Error("login error", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusInternalServerError, dto.MessageRes{Message: msgLoginError})
		return
	}

	slog.Info("user login successful", "user_id", res.User.ID, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, dto.AuthRes{User: dto.NewUserRes(res.User), Token: res.Token})
}

// Validate はセッション検証APIエンドポイントを処理します。
// jwtmw.AuthRequiredの後段で呼ばれ、トークンのユーザーを解決します。
// - ユーザーが存在しない場合は401を返却
// - 成功時はユーザー情報を200で返却
func (h *AuthHandler) Validate(c *gin.Context) {
	userID, ok := jwtmw.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.MessageRes{Message: msgInvalidToken})
		return
	}

	user, err := h.auth.CurrentUser(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, usecase.ErrUserNotFound) {
			c.JSON(http.StatusUnauthorized, dto.MessageRes{Message: msgUserNotFound})
			return
		}
		slog.Error("validation error", "error", err, "user_id", userID)
		c.JSON(http.StatusUnauthorized, dto.MessageRes{Message: msgInvalidToken})
		return
	}
	c.JSON(http.StatusOK, dto.NewUserRes(user))
}
