// Package dto はauthフィーチャーのHTTPトランスポート層のデータ転送オブジェクトを定義します。
package dto

// リクエストボディは必須項目の有無のみを検証します。
// メール形式とパスワード強度は送信前にクライアントが検証します。

// SignupReq は POST /auth/signup のボディです。
type SignupReq struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginReq は POST /auth/login のボディです。
type LoginReq struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}
