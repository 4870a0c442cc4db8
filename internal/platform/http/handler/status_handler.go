// Package handler はプラットフォームレベルのエンドポイント用HTTPハンドラーを提供します。
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// StatusRes は GET / の応答ボディです。
type StatusRes struct {
	Status    string   `json:"status"`
	Message   string   `json:"message"`
	Endpoints []string `json:"endpoints"`
}

// Index は / エンドポイントで稼働状況と公開エンドポイント一覧を返します。
func Index(endpoints ...string) gin.HandlerFunc {
	res := StatusRes{
		Status:    "ok",
		Message:   "Unseen API is running",
		Endpoints: append([]string{}, endpoints...),
	}
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, res)
	}
}

// Health はロードバランサー向けの /healthz エンドポイントを処理します。
// キャッシュを防止し、HEADにはボディなしで応答します。
func Health(c *gin.Context) {
	c.Header("Cache-Control", "no-store")

	if c.Request.Method == http.MethodHead {
		c.Status(http.StatusOK)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
