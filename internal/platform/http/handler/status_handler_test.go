package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func setupRouter() *gin.Engine {
	r := gin.New()
	r.GET("/", Index("/auth/signup", "/auth/login", "/auth/validate"))
	r.GET("/healthz", Health)
	r.HEAD("/healthz", Health)
	return r
}

// TestIndex は / が稼働状況とエンドポイント一覧を返すことを検証します。
func TestIndex(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	setupRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var res StatusRes
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "ok", res.Status)
	assert.Equal(t, "Unseen API is running", res.Message)
	assert.Equal(t, []string{"/auth/signup", "/auth/login", "/auth/validate"}, res.Endpoints)
}

// TestHealth_GET はGETで200とstatus=okが返ることを検証します。
func TestHealth_GET(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	setupRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

// TestHealth_HEAD はHEADでボディなしの200が返ることを検証します。
func TestHealth_HEAD(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	setupRouter().ServeHTTP(w, httptest.NewRequest(http.MethodHead, "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
}
