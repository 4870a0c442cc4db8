// Package http はAPIクライアントが共有する送信用HTTPクライアントを提供します。
package http

import (
	"net"
	"net/http"
	"time"
)

// DefaultTimeout は呼び出し側がタイムアウトを指定しない場合のリクエスト全体の上限です。
const DefaultTimeout = 15 * time.Second

// UserAgent はUser-Agent未設定のリクエストに付与されます。
const UserAgent = "unseen-client/1"

// NewHTTPClient はAuth API呼び出し用のHTTPクライアントを作成します。
//
// 設定:
//   - Client.Timeout: リクエスト全体の上限（0以下ならDefaultTimeout）
//   - ResponseHeaderTimeout: 応答ヘッダー待ちの上限（Client.Timeoutと同じ）
//   - Dialer / TLSHandshakeTimeout: 接続確立はそれぞれ5秒まで
//   - User-Agent: 未設定のリクエストにUserAgentを付与
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	dialer := &net.Dialer{Timeout: 5 * time.Second, KeepAlive: 30 * time.Second}
	base := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          10,
		MaxIdleConnsPerHost:   4,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ResponseHeaderTimeout: timeout,
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: &userAgentTransport{next: base, agent: UserAgent},
	}
}

type userAgentTransport struct {
	next  http.RoundTripper
	agent string
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") != "" {
		return t.next.RoundTrip(req)
	}
	// RoundTripperは元のリクエストを変更してはならない
	r := req.Clone(req.Context())
	r.Header.Set("User-Agent", t.agent)
	return t.next.RoundTrip(r)
}
