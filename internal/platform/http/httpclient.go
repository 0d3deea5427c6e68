package http

import (
	"net"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// NewHTTPClient は外部API呼び出し用に設定されたHTTPクライアントを作成します。
//
// 設定:
//   - Proxy: 環境変数（HTTP_PROXYなど）が設定されている場合に使用
//   - Dialer.Timeout: TCP接続タイムアウト（デフォルトより短い）
//   - MaxIdleConns / IdleConnTimeout: アイドル接続の上限と維持期間
//   - TLSHandshakeTimeout: HTTPSハンドシェイクの最大時間
//   - Client.Timeout: リクエスト全体のタイムアウト（呼び出し元から渡される）
//   - headers: すべてのリクエストに付与する固定ヘッダー（空なら付与しない）
//   - otelhttp: 外向きリクエストごとにクライアントスパンを作成（TracerProvider未設定ならno-op）
//
// 注意:
//   - http.DefaultClientにはタイムアウトがないため、常にカスタムクライアントを使用すること
func NewHTTPClient(timeout time.Duration, headers http.Header, opts ...otelhttp.Option) *http.Client {
	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(WithHeaders(t, headers), opts...),
	}
}

// headerTransport sets a fixed header set on every outgoing request.
type headerTransport struct {
	base    http.RoundTripper
	headers http.Header
}

// WithHeaders wraps base so that every request carries headers.
// Headers already present on a request are left untouched.
func WithHeaders(base http.RoundTripper, headers http.Header) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	if len(headers) == 0 {
		return base
	}
	return &headerTransport{base: base, headers: headers.Clone()}
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// RoundTripper must not mutate the caller's request
	r := req.Clone(req.Context())
	for k, vs := range t.headers {
		if r.Header.Get(k) != "" {
			continue
		}
		for _, v := range vs {
			r.Header.Add(k, v)
		}
	}
	return t.base.RoundTrip(r)
}
