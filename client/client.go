// client 包，指的是 GitHub 客户端库的初始化和使用。
// 与全局的 client 不同，这里的 client 总是根据调用方传入的凭证创建，
// 不同用户之间不共享凭证。
package client

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/google/go-github/v73/github"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"task-man/comm"
)

// Options 是创建 client 时需要的一些配置
type Options struct {
	// API 地址，以 / 结尾，为空则使用 https://api.github.com/
	BaseURL string
	// 单次请求超时时间
	Timeout time.Duration
	// 请求频率限制，所有 client 共享，为 nil 则不限制
	Limiter *rate.Limiter
	// 底层 transport，为 nil 则使用 http.DefaultTransport，主要用于测试
	Transport http.RoundTripper
}

// Factory 根据凭证创建 API
type Factory struct {
	Options Options
}

// NewFactory
// rps 为每秒请求数，小于等于 0 则不限制
func NewFactory(baseURL string, timeout time.Duration, rps float64) *Factory {
	opt := Options{
		BaseURL: baseURL,
		Timeout: timeout,
	}
	if rps > 0 {
		opt.Limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
	return &Factory{Options: opt}
}

// API 封装了 task-man 需要用到的 GitHub 接口
type API struct {
	gh *github.Client
}

// Connect
// 校验凭证，并创建 API
// 凭证为空或已失效时，返回 Unauthenticated
func (f *Factory) Connect(ctx context.Context, cred oauth2.TokenSource) (*API, error) {
	const op = "client.connect"
	if cred == nil {
		return nil, comm.Ef(comm.Unauthenticated, op, "no credential")
	}
	tok, err := cred.Token()
	if err != nil {
		return nil, comm.Wrap(comm.Unauthenticated, op, err, "get token")
	}
	if !tok.Valid() {
		return nil, comm.Ef(comm.Unauthenticated, op, "token is empty or expired")
	}

	base := f.Options.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	if f.Options.Limiter != nil {
		base = &limitTransport{limiter: f.Options.Limiter, base: base}
	}
	hc := &http.Client{
		Timeout: f.Options.Timeout,
		Transport: &oauth2.Transport{
			Source: oauth2.ReuseTokenSource(tok, cred),
			Base:   base,
		},
	}

	gh := github.NewClient(hc)
	if f.Options.BaseURL != "" {
		u, err := url.Parse(f.Options.BaseURL)
		if err != nil {
			return nil, comm.Wrap(comm.InvalidInput, op, err, "bad api url")
		}
		gh.BaseURL = u
	}
	return &API{gh: gh}, nil
}

// 限制请求频率
// 等待时会响应 ctx 的取消
type limitTransport struct {
	limiter *rate.Limiter
	base    http.RoundTripper
}

func (t *limitTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return t.base.RoundTrip(req)
}
