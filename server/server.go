// server 对外提供 HTTP 接口
// 1. GitHub OAuth 登录、退出
// 2. 分页获取当前用户创建的 issue，支持过滤和排序
// 3. 查看、修改、关闭单个 issue
// 4. 接收 issues 事件的 webhook，使相关用户的 feed 过期
package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
	githuboauth "golang.org/x/oauth2/github"
	"gopkg.in/go-playground/webhooks.v5/github"

	"task-man/client"
	"task-man/comm"
	"task-man/config"
	"task-man/operation"
	"task-man/session"
)

// OAuth state 的有效期
const stateTTL = 10 * time.Minute

type Server struct {
	conf    *config.Config
	oauth   *oauth2.Config
	factory *client.Factory
	store   session.Store
	// 签名 session cookie
	signer *session.Signer
	// 签名 OAuth state cookie
	state  *session.Signer
	feeds  *Feeds
	issues *operation.Issues
	hook   *github.Webhook
	router *gin.Engine
}

// New 创建 Server，store 由调用方负责关闭
func New(conf *config.Config, store session.Store) (*Server, error) {
	spec := conf.GitHub.Spec
	if conf.Server.Spec.LogLevel == config.LogLevelPro {
		gin.SetMode(gin.ReleaseMode)
	}

	var options []github.Option
	if spec.WebhookSecret != "" {
		options = append(options, github.Options.Secret(spec.WebhookSecret))
	}
	hook, err := github.New(options...)
	if err != nil {
		return nil, comm.Wrap(comm.InvalidInput, "server.new", err, "create webhook")
	}

	factory := client.NewFactory(spec.APIURL, spec.Timeout, spec.RateLimit)
	retry := operation.Retry{
		MaxRetries:      spec.Retry.MaxRetries,
		InitialInterval: spec.Retry.InitialInterval,
	}
	searchers := operation.Searchers(factory)
	pageSize := conf.Server.Spec.PageSize

	s := &Server{
		conf:    conf,
		oauth:   oauthConfig(conf.OAuth),
		factory: factory,
		store:   store,
		signer:  session.NewSigner(conf.Session.Spec.SigningKey, conf.Session.Spec.TTL),
		state:   session.NewSigner(conf.Session.Spec.SigningKey+":state", stateTTL),
		feeds: NewFeeds(func() *operation.Feed {
			return operation.NewFeed(searchers, pageSize, retry)
		}, conf.Server.Spec.Feed.IdleTimeout),
		issues: operation.NewIssues(operation.IssueAPIs(factory), retry),
		hook:   hook,
	}
	s.router = s.routes()
	return s, nil
}

func oauthConfig(conf config.OAuth) *oauth2.Config {
	endpoint := githuboauth.Endpoint
	if conf.Spec.AuthURL != "" {
		endpoint.AuthURL = conf.Spec.AuthURL
	}
	if conf.Spec.TokenURL != "" {
		endpoint.TokenURL = conf.Spec.TokenURL
	}
	return &oauth2.Config{
		ClientID:     conf.Spec.ClientID,
		ClientSecret: conf.Spec.ClientSecret,
		Endpoint:     endpoint,
		RedirectURL:  conf.Spec.RedirectURL,
		Scopes:       conf.Spec.Scopes,
	}
}

// 定义路由
func (s *Server) routes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestID())

	router.GET("/login", s.login)
	router.GET("/oauth/callback", s.callback)
	router.POST("/logout", s.logout)

	v1 := router.Group("/api/v1")
	v1.POST("/webhooks/", s.webhook)

	api := v1.Group("", s.auth())
	api.GET("/me", s.me)
	api.GET("/feed", s.feed)
	api.POST("/feed/next", s.feedNext)
	api.GET("/feed/view", s.feedView)
	api.GET("/issues", s.issueByURL)
	api.GET("/issues/:owner/:repo/:number", s.issue)
	api.PATCH("/issues/:owner/:repo/:number", s.updateIssue)
	api.POST("/issues/:owner/:repo/:number/close", s.closeIssue)
	return router
}

// Handler 返回 HTTP handler，便于测试
func (s *Server) Handler() http.Handler {
	return s.router
}

// 对外地址为 https 时，cookie 仅通过 https 发送
func (s *Server) secure() bool {
	return strings.HasPrefix(s.conf.Server.Spec.PublicURL, "https://")
}
