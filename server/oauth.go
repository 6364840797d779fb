package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"task-man/comm"
	"task-man/global"
	"task-man/session"
)

const (
	cookieSession = "task-man-session"
	cookieState   = "task-man-state"
)

// 跳转至 GitHub 授权页面
// state 随机生成，签名后存入 cookie，回调时校验
func (s *Server) login(c *gin.Context) {
	state := uuid.NewString()
	signed, err := s.state.Sign(state)
	if err != nil {
		abort(c, err)
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cookieState, signed, int(stateTTL.Seconds()), "/", "", s.secure(), true)
	c.Redirect(http.StatusFound, s.oauth.AuthCodeURL(state))
}

// GitHub 授权后的回调
// 1. 校验 state
// 2. 使用 code 换取 token
// 3. 获取用户名
// 4. 创建 session，并写入 cookie
func (s *Server) callback(c *gin.Context) {
	const op = "server.callback"
	ctx := c.Request.Context()
	info := comm.InfoFrom(ctx)

	raw, _ := c.Cookie(cookieState)
	state, err := s.state.Parse(raw)
	if err != nil {
		abort(c, err)
		return
	}
	if c.Query("state") != state {
		abort(c, comm.Ef(comm.Unauthenticated, op, "state mismatch"))
		return
	}
	// state 只能使用一次
	c.SetCookie(cookieState, "", -1, "/", "", s.secure(), true)

	code := c.Query("code")
	if code == "" {
		abort(c, comm.Ef(comm.Unauthenticated, op, "authorization denied: %s", c.Query("error")))
		return
	}
	token, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		global.Sugar.Errorw(op,
			"step", "exchange code",
			"req id", info.ReqID,
			"err", err.Error())
		abort(c, comm.Wrap(comm.Unauthenticated, op, err, "exchange code"))
		return
	}

	api, err := s.factory.Connect(ctx, oauth2.StaticTokenSource(token))
	if err != nil {
		abort(c, err)
		return
	}
	login, err := api.Login(ctx)
	if err != nil {
		abort(c, err)
		return
	}

	sess := session.New(login, token)
	if err := s.store.Save(ctx, sess); err != nil {
		abort(c, err)
		return
	}
	signed, err := s.signer.Sign(sess.ID)
	if err != nil {
		abort(c, err)
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cookieSession, signed, int(s.conf.Session.Spec.TTL.Seconds()), "/", "", s.secure(), true)

	global.Sugar.Infow(op,
		"step", "done",
		"req id", info.ReqID,
		"login", login,
		"session id", sess.ID)
	c.Redirect(http.StatusFound, strings.TrimSuffix(s.conf.Server.Spec.PublicURL, "/")+"/")
}

// 退出登录，删除 session 并释放对应的 feed
// 未登录时也返回成功
func (s *Server) logout(c *gin.Context) {
	raw, _ := c.Cookie(cookieSession)
	if id, err := s.signer.Parse(raw); err == nil {
		s.revoke(c, id)
	}
	c.SetCookie(cookieSession, "", -1, "/", "", s.secure(), true)
	c.Status(http.StatusNoContent)
}

func (s *Server) revoke(c *gin.Context, id string) {
	s.feeds.Release(id)
	if err := s.store.Delete(c.Request.Context(), id); err != nil {
		global.Sugar.Errorw("revoke session",
			"req id", comm.InfoFrom(c.Request.Context()).ReqID,
			"session id", id,
			"err", err.Error())
	}
}
