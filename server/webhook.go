package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gopkg.in/go-playground/webhooks.v5/github"

	"task-man/comm"
	"task-man/global"
)

// 解析的事件列表
var events = []github.Event{
	github.IssuesEvent,
	github.PingEvent,
}

// webhook
// issue 被修改、关闭、重新打开、修改 label 等，作者的 feed 都会被标记为过期
// 下次访问 feed 时重新获取
func (s *Server) webhook(c *gin.Context) {
	const op = "server.webhook"
	info := comm.InfoFrom(c.Request.Context())

	payload, err := s.hook.Parse(c.Request, events...)
	if err != nil {
		global.Sugar.Warnw(op,
			"step", "parse payload",
			"req id", info.ReqID,
			"event", c.GetHeader("X-GitHub-Event"),
			"err", err.Error())
		switch {
		case errors.Is(err, github.ErrEventNotFound):
			// 不关心的事件
			c.JSON(http.StatusOK, gin.H{"ignored": true})
		case errors.Is(err, github.ErrHMACVerificationFailed), errors.Is(err, github.ErrMissingHubSignatureHeader):
			abort(c, comm.E(comm.Unauthenticated, op, err))
		default:
			abort(c, comm.E(comm.InvalidInput, op, err))
		}
		return
	}

	switch p := payload.(type) {
	case github.IssuesPayload:
		n := s.feeds.MarkStale(p.Issue.User.Login)
		global.Sugar.Infow(op,
			"step", "mark stale",
			"req id", info.ReqID,
			"action", p.Action,
			"issue", p.Issue.URL,
			"author", p.Issue.User.Login,
			"feeds", n)
		c.JSON(http.StatusOK, gin.H{"action": p.Action, "stale": n})
	case github.PingPayload:
		c.JSON(http.StatusOK, gin.H{"zen": p.Zen})
	default:
		c.JSON(http.StatusOK, gin.H{"ignored": true})
	}
}
