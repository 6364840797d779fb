package server

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"task-man/comm"
	"task-man/global"
	"task-man/session"
)

const (
	headerRequestID = "X-Request-ID"
	// gin.Context 中保存 session 的 key
	keySession = "session"
)

// 为每个请求生成 UUID，并记录请求日志
// 客户端传入了 X-Request-ID 时沿用
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(headerRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(headerRequestID, id)
		c.Request = c.Request.WithContext(comm.WithInfo(c.Request.Context(), comm.Info{ReqID: id}))

		start := time.Now()
		c.Next()

		info := comm.InfoFrom(c.Request.Context())
		global.Sugar.Infow("request",
			"req id", id,
			"login", info.Login,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status code", c.Writer.Status(),
			"latency", time.Since(start).String())
	}
}

// 校验 session cookie，未登录时返回 401
func (s *Server) auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, _ := c.Cookie(cookieSession)
		id, err := s.signer.Parse(raw)
		if err != nil {
			abort(c, err)
			return
		}
		sess, err := s.store.Load(c.Request.Context(), id)
		if err != nil {
			abort(c, err)
			return
		}
		info := comm.InfoFrom(c.Request.Context())
		info.Login = sess.Login
		info.SessionID = sess.ID
		c.Request = c.Request.WithContext(comm.WithInfo(c.Request.Context(), info))
		c.Set(keySession, sess)
		c.Next()
	}
}

// 获取当前 session，只能在 auth 之后调用
func current(c *gin.Context) *session.Session {
	v, _ := c.Get(keySession)
	sess, _ := v.(*session.Session)
	return sess
}
