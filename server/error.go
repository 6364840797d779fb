package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"task-man/comm"
	"task-man/global"
)

// 错误类别对应的状态码
var statusOf = map[comm.Kind]int{
	comm.Unauthenticated: http.StatusUnauthorized,
	comm.InvalidInput:    http.StatusBadRequest,
	comm.FetchFailed:     http.StatusBadGateway,
	// issue 处于部分更新的状态
	comm.PartialUpdateFailure: http.StatusMultiStatus,
}

// ErrorBody 是出错时的响应
type ErrorBody struct {
	Kind  comm.Kind `json:"kind"`
	Error string    `json:"error"`
}

// 按错误类别响应并终止后续处理
func abort(c *gin.Context, err error) {
	kind := comm.KindOf(err)
	code, ok := statusOf[kind]
	if !ok {
		code = http.StatusInternalServerError
	}
	info := comm.InfoFrom(c.Request.Context())
	global.Sugar.Warnw("request failed",
		"req id", info.ReqID,
		"login", info.Login,
		"path", c.Request.URL.Path,
		"kind", kind,
		"status code", code,
		"err", err.Error())
	c.AbortWithStatusJSON(code, ErrorBody{Kind: kind, Error: err.Error()})
}
