package client

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/google/go-github/v73/github"

	"task-man/comm"
	"task-man/global"
)

// StatusError 表示请求成功，但状态码与预期不符
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d, body: %s", e.Code, e.Body)
}

// StatusCode
// 从错误中提取 HTTP 状态码，没有则返回 0（例如网络错误）
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code
	}
	var er *github.ErrorResponse
	if errors.As(err, &er) && er.Response != nil {
		return er.Response.StatusCode
	}
	var rl *github.RateLimitError
	if errors.As(err, &rl) && rl.Response != nil {
		return rl.Response.StatusCode
	}
	var al *github.AbuseRateLimitError
	if errors.As(err, &al) && al.Response != nil {
		return al.Response.StatusCode
	}
	return 0
}

// Temporary
// 网络错误、5xx 及 429 视为临时错误，可以重试
func Temporary(err error) bool {
	if err == nil || comm.KindOf(err) != comm.FetchFailed {
		return false
	}
	var rl *github.RateLimitError
	if errors.As(err, &rl) {
		return false
	}
	code := StatusCode(err)
	return code == 0 || code >= http.StatusInternalServerError || code == http.StatusTooManyRequests
}

// 检查调用结果
// 先检查 err，再检查状态码
// 401 视为 Unauthenticated，其它均视为 FetchFailed
func check(op string, resp *github.Response, err error, want int) error {
	if err != nil {
		code := StatusCode(err)
		global.Sugar.Errorw(op,
			"call api", "failed",
			"status code", code,
			"err", err.Error(),
		)
		if code == http.StatusUnauthorized {
			return comm.E(comm.Unauthenticated, op, err)
		}
		return comm.E(comm.FetchFailed, op, err)
	}
	if resp == nil {
		return comm.Ef(comm.FetchFailed, op, "empty response")
	}
	if resp.StatusCode != want {
		body, _ := io.ReadAll(resp.Body)
		global.Sugar.Errorw(op,
			"call api", "unexpect status code",
			"status", resp.Status,
			"status code", resp.StatusCode,
			"response", string(body),
		)
		se := &StatusError{Code: resp.StatusCode, Body: string(body)}
		if resp.StatusCode == http.StatusUnauthorized {
			return comm.E(comm.Unauthenticated, op, se)
		}
		return comm.E(comm.FetchFailed, op, se)
	}
	return nil
}
