package comm

import (
	"context"
)

// 存储一次请求的一些信息
// 基本是打印日志需要用到的信息
type Info struct {
	// 一次请求的 UUID
	ReqID string
	// 当前用户，未登录时为空
	Login string
	// session id
	SessionID string
}

type infoKey struct{}

// WithInfo 将 info 存入 ctx
func WithInfo(ctx context.Context, info Info) context.Context {
	return context.WithValue(ctx, infoKey{}, info)
}

// InfoFrom 从 ctx 中读取 info，不存在时返回零值
func InfoFrom(ctx context.Context) Info {
	info, _ := ctx.Value(infoKey{}).(Info)
	return info
}
