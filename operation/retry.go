package operation

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"

	"task-man/client"
	"task-man/comm"
	"task-man/global"
)

// Retry 是重试策略
// 仅重试临时错误（网络错误、5xx、429），MaxRetries 小于等于 0 时不重试
type Retry struct {
	MaxRetries      int
	InitialInterval time.Duration
}

// Do 执行 fn，失败时按指数退避重试
func (r Retry) Do(ctx context.Context, op string, fn func() error) error {
	if r.MaxRetries <= 0 {
		return fn()
	}

	b := backoff.NewExponentialBackOff()
	if r.InitialInterval > 0 {
		b.InitialInterval = r.InitialInterval
	}
	bo := backoff.WithContext(backoff.WithMaxRetries(b, uint64(r.MaxRetries)), ctx)

	attempt := 0
	return backoff.RetryNotify(func() error {
		attempt++
		err := fn()
		if err != nil && !client.Temporary(err) {
			return backoff.Permanent(err)
		}
		return err
	}, bo, func(err error, wait time.Duration) {
		global.Sugar.Warnw(op,
			"step", "retry",
			"req id", comm.InfoFrom(ctx).ReqID,
			"attempt", attempt,
			"wait", wait.String(),
			"err", err.Error(),
		)
	})
}
