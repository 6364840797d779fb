// start.go 对应 start 子命令的实现
// 启动 HTTP 服务，并定时释放长时间未访问的 feed
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"task-man/global"
)

// 服务关闭时，等待请求处理完成的时长
const shutdownTimeout = 10 * time.Second

// Run 启动服务，直到 ctx 结束
func (s *Server) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	idle := s.conf.Server.Spec.Feed.IdleTimeout
	go s.feeds.Janitor(ctx, idle/2)

	srv := &http.Server{
		Addr:    s.conf.Server.Spec.Port,
		Handler: s.router,
	}

	done := make(chan error, 1)
	go func() {
		global.Sugar.Infow("start server",
			"addr", srv.Addr,
			"public url", s.conf.Server.Spec.PublicURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			done <- err
		}
		close(done)
	}()

	select {
	case err, ok := <-done:
		if ok {
			global.Sugar.Errorw("start server",
				"status", "fail",
				"err", err.Error())
			return err
		}
		return nil
	case <-ctx.Done():
	}

	global.Sugar.Infow("stop server", "step", "shutdown")
	shutdown, stop := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stop()
	return srv.Shutdown(shutdown)
}
