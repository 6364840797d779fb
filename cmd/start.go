// start.go 对应 start 子命令，表示启动程序。
package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"task-man/global"
	"task-man/server"
	"task-man/session"
)

var (
	startCmd *cobra.Command
)

func init() {
	// start
	startCmd = &cobra.Command{
		Use:   "start",
		Short: "开始运行。",
		Long:  `启动 task-man HTTP 服务，收到 SIGINT/SIGTERM 后退出。`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// 初始化配置初始化服务相关的东西
			conf := loadAndInit()
			defer global.Sync()

			store, err := session.NewStore(conf.Session)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			srv, err := server.New(conf, store)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.Run(ctx)
		},
	}

	// 添加至 root 节点
	rootCmd.AddCommand(startCmd)

	// 解析参数
	startCmd.PersistentFlags().StringVarP(&c, "config", "c", "", "指定配置文件路径")
}
