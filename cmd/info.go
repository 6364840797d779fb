package cmd

import (
	"github.com/spf13/cobra"

	"task-man/global"
)

var (
	info *cobra.Command
)

func init() {
	// info
	info = &cobra.Command{
		Use:   "info",
		Short: "打印配置。",
		Long:  `读取配置文件，填充默认值并校验后打印，敏感信息会被隐藏。`,
		Run: func(cmd *cobra.Command, args []string) {
			cfg := loadAndInit()
			defer global.Sync()
			global.Sugar.Infow("load config",
				"config", cfg.Masked())
		},
	}

	// 添加至 root 节点
	rootCmd.AddCommand(info)

	// 解析参数
	info.PersistentFlags().StringVarP(&c, "config", "c", "", "指定配置文件路径")
}
