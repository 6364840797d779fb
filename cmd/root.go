package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"task-man/config"
	"task-man/global"
)

const (
	// 如果不想在命令行中指定 GitHub Personal Access Token，也可以选择在环境变量内指定。
	// 环境变量名为 GITHUB_TOKEN，仅 list 子命令使用
	TaskManToken = "GITHUB_TOKEN"
)

var (
	// token，支持通过命令行参数或者环境变量指定
	// 不支持写在配置文件内
	token string

	// 指定配置文件路径，默认为 ./config.yaml
	c string
)

var rootCmd = &cobra.Command{
	Use:   "task-man",
	Short: "查看、管理自己创建的 GitHub issue",
	Long:  `task-man 以分页的方式列出当前用户创建的 open issue，支持按文本、label 过滤及按创建时间排序，并可以修改、关闭 issue。`,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Usage()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// 通用的加载配置文件、初始化 log 组件函数
func loadAndInit() *config.Config {
	// 如果配置文件为空，则自动尝试读取 ./ 目录下的 config
	if c == "" {
		c = "./config.yaml"
	}

	conf, err := config.Load(afero.NewOsFs(), c)
	if err != nil {
		fmt.Printf("unable to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化日志等全局变量
	global.Init(conf)
	return conf
}
