// list.go 对应 list 子命令，在终端中列出当前用户创建的 open issue
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/oauth2"

	"task-man/client"
	"task-man/config"
	"task-man/global"
	"task-man/model"
	"task-man/operation"
)

var (
	listCmd *cobra.Command

	// 过滤条件
	filter model.FilterQuery
	// 最多获取的页数
	pages    int
	pageSize int
)

func init() {
	// list
	listCmd = &cobra.Command{
		Use:   "list",
		Short: "列出自己创建的 open issue。",
		Long: `使用 GitHub Personal Access Token 列出当前用户创建的 open issue。
未指定配置文件时，使用默认配置（https://api.github.com/）。`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// 如果 token 为空，则尝试从环境变量读取 token
			if token == "" {
				token = os.Getenv(TaskManToken)
				if token == "" {
					return fmt.Errorf("please input token with argument --token or env %s", TaskManToken)
				}
			}

			conf := &config.Config{}
			if c != "" {
				conf = loadAndInit()
				defer global.Sync()
			} else {
				conf.SetDefaults()
			}
			if pageSize > 0 {
				conf.Server.Spec.PageSize = pageSize
			}

			spec := conf.GitHub.Spec
			feed := operation.NewFeed(
				operation.Searchers(client.NewFactory(spec.APIURL, spec.Timeout, spec.RateLimit)),
				conf.Server.Spec.PageSize,
				operation.Retry{MaxRetries: spec.Retry.MaxRetries, InitialInterval: spec.Retry.InitialInterval},
			)
			cred := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
			return list(cmd, feed, cred, filter, pages)
		},
	}

	// 添加至 root 节点
	rootCmd.AddCommand(listCmd)

	// 解析参数
	listCmd.Flags().StringVarP(&token, "token", "t", "", "GitHub Personal Access Token，默认读取环境变量 "+TaskManToken)
	listCmd.Flags().StringVarP(&c, "config", "c", "", "指定配置文件路径")
	listCmd.Flags().StringVar(&filter.Text, "text", "", "title 或 body 包含的文本")
	listCmd.Flags().StringVar(&filter.Label, "label", "", "label，可选 open、in progress、done")
	listCmd.Flags().StringVar(&filter.SortTime, "sort", "", "按创建时间排序，可选 ASC、DESC")
	listCmd.Flags().IntVar(&pages, "pages", 1, "最多获取的页数")
	listCmd.Flags().IntVar(&pageSize, "page-size", 0, "每页数量，默认使用配置文件中的值")
}

// 获取第一页，再按需获取后续页面，最后打印
func list(cmd *cobra.Command, feed *operation.Feed, cred oauth2.TokenSource, filter model.FilterQuery, pages int) error {
	ctx := cmd.Context()
	if err := feed.Start(ctx, cred, filter); err != nil {
		return err
	}
	for i := 1; i < pages && feed.HasMore(); i++ {
		if _, err := feed.FetchNext(ctx, cred); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(cmd.OutOrStdout(), renderSnapshot(feed.Snapshot()))
	return err
}
