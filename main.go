// task-man 的子命令：
//   - start: 启动 HTTP 服务，通过 GitHub OAuth 登录后，分页查看、过滤自己创建的 open issue
//   - info: 打印配置
//   - list: 使用 Personal Access Token 在终端中列出自己创建的 open issue
package main

import "task-man/cmd"

func main() {
	cmd.Execute()
}
