// comm.go 包含了各个子命令通用的一些变量
// 如：配置、日志等
package global

import (
	"go.uber.org/zap"

	"task-man/config"
)

// 各种全局对象
// 注意：用户凭证不属于全局对象，需要显式传递给每个操作
var (
	// 配置对象
	Conf *config.Config

	// 日志对象
	// 未初始化时为 nop，便于测试
	Sugar = zap.NewNop().Sugar()
)

func Init(conf *config.Config) {
	Conf = conf

	// 生产环境
	if conf.Server.Spec.LogLevel == config.LogLevelPro {
		logger, err := zap.NewProduction()
		if err != nil {
			panic(err.Error())
		}
		Sugar = logger.Sugar()
	} else {
		// 开发环境
		logger, err := zap.NewDevelopment()
		if err != nil {
			panic(err.Error())
		}
		Sugar = logger.Sugar()
	}

	Sugar.Infow("finish load config",
		"config", conf.Masked())
}

// Sync 刷新日志缓冲，进程退出前调用
func Sync() {
	_ = Sugar.Sync()
}
