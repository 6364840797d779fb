package config

import (
	"time"
)

const (
	// 使用生产环境的日志配置
	LogLevelPro = "pro"

	// session 存储方式
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

type Config struct {
	Server  Server  `yaml:"server"`
	GitHub  GitHub  `yaml:"github"`
	OAuth   OAuth   `yaml:"oauth"`
	Session Session `yaml:"session"`
}

type Base struct {
	ApiVersion string `yaml:"apiVersion"`
	Kind       string `yaml:"kind"`
	Metadata   struct {
		Name string `yaml:"name"`
	} `yaml:"metadata"`
}

// 服务相关的配置
type Server struct {
	Base `yaml:",inline"`
	Spec struct {
		Port     string `yaml:"port"`
		LogLevel string `yaml:"logLevel"`
		// 对外访问的地址，用于拼接 OAuth 回调地址
		PublicURL string `yaml:"publicURL"`
		// 每页 issue 数量
		PageSize int `yaml:"pageSize"`
		Feed     struct {
			// feed 超过该时长未被访问，则释放
			IdleTimeout time.Duration `yaml:"idleTimeout"`
		} `yaml:"feed"`
	} `yaml:"spec"`
}

// GitHub API 相关的配置
type GitHub struct {
	Base `yaml:",inline"`
	Spec struct {
		// 默认为 https://api.github.com/，GitHub Enterprise 为 https://<host>/api/v3/
		APIURL  string        `yaml:"apiURL"`
		Timeout time.Duration `yaml:"timeout"`
		// 每秒请求数限制
		RateLimit float64 `yaml:"rateLimit"`
		Retry     struct {
			MaxRetries      int           `yaml:"maxRetries"` // 负数表示不重试
			InitialInterval time.Duration `yaml:"initialInterval"`
		} `yaml:"retry"`
		// webhook secret，为空则不校验签名
		WebhookSecret string `yaml:"webhookSecret"`
	} `yaml:"spec"`
}

// OAuth App 相关的配置
type OAuth struct {
	Base `yaml:",inline"`
	Spec struct {
		ClientID     string   `yaml:"clientID"`
		ClientSecret string   `yaml:"clientSecret"`
		RedirectURL  string   `yaml:"redirectURL"`
		Scopes       []string `yaml:"scopes"`
		// 默认为 github.com，GitHub Enterprise 需指定
		AuthURL  string `yaml:"authURL"`
		TokenURL string `yaml:"tokenURL"`
	} `yaml:"spec"`
}

// session 相关的配置
type Session struct {
	Base `yaml:",inline"`
	Spec struct {
		// memory 或 redis，默认为 memory
		Store    string        `yaml:"store"`
		Addr     string        `yaml:"addr"`
		Password string        `yaml:"password"`
		DB       int           `yaml:"db"`
		Prefix   string        `yaml:"prefix"`
		TTL      time.Duration `yaml:"ttl"`
		// 用于签名 cookie
		SigningKey string `yaml:"signingKey"`
	} `yaml:"spec"`
}

// Masked 返回隐藏了敏感信息的副本，用于打印日志
func (c Config) Masked() Config {
	mask := func(s *string) {
		if *s != "" {
			*s = "******"
		}
	}
	mask(&c.OAuth.Spec.ClientSecret)
	mask(&c.Session.Spec.Password)
	mask(&c.Session.Spec.SigningKey)
	mask(&c.GitHub.Spec.WebhookSecret)
	return c
}
