package config

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// 环境变量前缀
// 敏感信息建议通过环境变量指定，例如 TASKMAN_OAUTH_CLIENTSECRET
const EnvPrefix = "TASKMAN"

// Load
// 读取配置文件，配置文件由多个 yaml 文档组成，以 --- 分隔，通过 kind 区分
// 读取完成后，使用环境变量覆盖，填充默认值并校验
func Load(fs afero.Fs, file string) (*Config, error) {
	data, err := afero.ReadFile(fs, file)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to load config file %s", file)
	}
	conf, err := Parse(data)
	if err != nil {
		return nil, err
	}

	ApplyEnv(conf, viper.New())
	conf.SetDefaults()
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

// Parse 解析配置内容，不填充默认值
func Parse(data []byte) (*Config, error) {
	conf := &Config{}
	bf := bytes.NewBuffer(data)
	// 拆分配置
	cfgs := strings.Split(bf.String(), "\n---")

	// 遍历读取
	for i := 0; i < len(cfgs); i++ {
		if strings.TrimSpace(cfgs[i]) == "" {
			continue
		}
		b := &Base{}
		if err := yaml.Unmarshal([]byte(cfgs[i]), b); err != nil {
			return nil, errors.Wrapf(err, "parse document %d", i)
		}
		var target interface{}
		switch b.Kind {
		case "Server":
			target = &conf.Server
		case "GitHub":
			target = &conf.GitHub
		case "OAuth":
			target = &conf.OAuth
		case "Session":
			target = &conf.Session
		// 不支持类型的配置
		default:
			return nil, fmt.Errorf("unsupported kind %q in document %d", b.Kind, i)
		}
		if err := yaml.Unmarshal([]byte(cfgs[i]), target); err != nil {
			return nil, errors.Wrapf(err, "parse %s", b.Kind)
		}
	}
	return conf, nil
}

// ApplyEnv 使用环境变量覆盖配置
func ApplyEnv(conf *Config, v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	bind := map[string]*string{
		"oauth.clientID":       &conf.OAuth.Spec.ClientID,
		"oauth.clientSecret":   &conf.OAuth.Spec.ClientSecret,
		"session.password":     &conf.Session.Spec.Password,
		"session.signingKey":   &conf.Session.Spec.SigningKey,
		"github.webhookSecret": &conf.GitHub.Spec.WebhookSecret,
		"server.port":          &conf.Server.Spec.Port,
	}
	for key, field := range bind {
		env := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		_ = v.BindEnv(key, env)
		if s := v.GetString(key); s != "" {
			*field = s
		}
	}
}

// SetDefaults 填充默认值
func (c *Config) SetDefaults() {
	s := &c.Server.Spec
	if s.Port == "" {
		s.Port = ":8080"
	}
	if s.PageSize == 0 {
		s.PageSize = 10
	}
	if s.Feed.IdleTimeout == 0 {
		s.Feed.IdleTimeout = 30 * time.Minute
	}

	g := &c.GitHub.Spec
	if g.APIURL == "" {
		g.APIURL = "https://api.github.com/"
	}
	if !strings.HasSuffix(g.APIURL, "/") {
		g.APIURL += "/"
	}
	if g.Timeout == 0 {
		g.Timeout = 60 * time.Second
	}
	if g.RateLimit == 0 {
		g.RateLimit = 10
	}
	// 0 使用默认值，负数表示不重试
	if g.Retry.MaxRetries == 0 {
		g.Retry.MaxRetries = 2
	}
	if g.Retry.InitialInterval == 0 {
		g.Retry.InitialInterval = 500 * time.Millisecond
	}

	o := &c.OAuth.Spec
	if len(o.Scopes) == 0 {
		// 需要修改 issue
		o.Scopes = []string{"repo"}
	}
	if o.RedirectURL == "" && s.PublicURL != "" {
		o.RedirectURL = strings.TrimSuffix(s.PublicURL, "/") + "/oauth/callback"
	}

	ss := &c.Session.Spec
	if ss.Store == "" {
		ss.Store = StoreMemory
	}
	if ss.Prefix == "" {
		ss.Prefix = "task-man"
	}
	if ss.TTL == 0 {
		ss.TTL = 24 * time.Hour
	}
}

// Validate 校验配置
func (c *Config) Validate() error {
	if c.Server.Spec.PageSize < 1 || c.Server.Spec.PageSize > 100 {
		return fmt.Errorf("server.pageSize must be in [1, 100], got %d", c.Server.Spec.PageSize)
	}
	switch c.Session.Spec.Store {
	case StoreMemory:
	case StoreRedis:
		if c.Session.Spec.Addr == "" {
			return fmt.Errorf("session.addr is required when store is redis")
		}
	default:
		return fmt.Errorf("unsupported session store %q", c.Session.Spec.Store)
	}
	if c.Session.Spec.SigningKey == "" {
		return fmt.Errorf("session.signingKey is required")
	}
	if c.GitHub.Spec.RateLimit < 0 {
		return fmt.Errorf("github.rateLimit can not be negative")
	}
	return nil
}
