// session 保存登录用户的凭证
// 浏览器只持有签名后的 session id，token 保存在服务端
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"task-man/comm"
	"task-man/config"
)

// ErrNotFound session 不存在或已过期
var ErrNotFound = errors.New("session not found")

// Session 一次登录
type Session struct {
	ID        string        `json:"id"`
	Login     string        `json:"login"`
	Token     *oauth2.Token `json:"token"`
	CreatedAt time.Time     `json:"createdAt"`
}

// New 生成一个新的 session，id 为随机的 UUID
func New(login string, token *oauth2.Token) *Session {
	return &Session{
		ID:        uuid.NewString(),
		Login:     login,
		Token:     token,
		CreatedAt: time.Now(),
	}
}

// TokenSource 返回 session 的凭证，token 为空时返回 nil
func (s *Session) TokenSource() oauth2.TokenSource {
	if s == nil || s.Token == nil {
		return nil
	}
	return oauth2.StaticTokenSource(s.Token)
}

// Store 存储 session
// Load 在 session 不存在时返回的错误满足 errors.Is(err, ErrNotFound)，Kind 为 Unauthenticated
type Store interface {
	Save(ctx context.Context, s *Session) error
	Load(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
	Close() error
}

// NewStore 根据配置创建 Store
func NewStore(conf config.Session) (Store, error) {
	switch conf.Spec.Store {
	case config.StoreMemory, "":
		return NewMemoryStore(conf.Spec.TTL), nil
	case config.StoreRedis:
		return NewRedisStore(conf), nil
	default:
		return nil, comm.Ef(comm.InvalidInput, "session.new_store", "unknown session store: %s", conf.Spec.Store)
	}
}

func notFound(op, id string) error {
	return comm.Wrap(comm.Unauthenticated, op, ErrNotFound, id)
}
