package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"task-man/comm"
	"task-man/config"
	"task-man/global"
)

// RedisStore 将 session 保存在 redis 中，多个实例可以共享
// key 为 <prefix>:session:<id>，value 为 JSON
type RedisStore struct {
	prefix string
	ttl    time.Duration
	rdb    *redis.Client
}

// NewRedisStore 不会立即连接 redis，第一次读写时才会连接
func NewRedisStore(conf config.Session) *RedisStore {
	c := redis.NewClient(&redis.Options{
		Addr:     conf.Spec.Addr,
		Password: conf.Spec.Password,
		DB:       conf.Spec.DB,
	})
	return &RedisStore{
		prefix: conf.Spec.Prefix,
		ttl:    conf.Spec.TTL,
		rdb:    c,
	}
}

func (r *RedisStore) key(id string) string {
	return fmt.Sprintf("%s:session:%s", r.prefix, id)
}

func (r *RedisStore) Save(ctx context.Context, s *Session) error {
	const op = "session.redis.save"
	b, err := json.Marshal(s)
	if err != nil {
		return comm.Wrap(comm.FetchFailed, op, err, "marshal session")
	}
	ttl := r.ttl
	if ttl < 0 {
		ttl = 0
	}
	if err := r.rdb.Set(ctx, r.key(s.ID), b, ttl).Err(); err != nil {
		global.Sugar.Errorw(op,
			"step", "set",
			"key", r.key(s.ID),
			"err", err.Error())
		return comm.Wrap(comm.FetchFailed, op, err, "save session")
	}
	return nil
}

func (r *RedisStore) Load(ctx context.Context, id string) (*Session, error) {
	const op = "session.redis.load"
	b, err := r.rdb.Get(ctx, r.key(id)).Bytes()
	if err == redis.Nil {
		return nil, notFound(op, id)
	}
	if err != nil {
		global.Sugar.Errorw(op,
			"step", "get",
			"key", r.key(id),
			"err", err.Error())
		return nil, comm.Wrap(comm.FetchFailed, op, err, "load session")
	}
	s := &Session{}
	if err := json.Unmarshal(b, s); err != nil {
		// 数据已损坏，视为未登录
		return nil, comm.Wrap(comm.Unauthenticated, op, err, "unmarshal session")
	}
	return s, nil
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	const op = "session.redis.delete"
	if err := r.rdb.Del(ctx, r.key(id)).Err(); err != nil {
		global.Sugar.Errorw(op,
			"step", "del",
			"key", r.key(id),
			"err", err.Error())
		return comm.Wrap(comm.FetchFailed, op, err, "delete session")
	}
	return nil
}

func (r *RedisStore) Close() error {
	return r.rdb.Close()
}
