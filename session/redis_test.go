package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"golang.org/x/oauth2"

	"task-man/comm"
	"task-man/config"
)

func newRedisStore(t *testing.T, ttl time.Duration) (*miniredis.Miniredis, *RedisStore) {
	t.Helper()
	mr := miniredis.RunT(t)
	conf := config.Session{}
	conf.Spec.Store = "redis"
	conf.Spec.Addr = mr.Addr()
	conf.Spec.Prefix = "task-man"
	conf.Spec.TTL = ttl
	r := NewRedisStore(conf)
	t.Cleanup(func() { _ = r.Close() })
	return mr, r
}

func TestRedisStore(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name string
		ttl  time.Duration
		// 返回要读取的 session id
		prepare func(t *testing.T, mr *miniredis.Miniredis, r *RedisStore) string
		want    string
		kind    comm.Kind
		missing bool
	}{
		{
			name: "save-and-load",
			ttl:  time.Hour,
			prepare: func(t *testing.T, mr *miniredis.Miniredis, r *RedisStore) string {
				s := New("alice", &oauth2.Token{AccessToken: "t"})
				if err := r.Save(ctx, s); err != nil {
					t.Fatalf("Save() err = %v", err)
				}
				if ttl := mr.TTL("task-man:session:" + s.ID); ttl <= 0 || ttl > time.Hour {
					t.Errorf("TTL = %v", ttl)
				}
				return s.ID
			},
			want: "alice",
		},
		{
			name: "no-ttl",
			ttl:  -1,
			prepare: func(t *testing.T, mr *miniredis.Miniredis, r *RedisStore) string {
				s := New("bob", &oauth2.Token{AccessToken: "t"})
				if err := r.Save(ctx, s); err != nil {
					t.Fatalf("Save() err = %v", err)
				}
				if ttl := mr.TTL("task-man:session:" + s.ID); ttl != 0 {
					t.Errorf("TTL = %v, want 0", ttl)
				}
				return s.ID
			},
			want: "bob",
		},
		{
			name: "missing",
			ttl:  time.Hour,
			prepare: func(t *testing.T, mr *miniredis.Miniredis, r *RedisStore) string {
				return "nobody"
			},
			kind:    comm.Unauthenticated,
			missing: true,
		},
		{
			name: "deleted",
			ttl:  time.Hour,
			prepare: func(t *testing.T, mr *miniredis.Miniredis, r *RedisStore) string {
				s := New("alice", &oauth2.Token{AccessToken: "t"})
				if err := r.Save(ctx, s); err != nil {
					t.Fatalf("Save() err = %v", err)
				}
				if err := r.Delete(ctx, s.ID); err != nil {
					t.Fatalf("Delete() err = %v", err)
				}
				if mr.Exists("task-man:session:" + s.ID) {
					t.Errorf("key still exists after Delete()")
				}
				return s.ID
			},
			kind:    comm.Unauthenticated,
			missing: true,
		},
		{
			name: "expired",
			ttl:  time.Hour,
			prepare: func(t *testing.T, mr *miniredis.Miniredis, r *RedisStore) string {
				s := New("alice", &oauth2.Token{AccessToken: "t"})
				if err := r.Save(ctx, s); err != nil {
					t.Fatalf("Save() err = %v", err)
				}
				mr.FastForward(2 * time.Hour)
				return s.ID
			},
			kind:    comm.Unauthenticated,
			missing: true,
		},
		{
			name: "corrupt",
			ttl:  time.Hour,
			prepare: func(t *testing.T, mr *miniredis.Miniredis, r *RedisStore) string {
				if err := mr.Set("task-man:session:bad", "{bad"); err != nil {
					t.Fatal(err)
				}
				return "bad"
			},
			kind: comm.Unauthenticated,
		},
		{
			name: "redis-error",
			ttl:  time.Hour,
			prepare: func(t *testing.T, mr *miniredis.Miniredis, r *RedisStore) string {
				mr.SetError("boom")
				return "any"
			},
			kind: comm.FetchFailed,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			mr, r := newRedisStore(t, c.ttl)
			id := c.prepare(t, mr, r)
			got, err := r.Load(ctx, id)
			if c.kind != "" {
				if !comm.Is(err, c.kind) {
					t.Fatalf("Load() err = %v, want %s", err, c.kind)
				}
				if errors.Is(err, ErrNotFound) != c.missing {
					t.Errorf("Load() err = %v, ErrNotFound = %v", err, !c.missing)
				}
				return
			}
			if err != nil {
				t.Fatalf("Load() err = %v", err)
			}
			if got.ID != id || got.Login != c.want || got.Token.AccessToken != "t" {
				t.Errorf("Load() = %#v", got)
			}
		})
	}
}

func TestRedisStore_WriteError(t *testing.T) {
	ctx := context.Background()
	mr, r := newRedisStore(t, time.Hour)
	mr.SetError("boom")
	if err := r.Save(ctx, New("alice", nil)); !comm.Is(err, comm.FetchFailed) {
		t.Errorf("Save() err = %v, want FetchFailed", err)
	}
	if err := r.Delete(ctx, "any"); !comm.Is(err, comm.FetchFailed) {
		t.Errorf("Delete() err = %v, want FetchFailed", err)
	}
}
