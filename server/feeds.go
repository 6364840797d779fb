package server

import (
	"context"
	"strings"
	"sync"
	"time"

	"task-man/global"
	"task-man/operation"
)

// Feeds
// 每个 session 对应一个 feed，feed 之间互不共享
// session 结束（退出登录）或者长时间未访问时释放
type Feeds struct {
	newFeed func() *operation.Feed
	idle    time.Duration

	mu    sync.Mutex
	feeds map[string]*feedEntry
}

type feedEntry struct {
	login string
	feed  *operation.Feed
}

// NewFeeds idle 小于等于 0 时不会自动释放
func NewFeeds(newFeed func() *operation.Feed, idle time.Duration) *Feeds {
	return &Feeds{
		newFeed: newFeed,
		idle:    idle,
		feeds:   make(map[string]*feedEntry),
	}
}

// Get 返回 session 对应的 feed，不存在则创建
func (f *Feeds) Get(sessionID, login string) *operation.Feed {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.feeds[sessionID]
	if !ok {
		e = &feedEntry{login: login, feed: f.newFeed()}
		f.feeds[sessionID] = e
	}
	return e.feed
}

// Release 释放 session 对应的 feed
func (f *Feeds) Release(sessionID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.feeds, sessionID)
}

// MarkStale
// 将 login 用户的所有 feed 标记为过期，返回标记的数量
func (f *Feeds) MarkStale(login string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, e := range f.feeds {
		if strings.EqualFold(e.login, login) {
			e.feed.MarkStale()
			n++
		}
	}
	return n
}

// Sweep 释放超过 idle 未被访问的 feed，返回释放的数量
func (f *Feeds) Sweep(now time.Time) int {
	if f.idle <= 0 {
		return 0
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for k, e := range f.feeds {
		if now.Sub(e.feed.IdleSince()) > f.idle {
			delete(f.feeds, k)
			n++
		}
	}
	return n
}

// Len 当前 feed 数量
func (f *Feeds) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.feeds)
}

// Janitor 定时清理，直到 ctx 结束
func (f *Feeds) Janitor(ctx context.Context, interval time.Duration) {
	if f.idle <= 0 || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := f.Sweep(now); n > 0 {
				global.Sugar.Infow("feed janitor",
					"step", "sweep",
					"released", n,
					"remain", f.Len())
			}
		}
	}
}
