package session

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	session Session
	expire  time.Time
}

// MemoryStore 将 session 保存在内存中，进程重启后失效
type MemoryStore struct {
	ttl time.Duration
	now func() time.Time

	mu       sync.Mutex
	sessions map[string]entry
}

// NewMemoryStore ttl 小于等于 0 时永不过期
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]entry),
	}
}

func (m *MemoryStore) Save(ctx context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	// 顺便清理已过期的 session
	for k, v := range m.sessions {
		if m.expired(v, now) {
			delete(m.sessions, k)
		}
	}
	e := entry{session: *s}
	if m.ttl > 0 {
		e.expire = now.Add(m.ttl)
	}
	m.sessions[s.ID] = e
	return nil
}

func (m *MemoryStore) Load(ctx context.Context, id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.sessions[id]
	if !ok {
		return nil, notFound("session.memory.load", id)
	}
	if m.expired(e, m.now()) {
		delete(m.sessions, id)
		return nil, notFound("session.memory.load", id)
	}
	s := e.session
	return &s, nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *MemoryStore) Close() error {
	return nil
}

// Len 当前保存的 session 数量，包括已过期未清理的
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *MemoryStore) expired(e entry, now time.Time) bool {
	return !e.expire.IsZero() && now.After(e.expire)
}
