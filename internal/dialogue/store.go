package dialogue

import (
	"sync"
	"time"
)

type SessionStore interface {
	Get(chatID int64) (*Session, bool)
	Put(s *Session)
	Delete(chatID int64)
}

// MemoryStore keeps sessions in process memory. Sessions idle for longer than
// ttl are dropped on the next lookup; a zero ttl keeps them forever.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[int64]*Session
	ttl      time.Duration
	now      func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[int64]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (m *MemoryStore) Get(chatID int64) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[chatID]
	if !ok {
		return nil, false
	}

	if m.ttl > 0 && m.now().Sub(s.UpdatedAt) > m.ttl {
		delete(m.sessions, chatID)
		return nil, false
	}

	return s, true
}

func (m *MemoryStore) Put(s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions[s.ChatID] = s
}

func (m *MemoryStore) Delete(chatID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, chatID)
}

func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.sessions)
}
