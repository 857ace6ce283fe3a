package board

import (
	"context"
	"sync"
	"time"

	"headshotstyler/metrics"

	"github.com/google/uuid"
)

// Store keeps sessions in memory, keyed by the session cookie.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (st *Store) Get(id string) (*Session, bool) {
	if id == "" {
		return nil, false
	}
	st.mu.Lock()
	session, ok := st.sessions[id]
	st.mu.Unlock()
	if !ok {
		return nil, false
	}
	session.touch(st.now())
	return session, true
}

func (st *Store) Create() *Session {
	session := NewSession(uuid.NewString())
	session.touch(st.now())

	st.mu.Lock()
	st.sessions[session.ID] = session
	count := len(st.sessions)
	st.mu.Unlock()

	metrics.ActiveSessions.Set(float64(count))
	return session
}

// GetOrCreate returns the session for id, or a new one when it is unknown or expired.
func (st *Store) GetOrCreate(id string) (*Session, bool) {
	if session, ok := st.Get(id); ok {
		return session, false
	}
	return st.Create(), true
}

func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// Sweep drops sessions idle for longer than the ttl.
func (st *Store) Sweep() int {
	cutoff := st.now().Add(-st.ttl)

	st.mu.Lock()
	removed := 0
	for id, session := range st.sessions {
		if session.idleSince().Before(cutoff) {
			delete(st.sessions, id)
			removed++
		}
	}
	count := len(st.sessions)
	st.mu.Unlock()

	metrics.ActiveSessions.Set(float64(count))
	return removed
}

func (st *Store) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			st.Sweep()
		}
	}
}
