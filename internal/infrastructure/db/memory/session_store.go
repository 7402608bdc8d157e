package memory

import (
	"context"
	"sync"
	"time"

	"github.com/fineko/fineko-api/internal/core/domain"
)

// SessionStore keeps sessions in a map. Expired entries are dropped lazily
// on access.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]domain.Session
	now      func() time.Time
}

// NewSessionStore uses now as its clock; nil means time.Now.
func NewSessionStore(now func() time.Time) *SessionStore {
	if now == nil {
		now = time.Now
	}
	return &SessionStore{sessions: make(map[string]domain.Session), now: now}
}

func (s *SessionStore) Create(_ context.Context, sess *domain.Session, ttl time.Duration) (*domain.Session, error) {
	id, err := domain.NewSessionID()
	if err != nil {
		return nil, err
	}
	created := *sess
	created.ID = id
	created.CreatedAt = s.now().UTC()
	created.ExpiresAt = created.CreatedAt.Add(ttl)

	s.mu.Lock()
	s.sessions[id] = created
	s.mu.Unlock()
	return &created, nil
}

func (s *SessionStore) Resolve(_ context.Context, id string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lookup(id)
}

func (s *SessionStore) Consume(_ context.Context, id string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	delete(s.sessions, id)
	return sess, nil
}

// lookup must be called with mu held.
func (s *SessionStore) lookup(id string) (*domain.Session, error) {
	sess, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	if sess.Expired(s.now()) {
		delete(s.sessions, id)
		return nil, domain.ErrSessionNotFound
	}
	return &sess, nil
}

// Deduper is the in-memory update_id idempotency store.
type Deduper struct {
	mu   sync.Mutex
	seen map[int64]struct{}
}

func NewDeduper() *Deduper {
	return &Deduper{seen: make(map[int64]struct{})}
}

func (d *Deduper) IsDuplicate(_ context.Context, updateID int64) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.seen[updateID]
	return ok, nil
}

func (d *Deduper) Mark(_ context.Context, updateID int64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seen[updateID] = struct{}{}
	return nil
}
