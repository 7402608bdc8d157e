package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fineko/fineko-api/internal/core/domain"
)

const sessionKeyPrefix = "session:"

// SessionStore keeps sessions as JSON values with a native TTL, so Redis
// does the expiry and every API replica sees the same sessions.
// Key format: session:<id>
type SessionStore struct {
	client *redis.Client
	now    func() time.Time
}

func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client, now: time.Now}
}

func (s *SessionStore) Create(ctx context.Context, sess *domain.Session, ttl time.Duration) (*domain.Session, error) {
	id, err := domain.NewSessionID()
	if err != nil {
		return nil, err
	}
	created := *sess
	created.ID = id
	created.CreatedAt = s.now().UTC()
	created.ExpiresAt = created.CreatedAt.Add(ttl)

	payload, err := json.Marshal(created)
	if err != nil {
		return nil, fmt.Errorf("encode session: %w", err)
	}

	ok, err := s.client.SetNX(ctx, sessionKeyPrefix+id, payload, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("store session: id collision")
	}
	return &created, nil
}

func (s *SessionStore) Resolve(ctx context.Context, id string) (*domain.Session, error) {
	raw, err := s.client.Get(ctx, sessionKeyPrefix+id).Bytes()
	return s.decode(raw, err)
}

// Consume uses GETDEL so a code can only be redeemed once across replicas.
func (s *SessionStore) Consume(ctx context.Context, id string) (*domain.Session, error) {
	raw, err := s.client.GetDel(ctx, sessionKeyPrefix+id).Bytes()
	return s.decode(raw, err)
}

func (s *SessionStore) decode(raw []byte, err error) (*domain.Session, error) {
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	var sess domain.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	// Redis expiry has millisecond granularity; the stored deadline is authoritative.
	if sess.Expired(s.now()) {
		return nil, domain.ErrSessionNotFound
	}
	return &sess, nil
}
