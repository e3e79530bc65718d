package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionStore tracks issued admin sessions so tokens can be revoked
// before their JWT expiry.
type SessionStore interface {
	Save(ctx context.Context, sessionID string, ttl time.Duration) error
	Active(ctx context.Context, sessionID string) (bool, error)
	Revoke(ctx context.Context, sessionID string) error
}

const sessionKeyPrefix = "admin_session:"

// RedisSessionStore keeps sessions in Redis with a TTL matching the
// token expiry.
type RedisSessionStore struct {
	client *redis.Client
}

// NewRedisSessionStore creates a Redis-backed session store.
func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	if client == nil {
		return nil
	}
	return &RedisSessionStore{client: client}
}

func (s *RedisSessionStore) Save(ctx context.Context, sessionID string, ttl time.Duration) error {
	if err := s.client.Set(ctx, sessionKeyPrefix+sessionID, "1", ttl).Err(); err != nil {
		return fmt.Errorf("auth: save session: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) Active(ctx context.Context, sessionID string) (bool, error) {
	n, err := s.client.Exists(ctx, sessionKeyPrefix+sessionID).Result()
	if err != nil {
		return false, fmt.Errorf("auth: check session: %w", err)
	}
	return n > 0, nil
}

func (s *RedisSessionStore) Revoke(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, sessionKeyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("auth: revoke session: %w", err)
	}
	return nil
}

// MemorySessionStore is the single-process fallback when Redis is not
// configured.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]time.Time
	now      func() time.Time
}

// NewMemorySessionStore creates an in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]time.Time),
		now:      time.Now,
	}
}

func (s *MemorySessionStore) Save(_ context.Context, sessionID string, ttl time.Duration) error {
	s.mu.Lock()
	s.sessions[sessionID] = s.now().Add(ttl)
	s.mu.Unlock()
	return nil
}

func (s *MemorySessionStore) Active(_ context.Context, sessionID string) (bool, error) {
	s.mu.RLock()
	expires, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if s.now().After(expires) {
		s.mu.Lock()
		delete(s.sessions, sessionID)
		s.mu.Unlock()
		return false, nil
	}
	return true, nil
}

func (s *MemorySessionStore) Revoke(_ context.Context, sessionID string) error {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
	return nil
}
