package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"slotbook/models"

	"github.com/go-redis/redis/v8"
)

const sessionPrefix = "assistant:session:"

var (
	// ErrSessionNotFound is returned for unknown sessions.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionExpired is returned once for a session that outlived its TTL.
	ErrSessionExpired = fmt.Errorf("%w: expired", ErrSessionNotFound)
)

// SessionStore keeps dialogue sessions between turns. Sessions handed out are
// copies; changes only land through Touch.
type SessionStore interface {
	Get(ctx context.Context, id string) (*models.DialogueSession, error)
	Create(ctx context.Context, id string) (*models.DialogueSession, error)
	Touch(ctx context.Context, session *models.DialogueSession) error
	Clear(ctx context.Context, id string) error
}

func newSession(id string, now time.Time) *models.DialogueSession {
	return &models.DialogueSession{
		ID:           id,
		Intent:       models.IntentBooking,
		Phase:        models.PhaseCollectingService,
		CreatedAt:    now,
		LastActivity: now,
	}
}

func isStale(s *models.DialogueSession, now time.Time, ttl time.Duration) bool {
	return now.Sub(s.LastActivity) > ttl
}

// MemorySessionStore is a process-local SessionStore.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*models.DialogueSession
	ttl      time.Duration
	now      func() time.Time
}

func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]*models.DialogueSession),
		ttl:      ttl,
		now:      time.Now,
	}
}

// WithClock replaces the store's time source.
func (s *MemorySessionStore) WithClock(now func() time.Time) *MemorySessionStore {
	s.now = now
	return s
}

func (s *MemorySessionStore) Get(_ context.Context, id string) (*models.DialogueSession, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	if isStale(sess, s.now(), s.ttl) {
		s.mu.Lock()
		delete(s.sessions, id)
		s.mu.Unlock()
		return nil, ErrSessionExpired
	}
	return sess.Clone(), nil
}

func (s *MemorySessionStore) Create(_ context.Context, id string) (*models.DialogueSession, error) {
	sess := newSession(id, s.now())
	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()
	return sess.Clone(), nil
}

func (s *MemorySessionStore) Touch(_ context.Context, session *models.DialogueSession) error {
	stored := session.Clone()
	stored.LastActivity = s.now()
	s.mu.Lock()
	s.sessions[stored.ID] = stored
	s.mu.Unlock()
	session.LastActivity = stored.LastActivity
	return nil
}

func (s *MemorySessionStore) Clear(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	return nil
}

// Sweep drops every stale session and reports how many went.
func (s *MemorySessionStore) Sweep() int {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.sessions {
		if isStale(sess, now, s.ttl) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// StartSweeper runs Sweep every interval until ctx is done. Lookups evict lazily
// anyway; the sweeper only bounds memory held by abandoned sessions.
func (s *MemorySessionStore) StartSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Sweep()
			}
		}
	}()
}

// RedisSessionStore keeps sessions as JSON under keys that expire with the TTL.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{client: client, ttl: ttl, now: time.Now}
}

// WithClock replaces the store's time source.
func (s *RedisSessionStore) WithClock(now func() time.Time) *RedisSessionStore {
	s.now = now
	return s
}

func (s *RedisSessionStore) Get(ctx context.Context, id string) (*models.DialogueSession, error) {
	key := sessionPrefix + id
	data, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}

	var sess models.DialogueSession
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	// Key expiry is coarse; last activity is authoritative.
	if isStale(&sess, s.now(), s.ttl) {
		if err := s.client.Del(ctx, key).Err(); err != nil {
			return nil, fmt.Errorf("evict session %s: %w", id, err)
		}
		return nil, ErrSessionExpired
	}
	return &sess, nil
}

func (s *RedisSessionStore) Create(ctx context.Context, id string) (*models.DialogueSession, error) {
	sess := newSession(id, s.now())
	if err := s.save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *RedisSessionStore) Touch(ctx context.Context, session *models.DialogueSession) error {
	stored := session.Clone()
	stored.LastActivity = s.now()
	if err := s.save(ctx, stored); err != nil {
		return err
	}
	session.LastActivity = stored.LastActivity
	return nil
}

func (s *RedisSessionStore) Clear(ctx context.Context, id string) error {
	return s.client.Del(ctx, sessionPrefix+id).Err()
}

func (s *RedisSessionStore) save(ctx context.Context, sess *models.DialogueSession) error {
	b, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", sess.ID, err)
	}
	if err := s.client.Set(ctx, sessionPrefix+sess.ID, b, s.ttl).Err(); err != nil {
		return fmt.Errorf("store session %s: %w", sess.ID, err)
	}
	return nil
}
