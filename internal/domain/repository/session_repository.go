package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"church_roster/internal/common"
	"church_roster/internal/domain/model"

	"github.com/redis/go-redis/v9"
)

// SessionRepository holds live session markers. Find reports
// common.ErrNotFound for unknown or expired ids; Delete is idempotent.
type SessionRepository interface {
	Create(ctx context.Context, session *model.Session) error
	Find(ctx context.Context, id string) (*model.Session, error)
	Delete(ctx context.Context, id string) error
}

const sessionKeyPrefix = "roster:session:"

type redisSessionRepository struct {
	rdb *redis.Client
	now func() time.Time
}

func NewRedisSessionRepository(rdb *redis.Client) SessionRepository {
	return &redisSessionRepository{rdb: rdb, now: time.Now}
}

func (r *redisSessionRepository) Create(ctx context.Context, s *model.Session) error {
	ttl := s.ExpiresAt.Sub(r.now())
	if ttl <= 0 {
		return fmt.Errorf("redisSessionRepository.Create: session %s already expired", s.ID)
	}
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("redisSessionRepository.Create marshal: %w", err)
	}
	if err := r.rdb.Set(ctx, sessionKeyPrefix+s.ID, payload, ttl).Err(); err != nil {
		return fmt.Errorf("redisSessionRepository.Create: %w", err)
	}
	return nil
}

func (r *redisSessionRepository) Find(ctx context.Context, id string) (*model.Session, error) {
	payload, err := r.rdb.Get(ctx, sessionKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("redisSessionRepository.Find: %w", err)
	}
	s := &model.Session{}
	if err := json.Unmarshal(payload, s); err != nil {
		return nil, fmt.Errorf("redisSessionRepository.Find unmarshal: %w", err)
	}
	return s, nil
}

func (r *redisSessionRepository) Delete(ctx context.Context, id string) error {
	if err := r.rdb.Del(ctx, sessionKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("redisSessionRepository.Delete: %w", err)
	}
	return nil
}

// MemorySessionRepository keeps sessions in process memory. Expired entries
// are hidden from Find and removed by Sweep.
type MemorySessionRepository struct {
	mu       sync.Mutex
	sessions map[string]model.Session
	now      func() time.Time
}

func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{
		sessions: map[string]model.Session{},
		now:      time.Now,
	}
}

func (r *MemorySessionRepository) Create(_ context.Context, s *model.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID] = *s
	return nil
}

func (r *MemorySessionRepository) Find(_ context.Context, id string) (*model.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok || s.Expired(r.now()) {
		return nil, common.ErrNotFound
	}
	return &s, nil
}

func (r *MemorySessionRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
	return nil
}

// Sweep drops expired sessions and returns how many were removed.
func (r *MemorySessionRepository) Sweep(_ context.Context) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	removed := 0
	for id, s := range r.sessions {
		if s.Expired(now) {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}

func (r *MemorySessionRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
