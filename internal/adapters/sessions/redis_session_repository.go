package sessions

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"helpyhands-market-service/internal/domain/session"
	"helpyhands-market-service/internal/domain/shared"

	"github.com/redis/go-redis/v9"
)

// RedisSessionRepository implements the session repository on Redis. The TTL
// doubles as the token lifetime, so sessions survive process restarts but
// never outlive their expiry.
type RedisSessionRepository struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisSessionRepository creates a new Redis-backed session repository
func NewRedisSessionRepository(client *redis.Client, ttl time.Duration) *RedisSessionRepository {
	return &RedisSessionRepository{
		client: client,
		prefix: "session:",
		ttl:    ttl,
	}
}

// Create stores a session with its remaining lifetime
func (r *RedisSessionRepository) Create(ctx context.Context, s *session.Session) error {
	key := r.prefix + s.ID
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	return r.client.Set(ctx, key, data, r.ttl).Err()
}

// GetByID retrieves a session by ID
func (r *RedisSessionRepository) GetByID(ctx context.Context, sessionID string) (*session.Session, error) {
	key := r.prefix + sessionID
	data, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, shared.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var s session.Session
	if err := json.Unmarshal([]byte(data), &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	if s.IsExpired() {
		r.client.Del(ctx, key)
		return nil, shared.ErrSessionExpired
	}

	return &s, nil
}

// Delete removes a session; deleting a missing session is not an error
func (r *RedisSessionRepository) Delete(ctx context.Context, sessionID string) error {
	return r.client.Del(ctx, r.prefix+sessionID).Err()
}
