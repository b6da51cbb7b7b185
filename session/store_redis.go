package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"plaza/errors"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps sessions in Redis with a TTL matching the session
// expiry, so expired sessions disappear without a sweeper. The rolling
// refresh simply re-sets the key with a new TTL.
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, prefix: "session:"}
}

func (r *RedisStore) key(id string) string {
	return r.prefix + id
}

func (r *RedisStore) Create(ctx context.Context, session Session) error {
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session: expires_at must be in the future")
	}
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("session: failed to marshal: %w", err)
	}
	return r.client.Set(ctx, r.key(session.ID), data, ttl).Err()
}

func (r *RedisStore) Get(ctx context.Context, id string) (Session, error) {
	val, err := r.client.Get(ctx, r.key(id)).Result()
	if err == redis.Nil {
		return Session{}, errors.ErrNoSession
	}
	if err != nil {
		return Session{}, err
	}
	var session Session
	if err := json.Unmarshal([]byte(val), &session); err != nil {
		return Session{}, fmt.Errorf("session: failed to unmarshal: %w", err)
	}
	return session, nil
}

func (r *RedisStore) Refresh(ctx context.Context, id string, ttl time.Duration) (Session, error) {
	session, err := r.Get(ctx, id)
	if err != nil {
		return Session{}, err
	}
	session.ExpiresAt = time.Now().Add(ttl)
	data, err := json.Marshal(session)
	if err != nil {
		return Session{}, fmt.Errorf("session: failed to marshal: %w", err)
	}
	if err := r.client.Set(ctx, r.key(id), data, ttl).Err(); err != nil {
		return Session{}, err
	}
	return session, nil
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	return r.client.Del(ctx, r.key(id)).Err()
}
