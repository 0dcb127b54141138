// Package session holds the per-visitor session: the upstream API token
// and a cached copy of the user record, addressed by a session ID carried
// in a signed cookie.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/alvinseyidov/acteezer-web/internal/domain"
	apperrors "github.com/alvinseyidov/acteezer-web/pkg/errors"
)

const keyPrefix = "session:"

// Store is the Redis-backed session store. A session holds at most one
// token and one user record; login overwrites both as a pair and logout
// clears both as a pair.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore creates a session store with the given entry TTL.
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

// Get retrieves the raw value stored under key. Absent keys return a
// not-found error so callers can tell "not stored" from "Redis down".
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, keyPrefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", apperrors.NotFound(key)
		}
		return "", fmt.Errorf("redis get %s: %w", key, err)
	}
	return val, nil
}

// Set stores a raw value under key with the session TTL.
func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, keyPrefix+key, value, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Remove deletes the value stored under key. Removing an absent key is
// not an error.
func (s *Store) Remove(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

func tokenKey(sid string) string { return sid + ":token" }
func userKey(sid string) string  { return sid + ":user" }

// SaveLogin persists the token and user for a session as a logical pair.
// The two writes are sequential, not transactional: if the user write
// fails after the token write succeeded, the session holds a token with a
// stale or missing user record until the next login overwrites both.
func (s *Store) SaveLogin(ctx context.Context, sid, token string, user *domain.User) error {
	if err := s.Set(ctx, tokenKey(sid), token); err != nil {
		return apperrors.Wrap(err, "save session token")
	}

	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal session user: %w", err)
	}
	if err := s.Set(ctx, userKey(sid), string(data)); err != nil {
		return apperrors.Wrap(err, "save session user")
	}
	return nil
}

// SaveUser replaces only the cached user record, keeping the token. Used
// after a successful profile update.
func (s *Store) SaveUser(ctx context.Context, sid string, user *domain.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal session user: %w", err)
	}
	return s.Set(ctx, userKey(sid), string(data))
}

// Clear removes the token and user for a session in one pipeline.
func (s *Store) Clear(ctx context.Context, sid string) error {
	if err := s.client.Del(ctx, keyPrefix+tokenKey(sid), keyPrefix+userKey(sid)).Err(); err != nil {
		return fmt.Errorf("redis clear session: %w", err)
	}
	return nil
}

// Token returns the stored API token for a session. An absent token
// yields ("", nil); only infrastructure failures return an error.
func (s *Store) Token(ctx context.Context, sid string) (string, error) {
	val, err := s.Get(ctx, tokenKey(sid))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", nil
		}
		return "", err
	}
	return val, nil
}

// User returns the cached user record for a session. An absent or
// corrupted record yields (nil, nil) so an optimistic session check never
// fails hard; only infrastructure failures return an error.
func (s *Store) User(ctx context.Context, sid string) (*domain.User, error) {
	val, err := s.Get(ctx, userKey(sid))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var user domain.User
	if err := json.Unmarshal([]byte(val), &user); err != nil {
		return nil, nil
	}
	return &user, nil
}

// Ping verifies the Redis connection, for readiness checks.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
