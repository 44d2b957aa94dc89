// Package session provides the Redis-backed session store.
// Sessions survive process restarts and are shared across instances; expiry
// is enforced by Redis TTLs rather than a cleanup job.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"

	"github.com/spendwise/spendwise/internal/auth"
	"github.com/spendwise/spendwise/internal/model"
)

// sessionKeyPrefix namespaces session records in Redis. The key suffix is a
// fingerprint of the token, so a leaked Redis dump yields no usable tokens.
const sessionKeyPrefix = "session:"

// Manager issues, resolves, and destroys sessions.
type Manager struct {
	client *redis.Client
	ttl    time.Duration
}

// NewManager connects to Redis and returns a session Manager.
func NewManager(ctx context.Context, redisURL string, ttl time.Duration) (*Manager, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	// Connection pool settings
	opt.PoolSize = 10
	opt.MinIdleConns = 2
	opt.PoolTimeout = 4 * time.Second
	opt.ConnMaxIdleTime = 5 * time.Minute

	client := redis.NewClient(opt)

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return &Manager{client: client, ttl: ttl}, nil
}

// Ping checks session store connectivity.
func (m *Manager) Ping(ctx context.Context) error {
	return m.client.Ping(ctx).Err()
}

// Close closes the Redis client.
func (m *Manager) Close() error {
	return m.client.Close()
}

// TTL returns the configured session lifetime.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// storedSession is the wire form of a session record in Redis.
type storedSession struct {
	SessionID string `json:"session_id"`
	UserID    int64  `json:"user_id"`
	Username  string `json:"username"`
	CreatedAt int64  `json:"created_at"` // Unix seconds
}

// Create binds a new session to the given user and returns the opaque token
// together with the stored subject snapshot.
func (m *Manager) Create(ctx context.Context, user *model.User) (string, *model.Subject, error) {
	token, err := auth.NewSessionToken()
	if err != nil {
		return "", nil, err
	}

	now := time.Now().UTC()
	stored := storedSession{
		SessionID: ulid.Make().String(),
		UserID:    user.ID,
		Username:  user.Username,
		CreatedAt: now.Unix(),
	}

	data, err := json.Marshal(stored)
	if err != nil {
		return "", nil, fmt.Errorf("marshal session: %w", err)
	}

	key := sessionKeyPrefix + auth.FingerprintToken(token)
	if err := m.client.Set(ctx, key, data, m.ttl).Err(); err != nil {
		return "", nil, fmt.Errorf("store session: %w", err)
	}

	return token, stored.subject(), nil
}

// Resolve maps an inbound token to its subject. Anonymous outcomes (absent,
// malformed, expired, or corrupted records) are (nil, nil); an error means the
// store itself could not be consulted.
func (m *Manager) Resolve(ctx context.Context, token string) (*model.Subject, error) {
	if !auth.ValidateTokenFormat(token) {
		return nil, nil
	}

	key := sessionKeyPrefix + auth.FingerprintToken(token)
	data, err := m.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	var stored storedSession
	if err := json.Unmarshal(data, &stored); err != nil {
		// Corrupted record: treat as anonymous rather than failing the request.
		return nil, nil
	}

	return stored.subject(), nil
}

// Destroy invalidates the session bound to token. Store failures are
// surfaced, never swallowed; destroying an already-absent session succeeds.
func (m *Manager) Destroy(ctx context.Context, token string) error {
	if !auth.ValidateTokenFormat(token) {
		return nil
	}

	key := sessionKeyPrefix + auth.FingerprintToken(token)
	if err := m.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("destroy session: %w", err)
	}
	return nil
}

func (s storedSession) subject() *model.Subject {
	return &model.Subject{
		SessionID: s.SessionID,
		UserID:    s.UserID,
		Username:  s.Username,
		CreatedAt: time.Unix(s.CreatedAt, 0).UTC(),
	}
}
