package auth

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationList invalidates access tokens before they expire
type RevocationList interface {
	// Revoke rejects the token with this id until ttl elapses.
	// ttl should be the token's remaining lifetime.
	Revoke(ctx context.Context, jti string, ttl time.Duration) error

	// IsRevoked reports whether the token id was revoked
	IsRevoked(ctx context.Context, jti string) (bool, error)

	// RevokeUser rejects every token issued to the user up to now
	RevokeUser(ctx context.Context, userID int64, ttl time.Duration) error

	// IsUserRevoked reports whether a token issued at issuedAt predates the user's revocation
	IsUserRevoked(ctx context.Context, userID int64, issuedAt time.Time) (bool, error)
}

const revocationKeyPrefix = "travel:revoked:"

// RedisRevocationList implements RevocationList on Redis keys with TTLs
type RedisRevocationList struct {
	client redis.Cmdable
}

// NewRedisRevocationList creates a revocation list sharing an existing client
func NewRedisRevocationList(client redis.Cmdable) *RedisRevocationList {
	return &RedisRevocationList{client: client}
}

func jtiKey(jti string) string {
	return revocationKeyPrefix + "jti:" + jti
}

func userKey(userID int64) string {
	return revocationKeyPrefix + "user:" + strconv.FormatInt(userID, 10)
}

// Revoke implements RevocationList
func (l *RedisRevocationList) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if err := l.client.Set(ctx, jtiKey(jti), "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// IsRevoked implements RevocationList
func (l *RedisRevocationList) IsRevoked(ctx context.Context, jti string) (bool, error) {
	exists, err := l.client.Exists(ctx, jtiKey(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}
	return exists > 0, nil
}

// RevokeUser implements RevocationList
func (l *RedisRevocationList) RevokeUser(ctx context.Context, userID int64, ttl time.Duration) error {
	if err := l.client.Set(ctx, userKey(userID), time.Now().Unix(), ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke user tokens: %w", err)
	}
	return nil
}

// IsUserRevoked implements RevocationList
func (l *RedisRevocationList) IsUserRevoked(ctx context.Context, userID int64, issuedAt time.Time) (bool, error) {
	revokedAt, err := l.client.Get(ctx, userKey(userID)).Int64()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check user revocation: %w", err)
	}
	return issuedAt.Unix() <= revokedAt, nil
}

var _ RevocationList = (*RedisRevocationList)(nil)

// InMemoryRevocationList keeps revocations in process memory.
// Only suitable for a single instance and for tests.
type InMemoryRevocationList struct {
	mu    sync.Mutex
	jtis  map[string]time.Time // jti -> expiry
	users map[int64]time.Time  // user -> revoked at
}

// NewInMemoryRevocationList creates an empty in-memory revocation list
func NewInMemoryRevocationList() *InMemoryRevocationList {
	return &InMemoryRevocationList{
		jtis:  make(map[string]time.Time),
		users: make(map[int64]time.Time),
	}
}

// Revoke implements RevocationList
func (l *InMemoryRevocationList) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.jtis[jti] = time.Now().Add(ttl)
	return nil
}

// IsRevoked implements RevocationList
func (l *InMemoryRevocationList) IsRevoked(_ context.Context, jti string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	expiry, ok := l.jtis[jti]
	if !ok {
		return false, nil
	}
	if time.Now().After(expiry) {
		delete(l.jtis, jti)
		return false, nil
	}
	return true, nil
}

// RevokeUser implements RevocationList
func (l *InMemoryRevocationList) RevokeUser(_ context.Context, userID int64, _ time.Duration) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.users[userID] = time.Now()
	return nil
}

// IsUserRevoked implements RevocationList
func (l *InMemoryRevocationList) IsUserRevoked(_ context.Context, userID int64, issuedAt time.Time) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	revokedAt, ok := l.users[userID]
	if !ok {
		return false, nil
	}
	return !issuedAt.After(revokedAt), nil
}

var _ RevocationList = (*InMemoryRevocationList)(nil)
