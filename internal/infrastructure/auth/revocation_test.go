package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travel/backend/internal/infrastructure/auth"
	"github.com/travel/backend/tests/integration"
)

func exerciseRevocationList(t *testing.T, list auth.RevocationList) {
	ctx := context.Background()

	revoked, err := list.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, list.Revoke(ctx, "jti-1", time.Hour))

	revoked, err = list.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = list.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)

	issuedBefore := time.Now().Add(-time.Hour)
	revoked, err = list.IsUserRevoked(ctx, 42, issuedBefore)
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, list.RevokeUser(ctx, 42, time.Hour))

	revoked, err = list.IsUserRevoked(ctx, 42, issuedBefore)
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = list.IsUserRevoked(ctx, 42, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.False(t, revoked, "tokens issued after the revocation stay valid")

	revoked, err = list.IsUserRevoked(ctx, 43, issuedBefore)
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestInMemoryRevocationList(t *testing.T) {
	exerciseRevocationList(t, auth.NewInMemoryRevocationList())
}

func TestInMemoryRevocationList_Expiry(t *testing.T) {
	list := auth.NewInMemoryRevocationList()
	ctx := context.Background()

	require.NoError(t, list.Revoke(ctx, "short", time.Millisecond))
	time.Sleep(10 * time.Millisecond)

	revoked, err := list.IsRevoked(ctx, "short")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRedisRevocationList(t *testing.T) {
	exerciseRevocationList(t, auth.NewRedisRevocationList(integration.NewTestRedis(t)))
}
