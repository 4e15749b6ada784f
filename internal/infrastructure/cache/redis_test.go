package cache_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travel/backend/internal/infrastructure/cache"
	"github.com/travel/backend/internal/infrastructure/config"
)

func TestNewRedisClient_Unreachable(t *testing.T) {
	client, err := cache.NewRedisClient(context.Background(), config.RedisConfig{Host: "127.0.0.1", Port: 1})

	require.Error(t, err)
	assert.Nil(t, client)
	assert.Contains(t, err.Error(), "127.0.0.1:1")
}
