package cache

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/redis/go-redis/v9"
	"github.com/travel/backend/internal/domain/reservation"
	"go.uber.org/zap"
)

// DefaultInvoiceKey is the Redis key holding the last issued invoice number
const DefaultInvoiceKey = "travel:invoice:last"

// SeedFunc returns the highest invoice number already persisted
type SeedFunc func(ctx context.Context) (int64, error)

// seedAndIncr raises the counter to the seed when it is behind, then increments.
// KEYS[1] counter, ARGV[1] seed
var seedAndIncr = redis.NewScript(`
local current = tonumber(redis.call('GET', KEYS[1]) or '0')
local seed = tonumber(ARGV[1])
if seed > current then
	redis.call('SET', KEYS[1], seed)
end
return redis.call('INCR', KEYS[1])
`)

// RedisInvoiceNumberAllocator issues invoice numbers with INCR on a single key.
// On first use in a process the counter is raised to the database maximum so
// numbers issued before the switch to Redis are never handed out again.
type RedisInvoiceNumberAllocator struct {
	client redis.Cmdable
	key    string
	seed   SeedFunc
	seeded atomic.Bool
	logger *zap.Logger
}

// NewRedisInvoiceNumberAllocator creates a new RedisInvoiceNumberAllocator.
// A nil seed starts the counter from zero.
func NewRedisInvoiceNumberAllocator(client redis.Cmdable, key string, seed SeedFunc, logger *zap.Logger) *RedisInvoiceNumberAllocator {
	if key == "" {
		key = DefaultInvoiceKey
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisInvoiceNumberAllocator{
		client: client,
		key:    key,
		seed:   seed,
		logger: logger,
	}
}

// Next increments the counter and returns the new value
func (a *RedisInvoiceNumberAllocator) Next(ctx context.Context) (int64, error) {
	if a.seeded.Load() || a.seed == nil {
		next, err := a.client.Incr(ctx, a.key).Result()
		if err != nil {
			return 0, fmt.Errorf("failed to allocate invoice number: %w", err)
		}
		return next, nil
	}

	floor, err := a.seed(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read invoice seed: %w", err)
	}
	next, err := seedAndIncr.Run(ctx, a.client, []string{a.key}, floor).Int64()
	if err != nil {
		return 0, fmt.Errorf("failed to allocate invoice number: %w", err)
	}
	a.seeded.Store(true)
	a.logger.Info("Invoice counter seeded",
		zap.String("key", a.key),
		zap.Int64("floor", floor),
		zap.Int64("issued", next),
	)
	return next, nil
}

// Ensure RedisInvoiceNumberAllocator implements reservation.InvoiceNumberAllocator
var _ reservation.InvoiceNumberAllocator = (*RedisInvoiceNumberAllocator)(nil)
