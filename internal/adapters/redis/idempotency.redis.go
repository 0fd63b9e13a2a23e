package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/mmodel"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/mopentelemetry"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/mredis"

	goredis "github.com/redis/go-redis/v9"
)

// CacheRepository provides an interface for the idempotency read-through cache.
// It fronts the relational http_idempotency table; a miss is not an error.
//
//go:generate mockgen --destination=idempotency.mock.go --package=redis . CacheRepository
type CacheRepository interface {
	Get(ctx context.Context, tenantID, method, path, bodyHash, key string) (*mmodel.IdempotencyRecord, error)
	Set(ctx context.Context, record *mmodel.IdempotencyRecord, ttl time.Duration) error
}

// IdempotencyRedisRepository is a Redis-specific implementation of the idempotency cache.
type IdempotencyRedisRepository struct {
	connection *mredis.RedisConnection
}

// NewIdempotencyRedisRepository returns a new instance of IdempotencyRedisRepository using the given Redis connection.
func NewIdempotencyRedisRepository(rc *mredis.RedisConnection) *IdempotencyRedisRepository {
	r := &IdempotencyRedisRepository{
		connection: rc,
	}

	if _, err := r.connection.GetClient(context.Background()); err != nil {
		panic("Failed to connect redis")
	}

	return r
}

func cacheKey(tenantID, method, path, bodyHash, key string) string {
	return fmt.Sprintf("idempotency:%s:%s:%s:%s:%s", tenantID, method, path, bodyHash, key)
}

// Get returns the cached response, or nil on a miss.
func (r *IdempotencyRedisRepository) Get(ctx context.Context, tenantID, method, path, bodyHash, key string) (*mmodel.IdempotencyRecord, error) {
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "redis.get_idempotency")
	defer span.End()

	client, err := r.connection.GetClient(ctx)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to get redis client", err)

		return nil, err
	}

	raw, err := client.Get(ctx, cacheKey(tenantID, method, path, bodyHash, key)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}

	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to get cached idempotency record", err)

		return nil, err
	}

	record := &mmodel.IdempotencyRecord{}
	if err := json.Unmarshal(raw, record); err != nil {
		return nil, err
	}

	return record, nil
}

// Set caches the stored response under the same TTL as the relational row.
func (r *IdempotencyRedisRepository) Set(ctx context.Context, record *mmodel.IdempotencyRecord, ttl time.Duration) error {
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "redis.set_idempotency")
	defer span.End()

	client, err := r.connection.GetClient(ctx)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to get redis client", err)

		return err
	}

	raw, err := json.Marshal(record)
	if err != nil {
		return err
	}

	key := cacheKey(record.TenantID, record.Method, record.Path, record.BodyHash, record.IdempotencyKey)

	if err := client.Set(ctx, key, raw, ttl).Err(); err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to cache idempotency record", err)

		return err
	}

	return nil
}
