package caching

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const keyPrefix = "menuhub"

type CacheService interface {
	// Catalog existence caching. found is false on a cache miss.
	GetProductExists(ctx context.Context, tenantID, productID string) (exists bool, found bool, err error)
	SetProductExists(ctx context.Context, tenantID, productID string, exists bool, ttl time.Duration) error

	// Idempotent submission records
	IdempotencyKey(scope, key string) string
	GetIdempotencyRecord(ctx context.Context, key string) (string, error)
	ReserveIdempotencyKey(ctx context.Context, key, record string, ttl time.Duration) (bool, error)
	PutIdempotencyRecord(ctx context.Context, key, record string, ttl time.Duration) error
	DeleteIdempotencyRecord(ctx context.Context, key string) error

	Ping(ctx context.Context) error
}

type redisCacheService struct {
	client redis.UniversalClient
}

// NewRedisClient accepts either host:port or a redis:// URL.
func NewRedisClient(addr, password string, db int) *redis.Client {
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		if opts, err := redis.ParseURL(addr); err == nil {
			if password != "" {
				opts.Password = password
			}
			return redis.NewClient(opts)
		}
		log.Warn().Str("addr", addr).Msg("invalid redis url, using it as an address")
	}
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

func NewRedisCacheService(client redis.UniversalClient) CacheService {
	return &redisCacheService{client: client}
}

func productKey(tenantID, productID string) string {
	return fmt.Sprintf("%s:product:%s:%s", keyPrefix, tenantID, productID)
}

func (r *redisCacheService) GetProductExists(ctx context.Context, tenantID, productID string) (bool, bool, error) {
	val, err := r.client.Get(ctx, productKey(tenantID, productID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, false, nil // cache miss
		}
		return false, false, err
	}
	return val == "1", true, nil
}

func (r *redisCacheService) SetProductExists(ctx context.Context, tenantID, productID string, exists bool, ttl time.Duration) error {
	val := "0"
	if exists {
		val = "1"
	}
	return r.client.Set(ctx, productKey(tenantID, productID), val, ttl).Err()
}

func (r *redisCacheService) IdempotencyKey(scope, key string) string {
	return fmt.Sprintf("%s:idempotency:%s:%s", keyPrefix, scope, key)
}

func (r *redisCacheService) GetIdempotencyRecord(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil // not found
		}
		return "", err
	}
	return val, nil
}

// ReserveIdempotencyKey stores record unless the key already holds one.
func (r *redisCacheService) ReserveIdempotencyKey(ctx context.Context, key, record string, ttl time.Duration) (bool, error) {
	return r.client.SetNX(ctx, key, record, ttl).Result()
}

// PutIdempotencyRecord overwrites whatever the key holds.
func (r *redisCacheService) PutIdempotencyRecord(ctx context.Context, key, record string, ttl time.Duration) error {
	return r.client.Set(ctx, key, record, ttl).Err()
}

func (r *redisCacheService) DeleteIdempotencyRecord(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

func (r *redisCacheService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
