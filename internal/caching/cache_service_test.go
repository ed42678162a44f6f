package caching

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

// unreachableClient points at a closed port with retries disabled so every
// command fails immediately.
func unreachableClient() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		MaxRetries:  -1,
		DialTimeout: 100 * time.Millisecond,
	})
}

func TestProductKeyIsTenantScoped(t *testing.T) {
	assert.Equal(t, "menuhub:product:c1:p1", productKey("c1", "p1"))
	assert.NotEqual(t, productKey("c1", "p1"), productKey("c2", "p1"))
}

func TestIdempotencyKey(t *testing.T) {
	svc := NewRedisCacheService(unreachableClient())
	assert.Equal(t, "menuhub:idempotency:scope:abc", svc.IdempotencyKey("scope", "abc"))
}

func TestNewRedisClient_ParsesURL(t *testing.T) {
	client := NewRedisClient("redis://:pw@cache.internal:6380/3", "", 0)
	defer client.Close()

	opts := client.Options()
	assert.Equal(t, "cache.internal:6380", opts.Addr)
	assert.Equal(t, "pw", opts.Password)
	assert.Equal(t, 3, opts.DB)
}

func TestNewRedisClient_PlainAddress(t *testing.T) {
	client := NewRedisClient("localhost:6379", "secret", 1)
	defer client.Close()

	opts := client.Options()
	assert.Equal(t, "localhost:6379", opts.Addr)
	assert.Equal(t, "secret", opts.Password)
	assert.Equal(t, 1, opts.DB)
}

func TestUnreachableBackendSurfacesErrors(t *testing.T) {
	client := unreachableClient()
	defer client.Close()
	svc := NewRedisCacheService(client)
	ctx := context.Background()

	exists, found, err := svc.GetProductExists(ctx, "c1", "p1")
	assert.Error(t, err)
	assert.False(t, found)
	assert.False(t, exists)

	assert.Error(t, svc.SetProductExists(ctx, "c1", "p1", true, time.Minute))
	assert.Error(t, svc.Ping(ctx))

	record, err := svc.GetIdempotencyRecord(ctx, "k")
	assert.Error(t, err)
	assert.Empty(t, record)

	reserved, err := svc.ReserveIdempotencyKey(ctx, "k", "{}", time.Minute)
	assert.Error(t, err)
	assert.False(t, reserved)
	assert.Error(t, svc.PutIdempotencyRecord(ctx, "k", "{}", time.Minute))
	assert.Error(t, svc.DeleteIdempotencyRecord(ctx, "k"))
}
