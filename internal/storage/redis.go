package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultDialTimeout = 5 * time.Second

// InvalidationChannel is the pub/sub channel the admin service publishes
// on whenever the tenant table changes; the directory refresher listens on
// it so provisioning takes effect without waiting out a poll interval.
const InvalidationChannel = "tenants.invalidate"

type RedisClient struct {
	client *redis.Client
}

func NewRedis(addr, password string, db int) (*RedisClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), defaultDialTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisClient{client: client}, nil
}

func (r *RedisClient) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// PublishInvalidation signals directory refreshers that tenants changed.
func (r *RedisClient) PublishInvalidation(ctx context.Context) error {
	return r.client.Publish(ctx, InvalidationChannel, "refresh").Err()
}

// SubscribeInvalidations returns a live subscription on the invalidation
// channel. The caller owns the returned PubSub and must close it.
func (r *RedisClient) SubscribeInvalidations(ctx context.Context) *redis.PubSub {
	return r.client.Subscribe(ctx, InvalidationChannel)
}

func (r *RedisClient) Close() error {
	return r.client.Close()
}
