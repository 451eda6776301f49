package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	maxRetries = 5
	retryDelay = 2 * time.Second
)

type Redis struct {
	Client *redis.Client
}

/*
* Parse the redis URL
* Ping with a few retries before giving up
 */
func NewRedis(ctx context.Context, url string) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)

	for i := 1; i <= maxRetries; i++ {
		if err = client.Ping(ctx).Err(); err == nil {
			log.Info().Str("addr", opts.Addr).Msg("connected to redis")
			return &Redis{Client: client}, nil
		}
		log.Warn().Err(err).Int("attempt", i).Int("of", maxRetries).Msg("failed to connect to redis")
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryDelay):
		}
	}
	return nil, fmt.Errorf("failed to connect to redis after %d attempts: %w", maxRetries, err)
}

func (r *Redis) GetCache(ctx context.Context, key string, out interface{}) (bool, error) {
	raw, err := r.Client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal(raw, out)
}

func (r *Redis) SetCache(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.Client.Set(ctx, key, raw, ttl).Err()
}

func (r *Redis) DeleteCache(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return r.Client.Del(ctx, keys...).Err()
}

func (r *Redis) Close() error {
	return r.Client.Close()
}
