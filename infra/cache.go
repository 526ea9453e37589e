package infra

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/tnqbao/gau-cloudlet-service/config"
)

const downloadURLKeyPrefix = "cloudlet:download_url:"

var ErrCacheMiss = errors.New("key not found in cache")

type RedisClient struct {
	Client *redis.Client
}

func InitRedisClient(cfg *config.EnvConfig) *RedisClient {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.RedisHost + ":" + cfg.Redis.RedisPort,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.Database,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("Redis connection failed: %v", err)
	}

	log.Println("Connected to Redis:", cfg.Redis.RedisPort+" on "+cfg.Redis.RedisHost)

	return &RedisClient{Client: client}
}

func (r *RedisClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.Client.Set(ctx, key, data, expiration).Err()
}

func (r *RedisClient) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := r.Client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCacheMiss
		}
		return err
	}
	return json.Unmarshal(data, dest)
}

func (r *RedisClient) Delete(ctx context.Context, keys ...string) error {
	return r.Client.Del(ctx, keys...).Err()
}

func (r *RedisClient) Ping(ctx context.Context) error {
	return r.Client.Ping(ctx).Err()
}

// GetDownloadURL returns a cached presigned GET URL for storageID.
// The bool is false on a cache miss.
func (r *RedisClient) GetDownloadURL(ctx context.Context, storageID string) (string, bool, error) {
	var url string
	if err := r.Get(ctx, downloadURLKeyPrefix+storageID, &url); err != nil {
		if errors.Is(err, ErrCacheMiss) {
			return "", false, nil
		}
		return "", false, err
	}
	return url, true, nil
}

func (r *RedisClient) SetDownloadURL(ctx context.Context, storageID, url string, ttl time.Duration) error {
	return r.Set(ctx, downloadURLKeyPrefix+storageID, url, ttl)
}

func (r *RedisClient) DeleteDownloadURL(ctx context.Context, storageID string) error {
	return r.Delete(ctx, downloadURLKeyPrefix+storageID)
}
