package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/swarna-khata-api/internal/application/ports"
	"github.com/jhoicas/swarna-khata-api/internal/domain/entity"
)

var _ ports.RateCache = (*RedisRateCache)(nil)

const keyPrefix = "khata:rates:"

// RateKey clave de Redis con las tarifas de la tienda.
func RateKey(shopID string) string {
	return keyPrefix + shopID
}

// RedisRateCache tarifas serializadas en JSON con TTL.
type RedisRateCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisRateCache(addr string, password string, db int, ttl time.Duration) *RedisRateCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisRateCache{client: client, ttl: ttl}
}

func (c *RedisRateCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisRateCache) Close() error {
	return c.client.Close()
}

func (c *RedisRateCache) GetRates(ctx context.Context, shopID string) ([]*entity.MetalRate, bool, error) {
	val, err := c.client.Get(ctx, RateKey(shopID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var rates []*entity.MetalRate
	if err := json.Unmarshal([]byte(val), &rates); err != nil {
		return nil, false, err
	}
	return rates, true, nil
}

func (c *RedisRateCache) SetRates(ctx context.Context, shopID string, rates []*entity.MetalRate) error {
	if rates == nil {
		rates = []*entity.MetalRate{}
	}
	payload, err := json.Marshal(rates)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, RateKey(shopID), payload, c.ttl).Err()
}

func (c *RedisRateCache) Invalidate(ctx context.Context, shopID string) error {
	return c.client.Del(ctx, RateKey(shopID)).Err()
}
