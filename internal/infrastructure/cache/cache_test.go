package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/swarna-khata-api/internal/infrastructure/cache"
)

func TestNoopRateCache_NuncaDevuelveDatos(t *testing.T) {
	var c cache.NoopRateCache
	ctx := context.Background()

	require.NoError(t, c.SetRates(ctx, "shop-1", nil))
	rates, ok, err := c.GetRates(ctx, "shop-1")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, rates)
	assert.NoError(t, c.Invalidate(ctx, "shop-1"))
}

func TestRateKey_PorTienda(t *testing.T) {
	assert.Equal(t, "khata:rates:shop-1", cache.RateKey("shop-1"))
	assert.NotEqual(t, cache.RateKey("a"), cache.RateKey("b"))
}

func TestRedisRateCache_SinServidorDevuelveError(t *testing.T) {
	// Puerto reservado sin servidor: el cliente debe fallar, no colgarse.
	c := cache.NewRedisRateCache("127.0.0.1:1", "", 0, time.Minute)
	defer c.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, ok, err := c.GetRates(ctx, "shop-1")
	assert.Error(t, err)
	assert.False(t, ok)
}
