package app_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/swarna-khata-api/internal/app"
	"github.com/jhoicas/swarna-khata-api/pkg/config"
)

func TestOpen_SinBaseDeDatosUsaMemoria(t *testing.T) {
	cfg := &config.Config{JWT: config.JWTConfig{Secret: "s", Expiration: 60, Issuer: "test"}}

	c, err := app.Open(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	defer c.Close()

	assert.NotNil(t, c.Repos.Tx)
	deps := c.RouterDeps("s")
	assert.Equal(t, "s", deps.JWTSecret)
	assert.NotNil(t, deps.InvoiceUC)
	assert.NotNil(t, deps.DocumentUC)
	assert.NotNil(t, deps.SubscriptionSvc)

	n, err := c.RecycleBin.PurgeExpired(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}
