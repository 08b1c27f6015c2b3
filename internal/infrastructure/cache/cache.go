// Package cache guarda las tarifas de metal por tienda para no leer la base en cada factura.
package cache

import (
	"context"

	"github.com/jhoicas/swarna-khata-api/internal/application/ports"
	"github.com/jhoicas/swarna-khata-api/internal/domain/entity"
)

var _ ports.RateCache = NoopRateCache{}

// NoopRateCache se usa cuando no hay Redis configurado: siempre falla la lectura.
type NoopRateCache struct{}

func (NoopRateCache) GetRates(_ context.Context, _ string) ([]*entity.MetalRate, bool, error) {
	return nil, false, nil
}

func (NoopRateCache) SetRates(_ context.Context, _ string, _ []*entity.MetalRate) error {
	return nil
}

func (NoopRateCache) Invalidate(_ context.Context, _ string) error {
	return nil
}
