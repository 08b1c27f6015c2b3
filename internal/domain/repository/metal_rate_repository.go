package repository

import (
	"context"

	"github.com/jhoicas/swarna-khata-api/internal/domain/entity"
)

// MetalRateRepository tarifas vigentes por metal y pureza.
type MetalRateRepository interface {
	Upsert(ctx context.Context, rate *entity.MetalRate) error
	Get(ctx context.Context, shopID, metal, purity string) (*entity.MetalRate, error)
	List(ctx context.Context, shopID string) ([]*entity.MetalRate, error)
}
