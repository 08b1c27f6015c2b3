package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/swarna-khata-api/internal/domain/entity"
)

// ItemFilter filtros del catálogo.
type ItemFilter struct {
	Search   string // nombre o código
	ItemType string
	Category string
	Limit    int
	Offset   int
}

// ItemRepository puerto de persistencia del catálogo de joyas.
type ItemRepository interface {
	Create(ctx context.Context, item *entity.JewelleryItem) error
	GetByID(ctx context.Context, shopID, id string) (*entity.JewelleryItem, error)
	List(ctx context.Context, shopID string, f ItemFilter) ([]*entity.JewelleryItem, int, error)
	Update(ctx context.Context, item *entity.JewelleryItem) error
	// AdjustStock suma delta al stock y devuelve el nuevo valor.
	// Devuelve domain.ErrInsufficientStock si el resultado sería negativo.
	AdjustStock(ctx context.Context, shopID, id string, delta decimal.Decimal) (decimal.Decimal, error)
	Delete(ctx context.Context, shopID, id string) error
}
