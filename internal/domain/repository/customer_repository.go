package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/swarna-khata-api/internal/domain/entity"
)

// CustomerFilter filtros del listado de clientes.
type CustomerFilter struct {
	Search string // nombre o teléfono, sin distinguir mayúsculas
	Limit  int
	Offset int
}

// CustomerRepository puerto de persistencia para clientes.
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, shopID, id string) (*entity.Customer, error)
	GetByPhone(ctx context.Context, shopID, phone string) (*entity.Customer, error)
	List(ctx context.Context, shopID string, f CustomerFilter) ([]*entity.Customer, int, error)
	Update(ctx context.Context, customer *entity.Customer) error
	// AdjustBalance suma delta al saldo actual.
	AdjustBalance(ctx context.Context, shopID, id string, delta decimal.Decimal) error
	Delete(ctx context.Context, shopID, id string) error
}
