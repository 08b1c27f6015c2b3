package repository

import (
	"context"
	"time"

	"github.com/jhoicas/swarna-khata-api/internal/domain/entity"
)

// InvoiceFilter filtros del listado de facturas. Limit 0 = sin límite.
type InvoiceFilter struct {
	Status     string
	CustomerID string
	From       *time.Time
	To         *time.Time
	Keyword    string
	Limit      int
	Offset     int
}

// InvoiceRepository puerto de persistencia de facturas. Líneas y pagos viajan con la cabecera.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	GetByID(ctx context.Context, shopID, id string) (*entity.Invoice, error)
	List(ctx context.Context, shopID string, f InvoiceFilter) ([]*entity.Invoice, int, error)
	Update(ctx context.Context, invoice *entity.Invoice) error
	Delete(ctx context.Context, shopID, id string) error
}
