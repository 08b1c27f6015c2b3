package repository

import (
	"context"

	"github.com/jhoicas/swarna-khata-api/internal/domain/entity"
)

// ShopRepository puerto de persistencia para tiendas y su configuración de PDF.
type ShopRepository interface {
	Create(ctx context.Context, shop *entity.Shop) error
	GetByID(ctx context.Context, id string) (*entity.Shop, error)
	Update(ctx context.Context, shop *entity.Shop) error
	// GetPDFSettings devuelve nil, nil si la tienda no guardó configuración.
	GetPDFSettings(ctx context.Context, shopID string) (*entity.PDFSettings, error)
	SavePDFSettings(ctx context.Context, settings *entity.PDFSettings) error
}
