package ports

import (
	"context"

	"github.com/jhoicas/swarna-khata-api/internal/domain/entity"
)

// InvoicePDFGenerator genera la representación PDF de una factura.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, invoice *entity.Invoice, shop *entity.Shop, settings *entity.PDFSettings) ([]byte, error)
}

// TallyExporter serializa facturas como vouchers de venta importables en Tally.
type TallyExporter interface {
	ExportSales(ctx context.Context, shop *entity.Shop, invoices []*entity.Invoice) ([]byte, error)
}

// RateCache caché de tarifas de metal por tienda.
type RateCache interface {
	GetRates(ctx context.Context, shopID string) ([]*entity.MetalRate, bool, error)
	SetRates(ctx context.Context, shopID string, rates []*entity.MetalRate) error
	Invalidate(ctx context.Context, shopID string) error
}
