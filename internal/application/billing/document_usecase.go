package billing

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/swarna-khata-api/internal/application/dto"
	"github.com/jhoicas/swarna-khata-api/internal/application/ports"
	"github.com/jhoicas/swarna-khata-api/internal/domain"
	"github.com/jhoicas/swarna-khata-api/internal/domain/entity"
	"github.com/jhoicas/swarna-khata-api/internal/domain/repository"
)

// DocumentUseCase genera los documentos de salida de una factura: PDF para el cliente
// y XML de vouchers para importar en Tally.
type DocumentUseCase struct {
	invoices repository.InvoiceRepository
	shops    repository.ShopRepository
	pdf      ports.InvoicePDFGenerator
	tally    ports.TallyExporter
}

// NewDocumentUseCase construye el caso de uso inyectando todas sus dependencias.
func NewDocumentUseCase(
	invoices repository.InvoiceRepository,
	shops repository.ShopRepository,
	pdf ports.InvoicePDFGenerator,
	tally ports.TallyExporter,
) *DocumentUseCase {
	return &DocumentUseCase{invoices: invoices, shops: shops, pdf: pdf, tally: tally}
}

func (uc *DocumentUseCase) shop(ctx context.Context, shopID string) (*entity.Shop, error) {
	shop, err := uc.shops.GetByID(ctx, shopID)
	if err != nil {
		return nil, fmt.Errorf("documento: obtener tienda: %w", err)
	}
	if shop == nil {
		return nil, domain.ErrNotFound
	}
	return shop, nil
}

// DownloadInvoicePDF genera el PDF de la factura con la configuración de la tienda.
//
// Retorna:
//   - (pdfBytes, filename, nil)  si todo sale bien.
//   - domain.ErrNotFound         si la factura no existe en la tienda.
func (uc *DocumentUseCase) DownloadInvoicePDF(ctx context.Context, shopID, invoiceID string) (pdfBytes []byte, filename string, err error) {
	// ── 1. Cargar factura ─────────────────────────────────────────────────────
	inv, err := uc.invoices.GetByID(ctx, shopID, invoiceID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener factura: %w", err)
	}
	if inv == nil {
		return nil, "", domain.ErrNotFound
	}

	// ── 2. Tienda y configuración ─────────────────────────────────────────────
	shop, err := uc.shop(ctx, shopID)
	if err != nil {
		return nil, "", err
	}
	settings, err := uc.shops.GetPDFSettings(ctx, shopID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener configuración: %w", err)
	}
	if settings == nil {
		settings = entity.DefaultPDFSettings(shopID)
	}

	// ── 3. Generar PDF ────────────────────────────────────────────────────────
	pdfBytes, err = uc.pdf.GenerateInvoicePDF(ctx, inv, shop, settings)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	return pdfBytes, fmt.Sprintf("%s.pdf", strings.ToLower(inv.InvoiceNumber)), nil
}

// ExportTally exporta como vouchers de venta las facturas que cumplen el filtro (sin paginar).
func (uc *DocumentUseCase) ExportTally(ctx context.Context, shopID string, q dto.InvoiceListQuery) (xmlBytes []byte, filename string, err error) {
	q.Limit, q.Offset = 0, 0
	f, err := Filter(q)
	if err != nil {
		return nil, "", err
	}
	shop, err := uc.shop(ctx, shopID)
	if err != nil {
		return nil, "", err
	}
	list, _, err := uc.invoices.List(ctx, shopID, f)
	if err != nil {
		return nil, "", fmt.Errorf("tally: listar facturas: %w", err)
	}
	xmlBytes, err = uc.tally.ExportSales(ctx, shop, list)
	if err != nil {
		return nil, "", fmt.Errorf("tally: exportación fallida: %w", err)
	}
	name := "tally_ventas"
	if q.From != "" {
		name += "_" + q.From
	}
	if q.To != "" {
		name += "_" + q.To
	}
	return xmlBytes, name + ".xml", nil
}
