// Package pdf genera la factura imprimible de la joyería con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Tienda + GSTIN      │  N° Factura + Fecha + Estado │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TIENDA: Dirección / Tel / Email                            │
//	│  CLIENTE: Nombre + teléfono + dirección                     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Artículo | Peso | Precio | Cargos | Importe  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Subtotal / Cargos / Impuesto / Fino / TOTAL       │
//	│  PAGOS (opcional)                                           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: términos + nota                                    │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/swarna-khata-api/internal/application/ports"
	billingcore "github.com/jhoicas/swarna-khata-api/internal/domain/billing"
	"github.com/jhoicas/swarna-khata-api/internal/domain/entity"
)

var _ ports.InvoicePDFGenerator = (*MarotoPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorGray  = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// ParseHexColor convierte "#RRGGBB" a color de Maroto.
func ParseHexColor(hex string) (*props.Color, error) {
	h := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(h) != 6 {
		return nil, fmt.Errorf("pdf: color inválido %q", hex)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return nil, fmt.Errorf("pdf: color inválido %q: %w", hex, err)
	}
	return &props.Color{Red: int(v >> 16 & 0xff), Green: int(v >> 8 & 0xff), Blue: int(v & 0xff)}, nil
}

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa ports.InvoicePDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// layout estado de un documento en construcción.
type layout struct {
	accent   *props.Color
	settings *entity.PDFSettings
}

// GenerateInvoicePDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateInvoicePDF(
	_ context.Context,
	invoice *entity.Invoice,
	shop *entity.Shop,
	settings *entity.PDFSettings,
) ([]byte, error) {
	if settings == nil {
		settings = entity.DefaultPDFSettings(shop.ID)
	}
	accent, err := ParseHexColor(settings.AccentColor)
	if err != nil {
		accent, _ = ParseHexColor(entity.DefaultPDFSettings(shop.ID).AccentColor)
	}
	l := layout{accent: accent, settings: settings}

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Factura "+invoice.InvoiceNumber, true).
		WithAuthor(shop.Name, true).
		Build()

	m := maroto.New(cfg)
	totals := billingcore.Recompute(invoice)

	m.AddRows(l.headerRow(invoice, shop))
	m.AddRows(line.NewRow(1, props.Line{Color: accent, Thickness: 0.5}))
	m.AddRows(shopRow(shop))
	m.AddRows(l.customerRow(invoice))
	m.AddRows(line.NewRow(1, props.Line{Color: accent, Thickness: 0.3}))

	m.AddRows(l.tableHeaderRow())
	m.AddRows(l.tableDetailRows(invoice.Items)...)

	m.AddRows(line.NewRow(1, props.Line{Color: accent, Thickness: 0.3}))
	m.AddRows(l.totalsRows(invoice, totals)...)

	if settings.ShowPaymentHistory && len(invoice.Payments) > 0 {
		m.AddRows(line.NewRow(3))
		m.AddRows(l.paymentRows(invoice.Payments)...)
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(l.footerRows()...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: tienda + GSTIN (izq) y N° factura + fecha + estado (der).
func (l layout) headerRow(invoice *entity.Invoice, shop *entity.Shop) core.Row {
	left := []core.Component{
		text.New(shop.Name, props.Text{Style: fontstyle.Bold, Size: 13, Color: l.accent, Top: 1}),
	}
	if shop.GSTIN != "" {
		left = append(left, text.New("GSTIN: "+shop.GSTIN, props.Text{Size: 9, Top: 9, Color: colorGray}))
	}
	status := billingcore.StatusLabel(invoice.PaymentStatus, shop.BusinessType)

	return row.New(22).Add(
		col.New(7).Add(left...),
		col.New(5).Add(
			text.New("TAX INVOICE", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: l.accent, Top: 1,
			}),
			text.New(invoice.InvoiceNumber, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 6,
			}),
			text.New("Fecha: "+invoice.InvoiceDate.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 13, Color: colorGray,
			}),
			text.New(status, props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Top: 18, Color: l.accent,
			}),
		),
	)
}

// shopRow: contacto de la tienda.
func shopRow(shop *entity.Shop) core.Row {
	return row.New(8).Add(
		col.New(12).Add(
			text.New(fmt.Sprintf("Dirección: %s   |   Tel: %s   |   Email: %s",
				nonEmpty(shop.Address, "-"),
				nonEmpty(shop.Phone, "-"),
				nonEmpty(shop.Email, "-"),
			), props.Text{Size: 8, Top: 2, Color: colorGray}),
		),
	)
}

// customerRow: datos del comprador; las ventas de mostrador sin nombre muestran "Cliente de mostrador".
func (l layout) customerRow(invoice *entity.Invoice) core.Row {
	return row.New(16).Add(
		col.New(12).Add(
			text.New("FACTURAR A", props.Text{Style: fontstyle.Bold, Size: 8, Color: l.accent, Top: 1}),
			text.New(nonEmpty(invoice.CustomerName, "Cliente de mostrador"), props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("Tel: %s   |   Dirección: %s",
				nonEmpty(invoice.CustomerPhone, "-"),
				nonEmpty(invoice.CustomerAddress, "-"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla con fondo del color de la tienda.
func (l layout) tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	cols := []core.Col{h("Cant.", 1, align.Center)}
	if l.settings.ShowItemWeights {
		cols = append(cols, h("Artículo", 4, align.Left), h("Peso (g)", 2, align.Right))
	} else {
		cols = append(cols, h("Artículo", 6, align.Left))
	}
	cols = append(cols, h("Precio", 2, align.Right))
	if l.settings.ShowExtraCharges {
		cols = append(cols, h("Cargos", 1, align.Right), h("Importe", 2, align.Right))
	} else {
		cols = append(cols, h("Importe", 3, align.Right))
	}
	return row.New(8).WithStyle(&props.Cell{BackgroundColor: l.accent}).Add(cols...)
}

// tableDetailRows: una fila por línea; el importe incluye los cargos extra, sin impuesto.
func (l layout) tableDetailRows(items []entity.InvoiceItem) []core.Row {
	cell := func(s string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(s, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
	}
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		d := it.ItemDetails
		name := d.DisplayName
		if d.Purity != "" {
			name += " (" + d.Purity + ")"
		}
		extra := billingcore.ItemExtraCharges(it)
		amount := billingcore.LineAmount(it)

		cols := []core.Col{cell(it.Quantity.String(), 1, align.Center)}
		if l.settings.ShowItemWeights {
			cols = append(cols, cell(name, 4, align.Left), cell(billingcore.BaseWeight(d).StringFixed(3), 2, align.Right))
		} else {
			cols = append(cols, cell(name, 6, align.Left))
		}
		cols = append(cols, cell(formatMoney(it.Price), 2, align.Right))
		if l.settings.ShowExtraCharges {
			cols = append(cols, cell(formatMoney(extra), 1, align.Right), cell(formatMoney(amount.Add(extra)), 2, align.Right))
		} else {
			cols = append(cols, cell(formatMoney(amount.Add(extra)), 3, align.Right))
		}
		result = append(result, row.New(7).Add(cols...))
	}
	return result
}

// totalsRows: bloque de totales alineado a la derecha, una fila por concepto.
func (l layout) totalsRows(invoice *entity.Invoice, t billingcore.Totals) []core.Row {
	entry := func(label, value string, grand bool) core.Row {
		p := props.Text{Size: 9, Align: align.Right, Right: 1}
		lp := props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2}
		if grand {
			p.Style, p.Size, p.Color = fontstyle.Bold, 10, l.accent
			lp.Size, lp.Color = 10, l.accent
		}
		return row.New(6).Add(
			col.New(6),
			col.New(3).Add(text.New(label, lp)),
			col.New(3).Add(text.New(value, p)),
		)
	}

	rows := []core.Row{entry("Subtotal:", formatMoney(t.Subtotal), false)}
	if l.settings.ShowTaxBreakdown {
		rows = append(rows,
			entry("Cargos extra:", formatMoney(t.ExtraCharges), false),
			entry("Impuesto:", formatMoney(t.Tax), false),
		)
	}
	if invoice.IsMetalExchangeApplied {
		rows = append(rows,
			entry("Total antes de fino:", formatMoney(t.OriginalTotal), false),
			entry(fmt.Sprintf("Fino oro %sg / plata %sg:", invoice.FineGoldAmount.StringFixed(3), invoice.FineSilverAmount.StringFixed(3)),
				"-"+formatMoney(t.FineValue), false),
		)
	}
	rows = append(rows,
		entry("TOTAL:", formatMoney(t.Total), true),
		entry("Pagado:", formatMoney(t.Paid), false),
		entry("Saldo:", formatMoney(t.BalanceDue), false),
	)
	return rows
}

// paymentRows: historial de pagos.
func (l layout) paymentRows(payments []entity.Payment) []core.Row {
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("PAGOS", props.Text{Style: fontstyle.Bold, Size: 8, Color: l.accent, Top: 1}),
		)),
	}
	for _, p := range payments {
		rows = append(rows, row.New(5).Add(
			col.New(3).Add(text.New(p.Date.Format("02/01/2006"), props.Text{Size: 8, Top: 0.5})),
			col.New(3).Add(text.New(p.Method, props.Text{Size: 8, Top: 0.5})),
			col.New(3).Add(text.New(p.Reference, props.Text{Size: 8, Top: 0.5, Color: colorGray})),
			col.New(3).Add(text.New(formatMoney(p.Amount), props.Text{Size: 8, Top: 0.5, Align: align.Right, Right: 1})),
		))
	}
	return rows
}

// footerRows: términos y nota de pie configurados por la tienda.
func (l layout) footerRows() []core.Row {
	var rows []core.Row
	if t := strings.TrimSpace(l.settings.TermsAndConditions); t != "" {
		rows = append(rows,
			row.New(5).Add(col.New(12).Add(
				text.New("Términos y condiciones", props.Text{Style: fontstyle.Bold, Size: 7, Top: 1}),
			)),
			row.New(10).Add(col.New(12).Add(
				text.New(t, props.Text{Size: 6.5, Color: colorGray, Top: 1}),
			)),
		)
	}
	if n := strings.TrimSpace(l.settings.FooterNote); n != "" {
		rows = append(rows, row.New(8).Add(col.New(12).Add(
			text.New(n, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Center, Color: l.accent, Top: 2}),
		)))
	}
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney formatea con 2 decimales y agrupación india (lakh/crore).
// Ej: 67465 → "Rs. 67,465.00", 1234567.5 → "Rs. 12,34,567.50"
func formatMoney(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	intPart, frac := s[:len(s)-3], s[len(s)-3:]
	if n := len(intPart); n > 3 {
		head, tail := intPart[:n-3], intPart[n-3:]
		var groups []string
		for len(head) > 2 {
			groups = append([]string{head[len(head)-2:]}, groups...)
			head = head[:len(head)-2]
		}
		if head != "" {
			groups = append([]string{head}, groups...)
		}
		intPart = strings.Join(groups, ",") + "," + tail
	}
	sign := ""
	if d.IsNegative() {
		sign = "-"
	}
	return sign + "Rs. " + intPart + frac
}
