// Package tally exporta facturas como vouchers XML importables en Tally (Import Data).
package tally

import (
	"bytes"
	"context"
	"fmt"
	"sort"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"

	"github.com/jhoicas/swarna-khata-api/internal/application/ports"
	billingcore "github.com/jhoicas/swarna-khata-api/internal/domain/billing"
	"github.com/jhoicas/swarna-khata-api/internal/domain/entity"
)

var _ ports.TallyExporter = (*Exporter)(nil)

// Ledgers que la tienda debe tener creados en Tally.
const (
	LedgerSales     = "Sales - Jewellery"
	LedgerTax       = "Output GST"
	LedgerExchange  = "Old Metal Exchange"
	LedgerCash      = "Cash"
	LedgerBank      = "Bank"
	LedgerCounter   = "Cash Customer"
	tallyDateLayout = "20060102"
)

// Exporter genera el sobre ENVELOPE de Tally con un voucher Sales por factura
// y un voucher Receipt por pago.
type Exporter struct {
	IncludeReceipts bool
}

// NewExporter construye el exportador con recibos incluidos.
func NewExporter() *Exporter { return &Exporter{IncludeReceipts: true} }

// ExportSales serializa las facturas en Windows-1252, el encoding que Tally importa sin conversión.
// Los caracteres fuera de la página de códigos se reemplazan.
func (e *Exporter) ExportSales(_ context.Context, shop *entity.Shop, invoices []*entity.Invoice) ([]byte, error) {
	sorted := append([]*entity.Invoice(nil), invoices...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].InvoiceDate.Before(sorted[j].InvoiceDate) })

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="windows-1252"`)
	env := doc.CreateElement("ENVELOPE")
	env.CreateElement("HEADER").CreateElement("TALLYREQUEST").SetText("Import Data")
	imp := env.CreateElement("BODY").CreateElement("IMPORTDATA")
	desc := imp.CreateElement("REQUESTDESC")
	desc.CreateElement("REPORTNAME").SetText("Vouchers")
	desc.CreateElement("STATICVARIABLES").CreateElement("SVCURRENTCOMPANY").SetText(shop.Name)
	data := imp.CreateElement("REQUESTDATA")

	for _, inv := range sorted {
		msg := data.CreateElement("TALLYMESSAGE")
		msg.CreateAttr("xmlns:UDF", "TallyUDF")
		salesVoucher(msg, inv)
		if e.IncludeReceipts {
			for _, p := range inv.Payments {
				receiptVoucher(data.CreateElement("TALLYMESSAGE"), inv, p)
			}
		}
	}

	doc.Indent(2)
	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("tally: serializar XML: %w", err)
	}
	return toWindows1252(buf.String()), nil
}

// toWindows1252 codifica runa a runa; lo que no existe en la página de códigos pasa a '?'.
func toWindows1252(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		b, ok := charmap.Windows1252.EncodeRune(r)
		if !ok {
			b = '?'
		}
		out = append(out, b)
	}
	return out
}

func partyLedger(inv *entity.Invoice) string {
	if inv.CustomerName != "" {
		return inv.CustomerName
	}
	return LedgerCounter
}

// salesVoucher: débito al cliente (y al metal recibido), crédito a ventas e impuesto.
// En Tally los débitos van con ISDEEMEDPOSITIVE=Yes y monto negativo.
func salesVoucher(msg *etree.Element, inv *entity.Invoice) {
	t := billingcore.Recompute(inv)
	v := voucher(msg, "Sales", inv.ID, inv)
	v.CreateElement("VOUCHERNUMBER").SetText(inv.InvoiceNumber)
	v.CreateElement("REFERENCE").SetText(inv.InvoiceNumber)
	if inv.Notes != "" {
		v.CreateElement("NARRATION").SetText(inv.Notes)
	}
	ledgerEntry(v, partyLedger(inv), t.Total, true)
	if inv.IsMetalExchangeApplied && t.FineValue.IsPositive() {
		ledgerEntry(v, LedgerExchange, t.FineValue, true)
	}
	ledgerEntry(v, LedgerSales, t.Subtotal.Add(t.ExtraCharges), false)
	if t.Tax.IsPositive() {
		ledgerEntry(v, LedgerTax, t.Tax, false)
	}
}

// receiptVoucher: débito a caja/banco, crédito al cliente.
func receiptVoucher(msg *etree.Element, inv *entity.Invoice, p entity.Payment) {
	v := voucher(msg, "Receipt", p.ID, inv)
	v.FindElement("DATE").SetText(p.Date.Format(tallyDateLayout))
	v.CreateElement("VOUCHERNUMBER").SetText(p.ID)
	v.CreateElement("REFERENCE").SetText(inv.InvoiceNumber)
	if p.Reference != "" {
		v.CreateElement("NARRATION").SetText(p.Method + " " + p.Reference)
	}
	ledgerEntry(v, methodLedger(p.Method), p.Amount, true)
	ledgerEntry(v, partyLedger(inv), p.Amount, false)
}

func voucher(msg *etree.Element, vchType, guid string, inv *entity.Invoice) *etree.Element {
	v := msg.CreateElement("VOUCHER")
	v.CreateAttr("VCHTYPE", vchType)
	v.CreateAttr("ACTION", "Create")
	v.CreateElement("GUID").SetText(guid)
	v.CreateElement("DATE").SetText(inv.InvoiceDate.Format(tallyDateLayout))
	v.CreateElement("VOUCHERTYPENAME").SetText(vchType)
	v.CreateElement("PARTYLEDGERNAME").SetText(partyLedger(inv))
	return v
}

func ledgerEntry(v *etree.Element, ledger string, amount decimal.Decimal, debit bool) {
	e := v.CreateElement("ALLLEDGERENTRIES.LIST")
	e.CreateElement("LEDGERNAME").SetText(ledger)
	if debit {
		e.CreateElement("ISDEEMEDPOSITIVE").SetText("Yes")
		e.CreateElement("AMOUNT").SetText(amount.Neg().StringFixed(2))
		return
	}
	e.CreateElement("ISDEEMEDPOSITIVE").SetText("No")
	e.CreateElement("AMOUNT").SetText(amount.StringFixed(2))
}

func methodLedger(method string) string {
	switch method {
	case entity.PaymentCash:
		return LedgerCash
	case entity.PaymentMetal:
		return LedgerExchange
	default:
		return LedgerBank
	}
}
