// Package analytics contiene los reportes de ventas y cartera de la tienda.
// Se calculan en Go a partir de los snapshots de las facturas.
package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/swarna-khata-api/internal/application/dto"
	"github.com/jhoicas/swarna-khata-api/internal/domain"
	"github.com/jhoicas/swarna-khata-api/internal/domain/billing"
	"github.com/jhoicas/swarna-khata-api/internal/domain/entity"
	"github.com/jhoicas/swarna-khata-api/internal/domain/repository"
)

const (
	reportTopItems = 5 // número de artículos en el ranking
	dateLayout     = "2006-01-02"
)

// ReportsUseCase genera el reporte de ventas de un periodo y el de saldos por cliente.
type ReportsUseCase struct {
	invoices  repository.InvoiceRepository
	customers repository.CustomerRepository
	now       func() time.Time
}

// NewReportsUseCase construye el caso de uso.
func NewReportsUseCase(invoices repository.InvoiceRepository, customers repository.CustomerRepository) *ReportsUseCase {
	return &ReportsUseCase{invoices: invoices, customers: customers, now: time.Now}
}

// Period interpreta from/to (YYYY-MM-DD, to inclusivo). Sin fechas: mes en curso.
func (uc *ReportsUseCase) Period(from, to string) (time.Time, time.Time, error) {
	now := uc.now()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.Local)
	end := start.AddDate(0, 1, 0)
	if from != "" {
		t, err := time.ParseInLocation(dateLayout, from, time.Local)
		if err != nil {
			return start, end, fmt.Errorf("%w: from", domain.ErrInvalidInput)
		}
		start = t
	}
	if to != "" {
		t, err := time.ParseInLocation(dateLayout, to, time.Local)
		if err != nil {
			return start, end, fmt.Errorf("%w: to", domain.ErrInvalidInput)
		}
		end = t.AddDate(0, 0, 1)
	}
	if !start.Before(end) {
		return start, end, domain.ErrInvalidInput
	}
	return start, end, nil
}

// SalesReport agrega las facturas con fecha en [from, to).
func (uc *ReportsUseCase) SalesReport(ctx context.Context, shopID string, from, to time.Time) (*dto.SalesReport, error) {
	list, _, err := uc.invoices.List(ctx, shopID, repository.InvoiceFilter{From: &from, To: &to})
	if err != nil {
		return nil, fmt.Errorf("reporte: listar facturas: %w", err)
	}
	r := &dto.SalesReport{
		From:             from,
		To:               to,
		InvoiceCount:     len(list),
		StatusCounts:     map[string]int{entity.PaymentStatusUnpaid: 0, entity.PaymentStatusPartial: 0, entity.PaymentStatusPaid: 0},
		PaymentsByMethod: map[string]decimal.Decimal{},
		Daily:            []dto.DailySales{},
		TopItems:         []dto.TopItem{},
	}
	daily := map[string]*dto.DailySales{}
	items := map[string]*dto.TopItem{}
	for _, inv := range list {
		t := billing.Recompute(inv)
		r.Subtotal = r.Subtotal.Add(t.Subtotal)
		r.ExtraCharges = r.ExtraCharges.Add(t.ExtraCharges)
		r.Tax = r.Tax.Add(t.Tax)
		r.FineValue = r.FineValue.Add(t.FineValue)
		r.Total = r.Total.Add(t.Total)
		r.Paid = r.Paid.Add(t.Paid)
		if t.BalanceDue.IsPositive() {
			r.Outstanding = r.Outstanding.Add(t.BalanceDue)
		}
		r.StatusCounts[t.Status]++
		if inv.IsMetalExchangeApplied {
			r.FineGoldGrams = r.FineGoldGrams.Add(inv.FineGoldAmount)
			r.FineSilverGrams = r.FineSilverGrams.Add(inv.FineSilverAmount)
		}
		w := billing.MetalWeights(inv.Items)
		r.GoldGramsSold = r.GoldGramsSold.Add(w.Gold)
		r.SilverGramsSold = r.SilverGramsSold.Add(w.Silver)
		for _, p := range inv.Payments {
			r.PaymentsByMethod[p.Method] = r.PaymentsByMethod[p.Method].Add(p.Amount)
		}

		day := inv.InvoiceDate.In(time.Local).Format(dateLayout)
		ds, ok := daily[day]
		if !ok {
			ds = &dto.DailySales{Date: day}
			daily[day] = ds
		}
		ds.InvoiceCount++
		ds.Total = ds.Total.Add(t.Total)
		ds.Paid = ds.Paid.Add(t.Paid)

		for _, it := range inv.Items {
			key := it.ItemID
			if key == "" {
				key = it.ItemDetails.DisplayName
			}
			ti, ok := items[key]
			if !ok {
				ti = &dto.TopItem{ItemID: it.ItemID, DisplayName: it.ItemDetails.DisplayName}
				items[key] = ti
			}
			ti.Quantity = ti.Quantity.Add(it.Quantity)
			ti.Revenue = ti.Revenue.Add(billing.LineAmount(it)).Add(billing.ItemExtraCharges(it))
		}
	}

	for _, ds := range daily {
		r.Daily = append(r.Daily, *ds)
	}
	sort.Slice(r.Daily, func(i, j int) bool { return r.Daily[i].Date < r.Daily[j].Date })
	for _, ti := range items {
		r.TopItems = append(r.TopItems, *ti)
	}
	sort.Slice(r.TopItems, func(i, j int) bool {
		if c := r.TopItems[i].Revenue.Cmp(r.TopItems[j].Revenue); c != 0 {
			return c > 0
		}
		return r.TopItems[i].DisplayName < r.TopItems[j].DisplayName
	})
	if len(r.TopItems) > reportTopItems {
		r.TopItems = r.TopItems[:reportTopItems]
	}
	return r, nil
}

// CustomerDues saldo pendiente por cliente, de mayor a menor. Omite clientes sin deuda.
func (uc *ReportsUseCase) CustomerDues(ctx context.Context, shopID string) (*dto.CustomerDuesReport, error) {
	// ── Clientes y facturas en paralelo ───────────────────────────────────────
	type customersResult struct {
		list []*entity.Customer
		err  error
	}
	type invoicesResult struct {
		list []*entity.Invoice
		err  error
	}
	customersCh := make(chan customersResult, 1)
	invoicesCh := make(chan invoicesResult, 1)

	go func() {
		list, _, err := uc.customers.List(ctx, shopID, repository.CustomerFilter{})
		customersCh <- customersResult{list, err}
	}()
	go func() {
		list, _, err := uc.invoices.List(ctx, shopID, repository.InvoiceFilter{})
		invoicesCh <- invoicesResult{list, err}
	}()

	customers := <-customersCh
	invoices := <-invoicesCh
	if customers.err != nil {
		return nil, fmt.Errorf("cartera: clientes: %w", customers.err)
	}
	if invoices.err != nil {
		return nil, fmt.Errorf("cartera: facturas: %w", invoices.err)
	}

	// ── Deuda por cliente ─────────────────────────────────────────────────────
	type due struct {
		amount decimal.Decimal
		open   int
	}
	dues := map[string]*due{}
	for _, inv := range invoices.list {
		if inv.CustomerID == "" {
			continue
		}
		b := billing.BalanceDue(inv.TotalAmount, inv.PaidAmount)
		if !b.IsPositive() {
			continue
		}
		d, ok := dues[inv.CustomerID]
		if !ok {
			d = &due{}
			dues[inv.CustomerID] = d
		}
		d.amount = d.amount.Add(b)
		d.open++
	}

	out := &dto.CustomerDuesReport{Customers: []dto.CustomerDue{}}
	for _, c := range customers.list {
		d := dues[c.ID]
		if d == nil && !c.CurrentBalance.IsPositive() {
			continue
		}
		row := dto.CustomerDue{
			CustomerID:     c.ID,
			Name:           c.Name,
			Phone:          c.Phone,
			CurrentBalance: c.CurrentBalance,
			CreditLimit:    c.CreditLimit,
		}
		if d != nil {
			row.Outstanding = d.amount
			row.OpenInvoices = d.open
		}
		row.UsagePercentage = billing.UsagePercentage(c.CurrentBalance, c.CreditLimit)
		row.UsageLevel = billing.UsageLevel(row.UsagePercentage)
		out.TotalOutstanding = out.TotalOutstanding.Add(row.Outstanding)
		out.Customers = append(out.Customers, row)
	}
	sort.Slice(out.Customers, func(i, j int) bool {
		if c := out.Customers[i].CurrentBalance.Cmp(out.Customers[j].CurrentBalance); c != 0 {
			return c > 0
		}
		return out.Customers[i].Name < out.Customers[j].Name
	})
	return out, nil
}
