package memory

import (
	"context"
	"slices"
	"sort"
	"strings"

	"github.com/jhoicas/swarna-khata-api/internal/domain"
	"github.com/jhoicas/swarna-khata-api/internal/domain/entity"
	"github.com/jhoicas/swarna-khata-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo facturas en memoria (documento completo, como en la tabla JSONB).
type InvoiceRepo struct{ base }

func (r *InvoiceRepo) Create(_ context.Context, inv *entity.Invoice) error {
	return r.do(func(d *data) error {
		if _, ok := d.invoices[inv.ID]; ok {
			return domain.ErrDuplicate
		}
		d.invoices[inv.ID] = inv.Clone()
		return nil
	})
}

func (r *InvoiceRepo) GetByID(_ context.Context, shopID, id string) (*entity.Invoice, error) {
	var out *entity.Invoice
	err := r.do(func(d *data) error {
		if inv, ok := d.invoices[id]; ok && inv.ShopID == shopID {
			out = inv.Clone()
		}
		return nil
	})
	return out, err
}

func matchInvoice(inv *entity.Invoice, f repository.InvoiceFilter) bool {
	if f.Status != "" && inv.PaymentStatus != f.Status {
		return false
	}
	if f.CustomerID != "" && inv.CustomerID != f.CustomerID {
		return false
	}
	if f.From != nil && inv.InvoiceDate.Before(*f.From) {
		return false
	}
	if f.To != nil && !inv.InvoiceDate.Before(*f.To) {
		return false
	}
	if kw := strings.ToLower(strings.TrimSpace(f.Keyword)); kw != "" {
		if slices.Contains(inv.Keywords, kw) {
			return true
		}
		hay := strings.ToLower(inv.InvoiceNumber + " " + inv.CustomerName + " " + inv.CustomerPhone)
		return strings.Contains(hay, kw)
	}
	return true
}

func (r *InvoiceRepo) List(_ context.Context, shopID string, f repository.InvoiceFilter) ([]*entity.Invoice, int, error) {
	var list []*entity.Invoice
	err := r.do(func(d *data) error {
		for _, inv := range d.invoices {
			if inv.ShopID == shopID && matchInvoice(inv, f) {
				list = append(list, inv.Clone())
			}
		}
		return nil
	})
	sort.Slice(list, func(i, j int) bool {
		if !list[i].InvoiceDate.Equal(list[j].InvoiceDate) {
			return list[i].InvoiceDate.After(list[j].InvoiceDate)
		}
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	start, end := page(len(list), f.Limit, f.Offset)
	return list[start:end], len(list), err
}

func (r *InvoiceRepo) Update(_ context.Context, inv *entity.Invoice) error {
	return r.do(func(d *data) error {
		old, ok := d.invoices[inv.ID]
		if !ok || old.ShopID != inv.ShopID {
			return domain.ErrNotFound
		}
		d.invoices[inv.ID] = inv.Clone()
		return nil
	})
}

func (r *InvoiceRepo) Delete(_ context.Context, shopID, id string) error {
	return r.do(func(d *data) error {
		old, ok := d.invoices[id]
		if !ok || old.ShopID != shopID {
			return domain.ErrNotFound
		}
		delete(d.invoices, id)
		return nil
	})
}
