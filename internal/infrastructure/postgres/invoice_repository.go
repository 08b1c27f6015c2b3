package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/swarna-khata-api/internal/domain"
	"github.com/jhoicas/swarna-khata-api/internal/domain/entity"
	"github.com/jhoicas/swarna-khata-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
// Líneas y pagos viven en columnas JSONB de la misma fila: la factura se lee y escribe como un documento.
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `id, shop_id, invoice_number, customer_id, customer_name, customer_phone, customer_address,
	invoice_date, due_date, items, payments, total_amount, paid_amount, notes, payment_status, keywords,
	is_metal_exchange_applied, fine_gold_amount, fine_silver_amount, fine_gold_rate, fine_silver_rate,
	original_total_before_fine, created_at, updated_at`

func scanInvoice(row rowScanner, extra ...any) (*entity.Invoice, error) {
	var (
		inv             entity.Invoice
		items, payments []byte
	)
	dest := []any{
		&inv.ID, &inv.ShopID, &inv.InvoiceNumber, &inv.CustomerID, &inv.CustomerName, &inv.CustomerPhone, &inv.CustomerAddress,
		&inv.InvoiceDate, &inv.DueDate, &items, &payments, &inv.TotalAmount, &inv.PaidAmount, &inv.Notes, &inv.PaymentStatus, &inv.Keywords,
		&inv.IsMetalExchangeApplied, &inv.FineGoldAmount, &inv.FineSilverAmount, &inv.FineGoldRate, &inv.FineSilverRate,
		&inv.OriginalTotalBeforeFine, &inv.CreatedAt, &inv.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(items, &inv.Items); err != nil {
		return nil, fmt.Errorf("decode items: %w", err)
	}
	if err := json.Unmarshal(payments, &inv.Payments); err != nil {
		return nil, fmt.Errorf("decode payments: %w", err)
	}
	return &inv, nil
}

// documentArgs serializa las listas embebidas (nunca null en la columna).
func documentArgs(inv *entity.Invoice) (items, payments []byte, keywords []string, err error) {
	lines := inv.Items
	if lines == nil {
		lines = []entity.InvoiceItem{}
	}
	pays := inv.Payments
	if pays == nil {
		pays = []entity.Payment{}
	}
	if items, err = json.Marshal(lines); err != nil {
		return nil, nil, nil, fmt.Errorf("encode items: %w", err)
	}
	if payments, err = json.Marshal(pays); err != nil {
		return nil, nil, nil, fmt.Errorf("encode payments: %w", err)
	}
	keywords = inv.Keywords
	if keywords == nil {
		keywords = []string{}
	}
	return items, payments, keywords, nil
}

// Create persiste la factura completa.
func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	items, payments, keywords, err := documentArgs(inv)
	if err != nil {
		return err
	}
	query := `INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24)`
	_, err = r.q.Exec(ctx, query,
		inv.ID, inv.ShopID, inv.InvoiceNumber, inv.CustomerID, inv.CustomerName, inv.CustomerPhone, inv.CustomerAddress,
		inv.InvoiceDate, inv.DueDate, items, payments, inv.TotalAmount, inv.PaidAmount, inv.Notes, inv.PaymentStatus, keywords,
		inv.IsMetalExchangeApplied, inv.FineGoldAmount, inv.FineSilverAmount, inv.FineGoldRate, inv.FineSilverRate,
		inv.OriginalTotalBeforeFine, inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// GetByID obtiene la factura con sus líneas y pagos.
func (r *InvoiceRepo) GetByID(ctx context.Context, shopID, id string) (*entity.Invoice, error) {
	inv, err := scanInvoice(r.q.QueryRow(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE shop_id = $1 AND id = $2`, shopID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

// invoiceWhere arma el WHERE del listado. El keyword busca en el arreglo de prefijos
// o como subcadena de número, cliente y teléfono.
func invoiceWhere(shopID string, f repository.InvoiceFilter) (string, []any) {
	conds := []string{"shop_id = $1"}
	args := []any{shopID}
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, strings.ReplaceAll(cond, "?", fmt.Sprintf("$%d", len(args))))
	}
	if f.Status != "" {
		add("payment_status = ?", f.Status)
	}
	if f.CustomerID != "" {
		add("customer_id = ?", f.CustomerID)
	}
	if f.From != nil {
		add("invoice_date >= ?", *f.From)
	}
	if f.To != nil {
		add("invoice_date < ?", *f.To)
	}
	if kw := strings.ToLower(strings.TrimSpace(f.Keyword)); kw != "" {
		args = append(args, kw, ilike(kw))
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			"($%d = ANY(keywords) OR lower(invoice_number || ' ' || customer_name || ' ' || customer_phone) LIKE $%d)", n-1, n))
	}
	return strings.Join(conds, " AND "), args
}

// List facturas más recientes primero; devuelve la página y el total.
func (r *InvoiceRepo) List(ctx context.Context, shopID string, f repository.InvoiceFilter) ([]*entity.Invoice, int, error) {
	where, args := invoiceWhere(shopID, f)
	limit, offset := pageArgs(f.Limit, f.Offset)
	n := len(args)
	query := fmt.Sprintf(`SELECT %s, count(*) OVER () FROM invoices WHERE %s
		ORDER BY invoice_date DESC, created_at DESC LIMIT $%d OFFSET $%d`, invoiceColumns, where, n+1, n+2)
	rows, err := r.q.Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()
	var (
		list  []*entity.Invoice
		total int
	)
	for rows.Next() {
		inv, err := scanInvoice(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	if len(list) == 0 && offset > 0 {
		if err := r.q.QueryRow(ctx, `SELECT count(*) FROM invoices WHERE `+where, args...).Scan(&total); err != nil {
			return nil, 0, fmt.Errorf("count invoices: %w", err)
		}
	}
	return list, total, nil
}

// Update reescribe el documento completo.
func (r *InvoiceRepo) Update(ctx context.Context, inv *entity.Invoice) error {
	items, payments, keywords, err := documentArgs(inv)
	if err != nil {
		return err
	}
	if inv.UpdatedAt.IsZero() {
		inv.UpdatedAt = time.Now()
	}
	query := `
		UPDATE invoices SET customer_id = $3, customer_name = $4, customer_phone = $5, customer_address = $6,
			invoice_date = $7, due_date = $8, items = $9, payments = $10, total_amount = $11, paid_amount = $12,
			notes = $13, payment_status = $14, keywords = $15, is_metal_exchange_applied = $16,
			fine_gold_amount = $17, fine_silver_amount = $18, fine_gold_rate = $19, fine_silver_rate = $20,
			original_total_before_fine = $21, updated_at = $22
		WHERE shop_id = $1 AND id = $2`
	tag, err := r.q.Exec(ctx, query,
		inv.ShopID, inv.ID, inv.CustomerID, inv.CustomerName, inv.CustomerPhone, inv.CustomerAddress,
		inv.InvoiceDate, inv.DueDate, items, payments, inv.TotalAmount, inv.PaidAmount,
		inv.Notes, inv.PaymentStatus, keywords, inv.IsMetalExchangeApplied,
		inv.FineGoldAmount, inv.FineSilverAmount, inv.FineGoldRate, inv.FineSilverRate,
		inv.OriginalTotalBeforeFine, inv.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina la factura (la lápida la crea el caso de uso en la misma tx).
func (r *InvoiceRepo) Delete(ctx context.Context, shopID, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM invoices WHERE shop_id = $1 AND id = $2`, shopID, id)
	if err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
