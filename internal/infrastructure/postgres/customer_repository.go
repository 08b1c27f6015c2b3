package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/swarna-khata-api/internal/domain"
	"github.com/jhoicas/swarna-khata-api/internal/domain/entity"
	"github.com/jhoicas/swarna-khata-api/internal/domain/repository"
)

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

// CustomerRepo implementación de CustomerRepository (usable con pool o tx).
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

const customerColumns = `id, shop_id, name, phone, email, address, customer_type, balance_type,
	opening_balance, current_balance, credit_limit, notes, created_at, updated_at`

func scanCustomer(row pgx.Row) (*entity.Customer, error) {
	var c entity.Customer
	err := row.Scan(
		&c.ID, &c.ShopID, &c.Name, &c.Phone, &c.Email, &c.Address, &c.CustomerType, &c.BalanceType,
		&c.OpeningBalance, &c.CurrentBalance, &c.CreditLimit, &c.Notes, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create persiste un nuevo cliente.
func (r *CustomerRepo) Create(ctx context.Context, c *entity.Customer) error {
	query := `INSERT INTO customers (` + customerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.ShopID, c.Name, c.Phone, c.Email, c.Address, c.CustomerType, c.BalanceType,
		c.OpeningBalance, c.CurrentBalance, c.CreditLimit, c.Notes, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

func (r *CustomerRepo) getOne(ctx context.Context, where string, args ...any) (*entity.Customer, error) {
	c, err := scanCustomer(r.q.QueryRow(ctx, `SELECT `+customerColumns+` FROM customers WHERE `+where, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return c, nil
}

// GetByID obtiene un cliente de la tienda.
func (r *CustomerRepo) GetByID(ctx context.Context, shopID, id string) (*entity.Customer, error) {
	return r.getOne(ctx, `shop_id = $1 AND id = $2`, shopID, id)
}

// GetByPhone obtiene un cliente por teléfono dentro de la tienda.
func (r *CustomerRepo) GetByPhone(ctx context.Context, shopID, phone string) (*entity.Customer, error) {
	return r.getOne(ctx, `shop_id = $1 AND phone = $2`, shopID, phone)
}

// List lista clientes por nombre con búsqueda y paginación; devuelve también el total.
func (r *CustomerRepo) List(ctx context.Context, shopID string, f repository.CustomerFilter) ([]*entity.Customer, int, error) {
	search := ""
	if f.Search != "" {
		search = ilike(f.Search)
	}
	limit, offset := pageArgs(f.Limit, f.Offset)
	query := `
		SELECT ` + customerColumns + `, count(*) OVER ()
		FROM customers
		WHERE shop_id = $1 AND ($2 = '' OR name ILIKE $2 OR phone ILIKE $2)
		ORDER BY lower(name), id
		LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, shopID, search, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()
	var (
		list  []*entity.Customer
		total int
	)
	for rows.Next() {
		var c entity.Customer
		if err := rows.Scan(
			&c.ID, &c.ShopID, &c.Name, &c.Phone, &c.Email, &c.Address, &c.CustomerType, &c.BalanceType,
			&c.OpeningBalance, &c.CurrentBalance, &c.CreditLimit, &c.Notes, &c.CreatedAt, &c.UpdatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan customer: %w", err)
		}
		list = append(list, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	if len(list) == 0 && offset > 0 {
		if err := r.q.QueryRow(ctx, `SELECT count(*) FROM customers WHERE shop_id = $1 AND ($2 = '' OR name ILIKE $2 OR phone ILIKE $2)`,
			shopID, search).Scan(&total); err != nil {
			return nil, 0, fmt.Errorf("count customers: %w", err)
		}
	}
	return list, total, nil
}

// Update actualiza datos y saldos del cliente.
func (r *CustomerRepo) Update(ctx context.Context, c *entity.Customer) error {
	query := `
		UPDATE customers SET name = $3, phone = $4, email = $5, address = $6, customer_type = $7,
			balance_type = $8, opening_balance = $9, current_balance = $10, credit_limit = $11,
			notes = $12, updated_at = $13
		WHERE shop_id = $1 AND id = $2`
	tag, err := r.q.Exec(ctx, query,
		c.ShopID, c.ID, c.Name, c.Phone, c.Email, c.Address, c.CustomerType, c.BalanceType,
		c.OpeningBalance, c.CurrentBalance, c.CreditLimit, c.Notes, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AdjustBalance suma delta al saldo actual en una sola sentencia.
func (r *CustomerRepo) AdjustBalance(ctx context.Context, shopID, id string, delta decimal.Decimal) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE customers SET current_balance = current_balance + $3, updated_at = now() WHERE shop_id = $1 AND id = $2`,
		shopID, id, delta)
	if err != nil {
		return fmt.Errorf("adjust balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un cliente por ID.
func (r *CustomerRepo) Delete(ctx context.Context, shopID, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM customers WHERE shop_id = $1 AND id = $2`, shopID, id)
	if err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
