package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/swarna-khata-api/internal/domain"
	"github.com/jhoicas/swarna-khata-api/internal/domain/entity"
	"github.com/jhoicas/swarna-khata-api/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo catálogo de joyas sobre PostgreSQL (usable con pool o tx).
// Los cargos extra se guardan como JSONB.
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

const itemColumns = `id, shop_id, display_name, jewelry_code, item_type, category, gross_weight, net_weight,
	wastage, purity, making_charges, making_charges_type, metal_rate, metal_rate_on, tax_rate, stock,
	location, extra_charges, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner, extra ...any) (*entity.JewelleryItem, error) {
	var (
		it      entity.JewelleryItem
		charges []byte
	)
	dest := []any{
		&it.ID, &it.ShopID, &it.DisplayName, &it.JewelryCode, &it.ItemType, &it.Category, &it.GrossWeight, &it.NetWeight,
		&it.Wastage, &it.Purity, &it.MakingCharges, &it.MakingChargesType, &it.MetalRate, &it.MetalRateOn, &it.TaxRate, &it.Stock,
		&it.Location, &charges, &it.CreatedAt, &it.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(charges, &it.ListOfExtraCharges); err != nil {
		return nil, fmt.Errorf("decode extra_charges: %w", err)
	}
	return &it, nil
}

func chargesJSON(c []entity.ExtraCharge) ([]byte, error) {
	if c == nil {
		c = []entity.ExtraCharge{}
	}
	return json.Marshal(c)
}

// Create persiste un artículo. El código es único dentro de la tienda.
func (r *ItemRepo) Create(ctx context.Context, it *entity.JewelleryItem) error {
	charges, err := chargesJSON(it.ListOfExtraCharges)
	if err != nil {
		return err
	}
	query := `INSERT INTO jewellery_items (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`
	_, err = r.q.Exec(ctx, query,
		it.ID, it.ShopID, it.DisplayName, it.JewelryCode, it.ItemType, it.Category, it.GrossWeight, it.NetWeight,
		it.Wastage, it.Purity, it.MakingCharges, it.MakingChargesType, it.MetalRate, it.MetalRateOn, it.TaxRate, it.Stock,
		it.Location, charges, it.CreatedAt, it.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

// GetByID obtiene un artículo de la tienda.
func (r *ItemRepo) GetByID(ctx context.Context, shopID, id string) (*entity.JewelleryItem, error) {
	it, err := scanItem(r.q.QueryRow(ctx, `SELECT `+itemColumns+` FROM jewellery_items WHERE shop_id = $1 AND id = $2`, shopID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return it, nil
}

// List lista el catálogo por nombre con filtros y el total.
func (r *ItemRepo) List(ctx context.Context, shopID string, f repository.ItemFilter) ([]*entity.JewelleryItem, int, error) {
	search := ""
	if f.Search != "" {
		search = ilike(f.Search)
	}
	limit, offset := pageArgs(f.Limit, f.Offset)
	where := `shop_id = $1 AND ($2 = '' OR display_name ILIKE $2 OR jewelry_code ILIKE $2)
		AND ($3 = '' OR lower(item_type) = lower($3)) AND ($4 = '' OR lower(category) = lower($4))`
	rows, err := r.q.Query(ctx,
		`SELECT `+itemColumns+`, count(*) OVER () FROM jewellery_items WHERE `+where+`
		ORDER BY display_name, id LIMIT $5 OFFSET $6`,
		shopID, search, f.ItemType, f.Category, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()
	var (
		list  []*entity.JewelleryItem
		total int
	)
	for rows.Next() {
		it, err := scanItem(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan item: %w", err)
		}
		list = append(list, it)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	if len(list) == 0 && offset > 0 {
		if err := r.q.QueryRow(ctx, `SELECT count(*) FROM jewellery_items WHERE `+where,
			shopID, search, f.ItemType, f.Category).Scan(&total); err != nil {
			return nil, 0, fmt.Errorf("count items: %w", err)
		}
	}
	return list, total, nil
}

// Update reemplaza los datos comerciales; el stock solo cambia por AdjustStock.
func (r *ItemRepo) Update(ctx context.Context, it *entity.JewelleryItem) error {
	charges, err := chargesJSON(it.ListOfExtraCharges)
	if err != nil {
		return err
	}
	query := `
		UPDATE jewellery_items SET display_name = $3, jewelry_code = $4, item_type = $5, category = $6,
			gross_weight = $7, net_weight = $8, wastage = $9, purity = $10, making_charges = $11,
			making_charges_type = $12, metal_rate = $13, metal_rate_on = $14, tax_rate = $15,
			location = $16, extra_charges = $17, updated_at = $18
		WHERE shop_id = $1 AND id = $2`
	tag, err := r.q.Exec(ctx, query,
		it.ShopID, it.ID, it.DisplayName, it.JewelryCode, it.ItemType, it.Category,
		it.GrossWeight, it.NetWeight, it.Wastage, it.Purity, it.MakingCharges,
		it.MakingChargesType, it.MetalRate, it.MetalRateOn, it.TaxRate,
		it.Location, charges, it.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AdjustStock suma delta en una sola sentencia; el CHECK stock >= 0 de la tabla rechaza el sobregiro.
func (r *ItemRepo) AdjustStock(ctx context.Context, shopID, id string, delta decimal.Decimal) (decimal.Decimal, error) {
	var stock decimal.Decimal
	err := r.q.QueryRow(ctx,
		`UPDATE jewellery_items SET stock = stock + $3, updated_at = now()
		WHERE shop_id = $1 AND id = $2 RETURNING stock`,
		shopID, id, delta,
	).Scan(&stock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, domain.ErrNotFound
		}
		if isCheckViolation(err) {
			return decimal.Zero, domain.ErrInsufficientStock
		}
		return decimal.Zero, fmt.Errorf("adjust stock: %w", err)
	}
	return stock, nil
}

// Delete elimina un artículo del catálogo.
func (r *ItemRepo) Delete(ctx context.Context, shopID, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM jewellery_items WHERE shop_id = $1 AND id = $2`, shopID, id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
