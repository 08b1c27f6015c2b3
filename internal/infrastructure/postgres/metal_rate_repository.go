package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/swarna-khata-api/internal/domain/entity"
	"github.com/jhoicas/swarna-khata-api/internal/domain/repository"
)

var _ repository.MetalRateRepository = (*MetalRateRepo)(nil)

// MetalRateRepo tarifas por (tienda, metal, pureza).
type MetalRateRepo struct {
	q Querier
}

// NewMetalRateRepository construye el adaptador.
func NewMetalRateRepository(q Querier) *MetalRateRepo {
	return &MetalRateRepo{q: q}
}

// Upsert fija la tarifa vigente.
func (r *MetalRateRepo) Upsert(ctx context.Context, rate *entity.MetalRate) error {
	query := `
		INSERT INTO metal_rates (shop_id, metal, purity, rate_per_gram, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (shop_id, metal, purity)
		DO UPDATE SET rate_per_gram = EXCLUDED.rate_per_gram, updated_at = EXCLUDED.updated_at`
	if _, err := r.q.Exec(ctx, query, rate.ShopID, rate.Metal, rate.Purity, rate.RatePerGram, rate.UpdatedAt); err != nil {
		return fmt.Errorf("upsert metal rate: %w", err)
	}
	return nil
}

// Get nil, nil si no hay tarifa para esa pureza.
func (r *MetalRateRepo) Get(ctx context.Context, shopID, metal, purity string) (*entity.MetalRate, error) {
	var m entity.MetalRate
	err := r.q.QueryRow(ctx, `
		SELECT shop_id, metal, purity, rate_per_gram, updated_at
		FROM metal_rates WHERE shop_id = $1 AND metal = $2 AND purity = $3`,
		shopID, metal, purity,
	).Scan(&m.ShopID, &m.Metal, &m.Purity, &m.RatePerGram, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get metal rate: %w", err)
	}
	return &m, nil
}

// List todas las tarifas de la tienda.
func (r *MetalRateRepo) List(ctx context.Context, shopID string) ([]*entity.MetalRate, error) {
	rows, err := r.q.Query(ctx, `
		SELECT shop_id, metal, purity, rate_per_gram, updated_at
		FROM metal_rates WHERE shop_id = $1 ORDER BY metal, purity`, shopID)
	if err != nil {
		return nil, fmt.Errorf("list metal rates: %w", err)
	}
	defer rows.Close()
	var list []*entity.MetalRate
	for rows.Next() {
		var m entity.MetalRate
		if err := rows.Scan(&m.ShopID, &m.Metal, &m.Purity, &m.RatePerGram, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan metal rate: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
