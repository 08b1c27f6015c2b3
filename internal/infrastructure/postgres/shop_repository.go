package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/swarna-khata-api/internal/domain"
	"github.com/jhoicas/swarna-khata-api/internal/domain/entity"
	"github.com/jhoicas/swarna-khata-api/internal/domain/repository"
)

var _ repository.ShopRepository = (*ShopRepo)(nil)

// ShopRepo tiendas y su configuración de PDF.
type ShopRepo struct {
	q Querier
}

// NewShopRepository construye el adaptador. Pasar pool o tx (Querier).
func NewShopRepository(q Querier) *ShopRepo {
	return &ShopRepo{q: q}
}

const shopColumns = `id, owner_user_id, name, owner_name, phone, email, address, gstin, business_type,
	low_stock_threshold, created_at, updated_at`

// Create persiste una nueva tienda.
func (r *ShopRepo) Create(ctx context.Context, s *entity.Shop) error {
	query := `INSERT INTO shops (` + shopColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.OwnerUserID, s.Name, s.OwnerName, s.Phone, s.Email, s.Address, s.GSTIN, s.BusinessType,
		s.LowStockThreshold, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert shop: %w", err)
	}
	return nil
}

// GetByID obtiene una tienda; nil, nil si no existe.
func (r *ShopRepo) GetByID(ctx context.Context, id string) (*entity.Shop, error) {
	var s entity.Shop
	err := r.q.QueryRow(ctx, `SELECT `+shopColumns+` FROM shops WHERE id = $1`, id).Scan(
		&s.ID, &s.OwnerUserID, &s.Name, &s.OwnerName, &s.Phone, &s.Email, &s.Address, &s.GSTIN, &s.BusinessType,
		&s.LowStockThreshold, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get shop: %w", err)
	}
	return &s, nil
}

// Update actualiza el perfil de la tienda.
func (r *ShopRepo) Update(ctx context.Context, s *entity.Shop) error {
	query := `
		UPDATE shops SET name = $2, owner_name = $3, phone = $4, email = $5, address = $6, gstin = $7,
			business_type = $8, low_stock_threshold = $9, updated_at = $10
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		s.ID, s.Name, s.OwnerName, s.Phone, s.Email, s.Address, s.GSTIN, s.BusinessType, s.LowStockThreshold, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update shop: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetPDFSettings nil, nil si la tienda no guardó configuración.
func (r *ShopRepo) GetPDFSettings(ctx context.Context, shopID string) (*entity.PDFSettings, error) {
	query := `
		SELECT shop_id, show_item_weights, show_extra_charges, show_tax_breakdown, show_payment_history,
			terms_and_conditions, footer_note, accent_color, updated_at
		FROM pdf_settings WHERE shop_id = $1`
	var p entity.PDFSettings
	err := r.q.QueryRow(ctx, query, shopID).Scan(
		&p.ShopID, &p.ShowItemWeights, &p.ShowExtraCharges, &p.ShowTaxBreakdown, &p.ShowPaymentHistory,
		&p.TermsAndConditions, &p.FooterNote, &p.AccentColor, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get pdf settings: %w", err)
	}
	return &p, nil
}

// SavePDFSettings inserta o reemplaza la configuración.
func (r *ShopRepo) SavePDFSettings(ctx context.Context, p *entity.PDFSettings) error {
	query := `
		INSERT INTO pdf_settings (shop_id, show_item_weights, show_extra_charges, show_tax_breakdown,
			show_payment_history, terms_and_conditions, footer_note, accent_color, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (shop_id) DO UPDATE SET
			show_item_weights = EXCLUDED.show_item_weights,
			show_extra_charges = EXCLUDED.show_extra_charges,
			show_tax_breakdown = EXCLUDED.show_tax_breakdown,
			show_payment_history = EXCLUDED.show_payment_history,
			terms_and_conditions = EXCLUDED.terms_and_conditions,
			footer_note = EXCLUDED.footer_note,
			accent_color = EXCLUDED.accent_color,
			updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(ctx, query,
		p.ShopID, p.ShowItemWeights, p.ShowExtraCharges, p.ShowTaxBreakdown, p.ShowPaymentHistory,
		p.TermsAndConditions, p.FooterNote, p.AccentColor, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert pdf settings: %w", err)
	}
	return nil
}
