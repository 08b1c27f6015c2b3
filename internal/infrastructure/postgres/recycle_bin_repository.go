package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/swarna-khata-api/internal/domain"
	"github.com/jhoicas/swarna-khata-api/internal/domain/entity"
	"github.com/jhoicas/swarna-khata-api/internal/domain/repository"
)

var _ repository.RecycleBinRepository = (*RecycleBinRepo)(nil)

// RecycleBinRepo lápidas con el registro completo en JSONB.
type RecycleBinRepo struct {
	q Querier
}

// NewRecycleBinRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRecycleBinRepository(q Querier) *RecycleBinRepo {
	return &RecycleBinRepo{q: q}
}

const recycleColumns = `id, shop_id, item_type, item_id, item_name, payload, deleted_at, expires_at`

func scanEntry(row rowScanner) (*entity.RecycledEntry, error) {
	var (
		e       entity.RecycledEntry
		payload []byte
	)
	if err := row.Scan(&e.ID, &e.ShopID, &e.ItemType, &e.ItemID, &e.ItemName, &payload, &e.DeletedAt, &e.ExpiresAt); err != nil {
		return nil, err
	}
	e.Payload = payload
	return &e, nil
}

func (r *RecycleBinRepo) Create(ctx context.Context, e *entity.RecycledEntry) error {
	_, err := r.q.Exec(ctx, `INSERT INTO recycle_bin (`+recycleColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		e.ID, e.ShopID, e.ItemType, e.ItemID, e.ItemName, []byte(e.Payload), e.DeletedAt, e.ExpiresAt)
	if err != nil {
		return fmt.Errorf("insert recycled entry: %w", err)
	}
	return nil
}

func (r *RecycleBinRepo) GetByID(ctx context.Context, shopID, id string) (*entity.RecycledEntry, error) {
	e, err := scanEntry(r.q.QueryRow(ctx, `SELECT `+recycleColumns+` FROM recycle_bin WHERE shop_id = $1 AND id = $2`, shopID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get recycled entry: %w", err)
	}
	return e, nil
}

// List más recientes primero; itemType vacío = todos.
func (r *RecycleBinRepo) List(ctx context.Context, shopID, itemType string) ([]*entity.RecycledEntry, error) {
	rows, err := r.q.Query(ctx, `SELECT `+recycleColumns+` FROM recycle_bin
		WHERE shop_id = $1 AND ($2 = '' OR item_type = $2) ORDER BY deleted_at DESC`, shopID, itemType)
	if err != nil {
		return nil, fmt.Errorf("list recycle bin: %w", err)
	}
	defer rows.Close()
	var list []*entity.RecycledEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan recycled entry: %w", err)
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

func (r *RecycleBinRepo) Delete(ctx context.Context, shopID, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM recycle_bin WHERE shop_id = $1 AND id = $2`, shopID, id)
	if err != nil {
		return fmt.Errorf("delete recycled entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *RecycleBinRepo) DeleteExpired(ctx context.Context, before time.Time) (int, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM recycle_bin WHERE expires_at <= $1`, before)
	if err != nil {
		return 0, fmt.Errorf("purge recycle bin: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
