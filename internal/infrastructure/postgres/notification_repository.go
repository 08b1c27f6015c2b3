package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/swarna-khata-api/internal/domain"
	"github.com/jhoicas/swarna-khata-api/internal/domain/entity"
	"github.com/jhoicas/swarna-khata-api/internal/domain/repository"
)

var (
	_ repository.NotificationRepository = (*NotificationRepo)(nil)
	_ repository.DeviceTokenRepository  = (*DeviceTokenRepo)(nil)
)

// NotificationRepo avisos persistidos por tienda.
type NotificationRepo struct {
	q Querier
}

// NewNotificationRepository construye el adaptador.
func NewNotificationRepository(q Querier) *NotificationRepo {
	return &NotificationRepo{q: q}
}

func (r *NotificationRepo) Create(ctx context.Context, n *entity.Notification) error {
	query := `
		INSERT INTO notifications (id, shop_id, type, title, message, invoice_id, customer_id, item_id, amount, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		n.ID, n.ShopID, n.Type, n.Title, n.Message, n.InvoiceID, n.CustomerID, n.ItemID, n.Amount, n.Read, n.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

// List más recientes primero; limit 0 = todas.
func (r *NotificationRepo) List(ctx context.Context, shopID string, unreadOnly bool, limit, offset int) ([]*entity.Notification, error) {
	lim, off := pageArgs(limit, offset)
	rows, err := r.q.Query(ctx, `
		SELECT id, shop_id, type, title, message, invoice_id, customer_id, item_id, amount, read, created_at
		FROM notifications
		WHERE shop_id = $1 AND (NOT $2::boolean OR NOT read)
		ORDER BY created_at DESC, id DESC
		LIMIT $3 OFFSET $4`, shopID, unreadOnly, lim, off)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()
	var list []*entity.Notification
	for rows.Next() {
		var n entity.Notification
		if err := rows.Scan(&n.ID, &n.ShopID, &n.Type, &n.Title, &n.Message, &n.InvoiceID, &n.CustomerID, &n.ItemID,
			&n.Amount, &n.Read, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		list = append(list, &n)
	}
	return list, rows.Err()
}

func (r *NotificationRepo) MarkRead(ctx context.Context, shopID, id string) error {
	tag, err := r.q.Exec(ctx, `UPDATE notifications SET read = TRUE WHERE shop_id = $1 AND id = $2`, shopID, id)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *NotificationRepo) MarkAllRead(ctx context.Context, shopID string) (int, error) {
	tag, err := r.q.Exec(ctx, `UPDATE notifications SET read = TRUE WHERE shop_id = $1 AND NOT read`, shopID)
	if err != nil {
		return 0, fmt.Errorf("mark all read: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func (r *NotificationRepo) CountUnread(ctx context.Context, shopID string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM notifications WHERE shop_id = $1 AND NOT read`, shopID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count unread: %w", err)
	}
	return n, nil
}

// DeviceTokenRepo tokens FCM por tienda.
type DeviceTokenRepo struct {
	q Querier
}

// NewDeviceTokenRepository construye el adaptador.
func NewDeviceTokenRepository(q Querier) *DeviceTokenRepo {
	return &DeviceTokenRepo{q: q}
}

// Save registra el token; si ya existía pasa a la tienda y usuario actuales.
func (r *DeviceTokenRepo) Save(ctx context.Context, t *entity.DeviceToken) error {
	query := `
		INSERT INTO device_tokens (token, shop_id, user_id, platform, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (token) DO UPDATE SET shop_id = EXCLUDED.shop_id, user_id = EXCLUDED.user_id,
			platform = EXCLUDED.platform`
	if _, err := r.q.Exec(ctx, query, t.Token, t.ShopID, t.UserID, t.Platform, t.CreatedAt); err != nil {
		return fmt.Errorf("upsert device token: %w", err)
	}
	return nil
}

func (r *DeviceTokenRepo) ListByShop(ctx context.Context, shopID string) ([]*entity.DeviceToken, error) {
	rows, err := r.q.Query(ctx, `
		SELECT token, shop_id, user_id, platform, created_at FROM device_tokens WHERE shop_id = $1`, shopID)
	if err != nil {
		return nil, fmt.Errorf("list device tokens: %w", err)
	}
	defer rows.Close()
	var list []*entity.DeviceToken
	for rows.Next() {
		var t entity.DeviceToken
		if err := rows.Scan(&t.Token, &t.ShopID, &t.UserID, &t.Platform, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan device token: %w", err)
		}
		list = append(list, &t)
	}
	return list, rows.Err()
}

func (r *DeviceTokenRepo) Delete(ctx context.Context, token string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM device_tokens WHERE token = $1`, token); err != nil {
		return fmt.Errorf("delete device token: %w", err)
	}
	return nil
}
