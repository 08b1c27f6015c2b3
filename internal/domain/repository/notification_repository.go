package repository

import (
	"context"

	"github.com/jhoicas/swarna-khata-api/internal/domain/entity"
)

// NotificationRepository avisos persistidos por tienda.
type NotificationRepository interface {
	Create(ctx context.Context, n *entity.Notification) error
	List(ctx context.Context, shopID string, unreadOnly bool, limit, offset int) ([]*entity.Notification, error)
	MarkRead(ctx context.Context, shopID, id string) error
	MarkAllRead(ctx context.Context, shopID string) (int, error)
	CountUnread(ctx context.Context, shopID string) (int, error)
}

// DeviceTokenRepository tokens FCM registrados.
type DeviceTokenRepository interface {
	Save(ctx context.Context, token *entity.DeviceToken) error
	ListByShop(ctx context.Context, shopID string) ([]*entity.DeviceToken, error)
	Delete(ctx context.Context, token string) error
}
