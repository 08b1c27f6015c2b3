package repository

import (
	"context"
	"time"

	"github.com/jhoicas/swarna-khata-api/internal/domain/entity"
)

// SubscriptionRepository compras de planes.
type SubscriptionRepository interface {
	Create(ctx context.Context, sub *entity.Subscription) error
	// Latest devuelve la suscripción con mayor ExpiresAt de la tienda, o nil.
	Latest(ctx context.Context, shopID string) (*entity.Subscription, error)
	// ActiveAt devuelve la suscripción que cubre el instante at (StartedAt <= at < ExpiresAt), o nil.
	// Si hay varias, la de inicio más reciente.
	ActiveAt(ctx context.Context, shopID string, at time.Time) (*entity.Subscription, error)
	GetByPurchaseToken(ctx context.Context, token string) (*entity.Subscription, error)
	// ListExpiringBetween suscripciones que vencen en [from, to).
	ListExpiringBetween(ctx context.Context, from, to time.Time) ([]*entity.Subscription, error)
}
