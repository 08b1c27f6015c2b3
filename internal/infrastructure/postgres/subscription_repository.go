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

var _ repository.SubscriptionRepository = (*SubscriptionRepo)(nil)

// SubscriptionRepo compras de planes de Play Billing.
type SubscriptionRepo struct {
	q Querier
}

// NewSubscriptionRepository construye el adaptador.
func NewSubscriptionRepository(q Querier) *SubscriptionRepo {
	return &SubscriptionRepo{q: q}
}

const subscriptionColumns = `id, shop_id, product_id, purchase_token, started_at, expires_at, auto_renew, created_at`

func scanSubscription(row rowScanner) (*entity.Subscription, error) {
	var s entity.Subscription
	if err := row.Scan(&s.ID, &s.ShopID, &s.ProductID, &s.PurchaseToken, &s.StartedAt, &s.ExpiresAt, &s.AutoRenew, &s.CreatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

// Create registra la compra; un purchase token repetido es ErrDuplicate.
func (r *SubscriptionRepo) Create(ctx context.Context, s *entity.Subscription) error {
	_, err := r.q.Exec(ctx, `INSERT INTO subscriptions (`+subscriptionColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		s.ID, s.ShopID, s.ProductID, s.PurchaseToken, s.StartedAt, s.ExpiresAt, s.AutoRenew, s.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert subscription: %w", err)
	}
	return nil
}

func (r *SubscriptionRepo) one(ctx context.Context, query string, args ...any) (*entity.Subscription, error) {
	s, err := scanSubscription(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get subscription: %w", err)
	}
	return s, nil
}

func (r *SubscriptionRepo) Latest(ctx context.Context, shopID string) (*entity.Subscription, error) {
	return r.one(ctx, `SELECT `+subscriptionColumns+` FROM subscriptions WHERE shop_id = $1 ORDER BY expires_at DESC LIMIT 1`, shopID)
}

func (r *SubscriptionRepo) ActiveAt(ctx context.Context, shopID string, at time.Time) (*entity.Subscription, error) {
	return r.one(ctx, `SELECT `+subscriptionColumns+` FROM subscriptions
		WHERE shop_id = $1 AND started_at <= $2 AND expires_at > $2
		ORDER BY started_at DESC LIMIT 1`, shopID, at)
}

func (r *SubscriptionRepo) GetByPurchaseToken(ctx context.Context, token string) (*entity.Subscription, error) {
	return r.one(ctx, `SELECT `+subscriptionColumns+` FROM subscriptions WHERE purchase_token = $1`, token)
}

func (r *SubscriptionRepo) ListExpiringBetween(ctx context.Context, from, to time.Time) ([]*entity.Subscription, error) {
	rows, err := r.q.Query(ctx, `SELECT `+subscriptionColumns+` FROM subscriptions
		WHERE expires_at >= $1 AND expires_at < $2 ORDER BY expires_at`, from, to)
	if err != nil {
		return nil, fmt.Errorf("list expiring subscriptions: %w", err)
	}
	defer rows.Close()
	var list []*entity.Subscription
	for rows.Next() {
		s, err := scanSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("scan subscription: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}
