package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/swarna-khata-api/internal/domain"
	"github.com/jhoicas/swarna-khata-api/internal/domain/entity"
	"github.com/jhoicas/swarna-khata-api/internal/domain/repository"
)

var (
	_ repository.NotificationRepository = (*NotificationRepo)(nil)
	_ repository.DeviceTokenRepository  = (*DeviceTokenRepo)(nil)
	_ repository.RecycleBinRepository   = (*RecycleBinRepo)(nil)
	_ repository.SubscriptionRepository = (*SubscriptionRepo)(nil)
)

// NotificationRepo avisos en memoria (orden de inserción).
type NotificationRepo struct{ base }

func (r *NotificationRepo) Create(_ context.Context, n *entity.Notification) error {
	return r.do(func(d *data) error {
		d.notifications = append(d.notifications, *n)
		return nil
	})
}

func (r *NotificationRepo) List(_ context.Context, shopID string, unreadOnly bool, limit, offset int) ([]*entity.Notification, error) {
	var list []*entity.Notification
	err := r.do(func(d *data) error {
		for i := len(d.notifications) - 1; i >= 0; i-- {
			n := d.notifications[i]
			if n.ShopID != shopID || (unreadOnly && n.Read) {
				continue
			}
			list = append(list, &n)
		}
		return nil
	})
	start, end := page(len(list), limit, offset)
	return list[start:end], err
}

func (r *NotificationRepo) MarkRead(_ context.Context, shopID, id string) error {
	return r.do(func(d *data) error {
		for i := range d.notifications {
			if d.notifications[i].ID == id && d.notifications[i].ShopID == shopID {
				d.notifications[i].Read = true
				return nil
			}
		}
		return domain.ErrNotFound
	})
}

func (r *NotificationRepo) MarkAllRead(_ context.Context, shopID string) (int, error) {
	n := 0
	err := r.do(func(d *data) error {
		for i := range d.notifications {
			if d.notifications[i].ShopID == shopID && !d.notifications[i].Read {
				d.notifications[i].Read = true
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *NotificationRepo) CountUnread(_ context.Context, shopID string) (int, error) {
	n := 0
	err := r.do(func(d *data) error {
		for _, x := range d.notifications {
			if x.ShopID == shopID && !x.Read {
				n++
			}
		}
		return nil
	})
	return n, err
}

// DeviceTokenRepo tokens FCM en memoria.
type DeviceTokenRepo struct{ base }

func (r *DeviceTokenRepo) Save(_ context.Context, t *entity.DeviceToken) error {
	return r.do(func(d *data) error {
		d.tokens[t.Token] = *t
		return nil
	})
}

func (r *DeviceTokenRepo) ListByShop(_ context.Context, shopID string) ([]*entity.DeviceToken, error) {
	var list []*entity.DeviceToken
	err := r.do(func(d *data) error {
		for _, t := range d.tokens {
			if t.ShopID == shopID {
				list = append(list, &t)
			}
		}
		return nil
	})
	sort.Slice(list, func(i, j int) bool { return list[i].Token < list[j].Token })
	return list, err
}

func (r *DeviceTokenRepo) Delete(_ context.Context, token string) error {
	return r.do(func(d *data) error {
		delete(d.tokens, token)
		return nil
	})
}

// RecycleBinRepo papelera en memoria.
type RecycleBinRepo struct{ base }

func (r *RecycleBinRepo) Create(_ context.Context, e *entity.RecycledEntry) error {
	return r.do(func(d *data) error {
		d.recycle[e.ID] = cloneEntry(*e)
		return nil
	})
}

func (r *RecycleBinRepo) GetByID(_ context.Context, shopID, id string) (*entity.RecycledEntry, error) {
	var out *entity.RecycledEntry
	err := r.do(func(d *data) error {
		if e, ok := d.recycle[id]; ok && e.ShopID == shopID {
			e = cloneEntry(e)
			out = &e
		}
		return nil
	})
	return out, err
}

func (r *RecycleBinRepo) List(_ context.Context, shopID, itemType string) ([]*entity.RecycledEntry, error) {
	var list []*entity.RecycledEntry
	err := r.do(func(d *data) error {
		for _, e := range d.recycle {
			if e.ShopID != shopID || (itemType != "" && e.ItemType != itemType) {
				continue
			}
			e = cloneEntry(e)
			list = append(list, &e)
		}
		return nil
	})
	sort.Slice(list, func(i, j int) bool { return list[i].DeletedAt.After(list[j].DeletedAt) })
	return list, err
}

func (r *RecycleBinRepo) Delete(_ context.Context, shopID, id string) error {
	return r.do(func(d *data) error {
		e, ok := d.recycle[id]
		if !ok || e.ShopID != shopID {
			return domain.ErrNotFound
		}
		delete(d.recycle, id)
		return nil
	})
}

func (r *RecycleBinRepo) DeleteExpired(_ context.Context, before time.Time) (int, error) {
	n := 0
	err := r.do(func(d *data) error {
		for id, e := range d.recycle {
			if !e.ExpiresAt.After(before) {
				delete(d.recycle, id)
				n++
			}
		}
		return nil
	})
	return n, err
}

// SubscriptionRepo compras de planes en memoria.
type SubscriptionRepo struct{ base }

func (r *SubscriptionRepo) Create(_ context.Context, s *entity.Subscription) error {
	return r.do(func(d *data) error {
		for _, other := range d.subscriptions {
			if s.PurchaseToken != "" && other.PurchaseToken == s.PurchaseToken {
				return domain.ErrDuplicate
			}
		}
		d.subscriptions = append(d.subscriptions, *s)
		return nil
	})
}

func (r *SubscriptionRepo) Latest(_ context.Context, shopID string) (*entity.Subscription, error) {
	var out *entity.Subscription
	err := r.do(func(d *data) error {
		for _, s := range d.subscriptions {
			if s.ShopID != shopID {
				continue
			}
			if out == nil || s.ExpiresAt.After(out.ExpiresAt) {
				s := s
				out = &s
			}
		}
		return nil
	})
	return out, err
}

func (r *SubscriptionRepo) ActiveAt(_ context.Context, shopID string, at time.Time) (*entity.Subscription, error) {
	var out *entity.Subscription
	err := r.do(func(d *data) error {
		for _, s := range d.subscriptions {
			if s.ShopID != shopID || !s.Active(at) {
				continue
			}
			if out == nil || s.StartedAt.After(out.StartedAt) {
				s := s
				out = &s
			}
		}
		return nil
	})
	return out, err
}

func (r *SubscriptionRepo) GetByPurchaseToken(_ context.Context, token string) (*entity.Subscription, error) {
	var out *entity.Subscription
	err := r.do(func(d *data) error {
		for _, s := range d.subscriptions {
			if s.PurchaseToken == token {
				out = &s
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *SubscriptionRepo) ListExpiringBetween(_ context.Context, from, to time.Time) ([]*entity.Subscription, error) {
	var list []*entity.Subscription
	err := r.do(func(d *data) error {
		for _, s := range d.subscriptions {
			if !s.ExpiresAt.Before(from) && s.ExpiresAt.Before(to) {
				list = append(list, &s)
			}
		}
		return nil
	})
	return list, err
}
