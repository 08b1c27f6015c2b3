package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/swarna-khata-api/internal/application/dto"
	"github.com/jhoicas/swarna-khata-api/internal/application/ports"
	"github.com/jhoicas/swarna-khata-api/internal/domain"
	"github.com/jhoicas/swarna-khata-api/internal/domain/entity"
	"github.com/jhoicas/swarna-khata-api/internal/domain/repository"
)

// Niveles de plan.
const (
	TierFree    = "free"
	TierBasic   = "basic"
	TierPremium = "premium"
)

type plan struct {
	tier   string
	months int
}

var plans = map[string]plan{
	entity.PlanBasicMonthly:   {TierBasic, 1},
	entity.PlanBasicYearly:    {TierBasic, 12},
	entity.PlanPremiumMonthly: {TierPremium, 1},
	entity.PlanPremiumYearly:  {TierPremium, 12},
}

var tierFeatures = map[string][]string{
	TierFree:    {},
	TierBasic:   {entity.FeatureReports, entity.FeaturePDFExport},
	TierPremium: {entity.FeatureReports, entity.FeaturePDFExport, entity.FeatureTallyExport, entity.FeatureMetalExchange},
}

// SubscriptionService registra compras de planes y decide qué funciones tiene activas una tienda.
// Es el único punto de la aplicación que conoce la relación plan → funciones.
type SubscriptionService struct {
	repo     repository.SubscriptionRepository
	notifier ports.Notifier
	now      func() time.Time
}

// NewSubscriptionService construye el servicio.
func NewSubscriptionService(repo repository.SubscriptionRepository, notifier ports.Notifier) *SubscriptionService {
	return &SubscriptionService{repo: repo, notifier: notifier, now: time.Now}
}

// RecordPurchase registra una compra de Play Billing tal como la reporta la app.
// Si hay un plan vigente, el nuevo periodo empieza cuando vence el actual.
func (s *SubscriptionService) RecordPurchase(ctx context.Context, shopID string, in dto.RecordPurchaseRequest) (*dto.SubscriptionResponse, error) {
	p, ok := plans[in.ProductID]
	if !ok || in.PurchaseToken == "" {
		return nil, domain.ErrInvalidInput
	}
	if existing, err := s.repo.GetByPurchaseToken(ctx, in.PurchaseToken); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := s.now()
	start := now
	if in.StartedAt != nil {
		start = *in.StartedAt
	}
	latest, err := s.repo.Latest(ctx, shopID)
	if err != nil {
		return nil, err
	}
	if latest != nil && latest.ExpiresAt.After(now) && latest.ExpiresAt.After(start) {
		start = latest.ExpiresAt
	}
	sub := &entity.Subscription{
		ID:            uuid.New().String(),
		ShopID:        shopID,
		ProductID:     in.ProductID,
		PurchaseToken: in.PurchaseToken,
		StartedAt:     start,
		ExpiresAt:     start.AddDate(0, p.months, 0),
		AutoRenew:     in.AutoRenew,
		CreatedAt:     now,
	}
	if err := s.repo.Create(ctx, sub); err != nil {
		return nil, err
	}
	return s.Current(ctx, shopID)
}

// Current plan vigente de la tienda (free si no hay). Una compra encadenada que todavía no
// empieza se informa en Next y no cambia el nivel ni las funciones.
func (s *SubscriptionService) Current(ctx context.Context, shopID string) (*dto.SubscriptionResponse, error) {
	now := s.now()
	sub, err := s.repo.ActiveAt(ctx, shopID, now)
	if err != nil {
		return nil, err
	}
	tier := tierOf(sub)
	out := &dto.SubscriptionResponse{Tier: tier, Active: tier != TierFree, Features: tierFeatures[tier]}
	if sub != nil {
		out.ProductID = sub.ProductID
		out.StartedAt = &sub.StartedAt
		out.ExpiresAt = &sub.ExpiresAt
		out.AutoRenew = sub.AutoRenew
	}
	latest, err := s.repo.Latest(ctx, shopID)
	if err != nil {
		return nil, err
	}
	if latest != nil && now.Before(latest.StartedAt) {
		out.Next = &dto.UpcomingPlanResponse{
			ProductID: latest.ProductID,
			Tier:      plans[latest.ProductID].tier,
			StartsAt:  latest.StartedAt,
			ExpiresAt: latest.ExpiresAt,
		}
	}
	return out, nil
}

// tierOf nivel de la suscripción vigente; nil es free.
func tierOf(sub *entity.Subscription) string {
	if sub == nil {
		return TierFree
	}
	return plans[sub.ProductID].tier
}

// HasFeature informa si la tienda tiene la función habilitada por su plan.
// Devuelve error solo ante fallos de infraestructura.
func (s *SubscriptionService) HasFeature(ctx context.Context, shopID, feature string) (bool, error) {
	if shopID == "" || feature == "" {
		return false, fmt.Errorf("subscription: shopID y feature son obligatorios")
	}
	sub, err := s.repo.ActiveAt(ctx, shopID, s.now())
	if err != nil {
		return false, err
	}
	for _, f := range tierFeatures[tierOf(sub)] {
		if f == feature {
			return true, nil
		}
	}
	return false, nil
}

// NotifyExpiring avisa a las tiendas cuyo plan vence dentro de la ventana y no tienen renovación.
func (s *SubscriptionService) NotifyExpiring(ctx context.Context, within time.Duration) (int, error) {
	now := s.now()
	subs, err := s.repo.ListExpiringBetween(ctx, now, now.Add(within))
	if err != nil {
		return 0, err
	}
	sent := 0
	for _, sub := range subs {
		if sub.AutoRenew {
			continue
		}
		latest, err := s.repo.Latest(ctx, sub.ShopID)
		if err != nil {
			return sent, err
		}
		if latest != nil && latest.ExpiresAt.After(sub.ExpiresAt) {
			continue
		}
		days := int(sub.ExpiresAt.Sub(now).Hours()/24) + 1
		s.notifier.Notify(ctx, &entity.Notification{
			ShopID:  sub.ShopID,
			Type:    entity.NotificationSubscriptionExpiring,
			Title:   "Tu plan está por vencer",
			Message: fmt.Sprintf("El plan %s vence en %d día(s)", sub.ProductID, days),
		})
		sent++
	}
	return sent, nil
}
