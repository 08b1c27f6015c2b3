package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/swarna-khata-api/internal/application/dto"
	"github.com/jhoicas/swarna-khata-api/internal/domain"
	"github.com/jhoicas/swarna-khata-api/internal/domain/entity"
	"github.com/jhoicas/swarna-khata-api/internal/infrastructure/cache"
	"github.com/jhoicas/swarna-khata-api/internal/infrastructure/memory"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// ── Tienda ───────────────────────────────────────────────────────────────────

func TestShopCreate_DejaAlUsuarioComoAdmin(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	require.NoError(t, store.Users().Create(ctx, &entity.User{ID: "u1", Phone: "+919800000001", Role: entity.RoleStaff, Status: "active"}))
	uc := NewShopUseCase(store.Shops(), store.Users())

	shop, err := uc.Create(ctx, "u1", dto.ShopRequest{Name: "Lakshmi Jewellers", BusinessType: entity.BusinessWholesaler})
	require.NoError(t, err)
	assert.Equal(t, 1, shop.LowStockThreshold)
	assert.Equal(t, entity.BusinessWholesaler, shop.BusinessType)

	user, err := store.Users().GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, shop.ID, user.ShopID)
	assert.Equal(t, entity.RoleAdmin, user.Role)

	_, err = uc.Create(ctx, "u1", dto.ShopRequest{Name: "Segunda"})
	assert.ErrorIs(t, err, domain.ErrConflict)
	_, err = uc.Create(ctx, "nadie", dto.ShopRequest{Name: "X"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	_, err = uc.Create(ctx, "u1", dto.ShopRequest{Name: "X", BusinessType: "distributor"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPDFSettings_DefectoYValidacionDeColor(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	uc := NewShopUseCase(store.Shops(), store.Users())
	require.NoError(t, store.Shops().Create(ctx, &entity.Shop{ID: "shop-1", Name: "Lakshmi"}))

	s, err := uc.GetPDFSettings(ctx, "shop-1")
	require.NoError(t, err)
	assert.True(t, s.ShowItemWeights)
	assert.Equal(t, "#8A6D1D", s.AccentColor)

	_, err = uc.UpdatePDFSettings(ctx, "shop-1", dto.PDFSettingsDTO{AccentColor: "rojo"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	out, err := uc.UpdatePDFSettings(ctx, "shop-1", dto.PDFSettingsDTO{AccentColor: "#112233", FooterNote: "Visítenos"})
	require.NoError(t, err)
	assert.Equal(t, "#112233", out.AccentColor)
	assert.False(t, out.ShowItemWeights)

	s, err = uc.GetPDFSettings(ctx, "shop-1")
	require.NoError(t, err)
	assert.Equal(t, "Visítenos", s.FooterNote)
}

// ── Tarifas ──────────────────────────────────────────────────────────────────

type countingCache struct {
	cache.NoopRateCache
	mu          sync.Mutex
	stored      map[string][]*entity.MetalRate
	invalidated int
	failGet     bool
}

func (c *countingCache) GetRates(_ context.Context, shopID string) ([]*entity.MetalRate, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failGet {
		return nil, false, errors.New("redis caído")
	}
	r, ok := c.stored[shopID]
	return r, ok, nil
}

func (c *countingCache) SetRates(_ context.Context, shopID string, rates []*entity.MetalRate) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stored == nil {
		c.stored = map[string][]*entity.MetalRate{}
	}
	c.stored[shopID] = rates
	return nil
}

func (c *countingCache) Invalidate(_ context.Context, shopID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.stored, shopID)
	c.invalidated++
	return nil
}

func TestMetalRates_SetInvalidaYLookup(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	c := &countingCache{}
	uc := NewMetalRateUseCase(store.MetalRates(), c, zerolog.Nop())

	_, err := uc.Set(ctx, "shop-1", dto.MetalRateRequest{Metal: " GOLD ", Purity: "22k", RatePerGram: d("6000")})
	require.NoError(t, err)
	assert.Equal(t, 1, c.invalidated)

	r, err := uc.Lookup(ctx, "shop-1", entity.MetalGold, "")
	require.NoError(t, err)
	assert.True(t, d("6000").Equal(r.RatePerGram))
	assert.Len(t, c.stored["shop-1"], 1)

	_, err = uc.Set(ctx, "shop-1", dto.MetalRateRequest{Metal: "gold", Purity: "24K", RatePerGram: d("6500")})
	require.NoError(t, err)
	_, err = uc.Lookup(ctx, "shop-1", entity.MetalGold, "")
	assert.ErrorIs(t, err, domain.ErrNotFound, "dos purezas sin indicar cuál")
	r, err = uc.Lookup(ctx, "shop-1", entity.MetalGold, "24k")
	require.NoError(t, err)
	assert.True(t, d("6500").Equal(r.RatePerGram))

	_, err = uc.Set(ctx, "shop-1", dto.MetalRateRequest{Metal: "copper", Purity: "X", RatePerGram: d("1")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Set(ctx, "shop-1", dto.MetalRateRequest{Metal: "silver", Purity: "925", RatePerGram: d("0")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestMetalRates_CacheCaidaLeeDeLaBase(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	c := &countingCache{failGet: true}
	uc := NewMetalRateUseCase(store.MetalRates(), c, zerolog.Nop())
	_, err := uc.Set(ctx, "shop-1", dto.MetalRateRequest{Metal: "silver", Purity: "925", RatePerGram: d("80")})
	require.NoError(t, err)

	list, err := uc.List(ctx, "shop-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "925", list[0].Purity)
}

// ── Suscripciones ────────────────────────────────────────────────────────────

type notifierMock struct {
	mu  sync.Mutex
	got []*entity.Notification
}

func (m *notifierMock) Notify(_ context.Context, n *entity.Notification) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.got = append(m.got, n)
}

func newSubscriptions(now time.Time) (*SubscriptionService, *notifierMock) {
	store := memory.New()
	notes := &notifierMock{}
	s := NewSubscriptionService(store.Subscriptions(), notes)
	s.now = func() time.Time { return now }
	return s, notes
}

func TestSubscription_SinCompraEsFree(t *testing.T) {
	s, _ := newSubscriptions(time.Date(2025, 10, 15, 10, 0, 0, 0, time.UTC))
	ctx := context.Background()

	cur, err := s.Current(ctx, "shop-1")
	require.NoError(t, err)
	assert.Equal(t, TierFree, cur.Tier)
	assert.False(t, cur.Active)
	assert.Empty(t, cur.Features)

	ok, err := s.HasFeature(ctx, "shop-1", entity.FeatureReports)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSubscription_BasicYPremium(t *testing.T) {
	now := time.Date(2025, 10, 15, 10, 0, 0, 0, time.UTC)
	s, _ := newSubscriptions(now)
	ctx := context.Background()

	cur, err := s.RecordPurchase(ctx, "shop-1", dto.RecordPurchaseRequest{ProductID: entity.PlanBasicMonthly, PurchaseToken: "tok-1"})
	require.NoError(t, err)
	assert.Equal(t, TierBasic, cur.Tier)
	require.NotNil(t, cur.ExpiresAt)
	assert.Equal(t, now.AddDate(0, 1, 0), *cur.ExpiresAt)

	ok, err := s.HasFeature(ctx, "shop-1", entity.FeaturePDFExport)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = s.HasFeature(ctx, "shop-1", entity.FeatureTallyExport)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = s.RecordPurchase(ctx, "shop-1", dto.RecordPurchaseRequest{ProductID: entity.PlanPremiumYearly, PurchaseToken: "tok-1"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	_, err = s.RecordPurchase(ctx, "shop-1", dto.RecordPurchaseRequest{ProductID: "gold_lifetime", PurchaseToken: "tok-2"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// La compra nueva se encadena al vencimiento del plan vigente.
	cur, err = s.RecordPurchase(ctx, "shop-1", dto.RecordPurchaseRequest{ProductID: entity.PlanPremiumYearly, PurchaseToken: "tok-3"})
	require.NoError(t, err)
	require.NotNil(t, cur.Next)
	assert.Equal(t, entity.PlanPremiumYearly, cur.Next.ProductID)
	assert.Equal(t, TierPremium, cur.Next.Tier)
	assert.Equal(t, now.AddDate(0, 1, 0), cur.Next.StartsAt)
	assert.Equal(t, now.AddDate(0, 13, 0), cur.Next.ExpiresAt)

	// Durante el primer mes sigue en vigor el plan basic.
	assert.Equal(t, TierBasic, cur.Tier)
	assert.Equal(t, entity.PlanBasicMonthly, cur.ProductID)
	assert.Equal(t, now.AddDate(0, 1, 0), *cur.ExpiresAt)
	ok, err = s.HasFeature(ctx, "shop-1", entity.FeatureMetalExchange)
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = s.HasFeature(ctx, "shop-1", entity.FeatureTallyExport)
	require.NoError(t, err)
	assert.False(t, ok)

	// Al vencer el basic empieza el premium.
	s.now = func() time.Time { return now.AddDate(0, 1, 0) }
	cur, err = s.Current(ctx, "shop-1")
	require.NoError(t, err)
	assert.Equal(t, TierPremium, cur.Tier)
	assert.Nil(t, cur.Next)
	ok, err = s.HasFeature(ctx, "shop-1", entity.FeatureMetalExchange)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSubscription_RenovacionBasicNoQuitaPremiumVigente(t *testing.T) {
	now := time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC)
	s, _ := newSubscriptions(now)
	ctx := context.Background()

	_, err := s.RecordPurchase(ctx, "shop-1", dto.RecordPurchaseRequest{ProductID: entity.PlanPremiumMonthly, PurchaseToken: "tok-1"})
	require.NoError(t, err)
	cur, err := s.RecordPurchase(ctx, "shop-1", dto.RecordPurchaseRequest{ProductID: entity.PlanBasicYearly, PurchaseToken: "tok-2"})
	require.NoError(t, err)

	assert.Equal(t, TierPremium, cur.Tier)
	require.NotNil(t, cur.Next)
	assert.Equal(t, TierBasic, cur.Next.Tier)
	ok, err := s.HasFeature(ctx, "shop-1", entity.FeatureTallyExport)
	require.NoError(t, err)
	assert.True(t, ok)

	// Una tercera compra se encadena después de la renovación pendiente.
	cur, err = s.RecordPurchase(ctx, "shop-1", dto.RecordPurchaseRequest{ProductID: entity.PlanPremiumYearly, PurchaseToken: "tok-3"})
	require.NoError(t, err)
	require.NotNil(t, cur.Next)
	assert.Equal(t, now.AddDate(0, 13, 0), cur.Next.StartsAt)

	s.now = func() time.Time { return now.AddDate(0, 2, 0) }
	ok, err = s.HasFeature(ctx, "shop-1", entity.FeatureTallyExport)
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = s.HasFeature(ctx, "shop-1", entity.FeatureReports)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSubscription_Vencida(t *testing.T) {
	now := time.Date(2025, 10, 15, 10, 0, 0, 0, time.UTC)
	s, _ := newSubscriptions(now)
	ctx := context.Background()
	started := now.AddDate(0, -2, 0)
	_, err := s.RecordPurchase(ctx, "shop-1", dto.RecordPurchaseRequest{ProductID: entity.PlanPremiumMonthly, PurchaseToken: "tok-1", StartedAt: &started})
	require.NoError(t, err)

	ok, err := s.HasFeature(ctx, "shop-1", entity.FeatureMetalExchange)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNotifyExpiring_SoloSinRenovacion(t *testing.T) {
	now := time.Date(2025, 10, 15, 10, 0, 0, 0, time.UTC)
	s, notes := newSubscriptions(now)
	ctx := context.Background()
	started := now.AddDate(0, -1, 2)
	_, err := s.RecordPurchase(ctx, "shop-1", dto.RecordPurchaseRequest{ProductID: entity.PlanBasicMonthly, PurchaseToken: "a", StartedAt: &started})
	require.NoError(t, err)
	_, err = s.RecordPurchase(ctx, "shop-2", dto.RecordPurchaseRequest{ProductID: entity.PlanBasicMonthly, PurchaseToken: "b", StartedAt: &started, AutoRenew: true})
	require.NoError(t, err)

	n, err := s.NotifyExpiring(ctx, 72*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.Len(t, notes.got, 1)
	assert.Equal(t, "shop-1", notes.got[0].ShopID)
	assert.Equal(t, entity.NotificationSubscriptionExpiring, notes.got[0].Type)
}
