package inventory_test

import (
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/swarna-khata-api/internal/application/dto"
	"github.com/jhoicas/swarna-khata-api/internal/application/inventory"
	"github.com/jhoicas/swarna-khata-api/internal/domain"
	"github.com/jhoicas/swarna-khata-api/internal/domain/entity"
	"github.com/jhoicas/swarna-khata-api/internal/domain/repository"
	"github.com/jhoicas/swarna-khata-api/internal/infrastructure/memory"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type notifierMock struct {
	mu  sync.Mutex
	got []*entity.Notification
}

func (m *notifierMock) Notify(_ context.Context, n *entity.Notification) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.got = append(m.got, n)
}

func setup(t *testing.T) (*inventory.ItemUseCase, *memory.Store, *notifierMock) {
	t.Helper()
	store := memory.New()
	require.NoError(t, store.Shops().Create(context.Background(), &entity.Shop{ID: "shop-1", Name: "Lakshmi", LowStockThreshold: 1}))
	notes := &notifierMock{}
	return inventory.NewItemUseCase(store, store.Items(), store.Shops(), notes, zerolog.Nop()), store, notes
}

func chain() dto.ItemRequest {
	return dto.ItemRequest{
		DisplayName:   "Cadena oro 22K",
		JewelryCode:   "C-100",
		ItemType:      "Gold",
		Category:      "Chain",
		GrossWeight:   d("20"),
		NetWeight:     d("19.5"),
		Wastage:       d("8"),
		Purity:        "22K",
		MakingCharges: d("350"),
		MetalRate:     d("6000"),
		TaxRate:       d("3"),
		Stock:         d("3"),
	}
}

func TestItemCreate_DefectosYPrecioSugerido(t *testing.T) {
	uc, _, _ := setup(t)

	out, err := uc.Create(context.Background(), "shop-1", chain())
	require.NoError(t, err)

	assert.Equal(t, entity.MakingPerGram, out.MakingChargesType)
	assert.Equal(t, entity.MetalRateOnNet, out.MetalRateOn)
	// 19.5 × 1.08 × 6000 + 350 × 19.5
	assert.True(t, d("133185").Equal(out.SuggestedPrice), out.SuggestedPrice.String())
	assert.False(t, out.LowStock)
}

func TestItemCreate_Validaciones(t *testing.T) {
	uc, _, _ := setup(t)
	ctx := context.Background()

	bad := chain()
	bad.NetWeight = d("25")
	_, err := uc.Create(ctx, "shop-1", bad)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	bad = chain()
	bad.MakingChargesType = "PERCENT"
	_, err = uc.Create(ctx, "shop-1", bad)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	bad = chain()
	bad.ListOfExtraCharges = []entity.ExtraCharge{{Name: "", Amount: d("10")}}
	_, err = uc.Create(ctx, "shop-1", bad)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, "shop-1", chain())
	require.NoError(t, err)
	_, err = uc.Create(ctx, "shop-1", chain())
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestItemUpdate_NoCambiaStock(t *testing.T) {
	uc, _, _ := setup(t)
	ctx := context.Background()
	created, err := uc.Create(ctx, "shop-1", chain())
	require.NoError(t, err)

	in := chain()
	in.Stock = d("99")
	in.DisplayName = "Cadena oro 22K larga"
	out, err := uc.Update(ctx, "shop-1", created.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "Cadena oro 22K larga", out.DisplayName)
	assert.True(t, d("3").Equal(out.Stock))

	_, err = uc.Update(ctx, "shop-1", "no-existe", chain())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAdjustStock_AvisaStockBajoYRechazaNegativo(t *testing.T) {
	uc, _, notes := setup(t)
	ctx := context.Background()
	created, err := uc.Create(ctx, "shop-1", chain())
	require.NoError(t, err)

	out, err := uc.AdjustStock(ctx, "shop-1", created.ID, dto.AdjustStockRequest{Delta: d("-2"), Reason: "merma"})
	require.NoError(t, err)
	assert.True(t, d("1").Equal(out.Stock))
	assert.True(t, out.LowStock)
	require.Len(t, notes.got, 1)
	assert.Equal(t, entity.NotificationLowStock, notes.got[0].Type)
	assert.Equal(t, created.ID, notes.got[0].ItemID)

	_, err = uc.AdjustStock(ctx, "shop-1", created.ID, dto.AdjustStockRequest{Delta: d("-5")})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	_, err = uc.AdjustStock(ctx, "shop-1", created.ID, dto.AdjustStockRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestItemDelete_VaALaPapelera(t *testing.T) {
	uc, store, _ := setup(t)
	ctx := context.Background()
	created, err := uc.Create(ctx, "shop-1", chain())
	require.NoError(t, err)

	require.NoError(t, uc.Delete(ctx, "shop-1", created.ID))
	_, err = uc.Get(ctx, "shop-1", created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	entries, err := store.RecycleBin().List(ctx, "shop-1", entity.RecycledItem)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Cadena oro 22K", entries[0].ItemName)
}

func TestItemList_Filtros(t *testing.T) {
	uc, _, _ := setup(t)
	ctx := context.Background()
	_, err := uc.Create(ctx, "shop-1", chain())
	require.NoError(t, err)
	silver := chain()
	silver.DisplayName, silver.JewelryCode, silver.ItemType = "Anillo plata", "S-1", "Silver"
	_, err = uc.Create(ctx, "shop-1", silver)
	require.NoError(t, err)

	out, err := uc.List(ctx, "shop-1", repository.ItemFilter{ItemType: "silver"})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "S-1", out.Items[0].JewelryCode)

	out, err = uc.List(ctx, "shop-1", repository.ItemFilter{Search: "c-100"})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, 1, out.Page.Total)
}
