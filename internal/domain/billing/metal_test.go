package billing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/swarna-khata-api/internal/domain"
	"github.com/jhoicas/swarna-khata-api/internal/domain/billing"
	"github.com/jhoicas/swarna-khata-api/internal/domain/entity"
)

func TestClassifyMetal(t *testing.T) {
	assert.Equal(t, entity.MetalGold, billing.ClassifyMetal(entity.JewelleryItem{ItemType: "Rose GOLD"}))
	assert.Equal(t, entity.MetalSilver, billing.ClassifyMetal(entity.JewelleryItem{ItemType: "Ornament", Category: "silver anklets"}))
	assert.Equal(t, "", billing.ClassifyMetal(entity.JewelleryItem{ItemType: "Diamond", Category: "Loose"}))
}

func TestClassifyMetal_OroGanaEntreCampos(t *testing.T) {
	assert.Equal(t, entity.MetalGold, billing.ClassifyMetal(entity.JewelleryItem{ItemType: "Silver", Category: "Gold plated"}))
	assert.Equal(t, entity.MetalGold, billing.ClassifyMetal(entity.JewelleryItem{ItemType: "Gold", Category: "Silver"}))
	assert.Equal(t, entity.MetalGold, billing.ClassifyMetal(entity.JewelleryItem{ItemType: "Silver-gold mix"}))
	// el separador evita coincidencias entre el final de un campo y el inicio del otro
	assert.Equal(t, "", billing.ClassifyMetal(entity.JewelleryItem{ItemType: "go", Category: "ld"}))
}

func TestMetalWeights_NetoOBrutoPorCantidad(t *testing.T) {
	items := []entity.InvoiceItem{
		billing.NewLine("l1", ringItem(), d("2"), d("1"), decimal.Zero), // neto 10 × 2
		billing.NewLine("l2", anklet(), d("1"), d("1"), decimal.Zero),   // bruto 50
	}
	w := billing.MetalWeights(items)
	assert.True(t, d("20").Equal(w.Gold))
	assert.True(t, d("50").Equal(w.Silver))
}

func TestApplyMetalExchange_TotalEsOriginalMenosFino(t *testing.T) {
	inv := newInvoice(billing.NewLine("l1", ringItem(), d("1"), d("65000"), decimal.Zero))

	tot, err := billing.ApplyMetalExchange(inv, billing.MetalExchange{
		FineGold: d("2.5"), GoldRate: d("6000"),
	})
	require.NoError(t, err)

	assert.True(t, inv.IsMetalExchangeApplied)
	assert.Equal(t, "67465.00", inv.OriginalTotalBeforeFine.StringFixed(2))
	assert.Equal(t, "15000.00", tot.FineValue.StringFixed(2))
	assert.Equal(t, "52465.00", inv.TotalAmount.StringFixed(2))
	assert.Empty(t, billing.Audit(inv))
}

func TestApplyMetalExchange_SoloUnaVez(t *testing.T) {
	inv := newInvoice(billing.NewLine("l1", ringItem(), d("1"), d("65000"), decimal.Zero))
	_, err := billing.ApplyMetalExchange(inv, billing.MetalExchange{FineGold: d("1"), GoldRate: d("6000")})
	require.NoError(t, err)

	_, err = billing.ApplyMetalExchange(inv, billing.MetalExchange{FineGold: d("2"), GoldRate: d("6000")})
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.True(t, d("1").Equal(inv.FineGoldAmount), "los campos finos quedan cerrados")
}

func TestApplyMetalExchange_Validaciones(t *testing.T) {
	cases := map[string]billing.MetalExchange{
		"sin gramos":       {},
		"gramos negativos": {FineGold: d("-1"), GoldRate: d("6000")},
		"sin tarifa":       {FineSilver: d("10")},
		"supera el total":  {FineGold: d("100"), GoldRate: d("6000")},
	}
	for name, ex := range cases {
		inv := newInvoice(billing.NewLine("l1", ringItem(), d("1"), d("65000"), decimal.Zero))
		_, err := billing.ApplyMetalExchange(inv, ex)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, name)
		assert.False(t, inv.IsMetalExchangeApplied, name)
	}
}

func TestApplyMetalExchange_EdicionPosteriorConservaElFino(t *testing.T) {
	inv := newInvoice(billing.NewLine("l1", ringItem(), d("1"), d("65000"), decimal.Zero))
	_, err := billing.ApplyMetalExchange(inv, billing.MetalExchange{FineGold: d("1"), GoldRate: d("6000")})
	require.NoError(t, err)

	_, err = billing.AddItem(inv, billing.NewLine("l2", anklet(), d("1"), d("1000"), decimal.Zero))
	require.NoError(t, err)

	assert.Equal(t, "68495.00", inv.OriginalTotalBeforeFine.StringFixed(2))
	assert.Equal(t, "62495.00", inv.TotalAmount.StringFixed(2))

	// quitar todo dejaría el total negativo
	_, err = billing.RemoveItem(inv, "l1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Len(t, inv.Items, 2)
}

func TestSuggestedPrice(t *testing.T) {
	item := entity.JewelleryItem{
		NetWeight:         d("10"),
		GrossWeight:       d("11"),
		MetalRateOn:       entity.MetalRateOnNet,
		Wastage:           d("8"),
		MetalRate:         d("6000"),
		MakingCharges:     d("400"),
		MakingChargesType: entity.MakingPerGram,
	}
	// 10 × 1.08 × 6000 = 64800 ; hechura 400 × 10 = 4000
	assert.Equal(t, "68800.00", billing.SuggestedPrice(item).StringFixed(2))

	item.MakingChargesType = entity.MakingFixed
	item.MetalRateOn = entity.MetalRateOnGross
	// 11 × 1.08 × 6000 = 71280 ; hechura fija 400
	assert.Equal(t, "71680.00", billing.SuggestedPrice(item).StringFixed(2))
}
