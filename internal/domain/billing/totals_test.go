package billing_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/swarna-khata-api/internal/domain"
	"github.com/jhoicas/swarna-khata-api/internal/domain/billing"
	"github.com/jhoicas/swarna-khata-api/internal/domain/entity"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// ringItem anillo de oro 22K: precio 65000, cargo extra 500, IVA 3%.
func ringItem() entity.JewelleryItem {
	return entity.JewelleryItem{
		ID:          "item-ring",
		DisplayName: "Anillo 22K",
		ItemType:    "Gold",
		Category:    "Rings",
		GrossWeight: d("10.5"),
		NetWeight:   d("10"),
		MetalRateOn: entity.MetalRateOnNet,
		TaxRate:     d("3"),
		Stock:       d("5"),
		ListOfExtraCharges: []entity.ExtraCharge{
			{Name: "Hallmark", Amount: d("500")},
		},
	}
}

func anklet() entity.JewelleryItem {
	return entity.JewelleryItem{
		ID:          "item-anklet",
		DisplayName: "Payal",
		ItemType:    "Ornament",
		Category:    "Silver Anklets",
		GrossWeight: d("50"),
		NetWeight:   d("48"),
		MetalRateOn: entity.MetalRateOnGross,
		TaxRate:     d("3"),
	}
}

func newInvoice(lines ...entity.InvoiceItem) *entity.Invoice {
	inv := &entity.Invoice{ID: "inv-1", InvoiceNumber: "INV-251015-1234", Items: lines}
	billing.Refresh(inv)
	return inv
}

func TestRecompute_EjemploAnilloConCargoEImpuesto(t *testing.T) {
	inv := newInvoice(billing.NewLine("l1", ringItem(), d("1"), d("65000"), decimal.Zero))

	tot := billing.Recompute(inv)

	assert.True(t, d("65000").Equal(tot.Subtotal), "subtotal")
	assert.True(t, d("500").Equal(tot.ExtraCharges), "cargos extra")
	assert.Equal(t, "1965.00", tot.Tax.StringFixed(2), "impuesto directo (65000+500)×3%")
	assert.Equal(t, "67465.00", tot.Total.StringFixed(2))
	assert.Equal(t, entity.PaymentStatusUnpaid, tot.Status)
	assert.Equal(t, "67465.00", inv.TotalAmount.StringFixed(2), "Refresh escribe el total derivado")
}

func TestRecompute_CargosExtraSeMultiplicanPorCantidad(t *testing.T) {
	inv := newInvoice(billing.NewLine("l1", ringItem(), d("2"), d("65000"), decimal.Zero))

	tot := billing.Recompute(inv)

	assert.True(t, d("130000").Equal(tot.Subtotal))
	assert.True(t, d("1000").Equal(tot.ExtraCharges))
	assert.Equal(t, "3930.00", tot.Tax.StringFixed(2))
}

func TestRecompute_DosLineasDelMismoArticuloSonDistintas(t *testing.T) {
	inv := newInvoice(
		billing.NewLine("l1", ringItem(), d("1"), d("65000"), decimal.Zero),
		billing.NewLine("l2", ringItem(), d("1"), d("65000"), decimal.Zero),
	)
	assert.Len(t, inv.Items, 2)
	assert.True(t, inv.Items[0].IsSameItem(inv.Items[1]), "igualdad de negocio")
	assert.NotEqual(t, inv.Items[0].ID, inv.Items[1].ID, "identidad por id de línea")
}

func TestRecompute_ImpuestoRedondeadoPorLinea(t *testing.T) {
	item := anklet()
	item.TaxRate = d("3")
	inv := newInvoice(billing.NewLine("l1", item, d("1"), d("333.33"), decimal.Zero))

	// 333.33 × 3% = 9.9999 → 10.00
	assert.Equal(t, "10.00", billing.Recompute(inv).Tax.StringFixed(2))
}

func TestRecompute_TotalIgnoraElTotalGuardado(t *testing.T) {
	inv := newInvoice(billing.NewLine("l1", ringItem(), d("1"), d("65000"), decimal.Zero))
	inv.TotalAmount = d("70000") // desvío manual

	tot := billing.Recompute(inv)
	assert.Equal(t, "1965.00", tot.Tax.StringFixed(2), "el impuesto no absorbe la diferencia")
	assert.Equal(t, "67465.00", tot.Total.StringFixed(2))
}

func TestRemoveAllItems_TotalesEnCero(t *testing.T) {
	inv := newInvoice(billing.NewLine("l1", ringItem(), d("1"), d("65000"), decimal.Zero))

	tot, err := billing.RemoveItem(inv, "l1")
	require.NoError(t, err)

	assert.True(t, tot.Subtotal.IsZero())
	assert.True(t, tot.Tax.IsZero())
	assert.True(t, tot.ExtraCharges.IsZero())
	assert.True(t, inv.TotalAmount.IsZero())
	assert.Empty(t, inv.Items)
}

func TestUpdateItemQuantity_CeroONegativoEliminaLaLinea(t *testing.T) {
	for _, qty := range []string{"0", "-2"} {
		inv := newInvoice(
			billing.NewLine("l1", ringItem(), d("1"), d("65000"), decimal.Zero),
			billing.NewLine("l2", anklet(), d("1"), d("4000"), decimal.Zero),
		)
		removed, tot, err := billing.UpdateItemQuantity(inv, "l1", d(qty))
		require.NoError(t, err)
		assert.True(t, removed, "cantidad %s elimina", qty)
		assert.Equal(t, -1, inv.FindItem("l1"))
		assert.True(t, d("4000").Equal(tot.Subtotal))
	}
}

func TestUpdateItemQuantity_LineaInexistente(t *testing.T) {
	inv := newInvoice()
	_, _, err := billing.UpdateItemQuantity(inv, "nope", d("1"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEditItem_ConservaIDYReemplazaSnapshot(t *testing.T) {
	inv := newInvoice(billing.NewLine("l1", ringItem(), d("1"), d("65000"), decimal.Zero))
	edited := ringItem()
	edited.ListOfExtraCharges = nil
	edited.TaxRate = d("5")

	removed, tot, err := billing.EditItem(inv, "l1", edited, d("60000"), d("1"), d("9.5"))
	require.NoError(t, err)

	assert.False(t, removed)
	assert.Equal(t, "l1", inv.Items[0].ID)
	assert.True(t, d("60000").Equal(inv.Items[0].Price))
	assert.True(t, tot.ExtraCharges.IsZero())
	assert.Equal(t, "3000.00", tot.Tax.StringFixed(2))
	assert.Equal(t, "63000.00", inv.TotalAmount.StringFixed(2))
}

func TestAddItem_CantidadInvalidaAlCrear(t *testing.T) {
	inv := newInvoice()
	_, err := billing.AddItem(inv, billing.NewLine("l1", ringItem(), d("0"), d("65000"), decimal.Zero))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = billing.AddItem(inv, billing.NewLine("l1", ringItem(), d("1"), d("-1"), decimal.Zero))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAddItem_IDDeLineaDuplicado(t *testing.T) {
	inv := newInvoice(billing.NewLine("l1", ringItem(), d("1"), d("65000"), decimal.Zero))
	_, err := billing.AddItem(inv, billing.NewLine("l1", anklet(), d("1"), d("100"), decimal.Zero))
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	assert.Len(t, inv.Items, 1, "la factura no cambia si falla")
}

func TestStockDelta(t *testing.T) {
	before := []entity.InvoiceItem{
		billing.NewLine("l1", ringItem(), d("2"), d("1"), decimal.Zero),
		billing.NewLine("l2", anklet(), d("1"), d("1"), decimal.Zero),
	}
	after := []entity.InvoiceItem{
		billing.NewLine("l1", ringItem(), d("3"), d("1"), decimal.Zero),
	}
	delta := billing.StockDelta(before, after)

	assert.True(t, d("1").Equal(delta["item-ring"]))
	assert.True(t, d("-1").Equal(delta["item-anklet"]))
	assert.Len(t, delta, 2)

	assert.Empty(t, billing.StockDelta(before, before))
}

func TestNewLine_NoCompartirCargosConElCatalogo(t *testing.T) {
	item := ringItem()
	line := billing.NewLine("l1", item, d("1"), d("1"), decimal.Zero)
	item.ListOfExtraCharges[0].Amount = d("999")

	assert.True(t, d("500").Equal(line.ItemDetails.ListOfExtraCharges[0].Amount))
}

func TestInvoiceClone_Profundo(t *testing.T) {
	inv := newInvoice(billing.NewLine("l1", ringItem(), d("1"), d("65000"), decimal.Zero))
	inv.Payments = []entity.Payment{{ID: "p1", Amount: d("10"), Method: entity.PaymentCash, Date: time.Now()}}

	c := inv.Clone()
	c.Items[0].ItemDetails.ListOfExtraCharges[0].Amount = d("1")
	c.Payments[0].Amount = d("99")

	assert.True(t, d("500").Equal(inv.Items[0].ItemDetails.ListOfExtraCharges[0].Amount))
	assert.True(t, d("10").Equal(inv.Payments[0].Amount))
}
