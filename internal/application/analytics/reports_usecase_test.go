package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/swarna-khata-api/internal/domain"
	"github.com/jhoicas/swarna-khata-api/internal/domain/billing"
	"github.com/jhoicas/swarna-khata-api/internal/domain/entity"
	"github.com/jhoicas/swarna-khata-api/internal/infrastructure/memory"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func invoice(id, customerID string, date time.Time, price, paid string, item entity.JewelleryItem) *entity.Invoice {
	inv := &entity.Invoice{
		ID: id, ShopID: "shop-1", InvoiceNumber: "INV-" + id, CustomerID: customerID,
		InvoiceDate: date, CreatedAt: date,
		Items: []entity.InvoiceItem{billing.NewLine("l-"+id, item, d("1"), d(price), decimal.Zero)},
	}
	if paid != "0" {
		inv.Payments = []entity.Payment{{ID: "p-" + id, Amount: d(paid), Method: entity.PaymentCash, Date: date}}
	}
	billing.Refresh(inv)
	return inv
}

func seed(t *testing.T) (*ReportsUseCase, time.Time) {
	t.Helper()
	ctx := context.Background()
	store := memory.New()
	ring := entity.JewelleryItem{ID: "ring", DisplayName: "Anillo", ItemType: "Gold", NetWeight: d("10"), MetalRateOn: entity.MetalRateOnNet, TaxRate: d("3")}
	anklet := entity.JewelleryItem{ID: "anklet", DisplayName: "Tobillera", ItemType: "Silver", GrossWeight: d("50"), MetalRateOn: entity.MetalRateOnGross}

	day1 := time.Date(2025, 10, 1, 11, 0, 0, 0, time.Local)
	day2 := time.Date(2025, 10, 2, 11, 0, 0, 0, time.Local)
	for _, inv := range []*entity.Invoice{
		invoice("1", "cust", day1, "10000", "0", ring),
		invoice("2", "cust", day2, "4000", "4000", anklet),
		invoice("3", "", day2, "20000", "5000", ring),
		invoice("4", "", day2.AddDate(0, 1, 0), "999", "0", anklet),
	} {
		require.NoError(t, store.Invoices().Create(ctx, inv))
	}
	require.NoError(t, store.Customers().Create(ctx, &entity.Customer{
		ID: "cust", ShopID: "shop-1", Name: "Priya", CurrentBalance: d("10300"), CreditLimit: d("20000"),
	}))
	require.NoError(t, store.Customers().Create(ctx, &entity.Customer{ID: "clean", ShopID: "shop-1", Name: "Sin deuda"}))

	uc := NewReportsUseCase(store.Invoices(), store.Customers())
	uc.now = func() time.Time { return day2 }
	return uc, day1
}

func TestSalesReport_MesEnCurso(t *testing.T) {
	uc, _ := seed(t)
	from, to, err := uc.Period("", "")
	require.NoError(t, err)
	assert.Equal(t, 1, from.Day())
	assert.Equal(t, time.November, to.Month())

	r, err := uc.SalesReport(context.Background(), "shop-1", from, to)
	require.NoError(t, err)

	assert.Equal(t, 3, r.InvoiceCount)
	assert.True(t, d("34000").Equal(r.Subtotal))
	assert.True(t, d("900").Equal(r.Tax))
	assert.True(t, d("34900").Equal(r.Total))
	assert.True(t, d("9000").Equal(r.Paid))
	assert.True(t, d("25900").Equal(r.Outstanding))
	assert.True(t, d("20").Equal(r.GoldGramsSold))
	assert.True(t, d("50").Equal(r.SilverGramsSold))
	assert.Equal(t, map[string]int{"UNPAID": 1, "PARTIAL": 1, "PAID": 1}, r.StatusCounts)
	assert.True(t, d("9000").Equal(r.PaymentsByMethod[entity.PaymentCash]))

	require.Len(t, r.Daily, 2)
	assert.Equal(t, "2025-10-01", r.Daily[0].Date)
	assert.Equal(t, 2, r.Daily[1].InvoiceCount)

	require.Len(t, r.TopItems, 2)
	assert.Equal(t, "ring", r.TopItems[0].ItemID)
	assert.True(t, d("30000").Equal(r.TopItems[0].Revenue))
}

func TestPeriod_Validaciones(t *testing.T) {
	uc, _ := seed(t)
	from, to, err := uc.Period("2025-10-02", "2025-10-02")
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, to.Sub(from))

	_, _, err = uc.Period("2025-10-05", "2025-10-01")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, _, err = uc.Period("ayer", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCustomerDues_SoloConDeuda(t *testing.T) {
	uc, _ := seed(t)
	r, err := uc.CustomerDues(context.Background(), "shop-1")
	require.NoError(t, err)

	require.Len(t, r.Customers, 1)
	row := r.Customers[0]
	assert.Equal(t, "cust", row.CustomerID)
	assert.True(t, d("10300").Equal(row.Outstanding))
	assert.Equal(t, 1, row.OpenInvoices)
	assert.Equal(t, "default", row.UsageLevel)
	assert.True(t, d("10300").Equal(r.TotalOutstanding))
}
