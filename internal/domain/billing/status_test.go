package billing_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/swarna-khata-api/internal/domain"
	"github.com/jhoicas/swarna-khata-api/internal/domain/billing"
	"github.com/jhoicas/swarna-khata-api/internal/domain/entity"
)

func TestDeriveStatus(t *testing.T) {
	cases := []struct {
		total, paid, want string
	}{
		{"72600", "0", entity.PaymentStatusUnpaid},
		{"72600", "30000", entity.PaymentStatusPartial},
		{"72600", "72600", entity.PaymentStatusPaid},
		{"72600", "80000", entity.PaymentStatusPaid},
		{"0", "0", entity.PaymentStatusPaid},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, billing.DeriveStatus(d(c.total), d(c.paid)), "total=%s paid=%s", c.total, c.paid)
	}
}

func TestBalanceDue_EjemploParcial(t *testing.T) {
	assert.Equal(t, "42600", billing.BalanceDue(d("72600"), d("30000")).String())
}

func TestOutstanding_SobrepagoSeMuestraEnCero(t *testing.T) {
	assert.Equal(t, "-7400", billing.BalanceDue(d("72600"), d("80000")).String())
	assert.True(t, billing.Outstanding(d("72600"), d("80000")).IsZero())
	assert.Equal(t, "7400", billing.Overpaid(d("72600"), d("80000")).String())
	assert.Equal(t, "42600", billing.Outstanding(d("72600"), d("30000")).String())
	assert.True(t, billing.Overpaid(d("72600"), d("30000")).IsZero())

	item := anklet()
	item.TaxRate = d("0")
	inv := newInvoice(billing.NewLine("l1", item, d("1"), d("1000"), d("0")))
	inv.Payments = []entity.Payment{payment("1200", time.Now())}
	tot := billing.Recompute(inv)
	assert.True(t, tot.BalanceDue.IsZero())
	assert.Equal(t, "200", tot.Overpaid.String())
	assert.Equal(t, entity.PaymentStatusPaid, tot.Status)
}

func TestStatusLabel_Mayorista(t *testing.T) {
	assert.Equal(t, "TO PAY", billing.StatusLabel(entity.PaymentStatusUnpaid, entity.BusinessWholesaler))
	assert.Equal(t, "PARTIALLY PAID", billing.StatusLabel(entity.PaymentStatusPartial, entity.BusinessWholesaler))
	assert.Equal(t, "PAID", billing.StatusLabel(entity.PaymentStatusPaid, entity.BusinessWholesaler))
	assert.Equal(t, "UNPAID", billing.StatusLabel(entity.PaymentStatusUnpaid, entity.BusinessRetailer))
}

func payment(amount string, at time.Time) entity.Payment {
	return entity.Payment{Amount: d(amount), Method: entity.PaymentCash, Date: at}
}

func TestAddPayment_ParcialLuegoPagado(t *testing.T) {
	item := anklet()
	item.TaxRate = d("0")
	inv := newInvoice(billing.NewLine("l1", item, d("1"), d("72600"), d("0")))
	now := time.Date(2025, 10, 15, 10, 30, 0, 0, time.UTC)

	tot, err := billing.AddPayment(inv, payment("30000", now), now)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusPartial, tot.Status)
	assert.Equal(t, "42600", tot.BalanceDue.String())
	assert.Regexp(t, `^PAY-251015103000-\d{2}$`, inv.Payments[0].ID)

	tot, err = billing.AddPayment(inv, payment("42600", now.Add(time.Minute)), now.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusPaid, tot.Status)
	assert.Equal(t, entity.PaymentStatusPaid, inv.PaymentStatus)
	assert.Equal(t, "72600", inv.PaidAmount.String())
}

func TestAddPayment_RechazadaSiYaEstaPagada(t *testing.T) {
	item := anklet()
	item.TaxRate = d("0")
	inv := newInvoice(billing.NewLine("l1", item, d("1"), d("100"), d("0")))
	now := time.Now()
	_, err := billing.AddPayment(inv, payment("100", now), now)
	require.NoError(t, err)

	_, err = billing.AddPayment(inv, payment("1", now.Add(time.Hour)), now)
	assert.ErrorIs(t, err, domain.ErrAlreadyPaid)
	assert.Len(t, inv.Payments, 1)
}

func TestAddPayment_DuplicadoDeNegocio(t *testing.T) {
	item := anklet()
	inv := newInvoice(billing.NewLine("l1", item, d("1"), d("1000"), d("0")))
	now := time.Now()
	_, err := billing.AddPayment(inv, payment("100", now), now)
	require.NoError(t, err)

	_, err = billing.AddPayment(inv, payment("100", now), now)
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestAddPayment_DuplicadoSinFechaEnElMismoSegundo(t *testing.T) {
	inv := newInvoice(billing.NewLine("l1", anklet(), d("1"), d("1000"), d("0")))
	now := time.Date(2026, 10, 15, 11, 0, 0, 0, time.UTC)
	sinFecha := entity.Payment{Amount: d("100"), Method: entity.PaymentCash}

	_, err := billing.AddPayment(inv, sinFecha, now)
	require.NoError(t, err)
	assert.Equal(t, now, inv.Payments[0].Date)

	_, err = billing.AddPayment(inv, sinFecha, now.Add(300*time.Millisecond))
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	assert.Len(t, inv.Payments, 1)

	_, err = billing.AddPayment(inv, sinFecha, now.Add(time.Second))
	require.NoError(t, err)
	assert.Len(t, inv.Payments, 2)
}

func TestAddPayment_MontoInvalido(t *testing.T) {
	inv := newInvoice(billing.NewLine("l1", anklet(), d("1"), d("1000"), d("0")))
	_, err := billing.AddPayment(inv, payment("0", time.Now()), time.Now())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestEditYRemovePayment_RecalculanEstado(t *testing.T) {
	item := anklet()
	item.TaxRate = d("0")
	inv := newInvoice(billing.NewLine("l1", item, d("1"), d("1000"), d("0")))
	now := time.Now()
	_, err := billing.AddPayment(inv, payment("400", now), now)
	require.NoError(t, err)
	id := inv.Payments[0].ID

	edited := inv.Payments[0]
	edited.Amount = d("1000")
	tot, err := billing.EditPayment(inv, edited)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusPaid, tot.Status)
	assert.Equal(t, id, inv.Payments[0].ID)

	tot, err = billing.RemovePayment(inv, id)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusUnpaid, tot.Status)
	assert.True(t, inv.PaidAmount.IsZero())

	_, err = billing.RemovePayment(inv, id)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPaidAmountEsSumaDePagos(t *testing.T) {
	inv := newInvoice(billing.NewLine("l1", anklet(), d("1"), d("100000"), d("0")))
	base := time.Now()
	for i, amt := range []string{"100", "250.50", "49.50"} {
		at := base.Add(time.Duration(i) * time.Minute)
		_, err := billing.AddPayment(inv, payment(amt, at), at)
		require.NoError(t, err)
	}
	assert.Equal(t, "400", inv.PaidAmount.String())
	assert.Equal(t, billing.DeriveStatus(inv.TotalAmount, inv.PaidAmount), inv.PaymentStatus)
}

func TestIsSamePayment(t *testing.T) {
	at := time.Date(2025, 1, 1, 10, 0, 0, 100, time.UTC)
	a := entity.Payment{ID: "a", Amount: d("10"), Method: entity.PaymentUPI, Date: at}
	b := entity.Payment{ID: "b", Amount: d("10.00"), Method: entity.PaymentUPI, Date: at.Add(500)}
	assert.True(t, a.IsSamePayment(b))
	b.Method = entity.PaymentCash
	assert.False(t, a.IsSamePayment(b))
}
