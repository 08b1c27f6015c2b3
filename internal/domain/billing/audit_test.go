package billing_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/swarna-khata-api/internal/domain/billing"
	"github.com/jhoicas/swarna-khata-api/internal/domain/entity"
)

func codes(issues []billing.Issue) []string {
	out := make([]string, 0, len(issues))
	for _, i := range issues {
		out = append(out, i.Code)
	}
	return out
}

func TestAudit_FacturaConsistenteSinProblemas(t *testing.T) {
	inv := newInvoice(billing.NewLine("l1", ringItem(), d("1"), d("65000"), decimal.Zero))
	assert.Empty(t, billing.Audit(inv))
}

func TestAudit_DetectaTotalDesviado(t *testing.T) {
	inv := newInvoice(billing.NewLine("l1", ringItem(), d("1"), d("65000"), decimal.Zero))
	inv.TotalAmount = d("70000")

	assert.Contains(t, codes(billing.Audit(inv)), billing.IssueTotalMismatch)
}

func TestAudit_DetectaPagadoYEstadoInconsistentes(t *testing.T) {
	inv := newInvoice(billing.NewLine("l1", ringItem(), d("1"), d("65000"), decimal.Zero))
	inv.Payments = []entity.Payment{{ID: "p1", Amount: d("100"), Method: entity.PaymentCash, Date: time.Now()}}
	inv.PaymentStatus = entity.PaymentStatusPaid

	got := codes(billing.Audit(inv))
	assert.Contains(t, got, billing.IssuePaidMismatch)
	assert.Contains(t, got, billing.IssueStatusMismatch)
}

func TestAudit_DetectaIDsRepetidos(t *testing.T) {
	inv := newInvoice(
		billing.NewLine("l1", ringItem(), d("1"), d("65000"), decimal.Zero),
		billing.NewLine("l1", anklet(), d("1"), d("100"), decimal.Zero),
	)
	at := time.Now()
	inv.Payments = []entity.Payment{
		{ID: "p1", Amount: d("1"), Method: entity.PaymentCash, Date: at},
		{ID: "p1", Amount: d("2"), Method: entity.PaymentCash, Date: at},
	}
	billing.Refresh(inv)

	got := codes(billing.Audit(inv))
	assert.Contains(t, got, billing.IssueDuplicateLineID)
	assert.Contains(t, got, billing.IssueDuplicatePaymentID)
}

func TestAudit_DetectaFinoInconsistente(t *testing.T) {
	inv := newInvoice(billing.NewLine("l1", ringItem(), d("1"), d("65000"), decimal.Zero))
	_, err := billing.ApplyMetalExchange(inv, billing.MetalExchange{FineGold: d("1"), GoldRate: d("6000")})
	assert.NoError(t, err)
	inv.TotalAmount = inv.OriginalTotalBeforeFine

	assert.Contains(t, codes(billing.Audit(inv)), billing.IssueFineMismatch)
}

func TestUsagePercentage_EjemploRojo(t *testing.T) {
	pct := billing.UsagePercentage(d("47500"), d("50000"))
	assert.Equal(t, "95", pct.String())
	assert.Equal(t, billing.UsageRed, billing.UsageLevel(pct))
}

func TestUsagePercentage_LimitesYNiveles(t *testing.T) {
	assert.True(t, billing.UsagePercentage(d("100"), d("0")).IsZero(), "sin límite")
	assert.True(t, billing.UsagePercentage(d("-10"), d("100")).IsZero())
	assert.Equal(t, "100", billing.UsagePercentage(d("900"), d("100")).String())

	assert.Equal(t, billing.UsageOrange, billing.UsageLevel(d("75")))
	assert.Equal(t, billing.UsageDefault, billing.UsageLevel(d("74.99")))
	assert.Equal(t, billing.UsageRed, billing.UsageLevel(d("90")))

	assert.True(t, billing.OverLimit(d("50001"), d("50000")))
	assert.False(t, billing.OverLimit(d("50001"), d("0")))
}

func TestIDs_Formatos(t *testing.T) {
	at := time.Date(2025, 3, 7, 9, 5, 2, 0, time.UTC)
	assert.Equal(t, "INV-250307-0042", billing.InvoiceNumber(at, 42))
	assert.Equal(t, "PAY-250307090502-07", billing.PaymentID(at, 7))

	for i := 0; i < 50; i++ {
		assert.Regexp(t, `^INV-250307-[1-9]\d{3}$`, billing.NewInvoiceNumber(at))
		assert.Regexp(t, `^PAY-250307090502-[1-9]\d$`, billing.NewPaymentID(at))
	}
}

func TestKeywords_PrefijosEnMinuscula(t *testing.T) {
	inv := newInvoice(billing.NewLine("l1", ringItem(), d("1"), d("65000"), decimal.Zero))
	inv.CustomerName = "Ravi Kumar"
	inv.CustomerPhone = "98765"

	kw := billing.Keywords(inv)

	assert.Contains(t, kw, "ra")
	assert.Contains(t, kw, "ravi")
	assert.Contains(t, kw, "kum")
	assert.Contains(t, kw, "987")
	assert.Contains(t, kw, "anillo")
	assert.Contains(t, kw, "inv-251015")
	assert.NotContains(t, kw, "r", "longitud mínima 2")
	assert.IsIncreasing(t, kw)
}
