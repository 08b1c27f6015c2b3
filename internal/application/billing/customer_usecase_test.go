package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/swarna-khata-api/internal/application/dto"
	"github.com/jhoicas/swarna-khata-api/internal/domain"
	"github.com/jhoicas/swarna-khata-api/internal/domain/entity"
)

func TestCustomerCreate_ValidaYRechazaTelefonoDuplicado(t *testing.T) {
	f := newFixture(t)

	c, err := f.customers.Create(f.ctx, shopID, dto.CustomerRequest{Name: "  Anil Mehta ", Phone: "+919811111111", OpeningBalance: d("1500")})
	require.NoError(t, err)
	assert.Equal(t, "Anil Mehta", c.Name)
	assert.Equal(t, entity.BalanceCredit, c.BalanceType)
	assert.True(t, d("1500").Equal(c.CurrentBalance))

	_, err = f.customers.Create(f.ctx, shopID, dto.CustomerRequest{Name: "Otro", Phone: "+919811111111"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = f.customers.Create(f.ctx, shopID, dto.CustomerRequest{Name: ""})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.customers.Create(f.ctx, shopID, dto.CustomerRequest{Name: "X", BalanceType: "Loan"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCustomerUpdate_SaldoInicialSeTrasladaAlActual(t *testing.T) {
	f := newFixture(t)
	_, err := f.invoices.Create(f.ctx, shopID, ringSale())
	require.NoError(t, err)

	out, err := f.customers.Update(f.ctx, shopID, "cust", dto.CustomerRequest{
		Name: "Priya Sharma", Phone: "+919876543210", OpeningBalance: d("2535"), CreditLimit: d("100000"),
	})
	require.NoError(t, err)
	assert.True(t, d("70000").Equal(out.CurrentBalance))
	assert.True(t, d("70").Equal(out.UsagePercentage))
	assert.Equal(t, "default", out.UsageLevel)
}

func TestCustomerList_BuscaPorNombreOTelefono(t *testing.T) {
	f := newFixture(t)
	_, err := f.customers.Create(f.ctx, shopID, dto.CustomerRequest{Name: "Anil Mehta", Phone: "+919811111111"})
	require.NoError(t, err)

	out, err := f.customers.List(f.ctx, shopID, "anil", dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, 20, out.Page.Limit)

	out, err = f.customers.List(f.ctx, shopID, "98765", dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "Priya Sharma", out.Items[0].Name)
}

func TestCustomerDelete_ConSaldoPendienteEsConflicto(t *testing.T) {
	f := newFixture(t)
	inv, err := f.invoices.Create(f.ctx, shopID, ringSale())
	require.NoError(t, err)

	assert.ErrorIs(t, f.customers.Delete(f.ctx, shopID, "cust"), domain.ErrConflict)

	_, err = f.invoices.AddPayment(f.ctx, shopID, inv.ID, dto.PaymentRequest{Amount: d("67465"), Method: entity.PaymentCash})
	require.NoError(t, err)
	require.NoError(t, f.customers.Delete(f.ctx, shopID, "cust"))

	_, err = f.customers.Get(f.ctx, shopID, "cust")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	entries, err := f.bin.List(f.ctx, shopID, entity.RecycledCustomer)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.NoError(t, f.bin.Restore(f.ctx, shopID, entries[0].ID))

	c, err := f.customers.Get(f.ctx, shopID, "cust")
	require.NoError(t, err)
	assert.True(t, c.CurrentBalance.IsZero())
}

func TestCreditSummary(t *testing.T) {
	f := newFixture(t)
	in := ringSale()
	in.Payments = []dto.PaymentRequest{{Amount: d("20000"), Method: entity.PaymentCash}}
	_, err := f.invoices.Create(f.ctx, shopID, in)
	require.NoError(t, err)

	s, err := f.customers.CreditSummary(f.ctx, shopID, "cust")
	require.NoError(t, err)
	assert.True(t, d("47465").Equal(s.Outstanding))
	assert.True(t, d("47465").Equal(s.CurrentBalance))
	assert.Equal(t, 1, s.OpenInvoiceCount)
	assert.NotNil(t, s.LastInvoiceDate)
	assert.False(t, s.OverLimit)

	_, err = f.customers.CreditSummary(f.ctx, shopID, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
