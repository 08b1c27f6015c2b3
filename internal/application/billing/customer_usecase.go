package billing

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/swarna-khata-api/internal/application/dto"
	"github.com/jhoicas/swarna-khata-api/internal/domain"
	billingcore "github.com/jhoicas/swarna-khata-api/internal/domain/billing"
	"github.com/jhoicas/swarna-khata-api/internal/domain/entity"
	"github.com/jhoicas/swarna-khata-api/internal/domain/repository"
)

// CustomerUseCase casos de uso para clientes de la joyería.
type CustomerUseCase struct {
	txRunner repository.TxRunner
	repo     repository.CustomerRepository
	invoices repository.InvoiceRepository
	now      func() time.Time
}

// NewCustomerUseCase construye el caso de uso.
func NewCustomerUseCase(txRunner repository.TxRunner, repo repository.CustomerRepository, invoices repository.InvoiceRepository) *CustomerUseCase {
	return &CustomerUseCase{txRunner: txRunner, repo: repo, invoices: invoices, now: time.Now}
}

func normalizeCustomer(in *dto.CustomerRequest) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = strings.TrimSpace(in.Phone)
	if in.Name == "" {
		return domain.ErrInvalidInput
	}
	switch in.BalanceType {
	case "":
		in.BalanceType = entity.BalanceCredit
	case entity.BalanceCredit, entity.BalanceDebit:
	default:
		return domain.ErrInvalidInput
	}
	if in.CustomerType == "" {
		in.CustomerType = "consumer"
	}
	if in.CreditLimit.IsNegative() {
		return domain.ErrInvalidInput
	}
	return nil
}

// Create crea un cliente. El teléfono, si viene, es único dentro de la tienda.
func (uc *CustomerUseCase) Create(ctx context.Context, shopID string, in dto.CustomerRequest) (*dto.CustomerResponse, error) {
	if err := normalizeCustomer(&in); err != nil {
		return nil, err
	}
	if in.Phone != "" {
		existing, err := uc.repo.GetByPhone(ctx, shopID, in.Phone)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, domain.ErrDuplicate
		}
	}
	now := uc.now()
	c := &entity.Customer{
		ID:             uuid.New().String(),
		ShopID:         shopID,
		Name:           in.Name,
		Phone:          in.Phone,
		Email:          in.Email,
		Address:        in.Address,
		CustomerType:   in.CustomerType,
		BalanceType:    in.BalanceType,
		OpeningBalance: in.OpeningBalance,
		CurrentBalance: in.OpeningBalance,
		CreditLimit:    in.CreditLimit,
		Notes:          in.Notes,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return toCustomerResponse(c), nil
}

// Get devuelve un cliente con su uso de crédito.
func (uc *CustomerUseCase) Get(ctx context.Context, shopID, id string) (*dto.CustomerResponse, error) {
	c, err := uc.repo.GetByID(ctx, shopID, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	return toCustomerResponse(c), nil
}

// List lista clientes por nombre; search filtra por nombre o teléfono.
func (uc *CustomerUseCase) List(ctx context.Context, shopID, search string, page dto.PageRequest) (*dto.CustomerListResponse, error) {
	page.DefaultPage()
	list, total, err := uc.repo.List(ctx, shopID, repository.CustomerFilter{
		Search: strings.TrimSpace(search),
		Limit:  page.Limit,
		Offset: page.Offset,
	})
	if err != nil {
		return nil, err
	}
	out := make([]*dto.CustomerResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toCustomerResponse(c))
	}
	return &dto.CustomerListResponse{
		Items: out,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// Update modifica los datos del cliente. Un cambio de saldo inicial se traslada al saldo actual.
func (uc *CustomerUseCase) Update(ctx context.Context, shopID, id string, in dto.CustomerRequest) (*dto.CustomerResponse, error) {
	if err := normalizeCustomer(&in); err != nil {
		return nil, err
	}
	var out *entity.Customer
	err := uc.txRunner.Run(ctx, func(tx repository.TxRepos) error {
		c, err := tx.Customers.GetByID(ctx, shopID, id)
		if err != nil {
			return err
		}
		if c == nil {
			return domain.ErrNotFound
		}
		if in.Phone != "" && in.Phone != c.Phone {
			other, err := tx.Customers.GetByPhone(ctx, shopID, in.Phone)
			if err != nil {
				return err
			}
			if other != nil && other.ID != c.ID {
				return domain.ErrDuplicate
			}
		}
		c.CurrentBalance = c.CurrentBalance.Add(in.OpeningBalance.Sub(c.OpeningBalance))
		c.Name = in.Name
		c.Phone = in.Phone
		c.Email = in.Email
		c.Address = in.Address
		c.CustomerType = in.CustomerType
		c.BalanceType = in.BalanceType
		c.OpeningBalance = in.OpeningBalance
		c.CreditLimit = in.CreditLimit
		c.Notes = in.Notes
		c.UpdatedAt = uc.now()
		out = c
		return tx.Customers.Update(ctx, c)
	})
	if err != nil {
		return nil, err
	}
	return toCustomerResponse(out), nil
}

// Delete envía el cliente a la papelera. Falla con ErrConflict si tiene facturas con saldo pendiente.
func (uc *CustomerUseCase) Delete(ctx context.Context, shopID, id string) error {
	return uc.txRunner.Run(ctx, func(tx repository.TxRepos) error {
		c, err := tx.Customers.GetByID(ctx, shopID, id)
		if err != nil {
			return err
		}
		if c == nil {
			return domain.ErrNotFound
		}
		invoices, _, err := tx.Invoices.List(ctx, shopID, repository.InvoiceFilter{CustomerID: id})
		if err != nil {
			return err
		}
		for _, inv := range invoices {
			if billingcore.BalanceDue(inv.TotalAmount, inv.PaidAmount).IsPositive() {
				return domain.ErrConflict
			}
		}
		entry, err := entity.NewRecycledEntry(uuid.New().String(), shopID, entity.RecycledCustomer, c.ID, c.Name, c, uc.now())
		if err != nil {
			return err
		}
		if err := tx.Recycle.Create(ctx, entry); err != nil {
			return err
		}
		return tx.Customers.Delete(ctx, shopID, id)
	})
}

// CreditSummary saldo, deuda de facturas y uso del límite de crédito del cliente.
func (uc *CustomerUseCase) CreditSummary(ctx context.Context, shopID, id string) (*dto.CreditSummaryResponse, error) {
	c, err := uc.repo.GetByID(ctx, shopID, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	invoices, _, err := uc.invoices.List(ctx, shopID, repository.InvoiceFilter{CustomerID: id})
	if err != nil {
		return nil, err
	}
	out := &dto.CreditSummaryResponse{
		CustomerID:     c.ID,
		OpeningBalance: c.OpeningBalance,
		Outstanding:    decimal.Zero,
		CurrentBalance: c.CurrentBalance,
		CreditLimit:    c.CreditLimit,
	}
	for _, inv := range invoices {
		due := billingcore.BalanceDue(inv.TotalAmount, inv.PaidAmount)
		out.Outstanding = out.Outstanding.Add(due)
		if due.IsPositive() {
			out.OpenInvoiceCount++
		}
		if out.LastInvoiceDate == nil || inv.InvoiceDate.After(*out.LastInvoiceDate) {
			d := inv.InvoiceDate
			out.LastInvoiceDate = &d
		}
	}
	out.UsagePercentage = billingcore.UsagePercentage(c.CurrentBalance, c.CreditLimit)
	out.UsageLevel = billingcore.UsageLevel(out.UsagePercentage)
	out.OverLimit = billingcore.OverLimit(c.CurrentBalance, c.CreditLimit)
	return out, nil
}
