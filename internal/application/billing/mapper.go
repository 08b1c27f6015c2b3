package billing

import (
	"github.com/jhoicas/swarna-khata-api/internal/application/dto"
	billingcore "github.com/jhoicas/swarna-khata-api/internal/domain/billing"
	"github.com/jhoicas/swarna-khata-api/internal/domain/entity"
)

func toInvoiceResponse(inv *entity.Invoice, shop *entity.Shop) *dto.InvoiceResponse {
	t := billingcore.Recompute(inv)
	out := &dto.InvoiceResponse{
		ID:              inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		CustomerID:      inv.CustomerID,
		CustomerName:    inv.CustomerName,
		CustomerPhone:   inv.CustomerPhone,
		CustomerAddress: inv.CustomerAddress,
		InvoiceDate:     inv.InvoiceDate,
		DueDate:         inv.DueDate,
		Items:           make([]dto.InvoiceItemResponse, 0, len(inv.Items)),
		Payments:        make([]dto.PaymentResponse, 0, len(inv.Payments)),
		Totals:          t,
		TotalAmount:     inv.TotalAmount,
		PaidAmount:      inv.PaidAmount,
		PaymentStatus:   inv.PaymentStatus,
		StatusLabel:     billingcore.StatusLabel(inv.PaymentStatus, shop.BusinessType),
		MetalWeights:    billingcore.MetalWeights(inv.Items),
		Notes:           inv.Notes,
		CreatedAt:       inv.CreatedAt,
		UpdatedAt:       inv.UpdatedAt,
	}
	for _, it := range inv.Items {
		out.Items = append(out.Items, dto.InvoiceItemResponse{
			ID:           it.ID,
			ItemID:       it.ItemID,
			Quantity:     it.Quantity,
			Price:        it.Price,
			UsedWeight:   it.UsedWeight,
			ItemDetails:  it.ItemDetails,
			Amount:       billingcore.LineAmount(it),
			ExtraCharges: billingcore.ItemExtraCharges(it),
			Tax:          billingcore.ItemTax(it),
		})
	}
	for _, p := range inv.Payments {
		out.Payments = append(out.Payments, dto.PaymentResponse{
			ID:        p.ID,
			Amount:    p.Amount,
			Method:    p.Method,
			Date:      p.Date,
			Reference: p.Reference,
			Notes:     p.Notes,
		})
	}
	if inv.IsMetalExchangeApplied {
		out.MetalExchange = &dto.MetalExchangeResponse{
			FineGold:      inv.FineGoldAmount,
			FineSilver:    inv.FineSilverAmount,
			GoldRate:      inv.FineGoldRate,
			SilverRate:    inv.FineSilverRate,
			FineValue:     t.FineValue,
			OriginalTotal: t.OriginalTotal,
		}
	}
	return out
}

func toInvoiceSummary(inv *entity.Invoice, shop *entity.Shop) dto.InvoiceSummary {
	return dto.InvoiceSummary{
		ID:            inv.ID,
		InvoiceNumber: inv.InvoiceNumber,
		CustomerID:    inv.CustomerID,
		CustomerName:  inv.CustomerName,
		InvoiceDate:   inv.InvoiceDate,
		TotalAmount:   inv.TotalAmount,
		PaidAmount:    inv.PaidAmount,
		BalanceDue:    billingcore.Outstanding(inv.TotalAmount, inv.PaidAmount),
		PaymentStatus: inv.PaymentStatus,
		StatusLabel:   billingcore.StatusLabel(inv.PaymentStatus, shop.BusinessType),
		ItemCount:     len(inv.Items),
	}
}

func toCustomerResponse(c *entity.Customer) *dto.CustomerResponse {
	pct := billingcore.UsagePercentage(c.CurrentBalance, c.CreditLimit)
	return &dto.CustomerResponse{
		ID:              c.ID,
		Name:            c.Name,
		Phone:           c.Phone,
		Email:           c.Email,
		Address:         c.Address,
		CustomerType:    c.CustomerType,
		BalanceType:     c.BalanceType,
		OpeningBalance:  c.OpeningBalance,
		CurrentBalance:  c.CurrentBalance,
		CreditLimit:     c.CreditLimit,
		UsagePercentage: pct,
		UsageLevel:      billingcore.UsageLevel(pct),
		OverLimit:       billingcore.OverLimit(c.CurrentBalance, c.CreditLimit),
		Notes:           c.Notes,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}
