package billing

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/swarna-khata-api/internal/domain"
	billingcore "github.com/jhoicas/swarna-khata-api/internal/domain/billing"
	"github.com/jhoicas/swarna-khata-api/internal/domain/entity"
	"github.com/jhoicas/swarna-khata-api/internal/domain/repository"
)

// effects acumula los avisos que se envían después de confirmar la transacción.
type effects struct {
	notifications []*entity.Notification
}

func (e *effects) add(n *entity.Notification) {
	e.notifications = append(e.notifications, n)
}

// applyStock descuenta (delta positivo) o devuelve (negativo) stock del catálogo.
// Las líneas cuyo artículo ya no existe se ignoran al devolver y fallan al descontar.
func applyStock(ctx context.Context, tx repository.TxRepos, shop *entity.Shop, delta map[string]decimal.Decimal, fx *effects) error {
	for itemID, d := range delta {
		item, err := tx.Items.GetByID(ctx, shop.ID, itemID)
		if err != nil {
			return fmt.Errorf("stock: obtener artículo: %w", err)
		}
		if item == nil {
			if d.IsPositive() {
				return fmt.Errorf("artículo %s: %w", itemID, domain.ErrNotFound)
			}
			continue
		}
		stock, err := tx.Items.AdjustStock(ctx, shop.ID, itemID, d.Neg())
		if err != nil {
			return err
		}
		threshold := decimal.NewFromInt(int64(shop.LowStockThreshold))
		if d.IsPositive() && stock.LessThanOrEqual(threshold) {
			amount := stock
			fx.add(&entity.Notification{
				ShopID:  shop.ID,
				Type:    entity.NotificationLowStock,
				Title:   "Stock bajo",
				Message: fmt.Sprintf("%s (%s): quedan %s", item.DisplayName, item.JewelryCode, stock.String()),
				ItemID:  itemID,
				Amount:  &amount,
			})
		}
	}
	return nil
}

// applyBalance suma delta al saldo del cliente y avisa si el uso de crédito entra en rojo.
func applyBalance(ctx context.Context, tx repository.TxRepos, shopID, customerID string, delta decimal.Decimal, fx *effects) error {
	if customerID == "" || delta.IsZero() {
		return nil
	}
	customer, err := tx.Customers.GetByID(ctx, shopID, customerID)
	if err != nil {
		return fmt.Errorf("saldo: obtener cliente: %w", err)
	}
	if customer == nil {
		return nil
	}
	if err := tx.Customers.AdjustBalance(ctx, shopID, customerID, delta); err != nil {
		return err
	}
	before := billingcore.UsageLevel(billingcore.UsagePercentage(customer.CurrentBalance, customer.CreditLimit))
	after := customer.CurrentBalance.Add(delta)
	pct := billingcore.UsagePercentage(after, customer.CreditLimit)
	if before != billingcore.UsageRed && billingcore.UsageLevel(pct) == billingcore.UsageRed {
		fx.add(&entity.Notification{
			ShopID:     shopID,
			Type:       entity.NotificationCreditLimit,
			Title:      "Límite de crédito",
			Message:    fmt.Sprintf("%s usa el %s%% de su límite de crédito", customer.Name, pct.StringFixed(0)),
			CustomerID: customerID,
			Amount:     &after,
		})
	}
	return nil
}
