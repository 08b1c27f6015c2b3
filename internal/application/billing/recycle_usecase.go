package billing

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/swarna-khata-api/internal/application/dto"
	"github.com/jhoicas/swarna-khata-api/internal/application/ports"
	"github.com/jhoicas/swarna-khata-api/internal/domain"
	billingcore "github.com/jhoicas/swarna-khata-api/internal/domain/billing"
	"github.com/jhoicas/swarna-khata-api/internal/domain/entity"
	"github.com/jhoicas/swarna-khata-api/internal/domain/repository"
)

// RecycleBinUseCase lista, restaura y purga los registros eliminados.
type RecycleBinUseCase struct {
	txRunner repository.TxRunner
	repo     repository.RecycleBinRepository
	shops    repository.ShopRepository
	notifier ports.Notifier
	log      zerolog.Logger
	now      func() time.Time
}

// NewRecycleBinUseCase construye el caso de uso.
func NewRecycleBinUseCase(txRunner repository.TxRunner, repo repository.RecycleBinRepository, shops repository.ShopRepository, notifier ports.Notifier, log zerolog.Logger) *RecycleBinUseCase {
	return &RecycleBinUseCase{txRunner: txRunner, repo: repo, shops: shops, notifier: notifier, log: log, now: time.Now}
}

// List lista la papelera de la tienda; itemType vacío = todos los tipos.
func (uc *RecycleBinUseCase) List(ctx context.Context, shopID, itemType string) ([]dto.RecycledEntryResponse, error) {
	switch itemType {
	case "", entity.RecycledInvoice, entity.RecycledCustomer, entity.RecycledItem:
	default:
		return nil, domain.ErrInvalidInput
	}
	list, err := uc.repo.List(ctx, shopID, itemType)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	out := make([]dto.RecycledEntryResponse, 0, len(list))
	for _, e := range list {
		days := 0
		if left := e.ExpiresAt.Sub(now); left > 0 {
			days = int((left + 24*time.Hour - 1) / (24 * time.Hour))
		}
		out = append(out, dto.RecycledEntryResponse{
			ID:            e.ID,
			ItemType:      e.ItemType,
			ItemID:        e.ItemID,
			ItemName:      e.ItemName,
			DeletedAt:     e.DeletedAt,
			ExpiresAt:     e.ExpiresAt,
			DaysRemaining: days,
		})
	}
	return out, nil
}

// Restore devuelve el registro a su colección. Una factura restaurada vuelve a descontar stock
// y a sumar su saldo al cliente; si ya no hay stock falla con ErrInsufficientStock.
func (uc *RecycleBinUseCase) Restore(ctx context.Context, shopID, entryID string) error {
	shop, err := uc.shops.GetByID(ctx, shopID)
	if err != nil {
		return err
	}
	if shop == nil {
		return domain.ErrNotFound
	}
	fx := &effects{}
	err = uc.txRunner.Run(ctx, func(tx repository.TxRepos) error {
		entry, err := tx.Recycle.GetByID(ctx, shopID, entryID)
		if err != nil {
			return err
		}
		if entry == nil {
			return domain.ErrNotFound
		}
		if entry.Expired(uc.now()) {
			return domain.ErrExpired
		}
		switch entry.ItemType {
		case entity.RecycledInvoice:
			err = restoreInvoice(ctx, tx, shop, entry.Payload, fx)
		case entity.RecycledCustomer:
			err = restoreCustomer(ctx, tx, shopID, entry.Payload)
		case entity.RecycledItem:
			err = restoreItem(ctx, tx, shopID, entry.Payload)
		default:
			err = fmt.Errorf("papelera: tipo desconocido %q: %w", entry.ItemType, domain.ErrInvalidInput)
		}
		if err != nil {
			return err
		}
		return tx.Recycle.Delete(ctx, shopID, entryID)
	})
	if err != nil {
		return err
	}
	for _, n := range fx.notifications {
		uc.notifier.Notify(ctx, n)
	}
	uc.log.Info().Str("shop_id", shopID).Str("entry_id", entryID).Msg("registro restaurado")
	return nil
}

func restoreInvoice(ctx context.Context, tx repository.TxRepos, shop *entity.Shop, payload []byte, fx *effects) error {
	var inv entity.Invoice
	if err := json.Unmarshal(payload, &inv); err != nil {
		return fmt.Errorf("papelera: factura ilegible: %w", err)
	}
	if inv.ShopID != shop.ID {
		return domain.ErrForbidden
	}
	existing, err := tx.Invoices.GetByID(ctx, shop.ID, inv.ID)
	if err != nil {
		return err
	}
	if existing != nil {
		return domain.ErrConflict
	}
	billingcore.Refresh(&inv)
	// Los artículos borrados del catálogo no devolvieron stock al eliminar; tampoco lo descuentan ahora.
	delta := billingcore.StockDelta(nil, inv.Items)
	for itemID := range delta {
		item, err := tx.Items.GetByID(ctx, shop.ID, itemID)
		if err != nil {
			return err
		}
		if item == nil {
			delete(delta, itemID)
		}
	}
	if err := applyStock(ctx, tx, shop, delta, fx); err != nil {
		return err
	}
	if inv.CustomerID != "" {
		c, err := tx.Customers.GetByID(ctx, shop.ID, inv.CustomerID)
		if err != nil {
			return err
		}
		// Sin cliente la factura se restaura como venta de mostrador con los datos guardados.
		if c == nil {
			inv.CustomerID = ""
		}
	}
	due := billingcore.BalanceDue(inv.TotalAmount, inv.PaidAmount)
	if err := applyBalance(ctx, tx, shop.ID, inv.CustomerID, due, fx); err != nil {
		return err
	}
	return tx.Invoices.Create(ctx, &inv)
}

func restoreCustomer(ctx context.Context, tx repository.TxRepos, shopID string, payload []byte) error {
	var c entity.Customer
	if err := json.Unmarshal(payload, &c); err != nil {
		return fmt.Errorf("papelera: cliente ilegible: %w", err)
	}
	if c.ShopID != shopID {
		return domain.ErrForbidden
	}
	// El saldo se recalcula con las facturas vivas: pudieron cambiar mientras estaba en la papelera.
	invoices, _, err := tx.Invoices.List(ctx, shopID, repository.InvoiceFilter{CustomerID: c.ID})
	if err != nil {
		return err
	}
	c.CurrentBalance = c.OpeningBalance
	for _, inv := range invoices {
		c.CurrentBalance = c.CurrentBalance.Add(billingcore.BalanceDue(inv.TotalAmount, inv.PaidAmount))
	}
	return tx.Customers.Create(ctx, &c)
}

func restoreItem(ctx context.Context, tx repository.TxRepos, shopID string, payload []byte) error {
	var item entity.JewelleryItem
	if err := json.Unmarshal(payload, &item); err != nil {
		return fmt.Errorf("papelera: artículo ilegible: %w", err)
	}
	if item.ShopID != shopID {
		return domain.ErrForbidden
	}
	return tx.Items.Create(ctx, &item)
}

// PurgeExpired borra definitivamente las lápidas vencidas.
func (uc *RecycleBinUseCase) PurgeExpired(ctx context.Context) (int, error) {
	n, err := uc.repo.DeleteExpired(ctx, uc.now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		uc.log.Info().Int("purged", n).Msg("papelera purgada")
	}
	return n, nil
}
