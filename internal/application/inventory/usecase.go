package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/swarna-khata-api/internal/application/dto"
	"github.com/jhoicas/swarna-khata-api/internal/application/ports"
	"github.com/jhoicas/swarna-khata-api/internal/domain"
	"github.com/jhoicas/swarna-khata-api/internal/domain/billing"
	"github.com/jhoicas/swarna-khata-api/internal/domain/entity"
	"github.com/jhoicas/swarna-khata-api/internal/domain/repository"
)

var hundred = decimal.NewFromInt(100)

// ItemUseCase catálogo de joyas de la tienda: alta, edición, stock y papelera.
type ItemUseCase struct {
	txRunner repository.TxRunner
	repo     repository.ItemRepository
	shops    repository.ShopRepository
	notifier ports.Notifier
	log      zerolog.Logger
	now      func() time.Time
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(
	txRunner repository.TxRunner,
	repo repository.ItemRepository,
	shops repository.ShopRepository,
	notifier ports.Notifier,
	log zerolog.Logger,
) *ItemUseCase {
	return &ItemUseCase{
		txRunner: txRunner,
		repo:     repo,
		shops:    shops,
		notifier: notifier,
		log:      log,
		now:      time.Now,
	}
}

func validateItem(in *dto.ItemRequest) error {
	in.DisplayName = strings.TrimSpace(in.DisplayName)
	in.JewelryCode = strings.TrimSpace(in.JewelryCode)
	if in.DisplayName == "" || in.ItemType == "" {
		return domain.ErrInvalidInput
	}
	for _, d := range []decimal.Decimal{in.GrossWeight, in.NetWeight, in.Wastage, in.MakingCharges, in.MetalRate, in.TaxRate, in.Stock} {
		if d.IsNegative() {
			return domain.ErrInvalidInput
		}
	}
	if in.NetWeight.GreaterThan(in.GrossWeight) || in.TaxRate.GreaterThan(hundred) {
		return domain.ErrInvalidInput
	}
	switch in.MakingChargesType {
	case "":
		in.MakingChargesType = entity.MakingPerGram
	case entity.MakingPerGram, entity.MakingFixed:
	default:
		return domain.ErrInvalidInput
	}
	switch in.MetalRateOn {
	case "":
		in.MetalRateOn = entity.MetalRateOnNet
	case entity.MetalRateOnNet, entity.MetalRateOnGross:
	default:
		return domain.ErrInvalidInput
	}
	for _, c := range in.ListOfExtraCharges {
		if strings.TrimSpace(c.Name) == "" || c.Amount.IsNegative() {
			return domain.ErrInvalidInput
		}
	}
	return nil
}

func applyItem(item *entity.JewelleryItem, in dto.ItemRequest) {
	item.DisplayName = in.DisplayName
	item.JewelryCode = in.JewelryCode
	item.ItemType = in.ItemType
	item.Category = in.Category
	item.GrossWeight = in.GrossWeight
	item.NetWeight = in.NetWeight
	item.Wastage = in.Wastage
	item.Purity = in.Purity
	item.MakingCharges = in.MakingCharges
	item.MakingChargesType = in.MakingChargesType
	item.MetalRate = in.MetalRate
	item.MetalRateOn = in.MetalRateOn
	item.TaxRate = in.TaxRate
	item.Location = in.Location
	item.ListOfExtraCharges = append([]entity.ExtraCharge(nil), in.ListOfExtraCharges...)
}

func (uc *ItemUseCase) threshold(ctx context.Context, shopID string) (decimal.Decimal, error) {
	shop, err := uc.shops.GetByID(ctx, shopID)
	if err != nil {
		return decimal.Zero, err
	}
	if shop == nil {
		return decimal.Zero, domain.ErrNotFound
	}
	return decimal.NewFromInt(int64(shop.LowStockThreshold)), nil
}

func toItemResponse(item *entity.JewelleryItem, threshold decimal.Decimal) *dto.ItemResponse {
	return &dto.ItemResponse{
		JewelleryItem:  *item,
		SuggestedPrice: billing.SuggestedPrice(*item),
		LowStock:       item.Stock.LessThanOrEqual(threshold),
	}
}

// Create da de alta un artículo. El código, si viene, es único en la tienda.
func (uc *ItemUseCase) Create(ctx context.Context, shopID string, in dto.ItemRequest) (*dto.ItemResponse, error) {
	if err := validateItem(&in); err != nil {
		return nil, err
	}
	threshold, err := uc.threshold(ctx, shopID)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	item := &entity.JewelleryItem{
		ID:        uuid.New().String(),
		ShopID:    shopID,
		Stock:     in.Stock,
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyItem(item, in)
	if err := uc.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	return toItemResponse(item, threshold), nil
}

// Get devuelve el artículo con su precio sugerido.
func (uc *ItemUseCase) Get(ctx context.Context, shopID, id string) (*dto.ItemResponse, error) {
	threshold, err := uc.threshold(ctx, shopID)
	if err != nil {
		return nil, err
	}
	item, err := uc.repo.GetByID(ctx, shopID, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return toItemResponse(item, threshold), nil
}

// List lista el catálogo filtrado por texto, tipo o categoría.
func (uc *ItemUseCase) List(ctx context.Context, shopID string, f repository.ItemFilter) (*dto.ItemListResponse, error) {
	page := dto.PageRequest{Limit: f.Limit, Offset: f.Offset}
	page.DefaultPage()
	f.Limit, f.Offset = page.Limit, page.Offset
	threshold, err := uc.threshold(ctx, shopID)
	if err != nil {
		return nil, err
	}
	list, total, err := uc.repo.List(ctx, shopID, f)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ItemResponse, 0, len(list))
	for _, item := range list {
		out = append(out, toItemResponse(item, threshold))
	}
	return &dto.ItemListResponse{
		Items: out,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// Update edita los datos del artículo. El stock solo cambia con AdjustStock o con las facturas.
func (uc *ItemUseCase) Update(ctx context.Context, shopID, id string, in dto.ItemRequest) (*dto.ItemResponse, error) {
	if err := validateItem(&in); err != nil {
		return nil, err
	}
	threshold, err := uc.threshold(ctx, shopID)
	if err != nil {
		return nil, err
	}
	item, err := uc.repo.GetByID(ctx, shopID, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	applyItem(item, in)
	item.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	return toItemResponse(item, threshold), nil
}

// AdjustStock suma delta al stock (entrada positiva, merma negativa).
func (uc *ItemUseCase) AdjustStock(ctx context.Context, shopID, id string, in dto.AdjustStockRequest) (*dto.ItemResponse, error) {
	if in.Delta.IsZero() {
		return nil, domain.ErrInvalidInput
	}
	threshold, err := uc.threshold(ctx, shopID)
	if err != nil {
		return nil, err
	}
	item, err := uc.repo.GetByID(ctx, shopID, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	stock, err := uc.repo.AdjustStock(ctx, shopID, id, in.Delta)
	if err != nil {
		return nil, err
	}
	item.Stock = stock
	uc.log.Info().Str("shop_id", shopID).Str("item_id", id).Str("delta", in.Delta.String()).Str("reason", in.Reason).Msg("ajuste de stock")
	if in.Delta.IsNegative() && stock.LessThanOrEqual(threshold) {
		amount := stock
		uc.notifier.Notify(ctx, &entity.Notification{
			ShopID:  shopID,
			Type:    entity.NotificationLowStock,
			Title:   "Stock bajo",
			Message: fmt.Sprintf("%s (%s): quedan %s", item.DisplayName, item.JewelryCode, stock.String()),
			ItemID:  id,
			Amount:  &amount,
		})
	}
	return toItemResponse(item, threshold), nil
}

// Delete envía el artículo a la papelera. Las facturas conservan su snapshot.
func (uc *ItemUseCase) Delete(ctx context.Context, shopID, id string) error {
	return uc.txRunner.Run(ctx, func(tx repository.TxRepos) error {
		item, err := tx.Items.GetByID(ctx, shopID, id)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		entry, err := entity.NewRecycledEntry(uuid.New().String(), shopID, entity.RecycledItem, item.ID, item.DisplayName, item, uc.now())
		if err != nil {
			return err
		}
		if err := tx.Recycle.Create(ctx, entry); err != nil {
			return err
		}
		return tx.Items.Delete(ctx, shopID, id)
	})
}
