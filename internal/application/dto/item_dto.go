package dto

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/swarna-khata-api/internal/domain/entity"
)

// ItemRequest body para POST/PUT /api/items (camelCase como el documento del catálogo).
type ItemRequest struct {
	DisplayName        string               `json:"displayName"`
	JewelryCode        string               `json:"jewelryCode"`
	ItemType           string               `json:"itemType"`
	Category           string               `json:"category"`
	GrossWeight        decimal.Decimal      `json:"grossWeight"`
	NetWeight          decimal.Decimal      `json:"netWeight"`
	Wastage            decimal.Decimal      `json:"wastage"`
	Purity             string               `json:"purity"`
	MakingCharges      decimal.Decimal      `json:"makingCharges"`
	MakingChargesType  string               `json:"makingChargesType"`
	MetalRate          decimal.Decimal      `json:"metalRate"`
	MetalRateOn        string               `json:"metalRateOn"`
	TaxRate            decimal.Decimal      `json:"taxRate"`
	Stock              decimal.Decimal      `json:"stock"`
	Location           string               `json:"location,omitempty"`
	ListOfExtraCharges []entity.ExtraCharge `json:"listOfExtraCharges"`
}

// ItemResponse artículo con su precio sugerido.
type ItemResponse struct {
	entity.JewelleryItem
	SuggestedPrice decimal.Decimal `json:"suggestedPrice"`
	LowStock       bool            `json:"lowStock"`
}

// ItemListResponse página del catálogo.
type ItemListResponse struct {
	Items []*ItemResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}

// AdjustStockRequest body para POST /api/items/:id/stock.
type AdjustStockRequest struct {
	Delta  decimal.Decimal `json:"delta"`
	Reason string          `json:"reason,omitempty"`
}

// MetalRateRequest body para PUT /api/metal-rates.
type MetalRateRequest struct {
	Metal       string          `json:"metal"`
	Purity      string          `json:"purity"`
	RatePerGram decimal.Decimal `json:"rate_per_gram"`
}
