package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Base del precio del metal.
const (
	MetalRateOnNet   = "Net Weight"
	MetalRateOnGross = "Gross Weight"
)

// Tipo de cargo de hechura.
const (
	MakingPerGram = "PER_GRAM"
	MakingFixed   = "FIXED"
)

// ExtraCharge cargo adicional de un artículo (piedras, hallmark, etc.). Se multiplica por la cantidad de la línea.
type ExtraCharge struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// JewelleryItem artículo del catálogo. Se copia completo dentro de cada InvoiceItem al vender.
type JewelleryItem struct {
	ID                 string          `json:"id"`
	ShopID             string          `json:"shopId"`
	DisplayName        string          `json:"displayName"`
	JewelryCode        string          `json:"jewelryCode"`
	ItemType           string          `json:"itemType"` // ej: "Gold", "Silver", "Diamond Gold"
	Category           string          `json:"category"`
	GrossWeight        decimal.Decimal `json:"grossWeight"`
	NetWeight          decimal.Decimal `json:"netWeight"`
	Wastage            decimal.Decimal `json:"wastage"` // porcentaje
	Purity             string          `json:"purity"`  // ej: "22K", "916", "925"
	MakingCharges      decimal.Decimal `json:"makingCharges"`
	MakingChargesType  string          `json:"makingChargesType"`
	MetalRate          decimal.Decimal `json:"metalRate"` // por gramo
	MetalRateOn        string          `json:"metalRateOn"`
	TaxRate            decimal.Decimal `json:"taxRate"` // porcentaje, ej: 3
	Stock              decimal.Decimal `json:"stock"`
	Location           string          `json:"location,omitempty"`
	ListOfExtraCharges []ExtraCharge   `json:"listOfExtraCharges"`
	CreatedAt          time.Time       `json:"createdAt"`
	UpdatedAt          time.Time       `json:"updatedAt"`
}

// Equal compara el contenido comercial del snapshot (sin timestamps ni stock).
func (j JewelleryItem) Equal(o JewelleryItem) bool {
	if j.ID != o.ID || j.DisplayName != o.DisplayName || j.JewelryCode != o.JewelryCode ||
		j.ItemType != o.ItemType || j.Category != o.Category || j.Purity != o.Purity ||
		j.MakingChargesType != o.MakingChargesType || j.MetalRateOn != o.MetalRateOn {
		return false
	}
	if !j.GrossWeight.Equal(o.GrossWeight) || !j.NetWeight.Equal(o.NetWeight) ||
		!j.Wastage.Equal(o.Wastage) || !j.MakingCharges.Equal(o.MakingCharges) ||
		!j.MetalRate.Equal(o.MetalRate) || !j.TaxRate.Equal(o.TaxRate) {
		return false
	}
	if len(j.ListOfExtraCharges) != len(o.ListOfExtraCharges) {
		return false
	}
	for i := range j.ListOfExtraCharges {
		a, b := j.ListOfExtraCharges[i], o.ListOfExtraCharges[i]
		if a.Name != b.Name || !a.Amount.Equal(b.Amount) {
			return false
		}
	}
	return true
}
