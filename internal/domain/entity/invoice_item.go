package entity

import "github.com/shopspring/decimal"

// InvoiceItem línea de factura. La identidad es ID (único por línea), no ItemID:
// dos líneas del mismo artículo del catálogo son entidades distintas.
type InvoiceItem struct {
	ID          string          `json:"id"`
	ItemID      string          `json:"itemId"`
	Quantity    decimal.Decimal `json:"quantity"`
	ItemDetails JewelleryItem   `json:"itemDetails"`
	Price       decimal.Decimal `json:"price"` // precio unitario acordado
	UsedWeight  decimal.Decimal `json:"usedWeight"`
}

// IsSameItem igualdad de negocio: mismo artículo, mismo snapshot y mismo precio.
func (it InvoiceItem) IsSameItem(o InvoiceItem) bool {
	return it.ItemID == o.ItemID && it.Price.Equal(o.Price) && it.ItemDetails.Equal(o.ItemDetails)
}

// Clone copia la línea sin compartir la lista de cargos extra.
func (it InvoiceItem) Clone() InvoiceItem {
	c := it
	c.ItemDetails.ListOfExtraCharges = append([]ExtraCharge(nil), it.ItemDetails.ListOfExtraCharges...)
	return c
}
