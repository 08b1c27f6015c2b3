package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Metales soportados.
const (
	MetalGold   = "gold"
	MetalSilver = "silver"
)

// MetalRate tarifa vigente por gramo de un metal y pureza en una tienda.
type MetalRate struct {
	ShopID      string          `json:"shop_id"`
	Metal       string          `json:"metal"`
	Purity      string          `json:"purity"`
	RatePerGram decimal.Decimal `json:"rate_per_gram"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
