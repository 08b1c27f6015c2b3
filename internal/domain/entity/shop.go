package entity

import "time"

// Tipos de negocio. El mayorista ve etiquetas de estado distintas (TO PAY / PARTIALLY PAID).
const (
	BusinessRetailer   = "retailer"
	BusinessWholesaler = "wholesaler"
)

// Shop representa una joyería (tenant del sistema).
type Shop struct {
	ID                string
	OwnerUserID       string
	Name              string
	OwnerName         string
	Phone             string
	Email             string
	Address           string
	GSTIN             string // número de registro GST (India), opcional
	BusinessType      string // retailer, wholesaler
	LowStockThreshold int    // stock igual o menor dispara LOW_STOCK
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// PDFSettings opciones de la representación PDF de las facturas de una tienda.
type PDFSettings struct {
	ShopID             string
	ShowItemWeights    bool
	ShowExtraCharges   bool
	ShowTaxBreakdown   bool
	ShowPaymentHistory bool
	TermsAndConditions string
	FooterNote         string
	AccentColor        string // hex "#RRGGBB"
	UpdatedAt          time.Time
}

// DefaultPDFSettings valores por defecto cuando la tienda no guardó configuración.
func DefaultPDFSettings(shopID string) *PDFSettings {
	return &PDFSettings{
		ShopID:             shopID,
		ShowItemWeights:    true,
		ShowExtraCharges:   true,
		ShowTaxBreakdown:   true,
		ShowPaymentHistory: true,
		FooterNote:         "Gracias por su compra",
		AccentColor:        "#8A6D1D",
	}
}
