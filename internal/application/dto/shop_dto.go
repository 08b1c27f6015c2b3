package dto

import "time"

// ShopRequest body para crear o actualizar la tienda.
type ShopRequest struct {
	Name              string `json:"name"`
	OwnerName         string `json:"owner_name"`
	Phone             string `json:"phone"`
	Email             string `json:"email,omitempty"`
	Address           string `json:"address,omitempty"`
	GSTIN             string `json:"gstin,omitempty"`
	BusinessType      string `json:"business_type"`
	LowStockThreshold *int   `json:"low_stock_threshold,omitempty"`
}

// ShopResponse tienda en respuestas.
type ShopResponse struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	OwnerName         string    `json:"owner_name"`
	Phone             string    `json:"phone"`
	Email             string    `json:"email,omitempty"`
	Address           string    `json:"address,omitempty"`
	GSTIN             string    `json:"gstin,omitempty"`
	BusinessType      string    `json:"business_type"`
	LowStockThreshold int       `json:"low_stock_threshold"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// CreateShopResponse incluye el token reemitido con shop_id y rol admin.
type CreateShopResponse struct {
	Shop  ShopResponse `json:"shop"`
	Token string       `json:"token"`
}

// PDFSettingsDTO configuración del PDF (request y response).
type PDFSettingsDTO struct {
	ShowItemWeights    bool   `json:"show_item_weights"`
	ShowExtraCharges   bool   `json:"show_extra_charges"`
	ShowTaxBreakdown   bool   `json:"show_tax_breakdown"`
	ShowPaymentHistory bool   `json:"show_payment_history"`
	TermsAndConditions string `json:"terms_and_conditions,omitempty"`
	FooterNote         string `json:"footer_note,omitempty"`
	AccentColor        string `json:"accent_color,omitempty"`
}
