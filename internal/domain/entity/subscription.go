package entity

import "time"

// Productos de Play Billing.
const (
	PlanBasicMonthly   = "basic_monthly"
	PlanBasicYearly    = "basic_yearly"
	PlanPremiumMonthly = "premium_monthly"
	PlanPremiumYearly  = "premium_yearly"
)

// Funciones restringidas por plan (deben coincidir con las rutas protegidas por RequireFeature).
const (
	FeatureReports       = "reports"
	FeaturePDFExport     = "pdf_export"
	FeatureTallyExport   = "tally_export"
	FeatureMetalExchange = "metal_exchange"
)

// Subscription compra registrada de un plan.
type Subscription struct {
	ID            string
	ShopID        string
	ProductID     string
	PurchaseToken string
	StartedAt     time.Time
	ExpiresAt     time.Time
	AutoRenew     bool
	CreatedAt     time.Time
}

// Active indica si el plan cubre el instante dado.
func (s *Subscription) Active(now time.Time) bool {
	return s != nil && !now.Before(s.StartedAt) && now.Before(s.ExpiresAt)
}
