package billing

import (
	"context"

	"github.com/jhoicas/swarna-khata-api/internal/domain/entity"
)

// RateLookup resuelve la tarifa vigente de un metal para el cambio de metal fino.
// Pureza vacía = la única tarifa registrada del metal.
type RateLookup interface {
	Lookup(ctx context.Context, shopID, metal, purity string) (*entity.MetalRate, error)
}

// FeatureChecker informa si el plan de la tienda incluye una función (lo implementa
// *usecase.SubscriptionService).
type FeatureChecker interface {
	HasFeature(ctx context.Context, shopID, feature string) (bool, error)
}
