package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/swarna-khata-api/internal/application/dto"
)

// featureChecker lo implementa *usecase.SubscriptionService.
type featureChecker interface {
	HasFeature(ctx context.Context, shopID, feature string) (bool, error)
}

// RequireFeature corta la petición si el plan de la tienda no incluye feature.
// Va después de AuthMiddleware y RequireShop.
//
//   - 402 FEATURE_LOCKED: el plan vigente no cubre la función.
//   - 503 PLAN_CHECK_FAILED: no se pudo leer la suscripción.
func RequireFeature(feature string, checker featureChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		shopID := GetShopID(c)
		if shopID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    "UNAUTHORIZED",
				Message: "shop_id no encontrado en el token",
			})
		}

		ok, err := checker.HasFeature(c.UserContext(), shopID, feature)
		if err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code:    "PLAN_CHECK_FAILED",
				Message: "no se pudo verificar el plan, intente más tarde",
			})
		}
		if !ok {
			return c.Status(fiber.StatusPaymentRequired).JSON(dto.ErrorResponse{
				Code:    "FEATURE_LOCKED",
				Message: "la función '" + feature + "' requiere un plan superior",
			})
		}
		return c.Next()
	}
}
