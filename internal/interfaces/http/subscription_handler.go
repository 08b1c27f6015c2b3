package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/swarna-khata-api/internal/application/dto"
	"github.com/jhoicas/swarna-khata-api/internal/application/usecase"
)

// SubscriptionHandler compras de Play Billing y plan vigente.
type SubscriptionHandler struct {
	svc *usecase.SubscriptionService
}

func NewSubscriptionHandler(svc *usecase.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{svc: svc}
}

// Current godoc
// @Summary      Plan vigente de la tienda
// @Tags         subscriptions
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SubscriptionResponse
// @Router       /api/subscription [get]
func (h *SubscriptionHandler) Current(c *fiber.Ctx) error {
	out, err := h.svc.Current(c.UserContext(), GetShopID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// RecordPurchase godoc
// @Summary      Registrar compra
// @Tags         subscriptions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordPurchaseRequest  true  "Producto y token de compra"
// @Success      201   {object}  dto.SubscriptionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/subscription/purchases [post]
func (h *SubscriptionHandler) RecordPurchase(c *fiber.Ctx) error {
	var in dto.RecordPurchaseRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if in.ProductID == "" || in.PurchaseToken == "" {
		return validation(c, "product_id y purchase_token son requeridos")
	}
	out, err := h.svc.RecordPurchase(c.UserContext(), GetShopID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
