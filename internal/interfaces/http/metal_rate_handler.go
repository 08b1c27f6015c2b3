package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/swarna-khata-api/internal/application/dto"
	"github.com/jhoicas/swarna-khata-api/internal/application/usecase"
)

// MetalRateHandler tarifas del día por metal y pureza.
type MetalRateHandler struct {
	uc *usecase.MetalRateUseCase
}

func NewMetalRateHandler(uc *usecase.MetalRateUseCase) *MetalRateHandler {
	return &MetalRateHandler{uc: uc}
}

// List godoc
// @Summary      Tarifas vigentes
// @Tags         metal-rates
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.MetalRateResponse
// @Router       /api/metal-rates [get]
func (h *MetalRateHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), GetShopID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Set godoc
// @Summary      Fijar tarifa por gramo
// @Tags         metal-rates
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.MetalRateRequest  true  "Metal, pureza y tarifa"
// @Success      200   {object}  dto.MetalRateResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/metal-rates [put]
func (h *MetalRateHandler) Set(c *fiber.Ctx) error {
	var in dto.MetalRateRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Set(c.UserContext(), GetShopID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
