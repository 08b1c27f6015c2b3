package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/swarna-khata-api/internal/application/billing"
)

// RecycleBinHandler papelera de facturas, clientes y artículos.
type RecycleBinHandler struct {
	uc *billing.RecycleBinUseCase
}

func NewRecycleBinHandler(uc *billing.RecycleBinUseCase) *RecycleBinHandler {
	return &RecycleBinHandler{uc: uc}
}

// List godoc
// @Summary      Listar papelera
// @Tags         recycle-bin
// @Security     Bearer
// @Produce      json
// @Param        type  query  string  false  "invoice | customer | jewellery_item"
// @Success      200  {array}  dto.RecycledEntryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/recycle-bin [get]
func (h *RecycleBinHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), GetShopID(c), c.Query("type"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Restore godoc
// @Summary      Restaurar registro
// @Tags         recycle-bin
// @Security     Bearer
// @Param        id   path  string  true  "ID de la entrada"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      410  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/recycle-bin/{id}/restore [post]
func (h *RecycleBinHandler) Restore(c *fiber.Ctx) error {
	if err := h.uc.Restore(c.UserContext(), GetShopID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
