package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/swarna-khata-api/internal/application/auth"
	"github.com/jhoicas/swarna-khata-api/internal/application/dto"
	"github.com/jhoicas/swarna-khata-api/internal/application/usecase"
)

// ShopHandler perfil de la tienda y ajustes del PDF.
type ShopHandler struct {
	uc   *usecase.ShopUseCase
	auth *auth.AuthUseCase
}

// NewShopHandler construye el handler.
func NewShopHandler(uc *usecase.ShopUseCase, authUC *auth.AuthUseCase) *ShopHandler {
	return &ShopHandler{uc: uc, auth: authUC}
}

// Create godoc
// @Summary      Crear tienda
// @Description  El usuario queda como admin de la tienda; la respuesta trae un token nuevo con shop_id.
// @Tags         shop
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ShopRequest  true  "Datos de la tienda"
// @Success      201   {object}  dto.CreateShopResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/shop [post]
func (h *ShopHandler) Create(c *fiber.Ctx) error {
	var in dto.ShopRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if in.Name == "" || in.Phone == "" {
		return validation(c, "name y phone son requeridos")
	}
	userID := GetUserID(c)
	shop, err := h.uc.Create(c.UserContext(), userID, in)
	if err != nil {
		return respondError(c, err)
	}
	token, err := h.auth.RefreshForShop(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.CreateShopResponse{Shop: *shop, Token: token})
}

// Get godoc
// @Summary      Perfil de la tienda
// @Tags         shop
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ShopResponse
// @Router       /api/shop [get]
func (h *ShopHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetShopID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar perfil de la tienda
// @Tags         shop
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ShopRequest  true  "Datos de la tienda"
// @Success      200   {object}  dto.ShopResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/shop [put]
func (h *ShopHandler) Update(c *fiber.Ctx) error {
	var in dto.ShopRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), GetShopID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetPDFSettings godoc
// @Summary      Ajustes del PDF de factura
// @Tags         shop
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.PDFSettingsDTO
// @Router       /api/shop/pdf-settings [get]
func (h *ShopHandler) GetPDFSettings(c *fiber.Ctx) error {
	out, err := h.uc.GetPDFSettings(c.UserContext(), GetShopID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// UpdatePDFSettings godoc
// @Summary      Guardar ajustes del PDF
// @Tags         shop
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PDFSettingsDTO  true  "Ajustes"
// @Success      200   {object}  dto.PDFSettingsDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/shop/pdf-settings [put]
func (h *ShopHandler) UpdatePDFSettings(c *fiber.Ctx) error {
	var in dto.PDFSettingsDTO
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.UpdatePDFSettings(c.UserContext(), GetShopID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
