package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/swarna-khata-api/internal/application/billing"
	"github.com/jhoicas/swarna-khata-api/internal/application/dto"
)

// InvoiceHandler facturas, sus líneas, pagos y documentos.
type InvoiceHandler struct {
	uc   *billing.InvoiceUseCase
	docs *billing.DocumentUseCase
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(uc *billing.InvoiceUseCase, docs *billing.DocumentUseCase) *InvoiceHandler {
	return &InvoiceHandler{uc: uc, docs: docs}
}

// Create godoc
// @Summary      Crear factura
// @Description  Descuenta stock y suma el saldo al cliente en la misma transacción. Sin customer_id es venta de mostrador.
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateInvoiceRequest  true  "Líneas y pagos"
// @Success      201   {object}  dto.InvoiceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/invoices [post]
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if len(in.Items) == 0 {
		return validation(c, "la factura necesita al menos una línea")
	}
	out, err := h.uc.Create(c.UserContext(), GetShopID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Preview godoc
// @Summary      Calcular totales sin guardar
// @Description  Con metal_exchange requiere la función metal_exchange del plan.
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TotalsPreviewRequest  true  "Borrador de factura"
// @Success      200   {object}  dto.InvoiceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      402   {object}  dto.ErrorResponse
// @Router       /api/invoices/preview [post]
func (h *InvoiceHandler) Preview(c *fiber.Ctx) error {
	var in dto.TotalsPreviewRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Preview(c.UserContext(), GetShopID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar facturas
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        status       query  string  false  "PAID | PARTIAL | UNPAID"
// @Param        customer_id  query  string  false  "Cliente"
// @Param        from         query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to           query  string  false  "Hasta inclusive (YYYY-MM-DD)"
// @Param        q            query  string  false  "Número, cliente o artículo"
// @Param        limit        query  int     false  "Límite"
// @Param        offset       query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.InvoiceListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/invoices [get]
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	var q dto.InvoiceListQuery
	if err := c.QueryParser(&q); err != nil {
		return validation(c, "parámetros de consulta inválidos")
	}
	out, err := h.uc.List(c.UserContext(), GetShopID(c), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener factura
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la factura"
// @Success      200  {object}  dto.InvoiceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id} [get]
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetShopID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Enviar factura a la papelera
// @Description  Devuelve el stock de las líneas y descuenta el saldo pendiente del cliente.
// @Tags         invoices
// @Security     Bearer
// @Param        id   path  string  true  "ID de la factura"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id} [delete]
func (h *InvoiceHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetShopID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AddItem godoc
// @Summary      Agregar línea
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID de la factura"
// @Param        body  body  dto.InvoiceLineRequest  true  "Línea"
// @Success      200   {object}  dto.InvoiceResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/items [post]
func (h *InvoiceHandler) AddItem(c *fiber.Ctx) error {
	var in dto.InvoiceLineRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if in.ItemID == "" {
		return validation(c, "item_id es requerido")
	}
	out, err := h.uc.AddItem(c.UserContext(), GetShopID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// UpdateItemQuantity godoc
// @Summary      Cambiar cantidad de una línea
// @Description  Una cantidad menor o igual a cero elimina la línea.
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id      path  string                     true  "ID de la factura"
// @Param        lineId  path  string                     true  "ID de la línea"
// @Param        body    body  dto.UpdateQuantityRequest  true  "Cantidad"
// @Success      200     {object}  dto.InvoiceResponse
// @Failure      422     {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/items/{lineId} [patch]
func (h *InvoiceHandler) UpdateItemQuantity(c *fiber.Ctx) error {
	var in dto.UpdateQuantityRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.UpdateItemQuantity(c.UserContext(), GetShopID(c), c.Params("id"), c.Params("lineId"), in.Quantity)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// EditItem godoc
// @Summary      Editar línea
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id      path  string               true  "ID de la factura"
// @Param        lineId  path  string               true  "ID de la línea"
// @Param        body    body  dto.EditItemRequest  true  "Precio, cantidad y detalle"
// @Success      200     {object}  dto.InvoiceResponse
// @Failure      422     {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/items/{lineId} [put]
func (h *InvoiceHandler) EditItem(c *fiber.Ctx) error {
	var in dto.EditItemRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.EditItem(c.UserContext(), GetShopID(c), c.Params("id"), c.Params("lineId"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// RemoveItem godoc
// @Summary      Quitar línea
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        id      path  string  true  "ID de la factura"
// @Param        lineId  path  string  true  "ID de la línea"
// @Success      200     {object}  dto.InvoiceResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/items/{lineId} [delete]
func (h *InvoiceHandler) RemoveItem(c *fiber.Ctx) error {
	out, err := h.uc.RemoveItem(c.UserContext(), GetShopID(c), c.Params("id"), c.Params("lineId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// AddPayment godoc
// @Summary      Registrar pago
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string              true  "ID de la factura"
// @Param        body  body  dto.PaymentRequest  true  "Pago"
// @Success      200   {object}  dto.InvoiceResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/payments [post]
func (h *InvoiceHandler) AddPayment(c *fiber.Ctx) error {
	var in dto.PaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if !in.Amount.IsPositive() {
		return validation(c, "amount debe ser mayor que cero")
	}
	out, err := h.uc.AddPayment(c.UserContext(), GetShopID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// EditPayment godoc
// @Summary      Editar pago
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id         path  string              true  "ID de la factura"
// @Param        paymentId  path  string              true  "ID del pago"
// @Param        body       body  dto.PaymentRequest  true  "Pago"
// @Success      200        {object}  dto.InvoiceResponse
// @Failure      404        {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/payments/{paymentId} [put]
func (h *InvoiceHandler) EditPayment(c *fiber.Ctx) error {
	var in dto.PaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.EditPayment(c.UserContext(), GetShopID(c), c.Params("id"), c.Params("paymentId"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// RemovePayment godoc
// @Summary      Eliminar pago
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        id         path  string  true  "ID de la factura"
// @Param        paymentId  path  string  true  "ID del pago"
// @Success      200        {object}  dto.InvoiceResponse
// @Failure      404        {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/payments/{paymentId} [delete]
func (h *InvoiceHandler) RemovePayment(c *fiber.Ctx) error {
	out, err := h.uc.RemovePayment(c.UserContext(), GetShopID(c), c.Params("id"), c.Params("paymentId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ApplyMetalExchange godoc
// @Summary      Aplicar cambio de metal viejo
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID de la factura"
// @Param        body  body  dto.MetalExchangeRequest  true  "Fino recibido y tarifas"
// @Success      200   {object}  dto.InvoiceResponse
// @Failure      402   {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/metal-exchange [post]
func (h *InvoiceHandler) ApplyMetalExchange(c *fiber.Ctx) error {
	var in dto.MetalExchangeRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.ApplyMetalExchange(c.UserContext(), GetShopID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Audit godoc
// @Summary      Auditar integridad de la factura
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la factura"
// @Success      200  {object}  dto.AuditResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/audit [get]
func (h *InvoiceHandler) Audit(c *fiber.Ctx) error {
	out, err := h.uc.Audit(c.UserContext(), GetShopID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// DownloadPDF godoc
// @Summary      Descargar factura en PDF
// @Tags         invoices
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la factura"
// @Success      200  {file}  binary
// @Failure      402  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/pdf [get]
func (h *InvoiceHandler) DownloadPDF(c *fiber.Ctx) error {
	body, filename, err := h.docs.DownloadInvoicePDF(c.UserContext(), GetShopID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Attachment(filename)
	return c.Send(body)
}

// ExportTally godoc
// @Summary      Exportar ventas a Tally (XML)
// @Tags         invoices
// @Security     Bearer
// @Produce      application/xml
// @Param        from  query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to    query  string  false  "Hasta inclusive (YYYY-MM-DD)"
// @Success      200  {file}  binary
// @Failure      402  {object}  dto.ErrorResponse
// @Router       /api/invoices/export/tally [get]
func (h *InvoiceHandler) ExportTally(c *fiber.Ctx) error {
	var q dto.InvoiceListQuery
	if err := c.QueryParser(&q); err != nil {
		return validation(c, "parámetros de consulta inválidos")
	}
	body, filename, err := h.docs.ExportTally(c.UserContext(), GetShopID(c), q)
	if err != nil {
		return respondError(c, err)
	}
	c.Attachment(filename)
	c.Set(fiber.HeaderContentType, "application/xml; charset=windows-1252")
	return c.Send(body)
}
