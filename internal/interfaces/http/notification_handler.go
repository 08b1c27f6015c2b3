package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/swarna-khata-api/internal/application/dto"
	"github.com/jhoicas/swarna-khata-api/internal/application/notification"
)

// NotificationHandler bandeja de notificaciones y registro de dispositivos.
type NotificationHandler struct {
	svc *notification.Service
}

// NewNotificationHandler construye el handler.
func NewNotificationHandler(svc *notification.Service) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

// List godoc
// @Summary      Listar notificaciones
// @Tags         notifications
// @Security     Bearer
// @Produce      json
// @Param        unread  query  bool  false  "Solo no leídas"
// @Param        limit   query  int   false  "Límite"
// @Param        offset  query  int   false  "Desplazamiento"
// @Success      200  {array}  dto.NotificationResponse
// @Router       /api/notifications [get]
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	out, err := h.svc.List(c.UserContext(), GetShopID(c), c.QueryBool("unread", false), pageFromQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// UnreadCount godoc
// @Summary      Cantidad de no leídas
// @Tags         notifications
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.CountResponse
// @Router       /api/notifications/unread-count [get]
func (h *NotificationHandler) UnreadCount(c *fiber.Ctx) error {
	n, err := h.svc.UnreadCount(c.UserContext(), GetShopID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.CountResponse{Count: n})
}

// MarkRead godoc
// @Summary      Marcar como leída
// @Tags         notifications
// @Security     Bearer
// @Param        id   path  string  true  "ID de la notificación"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/notifications/{id}/read [post]
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	if err := h.svc.MarkRead(c.UserContext(), GetShopID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// MarkAllRead godoc
// @Summary      Marcar todas como leídas
// @Tags         notifications
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.CountResponse
// @Router       /api/notifications/read-all [post]
func (h *NotificationHandler) MarkAllRead(c *fiber.Ctx) error {
	n, err := h.svc.MarkAllRead(c.UserContext(), GetShopID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.CountResponse{Count: n})
}

// RegisterDevice godoc
// @Summary      Registrar token FCM del dispositivo
// @Tags         notifications
// @Security     Bearer
// @Accept       json
// @Param        body  body  dto.DeviceTokenRequest  true  "Token FCM"
// @Success      204
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/devices [post]
func (h *NotificationHandler) RegisterDevice(c *fiber.Ctx) error {
	var in dto.DeviceTokenRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if in.Token == "" {
		return validation(c, "token es requerido")
	}
	if err := h.svc.RegisterDevice(c.UserContext(), GetShopID(c), GetUserID(c), in); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// UnregisterDevice godoc
// @Summary      Dar de baja el token FCM
// @Tags         notifications
// @Security     Bearer
// @Accept       json
// @Param        body  body  dto.DeviceTokenRequest  true  "Token FCM"
// @Success      204
// @Router       /api/devices [delete]
func (h *NotificationHandler) UnregisterDevice(c *fiber.Ctx) error {
	var in dto.DeviceTokenRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := h.svc.UnregisterDevice(c.UserContext(), in.Token); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
