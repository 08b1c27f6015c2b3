package ports

import (
	"context"
	"errors"

	"github.com/jhoicas/swarna-khata-api/internal/domain/entity"
)

// PushMessage mensaje data-only para FCM. Data lleva las claves type, title, message, shopId,
// invoiceId/customerId/itemId y amount.
type PushMessage struct {
	Token string
	Title string
	Body  string
	Data  map[string]string
}

// ErrTokenUnregistered el proveedor push informó que el token ya no existe.
var ErrTokenUnregistered = errors.New("push: token no registrado")

// PushSender envía un push a un dispositivo. Devuelve ErrTokenUnregistered si el token ya no es válido.
type PushSender interface {
	Send(ctx context.Context, msg PushMessage) error
}

// Notifier registra un aviso de la tienda y lo difunde. Nunca falla la operación de negocio:
// los errores se registran en log.
type Notifier interface {
	Notify(ctx context.Context, n *entity.Notification)
}

// OTPSender entrega el código OTP al teléfono (SMS/WhatsApp en producción, log en desarrollo).
type OTPSender interface {
	SendOTP(ctx context.Context, phone, code string) error
}
