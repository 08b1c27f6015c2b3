package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de notificación (campo "type" del mensaje push).
const (
	NotificationInvoiceCreated       = "INVOICE_CREATED"
	NotificationPaymentReceived      = "PAYMENT_RECEIVED"
	NotificationInvoiceDeleted       = "INVOICE_DELETED"
	NotificationCreditLimit          = "CREDIT_LIMIT"
	NotificationLowStock             = "LOW_STOCK"
	NotificationSubscriptionExpiring = "SUBSCRIPTION_EXPIRING"
)

// Notification aviso persistido por tienda; también se envía como push.
type Notification struct {
	ID         string
	ShopID     string
	Type       string
	Title      string
	Message    string
	InvoiceID  string
	CustomerID string
	ItemID     string
	Amount     *decimal.Decimal
	Read       bool
	CreatedAt  time.Time
}

// DeviceToken token FCM de un dispositivo de la tienda.
type DeviceToken struct {
	Token     string
	ShopID    string
	UserID    string
	Platform  string
	CreatedAt time.Time
}
