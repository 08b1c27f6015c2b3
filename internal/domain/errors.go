package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrUserNotFound      = errors.New("usuario no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrAlreadyPaid       = errors.New("la factura ya está totalmente pagada")
	ErrExpired           = errors.New("el registro expiró")
	ErrFeatureLocked     = errors.New("la función requiere un plan superior")
	ErrOTPInvalid        = errors.New("código OTP inválido o vencido")
)
