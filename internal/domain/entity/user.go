package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin    = "admin"
	RoleStaff    = "staff"
	RoleReadOnly = "readonly"
)

// User representa un usuario autenticado por teléfono (OTP). ShopID vacío hasta crear la tienda.
type User struct {
	ID        string
	ShopID    string
	Phone     string // E.164, ej: +919876543210
	Name      string
	Role      string
	Status    string // active, inactive
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OTPChallenge código OTP pendiente de verificación (solo se guarda el hash bcrypt).
type OTPChallenge struct {
	Phone     string
	CodeHash  string
	Attempts  int
	ExpiresAt time.Time
	CreatedAt time.Time
}
