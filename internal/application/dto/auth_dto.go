package dto

import "time"

// RequestOTPRequest body para POST /api/auth/otp.
type RequestOTPRequest struct {
	Phone string `json:"phone"`
}

// RequestOTPResponse confirmación de envío del código.
type RequestOTPResponse struct {
	Phone     string    `json:"phone"`
	ExpiresAt time.Time `json:"expires_at"`
}

// VerifyOTPRequest body para POST /api/auth/verify.
type VerifyOTPRequest struct {
	Phone string `json:"phone"`
	Code  string `json:"code"`
	Name  string `json:"name,omitempty"` // solo en el primer ingreso
}

// UserResponse usuario en respuestas.
type UserResponse struct {
	ID        string    `json:"id"`
	ShopID    string    `json:"shop_id,omitempty"`
	Phone     string    `json:"phone"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// LoginResponse token + usuario.
type LoginResponse struct {
	Token     string       `json:"token"`
	User      UserResponse `json:"user"`
	IsNewUser bool         `json:"is_new_user"`
}
