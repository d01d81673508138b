package dto

import "github.com/payorbit/wallet-panel-api/internal/models"

// LoginRequest carries panel credentials plus the role radio the user picked.
type LoginRequest struct {
	Email    string      `json:"email" validate:"required,email"`
	Password string      `json:"password" validate:"required,min=6"`
	Role     models.Role `json:"role" validate:"required,oneof=master distributor"`
}

// LoginResponse returns the opaque panel session key and the resolved
// identity. The upstream token itself never leaves the server.
type LoginResponse struct {
	SessionKey string          `json:"session_key"`
	Session    *models.Session `json:"session"`
}
