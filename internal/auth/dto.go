// AngelaMos | 2026
// dto.go

package auth

import (
	"time"
)

type RegisterRequest struct {
	Name     string `json:"name"     validate:"required,min=1,max=30"`
	Email    string `json:"email"    validate:"required,max=320"`
	Password string `json:"password" validate:"required,max=128"`
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,max=320"`
	Password string `json:"password" validate:"required,max=128"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,max=320"`
}

type UpdatePasswordRequest struct {
	UserID   string `json:"userId"   validate:"required"`
	OTP      string `json:"otp"      validate:"required"`
	Password string `json:"password" validate:"required,max=128"`
}

type AccountResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"createdAt"`
}
