// AngelaMos | 2026
// dto.go

package user

import (
	"time"
)

type UpdateProfileRequest struct {
	Name        string  `json:"name"                  validate:"required,min=1,max=30"`
	PhoneNumber *string `json:"phoneNumber,omitempty" validate:"omitempty,len=10"`
	Address     *string `json:"address,omitempty"     validate:"omitempty,max=100"`
}

type DeleteAccountRequest struct {
	OTP string `json:"otp" validate:"required"`
}

type UserResponse struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	PhoneNumber    *string   `json:"phoneNumber,omitempty"`
	Address        *string   `json:"address,omitempty"`
	Verified       bool      `json:"verified"`
	Banned         bool      `json:"banned"`
	Buyer          bool      `json:"buyer"`
	Seller         bool      `json:"seller"`
	SellerApproved bool      `json:"sellerApproved"`
	Admin          bool      `json:"admin"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type ListUsersParams struct {
	Page     int
	PageSize int
	Search   string
	Verified *bool
}

func (p *ListUsersParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
}

func (p *ListUsersParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// ToUserResponse strips the password hash and flattens profile presence.
func ToUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:             u.ID,
		Email:          u.Email,
		Name:           u.Name,
		PhoneNumber:    u.PhoneNumber,
		Address:        u.Address,
		Verified:       u.Verified,
		Banned:         u.Banned,
		Buyer:          u.IsBuyer(),
		Seller:         u.IsSeller(),
		SellerApproved: u.IsSellerApproved(),
		Admin:          u.IsAdmin(),
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

func ToUserResponseList(users []User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, ToUserResponse(&u))
	}
	return responses
}
