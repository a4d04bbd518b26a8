// AngelaMos | 2026
// dto.go

package seller

import (
	"time"
)

type ApplyRequest struct {
	ApprovalDocument string `json:"approvalDocument" validate:"required,url,max=500"`
}

type SellerResponse struct {
	ID               string    `json:"id"`
	UserID           string    `json:"userId"`
	Approved         bool      `json:"approved"`
	ApprovalDocument string    `json:"approvalDocument"`
	UserName         string    `json:"userName,omitempty"`
	UserEmail        string    `json:"userEmail,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

type ListSellersParams struct {
	Page     int
	PageSize int
	Approved *bool
}

func (p *ListSellersParams) Normalize() {
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

func (p *ListSellersParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func ToSellerResponse(s *Seller) SellerResponse {
	return SellerResponse{
		ID:               s.ID,
		UserID:           s.UserID,
		Approved:         s.Approved,
		ApprovalDocument: s.ApprovalDocument,
		UserName:         s.UserName,
		UserEmail:        s.UserEmail,
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
	}
}

func ToSellerResponseList(sellers []Seller) []SellerResponse {
	responses := make([]SellerResponse, 0, len(sellers))
	for _, s := range sellers {
		responses = append(responses, ToSellerResponse(&s))
	}
	return responses
}
