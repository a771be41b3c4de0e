package domain

import "time"

type LeadStatus string

const (
	LeadStatusActive   LeadStatus = "active"
	LeadStatusInactive LeadStatus = "inactive"
	LeadStatusDeleted  LeadStatus = "deleted"
)

const (
	LeadSourceQuickSale = "quick_sale"
	LeadSourceManual    = "manual"
)

type Lead struct {
	ID                     int64      `json:"id"`
	BusinessID             int64      `json:"business_id"`
	Name                   string     `json:"name"`
	Email                  string     `json:"email"`
	Phone                  string     `json:"phone"`
	LoyaltyPoints          int        `json:"loyalty_points"`
	LastPurchaseAt         *time.Time `json:"last_purchase_at,omitempty"`
	LastPurchasedProductID *int64     `json:"last_purchased_product_id,omitempty"`
	Status                 LeadStatus `json:"status"`
	Source                 string     `json:"source"`
	CreatedAt              time.Time  `json:"created_at"`
	UpdatedAt              time.Time  `json:"updated_at"`
}

func (l *Lead) IsDeleted() bool {
	return l.Status == LeadStatusDeleted
}

// LeadContact são os dados de contato informados no caixa ou no cadastro
type LeadContact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

func (c LeadContact) IsEmpty() bool {
	return c.Name == "" && c.Email == "" && c.Phone == ""
}

type CreateLeadRequest struct {
	BusinessID int64 `json:"-"`
	LeadContact
}

type UpdateLeadRequest struct {
	ID         int64       `json:"-"`
	BusinessID int64       `json:"-"`
	Name       *string     `json:"name"`
	Email      *string     `json:"email"`
	Phone      *string     `json:"phone"`
	Status     *LeadStatus `json:"status"`
}

type LeadFilters struct {
	Status LeadStatus
	Search string
}
