package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BuyerType identifica quem está comprando no Quick Sale
type BuyerType string

const (
	BuyerTypeAnonymous    BuyerType = "anonymous"
	BuyerTypeExistingLead BuyerType = "existing_lead"
	BuyerTypeLead         BuyerType = "lead"
)

func (b BuyerType) IsValid() bool {
	switch b {
	case BuyerTypeAnonymous, BuyerTypeExistingLead, BuyerTypeLead:
		return true
	}
	return false
}

type SaleTransaction struct {
	ID           int64           `json:"id"`
	BusinessID   int64           `json:"business_id"`
	Code         string          `json:"code"`
	LeadID       *int64          `json:"lead_id,omitempty"`
	SoldBy       int             `json:"sold_by"`
	SoldAt       time.Time       `json:"sold_at"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	EarnedPoints int             `json:"earned_points"`
	Notes        string          `json:"notes,omitempty"`
	Items        []*SaleLineItem `json:"items,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

type SaleLineItem struct {
	ID          int64           `json:"id"`
	SaleID      int64           `json:"sale_id"`
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
	Points      int             `json:"points"`
}

// PurchaseRecord é uma compra anterior de um produto por um lead
type PurchaseRecord struct {
	ProductID   int64
	PurchasedAt time.Time
}

type CartItem struct {
	ProductID int64           `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type CheckoutRequest struct {
	BusinessID int64       `json:"-"`
	SoldBy     int         `json:"-"`
	BuyerType  BuyerType   `json:"buyer_type"`
	LeadID     *int64      `json:"lead_id"`
	Buyer      LeadContact `json:"buyer"`
	Items      []CartItem  `json:"items"`
	Notes      string      `json:"notes"`
}

type CheckoutResponse struct {
	Sale        *SaleTransaction     `json:"sale"`
	Lead        *Lead                `json:"lead,omitempty"`
	LeadCreated bool                 `json:"lead_created"`
	Movements   []*InventoryMovement `json:"movements"`
}

type SaleFilters struct {
	StartDate *time.Time
	EndDate   *time.Time
	LeadID    *int64
}
