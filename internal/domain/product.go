package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID            int64           `json:"id"`
	BusinessID    int64           `json:"business_id"`
	Name          string          `json:"name"`
	Category      string          `json:"category"`
	SKU           string          `json:"sku"`
	StockQuantity int             `json:"stock_quantity"`
	ReorderLevel  int             `json:"reorder_level"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SellingPrice  decimal.Decimal `json:"selling_price"`
	Published     bool            `json:"published"`
	Deleted       bool            `json:"deleted"`
	DeletedAt     *time.Time      `json:"deleted_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// IsLowStock indica se o estoque atingiu o nível de reposição
func (p *Product) IsLowStock() bool {
	return p.StockQuantity <= p.ReorderLevel
}

type CreateProductRequest struct {
	BusinessID    int64           `json:"-"`
	CreatedBy     int             `json:"-"`
	Name          string          `json:"name"`
	Category      string          `json:"category"`
	SKU           string          `json:"sku"`
	StockQuantity int             `json:"stock_quantity"`
	ReorderLevel  int             `json:"reorder_level"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SellingPrice  decimal.Decimal `json:"selling_price"`
	Published     bool            `json:"published"`
}

// UpdateProductRequest contém apenas os campos alterados; o estoque não é editável aqui
type UpdateProductRequest struct {
	ID            int64            `json:"-"`
	BusinessID    int64            `json:"-"`
	Name          *string          `json:"name"`
	Category      *string          `json:"category"`
	SKU           *string          `json:"sku"`
	ReorderLevel  *int             `json:"reorder_level"`
	PurchasePrice *decimal.Decimal `json:"purchase_price"`
	SellingPrice  *decimal.Decimal `json:"selling_price"`
}

type StockInRequest struct {
	BusinessID int64  `json:"-"`
	ProductID  int64  `json:"-"`
	CreatedBy  int    `json:"-"`
	Quantity   int    `json:"quantity"`
	Reference  string `json:"reference"`
	Notes      string `json:"notes"`
}

// StockAdjustmentRequest define a quantidade contada fisicamente
type StockAdjustmentRequest struct {
	BusinessID      int64  `json:"-"`
	ProductID       int64  `json:"-"`
	CreatedBy       int    `json:"-"`
	CountedQuantity int    `json:"counted_quantity"`
	Notes           string `json:"notes"`
}

type ProductFilters struct {
	Category      string
	Search        string
	OnlyPublished bool
}
