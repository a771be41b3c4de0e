package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailySalesSummary representa o consolidado diário de vendas de uma empresa
type DailySalesSummary struct {
	ID                int64           `json:"id"`
	BusinessID        int64           `json:"business_id"`
	Date              time.Time       `json:"date"`
	TransactionsCount int             `json:"transactions_count"`
	ItemsSold         int             `json:"items_sold"`
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	PointsAwarded     int             `json:"points_awarded"`
	UniqueLeads       int             `json:"unique_leads"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

type DailySalesReport struct {
	StartDate    time.Time            `json:"start_date"`
	EndDate      time.Time            `json:"end_date"`
	TotalRevenue decimal.Decimal      `json:"total_revenue"`
	Days         []*DailySalesSummary `json:"days"`
}
