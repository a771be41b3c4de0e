package selling

import (
	"time"

	"github.com/vfg2006/shop-manager-api/internal/config"
	"github.com/vfg2006/shop-manager-api/internal/domain"
)

// PointsRule dá mais pontos para produtos que o lead não comprou dentro da janela
type PointsRule struct {
	Window              time.Duration
	NewProductPoints    int
	RepeatProductPoints int
}

func NewPointsRule(cfg config.Loyalty) PointsRule {
	return PointsRule{
		Window:              cfg.Window(),
		NewProductPoints:    cfg.NewProductPoints,
		RepeatProductPoints: cfg.RepeatProductPoints,
	}
}

// WasPurchasedRecently informa se o produto aparece no histórico dentro de [asOf-window, asOf]
func WasPurchasedRecently(history []domain.PurchaseRecord, productID int64, asOf time.Time, window time.Duration) bool {
	cutoff := asOf.Add(-window)
	for _, record := range history {
		if record.ProductID != productID {
			continue
		}
		if !record.PurchasedAt.Before(cutoff) && !record.PurchasedAt.After(asOf) {
			return true
		}
	}
	return false
}

// PointsFor vale por produto distinto na venda, independente da quantidade
func (r PointsRule) PointsFor(history []domain.PurchaseRecord, productID int64, asOf time.Time) int {
	if WasPurchasedRecently(history, productID, asOf, r.Window) {
		return r.RepeatProductPoints
	}
	return r.NewProductPoints
}

func (r PointsRule) HistoryStart(asOf time.Time) time.Time {
	return asOf.Add(-r.Window)
}
