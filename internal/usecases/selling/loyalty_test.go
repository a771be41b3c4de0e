package selling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/shop-manager-api/internal/domain"
)

func TestPointsRule_PointsFor(t *testing.T) {
	asOf := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	rule := PointsRule{Window: 30 * 24 * time.Hour, NewProductPoints: 2, RepeatProductPoints: 1}

	tests := []struct {
		name    string
		history []domain.PurchaseRecord
		want    int
	}{
		{
			name: "Sem compras anteriores",
			want: 2,
		},
		{
			name:    "Comprado há 10 dias",
			history: []domain.PurchaseRecord{{ProductID: 5, PurchasedAt: asOf.AddDate(0, 0, -10)}},
			want:    1,
		},
		{
			name:    "Comprado exatamente no limite da janela",
			history: []domain.PurchaseRecord{{ProductID: 5, PurchasedAt: asOf.Add(-30 * 24 * time.Hour)}},
			want:    1,
		},
		{
			name:    "Comprado há 31 dias",
			history: []domain.PurchaseRecord{{ProductID: 5, PurchasedAt: asOf.AddDate(0, 0, -31)}},
			want:    2,
		},
		{
			name:    "Outro produto comprado recentemente",
			history: []domain.PurchaseRecord{{ProductID: 6, PurchasedAt: asOf.AddDate(0, 0, -1)}},
			want:    2,
		},
		{
			name:    "Registro no futuro é ignorado",
			history: []domain.PurchaseRecord{{ProductID: 5, PurchasedAt: asOf.Add(time.Hour)}},
			want:    2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rule.PointsFor(tt.history, 5, asOf))
		})
	}
}

func TestPointsRule_HistoryStart(t *testing.T) {
	asOf := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	rule := PointsRule{Window: 30 * 24 * time.Hour}

	assert.Equal(t, time.Date(2024, 5, 16, 12, 0, 0, 0, time.UTC), rule.HistoryStart(asOf))
}
