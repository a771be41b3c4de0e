package reporting

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/shop-manager-api/infrastructure/repository/mocks"
	"github.com/vfg2006/shop-manager-api/internal/domain"
	"go.uber.org/mock/gomock"
)

func TestService_GetDailySummaries(t *testing.T) {
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		start     time.Time
		end       time.Time
		setup     func(repo *mocks.MockDailySalesSummaryRepository)
		wantErr   error
		wantDays  int
		wantTotal string
	}{
		{
			name:  "Preenche dias sem venda com zero",
			start: start,
			end:   end,
			setup: func(repo *mocks.MockDailySalesSummaryRepository) {
				repo.EXPECT().GetByDateRange(gomock.Any(), int64(1), start, end).Return([]*domain.DailySalesSummary{
					{BusinessID: 1, Date: start, TransactionsCount: 2, TotalRevenue: decimal.RequireFromString("40.00")},
					{BusinessID: 1, Date: end, TransactionsCount: 1, TotalRevenue: decimal.RequireFromString("15.50")},
				}, nil)
			},
			wantDays:  3,
			wantTotal: "55.50",
		},
		{
			name:    "Data inicial posterior à final",
			start:   end,
			end:     start,
			setup:   func(repo *mocks.MockDailySalesSummaryRepository) {},
			wantErr: ErrInvalidPeriod,
		},
		{
			name:    "Período maior que o permitido",
			start:   start,
			end:     start.AddDate(2, 0, 0),
			setup:   func(repo *mocks.MockDailySalesSummaryRepository) {},
			wantErr: ErrInvalidPeriod,
		},
		{
			name:  "Erro no banco",
			start: start,
			end:   end,
			setup: func(repo *mocks.MockDailySalesSummaryRepository) {
				repo.EXPECT().GetByDateRange(gomock.Any(), int64(1), start, end).Return(nil, errors.New("timeout"))
			},
			wantErr: ErrDatabaseOperation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := mocks.NewMockDailySalesSummaryRepository(ctrl)
			tt.setup(repo)

			report, err := NewService(repo).GetDailySummaries(context.Background(), 1, tt.start, tt.end)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			require.Len(t, report.Days, tt.wantDays)
			assert.True(t, decimal.RequireFromString(tt.wantTotal).Equal(report.TotalRevenue))
			assert.Equal(t, 0, report.Days[1].TransactionsCount)
			assert.Equal(t, "2024-05-02", report.Days[1].Date.Format(time.DateOnly))
		})
	}
}
