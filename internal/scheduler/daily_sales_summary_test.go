package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/shop-manager-api/infrastructure/database/memory"
	"github.com/vfg2006/shop-manager-api/infrastructure/repository/mocks"
	"github.com/vfg2006/shop-manager-api/internal/domain"
	"go.uber.org/mock/gomock"
)

func TestDailySalesSummaryService_SyncDailySummaries(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSaleRepo := mocks.NewMockSaleRepository(ctrl)
	mockSummaryRepo := mocks.NewMockDailySalesSummaryRepository(ctrl)

	// Referência: 16 de janeiro às 0h30, consolidando ontem e hoje
	now := time.Date(2024, 1, 16, 0, 30, 0, 0, time.UTC)
	start := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 17, 0, 0, 0, 0, time.UTC)

	service := &DailySalesSummaryService{
		saleRepo:    mockSaleRepo,
		summaryRepo: mockSummaryRepo,
		config:      DailySalesSummaryConfig{LookbackDays: 1, RetentionDays: 730, Location: time.UTC},
		now:         func() time.Time { return now },
	}

	summaries := []*domain.DailySalesSummary{
		{BusinessID: 1, Date: start, TransactionsCount: 3, TotalRevenue: decimal.RequireFromString("90.00")},
		{BusinessID: 2, Date: start, TransactionsCount: 1, TotalRevenue: decimal.RequireFromString("12.50")},
	}

	tests := []struct {
		name    string
		setup   func()
		wantErr bool
	}{
		{
			name: "Salva um resumo por empresa e dia e aplica a retenção",
			setup: func() {
				mockSaleRepo.EXPECT().SummarizeByDay(gomock.Any(), start, end, time.UTC).Return(summaries, nil)
				mockSummaryRepo.EXPECT().SaveOrUpdate(gomock.Any(), summaries[0]).Return(nil)
				mockSummaryRepo.EXPECT().SaveOrUpdate(gomock.Any(), summaries[1]).Return(nil)
				mockSummaryRepo.EXPECT().DeleteOlderThan(gomock.Any(), 730).Return(int64(4), nil)
			},
		},
		{
			name: "Falha ao salvar um resumo continua os demais e retorna erro",
			setup: func() {
				mockSaleRepo.EXPECT().SummarizeByDay(gomock.Any(), start, end, time.UTC).Return(summaries, nil)
				mockSummaryRepo.EXPECT().SaveOrUpdate(gomock.Any(), summaries[0]).Return(errors.New("deadlock"))
				mockSummaryRepo.EXPECT().SaveOrUpdate(gomock.Any(), summaries[1]).Return(nil)
				mockSummaryRepo.EXPECT().DeleteOlderThan(gomock.Any(), 730).Return(int64(0), nil)
			},
			wantErr: true,
		},
		{
			name: "Erro ao consolidar vendas não grava nada",
			setup: func() {
				mockSaleRepo.EXPECT().SummarizeByDay(gomock.Any(), start, end, time.UTC).Return(nil, errors.New("timeout"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()

			err := service.SyncDailySummaries(context.Background())
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, now, service.GetStatus()["last_sync_completed_at"])
		})
	}
}

func TestDailySalesSummaryService_window(t *testing.T) {
	tests := []struct {
		name      string
		lookback  int
		now       time.Time
		wantStart string
		wantEnd   string
	}{
		{name: "Apenas hoje", lookback: 0, now: time.Date(2024, 3, 1, 15, 0, 0, 0, time.UTC), wantStart: "2024-03-01", wantEnd: "2024-03-02"},
		{name: "Ontem e hoje", lookback: 1, now: time.Date(2024, 3, 1, 0, 30, 0, 0, time.UTC), wantStart: "2024-02-29", wantEnd: "2024-03-02"},
		{name: "Lookback negativo vira zero", lookback: -3, now: time.Date(2024, 3, 1, 0, 30, 0, 0, time.UTC), wantStart: "2024-03-01", wantEnd: "2024-03-02"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := &DailySalesSummaryService{config: DailySalesSummaryConfig{LookbackDays: tt.lookback}}
			start, end := service.window(tt.now)
			assert.Equal(t, tt.wantStart, start.Format(time.DateOnly))
			assert.Equal(t, tt.wantEnd, end.Format(time.DateOnly))
		})
	}
}

func TestDailySalesSummaryService_windowNoFusoConfigurado(t *testing.T) {
	brt := time.FixedZone("BRT", -3*60*60)

	tests := []struct {
		name      string
		location  *time.Location
		now       time.Time
		wantStart time.Time
		wantEnd   time.Time
	}{
		{
			// 02h UTC do dia 16 ainda é 23h do dia 15 em BRT
			name:      "Madrugada UTC ainda é o dia anterior no fuso da loja",
			location:  brt,
			now:       time.Date(2024, 1, 16, 2, 0, 0, 0, time.UTC),
			wantStart: time.Date(2024, 1, 14, 0, 0, 0, 0, brt),
			wantEnd:   time.Date(2024, 1, 16, 0, 0, 0, 0, brt),
		},
		{
			name:      "Sem fuso configurado usa UTC",
			location:  nil,
			now:       time.Date(2024, 1, 16, 2, 0, 0, 0, brt),
			wantStart: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2024, 1, 17, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := &DailySalesSummaryService{config: DailySalesSummaryConfig{LookbackDays: 1, Location: tt.location}}
			start, end := service.window(tt.now)
			assert.True(t, tt.wantStart.Equal(start), "start = %s", start)
			assert.True(t, tt.wantEnd.Equal(end), "end = %s", end)
			assert.Equal(t, tt.wantStart.Location(), start.Location())
		})
	}
}

func TestDailySalesSummaryService_SyncAgrupaPeloDiaDoFusoConfigurado(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	brt := time.FixedZone("BRT", -3*60*60)
	store := memory.NewStore()
	mockSummaryRepo := mocks.NewMockDailySalesSummaryRepository(ctrl)

	// 01h UTC do dia 15 é 22h do dia 14 em BRT e precisa cair no resumo do dia 14
	store.SeedSale(&domain.SaleTransaction{
		BusinessID: 1,
		SoldAt:     time.Date(2024, 1, 15, 1, 0, 0, 0, time.UTC),
		Items: []*domain.SaleLineItem{
			{ProductID: 1, Quantity: 2, UnitPrice: decimal.RequireFromString("5.00"), TotalPrice: decimal.RequireFromString("10.00")},
		},
	})
	store.SeedSale(&domain.SaleTransaction{
		BusinessID: 1,
		SoldAt:     time.Date(2024, 1, 15, 13, 0, 0, 0, time.UTC),
		Items: []*domain.SaleLineItem{
			{ProductID: 1, Quantity: 1, UnitPrice: decimal.RequireFromString("5.00"), TotalPrice: decimal.RequireFromString("5.00")},
		},
	})

	service := &DailySalesSummaryService{
		saleRepo:    store.Repositories().Sales,
		summaryRepo: mockSummaryRepo,
		config:      DailySalesSummaryConfig{LookbackDays: 1, Location: brt},
		now:         func() time.Time { return time.Date(2024, 1, 15, 18, 0, 0, 0, time.UTC) },
	}

	saved := make(map[string]*domain.DailySalesSummary)
	mockSummaryRepo.EXPECT().SaveOrUpdate(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, summary *domain.DailySalesSummary) error {
			saved[summary.Date.Format(time.DateOnly)] = summary
			return nil
		},
	).Times(2)

	require.NoError(t, service.SyncDailySummaries(context.Background()))

	require.Contains(t, saved, "2024-01-14")
	require.Contains(t, saved, "2024-01-15")
	assert.Equal(t, 2, saved["2024-01-14"].ItemsSold)
	assert.Equal(t, 1, saved["2024-01-15"].ItemsSold)
}
