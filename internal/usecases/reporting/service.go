package reporting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vfg2006/shop-manager-api/infrastructure/repository"
	"github.com/vfg2006/shop-manager-api/internal/domain"
	"github.com/vfg2006/shop-manager-api/pkg/apiErrors"
)

// maxReportDays limita o período consultado em uma única requisição
const maxReportDays = 366

var (
	ErrInvalidPeriod     = errors.New("período inválido")
	ErrDatabaseOperation = errors.New("erro ao realizar operação no banco de dados")
)

type ReportError struct {
	Err     error
	Code    string
	Details string
	Cause   error
}

func (e *ReportError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

func (e *ReportError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.Cause}
}

type Reporter interface {
	GetDailySummaries(ctx context.Context, businessID int64, startDate, endDate time.Time) (*domain.DailySalesReport, error)
}

type Service struct {
	summaryRepo repository.DailySalesSummaryRepository
}

func NewService(summaryRepo repository.DailySalesSummaryRepository) Reporter {
	return &Service{
		summaryRepo: summaryRepo,
	}
}

// GetDailySummaries retorna um registro por dia do período (inclusive), com zeros nos dias sem venda
func (s *Service) GetDailySummaries(ctx context.Context, businessID int64, startDate, endDate time.Time) (*domain.DailySalesReport, error) {
	days := generateDateRange(startDate, endDate)
	if len(days) == 0 {
		return nil, &ReportError{Err: ErrInvalidPeriod, Code: apiErrors.ErrInvalidRequest, Details: "data inicial posterior à data final"}
	}
	if len(days) > maxReportDays {
		return nil, &ReportError{Err: ErrInvalidPeriod, Code: apiErrors.ErrInvalidRequest, Details: fmt.Sprintf("máximo de %d dias", maxReportDays)}
	}

	summaries, err := s.summaryRepo.GetByDateRange(ctx, businessID, days[0], days[len(days)-1])
	if err != nil {
		return nil, &ReportError{Err: ErrDatabaseOperation, Code: apiErrors.ErrDatabaseOperation, Details: err.Error(), Cause: err}
	}

	byDate := make(map[string]*domain.DailySalesSummary, len(summaries))
	for _, summary := range summaries {
		byDate[summary.Date.Format(time.DateOnly)] = summary
	}

	report := &domain.DailySalesReport{
		StartDate:    days[0],
		EndDate:      days[len(days)-1],
		TotalRevenue: decimal.Zero,
		Days:         make([]*domain.DailySalesSummary, 0, len(days)),
	}

	for _, day := range days {
		summary, exists := byDate[day.Format(time.DateOnly)]
		if !exists {
			summary = &domain.DailySalesSummary{
				BusinessID:   businessID,
				Date:         day,
				TotalRevenue: decimal.Zero,
			}
		}
		report.TotalRevenue = report.TotalRevenue.Add(summary.TotalRevenue)
		report.Days = append(report.Days, summary)
	}

	return report, nil
}

// generateDateRange gera as datas entre startDate e endDate (inclusive), normalizadas para meia-noite
func generateDateRange(startDate, endDate time.Time) []time.Time {
	current := time.Date(startDate.Year(), startDate.Month(), startDate.Day(), 0, 0, 0, 0, startDate.Location())
	last := time.Date(endDate.Year(), endDate.Month(), endDate.Day(), 0, 0, 0, 0, startDate.Location())

	var dates []time.Time
	for !current.After(last) {
		dates = append(dates, current)
		current = current.AddDate(0, 0, 1)
	}

	return dates
}
