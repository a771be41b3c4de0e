package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/vfg2006/shop-manager-api/infrastructure/database/postgres"
	"github.com/vfg2006/shop-manager-api/internal/domain"
)

const dailySalesSummaryTable = "daily_sales_summary"

type DailySalesSummaryRepository interface {
	SaveOrUpdate(ctx context.Context, summary *domain.DailySalesSummary) error
	GetByDateRange(ctx context.Context, businessID int64, startDate, endDate time.Time) ([]*domain.DailySalesSummary, error)
	DeleteOlderThan(ctx context.Context, days int) (int64, error)
}

type dailySalesSummaryRepository struct {
	db postgres.Queryer
}

func NewDailySalesSummaryRepository(db postgres.Queryer) DailySalesSummaryRepository {
	return &dailySalesSummaryRepository{db: db}
}

func (r *dailySalesSummaryRepository) SaveOrUpdate(ctx context.Context, summary *domain.DailySalesSummary) error {
	query, args, err := squirrel.StatementBuilder.
		Insert(dailySalesSummaryTable).
		Columns("business_id", "date", "transactions_count", "items_sold", "total_revenue", "points_awarded", "unique_leads").
		Values(
			summary.BusinessID,
			summary.Date.Format(time.DateOnly),
			summary.TransactionsCount,
			summary.ItemsSold,
			summary.TotalRevenue,
			summary.PointsAwarded,
			summary.UniqueLeads,
		).
		Suffix(`
			ON CONFLICT (business_id, date) DO UPDATE SET
				transactions_count = EXCLUDED.transactions_count,
				items_sold = EXCLUDED.items_sold,
				total_revenue = EXCLUDED.total_revenue,
				points_awarded = EXCLUDED.points_awarded,
				unique_leads = EXCLUDED.unique_leads,
				updated_at = NOW()
		`).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	_, err = r.db.ExecContext(ctx, query, args...)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			return fmt.Errorf("erro no banco de dados: %w (código: %s)", pqErr, pqErr.Code)
		}
		return fmt.Errorf("erro ao executar a query: %w", err)
	}

	return nil
}

func (r *dailySalesSummaryRepository) GetByDateRange(ctx context.Context, businessID int64, startDate, endDate time.Time) ([]*domain.DailySalesSummary, error) {
	query, args, err := squirrel.
		Select("id", "business_id", "date", "transactions_count", "items_sold", "total_revenue",
			"points_awarded", "unique_leads", "created_at", "updated_at").
		From(dailySalesSummaryTable).
		Where(squirrel.Eq{"business_id": businessID}).
		Where(squirrel.GtOrEq{"date": startDate.Format(time.DateOnly)}).
		Where(squirrel.LtOrEq{"date": endDate.Format(time.DateOnly)}).
		OrderBy("date ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	summaries := make([]*domain.DailySalesSummary, 0)
	for rows.Next() {
		var s domain.DailySalesSummary
		if err := rows.Scan(&s.ID, &s.BusinessID, &s.Date, &s.TransactionsCount, &s.ItemsSold, &s.TotalRevenue,
			&s.PointsAwarded, &s.UniqueLeads, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("erro ao escanear resumo diário: %w", err)
		}
		summaries = append(summaries, &s)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return summaries, nil
}

func (r *dailySalesSummaryRepository) DeleteOlderThan(ctx context.Context, days int) (int64, error) {
	cutoffDate := time.Now().AddDate(0, 0, -days).Format(time.DateOnly)

	query, args, err := squirrel.
		Delete(dailySalesSummaryTable).
		Where(squirrel.Lt{"date": cutoffDate}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("erro ao construir a query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("erro ao executar a query: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("erro ao obter número de linhas afetadas: %w", err)
	}

	return rowsAffected, nil
}
