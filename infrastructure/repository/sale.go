package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"
	"github.com/vfg2006/shop-manager-api/infrastructure/database/postgres"
	"github.com/vfg2006/shop-manager-api/internal/domain"
)

const (
	salesTable     = "sale_transactions"
	saleItemsTable = "sale_line_items"
)

var saleColumns = []string{
	"id", "business_id", "code", "lead_id", "sold_by", "sold_at", "total_amount", "earned_points", "notes", "created_at",
}

type SaleRepository interface {
	// Create grava o cabeçalho e os itens da venda
	Create(ctx context.Context, sale *domain.SaleTransaction) (*domain.SaleTransaction, error)
	GetByID(ctx context.Context, businessID, saleID int64) (*domain.SaleTransaction, error)
	List(ctx context.Context, businessID int64, filters domain.SaleFilters) ([]*domain.SaleTransaction, error)
	ListLeadPurchases(ctx context.Context, businessID, leadID int64, since time.Time) ([]domain.PurchaseRecord, error)
	SummarizeByDay(ctx context.Context, start, end time.Time, loc *time.Location) ([]*domain.DailySalesSummary, error)
}

type saleRepository struct {
	db postgres.Queryer
}

func NewSaleRepository(db postgres.Queryer) SaleRepository {
	return &saleRepository{db: db}
}

func (r *saleRepository) Create(ctx context.Context, sale *domain.SaleTransaction) (*domain.SaleTransaction, error) {
	query, args, err := squirrel.
		Insert(salesTable).
		Columns("business_id", "code", "lead_id", "sold_by", "sold_at", "total_amount", "earned_points", "notes").
		Values(sale.BusinessID, sale.Code, sale.LeadID, sale.SoldBy, sale.SoldAt, sale.TotalAmount, sale.EarnedPoints, sale.Notes).
		Suffix("RETURNING id, created_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&sale.ID, &sale.CreatedAt); err != nil {
		return nil, fmt.Errorf("erro ao inserir venda: %w", err)
	}

	if len(sale.Items) == 0 {
		return sale, nil
	}

	builder := squirrel.
		Insert(saleItemsTable).
		Columns("sale_id", "product_id", "product_name", "quantity", "unit_price", "total_price", "points").
		Suffix("RETURNING id, product_id").
		PlaceholderFormat(squirrel.Dollar)
	for _, item := range sale.Items {
		item.SaleID = sale.ID
		builder = builder.Values(item.SaleID, item.ProductID, item.ProductName, item.Quantity, item.UnitPrice, item.TotalPrice, item.Points)
	}

	query, args, err = builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao inserir itens da venda: %w", err)
	}
	defer rows.Close()

	if err := scanItemIDs(rows, sale.Items); err != nil {
		return nil, err
	}

	return sale, nil
}

type returnedRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

// scanItemIDs atribui os ids devolvidos pelo INSERT ... RETURNING aos itens, exigindo uma linha por item
// e o mesmo produto na mesma posição
func scanItemIDs(rows returnedRows, items []*domain.SaleLineItem) error {
	i := 0
	for rows.Next() {
		if i >= len(items) {
			return fmt.Errorf("insert de itens devolveu mais linhas que os %d itens da venda", len(items))
		}
		var id, productID int64
		if err := rows.Scan(&id, &productID); err != nil {
			return fmt.Errorf("erro ao escanear item da venda: %w", err)
		}
		if productID != items[i].ProductID {
			return fmt.Errorf("item %d da venda voltou com o produto %d, esperado %d", i, productID, items[i].ProductID)
		}
		items[i].ID = id
		i++
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}
	if i != len(items) {
		return fmt.Errorf("insert de itens devolveu %d linhas para %d itens da venda", i, len(items))
	}
	return nil
}

func (r *saleRepository) GetByID(ctx context.Context, businessID, saleID int64) (*domain.SaleTransaction, error) {
	query, args, err := squirrel.
		Select(saleColumns...).
		From(salesTable).
		Where(squirrel.Eq{"id": saleID, "business_id": businessID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	sale, err := scanSale(r.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("erro ao escanear venda: %w", err)
	}

	sale.Items, err = r.listItems(ctx, sale.ID)
	if err != nil {
		return nil, err
	}

	return sale, nil
}

func (r *saleRepository) List(ctx context.Context, businessID int64, filters domain.SaleFilters) ([]*domain.SaleTransaction, error) {
	builder := squirrel.
		Select(saleColumns...).
		From(salesTable).
		Where(squirrel.Eq{"business_id": businessID}).
		OrderBy("sold_at DESC", "id DESC").
		PlaceholderFormat(squirrel.Dollar)

	if filters.StartDate != nil {
		builder = builder.Where(squirrel.GtOrEq{"sold_at": *filters.StartDate})
	}
	if filters.EndDate != nil {
		builder = builder.Where(squirrel.Lt{"sold_at": *filters.EndDate})
	}
	if filters.LeadID != nil {
		builder = builder.Where(squirrel.Eq{"lead_id": *filters.LeadID})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	sales := make([]*domain.SaleTransaction, 0)
	for rows.Next() {
		sale, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear venda: %w", err)
		}
		sales = append(sales, sale)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return sales, nil
}

// ListLeadPurchases retorna os produtos comprados pelo lead a partir de since, mais recentes primeiro
func (r *saleRepository) ListLeadPurchases(ctx context.Context, businessID, leadID int64, since time.Time) ([]domain.PurchaseRecord, error) {
	query, args, err := squirrel.
		Select("i.product_id", "s.sold_at").
		From(saleItemsTable + " i").
		Join(salesTable + " s ON s.id = i.sale_id").
		Where(squirrel.Eq{"s.business_id": businessID, "s.lead_id": leadID}).
		Where(squirrel.GtOrEq{"s.sold_at": since}).
		OrderBy("s.sold_at DESC").
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

	records := make([]domain.PurchaseRecord, 0)
	for rows.Next() {
		var record domain.PurchaseRecord
		if err := rows.Scan(&record.ProductID, &record.PurchasedAt); err != nil {
			return nil, fmt.Errorf("erro ao escanear histórico de compras: %w", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return records, nil
}

// SummarizeByDay agrega as vendas de todas as empresas por dia no intervalo [start, end).
// O dia de cada venda é o do calendário em loc, o mesmo usado para montar a janela.
func (r *saleRepository) SummarizeByDay(ctx context.Context, start, end time.Time, loc *time.Location) ([]*domain.DailySalesSummary, error) {
	if loc == nil {
		loc = time.UTC
	}

	query, args, err := squirrel.
		Select("s.business_id").
		Column(squirrel.Expr("DATE(s.sold_at AT TIME ZONE ?) AS day", loc.String())).
		Columns(
			"COUNT(DISTINCT s.id)",
			"COALESCE(SUM(i.quantity), 0)",
			"COALESCE(SUM(i.total_price), 0)",
			"COALESCE(SUM(i.points), 0)",
			"COUNT(DISTINCT s.lead_id)",
		).
		From(salesTable+" s").
		LeftJoin(saleItemsTable+" i ON i.sale_id = s.id").
		Where(squirrel.GtOrEq{"s.sold_at": start}).
		Where(squirrel.Lt{"s.sold_at": end}).
		GroupBy("s.business_id", "day").
		OrderBy("day ASC", "s.business_id ASC").
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
		var revenue decimal.Decimal
		if err := rows.Scan(&s.BusinessID, &s.Date, &s.TransactionsCount, &s.ItemsSold, &revenue, &s.PointsAwarded, &s.UniqueLeads); err != nil {
			return nil, fmt.Errorf("erro ao escanear resumo diário: %w", err)
		}
		s.TotalRevenue = revenue
		summaries = append(summaries, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return summaries, nil
}

func (r *saleRepository) listItems(ctx context.Context, saleID int64) ([]*domain.SaleLineItem, error) {
	query, args, err := squirrel.
		Select("id", "sale_id", "product_id", "product_name", "quantity", "unit_price", "total_price", "points").
		From(saleItemsTable).
		Where(squirrel.Eq{"sale_id": saleID}).
		OrderBy("id ASC").
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

	items := make([]*domain.SaleLineItem, 0)
	for rows.Next() {
		var item domain.SaleLineItem
		if err := rows.Scan(&item.ID, &item.SaleID, &item.ProductID, &item.ProductName, &item.Quantity,
			&item.UnitPrice, &item.TotalPrice, &item.Points); err != nil {
			return nil, fmt.Errorf("erro ao escanear item da venda: %w", err)
		}
		items = append(items, &item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return items, nil
}

func scanSale(row scanner) (*domain.SaleTransaction, error) {
	var s domain.SaleTransaction
	var leadID sql.NullInt64
	var notes sql.NullString

	err := row.Scan(
		&s.ID,
		&s.BusinessID,
		&s.Code,
		&leadID,
		&s.SoldBy,
		&s.SoldAt,
		&s.TotalAmount,
		&s.EarnedPoints,
		&notes,
		&s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if leadID.Valid {
		s.LeadID = &leadID.Int64
	}
	s.Notes = notes.String

	return &s, nil
}
