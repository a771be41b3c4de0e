package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/vfg2006/shop-manager-api/infrastructure/database/postgres"
	"github.com/vfg2006/shop-manager-api/internal/domain"
)

const leadsTable = "leads"

var leadColumns = []string{
	"id", "business_id", "name", "email", "phone", "loyalty_points", "last_purchase_at",
	"last_purchased_product_id", "status", "source", "created_at", "updated_at",
}

type LeadRepository interface {
	Create(ctx context.Context, lead *domain.Lead) (*domain.Lead, error)
	Update(ctx context.Context, lead *domain.Lead) error
	GetByID(ctx context.Context, businessID, leadID int64) (*domain.Lead, error)
	GetForUpdate(ctx context.Context, businessID, leadID int64) (*domain.Lead, error)
	// ListMatchCandidates retorna os leads não removidos que compartilham email, telefone ou nome com o contato
	ListMatchCandidates(ctx context.Context, businessID int64, contact domain.LeadContact) ([]*domain.Lead, error)
	List(ctx context.Context, businessID int64, filters domain.LeadFilters) ([]*domain.Lead, error)
}

type leadRepository struct {
	db postgres.Queryer
}

func NewLeadRepository(db postgres.Queryer) LeadRepository {
	return &leadRepository{db: db}
}

func (r *leadRepository) Create(ctx context.Context, lead *domain.Lead) (*domain.Lead, error) {
	query, args, err := squirrel.
		Insert(leadsTable).
		Columns("business_id", "name", "email", "phone", "phone_normalized", "loyalty_points", "status", "source").
		Values(lead.BusinessID, lead.Name, lead.Email, lead.Phone, digitsOnly(lead.Phone),
			lead.LoyaltyPoints, lead.Status, lead.Source).
		Suffix("RETURNING id, created_at, updated_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	err = r.db.QueryRowContext(ctx, query, args...).Scan(&lead.ID, &lead.CreatedAt, &lead.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("erro ao inserir lead: %w", err)
	}

	return lead, nil
}

func (r *leadRepository) Update(ctx context.Context, lead *domain.Lead) error {
	query, args, err := squirrel.
		Update(leadsTable).
		Set("name", lead.Name).
		Set("email", lead.Email).
		Set("phone", lead.Phone).
		Set("phone_normalized", digitsOnly(lead.Phone)).
		Set("loyalty_points", lead.LoyaltyPoints).
		Set("last_purchase_at", lead.LastPurchaseAt).
		Set("last_purchased_product_id", lead.LastPurchasedProductID).
		Set("status", lead.Status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": lead.ID, "business_id": lead.BusinessID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("erro ao atualizar lead: %w", err)
	}

	return expectAffected(result)
}

func (r *leadRepository) GetByID(ctx context.Context, businessID, leadID int64) (*domain.Lead, error) {
	return r.get(ctx, businessID, leadID, "")
}

func (r *leadRepository) GetForUpdate(ctx context.Context, businessID, leadID int64) (*domain.Lead, error) {
	return r.get(ctx, businessID, leadID, "FOR UPDATE")
}

func (r *leadRepository) get(ctx context.Context, businessID, leadID int64, suffix string) (*domain.Lead, error) {
	builder := squirrel.
		Select(leadColumns...).
		From(leadsTable).
		Where(squirrel.Eq{"id": leadID, "business_id": businessID}).
		PlaceholderFormat(squirrel.Dollar)
	if suffix != "" {
		builder = builder.Suffix(suffix)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	lead, err := scanLead(r.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("erro ao escanear lead: %w", err)
	}

	return lead, nil
}

func (r *leadRepository) ListMatchCandidates(ctx context.Context, businessID int64, contact domain.LeadContact) ([]*domain.Lead, error) {
	match := squirrel.Or{}
	if email := strings.ToLower(strings.TrimSpace(contact.Email)); email != "" {
		match = append(match, squirrel.Expr("LOWER(TRIM(email)) = ?", email))
	}
	if phone := digitsOnly(contact.Phone); phone != "" {
		match = append(match, squirrel.Eq{"phone_normalized": phone})
	}
	if name := strings.ToLower(strings.Join(strings.Fields(contact.Name), " ")); name != "" {
		match = append(match, squirrel.Expr(`LOWER(REGEXP_REPLACE(TRIM(name), '\s+', ' ', 'g')) = ?`, name))
	}
	if len(match) == 0 {
		return []*domain.Lead{}, nil
	}

	builder := squirrel.
		Select(leadColumns...).
		From(leadsTable).
		Where(squirrel.Eq{"business_id": businessID}).
		Where(squirrel.NotEq{"status": domain.LeadStatusDeleted}).
		Where(match).
		OrderBy("id ASC").
		PlaceholderFormat(squirrel.Dollar)

	return r.queryLeads(ctx, builder)
}

func (r *leadRepository) List(ctx context.Context, businessID int64, filters domain.LeadFilters) ([]*domain.Lead, error) {
	builder := squirrel.
		Select(leadColumns...).
		From(leadsTable).
		Where(squirrel.Eq{"business_id": businessID}).
		OrderBy("name ASC", "id ASC").
		PlaceholderFormat(squirrel.Dollar)

	if filters.Status != "" {
		builder = builder.Where(squirrel.Eq{"status": filters.Status})
	} else {
		builder = builder.Where(squirrel.NotEq{"status": domain.LeadStatusDeleted})
	}

	if search := strings.TrimSpace(filters.Search); search != "" {
		pattern := "%" + search + "%"
		or := squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"email": pattern},
		}
		if digits := digitsOnly(search); digits != "" {
			or = append(or, squirrel.Like{"phone_normalized": "%" + digits + "%"})
		}
		builder = builder.Where(or)
	}

	return r.queryLeads(ctx, builder)
}

func (r *leadRepository) queryLeads(ctx context.Context, builder squirrel.SelectBuilder) ([]*domain.Lead, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	leads := make([]*domain.Lead, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear lead: %w", err)
		}
		leads = append(leads, lead)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return leads, nil
}

func scanLead(row scanner) (*domain.Lead, error) {
	var l domain.Lead
	var name, email, phone sql.NullString
	var lastPurchaseAt sql.NullTime
	var lastProductID sql.NullInt64

	err := row.Scan(
		&l.ID,
		&l.BusinessID,
		&name,
		&email,
		&phone,
		&l.LoyaltyPoints,
		&lastPurchaseAt,
		&lastProductID,
		&l.Status,
		&l.Source,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	l.Name = name.String
	l.Email = email.String
	l.Phone = phone.String
	if lastPurchaseAt.Valid {
		l.LastPurchaseAt = &lastPurchaseAt.Time
	}
	if lastProductID.Valid {
		l.LastPurchasedProductID = &lastProductID.Int64
	}

	return &l, nil
}

func digitsOnly(value string) string {
	var b strings.Builder
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
