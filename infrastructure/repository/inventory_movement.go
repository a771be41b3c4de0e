package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/vfg2006/shop-manager-api/infrastructure/database/postgres"
	"github.com/vfg2006/shop-manager-api/internal/domain"
)

const movementsTable = "inventory_movements"

// InventoryMovementRepository só permite inserção e leitura; movimentações nunca são alteradas
type InventoryMovementRepository interface {
	Create(ctx context.Context, movement *domain.InventoryMovement) (*domain.InventoryMovement, error)
	List(ctx context.Context, businessID int64, filters domain.MovementFilters) ([]*domain.InventoryMovement, error)
}

type inventoryMovementRepository struct {
	db postgres.Queryer
}

func NewInventoryMovementRepository(db postgres.Queryer) InventoryMovementRepository {
	return &inventoryMovementRepository{db: db}
}

func (r *inventoryMovementRepository) Create(ctx context.Context, movement *domain.InventoryMovement) (*domain.InventoryMovement, error) {
	query, args, err := squirrel.
		Insert(movementsTable).
		Columns("business_id", "product_id", "product_name", "quantity_before", "quantity_after",
			"movement_type", "reference_id", "notes", "created_by").
		Values(movement.BusinessID, movement.ProductID, movement.ProductName, movement.QuantityBefore,
			movement.QuantityAfter, movement.Type, movement.ReferenceID, movement.Notes, movement.CreatedBy).
		Suffix("RETURNING id, created_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&movement.ID, &movement.CreatedAt); err != nil {
		return nil, fmt.Errorf("erro ao inserir movimentação de estoque: %w", err)
	}

	return movement, nil
}

func (r *inventoryMovementRepository) List(ctx context.Context, businessID int64, filters domain.MovementFilters) ([]*domain.InventoryMovement, error) {
	builder := squirrel.
		Select("id", "business_id", "product_id", "product_name", "quantity_before", "quantity_after",
			"movement_type", "reference_id", "notes", "created_by", "created_at").
		From(movementsTable).
		Where(squirrel.Eq{"business_id": businessID}).
		OrderBy("created_at DESC", "id DESC").
		PlaceholderFormat(squirrel.Dollar)

	if filters.ProductID != nil {
		builder = builder.Where(squirrel.Eq{"product_id": *filters.ProductID})
	}
	if filters.Type != "" {
		builder = builder.Where(squirrel.Eq{"movement_type": filters.Type})
	}
	if filters.StartDate != nil {
		builder = builder.Where(squirrel.GtOrEq{"created_at": *filters.StartDate})
	}
	if filters.EndDate != nil {
		builder = builder.Where(squirrel.Lt{"created_at": *filters.EndDate})
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

	movements := make([]*domain.InventoryMovement, 0)
	for rows.Next() {
		var m domain.InventoryMovement
		var reference, notes sql.NullString
		var createdBy sql.NullInt64
		if err := rows.Scan(&m.ID, &m.BusinessID, &m.ProductID, &m.ProductName, &m.QuantityBefore, &m.QuantityAfter,
			&m.Type, &reference, &notes, &createdBy, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("erro ao escanear movimentação: %w", err)
		}
		m.ReferenceID = reference.String
		m.Notes = notes.String
		m.CreatedBy = int(createdBy.Int64)
		movements = append(movements, &m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return movements, nil
}
