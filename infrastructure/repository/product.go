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

const productsTable = "products"

var productColumns = []string{
	"id", "business_id", "name", "category", "sku", "stock_quantity", "reorder_level",
	"purchase_price", "selling_price", "published", "deleted", "deleted_at", "created_at", "updated_at",
}

type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) (*domain.Product, error)
	Update(ctx context.Context, product *domain.Product) error
	GetByID(ctx context.Context, businessID, productID int64) (*domain.Product, error)
	GetForUpdate(ctx context.Context, businessID int64, productIDs []int64) (map[int64]*domain.Product, error)
	List(ctx context.Context, businessID int64, filters domain.ProductFilters) ([]*domain.Product, error)
	ListLowStock(ctx context.Context, businessID int64) ([]*domain.Product, error)
	AdjustStock(ctx context.Context, businessID, productID int64, delta int) (before int, after int, err error)
	SoftDelete(ctx context.Context, businessID, productID int64) error
}

type productRepository struct {
	db postgres.Queryer
}

func NewProductRepository(db postgres.Queryer) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	query, args, err := squirrel.
		Insert(productsTable).
		Columns("business_id", "name", "category", "sku", "stock_quantity", "reorder_level",
			"purchase_price", "selling_price", "published").
		Values(product.BusinessID, product.Name, product.Category, product.SKU, product.StockQuantity,
			product.ReorderLevel, product.PurchasePrice, product.SellingPrice, product.Published).
		Suffix("RETURNING id, created_at, updated_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	err = r.db.QueryRowContext(ctx, query, args...).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("erro ao inserir produto: %w", err)
	}

	return product, nil
}

// Update grava os dados cadastrais; o estoque só muda via AdjustStock
func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	query, args, err := squirrel.
		Update(productsTable).
		Set("name", product.Name).
		Set("category", product.Category).
		Set("sku", product.SKU).
		Set("reorder_level", product.ReorderLevel).
		Set("purchase_price", product.PurchasePrice).
		Set("selling_price", product.SellingPrice).
		Set("published", product.Published).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": product.ID, "business_id": product.BusinessID, "deleted": false}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("erro ao atualizar produto: %w", err)
	}

	return expectAffected(result)
}

func (r *productRepository) GetByID(ctx context.Context, businessID, productID int64) (*domain.Product, error) {
	query, args, err := squirrel.
		Select(productColumns...).
		From(productsTable).
		Where(squirrel.Eq{"id": productID, "business_id": businessID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("erro ao escanear produto: %w", err)
	}

	return product, nil
}

// GetForUpdate bloqueia as linhas dos produtos até o fim da transação, em ordem de id para evitar deadlock
func (r *productRepository) GetForUpdate(ctx context.Context, businessID int64, productIDs []int64) (map[int64]*domain.Product, error) {
	products := make(map[int64]*domain.Product, len(productIDs))
	if len(productIDs) == 0 {
		return products, nil
	}

	query, args, err := squirrel.
		Select(productColumns...).
		From(productsTable).
		Where(squirrel.Eq{"business_id": businessID, "id": productIDs}).
		OrderBy("id ASC").
		Suffix("FOR UPDATE").
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

	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear produto: %w", err)
		}
		products[product.ID] = product
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return products, nil
}

func (r *productRepository) List(ctx context.Context, businessID int64, filters domain.ProductFilters) ([]*domain.Product, error) {
	builder := squirrel.
		Select(productColumns...).
		From(productsTable).
		Where(squirrel.Eq{"business_id": businessID, "deleted": false}).
		OrderBy("name ASC").
		PlaceholderFormat(squirrel.Dollar)

	if filters.Category != "" {
		builder = builder.Where(squirrel.Eq{"category": filters.Category})
	}
	if filters.OnlyPublished {
		builder = builder.Where(squirrel.Eq{"published": true})
	}
	if search := strings.TrimSpace(filters.Search); search != "" {
		pattern := "%" + search + "%"
		builder = builder.Where(squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"sku": pattern},
		})
	}

	return r.queryProducts(ctx, builder)
}

// ListLowStock lista produtos com estoque no nível de reposição; businessID zero busca todas as empresas
func (r *productRepository) ListLowStock(ctx context.Context, businessID int64) ([]*domain.Product, error) {
	builder := squirrel.
		Select(productColumns...).
		From(productsTable).
		Where(squirrel.Eq{"deleted": false}).
		Where("stock_quantity <= reorder_level").
		OrderBy("business_id ASC", "stock_quantity ASC", "id ASC").
		PlaceholderFormat(squirrel.Dollar)

	if businessID != 0 {
		builder = builder.Where(squirrel.Eq{"business_id": businessID})
	}

	return r.queryProducts(ctx, builder)
}

// AdjustStock soma delta ao estoque somente se o resultado não ficar negativo
func (r *productRepository) AdjustStock(ctx context.Context, businessID, productID int64, delta int) (int, int, error) {
	query, args, err := squirrel.
		Update(productsTable).
		Set("stock_quantity", squirrel.Expr("stock_quantity + ?", delta)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": productID, "business_id": businessID, "deleted": false}).
		Where(squirrel.Expr("stock_quantity + ? >= 0", delta)).
		Suffix("RETURNING stock_quantity").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, 0, fmt.Errorf("erro ao construir a query: %w", err)
	}

	var after int
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&after)
	if err == sql.ErrNoRows {
		return 0, 0, ErrStockConflict
	}
	if err != nil {
		return 0, 0, fmt.Errorf("erro ao atualizar estoque: %w", err)
	}

	return after - delta, after, nil
}

func (r *productRepository) SoftDelete(ctx context.Context, businessID, productID int64) error {
	query, args, err := squirrel.
		Update(productsTable).
		Set("deleted", true).
		Set("deleted_at", squirrel.Expr("NOW()")).
		Set("published", false).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": productID, "business_id": businessID, "deleted": false}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("erro ao remover produto: %w", err)
	}

	return expectAffected(result)
}

func (r *productRepository) queryProducts(ctx context.Context, builder squirrel.SelectBuilder) ([]*domain.Product, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	products := make([]*domain.Product, 0)
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear produto: %w", err)
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return products, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row scanner) (*domain.Product, error) {
	var p domain.Product
	var category, sku sql.NullString
	var deletedAt sql.NullTime

	err := row.Scan(
		&p.ID,
		&p.BusinessID,
		&p.Name,
		&category,
		&sku,
		&p.StockQuantity,
		&p.ReorderLevel,
		&p.PurchasePrice,
		&p.SellingPrice,
		&p.Published,
		&p.Deleted,
		&deletedAt,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Category = category.String
	p.SKU = sku.String
	if deletedAt.Valid {
		p.DeletedAt = &deletedAt.Time
	}

	return &p, nil
}

func expectAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("erro ao verificar linhas afetadas: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
