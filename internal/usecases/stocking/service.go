package stocking

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/vfg2006/shop-manager-api/infrastructure/notifier"
	"github.com/vfg2006/shop-manager-api/infrastructure/repository"
	"github.com/vfg2006/shop-manager-api/internal/domain"
	"github.com/vfg2006/shop-manager-api/pkg/apiErrors"
	"github.com/vfg2006/shop-manager-api/pkg/log"
)

type Stocker interface {
	CreateProduct(ctx context.Context, req domain.CreateProductRequest) (*domain.Product, error)
	UpdateProduct(ctx context.Context, req domain.UpdateProductRequest) (*domain.Product, error)
	DeleteProduct(ctx context.Context, businessID, productID int64) error
	SetPublished(ctx context.Context, businessID, productID int64, published bool) (*domain.Product, error)
	GetProduct(ctx context.Context, businessID, productID int64) (*domain.Product, error)
	ListProducts(ctx context.Context, businessID int64, filters domain.ProductFilters) ([]*domain.Product, error)
	StockIn(ctx context.Context, req domain.StockInRequest) (*domain.InventoryMovement, error)
	AdjustStock(ctx context.Context, req domain.StockAdjustmentRequest) (*domain.InventoryMovement, error)
	ListMovements(ctx context.Context, businessID int64, filters domain.MovementFilters) ([]*domain.InventoryMovement, error)
	ListLowStock(ctx context.Context, businessID int64) ([]*domain.Product, error)
}

type Service struct {
	store    repository.Store
	notifier notifier.Notifier
	now      func() time.Time
}

func NewService(store repository.Store, n notifier.Notifier) *Service {
	return &Service{
		store:    store,
		notifier: n,
		now:      time.Now,
	}
}

func (s *Service) CreateProduct(ctx context.Context, req domain.CreateProductRequest) (*domain.Product, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, NewStockError(ErrMissingName, apiErrors.ErrMissingRequiredData, 0, "")
	}
	if req.StockQuantity < 0 || req.ReorderLevel < 0 {
		return nil, NewStockError(ErrNegativeStock, apiErrors.ErrInvalidStockInput, 0, "")
	}
	if req.PurchasePrice.IsNegative() || req.SellingPrice.IsNegative() {
		return nil, NewStockError(ErrNegativePrice, apiErrors.ErrInvalidFormat, 0, "")
	}

	var product *domain.Product
	var movements []*domain.InventoryMovement

	err := s.store.RunInTransaction(ctx, func(repos *repository.Repositories) error {
		var err error
		product, err = repos.Products.Create(ctx, &domain.Product{
			BusinessID:    req.BusinessID,
			Name:          name,
			Category:      strings.TrimSpace(req.Category),
			SKU:           strings.TrimSpace(req.SKU),
			StockQuantity: req.StockQuantity,
			ReorderLevel:  req.ReorderLevel,
			PurchasePrice: req.PurchasePrice,
			SellingPrice:  req.SellingPrice,
			Published:     req.Published,
		})
		if err != nil {
			return err
		}

		if product.StockQuantity == 0 {
			return nil
		}

		movement, err := repos.Movements.Create(ctx, &domain.InventoryMovement{
			BusinessID:     product.BusinessID,
			ProductID:      product.ID,
			ProductName:    product.Name,
			QuantityBefore: 0,
			QuantityAfter:  product.StockQuantity,
			Type:           domain.MovementTypeProductCreated,
			Notes:          "Estoque inicial",
			CreatedBy:      req.CreatedBy,
		})
		if err != nil {
			return err
		}
		movements = append(movements, movement)
		return nil
	})
	if err != nil {
		return nil, newDatabaseError(0, err)
	}

	log.ForContext(ctx).WithFields(log.Fields{
		"business_id": product.BusinessID,
		"product_id":  product.ID,
	}).Info("Produto cadastrado")

	s.publish(ctx, product.BusinessID, movements, nil)

	return product, nil
}

func (s *Service) UpdateProduct(ctx context.Context, req domain.UpdateProductRequest) (*domain.Product, error) {
	product, err := s.getActive(ctx, req.BusinessID, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, NewStockError(ErrMissingName, apiErrors.ErrMissingRequiredData, product.ID, "")
		}
		product.Name = name
	}
	if req.Category != nil {
		product.Category = strings.TrimSpace(*req.Category)
	}
	if req.SKU != nil {
		product.SKU = strings.TrimSpace(*req.SKU)
	}
	if req.ReorderLevel != nil {
		if *req.ReorderLevel < 0 {
			return nil, NewStockError(ErrNegativeStock, apiErrors.ErrInvalidStockInput, product.ID, "nível de reposição")
		}
		product.ReorderLevel = *req.ReorderLevel
	}
	if req.PurchasePrice != nil {
		if req.PurchasePrice.IsNegative() {
			return nil, NewStockError(ErrNegativePrice, apiErrors.ErrInvalidFormat, product.ID, "preço de custo")
		}
		product.PurchasePrice = *req.PurchasePrice
	}
	if req.SellingPrice != nil {
		if req.SellingPrice.IsNegative() {
			return nil, NewStockError(ErrNegativePrice, apiErrors.ErrInvalidFormat, product.ID, "preço de venda")
		}
		product.SellingPrice = *req.SellingPrice
	}

	if err := s.store.Repositories().Products.Update(ctx, product); err != nil {
		return nil, s.wrapWriteError(err, product.ID)
	}

	return product, nil
}

// DeleteProduct remove o produto do catálogo mantendo vendas e movimentações que o referenciam
func (s *Service) DeleteProduct(ctx context.Context, businessID, productID int64) error {
	if _, err := s.getActive(ctx, businessID, productID); err != nil {
		return err
	}

	if err := s.store.Repositories().Products.SoftDelete(ctx, businessID, productID); err != nil {
		return s.wrapWriteError(err, productID)
	}

	log.ForContext(ctx).WithFields(log.Fields{
		"business_id": businessID,
		"product_id":  productID,
	}).Info("Produto removido")

	return nil
}

func (s *Service) SetPublished(ctx context.Context, businessID, productID int64, published bool) (*domain.Product, error) {
	product, err := s.getActive(ctx, businessID, productID)
	if err != nil {
		return nil, err
	}
	if product.Published == published {
		return product, nil
	}

	product.Published = published
	if err := s.store.Repositories().Products.Update(ctx, product); err != nil {
		return nil, s.wrapWriteError(err, productID)
	}

	return product, nil
}

func (s *Service) GetProduct(ctx context.Context, businessID, productID int64) (*domain.Product, error) {
	return s.getActive(ctx, businessID, productID)
}

func (s *Service) ListProducts(ctx context.Context, businessID int64, filters domain.ProductFilters) ([]*domain.Product, error) {
	products, err := s.store.Repositories().Products.List(ctx, businessID, filters)
	if err != nil {
		return nil, newDatabaseError(0, err)
	}
	return products, nil
}

// StockIn registra a entrada de mercadoria
func (s *Service) StockIn(ctx context.Context, req domain.StockInRequest) (*domain.InventoryMovement, error) {
	if req.Quantity <= 0 {
		return nil, NewStockError(ErrInvalidQuantity, apiErrors.ErrInvalidStockInput, req.ProductID, "")
	}

	return s.changeStock(ctx, req.BusinessID, req.ProductID, func(product *domain.Product) (int, *domain.InventoryMovement) {
		return req.Quantity, &domain.InventoryMovement{
			Type:        domain.MovementTypeStockIn,
			ReferenceID: strings.TrimSpace(req.Reference),
			Notes:       req.Notes,
			CreatedBy:   req.CreatedBy,
		}
	})
}

// AdjustStock substitui o estoque pela quantidade contada; a diferença fica registrada na movimentação
func (s *Service) AdjustStock(ctx context.Context, req domain.StockAdjustmentRequest) (*domain.InventoryMovement, error) {
	if req.CountedQuantity < 0 {
		return nil, NewStockError(ErrNegativeStock, apiErrors.ErrInvalidStockInput, req.ProductID, "")
	}

	return s.changeStock(ctx, req.BusinessID, req.ProductID, func(product *domain.Product) (int, *domain.InventoryMovement) {
		return req.CountedQuantity - product.StockQuantity, &domain.InventoryMovement{
			Type:      domain.MovementTypeAdjustment,
			Notes:     req.Notes,
			CreatedBy: req.CreatedBy,
		}
	})
}

// changeStock bloqueia o produto, aplica a variação e grava a movimentação na mesma transação
func (s *Service) changeStock(
	ctx context.Context,
	businessID, productID int64,
	plan func(product *domain.Product) (int, *domain.InventoryMovement),
) (*domain.InventoryMovement, error) {
	var movement *domain.InventoryMovement
	var product *domain.Product

	err := s.store.RunInTransaction(ctx, func(repos *repository.Repositories) error {
		locked, err := repos.Products.GetForUpdate(ctx, businessID, []int64{productID})
		if err != nil {
			return err
		}
		product = locked[productID]
		if product == nil || product.Deleted {
			return NewStockError(ErrProductNotFound, apiErrors.ErrProductNotFound, productID, "")
		}

		delta, draft := plan(product)

		before, after, err := repos.Products.AdjustStock(ctx, businessID, productID, delta)
		if errors.Is(err, repository.ErrStockConflict) {
			return NewStockError(ErrNegativeStock, apiErrors.ErrInvalidStockInput, productID, "")
		}
		if err != nil {
			return err
		}

		draft.BusinessID = businessID
		draft.ProductID = productID
		draft.ProductName = product.Name
		draft.QuantityBefore = before
		draft.QuantityAfter = after

		movement, err = repos.Movements.Create(ctx, draft)
		if err != nil {
			return err
		}
		product.StockQuantity = after
		return nil
	})
	if err != nil {
		var stockErr *StockError
		if errors.As(err, &stockErr) {
			return nil, stockErr
		}
		log.ForContext(ctx).WithError(err).WithField("product_id", productID).Error("Erro ao alterar estoque")
		return nil, newDatabaseError(productID, err)
	}

	log.ForContext(ctx).WithFields(log.Fields{
		"business_id":   businessID,
		"product_id":    productID,
		"movement_type": movement.Type,
		"delta":         movement.Delta(),
	}).Info("Estoque alterado")

	var lowStock []*domain.Product
	if movement.Delta() < 0 && product.IsLowStock() {
		lowStock = []*domain.Product{product}
	}
	s.publish(ctx, businessID, []*domain.InventoryMovement{movement}, lowStock)

	return movement, nil
}

func (s *Service) ListMovements(ctx context.Context, businessID int64, filters domain.MovementFilters) ([]*domain.InventoryMovement, error) {
	movements, err := s.store.Repositories().Movements.List(ctx, businessID, filters)
	if err != nil {
		return nil, newDatabaseError(0, err)
	}
	return movements, nil
}

func (s *Service) ListLowStock(ctx context.Context, businessID int64) ([]*domain.Product, error) {
	products, err := s.store.Repositories().Products.ListLowStock(ctx, businessID)
	if err != nil {
		return nil, newDatabaseError(0, err)
	}
	return products, nil
}

func (s *Service) getActive(ctx context.Context, businessID, productID int64) (*domain.Product, error) {
	product, err := s.store.Repositories().Products.GetByID(ctx, businessID, productID)
	if err != nil {
		return nil, newDatabaseError(productID, err)
	}
	if product == nil || product.Deleted {
		return nil, NewStockError(ErrProductNotFound, apiErrors.ErrProductNotFound, productID, "")
	}
	return product, nil
}

func (s *Service) wrapWriteError(err error, productID int64) error {
	if errors.Is(err, repository.ErrNotFound) {
		return NewStockError(ErrProductNotFound, apiErrors.ErrProductNotFound, productID, "")
	}
	return newDatabaseError(productID, err)
}

func (s *Service) publish(ctx context.Context, businessID int64, movements []*domain.InventoryMovement, lowStock []*domain.Product) {
	if s.notifier == nil || len(movements) == 0 {
		return
	}

	ctx = context.WithoutCancel(ctx)
	logger := log.ForContext(ctx)

	if err := s.notifier.InventoryChanged(ctx, domain.NewInventoryChangeBatch(businessID, movements)); err != nil {
		logger.WithError(err).Warn("Falha ao notificar alteração de estoque")
	}

	for _, alert := range domain.NewLowStockAlerts(lowStock, s.now()) {
		if err := s.notifier.LowStock(ctx, alert); err != nil {
			logger.WithError(err).Warn("Falha ao notificar estoque baixo")
		}
	}
}
