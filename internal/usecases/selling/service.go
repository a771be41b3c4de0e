package selling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vfg2006/shop-manager-api/infrastructure/notifier"
	"github.com/vfg2006/shop-manager-api/infrastructure/repository"
	"github.com/vfg2006/shop-manager-api/internal/domain"
	"github.com/vfg2006/shop-manager-api/internal/usecases/leading"
	"github.com/vfg2006/shop-manager-api/pkg/apiErrors"
	"github.com/vfg2006/shop-manager-api/pkg/log"
	"github.com/vfg2006/shop-manager-api/pkg/utils"
)

const quickSaleNote = "Quick Sale"

type Seller interface {
	Checkout(ctx context.Context, req domain.CheckoutRequest) (*domain.CheckoutResponse, error)
	GetSale(ctx context.Context, businessID, saleID int64) (*domain.SaleTransaction, error)
	ListSales(ctx context.Context, businessID int64, filters domain.SaleFilters) ([]*domain.SaleTransaction, error)
	ListLeadSales(ctx context.Context, businessID, leadID int64) ([]*domain.SaleTransaction, error)
}

type Service struct {
	store    repository.Store
	notifier notifier.Notifier
	rule     PointsRule
	now      func() time.Time
	newCode  func() (string, error)
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func WithCodeGenerator(fn func() (string, error)) Option {
	return func(s *Service) {
		s.newCode = fn
	}
}

func NewService(store repository.Store, n notifier.Notifier, rule PointsRule, opts ...Option) *Service {
	s := &Service{
		store:    store,
		notifier: n,
		rule:     rule,
		now:      time.Now,
		newCode:  utils.GenerateSaleCode,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Checkout registra uma venda do Quick Sale. Cabeçalho, itens, baixa de estoque,
// movimentações e pontos do lead são gravados juntos ou nada é gravado.
func (s *Service) Checkout(ctx context.Context, req domain.CheckoutRequest) (*domain.CheckoutResponse, error) {
	logger := log.ForContext(ctx).WithFields(log.Fields{
		"business_id": req.BusinessID,
		"buyer_type":  req.BuyerType,
	})

	if err := ValidateCheckout(req); err != nil {
		return nil, err
	}

	lines, err := ConsolidateCart(req.Items)
	if err != nil {
		return nil, err
	}

	code, err := s.newCode()
	if err != nil {
		return nil, NewSaleError(ErrSaleCodeGeneration, apiErrors.ErrInternalServer, err.Error())
	}

	asOf := s.now()
	var resp *domain.CheckoutResponse
	var lowStock []*domain.Product

	err = s.store.RunInTransaction(ctx, func(repos *repository.Repositories) error {
		var txErr error
		resp, lowStock, txErr = s.checkout(ctx, repos, req, lines, code, asOf)
		return txErr
	})
	if err != nil {
		var saleErr *SaleError
		var leadErr *leading.LeadError
		if errors.As(err, &saleErr) || errors.As(err, &leadErr) {
			logger.WithError(err).Warn("Venda rejeitada")
			return nil, err
		}
		logger.WithError(err).Error("Erro ao gravar venda")
		return nil, newDatabaseError(err)
	}

	logger.WithFields(log.Fields{
		"sale_code":     resp.Sale.Code,
		"earned_points": resp.Sale.EarnedPoints,
	}).Info("Venda registrada")

	s.publish(ctx, req.BusinessID, resp.Movements, lowStock, asOf)

	return resp, nil
}

func (s *Service) checkout(
	ctx context.Context,
	repos *repository.Repositories,
	req domain.CheckoutRequest,
	lines []domain.CartItem,
	code string,
	asOf time.Time,
) (*domain.CheckoutResponse, []*domain.Product, error) {
	ids := make([]int64, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.ProductID)
	}

	products, err := repos.Products.GetForUpdate(ctx, req.BusinessID, ids)
	if err != nil {
		return nil, nil, fmt.Errorf("erro ao bloquear produtos: %w", err)
	}

	if violations := checkAvailability(lines, products); len(violations) > 0 {
		return nil, nil, newStockError(apiErrors.ErrSaleUnavailable, violations)
	}

	var lead *domain.Lead
	leadCreated := false
	switch req.BuyerType {
	case domain.BuyerTypeExistingLead:
		lead, err = leading.LoadExistingLead(ctx, repos.Leads, req.BusinessID, *req.LeadID)
	case domain.BuyerTypeLead:
		lead, leadCreated, err = leading.ResolveLead(ctx, repos.Leads, req.BusinessID, req.Buyer)
	}
	if err != nil {
		return nil, nil, err
	}

	var history []domain.PurchaseRecord
	if lead != nil {
		history, err = repos.Sales.ListLeadPurchases(ctx, req.BusinessID, lead.ID, s.rule.HistoryStart(asOf))
		if err != nil {
			return nil, nil, fmt.Errorf("erro ao buscar histórico de compras: %w", err)
		}
	}

	sale := &domain.SaleTransaction{
		BusinessID:  req.BusinessID,
		Code:        code,
		SoldBy:      req.SoldBy,
		SoldAt:      asOf,
		TotalAmount: decimal.Zero,
		Notes:       req.Notes,
		Items:       make([]*domain.SaleLineItem, 0, len(lines)),
	}
	if lead != nil {
		sale.LeadID = &lead.ID
	}

	for _, line := range lines {
		product := products[line.ProductID]

		unitPrice := line.UnitPrice
		if unitPrice.IsZero() {
			unitPrice = product.SellingPrice
		}

		points := 0
		if lead != nil {
			points = s.rule.PointsFor(history, product.ID, asOf)
		}

		item := &domain.SaleLineItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    line.Quantity,
			UnitPrice:   unitPrice,
			TotalPrice:  unitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))),
			Points:      points,
		}

		sale.Items = append(sale.Items, item)
		sale.TotalAmount = sale.TotalAmount.Add(item.TotalPrice)
		sale.EarnedPoints += points
	}

	sale, err = repos.Sales.Create(ctx, sale)
	if err != nil {
		return nil, nil, fmt.Errorf("erro ao gravar venda: %w", err)
	}

	movements := make([]*domain.InventoryMovement, 0, len(sale.Items))
	lowStock := make([]*domain.Product, 0)
	for _, item := range sale.Items {
		before, after, err := repos.Products.AdjustStock(ctx, req.BusinessID, item.ProductID, -item.Quantity)
		if errors.Is(err, repository.ErrStockConflict) {
			return nil, nil, newStockError(apiErrors.ErrSaleUnavailable, []LineViolation{{
				ProductID: item.ProductID,
				Reason:    ReasonInsufficientStock,
				Requested: item.Quantity,
			}})
		}
		if err != nil {
			return nil, nil, fmt.Errorf("erro ao baixar estoque: %w", err)
		}

		movement, err := repos.Movements.Create(ctx, &domain.InventoryMovement{
			BusinessID:     req.BusinessID,
			ProductID:      item.ProductID,
			ProductName:    item.ProductName,
			QuantityBefore: before,
			QuantityAfter:  after,
			Type:           domain.MovementTypeSale,
			ReferenceID:    sale.Code,
			Notes:          quickSaleNote,
			CreatedBy:      req.SoldBy,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("erro ao registrar movimentação: %w", err)
		}
		movements = append(movements, movement)

		product := products[item.ProductID]
		if after <= product.ReorderLevel {
			product.StockQuantity = after
			lowStock = append(lowStock, product)
		}
	}

	if lead != nil {
		lastProductID := sale.Items[len(sale.Items)-1].ProductID
		soldAt := sale.SoldAt
		lead.LoyaltyPoints += sale.EarnedPoints
		lead.LastPurchaseAt = &soldAt
		lead.LastPurchasedProductID = &lastProductID
		if err := repos.Leads.Update(ctx, lead); err != nil {
			return nil, nil, fmt.Errorf("erro ao atualizar pontos do lead: %w", err)
		}
	}

	return &domain.CheckoutResponse{
		Sale:        sale,
		Lead:        lead,
		LeadCreated: leadCreated,
		Movements:   movements,
	}, lowStock, nil
}

// publish avisa os clientes depois do commit; falhas aqui não desfazem a venda
func (s *Service) publish(ctx context.Context, businessID int64, movements []*domain.InventoryMovement, lowStock []*domain.Product, asOf time.Time) {
	if s.notifier == nil {
		return
	}

	ctx = context.WithoutCancel(ctx)
	logger := log.ForContext(ctx)

	if err := s.notifier.InventoryChanged(ctx, domain.NewInventoryChangeBatch(businessID, movements)); err != nil {
		logger.WithError(err).Warn("Falha ao notificar alteração de estoque")
	}

	if len(lowStock) == 0 {
		return
	}

	for _, alert := range domain.NewLowStockAlerts(lowStock, asOf) {
		if err := s.notifier.LowStock(ctx, alert); err != nil {
			logger.WithError(err).Warn("Falha ao notificar estoque baixo")
		}
	}
}

func (s *Service) GetSale(ctx context.Context, businessID, saleID int64) (*domain.SaleTransaction, error) {
	sale, err := s.store.Repositories().Sales.GetByID(ctx, businessID, saleID)
	if err != nil {
		return nil, newDatabaseError(err)
	}
	if sale == nil {
		return nil, NewSaleError(ErrSaleNotFound, apiErrors.ErrSaleNotFound, fmt.Sprintf("id=%d", saleID))
	}
	return sale, nil
}

func (s *Service) ListSales(ctx context.Context, businessID int64, filters domain.SaleFilters) ([]*domain.SaleTransaction, error) {
	sales, err := s.store.Repositories().Sales.List(ctx, businessID, filters)
	if err != nil {
		return nil, newDatabaseError(err)
	}
	return sales, nil
}

func (s *Service) ListLeadSales(ctx context.Context, businessID, leadID int64) ([]*domain.SaleTransaction, error) {
	lead, err := s.store.Repositories().Leads.GetByID(ctx, businessID, leadID)
	if err != nil {
		return nil, newDatabaseError(err)
	}
	if lead == nil {
		return nil, leading.NewLeadError(leading.ErrLeadNotFound, apiErrors.ErrLeadNotFound, leadID, "")
	}

	return s.ListSales(ctx, businessID, domain.SaleFilters{LeadID: &leadID})
}
