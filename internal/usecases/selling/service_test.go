package selling

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/shop-manager-api/infrastructure/database/memory"
	"github.com/vfg2006/shop-manager-api/infrastructure/notifier/mocks"
	"github.com/vfg2006/shop-manager-api/internal/domain"
	"github.com/vfg2006/shop-manager-api/internal/usecases/leading"
	"github.com/vfg2006/shop-manager-api/pkg/apiErrors"
	"go.uber.org/mock/gomock"
)

const businessID int64 = 1

var now = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

type fixture struct {
	store    *memory.Store
	notifier *mocks.MockNotifier
	service  *Service
}

func newFixture(t *testing.T) *fixture {
	ctrl := gomock.NewController(t)
	store := memory.NewStore(memory.WithClock(func() time.Time { return now }))
	n := mocks.NewMockNotifier(ctrl)

	rule := PointsRule{Window: 30 * 24 * time.Hour, NewProductPoints: 2, RepeatProductPoints: 1}
	service := NewService(store, n, rule,
		WithClock(func() time.Time { return now }),
		WithCodeGenerator(func() (string, error) { return "QS-TEST01", nil }),
	)

	return &fixture{store: store, notifier: n, service: service}
}

func (f *fixture) product(t *testing.T, name string, stock, reorder int, sellingPrice string) *domain.Product {
	p, err := f.store.Repositories().Products.Create(context.Background(), &domain.Product{
		BusinessID:    businessID,
		Name:          name,
		StockQuantity: stock,
		ReorderLevel:  reorder,
		SellingPrice:  decimal.RequireFromString(sellingPrice),
		Published:     true,
	})
	require.NoError(t, err)
	return p
}

func (f *fixture) lead(t *testing.T, name, email string, points int) *domain.Lead {
	l, err := f.store.Repositories().Leads.Create(context.Background(), &domain.Lead{
		BusinessID:    businessID,
		Name:          name,
		Email:         email,
		LoyaltyPoints: points,
		Status:        domain.LeadStatusActive,
		Source:        domain.LeadSourceManual,
	})
	require.NoError(t, err)
	return l
}

func TestCheckout_ConsolidaItensRepetidos(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Caneca", 10, 2, "12.00")

	var batch domain.InventoryChangeBatch
	f.notifier.EXPECT().InventoryChanged(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, b domain.InventoryChangeBatch) error {
			batch = b
			return nil
		})

	resp, err := f.service.Checkout(context.Background(), domain.CheckoutRequest{
		BusinessID: businessID,
		SoldBy:     7,
		BuyerType:  domain.BuyerTypeAnonymous,
		Items: []domain.CartItem{
			{ProductID: p.ID, Quantity: 2, UnitPrice: price("10.00")},
			{ProductID: p.ID, Quantity: 1, UnitPrice: price("10.00")},
		},
	})
	require.NoError(t, err)

	require.Len(t, resp.Sale.Items, 1)
	assert.Equal(t, 3, resp.Sale.Items[0].Quantity)
	assert.True(t, price("30.00").Equal(resp.Sale.Items[0].TotalPrice))
	assert.True(t, price("30.00").Equal(resp.Sale.TotalAmount))
	assert.Equal(t, "QS-TEST01", resp.Sale.Code)
	assert.Equal(t, 7, resp.Sale.SoldBy)

	assert.Equal(t, 7, f.store.Product(p.ID).StockQuantity)

	require.Len(t, resp.Movements, 1)
	assert.Equal(t, 10, resp.Movements[0].QuantityBefore)
	assert.Equal(t, 7, resp.Movements[0].QuantityAfter)
	assert.Equal(t, domain.MovementTypeSale, resp.Movements[0].Type)
	assert.Equal(t, "QS-TEST01", resp.Movements[0].ReferenceID)

	assert.Equal(t, businessID, batch.BusinessID)
	require.Len(t, batch.Events, 1)
	assert.Equal(t, p.ID, batch.Events[0].ProductID)
}

func TestCheckout_EstoqueInsuficienteNaoAlteraNada(t *testing.T) {
	f := newFixture(t)
	scarce := f.product(t, "Vela", 3, 1, "5.00")
	plenty := f.product(t, "Sabonete", 50, 5, "4.00")
	l := f.lead(t, "Ana", "ana@mail.com", 4)

	_, err := f.service.Checkout(context.Background(), domain.CheckoutRequest{
		BusinessID: businessID,
		BuyerType:  domain.BuyerTypeExistingLead,
		LeadID:     &l.ID,
		Items: []domain.CartItem{
			{ProductID: plenty.ID, Quantity: 1},
			{ProductID: scarce.ID, Quantity: 10},
			{ProductID: 999, Quantity: 1},
		},
	})

	var saleErr *SaleError
	require.True(t, errors.As(err, &saleErr))
	assert.Equal(t, apiErrors.ErrSaleUnavailable, saleErr.Code)
	require.Len(t, saleErr.Violations, 2)
	assert.Equal(t, LineViolation{ProductID: scarce.ID, Reason: ReasonInsufficientStock, Requested: 10, Available: 3}, saleErr.Violations[0])
	assert.Equal(t, ReasonProductNotFound, saleErr.Violations[1].Reason)

	assert.Equal(t, 3, f.store.Product(scarce.ID).StockQuantity)
	assert.Equal(t, 50, f.store.Product(plenty.ID).StockQuantity)
	assert.Equal(t, 0, f.store.CountSales())
	assert.Empty(t, f.store.Movements())
	assert.Equal(t, 4, f.store.Lead(l.ID).LoyaltyPoints)
}

func TestCheckout_AnonimoNaoGeraLeadNemPontos(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Pão", 20, 2, "1.50")

	f.notifier.EXPECT().InventoryChanged(gomock.Any(), gomock.Any()).Return(nil)

	resp, err := f.service.Checkout(context.Background(), domain.CheckoutRequest{
		BusinessID: businessID,
		BuyerType:  domain.BuyerTypeAnonymous,
		Items:      []domain.CartItem{{ProductID: p.ID, Quantity: 4}},
	})
	require.NoError(t, err)

	assert.Nil(t, resp.Lead)
	assert.Nil(t, resp.Sale.LeadID)
	assert.Equal(t, 0, resp.Sale.EarnedPoints)
	assert.Equal(t, 0, resp.Sale.Items[0].Points)
	assert.True(t, price("6.00").Equal(resp.Sale.TotalAmount))
	assert.Equal(t, 16, f.store.Product(p.ID).StockQuantity)
	assert.Equal(t, 0, f.store.CountLeads())
	assert.Equal(t, 1, f.store.CountSales())
}

func TestCheckout_PontosPorProdutoDistinto(t *testing.T) {
	f := newFixture(t)
	recent := f.product(t, "Café", 30, 2, "20.00")
	old := f.product(t, "Chá", 30, 2, "15.00")
	never := f.product(t, "Açúcar", 30, 2, "6.00")
	l := f.lead(t, "Bruno", "bruno@mail.com", 10)

	f.store.SeedSale(&domain.SaleTransaction{
		BusinessID: businessID,
		Code:       "QS-OLD001",
		LeadID:     &l.ID,
		SoldAt:     now.AddDate(0, 0, -10),
		Items:      []*domain.SaleLineItem{{ProductID: recent.ID, Quantity: 1}},
	})
	f.store.SeedSale(&domain.SaleTransaction{
		BusinessID: businessID,
		Code:       "QS-OLD002",
		LeadID:     &l.ID,
		SoldAt:     now.AddDate(0, 0, -31),
		Items:      []*domain.SaleLineItem{{ProductID: old.ID, Quantity: 1}},
	})

	f.notifier.EXPECT().InventoryChanged(gomock.Any(), gomock.Any()).Return(nil)

	resp, err := f.service.Checkout(context.Background(), domain.CheckoutRequest{
		BusinessID: businessID,
		BuyerType:  domain.BuyerTypeExistingLead,
		LeadID:     &l.ID,
		Items: []domain.CartItem{
			{ProductID: recent.ID, Quantity: 5},
			{ProductID: old.ID, Quantity: 1},
			{ProductID: never.ID, Quantity: 3},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, resp.Sale.Items[0].Points)
	assert.Equal(t, 2, resp.Sale.Items[1].Points)
	assert.Equal(t, 2, resp.Sale.Items[2].Points)
	assert.Equal(t, 5, resp.Sale.EarnedPoints)

	stored := f.store.Lead(l.ID)
	assert.Equal(t, 15, stored.LoyaltyPoints)
	require.NotNil(t, stored.LastPurchaseAt)
	assert.True(t, now.Equal(*stored.LastPurchaseAt))
	assert.Equal(t, never.ID, *stored.LastPurchasedProductID)

	// preço zero usa o preço de venda do cadastro
	assert.True(t, price("100.00").Equal(resp.Sale.Items[0].TotalPrice))
	assert.True(t, price("133.00").Equal(resp.Sale.TotalAmount))
}

func TestCheckout_NovoLeadCriadoOuReaproveitado(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Livro", 5, 0, "40.00")

	f.notifier.EXPECT().InventoryChanged(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	req := domain.CheckoutRequest{
		BusinessID: businessID,
		BuyerType:  domain.BuyerTypeLead,
		Buyer:      domain.LeadContact{Name: "Carla", Phone: "(11) 91234-5678"},
		Items:      []domain.CartItem{{ProductID: p.ID, Quantity: 1}},
	}

	first, err := f.service.Checkout(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, first.LeadCreated)
	assert.Equal(t, 2, first.Lead.LoyaltyPoints)
	assert.Equal(t, domain.LeadSourceQuickSale, first.Lead.Source)

	req.Buyer = domain.LeadContact{Phone: "11912345678", Email: "carla@mail.com"}
	second, err := f.service.Checkout(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, second.LeadCreated)
	assert.Equal(t, first.Lead.ID, second.Lead.ID)
	assert.Equal(t, 3, second.Lead.LoyaltyPoints)

	stored := f.store.Lead(first.Lead.ID)
	assert.Equal(t, "carla@mail.com", stored.Email)
	assert.Equal(t, 1, f.store.CountLeads())
}

func TestCheckout_LeadRemovidoAbortaVenda(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Livro", 5, 0, "40.00")
	l := f.lead(t, "Diego", "diego@mail.com", 0)
	require.NoError(t, leading.NewService(f.store.Repositories().Leads).DeleteLead(context.Background(), businessID, l.ID))

	_, err := f.service.Checkout(context.Background(), domain.CheckoutRequest{
		BusinessID: businessID,
		BuyerType:  domain.BuyerTypeExistingLead,
		LeadID:     &l.ID,
		Items:      []domain.CartItem{{ProductID: p.ID, Quantity: 1}},
	})

	assert.ErrorIs(t, err, leading.ErrLeadDeleted)
	assert.Equal(t, 5, f.store.Product(p.ID).StockQuantity)
	assert.Equal(t, 0, f.store.CountSales())
}

func TestCheckout_FalhaDePersistenciaDesfazTudo(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Livro", 5, 0, "40.00")
	l := f.lead(t, "Eva", "eva@mail.com", 1)
	f.store.FailOn("movements.create", errors.New("conexão perdida"))

	_, err := f.service.Checkout(context.Background(), domain.CheckoutRequest{
		BusinessID: businessID,
		BuyerType:  domain.BuyerTypeExistingLead,
		LeadID:     &l.ID,
		Items:      []domain.CartItem{{ProductID: p.ID, Quantity: 2}},
	})

	var saleErr *SaleError
	require.True(t, errors.As(err, &saleErr))
	assert.Equal(t, apiErrors.ErrDatabaseOperation, saleErr.Code)
	assert.Equal(t, 5, f.store.Product(p.ID).StockQuantity)
	assert.Equal(t, 0, f.store.CountSales())
	assert.Equal(t, 1, f.store.Lead(l.ID).LoyaltyPoints)
}

func TestCheckout_PrazoExpiradoMantemCausaNoErro(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Livro", 5, 0, "40.00")

	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	_, err := f.service.Checkout(ctx, domain.CheckoutRequest{
		BusinessID: businessID,
		BuyerType:  domain.BuyerTypeAnonymous,
		Items:      []domain.CartItem{{ProductID: p.ID, Quantity: 1}},
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.ErrorIs(t, err, ErrDatabaseOperation)
	assert.Equal(t, 5, f.store.Product(p.ID).StockQuantity)
	assert.Equal(t, 0, f.store.CountSales())
}

func TestCheckout_FalhaNaNotificacaoNaoDesfazVenda(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Caderno", 3, 2, "8.00")

	f.notifier.EXPECT().InventoryChanged(gomock.Any(), gomock.Any()).Return(errors.New("webhook fora do ar"))
	f.notifier.EXPECT().LowStock(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, alert domain.LowStockAlert) error {
			assert.Equal(t, businessID, alert.BusinessID)
			require.Len(t, alert.Items, 1)
			assert.Equal(t, 1, alert.Items[0].StockQuantity)
			return errors.New("webhook fora do ar")
		})

	resp, err := f.service.Checkout(context.Background(), domain.CheckoutRequest{
		BusinessID: businessID,
		BuyerType:  domain.BuyerTypeAnonymous,
		Items:      []domain.CartItem{{ProductID: p.ID, Quantity: 2}},
	})
	require.NoError(t, err)
	assert.NotNil(t, resp.Sale)
	assert.Equal(t, 1, f.store.Product(p.ID).StockQuantity)
}

func TestCheckout_ValidacaoAntesDoBanco(t *testing.T) {
	f := newFixture(t)
	f.store.FailOn("products.get_for_update", errors.New("não deveria ser chamado"))

	_, err := f.service.Checkout(context.Background(), domain.CheckoutRequest{
		BusinessID: businessID,
		BuyerType:  domain.BuyerTypeAnonymous,
	})

	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestGetSaleAndListLeadSales(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Livro", 5, 0, "40.00")
	l := f.lead(t, "Fabi", "fabi@mail.com", 0)

	f.notifier.EXPECT().InventoryChanged(gomock.Any(), gomock.Any()).Return(nil)

	resp, err := f.service.Checkout(context.Background(), domain.CheckoutRequest{
		BusinessID: businessID,
		BuyerType:  domain.BuyerTypeExistingLead,
		LeadID:     &l.ID,
		Items:      []domain.CartItem{{ProductID: p.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	sale, err := f.service.GetSale(context.Background(), businessID, resp.Sale.ID)
	require.NoError(t, err)
	assert.Len(t, sale.Items, 1)

	_, err = f.service.GetSale(context.Background(), businessID+1, resp.Sale.ID)
	assert.ErrorIs(t, err, ErrSaleNotFound)

	sales, err := f.service.ListLeadSales(context.Background(), businessID, l.ID)
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.Equal(t, resp.Sale.ID, sales[0].ID)

	_, err = f.service.ListLeadSales(context.Background(), businessID, 999)
	assert.ErrorIs(t, err, leading.ErrLeadNotFound)
}
