package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/shop-manager-api/internal/api/handler/router"
	"github.com/vfg2006/shop-manager-api/internal/domain"
	"github.com/vfg2006/shop-manager-api/internal/usecases/selling"
	"github.com/vfg2006/shop-manager-api/internal/usecases/selling/mocks"
	"github.com/vfg2006/shop-manager-api/pkg/apiErrors"
	"github.com/vfg2006/shop-manager-api/pkg/middleware"
	"go.uber.org/mock/gomock"
)

var cashier = &domain.Claims{UserID: 3, BusinessID: 10, UserRoleID: domain.RoleCashier}

func newRequest(method, target, body string, claims *domain.Claims) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if claims != nil {
		req = req.WithContext(middleware.WithClaims(req.Context(), claims))
	}
	return req
}

func decodeAPIError(t *testing.T, rec *httptest.ResponseRecorder) apiErrors.APIError {
	t.Helper()
	var apiErr apiErrors.APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
	return apiErr
}

func TestQuickSale(t *testing.T) {
	validBody := `{"buyer_type":"anonymous","items":[{"product_id":5,"quantity":2,"unit_price":"10.00"}]}`

	tests := []struct {
		name         string
		body         string
		claims       *domain.Claims
		setupMock    func(m *mocks.MockSeller)
		expectedCode int
		expectedErr  string
	}{
		{
			name:   "Deve registrar a venda com a empresa e o vendedor do token",
			body:   validBody,
			claims: cashier,
			setupMock: func(m *mocks.MockSeller) {
				m.EXPECT().
					Checkout(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, req domain.CheckoutRequest) (*domain.CheckoutResponse, error) {
						assert.Equal(t, int64(10), req.BusinessID)
						assert.Equal(t, 3, req.SoldBy)
						assert.Equal(t, domain.BuyerType("anonymous"), req.BuyerType)
						require.Len(t, req.Items, 1)
						assert.True(t, decimal.RequireFromString("10").Equal(req.Items[0].UnitPrice))
						return &domain.CheckoutResponse{
							Sale: &domain.SaleTransaction{ID: 1, Code: "QS-A1B2C3", TotalAmount: decimal.RequireFromString("20")},
						}, nil
					})
			},
			expectedCode: http.StatusCreated,
		},
		{
			name:         "Deve rejeitar requisição sem usuário autenticado",
			body:         validBody,
			setupMock:    func(m *mocks.MockSeller) {},
			expectedCode: http.StatusUnauthorized,
			expectedErr:  apiErrors.ErrInvalidToken,
		},
		{
			name:         "Deve rejeitar JSON malformado",
			body:         `{"items":`,
			claims:       cashier,
			setupMock:    func(m *mocks.MockSeller) {},
			expectedCode: http.StatusBadRequest,
			expectedErr:  apiErrors.ErrInvalidRequest,
		},
		{
			name:   "Deve retornar 422 com as linhas sem estoque",
			body:   validBody,
			claims: cashier,
			setupMock: func(m *mocks.MockSeller) {
				m.EXPECT().Checkout(gomock.Any(), gomock.Any()).Return(nil, &selling.SaleError{
					Err:  selling.ErrStockUnavailable,
					Code: apiErrors.ErrSaleUnavailable,
					Violations: []selling.LineViolation{
						{ProductID: 5, Reason: "insufficient_stock", Requested: 2, Available: 1},
					},
				})
			},
			expectedCode: http.StatusUnprocessableEntity,
			expectedErr:  apiErrors.ErrSaleUnavailable,
		},
		{
			name:   "Deve retornar 504 quando o prazo da requisição expira",
			body:   validBody,
			claims: cashier,
			setupMock: func(m *mocks.MockSeller) {
				m.EXPECT().Checkout(gomock.Any(), gomock.Any()).Return(nil, &selling.SaleError{
					Err:     selling.ErrDatabaseOperation,
					Code:    apiErrors.ErrDatabaseOperation,
					Details: context.DeadlineExceeded.Error(),
					Cause:   context.DeadlineExceeded,
				})
			},
			expectedCode: http.StatusGatewayTimeout,
			expectedErr:  apiErrors.ErrTimeout,
		},
		{
			name:   "Deve esconder a causa de erros internos",
			body:   validBody,
			claims: cashier,
			setupMock: func(m *mocks.MockSeller) {
				m.EXPECT().Checkout(gomock.Any(), gomock.Any()).Return(nil, &selling.SaleError{
					Err:  fmt.Errorf("pq: connection refused"),
					Code: apiErrors.ErrDatabaseOperation,
				})
			},
			expectedCode: http.StatusInternalServerError,
			expectedErr:  apiErrors.ErrDatabaseOperation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			seller := mocks.NewMockSeller(ctrl)
			tt.setupMock(seller)

			rec := httptest.NewRecorder()
			QuickSale(seller).ServeHTTP(rec, newRequest(http.MethodPost, "/v1/quick-sale", tt.body, tt.claims))

			assert.Equal(t, tt.expectedCode, rec.Code)
			if tt.expectedErr == "" {
				var resp domain.CheckoutResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.Equal(t, "QS-A1B2C3", resp.Sale.Code)
				return
			}

			apiErr := decodeAPIError(t, rec)
			assert.Equal(t, tt.expectedErr, apiErr.Code)
			assert.NotContains(t, apiErr.Message, "connection refused")
		})
	}
}

func TestQuickSale_DetalhesDeEstoque(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	seller := mocks.NewMockSeller(ctrl)
	seller.EXPECT().Checkout(gomock.Any(), gomock.Any()).Return(nil, &selling.SaleError{
		Err:  selling.ErrStockUnavailable,
		Code: apiErrors.ErrSaleUnavailable,
		Violations: []selling.LineViolation{
			{ProductID: 6, Reason: "insufficient_stock", Requested: 10, Available: 3},
		},
	})

	rec := httptest.NewRecorder()
	body := `{"buyer_type":"anonymous","items":[{"product_id":6,"quantity":10}]}`
	QuickSale(seller).ServeHTTP(rec, newRequest(http.MethodPost, "/v1/quick-sale", body, cashier))

	var resp struct {
		Code    string `json:"code"`
		Details struct {
			Violations []selling.LineViolation `json:"violations"`
		} `json:"details"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Details.Violations, 1)
	assert.Equal(t, int64(6), resp.Details.Violations[0].ProductID)
	assert.Equal(t, 10, resp.Details.Violations[0].Requested)
	assert.Equal(t, 3, resp.Details.Violations[0].Available)
}

func TestSalesRoutes(t *testing.T) {
	manager := &domain.Claims{UserID: 2, BusinessID: 10, UserRoleID: domain.RoleManager}

	tests := []struct {
		name         string
		method       string
		target       string
		claims       *domain.Claims
		setupMock    func(m *mocks.MockSeller)
		expectedCode int
	}{
		{
			name:   "Deve buscar a venda pelo id da rota",
			method: http.MethodGet,
			target: "/v1/sales/7",
			claims: cashier,
			setupMock: func(m *mocks.MockSeller) {
				m.EXPECT().GetSale(gomock.Any(), int64(10), int64(7)).Return(&domain.SaleTransaction{ID: 7}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:         "Deve rejeitar id que não é número",
			method:       http.MethodGet,
			target:       "/v1/sales/abc",
			claims:       cashier,
			setupMock:    func(m *mocks.MockSeller) {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:   "Deve retornar 404 para venda de outra empresa",
			method: http.MethodGet,
			target: "/v1/sales/8",
			claims: cashier,
			setupMock: func(m *mocks.MockSeller) {
				m.EXPECT().GetSale(gomock.Any(), int64(10), int64(8)).
					Return(nil, selling.NewSaleError(selling.ErrSaleNotFound, apiErrors.ErrSaleNotFound, ""))
			},
			expectedCode: http.StatusNotFound,
		},
		{
			name:         "Caixa não pode listar todas as vendas",
			method:       http.MethodGet,
			target:       "/v1/sales",
			claims:       cashier,
			setupMock:    func(m *mocks.MockSeller) {},
			expectedCode: http.StatusForbidden,
		},
		{
			name:   "Gerente lista vendas filtradas por lead",
			method: http.MethodGet,
			target: "/v1/sales?lead_id=4&start_date=2024-06-01&end_date=2024-06-30",
			claims: manager,
			setupMock: func(m *mocks.MockSeller) {
				m.EXPECT().ListSales(gomock.Any(), int64(10), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ int64, filters domain.SaleFilters) ([]*domain.SaleTransaction, error) {
						require.NotNil(t, filters.LeadID)
						assert.Equal(t, int64(4), *filters.LeadID)
						assert.NotNil(t, filters.StartDate)
						assert.NotNil(t, filters.EndDate)
						return []*domain.SaleTransaction{}, nil
					})
			},
			expectedCode: http.StatusOK,
		},
		{
			name:         "Deve rejeitar data inválida",
			method:       http.MethodGet,
			target:       "/v1/sales?start_date=ontem",
			claims:       manager,
			setupMock:    func(m *mocks.MockSeller) {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "Rota inexistente retorna 404",
			method:       http.MethodGet,
			target:       "/v1/nada",
			claims:       cashier,
			setupMock:    func(m *mocks.MockSeller) {},
			expectedCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			seller := mocks.NewMockSeller(ctrl)
			tt.setupMock(seller)

			rt := router.New(router.WithRoutes(Sales(seller)...))
			rec := httptest.NewRecorder()
			rt.ServeHTTP(rec, newRequest(tt.method, tt.target, "", tt.claims))

			assert.Equal(t, tt.expectedCode, rec.Code)
		})
	}
}
