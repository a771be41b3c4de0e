package selling

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/shop-manager-api/internal/domain"
	"github.com/vfg2006/shop-manager-api/pkg/apiErrors"
)

func price(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func TestConsolidateCart(t *testing.T) {
	tests := []struct {
		name    string
		items   []domain.CartItem
		want    []domain.CartItem
		wantErr error
	}{
		{
			name: "Itens repetidos viram uma linha com a soma das quantidades",
			items: []domain.CartItem{
				{ProductID: 5, Quantity: 2, UnitPrice: price("10.00")},
				{ProductID: 5, Quantity: 1, UnitPrice: price("10.00")},
			},
			want: []domain.CartItem{
				{ProductID: 5, Quantity: 3, UnitPrice: price("10.00")},
			},
		},
		{
			name: "Mantém a ordem da primeira ocorrência",
			items: []domain.CartItem{
				{ProductID: 7, Quantity: 1, UnitPrice: price("3.50")},
				{ProductID: 2, Quantity: 4, UnitPrice: price("1.00")},
				{ProductID: 7, Quantity: 2, UnitPrice: price("3.50")},
			},
			want: []domain.CartItem{
				{ProductID: 7, Quantity: 3, UnitPrice: price("3.50")},
				{ProductID: 2, Quantity: 4, UnitPrice: price("1.00")},
			},
		},
		{
			name: "Preço zero assume o preço informado na outra ocorrência",
			items: []domain.CartItem{
				{ProductID: 1, Quantity: 1, UnitPrice: decimal.Zero},
				{ProductID: 1, Quantity: 1, UnitPrice: price("9.90")},
			},
			want: []domain.CartItem{
				{ProductID: 1, Quantity: 2, UnitPrice: price("9.90")},
			},
		},
		{
			name: "Preços diferentes para o mesmo produto",
			items: []domain.CartItem{
				{ProductID: 1, Quantity: 1, UnitPrice: price("9.90")},
				{ProductID: 1, Quantity: 1, UnitPrice: price("8.00")},
			},
			wantErr: ErrPriceMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ConsolidateCart(tt.items)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			require.Len(t, got, len(tt.want))
			for i := range tt.want {
				assert.Equal(t, tt.want[i].ProductID, got[i].ProductID)
				assert.Equal(t, tt.want[i].Quantity, got[i].Quantity)
				assert.True(t, tt.want[i].UnitPrice.Equal(got[i].UnitPrice))
			}
		})
	}
}

func TestValidateCheckout(t *testing.T) {
	leadID := int64(3)
	item := []domain.CartItem{{ProductID: 1, Quantity: 1}}

	tests := []struct {
		name     string
		req      domain.CheckoutRequest
		wantErr  error
		wantCode string
	}{
		{
			name:     "Tipo de comprador ausente",
			req:      domain.CheckoutRequest{Items: item},
			wantErr:  ErrInvalidBuyerType,
			wantCode: apiErrors.ErrInvalidRequest,
		},
		{
			name:     "Carrinho vazio",
			req:      domain.CheckoutRequest{BuyerType: domain.BuyerTypeAnonymous},
			wantErr:  ErrEmptyCart,
			wantCode: apiErrors.ErrMissingRequiredData,
		},
		{
			name: "Quantidade zero",
			req: domain.CheckoutRequest{
				BuyerType: domain.BuyerTypeAnonymous,
				Items:     []domain.CartItem{{ProductID: 1, Quantity: 0}},
			},
			wantErr:  ErrInvalidQuantity,
			wantCode: apiErrors.ErrInvalidRequest,
		},
		{
			name: "Preço negativo",
			req: domain.CheckoutRequest{
				BuyerType: domain.BuyerTypeAnonymous,
				Items:     []domain.CartItem{{ProductID: 1, Quantity: 1, UnitPrice: price("-1")}},
			},
			wantErr:  ErrNegativePrice,
			wantCode: apiErrors.ErrInvalidRequest,
		},
		{
			name:     "Comprador existente sem lead_id",
			req:      domain.CheckoutRequest{BuyerType: domain.BuyerTypeExistingLead, Items: item},
			wantErr:  ErrMissingLeadID,
			wantCode: apiErrors.ErrMissingRequiredData,
		},
		{
			name:     "Novo lead sem contato",
			req:      domain.CheckoutRequest{BuyerType: domain.BuyerTypeLead, Items: item},
			wantErr:  ErrMissingBuyer,
			wantCode: apiErrors.ErrMissingRequiredData,
		},
		{
			name: "Comprador existente válido",
			req:  domain.CheckoutRequest{BuyerType: domain.BuyerTypeExistingLead, LeadID: &leadID, Items: item},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCheckout(tt.req)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}

			assert.ErrorIs(t, err, tt.wantErr)
			var saleErr *SaleError
			require.True(t, errors.As(err, &saleErr))
			assert.Equal(t, tt.wantCode, saleErr.Code)
		})
	}
}

func TestCheckAvailability(t *testing.T) {
	products := map[int64]*domain.Product{
		1: {ID: 1, StockQuantity: 3},
		2: {ID: 2, StockQuantity: 10, Deleted: true},
		3: {ID: 3, StockQuantity: 5},
	}
	lines := []domain.CartItem{
		{ProductID: 1, Quantity: 10},
		{ProductID: 2, Quantity: 1},
		{ProductID: 3, Quantity: 5},
		{ProductID: 4, Quantity: 1},
	}

	violations := checkAvailability(lines, products)

	require.Len(t, violations, 3)
	assert.Equal(t, LineViolation{ProductID: 1, Reason: ReasonInsufficientStock, Requested: 10, Available: 3}, violations[0])
	assert.Equal(t, ReasonProductDeleted, violations[1].Reason)
	assert.Equal(t, ReasonProductNotFound, violations[2].Reason)
}
