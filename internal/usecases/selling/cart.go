package selling

import (
	"fmt"

	"github.com/vfg2006/shop-manager-api/internal/domain"
	"github.com/vfg2006/shop-manager-api/pkg/apiErrors"
)

// ValidateCheckout faz as validações que não dependem do banco
func ValidateCheckout(req domain.CheckoutRequest) error {
	if !req.BuyerType.IsValid() {
		return NewSaleError(ErrInvalidBuyerType, apiErrors.ErrInvalidRequest, fmt.Sprintf("buyer_type=%q", req.BuyerType))
	}

	if len(req.Items) == 0 {
		return NewSaleError(ErrEmptyCart, apiErrors.ErrMissingRequiredData, "")
	}

	for i, item := range req.Items {
		if item.Quantity <= 0 {
			return NewSaleError(ErrInvalidQuantity, apiErrors.ErrInvalidRequest, fmt.Sprintf("item %d (produto %d)", i, item.ProductID))
		}
		if item.UnitPrice.IsNegative() {
			return NewSaleError(ErrNegativePrice, apiErrors.ErrInvalidRequest, fmt.Sprintf("item %d (produto %d)", i, item.ProductID))
		}
	}

	switch req.BuyerType {
	case domain.BuyerTypeExistingLead:
		if req.LeadID == nil || *req.LeadID <= 0 {
			return NewSaleError(ErrMissingLeadID, apiErrors.ErrMissingRequiredData, "")
		}
	case domain.BuyerTypeLead:
		if req.Buyer.IsEmpty() {
			return NewSaleError(ErrMissingBuyer, apiErrors.ErrMissingRequiredData, "")
		}
	}

	return nil
}

// ConsolidateCart junta itens repetidos do mesmo produto somando as quantidades,
// mantendo a ordem da primeira ocorrência. Preço zero é tratado como "usar o preço do cadastro".
func ConsolidateCart(items []domain.CartItem) ([]domain.CartItem, error) {
	lines := make([]domain.CartItem, 0, len(items))
	index := make(map[int64]int, len(items))

	for _, item := range items {
		pos, exists := index[item.ProductID]
		if !exists {
			index[item.ProductID] = len(lines)
			lines = append(lines, item)
			continue
		}

		line := &lines[pos]
		switch {
		case line.UnitPrice.IsZero():
			line.UnitPrice = item.UnitPrice
		case !item.UnitPrice.IsZero() && !item.UnitPrice.Equal(line.UnitPrice):
			return nil, NewSaleError(ErrPriceMismatch, apiErrors.ErrPriceMismatch,
				fmt.Sprintf("produto %d: %s e %s", item.ProductID, line.UnitPrice.StringFixed(2), item.UnitPrice.StringFixed(2)))
		}
		line.Quantity += item.Quantity
	}

	return lines, nil
}

// checkAvailability confere todas as linhas e devolve todas as violações de uma vez
func checkAvailability(lines []domain.CartItem, products map[int64]*domain.Product) []LineViolation {
	violations := make([]LineViolation, 0)

	for _, line := range lines {
		product, ok := products[line.ProductID]
		switch {
		case !ok:
			violations = append(violations, LineViolation{ProductID: line.ProductID, Reason: ReasonProductNotFound, Requested: line.Quantity})
		case product.Deleted:
			violations = append(violations, LineViolation{ProductID: line.ProductID, Reason: ReasonProductDeleted, Requested: line.Quantity})
		case product.StockQuantity < line.Quantity:
			violations = append(violations, LineViolation{
				ProductID: line.ProductID,
				Reason:    ReasonInsufficientStock,
				Requested: line.Quantity,
				Available: product.StockQuantity,
			})
		}
	}

	return violations
}
