package selling

import (
	"errors"
	"fmt"

	"github.com/vfg2006/shop-manager-api/pkg/apiErrors"
)

var (
	ErrInvalidBuyerType   = errors.New("tipo de comprador inválido")
	ErrEmptyCart          = errors.New("carrinho vazio")
	ErrInvalidQuantity    = errors.New("quantidade deve ser maior que zero")
	ErrNegativePrice      = errors.New("preço unitário não pode ser negativo")
	ErrPriceMismatch      = errors.New("mesmo produto com preços diferentes no carrinho")
	ErrMissingLeadID      = errors.New("lead_id é obrigatório para comprador existente")
	ErrMissingBuyer       = errors.New("informe nome, email ou telefone do comprador")
	ErrStockUnavailable   = errors.New("estoque insuficiente ou produto indisponível")
	ErrSaleNotFound       = errors.New("venda não encontrada")
	ErrDatabaseOperation  = errors.New("erro ao realizar operação no banco de dados")
	ErrSaleCodeGeneration = errors.New("erro ao gerar código da venda")
)

const (
	ReasonProductNotFound   = "product_not_found"
	ReasonProductDeleted    = "product_deleted"
	ReasonInsufficientStock = "insufficient_stock"
)

// LineViolation descreve um item do carrinho que não pode ser vendido
type LineViolation struct {
	ProductID int64  `json:"product_id"`
	Reason    string `json:"reason"`
	Requested int    `json:"requested,omitempty"`
	Available int    `json:"available"`
}

// SaleError é um erro de venda com código de API e, quando houver, os itens rejeitados
type SaleError struct {
	Err        error
	Code       string
	Details    string
	Violations []LineViolation
	// Cause é o erro original da infraestrutura, mantido para errors.Is (ex.: prazo da requisição)
	Cause error
}

func (e *SaleError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	if len(e.Violations) > 0 {
		return fmt.Sprintf("%s: %d item(ns) rejeitado(s)", e.Err.Error(), len(e.Violations))
	}
	return e.Err.Error()
}

func (e *SaleError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.Cause}
}

func NewSaleError(baseErr error, code string, details string) *SaleError {
	return &SaleError{
		Err:     baseErr,
		Code:    code,
		Details: details,
	}
}

// newDatabaseError mantém a causa original na cadeia de erros
func newDatabaseError(cause error) *SaleError {
	return &SaleError{
		Err:     ErrDatabaseOperation,
		Code:    apiErrors.ErrDatabaseOperation,
		Details: cause.Error(),
		Cause:   cause,
	}
}

func newStockError(code string, violations []LineViolation) *SaleError {
	return &SaleError{
		Err:        ErrStockUnavailable,
		Code:       code,
		Violations: violations,
	}
}
