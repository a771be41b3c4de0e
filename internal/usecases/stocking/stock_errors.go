package stocking

import (
	"errors"
	"fmt"

	"github.com/vfg2006/shop-manager-api/pkg/apiErrors"
)

var (
	ErrProductNotFound   = errors.New("produto não encontrado")
	ErrMissingName       = errors.New("nome do produto é obrigatório")
	ErrNegativePrice     = errors.New("preço não pode ser negativo")
	ErrNegativeStock     = errors.New("estoque não pode ser negativo")
	ErrInvalidQuantity   = errors.New("quantidade deve ser maior que zero")
	ErrDatabaseOperation = errors.New("erro ao realizar operação no banco de dados")
)

// StockError carrega o código de API junto ao erro de estoque
type StockError struct {
	Err       error
	Code      string
	ProductID int64
	Details   string
	Cause     error
}

func (e *StockError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

func (e *StockError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.Cause}
}

func NewStockError(baseErr error, code string, productID int64, details string) *StockError {
	return &StockError{
		Err:       baseErr,
		Code:      code,
		ProductID: productID,
		Details:   details,
	}
}

// newDatabaseError mantém a causa original na cadeia de erros
func newDatabaseError(productID int64, cause error) *StockError {
	return &StockError{
		Err:       ErrDatabaseOperation,
		Code:      apiErrors.ErrDatabaseOperation,
		ProductID: productID,
		Details:   cause.Error(),
		Cause:     cause,
	}
}
