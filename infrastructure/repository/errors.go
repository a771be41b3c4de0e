package repository

import (
	"errors"

	"github.com/lib/pq"
)

var (
	// ErrStockConflict indica que o decremento condicional não encontrou estoque suficiente
	ErrStockConflict = errors.New("estoque insuficiente para a atualização")
	ErrNotFound      = errors.New("registro não encontrado")
)

const uniqueViolation = "23505"

// IsUniqueViolation verifica se o erro do postgres é de chave duplicada
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == uniqueViolation
	}
	return false
}
