package leading

import (
	"errors"
	"fmt"
)

var (
	ErrLeadNotFound      = errors.New("lead não encontrado")
	ErrLeadDeleted       = errors.New("lead removido")
	ErrLeadDuplicated    = errors.New("já existe um lead com este contato")
	ErrEmptyContact      = errors.New("informe ao menos nome, email ou telefone")
	ErrInvalidStatus     = errors.New("status de lead inválido")
	ErrDatabaseOperation = errors.New("erro ao realizar operação no banco de dados")
)

// LeadError carrega o código de API junto ao erro de domínio
type LeadError struct {
	Err     error
	Code    string
	LeadID  int64
	Details string
}

func (e *LeadError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

func (e *LeadError) Unwrap() error {
	return e.Err
}

func NewLeadError(baseErr error, code string, leadID int64, details string) *LeadError {
	return &LeadError{
		Err:     baseErr,
		Code:    code,
		LeadID:  leadID,
		Details: details,
	}
}
