package leading

import (
	"context"
	"strings"

	"github.com/vfg2006/shop-manager-api/infrastructure/repository"
	"github.com/vfg2006/shop-manager-api/internal/domain"
	"github.com/vfg2006/shop-manager-api/pkg/apiErrors"
)

// ResolveLead localiza o lead do contato ou cria um novo com zero pontos.
// Deve ser chamado com os repositórios da transação da venda.
func ResolveLead(ctx context.Context, leads repository.LeadRepository, businessID int64, contact domain.LeadContact) (*domain.Lead, bool, error) {
	if normalize(contact) == (normalizedContact{}) {
		return nil, false, NewLeadError(ErrEmptyContact, apiErrors.ErrMissingRequiredData, 0, "")
	}

	candidates, err := leads.ListMatchCandidates(ctx, businessID, contact)
	if err != nil {
		return nil, false, NewLeadError(err, apiErrors.ErrLeadResolution, 0, "Erro ao buscar leads existentes")
	}

	if match := MatchLead(contact, candidates); match != nil {
		// a linha é relida com lock para que a atualização de pontos seja serializada
		locked, err := leads.GetForUpdate(ctx, businessID, match.ID)
		if err != nil {
			return nil, false, NewLeadError(err, apiErrors.ErrLeadResolution, match.ID, "Erro ao bloquear lead")
		}
		if locked == nil {
			return nil, false, NewLeadError(ErrLeadNotFound, apiErrors.ErrLeadNotFound, match.ID, "")
		}
		// removido entre a busca dos candidatos e o lock
		if locked.IsDeleted() {
			return nil, false, NewLeadError(ErrLeadDeleted, apiErrors.ErrLeadDeleted, match.ID, "")
		}

		if Backfill(locked, contact) {
			if err := leads.Update(ctx, locked); err != nil {
				return nil, false, NewLeadError(err, apiErrors.ErrLeadResolution, locked.ID, "Erro ao completar dados do lead")
			}
		}
		return locked, false, nil
	}

	lead := &domain.Lead{
		BusinessID:    businessID,
		Name:          strings.TrimSpace(contact.Name),
		Email:         NormalizeEmail(contact.Email),
		Phone:         strings.TrimSpace(contact.Phone),
		LoyaltyPoints: 0,
		Status:        domain.LeadStatusActive,
		Source:        domain.LeadSourceQuickSale,
	}

	created, err := leads.Create(ctx, lead)
	if err != nil {
		return nil, false, NewLeadError(err, apiErrors.ErrLeadResolution, 0, "Erro ao criar lead")
	}

	return created, true, nil
}

// LoadExistingLead carrega com lock o lead informado na venda; removido ou ausente aborta a venda
func LoadExistingLead(ctx context.Context, leads repository.LeadRepository, businessID, leadID int64) (*domain.Lead, error) {
	lead, err := leads.GetForUpdate(ctx, businessID, leadID)
	if err != nil {
		return nil, NewLeadError(err, apiErrors.ErrDatabaseOperation, leadID, "Erro ao carregar lead")
	}
	if lead == nil {
		return nil, NewLeadError(ErrLeadNotFound, apiErrors.ErrLeadNotFound, leadID, "")
	}
	if lead.IsDeleted() {
		return nil, NewLeadError(ErrLeadDeleted, apiErrors.ErrLeadDeleted, leadID, "")
	}
	return lead, nil
}
