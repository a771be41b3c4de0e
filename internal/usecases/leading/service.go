package leading

import (
	"context"
	"strings"

	"github.com/vfg2006/shop-manager-api/infrastructure/repository"
	"github.com/vfg2006/shop-manager-api/internal/domain"
	"github.com/vfg2006/shop-manager-api/pkg/apiErrors"
	"github.com/vfg2006/shop-manager-api/pkg/log"
)

type Leader interface {
	CreateLead(ctx context.Context, req domain.CreateLeadRequest) (*domain.Lead, error)
	UpdateLead(ctx context.Context, req domain.UpdateLeadRequest) (*domain.Lead, error)
	GetLead(ctx context.Context, businessID, leadID int64) (*domain.Lead, error)
	ListLeads(ctx context.Context, businessID int64, filters domain.LeadFilters) ([]*domain.Lead, error)
	DeleteLead(ctx context.Context, businessID, leadID int64) error
}

type Service struct {
	leadRepo repository.LeadRepository
}

func NewService(leadRepo repository.LeadRepository) Leader {
	return &Service{
		leadRepo: leadRepo,
	}
}

func (s *Service) CreateLead(ctx context.Context, req domain.CreateLeadRequest) (*domain.Lead, error) {
	if normalize(req.LeadContact) == (normalizedContact{}) {
		return nil, NewLeadError(ErrEmptyContact, apiErrors.ErrMissingRequiredData, 0, "")
	}

	if err := s.checkConflict(ctx, req.BusinessID, req.LeadContact, 0); err != nil {
		return nil, err
	}

	lead := &domain.Lead{
		BusinessID: req.BusinessID,
		Name:       strings.TrimSpace(req.Name),
		Email:      NormalizeEmail(req.Email),
		Phone:      strings.TrimSpace(req.Phone),
		Status:     domain.LeadStatusActive,
		Source:     domain.LeadSourceManual,
	}

	created, err := s.leadRepo.Create(ctx, lead)
	if err != nil {
		return nil, NewLeadError(err, apiErrors.ErrDatabaseOperation, 0, "Erro ao criar lead")
	}

	log.ForContext(ctx).WithFields(log.Fields{
		"business_id": created.BusinessID,
		"lead_id":     created.ID,
	}).Info("Lead cadastrado")

	return created, nil
}

func (s *Service) UpdateLead(ctx context.Context, req domain.UpdateLeadRequest) (*domain.Lead, error) {
	lead, err := s.GetLead(ctx, req.BusinessID, req.ID)
	if err != nil {
		return nil, err
	}
	if lead.IsDeleted() {
		return nil, NewLeadError(ErrLeadDeleted, apiErrors.ErrLeadDeleted, lead.ID, "")
	}

	if req.Name != nil {
		lead.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		lead.Email = NormalizeEmail(*req.Email)
	}
	if req.Phone != nil {
		lead.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Status != nil {
		switch *req.Status {
		case domain.LeadStatusActive, domain.LeadStatusInactive:
			lead.Status = *req.Status
		default:
			return nil, NewLeadError(ErrInvalidStatus, apiErrors.ErrInvalidFormat, lead.ID, string(*req.Status))
		}
	}

	contact := domain.LeadContact{Name: lead.Name, Email: lead.Email, Phone: lead.Phone}
	if normalize(contact) == (normalizedContact{}) {
		return nil, NewLeadError(ErrEmptyContact, apiErrors.ErrMissingRequiredData, lead.ID, "")
	}

	if req.Email != nil || req.Phone != nil {
		if err := s.checkConflict(ctx, lead.BusinessID, contact, lead.ID); err != nil {
			return nil, err
		}
	}

	if err := s.leadRepo.Update(ctx, lead); err != nil {
		return nil, NewLeadError(err, apiErrors.ErrDatabaseOperation, lead.ID, "Erro ao atualizar lead")
	}

	return lead, nil
}

func (s *Service) GetLead(ctx context.Context, businessID, leadID int64) (*domain.Lead, error) {
	lead, err := s.leadRepo.GetByID(ctx, businessID, leadID)
	if err != nil {
		return nil, NewLeadError(err, apiErrors.ErrDatabaseOperation, leadID, "Erro ao buscar lead")
	}
	if lead == nil {
		return nil, NewLeadError(ErrLeadNotFound, apiErrors.ErrLeadNotFound, leadID, "")
	}
	return lead, nil
}

func (s *Service) ListLeads(ctx context.Context, businessID int64, filters domain.LeadFilters) ([]*domain.Lead, error) {
	leads, err := s.leadRepo.List(ctx, businessID, filters)
	if err != nil {
		return nil, NewLeadError(err, apiErrors.ErrDatabaseOperation, 0, "Erro ao listar leads")
	}
	return leads, nil
}

// DeleteLead marca o lead como removido; o histórico de vendas continua apontando para ele
func (s *Service) DeleteLead(ctx context.Context, businessID, leadID int64) error {
	lead, err := s.GetLead(ctx, businessID, leadID)
	if err != nil {
		return err
	}
	if lead.IsDeleted() {
		return nil
	}

	lead.Status = domain.LeadStatusDeleted
	if err := s.leadRepo.Update(ctx, lead); err != nil {
		return NewLeadError(err, apiErrors.ErrDatabaseOperation, leadID, "Erro ao remover lead")
	}

	return nil
}

// checkConflict impede dois leads ativos com o mesmo email ou telefone
func (s *Service) checkConflict(ctx context.Context, businessID int64, contact domain.LeadContact, ignoreID int64) error {
	in := normalize(contact)
	if in.email == "" && in.phone == "" {
		return nil
	}

	candidates, err := s.leadRepo.ListMatchCandidates(ctx, businessID, domain.LeadContact{Email: contact.Email, Phone: contact.Phone})
	if err != nil {
		return NewLeadError(err, apiErrors.ErrDatabaseOperation, 0, "Erro ao verificar leads existentes")
	}

	for _, candidate := range candidates {
		if candidate.ID == ignoreID || candidate.IsDeleted() {
			continue
		}
		c := normalize(domain.LeadContact{Email: candidate.Email, Phone: candidate.Phone})
		if in.email != "" && c.email == in.email || in.phone != "" && c.phone == in.phone {
			return NewLeadError(ErrLeadDuplicated, apiErrors.ErrLeadDuplicated, candidate.ID, "")
		}
	}

	return nil
}
