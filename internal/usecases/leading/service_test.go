package leading

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/shop-manager-api/infrastructure/database/memory"
	"github.com/vfg2006/shop-manager-api/infrastructure/repository"
	"github.com/vfg2006/shop-manager-api/internal/domain"
	"github.com/vfg2006/shop-manager-api/pkg/apiErrors"
)

const businessID int64 = 10

func TestService_CreateLead(t *testing.T) {
	store := memory.NewStore()
	service := NewService(store.Repositories().Leads)
	ctx := context.Background()

	lead, err := service.CreateLead(ctx, domain.CreateLeadRequest{
		BusinessID:  businessID,
		LeadContact: domain.LeadContact{Name: " Ana ", Email: "ANA@mail.com", Phone: "(11) 90000-0000"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Ana", lead.Name)
	assert.Equal(t, "ana@mail.com", lead.Email)
	assert.Equal(t, domain.LeadSourceManual, lead.Source)
	assert.Equal(t, domain.LeadStatusActive, lead.Status)

	_, err = service.CreateLead(ctx, domain.CreateLeadRequest{
		BusinessID:  businessID,
		LeadContact: domain.LeadContact{Name: "Outra", Phone: "11900000000"},
	})
	var leadErr *LeadError
	require.True(t, errors.As(err, &leadErr))
	assert.Equal(t, apiErrors.ErrLeadDuplicated, leadErr.Code)

	_, err = service.CreateLead(ctx, domain.CreateLeadRequest{BusinessID: businessID})
	assert.ErrorIs(t, err, ErrEmptyContact)
}

func TestService_UpdateAndDeleteLead(t *testing.T) {
	store := memory.NewStore()
	service := NewService(store.Repositories().Leads)
	ctx := context.Background()

	lead, err := service.CreateLead(ctx, domain.CreateLeadRequest{
		BusinessID:  businessID,
		LeadContact: domain.LeadContact{Name: "Bruno"},
	})
	require.NoError(t, err)

	email := "bruno@mail.com"
	updated, err := service.UpdateLead(ctx, domain.UpdateLeadRequest{ID: lead.ID, BusinessID: businessID, Email: &email})
	require.NoError(t, err)
	assert.Equal(t, email, updated.Email)

	invalid := domain.LeadStatusDeleted
	_, err = service.UpdateLead(ctx, domain.UpdateLeadRequest{ID: lead.ID, BusinessID: businessID, Status: &invalid})
	assert.ErrorIs(t, err, ErrInvalidStatus)

	require.NoError(t, service.DeleteLead(ctx, businessID, lead.ID))
	assert.Equal(t, domain.LeadStatusDeleted, store.Lead(lead.ID).Status)

	leads, err := service.ListLeads(ctx, businessID, domain.LeadFilters{})
	require.NoError(t, err)
	assert.Empty(t, leads)

	_, err = service.GetLead(ctx, businessID+1, lead.ID)
	assert.ErrorIs(t, err, ErrLeadNotFound)
}

func TestResolveLead(t *testing.T) {
	ctx := context.Background()

	t.Run("Cria lead novo com zero pontos", func(t *testing.T) {
		store := memory.NewStore()
		lead, created, err := ResolveLead(ctx, store.Repositories().Leads, businessID, domain.LeadContact{Name: "Ana", Phone: "11 9000"})
		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, 0, lead.LoyaltyPoints)
		assert.Equal(t, domain.LeadSourceQuickSale, lead.Source)
	})

	t.Run("Reaproveita lead existente e completa dados", func(t *testing.T) {
		store := memory.NewStore()
		repo := store.Repositories().Leads
		existing, err := repo.Create(ctx, &domain.Lead{BusinessID: businessID, Phone: "11 9000", Status: domain.LeadStatusActive})
		require.NoError(t, err)

		lead, created, err := ResolveLead(ctx, repo, businessID, domain.LeadContact{Name: "Ana", Email: "ana@mail.com", Phone: "119000"})
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, existing.ID, lead.ID)
		assert.Equal(t, "Ana", store.Lead(existing.ID).Name)
		assert.Equal(t, "ana@mail.com", store.Lead(existing.ID).Email)
		assert.Equal(t, 1, store.CountLeads())
	})

	t.Run("Lead removido depois da busca não é reaproveitado", func(t *testing.T) {
		store := memory.NewStore()
		repo := store.Repositories().Leads
		existing, err := repo.Create(ctx, &domain.Lead{BusinessID: businessID, Phone: "11 9000", Status: domain.LeadStatusActive})
		require.NoError(t, err)

		leads := &removedOnLockLeads{LeadRepository: repo}
		_, created, err := ResolveLead(ctx, leads, businessID, domain.LeadContact{Name: "Ana", Phone: "119000"})
		assert.ErrorIs(t, err, ErrLeadDeleted)
		assert.False(t, created)
		assert.Equal(t, "", store.Lead(existing.ID).Name)
		assert.Equal(t, 1, store.CountLeads())
	})

	t.Run("Contato vazio", func(t *testing.T) {
		store := memory.NewStore()
		_, _, err := ResolveLead(ctx, store.Repositories().Leads, businessID, domain.LeadContact{Phone: "--"})
		assert.ErrorIs(t, err, ErrEmptyContact)
	})
}

// removedOnLockLeads simula a remoção concorrente: o candidato vem ativo e a linha bloqueada já está removida
type removedOnLockLeads struct {
	repository.LeadRepository
}

func (r *removedOnLockLeads) GetForUpdate(ctx context.Context, businessID, leadID int64) (*domain.Lead, error) {
	lead, err := r.LeadRepository.GetForUpdate(ctx, businessID, leadID)
	if err != nil || lead == nil {
		return lead, err
	}
	lead.Status = domain.LeadStatusDeleted
	return lead, nil
}

func TestLoadExistingLead(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repo := store.Repositories().Leads

	active, err := repo.Create(ctx, &domain.Lead{BusinessID: businessID, Name: "Ana", Status: domain.LeadStatusActive})
	require.NoError(t, err)
	deleted, err := repo.Create(ctx, &domain.Lead{BusinessID: businessID, Name: "Bia", Status: domain.LeadStatusDeleted})
	require.NoError(t, err)

	lead, err := LoadExistingLead(ctx, repo, businessID, active.ID)
	require.NoError(t, err)
	assert.Equal(t, active.ID, lead.ID)

	_, err = LoadExistingLead(ctx, repo, businessID, deleted.ID)
	assert.ErrorIs(t, err, ErrLeadDeleted)

	_, err = LoadExistingLead(ctx, repo, businessID, 999)
	assert.ErrorIs(t, err, ErrLeadNotFound)
}
