package leading

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/shop-manager-api/internal/domain"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"(11) 98765-4321", "11987654321"},
		{"+55 11 98765 4321", "5511987654321"},
		{"   ", ""},
		{"abc", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizePhone(tt.in), tt.in)
	}
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "maria da silva", NormalizeName("  Maria   da  SILVA "))
	assert.Equal(t, "", NormalizeName("   "))
}

func TestMatchLead(t *testing.T) {
	ana := &domain.Lead{ID: 1, Name: "Ana Souza", Email: "ana@mail.com", Phone: "(11) 99999-0001", Status: domain.LeadStatusActive}
	anaPhone := &domain.Lead{ID: 2, Name: "Ana Souza", Email: "outra@mail.com", Phone: "11999990001", Status: domain.LeadStatusActive}
	bruno := &domain.Lead{ID: 3, Name: "Bruno Lima", Email: "bruno@mail.com", Phone: "", Status: domain.LeadStatusActive}
	removido := &domain.Lead{ID: 4, Name: "Carla", Email: "carla@mail.com", Phone: "11911112222", Status: domain.LeadStatusDeleted}
	carlaNova := &domain.Lead{ID: 5, Name: "Carla", Email: "", Phone: "", Status: domain.LeadStatusActive}
	semNome := &domain.Lead{ID: 6, Name: "", Email: "", Phone: "11922223333", Status: domain.LeadStatusInactive}

	candidates := []*domain.Lead{anaPhone, ana, bruno, removido, carlaNova, semNome}

	tests := []struct {
		name    string
		contact domain.LeadContact
		wantID  int64
	}{
		{
			name:    "Email e telefone têm prioridade sobre os demais",
			contact: domain.LeadContact{Email: " ANA@mail.com ", Phone: "11 99999 0001"},
			wantID:  1,
		},
		{
			name:    "Email e nome",
			contact: domain.LeadContact{Email: "outra@mail.com", Name: "ana  souza"},
			wantID:  2,
		},
		{
			name:    "Telefone e nome com empate escolhe o menor id",
			contact: domain.LeadContact{Phone: "11999990001", Name: "Ana Souza"},
			wantID:  1,
		},
		{
			name:    "Somente email",
			contact: domain.LeadContact{Email: "bruno@mail.com", Name: "Outro Nome"},
			wantID:  3,
		},
		{
			name:    "Somente telefone",
			contact: domain.LeadContact{Phone: "(11) 92222-3333"},
			wantID:  6,
		},
		{
			name:    "Somente nome ignora lead removido",
			contact: domain.LeadContact{Name: "carla"},
			wantID:  5,
		},
		{
			name:    "Lead removido não casa por email",
			contact: domain.LeadContact{Email: "carla@mail.com"},
			wantID:  0,
		},
		{
			name:    "Campos vazios nunca casam",
			contact: domain.LeadContact{Name: "  ", Email: "", Phone: "---"},
			wantID:  0,
		},
		{
			name:    "Nenhum candidato corresponde",
			contact: domain.LeadContact{Name: "Diego", Email: "diego@mail.com"},
			wantID:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchLead(tt.contact, candidates)
			if tt.wantID == 0 {
				assert.Nil(t, got)
				return
			}
			if assert.NotNil(t, got) {
				assert.Equal(t, tt.wantID, got.ID)
			}
		})
	}
}

func TestMatchLead_PrioridadeVenceOrdem(t *testing.T) {
	// o lead 1 casa só pelo nome; o lead 9 casa por email, que tem prioridade maior
	byName := &domain.Lead{ID: 1, Name: "João", Status: domain.LeadStatusActive}
	byEmail := &domain.Lead{ID: 9, Name: "J.", Email: "joao@mail.com", Status: domain.LeadStatusActive}

	got := MatchLead(domain.LeadContact{Name: "João", Email: "joao@mail.com"}, []*domain.Lead{byName, byEmail})

	if assert.NotNil(t, got) {
		assert.Equal(t, int64(9), got.ID)
	}
}

func TestBackfill(t *testing.T) {
	lead := &domain.Lead{ID: 1, Name: "Ana", Email: "", Phone: ""}

	changed := Backfill(lead, domain.LeadContact{Name: "Ana Maria", Email: " ANA@MAIL.COM", Phone: "11 9999"})

	assert.True(t, changed)
	assert.Equal(t, "Ana", lead.Name)
	assert.Equal(t, "ana@mail.com", lead.Email)
	assert.Equal(t, "11 9999", lead.Phone)

	assert.False(t, Backfill(lead, domain.LeadContact{Name: "Outro", Email: "x@mail.com"}))
}
