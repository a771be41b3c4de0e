package leading

import (
	"strings"

	"github.com/vfg2006/shop-manager-api/internal/domain"
)

// matchTiers lista as combinações de campos em ordem de prioridade
var matchTiers = []struct {
	email bool
	phone bool
	name  bool
}{
	{email: true, phone: true},
	{email: true, name: true},
	{phone: true, name: true},
	{email: true},
	{phone: true},
	{name: true},
}

// NormalizePhone mantém apenas os dígitos do telefone
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeName remove espaços nas pontas, colapsa os internos e ignora maiúsculas
func NormalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

type normalizedContact struct {
	email string
	phone string
	name  string
}

func normalize(c domain.LeadContact) normalizedContact {
	return normalizedContact{
		email: NormalizeEmail(c.Email),
		phone: NormalizePhone(c.Phone),
		name:  NormalizeName(c.Name),
	}
}

// MatchLead procura entre os candidatos o lead que corresponde ao contato informado.
// Campos vazios nunca casam, leads removidos são ignorados e, dentro de uma mesma
// prioridade, vence o lead mais antigo (menor id). Retorna nil quando nada casa.
func MatchLead(contact domain.LeadContact, candidates []*domain.Lead) *domain.Lead {
	in := normalize(contact)
	if in.email == "" && in.phone == "" && in.name == "" {
		return nil
	}

	normalized := make([]normalizedContact, len(candidates))
	for i, c := range candidates {
		if c == nil {
			continue
		}
		normalized[i] = normalize(domain.LeadContact{Name: c.Name, Email: c.Email, Phone: c.Phone})
	}

	for _, tier := range matchTiers {
		if tier.email && in.email == "" || tier.phone && in.phone == "" || tier.name && in.name == "" {
			continue
		}

		var best *domain.Lead
		for i, candidate := range candidates {
			if candidate == nil || candidate.IsDeleted() {
				continue
			}
			c := normalized[i]
			if tier.email && c.email != in.email {
				continue
			}
			if tier.phone && c.phone != in.phone {
				continue
			}
			if tier.name && c.name != in.name {
				continue
			}
			if best == nil || candidate.ID < best.ID {
				best = candidate
			}
		}

		if best != nil {
			return best
		}
	}

	return nil
}

// Backfill preenche apenas os campos vazios do lead com os dados do contato.
// Retorna true se algum campo foi alterado.
func Backfill(lead *domain.Lead, contact domain.LeadContact) bool {
	changed := false

	if strings.TrimSpace(lead.Name) == "" && strings.TrimSpace(contact.Name) != "" {
		lead.Name = strings.TrimSpace(contact.Name)
		changed = true
	}
	if strings.TrimSpace(lead.Email) == "" && strings.TrimSpace(contact.Email) != "" {
		lead.Email = NormalizeEmail(contact.Email)
		changed = true
	}
	if strings.TrimSpace(lead.Phone) == "" && strings.TrimSpace(contact.Phone) != "" {
		lead.Phone = strings.TrimSpace(contact.Phone)
		changed = true
	}

	return changed
}
