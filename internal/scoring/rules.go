package scoring

import (
	"strings"

	"github.com/streamleads/streamleads/internal/entity"
)

// Regras de negócio do scoring. Todas são funções puras sobre o snapshot
// do lead: avaliar duas vezes o mesmo lead produz o mesmo resultado e a
// ordem de avaliação não importa.

// Regra 1: Campos obrigatórios preenchidos
func (e *Engine) hasRequiredFields(lead *entity.Lead) bool {
	required := []string{lead.Name, lead.Email, lead.Phone, string(lead.Origin)}
	for _, field := range required {
		if strings.TrimSpace(field) == "" {
			return false
		}
	}
	return true
}

// Regra 2: Interesse em produto de alto ticket
func (e *Engine) hasHighTicketInterest(lead *entity.Lead) bool {
	if lead.Interest == "" {
		return false
	}
	return containsAny(strings.ToLower(lead.Interest), e.cfg.HighTicketKeywords)
}

// Regra 3: Região atendida
func (e *Engine) isInServedRegion(lead *entity.Lead) bool {
	if lead.City == "" {
		return false
	}
	return containsAny(strings.ToLower(lead.City), e.cfg.ServedRegions)
}

// Regra 4: Bônus progressivo por renda aproximada. As faixas têm piso
// inclusivo (renda exatamente 5000 cai na faixa de 5000).
func (e *Engine) incomeBonus(lead *entity.Lead) int {
	if lead.MonthlyIncome == nil || *lead.MonthlyIncome <= 0 {
		return 0
	}
	for _, band := range e.cfg.IncomeBands {
		if *lead.MonthlyIncome >= band.Floor {
			return band.Bonus
		}
	}
	return 0
}

// containsAny faz busca simples de substring — sem fuzzy matching.
func containsAny(text string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}
