package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/streamleads/streamleads/internal/entity"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	engine, err := NewEngine(DefaultConfig())
	assert.NoError(t, err)
	return engine
}

func floatPtr(v float64) *float64 {
	return &v
}

func completeLead() *entity.Lead {
	return &entity.Lead{
		ID:     "lead-123",
		Name:   "Ana Costa",
		Email:  "ana@example.com",
		Phone:  "11999999999",
		Origin: entity.OriginMetaAds,
	}
}

func TestRequiredFieldsRule(t *testing.T) {
	engine := newTestEngine(t)

	assert.True(t, engine.hasRequiredFields(completeLead()))

	// Apagar qualquer um dos quatro campos derruba a regra
	blank := completeLead()
	blank.Name = ""
	assert.False(t, engine.hasRequiredFields(blank))

	blank = completeLead()
	blank.Email = "   "
	assert.False(t, engine.hasRequiredFields(blank))

	blank = completeLead()
	blank.Phone = ""
	assert.False(t, engine.hasRequiredFields(blank))

	blank = completeLead()
	blank.Origin = ""
	assert.False(t, engine.hasRequiredFields(blank))
}

func TestHighTicketInterestRule(t *testing.T) {
	engine := newTestEngine(t)

	lead := completeLead()
	lead.Interest = "Cobertura de luxo"
	assert.True(t, engine.hasHighTicketInterest(lead))

	lead.Interest = "APARTAMENTO na planta"
	assert.True(t, engine.hasHighTicketInterest(lead))

	lead.Interest = "quero receber a newsletter"
	assert.False(t, engine.hasHighTicketInterest(lead))

	// Sem interesse informado a regra não dispara
	lead.Interest = ""
	assert.False(t, engine.hasHighTicketInterest(lead))
}

func TestServedRegionRule(t *testing.T) {
	engine := newTestEngine(t)

	lead := completeLead()
	lead.City = "São Paulo"
	assert.True(t, engine.isInServedRegion(lead))

	lead.City = "Santos - SP"
	assert.True(t, engine.isInServedRegion(lead))

	lead.City = "Manaus"
	assert.False(t, engine.isInServedRegion(lead))

	lead.City = ""
	assert.False(t, engine.isInServedRegion(lead))
}

func TestIncomeBonusBands(t *testing.T) {
	engine := newTestEngine(t)

	tests := []struct {
		name   string
		income *float64
		bonus  int
	}{
		{"sem renda informada", nil, 0},
		{"renda zero", floatPtr(0), 0},
		{"renda negativa", floatPtr(-100), 0},
		{"abaixo da primeira faixa", floatPtr(2999.99), 0},
		{"piso inclusivo 3000", floatPtr(3000), 3},
		{"logo abaixo de 5000", floatPtr(4999.99), 3},
		{"piso inclusivo 5000", floatPtr(5000), 5},
		{"logo abaixo de 10000", floatPtr(9999), 5},
		{"piso inclusivo 10000", floatPtr(10000), 7},
		{"logo abaixo de 20000", floatPtr(19999), 7},
		{"piso inclusivo 20000", floatPtr(20000), 10},
		{"renda muito alta", floatPtr(150000), 10},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			lead := completeLead()
			lead.MonthlyIncome = tc.income
			assert.Equal(t, tc.bonus, engine.incomeBonus(lead))
		})
	}
}

func TestRulesArePureOverSnapshot(t *testing.T) {
	engine := newTestEngine(t)

	lead := completeLead()
	lead.Interest = "investimento em terreno"
	lead.City = "Curitiba"
	lead.MonthlyIncome = floatPtr(12000)

	first := engine.CalculateScore(lead)
	second := engine.CalculateScore(lead)
	assert.Equal(t, first, second)
}
