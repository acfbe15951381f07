package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/streamleads/streamleads/internal/entity"
)

func TestNewEngineRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.WarmThreshold = 30
	cfg.HotThreshold = 25

	_, err := NewEngine(cfg)
	assert.Error(t, err)

	cfg = DefaultConfig()
	cfg.WarmThreshold = -1
	_, err = NewEngine(cfg)
	assert.Error(t, err)

	cfg = DefaultConfig()
	cfg.IncomeBands = []IncomeBand{{Floor: 3000, Bonus: 3}, {Floor: 20000, Bonus: 10}}
	_, err = NewEngine(cfg)
	assert.Error(t, err)
}

func TestClassifyThresholdBoundaries(t *testing.T) {
	engine := newTestEngine(t)

	// Defaults: warm=15, hot=25. Limites inferiores inclusivos.
	assert.Equal(t, entity.StatusCold, engine.Classify(0))
	assert.Equal(t, entity.StatusCold, engine.Classify(14))
	assert.Equal(t, entity.StatusWarm, engine.Classify(15))
	assert.Equal(t, entity.StatusWarm, engine.Classify(24))
	assert.Equal(t, entity.StatusHot, engine.Classify(25))
	assert.Equal(t, entity.StatusHot, engine.Classify(40))
}

func TestClassifyWithCustomThresholds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.WarmThreshold = 5
	cfg.HotThreshold = 10

	engine, err := NewEngine(cfg)
	assert.NoError(t, err)

	assert.Equal(t, entity.StatusCold, engine.Classify(4))
	assert.Equal(t, entity.StatusWarm, engine.Classify(5))
	assert.Equal(t, entity.StatusWarm, engine.Classify(9))
	assert.Equal(t, entity.StatusHot, engine.Classify(10))
}

func TestProcessHotLeadEndToEnd(t *testing.T) {
	engine := newTestEngine(t)

	lead := &entity.Lead{
		ID:            "lead-ana",
		Name:          "Ana Costa",
		Email:         "ana.costa@example.com",
		Phone:         "11988887777",
		Origin:        entity.OriginMetaAds,
		Interest:      "Cobertura de luxo",
		MonthlyIncome: floatPtr(25000),
		City:          "São Paulo",
	}

	engine.Process(lead)

	// 10 (obrigatórios) + 15 (luxo) + 5 (são paulo) + 10 (renda) = 40
	assert.Equal(t, 40, lead.Score)
	assert.Equal(t, entity.StatusHot, lead.Status)
	assert.True(t, lead.Processed)
}

func TestProcessMinimalLeadIsCold(t *testing.T) {
	engine := newTestEngine(t)

	lead := completeLead()
	engine.Process(lead)

	assert.Equal(t, 10, lead.Score)
	assert.Equal(t, entity.StatusCold, lead.Status)
}

func TestProcessBlankLeadScoresZero(t *testing.T) {
	engine := newTestEngine(t)

	lead := &entity.Lead{ID: "lead-vazio"}
	engine.Process(lead)

	assert.Equal(t, 0, lead.Score)
	assert.Equal(t, entity.StatusCold, lead.Status)
}

func TestProcessIsIdempotent(t *testing.T) {
	engine := newTestEngine(t)

	lead := completeLead()
	lead.Interest = "casa premium"
	lead.MonthlyIncome = floatPtr(8000)

	engine.Process(lead)
	firstScore, firstStatus := lead.Score, lead.Status

	engine.Process(lead)
	assert.Equal(t, firstScore, lead.Score)
	assert.Equal(t, firstStatus, lead.Status)
}

func TestReprocessCanDowngradeHotLead(t *testing.T) {
	engine := newTestEngine(t)

	lead := completeLead()
	lead.Interest = "investimento premium"
	lead.MonthlyIncome = floatPtr(25000)
	lead.City = "Campinas"

	engine.Process(lead)
	assert.Equal(t, entity.StatusHot, lead.Status)

	// Atributos mudam legitimamente: sem monotonicidade na transição
	lead.Interest = ""
	lead.MonthlyIncome = nil
	lead.City = ""

	engine.Process(lead)
	assert.Equal(t, entity.StatusCold, lead.Status)
}

func TestExplainListsOnlyFiredRules(t *testing.T) {
	engine := newTestEngine(t)

	lead := completeLead()
	lead.Interest = "lote comercial"
	lead.MonthlyIncome = floatPtr(5000)
	lead.Score = 30
	lead.Status = entity.StatusHot

	breakdown := engine.Explain(lead)

	// Score total vem do lead armazenado, não é recalculado
	assert.Equal(t, 30, breakdown.TotalScore)
	assert.Equal(t, entity.StatusHot, breakdown.Status)

	assert.Len(t, breakdown.Details, 3)
	assert.Equal(t, "Campos obrigatórios preenchidos", breakdown.Details[0].Rule)
	assert.Equal(t, 10, breakdown.Details[0].Points)
	assert.Equal(t, "Interesse em produto de alto ticket", breakdown.Details[1].Rule)
	assert.Equal(t, 15, breakdown.Details[1].Points)
	assert.Equal(t, "Bônus por renda (R$ 5000.00)", breakdown.Details[2].Rule)
	assert.Equal(t, 5, breakdown.Details[2].Points)
}

func TestExplainBlankLeadHasNoDetails(t *testing.T) {
	engine := newTestEngine(t)

	breakdown := engine.Explain(&entity.Lead{Status: entity.StatusCold})
	assert.Equal(t, 0, breakdown.TotalScore)
	assert.Empty(t, breakdown.Details)
}

func TestScoreIsSumOfFiredRules(t *testing.T) {
	engine := newTestEngine(t)

	lead := completeLead()
	lead.Interest = "apartamento"
	lead.City = "Recife"
	lead.MonthlyIncome = floatPtr(10000)

	score := engine.CalculateScore(lead)
	assert.Equal(t, 10+15+5+7, score)

	breakdown := engine.Explain(lead)
	sum := 0
	for _, detail := range breakdown.Details {
		sum += detail.Points
	}
	assert.Equal(t, score, sum)
}
