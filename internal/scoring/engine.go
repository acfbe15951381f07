package scoring

import (
	"fmt"
	"log"
	"time"

	"github.com/streamleads/streamleads/internal/entity"
)

// RulePoints é uma entrada da explicação: regra que disparou e pontos.
type RulePoints struct {
	Rule   string `json:"regra"`
	Points int    `json:"pontos"`
}

// ScoreBreakdown é a explicação estruturada do score de um lead.
// Nunca é persistido: é recalculado sob demanda a partir das regras.
type ScoreBreakdown struct {
	TotalScore int               `json:"score_total"`
	Status     entity.LeadStatus `json:"status"`
	Details    []RulePoints      `json:"detalhes"`
}

// Engine calcula score e classifica leads a partir de uma Config injetada.
type Engine struct {
	cfg Config
}

func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuração de scoring inválida: %w", err)
	}
	return &Engine{cfg: cfg}, nil
}

// CalculateScore soma os pontos das quatro regras de negócio.
func (e *Engine) CalculateScore(lead *entity.Lead) int {
	score := 0

	if e.hasRequiredFields(lead) {
		score += e.cfg.RequiredFieldsPoints
		log.Printf("Lead %s: +%d pontos por campos obrigatórios", lead.ID, e.cfg.RequiredFieldsPoints)
	}

	if e.hasHighTicketInterest(lead) {
		score += e.cfg.HighTicketPoints
		log.Printf("Lead %s: +%d pontos por interesse em alto ticket", lead.ID, e.cfg.HighTicketPoints)
	}

	if e.isInServedRegion(lead) {
		score += e.cfg.RegionPoints
		log.Printf("Lead %s: +%d pontos por região atendida", lead.ID, e.cfg.RegionPoints)
	}

	if bonus := e.incomeBonus(lead); bonus > 0 {
		score += bonus
		log.Printf("Lead %s: +%d pontos por renda", lead.ID, bonus)
	}

	return score
}

// Classify é uma step function pura do score:
// frio < warm <= morno < hot <= quente.
func (e *Engine) Classify(score int) entity.LeadStatus {
	switch {
	case score >= e.cfg.HotThreshold:
		return entity.StatusHot
	case score >= e.cfg.WarmThreshold:
		return entity.StatusWarm
	default:
		return entity.StatusCold
	}
}

// Process calcula o score, classifica e marca o lead como processado.
// Retorna o lead mutado; persistir é responsabilidade de quem chama.
func (e *Engine) Process(lead *entity.Lead) *entity.Lead {
	lead.Score = e.CalculateScore(lead)
	lead.Status = e.Classify(lead.Score)
	lead.Processed = true
	lead.UpdatedAt = time.Now()

	log.Printf("✅ Lead processado - ID: %s, Nome: %s, Score: %d, Status: %s",
		lead.ID, lead.Name, lead.Score, lead.Status)

	return lead
}

// Explain recalcula quais regras disparam contra os atributos atuais do
// lead e retorna o detalhamento. O score total reportado é o armazenado
// no lead (autoritativo até o próximo reprocessamento).
func (e *Engine) Explain(lead *entity.Lead) ScoreBreakdown {
	breakdown := ScoreBreakdown{
		TotalScore: lead.Score,
		Status:     lead.Status,
		Details:    []RulePoints{},
	}

	if e.hasRequiredFields(lead) {
		breakdown.Details = append(breakdown.Details, RulePoints{
			Rule:   "Campos obrigatórios preenchidos",
			Points: e.cfg.RequiredFieldsPoints,
		})
	}

	if e.hasHighTicketInterest(lead) {
		breakdown.Details = append(breakdown.Details, RulePoints{
			Rule:   "Interesse em produto de alto ticket",
			Points: e.cfg.HighTicketPoints,
		})
	}

	if e.isInServedRegion(lead) {
		breakdown.Details = append(breakdown.Details, RulePoints{
			Rule:   "Região atendida pela empresa",
			Points: e.cfg.RegionPoints,
		})
	}

	if bonus := e.incomeBonus(lead); bonus > 0 {
		breakdown.Details = append(breakdown.Details, RulePoints{
			Rule:   fmt.Sprintf("Bônus por renda (R$ %.2f)", *lead.MonthlyIncome),
			Points: bonus,
		})
	}

	return breakdown
}
