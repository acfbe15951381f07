package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/streamleads/streamleads/internal/entity"
	"github.com/streamleads/streamleads/internal/infra/queue"
)

type CreateLeadInput struct {
	Name          string   `json:"nome"`
	Email         string   `json:"email"`
	Phone         string   `json:"telefone"`
	Origin        string   `json:"origem"`
	Interest      string   `json:"interesse"`
	MonthlyIncome *float64 `json:"renda_aproximada"`
	City          string   `json:"cidade"`
	Notes         string   `json:"observacoes"`
}

// CreateLeadUseCase persiste o lead bruto e publica a unidade de
// trabalho na fila. O scoring roda em background: a requisição de
// captação retorna imediatamente após o insert.
type CreateLeadUseCase struct {
	Repo     entity.LeadRepositoryInterface
	Producer queue.ScoringProducerInterface
}

func NewCreateLeadUseCase(repo entity.LeadRepositoryInterface, producer queue.ScoringProducerInterface) *CreateLeadUseCase {
	return &CreateLeadUseCase{
		Repo:     repo,
		Producer: producer,
	}
}

func (uc *CreateLeadUseCase) Execute(ctx context.Context, input CreateLeadInput) (*entity.Lead, error) {
	if errs := ValidateCreateLeadInput(input); len(errs) > 0 {
		return nil, newValidationError(errs)
	}

	// Duplicidade de email é regra de negócio, não erro técnico
	existing, err := uc.Repo.FindByEmail(ctx, input.Email)
	if err != nil && !errors.Is(err, entity.ErrLeadNotFound) {
		return nil, fmt.Errorf("erro ao verificar duplicidade: %w", err)
	}
	if existing != nil {
		return nil, entity.ErrEmailAlreadyExists
	}

	lead, err := entity.NewLead(
		strings.TrimSpace(input.Name),
		strings.TrimSpace(input.Email),
		normalizePhone(input.Phone),
		entity.LeadOrigin(input.Origin),
		input.Interest,
		input.MonthlyIncome,
		input.City,
		input.Notes,
	)
	if err != nil {
		return nil, &DomainError{Code: "INVALID_LEAD", Message: err.Error()}
	}

	if err := uc.Repo.Create(ctx, lead); err != nil {
		if errors.Is(err, entity.ErrEmailAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("erro ao criar lead: %w", err)
	}

	payload := queue.ScoringPayload{
		LeadID:      lead.ID,
		Reason:      queue.ReasonCreated,
		RequestedAt: time.Now(),
	}

	// O lead já está salvo: falha na fila não desfaz a captação
	if err := uc.Producer.PublishScoring(ctx, payload); err != nil {
		log.Printf("⚠️ CRITICAL: Lead %s salvo, mas falha ao enfileirar scoring: %v", lead.ID, err)
		return lead, nil
	}

	log.Printf("Lead criado e enviado para processamento - ID: %s", lead.ID)
	return lead, nil
}
