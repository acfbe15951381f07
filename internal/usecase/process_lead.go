package usecase

import (
	"context"
	"fmt"
	"log"

	"github.com/streamleads/streamleads/internal/automation"
	"github.com/streamleads/streamleads/internal/entity"
	"github.com/streamleads/streamleads/internal/scoring"
)

// ActionDispatcherInterface é a política de ações pós-classificação.
type ActionDispatcherInterface interface {
	Dispatch(ctx context.Context, lead *entity.Lead) automation.ActionReport
}

// ProcessLeadUseCase é o orquestrador do pipeline de qualificação:
// re-busca o lead num snapshot fresco, calcula score e classifica,
// persiste, despacha as ações do tier e persiste o follow-up agendado.
// Roda dentro do worker da fila, nunca na goroutine da requisição.
type ProcessLeadUseCase struct {
	Repo       entity.LeadRepositoryInterface
	Engine     *scoring.Engine
	Dispatcher ActionDispatcherInterface
}

func NewProcessLeadUseCase(repo entity.LeadRepositoryInterface, engine *scoring.Engine, dispatcher ActionDispatcherInterface) *ProcessLeadUseCase {
	return &ProcessLeadUseCase{
		Repo:       repo,
		Engine:     engine,
		Dispatcher: dispatcher,
	}
}

func (uc *ProcessLeadUseCase) Execute(ctx context.Context, leadID string) (*automation.ActionReport, error) {
	lead, err := uc.Repo.FindByID(ctx, leadID)
	if err != nil {
		return nil, fmt.Errorf("lead %s para processamento: %w", leadID, err)
	}

	uc.Engine.Process(lead)

	if err := uc.Repo.Update(ctx, lead); err != nil {
		return nil, fmt.Errorf("erro ao persistir scoring do lead %s: %w", leadID, err)
	}

	report := uc.Dispatcher.Dispatch(ctx, lead)

	// O dispatcher pode ter agendado follow-up: persiste a mutação
	if lead.FollowUpDate != nil {
		if err := uc.Repo.Update(ctx, lead); err != nil {
			log.Printf("⚠️ Lead %s: ações despachadas, mas falha ao persistir follow-up: %v", leadID, err)
		}
	}

	return &report, nil
}
