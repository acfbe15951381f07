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

// UpdateLeadInput usa ponteiros: só campos presentes no JSON são aplicados.
type UpdateLeadInput struct {
	Name          *string  `json:"nome"`
	Email         *string  `json:"email"`
	Phone         *string  `json:"telefone"`
	Origin        *string  `json:"origem"`
	Interest      *string  `json:"interesse"`
	MonthlyIncome *float64 `json:"renda_aproximada"`
	City          *string  `json:"cidade"`
	Notes         *string  `json:"observacoes"`
}

type UpdateLeadUseCase struct {
	Repo     entity.LeadRepositoryInterface
	Producer queue.ScoringProducerInterface
}

func NewUpdateLeadUseCase(repo entity.LeadRepositoryInterface, producer queue.ScoringProducerInterface) *UpdateLeadUseCase {
	return &UpdateLeadUseCase{
		Repo:     repo,
		Producer: producer,
	}
}

func (uc *UpdateLeadUseCase) Execute(ctx context.Context, leadID string, input UpdateLeadInput) (*entity.Lead, error) {
	if errs := ValidateUpdateLeadInput(input); len(errs) > 0 {
		return nil, newValidationError(errs)
	}

	lead, err := uc.Repo.FindByID(ctx, leadID)
	if err != nil {
		return nil, err
	}

	if input.Email != nil && *input.Email != lead.Email {
		duplicate, err := uc.Repo.FindByEmail(ctx, *input.Email)
		if err != nil && !errors.Is(err, entity.ErrLeadNotFound) {
			return nil, fmt.Errorf("erro ao verificar duplicidade: %w", err)
		}
		if duplicate != nil {
			return nil, entity.ErrEmailAlreadyExists
		}
	}

	// Qualquer atributo relevante para scoring alterado dispara reprocessamento
	scoringChanged := applyChanges(lead, input)
	lead.UpdatedAt = time.Now()

	if err := uc.Repo.Update(ctx, lead); err != nil {
		return nil, fmt.Errorf("erro ao atualizar lead: %w", err)
	}

	if scoringChanged {
		payload := queue.ScoringPayload{
			LeadID:      lead.ID,
			Reason:      queue.ReasonUpdated,
			RequestedAt: time.Now(),
		}
		if err := uc.Producer.PublishScoring(ctx, payload); err != nil {
			log.Printf("⚠️ Lead %s atualizado, mas falha ao enfileirar reprocessamento: %v", lead.ID, err)
		} else {
			log.Printf("Lead %s enviado para reprocessamento após atualização", lead.ID)
		}
	}

	return lead, nil
}

// applyChanges aplica os campos presentes e informa se algum atributo
// que entra no score mudou (identidade, interesse, renda ou cidade).
func applyChanges(lead *entity.Lead, input UpdateLeadInput) bool {
	changed := false

	if input.Name != nil && strings.TrimSpace(*input.Name) != lead.Name {
		lead.Name = strings.TrimSpace(*input.Name)
		changed = true
	}
	if input.Email != nil && *input.Email != lead.Email {
		lead.Email = strings.TrimSpace(*input.Email)
		changed = true
	}
	if input.Phone != nil {
		if phone := normalizePhone(*input.Phone); phone != lead.Phone {
			lead.Phone = phone
			changed = true
		}
	}
	if input.Origin != nil && entity.LeadOrigin(*input.Origin) != lead.Origin {
		lead.Origin = entity.LeadOrigin(*input.Origin)
		changed = true
	}
	if input.Interest != nil && *input.Interest != lead.Interest {
		lead.Interest = *input.Interest
		changed = true
	}
	if input.MonthlyIncome != nil {
		if lead.MonthlyIncome == nil || *lead.MonthlyIncome != *input.MonthlyIncome {
			lead.MonthlyIncome = input.MonthlyIncome
			changed = true
		}
	}
	if input.City != nil && *input.City != lead.City {
		lead.City = *input.City
		changed = true
	}

	// Observações não entram no score
	if input.Notes != nil {
		lead.Notes = *input.Notes
	}

	return changed
}
