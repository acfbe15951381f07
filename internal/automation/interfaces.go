package automation

import (
	"context"

	"github.com/streamleads/streamleads/internal/entity"
)

// LeadSummary é o resumo estruturado enviado ao time de vendas.
type LeadSummary struct {
	Name     string
	Email    string
	Phone    string
	Origin   string
	Score    int
	Interest string
}

// SalesNotifier avisa o time de vendas sobre um lead quente.
type SalesNotifier interface {
	Notify(ctx context.Context, summary LeadSummary) error
}

// AutomationForwarder encaminha o lead para a plataforma de automação
// (n8n) com a tag da ação.
type AutomationForwarder interface {
	Forward(ctx context.Context, actionTag string, snapshot map[string]interface{}) error
}

// EmailService envia o email de nutrição para leads mornos.
type EmailService interface {
	SendNurturing(to, name, interest string) error
}

// RemarketingList registra o lead na audiência de remarketing.
type RemarketingList interface {
	Add(ctx context.Context, lead *entity.Lead) error
}
