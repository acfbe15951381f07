package automation

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/streamleads/streamleads/internal/entity"
)

// Tags enviadas à plataforma de automação.
const (
	TagHotLead  = "hot_lead"
	TagWarmLead = "warm_lead"
	TagColdLead = "cold_lead"
)

// ActionReport lista, em ordem, as ações executadas (ou suas falhas)
// para um lead. É efêmero: produzido a cada dispatch, nunca persistido.
type ActionReport struct {
	LeadID  string            `json:"lead_id"`
	Status  entity.LeadStatus `json:"status"`
	Actions []string          `json:"actions_taken"`
}

// Dispatcher seleciona e executa as ações de follow-up conforme o
// status do lead. Cada ação falha de forma independente: o erro entra
// no relatório e as ações irmãs continuam.
type Dispatcher struct {
	notifier    SalesNotifier
	forwarder   AutomationForwarder
	mailer      EmailService
	remarketing RemarketingList

	now func() time.Time
}

func NewDispatcher(notifier SalesNotifier, forwarder AutomationForwarder, mailer EmailService, remarketing RemarketingList) *Dispatcher {
	return &Dispatcher{
		notifier:    notifier,
		forwarder:   forwarder,
		mailer:      mailer,
		remarketing: remarketing,
		now:         time.Now,
	}
}

// Dispatch nunca propaga erro: qualquer falha inesperada é recuperada
// na borda e registrada no relatório. O follow-up já agendado antes do
// ponto de falha é preservado no lead.
func (d *Dispatcher) Dispatch(ctx context.Context, lead *entity.Lead) (report ActionReport) {
	report = ActionReport{
		LeadID:  lead.ID,
		Status:  lead.Status,
		Actions: []string{},
	}

	defer func() {
		if r := recover(); r != nil {
			log.Printf("❌ Erro ao processar ações para lead %s: %v", lead.ID, r)
			report.Actions = append(report.Actions, fmt.Sprintf("Erro: %v", r))
		}
	}()

	switch lead.Status {
	case entity.StatusHot:
		report.Actions = append(report.Actions, d.handleHotLead(ctx, lead)...)
	case entity.StatusWarm:
		report.Actions = append(report.Actions, d.handleWarmLead(ctx, lead)...)
	case entity.StatusCold:
		report.Actions = append(report.Actions, d.handleColdLead(ctx, lead)...)
	default:
		log.Printf("⚠️ Lead %s com status %s: nenhuma ação a despachar", lead.ID, lead.Status)
	}

	log.Printf("Ações processadas para lead %s: %v", lead.ID, report.Actions)
	return report
}

// Ações para leads quentes
func (d *Dispatcher) handleHotLead(ctx context.Context, lead *entity.Lead) []string {
	var actions []string

	// 1. Notificar time de vendas
	summary := LeadSummary{
		Name:     lead.Name,
		Email:    lead.Email,
		Phone:    lead.Phone,
		Origin:   string(lead.Origin),
		Score:    lead.Score,
		Interest: lead.Interest,
	}
	if err := d.notifier.Notify(ctx, summary); err != nil {
		actions = append(actions, fmt.Sprintf("Falha ao notificar time de vendas: %v", err))
	} else {
		actions = append(actions, "Notificação enviada para time de vendas")
	}

	// 2. Encaminhar para o CRM via automação
	if err := d.forwarder.Forward(ctx, TagHotLead, lead.Snapshot()); err != nil {
		actions = append(actions, fmt.Sprintf("Falha ao enviar lead para o CRM: %v", err))
	} else {
		actions = append(actions, "Lead enviado para CRM via n8n")
	}

	// 3. Agendar follow-up em 1 hora (mutação local, nunca falha)
	d.scheduleFollowUp(lead, time.Hour)
	actions = append(actions, "Follow-up agendado para 1 hora")

	return actions
}

// Ações para leads mornos
func (d *Dispatcher) handleWarmLead(ctx context.Context, lead *entity.Lead) []string {
	var actions []string

	// 1. Email de nutrição referenciando o interesse
	if err := d.mailer.SendNurturing(lead.Email, lead.Name, lead.Interest); err != nil {
		actions = append(actions, fmt.Sprintf("Falha ao enviar email de nutrição: %v", err))
	} else {
		actions = append(actions, "Email de nutrição enviado")
	}

	// 2. Sequência de nutrição na automação
	if err := d.forwarder.Forward(ctx, TagWarmLead, lead.Snapshot()); err != nil {
		actions = append(actions, fmt.Sprintf("Falha ao adicionar à sequência de nutrição: %v", err))
	} else {
		actions = append(actions, "Lead adicionado à sequência de nutrição")
	}

	// 3. Agendar follow-up em 3 dias
	d.scheduleFollowUp(lead, 3*24*time.Hour)
	actions = append(actions, "Follow-up agendado para 3 dias")

	return actions
}

// Ações para leads frios
func (d *Dispatcher) handleColdLead(ctx context.Context, lead *entity.Lead) []string {
	var actions []string

	// 1. Inserir no CRM
	if err := d.forwarder.Forward(ctx, TagColdLead, lead.Snapshot()); err != nil {
		actions = append(actions, fmt.Sprintf("Falha ao inserir lead no CRM: %v", err))
	} else {
		actions = append(actions, "Lead inserido no CRM")
	}

	// 2. Agendar follow-up em 7 dias
	d.scheduleFollowUp(lead, 7*24*time.Hour)
	actions = append(actions, "Follow-up agendado para 7 dias")

	// 3. Lista de remarketing
	if err := d.remarketing.Add(ctx, lead); err != nil {
		actions = append(actions, fmt.Sprintf("Falha ao adicionar ao remarketing: %v", err))
	} else {
		actions = append(actions, "Adicionado à lista de remarketing")
	}

	return actions
}

func (d *Dispatcher) scheduleFollowUp(lead *entity.Lead, in time.Duration) {
	followUp := d.now().Add(in)
	lead.FollowUpDate = &followUp
}
