package automation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/streamleads/streamleads/internal/entity"
)

// MockSalesNotifier
type MockSalesNotifier struct {
	mock.Mock
}

func (m *MockSalesNotifier) Notify(ctx context.Context, summary LeadSummary) error {
	args := m.Called(ctx, summary)
	return args.Error(0)
}

// MockAutomationForwarder
type MockAutomationForwarder struct {
	mock.Mock
}

func (m *MockAutomationForwarder) Forward(ctx context.Context, actionTag string, snapshot map[string]interface{}) error {
	args := m.Called(ctx, actionTag, snapshot)
	return args.Error(0)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendNurturing(to, name, interest string) error {
	args := m.Called(to, name, interest)
	return args.Error(0)
}

// MockRemarketingList
type MockRemarketingList struct {
	mock.Mock
}

func (m *MockRemarketingList) Add(ctx context.Context, lead *entity.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

// panicNotifier simula um bug interno em uma capability.
type panicNotifier struct{}

func (p *panicNotifier) Notify(ctx context.Context, summary LeadSummary) error {
	panic("ponteiro nulo na integração")
}

var fixedNow = time.Date(2025, 6, 10, 14, 0, 0, 0, time.UTC)

func newTestDispatcher(notifier SalesNotifier, forwarder AutomationForwarder, mailer EmailService, remarketing RemarketingList) *Dispatcher {
	d := NewDispatcher(notifier, forwarder, mailer, remarketing)
	d.now = func() time.Time { return fixedNow }
	return d
}

func hotLead() *entity.Lead {
	return &entity.Lead{
		ID:       "lead-hot",
		Name:     "Ana Costa",
		Email:    "ana@example.com",
		Phone:    "11988887777",
		Origin:   entity.OriginMetaAds,
		Interest: "Cobertura de luxo",
		Score:    40,
		Status:   entity.StatusHot,
	}
}

func TestDispatchHotLeadSuccess(t *testing.T) {
	ctx := context.Background()

	mockNotifier := new(MockSalesNotifier)
	mockForwarder := new(MockAutomationForwarder)
	mockMailer := new(MockEmailService)
	mockRemarketing := new(MockRemarketingList)

	mockNotifier.On("Notify", ctx, mock.Anything).Return(nil)
	mockForwarder.On("Forward", ctx, TagHotLead, mock.Anything).Return(nil)

	d := newTestDispatcher(mockNotifier, mockForwarder, mockMailer, mockRemarketing)
	lead := hotLead()

	report := d.Dispatch(ctx, lead)

	assert.Equal(t, "lead-hot", report.LeadID)
	assert.Equal(t, entity.StatusHot, report.Status)
	assert.Equal(t, []string{
		"Notificação enviada para time de vendas",
		"Lead enviado para CRM via n8n",
		"Follow-up agendado para 1 hora",
	}, report.Actions)

	// Follow-up em exatamente now + 1h
	assert.NotNil(t, lead.FollowUpDate)
	assert.Equal(t, fixedNow.Add(time.Hour), *lead.FollowUpDate)

	// Resumo estruturado enviado ao time de vendas
	mockNotifier.AssertCalled(t, "Notify", ctx, LeadSummary{
		Name:     "Ana Costa",
		Email:    "ana@example.com",
		Phone:    "11988887777",
		Origin:   "Meta Ads",
		Score:    40,
		Interest: "Cobertura de luxo",
	})
	mockMailer.AssertNotCalled(t, "SendNurturing", mock.Anything, mock.Anything, mock.Anything)
	mockRemarketing.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
}

func TestDispatchHotLeadSchedulesFollowUpEvenWhenActionsFail(t *testing.T) {
	ctx := context.Background()

	mockNotifier := new(MockSalesNotifier)
	mockForwarder := new(MockAutomationForwarder)

	mockNotifier.On("Notify", ctx, mock.Anything).Return(errors.New("webhook timeout"))
	mockForwarder.On("Forward", ctx, TagHotLead, mock.Anything).Return(errors.New("n8n fora do ar"))

	d := newTestDispatcher(mockNotifier, mockForwarder, new(MockEmailService), new(MockRemarketingList))
	lead := hotLead()

	report := d.Dispatch(ctx, lead)

	assert.Len(t, report.Actions, 3)
	assert.Contains(t, report.Actions[0], "Falha ao notificar time de vendas")
	assert.Contains(t, report.Actions[1], "Falha ao enviar lead para o CRM")
	assert.Equal(t, "Follow-up agendado para 1 hora", report.Actions[2])

	assert.NotNil(t, lead.FollowUpDate)
	assert.Equal(t, fixedNow.Add(time.Hour), *lead.FollowUpDate)
}

func TestDispatchWarmLeadPartialFailure(t *testing.T) {
	ctx := context.Background()

	mockNotifier := new(MockSalesNotifier)
	mockForwarder := new(MockAutomationForwarder)
	mockMailer := new(MockEmailService)

	// O forward falha, mas o email continua executando
	mockMailer.On("SendNurturing", "bruno@example.com", "Bruno Lima", "apartamento").Return(nil)
	mockForwarder.On("Forward", ctx, TagWarmLead, mock.Anything).Return(errors.New("HTTP 500"))

	d := newTestDispatcher(mockNotifier, mockForwarder, mockMailer, new(MockRemarketingList))
	lead := &entity.Lead{
		ID:       "lead-warm",
		Name:     "Bruno Lima",
		Email:    "bruno@example.com",
		Phone:    "11977776666",
		Origin:   entity.OriginSite,
		Interest: "apartamento",
		Score:    20,
		Status:   entity.StatusWarm,
	}

	report := d.Dispatch(ctx, lead)

	assert.Equal(t, "Email de nutrição enviado", report.Actions[0])
	assert.Contains(t, report.Actions[1], "Falha ao adicionar à sequência de nutrição")
	assert.Equal(t, "Follow-up agendado para 3 dias", report.Actions[2])

	mockMailer.AssertCalled(t, "SendNurturing", "bruno@example.com", "Bruno Lima", "apartamento")
	assert.Equal(t, fixedNow.Add(3*24*time.Hour), *lead.FollowUpDate)
}

func TestDispatchColdLead(t *testing.T) {
	ctx := context.Background()

	mockForwarder := new(MockAutomationForwarder)
	mockRemarketing := new(MockRemarketingList)

	mockForwarder.On("Forward", ctx, TagColdLead, mock.Anything).Return(nil)
	mockRemarketing.On("Add", ctx, mock.Anything).Return(nil)

	d := newTestDispatcher(new(MockSalesNotifier), mockForwarder, new(MockEmailService), mockRemarketing)
	lead := &entity.Lead{
		ID:     "lead-cold",
		Name:   "Carla Souza",
		Email:  "carla@example.com",
		Phone:  "11966665555",
		Origin: entity.OriginOther,
		Score:  10,
		Status: entity.StatusCold,
	}

	report := d.Dispatch(ctx, lead)

	assert.Equal(t, []string{
		"Lead inserido no CRM",
		"Follow-up agendado para 7 dias",
		"Adicionado à lista de remarketing",
	}, report.Actions)
	assert.Equal(t, fixedNow.Add(7*24*time.Hour), *lead.FollowUpDate)
}

func TestDispatchRecoversFromPanic(t *testing.T) {
	ctx := context.Background()

	d := newTestDispatcher(&panicNotifier{}, new(MockAutomationForwarder), new(MockEmailService), new(MockRemarketingList))
	lead := hotLead()

	report := d.Dispatch(ctx, lead)

	// O pânico vira entrada de erro no relatório, sem propagar
	assert.Equal(t, "lead-hot", report.LeadID)
	assert.Len(t, report.Actions, 1)
	assert.Contains(t, report.Actions[0], "Erro:")
}

func TestDispatchProcessingStatusTakesNoAction(t *testing.T) {
	ctx := context.Background()

	mockForwarder := new(MockAutomationForwarder)
	d := newTestDispatcher(new(MockSalesNotifier), mockForwarder, new(MockEmailService), new(MockRemarketingList))

	lead := hotLead()
	lead.Status = entity.StatusProcessing

	report := d.Dispatch(ctx, lead)

	assert.Empty(t, report.Actions)
	assert.Nil(t, lead.FollowUpDate)
	mockForwarder.AssertNotCalled(t, "Forward", mock.Anything, mock.Anything, mock.Anything)
}
