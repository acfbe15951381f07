package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/streamleads/streamleads/internal/automation"
	"github.com/streamleads/streamleads/internal/entity"
	"github.com/streamleads/streamleads/internal/infra/http/middleware"
)

type Client struct {
	webhookURL string
	http       *http.Client
}

func NewClient(webhookURL string) *Client {
	return &Client{
		webhookURL: webhookURL,
		http:       &http.Client{Timeout: 10 * time.Second},
	}
}

// Notify avisa o time de vendas sobre um lead quente.
func (c *Client) Notify(ctx context.Context, summary automation.LeadSummary) error {
	interest := summary.Interest
	if interest == "" {
		interest = "Não informado"
	}

	msg := message{
		Text: "🔥 LEAD QUENTE RECEBIDO!",
		Attachments: []attachment{{
			Color: "danger",
			Fields: []field{
				{Title: "Nome", Value: summary.Name, Short: true},
				{Title: "Email", Value: summary.Email, Short: true},
				{Title: "Telefone", Value: summary.Phone, Short: true},
				{Title: "Origem", Value: summary.Origin, Short: true},
				{Title: "Score", Value: fmt.Sprintf("%d", summary.Score), Short: true},
				{Title: "Interesse", Value: interest, Short: false},
			},
		}},
	}

	return c.post(ctx, msg)
}

// SendFollowUpReminder lembra o time de vendas de um follow-up vencido.
func (c *Client) SendFollowUpReminder(ctx context.Context, lead *entity.Lead) error {
	followUp := "indefinida"
	if lead.FollowUpDate != nil {
		followUp = lead.FollowUpDate.Format("02/01/2006 15:04")
	}

	msg := message{
		Text: "⏰ Lembrete de Follow-up",
		Attachments: []attachment{{
			Color: "warning",
			Fields: []field{
				{Title: "Lead", Value: fmt.Sprintf("%s (%s)", lead.Name, lead.Email), Short: false},
				{Title: "Status", Value: string(lead.Status), Short: true},
				{Title: "Score", Value: fmt.Sprintf("%d", lead.Score), Short: true},
				{Title: "Data Follow-up", Value: followUp, Short: true},
			},
		}},
	}

	return c.post(ctx, msg)
}

func (c *Client) post(ctx context.Context, msg message) error {
	// Sem webhook configurado a notificação é considerada entregue
	if c.webhookURL == "" {
		log.Println("⚠️ Slack: SLACK_WEBHOOK_URL não configurado")
		return nil
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("erro ao serializar mensagem slack: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		middleware.RecordIntegrationError("slack")
		return fmt.Errorf("erro ao notificar time de vendas: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		middleware.RecordIntegrationError("slack")
		return fmt.Errorf("slack retornou status %d", resp.StatusCode)
	}

	return nil
}
