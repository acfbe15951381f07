package n8n

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

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

// Forward encaminha o snapshot do lead para o n8n com a tag da ação
// (hot_lead, warm_lead, cold_lead). O n8n roteia para o CRM e para as
// sequências de nutrição a partir da tag.
func (c *Client) Forward(ctx context.Context, actionTag string, snapshot map[string]interface{}) error {
	if c.webhookURL == "" {
		log.Println("⚠️ n8n: N8N_WEBHOOK_URL não configurado")
		return nil
	}

	payload := forwardRequest{
		Action:    actionTag,
		Lead:      snapshot,
		Timestamp: time.Now().Format(time.RFC3339),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("erro ao serializar payload n8n: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		middleware.RecordIntegrationError("n8n")
		return fmt.Errorf("erro ao enviar para n8n: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		middleware.RecordIntegrationError("n8n")
		return fmt.Errorf("n8n retornou status %d", resp.StatusCode)
	}

	return nil
}
