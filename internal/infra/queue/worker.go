package queue

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/streamleads/streamleads/internal/automation"
	"github.com/streamleads/streamleads/internal/entity"
	"github.com/streamleads/streamleads/internal/infra/http/middleware"
)

// LeadProcessor é o pipeline executado para cada mensagem: re-busca o
// lead, calcula score, persiste e despacha as ações.
type LeadProcessor interface {
	Execute(ctx context.Context, leadID string) (*automation.ActionReport, error)
}

type Worker struct {
	Channel   *amqp.Channel
	Processor LeadProcessor
}

func NewWorker(ch *amqp.Channel, processor LeadProcessor) *Worker {
	return &Worker{
		Channel:   ch,
		Processor: processor,
	}
}

func (w *Worker) Start(queueName string) {
	msgs, err := w.Channel.Consume(
		queueName,
		"",    // consumer
		false, // auto-ack (manual é mais seguro)
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		log.Fatalf("❌ Falha ao registrar consumidor RabbitMQ: %s", err)
	}

	forever := make(chan bool)

	go func() {
		for d := range msgs {
			var payload ScoringPayload
			if err := json.Unmarshal(d.Body, &payload); err != nil {
				log.Printf("❌ [WORKER] JSON Inválido: %s", err)
				// Mensagem malformada. Rejeita sem requeue (vai pra DLQ).
				d.Nack(false, false)
				continue
			}

			log.Printf("⚙️ [WORKER] Processando scoring do lead %s (motivo: %s)", payload.LeadID, payload.Reason)

			// Cada mensagem trabalha com contexto próprio: nada é
			// compartilhado com a goroutine da requisição HTTP.
			report, err := w.Processor.Execute(context.Background(), payload.LeadID)
			if err != nil {
				if errors.Is(err, entity.ErrLeadNotFound) {
					log.Printf("⚠️ [WORKER] Lead %s não encontrado, descartando mensagem", payload.LeadID)
					d.Nack(false, false)
					continue
				}

				log.Printf("❌ [WORKER] Erro no processamento do lead %s: %s", payload.LeadID, err)
				d.Nack(false, false)
				continue
			}

			middleware.RecordLeadScored(string(report.Status))
			log.Printf("✅ [WORKER] Lead %s classificado como %s: %v", payload.LeadID, report.Status, report.Actions)
			d.Ack(false)
		}
	}()

	log.Printf(" [*] Worker rodando e aguardando na fila '%s'", queueName)
	<-forever
}
