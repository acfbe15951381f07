package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/streamleads/streamleads/internal/automation"
	"github.com/streamleads/streamleads/internal/infra/database"
	"github.com/streamleads/streamleads/internal/infra/http/handlers"
	"github.com/streamleads/streamleads/internal/infra/http/middleware"
	"github.com/streamleads/streamleads/internal/infra/integration/n8n"
	"github.com/streamleads/streamleads/internal/infra/integration/slack"
	"github.com/streamleads/streamleads/internal/infra/mail"
	"github.com/streamleads/streamleads/internal/infra/queue"
	"github.com/streamleads/streamleads/internal/infra/remarketing"
	"github.com/streamleads/streamleads/internal/infra/worker"
	"github.com/streamleads/streamleads/internal/scoring"
	"github.com/streamleads/streamleads/internal/usecase"
)

func main() {
	godotenv.Load()

	db, err := database.NewDBConnection(os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatalf("❌ Erro ao conectar no banco: %v", err)
	}
	defer db.Close()

	rabbitMQ, err := queue.NewRabbitMQ(
		envOr("RABBITMQ_USER", "guest"),
		envOr("RABBITMQ_PASS", "guest"),
		envOr("RABBITMQ_HOST", "localhost"),
		envOr("RABBITMQ_PORT", "5672"),
	)
	if err != nil {
		log.Fatalf("❌ Erro ao conectar no RabbitMQ: %v", err)
	}
	defer rabbitMQ.Conn.Close()
	defer rabbitMQ.Ch.Close()

	// Motor de scoring (thresholds ajustáveis por env)
	engine, err := scoring.NewEngine(scoringConfig())
	if err != nil {
		log.Fatalf("❌ Configuração de scoring inválida: %v", err)
	}

	// 1. Repositórios
	leadRepo := database.NewLeadRepository(db)

	// 2. Integrações e Adapters
	slackClient := slack.NewClient(os.Getenv("SLACK_WEBHOOK_URL"))
	n8nClient := n8n.NewClient(os.Getenv("N8N_WEBHOOK_URL"))
	mailSender := mail.NewEmailSender(
		os.Getenv("SMTP_HOST"), envInt("SMTP_PORT", 587),
		os.Getenv("SMTP_USER"), os.Getenv("SMTP_PASSWORD"),
	)
	remarketingList := remarketing.NewRedisList(
		envOr("REDIS_ADDR", "localhost:6379"),
		os.Getenv("REDIS_PASSWORD"),
		envInt("REDIS_DB", 0),
	)
	producer := queue.NewProducer(rabbitMQ.Conn, rabbitMQ.Ch)

	// 3. Dispatcher de ações por tier
	dispatcher := automation.NewDispatcher(slackClient, n8nClient, mailSender, remarketingList)

	// 4. Workers (consomem a fila e varrem follow-ups)
	processUC := usecase.NewProcessLeadUseCase(leadRepo, engine, dispatcher)
	scoringWorker := queue.NewWorker(rabbitMQ.Ch, processUC)
	go scoringWorker.Start(queue.QueueName)

	followUpWorker := worker.NewFollowUpWorker(db, slackClient)
	go followUpWorker.Start(context.Background())

	// 5. UseCases de escrita
	createLeadUC := usecase.NewCreateLeadUseCase(leadRepo, producer)
	updateLeadUC := usecase.NewUpdateLeadUseCase(leadRepo, producer)

	// 6. Handlers
	leadHandler := handlers.NewLeadHandler(createLeadUC, updateLeadUC, leadRepo, engine, producer)
	healthHandler := handlers.NewHealthHandler(db, rabbitMQ.Conn, remarketingList)

	// 7. Router
	r := chi.NewRouter()
	r.Use(chimw.Logger)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:5173", "*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
	}))

	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/leads", func(r chi.Router) {
		r.Post("/", leadHandler.Create)
		r.Get("/", leadHandler.List)
		r.Get("/stats", leadHandler.Stats)
		r.Get("/{leadId}", leadHandler.Get)
		r.Put("/{leadId}", leadHandler.Update)
		r.Delete("/{leadId}", leadHandler.Delete)
		r.Get("/{leadId}/score", leadHandler.Explain)
		r.Post("/{leadId}/reprocess", leadHandler.Reprocess)
	})

	port := ":" + envOr("PORT", "8000")
	log.Printf("🔥 StreamLeads API rodando na porta %s", port)
	if err := http.ListenAndServe(port, r); err != nil {
		log.Fatal(err)
	}
}

func scoringConfig() scoring.Config {
	cfg := scoring.DefaultConfig()
	cfg.RequiredFieldsPoints = envInt("SCORE_REQUIRED_FIELDS", cfg.RequiredFieldsPoints)
	cfg.HighTicketPoints = envInt("SCORE_HIGH_TICKET", cfg.HighTicketPoints)
	cfg.RegionPoints = envInt("SCORE_REGION", cfg.RegionPoints)
	cfg.WarmThreshold = envInt("WARM_LEAD_THRESHOLD", cfg.WarmThreshold)
	cfg.HotThreshold = envInt("HOT_LEAD_THRESHOLD", cfg.HotThreshold)
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("⚠️ Valor inválido para %s (%q), usando %d", key, v, fallback)
		return fallback
	}
	return n
}
