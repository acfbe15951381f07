package worker

import (
	"context"
	"database/sql"
	"log"
	"time"

	"github.com/streamleads/streamleads/internal/entity"
)

// FollowUpNotifier envia o lembrete para o time de vendas.
type FollowUpNotifier interface {
	SendFollowUpReminder(ctx context.Context, lead *entity.Lead) error
}

// FollowUpWorker varre periodicamente os leads com follow-up vencido e
// dispara um lembrete. O follow_up_date é limpo na mesma query: cada
// vencimento gera exatamente um lembrete.
type FollowUpWorker struct {
	db           *sql.DB
	notifier     FollowUpNotifier
	tickInterval time.Duration
}

func NewFollowUpWorker(db *sql.DB, notifier FollowUpNotifier) *FollowUpWorker {
	return &FollowUpWorker{
		db:           db,
		notifier:     notifier,
		tickInterval: 1 * time.Minute,
	}
}

func (w *FollowUpWorker) Start(ctx context.Context) {
	log.Println("🕒 Follow-up Worker iniciado")

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.remindDueFollowUps(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Println("⚠️ Follow-up Worker encerrado")
			return
		case <-ticker.C:
			w.remindDueFollowUps(ctx)
		}
	}
}

func (w *FollowUpWorker) remindDueFollowUps(ctx context.Context) {
	query := `
		UPDATE leads
		SET
			follow_up_date = NULL,
			updated_at = NOW()
		WHERE
			follow_up_date IS NOT NULL
			AND follow_up_date <= NOW()
		RETURNING id, nome, email, score, status, updated_at
	`

	rows, err := w.db.QueryContext(ctx, query)
	if err != nil {
		log.Printf("❌ Erro ao buscar follow-ups vencidos: %v", err)
		return
	}
	defer rows.Close()

	remindedCount := 0
	for rows.Next() {
		var lead entity.Lead
		var status string
		var updatedAt time.Time

		if err := rows.Scan(&lead.ID, &lead.Name, &lead.Email, &lead.Score, &status, &updatedAt); err != nil {
			log.Printf("⚠️ Erro ao escanear follow-up vencido: %v", err)
			continue
		}
		lead.Status = entity.LeadStatus(status)
		lead.FollowUpDate = &updatedAt

		if err := w.notifier.SendFollowUpReminder(ctx, &lead); err != nil {
			log.Printf("⚠️ Falha ao enviar lembrete do lead %s: %v", lead.ID, err)
			continue
		}

		log.Printf("⏱️ Lembrete de follow-up enviado: lead=%s status=%s", lead.ID, lead.Status)
		remindedCount++
	}

	if remindedCount > 0 {
		log.Printf("✅ %d lembrete(s) de follow-up enviados", remindedCount)
	}
}
