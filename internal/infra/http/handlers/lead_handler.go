package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/streamleads/streamleads/internal/entity"
	"github.com/streamleads/streamleads/internal/infra/http/middleware"
	"github.com/streamleads/streamleads/internal/infra/queue"
	"github.com/streamleads/streamleads/internal/scoring"
	"github.com/streamleads/streamleads/internal/usecase"
)

type LeadHandler struct {
	createUC    *usecase.CreateLeadUseCase
	updateUC    *usecase.UpdateLeadUseCase
	repo        entity.LeadRepositoryInterface
	engine      *scoring.Engine
	producer    queue.ScoringProducerInterface
	rateLimiter *RateLimiter
}

func NewLeadHandler(
	createUC *usecase.CreateLeadUseCase,
	updateUC *usecase.UpdateLeadUseCase,
	repo entity.LeadRepositoryInterface,
	engine *scoring.Engine,
	producer queue.ScoringProducerInterface,
) *LeadHandler {
	return &LeadHandler{
		createUC:    createUC,
		updateUC:    updateUC,
		repo:        repo,
		engine:      engine,
		producer:    producer,
		rateLimiter: NewRateLimiter(10, time.Minute), // 10 req/min por IP
	}
}

type LeadListResponse struct {
	Leads      []*entity.Lead `json:"leads"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	PerPage    int            `json:"per_page"`
	TotalPages int            `json:"total_pages"`
}

// Create captura um novo lead e dispara o scoring em background.
func (h *LeadHandler) Create(w http.ResponseWriter, r *http.Request) {
	clientIP := getClientIP(r)
	if !h.rateLimiter.Allow(clientIP) {
		writeError(w, http.StatusTooManyRequests, "Too many requests. Please try again later.")
		return
	}

	var input usecase.CreateLeadInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "JSON inválido")
		return
	}

	lead, err := h.createUC.Execute(r.Context(), input)
	if err != nil {
		h.writeUseCaseError(w, err)
		return
	}

	middleware.RecordLeadReceived(string(lead.Origin))
	writeJSON(w, http.StatusCreated, lead)
}

func (h *LeadHandler) Get(w http.ResponseWriter, r *http.Request) {
	lead, err := h.repo.FindByID(r.Context(), chi.URLParam(r, "leadId"))
	if err != nil {
		h.writeUseCaseError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, lead)
}

func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	if page < 1 {
		page = 1
	}
	perPage := queryInt(r, "per_page", 20)
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	filter := entity.LeadFilter{
		Status: entity.LeadStatus(r.URL.Query().Get("status")),
		Origin: entity.LeadOrigin(r.URL.Query().Get("origem")),
		City:   r.URL.Query().Get("cidade"),
		Search: r.URL.Query().Get("search"),
		Limit:  perPage,
		Offset: (page - 1) * perPage,
	}

	if start := r.URL.Query().Get("data_inicio"); start != "" {
		t, err := time.Parse("2006-01-02", start)
		if err != nil {
			writeError(w, http.StatusBadRequest, "data_inicio inválida (use YYYY-MM-DD)")
			return
		}
		filter.StartDate = &t
	}
	if end := r.URL.Query().Get("data_fim"); end != "" {
		t, err := time.Parse("2006-01-02", end)
		if err != nil {
			writeError(w, http.StatusBadRequest, "data_fim inválida (use YYYY-MM-DD)")
			return
		}
		// Inclui o dia final inteiro
		t = t.Add(24*time.Hour - time.Nanosecond)
		filter.EndDate = &t
	}

	leads, total, err := h.repo.List(r.Context(), filter)
	if err != nil {
		log.Printf("❌ Erro ao listar leads: %v", err)
		writeError(w, http.StatusInternalServerError, "Erro interno do servidor")
		return
	}

	totalPages := 1
	if total > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(perPage)))
	}

	writeJSON(w, http.StatusOK, LeadListResponse{
		Leads:      leads,
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
	})
}

func (h *LeadHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input usecase.UpdateLeadInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "JSON inválido")
		return
	}

	lead, err := h.updateUC.Execute(r.Context(), chi.URLParam(r, "leadId"), input)
	if err != nil {
		h.writeUseCaseError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, lead)
}

func (h *LeadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.Delete(r.Context(), chi.URLParam(r, "leadId")); err != nil {
		h.writeUseCaseError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Explain retorna o detalhamento do score do lead, recalculado sob
// demanda a partir das regras.
func (h *LeadHandler) Explain(w http.ResponseWriter, r *http.Request) {
	lead, err := h.repo.FindByID(r.Context(), chi.URLParam(r, "leadId"))
	if err != nil {
		h.writeUseCaseError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, h.engine.Explain(lead))
}

// Reprocess reenfileira o lead para scoring manualmente.
func (h *LeadHandler) Reprocess(w http.ResponseWriter, r *http.Request) {
	leadID := chi.URLParam(r, "leadId")

	if _, err := h.repo.FindByID(r.Context(), leadID); err != nil {
		h.writeUseCaseError(w, err)
		return
	}

	payload := queue.ScoringPayload{
		LeadID:      leadID,
		Reason:      queue.ReasonManual,
		RequestedAt: time.Now(),
	}
	if err := h.producer.PublishScoring(r.Context(), payload); err != nil {
		log.Printf("❌ Erro ao enfileirar reprocessamento do lead %s: %v", leadID, err)
		writeError(w, http.StatusInternalServerError, "Erro ao enfileirar reprocessamento")
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{
		"message": "Lead enviado para reprocessamento",
	})
}

func (h *LeadHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.repo.Stats(r.Context())
	if err != nil {
		log.Printf("❌ Erro ao calcular estatísticas: %v", err)
		writeError(w, http.StatusInternalServerError, "Erro interno do servidor")
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

func (h *LeadHandler) writeUseCaseError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, entity.ErrLeadNotFound):
		writeError(w, http.StatusNotFound, "Lead não encontrado")
	case errors.Is(err, entity.ErrEmailAlreadyExists):
		writeError(w, http.StatusBadRequest, err.Error())
	case usecase.IsDomainError(err):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		log.Printf("❌ Erro inesperado: %v", err)
		writeError(w, http.StatusInternalServerError, "Erro interno do servidor")
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	return r.RemoteAddr
}

type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    int
	window   time.Duration
}

type visitor struct {
	count     int
	lastReset time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    limit,
		window:   window,
	}

	go rl.cleanup()
	return rl
}

func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, exists := rl.visitors[ip]
	now := time.Now()

	if !exists {
		rl.visitors[ip] = &visitor{count: 1, lastReset: now}
		return true
	}

	if now.Sub(v.lastReset) > rl.window {
		v.count = 1
		v.lastReset = now
		return true
	}

	v.count++
	return v.count <= rl.limit
}

func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		now := time.Now()
		for ip, v := range rl.visitors {
			if now.Sub(v.lastReset) > rl.window*2 {
				delete(rl.visitors, ip)
			}
		}
		rl.mu.Unlock()
	}
}
