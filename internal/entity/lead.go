package entity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	// IMPORTANTE: NÃO adicione imports de usecase ou infra aqui!
)

var (
	ErrEmailAlreadyExists = errors.New("já existe um lead cadastrado com este email")
	ErrLeadNotFound       = errors.New("lead não encontrado")
)

// LeadStatus é a classificação do lead, derivada exclusivamente do score.
type LeadStatus string

const (
	StatusHot        LeadStatus = "quente"
	StatusWarm       LeadStatus = "morno"
	StatusCold       LeadStatus = "frio"
	StatusProcessing LeadStatus = "processando"
)

func (s LeadStatus) IsValid() bool {
	switch s {
	case StatusHot, StatusWarm, StatusCold, StatusProcessing:
		return true
	}
	return false
}

// LeadOrigin é o canal de aquisição (conjunto fixo).
type LeadOrigin string

const (
	OriginMetaAds   LeadOrigin = "Meta Ads"
	OriginGoogleAds LeadOrigin = "Google Ads"
	OriginWhatsApp  LeadOrigin = "WhatsApp"
	OriginSite      LeadOrigin = "Site"
	OriginReferral  LeadOrigin = "Indicação"
	OriginOther     LeadOrigin = "Outros"
)

func (o LeadOrigin) IsValid() bool {
	switch o {
	case OriginMetaAds, OriginGoogleAds, OriginWhatsApp, OriginSite, OriginReferral, OriginOther:
		return true
	}
	return false
}

// Entidade: Lead
type Lead struct {
	ID     string     `json:"id"`
	Name   string     `json:"nome"`
	Email  string     `json:"email"`
	Phone  string     `json:"telefone"`
	Origin LeadOrigin `json:"origem"`

	Interest      string   `json:"interesse,omitempty"`
	MonthlyIncome *float64 `json:"renda_aproximada,omitempty"`
	City          string   `json:"cidade,omitempty"`

	// Campos de scoring (sempre derivados, nunca editados diretamente)
	Score  int        `json:"score"`
	Status LeadStatus `json:"status"`

	Processed bool   `json:"processado"`
	Notes     string `json:"observacoes,omitempty"`

	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	FollowUpDate *time.Time `json:"follow_up_date,omitempty"`
}

// Factory
func NewLead(name, email, phone string, origin LeadOrigin, interest string, income *float64, city, notes string) (*Lead, error) {
	lead := &Lead{
		ID:            uuid.New().String(),
		Name:          name,
		Email:         email,
		Phone:         phone,
		Origin:        origin,
		Interest:      interest,
		MonthlyIncome: income,
		City:          city,
		Notes:         notes,

		Score:     0,
		Status:    StatusProcessing,
		Processed: false,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := lead.Validate(); err != nil {
		return nil, err
	}

	return lead, nil
}

func (l *Lead) Validate() error {
	if l.Name == "" {
		return errors.New("nome is required")
	}
	if l.Email == "" {
		return errors.New("email is required")
	}
	if l.Phone == "" {
		return errors.New("telefone is required")
	}
	if !l.Origin.IsValid() {
		return errors.New("origem is invalid")
	}
	return nil
}

// Snapshot retorna o lead como mapa (payload das integrações externas).
func (l *Lead) Snapshot() map[string]interface{} {
	snapshot := map[string]interface{}{
		"id":          l.ID,
		"nome":        l.Name,
		"email":       l.Email,
		"telefone":    l.Phone,
		"origem":      string(l.Origin),
		"interesse":   l.Interest,
		"cidade":      l.City,
		"score":       l.Score,
		"status":      string(l.Status),
		"processado":  l.Processed,
		"observacoes": l.Notes,
		"created_at":  l.CreatedAt.Format(time.RFC3339),
		"updated_at":  l.UpdatedAt.Format(time.RFC3339),
	}

	if l.MonthlyIncome != nil {
		snapshot["renda_aproximada"] = *l.MonthlyIncome
	}
	if l.FollowUpDate != nil {
		snapshot["follow_up_date"] = l.FollowUpDate.Format(time.RFC3339)
	}

	return snapshot
}

// LeadFilter filtra a listagem de leads.
type LeadFilter struct {
	Status    LeadStatus
	Origin    LeadOrigin
	City      string
	Search    string
	StartDate *time.Time
	EndDate   *time.Time
	Limit     int
	Offset    int
}

// LeadStats agrega contadores para o painel.
type LeadStats struct {
	Total        int            `json:"total"`
	ByStatus     map[string]int `json:"por_status"`
	ByOrigin     map[string]int `json:"por_origem"`
	AverageScore float64        `json:"score_medio"`
	Processed    int            `json:"processados"`
}

type LeadRepositoryInterface interface {
	Create(ctx context.Context, lead *Lead) error
	FindByID(ctx context.Context, id string) (*Lead, error)
	FindByEmail(ctx context.Context, email string) (*Lead, error)
	Update(ctx context.Context, lead *Lead) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter LeadFilter) ([]*Lead, int, error)
	Stats(ctx context.Context) (*LeadStats, error)
}
