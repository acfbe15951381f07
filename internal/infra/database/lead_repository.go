package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/streamleads/streamleads/internal/entity"
)

const leadColumns = `id, nome, email, telefone, origem, interesse, renda_aproximada,
		cidade, score, status, processado, observacoes, created_at, updated_at, follow_up_date`

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

func (r *LeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	query := `
		INSERT INTO leads (id, nome, email, telefone, origem, interesse, renda_aproximada,
			cidade, score, status, processado, observacoes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := r.DB.ExecContext(ctx, query,
		lead.ID,
		lead.Name,
		lead.Email,
		lead.Phone,
		string(lead.Origin),
		nullString(lead.Interest),
		lead.MonthlyIncome,
		nullString(lead.City),
		lead.Score,
		string(lead.Status),
		lead.Processed,
		nullString(lead.Notes),
		lead.CreatedAt,
		lead.UpdatedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return entity.ErrEmailAlreadyExists
		}

		log.Printf("Erro crítico no banco: %v", err)
		return err
	}

	return nil
}

func (r *LeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	query := fmt.Sprintf(`SELECT %s FROM leads WHERE id = $1`, leadColumns)
	return r.scanOne(r.DB.QueryRowContext(ctx, query, id))
}

func (r *LeadRepository) FindByEmail(ctx context.Context, email string) (*entity.Lead, error) {
	query := fmt.Sprintf(`SELECT %s FROM leads WHERE email = $1`, leadColumns)
	return r.scanOne(r.DB.QueryRowContext(ctx, query, email))
}

func (r *LeadRepository) Update(ctx context.Context, lead *entity.Lead) error {
	query := `
		UPDATE leads SET
			nome = $2, email = $3, telefone = $4, origem = $5, interesse = $6,
			renda_aproximada = $7, cidade = $8, score = $9, status = $10,
			processado = $11, observacoes = $12, updated_at = $13, follow_up_date = $14
		WHERE id = $1
	`

	result, err := r.DB.ExecContext(ctx, query,
		lead.ID,
		lead.Name,
		lead.Email,
		lead.Phone,
		string(lead.Origin),
		nullString(lead.Interest),
		lead.MonthlyIncome,
		nullString(lead.City),
		lead.Score,
		string(lead.Status),
		lead.Processed,
		nullString(lead.Notes),
		lead.UpdatedAt,
		lead.FollowUpDate,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return entity.ErrEmailAlreadyExists
		}
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return entity.ErrLeadNotFound
	}

	return nil
}

func (r *LeadRepository) Delete(ctx context.Context, id string) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM leads WHERE id = $1`, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return entity.ErrLeadNotFound
	}

	return nil
}

// List aplica os filtros do painel com paginação. Retorna a página e o
// total de registros que casam com o filtro.
func (r *LeadRepository) List(ctx context.Context, filter entity.LeadFilter) ([]*entity.Lead, int, error) {
	where, args := buildFilter(filter)

	var total int
	countQuery := "SELECT COUNT(*) FROM leads" + where
	if err := r.DB.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("erro ao contar leads: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}

	query := fmt.Sprintf(`SELECT %s FROM leads%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		leadColumns, where, len(args)+1, len(args)+2)
	args = append(args, limit, filter.Offset)

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("erro ao listar leads: %w", err)
	}
	defer rows.Close()

	leads := []*entity.Lead{}
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, 0, err
		}
		leads = append(leads, lead)
	}

	return leads, total, rows.Err()
}

func (r *LeadRepository) Stats(ctx context.Context) (*entity.LeadStats, error) {
	stats := &entity.LeadStats{
		ByStatus: make(map[string]int),
		ByOrigin: make(map[string]int),
	}

	query := `
		SELECT COUNT(*),
			COALESCE(AVG(score), 0),
			COUNT(*) FILTER (WHERE processado)
		FROM leads
	`
	if err := r.DB.QueryRowContext(ctx, query).Scan(&stats.Total, &stats.AverageScore, &stats.Processed); err != nil {
		return nil, err
	}

	rows, err := r.DB.QueryContext(ctx, `SELECT status, COUNT(*) FROM leads GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats.ByStatus[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	originRows, err := r.DB.QueryContext(ctx, `SELECT origem, COUNT(*) FROM leads GROUP BY origem`)
	if err != nil {
		return nil, err
	}
	defer originRows.Close()
	for originRows.Next() {
		var origin string
		var count int
		if err := originRows.Scan(&origin, &count); err != nil {
			return nil, err
		}
		stats.ByOrigin[origin] = count
	}

	return stats, originRows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *LeadRepository) scanOne(row rowScanner) (*entity.Lead, error) {
	lead, err := scanLead(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrLeadNotFound
		}
		return nil, err
	}
	return lead, nil
}

func scanLead(row rowScanner) (*entity.Lead, error) {
	var lead entity.Lead
	var origin, status string
	var interest, city, notes sql.NullString
	var income sql.NullFloat64
	var followUp sql.NullTime

	err := row.Scan(
		&lead.ID,
		&lead.Name,
		&lead.Email,
		&lead.Phone,
		&origin,
		&interest,
		&income,
		&city,
		&lead.Score,
		&status,
		&lead.Processed,
		&notes,
		&lead.CreatedAt,
		&lead.UpdatedAt,
		&followUp,
	)
	if err != nil {
		return nil, err
	}

	lead.Origin = entity.LeadOrigin(origin)
	lead.Status = entity.LeadStatus(status)
	lead.Interest = interest.String
	lead.City = city.String
	lead.Notes = notes.String
	if income.Valid {
		lead.MonthlyIncome = &income.Float64
	}
	if followUp.Valid {
		lead.FollowUpDate = &followUp.Time
	}

	return &lead, nil
}

func buildFilter(filter entity.LeadFilter) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	arg := func(value interface{}) string {
		args = append(args, value)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Status != "" {
		conditions = append(conditions, "status = "+arg(string(filter.Status)))
	}
	if filter.Origin != "" {
		conditions = append(conditions, "origem = "+arg(string(filter.Origin)))
	}
	if filter.City != "" {
		conditions = append(conditions, "LOWER(cidade) LIKE "+arg("%"+strings.ToLower(filter.City)+"%"))
	}
	if filter.Search != "" {
		like := "%" + strings.ToLower(filter.Search) + "%"
		placeholder := arg(like)
		conditions = append(conditions, fmt.Sprintf(
			"(LOWER(nome) LIKE %s OR LOWER(email) LIKE %s OR telefone LIKE %s)",
			placeholder, placeholder, placeholder))
	}
	if filter.StartDate != nil {
		conditions = append(conditions, "created_at >= "+arg(*filter.StartDate))
	}
	if filter.EndDate != nil {
		conditions = append(conditions, "created_at <= "+arg(*filter.EndDate))
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
