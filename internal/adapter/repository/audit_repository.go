package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hugohenrick/tarefas-ia/internal/domain/audit"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AuditRepository grava o histórico de comandos em command_log
type AuditRepository struct {
	db *pgxpool.Pool
}

func NewAuditRepository(db *pgxpool.Pool) audit.Repository {
	return &AuditRepository{
		db: db,
	}
}

func (r *AuditRepository) Save(ctx context.Context, e *audit.Entry) error {
	query := `
		INSERT INTO command_log (
			id, user_id, command, provider_text, method, parsing_confidence,
			decision, reason, operation_id, results, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	// Se o ID da entrada estiver vazio, gerar um novo
	if e.ID == "" {
		e.ID = uuid.New().String()
	}

	var results any
	if len(e.Results) > 0 {
		results = string(e.Results)
	}

	_, err := r.db.Exec(ctx, query,
		e.ID,
		e.UserID,
		e.Command,
		e.ProviderText,
		e.Method,
		e.ParsingConfidence,
		e.Decision,
		e.Reason,
		e.OperationID,
		results,
		e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("erro ao salvar comando: %w", err)
	}

	return nil
}

func (r *AuditRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*audit.Entry, error) {
	query := `
		SELECT id, command, provider_text, method, parsing_confidence, decision, reason,
			operation_id, COALESCE(results::text, ''), created_at
		FROM command_log
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar histórico: %w", err)
	}
	defer rows.Close()

	var entries []*audit.Entry
	for rows.Next() {
		e := &audit.Entry{UserID: userID}
		var results string
		err := rows.Scan(
			&e.ID,
			&e.Command,
			&e.ProviderText,
			&e.Method,
			&e.ParsingConfidence,
			&e.Decision,
			&e.Reason,
			&e.OperationID,
			&results,
			&e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("erro ao ler comando: %w", err)
		}
		if results != "" {
			e.Results = []byte(results)
		}
		entries = append(entries, e)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro ao ler linhas: %w", err)
	}

	return entries, nil
}

func (r *AuditRepository) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	result, err := r.db.Exec(ctx, `DELETE FROM command_log WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("erro ao deletar histórico: %w", err)
	}
	return result.RowsAffected(), nil
}
