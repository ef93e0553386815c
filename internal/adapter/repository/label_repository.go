package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/hugohenrick/tarefas-ia/internal/domain/comment"
	"github.com/hugohenrick/tarefas-ia/internal/domain/label"
	"github.com/hugohenrick/tarefas-ia/internal/domain/reminder"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// LabelRepository implementa a interface label.Repository usando PostgreSQL
type LabelRepository struct {
	db *pgxpool.Pool
}

// NewLabelRepository cria uma nova instância de LabelRepository
func NewLabelRepository(db *pgxpool.Pool) label.Repository {
	return &LabelRepository{
		db: db,
	}
}

// FindByName implementa label.Repository.FindByName
func (r *LabelRepository) FindByName(ctx context.Context, userID, name string) (*label.Label, error) {
	query := `
		SELECT id, user_id, name, color, created_at
		FROM labels
		WHERE user_id = $1 AND LOWER(name) = LOWER(TRIM($2))
	`

	l := &label.Label{}
	err := r.db.QueryRow(ctx, query, userID, name).Scan(&l.ID, &l.UserID, &l.Name, &l.Color, &l.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, label.ErrNotFound
		}
		return nil, fmt.Errorf("falha ao buscar etiqueta: %w", err)
	}
	return l, nil
}

// Create implementa label.Repository.Create. Um nome repetido (sem diferenciar
// maiúsculas) devolve a etiqueta existente em l.
func (r *LabelRepository) Create(ctx context.Context, l *label.Label) error {
	query := `
		INSERT INTO labels (id, user_id, name, color, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.Exec(ctx, query, l.ID, l.UserID, l.Name, l.Color, l.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			existing, ferr := r.FindByName(ctx, l.UserID, l.Name)
			if ferr != nil {
				return ferr
			}
			*l = *existing
			return nil
		}
		return fmt.Errorf("falha ao inserir etiqueta: %w", err)
	}
	return nil
}

// Delete implementa label.Repository.Delete; as associações saem em cascata
func (r *LabelRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM labels WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("falha ao remover etiqueta: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return label.ErrNotFound
	}
	return nil
}

// List implementa label.Repository.List
func (r *LabelRepository) List(ctx context.Context, userID string) ([]*label.Label, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, name, color, created_at
		FROM labels
		WHERE user_id = $1
		ORDER BY name ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("falha ao listar etiquetas: %w", err)
	}
	defer rows.Close()

	var labels []*label.Label
	for rows.Next() {
		l := &label.Label{}
		if err := rows.Scan(&l.ID, &l.UserID, &l.Name, &l.Color, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("falha ao ler etiqueta: %w", err)
		}
		labels = append(labels, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro ao iterar etiquetas: %w", err)
	}
	return labels, nil
}

// CommentRepository implementa a interface comment.Repository usando PostgreSQL
type CommentRepository struct {
	db *pgxpool.Pool
}

func NewCommentRepository(db *pgxpool.Pool) comment.Repository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Create(ctx context.Context, c *comment.Comment) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO comments (id, task_id, user_id, content, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, c.ID, c.TaskID, c.UserID, c.Content, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("falha ao inserir comentário: %w", err)
	}
	return nil
}

func (r *CommentRepository) ListByTask(ctx context.Context, taskID string) ([]*comment.Comment, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, task_id, user_id, content, created_at
		FROM comments
		WHERE task_id = $1
		ORDER BY created_at ASC
	`, taskID)
	if err != nil {
		return nil, fmt.Errorf("falha ao listar comentários: %w", err)
	}

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*comment.Comment, error) {
		c := &comment.Comment{}
		err := row.Scan(&c.ID, &c.TaskID, &c.UserID, &c.Content, &c.CreatedAt)
		return c, err
	})
}

// ReminderRepository implementa a interface reminder.Repository usando PostgreSQL
type ReminderRepository struct {
	db *pgxpool.Pool
}

func NewReminderRepository(db *pgxpool.Pool) reminder.Repository {
	return &ReminderRepository{db: db}
}

func (r *ReminderRepository) Create(ctx context.Context, rem *reminder.Reminder) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO reminders (id, task_id, user_id, remind_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, rem.ID, rem.TaskID, rem.UserID, rem.RemindAt, rem.CreatedAt)
	if err != nil {
		return fmt.Errorf("falha ao inserir lembrete: %w", err)
	}
	return nil
}

func (r *ReminderRepository) ListByTask(ctx context.Context, taskID string) ([]*reminder.Reminder, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, task_id, user_id, remind_at, created_at
		FROM reminders
		WHERE task_id = $1
		ORDER BY remind_at ASC
	`, taskID)
	if err != nil {
		return nil, fmt.Errorf("falha ao listar lembretes: %w", err)
	}

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*reminder.Reminder, error) {
		rem := &reminder.Reminder{}
		err := row.Scan(&rem.ID, &rem.TaskID, &rem.UserID, &rem.RemindAt, &rem.CreatedAt)
		return rem, err
	})
}
