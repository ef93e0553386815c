package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hugohenrick/tarefas-ia/internal/domain/task"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TaskRepository implementa a interface task.Repository usando PostgreSQL
type TaskRepository struct {
	db *pgxpool.Pool
}

// NewTaskRepository cria uma nova instância de TaskRepository
func NewTaskRepository(db *pgxpool.Pool) task.Repository {
	return &TaskRepository{
		db: db,
	}
}

const taskColumns = `
	t.id, t.user_id, t.project_id, t.section_id::text, t.parent_id::text, t.title, t.description,
	t.priority, t.due_date, t.completed, t.completed_at, t.order_index, t.created_at, t.updated_at,
	ARRAY(SELECT tl.label_id::text FROM task_labels tl WHERE tl.task_id = t.id ORDER BY tl.label_id)
`

// Create implementa task.Repository.Create
func (r *TaskRepository) Create(ctx context.Context, t *task.Task) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("erro ao iniciar transação: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO tasks (
			id, user_id, project_id, section_id, parent_id, title, description,
			priority, due_date, completed, completed_at, order_index, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14
		)
	`

	_, err = tx.Exec(ctx, query,
		t.ID,
		t.UserID,
		t.ProjectID,
		nullable(t.SectionID),
		nullable(t.ParentID),
		t.Title,
		t.Description,
		t.Priority,
		t.DueDate,
		t.Completed,
		t.CompletedAt,
		t.Order,
		t.CreatedAt,
		t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("falha ao inserir tarefa: %w", err)
	}

	if err := setLabels(ctx, tx, []string{t.ID}, t.LabelIDs); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("erro ao fazer commit: %w", err)
	}
	return nil
}

// FindByID implementa task.Repository.FindByID
func (r *TaskRepository) FindByID(ctx context.Context, id string) (*task.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks t WHERE t.id = $1`
	t, err := scanTask(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, task.ErrNotFound
		}
		return nil, fmt.Errorf("falha ao buscar tarefa: %w", err)
	}
	return t, nil
}

// FindByTitle implementa task.Repository.FindByTitle
func (r *TaskRepository) FindByTitle(ctx context.Context, projectIDs []string, title string) (*task.Task, error) {
	title = strings.TrimSpace(title)
	if len(projectIDs) == 0 || title == "" {
		return nil, task.ErrNotFound
	}

	query := `SELECT ` + taskColumns + `
		FROM tasks t
		WHERE t.project_id = ANY($1::uuid[]) AND strpos(LOWER(t.title), LOWER($2)) > 0
		ORDER BY (LOWER(t.title) = LOWER($2)) DESC, t.completed ASC, t.created_at ASC
		LIMIT 1
	`

	t, err := scanTask(r.db.QueryRow(ctx, query, projectIDs, title))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, task.ErrNotFound
		}
		return nil, fmt.Errorf("falha ao buscar tarefa por título: %w", err)
	}
	return t, nil
}

// Find implementa task.Repository.Find
func (r *TaskRepository) Find(ctx context.Context, c task.Criteria) ([]*task.Task, error) {
	w := &sqlBuilder{}
	where := w.criteria(c)

	query := `SELECT ` + taskColumns + ` FROM tasks t WHERE ` + where +
		` ORDER BY t.due_date ASC NULLS LAST, t.order_index ASC, t.created_at ASC`
	if c.Limit > 0 {
		query += w.placeholder(" LIMIT ?", c.Limit)
	}

	rows, err := r.db.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("falha ao listar tarefas: %w", err)
	}
	defer rows.Close()

	return scanTasks(rows)
}

// Update implementa task.Repository.Update. A tarefa é travada, alterada em
// memória com Changes.Apply e gravada por inteiro.
func (r *TaskRepository) Update(ctx context.Context, id string, ch task.Changes) (*task.Task, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("erro ao iniciar transação: %w", err)
	}
	defer tx.Rollback(ctx)

	t, err := scanTask(tx.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks t WHERE t.id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, task.ErrNotFound
		}
		return nil, fmt.Errorf("falha ao buscar tarefa: %w", err)
	}

	ch.Apply(t, time.Now())

	query := `
		UPDATE tasks SET
			project_id = $2, section_id = $3, title = $4, description = $5, priority = $6,
			due_date = $7, completed = $8, completed_at = $9, updated_at = $10
		WHERE id = $1
	`
	_, err = tx.Exec(ctx, query,
		t.ID,
		t.ProjectID,
		nullable(t.SectionID),
		t.Title,
		t.Description,
		t.Priority,
		t.DueDate,
		t.Completed,
		t.CompletedAt,
		t.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("falha ao atualizar tarefa: %w", err)
	}

	if ch.LabelIDs != nil {
		if err := setLabels(ctx, tx, []string{t.ID}, ch.LabelIDs); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("erro ao fazer commit: %w", err)
	}
	return t, nil
}

// Delete implementa task.Repository.Delete; subtarefas são removidas em cascata
func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("falha ao remover tarefa: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return task.ErrNotFound
	}
	return nil
}

// UpdateMany implementa task.Repository.UpdateMany
func (r *TaskRepository) UpdateMany(ctx context.Context, c task.Criteria, ch task.Changes) (int64, error) {
	if ch.Empty() {
		return 0, nil
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("erro ao iniciar transação: %w", err)
	}
	defer tx.Rollback(ctx)

	w := &sqlBuilder{}
	set := w.changes(ch, time.Now())
	where := w.criteria(c)

	rows, err := tx.Query(ctx, `UPDATE tasks t SET `+set+` WHERE `+where+` RETURNING t.id`, w.args...)
	if err != nil {
		return 0, fmt.Errorf("falha ao atualizar tarefas: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return 0, fmt.Errorf("falha ao ler tarefas atualizadas: %w", err)
	}

	if ch.LabelIDs != nil && len(ids) > 0 {
		if err := setLabels(ctx, tx, ids, ch.LabelIDs); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("erro ao fazer commit: %w", err)
	}
	return int64(len(ids)), nil
}

// DeleteMany implementa task.Repository.DeleteMany
func (r *TaskRepository) DeleteMany(ctx context.Context, c task.Criteria) (int64, error) {
	w := &sqlBuilder{}
	where := w.criteria(c)

	tag, err := r.db.Exec(ctx, `DELETE FROM tasks t WHERE `+where, w.args...)
	if err != nil {
		return 0, fmt.Errorf("falha ao remover tarefas: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Siblings implementa task.Repository.Siblings
func (r *TaskRepository) Siblings(ctx context.Context, t *task.Task) ([]*task.Task, error) {
	query := `SELECT ` + taskColumns + `
		FROM tasks t
		WHERE t.project_id = $1
			AND t.section_id IS NOT DISTINCT FROM $2::uuid
			AND t.parent_id IS NOT DISTINCT FROM $3::uuid
			AND t.id <> $4
		ORDER BY t.order_index ASC, t.created_at ASC
	`

	rows, err := r.db.Query(ctx, query, t.ProjectID, nullable(t.SectionID), nullable(t.ParentID), t.ID)
	if err != nil {
		return nil, fmt.Errorf("falha ao buscar tarefas vizinhas: %w", err)
	}
	defer rows.Close()

	return scanTasks(rows)
}

// UpdateOrders implementa task.Repository.UpdateOrders. Se alguma tarefa não
// existir, nenhuma posição é alterada.
func (r *TaskRepository) UpdateOrders(ctx context.Context, orders map[string]float64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("erro ao iniciar transação: %w", err)
	}
	defer tx.Rollback(ctx)

	now := time.Now()
	for id, order := range orders {
		tag, err := tx.Exec(ctx, `UPDATE tasks SET order_index = $2, updated_at = $3 WHERE id = $1`, id, order, now)
		if err != nil {
			return fmt.Errorf("falha ao reordenar tarefa: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: %s", task.ErrNotFound, id)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("erro ao fazer commit: %w", err)
	}
	return nil
}

// setLabels substitui as etiquetas das tarefas informadas
func setLabels(ctx context.Context, tx pgx.Tx, taskIDs, labelIDs []string) error {
	if _, err := tx.Exec(ctx, `DELETE FROM task_labels WHERE task_id = ANY($1::uuid[])`, taskIDs); err != nil {
		return fmt.Errorf("falha ao limpar etiquetas: %w", err)
	}
	if len(labelIDs) == 0 {
		return nil
	}

	query := `
		INSERT INTO task_labels (task_id, label_id)
		SELECT t, l FROM unnest($1::uuid[]) AS t, unnest($2::uuid[]) AS l
		ON CONFLICT DO NOTHING
	`
	if _, err := tx.Exec(ctx, query, taskIDs, labelIDs); err != nil {
		return fmt.Errorf("falha ao associar etiquetas: %w", err)
	}
	return nil
}

// sqlBuilder monta cláusulas com parâmetros posicionais ($1, $2, ...)
type sqlBuilder struct {
	args []any
}

// placeholder troca o "?" de expr pelo próximo parâmetro posicional
func (b *sqlBuilder) placeholder(expr string, v any) string {
	b.args = append(b.args, v)
	return strings.Replace(expr, "?", fmt.Sprintf("$%d", len(b.args)), 1)
}

// criteria converte task.Criteria em uma condição WHERE sobre o alias t
func (b *sqlBuilder) criteria(c task.Criteria) string {
	if len(c.ProjectIDs) == 0 {
		return "FALSE"
	}

	conds := []string{b.placeholder("t.project_id = ANY(?::uuid[])", c.ProjectIDs)}
	if c.SectionID != "" {
		conds = append(conds, b.placeholder("t.section_id = ?", c.SectionID))
	}
	if c.LabelID != "" {
		conds = append(conds, b.placeholder("EXISTS (SELECT 1 FROM task_labels tl WHERE tl.task_id = t.id AND tl.label_id = ?)", c.LabelID))
	}
	if c.Priority != nil {
		conds = append(conds, b.placeholder("t.priority = ?", *c.Priority))
	}
	if c.Completed != nil {
		conds = append(conds, b.placeholder("t.completed = ?", *c.Completed))
	}
	if c.TitleContains != "" {
		conds = append(conds, b.placeholder("strpos(LOWER(t.title), LOWER(?)) > 0", c.TitleContains))
	}
	if c.DueFrom != nil {
		conds = append(conds, b.placeholder("t.due_date >= ?", *c.DueFrom))
	}
	if c.DueBefore != nil {
		conds = append(conds, b.placeholder("t.due_date < ?", *c.DueBefore))
	}
	if c.CreatedFrom != nil {
		conds = append(conds, b.placeholder("t.created_at >= ?", *c.CreatedFrom))
	}
	if c.CreatedBefore != nil {
		conds = append(conds, b.placeholder("t.created_at < ?", *c.CreatedBefore))
	}
	return strings.Join(conds, " AND ")
}

// changes converte task.Changes na lista SET de um UPDATE. As expressões do
// lado direito enxergam os valores anteriores da linha.
func (b *sqlBuilder) changes(ch task.Changes, now time.Time) string {
	sets := []string{b.placeholder("updated_at = ?", now)}
	if ch.Title != nil {
		sets = append(sets, b.placeholder("title = ?", *ch.Title))
	}
	if ch.Description != nil {
		sets = append(sets, b.placeholder("description = ?", *ch.Description))
	}
	if ch.Priority != nil {
		sets = append(sets, b.placeholder("priority = ?", task.ClampPriority(*ch.Priority)))
	}
	switch {
	case ch.DueDate != nil:
		sets = append(sets, b.placeholder("due_date = ?", *ch.DueDate))
	case ch.ClearDueDate:
		sets = append(sets, "due_date = NULL")
	}
	if ch.Completed != nil {
		done := b.placeholder("?::boolean", *ch.Completed)
		at := b.placeholder("?::timestamptz", now)
		sets = append(sets,
			fmt.Sprintf("completed_at = CASE WHEN t.completed = %s THEN t.completed_at WHEN %s THEN %s ELSE NULL END", done, done, at),
			"completed = "+done,
		)
	}
	if ch.ProjectID != nil {
		sets = append(sets, b.placeholder("project_id = ?", *ch.ProjectID))
	}
	if ch.SectionID != nil {
		sets = append(sets, b.placeholder("section_id = ?::uuid", nullable(*ch.SectionID)))
	}
	return strings.Join(sets, ", ")
}

func scanTask(row pgx.Row) (*task.Task, error) {
	t := &task.Task{}
	var sectionID, parentID pgtype.Text
	var dueDate, completedAt pgtype.Timestamptz

	err := row.Scan(
		&t.ID,
		&t.UserID,
		&t.ProjectID,
		&sectionID,
		&parentID,
		&t.Title,
		&t.Description,
		&t.Priority,
		&dueDate,
		&t.Completed,
		&completedAt,
		&t.Order,
		&t.CreatedAt,
		&t.UpdatedAt,
		&t.LabelIDs,
	)
	if err != nil {
		return nil, err
	}

	t.SectionID = sectionID.String
	t.ParentID = parentID.String
	if dueDate.Valid {
		d := dueDate.Time
		t.DueDate = &d
	}
	if completedAt.Valid {
		c := completedAt.Time
		t.CompletedAt = &c
	}
	if len(t.LabelIDs) == 0 {
		t.LabelIDs = nil
	}
	return t, nil
}

func scanTasks(rows pgx.Rows) ([]*task.Task, error) {
	var tasks []*task.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("falha ao ler tarefa: %w", err)
		}
		tasks = append(tasks, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro ao iterar tarefas: %w", err)
	}
	return tasks, nil
}

// nullable converte string vazia em NULL
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
