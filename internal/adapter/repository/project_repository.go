package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hugohenrick/tarefas-ia/internal/domain/project"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ProjectRepository implementa a interface project.Repository usando PostgreSQL
type ProjectRepository struct {
	db *pgxpool.Pool
}

// NewProjectRepository cria uma nova instância de ProjectRepository
func NewProjectRepository(db *pgxpool.Pool) project.Repository {
	return &ProjectRepository{
		db: db,
	}
}

// accessibleQuery seleciona os projetos próprios e compartilhados com $1,
// já com o nível de acesso calculado (o dono tem manage)
const accessibleQuery = `
	SELECT
		p.id, p.owner_id, p.name, p.color, p.is_inbox, p.created_at, p.updated_at,
		CASE WHEN p.owner_id = $1 THEN 3 ELSE COALESCE(m.permission, 0) END AS permission
	FROM
		projects p
		LEFT JOIN project_members m ON m.project_id = p.id AND m.user_id = $1
	WHERE
		(p.owner_id = $1 OR m.user_id IS NOT NULL)
`

// Create implementa project.Repository.Create
func (r *ProjectRepository) Create(ctx context.Context, p *project.Project) error {
	query := `
		INSERT INTO projects (
			id, owner_id, name, color, is_inbox, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		)
	`

	_, err := r.db.Exec(ctx, query,
		p.ID,
		p.OwnerID,
		p.Name,
		p.Color,
		p.IsInbox,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return project.ErrAlreadyExists
		}
		return fmt.Errorf("falha ao inserir projeto: %w", err)
	}

	return nil
}

// FindByID implementa project.Repository.FindByID. Permission não é preenchido.
func (r *ProjectRepository) FindByID(ctx context.Context, id string) (*project.Project, error) {
	query := `
		SELECT id, owner_id, name, color, is_inbox, created_at, updated_at
		FROM projects
		WHERE id = $1
	`

	p := &project.Project{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&p.ID,
		&p.OwnerID,
		&p.Name,
		&p.Color,
		&p.IsInbox,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, project.ErrNotFound
		}
		return nil, fmt.Errorf("falha ao buscar projeto: %w", err)
	}

	return p, nil
}

// FindAccessibleByName implementa project.Repository.FindAccessibleByName.
// Projetos do próprio usuário têm preferência sobre os compartilhados.
func (r *ProjectRepository) FindAccessibleByName(ctx context.Context, userID, name string) (*project.Project, error) {
	query := accessibleQuery + `
		AND LOWER(p.name) = LOWER(TRIM($2))
		ORDER BY (p.owner_id = $1) DESC, p.created_at ASC
		LIMIT 1
	`

	p, err := scanProject(r.db.QueryRow(ctx, query, userID, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, project.ErrNotFound
		}
		return nil, fmt.Errorf("falha ao buscar projeto por nome: %w", err)
	}

	return p, nil
}

// GetOrCreateInbox implementa project.Repository.GetOrCreateInbox
func (r *ProjectRepository) GetOrCreateInbox(ctx context.Context, userID string) (*project.Project, error) {
	query := accessibleQuery + ` AND p.owner_id = $1 AND p.is_inbox`

	p, err := scanProject(r.db.QueryRow(ctx, query, userID))
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("falha ao buscar Inbox: %w", err)
	}

	// Requisições concorrentes podem criar o Inbox ao mesmo tempo; o índice
	// parcial garante um único por usuário
	inbox := project.NewInbox(userID)
	_, err = r.db.Exec(ctx, `
		INSERT INTO projects (id, owner_id, name, color, is_inbox, created_at, updated_at)
		VALUES ($1, $2, $3, $4, true, $5, $6)
		ON CONFLICT (owner_id) WHERE is_inbox DO NOTHING
	`, inbox.ID, inbox.OwnerID, inbox.Name, inbox.Color, inbox.CreatedAt, inbox.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("falha ao criar Inbox: %w", err)
	}

	p, err = scanProject(r.db.QueryRow(ctx, query, userID))
	if err != nil {
		return nil, fmt.Errorf("falha ao buscar Inbox: %w", err)
	}
	return p, nil
}

// ListAccessible implementa project.Repository.ListAccessible
func (r *ProjectRepository) ListAccessible(ctx context.Context, userID string) ([]*project.Project, error) {
	query := accessibleQuery + `
		ORDER BY (p.is_inbox AND p.owner_id = $1) DESC, p.created_at ASC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("falha ao listar projetos: %w", err)
	}
	defer rows.Close()

	var projects []*project.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("falha ao ler projeto: %w", err)
		}
		projects = append(projects, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro ao iterar projetos: %w", err)
	}

	return projects, nil
}

// Permission implementa project.Repository.Permission
func (r *ProjectRepository) Permission(ctx context.Context, projectID, userID string) (project.Permission, error) {
	query := `
		SELECT CASE WHEN p.owner_id = $2 THEN 3 ELSE COALESCE(m.permission, 0) END
		FROM projects p
		LEFT JOIN project_members m ON m.project_id = p.id AND m.user_id = $2
		WHERE p.id = $1
	`

	var perm int
	if err := r.db.QueryRow(ctx, query, projectID, userID).Scan(&perm); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return project.PermissionNone, project.ErrNotFound
		}
		return project.PermissionNone, fmt.Errorf("falha ao verificar permissão: %w", err)
	}
	return project.Permission(perm), nil
}

// Delete implementa project.Repository.Delete; seções e tarefas são removidas em cascata
func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM projects WHERE id = $1 AND NOT is_inbox`, id)
	if err != nil {
		return fmt.Errorf("falha ao remover projeto: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return project.ErrNotFound
	}
	return nil
}

// Share implementa project.Repository.Share
func (r *ProjectRepository) Share(ctx context.Context, m *project.Member) error {
	if m.Permission < project.PermissionRead || m.Permission > project.PermissionManage {
		return fmt.Errorf("permissão inválida: %s", m.Permission)
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO project_members (project_id, user_id, permission, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (project_id, user_id) DO UPDATE SET permission = EXCLUDED.permission
	`
	if _, err := r.db.Exec(ctx, query, m.ProjectID, m.UserID, int(m.Permission), m.CreatedAt); err != nil {
		return fmt.Errorf("falha ao compartilhar projeto: %w", err)
	}
	return nil
}

// FindSectionByName implementa project.Repository.FindSectionByName
func (r *ProjectRepository) FindSectionByName(ctx context.Context, projectID, name string) (*project.Section, error) {
	query := `
		SELECT id, project_id, name, order_index, created_at
		FROM sections
		WHERE project_id = $1 AND LOWER(name) = LOWER(TRIM($2))
		ORDER BY order_index ASC
		LIMIT 1
	`

	s, err := scanSection(r.db.QueryRow(ctx, query, projectID, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, project.ErrSectionNotFound
		}
		return nil, fmt.Errorf("falha ao buscar seção: %w", err)
	}
	return s, nil
}

// ListSections implementa project.Repository.ListSections
func (r *ProjectRepository) ListSections(ctx context.Context, projectID string) ([]*project.Section, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, project_id, name, order_index, created_at
		FROM sections
		WHERE project_id = $1
		ORDER BY order_index ASC
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("falha ao listar seções: %w", err)
	}
	defer rows.Close()

	var sections []*project.Section
	for rows.Next() {
		s, err := scanSection(rows)
		if err != nil {
			return nil, fmt.Errorf("falha ao ler seção: %w", err)
		}
		sections = append(sections, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro ao iterar seções: %w", err)
	}

	return sections, nil
}

// CreateSection implementa project.Repository.CreateSection. A seção entra no fim do projeto.
func (r *ProjectRepository) CreateSection(ctx context.Context, s *project.Section) error {
	query := `
		INSERT INTO sections (id, project_id, name, order_index, created_at)
		SELECT $1, $2, $3, COALESCE(MAX(order_index), 0) + 1, $4
		FROM sections
		WHERE project_id = $2
		RETURNING order_index
	`

	if err := r.db.QueryRow(ctx, query, s.ID, s.ProjectID, s.Name, s.CreatedAt).Scan(&s.Order); err != nil {
		return fmt.Errorf("falha ao inserir seção: %w", err)
	}
	return nil
}

// DeleteSection implementa project.Repository.DeleteSection
func (r *ProjectRepository) DeleteSection(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM sections WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("falha ao remover seção: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return project.ErrSectionNotFound
	}
	return nil
}

func scanProject(row pgx.Row) (*project.Project, error) {
	p := &project.Project{}
	var perm int

	err := row.Scan(
		&p.ID,
		&p.OwnerID,
		&p.Name,
		&p.Color,
		&p.IsInbox,
		&p.CreatedAt,
		&p.UpdatedAt,
		&perm,
	)
	if err != nil {
		return nil, err
	}

	p.Permission = project.Permission(perm)
	return p, nil
}

func scanSection(row pgx.Row) (*project.Section, error) {
	s := &project.Section{}
	if err := row.Scan(&s.ID, &s.ProjectID, &s.Name, &s.Order, &s.CreatedAt); err != nil {
		return nil, err
	}
	return s, nil
}
