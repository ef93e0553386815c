package executor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hugohenrick/tarefas-ia/internal/domain/label"
	"github.com/hugohenrick/tarefas-ia/internal/domain/project"
	"github.com/hugohenrick/tarefas-ia/internal/domain/task"
	"github.com/hugohenrick/tarefas-ia/pkg/assistant/action"
)

// scope é a visão de acesso do usuário, carregada uma vez por ação
type scope struct {
	actor    string
	projects []*project.Project
}

func (e *Executor) newScope(ctx context.Context, actorID string) (*scope, error) {
	if _, err := e.store.Projects.GetOrCreateInbox(ctx, actorID); err != nil {
		return nil, fmt.Errorf("falha ao obter Inbox: %w", err)
	}
	projects, err := e.store.Projects.ListAccessible(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("falha ao listar projetos: %w", err)
	}
	return &scope{actor: actorID, projects: projects}, nil
}

// ids lista os projetos em que o usuário tem pelo menos a permissão pedida
func (s *scope) ids(need project.Permission) []string {
	ids := make([]string, 0, len(s.projects))
	for _, p := range s.projects {
		if p.Permission >= need {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

func (s *scope) permission(projectID string) project.Permission {
	for _, p := range s.projects {
		if p.ID == projectID {
			return p.Permission
		}
	}
	return project.PermissionNone
}

func (s *scope) authorize(projectID string, need project.Permission) error {
	if s.permission(projectID) < need {
		return ErrForbidden
	}
	return nil
}

func (s *scope) inbox() *project.Project {
	for _, p := range s.projects {
		if p.IsInbox && p.OwnerID == s.actor {
			return p
		}
	}
	return nil
}

// findProject busca um projeto acessível pelo nome; nil quando não existe
func (e *Executor) findProject(ctx context.Context, sc *scope, name string) (*project.Project, error) {
	p, err := e.store.Projects.FindAccessibleByName(ctx, sc.actor, name)
	if errors.Is(err, project.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("falha ao buscar projeto: %w", err)
	}
	return p, nil
}

// projectForCreate aplica a regra de criação: o projeto nomeado ou, sem nome
// ou sem correspondência, o Inbox do usuário
func (e *Executor) projectForCreate(ctx context.Context, sc *scope, name string) (*project.Project, error) {
	var p *project.Project
	if strings.TrimSpace(name) != "" {
		found, err := e.findProject(ctx, sc, name)
		if err != nil {
			return nil, err
		}
		if found == nil {
			e.logger.Debug("projeto não encontrado, usando Inbox", "project", name, "actor", sc.actor)
		}
		p = found
	}
	if p == nil {
		p = sc.inbox()
		if p == nil {
			return nil, errors.New("inbox do usuário não encontrado")
		}
	}
	if p.Permission < project.PermissionWrite {
		return nil, ErrForbidden
	}
	return p, nil
}

// sectionID resolve a seção dentro do projeto; nomes desconhecidos são ignorados
func (e *Executor) sectionID(ctx context.Context, projectID, name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", nil
	}
	sec, err := e.store.Projects.FindSectionByName(ctx, projectID, name)
	if errors.Is(err, project.ErrSectionNotFound) {
		e.logger.Debug("seção não encontrada, ignorando", "section", name, "project_id", projectID)
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("falha ao buscar seção: %w", err)
	}
	return sec.ID, nil
}

// labelIDs resolve as etiquetas pelo nome, criando as que não existem
func (e *Executor) labelIDs(ctx context.Context, sc *scope, names []string, color string) ([]string, error) {
	ids := make([]string, 0, len(names))
	seen := make(map[string]bool)
	for _, name := range names {
		name = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(name), "@"))
		if name == "" || seen[strings.ToLower(name)] {
			continue
		}
		seen[strings.ToLower(name)] = true

		l, err := e.upsertLabel(ctx, sc, name, color)
		if err != nil {
			return nil, err
		}
		ids = append(ids, l.ID)
	}
	return ids, nil
}

func (e *Executor) upsertLabel(ctx context.Context, sc *scope, name, color string) (*label.Label, error) {
	l, err := e.store.Labels.FindByName(ctx, sc.actor, name)
	if err == nil {
		return l, nil
	}
	if !errors.Is(err, label.ErrNotFound) {
		return nil, fmt.Errorf("falha ao buscar etiqueta: %w", err)
	}

	if color == "" {
		color = e.color()
	}
	l, err = label.NewLabel(sc.actor, name, color)
	if err != nil {
		return nil, err
	}
	if err := e.store.Labels.Create(ctx, l); err != nil {
		return nil, fmt.Errorf("falha ao criar etiqueta: %w", err)
	}
	e.logger.Info("etiqueta criada por referência", "label", name, "actor", sc.actor)
	return l, nil
}

// date resolve uma expressão de data; expressões não reconhecidas viram "sem data"
func (e *Executor) date(expr string) *time.Time {
	if strings.TrimSpace(expr) == "" {
		return nil
	}
	d, ok := e.dates.Resolve(expr)
	if !ok {
		e.logger.Debug("data não reconhecida, ignorando", "expr", expr)
		return nil
	}
	return &d
}

// findTask localiza a tarefa por título parcial entre as tarefas acessíveis e
// verifica a permissão pedida. Devolve nil quando não há correspondência.
func (e *Executor) findTask(ctx context.Context, sc *scope, title string, need project.Permission) (*task.Task, error) {
	if strings.TrimSpace(title) == "" {
		return nil, nil
	}
	t, err := e.store.Tasks.FindByTitle(ctx, sc.ids(project.PermissionRead), title)
	if errors.Is(err, task.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("falha ao buscar tarefa: %w", err)
	}
	if err := sc.authorize(t.ProjectID, need); err != nil {
		return nil, err
	}
	return t, nil
}

// changes converte as alterações pedidas. baseProjectID é o projeto usado para
// resolver a seção quando nenhum projeto novo é informado; vazio desativa a
// resolução de seção.
func (e *Executor) changes(ctx context.Context, sc *scope, c action.TaskChanges, baseProjectID string) (task.Changes, error) {
	ch := task.Changes{
		Title:       trimmed(c.Title),
		Description: c.Description,
		Completed:   c.Completed,
	}
	if c.Priority != nil {
		p := task.ClampPriority(*c.Priority)
		ch.Priority = &p
	}
	if c.DueDate != nil {
		if strings.TrimSpace(*c.DueDate) == "" {
			ch.ClearDueDate = true
		} else {
			ch.DueDate = e.date(*c.DueDate)
		}
	}

	projectID := baseProjectID
	if c.ProjectName != "" {
		p, err := e.findProject(ctx, sc, c.ProjectName)
		if err != nil {
			return ch, err
		}
		if p != nil {
			if p.Permission < project.PermissionWrite {
				return ch, ErrForbidden
			}
			ch.ProjectID = &p.ID
			projectID = p.ID
			empty := ""
			ch.SectionID = &empty
		}
	}
	if c.SectionName != "" && projectID != "" {
		id, err := e.sectionID(ctx, projectID, c.SectionName)
		if err != nil {
			return ch, err
		}
		if id != "" {
			ch.SectionID = &id
		}
	}

	if len(c.Labels) > 0 {
		ids, err := e.labelIDs(ctx, sc, c.Labels, "")
		if err != nil {
			return ch, err
		}
		ch.LabelIDs = ids
	}
	return ch, nil
}

// criteria monta o predicado de armazenamento a partir do filtro por nomes.
// O segundo retorno é false quando algum nome não existe: nada casa.
func (e *Executor) criteria(ctx context.Context, sc *scope, f action.Filter, need project.Permission) (task.Criteria, bool, error) {
	c := task.Criteria{TitleContains: strings.TrimSpace(f.TitleContains)}

	if f.ProjectName != "" {
		p, err := e.findProject(ctx, sc, f.ProjectName)
		if err != nil {
			return c, false, err
		}
		if p == nil {
			return c, false, nil
		}
		if p.Permission < need {
			return c, false, ErrForbidden
		}
		c.ProjectIDs = []string{p.ID}
	} else {
		c.ProjectIDs = sc.ids(need)
	}

	if f.SectionName != "" {
		found := false
		for _, pid := range c.ProjectIDs {
			id, err := e.sectionID(ctx, pid, f.SectionName)
			if err != nil {
				return c, false, err
			}
			if id != "" {
				c.ProjectIDs = []string{pid}
				c.SectionID = id
				found = true
				break
			}
		}
		if !found {
			return c, false, nil
		}
	}

	if f.LabelName != "" {
		l, err := e.store.Labels.FindByName(ctx, sc.actor, f.LabelName)
		if errors.Is(err, label.ErrNotFound) {
			return c, false, nil
		}
		if err != nil {
			return c, false, fmt.Errorf("falha ao buscar etiqueta: %w", err)
		}
		c.LabelID = l.ID
	}

	if f.Priority != nil {
		p := task.ClampPriority(*f.Priority)
		c.Priority = &p
	}
	c.Completed = f.Completed

	if f.DateRange != nil {
		from, before := e.dateRange(*f.DateRange)
		if f.DateRange.Field == "created" {
			c.CreatedFrom, c.CreatedBefore = from, before
		} else {
			c.DueFrom, c.DueBefore = from, before
		}
	}

	return c, true, nil
}

// dateRange converte o descritor em um intervalo [from, before).
// exact: o dia today+days; older: antes de today-days; lastWeek: os últimos 7 dias, hoje incluído.
func (e *Executor) dateRange(r action.DateRange) (*time.Time, *time.Time) {
	today := e.dates.Today()
	switch r.Type {
	case action.RangeExact:
		from := today.AddDate(0, 0, r.Days)
		before := from.AddDate(0, 0, 1)
		return &from, &before
	case action.RangeOlder:
		before := today.AddDate(0, 0, -r.Days)
		return nil, &before
	case action.RangeLastWeek:
		from := today.AddDate(0, 0, -7)
		before := today.AddDate(0, 0, 1)
		return &from, &before
	}
	return nil, nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
