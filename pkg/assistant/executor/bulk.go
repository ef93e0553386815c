package executor

import (
	"context"
	"fmt"
	"strings"

	"github.com/hugohenrick/tarefas-ia/internal/domain/project"
	"github.com/hugohenrick/tarefas-ia/internal/domain/task"
	"github.com/hugohenrick/tarefas-ia/pkg/assistant/action"
)

const defaultQueryLimit = 100

func (e *Executor) bulkUpdate(ctx context.Context, sc *scope, p *action.BulkUpdate) (*CountResult, error) {
	c, ok, err := e.criteria(ctx, sc, p.Filter, project.PermissionWrite)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &CountResult{}, nil
	}

	base := ""
	if len(c.ProjectIDs) == 1 {
		base = c.ProjectIDs[0]
	}
	ch, err := e.changes(ctx, sc, p.Updates, base)
	if err != nil {
		return nil, err
	}
	if ch.Empty() {
		return nil, ErrIncompletePayload
	}

	n, err := e.store.Tasks.UpdateMany(ctx, c, ch)
	if err != nil {
		return nil, fmt.Errorf("falha ao atualizar tarefas: %w", err)
	}
	return &CountResult{Count: n}, nil
}

// bulkDelete exige manage: sem filtro de projeto, só alcança os projetos que o
// usuário administra
func (e *Executor) bulkDelete(ctx context.Context, sc *scope, p *action.BulkDelete) (*CountResult, error) {
	if p.Filter.Empty() {
		return nil, ErrIncompletePayload
	}
	c, ok, err := e.criteria(ctx, sc, p.Filter, project.PermissionManage)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &CountResult{}, nil
	}

	n, err := e.store.Tasks.DeleteMany(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("falha ao remover tarefas: %w", err)
	}
	return &CountResult{Count: n}, nil
}

// bulkMove resolve o destino como em create, mas um projeto nomeado que não
// existe é um erro: mover tudo para o Inbox por engano seria pior
func (e *Executor) bulkMove(ctx context.Context, sc *scope, p *action.BulkMove) (*CountResult, error) {
	var target *project.Project
	switch {
	case strings.TrimSpace(p.Target.ProjectName) != "":
		found, err := e.findProject(ctx, sc, p.Target.ProjectName)
		if err != nil {
			return nil, err
		}
		if found == nil {
			return nil, fmt.Errorf("%w: %s", ErrTargetNotFound, p.Target.ProjectName)
		}
		target = found
	case p.Filter.ProjectName != "":
		found, err := e.findProject(ctx, sc, p.Filter.ProjectName)
		if err != nil || found == nil {
			return &CountResult{}, err
		}
		target = found
	default:
		target = sc.inbox()
	}
	if target == nil || target.Permission < project.PermissionWrite {
		return nil, ErrForbidden
	}

	sectionID, err := e.sectionID(ctx, target.ID, p.Target.SectionName)
	if err != nil {
		return nil, err
	}

	c, ok, err := e.criteria(ctx, sc, p.Filter, project.PermissionWrite)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &CountResult{}, nil
	}

	n, err := e.store.Tasks.UpdateMany(ctx, c, task.Changes{ProjectID: &target.ID, SectionID: &sectionID})
	if err != nil {
		return nil, fmt.Errorf("falha ao mover tarefas: %w", err)
	}
	return &CountResult{Count: n}, nil
}

// query só lê; upcoming restringe a tarefas que vencem de hoje até daqui a 7 dias.
// O texto livre da ação vira busca no título quando o filtro não traz uma.
func (e *Executor) query(ctx context.Context, sc *scope, p *action.QueryTasks, text string) (*QueryResult, error) {
	filter := p.Filter
	if strings.TrimSpace(filter.TitleContains) == "" {
		filter.TitleContains = strings.TrimSpace(text)
	}

	c, ok, err := e.criteria(ctx, sc, filter, project.PermissionRead)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &QueryResult{Tasks: []*task.Task{}}, nil
	}

	if p.Upcoming {
		today := e.dates.Today()
		before := today.AddDate(0, 0, 8)
		c.DueFrom, c.DueBefore = &today, &before
	}
	c.Limit = p.Limit
	if c.Limit <= 0 {
		c.Limit = defaultQueryLimit
	}

	tasks, err := e.store.Tasks.Find(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("falha ao consultar tarefas: %w", err)
	}
	if tasks == nil {
		tasks = []*task.Task{}
	}
	return &QueryResult{Tasks: tasks, Count: len(tasks)}, nil
}
