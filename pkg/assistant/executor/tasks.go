package executor

import (
	"context"
	"errors"
	"fmt"

	"github.com/hugohenrick/tarefas-ia/internal/domain/label"
	"github.com/hugohenrick/tarefas-ia/internal/domain/project"
	"github.com/hugohenrick/tarefas-ia/internal/domain/task"
	"github.com/hugohenrick/tarefas-ia/pkg/assistant/action"
)

// createTask resolve projeto, seção, etiquetas e data e insere a tarefa.
// Subtarefas ficam no projeto do pai e herdam a seção dele quando não informam outra.
func (e *Executor) createTask(ctx context.Context, sc *scope, f action.TaskFields, parent *task.Task) (*task.Task, error) {
	var projectID, sectionID string
	if parent != nil {
		if err := sc.authorize(parent.ProjectID, project.PermissionWrite); err != nil {
			return nil, err
		}
		projectID, sectionID = parent.ProjectID, parent.SectionID
	} else {
		p, err := e.projectForCreate(ctx, sc, f.ProjectName)
		if err != nil {
			return nil, err
		}
		projectID = p.ID
	}

	if f.SectionName != "" {
		id, err := e.sectionID(ctx, projectID, f.SectionName)
		if err != nil {
			return nil, err
		}
		if id != "" {
			sectionID = id
		}
	}

	t, err := task.NewTask(sc.actor, projectID, f.Title)
	if err != nil {
		return nil, err
	}
	t.SectionID = sectionID
	t.Description = f.Description
	if f.Priority != 0 {
		t.Priority = task.ClampPriority(f.Priority)
	}
	t.DueDate = e.date(f.DueDate)
	if parent != nil {
		t.ParentID = parent.ID
	}

	if t.LabelIDs, err = e.labelIDs(ctx, sc, f.Labels, f.LabelColor); err != nil {
		return nil, err
	}

	siblings, err := e.store.Tasks.Siblings(ctx, t)
	if err != nil {
		return nil, fmt.Errorf("falha ao buscar tarefas vizinhas: %w", err)
	}
	if n := len(siblings); n > 0 {
		t.Order = siblings[n-1].Order + 1
	} else {
		t.Order = 1
	}

	if err := e.store.Tasks.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("falha ao criar tarefa: %w", err)
	}
	return t, nil
}

// createTasks cria cada item de forma independente; falhas não abortam os demais
func (e *Executor) createTasks(ctx context.Context, sc *scope, p *action.CreateTasks) (*BulkCreateResult, error) {
	res := &BulkCreateResult{Created: []*task.Task{}}
	for i, item := range p.Tasks {
		t, err := e.createTask(ctx, sc, item, nil)
		if err != nil {
			res.Failed = append(res.Failed, ItemFailure{Index: i, Title: item.Title, Error: err.Error()})
			continue
		}
		res.Created = append(res.Created, t)
	}
	if len(res.Created) == 0 {
		if len(res.Failed) > 0 {
			return nil, fmt.Errorf("%w: %s", ErrNothingCreated, res.Failed[0].Error)
		}
		return nil, ErrIncompletePayload
	}
	return res, nil
}

// createTree insere a tarefa raiz e depois, em profundidade, cada subtarefa.
// Uma subtarefa que falha é registrada e seus descendentes são pulados.
func (e *Executor) createTree(ctx context.Context, sc *scope, p *action.CreateTaskTree) (*BulkCreateResult, error) {
	root, err := e.createTask(ctx, sc, p.TaskFields, nil)
	if err != nil {
		return nil, err
	}

	res := &BulkCreateResult{Created: []*task.Task{root}}
	index := 0
	var walk func(parent *task.Task, children []action.TaskNode)
	walk = func(parent *task.Task, children []action.TaskNode) {
		for _, child := range children {
			index++
			t, err := e.createTask(ctx, sc, child.TaskFields, parent)
			if err != nil {
				res.Failed = append(res.Failed, ItemFailure{Index: index, Title: child.Title, Error: err.Error()})
				continue
			}
			res.Created = append(res.Created, t)
			walk(t, child.Subtasks)
		}
	}
	walk(root, p.Subtasks)
	return res, nil
}

// updateTask aplica as alterações à tarefa encontrada; sem correspondência, não faz nada
func (e *Executor) updateTask(ctx context.Context, sc *scope, p *action.UpdateTask) (*task.Task, error) {
	t, err := e.findTask(ctx, sc, p.TaskTitle, project.PermissionWrite)
	if err != nil || t == nil {
		return nil, err
	}

	ch, err := e.changes(ctx, sc, p.TaskChanges, t.ProjectID)
	if err != nil {
		return nil, err
	}
	if ch.Empty() {
		return t, nil
	}

	updated, err := e.store.Tasks.Update(ctx, t.ID, ch)
	if err != nil {
		return nil, fmt.Errorf("falha ao atualizar tarefa: %w", err)
	}
	return updated, nil
}

func (e *Executor) completeTask(ctx context.Context, sc *scope, p *action.CompleteTask) (*task.Task, error) {
	t, err := e.findTask(ctx, sc, p.TaskTitle, project.PermissionWrite)
	if err != nil || t == nil {
		return nil, err
	}

	done := true
	updated, err := e.store.Tasks.Update(ctx, t.ID, task.Changes{Completed: &done})
	if err != nil {
		return nil, fmt.Errorf("falha ao concluir tarefa: %w", err)
	}
	return updated, nil
}

func (e *Executor) deleteTask(ctx context.Context, sc *scope, p *action.DeleteTask) (*DeleteResult, error) {
	t, err := e.findTask(ctx, sc, p.TaskTitle, project.PermissionWrite)
	if err != nil || t == nil {
		return nil, err
	}

	if err := e.store.Tasks.Delete(ctx, t.ID); err != nil {
		return nil, fmt.Errorf("falha ao remover tarefa: %w", err)
	}
	return &DeleteResult{ID: t.ID, Name: t.Title}, nil
}

// deleteNamed remove projeto, seção ou etiqueta pelo nome. Remover um projeto
// apaga todas as suas tarefas e por isso exige a permissão manage.
func (e *Executor) deleteNamed(ctx context.Context, sc *scope, entity action.Entity, p *action.DeleteNamed) (*DeleteResult, error) {
	switch entity {
	case action.EntityProject:
		proj, err := e.findProject(ctx, sc, p.Name)
		if err != nil || proj == nil {
			return nil, err
		}
		if proj.IsInbox {
			return nil, project.ErrInboxDelete
		}
		if proj.Permission < project.PermissionManage {
			return nil, ErrForbidden
		}
		if err := e.store.Projects.Delete(ctx, proj.ID); err != nil {
			return nil, fmt.Errorf("falha ao remover projeto: %w", err)
		}
		return &DeleteResult{ID: proj.ID, Name: proj.Name}, nil

	case action.EntitySection:
		proj := sc.inbox()
		if p.ProjectName != "" {
			found, err := e.findProject(ctx, sc, p.ProjectName)
			if err != nil || found == nil {
				return nil, err
			}
			proj = found
		}
		if proj == nil {
			return nil, nil
		}
		if err := sc.authorize(proj.ID, project.PermissionWrite); err != nil {
			return nil, err
		}
		sec, err := e.store.Projects.FindSectionByName(ctx, proj.ID, p.Name)
		if errors.Is(err, project.ErrSectionNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("falha ao buscar seção: %w", err)
		}
		if err := e.store.Projects.DeleteSection(ctx, sec.ID); err != nil {
			return nil, fmt.Errorf("falha ao remover seção: %w", err)
		}
		return &DeleteResult{ID: sec.ID, Name: sec.Name}, nil

	case action.EntityLabel:
		l, err := e.store.Labels.FindByName(ctx, sc.actor, p.Name)
		if errors.Is(err, label.ErrNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("falha ao buscar etiqueta: %w", err)
		}
		if err := e.store.Labels.Delete(ctx, l.ID); err != nil {
			return nil, fmt.Errorf("falha ao remover etiqueta: %w", err)
		}
		return &DeleteResult{ID: l.ID, Name: l.Name}, nil
	}
	return nil, fmt.Errorf("%w: delete/%s", ErrUnsupportedAction, entity)
}
