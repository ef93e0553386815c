package executor

import (
	"context"
	"fmt"

	"github.com/hugohenrick/tarefas-ia/internal/domain/project"
	"github.com/hugohenrick/tarefas-ia/internal/domain/task"
	"github.com/hugohenrick/tarefas-ia/pkg/assistant/action"
)

// reorder usa ordenação fracionária: a nova posição fica estritamente entre as
// vizinhas, sem renumerar a lista. Repetir inserções no mesmo ponto esgota a
// precisão do float64; nesse caso a ação falha com ErrPrecisionExhausted.
func (e *Executor) reorder(ctx context.Context, sc *scope, p *action.Reorder) ([]OrderChange, error) {
	if len(p.Items) > 0 {
		return e.reorderItems(ctx, sc, p.Items)
	}

	t, err := e.findTask(ctx, sc, p.TaskTitle, project.PermissionWrite)
	if err != nil || t == nil {
		return nil, err
	}

	var order float64
	switch p.Position {
	case action.PositionStart, action.PositionEnd:
		siblings, err := e.store.Tasks.Siblings(ctx, t)
		if err != nil {
			return nil, fmt.Errorf("falha ao buscar tarefas vizinhas: %w", err)
		}
		if len(siblings) == 0 {
			return []OrderChange{{TaskID: t.ID, Title: t.Title, Order: t.Order}}, nil
		}
		if p.Position == action.PositionStart {
			order = siblings[0].Order - 1
		} else {
			order = siblings[len(siblings)-1].Order + 1
		}

	case action.PositionBefore, action.PositionAfter:
		order, err = e.relativeOrder(ctx, sc, t, p.ReferenceTask, p.Position == action.PositionBefore)
		if err != nil {
			return nil, err
		}

	default:
		return nil, fmt.Errorf("%w: posição %q", ErrIncompletePayload, p.Position)
	}

	if err := e.store.Tasks.UpdateOrders(ctx, map[string]float64{t.ID: order}); err != nil {
		return nil, fmt.Errorf("falha ao reordenar tarefa: %w", err)
	}
	return []OrderChange{{TaskID: t.ID, Title: t.Title, Order: order}}, nil
}

// relativeOrder calcula a posição imediatamente antes (ou depois) da referência,
// no ponto médio entre ela e a vizinha adjacente
func (e *Executor) relativeOrder(ctx context.Context, sc *scope, t *task.Task, refTitle string, before bool) (float64, error) {
	ref, err := e.findTask(ctx, sc, refTitle, project.PermissionRead)
	if err != nil {
		return 0, err
	}
	if ref == nil || ref.ID == t.ID {
		return 0, fmt.Errorf("%w: %s", ErrReferenceNotFound, refTitle)
	}
	if ref.ProjectID != t.ProjectID || ref.SectionID != t.SectionID || ref.ParentID != t.ParentID {
		return 0, ErrDifferentLists
	}

	// Vizinhas da referência sem a tarefa movida
	all, err := e.store.Tasks.Siblings(ctx, ref)
	if err != nil {
		return 0, fmt.Errorf("falha ao buscar tarefas vizinhas: %w", err)
	}
	siblings := make([]*task.Task, 0, len(all)+1)
	for _, s := range all {
		if s.ID != t.ID {
			siblings = append(siblings, s)
		}
	}

	// Posição da referência entre as vizinhas ordenadas
	i := 0
	for i < len(siblings) && siblings[i].Order < ref.Order {
		i++
	}

	var lo, hi float64
	if before {
		hi = ref.Order
		if i == 0 {
			return ref.Order - 1, nil
		}
		lo = siblings[i-1].Order
	} else {
		lo = ref.Order
		j := i
		for j < len(siblings) && siblings[j].Order <= ref.Order {
			j++
		}
		if j == len(siblings) {
			return ref.Order + 1, nil
		}
		hi = siblings[j].Order
	}

	mid := lo + (hi-lo)/2
	if !(lo < mid && mid < hi) {
		return 0, ErrPrecisionExhausted
	}
	return mid, nil
}

// reorderItems aplica uma lista explícita de posições; se alguma tarefa não for
// encontrada, nada é alterado
func (e *Executor) reorderItems(ctx context.Context, sc *scope, items []action.ReorderItem) ([]OrderChange, error) {
	orders := make(map[string]float64, len(items))
	changes := make([]OrderChange, 0, len(items))
	for _, item := range items {
		t, err := e.findTask(ctx, sc, item.Task, project.PermissionWrite)
		if err != nil {
			return nil, err
		}
		if t == nil {
			return nil, fmt.Errorf("%w: %s", ErrReferenceNotFound, item.Task)
		}
		orders[t.ID] = item.Order
		changes = append(changes, OrderChange{TaskID: t.ID, Title: t.Title, Order: item.Order})
	}

	if err := e.store.Tasks.UpdateOrders(ctx, orders); err != nil {
		return nil, fmt.Errorf("falha ao reordenar tarefas: %w", err)
	}
	return changes, nil
}
