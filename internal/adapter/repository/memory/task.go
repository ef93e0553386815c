package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/hugohenrick/tarefas-ia/internal/domain/task"
)

// TaskRepository implementa task.Repository em memória
type TaskRepository struct {
	s *Store
}

func copyTask(t *task.Task) *task.Task {
	cp := *t
	cp.LabelIDs = append([]string(nil), t.LabelIDs...)
	return &cp
}

// removeTasks remove as tarefas que casam com match e, em cascata, suas
// subtarefas. Deve ser chamado com o lock adquirido.
func (s *Store) removeTasks(match func(t *task.Task) bool) int64 {
	doomed := make(map[string]bool)
	for id, t := range s.tasks {
		if match(t) {
			doomed[id] = true
		}
	}
	var removed int64
	for len(doomed) > 0 {
		next := make(map[string]bool)
		for id := range doomed {
			if _, ok := s.tasks[id]; !ok {
				continue
			}
			delete(s.tasks, id)
			removed++
			for cid, child := range s.tasks {
				if child.ParentID == id {
					next[cid] = true
				}
			}
		}
		doomed = next
	}

	kept := s.taskOrder[:0]
	for _, id := range s.taskOrder {
		if _, ok := s.tasks[id]; ok {
			kept = append(kept, id)
		}
	}
	s.taskOrder = kept
	return removed
}

// matching devolve, em ordem de inserção, as tarefas que satisfazem c
func (s *Store) matching(c task.Criteria) []*task.Task {
	var list []*task.Task
	for _, id := range s.taskOrder {
		if t := s.tasks[id]; c.Matches(t) {
			list = append(list, t)
		}
	}
	return list
}

func (r *TaskRepository) Create(ctx context.Context, t *task.Task) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.tasks[t.ID] = copyTask(t)
	r.s.taskOrder = append(r.s.taskOrder, t.ID)
	return nil
}

func (r *TaskRepository) FindByID(ctx context.Context, id string) (*task.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	t, ok := r.s.tasks[id]
	if !ok {
		return nil, task.ErrNotFound
	}
	return copyTask(t), nil
}

func (r *TaskRepository) FindByTitle(ctx context.Context, projectIDs []string, title string) (*task.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, task.ErrNotFound
	}
	candidates := r.s.matching(task.Criteria{ProjectIDs: projectIDs, TitleContains: title})
	if len(candidates) == 0 {
		return nil, task.ErrNotFound
	}

	rank := func(t *task.Task) int {
		n := 0
		if !strings.EqualFold(t.Title, title) {
			n += 2
		}
		if t.Completed {
			n++
		}
		return n
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		ri, rj := rank(candidates[i]), rank(candidates[j])
		if ri != rj {
			return ri < rj
		}
		return candidates[i].CreatedAt.Before(candidates[j].CreatedAt)
	})
	return copyTask(candidates[0]), nil
}

func (r *TaskRepository) Find(ctx context.Context, c task.Criteria) ([]*task.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	found := r.s.matching(c)
	sort.SliceStable(found, func(i, j int) bool {
		a, b := found[i], found[j]
		switch {
		case a.DueDate != nil && b.DueDate == nil:
			return true
		case a.DueDate == nil && b.DueDate != nil:
			return false
		case a.DueDate != nil && !a.DueDate.Equal(*b.DueDate):
			return a.DueDate.Before(*b.DueDate)
		}
		return a.Order < b.Order
	})
	if c.Limit > 0 && len(found) > c.Limit {
		found = found[:c.Limit]
	}

	list := make([]*task.Task, 0, len(found))
	for _, t := range found {
		list = append(list, copyTask(t))
	}
	return list, nil
}

func (r *TaskRepository) Update(ctx context.Context, id string, ch task.Changes) (*task.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, ok := r.s.tasks[id]
	if !ok {
		return nil, task.ErrNotFound
	}
	ch.Apply(t, time.Now())
	return copyTask(t), nil
}

func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.tasks[id]; !ok {
		return task.ErrNotFound
	}
	r.s.removeTasks(func(t *task.Task) bool { return t.ID == id })
	return nil
}

func (r *TaskRepository) UpdateMany(ctx context.Context, c task.Criteria, ch task.Changes) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := time.Now()
	var n int64
	for _, t := range r.s.matching(c) {
		ch.Apply(t, now)
		n++
	}
	return n, nil
}

func (r *TaskRepository) DeleteMany(ctx context.Context, c task.Criteria) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	matched := make(map[string]bool)
	for _, t := range r.s.matching(c) {
		matched[t.ID] = true
	}
	if len(matched) == 0 {
		return 0, nil
	}
	r.s.removeTasks(func(t *task.Task) bool { return matched[t.ID] })
	return int64(len(matched)), nil
}

func (r *TaskRepository) Siblings(ctx context.Context, t *task.Task) ([]*task.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var list []*task.Task
	for _, id := range r.s.taskOrder {
		other := r.s.tasks[id]
		if other.ID == t.ID || other.ProjectID != t.ProjectID || other.SectionID != t.SectionID || other.ParentID != t.ParentID {
			continue
		}
		list = append(list, copyTask(other))
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].Order < list[j].Order })
	return list, nil
}

func (r *TaskRepository) UpdateOrders(ctx context.Context, orders map[string]float64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for id := range orders {
		if _, ok := r.s.tasks[id]; !ok {
			return task.ErrNotFound
		}
	}
	now := time.Now()
	for id, order := range orders {
		r.s.tasks[id].Order = order
		r.s.tasks[id].UpdatedAt = now
	}
	return nil
}
