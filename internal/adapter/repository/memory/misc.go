package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/hugohenrick/tarefas-ia/internal/domain/audit"
	"github.com/hugohenrick/tarefas-ia/internal/domain/comment"
	"github.com/hugohenrick/tarefas-ia/internal/domain/label"
	"github.com/hugohenrick/tarefas-ia/internal/domain/reminder"
)

// LabelRepository implementa label.Repository em memória
type LabelRepository struct {
	s *Store
}

func (r *LabelRepository) FindByName(ctx context.Context, userID, name string) (*label.Label, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, l := range r.s.labels {
		if l.UserID == userID && strings.EqualFold(l.Name, strings.TrimSpace(name)) {
			cp := *l
			return &cp, nil
		}
	}
	return nil, label.ErrNotFound
}

func (r *LabelRepository) Create(ctx context.Context, l *label.Label) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cp := *l
	r.s.labels[l.ID] = &cp
	return nil
}

func (r *LabelRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.labels[id]; !ok {
		return label.ErrNotFound
	}
	delete(r.s.labels, id)
	for _, t := range r.s.tasks {
		kept := t.LabelIDs[:0]
		for _, lid := range t.LabelIDs {
			if lid != id {
				kept = append(kept, lid)
			}
		}
		t.LabelIDs = kept
	}
	return nil
}

func (r *LabelRepository) List(ctx context.Context, userID string) ([]*label.Label, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var list []*label.Label
	for _, l := range r.s.labels {
		if l.UserID == userID {
			cp := *l
			list = append(list, &cp)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

// CommentRepository implementa comment.Repository em memória
type CommentRepository struct {
	s *Store
}

func (r *CommentRepository) Create(ctx context.Context, c *comment.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cp := *c
	r.s.comments = append(r.s.comments, &cp)
	return nil
}

func (r *CommentRepository) ListByTask(ctx context.Context, taskID string) ([]*comment.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var list []*comment.Comment
	for _, c := range r.s.comments {
		if c.TaskID == taskID {
			cp := *c
			list = append(list, &cp)
		}
	}
	return list, nil
}

// ReminderRepository implementa reminder.Repository em memória
type ReminderRepository struct {
	s *Store
}

func (r *ReminderRepository) Create(ctx context.Context, rem *reminder.Reminder) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cp := *rem
	r.s.reminders = append(r.s.reminders, &cp)
	return nil
}

func (r *ReminderRepository) ListByTask(ctx context.Context, taskID string) ([]*reminder.Reminder, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var list []*reminder.Reminder
	for _, rem := range r.s.reminders {
		if rem.TaskID == taskID {
			cp := *rem
			list = append(list, &cp)
		}
	}
	return list, nil
}

// AuditRepository implementa audit.Repository em memória
type AuditRepository struct {
	s *Store
}

func (r *AuditRepository) Save(ctx context.Context, e *audit.Entry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cp := *e
	r.s.entries = append(r.s.entries, &cp)
	return nil
}

// ListByUser lista as entradas mais recentes primeiro
func (r *AuditRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*audit.Entry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var list []*audit.Entry
	for i := len(r.s.entries) - 1; i >= 0; i-- {
		if e := r.s.entries[i]; e.UserID == userID {
			cp := *e
			list = append(list, &cp)
		}
	}
	if offset >= len(list) {
		return []*audit.Entry{}, nil
	}
	list = list[offset:]
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (r *AuditRepository) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	kept := r.s.entries[:0]
	var removed int64
	for _, e := range r.s.entries {
		if e.UserID == userID {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	r.s.entries = kept
	return removed, nil
}
