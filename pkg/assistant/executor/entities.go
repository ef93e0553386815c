package executor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hugohenrick/tarefas-ia/internal/domain/comment"
	"github.com/hugohenrick/tarefas-ia/internal/domain/label"
	"github.com/hugohenrick/tarefas-ia/internal/domain/project"
	"github.com/hugohenrick/tarefas-ia/internal/domain/reminder"
	"github.com/hugohenrick/tarefas-ia/pkg/assistant/action"
)

// Horário usado quando o lembrete não informa hora
const defaultReminderTime = "09:00"

func (e *Executor) createProject(ctx context.Context, sc *scope, p *action.CreateProject) (*project.Project, error) {
	existing, err := e.findProject(ctx, sc, p.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.OwnerID == sc.actor {
		return nil, fmt.Errorf("%w: %s", project.ErrAlreadyExists, existing.Name)
	}

	color := p.Color
	if color == "" {
		color = e.color()
	}
	proj, err := project.NewProject(sc.actor, p.Name, color)
	if err != nil {
		return nil, err
	}
	if err := e.store.Projects.Create(ctx, proj); err != nil {
		return nil, fmt.Errorf("falha ao criar projeto: %w", err)
	}
	return proj, nil
}

// createSection segue a regra de criação: sem projeto (ou projeto desconhecido), usa o Inbox.
// Uma seção que já existe é devolvida sem duplicar.
func (e *Executor) createSection(ctx context.Context, sc *scope, p *action.CreateSection) (*project.Section, error) {
	proj, err := e.projectForCreate(ctx, sc, p.ProjectName)
	if err != nil {
		return nil, err
	}

	existing, err := e.store.Projects.FindSectionByName(ctx, proj.ID, p.Name)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, project.ErrSectionNotFound) {
		return nil, fmt.Errorf("falha ao buscar seção: %w", err)
	}

	sec, err := project.NewSection(proj.ID, p.Name)
	if err != nil {
		return nil, err
	}
	if err := e.store.Projects.CreateSection(ctx, sec); err != nil {
		return nil, fmt.Errorf("falha ao criar seção: %w", err)
	}
	return sec, nil
}

func (e *Executor) createLabel(ctx context.Context, sc *scope, p *action.CreateLabel) (*label.Label, error) {
	if strings.TrimSpace(p.Name) == "" {
		return nil, label.ErrEmptyName
	}
	return e.upsertLabel(ctx, sc, strings.TrimSpace(p.Name), p.Color)
}

func (e *Executor) addComment(ctx context.Context, sc *scope, p *action.AddComment) (*comment.Comment, error) {
	t, err := e.findTask(ctx, sc, p.TaskTitle, project.PermissionWrite)
	if err != nil || t == nil {
		return nil, err
	}

	c, err := comment.NewComment(t.ID, sc.actor, p.Content)
	if err != nil {
		return nil, err
	}
	if err := e.store.Comments.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("falha ao criar comentário: %w", err)
	}
	return c, nil
}

// createReminder combina a data resolvida com o horário HH:MM (09:00 por padrão)
func (e *Executor) createReminder(ctx context.Context, sc *scope, p *action.CreateReminder) (*reminder.Reminder, error) {
	t, err := e.findTask(ctx, sc, p.TaskTitle, project.PermissionWrite)
	if err != nil || t == nil {
		return nil, err
	}

	day := e.date(p.When)
	if day == nil {
		return nil, fmt.Errorf("%w: %s", ErrReminderDate, p.When)
	}
	clock := strings.TrimSpace(p.Time)
	if clock == "" {
		clock = defaultReminderTime
	}
	hm, err := time.Parse("15:04", clock)
	if err != nil {
		return nil, fmt.Errorf("%w: horário %q", ErrReminderDate, p.Time)
	}
	at := time.Date(day.Year(), day.Month(), day.Day(), hm.Hour(), hm.Minute(), 0, 0, day.Location())

	r := reminder.NewReminder(t.ID, sc.actor, at)
	if err := e.store.Reminders.Create(ctx, r); err != nil {
		return nil, fmt.Errorf("falha ao criar lembrete: %w", err)
	}
	return r, nil
}
