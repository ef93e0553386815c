package task

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound   = errors.New("tarefa não encontrada")
	ErrEmptyTitle = errors.New("título não pode ser vazio")
)

// Prioridades: 1 é a mais baixa e 4 a mais alta
const (
	PriorityLow     = 1
	PriorityHighest = 4
)

// Task representa uma tarefa. SectionID e ParentID vazios significam "sem seção"
// e "tarefa raiz".
type Task struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	ProjectID   string     `json:"project_id"`
	SectionID   string     `json:"section_id,omitempty"`
	ParentID    string     `json:"parent_id,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Priority    int        `json:"priority"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Order       float64    `json:"order"`
	LabelIDs    []string   `json:"label_ids,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewTask cria uma tarefa com prioridade normalizada para 1..4
func NewTask(userID, projectID, title string) (*Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	now := time.Now()
	return &Task{
		ID:        uuid.New().String(),
		UserID:    userID,
		ProjectID: projectID,
		Title:     title,
		Priority:  PriorityLow,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// ClampPriority limita a prioridade ao intervalo 1..4
func ClampPriority(p int) int {
	if p < PriorityLow {
		return PriorityLow
	}
	if p > PriorityHighest {
		return PriorityHighest
	}
	return p
}

// Changes descreve uma alteração parcial. Campos nil não são alterados.
type Changes struct {
	Title        *string
	Description  *string
	Priority     *int
	DueDate      *time.Time
	ClearDueDate bool
	Completed    *bool
	ProjectID    *string
	SectionID    *string
	LabelIDs     []string
}

// Empty informa se a alteração não muda nada
func (c Changes) Empty() bool {
	return c.Title == nil && c.Description == nil && c.Priority == nil && c.DueDate == nil &&
		!c.ClearDueDate && c.Completed == nil && c.ProjectID == nil && c.SectionID == nil && c.LabelIDs == nil
}

// Apply aplica as alterações à tarefa em memória
func (c Changes) Apply(t *Task, now time.Time) {
	if c.Title != nil {
		t.Title = *c.Title
	}
	if c.Description != nil {
		t.Description = *c.Description
	}
	if c.Priority != nil {
		t.Priority = ClampPriority(*c.Priority)
	}
	if c.ClearDueDate {
		t.DueDate = nil
	}
	if c.DueDate != nil {
		d := *c.DueDate
		t.DueDate = &d
	}
	if c.Completed != nil && *c.Completed != t.Completed {
		t.Completed = *c.Completed
		if t.Completed {
			t.CompletedAt = &now
		} else {
			t.CompletedAt = nil
		}
	}
	if c.ProjectID != nil {
		t.ProjectID = *c.ProjectID
	}
	if c.SectionID != nil {
		t.SectionID = *c.SectionID
	}
	if c.LabelIDs != nil {
		t.LabelIDs = append([]string(nil), c.LabelIDs...)
	}
	t.UpdatedAt = now
}

// Criteria é o predicado de busca de tarefas. ProjectIDs delimita o escopo de
// acesso e é obrigatório: uma lista vazia não casa com nenhuma tarefa. Os
// intervalos de data são semiabertos [From, Before).
type Criteria struct {
	ProjectIDs    []string
	SectionID     string
	LabelID       string
	Priority      *int
	Completed     *bool
	TitleContains string
	DueFrom       *time.Time
	DueBefore     *time.Time
	CreatedFrom   *time.Time
	CreatedBefore *time.Time
	Limit         int
}

// Matches avalia o predicado contra uma tarefa
func (c Criteria) Matches(t *Task) bool {
	if !contains(c.ProjectIDs, t.ProjectID) {
		return false
	}
	if c.SectionID != "" && t.SectionID != c.SectionID {
		return false
	}
	if c.LabelID != "" && !contains(t.LabelIDs, c.LabelID) {
		return false
	}
	if c.Priority != nil && t.Priority != *c.Priority {
		return false
	}
	if c.Completed != nil && t.Completed != *c.Completed {
		return false
	}
	if c.TitleContains != "" && !strings.Contains(strings.ToLower(t.Title), strings.ToLower(c.TitleContains)) {
		return false
	}
	if c.DueFrom != nil || c.DueBefore != nil {
		if t.DueDate == nil || !inRange(*t.DueDate, c.DueFrom, c.DueBefore) {
			return false
		}
	}
	if !inRange(t.CreatedAt, c.CreatedFrom, c.CreatedBefore) {
		return false
	}
	return true
}

func inRange(v time.Time, from, before *time.Time) bool {
	if from != nil && v.Before(*from) {
		return false
	}
	if before != nil && !v.Before(*before) {
		return false
	}
	return true
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
