package reminder

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Reminder é um lembrete agendado para uma tarefa
type Reminder struct {
	ID        string    `json:"id"`
	TaskID    string    `json:"task_id"`
	UserID    string    `json:"user_id"`
	RemindAt  time.Time `json:"remind_at"`
	CreatedAt time.Time `json:"created_at"`
}

// NewReminder cria um novo lembrete
func NewReminder(taskID, userID string, remindAt time.Time) *Reminder {
	return &Reminder{
		ID:        uuid.New().String(),
		TaskID:    taskID,
		UserID:    userID,
		RemindAt:  remindAt,
		CreatedAt: time.Now(),
	}
}

type Repository interface {
	Create(ctx context.Context, r *Reminder) error
	ListByTask(ctx context.Context, taskID string) ([]*Reminder, error)
}
