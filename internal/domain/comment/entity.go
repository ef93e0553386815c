package comment

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrEmptyContent = errors.New("o comentário não pode ser vazio")

// Comment é um comentário em uma tarefa
type Comment struct {
	ID        string    `json:"id"`
	TaskID    string    `json:"task_id"`
	UserID    string    `json:"user_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// NewComment cria um novo comentário
func NewComment(taskID, userID, content string) (*Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyContent
	}
	return &Comment{
		ID:        uuid.New().String(),
		TaskID:    taskID,
		UserID:    userID,
		Content:   content,
		CreatedAt: time.Now(),
	}, nil
}

type Repository interface {
	Create(ctx context.Context, c *Comment) error
	ListByTask(ctx context.Context, taskID string) ([]*Comment, error)
}
