package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Entry registra um comando em linguagem natural e o que foi feito com ele
type Entry struct {
	ID                string          `json:"id"`
	UserID            string          `json:"user_id"`
	Command           string          `json:"command"`
	ProviderText      string          `json:"provider_text,omitempty"`
	Method            string          `json:"method,omitempty"`
	ParsingConfidence float64         `json:"parsing_confidence"`
	Decision          string          `json:"decision"`
	Reason            string          `json:"reason,omitempty"`
	OperationID       string          `json:"operation_id,omitempty"`
	Results           json.RawMessage `json:"results,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
}

// NewEntry cria uma entrada de auditoria para o usuário
func NewEntry(userID, command string) *Entry {
	return &Entry{
		ID:        uuid.New().String(),
		UserID:    userID,
		Command:   command,
		CreatedAt: time.Now(),
	}
}

// Repository define as operações do histórico de comandos
type Repository interface {
	Save(ctx context.Context, e *Entry) error
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*Entry, error)
	DeleteByUser(ctx context.Context, userID string) (int64, error)
}
