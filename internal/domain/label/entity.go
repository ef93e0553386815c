package label

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound  = errors.New("etiqueta não encontrada")
	ErrEmptyName = errors.New("nome não pode ser vazio")
)

// Palette são as cores usadas quando a etiqueta é criada sem cor
var Palette = []string{
	"berry_red", "red", "orange", "yellow", "olive_green", "lime_green", "green", "mint_green",
	"teal", "sky_blue", "light_blue", "blue", "grape", "violet", "lavender", "magenta", "salmon",
	"charcoal", "grey", "taupe",
}

// Label é uma etiqueta pessoal do usuário
type Label struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"created_at"`
}

// NewLabel cria uma nova etiqueta
func NewLabel(userID, name, color string) (*Label, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	return &Label{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      name,
		Color:     color,
		CreatedAt: time.Now(),
	}, nil
}

// Repository define as operações de persistência para etiquetas
type Repository interface {
	// FindByName busca por nome exato, sem diferenciar maiúsculas
	FindByName(ctx context.Context, userID, name string) (*Label, error)

	// Create persiste uma nova etiqueta
	Create(ctx context.Context, l *Label) error

	// Delete remove a etiqueta e suas associações com tarefas
	Delete(ctx context.Context, id string) error

	// List lista as etiquetas do usuário
	List(ctx context.Context, userID string) ([]*Label, error)
}
