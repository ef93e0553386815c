package project

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound        = errors.New("projeto não encontrado")
	ErrSectionNotFound = errors.New("seção não encontrada")
	ErrEmptyName       = errors.New("nome não pode ser vazio")
	ErrInboxDelete     = errors.New("o projeto Inbox não pode ser removido")
	ErrAlreadyExists   = errors.New("já existe um projeto com este nome")
)

// InboxName é o nome do projeto padrão de cada usuário
const InboxName = "Inbox"

// Permission é o nível de acesso de um usuário a um projeto.
// Os níveis são ordenados: read < write < manage.
type Permission int

const (
	PermissionNone Permission = iota
	PermissionRead
	PermissionWrite
	PermissionManage
)

func (p Permission) String() string {
	switch p {
	case PermissionRead:
		return "read"
	case PermissionWrite:
		return "write"
	case PermissionManage:
		return "manage"
	}
	return "none"
}

// ParsePermission converte o nome de uma permissão
func ParsePermission(s string) (Permission, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "read":
		return PermissionRead, nil
	case "write":
		return PermissionWrite, nil
	case "manage":
		return PermissionManage, nil
	}
	return PermissionNone, fmt.Errorf("permissão inválida: %q", s)
}

// Project representa um projeto de tarefas
type Project struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	IsInbox   bool      `json:"is_inbox"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Permission é o acesso do usuário que fez a consulta; preenchido pelas
	// buscas "accessible" do repositório
	Permission Permission `json:"-"`
}

// NewProject cria um novo projeto
func NewProject(ownerID, name, color string) (*Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	now := time.Now()
	return &Project{
		ID:         uuid.New().String(),
		OwnerID:    ownerID,
		Name:       name,
		Color:      color,
		CreatedAt:  now,
		UpdatedAt:  now,
		Permission: PermissionManage,
	}, nil
}

// NewInbox cria o projeto padrão de um usuário
func NewInbox(ownerID string) *Project {
	p, _ := NewProject(ownerID, InboxName, "grey")
	p.IsInbox = true
	return p
}

// Section agrupa tarefas dentro de um projeto
type Section struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id"`
	Name      string    `json:"name"`
	Order     float64   `json:"order"`
	CreatedAt time.Time `json:"created_at"`
}

// NewSection cria uma nova seção
func NewSection(projectID, name string) (*Section, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	return &Section{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Name:      name,
		CreatedAt: time.Now(),
	}, nil
}

// Member é um compartilhamento de projeto com outro usuário
type Member struct {
	ProjectID  string     `json:"project_id"`
	UserID     string     `json:"user_id"`
	Permission Permission `json:"-"`
	CreatedAt  time.Time  `json:"created_at"`
}
