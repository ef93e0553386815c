// Package memory implementa os repositórios do domínio em memória.
// Usado nos testes e com STORAGE=memory.
package memory

import (
	"sync"

	"github.com/hugohenrick/tarefas-ia/internal/domain/audit"
	"github.com/hugohenrick/tarefas-ia/internal/domain/comment"
	"github.com/hugohenrick/tarefas-ia/internal/domain/label"
	"github.com/hugohenrick/tarefas-ia/internal/domain/project"
	"github.com/hugohenrick/tarefas-ia/internal/domain/reminder"
	"github.com/hugohenrick/tarefas-ia/internal/domain/task"
	"github.com/hugohenrick/tarefas-ia/internal/domain/user"
)

// Store guarda todos os registros atrás de um único mutex. Os repositórios
// devolvem cópias, então quem chama nunca altera o estado interno.
type Store struct {
	mu sync.RWMutex

	users     map[string]*user.User
	projects  map[string]*project.Project
	members   map[string]map[string]project.Permission // projectID -> userID -> permissão
	sections  map[string]*project.Section
	tasks     map[string]*task.Task
	taskOrder []string
	labels    map[string]*label.Label
	comments  []*comment.Comment
	reminders []*reminder.Reminder
	entries   []*audit.Entry
}

// NewStore cria um Store vazio
func NewStore() *Store {
	return &Store{
		users:    make(map[string]*user.User),
		projects: make(map[string]*project.Project),
		members:  make(map[string]map[string]project.Permission),
		sections: make(map[string]*project.Section),
		tasks:    make(map[string]*task.Task),
		labels:   make(map[string]*label.Label),
	}
}

// Users retorna o repositório de usuários
func (s *Store) Users() user.Repository { return &UserRepository{s} }

// Projects retorna o repositório de projetos
func (s *Store) Projects() project.Repository { return &ProjectRepository{s} }

// Tasks retorna o repositório de tarefas
func (s *Store) Tasks() task.Repository { return &TaskRepository{s} }

// Labels retorna o repositório de etiquetas
func (s *Store) Labels() label.Repository { return &LabelRepository{s} }

// Comments retorna o repositório de comentários
func (s *Store) Comments() comment.Repository { return &CommentRepository{s} }

// Reminders retorna o repositório de lembretes
func (s *Store) Reminders() reminder.Repository { return &ReminderRepository{s} }

// Audit retorna o repositório do histórico de comandos
func (s *Store) Audit() audit.Repository { return &AuditRepository{s} }
