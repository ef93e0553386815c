package task

import (
	"context"
)

// Repository define as operações de persistência para tarefas
type Repository interface {
	// Create persiste uma nova tarefa com suas etiquetas
	Create(ctx context.Context, t *Task) error

	// FindByID busca uma tarefa pelo ID
	FindByID(ctx context.Context, id string) (*Task, error)

	// FindByTitle busca a tarefa cujo título contém title (sem diferenciar
	// maiúsculas) dentro dos projetos informados. Um título exato tem
	// preferência, depois tarefas pendentes e, por fim, as mais antigas.
	FindByTitle(ctx context.Context, projectIDs []string, title string) (*Task, error)

	// Find lista as tarefas que satisfazem o critério, por ordem de vencimento e posição
	Find(ctx context.Context, c Criteria) ([]*Task, error)

	// Update aplica alterações parciais e retorna a tarefa atualizada
	Update(ctx context.Context, id string, ch Changes) (*Task, error)

	// Delete remove uma tarefa e suas subtarefas
	Delete(ctx context.Context, id string) error

	// UpdateMany aplica alterações a todas as tarefas do critério e retorna quantas mudaram
	UpdateMany(ctx context.Context, c Criteria, ch Changes) (int64, error)

	// DeleteMany remove todas as tarefas do critério e retorna quantas foram removidas
	DeleteMany(ctx context.Context, c Criteria) (int64, error)

	// Siblings lista, por ordem crescente, as tarefas da mesma lista que t
	// (mesmo projeto, seção e tarefa pai), exceto a própria t
	Siblings(ctx context.Context, t *Task) ([]*Task, error)

	// UpdateOrders grava as novas posições numa única transação
	UpdateOrders(ctx context.Context, orders map[string]float64) error
}
