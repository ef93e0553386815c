// Package executor resolve referências por nome e executa, em ordem, as ações
// aprovadas. A falha de uma ação nunca impede as seguintes; não há transação
// envolvendo o lote inteiro.
package executor

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"reflect"

	"github.com/hugohenrick/tarefas-ia/internal/domain/comment"
	"github.com/hugohenrick/tarefas-ia/internal/domain/label"
	"github.com/hugohenrick/tarefas-ia/internal/domain/project"
	"github.com/hugohenrick/tarefas-ia/internal/domain/reminder"
	"github.com/hugohenrick/tarefas-ia/internal/domain/task"
	"github.com/hugohenrick/tarefas-ia/pkg/assistant/action"
	"github.com/hugohenrick/tarefas-ia/pkg/assistant/dates"
	"github.com/hugohenrick/tarefas-ia/pkg/logger"
)

// Erros reportados por ação
var (
	ErrForbidden          = errors.New("operação não permitida")
	ErrUnsupportedAction  = errors.New("ação não suportada")
	ErrInvalidAction      = errors.New("ação inválida")
	ErrIncompletePayload  = errors.New("dados insuficientes para executar a ação")
	ErrPrecisionExhausted = errors.New("não há espaço entre as posições vizinhas")
	ErrTargetNotFound     = errors.New("projeto de destino não encontrado")
	ErrReferenceNotFound  = errors.New("tarefa de referência não encontrada")
	ErrDifferentLists     = errors.New("as tarefas estão em listas diferentes")
	ErrReminderDate       = errors.New("data do lembrete não reconhecida")
	ErrNothingCreated     = errors.New("nenhuma tarefa foi criada")
)

const internalErrorMessage = "erro interno ao executar a ação"

// Store reúne os repositórios usados pelo executor
type Store struct {
	Projects  project.Repository
	Tasks     task.Repository
	Labels    label.Repository
	Comments  comment.Repository
	Reminders reminder.Repository
}

// Result é o resultado de uma ação, na mesma posição da ação de entrada
type Result struct {
	Action  action.AIAction `json:"action"`
	Result  any             `json:"result,omitempty"`
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
}

// Executor executa ações contra o Store
type Executor struct {
	store  Store
	dates  *dates.Resolver
	logger logger.Logger
	color  func() string
}

// Option configura o Executor
type Option func(*Executor)

// WithLogger define o logger
func WithLogger(l logger.Logger) Option {
	return func(e *Executor) { e.logger = l }
}

// WithDateResolver define o resolvedor de datas (e, com ele, o relógio)
func WithDateResolver(r *dates.Resolver) Option {
	return func(e *Executor) { e.dates = r }
}

// WithColorPicker define como escolher a cor de etiquetas criadas sem cor
func WithColorPicker(pick func() string) Option {
	return func(e *Executor) { e.color = pick }
}

// New cria um Executor
func New(store Store, opts ...Option) *Executor {
	e := &Executor{
		store:  store,
		dates:  dates.NewResolver(),
		logger: logger.NewNop(),
		color: func() string {
			return label.Palette[rand.IntN(len(label.Palette))]
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute executa as ações em sequência e devolve um resultado por ação, na mesma ordem
func (e *Executor) Execute(ctx context.Context, actions []action.AIAction, actorID string) []Result {
	results := make([]Result, len(actions))
	for i, a := range actions {
		results[i] = e.run(ctx, a, actorID)
	}
	return results
}

func (e *Executor) run(ctx context.Context, a action.AIAction, actorID string) (res Result) {
	res.Action = a

	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("pânico ao executar ação", "type", a.Type, "entity", a.Entity, "panic", fmt.Sprint(r))
			res = Result{Action: a, Success: false, Error: internalErrorMessage}
		}
	}()

	out, err := e.dispatch(ctx, a, actorID)
	if err != nil {
		e.logger.Warn("ação falhou", "type", a.Type, "entity", a.Entity, "actor", actorID, "error", err.Error())
		res.Error = err.Error()
		return res
	}

	e.logger.Info("ação executada", "type", a.Type, "entity", a.Entity, "actor", actorID)
	res.Success = true
	// Nenhum registro encontrado chega aqui como ponteiro ou slice nil
	if v := reflect.ValueOf(out); !isNilKind(v.Kind()) || !v.IsNil() {
		res.Result = out
	}
	return res
}

// dispatch seleciona o tratamento pela variante do payload
func (e *Executor) dispatch(ctx context.Context, a action.AIAction, actorID string) (any, error) {
	if !a.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidAction, a.Tag())
	}
	if !action.Supported(a.Tag()) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedAction, a.Tag())
	}

	data := a.Data
	if data == nil {
		if a.Type != action.TypeQuery {
			return nil, ErrIncompletePayload
		}
		data = &action.QueryTasks{}
	}

	sc, err := e.newScope(ctx, actorID)
	if err != nil {
		return nil, err
	}

	switch p := data.(type) {
	case *action.CreateTask:
		return e.createTask(ctx, sc, p.TaskFields, nil)
	case *action.CreateTasks:
		return e.createTasks(ctx, sc, p)
	case *action.CreateTaskTree:
		return e.createTree(ctx, sc, p)
	case *action.UpdateTask:
		return e.updateTask(ctx, sc, p)
	case *action.CompleteTask:
		return e.completeTask(ctx, sc, p)
	case *action.DeleteTask:
		return e.deleteTask(ctx, sc, p)
	case *action.DeleteNamed:
		return e.deleteNamed(ctx, sc, a.Entity, p)
	case *action.BulkUpdate:
		return e.bulkUpdate(ctx, sc, p)
	case *action.BulkDelete:
		return e.bulkDelete(ctx, sc, p)
	case *action.BulkMove:
		return e.bulkMove(ctx, sc, p)
	case *action.Reorder:
		return e.reorder(ctx, sc, p)
	case *action.QueryTasks:
		return e.query(ctx, sc, p, a.Query)
	case *action.CreateProject:
		return e.createProject(ctx, sc, p)
	case *action.CreateSection:
		return e.createSection(ctx, sc, p)
	case *action.CreateLabel:
		return e.createLabel(ctx, sc, p)
	case *action.AddComment:
		return e.addComment(ctx, sc, p)
	case *action.CreateReminder:
		return e.createReminder(ctx, sc, p)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedAction, a.Tag())
}

func isNilKind(k reflect.Kind) bool {
	return k == reflect.Pointer || k == reflect.Slice || k == reflect.Map
}
