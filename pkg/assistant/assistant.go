// Package assistant conecta o pipeline de comandos: provedor de IA, parser,
// avaliação de intenção (shield) e executor. Sugestões de confiança média ficam
// pendentes até o usuário confirmar.
package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hugohenrick/tarefas-ia/internal/domain/audit"
	"github.com/hugohenrick/tarefas-ia/pkg/ai"
	"github.com/hugohenrick/tarefas-ia/pkg/assistant/action"
	"github.com/hugohenrick/tarefas-ia/pkg/assistant/dates"
	"github.com/hugohenrick/tarefas-ia/pkg/assistant/executor"
	"github.com/hugohenrick/tarefas-ia/pkg/assistant/parser"
	"github.com/hugohenrick/tarefas-ia/pkg/assistant/shield"
	"github.com/hugohenrick/tarefas-ia/pkg/logger"
)

var (
	ErrEmptyCommand = errors.New("comando vazio")
	ErrProvider     = errors.New("falha ao consultar o provedor de IA")
)

// Response é o que o usuário recebe para um comando
type Response struct {
	Decision          shield.Decision   `json:"decision"`
	Reason            string            `json:"reason"`
	Method            parser.Method     `json:"method,omitempty"`
	ParsingConfidence float64           `json:"parsingConfidence"`
	AverageConfidence float64           `json:"averageConfidence"`
	Actions           []action.AIAction `json:"actions"`
	Results           []executor.Result `json:"results,omitempty"`
	Clarification     string            `json:"clarification,omitempty"`
	OperationID       string            `json:"operationId,omitempty"`
	ExpiresAt         *time.Time        `json:"expiresAt,omitempty"`
}

// Assistant interpreta comandos de um usuário
type Assistant struct {
	provider   ai.Provider
	prompts    *ai.PromptBuilder
	parser     *parser.Parser
	thresholds shield.Thresholds
	executor   *executor.Executor
	store      executor.Store
	audit      audit.Repository
	dates      *dates.Resolver
	pending    *pendingStore
	logger     logger.Logger
	now        func() time.Time
}

// Option configura o Assistant
type Option func(*Assistant)

func WithLogger(l logger.Logger) Option {
	return func(a *Assistant) { a.logger = l }
}

func WithThresholds(t shield.Thresholds) Option {
	return func(a *Assistant) { a.thresholds = t }
}

// WithHeuristicFallback liga ou desliga a heurística verbal do parser
func WithHeuristicFallback(enabled bool) Option {
	return func(a *Assistant) { a.parser = parser.New(enabled) }
}

// WithClock define o relógio usado nas datas e na expiração das pendências
func WithClock(now func() time.Time) Option {
	return func(a *Assistant) { a.now = now }
}

// WithPendingTTL define por quanto tempo uma sugestão aguarda confirmação
func WithPendingTTL(ttl time.Duration) Option {
	return func(a *Assistant) { a.pending.ttl = ttl }
}

// WithPromptBuilder substitui o montador de prompt
func WithPromptBuilder(b *ai.PromptBuilder) Option {
	return func(a *Assistant) { a.prompts = b }
}

// New cria um Assistant. auditRepo pode ser nil.
func New(provider ai.Provider, store executor.Store, auditRepo audit.Repository, opts ...Option) *Assistant {
	a := &Assistant{
		provider:   provider,
		prompts:    ai.NewPromptBuilder(),
		parser:     parser.New(true),
		thresholds: shield.DefaultThresholds(),
		store:      store,
		audit:      auditRepo,
		pending:    newPendingStore(defaultPendingTTL),
		logger:     logger.NewNop(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}

	a.dates = &dates.Resolver{Now: a.now}
	a.executor = executor.New(store,
		executor.WithLogger(a.logger),
		executor.WithDateResolver(a.dates),
	)
	return a
}

// Interpret leva um comando pelo pipeline completo. Com decisão execute as
// ações são executadas; com suggest ficam pendentes; com clarify nada é feito.
func (a *Assistant) Interpret(ctx context.Context, actorID, command string) (*Response, error) {
	command = strings.TrimSpace(command)
	if command == "" {
		return nil, ErrEmptyCommand
	}

	entry := audit.NewEntry(actorID, command)
	entry.CreatedAt = a.now()

	ws, err := a.workspace(ctx, actorID)
	if err != nil {
		return nil, err
	}

	start := a.now()
	text, err := a.provider.Generate(ctx, a.prompts.Build(ws, command))
	if err != nil {
		a.logger.Error("erro no provedor de IA", "provider", a.provider.Name(), "actor", actorID, "error", err.Error())
		return nil, fmt.Errorf("%w: %v", ErrProvider, err)
	}
	entry.ProviderText = text
	a.logger.Debug("texto do provedor recebido", "provider", a.provider.Name(), "latency_ms", a.now().Sub(start).Milliseconds())

	parsed := a.parser.Parse(text)
	a.logger.Info("comando interpretado", "actor", actorID, "method", parsed.Method,
		"confidence", parsed.ParsingConfidence, "actions", len(parsed.Actions))

	conf := parsed.ParsingConfidence
	assessment := shield.Assess(command, parsed.Actions, &conf, a.thresholds)
	a.logger.Info("decisão do shield", "actor", actorID, "decision", assessment.Decision, "reason", assessment.Reason)

	resp := &Response{
		Decision:          assessment.Decision,
		Reason:            assessment.Reason,
		Method:            parsed.Method,
		ParsingConfidence: parsed.ParsingConfidence,
		AverageConfidence: assessment.AverageConfidence,
		Actions:           parsed.Actions,
		Clarification:     assessment.SuggestedClarification,
	}

	switch assessment.Decision {
	case shield.DecisionExecute:
		resp.Results = a.executor.Execute(ctx, parsed.Actions, actorID)
	case shield.DecisionSuggest:
		op := a.pending.put(actorID, command, parsed.Actions, a.now())
		resp.OperationID = op.ID
		expires := op.ExpiresAt
		resp.ExpiresAt = &expires
	}

	entry.Method = string(parsed.Method)
	entry.ParsingConfidence = parsed.ParsingConfidence
	entry.Decision = string(resp.Decision)
	entry.Reason = resp.Reason
	entry.OperationID = resp.OperationID
	a.record(ctx, entry, resp.Results)

	return resp, nil
}

// Confirm executa uma sugestão pendente do próprio usuário
func (a *Assistant) Confirm(ctx context.Context, actorID, operationID string) (*Response, error) {
	op, err := a.pending.take(actorID, operationID, a.now())
	if err != nil {
		return nil, err
	}

	results := a.executor.Execute(ctx, op.Actions, actorID)
	a.logger.Info("sugestão confirmada", "actor", actorID, "operation_id", op.ID, "actions", len(op.Actions))

	entry := audit.NewEntry(actorID, op.Command)
	entry.CreatedAt = a.now()
	entry.Decision = string(shield.DecisionExecute)
	entry.Reason = "confirmado pelo usuário"
	entry.OperationID = op.ID
	a.record(ctx, entry, results)

	return &Response{
		Decision:    shield.DecisionExecute,
		Reason:      entry.Reason,
		Actions:     op.Actions,
		Results:     results,
		OperationID: op.ID,
	}, nil
}

// Cancel descarta uma sugestão pendente
func (a *Assistant) Cancel(ctx context.Context, actorID, operationID string) error {
	op, err := a.pending.take(actorID, operationID, a.now())
	if err != nil {
		return err
	}
	a.logger.Info("sugestão cancelada", "actor", actorID, "operation_id", op.ID)
	return nil
}

// Reply trata uma resposta livre do usuário: uma confirmação ou um
// cancelamento se aplica à sugestão pendente mais recente; qualquer outro texto
// é interpretado como um novo comando.
func (a *Assistant) Reply(ctx context.Context, actorID, text string) (*Response, error) {
	kind := classifyReply(text)
	if kind == replyNone {
		return a.Interpret(ctx, actorID, text)
	}

	op := a.pending.latest(actorID, a.now())
	if op == nil {
		return a.Interpret(ctx, actorID, text)
	}

	if kind == replyConfirm {
		return a.Confirm(ctx, actorID, op.ID)
	}
	if err := a.Cancel(ctx, actorID, op.ID); err != nil {
		return nil, err
	}
	return &Response{
		Decision:    shield.DecisionClarify,
		Reason:      "cancelado pelo usuário",
		Actions:     []action.AIAction{},
		OperationID: op.ID,
	}, nil
}

// Parse expõe o parser configurado
func (a *Assistant) Parse(text string) parser.Result {
	return a.parser.Parse(text)
}

// Assess expõe o shield com os limites configurados
func (a *Assistant) Assess(text string, actions []action.AIAction, parsingConfidence *float64) shield.Assessment {
	return shield.Assess(text, actions, parsingConfidence, a.thresholds)
}

// Execute executa ações já aprovadas, sem passar pelo shield
func (a *Assistant) Execute(ctx context.Context, actorID string, actions []action.AIAction) []executor.Result {
	return a.executor.Execute(ctx, actions, actorID)
}

// ResolveDate interpreta uma expressão de data com o relógio do Assistant
func (a *Assistant) ResolveDate(expr string) (time.Time, bool) {
	return a.dates.Resolve(expr)
}

// History lista os comandos do usuário, mais recentes primeiro
func (a *Assistant) History(ctx context.Context, actorID string, limit, offset int) ([]*audit.Entry, error) {
	if a.audit == nil {
		return []*audit.Entry{}, nil
	}
	return a.audit.ListByUser(ctx, actorID, limit, offset)
}

// ClearHistory remove o histórico de comandos do usuário
func (a *Assistant) ClearHistory(ctx context.Context, actorID string) (int64, error) {
	if a.audit == nil {
		return 0, nil
	}
	return a.audit.DeleteByUser(ctx, actorID)
}

// workspace coleta os nomes que o modelo pode referenciar
func (a *Assistant) workspace(ctx context.Context, actorID string) (ai.Workspace, error) {
	ws := ai.Workspace{Today: a.dates.Today(), Sections: map[string][]string{}}

	if _, err := a.store.Projects.GetOrCreateInbox(ctx, actorID); err != nil {
		return ws, fmt.Errorf("falha ao obter Inbox: %w", err)
	}
	projects, err := a.store.Projects.ListAccessible(ctx, actorID)
	if err != nil {
		return ws, fmt.Errorf("falha ao listar projetos: %w", err)
	}
	for _, p := range projects {
		ws.Projects = append(ws.Projects, p.Name)
		sections, err := a.store.Projects.ListSections(ctx, p.ID)
		if err != nil {
			return ws, fmt.Errorf("falha ao listar seções: %w", err)
		}
		for _, s := range sections {
			ws.Sections[p.Name] = append(ws.Sections[p.Name], s.Name)
		}
	}

	labels, err := a.store.Labels.List(ctx, actorID)
	if err != nil {
		return ws, fmt.Errorf("falha ao listar etiquetas: %w", err)
	}
	for _, l := range labels {
		ws.Labels = append(ws.Labels, l.Name)
	}
	return ws, nil
}

// record grava a entrada de auditoria; falhas são apenas registradas no log
func (a *Assistant) record(ctx context.Context, entry *audit.Entry, results []executor.Result) {
	if a.audit == nil {
		return
	}
	if len(results) > 0 {
		if b, err := json.Marshal(results); err == nil {
			entry.Results = b
		}
	}
	if err := a.audit.Save(ctx, entry); err != nil {
		a.logger.Warn("falha ao gravar histórico de comando", "actor", entry.UserID, "error", err.Error())
	}
}
