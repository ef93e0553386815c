// Package parser extrai ações estruturadas do texto devolvido pelo provedor de IA.
//
// As estratégias são tentadas em ordem e a primeira que produz ao menos uma ação
// válida vence: bloco de código, array JSON, objeto com "actions", extração
// agressiva objeto a objeto e, por fim, a heurística verbal por palavras-chave.
package parser

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/hugohenrick/tarefas-ia/pkg/assistant/action"
)

// Method identifica a estratégia que produziu o resultado
type Method string

// Estratégias de extração
const (
	MethodCodeBlock  Method = "code_block"
	MethodArrayJSON  Method = "array_json"
	MethodObjectJSON Method = "object_json"
	MethodAggressive Method = "aggressive_extraction"
	MethodHeuristic  Method = "heuristic_verbal"
	MethodEmptyInput Method = "empty_input"
	MethodFailed     Method = "failed"
)

// Confiança atribuída a cada estratégia
const (
	ConfidenceCodeBlock  = 0.95
	ConfidenceArrayJSON  = 0.9
	ConfidenceObjectJSON = 0.9
	ConfidenceAggressive = 0.7
)

// Result é o resultado imutável de uma chamada a Parse
type Result struct {
	Actions           []action.AIAction `json:"actions"`
	ParsingConfidence float64           `json:"parsingConfidence"`
	Method            Method            `json:"method"`
	Error             string            `json:"error,omitempty"`
}

// Parser aplica as estratégias de extração
type Parser struct {
	// Heuristic habilita a última estratégia (palavras-chave). Sem ela, textos sem
	// JSON reconhecível terminam com MethodFailed.
	Heuristic bool
}

// New cria um Parser
func New(heuristic bool) *Parser {
	return &Parser{Heuristic: heuristic}
}

var defaultParser = New(true)

// Parse extrai ações com o parser padrão (heurística habilitada)
func Parse(text string) Result {
	return defaultParser.Parse(text)
}

var (
	fencePattern    = regexp.MustCompile("(?s)```[ \\t]*(?:json|JSON|javascript)?[ \\t]*\\r?\\n?(.*?)```")
	noisePrefix     = regexp.MustCompile(`(?im)^\s*(?:respuesta|response|output|salida|json|acciones|actions)\s*:\s*`)
	fenceMarker     = regexp.MustCompile("```(?:json|JSON)?")
	trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)
)

// Parse nunca entra em pânico e sempre devolve um Result bem formado
func (p *Parser) Parse(text string) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = Result{
				Actions: []action.AIAction{},
				Method:  MethodFailed,
				Error:   fmt.Sprintf("falha interna no parser: %v", r),
			}
		}
	}()

	if strings.TrimSpace(text) == "" {
		return Result{Actions: []action.AIAction{}, Method: MethodEmptyInput, Error: "texto vazio"}
	}

	if actions := fromCodeBlocks(text); len(actions) > 0 {
		return Result{Actions: actions, ParsingConfidence: ConfidenceCodeBlock, Method: MethodCodeBlock}
	}
	if actions := fromArray(text); len(actions) > 0 {
		return Result{Actions: actions, ParsingConfidence: ConfidenceArrayJSON, Method: MethodArrayJSON}
	}
	if actions := fromActionsObject(text); len(actions) > 0 {
		return Result{Actions: actions, ParsingConfidence: ConfidenceObjectJSON, Method: MethodObjectJSON}
	}
	if actions := aggressive(text); len(actions) > 0 {
		return Result{Actions: actions, ParsingConfidence: ConfidenceAggressive, Method: MethodAggressive}
	}

	if p.Heuristic {
		a := heuristic(text)
		return Result{Actions: []action.AIAction{a}, ParsingConfidence: a.Confidence, Method: MethodHeuristic}
	}

	return Result{Actions: []action.AIAction{}, Method: MethodFailed, Error: "nenhuma ação reconhecida no texto"}
}

func fromCodeBlocks(text string) []action.AIAction {
	for _, m := range fencePattern.FindAllStringSubmatch(text, -1) {
		var v any
		if err := json.Unmarshal([]byte(strings.TrimSpace(m[1])), &v); err != nil {
			continue
		}
		if actions := actionsFromValue(v); len(actions) > 0 {
			return actions
		}
	}
	return nil
}

func fromArray(text string) []action.AIAction {
	for _, candidate := range scanTopLevel(text, "[") {
		var items []any
		if err := json.Unmarshal([]byte(candidate), &items); err != nil {
			continue
		}
		if actions := action.Sanitize(items); len(actions) > 0 {
			return actions
		}
	}
	return nil
}

func fromActionsObject(text string) []action.AIAction {
	for _, candidate := range scanTopLevel(text, "{") {
		var obj struct {
			Actions []any `json:"actions"`
		}
		if err := json.Unmarshal([]byte(candidate), &obj); err != nil {
			continue
		}
		if actions := action.Sanitize(obj.Actions); len(actions) > 0 {
			return actions
		}
	}
	return nil
}

// actionsFromValue aceita um array, um objeto {"actions": [...]} ou uma ação isolada
func actionsFromValue(v any) []action.AIAction {
	switch t := v.(type) {
	case []any:
		return action.Sanitize(t)
	case map[string]any:
		if list, ok := t["actions"].([]any); ok {
			return action.Sanitize(list)
		}
		return action.Sanitize([]any{t})
	}
	return nil
}

// aggressive remove ruído de markdown e tenta cada objeto isoladamente,
// descendo para o interior de candidatos que não são ações válidas.
func aggressive(text string) []action.AIAction {
	cleaned := fenceMarker.ReplaceAllString(text, "")
	cleaned = noisePrefix.ReplaceAllString(cleaned, "")

	actions := []action.AIAction{}
	collectObjects(cleaned, &actions, 0)
	return actions
}

const maxAggressiveDepth = 8

func collectObjects(s string, out *[]action.AIAction, depth int) {
	if depth > maxAggressiveDepth {
		return
	}
	for _, candidate := range scanTopLevel(s, "{[") {
		fixed := trailingCommaRe.ReplaceAllString(candidate, "$1")

		var v any
		if err := json.Unmarshal([]byte(fixed), &v); err == nil {
			if m, ok := v.(map[string]any); ok && action.IsValid(m) {
				if a, err := action.Decode(m); err == nil {
					*out = append(*out, a)
					continue
				}
			}
		}

		inner := candidate[1 : len(candidate)-1]
		collectObjects(inner, out, depth+1)
	}
}
