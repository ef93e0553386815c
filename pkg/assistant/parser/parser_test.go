package parser

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugohenrick/tarefas-ia/pkg/assistant/action"
)

func TestParse_ArrayJSON(t *testing.T) {
	res := Parse(`[{"type":"create","entity":"task","data":{"titulo":"Test"},"confidence":0.9,"explanation":"x"}]`)

	require.Len(t, res.Actions, 1)
	assert.Equal(t, MethodArrayJSON, res.Method)
	assert.GreaterOrEqual(t, res.ParsingConfidence, 0.9)
	assert.Empty(t, res.Error)

	a := res.Actions[0]
	assert.Equal(t, action.TypeCreate, a.Type)
	assert.Equal(t, action.EntityTask, a.Entity)
	require.IsType(t, &action.CreateTask{}, a.Data)
	assert.Equal(t, "Test", a.Data.(*action.CreateTask).Title)
}

func TestParse_HeuristicCreateTask(t *testing.T) {
	res := Parse("crear una tarea para comprar leche")

	require.Len(t, res.Actions, 1)
	assert.Equal(t, MethodHeuristic, res.Method)

	a := res.Actions[0]
	assert.Equal(t, action.TypeCreate, a.Type)
	assert.Equal(t, action.EntityTask, a.Entity)
	assert.Less(t, a.Confidence, 0.5)
	assert.Equal(t, a.Confidence, res.ParsingConfidence)

	require.IsType(t, &action.CreateTask{}, a.Data)
	assert.Equal(t, "comprar leche", a.Data.(*action.CreateTask).Title)
}

func TestParse_CodeBlock(t *testing.T) {
	text := "Claro, aquí tienes:\n```json\n" +
		`[{"type":"complete","entity":"task","data":{"taskTitle":"informe"},"confidence":0.92,"explanation":"completar"}]` +
		"\n```\nAvísame si necesitas algo más."

	res := Parse(text)

	require.Len(t, res.Actions, 1)
	assert.Equal(t, MethodCodeBlock, res.Method)
	assert.Equal(t, ConfidenceCodeBlock, res.ParsingConfidence)
	assert.Equal(t, action.TypeComplete, res.Actions[0].Type)
}

func TestParse_CodeBlockWithActionsObject(t *testing.T) {
	text := "```\n" + `{"actions":[{"type":"query","entity":"task","query":"hoy","confidence":0.8,"explanation":"consultar"}]}` + "\n```"

	res := Parse(text)

	require.Len(t, res.Actions, 1)
	assert.Equal(t, MethodCodeBlock, res.Method)
	assert.Equal(t, "hoy", res.Actions[0].Query)
}

func TestParse_ObjectWithActions(t *testing.T) {
	text := `Resultado: {"actions": [
		{"type":"create_project","entity":"project","data":{"name":"Casa"},"confidence":0.88,"explanation":"nuevo proyecto"},
		{"type":"create_label","entity":"label","data":{"nombre":"urgente"},"confidence":0.86,"explanation":"nueva etiqueta"}
	]}`

	res := Parse(text)

	assert.Equal(t, MethodObjectJSON, res.Method)
	assert.Equal(t, ConfidenceObjectJSON, res.ParsingConfidence)

	want := []action.AIAction{
		{
			Type: action.TypeCreateProject, Entity: action.EntityProject,
			Data:       &action.CreateProject{Name: "Casa"},
			Confidence: 0.88, Explanation: "nuevo proyecto",
		},
		{
			Type: action.TypeCreateLabel, Entity: action.EntityLabel,
			Data:       &action.CreateLabel{Name: "urgente"},
			Confidence: 0.86, Explanation: "nueva etiqueta",
		},
	}
	if diff := cmp.Diff(want, res.Actions); diff != "" {
		t.Errorf("ações diferentes (-want +got):\n%s", diff)
	}
}

func TestParse_BracketInsideStringBeforeArray(t *testing.T) {
	// O ']' dentro da string do primeiro array não pode encerrar a varredura
	text := `Nota: ["ver ] depois"] e agora
[{"type":"delete","entity":"task","data":{"taskTitle":"vieja [borrador]"},"confidence":0.9,"explanation":"borrar"}]`

	res := Parse(text)

	require.Len(t, res.Actions, 1)
	assert.Equal(t, MethodArrayJSON, res.Method)
	require.IsType(t, &action.DeleteTask{}, res.Actions[0].Data)
	assert.Equal(t, "vieja [borrador]", res.Actions[0].Data.(*action.DeleteTask).TaskTitle)
}

func TestParse_AggressiveExtraction(t *testing.T) {
	// Array malformado (vírgula sobrando e objeto sem explanation) força a extração objeto a objeto
	text := `acciones: [
		{"type":"create","entity":"task","data":{"title":"Pagar luz"},"confidence":0.8,"explanation":"crear"},
		{"type":"create","entity":"task","confidence":0.8},
		{"type":"create","entity":"task","data":{"title":"Llamar a Ana",},"confidence":0.75,"explanation":"crear"}
	`

	res := Parse(text)

	assert.Equal(t, MethodAggressive, res.Method)
	assert.Equal(t, ConfidenceAggressive, res.ParsingConfidence)
	require.Len(t, res.Actions, 2)
	assert.Equal(t, "Pagar luz", res.Actions[0].Data.(*action.CreateTask).Title)
	assert.Equal(t, "Llamar a Ana", res.Actions[1].Data.(*action.CreateTask).Title)
}

func TestParse_SanitizesInvalidItems(t *testing.T) {
	text := `[
		{"type":"create","entity":"task","data":{"titulo":"A"},"confidence":0.9,"explanation":"ok"},
		{"type":"create","entity":"task","data":{"titulo":"B"},"confidence":"alta","explanation":"confiança textual"},
		{"type":"teleport","entity":"task","confidence":0.9,"explanation":"tipo desconhecido"},
		"texto solto"
	]`

	res := Parse(text)

	assert.Equal(t, MethodArrayJSON, res.Method)
	require.Len(t, res.Actions, 2)
	assert.Equal(t, "A", res.Actions[0].Data.(*action.CreateTask).Title)
	assert.Equal(t, action.Type("teleport"), res.Actions[1].Type)
}

func TestParse_EmptyInput(t *testing.T) {
	for _, text := range []string{"", "   ", "\n\t"} {
		res := Parse(text)
		assert.Equal(t, MethodEmptyInput, res.Method)
		assert.NotNil(t, res.Actions)
		assert.Empty(t, res.Actions)
		assert.Zero(t, res.ParsingConfidence)
	}
}

func TestParse_FailedWithoutHeuristic(t *testing.T) {
	p := New(false)

	res := p.Parse("no tengo idea de qué hacer")

	assert.Equal(t, MethodFailed, res.Method)
	assert.NotNil(t, res.Actions)
	assert.Empty(t, res.Actions)
	assert.NotEmpty(t, res.Error)
}

func TestParse_NeverPanics(t *testing.T) {
	inputs := []string{
		"{", "}", "[", "]", "[[[[", "]]]]", "{{{}}}", `{"actions":`, `"`, `\`, "```", "```json",
		`[{"type":1}]`, `{"actions":[null,1,"x",[]]}`, strings.Repeat("[", 500) + strings.Repeat("]", 500),
		strings.Repeat(`{"a":`, 100), "\xff\xfe", `[{"type":"create","entity":"task","data":[1,2],"confidence":0.9,"explanation":"x"}]`,
	}

	for _, in := range inputs {
		assert.NotPanics(t, func() {
			res := Parse(in)
			assert.NotNil(t, res.Actions)
			assert.NotEmpty(t, res.Method)
		}, "entrada %q", in)
	}
}

func TestParse_ValidArrayConfidenceProperty(t *testing.T) {
	inputs := []string{
		`[{"type":"query","entity":"task","confidence":0.5,"explanation":"x"}]`,
		"```json\n[{\"type\":\"query\",\"entity\":\"task\",\"confidence\":0.5,\"explanation\":\"x\"}]\n```",
		`[{"type":"create","entity":"task","data":{"titulo":"comprar leche","prioridad":"alta"},"confidence":0.9,"explanation":"x"}]`,
		`[{"type":"create","entity":"task","data":{"titulo":"comprar leche","labels":"super"},"confidence":0.9,"explanation":"x"}]`,
		`[{"type":"create","entity":"task","data":"comprar leche","confidence":0.9,"explanation":"x"}]`,
		`[{"type":"update","entity":"project","data":{"name":"Casa"},"confidence":0.9,"explanation":"x"}]`,
		`[{"type":"update_bulk","entity":"task","data":{"filter":{"priority":"baja"},"updates":{"completada":"sí"}},"confidence":0.8,"explanation":"x"}]`,
		"```json\n[{\"type\":\"create\",\"entity\":\"task\",\"data\":{\"titulo\":\"a\",\"prioridad\":\"media\"},\"confidence\":0.9,\"explanation\":\"x\"}]\n```",
	}
	for _, in := range inputs {
		res := Parse(in)
		assert.Contains(t, []Method{MethodArrayJSON, MethodCodeBlock}, res.Method, in)
		assert.GreaterOrEqual(t, res.ParsingConfidence, 0.9, in)
		assert.Len(t, res.Actions, 1, in)
	}
}

func TestParse_TypedPayloadIsKept(t *testing.T) {
	res := Parse(`[{"type":"create","entity":"task","data":{"titulo":"comprar leche","prioridad":"alta","labels":"super"},"confidence":0.9,"explanation":"x"}]`)

	require.Equal(t, MethodArrayJSON, res.Method)
	require.Len(t, res.Actions, 1)
	p, ok := res.Actions[0].Data.(*action.CreateTask)
	require.True(t, ok)
	assert.Equal(t, "comprar leche", p.Title)
	assert.Equal(t, 4, p.Priority)
	assert.Equal(t, []string{"super"}, p.Labels)
}

func TestParse_UnclosedOpenersAreLinear(t *testing.T) {
	inputs := []string{
		strings.Repeat("{", 200000),
		strings.Repeat("[", 200000),
		strings.Repeat(`{"a":[`, 40000),
	}

	for _, in := range inputs {
		start := time.Now()
		res := Parse(in)
		assert.Equal(t, MethodHeuristic, res.Method)
		assert.Less(t, time.Since(start), 5*time.Second)
	}
}

func TestParse_ArrayAfterUnclosedOpener(t *testing.T) {
	res := Parse(`{ empiezo mal [{"type":"query","entity":"task","confidence":0.8,"explanation":"x"}]`)

	assert.Equal(t, MethodArrayJSON, res.Method)
	require.Len(t, res.Actions, 1)
}

func TestHeuristic(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		wantType   action.Type
		wantEntity action.Entity
		wantConf   float64
	}{
		{"sem palavras-chave", "hola qué tal", action.TypeQuery, action.EntityTask, 0.3},
		{"nada reconhecível", "zzz", action.TypeQuery, action.EntityTask, 0.2},
		{"consulta", "muéstrame las tareas de hoy", action.TypeQuery, action.EntityTask, 0.4},
		{"remoção em inglês", "delete the project Garden", action.TypeDelete, action.EntityProject, 0.4},
		{"criação de projeto", "create a project called Garden", action.TypeCreate, action.EntityProject, 0.4},
		{"atualização", "cambia la tarea informe", action.TypeUpdate, action.EntityTask, 0.4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := heuristic(tt.text)
			assert.Equal(t, tt.wantType, a.Type)
			assert.Equal(t, tt.wantEntity, a.Entity)
			assert.InDelta(t, tt.wantConf, a.Confidence, 1e-9)
			assert.LessOrEqual(t, a.Confidence, 0.4)
			assert.NotEmpty(t, a.Explanation)
		})
	}
}

func TestHeuristic_ExtractsPriorityAndDate(t *testing.T) {
	a := heuristic("añadir tarea comprar pan prioridad alta para mañana")

	require.IsType(t, &action.CreateTask{}, a.Data)
	p := a.Data.(*action.CreateTask)
	assert.Equal(t, "comprar pan", p.Title)
	assert.Equal(t, 4, p.Priority)
	assert.Equal(t, "mañana", p.DueDate)
}

func TestHeuristic_CreateProjectName(t *testing.T) {
	a := heuristic("create a project called Garden")

	require.IsType(t, &action.CreateProject{}, a.Data)
	assert.Equal(t, "Garden", a.Data.(*action.CreateProject).Name)
}

func TestHeuristic_QueryKeepsText(t *testing.T) {
	a := heuristic("  muéstrame las tareas de hoy ")

	assert.Nil(t, a.Data)
	assert.Equal(t, "muéstrame las tareas de hoy", a.Query)
}

func TestScanTopLevel(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		openers string
		want    []string
	}{
		{"objeto simples", `x {"a":1} y`, "{", []string{`{"a":1}`}},
		{"aninhado", `{"a":{"b":[1,2]}}`, "{", []string{`{"a":{"b":[1,2]}}`}},
		{"string com chave", `{"a":"}"} {"b":2}`, "{", []string{`{"a":"}"}`, `{"b":2}`}},
		{"aspas escapadas", `{"a":"\"}"}`, "{", []string{`{"a":"\"}"}`}},
		{"aspas soltas fora", `it's "quoted" [1]`, "[", []string{`[1]`}},
		{"ignora outro delimitador", `[1] {"a":1}`, "{", []string{`{"a":1}`}},
		{"desbalanceado", `{"a":1`, "{", nil},
		{"abertura sem par antes", `{ texto [1,[2]]`, "[", []string{`[1,[2]]`}},
		{"fechamento solto", `] } [1]`, "[", []string{`[1]`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, scanTopLevel(tt.in, tt.openers))
		})
	}
}
