package shield

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hugohenrick/tarefas-ia/pkg/assistant/action"
)

func ptr(f float64) *float64 { return &f }

func createTask(title string, confidence float64) action.AIAction {
	return action.AIAction{
		Type:        action.TypeCreate,
		Entity:      action.EntityTask,
		Data:        &action.CreateTask{TaskFields: action.TaskFields{Title: title}},
		Confidence:  confidence,
		Explanation: "crear tarea",
	}
}

func deleteTask(title string, confidence float64) action.AIAction {
	return action.AIAction{
		Type:        action.TypeDelete,
		Entity:      action.EntityTask,
		Data:        &action.DeleteTask{TaskTitle: title},
		Confidence:  confidence,
		Explanation: "borrar tarea",
	}
}

func TestAssess_NoActions(t *testing.T) {
	for _, pc := range []*float64{nil, ptr(0.95), ptr(0.1)} {
		got := Assess("lo que sea", nil, pc, DefaultThresholds())
		assert.Equal(t, DecisionClarify, got.Decision)
		assert.Zero(t, got.AverageConfidence)
		assert.NotEmpty(t, got.SuggestedClarification)
	}

	got := Assess("x", []action.AIAction{}, nil, DefaultThresholds())
	assert.Equal(t, DecisionClarify, got.Decision)
	assert.Equal(t, QualityLow, got.ParsingQuality)
}

func TestAssess_Execute(t *testing.T) {
	got := Assess("crear tarea informe", []action.AIAction{createTask("informe", 0.95)}, nil, DefaultThresholds())

	assert.Equal(t, DecisionExecute, got.Decision)
	assert.Equal(t, QualityHigh, got.ParsingQuality)
	assert.InDelta(t, 0.95, got.AverageConfidence, 1e-9)
	assert.Empty(t, got.SuggestedClarification)
}

func TestAssess_ExecuteAllAboveThreshold(t *testing.T) {
	actions := []action.AIAction{createTask("a", 0.85), createTask("b", 0.9), createTask("c", 1)}

	got := Assess("crear a, b y c", actions, ptr(0.9), DefaultThresholds())

	assert.Equal(t, DecisionExecute, got.Decision)
}

func TestAssess_Suggest(t *testing.T) {
	got := Assess("crear tarea informe", []action.AIAction{createTask("informe", 0.7)}, ptr(0.9), DefaultThresholds())

	assert.Equal(t, DecisionSuggest, got.Decision)
	assert.InDelta(t, 0.7, got.AverageConfidence, 1e-9)
}

func TestAssess_LowConfidenceClarifies(t *testing.T) {
	got := Assess("crear tarea informe", []action.AIAction{createTask("informe", 0.4)}, ptr(0.9), DefaultThresholds())

	assert.Equal(t, DecisionClarify, got.Decision)
	assert.Equal(t, ReasonLowConfidence, got.Reason)
	assert.Contains(t, got.SuggestedClarification, "crear una tarea")
	assert.Contains(t, got.SuggestedClarification, "informe")
}

func TestAssess_ParsingQuality(t *testing.T) {
	tests := []struct {
		name string
		pc   *float64
		want Quality
	}{
		{"explícita alta", ptr(0.85), QualityHigh},
		{"explícita média", ptr(0.6), QualityMedium},
		{"explícita baixa", ptr(0.59), QualityLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Assess("crear tarea x", []action.AIAction{createTask("x", 0.9)}, tt.pc, DefaultThresholds())
			assert.Equal(t, tt.want, got.ParsingQuality)
		})
	}
}

func TestAssess_StructuralQuality(t *testing.T) {
	incomplete := action.AIAction{Type: action.TypeCreate, Entity: action.EntityTask, Confidence: 0.9, Explanation: "sin datos"}
	got := Assess("crear tarea", []action.AIAction{incomplete}, nil, DefaultThresholds())
	assert.Equal(t, QualityMedium, got.ParsingQuality)
	assert.Equal(t, DecisionExecute, got.Decision)

	invalid := action.AIAction{Type: action.TypeCreate, Entity: action.EntityTask, Confidence: 1.5, Explanation: "x"}
	got = Assess("crear tarea", []action.AIAction{createTask("a", 0.9), invalid}, nil, DefaultThresholds())
	assert.Equal(t, QualityLow, got.ParsingQuality)
	assert.Equal(t, DecisionClarify, got.Decision)
	assert.Equal(t, ReasonLowQuality, got.Reason)
}

func TestAssess_PayloadlessActionIsMediumQuality(t *testing.T) {
	unknown := action.AIAction{Type: action.TypeUpdate, Entity: action.EntityProject, Confidence: 0.9, Explanation: "renombrar proyecto"}

	got := Assess("renombrar proyecto Casa", []action.AIAction{unknown}, nil, DefaultThresholds())

	assert.Equal(t, QualityMedium, got.ParsingQuality)
}

func TestAssess_MinParsingConfidence(t *testing.T) {
	// 0.65 é qualidade média, mas fica abaixo do mínimo de 0.7
	got := Assess("crear tarea x", []action.AIAction{createTask("x", 0.95)}, ptr(0.65), DefaultThresholds())

	assert.Equal(t, QualityMedium, got.ParsingQuality)
	assert.Equal(t, DecisionClarify, got.Decision)
	assert.Equal(t, ReasonLowParsing, got.Reason)
}

func TestAssess_HeuristicResultAlwaysClarifies(t *testing.T) {
	got := Assess("crear una tarea para comprar leche", []action.AIAction{createTask("comprar leche", 0.4)}, ptr(0.4), DefaultThresholds())

	assert.Equal(t, DecisionClarify, got.Decision)
}

func TestAssess_Ambiguity(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		actions []action.AIAction
	}{
		{
			name: "incerteza na explicação",
			text: "crear tarea informe",
			actions: []action.AIAction{{
				Type: action.TypeCreate, Entity: action.EntityTask, Confidence: 0.95,
				Data:        &action.CreateTask{TaskFields: action.TaskFields{Title: "informe"}},
				Explanation: "Posiblemente el usuario quiere crear una tarea",
			}},
		},
		{
			name: "incerteza em inglês",
			text: "add report",
			actions: []action.AIAction{{
				Type: action.TypeCreate, Entity: action.EntityTask, Confidence: 0.95,
				Data:        &action.CreateTask{TaskFields: action.TaskFields{Title: "report"}},
				Explanation: "The user maybe wants a task",
			}},
		},
		{
			name:    "disjunção com pergunta",
			text:    "¿borro la tarea informe o la completo?",
			actions: []action.AIAction{deleteTask("informe", 0.95)},
		},
		{
			name:    "ações opostas sobre o mesmo alvo",
			text:    "crear y borrar informe",
			actions: []action.AIAction{createTask("informe", 0.95), deleteTask("Informe", 0.95)},
		},
		{
			name: "remoção em lote contra criação",
			text: "crear informe y borrar las completadas",
			actions: []action.AIAction{createTask("informe", 0.95), {
				Type: action.TypeDeleteBulk, Entity: action.EntityTask, Confidence: 0.95, Explanation: "borrar completadas",
				Data: &action.BulkDelete{Filter: action.Filter{Completed: boolPtr(true)}},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Assess(tt.text, tt.actions, ptr(0.95), DefaultThresholds())
			assert.Equal(t, DecisionClarify, got.Decision)
			assert.Equal(t, ReasonAmbiguous, got.Reason)
			assert.NotEmpty(t, got.SuggestedClarification)
		})
	}
}

func TestAssess_NotAmbiguous(t *testing.T) {
	// Alvos diferentes não são opostos; disjunção sem pergunta também não
	actions := []action.AIAction{createTask("nuevo", 0.95), deleteTask("viejo", 0.95)}
	got := Assess("crea nuevo o borra viejo", actions, ptr(0.95), DefaultThresholds())

	assert.Equal(t, DecisionExecute, got.Decision)
}

func TestAssess_CustomThresholds(t *testing.T) {
	th := Thresholds{Execute: 0.95, Suggest: 0.5, MinParsingConfidence: 0.5}
	actions := []action.AIAction{createTask("x", 0.9)}

	assert.Equal(t, DecisionSuggest, Assess("crear x", actions, ptr(0.9), th).Decision)
	assert.Equal(t, DecisionExecute, Assess("crear x", actions, ptr(0.9), Thresholds{}).Decision)
}

func TestAssess_ClarificationLanguage(t *testing.T) {
	actions := []action.AIAction{createTask("report", 0.3)}

	en := Assess("create a task for the report", actions, ptr(0.9), DefaultThresholds())
	assert.Contains(t, en.SuggestedClarification, "Do you want to create a task")

	es := Assess("crear una tarea para el informe", actions, ptr(0.9), DefaultThresholds())
	assert.Contains(t, es.SuggestedClarification, "¿Quieres crear una tarea")
}

func TestDetectLanguage(t *testing.T) {
	assert.Equal(t, English, detectLanguage("show my tasks for today"))
	assert.Equal(t, Spanish, detectLanguage("muéstrame las tareas de hoy"))
	assert.Equal(t, Spanish, detectLanguage(""))
}

func boolPtr(b bool) *bool { return &b }
