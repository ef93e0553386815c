// Package shield decide se as ações extraídas de um comando podem ser executadas
// direto, precisam de confirmação ou exigem uma pergunta de esclarecimento.
package shield

import (
	"strings"

	"github.com/hugohenrick/tarefas-ia/pkg/assistant/action"
)

// Decision é o resultado da avaliação
type Decision string

// Decisões possíveis
const (
	DecisionExecute Decision = "execute"
	DecisionSuggest Decision = "suggest"
	DecisionClarify Decision = "clarify"
)

// Quality classifica a qualidade da extração
type Quality string

// Níveis de qualidade
const (
	QualityHigh   Quality = "high"
	QualityMedium Quality = "medium"
	QualityLow    Quality = "low"
)

// Limites fixos da classificação por confiança de parsing
const (
	highParsingConfidence   = 0.85
	mediumParsingConfidence = 0.6
)

// Motivos de decisão
const (
	ReasonNoActions        = "nenhuma ação reconhecida"
	ReasonLowQuality       = "qualidade de parsing baixa"
	ReasonLowParsing       = "confiança de parsing abaixo do mínimo"
	ReasonAmbiguous        = "comando ambíguo"
	ReasonHighConfidence   = "confiança alta"
	ReasonMediumConfidence = "confiança média, requer confirmação"
	ReasonLowConfidence    = "confiança baixa"
)

// Thresholds são os limites configuráveis da decisão
type Thresholds struct {
	Execute              float64 `yaml:"execute" json:"execute"`
	Suggest              float64 `yaml:"suggest" json:"suggest"`
	MinParsingConfidence float64 `yaml:"min_parsing_confidence" json:"minParsingConfidence"`
}

// DefaultThresholds retorna os limites padrão
func DefaultThresholds() Thresholds {
	return Thresholds{Execute: 0.85, Suggest: 0.6, MinParsingConfidence: 0.7}
}

// withDefaults preenche com o padrão os limites não informados
func (t Thresholds) withDefaults() Thresholds {
	d := DefaultThresholds()
	if t.Execute <= 0 {
		t.Execute = d.Execute
	}
	if t.Suggest <= 0 {
		t.Suggest = d.Suggest
	}
	if t.MinParsingConfidence <= 0 {
		t.MinParsingConfidence = d.MinParsingConfidence
	}
	return t
}

// Assessment é o resultado de Assess
type Assessment struct {
	Decision               Decision `json:"decision"`
	Reason                 string   `json:"reason"`
	AverageConfidence      float64  `json:"averageConfidence"`
	ParsingQuality         Quality  `json:"parsingQuality"`
	SuggestedClarification string   `json:"suggestedClarification,omitempty"`
}

// Assess avalia o texto original e as ações extraídas. parsingConfidence é
// opcional: quando nil, a qualidade é derivada da estrutura das ações. Limites
// zerados assumem o valor de DefaultThresholds.
func Assess(text string, actions []action.AIAction, parsingConfidence *float64, th Thresholds) Assessment {
	th = th.withDefaults()
	lang := detectLanguage(text)

	quality := classify(actions, parsingConfidence)
	avg := averageConfidence(actions)

	clarify := func(reason string, kind clarificationKind) Assessment {
		return Assessment{
			Decision:               DecisionClarify,
			Reason:                 reason,
			AverageConfidence:      avg,
			ParsingQuality:         quality,
			SuggestedClarification: clarification(lang, kind, actions),
		}
	}

	if len(actions) == 0 {
		return clarify(ReasonNoActions, clarifyLowQuality)
	}
	if quality == QualityLow {
		return clarify(ReasonLowQuality, clarifyLowQuality)
	}
	if parsingConfidence != nil && *parsingConfidence < th.MinParsingConfidence {
		return clarify(ReasonLowParsing, clarifyLowQuality)
	}
	if ambiguous(text, actions) {
		return clarify(ReasonAmbiguous, clarifyAmbiguous)
	}

	switch {
	case avg >= th.Execute:
		return Assessment{Decision: DecisionExecute, Reason: ReasonHighConfidence, AverageConfidence: avg, ParsingQuality: quality}
	case avg >= th.Suggest:
		return Assessment{Decision: DecisionSuggest, Reason: ReasonMediumConfidence, AverageConfidence: avg, ParsingQuality: quality}
	}
	return clarify(ReasonLowConfidence, clarifyLowConfidence)
}

func classify(actions []action.AIAction, parsingConfidence *float64) Quality {
	if parsingConfidence != nil {
		switch {
		case *parsingConfidence >= highParsingConfidence:
			return QualityHigh
		case *parsingConfidence >= mediumParsingConfidence:
			return QualityMedium
		}
		return QualityLow
	}

	if len(actions) == 0 {
		return QualityLow
	}
	quality := QualityHigh
	for _, a := range actions {
		if !a.Valid() {
			return QualityLow
		}
		if !a.HasCompletePayload() {
			quality = QualityMedium
		}
	}
	return quality
}

func averageConfidence(actions []action.AIAction) float64 {
	if len(actions) == 0 {
		return 0
	}
	var sum float64
	for _, a := range actions {
		sum += a.Confidence
	}
	return sum / float64(len(actions))
}

var uncertaintyMarkers = []string{
	"posiblemente", "tal vez", "quizás", "quizas", "quizá", "quiza", "probablemente", "puede que",
	"no estoy seguro", "no está claro", "no esta claro", "ambiguo", "ambigua", "supongo",
	"maybe", "perhaps", "possibly", "probably", "might", "not sure", "unclear", "ambiguous", "i guess",
}

var disjunctionMarkers = []string{"o", "u", "o bien", "or", "either"}

// ambiguous aplica os três sinais de ambiguidade: incerteza na explicação,
// disjunção com pergunta no texto e ações opostas sobre a mesma entidade
func ambiguous(text string, actions []action.AIAction) bool {
	for _, a := range actions {
		if containsPhrase(words(a.Explanation), uncertaintyMarkers) {
			return true
		}
	}

	if strings.ContainsAny(text, "?¿") && containsPhrase(words(text), disjunctionMarkers) {
		return true
	}

	for i := range actions {
		for j := i + 1; j < len(actions); j++ {
			if opposing(actions[i], actions[j]) {
				return true
			}
		}
	}
	return false
}

type polarity int

const (
	neutral polarity = iota
	adds
	removes
)

func polarityOf(t action.Type) polarity {
	switch t {
	case action.TypeCreate, action.TypeCreateBulk, action.TypeCreateWithSubtasks,
		action.TypeCreateProject, action.TypeCreateSection, action.TypeCreateLabel:
		return adds
	case action.TypeDelete, action.TypeDeleteBulk:
		return removes
	}
	return neutral
}

// opposing considera opostas uma criação e uma remoção sobre a mesma entidade,
// exceto quando ambas nomeiam alvos diferentes
func opposing(a, b action.AIAction) bool {
	if a.Entity != b.Entity {
		return false
	}
	pa, pb := polarityOf(a.Type), polarityOf(b.Type)
	if pa == neutral || pb == neutral || pa == pb {
		return false
	}
	ta, tb := target(a), target(b)
	if ta != "" && tb != "" && !strings.EqualFold(ta, tb) {
		return false
	}
	return true
}

// target devolve o nome do registro afetado pela ação, quando o payload o informa
func target(a action.AIAction) string {
	switch p := a.Data.(type) {
	case *action.CreateTask:
		return p.Title
	case *action.CreateTaskTree:
		return p.Title
	case *action.DeleteTask:
		return p.TaskTitle
	case *action.DeleteNamed:
		return p.Name
	case *action.CreateProject:
		return p.Name
	case *action.CreateSection:
		return p.Name
	case *action.CreateLabel:
		return p.Name
	}
	return ""
}

// words normaliza o texto para busca de frases: minúsculas, só letras e dígitos
// separados por um espaço, com espaço nas pontas
func words(s string) string {
	var b strings.Builder
	b.WriteByte(' ')
	space := true
	for _, r := range strings.ToLower(s) {
		if isWordRune(r) {
			b.WriteRune(r)
			space = false
			continue
		}
		if !space {
			b.WriteByte(' ')
			space = true
		}
	}
	if !space {
		b.WriteByte(' ')
	}
	return b.String()
}

func containsPhrase(normalized string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(normalized, " "+p+" ") {
			return true
		}
	}
	return false
}
