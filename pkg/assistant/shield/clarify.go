package shield

import (
	"fmt"
	"unicode"

	"github.com/hugohenrick/tarefas-ia/pkg/assistant/action"
)

// Language é o idioma usado nas perguntas de esclarecimento
type Language string

// Idiomas suportados
const (
	Spanish Language = "es"
	English Language = "en"
)

type clarificationKind int

const (
	clarifyLowQuality clarificationKind = iota
	clarifyAmbiguous
	clarifyLowConfidence
)

var spanishHints = []string{
	"el", "la", "los", "las", "de", "para", "una", "un", "tarea", "tareas", "proyecto", "crear", "añadir",
	"borrar", "eliminar", "mañana", "hoy", "con", "que", "qué", "y", "en", "mis", "etiqueta",
}

var englishHints = []string{
	"the", "a", "an", "of", "for", "to", "task", "tasks", "project", "create", "add", "delete",
	"remove", "tomorrow", "today", "with", "what", "and", "in", "my", "label", "show",
}

// detectLanguage conta palavras indicativas de cada idioma; empate fica em espanhol
func detectLanguage(text string) Language {
	normalized := words(text)
	es, en := 0, 0
	for _, w := range spanishHints {
		if containsPhrase(normalized, []string{w}) {
			es++
		}
	}
	for _, w := range englishHints {
		if containsPhrase(normalized, []string{w}) {
			en++
		}
	}
	if en > es {
		return English
	}
	return Spanish
}

var verbs = map[Language]map[action.Type]string{
	Spanish: {
		action.TypeCreate:             "crear",
		action.TypeCreateBulk:         "crear",
		action.TypeCreateWithSubtasks: "crear con subtareas",
		action.TypeCreateProject:      "crear",
		action.TypeCreateSection:      "crear",
		action.TypeCreateLabel:        "crear",
		action.TypeAddComment:         "comentar",
		action.TypeCreateReminder:     "programar",
		action.TypeUpdate:             "actualizar",
		action.TypeUpdateBulk:         "actualizar",
		action.TypeComplete:           "completar",
		action.TypeDelete:             "eliminar",
		action.TypeDeleteBulk:         "eliminar",
		action.TypeMoveBulk:           "mover",
		action.TypeReorder:            "reordenar",
		action.TypeQuery:              "consultar",
	},
	English: {
		action.TypeCreate:             "create",
		action.TypeCreateBulk:         "create",
		action.TypeCreateWithSubtasks: "create with subtasks",
		action.TypeCreateProject:      "create",
		action.TypeCreateSection:      "create",
		action.TypeCreateLabel:        "create",
		action.TypeAddComment:         "comment on",
		action.TypeCreateReminder:     "schedule",
		action.TypeUpdate:             "update",
		action.TypeUpdateBulk:         "update",
		action.TypeComplete:           "complete",
		action.TypeDelete:             "delete",
		action.TypeDeleteBulk:         "delete",
		action.TypeMoveBulk:           "move",
		action.TypeReorder:            "reorder",
		action.TypeQuery:              "look up",
	},
}

var nouns = map[Language]map[action.Entity]string{
	Spanish: {
		action.EntityTask:     "una tarea",
		action.EntityProject:  "un proyecto",
		action.EntityLabel:    "una etiqueta",
		action.EntitySection:  "una sección",
		action.EntityComment:  "un comentario",
		action.EntityReminder: "un recordatorio",
	},
	English: {
		action.EntityTask:     "a task",
		action.EntityProject:  "a project",
		action.EntityLabel:    "a label",
		action.EntitySection:  "a section",
		action.EntityComment:  "a comment",
		action.EntityReminder: "a reminder",
	},
}

var pluralNouns = map[Language]map[action.Entity]string{
	Spanish: {action.EntityTask: "varias tareas"},
	English: {action.EntityTask: "several tasks"},
}

var templates = map[Language]map[clarificationKind][2]string{
	Spanish: {
		clarifyLowQuality: {
			"No entendí bien lo que necesitas. ¿Puedes decirme qué quieres hacer (crear, actualizar, completar o eliminar) y sobre qué?",
			"No pude completar la interpretación. ¿Quieres %s? Dime el nombre o los detalles que faltan.",
		},
		clarifyAmbiguous: {
			"Tu petición admite más de una interpretación. ¿Puedes concretar qué quieres hacer?",
			"Tu petición admite más de una interpretación. ¿Quieres %s? Confírmalo o dame más detalles.",
		},
		clarifyLowConfidence: {
			"No estoy seguro de haberte entendido. ¿Puedes reformularlo?",
			"No estoy seguro de haberte entendido. ¿Quieres %s?",
		},
	},
	English: {
		clarifyLowQuality: {
			"I didn't quite understand. Can you tell me what you want to do (create, update, complete or delete) and on what?",
			"I couldn't fully interpret that. Do you want to %s? Tell me the name or the missing details.",
		},
		clarifyAmbiguous: {
			"Your request could mean more than one thing. Can you be more specific?",
			"Your request could mean more than one thing. Do you want to %s? Confirm or give me more details.",
		},
		clarifyLowConfidence: {
			"I'm not sure I understood. Can you rephrase it?",
			"I'm not sure I understood. Do you want to %s?",
		},
	},
}

// clarification gera a pergunta no idioma do usuário. Quando há uma ação
// inferida, a pergunta nomeia o tipo e a entidade dela.
func clarification(lang Language, kind clarificationKind, actions []action.AIAction) string {
	tpl := templates[lang][kind]
	if len(actions) == 0 {
		return tpl[0]
	}
	phrase := describe(lang, actions[0])
	if phrase == "" {
		return tpl[0]
	}
	return fmt.Sprintf(tpl[1], phrase)
}

func describe(lang Language, a action.AIAction) string {
	verb, ok := verbs[lang][a.Type]
	if !ok {
		return ""
	}
	noun := nouns[lang][a.Entity]
	if a.Type == action.TypeCreateBulk || a.Type == action.TypeUpdateBulk ||
		a.Type == action.TypeDeleteBulk || a.Type == action.TypeMoveBulk {
		if plural, ok := pluralNouns[lang][a.Entity]; ok {
			noun = plural
		}
	}
	if noun == "" {
		return verb
	}
	if name := target(a); name != "" {
		return fmt.Sprintf("%s %s \"%s\"", verb, noun, name)
	}
	return verb + " " + noun
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
