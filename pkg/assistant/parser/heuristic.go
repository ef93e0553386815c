package parser

import (
	"regexp"
	"strings"

	"github.com/hugohenrick/tarefas-ia/pkg/assistant/action"
)

// Confiança da heurística verbal, em décimos: base mais um bônus por cada
// palavra-chave encontrada. O teto é 0.4.
const (
	heuristicBase  = 2
	heuristicBonus = 1
)

var typeKeywords = []struct {
	typ   action.Type
	words []string
}{
	{action.TypeCreate, []string{
		"crear", "crea", "creame", "créame", "añadir", "añade", "anadir", "anade", "agregar", "agrega",
		"nueva", "nuevo", "apunta", "apuntar", "anota", "anotar", "add", "create", "new",
	}},
	{action.TypeDelete, []string{
		"eliminar", "elimina", "borrar", "borra", "quitar", "quita", "suprimir", "delete", "remove", "erase",
	}},
	{action.TypeUpdate, []string{
		"actualizar", "actualiza", "modificar", "modifica", "cambiar", "cambia", "editar", "edita",
		"renombrar", "renombra", "mover", "mueve", "update", "change", "edit", "modify", "rename", "move",
	}},
	{action.TypeQuery, []string{
		"mostrar", "muestra", "muéstrame", "muestrame", "listar", "lista", "buscar", "busca", "ver",
		"cuáles", "cuales", "qué", "que", "show", "list", "find", "search", "what", "which",
	}},
}

var entityKeywords = []struct {
	entity action.Entity
	words  []string
}{
	{action.EntityTask, []string{"tarea", "tareas", "pendiente", "pendientes", "task", "tasks", "todo", "todos"}},
	{action.EntityProject, []string{"proyecto", "proyectos", "project", "projects"}},
	{action.EntityLabel, []string{"etiqueta", "etiquetas", "label", "labels", "tag", "tags"}},
	{action.EntitySection, []string{"sección", "seccion", "secciones", "section", "sections"}},
	{action.EntityComment, []string{"comentario", "comentarios", "comment", "comments"}},
	{action.EntityReminder, []string{"recordatorio", "recordatorios", "recuérdame", "recuerdame", "reminder", "reminders", "remind"}},
}

var connectors = map[string]bool{
	"un": true, "una": true, "el": true, "la": true, "nueva": true, "nuevo": true, "para": true,
	"de": true, "que": true, "llamada": true, "llamado": true, "a": true, "an": true, "the": true,
	"called": true, "to": true, "named": true, "new": true, "me": true,
}

var (
	wordPattern     = regexp.MustCompile(`[\p{L}\p{N}]+`)
	priorityPattern = regexp.MustCompile(`(?i)[,\s]*(?:con\s+)?(?:prioridad\s+(alta|urgente|media|normal|baja)|(high|medium|low|urgent)\s+priority|(urgente))\b`)
	duePattern      = regexp.MustCompile(`(?i)[,\s]*(?:para|for|el|on|antes del?|by)?\s*(hoy|pasado mañana|mañana|today|tomorrow|esta semana|this week|fin de semana|weekend|fin de mes|end of month|próximo mes|next month|(?:el\s+)?(?:próximo|next)\s+\p{L}+)\s*$`)
)

type token struct {
	lower      string
	start, end int
}

// heuristic sempre produz uma ação: por padrão uma consulta sobre tarefas
func heuristic(text string) action.AIAction {
	tokens := tokenize(text)

	typ, typIdx := action.TypeQuery, -1
	if idx, t, ok := firstMatch(tokens, func(w string) (action.Type, bool) {
		for _, k := range typeKeywords {
			if contains(k.words, w) {
				return k.typ, true
			}
		}
		return "", false
	}); ok {
		typ, typIdx = t, idx
	}

	entity, entIdx := action.EntityTask, -1
	if idx, e, ok := firstMatch(tokens, func(w string) (action.Entity, bool) {
		for _, k := range entityKeywords {
			if contains(k.words, w) {
				return k.entity, true
			}
		}
		return "", false
	}); ok {
		entity, entIdx = e, idx
	}

	tenths := heuristicBase
	if typIdx >= 0 {
		tenths += heuristicBonus
	}
	if entIdx >= 0 {
		tenths += heuristicBonus
	}

	a := action.AIAction{
		Type:        typ,
		Entity:      entity,
		Confidence:  float64(tenths) / 10,
		Explanation: "Interpretación heurística sin JSON: " + string(typ) + " " + string(entity),
	}

	if !action.Supported(a.Tag()) {
		a.Entity = action.EntityTask
	}

	switch typ {
	case action.TypeQuery:
		a.Query = strings.TrimSpace(text)
	case action.TypeCreate:
		anchor := entIdx
		if anchor < typIdx {
			anchor = typIdx
		}
		rest := remainder(text, tokens, anchor)
		a.Data = createPayload(a.Entity, rest)
	}

	return a
}

func createPayload(entity action.Entity, rest string) action.Payload {
	switch entity {
	case action.EntityTask:
		fields := action.TaskFields{}
		if m := priorityPattern.FindStringSubmatchIndex(rest); m != nil {
			word := ""
			for g := 1; g <= 3; g++ {
				if m[2*g] >= 0 {
					word = strings.ToLower(rest[m[2*g]:m[2*g+1]])
				}
			}
			fields.Priority = action.PriorityLevels[word]
			rest = rest[:m[0]] + rest[m[1]:]
		}
		if m := duePattern.FindStringSubmatchIndex(rest); m != nil {
			fields.DueDate = strings.ToLower(rest[m[2]:m[3]])
			rest = rest[:m[0]]
		}
		fields.Title = cleanTitle(rest)
		if fields.Title == "" {
			return nil
		}
		return &action.CreateTask{TaskFields: fields}
	case action.EntityProject:
		if name := cleanTitle(rest); name != "" {
			return &action.CreateProject{Name: name}
		}
	case action.EntityLabel:
		if name := cleanTitle(rest); name != "" {
			return &action.CreateLabel{Name: name}
		}
	case action.EntitySection:
		if name := cleanTitle(rest); name != "" {
			return &action.CreateSection{Name: name}
		}
	}
	return nil
}

func tokenize(text string) []token {
	idx := wordPattern.FindAllStringIndex(text, -1)
	tokens := make([]token, 0, len(idx))
	for _, p := range idx {
		tokens = append(tokens, token{lower: strings.ToLower(text[p[0]:p[1]]), start: p[0], end: p[1]})
	}
	return tokens
}

func firstMatch[T any](tokens []token, match func(string) (T, bool)) (int, T, bool) {
	var zero T
	for i, tok := range tokens {
		if v, ok := match(tok.lower); ok {
			return i, v, true
		}
	}
	return -1, zero, false
}

// remainder devolve o texto original depois do token anchor, sem conectores iniciais
func remainder(text string, tokens []token, anchor int) string {
	i := anchor + 1
	for i < len(tokens) && connectors[tokens[i].lower] {
		i++
	}
	if i >= len(tokens) {
		return ""
	}
	return text[tokens[i].start:]
}

func cleanTitle(s string) string {
	return strings.Trim(strings.TrimSpace(s), " .,;:!¡?¿\"'")
}

func contains(list []string, w string) bool {
	for _, item := range list {
		if item == w {
			return true
		}
	}
	return false
}
