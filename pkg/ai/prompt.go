package ai

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/hugohenrick/tarefas-ia/pkg/assistant/action"
)

// Workspace é o contexto do usuário incluído no prompt: nomes que o modelo
// pode referenciar e a data de hoje
type Workspace struct {
	Today    time.Time
	Projects []string
	// Sections mapeia o nome do projeto para os nomes das seções
	Sections map[string][]string
	Labels   []string
}

// PromptBuilder monta as instruções de sistema do interpretador de comandos
type PromptBuilder struct {
	// MaxNames limita quantos nomes de cada tipo entram no contexto
	MaxNames int
}

// NewPromptBuilder cria um PromptBuilder com limites padrão
func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{MaxNames: 50}
}

const instructions = `Eres un asistente que convierte comandos en lenguaje natural sobre tareas en acciones estructuradas.
Responde ÚNICAMENTE con un array JSON de acciones, sin texto adicional.

Cada acción tiene la forma:
{"type": "<tipo>", "entity": "<entidad>", "data": {...}, "confidence": <0..1>, "explanation": "<breve>"}

Reglas:
- "confidence" refleja tu certeza sobre la interpretación.
- Usa nombres de proyectos, secciones y etiquetas tal como existen cuando corresponda.
- Las fechas pueden ser expresiones relativas ("mañana", "el viernes", "en 3 días") o YYYY-MM-DD.
- La prioridad va de 1 (baja) a 4 (urgente).
- Para varias tareas usa create_bulk; para tareas con subtareas usa create_with_subtasks.
- Para consultas usa {"type": "query", "entity": "task", "data": {"filter": {...}}}.
- Si el comando es ambiguo, usa confidence baja y explícalo en "explanation".

Campos de "data":
- tarea: titulo, descripcion, prioridad, fechaVencimiento, projectName, sectionName, labels
- localizar una tarea existente: taskTitle
- filtros en lote: filter {projectName, sectionName, labelName, prioridad, completada, search, dateRange {type: exact|older|lastWeek, days, field: due|created}}
- update_bulk: filter + updates; move_bulk: filter + target {projectName, sectionName}
- reorder: taskTitle + position (start|end|before|after) + referenceTask, o items [{task, order}]
- create_reminder: taskTitle, when, time (HH:MM)
`

// System monta as instruções de sistema com o catálogo de ações e o contexto do usuário
func (b *PromptBuilder) System(ws Workspace) string {
	var sb strings.Builder
	sb.WriteString(instructions)

	sb.WriteString("\nAcciones disponibles (type/entity):\n")
	for _, tag := range action.Tags() {
		sb.WriteString("- ")
		sb.WriteString(tag.String())
		sb.WriteString("\n")
	}

	today := ws.Today
	if today.IsZero() {
		today = time.Now()
	}
	fmt.Fprintf(&sb, "\nHoy es %s (%s).\n", today.Format("2006-01-02"), today.Weekday())

	if names := b.limit(ws.Projects); len(names) > 0 {
		sb.WriteString("Proyectos existentes: ")
		sb.WriteString(strings.Join(names, ", "))
		sb.WriteString("\n")
	}

	if len(ws.Sections) > 0 {
		projects := make([]string, 0, len(ws.Sections))
		for p := range ws.Sections {
			projects = append(projects, p)
		}
		sort.Strings(projects)

		sb.WriteString("Secciones por proyecto:\n")
		for _, p := range b.limit(projects) {
			if secs := b.limit(ws.Sections[p]); len(secs) > 0 {
				fmt.Fprintf(&sb, "- %s: %s\n", p, strings.Join(secs, ", "))
			}
		}
	}

	if names := b.limit(ws.Labels); len(names) > 0 {
		sb.WriteString("Etiquetas existentes: ")
		sb.WriteString(strings.Join(names, ", "))
		sb.WriteString("\n")
	}

	return sb.String()
}

// Build monta o prompt completo para um comando
func (b *PromptBuilder) Build(ws Workspace, command string) Prompt {
	return Prompt{
		System: b.System(ws),
		User:   strings.TrimSpace(command),
	}
}

func (b *PromptBuilder) limit(names []string) []string {
	if b.MaxNames > 0 && len(names) > b.MaxNames {
		return names[:b.MaxNames]
	}
	return names
}
