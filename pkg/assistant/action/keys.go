package action

// aliases mapeia a chave canônica para as variantes que o modelo costuma gerar
var aliases = map[string][]string{
	"titulo":           {"title", "título", "nombre_tarea"},
	"descripcion":      {"description", "descripción", "notes", "notas"},
	"prioridad":        {"priority"},
	"fechaVencimiento": {"dueDate", "due_date", "fecha", "fecha_vencimiento", "due"},
	"completada":       {"completed", "done", "completado"},
	"projectName":      {"project", "proyecto", "project_name"},
	"sectionName":      {"section", "seccion", "sección", "section_name"},
	"labelName":        {"label", "etiqueta"},
	"labels":           {"etiquetas", "tags"},
	"labelColor":       {"colorEtiqueta"},
	"taskTitle":        {"task_title", "tarea", "taskName", "buscar"},
	"tasks":            {"tareas", "items_tareas"},
	"subtasks":         {"subtareas"},
	"filter":           {"filtro", "where"},
	"updates":          {"cambios", "changes"},
	"target":           {"destino"},
	"position":         {"posicion", "posición"},
	"referenceTask":    {"referencia", "reference"},
	"dateRange":        {"rangoFechas", "date_range"},
	"upcoming":         {"proximos", "próximos"},
	"name":             {"nombre"},
	"content":          {"contenido", "texto", "text"},
	"when":             {"fechaHora", "fecha_hora", "datetime"},
	"time":             {"hora"},
	"search":           {"buscar_texto", "contains"},
}

var aliasToCanonical = func() map[string]string {
	m := make(map[string]string)
	for canonical, list := range aliases {
		for _, a := range list {
			m[a] = canonical
		}
	}
	return m
}()

// normalizeKeys renomeia recursivamente as chaves alternativas para a forma
// canônica. Uma chave canônica já presente nunca é sobrescrita e, entre
// variantes da mesma chave, vence a primeira da lista de aliases.
func normalizeKeys(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			if _, isAlias := aliasToCanonical[k]; isAlias {
				continue
			}
			out[k] = normalizeKeys(val)
		}
		for canonical, list := range aliases {
			if _, exists := out[canonical]; exists {
				continue
			}
			for _, alias := range list {
				if val, ok := t[alias]; ok {
					out[canonical] = normalizeKeys(val)
					break
				}
			}
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = normalizeKeys(item)
		}
		return out
	default:
		return v
	}
}
