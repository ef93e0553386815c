package action

import (
	"math"
	"strconv"
	"strings"
)

// PriorityLevels mapeia as palavras de prioridade para a escala 1 a 4
var PriorityLevels = map[string]int{
	"urgente": 4, "urgent": 4, "alta": 4, "high": 4,
	"media": 3, "medium": 3, "normal": 2,
	"baja": 1, "low": 1,
}

var boolWords = map[string]bool{
	"true": true, "sí": true, "si": true, "yes": true,
	"false": false, "no": false,
}

// coerce ajusta, recursivamente, os valores que o modelo costuma mandar no tipo
// errado. Um valor que não dá para aproveitar é removido.
func coerce(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			fixed, keep := coerceField(k, val)
			if keep {
				out[k] = coerce(fixed)
			}
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = coerce(item)
		}
		return out
	default:
		return v
	}
}

func coerceField(key string, val any) (any, bool) {
	switch key {
	case "prioridad":
		p, ok := parsePriority(val)
		return p, ok
	case "completada":
		switch b := val.(type) {
		case bool:
			return b, true
		case string:
			v, ok := boolWords[strings.ToLower(strings.TrimSpace(b))]
			return v, ok
		}
		return nil, false
	case "labels":
		switch l := val.(type) {
		case []any:
			return l, true
		case string:
			var out []any
			for _, name := range strings.Split(l, ",") {
				if name = strings.TrimSpace(name); name != "" {
					out = append(out, name)
				}
			}
			return out, len(out) > 0
		}
		return nil, false
	case "tasks", "subtasks":
		if m, ok := val.(map[string]any); ok {
			return []any{m}, true
		}
	}
	return val, true
}

// parsePriority aceita um número, um número em texto ou uma palavra conhecida
func parsePriority(v any) (int, bool) {
	switch p := v.(type) {
	case float64:
		if math.IsNaN(p) || math.IsInf(p, 0) {
			return 0, false
		}
		return int(math.Min(math.Max(math.Round(p), 1), 4)), true
	case string:
		s := strings.ToLower(strings.TrimSpace(p))
		if n, ok := PriorityLevels[s]; ok {
			return n, true
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return parsePriority(f)
		}
	}
	return 0, false
}
