// Package action define a unidade de intenção (AIAction) produzida pelo parser
// e consumida pelo shield e pelo executor.
package action

import (
	"encoding/json"
	"errors"
	"math"
)

// Type identifica a operação pedida pelo usuário
type Type string

// Tipos de ação suportados
const (
	TypeCreate             Type = "create"
	TypeUpdate             Type = "update"
	TypeUpdateBulk         Type = "update_bulk"
	TypeDelete             Type = "delete"
	TypeDeleteBulk         Type = "delete_bulk"
	TypeMoveBulk           Type = "move_bulk"
	TypeCreateBulk         Type = "create_bulk"
	TypeCreateWithSubtasks Type = "create_with_subtasks"
	TypeComplete           Type = "complete"
	TypeReorder            Type = "reorder"
	TypeQuery              Type = "query"
	TypeCreateProject      Type = "create_project"
	TypeCreateSection      Type = "create_section"
	TypeCreateLabel        Type = "create_label"
	TypeAddComment         Type = "add_comment"
	TypeCreateReminder     Type = "create_reminder"
)

// Entity identifica o tipo de registro afetado pela ação
type Entity string

// Entidades suportadas
const (
	EntityTask     Entity = "task"
	EntityProject  Entity = "project"
	EntityLabel    Entity = "label"
	EntitySection  Entity = "section"
	EntityComment  Entity = "comment"
	EntityReminder Entity = "reminder"
)

// ErrInvalidAction indica um valor que não passa no predicado de validade
var ErrInvalidAction = errors.New("ação inválida: type, entity, confidence e explanation são obrigatórios")

// AIAction representa uma unidade estruturada de intenção do usuário
type AIAction struct {
	Type        Type    `json:"type"`
	Entity      Entity  `json:"entity"`
	Data        Payload `json:"data,omitempty"`
	Query       string  `json:"query,omitempty"`
	Confidence  float64 `json:"confidence"`
	Explanation string  `json:"explanation"`
}

// Tag retorna a chave (tipo, entidade) da ação
func (a AIAction) Tag() Tag {
	return Tag{Type: a.Type, Entity: a.Entity}
}

// Valid verifica se a ação tem os campos obrigatórios e uma confiança em [0,1].
// Uma tag desconhecida continua válida; quem executa decide se a suporta.
func (a AIAction) Valid() bool {
	if a.Type == "" || a.Entity == "" {
		return false
	}
	return !math.IsNaN(a.Confidence) && a.Confidence >= 0 && a.Confidence <= 1
}

// HasCompletePayload informa se os dados da ação bastam para executá-la
func (a AIAction) HasCompletePayload() bool {
	if a.Data == nil {
		return a.Type == TypeQuery
	}
	return a.Data.Complete()
}

// UnmarshalJSON aplica o predicado de validade antes de decodificar o payload
func (a *AIAction) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	decoded, err := Decode(raw)
	if err != nil {
		return err
	}
	*a = decoded
	return nil
}

// IsValid é o predicado de validade aplicado a um valor JSON genérico.
// Exige um objeto com type e entity textuais, confidence numérica e explanation textual.
func IsValid(v any) bool {
	m, ok := v.(map[string]any)
	if !ok {
		return false
	}
	if _, ok := m["type"].(string); !ok {
		return false
	}
	if _, ok := m["entity"].(string); !ok {
		return false
	}
	switch m["confidence"].(type) {
	case float64, json.Number:
	default:
		return false
	}
	if _, ok := m["explanation"].(string); !ok {
		return false
	}
	return true
}

// Decode converte um objeto JSON genérico em uma AIAction tipada.
//
// Só falha quando o predicado de validade falha. Dados em formato inesperado
// nunca descartam a ação: campos que não convertem ficam vazios, um data que
// não é objeto vira Data nil e uma tag sem variante registrada é mantida sem
// payload.
func Decode(v any) (AIAction, error) {
	if !IsValid(v) {
		return AIAction{}, ErrInvalidAction
	}
	m := v.(map[string]any)

	a := AIAction{
		Type:        Type(m["type"].(string)),
		Entity:      Entity(m["entity"].(string)),
		Explanation: m["explanation"].(string),
	}
	switch c := m["confidence"].(type) {
	case float64:
		a.Confidence = c
	case json.Number:
		f, err := c.Float64()
		if err != nil {
			return AIAction{}, ErrInvalidAction
		}
		a.Confidence = f
	}
	if q, ok := m["query"].(string); ok {
		a.Query = q
	}

	data, ok := m["data"].(map[string]any)
	if !ok {
		return a, nil
	}
	a.Data = decodePayload(a.Tag(), data)
	return a, nil
}

// decodePayload preenche a variante da tag com o que for aproveitável em data
func decodePayload(tag Tag, data map[string]any) Payload {
	newPayload, ok := registry[tag]
	if !ok {
		return nil
	}

	b, err := json.Marshal(coerce(normalizeKeys(data)))
	if err != nil {
		return nil
	}
	p := newPayload()
	// Em *json.UnmarshalTypeError o pacote pula o campo e segue com os demais
	if err := json.Unmarshal(b, p); err != nil {
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) {
			return nil
		}
	}
	if n, ok := p.(normalizer); ok {
		n.normalize()
	}
	return p
}

// Sanitize mantém apenas os itens que passam no predicado de validade.
// Nunca retorna nil.
func Sanitize(items []any) []AIAction {
	actions := make([]AIAction, 0, len(items))
	for _, item := range items {
		a, err := Decode(item)
		if err != nil {
			continue
		}
		actions = append(actions, a)
	}
	return actions
}
