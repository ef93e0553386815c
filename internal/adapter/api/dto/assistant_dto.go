package dto

import (
	"time"

	"github.com/hugohenrick/tarefas-ia/internal/domain/audit"
	"github.com/hugohenrick/tarefas-ia/pkg/assistant/action"
)

// CommandRequest é um comando em linguagem natural
type CommandRequest struct {
	Command string `json:"command" binding:"required,max=2000"`
}

// ReplyRequest é uma resposta livre a uma sugestão pendente
type ReplyRequest struct {
	Text string `json:"text" binding:"required,max=2000"`
}

// ParseRequest carrega o texto bruto de um modelo
type ParseRequest struct {
	Text string `json:"text" binding:"required,max=65536"`
}

// AssessRequest avalia ações já extraídas contra o comando original
type AssessRequest struct {
	Text              string            `json:"text"`
	Actions           []action.AIAction `json:"actions"`
	ParsingConfidence *float64          `json:"parsingConfidence,omitempty"`
}

// ExecuteRequest executa ações sem passar pelo shield
type ExecuteRequest struct {
	Actions []action.AIAction `json:"actions" binding:"required"`
}

// DateResponse é o resultado da interpretação de uma expressão de data
type DateResponse struct {
	Expression string `json:"expression"`
	Resolved   bool   `json:"resolved"`
	Date       string `json:"date,omitempty"`
}

// HistoryEntryResponse é um comando do histórico
type HistoryEntryResponse struct {
	ID                string    `json:"id"`
	Command           string    `json:"command"`
	Method            string    `json:"method,omitempty"`
	ParsingConfidence float64   `json:"parsing_confidence"`
	Decision          string    `json:"decision"`
	Reason            string    `json:"reason,omitempty"`
	OperationID       string    `json:"operation_id,omitempty"`
	Results           any       `json:"results,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

// HistoryListResponse representa a página de histórico
type HistoryListResponse struct {
	Data     []HistoryEntryResponse `json:"data"`
	Page     int                    `json:"page"`
	PageSize int                    `json:"page_size"`
}

// ToHistoryEntryResponse converte uma entrada de auditoria. O texto bruto do
// provedor não é exposto.
func ToHistoryEntryResponse(e *audit.Entry) HistoryEntryResponse {
	resp := HistoryEntryResponse{
		ID:                e.ID,
		Command:           e.Command,
		Method:            e.Method,
		ParsingConfidence: e.ParsingConfidence,
		Decision:          e.Decision,
		Reason:            e.Reason,
		OperationID:       e.OperationID,
		CreatedAt:         e.CreatedAt,
	}
	if len(e.Results) > 0 {
		resp.Results = e.Results
	}
	return resp
}
