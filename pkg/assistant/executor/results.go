package executor

import "github.com/hugohenrick/tarefas-ia/internal/domain/task"

// BulkCreateResult é o resultado de create_bulk e create_with_subtasks
type BulkCreateResult struct {
	Created []*task.Task  `json:"created"`
	Failed  []ItemFailure `json:"failed,omitempty"`
}

// ItemFailure descreve um item que não pôde ser criado
type ItemFailure struct {
	Index int    `json:"index"`
	Title string `json:"title"`
	Error string `json:"error"`
}

// CountResult é o resultado das operações em lote
type CountResult struct {
	Count int64 `json:"count"`
}

// DeleteResult identifica o registro removido
type DeleteResult struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// OrderChange é a nova posição de uma tarefa
type OrderChange struct {
	TaskID string  `json:"task_id"`
	Title  string  `json:"title"`
	Order  float64 `json:"order"`
}

// QueryResult é o resultado de uma consulta
type QueryResult struct {
	Tasks []*task.Task `json:"tasks"`
	Count int          `json:"count"`
}
