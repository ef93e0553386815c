package action

import "sort"

// Tag é a chave (tipo, entidade) que seleciona a variante do payload
type Tag struct {
	Type   Type
	Entity Entity
}

func (t Tag) String() string {
	return string(t.Type) + "/" + string(t.Entity)
}

// Payload é a união fechada de dados específicos de cada ação
type Payload interface {
	// Complete informa se os campos mínimos da variante estão presentes
	Complete() bool
	isPayload()
}

type normalizer interface {
	normalize()
}

// Posições aceitas por reorder
const (
	PositionStart  = "start"
	PositionEnd    = "end"
	PositionBefore = "before"
	PositionAfter  = "after"
)

// Tipos de intervalo de datas aceitos nos filtros
const (
	RangeExact    = "exact"
	RangeOlder    = "older"
	RangeLastWeek = "lastWeek"
)

// TaskFields agrupa os campos de criação de uma tarefa
type TaskFields struct {
	Title       string   `json:"titulo,omitempty"`
	Description string   `json:"descripcion,omitempty"`
	Priority    int      `json:"prioridad,omitempty"`
	DueDate     string   `json:"fechaVencimiento,omitempty"`
	ProjectName string   `json:"projectName,omitempty"`
	SectionName string   `json:"sectionName,omitempty"`
	Labels      []string `json:"labels,omitempty"`
	LabelColor  string   `json:"labelColor,omitempty"`
}

// TaskChanges descreve alterações parciais de uma tarefa
type TaskChanges struct {
	Title       *string  `json:"titulo,omitempty"`
	Description *string  `json:"descripcion,omitempty"`
	Priority    *int     `json:"prioridad,omitempty"`
	DueDate     *string  `json:"fechaVencimiento,omitempty"`
	Completed   *bool    `json:"completada,omitempty"`
	ProjectName string   `json:"projectName,omitempty"`
	SectionName string   `json:"sectionName,omitempty"`
	Labels      []string `json:"labels,omitempty"`
}

// Empty informa se nenhuma alteração foi pedida
func (c TaskChanges) Empty() bool {
	return c.Title == nil && c.Description == nil && c.Priority == nil && c.DueDate == nil &&
		c.Completed == nil && c.ProjectName == "" && c.SectionName == "" && len(c.Labels) == 0
}

// DateRange descreve um intervalo relativo de datas usado em filtros
type DateRange struct {
	Type  string `json:"type"`
	Days  int    `json:"days,omitempty"`
	Field string `json:"field,omitempty"`
}

// Filter é o descritor de alvo das ações em lote, baseado em nomes
type Filter struct {
	ProjectName   string     `json:"projectName,omitempty"`
	SectionName   string     `json:"sectionName,omitempty"`
	LabelName     string     `json:"labelName,omitempty"`
	Priority      *int       `json:"prioridad,omitempty"`
	Completed     *bool      `json:"completada,omitempty"`
	DateRange     *DateRange `json:"dateRange,omitempty"`
	TitleContains string     `json:"search,omitempty"`
}

// Empty informa se o filtro não restringe nada
func (f Filter) Empty() bool {
	return f.ProjectName == "" && f.SectionName == "" && f.LabelName == "" && f.Priority == nil &&
		f.Completed == nil && f.DateRange == nil && f.TitleContains == ""
}

// MoveTarget é o destino de move_bulk
type MoveTarget struct {
	ProjectName string `json:"projectName,omitempty"`
	SectionName string `json:"sectionName,omitempty"`
}

// ReorderItem atribui uma ordem explícita a uma tarefa
type ReorderItem struct {
	Task  string  `json:"task"`
	Order float64 `json:"order"`
}

// TaskNode é uma tarefa com subtarefas aninhadas
type TaskNode struct {
	TaskFields
	Subtasks []TaskNode `json:"subtasks,omitempty"`
}

// CreateTask cria uma tarefa
type CreateTask struct {
	TaskFields
}

// CreateTasks cria várias tarefas; projectName/sectionName valem como padrão dos itens
type CreateTasks struct {
	Tasks       []TaskFields `json:"tasks"`
	ProjectName string       `json:"projectName,omitempty"`
	SectionName string       `json:"sectionName,omitempty"`
}

// CreateTaskTree cria uma tarefa e suas subtarefas recursivamente
type CreateTaskTree struct {
	TaskNode
}

// UpdateTask altera a tarefa localizada por TaskTitle
type UpdateTask struct {
	TaskTitle string `json:"taskTitle,omitempty"`
	TaskChanges
}

// CompleteTask marca como concluída a tarefa localizada por TaskTitle
type CompleteTask struct {
	TaskTitle string `json:"taskTitle,omitempty"`
}

// DeleteTask remove a tarefa localizada por TaskTitle
type DeleteTask struct {
	TaskTitle string `json:"taskTitle,omitempty"`
}

// DeleteNamed remove um projeto, seção ou etiqueta pelo nome
type DeleteNamed struct {
	Name        string `json:"name"`
	ProjectName string `json:"projectName,omitempty"`
}

// BulkUpdate aplica Updates a todas as tarefas que casam com Filter
type BulkUpdate struct {
	Filter  Filter      `json:"filter"`
	Updates TaskChanges `json:"updates"`
}

// BulkDelete remove todas as tarefas que casam com Filter
type BulkDelete struct {
	Filter Filter `json:"filter"`
}

// BulkMove move todas as tarefas que casam com Filter para Target
type BulkMove struct {
	Filter Filter     `json:"filter"`
	Target MoveTarget `json:"target"`
}

// Reorder reposiciona uma tarefa (start, end, before, after) ou aplica uma lista de ordens
type Reorder struct {
	TaskTitle     string        `json:"taskTitle,omitempty"`
	Position      string        `json:"position,omitempty"`
	ReferenceTask string        `json:"referenceTask,omitempty"`
	Items         []ReorderItem `json:"items,omitempty"`
}

// QueryTasks consulta tarefas sem alterar nada
type QueryTasks struct {
	Filter   Filter `json:"filter"`
	Upcoming bool   `json:"upcoming,omitempty"`
	Limit    int    `json:"limit,omitempty"`
}

// CreateProject cria um projeto
type CreateProject struct {
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// CreateSection cria uma seção dentro de um projeto
type CreateSection struct {
	Name        string `json:"name"`
	ProjectName string `json:"projectName,omitempty"`
}

// CreateLabel cria uma etiqueta
type CreateLabel struct {
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// AddComment adiciona um comentário a uma tarefa
type AddComment struct {
	TaskTitle string `json:"taskTitle"`
	Content   string `json:"content"`
}

// CreateReminder cria um lembrete para uma tarefa. When é uma expressão de data
// e Time um horário opcional HH:MM.
type CreateReminder struct {
	TaskTitle string `json:"taskTitle"`
	When      string `json:"when"`
	Time      string `json:"time,omitempty"`
}

func (*CreateTask) isPayload()     {}
func (*CreateTasks) isPayload()    {}
func (*CreateTaskTree) isPayload() {}
func (*UpdateTask) isPayload()     {}
func (*CompleteTask) isPayload()   {}
func (*DeleteTask) isPayload()     {}
func (*DeleteNamed) isPayload()    {}
func (*BulkUpdate) isPayload()     {}
func (*BulkDelete) isPayload()     {}
func (*BulkMove) isPayload()       {}
func (*Reorder) isPayload()        {}
func (*QueryTasks) isPayload()     {}
func (*CreateProject) isPayload()  {}
func (*CreateSection) isPayload()  {}
func (*CreateLabel) isPayload()    {}
func (*AddComment) isPayload()     {}
func (*CreateReminder) isPayload() {}

func (p *CreateTask) Complete() bool { return p.Title != "" }

func (p *CreateTasks) Complete() bool {
	if len(p.Tasks) == 0 {
		return false
	}
	for _, t := range p.Tasks {
		if t.Title == "" {
			return false
		}
	}
	return true
}

func (p *CreateTaskTree) Complete() bool { return p.Title != "" }

func (p *UpdateTask) Complete() bool { return p.TaskTitle != "" && !p.TaskChanges.Empty() }

func (p *CompleteTask) Complete() bool { return p.TaskTitle != "" }

func (p *DeleteTask) Complete() bool { return p.TaskTitle != "" }

func (p *DeleteNamed) Complete() bool { return p.Name != "" }

func (p *BulkUpdate) Complete() bool { return !p.Updates.Empty() }

// Complete exige um filtro não vazio: um delete_bulk sem filtro apagaria tudo
func (p *BulkDelete) Complete() bool { return !p.Filter.Empty() }

func (p *BulkMove) Complete() bool {
	return p.Target.ProjectName != "" || p.Target.SectionName != ""
}

func (p *Reorder) Complete() bool {
	if len(p.Items) > 0 {
		return true
	}
	if p.TaskTitle == "" {
		return false
	}
	switch p.Position {
	case PositionStart, PositionEnd:
		return true
	case PositionBefore, PositionAfter:
		return p.ReferenceTask != ""
	}
	return false
}

func (p *QueryTasks) Complete() bool { return true }

func (p *CreateProject) Complete() bool { return p.Name != "" }

func (p *CreateSection) Complete() bool { return p.Name != "" }

func (p *CreateLabel) Complete() bool { return p.Name != "" }

func (p *AddComment) Complete() bool { return p.TaskTitle != "" && p.Content != "" }

func (p *CreateReminder) Complete() bool { return p.TaskTitle != "" && p.When != "" }

// O modelo às vezes usa "titulo" para indicar a tarefa a ser alterada
func (p *UpdateTask) normalize() {
	if p.TaskTitle == "" && p.Title != nil {
		p.TaskTitle = *p.Title
		p.Title = nil
	}
}

func (p *CreateTasks) normalize() {
	for i := range p.Tasks {
		if p.Tasks[i].ProjectName == "" {
			p.Tasks[i].ProjectName = p.ProjectName
		}
		if p.Tasks[i].SectionName == "" {
			p.Tasks[i].SectionName = p.SectionName
		}
	}
}

func (p *Reorder) normalize() {
	if p.Position == "" && len(p.Items) == 0 && p.ReferenceTask != "" {
		p.Position = PositionBefore
	}
}

var registry = map[Tag]func() Payload{
	{TypeCreate, EntityTask}:             func() Payload { return &CreateTask{} },
	{TypeCreate, EntityProject}:          func() Payload { return &CreateProject{} },
	{TypeCreate, EntitySection}:          func() Payload { return &CreateSection{} },
	{TypeCreate, EntityLabel}:            func() Payload { return &CreateLabel{} },
	{TypeCreate, EntityComment}:          func() Payload { return &AddComment{} },
	{TypeCreate, EntityReminder}:         func() Payload { return &CreateReminder{} },
	{TypeCreateBulk, EntityTask}:         func() Payload { return &CreateTasks{} },
	{TypeCreateWithSubtasks, EntityTask}: func() Payload { return &CreateTaskTree{} },
	{TypeUpdate, EntityTask}:             func() Payload { return &UpdateTask{} },
	{TypeComplete, EntityTask}:           func() Payload { return &CompleteTask{} },
	{TypeDelete, EntityTask}:             func() Payload { return &DeleteTask{} },
	{TypeDelete, EntityProject}:          func() Payload { return &DeleteNamed{} },
	{TypeDelete, EntitySection}:          func() Payload { return &DeleteNamed{} },
	{TypeDelete, EntityLabel}:            func() Payload { return &DeleteNamed{} },
	{TypeUpdateBulk, EntityTask}:         func() Payload { return &BulkUpdate{} },
	{TypeDeleteBulk, EntityTask}:         func() Payload { return &BulkDelete{} },
	{TypeMoveBulk, EntityTask}:           func() Payload { return &BulkMove{} },
	{TypeReorder, EntityTask}:            func() Payload { return &Reorder{} },
	{TypeQuery, EntityTask}:              func() Payload { return &QueryTasks{} },
	{TypeCreateProject, EntityProject}:   func() Payload { return &CreateProject{} },
	{TypeCreateSection, EntitySection}:   func() Payload { return &CreateSection{} },
	{TypeCreateLabel, EntityLabel}:       func() Payload { return &CreateLabel{} },
	{TypeAddComment, EntityComment}:      func() Payload { return &AddComment{} },
	{TypeCreateReminder, EntityReminder}: func() Payload { return &CreateReminder{} },
}

// Supported informa se existe uma variante de payload para a tag
func Supported(t Tag) bool {
	_, ok := registry[t]
	return ok
}

// NewPayload retorna uma variante vazia para a tag, ou nil se não houver
func NewPayload(t Tag) Payload {
	if f, ok := registry[t]; ok {
		return f()
	}
	return nil
}

// Tags lista todas as combinações suportadas em ordem estável
func Tags() []Tag {
	tags := make([]Tag, 0, len(registry))
	for t := range registry {
		tags = append(tags, t)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].String() < tags[j].String() })
	return tags
}
