package executor

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugohenrick/tarefas-ia/internal/adapter/repository/memory"
	"github.com/hugohenrick/tarefas-ia/internal/domain/project"
	"github.com/hugohenrick/tarefas-ia/internal/domain/task"
	"github.com/hugohenrick/tarefas-ia/pkg/assistant/action"
	"github.com/hugohenrick/tarefas-ia/pkg/assistant/dates"
)

const (
	alice = "alice"
	bob   = "bob"
)

type fixture struct {
	t     *testing.T
	ctx   context.Context
	store *memory.Store
	exec  *Executor
}

func storeOf(st *memory.Store) Store {
	return Store{
		Projects:  st.Projects(),
		Tasks:     st.Tasks(),
		Labels:    st.Labels(),
		Comments:  st.Comments(),
		Reminders: st.Reminders(),
	}
}

func fixedClock() *dates.Resolver {
	return &dates.Resolver{Now: func() time.Time {
		return time.Date(2025, time.January, 15, 10, 0, 0, 0, time.Local)
	}}
}

func newFixture(t *testing.T) *fixture {
	st := memory.NewStore()
	return &fixture{
		t:     t,
		ctx:   context.Background(),
		store: st,
		exec: New(storeOf(st),
			WithDateResolver(fixedClock()),
			WithColorPicker(func() string { return "teal" }),
		),
	}
}

func (f *fixture) run(actor string, actions ...action.AIAction) []Result {
	return f.exec.Execute(f.ctx, actions, actor)
}

func (f *fixture) inbox(owner string) *project.Project {
	p, err := f.store.Projects().GetOrCreateInbox(f.ctx, owner)
	require.NoError(f.t, err)
	return p
}

func (f *fixture) project(owner, name string) *project.Project {
	p, err := project.NewProject(owner, name, "blue")
	require.NoError(f.t, err)
	require.NoError(f.t, f.store.Projects().Create(f.ctx, p))
	return p
}

func (f *fixture) share(p *project.Project, userID string, perm project.Permission) {
	require.NoError(f.t, f.store.Projects().Share(f.ctx, &project.Member{ProjectID: p.ID, UserID: userID, Permission: perm}))
}

func (f *fixture) task(owner, projectID, title string, mods ...func(*task.Task)) *task.Task {
	tk, err := task.NewTask(owner, projectID, title)
	require.NoError(f.t, err)
	for _, m := range mods {
		m(tk)
	}
	require.NoError(f.t, f.store.Tasks().Create(f.ctx, tk))
	return tk
}

func (f *fixture) reload(id string) *task.Task {
	tk, err := f.store.Tasks().FindByID(f.ctx, id)
	require.NoError(f.t, err)
	return tk
}

func (f *fixture) count(projectID string) int {
	list, err := f.store.Tasks().Find(f.ctx, task.Criteria{ProjectIDs: []string{projectID}})
	require.NoError(f.t, err)
	return len(list)
}

func act(typ action.Type, entity action.Entity, data action.Payload) action.AIAction {
	return action.AIAction{Type: typ, Entity: entity, Data: data, Confidence: 0.9, Explanation: "teste"}
}

func completed(tk *task.Task) { tk.Completed = true }

func order(o float64) func(*task.Task) {
	return func(tk *task.Task) { tk.Order = o }
}

func boolPtr(b bool) *bool { return &b }

func intPtr(i int) *int { return &i }

func strPtr(s string) *string { return &s }

func TestExecute_DeleteBulkCompleted(t *testing.T) {
	f := newFixture(t)
	inbox := f.inbox(alice)
	for i := 0; i < 5; i++ {
		f.task(alice, inbox.ID, "hecha", completed)
	}
	f.task(alice, inbox.ID, "pendiente 1")
	f.task(alice, inbox.ID, "pendiente 2")

	other := f.inbox(bob)
	for i := 0; i < 3; i++ {
		f.task(bob, other.ID, "de bob", completed)
	}

	results := f.run(alice, act(action.TypeDeleteBulk, action.EntityTask, &action.BulkDelete{
		Filter: action.Filter{Completed: boolPtr(true)},
	}))

	require.Len(t, results, 1)
	require.True(t, results[0].Success, results[0].Error)
	assert.Equal(t, &CountResult{Count: 5}, results[0].Result)
	assert.Equal(t, 2, f.count(inbox.ID))
	assert.Equal(t, 3, f.count(other.ID))
}

func TestExecute_PreservesLengthAndOrder(t *testing.T) {
	f := newFixture(t)

	actions := []action.AIAction{
		act(action.TypeCreate, action.EntityTask, &action.CreateTask{TaskFields: action.TaskFields{Title: "uno"}}),
		{Type: action.TypeUpdate, Entity: action.EntityTask, Confidence: 0.9, Explanation: "sin datos"},
		{Type: "teleport", Entity: action.EntityTask, Confidence: 0.9, Explanation: "inválida"},
		act(action.TypeCreate, action.EntityTask, &action.CreateTask{TaskFields: action.TaskFields{Title: "dos"}}),
	}

	results := f.run(alice, actions...)

	require.Len(t, results, len(actions))
	for i := range actions {
		assert.Equal(t, actions[i].Type, results[i].Action.Type)
	}
	assert.True(t, results[0].Success)
	assert.False(t, results[1].Success)
	assert.Equal(t, ErrIncompletePayload.Error(), results[1].Error)
	assert.False(t, results[2].Success)
	assert.Contains(t, results[2].Error, ErrUnsupportedAction.Error())
	assert.True(t, results[3].Success)
}

type panickyTasks struct {
	task.Repository
}

func (p panickyTasks) Create(ctx context.Context, tk *task.Task) error {
	if tk.Title == "boom" {
		panic("falha simulada")
	}
	return p.Repository.Create(ctx, tk)
}

func TestExecute_PanicIsIsolated(t *testing.T) {
	st := memory.NewStore()
	s := storeOf(st)
	s.Tasks = panickyTasks{s.Tasks}
	exec := New(s, WithDateResolver(fixedClock()))

	results := exec.Execute(context.Background(), []action.AIAction{
		act(action.TypeCreate, action.EntityTask, &action.CreateTask{TaskFields: action.TaskFields{Title: "boom"}}),
		act(action.TypeCreate, action.EntityTask, &action.CreateTask{TaskFields: action.TaskFields{Title: "ok"}}),
	}, alice)

	require.Len(t, results, 2)
	assert.False(t, results[0].Success)
	assert.Equal(t, internalErrorMessage, results[0].Error)
	assert.True(t, results[1].Success)
}

func TestExecute_LaterActionsSeeEarlierEffects(t *testing.T) {
	f := newFixture(t)

	results := f.run(alice,
		act(action.TypeCreateProject, action.EntityProject, &action.CreateProject{Name: "Casa"}),
		act(action.TypeCreate, action.EntityTask, &action.CreateTask{TaskFields: action.TaskFields{Title: "pintar", ProjectName: "casa"}}),
	)

	require.True(t, results[0].Success, results[0].Error)
	require.True(t, results[1].Success, results[1].Error)
	proj := results[0].Result.(*project.Project)
	assert.Equal(t, proj.ID, results[1].Result.(*task.Task).ProjectID)
}

func TestCreate_ResolvesReferences(t *testing.T) {
	f := newFixture(t)
	work := f.project(alice, "Trabajo")
	sec, err := project.NewSection(work.ID, "Reuniones")
	require.NoError(t, err)
	require.NoError(t, f.store.Projects().CreateSection(f.ctx, sec))

	results := f.run(alice, act(action.TypeCreate, action.EntityTask, &action.CreateTask{TaskFields: action.TaskFields{
		Title:       "preparar agenda",
		ProjectName: "TRABAJO",
		SectionName: "reuniones",
		Priority:    9,
		DueDate:     "mañana",
		Labels:      []string{"urgente", "@oficina"},
	}}))

	require.True(t, results[0].Success, results[0].Error)
	tk := results[0].Result.(*task.Task)
	assert.Equal(t, work.ID, tk.ProjectID)
	assert.Equal(t, sec.ID, tk.SectionID)
	assert.Equal(t, task.PriorityHighest, tk.Priority)
	require.NotNil(t, tk.DueDate)
	assert.True(t, time.Date(2025, 1, 16, 0, 0, 0, 0, time.Local).Equal(*tk.DueDate))
	require.Len(t, tk.LabelIDs, 2)

	labels, err := f.store.Labels().List(f.ctx, alice)
	require.NoError(t, err)
	require.Len(t, labels, 2)
	assert.Equal(t, "oficina", labels[0].Name)
	assert.Equal(t, "teal", labels[0].Color)
}

func TestCreate_DefaultsAndLenientResolution(t *testing.T) {
	f := newFixture(t)

	results := f.run(alice, act(action.TypeCreate, action.EntityTask, &action.CreateTask{TaskFields: action.TaskFields{
		Title:       "llamar",
		ProjectName: "No Existe",
		SectionName: "tampoco",
		DueDate:     "algún día",
	}}))

	require.True(t, results[0].Success, results[0].Error)
	tk := results[0].Result.(*task.Task)
	assert.Equal(t, f.inbox(alice).ID, tk.ProjectID)
	assert.Empty(t, tk.SectionID)
	assert.Nil(t, tk.DueDate)
	assert.Equal(t, task.PriorityLow, tk.Priority)
}

func TestCreate_ExistingLabelIsReused(t *testing.T) {
	f := newFixture(t)

	results := f.run(alice,
		act(action.TypeCreateLabel, action.EntityLabel, &action.CreateLabel{Name: "casa", Color: "red"}),
		act(action.TypeCreate, action.EntityTask, &action.CreateTask{TaskFields: action.TaskFields{Title: "x", Labels: []string{"Casa"}}}),
	)

	require.True(t, results[1].Success, results[1].Error)
	labels, err := f.store.Labels().List(f.ctx, alice)
	require.NoError(t, err)
	require.Len(t, labels, 1)
	assert.Equal(t, "red", labels[0].Color)
	assert.Equal(t, []string{labels[0].ID}, results[1].Result.(*task.Task).LabelIDs)
}

func TestCreateBulk_ContinuesPastFailures(t *testing.T) {
	f := newFixture(t)
	f.project(alice, "Compras")

	results := f.run(alice, act(action.TypeCreateBulk, action.EntityTask, &action.CreateTasks{
		ProjectName: "Compras",
		Tasks:       []action.TaskFields{{Title: "leche"}, {Title: "  "}, {Title: "pan"}},
	}))

	require.True(t, results[0].Success, results[0].Error)
	res := results[0].Result.(*BulkCreateResult)
	require.Len(t, res.Created, 2)
	assert.Equal(t, "leche", res.Created[0].Title)
	assert.Equal(t, "pan", res.Created[1].Title)
	assert.Less(t, res.Created[0].Order, res.Created[1].Order)
	require.Len(t, res.Failed, 1)
	assert.Equal(t, 1, res.Failed[0].Index)
}

func TestCreateWithSubtasks(t *testing.T) {
	f := newFixture(t)

	results := f.run(alice, act(action.TypeCreateWithSubtasks, action.EntityTask, &action.CreateTaskTree{TaskNode: action.TaskNode{
		TaskFields: action.TaskFields{Title: "mudanza"},
		Subtasks: []action.TaskNode{
			{TaskFields: action.TaskFields{Title: "cajas"}, Subtasks: []action.TaskNode{
				{TaskFields: action.TaskFields{Title: "comprar cinta"}},
			}},
			{TaskFields: action.TaskFields{Title: "camión"}},
		},
	}}))

	require.True(t, results[0].Success, results[0].Error)
	created := results[0].Result.(*BulkCreateResult).Created
	require.Len(t, created, 4)

	root, boxes, tape, truck := created[0], created[1], created[2], created[3]
	assert.Empty(t, root.ParentID)
	assert.Equal(t, root.ID, boxes.ParentID)
	assert.Equal(t, boxes.ID, tape.ParentID)
	assert.Equal(t, root.ID, truck.ParentID)
	assert.Equal(t, root.ProjectID, tape.ProjectID)
}

func TestUpdate_NotFoundIsNoOp(t *testing.T) {
	f := newFixture(t)

	results := f.run(alice, act(action.TypeUpdate, action.EntityTask, &action.UpdateTask{
		TaskTitle:   "inexistente",
		TaskChanges: action.TaskChanges{Priority: intPtr(3)},
	}))

	assert.True(t, results[0].Success)
	assert.Nil(t, results[0].Result)
	assert.Empty(t, results[0].Error)
}

func TestUpdate_PartialTitleMatch(t *testing.T) {
	f := newFixture(t)
	inbox := f.inbox(alice)
	tk := f.task(alice, inbox.ID, "Enviar informe trimestral")

	results := f.run(alice, act(action.TypeUpdate, action.EntityTask, &action.UpdateTask{
		TaskTitle: "INFORME",
		TaskChanges: action.TaskChanges{
			Title:    strPtr("Enviar informe anual"),
			Priority: intPtr(3),
			DueDate:  strPtr("viernes"),
		},
	}))

	require.True(t, results[0].Success, results[0].Error)
	got := f.reload(tk.ID)
	assert.Equal(t, "Enviar informe anual", got.Title)
	assert.Equal(t, 3, got.Priority)
	require.NotNil(t, got.DueDate)
	assert.True(t, time.Date(2025, 1, 17, 0, 0, 0, 0, time.Local).Equal(*got.DueDate))
}

func TestComplete(t *testing.T) {
	f := newFixture(t)
	tk := f.task(alice, f.inbox(alice).ID, "pagar alquiler")

	results := f.run(alice, act(action.TypeComplete, action.EntityTask, &action.CompleteTask{TaskTitle: "alquiler"}))

	require.True(t, results[0].Success, results[0].Error)
	got := f.reload(tk.ID)
	assert.True(t, got.Completed)
	assert.NotNil(t, got.CompletedAt)
}

func TestDeleteTaskAndNamedEntities(t *testing.T) {
	f := newFixture(t)
	garden := f.project(alice, "Jardín")
	f.task(alice, garden.ID, "regar")
	sec, err := project.NewSection(garden.ID, "Semanal")
	require.NoError(t, err)
	require.NoError(t, f.store.Projects().CreateSection(f.ctx, sec))

	results := f.run(alice,
		act(action.TypeCreateLabel, action.EntityLabel, &action.CreateLabel{Name: "temporal"}),
		act(action.TypeDelete, action.EntityLabel, &action.DeleteNamed{Name: "Temporal"}),
		act(action.TypeDelete, action.EntitySection, &action.DeleteNamed{Name: "semanal", ProjectName: "jardín"}),
		act(action.TypeDelete, action.EntityTask, &action.DeleteTask{TaskTitle: "regar"}),
		act(action.TypeDelete, action.EntityProject, &action.DeleteNamed{Name: "Jardín"}),
		act(action.TypeDelete, action.EntityProject, &action.DeleteNamed{Name: "Inbox"}),
	)

	for i := 0; i < 5; i++ {
		assert.True(t, results[i].Success, "ação %d: %s", i, results[i].Error)
	}
	assert.False(t, results[5].Success)
	assert.Equal(t, project.ErrInboxDelete.Error(), results[5].Error)

	_, err = f.store.Projects().FindByID(f.ctx, garden.ID)
	assert.ErrorIs(t, err, project.ErrNotFound)
	labels, err := f.store.Labels().List(f.ctx, alice)
	require.NoError(t, err)
	assert.Empty(t, labels)
}

func TestBulkUpdateAndMove(t *testing.T) {
	f := newFixture(t)
	inbox := f.inbox(alice)
	work := f.project(alice, "Trabajo")
	a := f.task(alice, inbox.ID, "a", func(tk *task.Task) { tk.Priority = 2 })
	b := f.task(alice, inbox.ID, "b", func(tk *task.Task) { tk.Priority = 2 })
	c := f.task(alice, inbox.ID, "c", func(tk *task.Task) { tk.Priority = 1 })

	results := f.run(alice,
		act(action.TypeUpdateBulk, action.EntityTask, &action.BulkUpdate{
			Filter:  action.Filter{ProjectName: "inbox", Priority: intPtr(2)},
			Updates: action.TaskChanges{Priority: intPtr(4)},
		}),
		act(action.TypeMoveBulk, action.EntityTask, &action.BulkMove{
			Filter: action.Filter{Priority: intPtr(4)},
			Target: action.MoveTarget{ProjectName: "trabajo"},
		}),
		act(action.TypeMoveBulk, action.EntityTask, &action.BulkMove{
			Filter: action.Filter{Priority: intPtr(1)},
			Target: action.MoveTarget{ProjectName: "No Existe"},
		}),
	)

	require.True(t, results[0].Success, results[0].Error)
	assert.Equal(t, &CountResult{Count: 2}, results[0].Result)
	require.True(t, results[1].Success, results[1].Error)
	assert.Equal(t, &CountResult{Count: 2}, results[1].Result)
	assert.False(t, results[2].Success)

	assert.Equal(t, work.ID, f.reload(a.ID).ProjectID)
	assert.Equal(t, work.ID, f.reload(b.ID).ProjectID)
	assert.Equal(t, inbox.ID, f.reload(c.ID).ProjectID)
}

func TestBulk_UnknownNameMatchesNothing(t *testing.T) {
	f := newFixture(t)
	inbox := f.inbox(alice)
	f.task(alice, inbox.ID, "a", completed)

	results := f.run(alice, act(action.TypeDeleteBulk, action.EntityTask, &action.BulkDelete{
		Filter: action.Filter{Completed: boolPtr(true), LabelName: "no-existe"},
	}))

	require.True(t, results[0].Success, results[0].Error)
	assert.Equal(t, &CountResult{}, results[0].Result)
	assert.Equal(t, 1, f.count(inbox.ID))
}

func TestBulkDelete_DateRange(t *testing.T) {
	f := newFixture(t)
	inbox := f.inbox(alice)
	old := time.Date(2025, 1, 1, 0, 0, 0, 0, time.Local)
	recent := time.Date(2025, 1, 14, 0, 0, 0, 0, time.Local)
	f.task(alice, inbox.ID, "vieja", func(tk *task.Task) { tk.DueDate = &old })
	f.task(alice, inbox.ID, "reciente", func(tk *task.Task) { tk.DueDate = &recent })
	f.task(alice, inbox.ID, "sin fecha")

	results := f.run(alice, act(action.TypeDeleteBulk, action.EntityTask, &action.BulkDelete{
		Filter: action.Filter{DateRange: &action.DateRange{Type: action.RangeOlder, Days: 7}},
	}))

	require.True(t, results[0].Success, results[0].Error)
	assert.Equal(t, &CountResult{Count: 1}, results[0].Result)
	assert.Equal(t, 2, f.count(inbox.ID))
}

func TestBulkDelete_EmptyFilterRejected(t *testing.T) {
	f := newFixture(t)
	inbox := f.inbox(alice)
	f.task(alice, inbox.ID, "a")

	results := f.run(alice, act(action.TypeDeleteBulk, action.EntityTask, &action.BulkDelete{}))

	assert.False(t, results[0].Success)
	assert.Equal(t, 1, f.count(inbox.ID))
}

func TestQuery(t *testing.T) {
	f := newFixture(t)
	inbox := f.inbox(alice)
	soon := time.Date(2025, 1, 20, 0, 0, 0, 0, time.Local)
	later := time.Date(2025, 2, 20, 0, 0, 0, 0, time.Local)
	f.task(alice, inbox.ID, "pronto", func(tk *task.Task) { tk.DueDate = &soon })
	f.task(alice, inbox.ID, "después", func(tk *task.Task) { tk.DueDate = &later })
	f.task(alice, inbox.ID, "hecha", completed)

	results := f.run(alice,
		act(action.TypeQuery, action.EntityTask, &action.QueryTasks{Upcoming: true}),
		act(action.TypeQuery, action.EntityTask, &action.QueryTasks{Filter: action.Filter{Completed: boolPtr(false)}}),
		action.AIAction{Type: action.TypeQuery, Entity: action.EntityTask, Confidence: 0.9, Explanation: "x"},
		action.AIAction{Type: action.TypeQuery, Entity: action.EntityTask, Query: " PRON ", Confidence: 0.9, Explanation: "x"},
		action.AIAction{
			Type:        action.TypeQuery,
			Entity:      action.EntityTask,
			Query:       "pronto",
			Data:        &action.QueryTasks{Filter: action.Filter{TitleContains: "hecha"}},
			Confidence:  0.9,
			Explanation: "x",
		},
	)

	upcoming := results[0].Result.(*QueryResult)
	require.Equal(t, 1, upcoming.Count)
	assert.Equal(t, "pronto", upcoming.Tasks[0].Title)

	pending := results[1].Result.(*QueryResult)
	assert.Equal(t, 2, pending.Count)

	all := results[2].Result.(*QueryResult)
	assert.Equal(t, 3, all.Count)

	byText := results[3].Result.(*QueryResult)
	require.Equal(t, 1, byText.Count)
	assert.Equal(t, "pronto", byText.Tasks[0].Title)

	// a busca do filtro tem precedência sobre o texto livre
	byFilter := results[4].Result.(*QueryResult)
	require.Equal(t, 1, byFilter.Count)
	assert.Equal(t, "hecha", byFilter.Tasks[0].Title)
	assert.Equal(t, 3, f.count(inbox.ID))
}

func TestReorder_BeforeIsStrictlyBetween(t *testing.T) {
	f := newFixture(t)
	inbox := f.inbox(alice)
	a := f.task(alice, inbox.ID, "alfa", order(1))
	b := f.task(alice, inbox.ID, "beta", order(2))
	c := f.task(alice, inbox.ID, "gamma", order(3))

	results := f.run(alice, act(action.TypeReorder, action.EntityTask, &action.Reorder{
		TaskTitle: "gamma", Position: action.PositionBefore, ReferenceTask: "beta",
	}))

	require.True(t, results[0].Success, results[0].Error)
	got := f.reload(c.ID).Order
	assert.Greater(t, got, a.Order)
	assert.Less(t, got, b.Order)
}

func TestReorder_AfterStartEnd(t *testing.T) {
	f := newFixture(t)
	inbox := f.inbox(alice)
	a := f.task(alice, inbox.ID, "alfa", order(1))
	b := f.task(alice, inbox.ID, "beta", order(2))
	c := f.task(alice, inbox.ID, "gamma", order(3))

	results := f.run(alice,
		act(action.TypeReorder, action.EntityTask, &action.Reorder{TaskTitle: "alfa", Position: action.PositionAfter, ReferenceTask: "beta"}),
		act(action.TypeReorder, action.EntityTask, &action.Reorder{TaskTitle: "gamma", Position: action.PositionStart}),
	)
	require.True(t, results[0].Success, results[0].Error)
	require.True(t, results[1].Success, results[1].Error)

	ao, bo, co := f.reload(a.ID).Order, f.reload(b.ID).Order, f.reload(c.ID).Order
	assert.Less(t, co, bo)
	assert.Less(t, bo, ao)

	results = f.run(alice, act(action.TypeReorder, action.EntityTask, &action.Reorder{TaskTitle: "gamma", Position: action.PositionEnd}))
	require.True(t, results[0].Success, results[0].Error)
	assert.Greater(t, f.reload(c.ID).Order, ao)
}

func TestReorder_PrecisionExhausted(t *testing.T) {
	f := newFixture(t)
	inbox := f.inbox(alice)
	f.task(alice, inbox.ID, "alfa", order(1))
	f.task(alice, inbox.ID, "beta", order(math.Nextafter(1, 2)))
	c := f.task(alice, inbox.ID, "gamma", order(3))

	results := f.run(alice, act(action.TypeReorder, action.EntityTask, &action.Reorder{
		TaskTitle: "gamma", Position: action.PositionBefore, ReferenceTask: "beta",
	}))

	assert.False(t, results[0].Success)
	assert.Equal(t, ErrPrecisionExhausted.Error(), results[0].Error)
	assert.Equal(t, 3.0, f.reload(c.ID).Order)
}

func TestReorder_ItemsAllOrNothing(t *testing.T) {
	f := newFixture(t)
	inbox := f.inbox(alice)
	a := f.task(alice, inbox.ID, "alfa", order(1))
	b := f.task(alice, inbox.ID, "beta", order(2))

	results := f.run(alice,
		act(action.TypeReorder, action.EntityTask, &action.Reorder{Items: []action.ReorderItem{
			{Task: "alfa", Order: 10}, {Task: "no existe", Order: 20},
		}}),
		act(action.TypeReorder, action.EntityTask, &action.Reorder{Items: []action.ReorderItem{
			{Task: "alfa", Order: 10}, {Task: "beta", Order: 5},
		}}),
	)

	assert.False(t, results[0].Success)
	require.True(t, results[1].Success, results[1].Error)
	assert.Equal(t, 10.0, f.reload(a.ID).Order)
	assert.Equal(t, 5.0, f.reload(b.ID).Order)
}

func TestAuthorization(t *testing.T) {
	f := newFixture(t)
	shared := f.project(bob, "Compartido")
	f.share(shared, alice, project.PermissionRead)
	f.task(bob, shared.ID, "tarea de bob", completed)

	results := f.run(alice,
		act(action.TypeCreate, action.EntityTask, &action.CreateTask{TaskFields: action.TaskFields{Title: "intrusa", ProjectName: "compartido"}}),
		act(action.TypeComplete, action.EntityTask, &action.CompleteTask{TaskTitle: "tarea de bob"}),
		act(action.TypeQuery, action.EntityTask, &action.QueryTasks{Filter: action.Filter{ProjectName: "Compartido"}}),
	)

	assert.False(t, results[0].Success)
	assert.Equal(t, ErrForbidden.Error(), results[0].Error)
	assert.False(t, results[1].Success)
	assert.Equal(t, ErrForbidden.Error(), results[1].Error)
	require.True(t, results[2].Success, results[2].Error)
	assert.Equal(t, 1, results[2].Result.(*QueryResult).Count)

	// write permite alterar, mas remoção em lote exige manage
	f.share(shared, alice, project.PermissionWrite)
	results = f.run(alice,
		act(action.TypeDeleteBulk, action.EntityTask, &action.BulkDelete{Filter: action.Filter{ProjectName: "Compartido", Completed: boolPtr(true)}}),
		act(action.TypeDeleteBulk, action.EntityTask, &action.BulkDelete{Filter: action.Filter{Completed: boolPtr(true)}}),
		act(action.TypeUpdate, action.EntityTask, &action.UpdateTask{TaskTitle: "tarea de bob", TaskChanges: action.TaskChanges{Priority: intPtr(2)}}),
	)

	assert.False(t, results[0].Success)
	assert.Equal(t, ErrForbidden.Error(), results[0].Error)
	require.True(t, results[1].Success, results[1].Error)
	assert.Equal(t, &CountResult{Count: 0}, results[1].Result)
	assert.True(t, results[2].Success, results[2].Error)
	assert.Equal(t, 1, f.count(shared.ID))
}

func TestCommentAndReminder(t *testing.T) {
	f := newFixture(t)
	tk := f.task(alice, f.inbox(alice).ID, "dentista")

	results := f.run(alice,
		act(action.TypeAddComment, action.EntityComment, &action.AddComment{TaskTitle: "dentista", Content: "llevar radiografías"}),
		act(action.TypeCreateReminder, action.EntityReminder, &action.CreateReminder{TaskTitle: "dentista", When: "mañana", Time: "08:30"}),
		act(action.TypeCreateReminder, action.EntityReminder, &action.CreateReminder{TaskTitle: "dentista", When: "cuando sea"}),
	)

	require.True(t, results[0].Success, results[0].Error)
	require.True(t, results[1].Success, results[1].Error)
	assert.False(t, results[2].Success)

	comments, err := f.store.Comments().ListByTask(f.ctx, tk.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)

	reminders, err := f.store.Reminders().ListByTask(f.ctx, tk.ID)
	require.NoError(t, err)
	require.Len(t, reminders, 1)
	assert.True(t, time.Date(2025, 1, 16, 8, 30, 0, 0, time.Local).Equal(reminders[0].RemindAt))
}

func TestCreateSectionAndProject(t *testing.T) {
	f := newFixture(t)

	results := f.run(alice,
		act(action.TypeCreateSection, action.EntitySection, &action.CreateSection{Name: "Hoy"}),
		act(action.TypeCreateSection, action.EntitySection, &action.CreateSection{Name: "hoy"}),
		act(action.TypeCreateProject, action.EntityProject, &action.CreateProject{Name: "Viaje"}),
		act(action.TypeCreateProject, action.EntityProject, &action.CreateProject{Name: "viaje"}),
	)

	require.True(t, results[0].Success, results[0].Error)
	require.True(t, results[1].Success, results[1].Error)
	first, second := results[0].Result.(*project.Section), results[1].Result.(*project.Section)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, f.inbox(alice).ID, first.ProjectID)

	assert.True(t, results[2].Success, results[2].Error)
	assert.False(t, results[3].Success)
}

func TestEveryRegisteredTagIsHandled(t *testing.T) {
	f := newFixture(t)

	for _, tag := range action.Tags() {
		a := action.AIAction{Type: tag.Type, Entity: tag.Entity, Data: action.NewPayload(tag), Confidence: 0.9, Explanation: "x"}
		results := f.run(alice, a)
		require.Len(t, results, 1)
		assert.NotContains(t, results[0].Error, ErrUnsupportedAction.Error(), "tag %s", tag)
		assert.NotEqual(t, internalErrorMessage, results[0].Error, "tag %s", tag)
	}
}
