package controller_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugohenrick/tarefas-ia/internal/adapter/api/controller"
	"github.com/hugohenrick/tarefas-ia/internal/adapter/api/dto"
	"github.com/hugohenrick/tarefas-ia/internal/adapter/api/route"
	"github.com/hugohenrick/tarefas-ia/internal/adapter/repository/memory"
	"github.com/hugohenrick/tarefas-ia/pkg/ai"
	"github.com/hugohenrick/tarefas-ia/pkg/assistant"
	"github.com/hugohenrick/tarefas-ia/pkg/assistant/executor"
	"github.com/hugohenrick/tarefas-ia/pkg/auth"
	"github.com/hugohenrick/tarefas-ia/pkg/logger"
	"github.com/hugohenrick/tarefas-ia/pkg/middleware"
)

type stubProvider struct{ text string }

func (p *stubProvider) Generate(ctx context.Context, prompt ai.Prompt) (string, error) {
	return p.text, nil
}

func (p *stubProvider) Name() string { return "stub" }

type server struct {
	t        *testing.T
	router   *gin.Engine
	provider *stubProvider
}

func newServer(t *testing.T) *server {
	gin.SetMode(gin.TestMode)
	log := logger.NewNop()
	st := memory.NewStore()
	store := executor.Store{
		Projects:  st.Projects(),
		Tasks:     st.Tasks(),
		Labels:    st.Labels(),
		Comments:  st.Comments(),
		Reminders: st.Reminders(),
	}

	jwtService, err := auth.NewJWTService("segredo", time.Hour)
	require.NoError(t, err)

	provider := &stubProvider{}
	asst := assistant.New(provider, store, st.Audit(), assistant.WithLogger(log))

	router := gin.New()
	router.Use(middleware.BodyLimit(1 << 20))
	api := router.Group("/api/v1")
	route.SetupHealthRoutes(api, "test", "memory", nil)
	route.SetupAuthRoutes(api, controller.NewAuthController(st.Users(), store.Projects, jwtService, log), jwtService)
	route.SetupAssistantRoutes(api, controller.NewAssistantController(asst, log), jwtService)
	route.SetupTaskRoutes(api, controller.NewTaskController(store.Tasks, store.Projects, st.Users(), log), jwtService)

	return &server{t: t, router: router, provider: provider}
}

func (s *server) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, "/api/v1"+path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *server) register(name, email string) string {
	w := s.do(http.MethodPost, "/auth/register", "", dto.RegisterRequest{Name: name, Email: email, Password: "senha-forte"})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())

	var resp dto.LoginResponse
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(s.t, resp.AccessToken)
	return resp.AccessToken
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	s := newServer(t)
	w := s.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestAuthFlow(t *testing.T) {
	s := newServer(t)
	token := s.register("Alice", "alice@example.com")

	w := s.do(http.MethodPost, "/auth/register", "", dto.RegisterRequest{Name: "Outra", Email: "ALICE@example.com", Password: "senha-forte"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(http.MethodPost, "/auth/login", "", dto.LoginRequest{Email: "alice@example.com", Password: "errada"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPost, "/auth/login", "", dto.LoginRequest{Email: "alice@example.com", Password: "senha-forte"})
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodPost, "/auth/refresh", "", dto.RefreshTokenRequest{RefreshToken: token})
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Alice", decode[dto.UserResponse](t, w).Name)

	w = s.do(http.MethodGet, "/tasks", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCommandExecutesAndListsTasks(t *testing.T) {
	s := newServer(t)
	token := s.register("Alice", "alice@example.com")

	s.provider.text = "```json\n" +
		`[{"type":"create","entity":"task","data":{"titulo":"Revisar contrato","prioridad":1},"confidence":0.95,"explanation":"crear"}]` +
		"\n```"
	w := s.do(http.MethodPost, "/assistant/command", token, dto.CommandRequest{Command: "revisar contrato, urgente"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[assistant.Response](t, w)
	assert.Equal(t, "execute", string(resp.Decision))
	require.Len(t, resp.Results, 1)
	assert.True(t, resp.Results[0].Success)

	w = s.do(http.MethodGet, "/tasks?search=contrato", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[dto.TaskListResponse](t, w)
	require.Equal(t, 1, list.Count)
	assert.Equal(t, "Revisar contrato", list.Data[0].Title)

	w = s.do(http.MethodGet, "/tasks?priority=9", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/assistant/history", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	history := decode[dto.HistoryListResponse](t, w)
	require.Len(t, history.Data, 1)
	assert.Equal(t, "revisar contrato, urgente", history.Data[0].Command)

	w = s.do(http.MethodDelete, "/assistant/history", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSuggestConfirmAndCancel(t *testing.T) {
	s := newServer(t)
	token := s.register("Alice", "alice@example.com")

	s.provider.text = `[{"type":"create","entity":"task","data":{"titulo":"Pagar luz"},"confidence":0.7,"explanation":"crear"}]`

	w := s.do(http.MethodPost, "/assistant/command", token, dto.CommandRequest{Command: "pagar luz"})
	require.Equal(t, http.StatusOK, w.Code)
	first := decode[assistant.Response](t, w)
	require.Equal(t, "suggest", string(first.Decision))
	require.NotEmpty(t, first.OperationID)

	w = s.do(http.MethodPost, "/assistant/confirm/"+first.OperationID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[assistant.Response](t, w).Results, 1)

	w = s.do(http.MethodPost, "/assistant/confirm/"+first.OperationID, token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodPost, "/assistant/command", token, dto.CommandRequest{Command: "pagar luz"})
	second := decode[assistant.Response](t, w)
	w = s.do(http.MethodDelete, "/assistant/pending/"+second.OperationID, token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(http.MethodGet, "/tasks", token, nil)
	assert.Equal(t, 1, decode[dto.TaskListResponse](t, w).Count)
}

func TestCommand_EmptyProviderTextClarifies(t *testing.T) {
	s := newServer(t)
	token := s.register("Alice", "alice@example.com")
	s.provider.text = ""

	w := s.do(http.MethodPost, "/assistant/command", token, dto.CommandRequest{Command: "haz lo de siempre"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[assistant.Response](t, w)
	assert.Equal(t, "clarify", string(resp.Decision))
	assert.Equal(t, "empty_input", string(resp.Method))
	assert.NotEmpty(t, resp.Clarification)
}

func TestRequestSizeLimits(t *testing.T) {
	s := newServer(t)
	token := s.register("Alice", "alice@example.com")

	w := s.do(http.MethodPost, "/assistant/command", token, dto.CommandRequest{Command: strings.Repeat("a", 2001)})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/assistant/parse", token, dto.ParseRequest{Text: strings.Repeat("{", 65537)})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/assistant/parse", token, dto.ParseRequest{Text: strings.Repeat("{", 1000)})
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodPost, "/assistant/assess", token, dto.AssessRequest{Text: strings.Repeat("a", 2<<20)})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDryRunEndpoints(t *testing.T) {
	s := newServer(t)
	token := s.register("Alice", "alice@example.com")

	w := s.do(http.MethodPost, "/assistant/parse", token, dto.ParseRequest{Text: `{"type":"query","entity":"task","confidence":0.9,"explanation":"listar"}`})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"method":"object_json"`)

	w = s.do(http.MethodGet, "/assistant/dates?expr=ma%C3%B1ana", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	date := decode[dto.DateResponse](t, w)
	assert.True(t, date.Resolved)
	assert.Equal(t, time.Now().AddDate(0, 0, 1).Format("2006-01-02"), date.Date)

	w = s.do(http.MethodGet, "/assistant/dates?expr=algun%20dia", token, nil)
	assert.False(t, decode[dto.DateResponse](t, w).Resolved)

	raw := `{"actions":[{"type":"create","entity":"project","data":{"name":"Casa"},"confidence":0.9,"explanation":"crear"}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/assistant/execute", bytes.NewBufferString(raw))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"success":true`)

	w = s.do(http.MethodGet, "/projects", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]dto.ProjectResponse](t, w), 2)
}

func TestShareProject(t *testing.T) {
	s := newServer(t)
	alice := s.register("Alice", "alice@example.com")
	bob := s.register("Bob", "bob@example.com")

	w := s.do(http.MethodGet, "/projects", alice, nil)
	projects := decode[[]dto.ProjectResponse](t, w)
	require.Len(t, projects, 1)
	inboxID := projects[0].ID
	assert.Equal(t, "manage", projects[0].Access)

	w = s.do(http.MethodPost, "/projects/"+inboxID+"/members", bob, dto.ShareProjectRequest{Email: "bob@example.com", Permission: "read"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodPost, "/projects/"+inboxID+"/members", alice, dto.ShareProjectRequest{Email: "nadie@example.com", Permission: "read"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodPost, "/projects/"+inboxID+"/members", alice, dto.ShareProjectRequest{Email: "bob@example.com", Permission: "owner"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/projects/"+inboxID+"/members", alice, dto.ShareProjectRequest{Email: "bob@example.com", Permission: "read"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodGet, "/projects", bob, nil)
	shared := decode[[]dto.ProjectResponse](t, w)
	require.Len(t, shared, 2)

	w = s.do(http.MethodPost, "/projects/"+inboxID+"/members", bob, dto.ShareProjectRequest{Email: "alice@example.com", Permission: "read"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}
