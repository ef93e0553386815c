package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/tarefas-ia/internal/adapter/api/dto"
	"github.com/hugohenrick/tarefas-ia/internal/domain/project"
	"github.com/hugohenrick/tarefas-ia/internal/domain/task"
	"github.com/hugohenrick/tarefas-ia/internal/domain/user"
	"github.com/hugohenrick/tarefas-ia/pkg/auth"
	"github.com/hugohenrick/tarefas-ia/pkg/logger"
)

// TaskController gerencia a leitura de tarefas e projetos
type TaskController struct {
	taskRepository    task.Repository
	projectRepository project.Repository
	userRepository    user.Repository
	logger            logger.Logger
}

// NewTaskController cria uma nova instância de TaskController
func NewTaskController(taskRepository task.Repository, projectRepository project.Repository, userRepository user.Repository, log logger.Logger) *TaskController {
	return &TaskController{
		taskRepository:    taskRepository,
		projectRepository: projectRepository,
		userRepository:    userRepository,
		logger:            log,
	}
}

// ListTasks lista as tarefas visíveis ao usuário
// @Summary Lista tarefas
// @Tags tasks
// @Produce json
// @Security Bearer
// @Param project_id query string false "Filtra por projeto"
// @Param completed query bool false "Filtra por conclusão"
// @Param priority query int false "Filtra por prioridade (1 a 4)"
// @Param search query string false "Trecho do título"
// @Param limit query int false "Máximo de tarefas"
// @Success 200 {object} dto.TaskListResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /tasks [get]
func (c *TaskController) ListTasks(ctx *gin.Context) {
	userID := auth.CurrentUserID(ctx)

	projects, err := c.projectRepository.ListAccessible(ctx, userID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao listar projetos", err.Error()))
		return
	}

	criteria := task.Criteria{
		TitleContains: ctx.Query("search"),
		Limit:         100,
	}

	if projectID := ctx.Query("project_id"); projectID != "" {
		allowed := false
		for _, p := range projects {
			if p.ID == projectID {
				allowed = true
				break
			}
		}
		if !allowed {
			ctx.JSON(http.StatusForbidden, dto.NewErrorResponse(http.StatusForbidden, "Acesso negado", "Projeto não encontrado ou sem permissão"))
			return
		}
		criteria.ProjectIDs = []string{projectID}
	} else {
		for _, p := range projects {
			criteria.ProjectIDs = append(criteria.ProjectIDs, p.ID)
		}
	}

	if v := ctx.Query("completed"); v != "" {
		completed, err := strconv.ParseBool(v)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Parâmetro inválido", "completed deve ser true ou false"))
			return
		}
		criteria.Completed = &completed
	}
	if v := ctx.Query("priority"); v != "" {
		priority, err := strconv.Atoi(v)
		if err != nil || priority < 1 || priority > 4 {
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Parâmetro inválido", "priority deve estar entre 1 e 4"))
			return
		}
		criteria.Priority = &priority
	}
	if v := ctx.Query("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 1 {
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Parâmetro inválido", "limit deve ser positivo"))
			return
		}
		criteria.Limit = limit
	}

	tasks, err := c.taskRepository.Find(ctx, criteria)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao listar tarefas", err.Error()))
		return
	}
	if tasks == nil {
		tasks = []*task.Task{}
	}

	ctx.JSON(http.StatusOK, dto.TaskListResponse{Data: tasks, Count: len(tasks)})
}

// ListProjects lista os projetos próprios e compartilhados, com as seções
// @Summary Lista projetos
// @Tags projects
// @Produce json
// @Security Bearer
// @Success 200 {array} dto.ProjectResponse
// @Router /projects [get]
func (c *TaskController) ListProjects(ctx *gin.Context) {
	userID := auth.CurrentUserID(ctx)

	if _, err := c.projectRepository.GetOrCreateInbox(ctx, userID); err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao obter Inbox", err.Error()))
		return
	}

	projects, err := c.projectRepository.ListAccessible(ctx, userID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao listar projetos", err.Error()))
		return
	}

	resp := make([]dto.ProjectResponse, 0, len(projects))
	for _, p := range projects {
		sections, err := c.projectRepository.ListSections(ctx, p.ID)
		if err != nil {
			ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao listar seções", err.Error()))
			return
		}
		if sections == nil {
			sections = []*project.Section{}
		}
		resp = append(resp, dto.ProjectResponse{Project: p, Access: p.Permission.String(), Sections: sections})
	}

	ctx.JSON(http.StatusOK, resp)
}

// ShareProject compartilha um projeto com outro usuário
// @Summary Compartilha um projeto
// @Tags projects
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "ID do projeto"
// @Param member body dto.ShareProjectRequest true "Usuário e permissão"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /projects/{id}/members [post]
func (c *TaskController) ShareProject(ctx *gin.Context) {
	var request dto.ShareProjectRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Requisição inválida", err.Error()))
		return
	}

	perm, err := project.ParsePermission(request.Permission)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Permissão inválida", err.Error()))
		return
	}

	projectID := ctx.Param("id")
	userID := auth.CurrentUserID(ctx)

	current, err := c.projectRepository.Permission(ctx, projectID, userID)
	if err != nil && !errors.Is(err, project.ErrNotFound) {
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao verificar permissão", err.Error()))
		return
	}
	if current == project.PermissionNone {
		ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "Projeto não encontrado", ""))
		return
	}
	if current < project.PermissionManage {
		ctx.JSON(http.StatusForbidden, dto.NewErrorResponse(http.StatusForbidden, "Acesso negado", "É preciso permissão manage para compartilhar"))
		return
	}

	member, err := c.userRepository.FindByEmail(ctx, request.Email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "Usuário não encontrado", request.Email))
			return
		}
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao buscar usuário", err.Error()))
		return
	}
	if member.ID == userID {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Compartilhamento inválido", "O projeto já é seu"))
		return
	}

	if err := c.projectRepository.Share(ctx, &project.Member{ProjectID: projectID, UserID: member.ID, Permission: perm}); err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao compartilhar projeto", err.Error()))
		return
	}

	c.logger.Info("projeto compartilhado", "project_id", projectID, "member_id", member.ID, "permission", perm.String())
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Projeto compartilhado", gin.H{
		"project_id": projectID,
		"user_id":    member.ID,
		"permission": perm.String(),
	}))
}
