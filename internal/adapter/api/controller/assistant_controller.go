package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/tarefas-ia/internal/adapter/api/dto"
	"github.com/hugohenrick/tarefas-ia/pkg/assistant"
	"github.com/hugohenrick/tarefas-ia/pkg/auth"
	"github.com/hugohenrick/tarefas-ia/pkg/logger"
)

// AssistantController expõe o pipeline de comandos em linguagem natural
type AssistantController struct {
	assistant *assistant.Assistant
	logger    logger.Logger
}

// NewAssistantController cria uma nova instância de AssistantController
func NewAssistantController(a *assistant.Assistant, log logger.Logger) *AssistantController {
	return &AssistantController{
		assistant: a,
		logger:    log,
	}
}

// Command interpreta e, conforme a confiança, executa um comando
// @Summary Envia um comando em linguagem natural
// @Description Consulta o modelo, avalia a intenção e executa, sugere ou pede esclarecimento
// @Tags assistant
// @Accept json
// @Produce json
// @Security Bearer
// @Param command body dto.CommandRequest true "Comando"
// @Success 200 {object} assistant.Response
// @Failure 400 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /assistant/command [post]
func (c *AssistantController) Command(ctx *gin.Context) {
	var request dto.CommandRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Requisição inválida", err.Error()))
		return
	}

	resp, err := c.assistant.Interpret(ctx, auth.CurrentUserID(ctx), request.Command)
	if err != nil {
		c.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// Reply trata uma resposta livre (sim, no, cancelar...) ou um novo comando
// @Summary Responde a uma sugestão pendente
// @Tags assistant
// @Accept json
// @Produce json
// @Security Bearer
// @Param reply body dto.ReplyRequest true "Resposta"
// @Success 200 {object} assistant.Response
// @Failure 400 {object} dto.ErrorResponse
// @Router /assistant/reply [post]
func (c *AssistantController) Reply(ctx *gin.Context) {
	var request dto.ReplyRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Requisição inválida", err.Error()))
		return
	}

	resp, err := c.assistant.Reply(ctx, auth.CurrentUserID(ctx), request.Text)
	if err != nil {
		c.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// Confirm executa uma sugestão pendente
// @Summary Confirma uma sugestão
// @Tags assistant
// @Produce json
// @Security Bearer
// @Param operation_id path string true "ID da operação"
// @Success 200 {object} assistant.Response
// @Failure 404 {object} dto.ErrorResponse
// @Failure 410 {object} dto.ErrorResponse
// @Router /assistant/confirm/{operation_id} [post]
func (c *AssistantController) Confirm(ctx *gin.Context) {
	resp, err := c.assistant.Confirm(ctx, auth.CurrentUserID(ctx), ctx.Param("operation_id"))
	if err != nil {
		c.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// Cancel descarta uma sugestão pendente
// @Summary Cancela uma sugestão
// @Tags assistant
// @Security Bearer
// @Param operation_id path string true "ID da operação"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Router /assistant/pending/{operation_id} [delete]
func (c *AssistantController) Cancel(ctx *gin.Context) {
	if err := c.assistant.Cancel(ctx, auth.CurrentUserID(ctx), ctx.Param("operation_id")); err != nil {
		c.respondError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// Parse extrai ações do texto de um modelo, sem executar
// @Summary Testa o parser
// @Tags assistant
// @Accept json
// @Produce json
// @Security Bearer
// @Param parse body dto.ParseRequest true "Texto do modelo"
// @Success 200 {object} parser.Result
// @Router /assistant/parse [post]
func (c *AssistantController) Parse(ctx *gin.Context) {
	var request dto.ParseRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Requisição inválida", err.Error()))
		return
	}
	ctx.JSON(http.StatusOK, c.assistant.Parse(request.Text))
}

// Assess avalia ações extraídas, sem executar
// @Summary Testa o shield
// @Tags assistant
// @Accept json
// @Produce json
// @Security Bearer
// @Param assess body dto.AssessRequest true "Texto e ações"
// @Success 200 {object} shield.Assessment
// @Router /assistant/assess [post]
func (c *AssistantController) Assess(ctx *gin.Context) {
	var request dto.AssessRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Requisição inválida", err.Error()))
		return
	}
	ctx.JSON(http.StatusOK, c.assistant.Assess(request.Text, request.Actions, request.ParsingConfidence))
}

// Execute executa ações já estruturadas
// @Summary Executa ações
// @Tags assistant
// @Accept json
// @Produce json
// @Security Bearer
// @Param execute body dto.ExecuteRequest true "Ações"
// @Success 200 {array} executor.Result
// @Router /assistant/execute [post]
func (c *AssistantController) Execute(ctx *gin.Context) {
	var request dto.ExecuteRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Requisição inválida", err.Error()))
		return
	}
	ctx.JSON(http.StatusOK, c.assistant.Execute(ctx, auth.CurrentUserID(ctx), request.Actions))
}

// ResolveDate interpreta uma expressão de data
// @Summary Interpreta uma data
// @Tags assistant
// @Produce json
// @Security Bearer
// @Param expr query string true "Expressão, por exemplo mañana ou next friday"
// @Success 200 {object} dto.DateResponse
// @Router /assistant/dates [get]
func (c *AssistantController) ResolveDate(ctx *gin.Context) {
	expr := ctx.Query("expr")
	resp := dto.DateResponse{Expression: expr}
	if d, ok := c.assistant.ResolveDate(expr); ok {
		resp.Resolved = true
		resp.Date = d.Format("2006-01-02")
	}
	ctx.JSON(http.StatusOK, resp)
}

// History lista os comandos do usuário
// @Summary Histórico de comandos
// @Tags assistant
// @Produce json
// @Security Bearer
// @Param page query int false "Página"
// @Param page_size query int false "Itens por página"
// @Success 200 {object} dto.HistoryListResponse
// @Router /assistant/history [get]
func (c *AssistantController) History(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(ctx.DefaultQuery("page_size", "10"))
	pagination := dto.GetPagination(page, pageSize)

	entries, err := c.assistant.History(ctx, auth.CurrentUserID(ctx), pagination.PageSize, pagination.Offset())
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao listar histórico", err.Error()))
		return
	}

	resp := dto.HistoryListResponse{
		Data:     make([]dto.HistoryEntryResponse, 0, len(entries)),
		Page:     pagination.Page,
		PageSize: pagination.PageSize,
	}
	for _, e := range entries {
		resp.Data = append(resp.Data, dto.ToHistoryEntryResponse(e))
	}
	ctx.JSON(http.StatusOK, resp)
}

// ClearHistory remove o histórico do usuário
// @Summary Limpa o histórico
// @Tags assistant
// @Produce json
// @Security Bearer
// @Success 200 {object} dto.SuccessResponse
// @Router /assistant/history [delete]
func (c *AssistantController) ClearHistory(ctx *gin.Context) {
	n, err := c.assistant.ClearHistory(ctx, auth.CurrentUserID(ctx))
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao limpar histórico", err.Error()))
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Histórico removido", gin.H{"deleted": n}))
}

func (c *AssistantController) respondError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, assistant.ErrEmptyCommand):
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Comando vazio", err.Error()))
	case errors.Is(err, assistant.ErrPendingNotFound):
		ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "Operação não encontrada", err.Error()))
	case errors.Is(err, assistant.ErrPendingExpired):
		ctx.JSON(http.StatusGone, dto.NewErrorResponse(http.StatusGone, "Operação expirada", err.Error()))
	case errors.Is(err, assistant.ErrProvider):
		ctx.JSON(http.StatusBadGateway, dto.NewErrorResponse(http.StatusBadGateway, "Falha no provedor de IA", err.Error()))
	default:
		c.logger.Error("erro no assistente", "path", ctx.FullPath(), "error", err.Error())
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro interno", err.Error()))
	}
}
