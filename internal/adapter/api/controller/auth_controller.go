package controller

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/tarefas-ia/internal/adapter/api/dto"
	"github.com/hugohenrick/tarefas-ia/internal/domain/project"
	"github.com/hugohenrick/tarefas-ia/internal/domain/user"
	"github.com/hugohenrick/tarefas-ia/pkg/auth"
	"github.com/hugohenrick/tarefas-ia/pkg/logger"
)

// AuthController gerencia as requisições relacionadas à autenticação
type AuthController struct {
	userRepository    user.Repository
	projectRepository project.Repository
	jwtService        *auth.JWTService
	logger            logger.Logger
}

// NewAuthController cria uma nova instância de AuthController
func NewAuthController(userRepository user.Repository, projectRepository project.Repository, jwtService *auth.JWTService, log logger.Logger) *AuthController {
	return &AuthController{
		userRepository:    userRepository,
		projectRepository: projectRepository,
		jwtService:        jwtService,
		logger:            log,
	}
}

// Register cadastra um novo usuário e já devolve o token
// @Summary Cadastra um usuário
// @Description Cria a conta, o Inbox do usuário e retorna um token JWT
// @Tags auth
// @Accept json
// @Produce json
// @Param register body dto.RegisterRequest true "Dados do usuário"
// @Success 201 {object} dto.LoginResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /auth/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var request dto.RegisterRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Requisição inválida", err.Error()))
		return
	}

	u, err := user.NewUser(request.Name, request.Email, request.Password)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Dados inválidos", err.Error()))
		return
	}

	if err := c.userRepository.Create(ctx, u); err != nil {
		if errors.Is(err, user.ErrDuplicateEmail) {
			ctx.JSON(http.StatusConflict, dto.NewErrorResponse(http.StatusConflict, "Email já cadastrado", err.Error()))
			return
		}
		c.logger.Error("falha ao cadastrar usuário", "error", err.Error())
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao cadastrar usuário", err.Error()))
		return
	}

	if _, err := c.projectRepository.GetOrCreateInbox(ctx, u.ID); err != nil {
		// O Inbox é criado de novo no primeiro comando
		c.logger.Warn("falha ao criar Inbox", "user_id", u.ID, "error", err.Error())
	}

	c.logger.Info("usuário cadastrado", "user_id", u.ID)
	c.respondWithToken(ctx, http.StatusCreated, u)
}

// Login autentica um usuário e retorna um token JWT
// @Summary Autentica um usuário
// @Description Verifica as credenciais do usuário e retorna um token JWT
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Credenciais de login"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var request dto.LoginRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Requisição inválida", err.Error()))
		return
	}

	// Buscar o usuário pelo email
	u, err := c.userRepository.FindByEmail(ctx, request.Email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(http.StatusUnauthorized, "Credenciais inválidas", "Email ou senha incorretos"))
			return
		}
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao autenticar usuário", err.Error()))
		return
	}

	// Verificar a senha
	if !u.CheckPassword(request.Password) {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(http.StatusUnauthorized, "Credenciais inválidas", "Email ou senha incorretos"))
		return
	}

	// Atualizar o último login; uma falha aqui não impede o login
	if err := c.userRepository.UpdateLastLogin(ctx, u.ID); err != nil {
		c.logger.Warn("falha ao atualizar último login", "user_id", u.ID, "error", err.Error())
	}

	c.respondWithToken(ctx, http.StatusOK, u)
}

// RefreshToken renova um token JWT
// @Summary Renova um token JWT
// @Description Renova um token JWT existente, mesmo que já expirado
// @Tags auth
// @Accept json
// @Produce json
// @Param refresh body dto.RefreshTokenRequest true "Token a ser renovado"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /auth/refresh [post]
func (c *AuthController) RefreshToken(ctx *gin.Context) {
	var request dto.RefreshTokenRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Requisição inválida", err.Error()))
		return
	}

	newToken, err := c.jwtService.RefreshToken(request.RefreshToken)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(http.StatusUnauthorized, "Token inválido", err.Error()))
		return
	}

	// Validar o novo token para obter as claims
	claims, err := c.jwtService.ValidateToken(newToken)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao validar novo token", err.Error()))
		return
	}

	// Buscar o usuário para ter informações atualizadas
	u, err := c.userRepository.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(http.StatusUnauthorized, "Usuário não encontrado", err.Error()))
			return
		}
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao buscar usuário", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, dto.LoginResponse{
		User:         dto.ToUserResponse(u),
		AccessToken:  newToken,
		RefreshToken: newToken,
		ExpiresAt:    claims.ExpiresAt.Time,
	})
}

// Me retorna o usuário autenticado
// @Summary Usuário autenticado
// @Tags auth
// @Produce json
// @Security Bearer
// @Success 200 {object} dto.UserResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /auth/me [get]
func (c *AuthController) Me(ctx *gin.Context) {
	u, err := c.userRepository.FindByID(ctx, auth.CurrentUserID(ctx))
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(http.StatusUnauthorized, "Usuário não encontrado", err.Error()))
			return
		}
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao buscar usuário", err.Error()))
		return
	}
	ctx.JSON(http.StatusOK, dto.ToUserResponse(u))
}

func (c *AuthController) respondWithToken(ctx *gin.Context, status int, u *user.User) {
	token, err := c.jwtService.GenerateToken(u)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao gerar token", err.Error()))
		return
	}

	ctx.JSON(status, dto.LoginResponse{
		User:         dto.ToUserResponse(u),
		AccessToken:  token,
		RefreshToken: token,
		ExpiresAt:    time.Now().Add(c.jwtService.Expiration()),
	})
}
