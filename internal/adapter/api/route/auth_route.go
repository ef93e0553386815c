package route

import (
	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/tarefas-ia/internal/adapter/api/controller"
	"github.com/hugohenrick/tarefas-ia/pkg/auth"
)

// SetupAuthRoutes configura as rotas para autenticação
func SetupAuthRoutes(router *gin.RouterGroup, authController *controller.AuthController, jwtService *auth.JWTService) {
	authRouter := router.Group("/auth")
	{
		// Rotas públicas
		authRouter.POST("/register", authController.Register)
		authRouter.POST("/login", authController.Login)

		// Usa o próprio token, mesmo expirado
		authRouter.POST("/refresh", authController.RefreshToken)

		authRouter.GET("/me", auth.JWTAuthMiddleware(jwtService), authController.Me)
	}
}
