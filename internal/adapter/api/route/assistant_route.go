package route

import (
	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/tarefas-ia/internal/adapter/api/controller"
	"github.com/hugohenrick/tarefas-ia/pkg/auth"
)

// SetupAssistantRoutes configura as rotas do assistente de comandos
func SetupAssistantRoutes(router *gin.RouterGroup, assistantController *controller.AssistantController, jwtService *auth.JWTService) {
	assistantRouter := router.Group("/assistant")
	assistantRouter.Use(auth.JWTAuthMiddleware(jwtService))
	{
		assistantRouter.POST("/command", assistantController.Command)
		assistantRouter.POST("/reply", assistantController.Reply)
		assistantRouter.POST("/confirm/:operation_id", assistantController.Confirm)
		assistantRouter.DELETE("/pending/:operation_id", assistantController.Cancel)

		// Etapas isoladas do pipeline
		assistantRouter.POST("/parse", assistantController.Parse)
		assistantRouter.POST("/assess", assistantController.Assess)
		assistantRouter.POST("/execute", assistantController.Execute)
		assistantRouter.GET("/dates", assistantController.ResolveDate)

		assistantRouter.GET("/history", assistantController.History)
		assistantRouter.DELETE("/history", assistantController.ClearHistory)
	}
}
