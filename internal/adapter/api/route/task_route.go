package route

import (
	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/tarefas-ia/internal/adapter/api/controller"
	"github.com/hugohenrick/tarefas-ia/pkg/auth"
)

// SetupTaskRoutes configura as rotas de tarefas e projetos
func SetupTaskRoutes(router *gin.RouterGroup, taskController *controller.TaskController, jwtService *auth.JWTService) {
	protected := router.Group("")
	protected.Use(auth.JWTAuthMiddleware(jwtService))
	{
		protected.GET("/tasks", taskController.ListTasks)
		protected.GET("/projects", taskController.ListProjects)
		protected.POST("/projects/:id/members", taskController.ShareProject)
	}
}
