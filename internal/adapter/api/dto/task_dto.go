package dto

import (
	"github.com/hugohenrick/tarefas-ia/internal/domain/project"
	"github.com/hugohenrick/tarefas-ia/internal/domain/task"
)

// TaskListResponse representa a lista de tarefas filtrada
type TaskListResponse struct {
	Data  []*task.Task `json:"data"`
	Count int          `json:"count"`
}

// ProjectResponse representa um projeto visível ao usuário
type ProjectResponse struct {
	*project.Project
	Access   string             `json:"access"`
	Sections []*project.Section `json:"sections"`
}

// ShareProjectRequest compartilha um projeto com outro usuário
type ShareProjectRequest struct {
	Email      string `json:"email" binding:"required,email"`
	Permission string `json:"permission" binding:"required,oneof=read write manage"`
}
