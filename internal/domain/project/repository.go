package project

import (
	"context"
)

// Repository define as operações de persistência para projetos e seções.
// As buscas "accessible" consideram projetos do usuário e projetos compartilhados
// com ele, e preenchem Project.Permission.
type Repository interface {
	// Create persiste um novo projeto
	Create(ctx context.Context, p *Project) error

	// FindByID busca um projeto pelo ID
	FindByID(ctx context.Context, id string) (*Project, error)

	// FindAccessibleByName busca por nome exato, sem diferenciar maiúsculas
	FindAccessibleByName(ctx context.Context, userID, name string) (*Project, error)

	// GetOrCreateInbox retorna o Inbox do usuário, criando-o se necessário
	GetOrCreateInbox(ctx context.Context, userID string) (*Project, error)

	// ListAccessible lista os projetos que o usuário pode ler
	ListAccessible(ctx context.Context, userID string) ([]*Project, error)

	// Permission retorna o nível de acesso do usuário ao projeto
	Permission(ctx context.Context, projectID, userID string) (Permission, error)

	// Delete remove um projeto com suas seções e tarefas
	Delete(ctx context.Context, id string) error

	// Share concede (ou altera) o acesso de um usuário ao projeto
	Share(ctx context.Context, m *Member) error

	// FindSectionByName busca uma seção pelo nome dentro do projeto
	FindSectionByName(ctx context.Context, projectID, name string) (*Section, error)

	// ListSections lista as seções de um projeto
	ListSections(ctx context.Context, projectID string) ([]*Section, error)

	// CreateSection persiste uma nova seção
	CreateSection(ctx context.Context, s *Section) error

	// DeleteSection remove uma seção; as tarefas ficam sem seção
	DeleteSection(ctx context.Context, id string) error
}
