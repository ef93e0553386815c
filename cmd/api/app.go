package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/hugohenrick/tarefas-ia/docs"
	"github.com/hugohenrick/tarefas-ia/internal/adapter/api/controller"
	"github.com/hugohenrick/tarefas-ia/internal/adapter/api/route"
	"github.com/hugohenrick/tarefas-ia/internal/adapter/repository"
	"github.com/hugohenrick/tarefas-ia/internal/adapter/repository/memory"
	"github.com/hugohenrick/tarefas-ia/internal/config"
	"github.com/hugohenrick/tarefas-ia/internal/domain/audit"
	"github.com/hugohenrick/tarefas-ia/internal/domain/user"
	"github.com/hugohenrick/tarefas-ia/internal/infrastructure/database"
	"github.com/hugohenrick/tarefas-ia/pkg/ai"
	"github.com/hugohenrick/tarefas-ia/pkg/assistant"
	"github.com/hugohenrick/tarefas-ia/pkg/assistant/executor"
	"github.com/hugohenrick/tarefas-ia/pkg/auth"
	"github.com/hugohenrick/tarefas-ia/pkg/logger"
	"github.com/hugohenrick/tarefas-ia/pkg/middleware"
)

const version = "1.0.0"

// App representa a aplicação e suas dependências
type App struct {
	cfg    *config.Config
	logger logger.Logger
	router *gin.Engine
	db     *pgxpool.Pool
	server *http.Server
}

// repositories agrupa o backend de armazenamento escolhido
type repositories struct {
	users user.Repository
	store executor.Store
	audit audit.Repository
}

// NewApp cria uma nova instância do aplicativo
func NewApp(ctx context.Context, cfg *config.Config, log logger.Logger) (*App, error) {
	app := &App{cfg: cfg, logger: log}

	repos, err := app.setupStorage(ctx)
	if err != nil {
		return nil, err
	}

	provider, err := newProvider(cfg.AI, log)
	if err != nil {
		app.Close()
		return nil, err
	}

	jwtService, err := auth.NewJWTService(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpirationHours)*time.Hour)
	if err != nil {
		app.Close()
		return nil, err
	}

	asst := assistant.New(provider, repos.store, repos.audit,
		assistant.WithLogger(log),
		assistant.WithThresholds(cfg.Shield),
		assistant.WithHeuristicFallback(cfg.AI.HeuristicFallback),
	)

	// Criar controllers
	authController := controller.NewAuthController(repos.users, repos.store.Projects, jwtService, log)
	assistantController := controller.NewAssistantController(asst, log)
	taskController := controller.NewTaskController(repos.store.Tasks, repos.store.Projects, repos.users, log)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(middleware.Recovery(log), middleware.RequestLogger(log))
	router.Use(middleware.BodyLimit(cfg.HTTP.MaxBodyBytes))
	router.Use(cors.New(corsConfig(cfg.HTTP.AllowedOrigins)))

	api := router.Group(cfg.HTTP.BasePath)
	var pinger route.Pinger
	if app.db != nil {
		pinger = app.db
	}
	route.SetupHealthRoutes(api, version, cfg.Storage, pinger)
	route.SetupAuthRoutes(api, authController, jwtService)
	route.SetupAssistantRoutes(api, assistantController, jwtService)
	route.SetupTaskRoutes(api, taskController, jwtService)

	docs.SwaggerInfo.BasePath = cfg.HTTP.BasePath
	docs.SwaggerInfo.Version = version
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	app.router = router
	app.server = &http.Server{
		Addr:              ":" + cfg.HTTP.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info("aplicação configurada",
		"storage", cfg.Storage,
		"provider", provider.Name(),
		"heuristic_fallback", cfg.AI.HeuristicFallback,
	)
	return app, nil
}

// setupStorage conecta ao PostgreSQL ou cria o armazenamento em memória
func (a *App) setupStorage(ctx context.Context) (*repositories, error) {
	if a.cfg.Storage == config.StorageMemory {
		a.logger.Warn("usando armazenamento em memória; os dados são perdidos ao reiniciar")
		st := memory.NewStore()
		return &repositories{
			users: st.Users(),
			store: executor.Store{
				Projects:  st.Projects(),
				Tasks:     st.Tasks(),
				Labels:    st.Labels(),
				Comments:  st.Comments(),
				Reminders: st.Reminders(),
			},
			audit: st.Audit(),
		}, nil
	}

	db, err := database.NewPostgresDB(ctx, a.cfg.Database)
	if err != nil {
		return nil, err
	}
	a.db = db
	a.logger.Info("conectado ao PostgreSQL", "host", a.cfg.Database.Host, "database", a.cfg.Database.Name)

	return &repositories{
		users: repository.NewUserRepository(db),
		store: executor.Store{
			Projects:  repository.NewProjectRepository(db),
			Tasks:     repository.NewTaskRepository(db),
			Labels:    repository.NewLabelRepository(db),
			Comments:  repository.NewCommentRepository(db),
			Reminders: repository.NewReminderRepository(db),
		},
		audit: repository.NewAuditRepository(db),
	}, nil
}

// newProvider escolhe o provedor de geração de texto configurado
func newProvider(cfg config.AIConfig, log logger.Logger) (ai.Provider, error) {
	switch cfg.Provider {
	case config.ProviderOllama:
		return ai.NewOllamaProvider(ai.OllamaConfig{
			Host:      cfg.OllamaHost,
			Model:     cfg.ModelName(),
			MaxTokens: cfg.MaxTokens,
			Timeout:   cfg.Timeout(),
		}, log)
	case config.ProviderAnthropic:
		return ai.NewAnthropicProvider(ai.AnthropicConfig{
			APIKey:    cfg.APIKey,
			Model:     cfg.ModelName(),
			MaxTokens: cfg.MaxTokens,
			Timeout:   cfg.Timeout(),
		}, log)
	}
	return nil, fmt.Errorf("provedor de IA desconhecido: %q", cfg.Provider)
}

func corsConfig(origins []string) cors.Config {
	c := cors.DefaultConfig()
	c.AllowHeaders = append(c.AllowHeaders, "Authorization", middleware.RequestIDHeader)
	c.ExposeHeaders = []string{middleware.RequestIDHeader}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = origins
	}
	return c
}

// Run inicia o servidor e aguarda o cancelamento do contexto para encerrar
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("servidor iniciado", "addr", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("erro no servidor HTTP: %w", err)
	case <-ctx.Done():
	}

	a.logger.Info("encerrando servidor")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return a.server.Shutdown(shutdownCtx)
}

// GetRouter retorna o router da aplicação
func (a *App) GetRouter() *gin.Engine {
	return a.router
}

// Close libera os recursos da aplicação
func (a *App) Close() {
	if a.db != nil {
		a.db.Close()
	}
}
