package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/hugohenrick/tarefas-ia/internal/config"
	"github.com/hugohenrick/tarefas-ia/pkg/logger"
)

func main() {
	// Carregar variáveis de ambiente
	if err := godotenv.Load(); err != nil {
		log.Printf("Aviso: Arquivo .env não encontrado: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Erro ao carregar configuração: %v", err)
	}

	zl, err := logger.New(logger.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		log.Fatalf("Erro ao configurar logger: %v", err)
	}
	defer zl.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := NewApp(ctx, cfg, zl)
	if err != nil {
		zl.Error("falha ao iniciar aplicação", "error", err.Error())
		os.Exit(1)
	}
	defer app.Close()

	if err := app.Run(ctx); err != nil {
		zl.Error("servidor encerrado com erro", "error", err.Error())
		os.Exit(1)
	}
}
