package database

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/hugohenrick/tarefas-ia/internal/config"
	"github.com/hugohenrick/tarefas-ia/pkg/logger"
)

// Migrator aplica as migrações de migrations/ com golang-migrate
type Migrator struct {
	m      *migrate.Migrate
	logger logger.Logger
}

// NewMigrator cria um Migrator para o banco configurado
func NewMigrator(cfg config.DatabaseConfig, log logger.Logger) (*Migrator, error) {
	path, err := filepath.Abs(cfg.MigrationsPath)
	if err != nil {
		return nil, fmt.Errorf("caminho de migrações inválido: %w", err)
	}

	m, err := migrate.New("file://"+filepath.ToSlash(path), cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("erro ao criar migrate: %w", err)
	}
	return &Migrator{m: m, logger: log}, nil
}

// Up aplica todas as migrações pendentes
func (mg *Migrator) Up() error {
	if err := mg.m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			mg.logger.Info("nenhuma migração pendente")
			return nil
		}
		return fmt.Errorf("erro ao aplicar migrações: %w", err)
	}
	mg.logger.Info("migrações aplicadas com sucesso")
	return nil
}

// Down desfaz as últimas steps migrações
func (mg *Migrator) Down(steps int) error {
	if steps <= 0 {
		steps = 1
	}
	if err := mg.m.Steps(-steps); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			return nil
		}
		return fmt.Errorf("erro ao desfazer migrações: %w", err)
	}
	mg.logger.Info("migrações desfeitas", "steps", steps)
	return nil
}

// Version retorna a versão atual do schema e se ela ficou suja
func (mg *Migrator) Version() (uint, bool, error) {
	v, dirty, err := mg.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("erro ao ler versão do schema: %w", err)
	}
	return v, dirty, nil
}

// Force marca a versão sem executar migrações, para sair de um estado sujo
func (mg *Migrator) Force(version int) error {
	if err := mg.m.Force(version); err != nil {
		return fmt.Errorf("erro ao forçar versão: %w", err)
	}
	return nil
}

// Close libera as conexões do migrate
func (mg *Migrator) Close() error {
	srcErr, dbErr := mg.m.Close()
	return errors.Join(srcErr, dbErr)
}
