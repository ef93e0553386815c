package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/hugohenrick/tarefas-ia/internal/config"
	"github.com/hugohenrick/tarefas-ia/internal/infrastructure/database"
	"github.com/hugohenrick/tarefas-ia/pkg/logger"
)

var migrationsPath string

// rootCmd agrupa os comandos de migração do schema
var rootCmd = &cobra.Command{
	Use:   "migration",
	Short: "Gerencia as migrações do banco de dados",
	Long: `Aplica, desfaz e inspeciona as migrações em migrations/.

A conexão vem das mesmas variáveis da API (DATABASE_URL ou DB_HOST, DB_PORT...).`,
	SilenceUsage: true,
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Aplica todas as migrações pendentes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(func(mg *database.Migrator) error {
			return mg.Up()
		})
	},
}

var downCmd = &cobra.Command{
	Use:   "down [steps]",
	Short: "Desfaz as últimas migrações (1 por padrão)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		steps := 1
		if len(args) == 1 {
			n, err := strconv.Atoi(args[0])
			if err != nil || n < 1 {
				return fmt.Errorf("número de passos inválido: %q", args[0])
			}
			steps = n
		}
		return withMigrator(func(mg *database.Migrator) error {
			return mg.Down(steps)
		})
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Mostra a versão atual do schema",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(func(mg *database.Migrator) error {
			v, dirty, err := mg.Version()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "versão: %d (suja: %t)\n", v, dirty)
			return nil
		})
	},
}

var forceCmd = &cobra.Command{
	Use:   "force <version>",
	Short: "Marca a versão do schema sem executar migrações",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("versão inválida: %q", args[0])
		}
		return withMigrator(func(mg *database.Migrator) error {
			return mg.Force(v)
		})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&migrationsPath, "path", "", "diretório das migrações (padrão: MIGRATIONS_PATH ou migrations)")
	rootCmd.AddCommand(upCmd, downCmd, versionCmd, forceCmd)
}

// withMigrator carrega a configuração, abre o Migrator e o fecha ao final
func withMigrator(fn func(mg *database.Migrator) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("erro ao carregar configuração: %w", err)
	}
	if migrationsPath != "" {
		cfg.Database.MigrationsPath = migrationsPath
	}

	zl, err := logger.New(logger.Options{Level: cfg.Log.Level, Format: "console"})
	if err != nil {
		return err
	}
	defer zl.Sync()

	mg, err := database.NewMigrator(cfg.Database, zl)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := mg.Close(); cerr != nil {
			zl.Warn("erro ao fechar migrator", "error", cerr.Error())
		}
	}()

	return fn(mg)
}

func main() {
	// Carregar variáveis de ambiente
	if err := godotenv.Load(); err != nil {
		log.Printf("Aviso: Arquivo .env não encontrado: %v", err)
	}

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
