// Package config carrega a configuração da aplicação: valores padrão, um
// arquivo YAML opcional (CONFIG_FILE) e, por último, variáveis de ambiente.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hugohenrick/tarefas-ia/pkg/assistant/shield"
)

// Backends de armazenamento
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Provedores de geração de texto
const (
	ProviderAnthropic = "anthropic"
	ProviderOllama    = "ollama"
)

// Config agrupa todas as configurações
type Config struct {
	HTTP     HTTPConfig        `yaml:"http"`
	Database DatabaseConfig    `yaml:"database"`
	Storage  string            `yaml:"storage"`
	JWT      JWTConfig         `yaml:"jwt"`
	AI       AIConfig          `yaml:"ai"`
	Shield   shield.Thresholds `yaml:"shield"`
	Log      LogConfig         `yaml:"log"`
}

type HTTPConfig struct {
	Port           string   `yaml:"port"`
	BasePath       string   `yaml:"base_path"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	MaxBodyBytes   int64    `yaml:"max_body_bytes"`
}

// DatabaseConfig contém as configurações para conexão com o PostgreSQL
type DatabaseConfig struct {
	URL             string        `yaml:"url"`
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	Name            string        `yaml:"name"`
	SSLMode         string        `yaml:"ssl_mode"`
	MaxConnections  int32         `yaml:"max_connections"`
	MinConnections  int32         `yaml:"min_connections"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"`
	MigrationsPath  string        `yaml:"migrations_path"`
}

// ConnectionString retorna a URL de conexão; DATABASE_URL tem precedência
func (c DatabaseConfig) ConnectionString() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode)
}

type JWTConfig struct {
	Secret          string `yaml:"secret"`
	ExpirationHours int    `yaml:"expiration_hours"`
}

// Modelos usados quando AI_MODEL não é informado
const (
	DefaultAnthropicModel = "claude-3-5-haiku-latest"
	DefaultOllamaModel    = "llama3.1"
)

// AIConfig seleciona e configura o provedor de geração de texto. Model vazio
// assume o padrão do provedor escolhido.
type AIConfig struct {
	Provider          string `yaml:"provider"`
	APIKey            string `yaml:"api_key"`
	Model             string `yaml:"model"`
	MaxTokens         int    `yaml:"max_tokens"`
	TimeoutSeconds    int    `yaml:"timeout_seconds"`
	OllamaHost        string `yaml:"ollama_host"`
	HeuristicFallback bool   `yaml:"heuristic_fallback"`
}

// ModelName retorna o modelo configurado ou o padrão do provedor
func (c AIConfig) ModelName() string {
	if c.Model != "" {
		return c.Model
	}
	if c.Provider == ProviderOllama {
		return DefaultOllamaModel
	}
	return DefaultAnthropicModel
}

// Timeout retorna o limite de tempo de uma chamada ao provedor
func (c AIConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 60 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default retorna a configuração padrão
func Default() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Port:           "8080",
			BasePath:       "/api/v1",
			AllowedOrigins: []string{"*"},
			MaxBodyBytes:   1 << 20,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			Password:        "postgres",
			Name:            "tarefas_ia",
			SSLMode:         "disable",
			MaxConnections:  10,
			MinConnections:  1,
			MaxConnLifetime: time.Hour,
			MigrationsPath:  "migrations",
		},
		Storage: StoragePostgres,
		JWT: JWTConfig{
			ExpirationHours: 24,
		},
		AI: AIConfig{
			Provider:          ProviderAnthropic,
			MaxTokens:         2048,
			TimeoutSeconds:    60,
			OllamaHost:        "http://localhost:11434",
			HeuristicFallback: true,
		},
		Shield: shield.DefaultThresholds(),
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load monta a configuração. O arquivo de .env deve ser carregado antes
// (godotenv, no main).
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("erro ao ler arquivo de configuração: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("erro ao interpretar arquivo de configuração: %w", err)
	}
	return nil
}

// applyEnv aplica as variáveis de ambiente, que têm precedência sobre o YAML
func (c *Config) applyEnv() error {
	setString(&c.HTTP.Port, "HTTP_PORT")
	setString(&c.HTTP.BasePath, "API_BASE_PATH")
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		c.HTTP.AllowedOrigins = splitList(v)
	}

	setString(&c.Database.URL, "DATABASE_URL")
	setString(&c.Database.Host, "DB_HOST")
	setString(&c.Database.User, "DB_USER")
	setString(&c.Database.Password, "DB_PASSWORD")
	setString(&c.Database.Name, "DB_NAME")
	setString(&c.Database.SSLMode, "DB_SSL_MODE")
	setString(&c.Database.MigrationsPath, "MIGRATIONS_PATH")
	setString(&c.Storage, "STORAGE")

	setString(&c.JWT.Secret, "JWT_SECRET_KEY")

	setString(&c.AI.Provider, "AI_PROVIDER")
	setString(&c.AI.APIKey, "ANTHROPIC_API_KEY")
	setString(&c.AI.Model, "AI_MODEL")
	setString(&c.AI.OllamaHost, "OLLAMA_HOST")

	setString(&c.Log.Level, "LOG_LEVEL")
	setString(&c.Log.Format, "LOG_FORMAT")

	var errs []error
	errs = append(errs,
		setInt(&c.Database.Port, "DB_PORT"),
		setInt64(&c.HTTP.MaxBodyBytes, "HTTP_MAX_BODY_BYTES"),
		setInt(&c.JWT.ExpirationHours, "JWT_EXPIRATION_HOURS"),
		setInt(&c.AI.MaxTokens, "AI_MAX_TOKENS"),
		setInt(&c.AI.TimeoutSeconds, "AI_TIMEOUT_SECONDS"),
		setBool(&c.AI.HeuristicFallback, "PARSER_HEURISTIC_FALLBACK"),
		setFloat(&c.Shield.Execute, "SHIELD_EXECUTE_THRESHOLD"),
		setFloat(&c.Shield.Suggest, "SHIELD_SUGGEST_THRESHOLD"),
		setFloat(&c.Shield.MinParsingConfidence, "SHIELD_MIN_PARSING_CONFIDENCE"),
	)

	var maxConns, minConns int
	errs = append(errs, setInt(&maxConns, "DB_MAX_CONNECTIONS"), setInt(&minConns, "DB_MIN_CONNECTIONS"))
	if maxConns > 0 {
		c.Database.MaxConnections = int32(maxConns)
	}
	if minConns > 0 {
		c.Database.MinConnections = int32(minConns)
	}

	return errors.Join(errs...)
}

// Validate verifica combinações inválidas de configuração
func (c *Config) Validate() error {
	switch c.Storage {
	case StoragePostgres, StorageMemory:
	default:
		return fmt.Errorf("STORAGE inválido: %q", c.Storage)
	}

	switch c.AI.Provider {
	case ProviderAnthropic, ProviderOllama:
	default:
		return fmt.Errorf("AI_PROVIDER inválido: %q", c.AI.Provider)
	}

	if c.HTTP.MaxBodyBytes <= 0 {
		return fmt.Errorf("HTTP_MAX_BODY_BYTES deve ser positivo")
	}

	s := c.Shield
	for _, v := range []float64{s.Execute, s.Suggest, s.MinParsingConfidence} {
		if v < 0 || v > 1 {
			return fmt.Errorf("limites do shield devem estar entre 0 e 1")
		}
	}
	if s.Execute > 0 && s.Suggest > s.Execute {
		return fmt.Errorf("o limite de sugestão (%.2f) não pode ser maior que o de execução (%.2f)", s.Suggest, s.Execute)
	}
	return nil
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s inválido: %w", key, err)
	}
	*dst = n
	return nil
}

func setInt64(dst *int64, key string) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fmt.Errorf("%s inválido: %w", key, err)
	}
	*dst = n
	return nil
}

func setFloat(dst *float64, key string) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("%s inválido: %w", key, err)
	}
	*dst = f
	return nil
}

func setBool(dst *bool, key string) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%s inválido: %w", key, err)
	}
	*dst = b
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
