package ai

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"

	"github.com/hugohenrick/tarefas-ia/pkg/logger"
)

// OllamaConfig configura o OllamaProvider
type OllamaConfig struct {
	Host      string
	Model     string
	MaxTokens int
	Timeout   time.Duration
}

// OllamaProvider gera texto com um servidor Ollama local
type OllamaProvider struct {
	cfg    OllamaConfig
	client *api.Client
	logger logger.Logger
}

// NewOllamaProvider cria o provedor para o host informado
func NewOllamaProvider(cfg OllamaConfig, log logger.Logger) (*OllamaProvider, error) {
	if cfg.Host == "" {
		cfg.Host = "http://localhost:11434"
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("modelo do Ollama não configurado")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 120 * time.Second
	}
	if log == nil {
		log = logger.NewNop()
	}

	base, err := url.Parse(cfg.Host)
	if err != nil {
		return nil, fmt.Errorf("host do Ollama inválido: %w", err)
	}

	return &OllamaProvider{
		cfg:    cfg,
		client: api.NewClient(base, &http.Client{Timeout: cfg.Timeout}),
		logger: log,
	}, nil
}

func (o *OllamaProvider) Name() string { return "ollama" }

// Generate faz uma geração sem streaming
func (o *OllamaProvider) Generate(ctx context.Context, p Prompt) (string, error) {
	stream := false
	req := &api.GenerateRequest{
		Model:  o.cfg.Model,
		Prompt: p.User,
		System: p.System,
		Stream: &stream,
	}
	if o.cfg.MaxTokens > 0 {
		req.Options = map[string]any{"num_predict": o.cfg.MaxTokens}
	}

	start := time.Now()
	var sb strings.Builder
	err := o.client.Generate(ctx, req, func(resp api.GenerateResponse) error {
		sb.WriteString(resp.Response)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("erro na chamada do Ollama: %w", err)
	}
	if strings.TrimSpace(sb.String()) == "" {
		o.logger.Warn("resposta sem texto", "provider", o.Name(), "model", o.cfg.Model)
	}

	o.logger.Info("resposta gerada",
		"provider", o.Name(),
		"model", o.cfg.Model,
		"latency_ms", time.Since(start).Milliseconds())

	return sb.String(), nil
}
