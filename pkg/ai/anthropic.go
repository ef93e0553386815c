package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hugohenrick/tarefas-ia/pkg/logger"
)

const (
	anthropicAPIEndpoint = "https://api.anthropic.com/v1/messages"
	anthropicVersion     = "2023-06-01"
	defaultModel         = "claude-3-5-haiku-latest"
	defaultMaxTokens     = 2048
)

// AnthropicConfig configura o AnthropicProvider
type AnthropicConfig struct {
	APIKey    string
	Model     string
	MaxTokens int
	Timeout   time.Duration
	// Endpoint substitui a URL da API (usado em testes)
	Endpoint string
}

// AnthropicProvider chama a Messages API da Anthropic
type AnthropicProvider struct {
	cfg    AnthropicConfig
	client *http.Client
	logger logger.Logger
}

// Message representa uma mensagem da conversa enviada para a API
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messageRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []Message `json:"messages"`
	System    string    `json:"system,omitempty"`
}

type messageResponse struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Role    string `json:"role"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Model      string `json:"model"`
	StopReason string `json:"stop_reason"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

type errorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// NewAnthropicProvider cria o provedor; a chave da API é obrigatória
func NewAnthropicProvider(cfg AnthropicConfig, log logger.Logger) (*AnthropicProvider, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = defaultMaxTokens
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = anthropicAPIEndpoint
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if log == nil {
		log = logger.NewNop()
	}

	return &AnthropicProvider{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: log,
	}, nil
}

func (a *AnthropicProvider) Name() string { return "anthropic" }

// Generate envia o prompt e concatena os blocos de texto da resposta
func (a *AnthropicProvider) Generate(ctx context.Context, p Prompt) (string, error) {
	reqBody := messageRequest{
		Model:     a.cfg.Model,
		MaxTokens: a.cfg.MaxTokens,
		Messages:  []Message{{Role: "user", Content: p.User}},
		System:    p.System,
	}

	reqJSON, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("erro ao serializar requisição: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.cfg.Endpoint, bytes.NewReader(reqJSON))
	if err != nil {
		return "", fmt.Errorf("erro ao criar requisição HTTP: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", a.cfg.APIKey)
	req.Header.Set("anthropic-version", anthropicVersion)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("erro na chamada da API: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("erro ao ler resposta: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr errorResponse
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error.Message != "" {
			return "", fmt.Errorf("API retornou %s: %s", resp.Status, apiErr.Error.Message)
		}
		return "", fmt.Errorf("API retornou %s", resp.Status)
	}

	var apiResp messageResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return "", fmt.Errorf("erro ao deserializar resposta: %w", err)
	}

	var sb strings.Builder
	for _, content := range apiResp.Content {
		if content.Type == "text" {
			sb.WriteString(content.Text)
		}
	}
	if sb.Len() == 0 {
		a.logger.Warn("resposta sem texto", "provider", a.Name(), "model", apiResp.Model, "stop_reason", apiResp.StopReason)
	}

	a.logger.Info("resposta gerada",
		"provider", a.Name(),
		"model", apiResp.Model,
		"latency_ms", time.Since(start).Milliseconds(),
		"input_tokens", apiResp.Usage.InputTokens,
		"output_tokens", apiResp.Usage.OutputTokens)

	return sb.String(), nil
}
