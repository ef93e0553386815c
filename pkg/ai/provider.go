// Package ai contém os provedores de geração de texto usados para traduzir
// comandos em linguagem natural para ações, e o montador do prompt.
package ai

import (
	"context"
	"errors"
)

// ErrMissingAPIKey indica que o provedor exige uma chave que não foi configurada
var ErrMissingAPIKey = errors.New("chave da API do provedor não configurada")

// Prompt é a entrada de uma geração: instruções de sistema e o texto do usuário
type Prompt struct {
	System string
	User   string
}

// Provider gera texto a partir de um prompt. Uma resposta sem texto não é erro:
// Generate devolve "" e quem interpreta decide o que fazer.
type Provider interface {
	Generate(ctx context.Context, p Prompt) (string, error)
	Name() string
}
