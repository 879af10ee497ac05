// Package chef asks a text model for Mozambican recipes and cooking tips.
package chef

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"deliciasmz/logging"
	"deliciasmz/metrics"

	"go.uber.org/zap"
)

const (
	MsgNoKey         = "Erro: Chave de API não configurada."
	MsgConnectFailed = "Desculpe, ocorreu um erro ao conectar com o Chef IA."
	MsgNoRecipe      = "Não foi possível gerar a receita. Tente novamente."
	MsgNoTip         = "Sem dicas no momento."
)

const recipePrompt = `Você é um chef especialista em culinária Moçambicana.
O usuário tem os seguintes ingredientes: %s.
Sugira uma receita autêntica ou criativa usando esses ingredientes com um toque moçambicano.
Por favor, formate a resposta em Markdown claro com:
- Título da Receita
- Pequena descrição
- Lista de Ingredientes
- Passo a passo`

const tipPrompt = `Dê uma dica curta e profissional de um segredo culinário para melhorar o prato moçambicano: "%s". Máximo de 2 frases.`

// ErrNoKey is returned by generators that were built without credentials.
var ErrNoKey = errors.New("chef: api key not configured")

// Generator sends one prompt to a text model and returns its answer.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Chef never fails: every problem degrades to a fixed message.
type Chef struct {
	gen Generator
	log *zap.Logger
}

// New builds a Chef. A nil generator answers every request with MsgNoKey.
func New(gen Generator, log *zap.Logger) *Chef {
	return &Chef{gen: gen, log: logging.OrNop(log)}
}

func (c *Chef) RecipeFromIngredients(ctx context.Context, ingredients string) string {
	return c.ask(ctx, "recipe", fmt.Sprintf(recipePrompt, strings.TrimSpace(ingredients)), MsgConnectFailed, MsgNoRecipe)
}

func (c *Chef) Tip(ctx context.Context, recipeTitle string) string {
	return c.ask(ctx, "tip", fmt.Sprintf(tipPrompt, strings.TrimSpace(recipeTitle)), MsgNoTip, MsgNoTip)
}

func (c *Chef) ask(ctx context.Context, kind, prompt, onError, onEmpty string) string {
	if c.gen == nil {
		metrics.ChefRequests.WithLabelValues(kind, "no_key").Inc()
		return MsgNoKey
	}
	text, err := c.gen.Generate(ctx, prompt)
	switch {
	case errors.Is(err, ErrNoKey):
		metrics.ChefRequests.WithLabelValues(kind, "no_key").Inc()
		return MsgNoKey
	case err != nil:
		c.log.Error("Chef request failed", zap.String("kind", kind), zap.Error(err))
		metrics.ChefRequests.WithLabelValues(kind, "error").Inc()
		return onError
	case strings.TrimSpace(text) == "":
		metrics.ChefRequests.WithLabelValues(kind, "empty").Inc()
		return onEmpty
	}
	metrics.ChefRequests.WithLabelValues(kind, "ok").Inc()
	return text
}
