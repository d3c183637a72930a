// Package openai implements provider.Generator on top of the OpenAI chat
// completions API.
package openai

import (
	"context"
	"fmt"
	"strings"

	"github.com/casualjim/corvid/provider"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const defaultModel = "gpt-4o-mini"

type Generator struct {
	client *openai.Client
	model  string
}

// New creates a Generator backed by the OpenAI API. The API key is picked up
// from the environment by the underlying client unless overridden through
// request options.
func New(options ...option.RequestOption) *Generator {
	return &Generator{
		client: openai.NewClient(options...),
		model:  defaultModel,
	}
}

// WithModel overrides the model used for completions.
func (g *Generator) WithModel(model string) *Generator {
	g.model = model
	return g
}

func (g *Generator) Complete(ctx context.Context, prompt provider.Prompt) (string, error) {
	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if strings.TrimSpace(prompt.Instructions) != "" {
		msgs = append(msgs, openai.SystemMessage(prompt.Instructions))
	}
	input := prompt.Input
	if prompt.Context != nil {
		input = fmt.Sprintf("%s\n\nContext: %s", input, prompt.Context.String())
	}
	msgs = append(msgs, openai.UserMessage(input))

	chat, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages:    openai.F(msgs),
		Model:       openai.F(g.model),
		N:           openai.Int(1),
		Temperature: openai.Float(0.1),
	})
	if err != nil {
		return "", fmt.Errorf("completion failed: %w", err)
	}
	if len(chat.Choices) == 0 {
		return "", fmt.Errorf("completion returned no choices")
	}
	return chat.Choices[0].Message.Content, nil
}
