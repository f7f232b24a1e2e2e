package ai

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/ollama"

	"github.com/hrdesk/backend/internal/config"
)

// LangChainCompleter serves the providers reached through langchaingo:
// a local Ollama server or Anthropic.
type LangChainCompleter struct {
	llm       llms.Model
	maxTokens int
}

func NewLangChainCompleter(provider, model, baseURL, apiKey string, maxTokens int) (*LangChainCompleter, error) {
	var (
		llm llms.Model
		err error
	)

	switch provider {
	case config.ProviderOllama:
		opts := []ollama.Option{ollama.WithModel(model)}
		if baseURL != "" {
			opts = append(opts, ollama.WithServerURL(baseURL))
		}
		llm, err = ollama.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("create ollama model: %w", err)
		}

	case config.ProviderAnthropic:
		if apiKey == "" {
			return nil, fmt.Errorf("Anthropic API key required")
		}
		llm, err = anthropic.New(
			anthropic.WithToken(apiKey),
			anthropic.WithModel(model),
		)
		if err != nil {
			return nil, fmt.Errorf("create anthropic model: %w", err)
		}

	default:
		return nil, fmt.Errorf("unsupported langchain provider: %s", provider)
	}

	return &LangChainCompleter{llm: llm, maxTokens: maxTokens}, nil
}

func (c *LangChainCompleter) Complete(ctx context.Context, systemInstruction, userMessage string) (string, error) {
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, systemInstruction),
		llms.TextParts(llms.ChatMessageTypeHuman, userMessage),
	}

	var opts []llms.CallOption
	if c.maxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(c.maxTokens))
	}

	response, err := c.llm.GenerateContent(ctx, messages, opts...)
	if err != nil {
		return "", fmt.Errorf("generate with system: %w", err)
	}
	if len(response.Choices) == 0 {
		return "", fmt.Errorf("no response choices")
	}
	return response.Choices[0].Content, nil
}
