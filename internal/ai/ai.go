package ai

//go:generate mockgen -source=ai.go -destination=mocks/completer.go -package=mocks Completer

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/hrdesk/backend/internal/config"
	"github.com/hrdesk/backend/internal/models"
)

// Backend classifies a chat message and produces the reply text for it.
// Implementations never fail; problems are reported through Result.Failure.
type Backend interface {
	Name() string
	Respond(ctx context.Context, req models.ChatRequest, identity models.IdentityContext) Result
}

// Completer is a remote text-completion service.
type Completer interface {
	Complete(ctx context.Context, systemInstruction, userMessage string) (string, error)
}

type Failure int

const (
	FailureNone Failure = iota
	// FailureUnparseable: the backend replied, but not in the expected shape.
	FailureUnparseable
	// FailureUnavailable: transport, auth, rate limit or timeout failure.
	FailureUnavailable
	// FailureCanceled: the caller went away while the call was in flight.
	FailureCanceled
)

func (f Failure) String() string {
	switch f {
	case FailureNone:
		return "ok"
	case FailureUnparseable:
		return "unparseable"
	case FailureUnavailable:
		return "unavailable"
	case FailureCanceled:
		return "canceled"
	default:
		return fmt.Sprintf("failure(%d)", int(f))
	}
}

type Result struct {
	Intent   models.Intent
	Response string
	Failure  Failure
	Err      error
}

// NewBackend picks the chat backend once, at startup.
func NewBackend(ctx context.Context, cfg config.Config, logger zerolog.Logger) (Backend, error) {
	if !cfg.EnableLiveAI {
		return RuleEngine{}, nil
	}
	completer, err := NewCompleter(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return ReasoningBackend{
		Completer: completer,
		Provider:  cfg.AIProvider,
		Timeout:   cfg.AITimeout,
		Logger:    logger,
	}, nil
}

func NewCompleter(ctx context.Context, cfg config.Config) (Completer, error) {
	switch cfg.AIProvider {
	case config.ProviderOpenAI:
		return OpenAICompatAssistant{
			BaseURL:   cfg.AIBaseURL,
			Model:     cfg.Model(),
			APIKey:    cfg.AIAPIKey,
			MaxTokens: cfg.AIMaxTokens,
			JSONMode:  true,
		}, nil
	case config.ProviderGemini:
		return NewGeminiCompleter(ctx, cfg.AIAPIKey, cfg.Model(), cfg.AIMaxTokens)
	case config.ProviderOllama, config.ProviderAnthropic:
		return NewLangChainCompleter(cfg.AIProvider, cfg.Model(), cfg.AIBaseURL, cfg.AIAPIKey, cfg.AIMaxTokens)
	default:
		return nil, fmt.Errorf("unsupported AI provider: %q", cfg.AIProvider)
	}
}
