package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/lexyai/drafter/internal/config"
	"github.com/lexyai/drafter/internal/entity"
	"go.uber.org/zap"
)

// Connector is a chat completion service. System instructions travel
// separately from messages, and messages only carry user and assistant turns.
type Connector interface {
	CompleteText(ctx context.Context, req entity.CompletionRequest) (string, error)
	CompleteTextWithUsage(ctx context.Context, req entity.CompletionRequest) (string, entity.Usage, error)
}

// NewConnector picks the completion backend for the configured provider,
// or the mock when mocks are enabled.
func NewConnector(ctx context.Context, cfg config.LLMConnectorConfig, enableMocks bool, logger *zap.Logger) (Connector, error) {
	if enableMocks {
		return NewMockConnector(logger), nil
	}

	switch cfg.Provider {
	case config.ProviderAnthropic:
		return NewAnthropicConnector(cfg, logger), nil
	case config.ProviderOpenAI:
		return NewOpenAIConnector(cfg, logger), nil
	case config.ProviderGemini:
		return NewGeminiConnector(ctx, cfg, logger)
	default:
		return nil, fmt.Errorf("%w: %q", entity.ErrUnknownProvider, cfg.Provider)
	}
}

// CoerceMessages returns messages restricted to user and assistant roles.
func CoerceMessages(messages []entity.ChatMessage) []entity.ChatMessage {
	out := make([]entity.ChatMessage, 0, len(messages))
	for _, m := range messages {
		out = append(out, entity.ChatMessage{Role: m.Role.Coerced(), Content: m.Content})
	}
	return out
}

func modelOrDefault(requested, configured string) string {
	if m := strings.TrimSpace(requested); m != "" {
		return m
	}
	return configured
}

func completionError(provider string, err error) error {
	return fmt.Errorf("%w: %s: %w", entity.ErrCompletionFailed, provider, err)
}
