package llm

import (
	"context"
	"net/http"
	"strings"

	"github.com/avast/retry-go/v4"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/lexyai/drafter/internal/config"
	"github.com/lexyai/drafter/internal/entity"
	"github.com/lexyai/drafter/internal/integration/common"
	pkghttp "github.com/lexyai/drafter/pkg/http"
	"go.uber.org/zap"
)

const messagesEndpoint = "/messages"

// AnthropicConnector talks to the Anthropic Messages API.
type AnthropicConnector struct {
	config    config.LLMConnectorConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewAnthropicConnector(
	cfg config.LLMConnectorConfig,
	logger *zap.Logger,
) *AnthropicConnector {
	return &AnthropicConnector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger,
			pkghttp.WithAuthHeader("x-api-key", cfg.APIKey),
		),
		config: cfg,
		logger: logger,
	}
}

func (c *AnthropicConnector) CompleteText(ctx context.Context, req entity.CompletionRequest) (string, error) {
	text, _, err := c.CompleteTextWithUsage(ctx, req)
	return text, err
}

// CompleteTextWithUsage sends one Messages request, retrying network failures,
// rate limits and server errors.
func (c *AnthropicConnector) CompleteTextWithUsage(ctx context.Context, req entity.CompletionRequest) (
	string, entity.Usage, error,
) {
	body := entity.AnthropicMessagesRequest{
		Model:       modelOrDefault(req.Model, c.config.Model),
		MaxTokens:   req.MaxTokens,
		System:      req.System,
		Messages:    make([]entity.AnthropicMessage, 0, len(req.Messages)),
		Temperature: req.Temperature,
	}
	for _, m := range CoerceMessages(req.Messages) {
		body.Messages = append(body.Messages, entity.AnthropicMessage{Role: string(m.Role), Content: m.Content})
	}

	ctxzap.Debug(ctx, "requesting completion",
		zap.String("provider", config.ProviderAnthropic),
		zap.String("model", body.Model),
		zap.Int("messages", len(body.Messages)),
		zap.Int("max_tokens", body.MaxTokens),
	)

	opts := append(c.config.Retry.ToRetryOptions(),
		retry.Context(ctx),
		retry.RetryIf(pkghttp.IsRetryable),
		retry.OnRetry(func(attempt uint, err error) {
			ctxzap.Warn(ctx, "completion request failed, retrying",
				zap.String("provider", config.ProviderAnthropic),
				zap.Uint("attempt", attempt+1),
				zap.Error(err),
			)
		}),
	)

	resp, err := retry.DoWithData(func() (*entity.AnthropicMessagesResponse, error) {
		var resp entity.AnthropicMessagesResponse
		err := c.connector.DoRequest(ctx, http.MethodPost, messagesEndpoint, body, &resp,
			pkghttp.WithHeader("anthropic-version", c.config.AnthropicVersion),
		)
		if err != nil {
			return nil, err
		}
		return &resp, nil
	}, opts...)
	if err != nil {
		return "", entity.Usage{}, completionError(config.ProviderAnthropic, err)
	}

	var parts []string
	for _, block := range resp.Content {
		if block.Type == "text" {
			parts = append(parts, block.Text)
		}
	}
	text := strings.TrimSpace(strings.Join(parts, ""))

	usage := entity.Usage{
		InputTokens:  resp.Usage.InputTokens,
		OutputTokens: resp.Usage.OutputTokens,
		Model:        modelOrDefault(resp.Model, body.Model),
	}

	ctxzap.Info(ctx, "completion received",
		zap.String("model", usage.Model),
		zap.String("stop_reason", resp.StopReason),
		zap.Int("input_tokens", usage.InputTokens),
		zap.Int("output_tokens", usage.OutputTokens),
	)

	return text, usage, nil
}
