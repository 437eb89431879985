package llm

import (
	"context"
	"strings"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/lexyai/drafter/internal/config"
	"github.com/lexyai/drafter/internal/entity"
	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.uber.org/zap"
)

// OpenAIConnector uses the chat completions endpoint of openai-go.
// Retries are left to the SDK.
type OpenAIConnector struct {
	config config.LLMConnectorConfig
	client openai.Client
	logger *zap.Logger
}

func NewOpenAIConnector(cfg config.LLMConnectorConfig, logger *zap.Logger) *OpenAIConnector {
	maxRetries := 0
	if cfg.Retry.Attempts > 1 {
		maxRetries = int(cfg.Retry.Attempts) - 1
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(maxRetries),
	}
	if cfg.Url != "" {
		opts = append(opts, option.WithBaseURL(cfg.Url))
	}
	if cfg.RequestTimeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.RequestTimeout))
	}

	return &OpenAIConnector{
		config: cfg,
		client: openai.NewClient(opts...),
		logger: logger,
	}
}

func (c *OpenAIConnector) CompleteText(ctx context.Context, req entity.CompletionRequest) (string, error) {
	text, _, err := c.CompleteTextWithUsage(ctx, req)
	return text, err
}

func (c *OpenAIConnector) CompleteTextWithUsage(ctx context.Context, req entity.CompletionRequest) (
	string, entity.Usage, error,
) {
	model := modelOrDefault(req.Model, c.config.Model)

	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages)+1)
	if req.System != "" {
		msgs = append(msgs, openai.SystemMessage(req.System))
	}
	for _, m := range CoerceMessages(req.Messages) {
		switch m.Role {
		case entity.ChatRoleAssistant:
			msgs = append(msgs, openai.ChatCompletionMessageParamOfAssistant(m.Content))
		default:
			msgs = append(msgs, openai.UserMessage(m.Content))
		}
	}

	ctxzap.Debug(ctx, "requesting completion",
		zap.String("provider", config.ProviderOpenAI),
		zap.String("model", model),
		zap.Int("messages", len(msgs)),
	)

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(model),
		Messages:    msgs,
		MaxTokens:   openai.Int(int64(req.MaxTokens)),
		Temperature: openai.Float(req.Temperature),
	})
	if err != nil {
		return "", entity.Usage{}, completionError(config.ProviderOpenAI, err)
	}
	if len(resp.Choices) == 0 {
		return "", entity.Usage{}, completionError(config.ProviderOpenAI, entity.ErrEmptyCompletion)
	}

	usage := entity.Usage{
		InputTokens:  int(resp.Usage.PromptTokens),
		OutputTokens: int(resp.Usage.CompletionTokens),
		Model:        modelOrDefault(resp.Model, model),
	}

	ctxzap.Info(ctx, "completion received",
		zap.String("model", usage.Model),
		zap.Int("input_tokens", usage.InputTokens),
		zap.Int("output_tokens", usage.OutputTokens),
	)

	return strings.TrimSpace(resp.Choices[0].Message.Content), usage, nil
}
