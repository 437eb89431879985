package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/avast/retry-go/v4"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/lexyai/drafter/internal/config"
	"github.com/lexyai/drafter/internal/entity"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

// GeminiConnector uses the Gemini API through the genai SDK.
type GeminiConnector struct {
	config config.LLMConnectorConfig
	client *genai.Client
	logger *zap.Logger
}

func NewGeminiConnector(ctx context.Context, cfg config.LLMConnectorConfig, logger *zap.Logger) (*GeminiConnector, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.Url != "" {
		clientCfg.HTTPOptions.BaseURL = cfg.Url
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &GeminiConnector{
		config: cfg,
		client: client,
		logger: logger,
	}, nil
}

func (c *GeminiConnector) CompleteText(ctx context.Context, req entity.CompletionRequest) (string, error) {
	text, _, err := c.CompleteTextWithUsage(ctx, req)
	return text, err
}

func (c *GeminiConnector) CompleteTextWithUsage(ctx context.Context, req entity.CompletionRequest) (
	string, entity.Usage, error,
) {
	model := modelOrDefault(req.Model, c.config.Model)

	contents := make([]*genai.Content, 0, len(req.Messages))
	for _, m := range CoerceMessages(req.Messages) {
		var role genai.Role = genai.RoleUser
		if m.Role == entity.ChatRoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Content, role))
	}

	genCfg := &genai.GenerateContentConfig{
		MaxOutputTokens: int32(req.MaxTokens),
		Temperature:     genai.Ptr(float32(req.Temperature)),
	}
	if req.System != "" {
		genCfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}

	ctxzap.Debug(ctx, "requesting completion",
		zap.String("provider", config.ProviderGemini),
		zap.String("model", model),
		zap.Int("messages", len(contents)),
	)

	opts := append(c.config.Retry.ToRetryOptions(),
		retry.Context(ctx),
		retry.RetryIf(isGeminiRetryable),
		retry.OnRetry(func(attempt uint, err error) {
			ctxzap.Warn(ctx, "completion request failed, retrying",
				zap.String("provider", config.ProviderGemini),
				zap.Uint("attempt", attempt+1),
				zap.Error(err),
			)
		}),
	)

	resp, err := retry.DoWithData(func() (*genai.GenerateContentResponse, error) {
		return c.client.Models.GenerateContent(ctx, model, contents, genCfg)
	}, opts...)
	if err != nil {
		return "", entity.Usage{}, completionError(config.ProviderGemini, err)
	}
	if len(resp.Candidates) == 0 {
		return "", entity.Usage{}, completionError(config.ProviderGemini, entity.ErrEmptyCompletion)
	}

	usage := entity.Usage{Model: modelOrDefault(resp.ModelVersion, model)}
	if resp.UsageMetadata != nil {
		usage.InputTokens = int(resp.UsageMetadata.PromptTokenCount)
		usage.OutputTokens = int(resp.UsageMetadata.CandidatesTokenCount)
	}

	ctxzap.Info(ctx, "completion received",
		zap.String("model", usage.Model),
		zap.Int("input_tokens", usage.InputTokens),
		zap.Int("output_tokens", usage.OutputTokens),
	)

	return strings.TrimSpace(resp.Text()), usage, nil
}

// isGeminiRetryable retries transport failures, rate limiting and server
// errors. Other API errors such as a rejected key fail at once.
func isGeminiRetryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if code, ok := geminiStatusCode(err); ok {
		return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
	}
	return true
}

func geminiStatusCode(err error) (int, bool) {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code, true
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return apiErrPtr.Code, true
	}
	return 0, false
}
