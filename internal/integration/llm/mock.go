package llm

import (
	"context"
	"regexp"
	"strings"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/lexyai/drafter/internal/entity"
	"go.uber.org/zap"
)

const (
	MockModel    = "mock"
	MockQuestion = "Who are the parties to this agreement, and what are their full legal names?"
)

var mockHeadingRe = regexp.MustCompile(`(?m)^- Heading: (.+)$`)

// MockConnector is a deterministic completion backend for local runs and tests.
// Section prompts get a placeholder section under their heading, every other
// prompt gets the same clarifying question.
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
	}
}

func (m *MockConnector) CompleteText(ctx context.Context, req entity.CompletionRequest) (string, error) {
	text, _, err := m.CompleteTextWithUsage(ctx, req)
	return text, err
}

func (m *MockConnector) CompleteTextWithUsage(ctx context.Context, req entity.CompletionRequest) (
	string, entity.Usage, error,
) {
	ctxzap.Info(ctx, "[MOCK] completing text", zap.Int("messages", len(req.Messages)))

	if err := ctx.Err(); err != nil {
		return "", entity.Usage{}, completionError(MockModel, err)
	}

	var prompt string
	inputWords := len(strings.Fields(req.System))
	for _, msg := range req.Messages {
		inputWords += len(strings.Fields(msg.Content))
		prompt = msg.Content
	}

	reply := MockQuestion
	if match := mockHeadingRe.FindStringSubmatch(prompt); match != nil {
		heading := strings.TrimSpace(match[1])
		reply = heading + "\n\nThis section has been drafted from the precedent and the details provided. [MOCK]"
	}

	usage := entity.Usage{
		InputTokens:  inputWords,
		OutputTokens: len(strings.Fields(reply)),
		Model:        modelOrDefault(req.Model, MockModel),
	}

	ctxzap.Info(ctx, "[MOCK] completion generated", zap.Int("result_length", len(reply)))
	return reply, usage, nil
}
