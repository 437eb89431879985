package contract

import (
	"context"
	"fmt"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/lexyai/drafter/internal/entity"
	"go.uber.org/zap"
)

// AnswerChat produces the next assistant turn. While required details are
// missing it asks the completion service for one clarifying question; once
// everything is known it answers locally with the ready message.
func (uc *ContractUsecase) AnswerChat(ctx context.Context, req *entity.ContractChatRequest) (*entity.ContractChatResponse, error) {
	c := req.Context

	combined, defaults := ApplyStandardDefaults(c.TemplateQuestions, MergeAnswers(c.FormAnswers, c.ChatAnswers))

	updated := make(entity.AnswerSet, len(c.ChatAnswers)+len(defaults)+1)
	for key, value := range c.ChatAnswers {
		updated[key] = value
	}
	for key, value := range defaults {
		updated[key] = value
	}

	state := ComputeAnswerState(c.TemplateQuestions, combined)

	ctxzap.Info(ctx, "answering chat turn",
		zap.Int("answered", len(state.AnsweredLines)),
		zap.Int("missing_required", len(state.MissingRequired)),
		zap.Int("defaults_applied", len(defaults)),
	)

	if state.Ready() {
		reply := ReadyMessage
		if !truthy(c.ChatAnswers[entity.ReadySummaryFlag]) {
			if summary := buildReadySummary(state.AnsweredLines); summary != "" {
				reply = summary + "\n\n" + ReadyMessage
				updated[entity.ReadySummaryFlag] = true
			}
		}
		return &entity.ContractChatResponse{
			DraftID:            req.DraftID,
			AssistantMessage:   reply,
			UpdatedChatAnswers: updated,
		}, nil
	}

	reply, err := uc.completion.CompleteText(ctx, entity.CompletionRequest{
		Messages:    buildChatMessages(buildChatContext(c, state), req.Messages),
		System:      ChatSystemPrompt,
		MaxTokens:   uc.draftCfg.ChatMaxTokens,
		Temperature: uc.draftCfg.ChatTemperature,
	})
	if err != nil {
		return nil, fmt.Errorf("complete chat turn: %w", err)
	}

	return &entity.ContractChatResponse{
		DraftID:            req.DraftID,
		AssistantMessage:   withWelcome(req.Messages, reply),
		UpdatedChatAnswers: updated,
	}, nil
}
