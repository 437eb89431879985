package contract

import (
	"context"

	"github.com/lexyai/drafter/internal/entity"
)

type ContractUsecase interface {
	AnswerChat(ctx context.Context, req *entity.ContractChatRequest) (*entity.ContractChatResponse, error)
	Generate(ctx context.Context, req *entity.GenerateContractRequest) (*entity.GenerateContractResponse, error)
	GenerateAsync(ctx context.Context, req *entity.GenerateContractRequest)
	GetProgress(ctx context.Context, draftID string) *entity.Progress
}
