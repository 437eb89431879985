package contract

import (
	"context"

	"github.com/lexyai/drafter/internal/entity"
)

type CompletionConnector interface {
	CompleteText(ctx context.Context, req entity.CompletionRequest) (string, error)
	CompleteTextWithUsage(ctx context.Context, req entity.CompletionRequest) (string, entity.Usage, error)
}

type OutlineResolver interface {
	Resolve(ctx context.Context, contractTypeID, contractTypeName string, prefetched *entity.PrecedentOutline) (*entity.PrecedentOutline, error)
}

type CallbackConnector interface {
	SendContract(ctx context.Context, callbackURL string, draftID string, data *entity.GenerateContractResponse)
	SendError(ctx context.Context, callbackURL string, draftID string, message string, details map[string]any)
}
