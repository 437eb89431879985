package contract

import (
	"context"
	"sync"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/lexyai/drafter/internal/config"
	"github.com/lexyai/drafter/internal/entity"
	"github.com/lexyai/drafter/internal/pkg/logger"
	"github.com/lexyai/drafter/internal/repository"
	"go.uber.org/zap"
)

// ContractUsecase runs the chat advisor and the drafting pipeline
type ContractUsecase struct {
	completion   CompletionConnector
	resolver     OutlineResolver
	progressRepo repository.ProgressRepository
	callback     CallbackConnector
	draftCfg     config.DraftConfig
	llmCfg       config.LLMConnectorConfig
	logger       *zap.Logger

	background sync.WaitGroup
}

// NewUsecase creates a new contract use case
func NewUsecase(
	completion CompletionConnector,
	resolver OutlineResolver,
	progressRepo repository.ProgressRepository,
	callback CallbackConnector,
	draftCfg config.DraftConfig,
	llmCfg config.LLMConnectorConfig,
	logger *zap.Logger,
) *ContractUsecase {
	return &ContractUsecase{
		completion:   completion,
		resolver:     resolver,
		progressRepo: progressRepo,
		callback:     callback,
		draftCfg:     draftCfg,
		llmCfg:       llmCfg,
		logger:       logger,
	}
}

// GetProgress returns the generation progress of a draft, idle when unknown
func (uc *ContractUsecase) GetProgress(_ context.Context, draftID string) *entity.Progress {
	return uc.progressRepo.Snapshot(draftID)
}

type generateResult struct {
	resp *entity.GenerateContractResponse
	err  error
}

// Generate drafts the contract and waits for the result. The draft runs
// detached from ctx: when ctx ends first only the wait is abandoned, and the
// draft still reaches completed or failed in the progress store.
func (uc *ContractUsecase) Generate(ctx context.Context, req *entity.GenerateContractRequest) (*entity.GenerateContractResponse, error) {
	runCtx := logger.Detached(ctx, zap.String("draft_id", req.DraftID))
	done := make(chan generateResult, 1)

	uc.background.Add(1)
	go func() {
		defer uc.background.Done()
		resp, err := uc.generate(runCtx, req)
		done <- generateResult{resp: resp, err: err}
	}()

	select {
	case res := <-done:
		return res.resp, res.err
	case <-ctx.Done():
		ctxzap.Warn(ctx, "caller left before the draft finished, drafting continues", zap.Error(ctx.Err()))
		return nil, ctx.Err()
	}
}

// GenerateAsync drafts the contract in the background and reports the result
// to the callback URL. Progress can be polled meanwhile.
func (uc *ContractUsecase) GenerateAsync(ctx context.Context, req *entity.GenerateContractRequest) {
	bgCtx := logger.Detached(ctx,
		zap.String("draft_id", req.DraftID),
		zap.Bool("async", true),
	)

	uc.background.Add(1)
	go func() {
		defer uc.background.Done()

		resp, err := uc.generate(bgCtx, req)
		if err != nil {
			ctxzap.Error(bgCtx, "background generation failed", zap.Error(err))
			uc.callback.SendError(bgCtx, req.CallbackURL, req.DraftID, err.Error(), map[string]any{
				"draft_id":      req.DraftID,
				"contract_type": req.Context.ContractTypeName,
				"progress":      uc.progressRepo.Snapshot(req.DraftID),
			})
			return
		}

		uc.callback.SendContract(bgCtx, req.CallbackURL, req.DraftID, resp)
	}()
}

// Wait blocks until background generations finish or ctx is done.
func (uc *ContractUsecase) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		uc.background.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
