package contract

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/lexyai/drafter/internal/entity"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	startStep    = "Starting generation"
	completeStep = "Contract ready"
)

type draftedSection struct {
	text  string
	usage entity.Usage
}

// generate drafts the contract section by section from the precedent outline.
// Any failure after the outline is resolved is recorded in the progress store
// before it is returned; there is no retry.
func (uc *ContractUsecase) generate(ctx context.Context, req *entity.GenerateContractRequest) (*entity.GenerateContractResponse, error) {
	c := req.Context

	outline, err := uc.resolver.Resolve(ctx, c.ContractTypeID, c.ContractTypeName, req.PrecedentOutline)
	if err != nil {
		if errors.Is(err, entity.ErrNoPrecedentSections) {
			uc.progressRepo.Fail(req.DraftID, err.Error())
		}
		return nil, fmt.Errorf("resolve outline: %w", err)
	}

	text, err := uc.draftContract(ctx, req, outline)
	if err != nil {
		uc.progressRepo.Fail(req.DraftID, err.Error())
		return nil, err
	}

	return &entity.GenerateContractResponse{
		DraftID:       req.DraftID,
		ContractText:  text,
		RevisionNotes: nil,
	}, nil
}

func (uc *ContractUsecase) draftContract(
	ctx context.Context,
	req *entity.GenerateContractRequest,
	outline *entity.PrecedentOutline,
) (string, error) {
	c := req.Context
	combined, _ := ApplyStandardDefaults(c.TemplateQuestions, MergeAnswers(c.FormAnswers, c.ChatAnswers))
	sectionContext := buildSectionContext(c, combined, formatChatHistory(req.Messages, uc.draftCfg.HistoryTurns), outline)

	total := len(outline.Sections)
	uc.progressRepo.Init(req.DraftID, total, startStep)

	ctxzap.Info(ctx, "drafting contract",
		zap.String("contract_type", c.ContractTypeName),
		zap.Int("sections", total),
		zap.Int("concurrency", uc.draftCfg.Concurrency),
	)

	var (
		drafted []draftedSection
		err     error
	)
	if uc.draftCfg.Concurrency > 1 {
		drafted, err = uc.draftParallel(ctx, req.DraftID, sectionContext, outline.Sections)
	} else {
		drafted, err = uc.draftSequential(ctx, req.DraftID, sectionContext, outline.Sections)
	}
	if err != nil {
		return "", err
	}

	var (
		totals   entity.UsageTotals
		sections = make([]string, 0, len(drafted))
	)
	for _, d := range drafted {
		totals.Add(d.usage)
		if d.text != "" {
			sections = append(sections, d.text)
		}
	}

	text := stitchContract(contractTitle(c, outline), outline.FrontMatter, sections)
	uc.logCost(ctx, totals, total)
	uc.progressRepo.Complete(req.DraftID, completeStep)

	return text, nil
}

// draftSequential reports each section as started before its completion call
// and as done after it.
func (uc *ContractUsecase) draftSequential(
	ctx context.Context,
	draftID string,
	sectionContext string,
	sections []entity.PrecedentSection,
) ([]draftedSection, error) {
	total := len(sections)
	drafted := make([]draftedSection, 0, total)
	for i, section := range sections {
		label := sectionLabel(section.Heading, i+1, total)
		uc.progressRepo.Update(draftID, i, total, label)

		d, err := uc.draftSection(ctx, sectionContext, section, i+1)
		if err != nil {
			return nil, err
		}
		drafted = append(drafted, d)

		uc.progressRepo.Update(draftID, i+1, total, label)
	}
	return drafted, nil
}

// draftParallel drafts up to Concurrency sections at once. Only completions
// are reported, so the completed count still only grows.
func (uc *ContractUsecase) draftParallel(
	ctx context.Context,
	draftID string,
	sectionContext string,
	sections []entity.PrecedentSection,
) ([]draftedSection, error) {
	total := len(sections)
	drafted := make([]draftedSection, total)

	var (
		mu        sync.Mutex
		completed int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.draftCfg.Concurrency)
	for i, section := range sections {
		g.Go(func() error {
			d, err := uc.draftSection(gctx, sectionContext, section, i+1)
			if err != nil {
				return err
			}
			drafted[i] = d

			mu.Lock()
			completed++
			uc.progressRepo.Update(draftID, completed, total, sectionLabel(section.Heading, i+1, total))
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return drafted, nil
}

func (uc *ContractUsecase) draftSection(
	ctx context.Context,
	sectionContext string,
	section entity.PrecedentSection,
	index int,
) (draftedSection, error) {
	text, usage, err := uc.completion.CompleteTextWithUsage(ctx, entity.CompletionRequest{
		Messages: []entity.ChatMessage{{
			Role:    entity.ChatRoleUser,
			Content: buildSectionPrompt(sectionContext, section),
		}},
		System:      SectionSystemPrompt,
		MaxTokens:   uc.draftCfg.SectionMaxTokens,
		Temperature: uc.draftCfg.SectionTemperature,
	})
	if err != nil {
		return draftedSection{}, fmt.Errorf("draft section %d (%s): %w", index, section.Heading, err)
	}

	ctxzap.Debug(ctx, "section drafted",
		zap.Int("section", index),
		zap.String("heading", section.Heading),
		zap.Int("output_tokens", usage.OutputTokens),
	)

	return draftedSection{
		text:  EnsureSectionHeading(text, section.Heading),
		usage: usage,
	}, nil
}

// EstimateCost prices input tokens at costPerMillion USD per million.
func EstimateCost(inputTokens int, costPerMillion float64) float64 {
	return float64(inputTokens) / 1_000_000 * costPerMillion
}

func (uc *ContractUsecase) logCost(ctx context.Context, totals entity.UsageTotals, sections int) {
	model := totals.Model
	if model == "" {
		model = uc.llmCfg.Model
	}
	ctxzap.Info(ctx, "generation cost",
		zap.String("model", model),
		zap.Int("sections", sections),
		zap.Int("input_tokens", totals.InputTokens),
		zap.Int("output_tokens", totals.OutputTokens),
		zap.Float64("cost_usd", EstimateCost(totals.InputTokens, uc.llmCfg.InputCostPerMillion)),
	)
}
